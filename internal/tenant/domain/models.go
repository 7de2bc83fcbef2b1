package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Tenant lifecycle status.
const (
	StatusActive       = "active"
	StatusNoticePeriod = "notice_period"
	StatusCheckedOut   = "checked_out"
)

// Tenant is a paying guest occupying a bed in a room.
type Tenant struct {
	ID       snowflake.ID  `json:"id" gorm:"primaryKey"`
	OwnerID  snowflake.ID  `json:"owner_id" gorm:"column:owner_id;not null;index"`
	RoomID   *snowflake.ID `json:"room_id,omitempty" gorm:"index"`
	FullName string        `json:"full_name" gorm:"type:text;not null"`
	Email    string        `json:"email" gorm:"type:text"`
	Phone    string        `json:"phone" gorm:"type:text;not null"`

	JoinDate     time.Time  `json:"join_date" gorm:"not null"`
	CheckInDate  *time.Time `json:"check_in_date,omitempty"`
	CheckOutDate *time.Time `json:"check_out_date,omitempty"`

	Status string `json:"status" gorm:"type:text;not null;default:active;index"`

	DepositPaise    int64 `json:"deposit_paise" gorm:"not null;default:0"`
	DepositRefunded bool  `json:"deposit_refunded" gorm:"not null;default:false"`

	IDProofURL   *string `json:"id_proof_url,omitempty" gorm:"type:text"`
	AgreementURL *string `json:"agreement_url,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Tenant) TableName() string { return "tenants" }

// OccupyingStatuses lists statuses that hold a bed.
func OccupyingStatuses() []string {
	return []string{StatusActive, StatusNoticePeriod}
}

// ValidStatus reports whether the status value is known.
func ValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusNoticePeriod, StatusCheckedOut:
		return true
	}
	return false
}
