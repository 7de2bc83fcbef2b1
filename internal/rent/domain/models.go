package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// RentRecord is the persisted snapshot of one reconciled tenant-month.
// Reconciliation over live tenants, rooms, and payments is authoritative;
// this table is a refreshable cache kept for reporting queries.
type RentRecord struct {
	ID      snowflake.ID `json:"id" gorm:"primaryKey"`
	OwnerID snowflake.ID `json:"owner_id" gorm:"column:owner_id;not null;index:ix_rent_records_owner_month,priority:1"`

	TenantID   snowflake.ID `json:"tenant_id" gorm:"not null"`
	TenantName string       `json:"tenant_name" gorm:"type:text;not null"`
	RoomID     snowflake.ID `json:"room_id" gorm:"not null"`
	RoomNumber string       `json:"room_number" gorm:"type:text;not null"`

	Month    time.Time `json:"month" gorm:"not null;index:ix_rent_records_owner_month,priority:2"`
	DuePaise int64     `json:"due_paise" gorm:"not null"`
	DueDate  time.Time `json:"due_date" gorm:"not null"`
	Status   string    `json:"status" gorm:"type:text;not null"`

	PaymentID *snowflake.ID `json:"payment_id,omitempty"`
	PaidPaise int64         `json:"paid_paise" gorm:"not null;default:0"`
	PaidDate  *time.Time    `json:"paid_date,omitempty"`

	GeneratedAt time.Time `json:"generated_at" gorm:"not null"`
}

// TableName sets the database table name.
func (RentRecord) TableName() string { return "rent_records" }
