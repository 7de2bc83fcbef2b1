package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Complaint priority.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Complaint status. Transitions only move forward: open, in_progress,
// resolved.
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
)

// Complaint is a maintenance or service issue raised for a room or tenant.
type Complaint struct {
	ID       snowflake.ID  `json:"id" gorm:"primaryKey"`
	OwnerID  snowflake.ID  `json:"owner_id" gorm:"column:owner_id;not null;index"`
	TenantID *snowflake.ID `json:"tenant_id,omitempty" gorm:"index"`
	RoomID   *snowflake.ID `json:"room_id,omitempty" gorm:"index"`

	Title       string `json:"title" gorm:"type:text;not null"`
	Description string `json:"description" gorm:"type:text;not null"`
	Priority    string `json:"priority" gorm:"type:text;not null;default:medium"`
	Status      string `json:"status" gorm:"type:text;not null;default:open;index"`

	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time  `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Complaint) TableName() string { return "complaints" }

// ValidPriority reports whether the priority value is known.
func ValidPriority(priority string) bool {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ValidStatus reports whether the status value is known.
func ValidStatus(status string) bool {
	switch status {
	case StatusOpen, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// CanTransition reports whether a status change is a legal forward move.
func CanTransition(from, to string) bool {
	switch from {
	case StatusOpen:
		return to == StatusInProgress || to == StatusResolved
	case StatusInProgress:
		return to == StatusResolved
	}
	return false
}
