package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Stored room status. Occupancy-derived status lives in the occupancy package.
const (
	StatusOccupied         = "occupied"
	StatusVacant           = "vacant"
	StatusUnderMaintenance = "under_maintenance"
)

// Room is a rentable unit with a fixed bed capacity.
type Room struct {
	ID         snowflake.ID `json:"id" gorm:"primaryKey"`
	OwnerID    snowflake.ID `json:"owner_id" gorm:"column:owner_id;not null;uniqueIndex:ux_rooms_owner_number,priority:1"`
	RoomNumber string       `json:"room_number" gorm:"type:text;not null;uniqueIndex:ux_rooms_owner_number,priority:2"`
	RoomType   string       `json:"room_type" gorm:"type:text;not null"`
	RentPaise  int64        `json:"rent_paise" gorm:"not null"`
	Capacity   int          `json:"capacity" gorm:"not null;default:1"`
	Floor      *int         `json:"floor,omitempty"`
	Status     string       `json:"status" gorm:"type:text;not null;default:vacant"`
	CreatedAt  time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Room) TableName() string { return "rooms" }

// EditHistory records a room mutation with the before/after values per field.
type EditHistory struct {
	ID       snowflake.ID `json:"id" gorm:"primaryKey"`
	OwnerID  snowflake.ID `json:"owner_id" gorm:"column:owner_id;not null;index"`
	RoomID   snowflake.ID `json:"room_id" gorm:"not null;index"`
	EditedBy string       `json:"edited_by" gorm:"type:text;not null"`
	// Changes maps field name to {"old": ..., "new": ...}.
	Changes   datatypes.JSONMap `json:"changes" gorm:"not null"`
	CreatedAt time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (EditHistory) TableName() string { return "room_edit_history" }

// ValidStatus reports whether the stored status value is known.
func ValidStatus(status string) bool {
	switch status {
	case StatusOccupied, StatusVacant, StatusUnderMaintenance:
		return true
	}
	return false
}
