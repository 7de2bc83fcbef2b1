package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Meter is one electricity meter attached to a room.
type Meter struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	OwnerID     snowflake.ID `json:"owner_id" gorm:"column:owner_id;not null;uniqueIndex:ux_meters_owner_number,priority:1"`
	RoomID      snowflake.ID `json:"room_id" gorm:"not null;index"`
	MeterNumber string       `json:"meter_number" gorm:"type:text;not null;uniqueIndex:ux_meters_owner_number,priority:2"`
	// StartingReading is the meter's value at installation. The first
	// reading bills against it.
	StartingReading float64   `json:"starting_reading" gorm:"not null;default:0"`
	CreatedAt       time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Meter) TableName() string { return "meters" }

// Reading is one append-only meter reading with its derived billing.
// Prior rows are never mutated.
type Reading struct {
	ID      snowflake.ID `json:"id" gorm:"primaryKey"`
	OwnerID snowflake.ID `json:"owner_id" gorm:"column:owner_id;not null;index"`
	MeterID snowflake.ID `json:"meter_id" gorm:"not null;index:ix_meter_readings_meter_date,priority:1"`

	ReadingValue float64   `json:"reading_value" gorm:"not null"`
	ReadingDate  time.Time `json:"reading_date" gorm:"not null;index:ix_meter_readings_meter_date,priority:2"`

	UnitsConsumed float64 `json:"units_consumed" gorm:"not null"`
	BillPaise     int64   `json:"bill_paise" gorm:"not null"`

	RecordedBy string    `json:"recorded_by" gorm:"type:text;not null"`
	RecordedAt time.Time `json:"recorded_at" gorm:"not null"`
}

// TableName sets the database table name.
func (Reading) TableName() string { return "meter_readings" }
