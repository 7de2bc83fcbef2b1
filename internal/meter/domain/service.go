package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	CreateMeter(ctx context.Context, req CreateMeterRequest) (*MeterResponse, error)
	ListMeters(ctx context.Context) ([]MeterResponse, error)
	GetMeter(ctx context.Context, id string) (*MeterResponse, error)

	AddReading(ctx context.Context, req AddReadingRequest) (*ReadingResponse, error)
	Readings(ctx context.Context, meterID string) ([]ReadingResponse, error)
	Summary(ctx context.Context, meterID string) (*SummaryResponse, error)
}

type CreateMeterRequest struct {
	RoomID          string  `json:"room_id"`
	MeterNumber     string  `json:"meter_number"`
	StartingReading float64 `json:"starting_reading"`
}

type AddReadingRequest struct {
	MeterID      string     `json:"meter_id"`
	ReadingValue float64    `json:"reading_value"`
	ReadingDate  *time.Time `json:"reading_date,omitempty"`
	RecordedBy   string     `json:"recorded_by"`
}

type MeterResponse struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"owner_id"`
	RoomID          string    `json:"room_id"`
	MeterNumber     string    `json:"meter_number"`
	StartingReading float64   `json:"starting_reading"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type ReadingResponse struct {
	ID      string `json:"id"`
	MeterID string `json:"meter_id"`

	ReadingValue float64   `json:"reading_value"`
	ReadingDate  time.Time `json:"reading_date"`

	UnitsConsumed float64 `json:"units_consumed"`
	BillPaise     int64   `json:"bill_paise"`

	RecordedBy string    `json:"recorded_by"`
	RecordedAt time.Time `json:"recorded_at"`
}

type SummaryResponse struct {
	MeterID        string  `json:"meter_id"`
	MeterNumber    string  `json:"meter_number"`
	CurrentReading float64 `json:"current_reading"`
	TotalUnits     float64 `json:"total_units"`
	TotalBillPaise int64   `json:"total_bill_paise"`
	ReadingCount   int     `json:"reading_count"`
}

var (
	ErrInvalidOwner       = errors.New("invalid_owner")
	ErrInvalidID          = errors.New("invalid_id")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidMeterNumber = errors.New("invalid_meter_number")
	ErrMeterNumberTaken   = errors.New("meter_number_taken")
	ErrInvalidRoom        = errors.New("invalid_room")
	ErrRoomNotFound       = errors.New("room_not_found")
	ErrInvalidStarting    = errors.New("invalid_starting_reading")

	ErrInvalidValue      = errors.New("invalid_reading_value")
	ErrNonMonotonicValue = errors.New("non_monotonic_reading_value")
	ErrNonMonotonicDate  = errors.New("non_monotonic_reading_date")

	ErrRateLimited = errors.New("rate_limited")
	ErrMeterBusy   = errors.New("meter_busy")
)

func ParseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(value)
}
