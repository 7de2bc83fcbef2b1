package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Response, error)
	List(ctx context.Context) ([]Response, error)
	History(ctx context.Context, id string) ([]EditHistory, error)
}

type CreateRequest struct {
	RoomNumber string `json:"room_number"`
	RoomType   string `json:"room_type"`
	RentPaise  int64  `json:"rent_paise"`
	Capacity   int    `json:"capacity"`
	Floor      *int   `json:"floor,omitempty"`
	Status     string `json:"status,omitempty"`
}

type UpdateRequest struct {
	ID         string  `json:"id"`
	RoomType   *string `json:"room_type,omitempty"`
	RentPaise  *int64  `json:"rent_paise,omitempty"`
	Capacity   *int    `json:"capacity,omitempty"`
	Floor      *int    `json:"floor,omitempty"`
	Status     *string `json:"status,omitempty"`
	EditedBy   string  `json:"edited_by"`
	RoomNumber *string `json:"room_number,omitempty"`
}

type Response struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	RoomNumber    string    `json:"room_number"`
	RoomType      string    `json:"room_type"`
	RentPaise     int64     `json:"rent_paise"`
	Capacity      int       `json:"capacity"`
	Floor         *int      `json:"floor,omitempty"`
	Status        string    `json:"status"`
	ActiveTenants int       `json:"active_tenants"`
	AvailableBeds int       `json:"available_beds"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

var (
	ErrInvalidOwner         = errors.New("invalid_owner")
	ErrInvalidID            = errors.New("invalid_id")
	ErrNotFound             = errors.New("not_found")
	ErrInvalidRoomNumber    = errors.New("invalid_room_number")
	ErrInvalidRoomType      = errors.New("invalid_room_type")
	ErrInvalidRentAmount    = errors.New("invalid_rent_amount")
	ErrInvalidCapacity      = errors.New("invalid_capacity")
	ErrInvalidStatus        = errors.New("invalid_status")
	ErrRoomNumberTaken      = errors.New("room_number_taken")
	ErrRoomOccupied         = errors.New("room_occupied")
	ErrCapacityBelowTenants = errors.New("capacity_below_active_tenants")
)

func ParseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(value)
}
