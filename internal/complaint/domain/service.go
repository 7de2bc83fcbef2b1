package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrInvalidOwner      = errors.New("invalid_owner")
	ErrInvalidID         = errors.New("invalid_complaint_id")
	ErrInvalidTitle      = errors.New("invalid_title")
	ErrInvalidPriority   = errors.New("invalid_priority")
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrInvalidTenant     = errors.New("invalid_tenant_id")
	ErrInvalidRoom       = errors.New("invalid_room_id")
	ErrTenantNotFound    = errors.New("tenant_not_found")
	ErrRoomNotFound      = errors.New("room_not_found")
	ErrNotFound          = errors.New("complaint_not_found")
	ErrInvalidTransition = errors.New("invalid_status_transition")
)

// ParseID parses a string complaint identifier.
func ParseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(value)
}

type CreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	TenantID    string `json:"tenant_id,omitempty"`
	RoomID      string `json:"room_id,omitempty"`
}

type UpdateStatusRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ListRequest struct {
	Status   string `json:"status,omitempty"`
	Priority string `json:"priority,omitempty"`
}

type Response struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	TenantID    *string    `json:"tenant_id,omitempty"`
	RoomID      *string    `json:"room_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (*Response, error)
	GetByID(ctx context.Context, id string) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
}
