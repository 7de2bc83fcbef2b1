package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Onboard(ctx context.Context, req OnboardRequest) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	StartNotice(ctx context.Context, id string) (*Response, error)
	Checkout(ctx context.Context, req CheckoutRequest) (*Response, error)
	GetByID(ctx context.Context, id string) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
}

type OnboardRequest struct {
	RoomID       string     `json:"room_id"`
	FullName     string     `json:"full_name"`
	Email        string     `json:"email,omitempty"`
	Phone        string     `json:"phone"`
	JoinDate     *time.Time `json:"join_date,omitempty"`
	DepositPaise int64      `json:"deposit_paise"`
	IDProofURL   *string    `json:"id_proof_url,omitempty"`
	AgreementURL *string    `json:"agreement_url,omitempty"`
}

type UpdateRequest struct {
	ID           string  `json:"id"`
	FullName     *string `json:"full_name,omitempty"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	IDProofURL   *string `json:"id_proof_url,omitempty"`
	AgreementURL *string `json:"agreement_url,omitempty"`
}

type CheckoutRequest struct {
	ID            string     `json:"id"`
	CheckOutDate  *time.Time `json:"check_out_date,omitempty"`
	RefundDeposit bool       `json:"refund_deposit"`
}

type ListRequest struct {
	// Status is one of the lifecycle statuses, "occupying", or empty for all.
	Status string `json:"status,omitempty"`
	RoomID string `json:"room_id,omitempty"`
}

type Response struct {
	ID       string  `json:"id"`
	OwnerID  string  `json:"owner_id"`
	RoomID   *string `json:"room_id,omitempty"`
	FullName string  `json:"full_name"`
	Email    string  `json:"email,omitempty"`
	Phone    string  `json:"phone"`

	JoinDate     time.Time  `json:"join_date"`
	CheckInDate  *time.Time `json:"check_in_date,omitempty"`
	CheckOutDate *time.Time `json:"check_out_date,omitempty"`

	Status string `json:"status"`

	DepositPaise    int64 `json:"deposit_paise"`
	DepositRefunded bool  `json:"deposit_refunded"`

	IDProofURL   *string `json:"id_proof_url,omitempty"`
	AgreementURL *string `json:"agreement_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var (
	ErrInvalidOwner      = errors.New("invalid_owner")
	ErrInvalidID         = errors.New("invalid_id")
	ErrNotFound          = errors.New("not_found")
	ErrInvalidName       = errors.New("invalid_name")
	ErrInvalidPhone      = errors.New("invalid_phone")
	ErrInvalidEmail      = errors.New("invalid_email")
	ErrInvalidDeposit    = errors.New("invalid_deposit")
	ErrInvalidRoom       = errors.New("invalid_room")
	ErrRoomNotFound      = errors.New("room_not_found")
	ErrRoomFull          = errors.New("room_full")
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrInvalidTransition = errors.New("invalid_status_transition")
	ErrAlreadyCheckedOut = errors.New("already_checked_out")
)

func ParseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(value)
}
