package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/pgdesk/pgdesk/pkg/db/pagination"
)

type Service interface {
	Record(ctx context.Context, req RecordRequest) (*Response, error)
	GetByID(ctx context.Context, id string) (*Response, error)
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
}

type RecordRequest struct {
	TenantID          string     `json:"tenant_id"`
	PaymentDate       *time.Time `json:"payment_date,omitempty"`
	PaymentMonth      time.Time  `json:"payment_month"`
	RentPaise         int64      `json:"rent_paise"`
	DepositPaise      int64      `json:"deposit_paise"`
	OtherChargesPaise int64      `json:"other_charges_paise"`
	Method            string     `json:"method"`
	Remarks           *string    `json:"remarks,omitempty"`
}

type ListRequest struct {
	Month     string `json:"month,omitempty"`
	TenantID  string `json:"tenant_id,omitempty"`
	PageToken string `json:"page_token,omitempty"`
	PageSize  int    `json:"page_size,omitempty"`
}

type ListResponse struct {
	Payments []Response `json:"payments"`
	pagination.PageInfo
}

type Response struct {
	ID       string `json:"id"`
	OwnerID  string `json:"owner_id"`
	TenantID string `json:"tenant_id"`

	PaymentDate  time.Time `json:"payment_date"`
	PaymentMonth time.Time `json:"payment_month"`

	RentPaise         int64 `json:"rent_paise"`
	DepositPaise      int64 `json:"deposit_paise"`
	OtherChargesPaise int64 `json:"other_charges_paise"`
	TotalPaise        int64 `json:"total_paise"`

	Method  string  `json:"method"`
	Remarks *string `json:"remarks,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

var (
	ErrInvalidOwner   = errors.New("invalid_owner")
	ErrInvalidID      = errors.New("invalid_id")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidTenant  = errors.New("invalid_tenant")
	ErrTenantNotFound = errors.New("tenant_not_found")
	ErrInvalidAmount  = errors.New("invalid_amount")
	ErrInvalidMethod  = errors.New("invalid_payment_method")
	ErrInvalidMonth   = errors.New("invalid_payment_month")
)

func ParseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(value)
}
