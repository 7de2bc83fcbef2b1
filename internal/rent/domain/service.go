package domain

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/pgdesk/pgdesk/internal/rent/engine"
)

type Service interface {
	// Statement reconciles the month and refreshes the rent_records cache.
	Statement(ctx context.Context, month time.Time) (*engine.Statement, error)
	// Receipt renders a PDF receipt for a tenant's paid month.
	Receipt(ctx context.Context, tenantID string, month time.Time) (io.Reader, error)
}

var (
	ErrInvalidOwner  = errors.New("invalid_owner")
	ErrInvalidMonth  = errors.New("invalid_month")
	ErrInvalidTenant = errors.New("invalid_tenant")
	ErrNotFound      = errors.New("not_found")
	ErrNotPaid       = errors.New("rent_not_paid")
)

func ParseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(value)
}
