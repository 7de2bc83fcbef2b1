package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/pgdesk/pgdesk/internal/rent/engine"
)

type Repository interface {
	// LoadTenantRents returns occupying tenants with their room rent.
	// Tenants without a room come back with a zero room ID so the engine
	// can flag them.
	LoadTenantRents(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) ([]engine.TenantRent, error)
	// LoadPayments returns payments recorded against the month.
	LoadPayments(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, month time.Time) ([]engine.PaymentInput, error)
	// ReplaceRecords swaps the cached records for the owner and month.
	ReplaceRecords(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, month time.Time, records []RentRecord) error
	// ListRecords returns the cached records for the owner and month.
	ListRecords(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, month time.Time) ([]RentRecord, error)
}
