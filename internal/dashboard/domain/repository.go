package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/pgdesk/pgdesk/internal/rent/engine"
	roomdomain "github.com/pgdesk/pgdesk/internal/room/domain"
	tenantdomain "github.com/pgdesk/pgdesk/internal/tenant/domain"
)

// Repository loads the raw snapshots the aggregator composes. Tenants are
// loaded across all lifecycle statuses so historical months can be rebuilt.
type Repository interface {
	LoadRooms(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) ([]roomdomain.Room, error)
	LoadTenants(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) ([]tenantdomain.Tenant, error)
	LoadPayments(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, from, to time.Time) ([]engine.PaymentInput, error)
	CountOpenComplaints(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) (int64, error)
}
