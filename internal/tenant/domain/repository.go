package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListFilter struct {
	// Status filters on one lifecycle status when set.
	Status string
	// Occupying selects active and notice-period tenants when true.
	Occupying bool
	RoomID    *snowflake.ID
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, tenant *Tenant) error
	Update(ctx context.Context, db *gorm.DB, tenant *Tenant) error
	FindByID(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) (*Tenant, error)
	List(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, filter ListFilter) ([]Tenant, error)
	CountOccupyingByRoom(ctx context.Context, db *gorm.DB, ownerID, roomID snowflake.ID) (int64, error)
}
