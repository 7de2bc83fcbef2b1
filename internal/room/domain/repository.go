package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, room *Room) error
	Update(ctx context.Context, db *gorm.DB, room *Room) error
	Delete(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) (*Room, error)
	FindByNumber(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, number string) (*Room, error)
	List(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) ([]Room, error)

	// CountActiveTenants counts tenants in active or notice-period status
	// assigned to the room.
	CountActiveTenants(ctx context.Context, db *gorm.DB, ownerID, roomID snowflake.ID) (int64, error)
	// ActiveTenantCounts returns active tenant counts grouped by room.
	ActiveTenantCounts(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) (map[snowflake.ID]int, error)

	InsertEditHistory(ctx context.Context, db *gorm.DB, entry *EditHistory) error
	ListEditHistory(ctx context.Context, db *gorm.DB, ownerID, roomID snowflake.ID) ([]EditHistory, error)
}
