package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/pgdesk/pgdesk/pkg/db/pagination"
)

type ListFilter struct {
	Month    *time.Time
	TenantID *snowflake.ID
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, payment *Payment) error
	FindByID(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) (*Payment, error)
	List(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, filter ListFilter, page pagination.Pagination) ([]*Payment, error)
}
