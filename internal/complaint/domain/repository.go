package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListFilter struct {
	Status   string
	Priority string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, complaint *Complaint) error
	Update(ctx context.Context, db *gorm.DB, complaint *Complaint) error
	FindByID(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) (*Complaint, error)
	List(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, filter ListFilter) ([]Complaint, error)
	CountOpen(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) (int64, error)
}
