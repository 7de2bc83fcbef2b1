package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	complaintdomain "github.com/pgdesk/pgdesk/internal/complaint/domain"
)

type repo struct{}

func Provide() complaintdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, complaint *complaintdomain.Complaint) error {
	return db.WithContext(ctx).Create(complaint).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, complaint *complaintdomain.Complaint) error {
	return db.WithContext(ctx).
		Model(&complaintdomain.Complaint{}).
		Where("owner_id = ? AND id = ?", complaint.OwnerID, complaint.ID).
		Updates(map[string]any{
			"status":      complaint.Status,
			"resolved_at": complaint.ResolvedAt,
			"updated_at":  complaint.UpdatedAt,
		}).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) (*complaintdomain.Complaint, error) {
	var complaint complaintdomain.Complaint
	err := db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&complaint).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &complaint, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, filter complaintdomain.ListFilter) ([]complaintdomain.Complaint, error) {
	query := db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}

	var complaints []complaintdomain.Complaint
	err := query.Order("created_at desc, id desc").Find(&complaints).Error
	if err != nil {
		return nil, err
	}
	return complaints, nil
}

func (r *repo) CountOpen(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&complaintdomain.Complaint{}).
		Where("owner_id = ? AND status <> ?", ownerID, complaintdomain.StatusResolved).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
