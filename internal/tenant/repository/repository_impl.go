package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	tenantdomain "github.com/pgdesk/pgdesk/internal/tenant/domain"
)

type repo struct{}

func Provide() tenantdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, tenant *tenantdomain.Tenant) error {
	return db.WithContext(ctx).Create(tenant).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, tenant *tenantdomain.Tenant) error {
	return db.WithContext(ctx).
		Model(&tenantdomain.Tenant{}).
		Where("owner_id = ? AND id = ?", tenant.OwnerID, tenant.ID).
		Updates(map[string]interface{}{
			"room_id":          tenant.RoomID,
			"full_name":        tenant.FullName,
			"email":            tenant.Email,
			"phone":            tenant.Phone,
			"join_date":        tenant.JoinDate,
			"check_in_date":    tenant.CheckInDate,
			"check_out_date":   tenant.CheckOutDate,
			"status":           tenant.Status,
			"deposit_paise":    tenant.DepositPaise,
			"deposit_refunded": tenant.DepositRefunded,
			"id_proof_url":     tenant.IDProofURL,
			"agreement_url":    tenant.AgreementURL,
			"updated_at":       tenant.UpdatedAt,
		}).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) (*tenantdomain.Tenant, error) {
	var tenant tenantdomain.Tenant
	err := db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&tenant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tenant, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, filter tenantdomain.ListFilter) ([]tenantdomain.Tenant, error) {
	stmt := db.WithContext(ctx).
		Model(&tenantdomain.Tenant{}).
		Where("owner_id = ?", ownerID)
	if filter.Occupying {
		stmt = stmt.Where("status IN ?", tenantdomain.OccupyingStatuses())
	} else if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.RoomID != nil {
		stmt = stmt.Where("room_id = ?", *filter.RoomID)
	}

	var tenants []tenantdomain.Tenant
	err := stmt.Order("full_name asc, id asc").Find(&tenants).Error
	if err != nil {
		return nil, err
	}
	return tenants, nil
}

func (r *repo) CountOccupyingByRoom(ctx context.Context, db *gorm.DB, ownerID, roomID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&tenantdomain.Tenant{}).
		Where("owner_id = ? AND room_id = ? AND status IN ?", ownerID, roomID, tenantdomain.OccupyingStatuses()).
		Count(&count).Error
	return count, err
}
