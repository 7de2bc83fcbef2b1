package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	paymentdomain "github.com/pgdesk/pgdesk/internal/payment/domain"
	"github.com/pgdesk/pgdesk/internal/rent/engine"
	"github.com/pgdesk/pgdesk/pkg/db/pagination"
)

type repo struct{}

func Provide() paymentdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, payment *paymentdomain.Payment) error {
	return db.WithContext(ctx).Create(payment).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) (*paymentdomain.Payment, error) {
	var payment paymentdomain.Payment
	err := db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, filter paymentdomain.ListFilter, page pagination.Pagination) ([]*paymentdomain.Payment, error) {
	stmt := db.WithContext(ctx).
		Model(&paymentdomain.Payment{}).
		Where("owner_id = ?", ownerID)
	if filter.Month != nil {
		stmt = stmt.Where("payment_month = ?", engine.NormalizeMonth(*filter.Month))
	}
	if filter.TenantID != nil {
		stmt = stmt.Where("tenant_id = ?", *filter.TenantID)
	}
	stmt = pagination.Apply(stmt, page)

	var payments []*paymentdomain.Payment
	err := stmt.Order("created_at desc, id desc").Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}
