package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	complaintdomain "github.com/pgdesk/pgdesk/internal/complaint/domain"
	dashboarddomain "github.com/pgdesk/pgdesk/internal/dashboard/domain"
	paymentdomain "github.com/pgdesk/pgdesk/internal/payment/domain"
	"github.com/pgdesk/pgdesk/internal/rent/engine"
	roomdomain "github.com/pgdesk/pgdesk/internal/room/domain"
	tenantdomain "github.com/pgdesk/pgdesk/internal/tenant/domain"
)

type repo struct{}

func Provide() dashboarddomain.Repository {
	return &repo{}
}

func (r *repo) LoadRooms(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) ([]roomdomain.Room, error) {
	var rooms []roomdomain.Room
	err := db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("room_number asc").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *repo) LoadTenants(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) ([]tenantdomain.Tenant, error) {
	var tenants []tenantdomain.Tenant
	err := db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Find(&tenants).Error
	if err != nil {
		return nil, err
	}
	return tenants, nil
}

func (r *repo) LoadPayments(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, from, to time.Time) ([]engine.PaymentInput, error) {
	var payments []paymentdomain.Payment
	err := db.WithContext(ctx).
		Where("owner_id = ? AND payment_month >= ? AND payment_month <= ?",
			ownerID, engine.NormalizeMonth(from), engine.NormalizeMonth(to)).
		Find(&payments).Error
	if err != nil {
		return nil, err
	}

	inputs := make([]engine.PaymentInput, 0, len(payments))
	for _, p := range payments {
		inputs = append(inputs, engine.PaymentInput{
			ID:          p.ID,
			TenantID:    p.TenantID,
			Month:       p.PaymentMonth,
			RentPaise:   p.RentPaise,
			PaymentDate: p.PaymentDate,
		})
	}
	return inputs, nil
}

func (r *repo) CountOpenComplaints(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) (int64, error) {
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
