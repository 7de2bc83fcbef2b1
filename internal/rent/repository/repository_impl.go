package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	rentdomain "github.com/pgdesk/pgdesk/internal/rent/domain"
	"github.com/pgdesk/pgdesk/internal/rent/engine"
	tenantdomain "github.com/pgdesk/pgdesk/internal/tenant/domain"
)

type repo struct{}

func Provide() rentdomain.Repository {
	return &repo{}
}

func (r *repo) LoadTenantRents(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) ([]engine.TenantRent, error) {
	type row struct {
		TenantID   snowflake.ID
		TenantName string
		RoomID     *snowflake.ID
		RoomNumber *string
		RentPaise  *int64
	}
	var rows []row
	err := db.WithContext(ctx).
		Table("tenants").
		Select("tenants.id as tenant_id, tenants.full_name as tenant_name, rooms.id as room_id, rooms.room_number as room_number, rooms.rent_paise as rent_paise").
		Joins("LEFT JOIN rooms ON rooms.id = tenants.room_id AND rooms.owner_id = tenants.owner_id").
		Where("tenants.owner_id = ? AND tenants.status IN ?", ownerID, tenantdomain.OccupyingStatuses()).
		Order("tenants.full_name asc, tenants.id asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	rents := make([]engine.TenantRent, 0, len(rows))
	for _, item := range rows {
		tr := engine.TenantRent{
			TenantID:   item.TenantID,
			TenantName: item.TenantName,
		}
		if item.RoomID != nil {
			tr.RoomID = *item.RoomID
		}
		if item.RoomNumber != nil {
			tr.RoomNumber = *item.RoomNumber
		}
		if item.RentPaise != nil {
			tr.RentPaise = *item.RentPaise
		}
		rents = append(rents, tr)
	}
	return rents, nil
}

func (r *repo) LoadPayments(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, month time.Time) ([]engine.PaymentInput, error) {
	type row struct {
		ID           snowflake.ID
		TenantID     snowflake.ID
		PaymentMonth time.Time
		RentPaise    int64
		PaymentDate  time.Time
	}
	var rows []row
	err := db.WithContext(ctx).
		Table("payments").
		Select("id, tenant_id, payment_month, rent_paise, payment_date").
		Where("owner_id = ? AND payment_month = ?", ownerID, engine.NormalizeMonth(month)).
		Order("payment_date asc, id asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	payments := make([]engine.PaymentInput, 0, len(rows))
	for _, item := range rows {
		payments = append(payments, engine.PaymentInput{
			ID:          item.ID,
			TenantID:    item.TenantID,
			Month:       item.PaymentMonth,
			RentPaise:   item.RentPaise,
			PaymentDate: item.PaymentDate,
		})
	}
	return payments, nil
}

func (r *repo) ReplaceRecords(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, month time.Time, records []rentdomain.RentRecord) error {
	month = engine.NormalizeMonth(month)
	err := db.WithContext(ctx).
		Where("owner_id = ? AND month = ?", ownerID, month).
		Delete(&rentdomain.RentRecord{}).Error
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&records).Error
}

func (r *repo) ListRecords(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, month time.Time) ([]rentdomain.RentRecord, error) {
	var records []rentdomain.RentRecord
	err := db.WithContext(ctx).
		Where("owner_id = ? AND month = ?", ownerID, engine.NormalizeMonth(month)).
		Order("room_number asc, tenant_name asc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
