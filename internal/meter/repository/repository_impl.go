package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	meterdomain "github.com/pgdesk/pgdesk/internal/meter/domain"
)

type repo struct{}

func Provide() meterdomain.Repository {
	return &repo{}
}

func (r *repo) InsertMeter(ctx context.Context, db *gorm.DB, meter *meterdomain.Meter) error {
	return db.WithContext(ctx).Create(meter).Error
}

func (r *repo) FindMeterByID(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) (*meterdomain.Meter, error) {
	var meter meterdomain.Meter
	err := db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&meter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meter, nil
}

func (r *repo) FindMeterByNumber(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, number string) (*meterdomain.Meter, error) {
	var meter meterdomain.Meter
	err := db.WithContext(ctx).
		Where("owner_id = ? AND meter_number = ?", ownerID, strings.TrimSpace(number)).
		First(&meter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meter, nil
}

func (r *repo) ListMeters(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) ([]meterdomain.Meter, error) {
	var meters []meterdomain.Meter
	err := db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("meter_number asc").
		Find(&meters).Error
	if err != nil {
		return nil, err
	}
	return meters, nil
}

func (r *repo) InsertReading(ctx context.Context, db *gorm.DB, reading *meterdomain.Reading) error {
	return db.WithContext(ctx).Create(reading).Error
}

func (r *repo) LatestReading(ctx context.Context, db *gorm.DB, ownerID, meterID snowflake.ID) (*meterdomain.Reading, error) {
	var reading meterdomain.Reading
	err := db.WithContext(ctx).
		Where("owner_id = ? AND meter_id = ?", ownerID, meterID).
		Order("reading_date desc, id desc").
		First(&reading).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reading, nil
}

func (r *repo) ListReadings(ctx context.Context, db *gorm.DB, ownerID, meterID snowflake.ID) ([]meterdomain.Reading, error) {
	var readings []meterdomain.Reading
	err := db.WithContext(ctx).
		Where("owner_id = ? AND meter_id = ?", ownerID, meterID).
		Order("reading_date asc, id asc").
		Find(&readings).Error
	if err != nil {
		return nil, err
	}
	return readings, nil
}
