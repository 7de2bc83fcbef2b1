package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertMeter(ctx context.Context, db *gorm.DB, meter *Meter) error
	FindMeterByID(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) (*Meter, error)
	FindMeterByNumber(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, number string) (*Meter, error)
	ListMeters(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) ([]Meter, error)

	InsertReading(ctx context.Context, db *gorm.DB, reading *Reading) error
	// LatestReading returns the newest reading by date, then recording
	// order. Nil when the meter has no readings yet.
	LatestReading(ctx context.Context, db *gorm.DB, ownerID, meterID snowflake.ID) (*Reading, error)
	ListReadings(ctx context.Context, db *gorm.DB, ownerID, meterID snowflake.ID) ([]Reading, error)
}
