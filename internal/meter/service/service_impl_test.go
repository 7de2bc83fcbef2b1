package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pgdesk/pgdesk/internal/clock"
	"github.com/pgdesk/pgdesk/internal/config"
	"github.com/pgdesk/pgdesk/internal/meter/domain"
	"github.com/pgdesk/pgdesk/internal/meter/repository"
	"github.com/pgdesk/pgdesk/internal/ownerctx"
	roomdomain "github.com/pgdesk/pgdesk/internal/room/domain"
	roomrepository "github.com/pgdesk/pgdesk/internal/room/repository"
)

type meterFixture struct {
	db     *gorm.DB
	svc    domain.Service
	clock  *clock.FakeClock
	node   *snowflake.Node
	owner  snowflake.ID
	ctx    context.Context
	roomID snowflake.ID
}

func setupMeterTest(t *testing.T) *meterFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&roomdomain.Room{}, &domain.Meter{}, &domain.Reading{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fc := clock.NewFakeClock(time.Date(2024, time.July, 1, 9, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    fc,
		Tariff:   &config.TariffHolder{},
		Repo:     repository.Provide(),
		RoomRepo: roomrepository.Provide(),
	})

	owner := node.Generate()
	room := &roomdomain.Room{
		ID:         node.Generate(),
		OwnerID:    owner,
		RoomNumber: "101",
		RoomType:   "single",
		RentPaise:  500000,
		Capacity:   1,
		Status:     roomdomain.StatusVacant,
		CreatedAt:  fc.Now(),
		UpdatedAt:  fc.Now(),
	}
	require.NoError(t, db.Create(room).Error)

	return &meterFixture{
		db:     db,
		svc:    svc,
		clock:  fc,
		node:   node,
		owner:  owner,
		ctx:    ownerctx.WithOwnerID(context.Background(), owner),
		roomID: room.ID,
	}
}

func (f *meterFixture) createMeter(t *testing.T, number string, starting float64) *domain.MeterResponse {
	t.Helper()
	meter, err := f.svc.CreateMeter(f.ctx, domain.CreateMeterRequest{
		RoomID:          f.roomID.String(),
		MeterNumber:     number,
		StartingReading: starting,
	})
	require.NoError(t, err)
	return meter
}

func TestCreateMeter(t *testing.T) {
	f := setupMeterTest(t)

	meter := f.createMeter(t, "MTR-001", 100)
	assert.Equal(t, "MTR-001", meter.MeterNumber)
	assert.Equal(t, 100.0, meter.StartingReading)
	assert.Equal(t, f.roomID.String(), meter.RoomID)

	_, err := f.svc.CreateMeter(f.ctx, domain.CreateMeterRequest{
		RoomID:      f.roomID.String(),
		MeterNumber: "MTR-001",
	})
	assert.ErrorIs(t, err, domain.ErrMeterNumberTaken)

	_, err = f.svc.CreateMeter(f.ctx, domain.CreateMeterRequest{
		RoomID:      f.node.Generate().String(),
		MeterNumber: "MTR-002",
	})
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)

	_, err = f.svc.CreateMeter(f.ctx, domain.CreateMeterRequest{
		RoomID:      f.roomID.String(),
		MeterNumber: "   ",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidMeterNumber)
}

func TestAddReadingBillsFromStartingReading(t *testing.T) {
	f := setupMeterTest(t)
	meter := f.createMeter(t, "MTR-001", 100)

	reading, err := f.svc.AddReading(f.ctx, domain.AddReadingRequest{
		MeterID:      meter.ID,
		ReadingValue: 150,
		RecordedBy:   "owner",
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, reading.UnitsConsumed)
	assert.Equal(t, int64(22500), reading.BillPaise)
	assert.Equal(t, f.clock.Now(), reading.ReadingDate)

	// Next reading bills only the delta.
	f.clock.Advance(30 * 24 * time.Hour)
	reading, err = f.svc.AddReading(f.ctx, domain.AddReadingRequest{
		MeterID:      meter.ID,
		ReadingValue: 180,
		RecordedBy:   "owner",
	})
	require.NoError(t, err)
	assert.Equal(t, 30.0, reading.UnitsConsumed)
	assert.Equal(t, int64(13500), reading.BillPaise)
}

func TestAddReadingEqualValueBillsZero(t *testing.T) {
	f := setupMeterTest(t)
	meter := f.createMeter(t, "MTR-001", 100)

	reading, err := f.svc.AddReading(f.ctx, domain.AddReadingRequest{
		MeterID:      meter.ID,
		ReadingValue: 100,
		RecordedBy:   "owner",
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, reading.UnitsConsumed)
	assert.Equal(t, int64(0), reading.BillPaise)
}

func TestAddReadingRejectsNonMonotonicValue(t *testing.T) {
	f := setupMeterTest(t)
	meter := f.createMeter(t, "MTR-001", 100)

	_, err := f.svc.AddReading(f.ctx, domain.AddReadingRequest{
		MeterID:      meter.ID,
		ReadingValue: 150,
		RecordedBy:   "owner",
	})
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	_, err = f.svc.AddReading(f.ctx, domain.AddReadingRequest{
		MeterID:      meter.ID,
		ReadingValue: 140,
		RecordedBy:   "owner",
	})
	assert.ErrorIs(t, err, domain.ErrNonMonotonicValue)

	var count int64
	require.NoError(t, f.db.Model(&domain.Reading{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "rejected reading must not persist")
}

func TestAddReadingRejectsEarlierDate(t *testing.T) {
	f := setupMeterTest(t)
	meter := f.createMeter(t, "MTR-001", 100)

	_, err := f.svc.AddReading(f.ctx, domain.AddReadingRequest{
		MeterID:      meter.ID,
		ReadingValue: 150,
		RecordedBy:   "owner",
	})
	require.NoError(t, err)

	earlier := f.clock.Now().Add(-24 * time.Hour)
	_, err = f.svc.AddReading(f.ctx, domain.AddReadingRequest{
		MeterID:      meter.ID,
		ReadingValue: 160,
		ReadingDate:  &earlier,
		RecordedBy:   "owner",
	})
	assert.ErrorIs(t, err, domain.ErrNonMonotonicDate)
}

func TestAddReadingRejectsNonPositiveValue(t *testing.T) {
	f := setupMeterTest(t)
	meter := f.createMeter(t, "MTR-001", 100)

	_, err := f.svc.AddReading(f.ctx, domain.AddReadingRequest{
		MeterID:      meter.ID,
		ReadingValue: 0,
		RecordedBy:   "owner",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidValue)
}

func TestAddReadingUnknownMeter(t *testing.T) {
	f := setupMeterTest(t)

	_, err := f.svc.AddReading(f.ctx, domain.AddReadingRequest{
		MeterID:      f.node.Generate().String(),
		ReadingValue: 10,
		RecordedBy:   "owner",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSummaryAccumulates(t *testing.T) {
	f := setupMeterTest(t)
	meter := f.createMeter(t, "MTR-001", 100)

	for _, value := range []float64{150, 180} {
		_, err := f.svc.AddReading(f.ctx, domain.AddReadingRequest{
			MeterID:      meter.ID,
			ReadingValue: value,
			RecordedBy:   "owner",
		})
		require.NoError(t, err)
		f.clock.Advance(30 * 24 * time.Hour)
	}

	summary, err := f.svc.Summary(f.ctx, meter.ID)
	require.NoError(t, err)
	assert.Equal(t, 180.0, summary.CurrentReading)
	assert.Equal(t, 80.0, summary.TotalUnits)
	assert.Equal(t, int64(36000), summary.TotalBillPaise)
	assert.Equal(t, 2, summary.ReadingCount)
}

func TestOwnerScopeRequired(t *testing.T) {
	f := setupMeterTest(t)

	_, err := f.svc.ListMeters(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidOwner)

	// Another owner cannot see the meter.
	meter := f.createMeter(t, "MTR-001", 100)
	otherCtx := ownerctx.WithOwnerID(context.Background(), f.node.Generate())
	_, err = f.svc.GetMeter(otherCtx, meter.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
