package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pgdesk/pgdesk/internal/clock"
	"github.com/pgdesk/pgdesk/internal/config"
	"github.com/pgdesk/pgdesk/internal/meter/domain"
	obsmetrics "github.com/pgdesk/pgdesk/internal/observability/metrics"
	"github.com/pgdesk/pgdesk/internal/ownerctx"
	"github.com/pgdesk/pgdesk/internal/ratelimit"
	roomdomain "github.com/pgdesk/pgdesk/internal/room/domain"
	"github.com/pgdesk/pgdesk/pkg/db"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Tariff   *config.TariffHolder
	Repo     domain.Repository
	RoomRepo roomdomain.Repository
	Limiter  *ratelimit.ReadingIngestLimiter `optional:"true"`
	Metrics  *obsmetrics.Metrics             `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	tariff   *config.TariffHolder
	repo     domain.Repository
	roomRepo roomdomain.Repository
	limiter  *ratelimit.ReadingIngestLimiter
	metrics  *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("meter.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		tariff:   p.Tariff,
		repo:     p.Repo,
		roomRepo: p.RoomRepo,
		limiter:  p.Limiter,
		metrics:  p.Metrics,
	}
}

func (s *Service) CreateMeter(ctx context.Context, req domain.CreateMeterRequest) (*domain.MeterResponse, error) {
	ownerID, ok := ownerctx.OwnerIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}

	number := strings.TrimSpace(req.MeterNumber)
	if number == "" {
		return nil, domain.ErrInvalidMeterNumber
	}
	if req.StartingReading < 0 {
		return nil, domain.ErrInvalidStarting
	}

	roomID, err := domain.ParseID(strings.TrimSpace(req.RoomID))
	if err != nil || roomID == 0 {
		return nil, domain.ErrInvalidRoom
	}
	room, err := s.roomRepo.FindByID(ctx, s.db, ownerID, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, domain.ErrRoomNotFound
	}

	existing, err := s.repo.FindMeterByNumber(ctx, s.db, ownerID, number)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrMeterNumberTaken
	}

	now := s.clock.Now()
	meter := &domain.Meter{
		ID:              s.genID.Generate(),
		OwnerID:         ownerID,
		RoomID:          roomID,
		MeterNumber:     number,
		StartingReading: req.StartingReading,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.InsertMeter(ctx, s.db, meter); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrMeterNumberTaken
		}
		return nil, err
	}

	return toMeterResponse(meter), nil
}

func (s *Service) ListMeters(ctx context.Context) ([]domain.MeterResponse, error) {
	ownerID, ok := ownerctx.OwnerIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}

	meters, err := s.repo.ListMeters(ctx, s.db, ownerID)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.MeterResponse, 0, len(meters))
	for i := range meters {
		resp = append(resp, *toMeterResponse(&meters[i]))
	}
	return resp, nil
}

func (s *Service) GetMeter(ctx context.Context, id string) (*domain.MeterResponse, error) {
	ownerID, ok := ownerctx.OwnerIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}

	meterID, err := domain.ParseID(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	meter, err := s.repo.FindMeterByID(ctx, s.db, ownerID, meterID)
	if err != nil {
		return nil, err
	}
	if meter == nil {
		return nil, domain.ErrNotFound
	}

	return toMeterResponse(meter), nil
}

func (s *Service) AddReading(ctx context.Context, req domain.AddReadingRequest) (*domain.ReadingResponse, error) {
	ownerID, ok := ownerctx.OwnerIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}

	meterID, err := domain.ParseID(strings.TrimSpace(req.MeterID))
	if err != nil || meterID == 0 {
		return nil, domain.ErrInvalidID
	}

	if req.ReadingValue <= 0 {
		s.metrics.RecordMeterReadingRejected(ctx, "invalid_value")
		return nil, domain.ErrInvalidValue
	}

	allowed, err := s.limiter.AllowOwner(ctx, ownerID.String())
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, domain.ErrRateLimited
	}

	// The validate-then-insert sequence below reads the latest row and
	// writes a new one. The per-meter lock keeps two concurrent submissions
	// from both validating against the same prior reading.
	token, locked, err := s.limiter.TryLockMeter(ctx, meterID.String())
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, domain.ErrMeterBusy
	}
	defer func() {
		if err := s.limiter.ReleaseMeter(ctx, meterID.String(), token); err != nil {
			s.log.Warn("meter lock release failed", zap.Error(err))
		}
	}()

	meter, err := s.repo.FindMeterByID(ctx, s.db, ownerID, meterID)
	if err != nil {
		return nil, err
	}
	if meter == nil {
		return nil, domain.ErrNotFound
	}

	latest, err := s.repo.LatestReading(ctx, s.db, ownerID, meterID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	readingDate := now
	if req.ReadingDate != nil {
		readingDate = req.ReadingDate.UTC()
	}

	previousValue := meter.StartingReading
	if latest != nil {
		previousValue = latest.ReadingValue
		if readingDate.Before(latest.ReadingDate) {
			s.metrics.RecordMeterReadingRejected(ctx, "non_monotonic_date")
			return nil, domain.ErrNonMonotonicDate
		}
	}
	if req.ReadingValue < previousValue {
		s.metrics.RecordMeterReadingRejected(ctx, "non_monotonic_value")
		return nil, domain.ErrNonMonotonicValue
	}

	units := req.ReadingValue - previousValue
	billPaise, err := s.tariff.Get().Bill(units)
	if err != nil {
		return nil, err
	}

	reading := &domain.Reading{
		ID:            s.genID.Generate(),
		OwnerID:       ownerID,
		MeterID:       meterID,
		ReadingValue:  req.ReadingValue,
		ReadingDate:   readingDate,
		UnitsConsumed: units,
		BillPaise:     billPaise,
		RecordedBy:    strings.TrimSpace(req.RecordedBy),
		RecordedAt:    now,
	}

	if err := s.repo.InsertReading(ctx, s.db, reading); err != nil {
		return nil, err
	}

	s.metrics.RecordMeterReading(ctx)
	s.log.Info("meter reading recorded",
		zap.String("meter_id", meterID.String()),
		zap.Float64("units", units),
		zap.Int64("bill_paise", billPaise),
	)

	return toReadingResponse(reading), nil
}

func (s *Service) Readings(ctx context.Context, meterID string) ([]domain.ReadingResponse, error) {
	ownerID, ok := ownerctx.OwnerIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}

	id, err := domain.ParseID(strings.TrimSpace(meterID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	meter, err := s.repo.FindMeterByID(ctx, s.db, ownerID, id)
	if err != nil {
		return nil, err
	}
	if meter == nil {
		return nil, domain.ErrNotFound
	}

	readings, err := s.repo.ListReadings(ctx, s.db, ownerID, id)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.ReadingResponse, 0, len(readings))
	for i := range readings {
		resp = append(resp, *toReadingResponse(&readings[i]))
	}
	return resp, nil
}

func (s *Service) Summary(ctx context.Context, meterID string) (*domain.SummaryResponse, error) {
	ownerID, ok := ownerctx.OwnerIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}

	id, err := domain.ParseID(strings.TrimSpace(meterID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	meter, err := s.repo.FindMeterByID(ctx, s.db, ownerID, id)
	if err != nil {
		return nil, err
	}
	if meter == nil {
		return nil, domain.ErrNotFound
	}

	readings, err := s.repo.ListReadings(ctx, s.db, ownerID, id)
	if err != nil {
		return nil, err
	}

	summary := &domain.SummaryResponse{
		MeterID:        meter.ID.String(),
		MeterNumber:    meter.MeterNumber,
		CurrentReading: meter.StartingReading,
		ReadingCount:   len(readings),
	}
	for _, reading := range readings {
		summary.CurrentReading = reading.ReadingValue
		summary.TotalUnits += reading.UnitsConsumed
		summary.TotalBillPaise += reading.BillPaise
	}

	return summary, nil
}

func toMeterResponse(m *domain.Meter) *domain.MeterResponse {
	return &domain.MeterResponse{
		ID:              m.ID.String(),
		OwnerID:         m.OwnerID.String(),
		RoomID:          m.RoomID.String(),
		MeterNumber:     m.MeterNumber,
		StartingReading: m.StartingReading,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toReadingResponse(r *domain.Reading) *domain.ReadingResponse {
	return &domain.ReadingResponse{
		ID:            r.ID.String(),
		MeterID:       r.MeterID.String(),
		ReadingValue:  r.ReadingValue,
		ReadingDate:   r.ReadingDate,
		UnitsConsumed: r.UnitsConsumed,
		BillPaise:     r.BillPaise,
		RecordedBy:    r.RecordedBy,
		RecordedAt:    r.RecordedAt,
	}
}
