package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pgdesk/pgdesk/internal/clock"
	"github.com/pgdesk/pgdesk/internal/config"
	obsmetrics "github.com/pgdesk/pgdesk/internal/observability/metrics"
	"github.com/pgdesk/pgdesk/internal/ownerctx"
	"github.com/pgdesk/pgdesk/internal/providers/pdf"
	"github.com/pgdesk/pgdesk/internal/rent/domain"
	"github.com/pgdesk/pgdesk/internal/rent/engine"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Config  config.Config
	Repo    domain.Repository
	PDF     pdf.Provider
	Metrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	cfg     config.Config
	repo    domain.Repository
	pdf     pdf.Provider
	metrics *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("rent.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		cfg:     p.Config,
		repo:    p.Repo,
		pdf:     p.PDF,
		metrics: p.Metrics,
	}
}

func (s *Service) Statement(ctx context.Context, month time.Time) (*engine.Statement, error) {
	ownerID, ok := ownerctx.OwnerIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}
	if month.IsZero() {
		return nil, domain.ErrInvalidMonth
	}

	stmt, err := s.reconcile(ctx, ownerID, month)
	if err != nil {
		return nil, err
	}

	// The cache refresh is best effort for reads but runs transactionally
	// so the table never holds a half-written month.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.ReplaceRecords(ctx, tx, ownerID, stmt.Month, s.toRecords(ownerID, stmt))
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordReconcileRun(ctx, "statement")
	s.log.Info("rent reconciled",
		zap.Time("month", stmt.Month),
		zap.Int64("total_rent_paise", stmt.TotalRentPaise),
		zap.Int64("collected_paise", stmt.CollectedPaise),
		zap.Int("warnings", len(stmt.Warnings)),
	)

	return stmt, nil
}

func (s *Service) Receipt(ctx context.Context, tenantID string, month time.Time) (io.Reader, error) {
	ownerID, ok := ownerctx.OwnerIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}
	if month.IsZero() {
		return nil, domain.ErrInvalidMonth
	}

	id, err := domain.ParseID(strings.TrimSpace(tenantID))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidTenant
	}

	stmt, err := s.reconcile(ctx, ownerID, month)
	if err != nil {
		return nil, err
	}

	var rec *engine.Record
	for i := range stmt.Records {
		if stmt.Records[i].TenantID == id {
			rec = &stmt.Records[i]
			break
		}
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	if rec.Status != engine.StatusPaid || rec.PaymentID == nil {
		return nil, domain.ErrNotPaid
	}

	paidDate := ""
	if rec.PaidDate != nil {
		paidDate = rec.PaidDate.Format("02 Jan 2006")
	}

	data := pdf.ReceiptData{
		ReceiptNumber: fmt.Sprintf("RCPT-%s-%s", stmt.Month.Format("200601"), rec.PaymentID.String()),
		PropertyName:  s.cfg.AppName,
		TenantName:    rec.TenantName,
		RoomNumber:    rec.RoomNumber,
		RentMonth:     stmt.Month.Format("January 2006"),
		DueDate:       rec.DueDate.Format("02 Jan 2006"),
		DatePaid:      paidDate,
		PaymentMode:   "recorded payment",
		Lines: []pdf.ReceiptLine{
			{Description: "Monthly rent, room " + rec.RoomNumber, AmountDisplay: formatPaise(rec.PaidPaise)},
		},
		TotalDisplay: formatPaise(rec.PaidPaise),
	}

	return s.pdf.GenerateRentReceipt(ctx, data)
}

func (s *Service) reconcile(ctx context.Context, ownerID snowflake.ID, month time.Time) (*engine.Statement, error) {
	tenants, err := s.repo.LoadTenantRents(ctx, s.db, ownerID)
	if err != nil {
		return nil, err
	}
	payments, err := s.repo.LoadPayments(ctx, s.db, ownerID, month)
	if err != nil {
		return nil, err
	}

	stmt := engine.Reconcile(month, s.clock.Now(), s.cfg.RentDueDay, tenants, payments)
	return &stmt, nil
}

func (s *Service) toRecords(ownerID snowflake.ID, stmt *engine.Statement) []domain.RentRecord {
	now := s.clock.Now()
	records := make([]domain.RentRecord, 0, len(stmt.Records))
	for _, rec := range stmt.Records {
		records = append(records, domain.RentRecord{
			ID:          s.genID.Generate(),
			OwnerID:     ownerID,
			TenantID:    rec.TenantID,
			TenantName:  rec.TenantName,
			RoomID:      rec.RoomID,
			RoomNumber:  rec.RoomNumber,
			Month:       stmt.Month,
			DuePaise:    rec.DuePaise,
			DueDate:     rec.DueDate,
			Status:      rec.Status,
			PaymentID:   rec.PaymentID,
			PaidPaise:   rec.PaidPaise,
			PaidDate:    rec.PaidDate,
			GeneratedAt: now,
		})
	}
	return records
}

func formatPaise(paise int64) string {
	return fmt.Sprintf("Rs %.2f", float64(paise)/100)
}
