package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pgdesk/pgdesk/internal/clock"
	obsmetrics "github.com/pgdesk/pgdesk/internal/observability/metrics"
	"github.com/pgdesk/pgdesk/internal/ownerctx"
	"github.com/pgdesk/pgdesk/internal/payment/domain"
	"github.com/pgdesk/pgdesk/internal/rent/engine"
	tenantdomain "github.com/pgdesk/pgdesk/internal/tenant/domain"
	"github.com/pgdesk/pgdesk/pkg/db/pagination"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       domain.Repository
	TenantRepo tenantdomain.Repository
	Metrics    *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       domain.Repository
	tenantRepo tenantdomain.Repository
	metrics    *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("payment.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		tenantRepo: p.TenantRepo,
		metrics:    p.Metrics,
	}
}

func (s *Service) Record(ctx context.Context, req domain.RecordRequest) (*domain.Response, error) {
	ownerID, ok := ownerctx.OwnerIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}

	tenantID, err := domain.ParseID(strings.TrimSpace(req.TenantID))
	if err != nil || tenantID == 0 {
		return nil, domain.ErrInvalidTenant
	}

	if req.RentPaise < 0 || req.DepositPaise < 0 || req.OtherChargesPaise < 0 {
		return nil, domain.ErrInvalidAmount
	}
	if req.RentPaise+req.DepositPaise+req.OtherChargesPaise <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	method := strings.TrimSpace(req.Method)
	if !domain.ValidMethod(method) {
		return nil, domain.ErrInvalidMethod
	}

	if req.PaymentMonth.IsZero() {
		return nil, domain.ErrInvalidMonth
	}

	tenant, err := s.tenantRepo.FindByID(ctx, s.db, ownerID, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, domain.ErrTenantNotFound
	}

	now := s.clock.Now()
	paymentDate := now
	if req.PaymentDate != nil {
		paymentDate = req.PaymentDate.UTC()
	}

	payment := &domain.Payment{
		ID:                s.genID.Generate(),
		OwnerID:           ownerID,
		TenantID:          tenantID,
		PaymentDate:       paymentDate,
		PaymentMonth:      engine.NormalizeMonth(req.PaymentMonth),
		RentPaise:         req.RentPaise,
		DepositPaise:      req.DepositPaise,
		OtherChargesPaise: req.OtherChargesPaise,
		Method:            method,
		Remarks:           req.Remarks,
		CreatedAt:         now,
	}

	if err := s.repo.Insert(ctx, s.db, payment); err != nil {
		return nil, err
	}

	s.metrics.RecordPayment(ctx, method)
	s.log.Info("payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("tenant_id", tenantID.String()),
		zap.Int64("total_paise", payment.TotalPaise()),
	)

	return toResponse(payment), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Response, error) {
	ownerID, ok := ownerctx.OwnerIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}

	paymentID, err := domain.ParseID(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	payment, err := s.repo.FindByID(ctx, s.db, ownerID, paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, domain.ErrNotFound
	}

	return toResponse(payment), nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (*domain.ListResponse, error) {
	ownerID, ok := ownerctx.OwnerIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}

	filter := domain.ListFilter{}
	if raw := strings.TrimSpace(req.Month); raw != "" {
		month, err := time.Parse("2006-01", raw)
		if err != nil {
			return nil, domain.ErrInvalidMonth
		}
		filter.Month = &month
	}
	if raw := strings.TrimSpace(req.TenantID); raw != "" {
		tenantID, err := domain.ParseID(raw)
		if err != nil {
			return nil, domain.ErrInvalidTenant
		}
		filter.TenantID = &tenantID
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, ownerID, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return nil, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(payment *domain.Payment) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        payment.ID.String(),
			CreatedAt: payment.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	resp := &domain.ListResponse{Payments: make([]domain.Response, 0, len(items))}
	for _, item := range items {
		if item == nil {
			continue
		}
		resp.Payments = append(resp.Payments, *toResponse(item))
	}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func toResponse(p *domain.Payment) *domain.Response {
	return &domain.Response{
		ID:                p.ID.String(),
		OwnerID:           p.OwnerID.String(),
		TenantID:          p.TenantID.String(),
		PaymentDate:       p.PaymentDate,
		PaymentMonth:      p.PaymentMonth,
		RentPaise:         p.RentPaise,
		DepositPaise:      p.DepositPaise,
		OtherChargesPaise: p.OtherChargesPaise,
		TotalPaise:        p.TotalPaise(),
		Method:            p.Method,
		Remarks:           p.Remarks,
		CreatedAt:         p.CreatedAt,
	}
}
