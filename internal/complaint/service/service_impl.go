package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pgdesk/pgdesk/internal/clock"
	"github.com/pgdesk/pgdesk/internal/complaint/domain"
	obsmetrics "github.com/pgdesk/pgdesk/internal/observability/metrics"
	"github.com/pgdesk/pgdesk/internal/ownerctx"
	roomdomain "github.com/pgdesk/pgdesk/internal/room/domain"
	tenantdomain "github.com/pgdesk/pgdesk/internal/tenant/domain"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       domain.Repository
	TenantRepo tenantdomain.Repository
	RoomRepo   roomdomain.Repository
	Metrics    *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       domain.Repository
	tenantRepo tenantdomain.Repository
	roomRepo   roomdomain.Repository
	metrics    *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("complaint.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		tenantRepo: p.TenantRepo,
		roomRepo:   p.RoomRepo,
		metrics:    p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	ownerID, ok := ownerctx.OwnerIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrInvalidTitle
	}

	priority := req.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !domain.ValidPriority(priority) {
		return nil, domain.ErrInvalidPriority
	}

	var tenantID *snowflake.ID
	if value := strings.TrimSpace(req.TenantID); value != "" {
		id, err := tenantdomain.ParseID(value)
		if err != nil || id == 0 {
			return nil, domain.ErrInvalidTenant
		}
		tenant, err := s.tenantRepo.FindByID(ctx, s.db, ownerID, id)
		if err != nil {
			return nil, err
		}
		if tenant == nil {
			return nil, domain.ErrTenantNotFound
		}
		tenantID = &id
	}

	var roomID *snowflake.ID
	if value := strings.TrimSpace(req.RoomID); value != "" {
		id, err := roomdomain.ParseID(value)
		if err != nil || id == 0 {
			return nil, domain.ErrInvalidRoom
		}
		room, err := s.roomRepo.FindByID(ctx, s.db, ownerID, id)
		if err != nil {
			return nil, err
		}
		if room == nil {
			return nil, domain.ErrRoomNotFound
		}
		roomID = &id
	}

	now := s.clock.Now()
	complaint := &domain.Complaint{
		ID:          s.genID.Generate(),
		OwnerID:     ownerID,
		TenantID:    tenantID,
		RoomID:      roomID,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Priority:    priority,
		Status:      domain.StatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, complaint); err != nil {
		return nil, err
	}

	s.log.Info("complaint created",
		zap.String("complaint_id", complaint.ID.String()),
		zap.String("priority", complaint.Priority),
	)

	return toResponse(complaint), nil
}

func (s *Service) UpdateStatus(ctx context.Context, req domain.UpdateStatusRequest) (*domain.Response, error) {
	ownerID, ok := ownerctx.OwnerIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}

	id, err := domain.ParseID(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidID
	}
	if !domain.ValidStatus(req.Status) {
		return nil, domain.ErrInvalidStatus
	}

	complaint, err := s.repo.FindByID(ctx, s.db, ownerID, id)
	if err != nil {
		return nil, err
	}
	if complaint == nil {
		return nil, domain.ErrNotFound
	}

	if !domain.CanTransition(complaint.Status, req.Status) {
		return nil, domain.ErrInvalidTransition
	}

	now := s.clock.Now()
	complaint.Status = req.Status
	complaint.UpdatedAt = now
	if req.Status == domain.StatusResolved {
		complaint.ResolvedAt = &now
	}

	if err := s.repo.Update(ctx, s.db, complaint); err != nil {
		return nil, err
	}

	s.metrics.RecordComplaintTransition(ctx, complaint.Status)
	s.log.Info("complaint status updated",
		zap.String("complaint_id", complaint.ID.String()),
		zap.String("status", complaint.Status),
	)

	return toResponse(complaint), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Response, error) {
	ownerID, ok := ownerctx.OwnerIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}

	complaintID, err := domain.ParseID(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	complaint, err := s.repo.FindByID(ctx, s.db, ownerID, complaintID)
	if err != nil {
		return nil, err
	}
	if complaint == nil {
		return nil, domain.ErrNotFound
	}

	return toResponse(complaint), nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	ownerID, ok := ownerctx.OwnerIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}

	if req.Status != "" && !domain.ValidStatus(req.Status) {
		return nil, domain.ErrInvalidStatus
	}
	if req.Priority != "" && !domain.ValidPriority(req.Priority) {
		return nil, domain.ErrInvalidPriority
	}

	complaints, err := s.repo.List(ctx, s.db, ownerID, domain.ListFilter{
		Status:   req.Status,
		Priority: req.Priority,
	})
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(complaints))
	for i := range complaints {
		resp = append(resp, *toResponse(&complaints[i]))
	}
	return resp, nil
}

func toResponse(c *domain.Complaint) *domain.Response {
	resp := &domain.Response{
		ID:          c.ID.String(),
		OwnerID:     c.OwnerID.String(),
		Title:       c.Title,
		Description: c.Description,
		Priority:    c.Priority,
		Status:      c.Status,
		ResolvedAt:  c.ResolvedAt,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	if c.TenantID != nil {
		value := c.TenantID.String()
		resp.TenantID = &value
	}
	if c.RoomID != nil {
		value := c.RoomID.String()
		resp.RoomID = &value
	}
	return resp
}
