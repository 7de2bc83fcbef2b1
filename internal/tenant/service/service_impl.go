package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pgdesk/pgdesk/internal/clock"
	"github.com/pgdesk/pgdesk/internal/ownerctx"
	roomdomain "github.com/pgdesk/pgdesk/internal/room/domain"
	"github.com/pgdesk/pgdesk/internal/tenant/domain"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	RoomRepo roomdomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	roomRepo roomdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("tenant.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		roomRepo: p.RoomRepo,
	}
}

func (s *Service) Onboard(ctx context.Context, req domain.OnboardRequest) (*domain.Response, error) {
	ownerID, ok := ownerctx.OwnerIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}

	name := strings.TrimSpace(req.FullName)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		return nil, domain.ErrInvalidPhone
	}
	email := strings.TrimSpace(req.Email)
	if email != "" && !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidEmail
	}
	if req.DepositPaise < 0 {
		return nil, domain.ErrInvalidDeposit
	}

	roomID, err := domain.ParseID(strings.TrimSpace(req.RoomID))
	if err != nil || roomID == 0 {
		return nil, domain.ErrInvalidRoom
	}

	now := s.clock.Now()
	joinDate := now
	if req.JoinDate != nil {
		joinDate = req.JoinDate.UTC()
	}

	tenant := &domain.Tenant{
		ID:           s.genID.Generate(),
		OwnerID:      ownerID,
		RoomID:       &roomID,
		FullName:     name,
		Email:        email,
		Phone:        phone,
		JoinDate:     joinDate,
		CheckInDate:  &joinDate,
		Status:       domain.StatusActive,
		DepositPaise: req.DepositPaise,
		IDProofURL:   req.IDProofURL,
		AgreementURL: req.AgreementURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Capacity check and room status update run in one transaction so a
	// concurrent onboard cannot oversubscribe the room.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := s.roomRepo.FindByID(ctx, tx, ownerID, roomID)
		if err != nil {
			return err
		}
		if room == nil {
			return domain.ErrRoomNotFound
		}

		occupying, err := s.repo.CountOccupyingByRoom(ctx, tx, ownerID, roomID)
		if err != nil {
			return err
		}
		capacity := room.Capacity
		if capacity < 1 {
			capacity = 1
		}
		if occupying >= int64(capacity) {
			return domain.ErrRoomFull
		}

		if err := s.repo.Insert(ctx, tx, tenant); err != nil {
			return err
		}

		return s.syncRoomStatus(ctx, tx, room, occupying+1)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("tenant onboarded",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("room_id", roomID.String()),
	)

	return toResponse(tenant), nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	ownerID, ok := ownerctx.OwnerIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}

	tenantID, err := domain.ParseID(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	tenant, err := s.repo.FindByID(ctx, s.db, ownerID, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, domain.ErrNotFound
	}

	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		tenant.FullName = name
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email != "" && !strings.Contains(email, "@") {
			return nil, domain.ErrInvalidEmail
		}
		tenant.Email = email
	}
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		if phone == "" {
			return nil, domain.ErrInvalidPhone
		}
		tenant.Phone = phone
	}
	if req.IDProofURL != nil {
		tenant.IDProofURL = req.IDProofURL
	}
	if req.AgreementURL != nil {
		tenant.AgreementURL = req.AgreementURL
	}

	tenant.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, tenant); err != nil {
		return nil, err
	}

	return toResponse(tenant), nil
}

func (s *Service) StartNotice(ctx context.Context, id string) (*domain.Response, error) {
	ownerID, ok := ownerctx.OwnerIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}

	tenantID, err := domain.ParseID(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	tenant, err := s.repo.FindByID(ctx, s.db, ownerID, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, domain.ErrNotFound
	}
	if tenant.Status != domain.StatusActive {
		return nil, domain.ErrInvalidTransition
	}

	tenant.Status = domain.StatusNoticePeriod
	tenant.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, tenant); err != nil {
		return nil, err
	}

	return toResponse(tenant), nil
}

func (s *Service) Checkout(ctx context.Context, req domain.CheckoutRequest) (*domain.Response, error) {
	ownerID, ok := ownerctx.OwnerIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}

	tenantID, err := domain.ParseID(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	tenant, err := s.repo.FindByID(ctx, s.db, ownerID, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, domain.ErrNotFound
	}
	if tenant.Status == domain.StatusCheckedOut {
		return nil, domain.ErrAlreadyCheckedOut
	}

	now := s.clock.Now()
	checkOut := now
	if req.CheckOutDate != nil {
		checkOut = req.CheckOutDate.UTC()
	}

	roomID := tenant.RoomID
	tenant.Status = domain.StatusCheckedOut
	tenant.CheckOutDate = &checkOut
	if req.RefundDeposit {
		tenant.DepositRefunded = true
	}
	tenant.UpdatedAt = now

	// Checkout and the room status recheck commit together.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Update(ctx, tx, tenant); err != nil {
			return err
		}
		if roomID == nil {
			return nil
		}
		room, err := s.roomRepo.FindByID(ctx, tx, ownerID, *roomID)
		if err != nil {
			return err
		}
		if room == nil {
			return nil
		}
		remaining, err := s.repo.CountOccupyingByRoom(ctx, tx, ownerID, *roomID)
		if err != nil {
			return err
		}
		return s.syncRoomStatus(ctx, tx, room, remaining)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("tenant checked out", zap.String("tenant_id", tenant.ID.String()))

	return toResponse(tenant), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Response, error) {
	ownerID, ok := ownerctx.OwnerIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}

	tenantID, err := domain.ParseID(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	tenant, err := s.repo.FindByID(ctx, s.db, ownerID, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, domain.ErrNotFound
	}

	return toResponse(tenant), nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	ownerID, ok := ownerctx.OwnerIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}

	filter := domain.ListFilter{}
	switch status := strings.TrimSpace(req.Status); status {
	case "":
	case "occupying":
		filter.Occupying = true
	default:
		if !domain.ValidStatus(status) {
			return nil, domain.ErrInvalidStatus
		}
		filter.Status = status
	}

	if roomID := strings.TrimSpace(req.RoomID); roomID != "" {
		parsed, err := domain.ParseID(roomID)
		if err != nil {
			return nil, domain.ErrInvalidRoom
		}
		filter.RoomID = &parsed
	}

	tenants, err := s.repo.List(ctx, s.db, ownerID, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(tenants))
	for i := range tenants {
		resp = append(resp, *toResponse(&tenants[i]))
	}
	return resp, nil
}

// syncRoomStatus re-derives the stored room status from the occupying
// count. Maintenance status is operator-set and never overwritten here.
func (s *Service) syncRoomStatus(ctx context.Context, tx *gorm.DB, room *roomdomain.Room, occupying int64) error {
	if room.Status == roomdomain.StatusUnderMaintenance {
		return nil
	}
	capacity := room.Capacity
	if capacity < 1 {
		capacity = 1
	}

	status := roomdomain.StatusVacant
	if occupying >= int64(capacity) {
		status = roomdomain.StatusOccupied
	}
	if status == room.Status {
		return nil
	}

	room.Status = status
	room.UpdatedAt = s.clock.Now()
	return s.roomRepo.Update(ctx, tx, room)
}

func toResponse(t *domain.Tenant) *domain.Response {
	var roomID *string
	if t.RoomID != nil {
		value := t.RoomID.String()
		roomID = &value
	}
	return &domain.Response{
		ID:              t.ID.String(),
		OwnerID:         t.OwnerID.String(),
		RoomID:          roomID,
		FullName:        t.FullName,
		Email:           t.Email,
		Phone:           t.Phone,
		JoinDate:        t.JoinDate,
		CheckInDate:     t.CheckInDate,
		CheckOutDate:    t.CheckOutDate,
		Status:          t.Status,
		DepositPaise:    t.DepositPaise,
		DepositRefunded: t.DepositRefunded,
		IDProofURL:      t.IDProofURL,
		AgreementURL:    t.AgreementURL,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}
