package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pgdesk/pgdesk/internal/ownerctx"
	"github.com/pgdesk/pgdesk/internal/room/domain"
	"github.com/pgdesk/pgdesk/pkg/db"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("room.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	ownerID, ok := ownerctx.OwnerIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}

	number := strings.TrimSpace(req.RoomNumber)
	if number == "" {
		return nil, domain.ErrInvalidRoomNumber
	}
	roomType := strings.TrimSpace(req.RoomType)
	if roomType == "" {
		return nil, domain.ErrInvalidRoomType
	}
	if req.RentPaise <= 0 {
		return nil, domain.ErrInvalidRentAmount
	}
	if req.Capacity < 1 {
		return nil, domain.ErrInvalidCapacity
	}

	status := domain.StatusVacant
	if strings.TrimSpace(req.Status) != "" {
		status = strings.TrimSpace(req.Status)
		if !domain.ValidStatus(status) {
			return nil, domain.ErrInvalidStatus
		}
	}

	existing, err := s.repo.FindByNumber(ctx, s.db, ownerID, number)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrRoomNumberTaken
	}

	now := time.Now().UTC()
	room := &domain.Room{
		ID:         s.genID.Generate(),
		OwnerID:    ownerID,
		RoomNumber: number,
		RoomType:   roomType,
		RentPaise:  req.RentPaise,
		Capacity:   req.Capacity,
		Floor:      req.Floor,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Insert(ctx, s.db, room); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrRoomNumberTaken
		}
		return nil, err
	}

	s.log.Info("room created",
		zap.String("room_id", room.ID.String()),
		zap.String("room_number", room.RoomNumber),
	)

	return s.toResponse(room, 0), nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	ownerID, ok := ownerctx.OwnerIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}

	roomID, err := domain.ParseID(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	room, err := s.repo.FindByID(ctx, s.db, ownerID, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, domain.ErrNotFound
	}

	activeTenants, err := s.repo.CountActiveTenants(ctx, s.db, ownerID, roomID)
	if err != nil {
		return nil, err
	}

	changes := datatypes.JSONMap{}

	if req.RoomNumber != nil {
		number := strings.TrimSpace(*req.RoomNumber)
		if number == "" {
			return nil, domain.ErrInvalidRoomNumber
		}
		if number != room.RoomNumber {
			other, err := s.repo.FindByNumber(ctx, s.db, ownerID, number)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != room.ID {
				return nil, domain.ErrRoomNumberTaken
			}
			changes["room_number"] = changeEntry(room.RoomNumber, number)
			room.RoomNumber = number
		}
	}

	if req.RoomType != nil {
		roomType := strings.TrimSpace(*req.RoomType)
		if roomType == "" {
			return nil, domain.ErrInvalidRoomType
		}
		if roomType != room.RoomType {
			changes["room_type"] = changeEntry(room.RoomType, roomType)
			room.RoomType = roomType
		}
	}

	if req.RentPaise != nil {
		if *req.RentPaise <= 0 {
			return nil, domain.ErrInvalidRentAmount
		}
		if *req.RentPaise != room.RentPaise {
			changes["rent_paise"] = changeEntry(room.RentPaise, *req.RentPaise)
			room.RentPaise = *req.RentPaise
		}
	}

	if req.Capacity != nil {
		if *req.Capacity < 1 {
			return nil, domain.ErrInvalidCapacity
		}
		if int64(*req.Capacity) < activeTenants {
			return nil, domain.ErrCapacityBelowTenants
		}
		if *req.Capacity != room.Capacity {
			changes["capacity"] = changeEntry(room.Capacity, *req.Capacity)
			room.Capacity = *req.Capacity
		}
	}

	if req.Floor != nil {
		room.Floor = req.Floor
	}

	if req.Status != nil {
		status := strings.TrimSpace(*req.Status)
		if !domain.ValidStatus(status) {
			return nil, domain.ErrInvalidStatus
		}
		if status != room.Status {
			changes["status"] = changeEntry(room.Status, status)
			room.Status = status
		}
	}

	room.UpdatedAt = time.Now().UTC()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Update(ctx, tx, room); err != nil {
			return err
		}
		if len(changes) == 0 {
			return nil
		}
		entry := &domain.EditHistory{
			ID:        s.genID.Generate(),
			OwnerID:   ownerID,
			RoomID:    room.ID,
			EditedBy:  strings.TrimSpace(req.EditedBy),
			Changes:   changes,
			CreatedAt: room.UpdatedAt,
		}
		return s.repo.InsertEditHistory(ctx, tx, entry)
	})
	if err != nil {
		return nil, err
	}

	return s.toResponse(room, int(activeTenants)), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ownerID, ok := ownerctx.OwnerIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return domain.ErrInvalidOwner
	}

	roomID, err := domain.ParseID(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}

	room, err := s.repo.FindByID(ctx, s.db, ownerID, roomID)
	if err != nil {
		return err
	}
	if room == nil {
		return domain.ErrNotFound
	}

	activeTenants, err := s.repo.CountActiveTenants(ctx, s.db, ownerID, roomID)
	if err != nil {
		return err
	}
	if activeTenants > 0 {
		return domain.ErrRoomOccupied
	}

	return s.repo.Delete(ctx, s.db, ownerID, roomID)
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Response, error) {
	ownerID, ok := ownerctx.OwnerIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}

	roomID, err := domain.ParseID(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	room, err := s.repo.FindByID(ctx, s.db, ownerID, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, domain.ErrNotFound
	}

	activeTenants, err := s.repo.CountActiveTenants(ctx, s.db, ownerID, roomID)
	if err != nil {
		return nil, err
	}

	return s.toResponse(room, int(activeTenants)), nil
}

func (s *Service) List(ctx context.Context) ([]domain.Response, error) {
	ownerID, ok := ownerctx.OwnerIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}

	rooms, err := s.repo.List(ctx, s.db, ownerID)
	if err != nil {
		return nil, err
	}

	counts, err := s.repo.ActiveTenantCounts(ctx, s.db, ownerID)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(rooms))
	for i := range rooms {
		resp = append(resp, *s.toResponse(&rooms[i], counts[rooms[i].ID]))
	}
	return resp, nil
}

func (s *Service) History(ctx context.Context, id string) ([]domain.EditHistory, error) {
	ownerID, ok := ownerctx.OwnerIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}

	roomID, err := domain.ParseID(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	room, err := s.repo.FindByID(ctx, s.db, ownerID, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, domain.ErrNotFound
	}

	return s.repo.ListEditHistory(ctx, s.db, ownerID, roomID)
}

func (s *Service) toResponse(room *domain.Room, activeTenants int) *domain.Response {
	capacity := room.Capacity
	if capacity < 1 {
		capacity = 1
	}
	available := capacity - activeTenants
	if available < 0 {
		available = 0
	}
	return &domain.Response{
		ID:            room.ID.String(),
		OwnerID:       room.OwnerID.String(),
		RoomNumber:    room.RoomNumber,
		RoomType:      room.RoomType,
		RentPaise:     room.RentPaise,
		Capacity:      room.Capacity,
		Floor:         room.Floor,
		Status:        room.Status,
		ActiveTenants: activeTenants,
		AvailableBeds: available,
		CreatedAt:     room.CreatedAt,
		UpdatedAt:     room.UpdatedAt,
	}
}

func changeEntry(oldValue, newValue interface{}) map[string]interface{} {
	return map[string]interface{}{"old": oldValue, "new": newValue}
}
