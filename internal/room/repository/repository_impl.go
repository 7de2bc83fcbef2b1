package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	roomdomain "github.com/pgdesk/pgdesk/internal/room/domain"
	tenantdomain "github.com/pgdesk/pgdesk/internal/tenant/domain"
)

type repo struct{}

func Provide() roomdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, room *roomdomain.Room) error {
	return db.WithContext(ctx).Create(room).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, room *roomdomain.Room) error {
	return db.WithContext(ctx).
		Model(&roomdomain.Room{}).
		Where("owner_id = ? AND id = ?", room.OwnerID, room.ID).
		Updates(map[string]interface{}{
			"room_number": room.RoomNumber,
			"room_type":   room.RoomType,
			"rent_paise":  room.RentPaise,
			"capacity":    room.Capacity,
			"floor":       room.Floor,
			"status":      room.Status,
			"updated_at":  room.UpdatedAt,
		}).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Delete(&roomdomain.Room{}).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) (*roomdomain.Room, error) {
	var room roomdomain.Room
	err := db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

func (r *repo) FindByNumber(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, number string) (*roomdomain.Room, error) {
	var room roomdomain.Room
	err := db.WithContext(ctx).
		Where("owner_id = ? AND room_number = ?", ownerID, strings.TrimSpace(number)).
		First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) ([]roomdomain.Room, error) {
	var rooms []roomdomain.Room
	err := db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("room_number asc").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *repo) CountActiveTenants(ctx context.Context, db *gorm.DB, ownerID, roomID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&tenantdomain.Tenant{}).
		Where("owner_id = ? AND room_id = ? AND status IN ?", ownerID, roomID, tenantdomain.OccupyingStatuses()).
		Count(&count).Error
	return count, err
}

func (r *repo) ActiveTenantCounts(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) (map[snowflake.ID]int, error) {
	type row struct {
		RoomID snowflake.ID
		Count  int
	}
	var rows []row
	err := db.WithContext(ctx).
		Model(&tenantdomain.Tenant{}).
		Select("room_id, count(*) as count").
		Where("owner_id = ? AND room_id IS NOT NULL AND status IN ?", ownerID, tenantdomain.OccupyingStatuses()).
		Group("room_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[snowflake.ID]int, len(rows))
	for _, item := range rows {
		counts[item.RoomID] = item.Count
	}
	return counts, nil
}

func (r *repo) InsertEditHistory(ctx context.Context, db *gorm.DB, entry *roomdomain.EditHistory) error {
	return db.WithContext(ctx).Create(entry).Error
}

func (r *repo) ListEditHistory(ctx context.Context, db *gorm.DB, ownerID, roomID snowflake.ID) ([]roomdomain.EditHistory, error) {
	var entries []roomdomain.EditHistory
	err := db.WithContext(ctx).
		Where("owner_id = ? AND room_id = ?", ownerID, roomID).
		Order("created_at desc, id desc").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
