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
	"github.com/pgdesk/pgdesk/internal/ownerctx"
	roomdomain "github.com/pgdesk/pgdesk/internal/room/domain"
	roomrepository "github.com/pgdesk/pgdesk/internal/room/repository"
	"github.com/pgdesk/pgdesk/internal/tenant/domain"
	"github.com/pgdesk/pgdesk/internal/tenant/repository"
)

type tenantFixture struct {
	db    *gorm.DB
	svc   domain.Service
	clock *clock.FakeClock
	node  *snowflake.Node
	owner snowflake.ID
	ctx   context.Context
}

func setupTenantTest(t *testing.T) *tenantFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&roomdomain.Room{}, &domain.Tenant{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fc := clock.NewFakeClock(time.Date(2024, time.July, 1, 9, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    fc,
		Repo:     repository.Provide(),
		RoomRepo: roomrepository.Provide(),
	})

	owner := node.Generate()
	return &tenantFixture{
		db:    db,
		svc:   svc,
		clock: fc,
		node:  node,
		owner: owner,
		ctx:   ownerctx.WithOwnerID(context.Background(), owner),
	}
}

func (f *tenantFixture) createRoom(t *testing.T, number string, capacity int) *roomdomain.Room {
	t.Helper()
	room := &roomdomain.Room{
		ID:         f.node.Generate(),
		OwnerID:    f.owner,
		RoomNumber: number,
		RoomType:   "shared",
		RentPaise:  500000,
		Capacity:   capacity,
		Status:     roomdomain.StatusVacant,
		CreatedAt:  f.clock.Now(),
		UpdatedAt:  f.clock.Now(),
	}
	require.NoError(t, f.db.Create(room).Error)
	return room
}

func (f *tenantFixture) onboard(t *testing.T, name string, roomID snowflake.ID) *domain.Response {
	t.Helper()
	tenant, err := f.svc.Onboard(f.ctx, domain.OnboardRequest{
		FullName: name,
		Phone:    "9876543210",
		RoomID:   roomID.String(),
	})
	require.NoError(t, err)
	return tenant
}

func (f *tenantFixture) roomStatus(t *testing.T, id snowflake.ID) string {
	t.Helper()
	var room roomdomain.Room
	require.NoError(t, f.db.First(&room, "id = ?", id).Error)
	return room.Status
}

func TestOnboardEnforcesCapacity(t *testing.T) {
	f := setupTenantTest(t)
	room := f.createRoom(t, "101", 2)

	f.onboard(t, "Asha", room.ID)
	assert.Equal(t, roomdomain.StatusVacant, f.roomStatus(t, room.ID))

	f.onboard(t, "Ravi", room.ID)
	assert.Equal(t, roomdomain.StatusOccupied, f.roomStatus(t, room.ID))

	_, err := f.svc.Onboard(f.ctx, domain.OnboardRequest{
		FullName: "Kiran",
		Phone:    "9876500000",
		RoomID:   room.ID.String(),
	})
	assert.ErrorIs(t, err, domain.ErrRoomFull)
}

func TestOnboardValidation(t *testing.T) {
	f := setupTenantTest(t)
	room := f.createRoom(t, "101", 2)

	_, err := f.svc.Onboard(f.ctx, domain.OnboardRequest{Phone: "9876543210", RoomID: room.ID.String()})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = f.svc.Onboard(f.ctx, domain.OnboardRequest{FullName: "Asha", RoomID: room.ID.String()})
	assert.ErrorIs(t, err, domain.ErrInvalidPhone)

	_, err = f.svc.Onboard(f.ctx, domain.OnboardRequest{
		FullName: "Asha",
		Phone:    "9876543210",
		Email:    "not-an-email",
		RoomID:   room.ID.String(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = f.svc.Onboard(f.ctx, domain.OnboardRequest{
		FullName: "Asha",
		Phone:    "9876543210",
		RoomID:   f.node.Generate().String(),
	})
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestCheckoutFreesBed(t *testing.T) {
	f := setupTenantTest(t)
	room := f.createRoom(t, "101", 1)
	tenant := f.onboard(t, "Asha", room.ID)
	assert.Equal(t, roomdomain.StatusOccupied, f.roomStatus(t, room.ID))

	f.clock.Advance(45 * 24 * time.Hour)
	resp, err := f.svc.Checkout(f.ctx, domain.CheckoutRequest{ID: tenant.ID, RefundDeposit: true})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCheckedOut, resp.Status)
	assert.NotNil(t, resp.CheckOutDate)
	assert.True(t, resp.DepositRefunded)
	assert.Equal(t, roomdomain.StatusVacant, f.roomStatus(t, room.ID))

	_, err = f.svc.Checkout(f.ctx, domain.CheckoutRequest{ID: tenant.ID})
	assert.ErrorIs(t, err, domain.ErrAlreadyCheckedOut)
}

func TestCheckoutKeepsMaintenanceStatus(t *testing.T) {
	f := setupTenantTest(t)
	room := f.createRoom(t, "101", 1)
	tenant := f.onboard(t, "Asha", room.ID)

	require.NoError(t, f.db.Model(&roomdomain.Room{}).
		Where("id = ?", room.ID).
		Update("status", roomdomain.StatusUnderMaintenance).Error)

	_, err := f.svc.Checkout(f.ctx, domain.CheckoutRequest{ID: tenant.ID})
	require.NoError(t, err)
	assert.Equal(t, roomdomain.StatusUnderMaintenance, f.roomStatus(t, room.ID),
		"operator-set maintenance is never overwritten")
}

func TestNoticePeriodStillHoldsBed(t *testing.T) {
	f := setupTenantTest(t)
	room := f.createRoom(t, "101", 1)
	tenant := f.onboard(t, "Asha", room.ID)

	resp, err := f.svc.StartNotice(f.ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNoticePeriod, resp.Status)
	assert.Equal(t, roomdomain.StatusOccupied, f.roomStatus(t, room.ID))

	// A second notice is an invalid transition.
	_, err = f.svc.StartNotice(f.ctx, tenant.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// And the bed is still counted, so the room stays full.
	_, err = f.svc.Onboard(f.ctx, domain.OnboardRequest{
		FullName: "Ravi",
		Phone:    "9876500000",
		RoomID:   room.ID.String(),
	})
	assert.ErrorIs(t, err, domain.ErrRoomFull)
}

func TestListFilters(t *testing.T) {
	f := setupTenantTest(t)
	room := f.createRoom(t, "101", 3)
	f.onboard(t, "Asha", room.ID)
	ravi := f.onboard(t, "Ravi", room.ID)

	_, err := f.svc.Checkout(f.ctx, domain.CheckoutRequest{ID: ravi.ID})
	require.NoError(t, err)

	occupying, err := f.svc.List(f.ctx, domain.ListRequest{Status: "occupying"})
	require.NoError(t, err)
	assert.Len(t, occupying, 1)
	assert.Equal(t, "Asha", occupying[0].FullName)

	checkedOut, err := f.svc.List(f.ctx, domain.ListRequest{Status: domain.StatusCheckedOut})
	require.NoError(t, err)
	assert.Len(t, checkedOut, 1)

	all, err := f.svc.List(f.ctx, domain.ListRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.svc.List(f.ctx, domain.ListRequest{Status: "sleeping"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestUpdateProfile(t *testing.T) {
	f := setupTenantTest(t)
	room := f.createRoom(t, "101", 1)
	tenant := f.onboard(t, "Asha", room.ID)

	newName := "Asha Verma"
	newEmail := "asha@example.com"
	resp, err := f.svc.Update(f.ctx, domain.UpdateRequest{
		ID:       tenant.ID,
		FullName: &newName,
		Email:    &newEmail,
	})
	require.NoError(t, err)
	assert.Equal(t, newName, resp.FullName)
	assert.Equal(t, newEmail, resp.Email)

	empty := "  "
	_, err = f.svc.Update(f.ctx, domain.UpdateRequest{ID: tenant.ID, FullName: &empty})
	assert.ErrorIs(t, err, domain.ErrInvalidName)
}
