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
	"github.com/pgdesk/pgdesk/internal/complaint/domain"
	"github.com/pgdesk/pgdesk/internal/complaint/repository"
	"github.com/pgdesk/pgdesk/internal/ownerctx"
	roomdomain "github.com/pgdesk/pgdesk/internal/room/domain"
	roomrepository "github.com/pgdesk/pgdesk/internal/room/repository"
	tenantdomain "github.com/pgdesk/pgdesk/internal/tenant/domain"
	tenantrepository "github.com/pgdesk/pgdesk/internal/tenant/repository"
)

type complaintFixture struct {
	db    *gorm.DB
	svc   domain.Service
	clock *clock.FakeClock
	node  *snowflake.Node
	owner snowflake.ID
	ctx   context.Context
}

func setupComplaintTest(t *testing.T) *complaintFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&roomdomain.Room{}, &tenantdomain.Tenant{}, &domain.Complaint{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fc := clock.NewFakeClock(time.Date(2024, time.July, 1, 9, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:         db,
		Log:        zap.NewNop(),
		GenID:      node,
		Clock:      fc,
		Repo:       repository.Provide(),
		TenantRepo: tenantrepository.Provide(),
		RoomRepo:   roomrepository.Provide(),
	})

	owner := node.Generate()
	return &complaintFixture{
		db:    db,
		svc:   svc,
		clock: fc,
		node:  node,
		owner: owner,
		ctx:   ownerctx.WithOwnerID(context.Background(), owner),
	}
}

func (f *complaintFixture) create(t *testing.T, title string) *domain.Response {
	t.Helper()
	resp, err := f.svc.Create(f.ctx, domain.CreateRequest{Title: title})
	require.NoError(t, err)
	return resp
}

func TestCreateComplaint(t *testing.T) {
	f := setupComplaintTest(t)

	resp := f.create(t, "leaking tap")
	assert.Equal(t, domain.StatusOpen, resp.Status)
	assert.Equal(t, domain.PriorityMedium, resp.Priority, "priority defaults to medium")
	assert.Nil(t, resp.ResolvedAt)

	_, err := f.svc.Create(f.ctx, domain.CreateRequest{Title: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidTitle)

	_, err = f.svc.Create(f.ctx, domain.CreateRequest{Title: "noise", Priority: "urgent"})
	assert.ErrorIs(t, err, domain.ErrInvalidPriority)

	_, err = f.svc.Create(f.ctx, domain.CreateRequest{
		Title:    "broken fan",
		TenantID: f.node.Generate().String(),
	})
	assert.ErrorIs(t, err, domain.ErrTenantNotFound)

	_, err = f.svc.Create(f.ctx, domain.CreateRequest{
		Title:  "broken fan",
		RoomID: f.node.Generate().String(),
	})
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestStatusTransitionsForwardOnly(t *testing.T) {
	f := setupComplaintTest(t)
	resp := f.create(t, "leaking tap")

	resp2, err := f.svc.UpdateStatus(f.ctx, domain.UpdateStatusRequest{
		ID:     resp.ID,
		Status: domain.StatusInProgress,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, resp2.Status)
	assert.Nil(t, resp2.ResolvedAt)

	// Going back to open is not allowed.
	_, err = f.svc.UpdateStatus(f.ctx, domain.UpdateStatusRequest{
		ID:     resp.ID,
		Status: domain.StatusOpen,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	f.clock.Advance(2 * time.Hour)
	resolved, err := f.svc.UpdateStatus(f.ctx, domain.UpdateStatusRequest{
		ID:     resp.ID,
		Status: domain.StatusResolved,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)
	assert.Equal(t, f.clock.Now(), *resolved.ResolvedAt)

	// Resolved is terminal.
	_, err = f.svc.UpdateStatus(f.ctx, domain.UpdateStatusRequest{
		ID:     resp.ID,
		Status: domain.StatusInProgress,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestOpenResolvesDirectly(t *testing.T) {
	f := setupComplaintTest(t)
	resp := f.create(t, "leaking tap")

	resolved, err := f.svc.UpdateStatus(f.ctx, domain.UpdateStatusRequest{
		ID:     resp.ID,
		Status: domain.StatusResolved,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusResolved, resolved.Status)
	assert.NotNil(t, resolved.ResolvedAt)
}

func TestListComplaintsFilters(t *testing.T) {
	f := setupComplaintTest(t)
	first := f.create(t, "leaking tap")
	f.create(t, "noisy neighbor")

	_, err := f.svc.UpdateStatus(f.ctx, domain.UpdateStatusRequest{
		ID:     first.ID,
		Status: domain.StatusResolved,
	})
	require.NoError(t, err)

	open, err := f.svc.List(f.ctx, domain.ListRequest{Status: domain.StatusOpen})
	require.NoError(t, err)
	assert.Len(t, open, 1)
	assert.Equal(t, "noisy neighbor", open[0].Title)

	all, err := f.svc.List(f.ctx, domain.ListRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.svc.List(f.ctx, domain.ListRequest{Status: "stale"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}
