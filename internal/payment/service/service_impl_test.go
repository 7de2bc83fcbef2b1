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
	"github.com/pgdesk/pgdesk/internal/payment/domain"
	"github.com/pgdesk/pgdesk/internal/payment/repository"
	tenantdomain "github.com/pgdesk/pgdesk/internal/tenant/domain"
	tenantrepository "github.com/pgdesk/pgdesk/internal/tenant/repository"
)

type paymentFixture struct {
	db     *gorm.DB
	svc    domain.Service
	clock  *clock.FakeClock
	node   *snowflake.Node
	owner  snowflake.ID
	ctx    context.Context
	tenant snowflake.ID
}

func setupPaymentTest(t *testing.T) *paymentFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tenantdomain.Tenant{}, &domain.Payment{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fc := clock.NewFakeClock(time.Date(2024, time.July, 3, 9, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:         db,
		Log:        zap.NewNop(),
		GenID:      node,
		Clock:      fc,
		Repo:       repository.Provide(),
		TenantRepo: tenantrepository.Provide(),
	})

	f := &paymentFixture{
		db:    db,
		svc:   svc,
		clock: fc,
		node:  node,
		owner: node.Generate(),
	}
	f.ctx = ownerctx.WithOwnerID(context.Background(), f.owner)

	joined := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	tenant := &tenantdomain.Tenant{
		ID:          f.node.Generate(),
		OwnerID:     f.owner,
		FullName:    "Asha",
		Phone:       "9876543210",
		JoinDate:    joined,
		CheckInDate: &joined,
		Status:      tenantdomain.StatusActive,
		CreatedAt:   joined,
		UpdatedAt:   joined,
	}
	require.NoError(t, f.db.Create(tenant).Error)
	f.tenant = tenant.ID

	return f
}

func (f *paymentFixture) record(t *testing.T, month time.Time, rentPaise int64) *domain.Response {
	t.Helper()
	resp, err := f.svc.Record(f.ctx, domain.RecordRequest{
		TenantID:     f.tenant.String(),
		PaymentMonth: month,
		RentPaise:    rentPaise,
		Method:       "upi",
	})
	require.NoError(t, err)
	return resp
}

func TestRecordPayment(t *testing.T) {
	f := setupPaymentTest(t)
	july := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)

	resp := f.record(t, july, 500000)
	assert.Equal(t, int64(500000), resp.TotalPaise)
	assert.Equal(t, july, resp.PaymentMonth)
	assert.Equal(t, f.clock.Now(), resp.PaymentDate, "payment date defaults to now")

	// The month is normalized to its first day.
	resp = f.record(t, time.Date(2024, time.August, 19, 13, 0, 0, 0, time.UTC), 500000)
	assert.Equal(t, time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC), resp.PaymentMonth)
}

func TestRecordPaymentValidation(t *testing.T) {
	f := setupPaymentTest(t)
	july := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)

	_, err := f.svc.Record(f.ctx, domain.RecordRequest{
		TenantID:     f.tenant.String(),
		PaymentMonth: july,
		RentPaise:    -1,
		Method:       "upi",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = f.svc.Record(f.ctx, domain.RecordRequest{
		TenantID:     f.tenant.String(),
		PaymentMonth: july,
		Method:       "upi",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount, "zero total is rejected")

	_, err = f.svc.Record(f.ctx, domain.RecordRequest{
		TenantID:     f.tenant.String(),
		PaymentMonth: july,
		RentPaise:    500000,
		Method:       "cheque",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidMethod)

	_, err = f.svc.Record(f.ctx, domain.RecordRequest{
		TenantID:     f.tenant.String(),
		RentPaise:    500000,
		Method:       "upi",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidMonth)

	_, err = f.svc.Record(f.ctx, domain.RecordRequest{
		TenantID:     f.node.Generate().String(),
		PaymentMonth: july,
		RentPaise:    500000,
		Method:       "upi",
	})
	assert.ErrorIs(t, err, domain.ErrTenantNotFound)
}

func TestListPaymentsCursorPagination(t *testing.T) {
	f := setupPaymentTest(t)
	july := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)

	ids := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		resp := f.record(t, july, 500000)
		ids = append(ids, resp.ID)
		f.clock.Advance(time.Minute)
	}

	// Newest first, two per page.
	page1, err := f.svc.List(f.ctx, domain.ListRequest{PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page1.Payments, 2)
	assert.True(t, page1.HasMore)
	assert.Equal(t, ids[4], page1.Payments[0].ID)
	assert.Equal(t, ids[3], page1.Payments[1].ID)

	page2, err := f.svc.List(f.ctx, domain.ListRequest{PageSize: 2, PageToken: page1.NextPageToken})
	require.NoError(t, err)
	require.Len(t, page2.Payments, 2)
	assert.True(t, page2.HasMore)
	assert.Equal(t, ids[2], page2.Payments[0].ID)
	assert.Equal(t, ids[1], page2.Payments[1].ID)

	page3, err := f.svc.List(f.ctx, domain.ListRequest{PageSize: 2, PageToken: page2.NextPageToken})
	require.NoError(t, err)
	require.Len(t, page3.Payments, 1)
	assert.False(t, page3.HasMore)
	assert.Equal(t, ids[0], page3.Payments[0].ID)
}

func TestListPaymentsFilters(t *testing.T) {
	f := setupPaymentTest(t)
	f.record(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), 500000)
	f.clock.Advance(time.Minute)
	f.record(t, time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC), 500000)

	resp, err := f.svc.List(f.ctx, domain.ListRequest{Month: "2024-07"})
	require.NoError(t, err)
	assert.Len(t, resp.Payments, 1)

	resp, err = f.svc.List(f.ctx, domain.ListRequest{TenantID: f.tenant.String()})
	require.NoError(t, err)
	assert.Len(t, resp.Payments, 2)

	_, err = f.svc.List(f.ctx, domain.ListRequest{Month: "July"})
	assert.ErrorIs(t, err, domain.ErrInvalidMonth)
}
