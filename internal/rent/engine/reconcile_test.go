package engine

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
)

var (
	july     = time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)
	julyDue  = time.Date(2024, time.July, 5, 0, 0, 0, 0, time.UTC)
	earlyJul = time.Date(2024, time.July, 3, 10, 0, 0, 0, time.UTC)
	lateJul  = time.Date(2024, time.July, 20, 10, 0, 0, 0, time.UTC)
)

func fixtureTenants(node *snowflake.Node) []TenantRent {
	return []TenantRent{
		{TenantID: node.Generate(), TenantName: "Asha", RoomID: node.Generate(), RoomNumber: "101", RentPaise: 500000},
		{TenantID: node.Generate(), TenantName: "Ravi", RoomID: node.Generate(), RoomNumber: "102", RentPaise: 600000},
	}
}

func TestReconcilePaidAndPending(t *testing.T) {
	node, _ := snowflake.NewNode(1)
	tenants := fixtureTenants(node)

	payments := []PaymentInput{
		{
			ID:          node.Generate(),
			TenantID:    tenants[0].TenantID,
			Month:       time.Date(2024, time.July, 14, 8, 0, 0, 0, time.UTC),
			RentPaise:   500000,
			PaymentDate: earlyJul,
		},
	}

	stmt := Reconcile(july, earlyJul, 5, tenants, payments)

	assert.Equal(t, july, stmt.Month)
	assert.Equal(t, julyDue, stmt.DueDate)
	assert.Len(t, stmt.Records, 2)
	assert.Empty(t, stmt.Warnings)

	assert.Equal(t, StatusPaid, stmt.Records[0].Status)
	assert.Equal(t, int64(500000), stmt.Records[0].PaidPaise)
	assert.NotNil(t, stmt.Records[0].PaymentID)

	assert.Equal(t, StatusPending, stmt.Records[1].Status)
	assert.Nil(t, stmt.Records[1].PaymentID)

	assert.Equal(t, int64(1100000), stmt.TotalRentPaise)
	assert.Equal(t, int64(500000), stmt.CollectedPaise)
	assert.Equal(t, int64(600000), stmt.PendingPaise)
	assert.Equal(t, int64(0), stmt.OverduePaise)
	assert.Equal(t, 1, stmt.PaidCount)
	assert.InDelta(t, 45.45, stmt.CollectionRate, 0.01)
}

func TestReconcileOverdueAfterDueDate(t *testing.T) {
	node, _ := snowflake.NewNode(1)
	tenants := fixtureTenants(node)

	stmt := Reconcile(july, lateJul, 5, tenants, nil)

	for _, rec := range stmt.Records {
		assert.Equal(t, StatusOverdue, rec.Status)
	}
	assert.Equal(t, int64(1100000), stmt.OverduePaise)
	assert.Equal(t, int64(0), stmt.PendingPaise)
	assert.Equal(t, 0.0, stmt.CollectionRate)
}

func TestReconcileDuplicatePaymentFirstWins(t *testing.T) {
	node, _ := snowflake.NewNode(1)
	tenants := fixtureTenants(node)[:1]

	first := node.Generate()
	payments := []PaymentInput{
		{ID: first, TenantID: tenants[0].TenantID, Month: july, RentPaise: 500000, PaymentDate: earlyJul},
		{ID: node.Generate(), TenantID: tenants[0].TenantID, Month: july, RentPaise: 500000, PaymentDate: lateJul},
	}

	stmt := Reconcile(july, lateJul, 5, tenants, payments)

	assert.Len(t, stmt.Warnings, 1)
	assert.Equal(t, WarnDuplicatePayment, stmt.Warnings[0].Code)
	assert.Equal(t, tenants[0].TenantID, stmt.Warnings[0].TenantID)

	assert.Equal(t, StatusPaid, stmt.Records[0].Status)
	assert.Equal(t, first, *stmt.Records[0].PaymentID)
	assert.Equal(t, int64(500000), stmt.CollectedPaise, "duplicate must not double count")
}

func TestReconcileTenantWithoutRoomExcluded(t *testing.T) {
	node, _ := snowflake.NewNode(1)
	roomless := TenantRent{TenantID: node.Generate(), TenantName: "Kiran"}
	tenants := append(fixtureTenants(node), roomless)

	stmt := Reconcile(july, earlyJul, 5, tenants, nil)

	assert.Len(t, stmt.Records, 2)
	assert.Len(t, stmt.Warnings, 1)
	assert.Equal(t, WarnTenantWithoutRoom, stmt.Warnings[0].Code)
	assert.Equal(t, roomless.TenantID, stmt.Warnings[0].TenantID)
	assert.Equal(t, int64(1100000), stmt.TotalRentPaise)
}

func TestReconcilePaymentOutsideMonthIgnored(t *testing.T) {
	node, _ := snowflake.NewNode(1)
	tenants := fixtureTenants(node)[:1]

	payments := []PaymentInput{
		{
			ID:          node.Generate(),
			TenantID:    tenants[0].TenantID,
			Month:       time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
			RentPaise:   500000,
			PaymentDate: earlyJul,
		},
	}

	stmt := Reconcile(july, earlyJul, 5, tenants, payments)
	assert.Equal(t, StatusPending, stmt.Records[0].Status)
	assert.Equal(t, int64(0), stmt.CollectedPaise)
}

func TestReconcileDueDayClamped(t *testing.T) {
	node, _ := snowflake.NewNode(1)
	tenants := fixtureTenants(node)

	stmt := Reconcile(july, earlyJul, 31, tenants, nil)
	assert.Equal(t, julyDue, stmt.DueDate, "out of range due day falls back to the 5th")

	stmt = Reconcile(july, earlyJul, 0, tenants, nil)
	assert.Equal(t, julyDue, stmt.DueDate)
}

func TestReconcileNoTenants(t *testing.T) {
	stmt := Reconcile(july, earlyJul, 5, nil, nil)
	assert.Empty(t, stmt.Records)
	assert.Equal(t, int64(0), stmt.TotalRentPaise)
	assert.Equal(t, 0.0, stmt.CollectionRate)
}

func TestNormalizeMonth(t *testing.T) {
	mid := time.Date(2024, time.July, 19, 23, 45, 0, 0, time.FixedZone("IST", 5*3600+1800))
	got := NormalizeMonth(mid)
	assert.Equal(t, july, got)
	assert.Equal(t, got, NormalizeMonth(got))
}
