// Package engine reconciles expected rent against recorded payments for a
// billing month. It is pure; the rent service loads snapshots and refreshes
// the persisted rent_records cache around it.
package engine

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Rent record status for a tenant in a billing month.
const (
	StatusPaid    = "paid"
	StatusPending = "pending"
	StatusOverdue = "overdue"
)

// Warning codes surfaced by reconciliation. Integrity findings are reported,
// never silently dropped, and never abort the run.
const (
	WarnTenantWithoutRoom = "tenant_without_room"
	WarnDuplicatePayment  = "duplicate_payment"
)

// TenantRent is one active tenant and the rent their room commands.
type TenantRent struct {
	TenantID   snowflake.ID
	TenantName string
	RoomID     snowflake.ID
	RoomNumber string
	RentPaise  int64
}

// PaymentInput is a recorded payment relevant to the month.
type PaymentInput struct {
	ID          snowflake.ID
	TenantID    snowflake.ID
	Month       time.Time
	RentPaise   int64
	PaymentDate time.Time
}

// Record is the reconciled state of one tenant for the month.
type Record struct {
	TenantID   snowflake.ID `json:"tenant_id"`
	TenantName string       `json:"tenant_name"`
	RoomID     snowflake.ID `json:"room_id"`
	RoomNumber string       `json:"room_number"`
	DuePaise   int64        `json:"due_paise"`
	DueDate    time.Time    `json:"due_date"`
	Status     string       `json:"status"`

	PaymentID *snowflake.ID `json:"payment_id,omitempty"`
	PaidPaise int64         `json:"paid_paise"`
	PaidDate  *time.Time    `json:"paid_date,omitempty"`
}

// Warning flags an integrity finding discovered during reconciliation.
type Warning struct {
	Code     string       `json:"code"`
	TenantID snowflake.ID `json:"tenant_id"`
	Message  string       `json:"message"`
}

// Statement is the reconciled month.
type Statement struct {
	Month   time.Time `json:"month"`
	DueDate time.Time `json:"due_date"`

	Records  []Record  `json:"records"`
	Warnings []Warning `json:"warnings,omitempty"`

	TotalRentPaise int64   `json:"total_rent_paise"`
	CollectedPaise int64   `json:"collected_paise"`
	PendingPaise   int64   `json:"pending_paise"`
	OverduePaise   int64   `json:"overdue_paise"`
	CollectionRate float64 `json:"collection_rate"`
	PaidCount      int     `json:"paid_count"`
}

// Reconcile matches payments to tenants for the month and derives status
// and aggregates. Tenants without a room are excluded from totals and
// reported as warnings. When a tenant has several payments for the month
// the first wins and the rest are flagged.
func Reconcile(month, now time.Time, dueDay int, tenants []TenantRent, payments []PaymentInput) Statement {
	month = NormalizeMonth(month)
	if dueDay < 1 || dueDay > 28 {
		dueDay = 5
	}
	dueDate := time.Date(month.Year(), month.Month(), dueDay, 0, 0, 0, 0, time.UTC)

	stmt := Statement{
		Month:   month,
		DueDate: dueDate,
		Records: make([]Record, 0, len(tenants)),
	}

	matched := make(map[snowflake.ID]PaymentInput, len(payments))
	for _, p := range payments {
		if !NormalizeMonth(p.Month).Equal(month) {
			continue
		}
		if _, ok := matched[p.TenantID]; ok {
			stmt.Warnings = append(stmt.Warnings, Warning{
				Code:     WarnDuplicatePayment,
				TenantID: p.TenantID,
				Message:  "more than one payment recorded for the month, first kept",
			})
			continue
		}
		matched[p.TenantID] = p
	}

	for _, t := range tenants {
		if t.RoomID == 0 {
			stmt.Warnings = append(stmt.Warnings, Warning{
				Code:     WarnTenantWithoutRoom,
				TenantID: t.TenantID,
				Message:  "active tenant has no room assignment, excluded from totals",
			})
			continue
		}

		rec := Record{
			TenantID:   t.TenantID,
			TenantName: t.TenantName,
			RoomID:     t.RoomID,
			RoomNumber: t.RoomNumber,
			DuePaise:   t.RentPaise,
			DueDate:    dueDate,
			Status:     StatusPending,
		}

		if p, ok := matched[t.TenantID]; ok {
			paymentID := p.ID
			paidDate := p.PaymentDate
			rec.Status = StatusPaid
			rec.PaymentID = &paymentID
			rec.PaidPaise = p.RentPaise
			rec.PaidDate = &paidDate
			stmt.CollectedPaise += p.RentPaise
			stmt.PaidCount++
		} else if now.After(dueDate) {
			rec.Status = StatusOverdue
			stmt.OverduePaise += t.RentPaise
		} else {
			stmt.PendingPaise += t.RentPaise
		}

		stmt.TotalRentPaise += t.RentPaise
		stmt.Records = append(stmt.Records, rec)
	}

	if stmt.TotalRentPaise > 0 {
		stmt.CollectionRate = float64(stmt.CollectedPaise) / float64(stmt.TotalRentPaise) * 100
	}

	return stmt
}

// NormalizeMonth truncates a timestamp to the first of its month in UTC.
func NormalizeMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
