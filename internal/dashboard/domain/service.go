package domain

import (
	"context"
	"errors"

	"github.com/pgdesk/pgdesk/internal/occupancy"
)

var (
	ErrInvalidOwner  = errors.New("invalid_owner")
	ErrInvalidMonths = errors.New("invalid_months")
)

// SeriesPoint is one month in the trailing dashboard series.
type SeriesPoint struct {
	Month              string  `json:"month"`
	RentDuePaise       int64   `json:"rent_due_paise"`
	RentCollectedPaise int64   `json:"rent_collected_paise"`
	CollectionRate     float64 `json:"collection_rate"`
	OccupiedBeds       int     `json:"occupied_beds"`
	TotalBeds          int     `json:"total_beds"`
	OccupancyPct       float64 `json:"occupancy_pct"`
}

// OverviewResponse is the current-state dashboard card set.
type OverviewResponse struct {
	Occupancy occupancy.Snapshot `json:"occupancy"`

	ActiveTenants  int   `json:"active_tenants"`
	OpenComplaints int64 `json:"open_complaints"`

	Month               string  `json:"month"`
	MonthDuePaise       int64   `json:"month_due_paise"`
	MonthCollectedPaise int64   `json:"month_collected_paise"`
	MonthPendingPaise   int64   `json:"month_pending_paise"`
	MonthOverduePaise   int64   `json:"month_overdue_paise"`
	CollectionRate      float64 `json:"collection_rate"`
}

type Service interface {
	Overview(ctx context.Context) (*OverviewResponse, error)
	Series(ctx context.Context, months int) ([]SeriesPoint, error)
}
