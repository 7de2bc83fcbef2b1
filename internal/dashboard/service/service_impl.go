package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pgdesk/pgdesk/internal/clock"
	"github.com/pgdesk/pgdesk/internal/config"
	"github.com/pgdesk/pgdesk/internal/dashboard/domain"
	"github.com/pgdesk/pgdesk/internal/occupancy"
	"github.com/pgdesk/pgdesk/internal/ownerctx"
	"github.com/pgdesk/pgdesk/internal/rent/engine"
	roomdomain "github.com/pgdesk/pgdesk/internal/room/domain"
	tenantdomain "github.com/pgdesk/pgdesk/internal/tenant/domain"
)

const maxSeriesMonths = 24

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Clock  clock.Clock
	Config config.Config
	Repo   domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	cfg   config.Config
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("dashboard.service"),
		clock: p.Clock,
		cfg:   p.Config,
		repo:  p.Repo,
	}
}

func (s *Service) Overview(ctx context.Context) (*domain.OverviewResponse, error) {
	ownerID, ok := ownerctx.OwnerIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}

	rooms, tenants, err := s.loadSnapshots(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	month := engine.NormalizeMonth(now)

	occupying := occupyingTenants(tenants)
	snap := occupancy.Compute(occupancyRooms(rooms), occupancyAssignments(occupying))

	payments, err := s.repo.LoadPayments(ctx, s.db, ownerID, month, month)
	if err != nil {
		return nil, err
	}
	stmt := engine.Reconcile(month, now, s.cfg.RentDueDay, tenantRents(occupying, rooms), payments)

	openComplaints, err := s.repo.CountOpenComplaints(ctx, s.db, ownerID)
	if err != nil {
		return nil, err
	}

	return &domain.OverviewResponse{
		Occupancy:           snap,
		ActiveTenants:       len(occupying),
		OpenComplaints:      openComplaints,
		Month:               month.Format("2006-01"),
		MonthDuePaise:       stmt.TotalRentPaise,
		MonthCollectedPaise: stmt.CollectedPaise,
		MonthPendingPaise:   stmt.PendingPaise,
		MonthOverduePaise:   stmt.OverduePaise,
		CollectionRate:      stmt.CollectionRate,
	}, nil
}

func (s *Service) Series(ctx context.Context, months int) ([]domain.SeriesPoint, error) {
	ownerID, ok := ownerctx.OwnerIDFromContext(ctx)
	if !ok || ownerID == 0 {
		return nil, domain.ErrInvalidOwner
	}

	if months <= 0 {
		months = s.cfg.DashboardMonths
	}
	if months > maxSeriesMonths {
		return nil, domain.ErrInvalidMonths
	}

	rooms, tenants, err := s.loadSnapshots(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	current := engine.NormalizeMonth(now)
	first := current.AddDate(0, -(months - 1), 0)

	payments, err := s.repo.LoadPayments(ctx, s.db, ownerID, first, current)
	if err != nil {
		return nil, err
	}

	occRooms := occupancyRooms(rooms)
	series := make([]domain.SeriesPoint, 0, months)
	for i := 0; i < months; i++ {
		month := first.AddDate(0, i, 0)
		resident := residentTenants(tenants, month)

		stmt := engine.Reconcile(month, now, s.cfg.RentDueDay, tenantRents(resident, rooms), payments)
		snap := occupancy.Compute(occRooms, occupancyAssignments(resident))

		series = append(series, domain.SeriesPoint{
			Month:              month.Format("2006-01"),
			RentDuePaise:       stmt.TotalRentPaise,
			RentCollectedPaise: stmt.CollectedPaise,
			CollectionRate:     stmt.CollectionRate,
			OccupiedBeds:       snap.OccupiedBeds,
			TotalBeds:          snap.TotalBeds,
			OccupancyPct:       snap.OccupancyPct,
		})
	}

	return series, nil
}

func (s *Service) loadSnapshots(ctx context.Context, ownerID snowflake.ID) ([]roomdomain.Room, []tenantdomain.Tenant, error) {
	rooms, err := s.repo.LoadRooms(ctx, s.db, ownerID)
	if err != nil {
		return nil, nil, err
	}
	tenants, err := s.repo.LoadTenants(ctx, s.db, ownerID)
	if err != nil {
		return nil, nil, err
	}
	return rooms, tenants, nil
}

func occupyingTenants(tenants []tenantdomain.Tenant) []tenantdomain.Tenant {
	out := make([]tenantdomain.Tenant, 0, len(tenants))
	for _, t := range tenants {
		if t.Status == tenantdomain.StatusActive || t.Status == tenantdomain.StatusNoticePeriod {
			out = append(out, t)
		}
	}
	return out
}

// residentTenants selects tenants resident in the given month: checked in by
// month end and not checked out before the month began.
func residentTenants(tenants []tenantdomain.Tenant, month time.Time) []tenantdomain.Tenant {
	monthEnd := engine.NormalizeMonth(month).AddDate(0, 1, 0)
	out := make([]tenantdomain.Tenant, 0, len(tenants))
	for _, t := range tenants {
		checkIn := t.JoinDate
		if t.CheckInDate != nil {
			checkIn = *t.CheckInDate
		}
		if !checkIn.Before(monthEnd) {
			continue
		}
		if t.CheckOutDate != nil && t.CheckOutDate.Before(engine.NormalizeMonth(month)) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func occupancyRooms(rooms []roomdomain.Room) []occupancy.Room {
	out := make([]occupancy.Room, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, occupancy.Room{
			ID:               r.ID,
			Number:           r.RoomNumber,
			Capacity:         r.Capacity,
			UnderMaintenance: r.Status == roomdomain.StatusUnderMaintenance,
		})
	}
	return out
}

func occupancyAssignments(tenants []tenantdomain.Tenant) []occupancy.Tenant {
	out := make([]occupancy.Tenant, 0, len(tenants))
	for _, t := range tenants {
		if t.RoomID == nil {
			continue
		}
		out = append(out, occupancy.Tenant{ID: t.ID, RoomID: *t.RoomID})
	}
	return out
}

func tenantRents(tenants []tenantdomain.Tenant, rooms []roomdomain.Room) []engine.TenantRent {
	byID := make(map[snowflake.ID]roomdomain.Room, len(rooms))
	for _, r := range rooms {
		byID[r.ID] = r
	}

	out := make([]engine.TenantRent, 0, len(tenants))
	for _, t := range tenants {
		tr := engine.TenantRent{
			TenantID:   t.ID,
			TenantName: t.FullName,
		}
		if t.RoomID != nil {
			if room, ok := byID[*t.RoomID]; ok {
				tr.RoomID = room.ID
				tr.RoomNumber = room.RoomNumber
				tr.RentPaise = room.RentPaise
			}
		}
		out = append(out, tr)
	}
	return out
}
