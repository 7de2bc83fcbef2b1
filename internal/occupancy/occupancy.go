// Package occupancy derives per-room and aggregate occupancy from room and
// tenant snapshots. It is a pure computation with no storage access.
package occupancy

import "github.com/bwmarrin/snowflake"

// Room status as derived from occupancy, not the stored room status.
const (
	StatusFull        = "full"
	StatusAvailable   = "available"
	StatusMaintenance = "under_maintenance"
)

// Room is the slice of room state occupancy needs.
type Room struct {
	ID               snowflake.ID
	Number           string
	Capacity         int
	UnderMaintenance bool
}

// Tenant is an active tenant assignment.
type Tenant struct {
	ID     snowflake.ID
	RoomID snowflake.ID
}

// RoomOccupancy is the derived state of one room.
type RoomOccupancy struct {
	RoomID    snowflake.ID `json:"room_id"`
	Number    string       `json:"room_number"`
	Capacity  int          `json:"capacity"`
	Occupied  int          `json:"occupied"`
	Available int          `json:"available"`
	Status    string       `json:"status"`
}

// Snapshot is the full occupancy picture for one owner.
type Snapshot struct {
	Rooms []RoomOccupancy `json:"rooms"`

	// Orphans lists tenants whose room reference matches no known room.
	// They are excluded from room counts but never dropped silently.
	Orphans []snowflake.ID `json:"orphan_tenants,omitempty"`

	TotalRooms       int     `json:"total_rooms"`
	TotalBeds        int     `json:"total_beds"`
	OccupiedBeds     int     `json:"occupied_beds"`
	AvailableBeds    int     `json:"available_beds"`
	FullRooms        int     `json:"full_rooms"`
	AvailableRooms   int     `json:"available_rooms"`
	MaintenanceRooms int     `json:"maintenance_rooms"`
	OccupancyPct     float64 `json:"occupancy_pct"`
}

// Compute derives the occupancy snapshot. Rooms with capacity <= 0 are
// treated as single-bed rooms. Occupied never exceeds capacity in the
// available calculation, so occupied+available == capacity always holds.
func Compute(rooms []Room, tenants []Tenant) Snapshot {
	byRoom := make(map[snowflake.ID]int, len(rooms))
	known := make(map[snowflake.ID]struct{}, len(rooms))
	for _, r := range rooms {
		known[r.ID] = struct{}{}
	}

	var orphans []snowflake.ID
	for _, t := range tenants {
		if _, ok := known[t.RoomID]; !ok {
			orphans = append(orphans, t.ID)
			continue
		}
		byRoom[t.RoomID]++
	}

	snap := Snapshot{
		Rooms:      make([]RoomOccupancy, 0, len(rooms)),
		Orphans:    orphans,
		TotalRooms: len(rooms),
	}

	for _, r := range rooms {
		capacity := r.Capacity
		if capacity <= 0 {
			capacity = 1
		}
		occupied := byRoom[r.ID]
		available := capacity - occupied
		if available < 0 {
			available = 0
		}

		status := StatusAvailable
		switch {
		case r.UnderMaintenance:
			status = StatusMaintenance
			snap.MaintenanceRooms++
		case occupied >= capacity:
			status = StatusFull
			snap.FullRooms++
		default:
			snap.AvailableRooms++
		}

		snap.TotalBeds += capacity
		snap.OccupiedBeds += occupied
		snap.AvailableBeds += available

		snap.Rooms = append(snap.Rooms, RoomOccupancy{
			RoomID:    r.ID,
			Number:    r.Number,
			Capacity:  capacity,
			Occupied:  occupied,
			Available: available,
			Status:    status,
		})
	}

	if snap.TotalBeds > 0 {
		snap.OccupancyPct = float64(snap.OccupiedBeds) / float64(snap.TotalBeds) * 100
	}

	return snap
}
