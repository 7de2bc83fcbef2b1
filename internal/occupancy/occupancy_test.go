package occupancy

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
)

func TestComputeSharedRoomLifecycle(t *testing.T) {
	node, _ := snowflake.NewNode(1)
	roomID := node.Generate()
	tenantA := node.Generate()
	tenantB := node.Generate()

	rooms := []Room{{ID: roomID, Number: "101", Capacity: 2}}

	// Two tenants fill the room.
	snap := Compute(rooms, []Tenant{
		{ID: tenantA, RoomID: roomID},
		{ID: tenantB, RoomID: roomID},
	})
	assert.Equal(t, 2, snap.OccupiedBeds)
	assert.Equal(t, 0, snap.AvailableBeds)
	assert.Equal(t, 1, snap.FullRooms)
	assert.Equal(t, StatusFull, snap.Rooms[0].Status)
	assert.Equal(t, 100.0, snap.OccupancyPct)

	// One checks out, a bed frees up.
	snap = Compute(rooms, []Tenant{{ID: tenantA, RoomID: roomID}})
	assert.Equal(t, 1, snap.OccupiedBeds)
	assert.Equal(t, 1, snap.AvailableBeds)
	assert.Equal(t, StatusAvailable, snap.Rooms[0].Status)
	assert.Equal(t, 50.0, snap.OccupancyPct)
}

func TestComputeBedConservation(t *testing.T) {
	node, _ := snowflake.NewNode(1)
	r1 := node.Generate()
	r2 := node.Generate()
	r3 := node.Generate()

	rooms := []Room{
		{ID: r1, Number: "101", Capacity: 2},
		{ID: r2, Number: "102", Capacity: 3},
		{ID: r3, Number: "103", Capacity: 1, UnderMaintenance: true},
	}
	tenants := []Tenant{
		{ID: node.Generate(), RoomID: r1},
		{ID: node.Generate(), RoomID: r2},
		{ID: node.Generate(), RoomID: r2},
	}

	snap := Compute(rooms, tenants)

	for _, room := range snap.Rooms {
		assert.Equal(t, room.Capacity, room.Occupied+room.Available,
			"room %s must conserve beds", room.Number)
	}
	assert.Equal(t, snap.TotalBeds, snap.OccupiedBeds+snap.AvailableBeds)
	assert.Equal(t, 6, snap.TotalBeds)
	assert.Equal(t, 1, snap.MaintenanceRooms)
	assert.Equal(t, 1, snap.AvailableRooms+snap.FullRooms)
}

func TestComputeZeroCapacityTreatedAsSingleBed(t *testing.T) {
	node, _ := snowflake.NewNode(1)
	roomID := node.Generate()

	snap := Compute(
		[]Room{{ID: roomID, Number: "G1", Capacity: 0}},
		[]Tenant{{ID: node.Generate(), RoomID: roomID}},
	)

	assert.Equal(t, 1, snap.Rooms[0].Capacity)
	assert.Equal(t, 1, snap.Rooms[0].Occupied)
	assert.Equal(t, 0, snap.Rooms[0].Available)
	assert.Equal(t, StatusFull, snap.Rooms[0].Status)
}

func TestComputeOrphanTenantsReported(t *testing.T) {
	node, _ := snowflake.NewNode(1)
	roomID := node.Generate()
	orphan := node.Generate()

	snap := Compute(
		[]Room{{ID: roomID, Number: "101", Capacity: 2}},
		[]Tenant{
			{ID: node.Generate(), RoomID: roomID},
			{ID: orphan, RoomID: node.Generate()},
		},
	)

	assert.Equal(t, []snowflake.ID{orphan}, snap.Orphans)
	assert.Equal(t, 1, snap.OccupiedBeds, "orphans do not count against any room")
}

func TestComputeDeterministic(t *testing.T) {
	node, _ := snowflake.NewNode(1)
	roomID := node.Generate()
	rooms := []Room{{ID: roomID, Number: "101", Capacity: 2}}
	tenants := []Tenant{{ID: node.Generate(), RoomID: roomID}}

	first := Compute(rooms, tenants)
	second := Compute(rooms, tenants)
	assert.Equal(t, first, second)
}

func TestComputeEmpty(t *testing.T) {
	snap := Compute(nil, nil)
	assert.Equal(t, 0, snap.TotalRooms)
	assert.Equal(t, 0.0, snap.OccupancyPct)
	assert.Empty(t, snap.Rooms)
}
