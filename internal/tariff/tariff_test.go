package tariff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBillGraduatedSlabs(t *testing.T) {
	s := Default()

	tests := []struct {
		name  string
		units float64
		want  int64
	}{
		{"zero units", 0, 0},
		{"inside first slab", 50, 22500},
		{"first slab boundary", 100, 45000},
		{"crosses into second slab", 150, 75000},
		{"crosses into third slab", 250, 142500},
		{"reaches unbounded slab", 600, 415000},
		{"fractional units", 10.5, 4725},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Bill(tt.units)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBillMonotonic(t *testing.T) {
	s := Default()

	var prev int64
	for units := 0.0; units <= 700; units += 12.5 {
		got, err := s.Bill(units)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, got, prev, "bill must not decrease at %v units", units)
		prev = got
	}
}

func TestBillNegativeUnits(t *testing.T) {
	_, err := Default().Bill(-1)
	assert.ErrorIs(t, err, ErrNegativeUnits)
}

func TestBillMinimumCharge(t *testing.T) {
	s := Default()
	s.MinimumBillPaise = 50000

	got, err := s.Bill(10)
	assert.NoError(t, err)
	assert.Equal(t, int64(50000), got, "small consumption is floored at the minimum")

	got, err = s.Bill(200)
	assert.NoError(t, err)
	assert.Equal(t, int64(105000), got, "minimum does not cap larger bills")
}

func TestBillFlatCharge(t *testing.T) {
	s := Schedule{
		Bands: []Band{
			{UpToUnits: floatPtr(100), RatePaise: 100, FlatPaise: 1000},
			{UpToUnits: nil, RatePaise: 200},
		},
	}

	got, err := s.Bill(5)
	assert.NoError(t, err)
	assert.Equal(t, int64(1500), got)

	got, err = s.Bill(110)
	assert.NoError(t, err)
	assert.Equal(t, int64(13000), got)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		schedule Schedule
		wantErr  error
	}{
		{"default is valid", Default(), nil},
		{"empty schedule", Schedule{}, ErrEmptySchedule},
		{
			"unordered bounds",
			Schedule{Bands: []Band{
				{UpToUnits: floatPtr(200), RatePaise: 100},
				{UpToUnits: floatPtr(100), RatePaise: 200},
			}},
			ErrUnorderedBands,
		},
		{
			"unbounded band not last",
			Schedule{Bands: []Band{
				{UpToUnits: nil, RatePaise: 100},
				{UpToUnits: floatPtr(100), RatePaise: 200},
			}},
			ErrInvalidBand,
		},
		{
			"negative rate",
			Schedule{Bands: []Band{{UpToUnits: nil, RatePaise: -1}}},
			ErrNegativeRate,
		},
		{
			"negative minimum",
			Schedule{Bands: []Band{{UpToUnits: nil, RatePaise: 100}}, MinimumBillPaise: -1},
			ErrNegativeMinCharge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schedule.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
