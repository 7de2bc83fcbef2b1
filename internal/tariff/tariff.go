package tariff

import (
	"errors"
	"math"
)

var (
	ErrEmptySchedule     = errors.New("empty_schedule")
	ErrInvalidBand       = errors.New("invalid_band")
	ErrUnorderedBands    = errors.New("unordered_bands")
	ErrNegativeRate      = errors.New("negative_rate")
	ErrNegativeUnits     = errors.New("negative_units")
	ErrNegativeMinCharge = errors.New("negative_minimum_charge")
)

// Band is a single consumption slab of the electricity tariff.
// UpToUnits is the inclusive upper bound of the slab; nil means unbounded.
// RatePaise is the per-unit rate applied to consumption that falls in
// this slab, FlatPaise an additional fixed charge once the slab is entered.
type Band struct {
	UpToUnits *float64 `mapstructure:"up_to_units" json:"up_to_units,omitempty"`
	RatePaise int64    `mapstructure:"rate_paise" json:"rate_paise"`
	FlatPaise int64    `mapstructure:"flat_paise" json:"flat_paise"`
}

// Schedule is a graduated rate schedule: each unit is billed at the rate
// of the slab it falls into.
type Schedule struct {
	Bands            []Band `mapstructure:"bands" json:"bands"`
	MinimumBillPaise int64  `mapstructure:"minimum_bill_paise" json:"minimum_bill_paise"`
}

// Default returns the built-in residential schedule used when no tariff
// file is configured.
func Default() Schedule {
	return Schedule{
		Bands: []Band{
			{UpToUnits: floatPtr(100), RatePaise: 450},
			{UpToUnits: floatPtr(200), RatePaise: 600},
			{UpToUnits: floatPtr(500), RatePaise: 750},
			{UpToUnits: nil, RatePaise: 850},
		},
	}
}

func floatPtr(v float64) *float64 { return &v }

// Validate checks band ordering and rate signs.
func (s Schedule) Validate() error {
	if len(s.Bands) == 0 {
		return ErrEmptySchedule
	}
	if s.MinimumBillPaise < 0 {
		return ErrNegativeMinCharge
	}

	prev := 0.0
	for i, band := range s.Bands {
		if band.RatePaise < 0 || band.FlatPaise < 0 {
			return ErrNegativeRate
		}
		if band.UpToUnits == nil {
			if i != len(s.Bands)-1 {
				return ErrInvalidBand
			}
			continue
		}
		if *band.UpToUnits <= prev {
			return ErrUnorderedBands
		}
		prev = *band.UpToUnits
	}
	return nil
}

// Bill computes the charge in paise for the given consumed units.
// The result is non-negative and monotonic in units.
func (s Schedule) Bill(units float64) (int64, error) {
	if units < 0 {
		return 0, ErrNegativeUnits
	}

	var total int64
	lower := 0.0
	remaining := units
	for _, band := range s.Bands {
		if remaining <= 0 {
			break
		}

		span := remaining
		if band.UpToUnits != nil {
			width := *band.UpToUnits - lower
			if span > width {
				span = width
			}
			lower = *band.UpToUnits
		}

		total += int64(math.Round(span * float64(band.RatePaise)))
		total += band.FlatPaise
		remaining -= span
	}

	if total < s.MinimumBillPaise {
		total = s.MinimumBillPaise
	}
	return total, nil
}
