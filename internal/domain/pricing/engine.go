// Package pricing computes auditorium rental prices from wall-clock event
// times: whole-hour durations, after-hours usage, and tiered package pricing.
package pricing

import (
	"strconv"
	"strings"

	"wisma/internal/core/types"
)

// After-hours window: [22:00, 24:00) plus [00:00, 07:00).
const (
	afterHoursStart = 22
	afterHoursEnd   = 7
)

// Tier is one package in the tariff table: a flat price for up to Hours of use.
type Tier struct {
	Name  string      `json:"name"`
	Hours int         `json:"hours"`
	Price types.Money `json:"price"`
}

// Tariff is the hall pricing configuration. Tiers must be sorted by Hours
// ascending.
type Tariff struct {
	Tiers []Tier `json:"tiers"`

	// ExtraHourRate bills hours beyond the chosen package.
	ExtraHourRate types.Money `json:"extraHourRate"`

	// AfterHoursRate is the per-hour surcharge for usage inside the
	// after-hours window, on top of the package price.
	AfterHoursRate types.Money `json:"afterHoursRate"`
}

// DefaultTariff returns the standing price list.
func DefaultTariff() Tariff {
	return Tariff{
		Tiers: []Tier{
			{Name: "4h", Hours: 4, Price: types.NewMoneyFromInt(1_500_000)},
			{Name: "9h", Hours: 9, Price: types.NewMoneyFromInt(2_750_000)},
			{Name: "12h", Hours: 12, Price: types.NewMoneyFromInt(3_500_000)},
			{Name: "14h", Hours: 14, Price: types.NewMoneyFromInt(4_000_000)},
		},
		ExtraHourRate:  types.NewMoneyFromInt(250_000),
		AfterHoursRate: types.NewMoneyFromInt(100_000),
	}
}

// parseClock parses "HH:MM" into minutes since midnight.
// Returns ok=false for empty or malformed input.
func parseClock(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// CalculateDuration returns the whole-hour duration between two wall-clock
// times. An end at or before the start is treated as crossing midnight.
// Partial hours round up. Missing or malformed input yields 0.
func CalculateDuration(start, end string) int {
	startMin, ok := parseClock(start)
	if !ok {
		return 0
	}
	endMin, ok := parseClock(end)
	if !ok {
		return 0
	}

	if endMin <= startMin {
		endMin += 24 * 60
	}

	return (endMin - startMin + 59) / 60
}

// CalculateAfterHours counts how many hours of the event fall inside the
// after-hours window. The walk starts at the start time's hour and advances
// one whole hour per step, so minute offsets inside the first and last hour
// are ignored. Callers relying on minute precision should not.
func CalculateAfterHours(start, end string) int {
	duration := CalculateDuration(start, end)
	if duration == 0 {
		return 0
	}

	startMin, ok := parseClock(start)
	if !ok {
		return 0
	}
	startHour := startMin / 60

	count := 0
	for i := 0; i < duration; i++ {
		h := (startHour + i) % 24
		if h >= afterHoursStart || h < afterHoursEnd {
			count++
		}
	}
	return count
}

// HallPricing is the outcome of tier selection for a given duration.
// Total price is Base + Extra; summing is the caller's job.
type HallPricing struct {
	Tier       Tier        `json:"tier"`
	ExtraHours int         `json:"extraHours"`
	BasePrice  types.Money `json:"basePrice"`
	ExtraPrice types.Money `json:"extraPrice"`
}

// CalculateHallPricing selects a package tier for the duration.
//
// A duration equal to a tier's hours uses that tier with no extra hours.
// A duration strictly between two tiers uses the lower tier and bills the
// excess at ExtraHourRate. Beyond the top tier, the top tier plus extra
// hours applies. A non-positive duration yields the lowest tier with zero
// base and zero extra. A positive duration below the lowest tier buys the
// lowest package outright.
func (t Tariff) CalculateHallPricing(duration int) HallPricing {
	lowest := t.Tiers[0]

	if duration <= 0 {
		return HallPricing{
			Tier:       lowest,
			ExtraHours: 0,
			BasePrice:  types.Zero(),
			ExtraPrice: types.Zero(),
		}
	}

	chosen := lowest
	for _, tier := range t.Tiers {
		if duration >= tier.Hours {
			chosen = tier
		}
	}

	extra := duration - chosen.Hours
	if extra < 0 {
		extra = 0
	}

	return HallPricing{
		Tier:       chosen,
		ExtraHours: extra,
		BasePrice:  chosen.Price,
		ExtraPrice: t.ExtraHourRate.Mul(types.NewMoneyFromInt(int64(extra))),
	}
}

// Quote prices a full event: duration, tier selection, extra hours, and the
// after-hours surcharge, summed into a total.
type Quote struct {
	DurationHours    int         `json:"durationHours"`
	AfterHours       int         `json:"afterHours"`
	Pricing          HallPricing `json:"pricing"`
	AfterHoursCharge types.Money `json:"afterHoursCharge"`
	Total            types.Money `json:"total"`
}

// Quote computes a complete hall quote from wall-clock event times.
func (t Tariff) Quote(start, end string) Quote {
	duration := CalculateDuration(start, end)
	afterHours := CalculateAfterHours(start, end)
	pricing := t.CalculateHallPricing(duration)
	surcharge := t.AfterHoursRate.Mul(types.NewMoneyFromInt(int64(afterHours)))

	return Quote{
		DurationHours:    duration,
		AfterHours:       afterHours,
		Pricing:          pricing,
		AfterHoursCharge: surcharge,
		Total:            pricing.BasePrice.Add(pricing.ExtraPrice).Add(surcharge),
	}
}
