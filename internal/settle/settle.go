// Package settle holds the pure settlement arithmetic: required points,
// time-of-day bonuses, overtime fees and multi-party splits. Everything here
// is side-effect free; payouts are computed from these results, so the
// integer rounding below must stay bit-for-bit stable.
package settle

import (
	"time"

	"github.com/withu0/pishatto-engine/internal/domain"
)

// Pricer resolves the base cost of a reservation. The live rate table is
// owned by the pricing service; callers inject a RateTable with confirmed
// constants.
type Pricer interface {
	RequiredPoints(r *domain.Reservation) int64
}

type RateTable struct {
	PerHour map[string]int64
}

func NewRateTable(standard, free, pishatto int64) RateTable {
	return RateTable{PerHour: map[string]int64{
		domain.ReservationStandard: standard,
		domain.ReservationFree:     free,
		domain.ReservationPishatto: pishatto,
	}}
}

// RequiredPoints is the total cost for the scheduled duration. For
// multi-winner reservations this is the amount to be divided, not per cast.
func (t RateTable) RequiredPoints(r *domain.Reservation) int64 {
	return t.PerHour[r.Type] * int64(r.DurationHours)
}

const (
	nightBonusPoints = 4000
	nightWindowEnd   = 5
)

// NightBonus returns the flat late-night bonus when the session start falls
// in [00:00, 05:00) local time. The bonus is a step function: it does not
// prorate by how much of the session overlaps the window.
func NightBonus(start time.Time) int64 {
	if start.Hour() < nightWindowEnd {
		return nightBonusPoints
	}
	return 0
}

// ExtensionFee charges overtime at 1.5x the cast's per-minute base rate,
// rounded down. The base rate derives from the cast's grade points over a
// 30-minute unit. Sessions that run short never produce a negative fee.
func ExtensionFee(castGradePoints int64, scheduledMinutes, actualMinutes int) int64 {
	basePerMinute := castGradePoints / 30
	exceeded := actualMinutes - scheduledMinutes
	if exceeded < 0 {
		exceeded = 0
	}
	return basePerMinute * int64(exceeded) * 3 / 2
}

// SplitEvenly divides total across n parties by largest remainder: the first
// total%n entries, in stable input order, receive one extra point. The
// outputs always sum to total exactly.
func SplitEvenly(total int64, n int) []int64 {
	base := total / int64(n)
	remainder := total % int64(n)

	shares := make([]int64, n)
	for i := range shares {
		shares[i] = base
		if int64(i) < remainder {
			shares[i]++
		}
	}
	return shares
}
