package dcf

import (
	"math"
	"testing"
	"time"
)

// example returns the assumptions of the worked example, in fractions.
func example() Assumptions {
	return Assumptions{
		Company:           "GOOGL",
		Revenue:           371399,
		FCFMargin:         0.2745,
		FCFYear0:          74881,
		GrowthFCF1to5:     0.15,
		GrowthFCF6to10:    0.15,
		GrowthRev1to5:     0.12,
		GrowthRev6to10:    0.12,
		TerminalGrowth:    0.04,
		DiscountRate:      Unset,
		RequiredReturn:    0.10,
		Cash:              95148,
		Debt:              41668,
		SharesOutstanding: 12198,
		MarketPrice:       235,
		StartYear:         2024,
	}
}

// assertClose fails if got is not within a relative tolerance of want.
func assertClose(t *testing.T, name string, got, want float64) {
	t.Helper()
	const tolerance = 1e-9
	if math.IsNaN(got) || math.Abs(got-want) > tolerance*math.Max(1, math.Abs(want)) {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

// freezeClock pins the clock used to default the base year.
func freezeClock(t *testing.T, year int) {
	t.Helper()
	saved := now
	now = func() time.Time { return time.Date(year, time.June, 1, 0, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = saved })
}
