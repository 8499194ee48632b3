package analysis

import (
	"sort"

	"github.com/shamshirz/thaw/internal/models"
)

// CalculateSavings compares the target year against the baseline year, month
// by month, over the efficiency table. Only months present in both years are
// compared; the rest are skipped. Monthly savings is the raw cost
// difference. When both years have positive total degree days the savings
// is additionally normalized: the baseline's cost-per-degree-day rate is
// re-applied at the target year's degree-day load, isolating the rate change
// from the weather change. The running total accumulates the raw savings in
// chronological order.
func CalculateSavings(records []models.EfficiencyRecord, baselineYear, targetYear int) []models.MonthlySavings {
	baseline := byMonthForYear(records, baselineYear)
	target := byMonthForYear(records, targetYear)

	var months []int
	for m := range baseline {
		if _, ok := target[m]; ok {
			months = append(months, m)
		}
	}
	sort.Ints(months)

	savings := make([]models.MonthlySavings, 0, len(months))
	runningTotal := 0.0
	for _, m := range months {
		b, t := baseline[m], target[m]

		baselineCost := b.TotalCost()
		targetCost := t.TotalCost()
		monthly := baselineCost - targetCost

		baselineDD := b.HDD.Float64 + b.CDD.Float64
		targetDD := t.HDD.Float64 + t.CDD.Float64

		normalized := monthly
		if baselineDD > 0 && targetDD > 0 {
			normalized = (baselineCost/baselineDD - targetCost/targetDD) * targetDD
		}

		runningTotal += monthly

		savings = append(savings, models.MonthlySavings{
			Month:              m,
			MonthlySavings:     monthly,
			NormalizedSavings:  normalized,
			RunningTotal:       runningTotal,
			DegreeDaysBaseline: baselineDD,
			DegreeDaysTarget:   targetDD,
		})
	}
	return savings
}

func byMonthForYear(records []models.EfficiencyRecord, year int) map[int]models.EfficiencyRecord {
	byMonth := make(map[int]models.EfficiencyRecord)
	for _, r := range records {
		if r.Month.Year() == year {
			byMonth[int(r.Month.Month())] = r
		}
	}
	return byMonth
}
