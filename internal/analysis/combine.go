package analysis

import (
	"time"

	"github.com/shamshirz/thaw/internal/models"
)

// CombineCosts merges the electric and oil monthly cost series into one
// table with exactly one row per calendar month from the earliest to the
// latest month seen in either series. Months absent from a series get cost
// zero: no bill was issued, which is not the same as unknown. Empty inputs
// produce an empty table.
func CombineCosts(electric, oil []models.BillingRecord) []models.CombinedCost {
	byMonthElectric := costsByMonth(electric)
	byMonthOil := costsByMonth(oil)

	start, end, ok := monthSpan(electric, oil)
	if !ok {
		return []models.CombinedCost{}
	}

	var combined []models.CombinedCost
	for m := start; !m.After(end); m = m.AddDate(0, 1, 0) {
		combined = append(combined, models.CombinedCost{
			Month:           m,
			ElectricityCost: byMonthElectric[m],
			OilCost:         byMonthOil[m],
		})
	}
	return combined
}

func costsByMonth(records []models.BillingRecord) map[time.Time]float64 {
	byMonth := make(map[time.Time]float64, len(records))
	for _, r := range records {
		byMonth[models.FirstOfMonth(r.Date)] += r.Amount
	}
	return byMonth
}

func monthSpan(electric, oil []models.BillingRecord) (start, end time.Time, ok bool) {
	for _, series := range [][]models.BillingRecord{electric, oil} {
		for _, r := range series {
			m := models.FirstOfMonth(r.Date)
			if !ok {
				start, end, ok = m, m, true
				continue
			}
			if m.Before(start) {
				start = m
			}
			if m.After(end) {
				end = m
			}
		}
	}
	return start, end, ok
}
