package analysis

import (
	"database/sql"
	"math"
	"sort"

	"github.com/shamshirz/thaw/internal/models"
)

// SummarizeByYear computes per-year summary statistics over the efficiency
// table: mean/stddev/min/max of the heating and total degree-day ratios,
// degree-day and cost totals, and an annual cost per degree day. Ratio
// stats only consider months where the ratio was defined. Values are
// rounded to cents.
func SummarizeByYear(records []models.EfficiencyRecord) []models.YearlySummary {
	byYear := make(map[int][]models.EfficiencyRecord)
	for _, r := range records {
		byYear[r.Month.Year()] = append(byYear[r.Month.Year()], r)
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	summaries := make([]models.YearlySummary, 0, len(years))
	for _, y := range years {
		rows := byYear[y]
		s := models.YearlySummary{Year: y}

		var hddRatios, ddRatios []float64
		for _, r := range rows {
			if r.CostPerHDD.Valid {
				hddRatios = append(hddRatios, r.CostPerHDD.Float64)
			}
			if r.CostPerDD.Valid {
				ddRatios = append(ddRatios, r.CostPerDD.Float64)
			}
			s.HDDSum += r.HDD.Float64
			s.CDDSum += r.CDD.Float64
			s.ElectricityCost += r.ElectricityCost
			s.OilCost += r.OilCost
		}

		s.CostPerHDD = describe(hddRatios)
		s.CostPerDD = describe(ddRatios)
		s.TotalCost = round2(s.ElectricityCost + s.OilCost)
		s.ElectricityCost = round2(s.ElectricityCost)
		s.OilCost = round2(s.OilCost)
		s.HDDSum = round2(s.HDDSum)
		s.CDDSum = round2(s.CDDSum)

		if dd := s.HDDSum + s.CDDSum; dd > 0 {
			s.AnnualCostPerDD = sql.NullFloat64{Float64: round2(s.TotalCost / dd), Valid: true}
		}

		summaries = append(summaries, s)
	}
	return summaries
}

// LastMonths keeps the trailing window of n calendar months ending at the
// latest month in the table. The efficiency comparison chart uses a
// 24-month window.
func LastMonths(records []models.EfficiencyRecord, n int) []models.EfficiencyRecord {
	if len(records) == 0 {
		return records
	}

	latest := records[0].Month
	for _, r := range records[1:] {
		if r.Month.After(latest) {
			latest = r.Month
		}
	}
	cutoff := models.FirstOfMonth(latest).AddDate(0, -(n - 1), 0)

	var window []models.EfficiencyRecord
	for _, r := range records {
		if !r.Month.Before(cutoff) {
			window = append(window, r)
		}
	}
	return window
}

func describe(values []float64) models.Stats {
	if len(values) == 0 {
		return models.Stats{}
	}

	var sum, min, max float64
	min, max = values[0], values[0]
	for _, v := range values {
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	mean := sum / float64(len(values))

	var stddev float64
	if len(values) > 1 {
		var ss float64
		for _, v := range values {
			ss += (v - mean) * (v - mean)
		}
		stddev = math.Sqrt(ss / float64(len(values)-1))
	}

	return models.Stats{
		Mean:   round2(mean),
		StdDev: round2(stddev),
		Min:    round2(min),
		Max:    round2(max),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
