package analysis

import (
	"database/sql"
	"time"

	"github.com/rs/zerolog"

	"github.com/shamshirz/thaw/internal/models"
)

const (
	// MinDegreeDays is the denominator floor for the cost ratios. Shoulder
	// months with almost no heating or cooling load would otherwise produce
	// unbounded, meaningless ratios.
	MinDegreeDays = 5.0

	// OutlierCostPerHDD marks suspicious rows for inspection. Flagged rows
	// stay in the output.
	OutlierCostPerHDD = 10.0
)

// CalculateEfficiency left-joins the combined cost table with monthly
// weather on month and derives the cost-per-degree-day ratios. Months with
// no weather match keep invalid weather fields and invalid ratios. Rows
// with cost_per_hdd above OutlierCostPerHDD are logged, never excluded.
func CalculateEfficiency(costs []models.CombinedCost, weather []models.MonthlyWeather, logger zerolog.Logger) []models.EfficiencyRecord {
	weatherByMonth := make(map[time.Time]models.MonthlyWeather, len(weather))
	for _, w := range weather {
		weatherByMonth[models.FirstOfMonth(w.Month)] = w
	}

	records := make([]models.EfficiencyRecord, 0, len(costs))
	for _, c := range costs {
		rec := models.EfficiencyRecord{
			Month:           c.Month,
			ElectricityCost: c.ElectricityCost,
			OilCost:         c.OilCost,
		}

		if w, ok := weatherByMonth[models.FirstOfMonth(c.Month)]; ok {
			rec.TAvg = w.TAvg
			rec.TMin = w.TMin
			rec.TMax = w.TMax
			rec.Prcp = sql.NullFloat64{Float64: w.Prcp, Valid: true}
			rec.Snow = sql.NullFloat64{Float64: w.Snow, Valid: true}
			rec.HDD = sql.NullFloat64{Float64: w.HDD, Valid: true}
			rec.CDD = sql.NullFloat64{Float64: w.CDD, Valid: true}
			rec.TotalDD = sql.NullFloat64{Float64: w.HDD + w.CDD, Valid: true}

			rec.CostPerHDD = ratio(c.Total(), w.HDD)
			rec.CostPerCDD = ratio(c.ElectricityCost, w.CDD) // oil heat carries no cooling load
			rec.CostPerDD = ratio(c.Total(), w.HDD+w.CDD)
		}

		if rec.CostPerHDD.Valid && rec.CostPerHDD.Float64 > OutlierCostPerHDD {
			logger.Warn().
				Time("month", rec.Month).
				Float64("cost_per_hdd", rec.CostPerHDD.Float64).
				Float64("hdd", rec.HDD.Float64).
				Float64("electricity_cost", rec.ElectricityCost).
				Float64("oil_cost", rec.OilCost).
				Msg("unusually high cost per HDD")
		}

		records = append(records, rec)
	}
	return records
}

func ratio(cost, degreeDays float64) sql.NullFloat64 {
	if degreeDays <= MinDegreeDays {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: cost / degreeDays, Valid: true}
}
