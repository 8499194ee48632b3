package weather

import (
	"database/sql"
	"sort"
	"time"

	"github.com/shamshirz/thaw/internal/models"
)

// AggregateMonthly rolls daily observations up to calendar months: mean of
// the daily averages, min/max of the daily extremes, sums of precipitation,
// snow and degree days. Months appear in chronological order.
func AggregateMonthly(daily []models.DailyObservation, baseTemp float64) []models.MonthlyWeather {
	type accumulator struct {
		tavgSum   float64
		tavgCount int
		tmin      sql.NullFloat64
		tmax      sql.NullFloat64
		prcp      float64
		snow      float64
		hdd       float64
		cdd       float64
	}

	byMonth := make(map[time.Time]*accumulator)
	for _, obs := range daily {
		m := models.FirstOfMonth(obs.Date)
		acc := byMonth[m]
		if acc == nil {
			acc = &accumulator{}
			byMonth[m] = acc
		}

		if obs.TAvg.Valid {
			acc.tavgSum += obs.TAvg.Float64
			acc.tavgCount++
		}
		if obs.TMin.Valid && (!acc.tmin.Valid || obs.TMin.Float64 < acc.tmin.Float64) {
			acc.tmin = obs.TMin
		}
		if obs.TMax.Valid && (!acc.tmax.Valid || obs.TMax.Float64 > acc.tmax.Float64) {
			acc.tmax = obs.TMax
		}
		if obs.Prcp.Valid {
			acc.prcp += obs.Prcp.Float64
		}
		if obs.Snow.Valid {
			acc.snow += obs.Snow.Float64
		}

		hdd, cdd := DegreeDays(obs, baseTemp)
		acc.hdd += hdd
		acc.cdd += cdd
	}

	months := make([]time.Time, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	monthly := make([]models.MonthlyWeather, 0, len(months))
	for _, m := range months {
		acc := byMonth[m]
		w := models.MonthlyWeather{
			Month: m,
			TMin:  acc.tmin,
			TMax:  acc.tmax,
			Prcp:  acc.prcp,
			Snow:  acc.snow,
			HDD:   acc.hdd,
			CDD:   acc.cdd,
		}
		if acc.tavgCount > 0 {
			w.TAvg = sql.NullFloat64{Float64: acc.tavgSum / float64(acc.tavgCount), Valid: true}
		}
		monthly = append(monthly, w)
	}
	return monthly
}
