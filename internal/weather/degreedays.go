package weather

import "github.com/shamshirz/thaw/internal/models"

// DegreeDays computes the heating and cooling degree-day values for one
// day against the base temperature. A day with no average temperature
// contributes zero to both.
func DegreeDays(obs models.DailyObservation, baseTemp float64) (hdd, cdd float64) {
	if !obs.TAvg.Valid {
		return 0, 0
	}
	if diff := baseTemp - obs.TAvg.Float64; diff > 0 {
		hdd = diff
	}
	if diff := obs.TAvg.Float64 - baseTemp; diff > 0 {
		cdd = diff
	}
	return hdd, cdd
}
