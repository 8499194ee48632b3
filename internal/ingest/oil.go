package ingest

import (
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/shamshirz/thaw/internal/models"
)

// LoadOil reads a raw oil delivery export and groups deliveries by month.
// Expected columns: date (YYYY-MM-DD), amount, gallons. A month with
// several deliveries gets its amounts and gallons summed; the monthly rate
// then comes from the summed values.
func LoadOil(path string, logger zerolog.Logger) ([]models.BillingRecord, error) {
	logger.Info().Str("path", path).Msg("processing oil data")

	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	type monthTotal struct {
		amount     float64
		gallons    float64
		hasGallons bool
	}
	byMonth := make(map[time.Time]*monthTotal)
	for _, row := range rows {
		date, err := time.Parse("2006-01-02", row["date"])
		if err != nil {
			return nil, fmt.Errorf("parse oil date %q: %w", row["date"], err)
		}
		amount, err := strconv.ParseFloat(row["amount"], 64)
		if err != nil {
			return nil, fmt.Errorf("parse oil amount %q: %w", row["amount"], err)
		}

		m := models.FirstOfMonth(date)
		total := byMonth[m]
		if total == nil {
			total = &monthTotal{}
			byMonth[m] = total
		}
		total.amount += amount

		if gallons := row["gallons"]; gallons != "" {
			v, err := strconv.ParseFloat(gallons, 64)
			if err != nil {
				return nil, fmt.Errorf("parse gallons %q: %w", gallons, err)
			}
			total.gallons += v
			total.hasGallons = true
		}
	}

	months := make([]time.Time, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	records := make([]models.BillingRecord, 0, len(months))
	for _, m := range months {
		total := byMonth[m]
		rec := models.BillingRecord{Date: m, Amount: total.amount}
		if total.hasGallons {
			rec.Usage = sql.NullFloat64{Float64: total.gallons, Valid: true}
		}
		records = append(records, rec)
	}
	return records, nil
}
