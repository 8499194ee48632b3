// Package ingest loads raw billing data: CSV exports, PDF bill documents,
// and the optional language-model field extraction.
package ingest

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/shamshirz/thaw/internal/models"
)

// LoadElectric reads a raw electric bill export. Expected columns:
// date (YYYY-MM), amount, kwh_used. Bills are already monthly; dates
// normalize to the first of the month.
func LoadElectric(path string, logger zerolog.Logger) ([]models.BillingRecord, error) {
	logger.Info().Str("path", path).Msg("processing electric data")

	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	records := make([]models.BillingRecord, 0, len(rows))
	for _, row := range rows {
		date, err := time.Parse("2006-01", row["date"])
		if err != nil {
			return nil, fmt.Errorf("parse electric date %q: %w", row["date"], err)
		}
		amount, err := strconv.ParseFloat(row["amount"], 64)
		if err != nil {
			return nil, fmt.Errorf("parse electric amount %q: %w", row["amount"], err)
		}

		rec := models.BillingRecord{
			Date:   models.FirstOfMonth(date),
			Amount: amount,
		}
		if kwh := row["kwh_used"]; kwh != "" {
			v, err := strconv.ParseFloat(kwh, 64)
			if err != nil {
				return nil, fmt.Errorf("parse kwh_used %q: %w", kwh, err)
			}
			rec.Usage = sql.NullFloat64{Float64: v, Valid: true}
		}
		records = append(records, rec)
	}
	return records, nil
}

// readCSV loads a headered CSV into name→value maps, one per row.
func readCSV(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	var rows []map[string]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
