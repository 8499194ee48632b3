// Package csvio reads and writes the flat-file tables passed between
// pipeline stages. Formats match the documented external interfaces:
// utility_costs.csv, weather_data.csv, efficiency_metrics.csv,
// monthly_savings.csv, efficiency_summary.csv and the rate exports.
//
// Nullable conventions: missing weather fields are written empty and read
// back as invalid; undefined cost-per-degree-day ratios are written as 0,
// matching how they are reported downstream.
package csvio

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatNullable(v sql.NullFloat64) string {
	if !v.Valid {
		return ""
	}
	return formatFloat(v.Float64)
}

// formatRatio renders an undefined ratio as 0.
func formatRatio(v sql.NullFloat64) string {
	if !v.Valid {
		return "0"
	}
	return formatFloat(v.Float64)
}

func parseFloat(field string) (float64, error) {
	return strconv.ParseFloat(field, 64)
}

func parseNullable(field string) (sql.NullFloat64, error) {
	if field == "" {
		return sql.NullFloat64{}, nil
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return sql.NullFloat64{}, err
	}
	return sql.NullFloat64{Float64: v, Valid: true}, nil
}

func writeFile(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

func readFile(path string, wantColumns int) ([][]string, error) {
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
	if len(header) < wantColumns {
		return nil, fmt.Errorf("%s: expected at least %d columns, got %d", path, wantColumns, len(header))
	}

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func parseDate(field string) (time.Time, error) {
	return time.Parse(dateLayout, field)
}
