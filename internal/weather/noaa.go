package weather

import (
	"bufio"
	"compress/gzip"
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"

	"github.com/shamshirz/thaw/internal/models"
)

const noaaFTPHost = "ftp.ncei.noaa.gov:21"

// GSOD missing-value sentinels, as documented in the dataset readme.
const (
	gsodMissingTemp  = 9999.9
	gsodMissingPrcp  = 99.99
	gsodMissingDepth = 999.9
)

// NOAA fetches daily summaries from the NOAA Global Surface Summary of the
// Day archive over anonymous FTP. Files are one gzip per station per year.
// Station IDs combine USAF and WBAN identifiers, e.g. "725300-94846".
type NOAA struct {
	station string
	host    string
}

func NewNOAA(station string) *NOAA {
	return &NOAA{station: station, host: noaaFTPHost}
}

func (n *NOAA) Name() string { return "noaa-gsod" }

func (n *NOAA) FetchDaily(ctx context.Context, start, end time.Time) ([]models.DailyObservation, error) {
	if n.station == "" {
		return nil, fmt.Errorf("noaa source requires noaa_station in config")
	}

	conn, err := ftp.Dial(n.host, ftp.DialWithContext(ctx), ftp.DialWithTimeout(30*time.Second))
	if err != nil {
		return nil, fmt.Errorf("ftp dial: %w", err)
	}
	defer conn.Quit()

	if err := conn.Login("anonymous", "anonymous"); err != nil {
		return nil, fmt.Errorf("ftp login: %w", err)
	}

	var observations []models.DailyObservation
	for year := start.Year(); year <= end.Year(); year++ {
		yearObs, err := n.fetchYear(conn, year)
		if err != nil {
			return nil, fmt.Errorf("fetch %d: %w", year, err)
		}
		for _, obs := range yearObs {
			if obs.Date.Before(start) || obs.Date.After(end) {
				continue
			}
			observations = append(observations, obs)
		}
	}

	if len(observations) == 0 {
		return nil, ErrNoObservations
	}
	return observations, nil
}

func (n *NOAA) fetchYear(conn *ftp.ServerConn, year int) ([]models.DailyObservation, error) {
	path := fmt.Sprintf("/pub/data/gsod/%d/%s-%d.op.gz", year, n.station, year)

	resp, err := conn.Retr(path)
	if err != nil {
		return nil, fmt.Errorf("retrieve %s: %w", path, err)
	}
	defer resp.Close()

	gz, err := gzip.NewReader(resp)
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	defer gz.Close()

	var observations []models.DailyObservation
	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "STN---") || strings.TrimSpace(line) == "" {
			continue
		}
		obs, err := parseGSODLine(line)
		if err != nil {
			return nil, err
		}
		observations = append(observations, obs)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return observations, nil
}

// parseGSODLine parses one whitespace-delimited GSOD daily record.
// Temperatures arrive in Fahrenheit, precipitation and snow depth in
// inches; everything is converted to metric to match the other provider.
func parseGSODLine(line string) (models.DailyObservation, error) {
	fields := strings.Fields(line)
	if len(fields) < 21 {
		return models.DailyObservation{}, fmt.Errorf("short gsod record: %q", line)
	}

	date, err := time.Parse("20060102", fields[2])
	if err != nil {
		return models.DailyObservation{}, fmt.Errorf("parse gsod date %q: %w", fields[2], err)
	}

	obs := models.DailyObservation{Date: date}
	obs.TAvg = gsodTemp(fields[3])
	obs.TMax = gsodTemp(fields[17])
	obs.TMin = gsodTemp(fields[18])
	obs.Prcp = gsodInches(fields[19], gsodMissingPrcp)
	obs.Snow = gsodInches(fields[20], gsodMissingDepth)
	return obs, nil
}

func gsodTemp(field string) sql.NullFloat64 {
	// MAX/MIN carry a trailing "*" when derived from hourly data.
	v, err := strconv.ParseFloat(strings.TrimSuffix(field, "*"), 64)
	if err != nil || v == gsodMissingTemp {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: fahrenheitToCelsius(v), Valid: true}
}

func gsodInches(field string, missing float64) sql.NullFloat64 {
	// PRCP carries a trailing report-type flag letter.
	trimmed := strings.TrimRightFunc(field, func(r rune) bool {
		return r >= 'A' && r <= 'Z'
	})
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || v == missing {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v * 25.4, Valid: true}
}

func fahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}
