// Package store caches fetched daily weather observations in a local
// SQLite database so repeated runs only hit the provider for dates it has
// not seen yet.
package store

import (
	"database/sql"
	"time"

	"github.com/shamshirz/thaw/internal/models"
)

const dateLayout = "2006-01-02"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) UpsertObservation(source string, obs models.DailyObservation) error {
	_, err := s.db.Exec(`
		INSERT INTO daily_observations (source, date, tavg, tmin, tmax, prcp, snow)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source, date) DO UPDATE SET
			tavg = excluded.tavg,
			tmin = excluded.tmin,
			tmax = excluded.tmax,
			prcp = excluded.prcp,
			snow = excluded.snow,
			fetched_at = CURRENT_TIMESTAMP
	`, source, obs.Date.Format(dateLayout), obs.TAvg, obs.TMin, obs.TMax, obs.Prcp, obs.Snow)
	return err
}

func (s *Store) GetObservations(source string, start, end time.Time) ([]models.DailyObservation, error) {
	rows, err := s.db.Query(`
		SELECT date, tavg, tmin, tmax, prcp, snow
		FROM daily_observations
		WHERE source = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`, source, start.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var observations []models.DailyObservation
	for rows.Next() {
		var obs models.DailyObservation
		var date string
		if err := rows.Scan(&date, &obs.TAvg, &obs.TMin, &obs.TMax, &obs.Prcp, &obs.Snow); err != nil {
			return nil, err
		}
		obs.Date, err = time.Parse(dateLayout, date)
		if err != nil {
			return nil, err
		}
		observations = append(observations, obs)
	}
	return observations, rows.Err()
}

// CoveredRange reports the span of cached dates for a source. ok is false
// when the cache holds nothing for it.
func (s *Store) CoveredRange(source string) (start, end time.Time, ok bool, err error) {
	var minDate, maxDate sql.NullString
	err = s.db.QueryRow(`
		SELECT MIN(date), MAX(date) FROM daily_observations WHERE source = ?
	`, source).Scan(&minDate, &maxDate)
	if err != nil {
		return time.Time{}, time.Time{}, false, err
	}
	if !minDate.Valid || !maxDate.Valid {
		return time.Time{}, time.Time{}, false, nil
	}

	start, err = time.Parse(dateLayout, minDate.String)
	if err != nil {
		return time.Time{}, time.Time{}, false, err
	}
	end, err = time.Parse(dateLayout, maxDate.String)
	if err != nil {
		return time.Time{}, time.Time{}, false, err
	}
	return start, end, true, nil
}
