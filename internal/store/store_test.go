package store

import (
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/shamshirz/thaw/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := New(db)
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func obs(year int, month time.Month, day int, tavg float64) models.DailyObservation {
	return models.DailyObservation{
		Date: time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
		TAvg: sql.NullFloat64{Float64: tavg, Valid: true},
	}
}

func TestUpsertAndGetObservations(t *testing.T) {
	store := setupTestStore(t)

	rec := obs(2023, time.January, 15, -2.5)
	rec.TMin = sql.NullFloat64{Float64: -8.0, Valid: true}
	rec.TMax = sql.NullFloat64{Float64: 1.5, Valid: true}
	rec.Prcp = sql.NullFloat64{Float64: 3.2, Valid: true}

	if err := store.UpsertObservation("open-meteo", rec); err != nil {
		t.Fatalf("UpsertObservation: %v", err)
	}

	start := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, time.January, 31, 0, 0, 0, 0, time.UTC)
	got, err := store.GetObservations("open-meteo", start, end)
	if err != nil {
		t.Fatalf("GetObservations: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(got) = %d, want 1", len(got))
	}
	if !got[0].Date.Equal(rec.Date) {
		t.Errorf("Date = %v, want %v", got[0].Date, rec.Date)
	}
	if !got[0].TAvg.Valid || got[0].TAvg.Float64 != -2.5 {
		t.Errorf("TAvg = %+v, want -2.5", got[0].TAvg)
	}
	if !got[0].TMin.Valid || got[0].TMin.Float64 != -8.0 {
		t.Errorf("TMin = %+v, want -8.0", got[0].TMin)
	}
	if got[0].Snow.Valid {
		t.Errorf("Snow = %+v, want null", got[0].Snow)
	}
}

func TestUpsertOverwritesExisting(t *testing.T) {
	store := setupTestStore(t)

	if err := store.UpsertObservation("open-meteo", obs(2023, time.January, 15, 1.0)); err != nil {
		t.Fatalf("UpsertObservation: %v", err)
	}
	if err := store.UpsertObservation("open-meteo", obs(2023, time.January, 15, 2.0)); err != nil {
		t.Fatalf("UpsertObservation update: %v", err)
	}

	start := time.Date(2023, time.January, 15, 0, 0, 0, 0, time.UTC)
	got, err := store.GetObservations("open-meteo", start, start)
	if err != nil {
		t.Fatalf("GetObservations: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(got) = %d, want 1", len(got))
	}
	if got[0].TAvg.Float64 != 2.0 {
		t.Errorf("TAvg = %v, want 2.0", got[0].TAvg.Float64)
	}
}

func TestGetObservationsRangeAndSource(t *testing.T) {
	store := setupTestStore(t)

	for day := 1; day <= 5; day++ {
		if err := store.UpsertObservation("open-meteo", obs(2023, time.January, day, float64(day))); err != nil {
			t.Fatalf("UpsertObservation day %d: %v", day, err)
		}
	}
	if err := store.UpsertObservation("noaa-gsod", obs(2023, time.January, 3, 99.0)); err != nil {
		t.Fatalf("UpsertObservation noaa: %v", err)
	}

	start := time.Date(2023, time.January, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, time.January, 4, 0, 0, 0, 0, time.UTC)
	got, err := store.GetObservations("open-meteo", start, end)
	if err != nil {
		t.Fatalf("GetObservations: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len(got) = %d, want 3", len(got))
	}
	for i, want := range []float64{2, 3, 4} {
		if got[i].TAvg.Float64 != want {
			t.Errorf("got[%d].TAvg = %v, want %v", i, got[i].TAvg.Float64, want)
		}
	}
}

func TestCoveredRange(t *testing.T) {
	store := setupTestStore(t)

	_, _, ok, err := store.CoveredRange("open-meteo")
	if err != nil {
		t.Fatalf("CoveredRange empty: %v", err)
	}
	if ok {
		t.Fatal("CoveredRange ok = true for empty cache, want false")
	}

	if err := store.UpsertObservation("open-meteo", obs(2023, time.January, 5, 0)); err != nil {
		t.Fatalf("UpsertObservation: %v", err)
	}
	if err := store.UpsertObservation("open-meteo", obs(2023, time.March, 20, 0)); err != nil {
		t.Fatalf("UpsertObservation: %v", err)
	}

	start, end, ok, err := store.CoveredRange("open-meteo")
	if err != nil {
		t.Fatalf("CoveredRange: %v", err)
	}
	if !ok {
		t.Fatal("CoveredRange ok = false, want true")
	}
	wantStart := time.Date(2023, time.January, 5, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2023, time.March, 20, 0, 0, 0, 0, time.UTC)
	if !start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", start, wantStart)
	}
	if !end.Equal(wantEnd) {
		t.Errorf("end = %v, want %v", end, wantEnd)
	}
}
