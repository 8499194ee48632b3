package analysis

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shamshirz/thaw/internal/models"
)

func efficiencyRow(year int, m time.Month, electricity, oil, hdd, cdd float64) models.EfficiencyRecord {
	return models.EfficiencyRecord{
		Month:           month(year, m),
		ElectricityCost: electricity,
		OilCost:         oil,
		HDD:             sql.NullFloat64{Float64: hdd, Valid: true},
		CDD:             sql.NullFloat64{Float64: cdd, Valid: true},
	}
}

func TestCalculateSavingsRawAndNormalized(t *testing.T) {
	records := []models.EfficiencyRecord{
		efficiencyRow(2023, time.January, 100, 200, 500, 0),
		efficiencyRow(2024, time.January, 90, 150, 400, 0),
	}

	savings := CalculateSavings(records, 2023, 2024)
	require.Len(t, savings, 1)
	s := savings[0]

	assert.Equal(t, 1, s.Month)
	assert.InDelta(t, 60.0, s.MonthlySavings, 1e-9)
	assert.InDelta(t, 60.0, s.RunningTotal, 1e-9)

	// Baseline rate 300/500 re-applied at the target's 400 dd load.
	wantNormalized := (300.0/500.0 - 240.0/400.0) * 400.0
	assert.InDelta(t, wantNormalized, s.NormalizedSavings, 1e-9)

	assert.Equal(t, 500.0, s.DegreeDaysBaseline)
	assert.Equal(t, 400.0, s.DegreeDaysTarget)
}

func TestCalculateSavingsRunningTotalAccumulatesRawSavings(t *testing.T) {
	records := []models.EfficiencyRecord{
		efficiencyRow(2023, time.January, 300, 0, 400, 0),
		efficiencyRow(2023, time.February, 250, 0, 350, 0),
		efficiencyRow(2023, time.March, 200, 0, 300, 0),
		efficiencyRow(2024, time.January, 280, 0, 380, 0),
		efficiencyRow(2024, time.February, 260, 0, 360, 0),
		efficiencyRow(2024, time.March, 150, 0, 250, 0),
	}

	savings := CalculateSavings(records, 2023, 2024)
	require.Len(t, savings, 3)

	var sum float64
	for i, s := range savings {
		assert.Equal(t, i+1, s.Month, "months in chronological order")
		sum += s.MonthlySavings
		assert.InDelta(t, sum, s.RunningTotal, 1e-9)
	}
	assert.InDelta(t, 20-10+50, savings[2].RunningTotal, 1e-9)
}

func TestCalculateSavingsNormalizedFallsBackToRaw(t *testing.T) {
	// Baseline month has zero degree days: no weather basis to normalize.
	records := []models.EfficiencyRecord{
		efficiencyRow(2023, time.June, 120, 0, 0, 0),
		efficiencyRow(2024, time.June, 100, 0, 50, 10),
	}

	savings := CalculateSavings(records, 2023, 2024)
	require.Len(t, savings, 1)
	assert.Equal(t, savings[0].MonthlySavings, savings[0].NormalizedSavings)
	assert.InDelta(t, 20.0, savings[0].NormalizedSavings, 1e-9)
}

func TestCalculateSavingsSkipsUnmatchedMonths(t *testing.T) {
	records := []models.EfficiencyRecord{
		efficiencyRow(2023, time.January, 300, 0, 400, 0),
		efficiencyRow(2023, time.February, 250, 0, 350, 0),
		efficiencyRow(2024, time.February, 200, 0, 300, 0),
		efficiencyRow(2024, time.March, 150, 0, 250, 0),
	}

	savings := CalculateSavings(records, 2023, 2024)
	require.Len(t, savings, 1, "only February exists in both years")
	assert.Equal(t, 2, savings[0].Month)
}

func TestCalculateSavingsNoOverlap(t *testing.T) {
	records := []models.EfficiencyRecord{
		efficiencyRow(2022, time.January, 300, 0, 400, 0),
	}

	savings := CalculateSavings(records, 2023, 2024)
	assert.Empty(t, savings)
}
