package analysis

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shamshirz/thaw/internal/models"
)

func TestSummarizeByYear(t *testing.T) {
	jan := efficiencyRow(2023, time.January, 100, 200, 500, 0)
	jan.CostPerHDD = sql.NullFloat64{Float64: 0.6, Valid: true}
	jan.CostPerDD = sql.NullFloat64{Float64: 0.6, Valid: true}

	feb := efficiencyRow(2023, time.February, 80, 150, 400, 0)
	feb.CostPerHDD = sql.NullFloat64{Float64: 0.575, Valid: true}
	feb.CostPerDD = sql.NullFloat64{Float64: 0.575, Valid: true}

	// Shoulder month: no defined ratios, still counted in the sums.
	apr := efficiencyRow(2023, time.April, 40, 0, 3, 0)

	summaries := SummarizeByYear([]models.EfficiencyRecord{jan, feb, apr})
	require.Len(t, summaries, 1)
	s := summaries[0]

	assert.Equal(t, 2023, s.Year)
	assert.InDelta(t, 0.59, s.CostPerHDD.Mean, 1e-9)
	assert.Equal(t, 0.58, s.CostPerHDD.Min)
	assert.Equal(t, 0.6, s.CostPerHDD.Max)
	assert.Equal(t, 903.0, s.HDDSum)
	assert.Equal(t, 220.0, s.ElectricityCost)
	assert.Equal(t, 350.0, s.OilCost)
	assert.Equal(t, 570.0, s.TotalCost)
	require.True(t, s.AnnualCostPerDD.Valid)
	assert.InDelta(t, 0.63, s.AnnualCostPerDD.Float64, 1e-9)
}

func TestSummarizeByYearNoDegreeDays(t *testing.T) {
	row := efficiencyRow(2023, time.June, 100, 0, 0, 0)
	summaries := SummarizeByYear([]models.EfficiencyRecord{row})
	require.Len(t, summaries, 1)
	assert.False(t, summaries[0].AnnualCostPerDD.Valid)
}

func TestSummarizeByYearOrdersYears(t *testing.T) {
	records := []models.EfficiencyRecord{
		efficiencyRow(2024, time.January, 90, 150, 400, 0),
		efficiencyRow(2022, time.January, 110, 210, 520, 0),
		efficiencyRow(2023, time.January, 100, 200, 500, 0),
	}

	summaries := SummarizeByYear(records)
	require.Len(t, summaries, 3)
	assert.Equal(t, []int{2022, 2023, 2024}, []int{summaries[0].Year, summaries[1].Year, summaries[2].Year})
}

func TestLastMonths(t *testing.T) {
	var records []models.EfficiencyRecord
	for m := time.January; m <= time.December; m++ {
		records = append(records, efficiencyRow(2022, m, 100, 0, 100, 0))
		records = append(records, efficiencyRow(2023, m, 100, 0, 100, 0))
		records = append(records, efficiencyRow(2024, m, 100, 0, 100, 0))
	}

	window := LastMonths(records, 24)
	require.Len(t, window, 24)
	for _, r := range window {
		assert.True(t, r.Month.Year() >= 2023, "window keeps only the trailing 24 months")
	}
}

func TestLastMonthsEmpty(t *testing.T) {
	assert.Empty(t, LastMonths(nil, 24))
}
