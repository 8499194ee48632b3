package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shamshirz/thaw/internal/models"
)

func month(year int, m time.Month) time.Time {
	return time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
}

func bill(year int, m time.Month, amount float64) models.BillingRecord {
	return models.BillingRecord{Date: month(year, m), Amount: amount}
}

func TestCombineCostsZeroFillsMissingMonths(t *testing.T) {
	electric := []models.BillingRecord{
		bill(2023, time.January, 100),
		bill(2023, time.April, 120),
	}
	oil := []models.BillingRecord{
		bill(2023, time.February, 300),
	}

	combined := CombineCosts(electric, oil)
	require.Len(t, combined, 4)

	assert.Equal(t, month(2023, time.January), combined[0].Month)
	assert.Equal(t, 100.0, combined[0].ElectricityCost)
	assert.Equal(t, 0.0, combined[0].OilCost)

	// February has an oil bill but no electric bill.
	assert.Equal(t, 0.0, combined[1].ElectricityCost)
	assert.Equal(t, 300.0, combined[1].OilCost)

	// March has no bills at all, but still gets a row.
	assert.Equal(t, month(2023, time.March), combined[2].Month)
	assert.Equal(t, 0.0, combined[2].ElectricityCost)
	assert.Equal(t, 0.0, combined[2].OilCost)

	assert.Equal(t, 120.0, combined[3].ElectricityCost)
}

func TestCombineCostsContiguousAcrossYears(t *testing.T) {
	electric := []models.BillingRecord{bill(2022, time.November, 80)}
	oil := []models.BillingRecord{bill(2023, time.February, 250)}

	combined := CombineCosts(electric, oil)
	require.Len(t, combined, 4)

	want := month(2022, time.November)
	for _, c := range combined {
		assert.Equal(t, want, c.Month, "months must be contiguous with no gaps")
		want = want.AddDate(0, 1, 0)
	}
}

func TestCombineCostsSumsMultipleBillsInMonth(t *testing.T) {
	oil := []models.BillingRecord{
		{Date: time.Date(2023, time.January, 3, 0, 0, 0, 0, time.UTC), Amount: 200},
		{Date: time.Date(2023, time.January, 28, 0, 0, 0, 0, time.UTC), Amount: 150},
	}

	combined := CombineCosts(nil, oil)
	require.Len(t, combined, 1)
	assert.Equal(t, 350.0, combined[0].OilCost)
}

func TestCombineCostsEmptyInput(t *testing.T) {
	combined := CombineCosts(nil, nil)
	assert.NotNil(t, combined)
	assert.Empty(t, combined)
}
