package models

import (
	"database/sql"
	"time"
)

// BillingRecord is one utility bill normalized to the first of its month.
type BillingRecord struct {
	Date   time.Time
	Amount float64
	Usage  sql.NullFloat64 // kWh or gallons, when the bill reports it
}

// Rate returns the unit rate ($/kWh or $/gallon) when usage is known and
// positive.
func (b BillingRecord) Rate() sql.NullFloat64 {
	if !b.Usage.Valid || b.Usage.Float64 == 0 {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: b.Amount / b.Usage.Float64, Valid: true}
}

// DailyObservation is one day of weather at the configured location.
// Providers leave fields invalid when they have no reading for the day.
type DailyObservation struct {
	Date time.Time
	TAvg sql.NullFloat64
	TMin sql.NullFloat64
	TMax sql.NullFloat64
	Prcp sql.NullFloat64
	Snow sql.NullFloat64
}

// MonthlyWeather aggregates daily observations over a calendar month.
// HDD/CDD are sums of the daily degree-day values against the base
// temperature; days with no average temperature contribute zero.
type MonthlyWeather struct {
	Month time.Time
	TAvg  sql.NullFloat64
	TMin  sql.NullFloat64
	TMax  sql.NullFloat64
	Prcp  float64
	Snow  float64
	HDD   float64
	CDD   float64
}

// CombinedCost is one month of the zero-filled combined cost table.
// A zero cost means no bill was issued that month, not unknown.
type CombinedCost struct {
	Month           time.Time
	ElectricityCost float64
	OilCost         float64
}

func (c CombinedCost) Total() float64 {
	return c.ElectricityCost + c.OilCost
}

// EfficiencyRecord joins a combined-cost month with its weather. Weather
// fields are invalid when the month had no weather match; the ratio fields
// are invalid when their denominator fell at or below the degree-day floor.
type EfficiencyRecord struct {
	Month           time.Time
	ElectricityCost float64
	OilCost         float64
	TAvg            sql.NullFloat64
	TMin            sql.NullFloat64
	TMax            sql.NullFloat64
	Prcp            sql.NullFloat64
	Snow            sql.NullFloat64
	HDD             sql.NullFloat64
	CDD             sql.NullFloat64
	TotalDD         sql.NullFloat64
	CostPerHDD      sql.NullFloat64
	CostPerCDD      sql.NullFloat64
	CostPerDD       sql.NullFloat64
}

func (e EfficiencyRecord) TotalCost() float64 {
	return e.ElectricityCost + e.OilCost
}

// MonthlySavings compares one calendar month across the baseline and target
// years. RunningTotal accumulates the raw savings in month order.
type MonthlySavings struct {
	Month              int // 1-12
	MonthlySavings     float64
	NormalizedSavings  float64
	RunningTotal       float64
	DegreeDaysBaseline float64
	DegreeDaysTarget   float64
}

// YearlySummary holds per-year summary statistics over the efficiency table.
type YearlySummary struct {
	Year            int
	CostPerHDD      Stats
	CostPerDD       Stats
	HDDSum          float64
	CDDSum          float64
	ElectricityCost float64
	OilCost         float64
	TotalCost       float64
	AnnualCostPerDD sql.NullFloat64
}

// Stats are summary statistics over one metric for one year.
type Stats struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// ExtractionStatus tags how a bill document extraction ended.
type ExtractionStatus string

const (
	ExtractionOK     ExtractionStatus = "ok"
	ExtractionFailed ExtractionStatus = "failed"
)

// Extraction is the tagged result of pulling billing fields out of one
// document. Fields are only meaningful when Status is ExtractionOK.
type Extraction struct {
	Status ExtractionStatus
	Reason string

	Date   time.Time
	Amount float64
	Usage  sql.NullFloat64
}

// FirstOfMonth truncates t to midnight UTC on the first of its month.
func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
