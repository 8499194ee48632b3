package csvio

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/shamshirz/thaw/internal/models"
)

var utilityCostsHeader = []string{"date", "electricity_cost", "oil_cost"}

func WriteUtilityCosts(path string, costs []models.CombinedCost) error {
	rows := make([][]string, 0, len(costs))
	for _, c := range costs {
		rows = append(rows, []string{
			c.Month.Format(dateLayout),
			formatFloat(c.ElectricityCost),
			formatFloat(c.OilCost),
		})
	}
	return writeFile(path, utilityCostsHeader, rows)
}

func ReadUtilityCosts(path string) ([]models.CombinedCost, error) {
	rows, err := readFile(path, len(utilityCostsHeader))
	if err != nil {
		return nil, err
	}

	costs := make([]models.CombinedCost, 0, len(rows))
	for _, row := range rows {
		date, err := parseDate(row[0])
		if err != nil {
			return nil, fmt.Errorf("%s: parse date %q: %w", path, row[0], err)
		}
		electricity, err := parseFloat(row[1])
		if err != nil {
			return nil, fmt.Errorf("%s: parse electricity_cost %q: %w", path, row[1], err)
		}
		oil, err := parseFloat(row[2])
		if err != nil {
			return nil, fmt.Errorf("%s: parse oil_cost %q: %w", path, row[2], err)
		}
		costs = append(costs, models.CombinedCost{Month: date, ElectricityCost: electricity, OilCost: oil})
	}
	return costs, nil
}

var weatherHeader = []string{"date", "tavg", "tmin", "tmax", "prcp", "snow", "HDD", "CDD"}

func WriteWeather(path string, weather []models.MonthlyWeather) error {
	rows := make([][]string, 0, len(weather))
	for _, w := range weather {
		rows = append(rows, []string{
			w.Month.Format(dateLayout),
			formatNullable(w.TAvg),
			formatNullable(w.TMin),
			formatNullable(w.TMax),
			formatFloat(w.Prcp),
			formatFloat(w.Snow),
			formatFloat(w.HDD),
			formatFloat(w.CDD),
		})
	}
	return writeFile(path, weatherHeader, rows)
}

func ReadWeather(path string) ([]models.MonthlyWeather, error) {
	rows, err := readFile(path, len(weatherHeader))
	if err != nil {
		return nil, err
	}

	weather := make([]models.MonthlyWeather, 0, len(rows))
	for _, row := range rows {
		date, err := parseDate(row[0])
		if err != nil {
			return nil, fmt.Errorf("%s: parse date %q: %w", path, row[0], err)
		}

		w := models.MonthlyWeather{Month: date}
		if w.TAvg, err = parseNullable(row[1]); err != nil {
			return nil, fmt.Errorf("%s: parse tavg %q: %w", path, row[1], err)
		}
		if w.TMin, err = parseNullable(row[2]); err != nil {
			return nil, fmt.Errorf("%s: parse tmin %q: %w", path, row[2], err)
		}
		if w.TMax, err = parseNullable(row[3]); err != nil {
			return nil, fmt.Errorf("%s: parse tmax %q: %w", path, row[3], err)
		}
		if w.Prcp, err = parseFloat(row[4]); err != nil {
			return nil, fmt.Errorf("%s: parse prcp %q: %w", path, row[4], err)
		}
		if w.Snow, err = parseFloat(row[5]); err != nil {
			return nil, fmt.Errorf("%s: parse snow %q: %w", path, row[5], err)
		}
		if w.HDD, err = parseFloat(row[6]); err != nil {
			return nil, fmt.Errorf("%s: parse HDD %q: %w", path, row[6], err)
		}
		if w.CDD, err = parseFloat(row[7]); err != nil {
			return nil, fmt.Errorf("%s: parse CDD %q: %w", path, row[7], err)
		}
		weather = append(weather, w)
	}
	return weather, nil
}

var efficiencyHeader = []string{
	"date", "electricity_cost", "oil_cost",
	"tavg", "tmin", "tmax", "prcp", "snow", "HDD", "CDD",
	"total_dd", "cost_per_hdd", "cost_per_cdd", "cost_per_dd",
}

func WriteEfficiency(path string, records []models.EfficiencyRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Month.Format(dateLayout),
			formatFloat(r.ElectricityCost),
			formatFloat(r.OilCost),
			formatNullable(r.TAvg),
			formatNullable(r.TMin),
			formatNullable(r.TMax),
			formatNullable(r.Prcp),
			formatNullable(r.Snow),
			formatNullable(r.HDD),
			formatNullable(r.CDD),
			formatNullable(r.TotalDD),
			formatRatio(r.CostPerHDD),
			formatRatio(r.CostPerCDD),
			formatRatio(r.CostPerDD),
		})
	}
	return writeFile(path, efficiencyHeader, rows)
}

func ReadEfficiency(path string) ([]models.EfficiencyRecord, error) {
	rows, err := readFile(path, len(efficiencyHeader))
	if err != nil {
		return nil, err
	}

	records := make([]models.EfficiencyRecord, 0, len(rows))
	for _, row := range rows {
		date, err := parseDate(row[0])
		if err != nil {
			return nil, fmt.Errorf("%s: parse date %q: %w", path, row[0], err)
		}

		r := models.EfficiencyRecord{Month: date}
		if r.ElectricityCost, err = parseFloat(row[1]); err != nil {
			return nil, fmt.Errorf("%s: parse electricity_cost %q: %w", path, row[1], err)
		}
		if r.OilCost, err = parseFloat(row[2]); err != nil {
			return nil, fmt.Errorf("%s: parse oil_cost %q: %w", path, row[2], err)
		}

		nullables := []struct {
			field *sql.NullFloat64
			name  string
			idx   int
		}{
			{&r.TAvg, "tavg", 3},
			{&r.TMin, "tmin", 4},
			{&r.TMax, "tmax", 5},
			{&r.Prcp, "prcp", 6},
			{&r.Snow, "snow", 7},
			{&r.HDD, "HDD", 8},
			{&r.CDD, "CDD", 9},
			{&r.TotalDD, "total_dd", 10},
			{&r.CostPerHDD, "cost_per_hdd", 11},
			{&r.CostPerCDD, "cost_per_cdd", 12},
			{&r.CostPerDD, "cost_per_dd", 13},
		}
		for _, n := range nullables {
			if *n.field, err = parseNullable(row[n.idx]); err != nil {
				return nil, fmt.Errorf("%s: parse %s %q: %w", path, n.name, row[n.idx], err)
			}
		}
		records = append(records, r)
	}
	return records, nil
}

var savingsHeader = []string{
	"month", "monthly_savings", "normalized_savings", "running_total",
	"degree_days_baseline", "degree_days_target",
}

func WriteSavings(path string, savings []models.MonthlySavings) error {
	rows := make([][]string, 0, len(savings))
	for _, s := range savings {
		rows = append(rows, []string{
			strconv.Itoa(s.Month),
			formatFloat(s.MonthlySavings),
			formatFloat(s.NormalizedSavings),
			formatFloat(s.RunningTotal),
			formatFloat(s.DegreeDaysBaseline),
			formatFloat(s.DegreeDaysTarget),
		})
	}
	return writeFile(path, savingsHeader, rows)
}

var summaryHeader = []string{
	"year",
	"cost_per_hdd_mean", "cost_per_hdd_std", "cost_per_hdd_min", "cost_per_hdd_max",
	"cost_per_dd_mean", "cost_per_dd_std", "cost_per_dd_min", "cost_per_dd_max",
	"hdd_sum", "cdd_sum", "electricity_cost", "oil_cost", "total_cost", "annual_cost_per_dd",
}

func WriteSummary(path string, summaries []models.YearlySummary) error {
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			strconv.Itoa(s.Year),
			formatFloat(s.CostPerHDD.Mean),
			formatFloat(s.CostPerHDD.StdDev),
			formatFloat(s.CostPerHDD.Min),
			formatFloat(s.CostPerHDD.Max),
			formatFloat(s.CostPerDD.Mean),
			formatFloat(s.CostPerDD.StdDev),
			formatFloat(s.CostPerDD.Min),
			formatFloat(s.CostPerDD.Max),
			formatFloat(s.HDDSum),
			formatFloat(s.CDDSum),
			formatFloat(s.ElectricityCost),
			formatFloat(s.OilCost),
			formatFloat(s.TotalCost),
			formatRatio(s.AnnualCostPerDD),
		})
	}
	return writeFile(path, summaryHeader, rows)
}

// WriteRates exports the per-month unit rates for one utility. usageColumn
// names the usage header for that utility: "kwh_used" or "gallons".
func WriteRates(path string, records []models.BillingRecord, usageColumn string) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Date.Format(dateLayout),
			formatNullable(r.Rate()),
			formatNullable(r.Usage),
		})
	}
	return writeFile(path, []string{"date", "rate", usageColumn}, rows)
}

// WriteExtracted exports LLM-extracted bills in the electric_raw.csv shape
// consumed by the process stage.
func WriteExtracted(path string, records []models.BillingRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Date.Format("2006-01"),
			formatFloat(r.Amount),
			formatNullable(r.Usage),
		})
	}
	return writeFile(path, []string{"date", "amount", "kwh_used"}, rows)
}
