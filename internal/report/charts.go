// Package report renders the PNG charts and summary exports from the
// analysis tables.
package report

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	charts "github.com/vicanso/go-charts/v2"

	"github.com/shamshirz/thaw/internal/models"
)

var monthLabels = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// Generator renders charts to PNG files.
type Generator struct {
	theme string
}

func NewGenerator() *Generator {
	return &Generator{theme: "light"}
}

// CostSelector picks one utility's cost out of a combined month.
type CostSelector func(models.CombinedCost) float64

func ElectricityCost(c models.CombinedCost) float64 { return c.ElectricityCost }
func OilCost(c models.CombinedCost) float64         { return c.OilCost }

// MonthlyComparison renders a grouped bar chart of one utility's monthly
// costs, one series per year. Months without a bill show as zero.
func (g *Generator) MonthlyComparison(path, title string, costs []models.CombinedCost, pick CostSelector) error {
	byYear := make(map[int][]float64)
	for _, c := range costs {
		year := c.Month.Year()
		if byYear[year] == nil {
			byYear[year] = make([]float64, 12)
		}
		byYear[year][int(c.Month.Month())-1] = pick(c)
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	if len(years) == 0 {
		return fmt.Errorf("no cost data to chart")
	}

	values := make([][]float64, 0, len(years))
	legend := make([]string, 0, len(years))
	for _, y := range years {
		values = append(values, byYear[y])
		legend = append(legend, strconv.Itoa(y))
	}

	p, err := charts.BarRender(
		values,
		charts.TitleTextOptionFunc(title),
		charts.XAxisDataOptionFunc(monthLabels),
		charts.LegendLabelsOptionFunc(legend, charts.PositionRight),
		charts.ThemeOptionFunc(g.theme),
		charts.WidthOptionFunc(1200),
		charts.HeightOptionFunc(500),
		charts.PaddingOptionFunc(charts.Box{Top: 20, Right: 20, Bottom: 20, Left: 20}),
	)
	if err != nil {
		return fmt.Errorf("render comparison chart: %w", err)
	}
	return writePNG(path, p)
}

// RatioSelector picks one normalized-cost metric out of an efficiency row.
type RatioSelector func(models.EfficiencyRecord) float64

func CostPerHDD(r models.EfficiencyRecord) float64 { return r.CostPerHDD.Float64 }
func CostPerDD(r models.EfficiencyRecord) float64  { return r.CostPerDD.Float64 }

// EfficiencyComparison renders a line chart of one normalized-cost metric
// by month, one series per year. Undefined ratios plot as zero, same as
// the exported table.
func (g *Generator) EfficiencyComparison(path, title string, records []models.EfficiencyRecord, pick RatioSelector) error {
	byYear := make(map[int][]float64)
	for _, r := range records {
		year := r.Month.Year()
		if byYear[year] == nil {
			byYear[year] = make([]float64, 12)
		}
		byYear[year][int(r.Month.Month())-1] = pick(r)
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	if len(years) == 0 {
		return fmt.Errorf("no efficiency data to chart")
	}

	values := make([][]float64, 0, len(years))
	legend := make([]string, 0, len(years))
	for _, y := range years {
		values = append(values, byYear[y])
		legend = append(legend, strconv.Itoa(y))
	}

	p, err := charts.LineRender(
		values,
		charts.TitleTextOptionFunc(title),
		charts.XAxisDataOptionFunc(monthLabels),
		charts.LegendLabelsOptionFunc(legend, charts.PositionRight),
		charts.ThemeOptionFunc(g.theme),
		charts.WidthOptionFunc(1200),
		charts.HeightOptionFunc(500),
		charts.PaddingOptionFunc(charts.Box{Top: 20, Right: 20, Bottom: 20, Left: 20}),
	)
	if err != nil {
		return fmt.Errorf("render efficiency chart: %w", err)
	}
	return writePNG(path, p)
}

// SavingsChart renders the normalized monthly savings as bars with the
// running raw total as a line on a second axis.
func (g *Generator) SavingsChart(path string, baselineYear, targetYear int, savings []models.MonthlySavings) error {
	if len(savings) == 0 {
		return fmt.Errorf("no savings data to chart")
	}

	labels := make([]string, 0, len(savings))
	normalized := make([]float64, 0, len(savings))
	runningTotal := make([]float64, 0, len(savings))
	for _, s := range savings {
		labels = append(labels, monthLabels[s.Month-1])
		normalized = append(normalized, s.NormalizedSavings)
		runningTotal = append(runningTotal, s.RunningTotal)
	}

	title := fmt.Sprintf("%d Cost Savings Compared to %d (Normalized by Degree Days)", targetYear, baselineYear)

	p, err := charts.BarRender(
		[][]float64{normalized, runningTotal},
		charts.TitleTextOptionFunc(title),
		charts.XAxisDataOptionFunc(labels),
		charts.LegendLabelsOptionFunc([]string{"Monthly Savings ($)", "Running Total ($)"}, charts.PositionRight),
		charts.ThemeOptionFunc(g.theme),
		charts.WidthOptionFunc(1200),
		charts.HeightOptionFunc(600),
		charts.PaddingOptionFunc(charts.Box{Top: 20, Right: 20, Bottom: 20, Left: 20}),
		func(opt *charts.ChartOption) {
			opt.SeriesList[1].Type = charts.ChartTypeLine
			opt.SeriesList[1].AxisIndex = 1
		},
	)
	if err != nil {
		return fmt.Errorf("render savings chart: %w", err)
	}
	return writePNG(path, p)
}

func writePNG(path string, p *charts.Painter) error {
	buf, err := p.Bytes()
	if err != nil {
		return fmt.Errorf("encode chart: %w", err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
