package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	_ "modernc.org/sqlite"

	"github.com/shamshirz/thaw/internal/analysis"
	"github.com/shamshirz/thaw/internal/config"
	"github.com/shamshirz/thaw/internal/csvio"
	"github.com/shamshirz/thaw/internal/ingest"
	"github.com/shamshirz/thaw/internal/report"
	"github.com/shamshirz/thaw/internal/store"
	"github.com/shamshirz/thaw/internal/weather"
)

type globals struct {
	Config    string `help:"Path to the JSON location config." default:"config.json"`
	DataDir   string `help:"Directory holding raw and processed data files." default:"data"`
	OutputDir string `help:"Directory for charts and summary exports." default:"output"`
	Debug     bool   `help:"Enable debug logging."`
}

type cli struct {
	globals

	Extract    extractCmd    `cmd:"" help:"Extract billing records from PDF bills with the language model."`
	Process    processCmd    `cmd:"" help:"Process raw bill exports into the combined monthly cost table."`
	Weather    weatherCmd    `cmd:"" help:"Fetch daily weather and derive monthly degree days."`
	Efficiency efficiencyCmd `cmd:"" help:"Join costs with degree days and compute efficiency ratios."`
	Savings    savingsCmd    `cmd:"" help:"Compare a target year against a baseline year."`
	Report     reportCmd     `cmd:"" help:"Render comparison charts and yearly summary statistics."`
}

// appCtx carries the run-scoped collaborators into every subcommand.
type appCtx struct {
	globals
	logger zerolog.Logger
}

func (a *appCtx) dataPath(name string) string   { return filepath.Join(a.DataDir, name) }
func (a *appCtx) outputPath(name string) string { return filepath.Join(a.OutputDir, name) }

func main() {
	var c cli
	kctx := kong.Parse(&c,
		kong.Name("thaw"),
		kong.Description("Household utility cost analysis against weather degree days."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
		kong.UsageOnError(),
	)

	level := zerolog.InfoLevel
	if c.Debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	app := &appCtx{globals: c.globals, logger: logger}
	kctx.FatalIfErrorf(kctx.Run(app))
}

type extractCmd struct {
	Bills  string `help:"Directory of PDF bills." default:"data/electric_bills"`
	Out    string `help:"Output CSV in the electric_raw format." default:"data/electric_raw.csv"`
	APIKey string `env:"OPENAI_API_KEY" help:"API key for the extraction model."`
}

func (e *extractCmd) Run(app *appCtx) error {
	extractor, err := ingest.NewExtractor(e.APIKey)
	if err != nil {
		return err
	}

	records, err := ingest.ProcessBills(context.Background(), e.Bills, extractor, app.logger)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		app.logger.Warn().Msg("no data was successfully extracted")
		return nil
	}

	if err := csvio.WriteExtracted(e.Out, records); err != nil {
		return err
	}
	app.logger.Info().Str("path", e.Out).Int("bills", len(records)).Msg("saved extracted data")
	return nil
}

type processCmd struct{}

func (p *processCmd) Run(app *appCtx) error {
	electric, err := ingest.LoadElectric(app.dataPath("electric_raw.csv"), app.logger)
	if err != nil {
		return err
	}
	oil, err := ingest.LoadOil(app.dataPath("oil_raw.csv"), app.logger)
	if err != nil {
		return err
	}

	app.logger.Info().Msg("combining utility cost data")
	combined := analysis.CombineCosts(electric, oil)

	costsPath := app.dataPath("utility_costs.csv")
	if err := csvio.WriteUtilityCosts(costsPath, combined); err != nil {
		return err
	}
	app.logger.Info().Str("path", costsPath).Int("months", len(combined)).Msg("saved combined utility data")

	if err := csvio.WriteRates(app.dataPath("electric_rates.csv"), electric, "kwh_used"); err != nil {
		return err
	}
	if err := csvio.WriteRates(app.dataPath("oil_rates.csv"), oil, "gallons"); err != nil {
		return err
	}
	app.logger.Info().Msg("saved rate data")
	return nil
}

type weatherCmd struct {
	Source string `help:"Weather source." enum:"open-meteo,noaa-gsod" default:"open-meteo"`
	Cache  string `help:"SQLite cache of fetched daily observations." default:"data/weather_cache.db"`
}

func (w *weatherCmd) Run(app *appCtx) error {
	cfg, err := config.Load(app.Config)
	if err != nil {
		return err
	}

	costs, err := csvio.ReadUtilityCosts(app.dataPath("utility_costs.csv"))
	if err != nil {
		return err
	}
	start, end, ok := weather.BillingRange(costs)
	if !ok {
		return errors.New("utility_costs.csv has no months, run process first")
	}

	var provider weather.Provider
	switch w.Source {
	case "noaa-gsod":
		provider = weather.NewNOAA(cfg.NOAAStation)
	default:
		provider = weather.NewOpenMeteo(cfg.Latitude, cfg.Longitude)
	}

	db, err := sql.Open("sqlite", w.Cache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer db.Close()

	st := store.New(db)
	if err := st.Migrate(); err != nil {
		return fmt.Errorf("migrate cache: %w", err)
	}

	cachedStart, cachedEnd, cached, err := st.CoveredRange(provider.Name())
	if err != nil {
		return err
	}

	if !cached || cachedStart.After(start) || cachedEnd.Before(end) {
		app.logger.Info().
			Str("source", provider.Name()).
			Time("start", start).
			Time("end", end).
			Msg("fetching weather data")

		daily, err := provider.FetchDaily(context.Background(), start, end)
		if err != nil {
			return fmt.Errorf("fetch weather: %w", err)
		}
		for _, obs := range daily {
			if err := st.UpsertObservation(provider.Name(), obs); err != nil {
				return fmt.Errorf("cache observation: %w", err)
			}
		}
	} else {
		app.logger.Info().Str("source", provider.Name()).Msg("weather cache covers the billing range")
	}

	daily, err := st.GetObservations(provider.Name(), start, end)
	if err != nil {
		return err
	}
	if len(daily) == 0 {
		return weather.ErrNoObservations
	}

	monthly := weather.AggregateMonthly(daily, cfg.BaseTemp())

	weatherPath := app.dataPath("weather_data.csv")
	if err := csvio.WriteWeather(weatherPath, monthly); err != nil {
		return err
	}
	app.logger.Info().Str("path", weatherPath).Int("months", len(monthly)).Msg("saved weather data")
	return nil
}

type efficiencyCmd struct{}

func (e *efficiencyCmd) Run(app *appCtx) error {
	costs, err := csvio.ReadUtilityCosts(app.dataPath("utility_costs.csv"))
	if err != nil {
		return err
	}
	monthly, err := csvio.ReadWeather(app.dataPath("weather_data.csv"))
	if err != nil {
		return err
	}

	app.logger.Info().Msg("calculating efficiency metrics")
	records := analysis.CalculateEfficiency(costs, monthly, app.logger)

	path := app.dataPath("efficiency_metrics.csv")
	if err := csvio.WriteEfficiency(path, records); err != nil {
		return err
	}
	app.logger.Info().Str("path", path).Int("months", len(records)).Msg("saved efficiency metrics")
	return nil
}

type savingsCmd struct {
	Baseline int `help:"Baseline year to compare against." required:""`
	Target   int `help:"Target year being evaluated." required:""`
}

func (s *savingsCmd) Run(app *appCtx) error {
	records, err := csvio.ReadEfficiency(app.dataPath("efficiency_metrics.csv"))
	if err != nil {
		return err
	}

	savings := analysis.CalculateSavings(records, s.Baseline, s.Target)

	if err := os.MkdirAll(app.OutputDir, 0o755); err != nil {
		return err
	}
	if err := csvio.WriteSavings(app.outputPath("monthly_savings.csv"), savings); err != nil {
		return err
	}

	gen := report.NewGenerator()
	if err := gen.SavingsChart(app.outputPath("savings_analysis.png"), s.Baseline, s.Target, savings); err != nil {
		return err
	}

	var total, normalized float64
	for _, m := range savings {
		total += m.MonthlySavings
		normalized += m.NormalizedSavings
	}
	app.logger.Info().
		Int("baseline", s.Baseline).
		Int("target", s.Target).
		Float64("total_savings", total).
		Float64("normalized_savings", normalized).
		Msg("savings summary")
	return nil
}

type reportCmd struct{}

func (r *reportCmd) Run(app *appCtx) error {
	if err := os.MkdirAll(app.OutputDir, 0o755); err != nil {
		return err
	}

	costs, err := csvio.ReadUtilityCosts(app.dataPath("utility_costs.csv"))
	if err != nil {
		return err
	}

	gen := report.NewGenerator()
	if err := gen.MonthlyComparison(app.outputPath("electricity_comparison.png"),
		"Monthly Electricity Cost Comparison by Year", costs, report.ElectricityCost); err != nil {
		return err
	}
	if err := gen.MonthlyComparison(app.outputPath("oil_comparison.png"),
		"Monthly Oil Cost Comparison by Year", costs, report.OilCost); err != nil {
		return err
	}

	records, err := csvio.ReadEfficiency(app.dataPath("efficiency_metrics.csv"))
	if err != nil {
		return err
	}

	window := analysis.LastMonths(records, 24)
	if err := gen.EfficiencyComparison(app.outputPath("efficiency_comparison_hdd.png"),
		"Cost per Heating Degree Day by Month", window, report.CostPerHDD); err != nil {
		return err
	}
	if err := gen.EfficiencyComparison(app.outputPath("efficiency_comparison_dd.png"),
		"Cost per Total Degree Day by Month", window, report.CostPerDD); err != nil {
		return err
	}

	summaries := analysis.SummarizeByYear(records)
	if err := csvio.WriteSummary(app.outputPath("efficiency_summary.csv"), summaries); err != nil {
		return err
	}

	for _, s := range summaries {
		app.logger.Info().
			Int("year", s.Year).
			Float64("total_cost", s.TotalCost).
			Float64("hdd", s.HDDSum).
			Float64("cdd", s.CDDSum).
			Float64("annual_cost_per_dd", s.AnnualCostPerDD.Float64).
			Msg("yearly efficiency summary")
	}
	return nil
}
