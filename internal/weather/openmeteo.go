package weather

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shamshirz/thaw/internal/models"
)

const openMeteoArchiveURL = "https://archive-api.open-meteo.com/v1/archive"

// OpenMeteo fetches historical daily weather from the open-meteo archive
// API. No API key is required.
type OpenMeteo struct {
	latitude  float64
	longitude float64
	client    *http.Client
	baseURL   string
}

func NewOpenMeteo(latitude, longitude float64) *OpenMeteo {
	return &OpenMeteo{
		latitude:  latitude,
		longitude: longitude,
		client:    &http.Client{Timeout: 30 * time.Second},
		baseURL:   openMeteoArchiveURL,
	}
}

func (o *OpenMeteo) Name() string { return "open-meteo" }

type archiveResponse struct {
	Daily struct {
		Time     []string   `json:"time"`
		TempMean []*float64 `json:"temperature_2m_mean"`
		TempMin  []*float64 `json:"temperature_2m_min"`
		TempMax  []*float64 `json:"temperature_2m_max"`
		Prcp     []*float64 `json:"precipitation_sum"`
		Snow     []*float64 `json:"snowfall_sum"`
	} `json:"daily"`
}

func (o *OpenMeteo) FetchDaily(ctx context.Context, start, end time.Time) ([]models.DailyObservation, error) {
	url := fmt.Sprintf("%s?latitude=%.4f&longitude=%.4f&start_date=%s&end_date=%s&daily=temperature_2m_mean,temperature_2m_min,temperature_2m_max,precipitation_sum,snowfall_sum&timezone=UTC",
		o.baseURL, o.latitude, o.longitude,
		start.Format("2006-01-02"), end.Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch archive: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch archive: status %d: %s", resp.StatusCode, string(b))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var data archiveResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	var observations []models.DailyObservation
	for i, day := range data.Daily.Time {
		date, err := time.Parse("2006-01-02", day)
		if err != nil {
			return nil, fmt.Errorf("parse date %q: %w", day, err)
		}

		obs := models.DailyObservation{Date: date}
		obs.TAvg = nullable(data.Daily.TempMean, i)
		obs.TMin = nullable(data.Daily.TempMin, i)
		obs.TMax = nullable(data.Daily.TempMax, i)
		obs.Prcp = nullable(data.Daily.Prcp, i)
		obs.Snow = nullable(data.Daily.Snow, i)
		observations = append(observations, obs)
	}

	if len(observations) == 0 {
		return nil, ErrNoObservations
	}
	return observations, nil
}

func nullable(values []*float64, i int) sql.NullFloat64 {
	if i >= len(values) || values[i] == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *values[i], Valid: true}
}
