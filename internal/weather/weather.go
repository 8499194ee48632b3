package weather

import (
	"context"
	"errors"
	"time"

	"github.com/shamshirz/thaw/internal/models"
)

// ErrNoObservations is returned when a provider has no data at all for the
// requested range. The run aborts: every downstream metric needs weather.
var ErrNoObservations = errors.New("no weather observations retrieved")

// Provider fetches daily observations for a fixed location.
type Provider interface {
	Name() string
	FetchDaily(ctx context.Context, start, end time.Time) ([]models.DailyObservation, error)
}

// BillingRange widens the span of billing months to whole calendar months:
// the first day of the earliest month through the last day of the latest.
func BillingRange(costs []models.CombinedCost) (start, end time.Time, ok bool) {
	if len(costs) == 0 {
		return time.Time{}, time.Time{}, false
	}
	start, end = costs[0].Month, costs[0].Month
	for _, c := range costs[1:] {
		if c.Month.Before(start) {
			start = c.Month
		}
		if c.Month.After(end) {
			end = c.Month
		}
	}
	start = models.FirstOfMonth(start)
	end = models.FirstOfMonth(end).AddDate(0, 1, -1)
	return start, end, true
}
