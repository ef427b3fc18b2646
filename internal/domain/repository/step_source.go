package repository

import (
	"context"
	"time"

	"garmin-sync/internal/domain/entity"
)

// StepSource is the source provider's session boundary. The concrete client
// owns login and session persistence; failures surface as returned errors and
// are what triggers the per-day degradation path upstream.
type StepSource interface {
	// DailySteps is the aggregate query for a whole date range, inclusive.
	DailySteps(ctx context.Context, start, end time.Time) ([]entity.StepEntry, error)

	// StepsData returns the intraday step readings for a single date.
	StepsData(ctx context.Context, date time.Time) ([]entity.StepsReading, error)

	// StatsAndBody returns the daily summary used for the calories lookup.
	StatsAndBody(ctx context.Context, date time.Time) (*entity.DailyStats, error)
}
