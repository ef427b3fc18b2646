package repository

import (
	"context"
	"time"

	"garmin-sync/internal/domain/entity"
)

// ActivityRepository is the destination provider's activity-log surface.
// Every operation resolves to a RequestOutcome; the caller interprets the
// status code, including the implicit "200 on repost means duplicate" signal.
type ActivityRepository interface {
	// LogActivity creates an activity log entry for the entry's date.
	LogActivity(ctx context.Context, entry entity.StepEntry, opts entity.ActivityOptions) *entity.RequestOutcome

	// DeleteActivity removes a prior log entry by its opaque identifier.
	// 204 is the only success signal.
	DeleteActivity(ctx context.Context, logID int64) *entity.RequestOutcome

	// DailyActivities reads the activities logged for a date.
	DailyActivities(ctx context.Context, date time.Time) *entity.RequestOutcome

	// ActivityTypes reads the provider's activity catalog.
	ActivityTypes(ctx context.Context) *entity.RequestOutcome
}
