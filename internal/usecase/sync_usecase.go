package usecase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"garmin-sync/internal/domain/entity"
	"garmin-sync/internal/domain/repository"
	"garmin-sync/internal/infrastructure/notify"
)

// maxPostAttempts bounds the delete-then-repost reconciliation. The
// destination has no update verb; a 200 on repost is its implicit "this day
// already has an entry" signal, so the only upsert is delete and post again.
// The bound keeps a pathological provider from looping us forever.
const maxPostAttempts = 2

type SyncUsecase interface {
	// SyncRange fetches the range, enriches each day with calories and
	// pushes every entry to the destination. Hard failures produce one
	// notification and stop the batch; the error is returned for logging
	// but is not meant to fail the process.
	SyncRange(ctx context.Context, start, end time.Time) error

	// SyncToday syncs the current date only.
	SyncToday(ctx context.Context) error

	// SyncLastWeek syncs the trailing 7 days up to today.
	SyncLastWeek(ctx context.Context) error

	// SyncLastMonth syncs the trailing 30 days up to today.
	SyncLastMonth(ctx context.Context) error
}

type syncUsecase struct {
	steps      StepsUsecase
	activities repository.ActivityRepository
	notifier   notify.Notifier
	logger     *zap.Logger
}

func NewSyncUsecase(steps StepsUsecase, activities repository.ActivityRepository, notifier notify.Notifier, logger *zap.Logger) SyncUsecase {
	return &syncUsecase{
		steps:      steps,
		activities: activities,
		notifier:   notifier,
		logger:     logger,
	}
}

func (u *syncUsecase) SyncToday(ctx context.Context) error {
	today := time.Now()
	return u.SyncRange(ctx, today, today)
}

func (u *syncUsecase) SyncLastWeek(ctx context.Context) error {
	today := time.Now()
	return u.SyncRange(ctx, today.AddDate(0, 0, -7), today)
}

func (u *syncUsecase) SyncLastMonth(ctx context.Context) error {
	today := time.Now()
	return u.SyncRange(ctx, today.AddDate(0, 0, -30), today)
}

func (u *syncUsecase) SyncRange(ctx context.Context, start, end time.Time) error {
	entries, err := u.steps.StepsForRange(ctx, start, end)
	if err != nil {
		u.logger.Error("Failed to fetch step range", zap.Error(err))
		u.notifyFailure(start, err.Error())
		return err
	}

	if len(entries) == 0 {
		u.logger.Error("No steps found for provided date range!")
		u.notifyFailure(start, ErrNoStepData.Error())
		return ErrNoStepData
	}

	for _, day := range entries {
		date, err := time.Parse(isoDate, day.CalendarDate)
		if err != nil {
			u.logger.Warn("Skipping entry with unparseable date",
				zap.String("calendar_date", day.CalendarDate),
				zap.Error(err),
			)
			continue
		}

		calories, err := u.steps.CaloriesForDay(ctx, date)
		if err != nil {
			// Absent calories is valid; a failed lookup degrades to absent
			u.logger.Warn("Calories lookup failed, syncing steps without calories",
				zap.String("date", day.CalendarDate),
				zap.Error(err),
			)
			calories = nil
		}
		day.Calories = calories

		if err := u.syncDay(ctx, day); err != nil {
			u.notifyFailure(start, err.Error())
			return err
		}
	}

	return nil
}

// syncDay pushes one day's entry with bounded delete-then-repost
// reconciliation: at most two posts and one delete per day.
func (u *syncUsecase) syncDay(ctx context.Context, day entity.StepEntry) error {
	for attempt := 1; attempt <= maxPostAttempts; attempt++ {
		outcome := u.activities.LogActivity(ctx, day, entity.ActivityOptions{})

		if outcome.Failed() {
			return &UpstreamError{
				Date:       day.CalendarDate,
				StatusCode: outcome.StatusCode,
				Body:       outcome.Body,
			}
		}

		if outcome.StatusCode == http.StatusOK && attempt < maxPostAttempts {
			u.logger.Info("Deleting existing step entry in order to update",
				zap.String("date", day.CalendarDate),
			)

			logID, ok := activityLogID(outcome.Body)
			if !ok {
				u.logger.Warn("Duplicate signal without a log id, leaving entry as is",
					zap.String("date", day.CalendarDate),
				)
				return nil
			}

			deleted := u.activities.DeleteActivity(ctx, logID)
			if deleted.StatusCode != http.StatusNoContent {
				// Terminal but non-fatal: the destination may keep a duplicate
				u.logger.Error("Failed to delete existing entry, a duplicate may remain",
					zap.String("date", day.CalendarDate),
					zap.Int64("log_id", logID),
					zap.Int("status", deleted.StatusCode),
				)
				return nil
			}

			u.logger.Info("Deleted existing entry for updating step count",
				zap.Int64("log_id", logID),
			)
			continue
		}

		u.logger.Info(fmt.Sprintf("Synced %d steps for %s to Fitbit.", day.TotalSteps, day.CalendarDate))
		return nil
	}

	return nil
}

// activityLogID digs the prior entry's identifier out of the duplicate
// response. JSON numbers arrive as float64.
func activityLogID(body map[string]any) (int64, bool) {
	log, ok := body["activityLog"].(map[string]any)
	if !ok {
		return 0, false
	}

	id, ok := log["logId"].(float64)
	if !ok {
		return 0, false
	}

	return int64(id), true
}

func (u *syncUsecase) notifyFailure(start time.Time, detail string) {
	subject := fmt.Sprintf("Garmin Sync for %s failed", start.Format(isoDate))
	if err := u.notifier.Notify(subject, detail); err != nil {
		u.logger.Error("Failed to send failure notification", zap.Error(err))
	}
}
