package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"garmin-sync/internal/domain/entity"
	"garmin-sync/internal/domain/repository"
)

const isoDate = "2006-01-02"

type StepsUsecase interface {
	// StepsForRange returns one entry per day with data, ordered by date
	// ascending. When the aggregate query fails it degrades to serial
	// per-day queries; if those cannot cover the range either, the whole
	// range is reported unavailable.
	StepsForRange(ctx context.Context, start, end time.Time) ([]entity.StepEntry, error)

	// CaloriesForDay looks up the day's total kilocalories. nil means the
	// provider had no total, which is a valid outcome.
	CaloriesForDay(ctx context.Context, date time.Time) (*int, error)
}

type stepsUsecase struct {
	source repository.StepSource
	logger *zap.Logger
}

func NewStepsUsecase(source repository.StepSource, logger *zap.Logger) StepsUsecase {
	return &stepsUsecase{
		source: source,
		logger: logger,
	}
}

func (u *stepsUsecase) StepsForRange(ctx context.Context, start, end time.Time) ([]entity.StepEntry, error) {
	entries, err := u.source.DailySteps(ctx, start, end)
	if err == nil {
		return entries, nil
	}

	u.logger.Error("Exception occurred when querying daily step endpoint", zap.Error(err))
	u.logger.Error("Switching to fallback step data method...")

	entries, fallbackErr := u.perDayFallback(ctx, start, end)
	if fallbackErr != nil {
		u.logger.Error("Fallback query failed!", zap.Error(fallbackErr))
		return nil, fmt.Errorf("%w: aggregate query failed (%v), fallback failed: %v", ErrRangeUnavailable, err, fallbackErr)
	}

	return entries, nil
}

// perDayFallback walks the range one date at a time. A day without data
// aborts the whole fallback rather than producing a silent partial result.
func (u *stepsUsecase) perDayFallback(ctx context.Context, start, end time.Time) ([]entity.StepEntry, error) {
	var entries []entity.StepEntry

	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		readings, err := u.source.StepsData(ctx, date)
		if err != nil {
			return nil, fmt.Errorf("per-day step query for %s failed: %w", date.Format(isoDate), err)
		}
		if len(readings) == 0 {
			return nil, fmt.Errorf("no step data for %s", date.Format(isoDate))
		}

		total := 0
		for _, reading := range readings {
			total += reading.Steps
		}

		entries = append(entries, entity.StepEntry{
			CalendarDate: date.Format(isoDate),
			TotalSteps:   total,
		})
	}

	return entries, nil
}

func (u *stepsUsecase) CaloriesForDay(ctx context.Context, date time.Time) (*int, error) {
	stats, err := u.source.StatsAndBody(ctx, date)
	if err != nil {
		return nil, err
	}
	if stats == nil || stats.TotalKilocalories == 0 {
		return nil, nil
	}

	calories := int(stats.TotalKilocalories)
	return &calories, nil
}
