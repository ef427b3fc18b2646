package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"garmin-sync/internal/config"
	"garmin-sync/internal/domain/entity"
	"garmin-sync/internal/domain/repository"
	"garmin-sync/internal/infrastructure/httpclient"
)

const (
	// Fitbit's activity type for walking; step entries are logged against it.
	walkActivityID = 90013

	defaultStartTime      = "00:01"
	defaultDurationMillis = 3600000 // one hour

	isoDate = "2006-01-02"
)

type activityRepository struct {
	config *config.Config
	client httpclient.HTTPClient
	logger *zap.Logger
}

func NewActivityRepository(cfg *config.Config, client httpclient.HTTPClient, logger *zap.Logger) repository.ActivityRepository {
	return &activityRepository{
		config: cfg,
		client: client,
		logger: logger,
	}
}

// LogActivity posts the step entry as a walk activity. The payload is
// query-string encoded; steps travel in the distance field with
// distanceUnit=Steps.
func (r *activityRepository) LogActivity(ctx context.Context, entry entity.StepEntry, opts entity.ActivityOptions) *entity.RequestOutcome {
	startTime := opts.StartTime
	if startTime == "" {
		startTime = defaultStartTime
	}
	duration := opts.DurationMillis
	if duration == 0 {
		duration = defaultDurationMillis
	}

	params := url.Values{}
	params.Set("distance", strconv.Itoa(entry.TotalSteps))
	params.Set("distanceUnit", "Steps")
	params.Set("date", entry.CalendarDate)
	params.Set("activityId", strconv.Itoa(walkActivityID))
	params.Set("startTime", startTime)
	params.Set("durationMillis", strconv.FormatInt(duration, 10))

	if entry.Calories != nil {
		params.Set("manualCalories", strconv.Itoa(*entry.Calories))
	}

	reqURL := r.config.Fitbit.BaseURL + "/1/user/-/activities.json?" + params.Encode()
	return r.client.Request(ctx, http.MethodPost, reqURL, nil)
}

func (r *activityRepository) DeleteActivity(ctx context.Context, logID int64) *entity.RequestOutcome {
	reqURL := fmt.Sprintf("%s/1/user/-/activities/%d.json", r.config.Fitbit.BaseURL, logID)
	return r.client.Request(ctx, http.MethodDelete, reqURL, nil)
}

func (r *activityRepository) DailyActivities(ctx context.Context, date time.Time) *entity.RequestOutcome {
	reqURL := fmt.Sprintf("%s/1/user/-/activities/date/%s.json", r.config.Fitbit.BaseURL, date.Format(isoDate))
	return r.client.Request(ctx, http.MethodGet, reqURL, nil)
}

func (r *activityRepository) ActivityTypes(ctx context.Context) *entity.RequestOutcome {
	return r.client.Request(ctx, http.MethodGet, r.config.Fitbit.BaseURL+"/1/activities.json", nil)
}
