package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"garmin-sync/internal/config"
	"garmin-sync/internal/domain/entity"
	"garmin-sync/internal/infrastructure/httpclient"
)

func testRepository(t *testing.T, baseURL string) *activityRepository {
	t.Helper()
	cfg := &config.Config{
		Fitbit: config.FitbitConfig{
			BaseURL:   baseURL,
			Timeout:   5 * time.Second,
			RateLimit: 100,
		},
	}
	client := httpclient.NewHTTPClientWithToken(cfg, entity.Token{"access_token": "tok"}, zap.NewNop())
	return &activityRepository{config: cfg, client: client, logger: zap.NewNop()}
}

func TestLogActivity_QueryStringPayload(t *testing.T) {
	var gotMethod, gotPath string
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	calories := 2100
	entry := entity.StepEntry{CalendarDate: "2024-03-01", TotalSteps: 8500, Calories: &calories}

	outcome := testRepository(t, srv.URL).LogActivity(context.Background(), entry, entity.ActivityOptions{})
	assert.Equal(t, http.StatusCreated, outcome.StatusCode)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/1/user/-/activities.json", gotPath)
	assert.Equal(t, "8500", gotQuery.Get("distance"))
	assert.Equal(t, "Steps", gotQuery.Get("distanceUnit"))
	assert.Equal(t, "2024-03-01", gotQuery.Get("date"))
	assert.Equal(t, "90013", gotQuery.Get("activityId"))
	assert.Equal(t, "00:01", gotQuery.Get("startTime"))
	assert.Equal(t, "3600000", gotQuery.Get("durationMillis"))
	assert.Equal(t, "2100", gotQuery.Get("manualCalories"))
}

func TestLogActivity_NoCaloriesOmitsManualCalories(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	entry := entity.StepEntry{CalendarDate: "2024-03-01", TotalSteps: 8500}
	testRepository(t, srv.URL).LogActivity(context.Background(), entry, entity.ActivityOptions{})

	_, present := gotQuery["manualCalories"]
	assert.False(t, present)
}

func TestLogActivity_OptionsOverrideDefaults(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	entry := entity.StepEntry{CalendarDate: "2024-03-01", TotalSteps: 100}
	opts := entity.ActivityOptions{StartTime: "07:30", DurationMillis: 1800000}
	testRepository(t, srv.URL).LogActivity(context.Background(), entry, opts)

	assert.Equal(t, "07:30", gotQuery.Get("startTime"))
	assert.Equal(t, "1800000", gotQuery.Get("durationMillis"))
}

func TestDeleteActivity_PathAndMethod(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	outcome := testRepository(t, srv.URL).DeleteActivity(context.Background(), 42)
	require.Equal(t, http.StatusNoContent, outcome.StatusCode)
	assert.Nil(t, outcome.Body)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/1/user/-/activities/42.json", gotPath)
}

func TestDailyActivities_Path(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"activities": []}`))
	}))
	defer srv.Close()

	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	outcome := testRepository(t, srv.URL).DailyActivities(context.Background(), date)
	assert.Equal(t, http.StatusOK, outcome.StatusCode)
	assert.Equal(t, "/1/user/-/activities/date/2024-03-01.json", gotPath)
}

func TestActivityTypes_Path(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"categories": []}`))
	}))
	defer srv.Close()

	outcome := testRepository(t, srv.URL).ActivityTypes(context.Background())
	assert.Equal(t, http.StatusOK, outcome.StatusCode)
	assert.Equal(t, "/1/activities.json", gotPath)
}
