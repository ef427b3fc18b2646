package httpclient

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
)

func testClient(t *testing.T) HTTPClient {
	t.Helper()
	cfg := &config.Config{
		Fitbit: config.FitbitConfig{
			Timeout:   5 * time.Second,
			RateLimit: 100,
		},
	}
	return NewHTTPClientWithToken(cfg, entity.Token{"access_token": "tok-xyz"}, zap.NewNop())
}

func TestRequest_AttachesBearerHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	outcome := testClient(t).Request(context.Background(), http.MethodGet, srv.URL, nil)
	assert.Equal(t, http.StatusOK, outcome.StatusCode)
	assert.Equal(t, "Bearer tok-xyz", gotAuth)
}

func TestRequest_DeleteNoContentHasNoBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	outcome := testClient(t).Request(context.Background(), http.MethodDelete, srv.URL, nil)
	assert.Equal(t, http.StatusNoContent, outcome.StatusCode)
	assert.Nil(t, outcome.Body)
}

func TestRequest_NotFoundReturnsParsedBodyNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"errors": [{"message": "no such resource"}]}`))
	}))
	defer srv.Close()

	outcome := testClient(t).Request(context.Background(), http.MethodGet, srv.URL, nil)
	assert.Equal(t, http.StatusNotFound, outcome.StatusCode)
	require.NotNil(t, outcome.Body)
	assert.Contains(t, outcome.Body, "errors")
	assert.True(t, outcome.Failed())
}

func TestRequest_TransportFailureMapsTo500(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	outcome := testClient(t).Request(context.Background(), http.MethodGet, srv.URL, nil)
	assert.Equal(t, http.StatusInternalServerError, outcome.StatusCode)
	assert.Equal(t, map[string]any{}, outcome.Body)
}

func TestRequest_EmptySuccessBodyIsEmptyMap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	outcome := testClient(t).Request(context.Background(), http.MethodPost, srv.URL, nil)
	assert.Equal(t, http.StatusCreated, outcome.StatusCode)
	assert.Equal(t, map[string]any{}, outcome.Body)
}

func TestRequest_FormBodyIsURLEncoded(t *testing.T) {
	var gotContentType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseForm())
		gotBody = r.PostForm.Get("grant_type")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	form := url.Values{}
	form.Set("grant_type", "authorization_code")

	outcome := testClient(t).Request(context.Background(), http.MethodPost, srv.URL, form)
	assert.Equal(t, http.StatusOK, outcome.StatusCode)
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Equal(t, "authorization_code", gotBody)
}
