package httpclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"garmin-sync/internal/config"
	"garmin-sync/internal/domain/entity"
	"garmin-sync/internal/infrastructure/oauth2"
)

const maxBodyLogLength = 500 // Maximum characters to log for body

// HTTPClient performs bearer-authenticated requests against the destination
// API. Every call resolves to a RequestOutcome: transport failures and HTTP
// errors are folded into the outcome, never raised past this boundary.
type HTTPClient interface {
	Request(ctx context.Context, method, rawURL string, form url.Values) *entity.RequestOutcome
}

type httpClient struct {
	client  *http.Client
	token   entity.Token
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewHTTPClient resolves the token once at construction. When no cached token
// exists this blocks on the authorizer's interactive flow; a failed exchange
// fails construction and with it the whole run.
func NewHTTPClient(cfg *config.Config, auth oauth2.Authorizer, logger *zap.Logger) (HTTPClient, error) {
	token, err := auth.Token(context.Background())
	if err != nil {
		return nil, err
	}

	logger.Info("HTTP client initialized with bearer authentication")

	return &httpClient{
		client: &http.Client{
			Timeout: cfg.Fitbit.Timeout,
		},
		token:   token,
		limiter: rate.NewLimiter(rate.Limit(cfg.Fitbit.RateLimit), cfg.Fitbit.RateLimit),
		logger:  logger,
	}, nil
}

// NewHTTPClientWithToken builds a client around an already-resolved token.
func NewHTTPClientWithToken(cfg *config.Config, token entity.Token, logger *zap.Logger) HTTPClient {
	return &httpClient{
		client: &http.Client{
			Timeout: cfg.Fitbit.Timeout,
		},
		token:   token,
		limiter: rate.NewLimiter(rate.Limit(cfg.Fitbit.RateLimit), cfg.Fitbit.RateLimit),
		logger:  logger,
	}
}

func (c *httpClient) Request(ctx context.Context, method, rawURL string, form url.Values) *entity.RequestOutcome {
	if err := c.limiter.Wait(ctx); err != nil {
		c.logger.Error("Rate limit wait aborted",
			zap.String("method", method),
			zap.String("url", rawURL),
			zap.Error(err),
		)
		return transportFailure()
	}

	var bodyReader io.Reader
	if form != nil {
		bodyReader = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, bodyReader)
	if err != nil {
		c.logger.Error("Failed to create request",
			zap.String("method", method),
			zap.String("url", rawURL),
			zap.Error(err),
		)
		return transportFailure()
	}

	req.Header.Set("Authorization", "Bearer "+c.token.AccessToken())
	req.Header.Set("Accept", "application/json")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	startTime := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("Request failed at transport level",
			zap.String("method", method),
			zap.String("url", rawURL),
			zap.Error(err),
		)
		return transportFailure()
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("Failed to read response body",
			zap.String("method", method),
			zap.String("url", rawURL),
			zap.Error(err),
		)
		return transportFailure()
	}

	c.logger.Debug("Request completed",
		zap.String("method", method),
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(startTime)),
	)

	// The success-with-no-content path: a delete carries no document
	if method == http.MethodDelete && resp.StatusCode == http.StatusNoContent {
		c.logger.Info("Successfully deleted entry", zap.String("url", rawURL))
		return &entity.RequestOutcome{Body: nil, StatusCode: resp.StatusCode}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("Request failed",
			zap.Int("status", resp.StatusCode),
			zap.String("body", truncateForLog(string(respBody))),
		)
	}

	return &entity.RequestOutcome{
		Body:       parseBody(respBody, c.logger),
		StatusCode: resp.StatusCode,
	}
}

func transportFailure() *entity.RequestOutcome {
	return &entity.RequestOutcome{
		Body:       map[string]any{},
		StatusCode: http.StatusInternalServerError,
	}
}

func parseBody(respBody []byte, logger *zap.Logger) map[string]any {
	if len(respBody) == 0 {
		return map[string]any{}
	}

	var parsed map[string]any
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		logger.Warn("Response body is not a JSON object",
			zap.String("body", truncateForLog(string(respBody))),
		)
		return map[string]any{}
	}

	return parsed
}

func truncateForLog(s string) string {
	if len(s) <= maxBodyLogLength {
		return s
	}
	return s[:maxBodyLogLength] + "... [truncated]"
}
