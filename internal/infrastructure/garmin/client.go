package garmin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"garmin-sync/internal/config"
	"garmin-sync/internal/domain/entity"
	"garmin-sync/internal/domain/repository"
)

const isoDate = "2006-01-02"

// ErrSessionMissing is returned when the session token store has not been
// provisioned. Login is the session library's job; this client only resumes.
var ErrSessionMissing = errors.New("garmin session not found, provision the token store and log in first")

// ErrSessionExpired is returned when the stored session token is past its
// expiry and the client cannot use it.
var ErrSessionExpired = errors.New("garmin session expired, log in again to refresh the token store")

// sessionToken is the OAuth2 part of the session material the login library
// dumps into the token store directory.
type sessionToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"expires_at"`
}

// Client resumes a stored Garmin Connect session and serves the three data
// endpoints the sync needs. The session file is loaded lazily on first use so
// a missing session surfaces as a query failure, not a startup crash.
type Client struct {
	config     *config.Config
	httpClient *http.Client
	logger     *zap.Logger

	session *sessionToken
}

func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Garmin.Timeout,
		},
		logger: logger,
	}
}

func (c *Client) ensureSession() error {
	if c.session != nil {
		return nil
	}

	path := filepath.Join(c.config.Garmin.TokenStore, "oauth2_token.json")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w (looked in %s)", ErrSessionMissing, c.config.Garmin.TokenStore)
	}
	if err != nil {
		return fmt.Errorf("failed to read garmin session: %w", err)
	}

	var token sessionToken
	if err := json.Unmarshal(data, &token); err != nil {
		return fmt.Errorf("failed to parse garmin session %s: %w", path, err)
	}

	if token.ExpiresAt != 0 && time.Now().Unix() >= token.ExpiresAt {
		return fmt.Errorf("%w (expired at %s)", ErrSessionExpired, time.Unix(token.ExpiresAt, 0).Format(time.RFC3339))
	}

	c.session = &token
	c.logger.Info("Logged in successfully with stored garmin session",
		zap.String("token_store", c.config.Garmin.TokenStore),
	)

	return nil
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	if err := c.ensureSession(); err != nil {
		return err
	}

	reqURL := c.config.Garmin.BaseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.session.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("garmin request failed: status=%d, path=%s, body=%s", resp.StatusCode, path, string(respBody))
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func (c *Client) DailySteps(ctx context.Context, start, end time.Time) ([]entity.StepEntry, error) {
	path := fmt.Sprintf("/usersummary-service/stats/steps/daily/%s/%s", start.Format(isoDate), end.Format(isoDate))

	var entries []entity.StepEntry
	if err := c.get(ctx, path, &entries); err != nil {
		return nil, err
	}

	return entries, nil
}

func (c *Client) StepsData(ctx context.Context, date time.Time) ([]entity.StepsReading, error) {
	params := url.Values{}
	params.Set("date", date.Format(isoDate))
	path := "/wellness-service/wellness/dailySummaryChart?" + params.Encode()

	var readings []entity.StepsReading
	if err := c.get(ctx, path, &readings); err != nil {
		return nil, err
	}

	return readings, nil
}

func (c *Client) StatsAndBody(ctx context.Context, date time.Time) (*entity.DailyStats, error) {
	params := url.Values{}
	params.Set("calendarDate", date.Format(isoDate))
	path := "/usersummary-service/usersummary/daily?" + params.Encode()

	var stats entity.DailyStats
	if err := c.get(ctx, path, &stats); err != nil {
		return nil, err
	}

	return &stats, nil
}

// Ensure Client implements StepSource
var _ repository.StepSource = (*Client)(nil)
