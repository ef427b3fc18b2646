package oauth2

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"garmin-sync/internal/config"
	"garmin-sync/internal/domain/entity"
	"garmin-sync/internal/infrastructure/tokenstore"
)

// ErrStateConsumed is returned when a second code exchange is attempted with
// the same authorization state. A failed exchange is fatal to the run; the
// next invocation starts a fresh flow with fresh PKCE material.
var ErrStateConsumed = errors.New("authorization state already consumed, restart to authorize again")

// ExchangeError is a token endpoint rejection.
type ExchangeError struct {
	StatusCode       int
	ErrorDescription string
	Body             string
}

func (e *ExchangeError) Error() string {
	if e.ErrorDescription != "" {
		return fmt.Sprintf("failed to fetch token: %s", e.ErrorDescription)
	}
	return fmt.Sprintf("failed to fetch token: status=%d, body=%s", e.StatusCode, e.Body)
}

// CodeSupplier obtains the authorization response URL after the user visits
// the authorization page. Implementations are a console prompt or a local
// callback listener; tests inject a fixed URL.
type CodeSupplier interface {
	AuthorizationResponse(ctx context.Context, authorizationURL string) (string, error)
}

// Authorizer drives the OAuth2 authorization-code + PKCE flow and owns the
// cached token document.
type Authorizer interface {
	// Token returns the cached token, or blocks on interactive authorization
	// when none exists. This is the only interactive suspension point in the
	// whole process.
	Token(ctx context.Context) (entity.Token, error)

	// BuildAuthorizationURL constructs the authorization endpoint URL for
	// this authorizer's PKCE state. No side effects.
	BuildAuthorizationURL() string

	// ExchangeCode parses the code out of the callback URL, performs the
	// single token exchange and persists the returned document.
	ExchangeCode(ctx context.Context, authorizationResponse string) (entity.Token, error)
}

type authorizer struct {
	config   *config.Config
	store    tokenstore.Store
	supplier CodeSupplier
	logger   *zap.Logger
	client   *http.Client

	state     *AuthorizationState
	exchanged bool
}

func NewAuthorizer(cfg *config.Config, store tokenstore.Store, supplier CodeSupplier, logger *zap.Logger) (Authorizer, error) {
	state, err := NewAuthorizationState()
	if err != nil {
		return nil, err
	}

	return &authorizer{
		config:   cfg,
		store:    store,
		supplier: supplier,
		logger:   logger,
		client: &http.Client{
			Timeout: cfg.Fitbit.Timeout,
		},
		state: state,
	}, nil
}

func (a *authorizer) Token(ctx context.Context) (entity.Token, error) {
	token, err := a.store.Load()
	if err != nil {
		return nil, err
	}
	if token != nil {
		a.logger.Debug("Using cached authorization token")
		return token, nil
	}

	a.logger.Info("No cached authorization token, starting interactive authorization")
	return a.authorize(ctx)
}

func (a *authorizer) authorize(ctx context.Context) (entity.Token, error) {
	authURL := a.BuildAuthorizationURL()

	response, err := a.supplier.AuthorizationResponse(ctx, authURL)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain authorization response: %w", err)
	}

	return a.ExchangeCode(ctx, response)
}

func (a *authorizer) BuildAuthorizationURL() string {
	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", a.config.Fitbit.ClientID)
	params.Set("redirect_uri", a.config.Fitbit.RedirectURI)
	params.Set("scope", a.config.Fitbit.Scope)
	params.Set("state", a.state.State)
	params.Set("code_challenge", a.state.CodeChallenge)
	params.Set("code_challenge_method", "S256")

	return a.config.Fitbit.AuthURL + "?" + params.Encode()
}

func (a *authorizer) ExchangeCode(ctx context.Context, authorizationResponse string) (entity.Token, error) {
	if a.exchanged {
		return nil, ErrStateConsumed
	}
	a.exchanged = true

	code, err := parseAuthorizationCode(authorizationResponse)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("client_id", a.config.Fitbit.ClientID)
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("code_verifier", a.state.CodeVerifier)
	form.Set("state", a.state.State)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.Fitbit.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	a.logger.Info("Exchanging authorization code for token",
		zap.String("token_url", a.config.Fitbit.TokenURL),
		zap.String("client_id", a.config.Fitbit.ClientID),
	)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute token request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, newExchangeError(resp.StatusCode, respBody)
	}

	var token entity.Token
	if err := json.Unmarshal(respBody, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}

	if err := a.store.Save(token); err != nil {
		return nil, err
	}

	a.logger.Info("Authorization code exchanged successfully")
	return token, nil
}

func parseAuthorizationCode(authorizationResponse string) (string, error) {
	parsed, err := url.Parse(authorizationResponse)
	if err != nil {
		return "", fmt.Errorf("invalid callback URL: %w", err)
	}

	code := parsed.Query().Get("code")
	if code == "" {
		return "", fmt.Errorf("callback URL carries no authorization code: %s", authorizationResponse)
	}

	return code, nil
}

func newExchangeError(status int, body []byte) *ExchangeError {
	exchErr := &ExchangeError{
		StatusCode: status,
		Body:       string(body),
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		if desc, ok := payload["error_description"].(string); ok {
			exchErr.ErrorDescription = desc
		}
	}

	return exchErr
}
