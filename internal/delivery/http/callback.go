package http

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"garmin-sync/internal/config"
	"garmin-sync/internal/infrastructure/oauth2"
)

// callbackTimeout bounds how long we hold the listener open for the user to
// finish the authorization page.
const callbackTimeout = 5 * time.Minute

// CallbackServer captures the OAuth2 redirect on a short-lived local HTTP
// server at the configured redirect URI, so the user does not have to copy
// the callback URL by hand. When the listener cannot bind (port taken,
// redirect URI pointing elsewhere) it falls back to the console prompt.
type CallbackServer struct {
	config *config.Config
	logger *zap.Logger
	prompt oauth2.CodeSupplier
}

func NewCallbackServer(cfg *config.Config, logger *zap.Logger) *CallbackServer {
	return &CallbackServer{
		config: cfg,
		logger: logger,
		prompt: oauth2.NewPromptSupplier(os.Stdin, os.Stdout),
	}
}

func (s *CallbackServer) AuthorizationResponse(ctx context.Context, authorizationURL string) (string, error) {
	redirect, err := url.Parse(s.config.Fitbit.RedirectURI)
	if err != nil || redirect.Host == "" {
		s.logger.Warn("Redirect URI is not listenable, falling back to console prompt",
			zap.String("redirect_uri", s.config.Fitbit.RedirectURI),
		)
		return s.prompt.AuthorizationResponse(ctx, authorizationURL)
	}

	path := redirect.Path
	if path == "" {
		path = "/"
	}

	results := make(chan string, 1)

	app := fiber.New(fiber.Config{
		AppName:               s.config.App.Name,
		DisableStartupMessage: true,
	})
	app.Get(path, func(c *fiber.Ctx) error {
		query := string(c.Request().URI().QueryString())
		select {
		case results <- s.config.Fitbit.RedirectURI + "?" + query:
		default:
		}
		return c.Type("html").SendString("<html><body>Authorization received. You can close this window.</body></html>")
	})

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(redirect.Host)
	}()

	fmt.Println("Visit this URL to authorize:", authorizationURL)
	s.logger.Info("Waiting for authorization callback",
		zap.String("listen", redirect.Host),
		zap.String("path", path),
	)

	defer app.Shutdown()

	select {
	case response := <-results:
		s.logger.Info("Authorization callback received")
		return response, nil
	case err := <-listenErr:
		s.logger.Warn("Callback listener failed, falling back to console prompt", zap.Error(err))
		return s.prompt.AuthorizationResponse(ctx, authorizationURL)
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(callbackTimeout):
		return "", fmt.Errorf("timed out waiting for authorization callback after %s", callbackTimeout)
	}
}

// Ensure CallbackServer implements CodeSupplier
var _ oauth2.CodeSupplier = (*CallbackServer)(nil)
