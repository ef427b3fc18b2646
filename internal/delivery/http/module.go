package http

import (
	"go.uber.org/fx"

	"garmin-sync/internal/infrastructure/oauth2"
)

// provideCodeSupplier wraps the callback server as the authorization code
// supplier used during interactive authorization.
func provideCodeSupplier(server *CallbackServer) oauth2.CodeSupplier {
	return server
}

var Module = fx.Module("http",
	fx.Provide(NewCallbackServer),
	fx.Provide(provideCodeSupplier),
)
