package garmin

import (
	"go.uber.org/fx"

	"garmin-sync/internal/domain/repository"
)

// provideStepSource exposes the client at its domain boundary.
func provideStepSource(client *Client) repository.StepSource {
	return client
}

var Module = fx.Module("garmin",
	fx.Provide(NewClient),
	fx.Provide(provideStepSource),
)
