package tokenstore

import "go.uber.org/fx"

var Module = fx.Module("tokenstore",
	fx.Provide(NewStore),
)
