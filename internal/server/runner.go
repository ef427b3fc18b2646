package server

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"garmin-sync/internal/usecase"
)

// NewRunner registers the one-shot sync run on the application lifecycle.
// The run executes today's sync and then shuts the process down; sync
// failures are notified inside the usecase and do not fail the process.
func NewRunner(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	sync usecase.SyncUsecase,
	logger *zap.Logger,
) error {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				today := time.Now().Format("2006-01-02")

				logger.Info("---------------------------------------------")
				logger.Info("Starting sync", zap.String("date", today))

				if err := sync.SyncToday(context.Background()); err != nil {
					logger.Error("Sync run failed", zap.Error(err))
				}

				logger.Info("Finished sync", zap.String("date", today))
				logger.Info("---------------------------------------------")

				if err := shutdowner.Shutdown(); err != nil {
					logger.Error("Failed to shut down", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down")
			return nil
		},
	})

	return nil
}
