package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"daansetu/config"
	"daansetu/internal/delivery"
	"daansetu/internal/delivery/http"
	"daansetu/internal/delivery/http/middleware"
	"daansetu/internal/delivery/http/router/handler"
	"daansetu/internal/domain/service"
	"daansetu/internal/infra/auth"
	logs "daansetu/internal/infra/log"
	"daansetu/internal/infra/notification"
	"daansetu/internal/infra/persistence/postgres"
	"daansetu/internal/infra/pubsub"
	"daansetu/internal/infra/realtime"
	"daansetu/internal/usecase"
	"daansetu/internal/usecase/impl"

	"go.uber.org/fx"
)

const sessionCleanupInterval = time.Hour

type startServerParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
			startSessionJanitor,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewJWTService,
			newPushService,
			newRealtimeHub,
		),
	)
}

// newPushService creates the FCM-backed push service, or a no-op one when
// Firebase is not configured.
func newPushService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.PushService, error) {
	if cfg.Firebase == nil {
		return notification.NewNoopPushService(logger), nil
	}

	svc, err := notification.NewFirebasePushService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firebase push service: %w", err)
	}

	return svc, nil
}

// newRealtimeHub creates the websocket hub and binds it to the publisher
// interface the dispatch pipeline uses.
func newRealtimeHub(lc fx.Lifecycle, logger *slog.Logger) (*realtime.Hub, service.RealtimePublisher) {
	hub := realtime.NewHub(logger)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			hub.Close()

			return nil
		},
	})

	return hub, hub
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewWorkflowService,
			impl.NewSessionService,
			impl.NewNotificationService,
			impl.NewDeviceService,
			impl.NewDispatchService,
		),
		pubsub.Module,
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewWorkflowHandler,
			handler.NewNotificationHandler,
			handler.NewSessionHandler,
			handler.NewDeviceHandler,
			handler.NewRealtimeHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))

				// Trigger graceful shutdown to execute all OnStop hooks
				if shutdownErr := params.Shutdown(); shutdownErr != nil {
					slog.Error("Failed to shutdown gracefully", slog.Any("error", shutdownErr))
					os.Exit(1)
				}
			}
		}()
	}
}

// startSessionJanitor periodically removes sessions past the retention window.
func startSessionJanitor(lc fx.Lifecycle, sessionUc usecase.SessionUsecase, logger *slog.Logger) {
	janitorCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ticker := time.NewTicker(sessionCleanupInterval)
				defer ticker.Stop()

				for {
					select {
					case <-janitorCtx.Done():
						return
					case <-ticker.C:
						deleted, err := sessionUc.CleanupExpiredSessions(janitorCtx)
						if err != nil {
							logger.Warn("Session cleanup failed", slog.Any("error", err))

							continue
						}
						if deleted > 0 {
							logger.Info("Removed expired sessions", slog.Int64("deleted", deleted))
						}
					}
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()

			return nil
		},
	})
}
