package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"daansetu/config"
	"daansetu/internal/delivery"
	"daansetu/internal/delivery/worker"
	"daansetu/internal/delivery/worker/handler"
	"daansetu/internal/domain/service"
	logs "daansetu/internal/infra/log"
	"daansetu/internal/infra/notification"
	"daansetu/internal/infra/persistence/postgres"
	"daansetu/internal/infra/realtime"
	"daansetu/internal/usecase/impl"

	"go.uber.org/fx"
)

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
		injectHandler(),
		injectDelivery(),
		fx.Invoke(
			startServer,
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
			newPushService,
			newRealtimePublisher,
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

// newRealtimePublisher provides a hub with no websocket listeners. The worker
// has no browser connections; realtime delivery happens on the API instances.
func newRealtimePublisher(logger *slog.Logger) service.RealtimePublisher {
	return realtime.NewHub(logger)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewDispatchService,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewPushHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				worker.NewServer,
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
