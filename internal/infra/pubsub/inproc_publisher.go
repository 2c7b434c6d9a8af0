package pubsub

import (
	"context"
	"log/slog"
	"time"

	"daansetu/internal/domain/service"
	"daansetu/internal/usecase"
)

const defaultDispatchTimeout = 30 * time.Second

// inprocPublisher implements EventPublisher by running the dispatch pipeline
// in-process. Used when no external broker is configured; delivery happens in
// a background goroutine so the caller's request is not held up.
type inprocPublisher struct {
	dispatch usecase.DispatchUsecase
	timeout  time.Duration
	logger   *slog.Logger
}

// NewInprocPublisher creates a publisher that dispatches events in-process.
func NewInprocPublisher(dispatch usecase.DispatchUsecase, timeout time.Duration, logger *slog.Logger) service.EventPublisher {
	if timeout <= 0 {
		timeout = defaultDispatchTimeout
	}

	return &inprocPublisher{
		dispatch: dispatch,
		timeout:  timeout,
		logger:   logger,
	}
}

// PublishTransitionEvent hands the event to the dispatch pipeline on a
// background goroutine. The request context may be cancelled as soon as the
// response is written, so dispatch runs detached from it with its own timeout.
func (p *inprocPublisher) PublishTransitionEvent(ctx context.Context, event *service.TransitionEvent) error {
	detached := context.WithoutCancel(ctx)

	go func() {
		dispatchCtx, cancel := context.WithTimeout(detached, p.timeout)
		defer cancel()

		if err := p.dispatch.DispatchTransition(dispatchCtx, event); err != nil {
			p.logger.Error("[InprocPubSub] Dispatch failed",
				slog.String("entity_type", event.EntityType.String()),
				slog.String("entity_id", event.EntityID.String()),
				slog.String("action", event.Action),
				slog.Any("error", err),
			)
		}
	}()

	return nil
}

// Close releases resources (no-op for in-process dispatch)
func (p *inprocPublisher) Close() error {
	return nil
}
