package usecase

import (
	"context"

	"daansetu/internal/domain/service"
)

// DispatchUsecase fans a committed transition event out to every channel.
// Persistence of recipient notifications is the only step whose failure is
// surfaced; realtime and push delivery are best-effort.
type DispatchUsecase interface {
	DispatchTransition(ctx context.Context, event *service.TransitionEvent) error
}
