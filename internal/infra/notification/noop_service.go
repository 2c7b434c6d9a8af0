package notification

import (
	"context"
	"log/slog"

	"daansetu/internal/domain/service"
)

// noopPushService is used when Firebase is not configured. Delivery is
// skipped; notifications still reach the inbox and realtime channels.
type noopPushService struct {
	logger *slog.Logger
}

// NewNoopPushService creates a push service that drops every message.
func NewNoopPushService(logger *slog.Logger) service.PushService {
	return &noopPushService{logger: logger}
}

func (s *noopPushService) SendSingle(ctx context.Context, token, title, body string, data map[string]string) error {
	s.logger.Debug("[NoopPush] Push delivery disabled, skipping")

	return nil
}

func (s *noopPushService) SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) (*service.MulticastResult, error) {
	s.logger.Debug("[NoopPush] Push delivery disabled, skipping", slog.Int("token_count", len(tokens)))

	return &service.MulticastResult{}, nil
}
