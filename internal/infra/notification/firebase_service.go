package notification

import (
	"context"
	"fmt"

	"daansetu/config"
	"daansetu/internal/domain/service"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

type firebasePushService struct {
	client *messaging.Client
}

// NewFirebasePushService creates a push service backed by Firebase Cloud Messaging.
func NewFirebasePushService(ctx context.Context, cfg *config.Config) (service.PushService, error) {
	var opts []option.ClientOption
	if cfg.Firebase != nil && cfg.Firebase.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Firebase.CredentialsPath))
	}

	var fbCfg *firebase.Config
	if cfg.Firebase != nil && cfg.Firebase.ProjectID != "" {
		fbCfg = &firebase.Config{ProjectID: cfg.Firebase.ProjectID}
	}

	app, err := firebase.NewApp(ctx, fbCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	return &firebasePushService{
		client: client,
	}, nil
}

// SendSingle sends a push notification to a single device token.
func (s *firebasePushService) SendSingle(ctx context.Context, token, title, body string, data map[string]string) error {
	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	_, err := s.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}

	return nil
}

// SendMulticast sends push notifications to multiple device tokens (max 500 tokens).
func (s *firebasePushService) SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) (*service.MulticastResult, error) {
	if len(tokens) == 0 {
		return &service.MulticastResult{}, nil
	}

	// Firebase limits to 500 tokens per request
	if len(tokens) > 500 {
		return nil, fmt.Errorf("token count exceeds limit: %d (max 500)", len(tokens))
	}

	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	response, err := s.client.SendEachForMulticast(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("failed to send multicast notification: %w", err)
	}

	result := &service.MulticastResult{
		SuccessCount: response.SuccessCount,
		FailureCount: response.FailureCount,
	}

	// Collect invalid tokens so callers can prune stale device registrations
	for idx, sendResponse := range response.Responses {
		if sendResponse.Error != nil {
			if messaging.IsInvalidArgument(sendResponse.Error) ||
				messaging.IsUnregistered(sendResponse.Error) {
				result.InvalidTokens = append(result.InvalidTokens, tokens[idx])
			}
		}
	}

	return result, nil
}
