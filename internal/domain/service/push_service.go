// Package service defines domain-level service interfaces implemented by the
// infrastructure layer.
package service

import (
	"context"
)

// MulticastResult summarizes one multicast push attempt.
type MulticastResult struct {
	SuccessCount  int
	FailureCount  int
	InvalidTokens []string
}

// PushService sends mobile push notifications through the configured gateway.
type PushService interface {
	// SendMulticast sends the same notification to up to 500 device tokens.
	// Tokens the gateway reports as malformed or unregistered are returned in
	// InvalidTokens so the caller can prune them.
	SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) (*MulticastResult, error)

	// SendSingle sends a notification to one device token.
	SendSingle(ctx context.Context, token, title, body string, data map[string]string) error
}
