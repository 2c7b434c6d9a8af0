// Package service provides hand-written testify mocks for the domain service
// interfaces.
package service

import (
	"context"
	"testing"

	"daansetu/internal/domain/entity"
	"daansetu/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockPushService is a testify mock for service.PushService.
type MockPushService struct {
	mock.Mock
}

// NewMockPushService creates a mock that asserts its expectations on cleanup.
func NewMockPushService(t *testing.T) *MockPushService {
	m := &MockPushService{}
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockPushService) SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) (*service.MulticastResult, error) {
	args := m.Called(ctx, tokens, title, body, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*service.MulticastResult), args.Error(1)
}

func (m *MockPushService) SendSingle(ctx context.Context, token, title, body string, data map[string]string) error {
	args := m.Called(ctx, token, title, body, data)

	return args.Error(0)
}

// MockTokenService is a testify mock for service.TokenService.
type MockTokenService struct {
	mock.Mock
}

// NewMockTokenService creates a mock that asserts its expectations on cleanup.
func NewMockTokenService(t *testing.T) *MockTokenService {
	m := &MockTokenService{}
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockTokenService) GenerateAccessToken(userID uuid.UUID, roles entity.Roles) (string, error) {
	args := m.Called(userID, roles)

	return args.String(0), args.Error(1)
}

func (m *MockTokenService) ValidateToken(tokenString string) (*service.TokenClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*service.TokenClaims), args.Error(1)
}

// MockRealtimePublisher is a testify mock for service.RealtimePublisher.
type MockRealtimePublisher struct {
	mock.Mock
}

// NewMockRealtimePublisher creates a mock that asserts its expectations on cleanup.
func NewMockRealtimePublisher(t *testing.T) *MockRealtimePublisher {
	m := &MockRealtimePublisher{}
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockRealtimePublisher) Publish(recipientID uuid.UUID, notification *entity.Notification) {
	m.Called(recipientID, notification)
}

// MockEventPublisher is a testify mock for service.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

// NewMockEventPublisher creates a mock that asserts its expectations on cleanup.
func NewMockEventPublisher(t *testing.T) *MockEventPublisher {
	m := &MockEventPublisher{}
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockEventPublisher) PublishTransitionEvent(ctx context.Context, event *service.TransitionEvent) error {
	args := m.Called(ctx, event)

	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	args := m.Called()

	return args.Error(0)
}
