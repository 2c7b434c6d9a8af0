package repository

import (
	"context"
	"testing"
	"time"

	"daansetu/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a testify mock for repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

// NewMockUserRepository creates a mock that asserts its expectations on cleanup.
func NewMockUserRepository(t *testing.T) *MockUserRepository {
	m := &MockUserRepository{}
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)

	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(map[uuid.UUID]*entity.User), args.Error(1)
}

// MockShelterRepository is a testify mock for repository.ShelterRepository.
type MockShelterRepository struct {
	mock.Mock
}

// NewMockShelterRepository creates a mock that asserts its expectations on cleanup.
func NewMockShelterRepository(t *testing.T) *MockShelterRepository {
	m := &MockShelterRepository{}
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockShelterRepository) Create(ctx context.Context, shelter *entity.Shelter) error {
	args := m.Called(ctx, shelter)

	return args.Error(0)
}

func (m *MockShelterRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Shelter, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Shelter), args.Error(1)
}

// MockSessionRepository is a testify mock for repository.SessionRepository.
type MockSessionRepository struct {
	mock.Mock
}

// NewMockSessionRepository creates a mock that asserts its expectations on cleanup.
func NewMockSessionRepository(t *testing.T) *MockSessionRepository {
	m := &MockSessionRepository{}
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockSessionRepository) Create(ctx context.Context, session *entity.Session) error {
	args := m.Called(ctx, session)

	return args.Error(0)
}

func (m *MockSessionRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*entity.Session, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Session), args.Error(1)
}

func (m *MockSessionRepository) DeactivateAllForUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)

	return args.Error(0)
}

func (m *MockSessionRepository) DeactivateByTokenHash(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)

	return args.Error(0)
}

func (m *MockSessionRepository) TouchActivity(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)

	return args.Error(0)
}

func (m *MockSessionRepository) CountActiveByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)

	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)

	return args.Get(0).(int64), args.Error(1)
}

// MockDeviceRepository is a testify mock for repository.DeviceRepository.
type MockDeviceRepository struct {
	mock.Mock
}

// NewMockDeviceRepository creates a mock that asserts its expectations on cleanup.
func NewMockDeviceRepository(t *testing.T) *MockDeviceRepository {
	m := &MockDeviceRepository{}
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockDeviceRepository) Create(ctx context.Context, device *entity.UserDevice) error {
	args := m.Called(ctx, device)

	return args.Error(0)
}

func (m *MockDeviceRepository) FindByUserAndDeviceID(ctx context.Context, userID uuid.UUID, deviceID string) (*entity.UserDevice, error) {
	args := m.Called(ctx, userID, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.UserDevice), args.Error(1)
}

func (m *MockDeviceRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]*entity.UserDevice, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.UserDevice), args.Error(1)
}

func (m *MockDeviceRepository) UpdateToken(ctx context.Context, id uuid.UUID, fcmToken string) error {
	args := m.Called(ctx, id, fcmToken)

	return args.Error(0)
}

func (m *MockDeviceRepository) DeactivateByTokens(ctx context.Context, tokens []string) error {
	args := m.Called(ctx, tokens)

	return args.Error(0)
}

func (m *MockDeviceRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

// MockNotificationRepository is a testify mock for repository.NotificationRepository.
type MockNotificationRepository struct {
	mock.Mock
}

// NewMockNotificationRepository creates a mock that asserts its expectations on cleanup.
func NewMockNotificationRepository(t *testing.T) *MockNotificationRepository {
	m := &MockNotificationRepository{}
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	args := m.Called(ctx, notification)

	return args.Error(0)
}

func (m *MockNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Notification), args.Error(1)
}

func (m *MockNotificationRepository) FindByRecipient(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]*entity.Notification, error) {
	args := m.Called(ctx, recipientID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Notification), args.Error(1)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, recipientID)

	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *MockNotificationRepository) DeleteByRecipient(ctx context.Context, recipientID uuid.UUID) error {
	args := m.Called(ctx, recipientID)

	return args.Error(0)
}
