// Package repository provides hand-written testify mocks for the persistence
// interfaces, plus a transaction manager fake that runs callbacks without a
// real database.
package repository

import (
	"context"
	"testing"

	"daansetu/internal/domain/repository"
)

// MockTransactionManager runs the transactional callback against a factory of
// mocks. When Err is set, Execute fails before invoking the callback, the way
// a failed Begin would.
type MockTransactionManager struct {
	Factory repository.RepositoryFactory
	Err     error
}

// Execute implements repository.TransactionManager.
func (m *MockTransactionManager) Execute(ctx context.Context, fn func(txRepoFactory repository.RepositoryFactory) error) error {
	if m.Err != nil {
		return m.Err
	}

	return fn(m.Factory)
}

// MockRepositoryFactory hands out the mock repositories created by
// NewMockRepositoryFactory.
type MockRepositoryFactory struct {
	Donations     *MockDonationRepository
	Rescues       *MockRescueRepository
	Tasks         *MockTaskRepository
	Users         *MockUserRepository
	Shelters      *MockShelterRepository
	Sessions      *MockSessionRepository
	Devices       *MockDeviceRepository
	Notifications *MockNotificationRepository
}

// NewMockRepositoryFactory creates a factory whose repositories all assert
// their expectations when the test finishes.
func NewMockRepositoryFactory(t *testing.T) *MockRepositoryFactory {
	return &MockRepositoryFactory{
		Donations:     NewMockDonationRepository(t),
		Rescues:       NewMockRescueRepository(t),
		Tasks:         NewMockTaskRepository(t),
		Users:         NewMockUserRepository(t),
		Shelters:      NewMockShelterRepository(t),
		Sessions:      NewMockSessionRepository(t),
		Devices:       NewMockDeviceRepository(t),
		Notifications: NewMockNotificationRepository(t),
	}
}

func (f *MockRepositoryFactory) DonationRepo() repository.DonationRepository { return f.Donations }

func (f *MockRepositoryFactory) RescueRepo() repository.RescueRepository { return f.Rescues }

func (f *MockRepositoryFactory) TaskRepo() repository.TaskRepository { return f.Tasks }

func (f *MockRepositoryFactory) UserRepo() repository.UserRepository { return f.Users }

func (f *MockRepositoryFactory) ShelterRepo() repository.ShelterRepository { return f.Shelters }

func (f *MockRepositoryFactory) SessionRepo() repository.SessionRepository { return f.Sessions }

func (f *MockRepositoryFactory) DeviceRepo() repository.DeviceRepository { return f.Devices }

func (f *MockRepositoryFactory) NotificationRepo() repository.NotificationRepository {
	return f.Notifications
}
