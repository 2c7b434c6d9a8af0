package repository

import (
	"context"
	"testing"

	"daansetu/internal/domain/entity"
	"daansetu/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockDonationRepository is a testify mock for repository.DonationRepository.
type MockDonationRepository struct {
	mock.Mock
}

// NewMockDonationRepository creates a mock that asserts its expectations on cleanup.
func NewMockDonationRepository(t *testing.T) *MockDonationRepository {
	m := &MockDonationRepository{}
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockDonationRepository) Create(ctx context.Context, donation *entity.Donation) error {
	args := m.Called(ctx, donation)

	return args.Error(0)
}

func (m *MockDonationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Donation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Donation), args.Error(1)
}

func (m *MockDonationRepository) FindByDonor(ctx context.Context, donorID uuid.UUID, limit, offset int) ([]*entity.Donation, error) {
	args := m.Called(ctx, donorID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Donation), args.Error(1)
}

func (m *MockDonationRepository) UpdateStatusCAS(ctx context.Context, id uuid.UUID, fromStatus, toStatus entity.Status, assign repository.StatusAssignments) error {
	args := m.Called(ctx, id, fromStatus, toStatus, assign)

	return args.Error(0)
}

func (m *MockDonationRepository) AppendHistory(ctx context.Context, entry *entity.AuditEntry) error {
	args := m.Called(ctx, entry)

	return args.Error(0)
}

// MockRescueRepository is a testify mock for repository.RescueRepository.
type MockRescueRepository struct {
	mock.Mock
}

// NewMockRescueRepository creates a mock that asserts its expectations on cleanup.
func NewMockRescueRepository(t *testing.T) *MockRescueRepository {
	m := &MockRescueRepository{}
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockRescueRepository) Create(ctx context.Context, rescue *entity.RescueRequest) error {
	args := m.Called(ctx, rescue)

	return args.Error(0)
}

func (m *MockRescueRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.RescueRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.RescueRequest), args.Error(1)
}

func (m *MockRescueRepository) FindByDonor(ctx context.Context, donorID uuid.UUID, limit, offset int) ([]*entity.RescueRequest, error) {
	args := m.Called(ctx, donorID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.RescueRequest), args.Error(1)
}

func (m *MockRescueRepository) UpdateStatusCAS(ctx context.Context, id uuid.UUID, fromStatus, toStatus entity.Status, assign repository.StatusAssignments) error {
	args := m.Called(ctx, id, fromStatus, toStatus, assign)

	return args.Error(0)
}

func (m *MockRescueRepository) AppendHistory(ctx context.Context, entry *entity.AuditEntry) error {
	args := m.Called(ctx, entry)

	return args.Error(0)
}

// MockTaskRepository is a testify mock for repository.TaskRepository.
type MockTaskRepository struct {
	mock.Mock
}

// NewMockTaskRepository creates a mock that asserts its expectations on cleanup.
func NewMockTaskRepository(t *testing.T) *MockTaskRepository {
	m := &MockTaskRepository{}
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockTaskRepository) Create(ctx context.Context, task *entity.VolunteerTask) error {
	args := m.Called(ctx, task)

	return args.Error(0)
}

func (m *MockTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.VolunteerTask, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.VolunteerTask), args.Error(1)
}

func (m *MockTaskRepository) FindByVolunteer(ctx context.Context, volunteerID uuid.UUID, limit, offset int) ([]*entity.VolunteerTask, error) {
	args := m.Called(ctx, volunteerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.VolunteerTask), args.Error(1)
}

func (m *MockTaskRepository) UpdateStatusCAS(ctx context.Context, id uuid.UUID, fromStatus, toStatus entity.Status, assign repository.StatusAssignments) error {
	args := m.Called(ctx, id, fromStatus, toStatus, assign)

	return args.Error(0)
}

func (m *MockTaskRepository) AppendHistory(ctx context.Context, entry *entity.AuditEntry) error {
	args := m.Called(ctx, entry)

	return args.Error(0)
}
