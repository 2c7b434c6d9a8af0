package postgres

import (
	"context"
	"time"

	"daansetu/internal/domain/entity"
	domainerrors "daansetu/internal/domain/errors"
	"daansetu/internal/domain/repository"
	"daansetu/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// taskRepository implements the repository.TaskRepository interface.
type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository is the constructor for taskRepository.
func NewTaskRepository(db *gorm.DB) repository.TaskRepository {
	return &taskRepository{
		db: db,
	}
}

// Create persists a new task in its initial status.
func (repo *taskRepository) Create(ctx context.Context, task *entity.VolunteerTask) error {
	taskM := fromTaskDomain(task)

	if err := repo.db.WithContext(ctx).Create(taskM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrInvalidArgument.WrapMessage("invalid user reference")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrInvalidArgument.WrapMessage("missing required task information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create task")
	}

	// Update the entity with generated values
	task.ID = taskM.ID
	task.CreatedAt = taskM.CreatedAt
	task.UpdatedAt = taskM.UpdatedAt

	return nil
}

// FindByID retrieves a task with its full history, oldest entry first.
func (repo *taskRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.VolunteerTask, error) {
	var taskM model.VolunteerTaskModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&taskM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrEntityNotFound
		}

		return nil, errors.Wrap(err, "failed to find task by ID")
	}

	task := toTaskDomain(&taskM)

	history, err := loadAuditEntries(ctx, repo.db, entity.EntityTask, id)
	if err != nil {
		return nil, err
	}
	task.History = history

	return task, nil
}

// FindByVolunteer retrieves tasks assigned to a volunteer, newest first.
func (repo *taskRepository) FindByVolunteer(ctx context.Context, volunteerID uuid.UUID, limit, offset int) ([]*entity.VolunteerTask, error) {
	var taskModels []*model.VolunteerTaskModel

	if err := repo.db.WithContext(ctx).
		Where("volunteer_id = ?", volunteerID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&taskModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find tasks by volunteer")
	}

	tasks := make([]*entity.VolunteerTask, 0, len(taskModels))
	for _, taskM := range taskModels {
		tasks = append(tasks, toTaskDomain(taskM))
	}

	return tasks, nil
}

// UpdateStatusCAS performs the conditional status update keyed on fromStatus.
func (repo *taskRepository) UpdateStatusCAS(ctx context.Context, id uuid.UUID, fromStatus, toStatus entity.Status, assign repository.StatusAssignments) error {
	updates := map[string]any{
		"status":     toStatus.String(),
		"updated_at": time.Now(),
	}
	if assign.VolunteerID != nil {
		updates["volunteer_id"] = *assign.VolunteerID
	}

	result := repo.db.WithContext(ctx).
		Model(&model.VolunteerTaskModel{}).
		Where("id = ? AND status = ?", id, fromStatus.String()).
		Updates(updates)

	if result.Error != nil {
		if isForeignKeyConstraintViolation(result.Error) {
			return domainerrors.ErrInvalidArgument.WrapMessage("invalid assignment reference")
		}

		return errors.Wrap(result.Error, "failed to update task status")
	}

	if result.RowsAffected == 0 {
		return repository.ErrStatusConflict
	}

	return nil
}

// AppendHistory appends one audit entry to the task's history.
func (repo *taskRepository) AppendHistory(ctx context.Context, entry *entity.AuditEntry) error {
	return appendAuditEntry(ctx, repo.db, entry)
}

// --- Mapper Functions ---

// toTaskDomain converts a GORM VolunteerTaskModel to a domain VolunteerTask entity.
func toTaskDomain(data *model.VolunteerTaskModel) *entity.VolunteerTask {
	if data == nil {
		return nil
	}

	return &entity.VolunteerTask{
		ID:          data.ID,
		CreatedBy:   data.CreatedBy,
		VolunteerID: data.VolunteerID,
		Title:       data.Title,
		Details:     data.Details,
		DueAt:       data.DueAt,
		Status:      entity.Status(data.Status),
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

// fromTaskDomain converts a domain VolunteerTask entity to a GORM VolunteerTaskModel.
func fromTaskDomain(data *entity.VolunteerTask) *model.VolunteerTaskModel {
	if data == nil {
		return nil
	}

	return &model.VolunteerTaskModel{
		ID:          data.ID,
		CreatedBy:   data.CreatedBy,
		VolunteerID: data.VolunteerID,
		Title:       data.Title,
		Details:     data.Details,
		DueAt:       data.DueAt,
		Status:      data.Status.String(),
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}
