package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"todolist/internal/core/domain"
	"todolist/internal/core/port"
)

type TaskService struct {
	repo      port.TaskRepository
	validator port.Validator
	telemetry port.Telemetry
	clock     Clock
}

func NewTaskService(repo port.TaskRepository, opts ...Option) *TaskService {
	o := buildOptions(opts)

	return &TaskService{
		repo:      repo,
		validator: o.validator,
		telemetry: o.telemetry,
		clock:     o.clock,
	}
}

func (s *TaskService) ListTasks(ctx context.Context, userID int64) ([]domain.Task, error) {
	ctx, span := s.telemetry.StartServiceSpan(ctx, "task", "ListTasks", userID, nil)
	defer span.End()

	startTime := time.Now()
	tasks, err := s.repo.ListByUser(ctx, userID)

	s.telemetry.RecordServiceOperation(ctx, "task", "ListTasks", userID, time.Since(startTime), err)

	if err != nil {
		return nil, err
	}

	span.SetAttributes(map[string]any{"tasks.count": len(tasks)})

	return tasks, nil
}

func (s *TaskService) CreateTask(ctx context.Context, userID int64, text string, category domain.Category, dueDate *time.Time) (domain.Task, error) {
	ctx, span := s.telemetry.StartServiceSpan(ctx, "task", "CreateTask", userID, map[string]any{
		"task.category": category.String(),
	})
	defer span.End()

	startTime := time.Now()
	now := s.clock()

	task := domain.Task{
		UserID:    userID,
		Text:      strings.TrimSpace(text),
		Category:  category,
		DueDate:   dueDate,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.validator.ValidateStruct(task); err != nil {
		s.telemetry.RecordServiceOperation(ctx, "task", "CreateTask", userID, time.Since(startTime), err)
		return domain.Task{}, err
	}

	created, err := s.repo.Create(ctx, task)

	s.telemetry.RecordServiceOperation(ctx, "task", "CreateTask", userID, time.Since(startTime), err)

	if err != nil {
		return domain.Task{}, err
	}

	s.telemetry.RecordBusinessEvent(ctx, "created", "task", strconv.FormatInt(created.ID, 10), userID, nil)

	return created, nil
}

// UpdateTask applies the supplied fields only and reports false when the task
// does not exist for this user.
func (s *TaskService) UpdateTask(ctx context.Context, userID int64, taskID int64, patch domain.TaskPatch) (bool, error) {
	ctx, span := s.telemetry.StartServiceSpan(ctx, "task", "UpdateTask", userID, map[string]any{
		"task.id": taskID,
	})
	defer span.End()

	startTime := time.Now()

	if patch.Text != nil {
		text := strings.TrimSpace(*patch.Text)
		patch.Text = &text

		if err := s.validator.ValidateStruct(domain.Task{Text: text}); err != nil {
			s.telemetry.RecordServiceOperation(ctx, "task", "UpdateTask", userID, time.Since(startTime), err)
			return false, err
		}
	}

	if patch.Category != nil && !patch.Category.IsValid() {
		err := domain.NewValidationError("category", "Invalid category: "+patch.Category.String())
		s.telemetry.RecordServiceOperation(ctx, "task", "UpdateTask", userID, time.Since(startTime), err)
		return false, err
	}

	updated, err := s.repo.Update(ctx, userID, taskID, patch, s.clock())

	s.telemetry.RecordServiceOperation(ctx, "task", "UpdateTask", userID, time.Since(startTime), err)

	if err != nil {
		return false, err
	}

	if updated {
		s.telemetry.RecordBusinessEvent(ctx, "updated", "task", strconv.FormatInt(taskID, 10), userID, nil)
	}

	return updated, nil
}

// DeleteTask moves the task to the trash.
func (s *TaskService) DeleteTask(ctx context.Context, userID int64, taskID int64) (bool, error) {
	ctx, span := s.telemetry.StartServiceSpan(ctx, "task", "DeleteTask", userID, map[string]any{
		"task.id": taskID,
	})
	defer span.End()

	startTime := time.Now()
	moved, err := s.repo.MoveToTrash(ctx, userID, taskID, s.clock())

	s.telemetry.RecordServiceOperation(ctx, "task", "DeleteTask", userID, time.Since(startTime), err)

	if err != nil {
		return false, err
	}

	if moved {
		s.telemetry.RecordBusinessEvent(ctx, "trashed", "task", strconv.FormatInt(taskID, 10), userID, nil)
	}

	return moved, nil
}

func (s *TaskService) DeleteCompleted(ctx context.Context, userID int64) (int, error) {
	ctx, span := s.telemetry.StartServiceSpan(ctx, "task", "DeleteCompleted", userID, nil)
	defer span.End()

	startTime := time.Now()
	count, err := s.repo.MoveCompletedToTrash(ctx, userID, s.clock())

	s.telemetry.RecordServiceOperation(ctx, "task", "DeleteCompleted", userID, time.Since(startTime), err)

	if err != nil {
		return 0, err
	}

	span.SetAttributes(map[string]any{"tasks.moved": count})

	if count > 0 {
		s.telemetry.RecordBusinessEvent(ctx, "completed_trashed", "task", "", userID, map[string]any{"count": count})
	}

	return count, nil
}
