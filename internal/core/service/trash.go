package service

import (
	"context"
	"strconv"
	"time"

	"todolist/internal/core/domain"
	"todolist/internal/core/port"
)

type TrashService struct {
	repo      port.TrashRepository
	telemetry port.Telemetry
	clock     Clock
}

func NewTrashService(repo port.TrashRepository, opts ...Option) *TrashService {
	o := buildOptions(opts)

	return &TrashService{
		repo:      repo,
		telemetry: o.telemetry,
		clock:     o.clock,
	}
}

// ListTrash returns the entries that have not expired yet, newest deletion first.
func (s *TrashService) ListTrash(ctx context.Context, userID int64) ([]domain.DeletedTask, error) {
	ctx, span := s.telemetry.StartServiceSpan(ctx, "trash", "ListTrash", userID, nil)
	defer span.End()

	startTime := time.Now()
	entries, err := s.repo.ListActive(ctx, userID, s.clock())

	s.telemetry.RecordServiceOperation(ctx, "trash", "ListTrash", userID, time.Since(startTime), err)

	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (s *TrashService) Restore(ctx context.Context, userID int64, deletedTaskID int64) (int64, bool, error) {
	ctx, span := s.telemetry.StartServiceSpan(ctx, "trash", "Restore", userID, map[string]any{
		"trash.id": deletedTaskID,
	})
	defer span.End()

	startTime := time.Now()
	taskID, restored, err := s.repo.Restore(ctx, userID, deletedTaskID, s.clock())

	s.telemetry.RecordServiceOperation(ctx, "trash", "Restore", userID, time.Since(startTime), err)

	if err != nil {
		return 0, false, err
	}

	if restored {
		s.telemetry.RecordBusinessEvent(ctx, "restored", "trash", strconv.FormatInt(deletedTaskID, 10), userID, map[string]any{
			"task_id": taskID,
		})
	}

	return taskID, restored, nil
}

func (s *TrashService) PermanentlyDelete(ctx context.Context, userID int64, deletedTaskID int64) (bool, error) {
	ctx, span := s.telemetry.StartServiceSpan(ctx, "trash", "PermanentlyDelete", userID, map[string]any{
		"trash.id": deletedTaskID,
	})
	defer span.End()

	startTime := time.Now()
	deleted, err := s.repo.Delete(ctx, userID, deletedTaskID)

	s.telemetry.RecordServiceOperation(ctx, "trash", "PermanentlyDelete", userID, time.Since(startTime), err)

	if err != nil {
		return false, err
	}

	if deleted {
		s.telemetry.RecordBusinessEvent(ctx, "purged", "trash", strconv.FormatInt(deletedTaskID, 10), userID, nil)
	}

	return deleted, nil
}

// EmptyTrash removes every entry of the user, expired or not.
func (s *TrashService) EmptyTrash(ctx context.Context, userID int64) (int, error) {
	ctx, span := s.telemetry.StartServiceSpan(ctx, "trash", "EmptyTrash", userID, nil)
	defer span.End()

	startTime := time.Now()
	count, err := s.repo.DeleteAll(ctx, userID)

	s.telemetry.RecordServiceOperation(ctx, "trash", "EmptyTrash", userID, time.Since(startTime), err)

	if err != nil {
		return 0, err
	}

	s.telemetry.RecordBusinessEvent(ctx, "emptied", "trash", "", userID, map[string]any{"count": count})

	return count, nil
}

// PurgeExpired removes expired entries of every user.
func (s *TrashService) PurgeExpired(ctx context.Context) (int, error) {
	ctx, span := s.telemetry.StartServiceSpan(ctx, "trash", "PurgeExpired", 0, nil)
	defer span.End()

	startTime := time.Now()
	count, err := s.repo.PurgeExpired(ctx, s.clock())

	s.telemetry.RecordServiceOperation(ctx, "trash", "PurgeExpired", 0, time.Since(startTime), err)

	if err != nil {
		return 0, err
	}

	span.SetAttributes(map[string]any{"trash.purged": count})

	return count, nil
}
