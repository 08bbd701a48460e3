package service_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"todolist/internal/core/domain"
	"todolist/internal/core/service"
	"todolist/internal/core/telemetry"
)

type fakeTrash struct {
	calls atomic.Int32
	count int
	err   error
}

func (f *fakeTrash) ListTrash(ctx context.Context, userID int64) ([]domain.DeletedTask, error) {
	return nil, nil
}

func (f *fakeTrash) Restore(ctx context.Context, userID int64, deletedTaskID int64) (int64, bool, error) {
	return 0, false, nil
}

func (f *fakeTrash) PermanentlyDelete(ctx context.Context, userID int64, deletedTaskID int64) (bool, error) {
	return false, nil
}

func (f *fakeTrash) EmptyTrash(ctx context.Context, userID int64) (int, error) {
	return 0, nil
}

func (f *fakeTrash) PurgeExpired(ctx context.Context) (int, error) {
	f.calls.Add(1)
	return f.count, f.err
}

func TestTrashSweeper_Sweep(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := telemetry.NewAppMetrics(registry)
	trash := &fakeTrash{count: 3}

	sweeper := service.NewTrashSweeper(trash, time.Hour, nil, metrics)

	assert.Equal(t, 3, sweeper.Sweep(context.Background()))

	expected := `
# HELP trash_purged_total Total number of expired trash entries removed by the sweeper
# TYPE trash_purged_total counter
trash_purged_total 3
`
	assert.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected), "trash_purged_total"))
}

func TestTrashSweeper_SweepError(t *testing.T) {
	sweeper := service.NewTrashSweeper(&fakeTrash{err: errors.New("database is locked")}, time.Hour, nil, nil)

	assert.Equal(t, 0, sweeper.Sweep(context.Background()))
}

func TestTrashSweeper_RunStopsWithContext(t *testing.T) {
	trash := &fakeTrash{}
	sweeper := service.NewTrashSweeper(trash, 10*time.Millisecond, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- sweeper.Run(ctx) }()

	assert.Eventually(t, func() bool { return trash.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
