package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func TestOTELProbe_BusinessEventsFeedCounters(t *testing.T) {
	RegisterTestingT(t)

	metrics := NewAppMetrics(prometheus.NewRegistry())
	probe := NewOTELProbe(otelzap.New(zap.NewNop()), metrics)
	ctx := context.Background()

	probe.RecordBusinessEvent(ctx, "created", "task", "1", 1, nil)
	probe.RecordBusinessEvent(ctx, "created", "task", "2", 1, nil)
	probe.RecordBusinessEvent(ctx, "restored", "trash", "3", 1, map[string]any{"task_id": int64(9)})

	Expect(testutil.ToFloat64(metrics.taskOperations.WithLabelValues("created"))).To(Equal(2.0))
	Expect(testutil.ToFloat64(metrics.trashOperations.WithLabelValues("restored"))).To(Equal(1.0))
}

func TestOTELProbe_RepositoryOperationCountsStatus(t *testing.T) {
	RegisterTestingT(t)

	metrics := NewAppMetrics(prometheus.NewRegistry())
	probe := NewOTELProbe(otelzap.New(zap.NewNop()), metrics)

	ctx, span := probe.StartRepositorySpan(context.Background(), "Create", "task", map[string]any{"user.id": int64(1)})
	probe.RecordRepositoryOperation(ctx, "Create", "task", time.Millisecond, nil)
	probe.RecordRepositoryOperation(ctx, "Create", "task", time.Millisecond, errors.New("boom"))
	span.End()

	Expect(testutil.ToFloat64(metrics.databaseOperations.WithLabelValues("Create", "task", "ok"))).To(Equal(1.0))
	Expect(testutil.ToFloat64(metrics.databaseOperations.WithLabelValues("Create", "task", "error"))).To(Equal(1.0))
}

func TestAppMetrics_NilReceiver(t *testing.T) {
	RegisterTestingT(t)

	var metrics *AppMetrics

	Expect(func() {
		metrics.RecordTaskOperation(context.Background(), "created")
		metrics.RecordTrashPurged(context.Background(), 3)
		metrics.RecordRequest(context.Background(), "GET", "/api/tasks", "200", time.Millisecond)
	}).ToNot(Panic())
}

func TestAppMetrics_RecordTrashPurged(t *testing.T) {
	RegisterTestingT(t)

	metrics := NewAppMetrics(prometheus.NewRegistry())

	metrics.RecordTrashPurged(context.Background(), 4)
	metrics.RecordTrashPurged(context.Background(), 0)

	Expect(testutil.ToFloat64(metrics.trashPurged)).To(Equal(4.0))
}
