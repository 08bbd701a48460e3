package database

import (
	"context"
	"time"

	"todolist/internal/core/port"
	tel "todolist/internal/core/telemetry"
)

// Operation wraps one repository call in a span and records its outcome.
type Operation struct {
	ctx       context.Context
	span      port.Span
	telemetry port.Telemetry
	name      string
	entity    string
	startTime time.Time
}

func StartOperation(ctx context.Context, telemetry port.Telemetry, system, name, entity string, attrs map[string]any) (context.Context, *Operation) {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	spanAttrs := map[string]any{"db.system": system}

	for k, v := range attrs {
		spanAttrs[k] = v
	}

	ctx, span := telemetry.StartRepositorySpan(ctx, name, entity, spanAttrs)

	return ctx, &Operation{
		ctx:       ctx,
		span:      span,
		telemetry: telemetry,
		name:      name,
		entity:    entity,
		startTime: time.Now(),
	}
}

func (o *Operation) Query(query string, args []any) {
	o.telemetry.RecordRepositoryQuery(o.ctx, o.name, o.entity, query, args)
}

// Fail marks the span as failed and hands err back to the caller.
func (o *Operation) Fail(err error) error {
	o.span.SetStatus("error", err.Error())
	o.span.RecordError(err)
	o.telemetry.RecordRepositoryOperation(o.ctx, o.name, o.entity, time.Since(o.startTime), err)
	o.span.End()

	return err
}

func (o *Operation) Done(attrs map[string]any) {
	if len(attrs) > 0 {
		o.span.SetAttributes(attrs)
	}

	o.span.SetAttributes(map[string]any{
		"operation.duration_ns": time.Since(o.startTime).Nanoseconds(),
	})
	o.span.SetStatus("ok", "")
	o.telemetry.RecordRepositoryOperation(o.ctx, o.name, o.entity, time.Since(o.startTime), nil)
	o.span.End()
}
