package repo

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/orda-service/internal/repo"

type tracedCollection struct {
	next   Collection
	name   string
	tracer trace.Tracer
}

// Traced wraps a collection so every call produces a client span. It uses the
// global tracer provider, which is a no-op until telemetry is configured.
func Traced(name string, next Collection) Collection {
	return &tracedCollection{next: next, name: name, tracer: otel.Tracer(tracerName)}
}

func (t *tracedCollection) start(ctx context.Context, op, id string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("db.operation.name", op),
		attribute.String("db.collection.name", t.name),
	}
	if id != "" {
		attrs = append(attrs, attribute.String("document.id", id))
	}
	return t.tracer.Start(ctx, t.name+"."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
}

func finish(span trace.Span, err error) {
	defer span.End()
	switch {
	case err == nil:
		span.SetStatus(codes.Ok, "")
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrConflict):
		span.SetAttributes(attribute.String("document.outcome", err.Error()))
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

func (t *tracedCollection) Insert(ctx context.Context, id string, doc any) error {
	ctx, span := t.start(ctx, "insert", id)
	err := t.next.Insert(ctx, id, doc)
	finish(span, err)
	return err
}

func (t *tracedCollection) FindOne(ctx context.Context, id string, out any) error {
	ctx, span := t.start(ctx, "find_one", id)
	err := t.next.FindOne(ctx, id, out)
	finish(span, err)
	return err
}

func (t *tracedCollection) FindAll(ctx context.Context, out any) error {
	ctx, span := t.start(ctx, "find_all", "")
	err := t.next.FindAll(ctx, out)
	finish(span, err)
	return err
}

func (t *tracedCollection) Set(ctx context.Context, id string, fields map[string]any, out any) error {
	ctx, span := t.start(ctx, "set", id)
	err := t.next.Set(ctx, id, fields, out)
	finish(span, err)
	return err
}

func (t *tracedCollection) Delete(ctx context.Context, id string) error {
	ctx, span := t.start(ctx, "delete", id)
	err := t.next.Delete(ctx, id)
	finish(span, err)
	return err
}
