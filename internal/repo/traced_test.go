package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTracedCollection(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	ctx := context.Background()
	c := Traced("widgets", NewMemoryStore().Collection("widgets", "widget_id"))

	require.NoError(t, c.Insert(ctx, "w1", widget{WidgetID: "w1"}))

	var got widget
	require.ErrorIs(t, c.FindOne(ctx, "missing", &got), ErrNotFound)

	var all []widget
	require.NoError(t, c.FindAll(ctx, &all))
	require.NoError(t, c.Set(ctx, "w1", map[string]any{"count": 2}, &got))
	require.NoError(t, c.Delete(ctx, "w1"))

	spans := recorder.Ended()
	require.Len(t, spans, 5)

	names := make([]string, len(spans))
	for i, s := range spans {
		names[i] = s.Name()
	}
	assert.Equal(t, []string{
		"widgets.insert",
		"widgets.find_one",
		"widgets.find_all",
		"widgets.set",
		"widgets.delete",
	}, names)

	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	// a missing document is an expected outcome, not a span error
	assert.NotEqual(t, codes.Error, spans[1].Status().Code)
}
