package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// useSpanRecorder installs a recording tracer provider as the global one for the test.
func useSpanRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func TestStartServiceSpan(t *testing.T) {
	recorder := useSpanRecorder(t)

	ctx, span := StartServiceSpan(context.Background(), "report", "generate",
		SpanAttrReportFormat, "docx",
		SpanAttrEventCount, 3,
	)
	assert.NotEmpty(t, GetTraceID(ctx))
	SetAttributes(span, SpanAttrStorageKey, "reports/a.xlsx", "ignored")
	RecordError(span, errors.New("render failed"))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "report.generate", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.String(SpanAttrReportFormat, "docx"))
	assert.Contains(t, spans[0].Attributes(), attribute.Int(SpanAttrEventCount, 3))
	assert.Contains(t, spans[0].Attributes(), attribute.String(SpanAttrStorageKey, "reports/a.xlsx"))
}

func TestGetTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
}

func TestRecordError_NilSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordError(nil, errors.New("x"))
		SetAttributes(nil, "k", "v")
	})
}

type stringer struct{}

func (stringer) String() string { return "stringer" }

func TestToAttribute(t *testing.T) {
	assert.Equal(t, attribute.String("k", "v"), toAttribute("k", "v"))
	assert.Equal(t, attribute.Int64("k", 7), toAttribute("k", int64(7)))
	assert.Equal(t, attribute.Bool("k", true), toAttribute("k", true))
	assert.Equal(t, attribute.Int64Slice("k", []int64{1, 2}), toAttribute("k", []int64{1, 2}))
	assert.Equal(t, attribute.String("k", "stringer"), toAttribute("k", stringer{}))
	assert.Equal(t, attribute.String("k", "1.5"), toAttribute("k", float32(1.5)))
}
