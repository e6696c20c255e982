package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/zjrosen/keyreg/internal/domain/record"
	"github.com/zjrosen/keyreg/internal/source"
	"github.com/zjrosen/keyreg/internal/tracing"
)

func TestWithTracer_ReloadSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	reg := newErrors(t, nil, WithTracer(tp.Tracer("test")))

	require.NoError(t, reg.Reload())
	require.Error(t, reg.ReloadFrom(source.Func(func() ([]record.Entry, error) {
		return nil, errors.New("unreachable")
	})))

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	for _, span := range spans {
		require.Equal(t, tracing.SpanRegistryReload, span.Name())
	}
	require.Equal(t, codes.Unset, spans[0].Status().Code)
	require.Equal(t, codes.Error, spans[1].Status().Code)

	attrs := map[string]any{}
	for _, kv := range spans[1].Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	require.Equal(t, "errors", attrs[tracing.AttrRegistryName])
	require.Equal(t, "callback", attrs[tracing.AttrRegistrySource])
	require.Equal(t, int64(2), attrs[tracing.AttrRegistryGeneration], "failed reload keeps generation 2")
}
