package tracing

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecordingRouter(t *testing.T) (*chi.Mux, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	r := chi.NewRouter()
	r.Use(HTTPMiddleware(tp.Tracer("test")))
	r.Get("/registry/{name}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "name") == "broken" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("{}"))
	})
	return r, recorder
}

func attr(kvs []attribute.KeyValue, key string) attribute.Value {
	for _, kv := range kvs {
		if string(kv.Key) == key {
			return kv.Value
		}
	}
	return attribute.Value{}
}

func TestHTTPMiddleware_RecordsRoute(t *testing.T) {
	r, recorder := newRecordingRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/registry/errors", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, "http.request GET /registry/{name}", spans[0].Name())
	require.Equal(t, "/registry/{name}", attr(spans[0].Attributes(), AttrHTTPRoute).AsString())
	require.Equal(t, int64(200), attr(spans[0].Attributes(), AttrHTTPStatus).AsInt64())
	require.Equal(t, codes.Unset, spans[0].Status().Code)
}

func TestHTTPMiddleware_ServerErrorStatus(t *testing.T) {
	r, recorder := newRecordingRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/registry/broken", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, codes.Error, spans[0].Status().Code)
	require.Equal(t, int64(500), attr(spans[0].Attributes(), AttrHTTPStatus).AsInt64())
}

func TestHTTPMiddleware_NilTracer(t *testing.T) {
	called := false
	h := HTTPMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.True(t, called)
}
