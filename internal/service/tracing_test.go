package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stemsi/contact-backend/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

var (
	spans     = tracetest.NewSpanRecorder()
	spansOnce sync.Once
)

// recordSpans installs the recorder as the global provider. The package
// tracer delegates to the first provider set, so this happens once.
func recordSpans() *tracetest.SpanRecorder {
	spansOnce.Do(func() {
		otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans)))
	})
	return spans
}

func endedSpan(t *testing.T, rec *tracetest.SpanRecorder, name string) sdktrace.ReadOnlySpan {
	t.Helper()
	ended := rec.Ended()
	for i := len(ended) - 1; i >= 0; i-- {
		if ended[i].Name() == name {
			return ended[i]
		}
	}
	t.Fatalf("no ended span %q", name)
	return nil
}

func TestLookupsAreTraced(t *testing.T) {
	rec := recordSpans()
	ctx := context.Background()

	messages := NewMessageService(memory.NewMessageRepository(), nil, nopLog)
	_, err := messages.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	admins := NewAdminService(memory.NewAdminRepository(), NewAuthService(testConfig()), nopLog)
	_, err = admins.Current(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	for _, name := range []string{"MessageService.Get", "AdminService.Current"} {
		span := endedSpan(t, rec, name)
		assert.Equal(t, codes.Error, span.Status().Code, name)
	}
}
