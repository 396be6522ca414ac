package observability_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/davidbz/hoverlate/internal/observability"
)

func TestEventBus_Publish(t *testing.T) {
	t.Run("should log the event with its data", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		bus := observability.NewEventBus(zap.New(core))

		ctx := observability.WithRequestID(context.Background(), "req-1")
		bus.Publish(ctx, "prompt.not-configured", map[string]interface{}{
			"message": "No translation provider is configured!",
		})

		entries := logs.All()
		require.Len(t, entries, 1)
		fields := entries[0].ContextMap()
		require.Equal(t, "prompt.not-configured", fields["event"])
		require.Equal(t, "No translation provider is configured!", fields["message"])
		require.Equal(t, "req-1", fields["request_id"])
	})
}

func TestRequestIDFromHeader(t *testing.T) {
	t.Run("should keep a host supplied id", func(t *testing.T) {
		require.Equal(t, "vscode-42", observability.RequestIDFromHeader(" vscode-42 "))
	})

	t.Run("should replace missing or unprintable ids", func(t *testing.T) {
		require.Len(t, observability.RequestIDFromHeader(""), 36)
		require.Len(t, observability.RequestIDFromHeader("bad id"), 36)
		require.NotEqual(t, "bad\nid", observability.RequestIDFromHeader("bad\nid"))
	})
}

func TestTraceIDFromTraceparent(t *testing.T) {
	t.Run("should reuse the host trace id", func(t *testing.T) {
		got := observability.TraceIDFromTraceparent("00-4BF92F3577B34DA6A3CE929D0E0E4736-00f067aa0ba902b7-01")
		require.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", got)
	})

	t.Run("should generate a trace id for malformed headers", func(t *testing.T) {
		for _, header := range []string{"", "garbage", "00-00000000000000000000000000000000-00f067aa0ba902b7-01"} {
			got := observability.TraceIDFromTraceparent(header)
			require.Len(t, got, 32)
			require.NotEqual(t, "00000000000000000000000000000000", got)
		}
	})
}

func TestFromContext(t *testing.T) {
	t.Run("should attach hover context fields", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		observability.SetLogger(zap.New(core))
		t.Cleanup(func() { observability.SetLogger(zap.NewNop()) })

		ctx := observability.WithDocumentURI(context.Background(), "file:///a.go")
		ctx = observability.WithProviderID(ctx, "hoverlate.echo")
		ctx = observability.WithGeneration(ctx, 3)
		observability.FromContext(ctx).Info("hover")

		fields := logs.All()[0].ContextMap()
		require.Equal(t, "file:///a.go", fields["document_uri"])
		require.Equal(t, "hoverlate.echo", fields["provider_id"])
		require.Equal(t, uint64(3), fields["generation"])
	})
}
