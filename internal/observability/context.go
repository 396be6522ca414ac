package observability

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

// Keys of the values FromContext attaches to every log line.
const (
	RequestIDKey   contextKey = "request_id"
	TraceIDKey     contextKey = "trace_id"
	DocumentURIKey contextKey = "document_uri"
	ProviderIDKey  contextKey = "provider_id"
	GenerationKey  contextKey = "generation"
)

// traceIDHexLen is the length of a W3C trace-id.
const traceIDHexLen = 32

// maxRequestIDLen bounds request ids accepted from the host.
const maxRequestIDLen = 128

// WithRequestID tags ctx with the id of the host request being served.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// WithTraceID tags ctx with the trace the host request belongs to.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// WithDocumentURI tags ctx with the document a hover was requested for.
func WithDocumentURI(ctx context.Context, uri string) context.Context {
	return context.WithValue(ctx, DocumentURIKey, uri)
}

// WithProviderID tags ctx with the translation provider serving it.
func WithProviderID(ctx context.Context, providerID string) context.Context {
	return context.WithValue(ctx, ProviderIDKey, providerID)
}

// WithGeneration tags ctx with the provider generation serving it.
func WithGeneration(ctx context.Context, generation uint64) context.Context {
	return context.WithValue(ctx, GenerationKey, generation)
}

// GetRequestID returns the request id, empty when unset.
func GetRequestID(ctx context.Context) string { return stringValue(ctx, RequestIDKey) }

// GetTraceID returns the trace id, empty when unset.
func GetTraceID(ctx context.Context) string { return stringValue(ctx, TraceIDKey) }

// GetDocumentURI returns the hovered document, empty when unset.
func GetDocumentURI(ctx context.Context) string { return stringValue(ctx, DocumentURIKey) }

// GetProviderID returns the provider id, empty when unset.
func GetProviderID(ctx context.Context) string { return stringValue(ctx, ProviderIDKey) }

// GetGeneration returns the provider generation.
func GetGeneration(ctx context.Context) (uint64, bool) {
	if ctx == nil {
		return 0, false
	}
	generation, ok := ctx.Value(GenerationKey).(uint64)
	return generation, ok
}

func stringValue(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	s, _ := ctx.Value(key).(string)
	return s
}

// RequestIDFromHeader keeps a host-supplied request id when it is short and printable,
// otherwise it generates a new one.
func RequestIDFromHeader(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || len(value) > maxRequestIDLen {
		return uuid.New().String()
	}
	for i := 0; i < len(value); i++ {
		if value[i] < 0x21 || value[i] > 0x7e {
			return uuid.New().String()
		}
	}
	return value
}

// TraceIDFromTraceparent extracts the trace-id of a W3C traceparent header
// ("00-<trace-id>-<parent-id>-<flags>"), or generates a fresh one.
func TraceIDFromTraceparent(header string) string {
	parts := strings.Split(strings.TrimSpace(header), "-")
	if len(parts) == 4 && len(parts[1]) == traceIDHexLen && parts[1] != strings.Repeat("0", traceIDHexLen) {
		if _, err := hex.DecodeString(parts[1]); err == nil {
			return strings.ToLower(parts[1])
		}
	}
	return newTraceID()
}

func newTraceID() string {
	b := make([]byte, traceIDHexLen/2)
	if _, err := rand.Read(b); err != nil {
		return strings.ReplaceAll(uuid.New().String(), "-", "")
	}
	return hex.EncodeToString(b)
}
