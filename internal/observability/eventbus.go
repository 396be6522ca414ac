package observability

import (
	"context"
	"sort"

	"go.uber.org/zap"
)

// EventBus implements the EventPublisher interface on top of the structured logger.
// Hosts tail the log for "event published" lines.
type EventBus struct {
	logger *zap.Logger
}

// NewEventBus creates a new event bus.
func NewEventBus(logger *zap.Logger) *EventBus {
	return &EventBus{
		logger: logger,
	}
}

// Publish logs an event with its data fields in key order.
func (e *EventBus) Publish(ctx context.Context, eventType string, data map[string]interface{}) {
	logger := e.logger
	if logger == nil {
		logger = FromContext(ctx)
	} else if requestID := GetRequestID(ctx); requestID != "" {
		logger = logger.With(zap.String("request_id", requestID))
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]Field, 0, len(keys)+1)
	fields = append(fields, String("event", eventType))
	for _, k := range keys {
		fields = append(fields, zap.Any(k, data[k]))
	}

	logger.Info("event published", fields...)
}
