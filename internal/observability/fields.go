package observability

import (
	"time"

	"go.uber.org/zap"
)

// Field is a structured log field.
type Field = zap.Field

// Field helpers keep call sites free of a direct zap import.

// String constructs a string field.
func String(key, val string) Field { return zap.String(key, val) }

// Int constructs an int field.
func Int(key string, val int) Field { return zap.Int(key, val) }

// Uint64 constructs a uint64 field.
func Uint64(key string, val uint64) Field { return zap.Uint64(key, val) }

// Bool constructs a bool field.
func Bool(key string, val bool) Field { return zap.Bool(key, val) }

// Duration constructs a duration field.
func Duration(key string, val time.Duration) Field { return zap.Duration(key, val) }

// Error constructs an error field under the "error" key.
func Error(err error) Field { return zap.Error(err) }
