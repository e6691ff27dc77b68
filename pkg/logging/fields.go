package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Uint64(key string, value uint64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Field helpers for common portalmap concerns
func Component(name string) Field {
	return String("component", name)
}

func Zone(id string) Field {
	return String("zone", id)
}

func Origin(id string) Field {
	return String("origin", id)
}

func Destination(id string) Field {
	return String("destination", id)
}

func Revision(rev uint64) Field {
	return Uint64("revision", rev)
}

func Operation(op string) Field {
	return String("operation", op)
}

func Backend(name string) Field {
	return String("backend", name)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Count(n int) Field {
	return Int("count", n)
}

func Path(p string) Field {
	return String("path", p)
}
