package logging

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

func Float32(key string, value float32) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
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

// Vec3 logs a vector as a [x, y, z] array
func Vec3(key string, v mgl32.Vec3) Field {
	return Field{Key: key, Value: [3]float32(v)}
}

// Domain helpers

func Component(name string) Field {
	return String("component", name)
}

func EntityID(id uuid.UUID) Field {
	return String("entity_id", id.String())
}

func Operation(op string) Field {
	return String("operation", op)
}

// Mode is the repulsion mode of a step ("barnes_hut" or "brute_force")
func Mode(mode string) Field {
	return String("mode", mode)
}

func Iteration(n int) Field {
	return Int("iteration", n)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Count(n int) Field {
	return Int("count", n)
}
