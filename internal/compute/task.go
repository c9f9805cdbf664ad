package compute

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// TaskKind names a computation a pool worker can run.
type TaskKind string

// Task kinds.
const (
	TaskMetrics    TaskKind = "metrics"
	TaskCentrality TaskKind = "centrality"
	TaskLayout     TaskKind = "layout"
)

// Task is the serialized unit of work crossing the pool boundary.
type Task struct {
	Kind    TaskKind        `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// Handler decodes a task payload, runs it and returns a JSON-encodable result.
type Handler func(ctx context.Context, payload json.RawMessage) (any, error)

// Errors raised on the pool path. None of them reach Scheduler callers.
var (
	ErrPoolClosed    = errors.New("compute pool not running")
	ErrPoolSaturated = errors.New("compute pool queue full")
	ErrTaskPanic     = errors.New("compute task panicked")
	ErrUnknownTask   = errors.New("unknown compute task")

	errIncompleteLayout = errors.New("layout result missing positions")
)

// NewTask encodes payload into a task of the given kind.
func NewTask(kind TaskKind, payload any) (Task, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Task{}, fmt.Errorf("encoding %s payload: %w", kind, err)
	}

	return Task{Kind: kind, Payload: raw}, nil
}

// Handlers returns the handlers for every built-in task kind.
func Handlers() map[TaskKind]Handler {
	return map[TaskKind]Handler{
		TaskMetrics:    decodeAndRun(Analyze),
		TaskCentrality: decodeAndRun(Betweenness),
		TaskLayout:     decodeAndRun(ForceLayout),
	}
}

func decodeAndRun[P, R any](fn func(P) R) Handler {
	return func(_ context.Context, payload json.RawMessage) (any, error) {
		var p P
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("decoding payload: %w", err)
		}

		return fn(p), nil
	}
}
