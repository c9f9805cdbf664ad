package compute

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/persistorai/kinnet/internal/metrics"
	"github.com/persistorai/kinnet/internal/models"
)

// DefaultInlineBelow is the node count under which metrics run inline.
const DefaultInlineBelow = 50

// Scheduler routes metric and centrality computations to a worker pool and
// falls back to inline computation when the pool fails. Callers only see
// context errors.
type Scheduler struct {
	pool          *Pool
	log           *logrus.Logger
	inlineBelow   int
	partitionSize int
	sampleSize    int
	sampleSeed    uint64
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithInlineBelow sets the node count under which graphs skip the pool.
func WithInlineBelow(n int) SchedulerOption {
	return func(s *Scheduler) {
		if n >= 0 {
			s.inlineBelow = n
		}
	}
}

// WithPartitionSize enables chunked metrics for graphs larger than n nodes.
// Zero disables partitioning.
func WithPartitionSize(n int) SchedulerOption {
	return func(s *Scheduler) {
		if n >= 0 {
			s.partitionSize = n
		}
	}
}

// WithCentralitySample sets the source sample size and seed for betweenness.
func WithCentralitySample(size int, seed uint64) SchedulerOption {
	return func(s *Scheduler) {
		if size > 0 {
			s.sampleSize = size
		}

		s.sampleSeed = seed
	}
}

// NewScheduler creates a Scheduler. A nil pool runs everything inline.
func NewScheduler(pool *Pool, log *logrus.Logger, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		pool:        pool,
		log:         log,
		inlineBelow: DefaultInlineBelow,
		sampleSize:  DefaultCentralitySample,
		sampleSeed:  1,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ComputeMetrics returns the statistics of g.
func (s *Scheduler) ComputeMetrics(ctx context.Context, g *models.GraphModel) (models.GraphMetrics, error) {
	payload := PayloadOf(g)
	inline := len(payload.Nodes) < s.inlineBelow

	if s.partitionSize <= 0 || len(payload.Nodes) <= s.partitionSize {
		return dispatch(ctx, s.pool, s.log, TaskMetrics, payload, inline, Analyze)
	}

	chunks := partition(payload, s.partitionSize)
	parts := make([]models.GraphMetrics, len(chunks))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.concurrency())

	for i, chunk := range chunks {
		eg.Go(func() error {
			m, err := dispatch(egCtx, s.pool, s.log, TaskMetrics, chunk, inline, Analyze)
			parts[i] = m

			return err
		})
	}

	if err := eg.Wait(); err != nil {
		return models.GraphMetrics{}, err
	}

	return MergeMetrics(parts), nil
}

// ComputeMetricsBatch computes statistics for every graph, in order.
func (s *Scheduler) ComputeMetricsBatch(ctx context.Context, graphs []models.GraphModel) ([]models.GraphMetrics, error) {
	out := make([]models.GraphMetrics, len(graphs))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.concurrency())

	for i := range graphs {
		eg.Go(func() error {
			m, err := s.ComputeMetrics(egCtx, &graphs[i])
			out[i] = m

			return err
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// ComputeCentrality estimates betweenness centrality of g. See Betweenness
// for the sampling approximation.
func (s *Scheduler) ComputeCentrality(ctx context.Context, g *models.GraphModel) (models.Centrality, error) {
	payload := CentralityPayload{Graph: PayloadOf(g), SampleSize: s.sampleSize, Seed: s.sampleSeed}
	inline := len(payload.Graph.Nodes) < s.inlineBelow

	return dispatch(ctx, s.pool, s.log, TaskCentrality, payload, inline, Betweenness)
}

func (s *Scheduler) concurrency() int {
	if s.pool == nil {
		return 1
	}

	return s.pool.Workers()
}

// dispatch runs compute on the pool unless inline is set or no pool exists.
// Any pool failure other than caller cancellation is recovered by fallback.
func dispatch[P, R any](
	ctx context.Context,
	pool *Pool,
	log *logrus.Logger,
	kind TaskKind,
	payload P,
	inline bool,
	compute func(P) R,
) (R, error) {
	var zero R

	if err := ctx.Err(); err != nil {
		return zero, err
	}

	if inline || pool == nil {
		metrics.ComputeTasksTotal.WithLabelValues(string(kind), "inline").Inc()

		return compute(payload), nil
	}

	result, err := runOnPool[R](ctx, pool, kind, payload)
	if err == nil {
		metrics.ComputeTasksTotal.WithLabelValues(string(kind), "pool").Inc()

		return result, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return zero, ctxErr
	}

	return fallback(log, kind, err, func() R { return compute(payload) }), nil
}

func runOnPool[R, P any](ctx context.Context, pool *Pool, kind TaskKind, payload P) (R, error) {
	var out R

	task, err := NewTask(kind, payload)
	if err != nil {
		return out, err
	}

	raw, err := pool.Submit(ctx, task)
	if err != nil {
		return out, err
	}

	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decoding %s result: %w", kind, err)
	}

	return out, nil
}

// fallback records a pool failure and computes the result synchronously.
func fallback[R any](log *logrus.Logger, kind TaskKind, cause error, compute func() R) R {
	reason := failureReason(cause)

	log.WithError(cause).WithFields(logrus.Fields{
		"kind":   kind,
		"reason": reason,
	}).Warn("compute.fallback")

	metrics.ComputeFallbacksTotal.WithLabelValues(string(kind), reason).Inc()
	metrics.ComputeTasksTotal.WithLabelValues(string(kind), "fallback").Inc()

	return compute()
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrPoolClosed):
		return "closed"
	case errors.Is(err, ErrPoolSaturated):
		return "saturated"
	case errors.Is(err, ErrTaskPanic):
		return "panic"
	case errors.Is(err, ErrUnknownTask):
		return "unknown_task"
	default:
		return "error"
	}
}
