package compute

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/kinnet/internal/metrics"
	"github.com/persistorai/kinnet/internal/models"
)

// DefaultLayoutThreshold is the node count under which layout runs inline.
const DefaultLayoutThreshold = 10

// LayoutOptions tunes one Layout call.
type LayoutOptions struct {
	Iterations int
	Seed       uint64
}

// LayoutScheduler assigns coordinates to unplaced nodes. Large graphs get a
// force-directed pass on the pool; small graphs and every pool failure get
// uniform random coordinates. Nodes that already have coordinates are never
// moved.
type LayoutScheduler struct {
	pool      *Pool
	log       *logrus.Logger
	threshold int
}

// NewLayoutScheduler creates a LayoutScheduler. A nil pool runs inline.
func NewLayoutScheduler(pool *Pool, log *logrus.Logger) *LayoutScheduler {
	return &LayoutScheduler{pool: pool, log: log, threshold: DefaultLayoutThreshold}
}

// Layout returns a copy of g in which every node has finite coordinates.
func (s *LayoutScheduler) Layout(ctx context.Context, g *models.GraphModel, opts LayoutOptions) (models.GraphModel, error) {
	if err := ctx.Err(); err != nil {
		return models.GraphModel{}, err
	}

	payload := LayoutPayloadOf(g, opts.Iterations, opts.Seed)

	unplaced := 0

	for _, n := range payload.Nodes {
		if !placed(n) {
			unplaced++
		}
	}

	if unplaced == 0 {
		return g.Clone(), nil
	}

	if len(payload.Nodes) < s.threshold || s.pool == nil {
		metrics.ComputeTasksTotal.WithLabelValues(string(TaskLayout), "inline").Inc()

		return s.randomLayout(g, payload), nil
	}

	result, err := runOnPool[LayoutResult](ctx, s.pool, TaskLayout, payload)
	if err == nil {
		if out, ok := applyLayout(g, result); ok {
			metrics.ComputeTasksTotal.WithLabelValues(string(TaskLayout), "pool").Inc()

			return out, nil
		}

		err = errIncompleteLayout
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return models.GraphModel{}, ctxErr
	}

	return fallback(s.log, TaskLayout, err, func() models.GraphModel { return s.randomLayout(g, payload) }), nil
}

func (s *LayoutScheduler) randomLayout(g *models.GraphModel, payload LayoutPayload) models.GraphModel {
	out, _ := applyLayout(g, RandomLayout(payload))

	return out
}
