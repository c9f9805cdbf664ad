// Package traversal expands a reachability set outward from a seed person
// across the relationship edges of the biographical database.
package traversal

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/kinnet/internal/models"
)

// Traversal safety limits.
const (
	DefaultMaxNodes = 100_000 // hard ceiling on reached persons per run
	MaxDepthLimit   = 10      // deepest expansion a caller may request
)

// EdgeSource returns the edges incident to ids, in both stored directions.
type EdgeSource interface {
	GetEdges(ctx context.Context, ids []models.PersonID, kinds []models.RelationKind) ([]models.Edge, error)
}

// Engine runs breadth-first traversals. An Engine holds no per-run state and
// may be shared by concurrent callers.
type Engine struct {
	source     EdgeSource
	kinds      []models.RelationKind
	reciprocal func(models.RelationshipCode) models.RelationshipCode
	log        *logrus.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithKinds restricts expansion to the given relation kinds.
func WithKinds(kinds []models.RelationKind) Option {
	return func(e *Engine) {
		if len(kinds) > 0 {
			e.kinds = slices.Clone(kinds)
		}
	}
}

// WithReciprocal sets the code mapping applied when an edge is walked from its
// target back to its source.
func WithReciprocal(fn func(models.RelationshipCode) models.RelationshipCode) Option {
	return func(e *Engine) {
		if fn != nil {
			e.reciprocal = fn
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(log *logrus.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// New creates an Engine reading edges from source.
func New(source EdgeSource, opts ...Option) *Engine {
	e := &Engine{
		source:     source,
		kinds:      models.AllRelationKinds(),
		reciprocal: func(c models.RelationshipCode) models.RelationshipCode { return c },
		log:        logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Traverse performs BFS from seed up to maxDepth hops and at most maxNodes
// reached persons (DefaultMaxNodes when maxNodes <= 0). The seed is always
// present at distance 0. Each person appears once, at its shortest distance.
// An edge store failure aborts the run and no partial result is returned.
func (e *Engine) Traverse( //nolint:gocognit,gocyclo,cyclop,funlen // BFS loop with shortest-path overwrite is inherently multi-step.
	ctx context.Context,
	seed models.PersonID,
	maxDepth int,
	maxNodes int,
) (*models.TraverseResult, error) {
	if !seed.Valid() {
		return nil, fmt.Errorf("%w: %d", models.ErrInvalidPersonID, seed)
	}

	if maxDepth < 0 || maxDepth > MaxDepthLimit {
		return nil, fmt.Errorf("%w: %d not in [0, %d]", models.ErrInvalidDepth, maxDepth, MaxDepthLimit)
	}

	if maxNodes <= 0 {
		maxNodes = DefaultMaxNodes
	}

	nodes := map[models.PersonID]models.TraversalNode{
		seed: {PersonID: seed, Distance: 0, PathCodes: []models.RelationshipCode{}},
	}
	processed := make(map[models.PersonID]bool)
	queue := []models.PersonID{seed}
	seen := make(map[models.Edge]bool)
	discovered := make([]models.Edge, 0, 32)
	truncated := false

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("traversing from %d: %w", seed, err)
		}

		id := queue[0]
		queue = queue[1:]

		if processed[id] {
			continue
		}

		processed[id] = true

		current := nodes[id]
		if current.Distance >= maxDepth {
			continue
		}

		incident, err := e.source.GetEdges(ctx, []models.PersonID{id}, e.kinds)
		if err != nil {
			return nil, fmt.Errorf("%w: expanding person %d: %w", models.ErrAdapter, id, err)
		}

		for _, edge := range incident {
			if edge.From != id && edge.To != id {
				continue
			}

			if !seen[edge] {
				seen[edge] = true
				discovered = append(discovered, edge)
			}

			if edge.From == edge.To {
				continue
			}

			neighbor := edge.Other(id)
			newDistance := current.Distance + 1

			if existing, ok := nodes[neighbor]; ok {
				if existing.Distance <= newDistance {
					continue
				}
			} else if len(nodes) >= maxNodes {
				truncated = true

				continue
			}

			code := edge.Code
			if edge.To == id {
				code = e.reciprocal(code)
			}

			path := make([]models.RelationshipCode, len(current.PathCodes), len(current.PathCodes)+1)
			copy(path, current.PathCodes)

			immediate := edge
			nodes[neighbor] = models.TraversalNode{
				PersonID:      neighbor,
				Distance:      newDistance,
				PathCodes:     append(path, code),
				ImmediateEdge: &immediate,
			}

			if newDistance < maxDepth && !processed[neighbor] {
				queue = append(queue, neighbor)
			}
		}
	}

	edges := make([]models.TraversedEdge, 0, len(discovered))

	for _, edge := range discovered {
		from, okFrom := nodes[edge.From]
		to, okTo := nodes[edge.To]

		if okFrom && okTo {
			edges = append(edges, models.TraversedEdge{Edge: edge, Weight: from.Distance + to.Distance})
		}
	}

	slices.SortFunc(edges, compareEdges)

	e.log.WithFields(logrus.Fields{
		"seed":      seed,
		"max_depth": maxDepth,
		"nodes":     len(nodes),
		"edges":     len(edges),
		"truncated": truncated,
	}).Debug("traversal.done")

	return &models.TraverseResult{Seed: seed, Nodes: nodes, Edges: edges, Truncated: truncated}, nil
}

func compareEdges(a, b models.TraversedEdge) int {
	return cmp.Or(
		cmp.Compare(a.From, b.From),
		cmp.Compare(a.To, b.To),
		cmp.Compare(a.Kind, b.Kind),
		cmp.Compare(a.Code, b.Code),
	)
}
