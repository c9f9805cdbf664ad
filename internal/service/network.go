// Package service provides the network-building logic between API handlers
// and the person store.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/persistorai/kinnet/internal/assembler"
	"github.com/persistorai/kinnet/internal/compute"
	"github.com/persistorai/kinnet/internal/domain"
	"github.com/persistorai/kinnet/internal/kinship"
	"github.com/persistorai/kinnet/internal/metrics"
	"github.com/persistorai/kinnet/internal/models"
	"github.com/persistorai/kinnet/internal/traversal"
)

// EdgeStore is the read surface NetworkService needs from a store adapter.
type EdgeStore interface {
	GetEdges(ctx context.Context, ids []models.PersonID, kinds []models.RelationKind) ([]models.Edge, error)
	GetNodeAttributes(ctx context.Context, ids []models.PersonID) (map[models.PersonID]models.PersonAttributes, error)
}

// Compile-time checks.
var (
	_ domain.NetworkService = (*NetworkService)(nil)
	_ domain.PersonService  = (*NetworkService)(nil)
)

// seedConcurrency bounds parallel per-seed traversals in one build.
const seedConcurrency = 4

// DefaultBuildTimeout bounds one network build when NetworkConfig leaves it unset.
const DefaultBuildTimeout = 2 * time.Minute

// NetworkConfig holds the limits applied to every build.
type NetworkConfig struct {
	MaxNodes     int
	MaxDepth     int
	BuildTimeout time.Duration
	Version      string
}

// NetworkService builds person networks and runs analyses over them.
type NetworkService struct {
	store     EdgeStore
	table     *kinship.Table
	scheduler *compute.Scheduler
	layout    *compute.LayoutScheduler
	log       *logrus.Logger
	cfg       NetworkConfig
	inflight  singleflight.Group
}

// NewNetworkService creates a NetworkService.
func NewNetworkService(
	store EdgeStore,
	table *kinship.Table,
	scheduler *compute.Scheduler,
	layout *compute.LayoutScheduler,
	log *logrus.Logger,
	cfg NetworkConfig,
) *NetworkService {
	if cfg.MaxNodes <= 0 {
		cfg.MaxNodes = traversal.DefaultMaxNodes
	}

	if cfg.MaxDepth <= 0 || cfg.MaxDepth > traversal.MaxDepthLimit {
		cfg.MaxDepth = traversal.MaxDepthLimit
	}

	if cfg.BuildTimeout <= 0 {
		cfg.BuildTimeout = DefaultBuildTimeout
	}

	return &NetworkService{
		store:     store,
		table:     table,
		scheduler: scheduler,
		layout:    layout,
		log:       log,
		cfg:       cfg,
	}
}

// buildPlan is a validated, normalized BuildRequest. Its JSON form keys
// in-flight deduplication.
type buildPlan struct {
	Seeds    []models.PersonID     `json:"seeds"`
	Depth    int                   `json:"depth"`
	Policy   models.FilterPolicy   `json:"policy"`
	Kinds    []models.RelationKind `json:"kinds"`
	MaxNodes int                   `json:"max_nodes"`
	Locale   string                `json:"locale"`
	Layout   bool                  `json:"layout"`
}

func (s *NetworkService) plan(req models.BuildRequest) (buildPlan, error) {
	if len(req.Seeds) == 0 {
		return buildPlan{}, models.ErrNoSeeds
	}

	seeds := slices.Clone(req.Seeds)
	slices.Sort(seeds)
	seeds = slices.Compact(seeds)

	for _, id := range seeds {
		if !id.Valid() {
			return buildPlan{}, fmt.Errorf("%w: %d", models.ErrInvalidPersonID, id)
		}
	}

	if req.Depth < 0 || req.Depth > s.cfg.MaxDepth {
		return buildPlan{}, fmt.Errorf("%w: %d not in [0, %d]", models.ErrInvalidDepth, req.Depth, s.cfg.MaxDepth)
	}

	policy := models.DefaultFilterPolicy()
	if req.Policy != nil {
		policy = *req.Policy
	}

	if err := policy.Validate(); err != nil {
		return buildPlan{}, err
	}

	kinds, err := models.ParseRelationKinds(req.Kinds)
	if err != nil {
		return buildPlan{}, err
	}

	maxNodes := s.cfg.MaxNodes
	if req.MaxNodes > 0 && req.MaxNodes < maxNodes {
		maxNodes = req.MaxNodes
	}

	locale := req.Locale
	if locale != models.LocaleChinese {
		locale = models.LocaleEnglish
	}

	return buildPlan{
		Seeds:    seeds,
		Depth:    req.Depth,
		Policy:   policy,
		Kinds:    kinds,
		MaxNodes: maxNodes,
		Locale:   locale,
		Layout:   req.Layout,
	}, nil
}

// BuildNetwork traverses outward from every seed, filters the reached persons
// by the policy, assembles the graph and annotates it with statistics (and
// coordinates when requested). Identical concurrent requests share one build;
// each caller receives its own copy. A caller whose ctx ends stops waiting
// without failing the others.
func (s *NetworkService) BuildNetwork(ctx context.Context, req models.BuildRequest) (*models.Network, error) {
	p, err := s.plan(req)
	if err != nil {
		return nil, err
	}

	key, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("keying build request: %w", err)
	}

	// The shared build belongs to no single caller: it outlives a cancelled
	// waiter and is bounded by BuildTimeout instead.
	ch := s.inflight.DoChan(string(key), func() (any, error) {
		buildCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.BuildTimeout)
		defer cancel()

		return s.build(buildCtx, p)
	})

	var res singleflight.Result

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for network build: %w", ctx.Err())
	case res = <-ch:
	}

	if res.Err != nil {
		return nil, res.Err
	}

	if res.Shared {
		s.log.WithField("seeds", p.Seeds).Debug("network.build.shared")
	}

	network, ok := res.Val.(*models.Network)
	if !ok {
		return nil, errors.New("unexpected build result type")
	}

	return network.Clone(), nil
}

func (s *NetworkService) build(ctx context.Context, p buildPlan) (*models.Network, error) { //nolint:funlen // linear pipeline.
	log := s.log.WithFields(logrus.Fields{
		"seeds":     p.Seeds,
		"depth":     p.Depth,
		"max_nodes": p.MaxNodes,
	})
	log.Debug("network.build")

	if err := s.checkSeeds(ctx, p.Seeds); err != nil {
		return nil, err
	}

	engine := traversal.New(s.store,
		traversal.WithKinds(p.Kinds),
		traversal.WithReciprocal(s.table.Reciprocal),
		traversal.WithLogger(s.log),
	)

	results := make([]*models.TraverseResult, len(p.Seeds))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(seedConcurrency)

	for i, seed := range p.Seeds {
		eg.Go(func() error {
			r, err := engine.Traverse(egCtx, seed, p.Depth, p.MaxNodes)
			results[i] = r

			return err
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	merged := traversal.Merge(results, p.MaxNodes)
	retained := s.table.Filter(merged.Nodes, p.Policy)

	ids := make([]models.PersonID, 0, len(retained))
	for id := range retained {
		ids = append(ids, id)
	}

	people, err := s.store.GetNodeAttributes(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: loading person attributes: %w", models.ErrAdapter, err)
	}

	graph := assembler.Assemble(retained, merged.Edges, p.Seeds, people, assembler.Options{
		Locale:            p.Locale,
		IncludeReciprocal: p.Policy.IncludeReciprocal,
		PathMetrics:       s.table.Metrics,
	})

	stats, err := s.scheduler.ComputeMetrics(ctx, &graph)
	if err != nil {
		return nil, err
	}

	if p.Layout {
		graph, err = s.layout.Layout(ctx, &graph, compute.LayoutOptions{})
		if err != nil {
			return nil, err
		}
	}

	metrics.TraversalNodes.Observe(float64(len(merged.Nodes)))

	if merged.Truncated {
		metrics.TruncatedTotal.Inc()
	}

	log.WithFields(logrus.Fields{
		"reached":   len(merged.Nodes),
		"retained":  len(graph.Nodes),
		"edges":     len(graph.Edges),
		"truncated": merged.Truncated,
	}).Info("network.built")

	return &models.Network{
		Seeds:     p.Seeds,
		Graph:     graph,
		Metrics:   stats,
		Truncated: merged.Truncated,
	}, nil
}

// checkSeeds fails with ErrPersonNotFound for the first seed the store does
// not know.
func (s *NetworkService) checkSeeds(ctx context.Context, seeds []models.PersonID) error {
	found, err := s.store.GetNodeAttributes(ctx, seeds)
	if err != nil {
		return fmt.Errorf("%w: loading seeds: %w", models.ErrAdapter, err)
	}

	for _, id := range seeds {
		if _, ok := found[id]; !ok {
			return fmt.Errorf("%w: %d", models.ErrPersonNotFound, id)
		}
	}

	return nil
}

// GetPerson returns the stored attributes of one person.
func (s *NetworkService) GetPerson(ctx context.Context, id models.PersonID) (models.PersonAttributes, error) {
	if !id.Valid() {
		return models.PersonAttributes{}, fmt.Errorf("%w: %d", models.ErrInvalidPersonID, id)
	}

	found, err := s.store.GetNodeAttributes(ctx, []models.PersonID{id})
	if err != nil {
		return models.PersonAttributes{}, fmt.Errorf("%w: %w", models.ErrAdapter, err)
	}

	p, ok := found[id]
	if !ok {
		return models.PersonAttributes{}, fmt.Errorf("%w: %d", models.ErrPersonNotFound, id)
	}

	return p, nil
}

// Analyze computes statistics for g.
func (s *NetworkService) Analyze(ctx context.Context, g *models.GraphModel) (models.GraphMetrics, error) {
	s.log.WithField("nodes", len(g.Nodes)).Debug("network.analyze")

	return s.scheduler.ComputeMetrics(ctx, g)
}

// AnalyzeBatch computes statistics for each graph, preserving order.
func (s *NetworkService) AnalyzeBatch(ctx context.Context, graphs []models.GraphModel) ([]models.GraphMetrics, error) {
	s.log.WithField("graphs", len(graphs)).Debug("network.analyze_batch")

	return s.scheduler.ComputeMetricsBatch(ctx, graphs)
}

// Centrality estimates betweenness centrality for g.
func (s *NetworkService) Centrality(ctx context.Context, g *models.GraphModel) (models.Centrality, error) {
	s.log.WithField("nodes", len(g.Nodes)).Debug("network.centrality")

	return s.scheduler.ComputeCentrality(ctx, g)
}

// Layout returns a copy of g with coordinates for every node.
func (s *NetworkService) Layout(ctx context.Context, g *models.GraphModel) (models.GraphModel, error) {
	s.log.WithField("nodes", len(g.Nodes)).Debug("network.layout")

	return s.layout.Layout(ctx, g, compute.LayoutOptions{})
}
