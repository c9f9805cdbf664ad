package api_test

import (
	"context"

	"github.com/persistorai/kinnet/internal/models"
)

type mockNetworkService struct {
	buildFn        func(ctx context.Context, req models.BuildRequest) (*models.Network, error)
	analyzeFn      func(ctx context.Context, g *models.GraphModel) (models.GraphMetrics, error)
	analyzeBatchFn func(ctx context.Context, graphs []models.GraphModel) ([]models.GraphMetrics, error)
	centralityFn   func(ctx context.Context, g *models.GraphModel) (models.Centrality, error)
	layoutFn       func(ctx context.Context, g *models.GraphModel) (models.GraphModel, error)
	exportFn       func(g *models.GraphModel, format string) ([]byte, error)
	importFn       func(data []byte) (models.GraphModel, error)
}

func (m *mockNetworkService) BuildNetwork(ctx context.Context, req models.BuildRequest) (*models.Network, error) {
	if m.buildFn != nil {
		return m.buildFn(ctx, req)
	}

	return &models.Network{Seeds: req.Seeds}, nil
}

func (m *mockNetworkService) Analyze(ctx context.Context, g *models.GraphModel) (models.GraphMetrics, error) {
	if m.analyzeFn != nil {
		return m.analyzeFn(ctx, g)
	}

	return models.GraphMetrics{NodeCount: len(g.Nodes), EdgeCount: len(g.Edges)}, nil
}

func (m *mockNetworkService) AnalyzeBatch(ctx context.Context, graphs []models.GraphModel) ([]models.GraphMetrics, error) {
	if m.analyzeBatchFn != nil {
		return m.analyzeBatchFn(ctx, graphs)
	}

	out := make([]models.GraphMetrics, len(graphs))
	for i := range graphs {
		out[i] = models.GraphMetrics{NodeCount: len(graphs[i].Nodes)}
	}

	return out, nil
}

func (m *mockNetworkService) Centrality(ctx context.Context, g *models.GraphModel) (models.Centrality, error) {
	if m.centralityFn != nil {
		return m.centralityFn(ctx, g)
	}

	return models.Centrality{Scores: map[models.PersonID]float64{}, Exact: true}, nil
}

func (m *mockNetworkService) Layout(ctx context.Context, g *models.GraphModel) (models.GraphModel, error) {
	if m.layoutFn != nil {
		return m.layoutFn(ctx, g)
	}

	return g.Clone(), nil
}

func (m *mockNetworkService) ExportGraph(g *models.GraphModel, format string) ([]byte, error) {
	if m.exportFn != nil {
		return m.exportFn(g, format)
	}

	return []byte(`{"format":"kinnet-graph"}`), nil
}

func (m *mockNetworkService) ImportGraph(data []byte) (models.GraphModel, error) {
	if m.importFn != nil {
		return m.importFn(data)
	}

	return models.GraphModel{}, nil
}

type mockPersonService struct {
	getFn func(ctx context.Context, id models.PersonID) (models.PersonAttributes, error)
}

func (m *mockPersonService) GetPerson(ctx context.Context, id models.PersonID) (models.PersonAttributes, error) {
	return m.getFn(ctx, id)
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(context.Context) error { return m.err }
