package client

import (
	"context"
	"net/http"

	"github.com/persistorai/kinnet/internal/models"
)

// NetworkService handles network building and analysis.
type NetworkService struct {
	c *Client
}

// Build builds the network around req.Seeds.
func (s *NetworkService) Build(ctx context.Context, req models.BuildRequest) (*models.Network, error) {
	var resp models.Network
	if err := s.c.post(ctx, "/api/v1/network", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Analyze computes statistics for one graph.
func (s *NetworkService) Analyze(ctx context.Context, g *models.GraphModel) (*models.GraphMetrics, error) {
	var resp models.GraphMetrics
	if err := s.c.post(ctx, "/api/v1/network/analyze", graphEnvelope{Graph: g}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AnalyzeBatch computes statistics for each graph, in order.
func (s *NetworkService) AnalyzeBatch(ctx context.Context, graphs []models.GraphModel) ([]models.GraphMetrics, error) {
	if graphs == nil {
		graphs = []models.GraphModel{}
	}
	var resp struct {
		Metrics []models.GraphMetrics `json:"metrics"`
	}
	if err := s.c.post(ctx, "/api/v1/network/analyze", graphEnvelope{Graphs: graphs}, &resp); err != nil {
		return nil, err
	}
	return resp.Metrics, nil
}

// Centrality estimates betweenness centrality for g.
func (s *NetworkService) Centrality(ctx context.Context, g *models.GraphModel) (*models.Centrality, error) {
	var resp models.Centrality
	if err := s.c.post(ctx, "/api/v1/network/centrality", graphEnvelope{Graph: g}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Layout returns g with coordinates on every node.
func (s *NetworkService) Layout(ctx context.Context, g *models.GraphModel) (*models.GraphModel, error) {
	var resp models.GraphModel
	if err := s.c.post(ctx, "/api/v1/network/layout", graphEnvelope{Graph: g}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Export serializes g on the server and returns the document bytes unchanged.
func (s *NetworkService) Export(ctx context.Context, g *models.GraphModel, format string) ([]byte, error) {
	return s.c.doRaw(ctx, http.MethodPost, "/api/v1/network/export", graphEnvelope{Graph: g, Format: format})
}

// Import parses an interchange document back into a graph.
func (s *NetworkService) Import(ctx context.Context, doc []byte) (*models.GraphModel, error) {
	var resp models.GraphModel
	if err := s.c.post(ctx, "/api/v1/network/import", doc, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
