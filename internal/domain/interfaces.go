// Package domain defines the canonical service interfaces shared by the HTTP
// API and the CLI. Consumers depend on these rather than on concrete services.
package domain

import (
	"context"

	"github.com/persistorai/kinnet/internal/models"
)

// NetworkService builds and analyzes person networks.
type NetworkService interface {
	BuildNetwork(ctx context.Context, req models.BuildRequest) (*models.Network, error)
	Analyze(ctx context.Context, g *models.GraphModel) (models.GraphMetrics, error)
	AnalyzeBatch(ctx context.Context, graphs []models.GraphModel) ([]models.GraphMetrics, error)
	Centrality(ctx context.Context, g *models.GraphModel) (models.Centrality, error)
	Layout(ctx context.Context, g *models.GraphModel) (models.GraphModel, error)
	ExportGraph(g *models.GraphModel, format string) ([]byte, error)
	ImportGraph(data []byte) (models.GraphModel, error)
}

// PersonService looks up individual persons.
type PersonService interface {
	GetPerson(ctx context.Context, id models.PersonID) (models.PersonAttributes, error)
}
