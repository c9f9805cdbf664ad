package client

import "github.com/persistorai/kinnet/internal/models"

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Store         string  `json:"store"`
	StoreDriver   string  `json:"store_driver"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// ReadinessResponse is returned by the readiness endpoint.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Person is a stored person with its display label.
type Person struct {
	models.PersonAttributes
	Label string `json:"label"`
}

type graphEnvelope struct {
	Graph  *models.GraphModel  `json:"graph,omitempty"`
	Graphs []models.GraphModel `json:"graphs,omitempty"`
	Format string              `json:"format,omitempty"`
}
