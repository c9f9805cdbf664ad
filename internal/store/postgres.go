package store

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/kinnet/internal/dbpool"
	"github.com/persistorai/kinnet/internal/models"
)

// Base contains shared dependencies for pool-backed stores.
type Base struct {
	Pool *dbpool.Pool
	Log  *logrus.Logger
}

// Postgres reads persons and relations from the migrated PostgreSQL schema.
type Postgres struct {
	Base
}

// NewPostgres creates a Postgres store.
func NewPostgres(base Base) *Postgres {
	return &Postgres{Base: base}
}

// GetEdges returns every edge of the requested kinds touching any of ids,
// in either stored direction. One query is issued per kind.
func (s *Postgres) GetEdges(ctx context.Context, ids []models.PersonID, kinds []models.RelationKind) ([]models.Edge, error) {
	keys := validIDs(ids)
	if len(keys) == 0 {
		return []models.Edge{}, nil
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	set := newEdgeSet()

	for _, kind := range kinds {
		query, _, err := edgeQuery(kind, "= ANY($1)")
		if err != nil {
			return nil, err
		}

		if err := s.collectEdges(ctx, query, kind, keys, set); err != nil {
			return nil, err
		}
	}

	edges := set.sorted()

	s.Log.WithFields(logrus.Fields{
		"ids":   len(keys),
		"kinds": kinds,
		"edges": len(edges),
	}).Debug("store.get_edges")

	return edges, nil
}

func (s *Postgres) collectEdges(ctx context.Context, query string, kind models.RelationKind, keys []int64, set *edgeSet) error {
	rows, err := s.Pool.Query(ctx, query, keys)
	if err != nil {
		return fmt.Errorf("querying %s edges: %w", kind, err)
	}
	defer rows.Close()

	for rows.Next() {
		e, err := scanEdge(rows.Scan, kind)
		if err != nil {
			return fmt.Errorf("scanning %s edge: %w", kind, err)
		}

		set.add(e)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating %s edges: %w", kind, err)
	}

	return nil
}

// GetNodeAttributes returns the biog_main rows for ids. Unknown ids are
// absent from the map.
func (s *Postgres) GetNodeAttributes(ctx context.Context, ids []models.PersonID) (map[models.PersonID]models.PersonAttributes, error) {
	keys := validIDs(ids)
	out := make(map[models.PersonID]models.PersonAttributes, len(keys))

	if len(keys) == 0 {
		return out, nil
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx, `SELECT `+personColumns+` FROM biog_main WHERE c_personid = ANY($1)`, keys)
	if err != nil {
		return nil, fmt.Errorf("querying node attributes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanPerson(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning node attributes: %w", err)
		}

		out[p.ID] = p
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating node attributes: %w", err)
	}

	return out, nil
}

// Ping verifies the database is reachable.
func (s *Postgres) Ping(ctx context.Context) error {
	return s.Pool.HealthCheck(ctx)
}
