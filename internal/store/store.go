// Package store provides read-only access to the biographical database.
//
// Three adapters serve the same two operations: Postgres (the migrated
// schema behind pgx), SQLite (a CBDB distribution file opened with the
// modernc driver) and Memory (an in-process table used by tests and small
// imported graphs). Each returns edges in their stored direction; callers
// decide how to walk them.
package store

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/persistorai/kinnet/internal/models"
)

const defaultQueryTimeout = 30 * time.Second

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// validIDs drops non-positive and duplicate ids and returns them as int64s.
func validIDs(ids []models.PersonID) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[models.PersonID]bool, len(ids))

	for _, id := range ids {
		if id.Valid() && !seen[id] {
			seen[id] = true
			out = append(out, int64(id))
		}
	}

	return out
}

// officeEdge normalizes a shared-office pair so the lower id is the source.
func officeEdge(a, b models.PersonID, office models.RelationshipCode) models.Edge {
	if b < a {
		a, b = b, a
	}

	return models.Edge{From: a, To: b, Code: office, Kind: models.KindOffice}
}

// edgeSet collects unique edges in a deterministic order.
type edgeSet struct {
	seen  map[models.Edge]bool
	edges []models.Edge
}

func newEdgeSet() *edgeSet {
	return &edgeSet{seen: make(map[models.Edge]bool)}
}

func (s *edgeSet) add(e models.Edge) {
	if e.From == 0 || e.To == 0 || s.seen[e] {
		return
	}

	s.seen[e] = true
	s.edges = append(s.edges, e)
}

func (s *edgeSet) sorted() []models.Edge {
	slices.SortFunc(s.edges, func(a, b models.Edge) int {
		return cmp.Or(
			cmp.Compare(a.Kind, b.Kind),
			cmp.Compare(a.From, b.From),
			cmp.Compare(a.To, b.To),
			cmp.Compare(a.Code, b.Code),
		)
	})

	if s.edges == nil {
		return []models.Edge{}
	}

	return s.edges
}
