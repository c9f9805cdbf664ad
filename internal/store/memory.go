package store

import (
	"context"
	"slices"
	"sync"

	"github.com/persistorai/kinnet/internal/models"
)

// Memory is an in-process store. It is safe for concurrent use.
type Memory struct {
	mu       sync.RWMutex
	people   map[models.PersonID]models.PersonAttributes
	incident map[models.PersonID][]models.Edge
	// Failure, when set, is returned by every read.
	Failure error
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		people:   make(map[models.PersonID]models.PersonAttributes),
		incident: make(map[models.PersonID][]models.Edge),
	}
}

// AddPerson inserts or replaces a person row.
func (m *Memory) AddPerson(p models.PersonAttributes) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.people[p.ID] = p
}

// AddEdge stores e. Office edges are normalized to lower-id-first like the
// SQL adapters return them.
func (m *Memory) AddEdge(e models.Edge) {
	if e.Kind == models.KindOffice {
		e = officeEdge(e.From, e.To, e.Code)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if slices.Contains(m.incident[e.From], e) {
		return
	}

	m.incident[e.From] = append(m.incident[e.From], e)

	if e.To != e.From {
		m.incident[e.To] = append(m.incident[e.To], e)
	}
}

// GetEdges returns every stored edge of the given kinds touching ids.
func (m *Memory) GetEdges(ctx context.Context, ids []models.PersonID, kinds []models.RelationKind) ([]models.Edge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.Failure != nil {
		return nil, m.Failure
	}

	set := newEdgeSet()

	for _, id := range validIDs(ids) {
		for _, e := range m.incident[models.PersonID(id)] {
			if slices.Contains(kinds, e.Kind) {
				set.add(e)
			}
		}
	}

	return set.sorted(), nil
}

// GetNodeAttributes returns the stored rows for ids.
func (m *Memory) GetNodeAttributes(ctx context.Context, ids []models.PersonID) (map[models.PersonID]models.PersonAttributes, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.Failure != nil {
		return nil, m.Failure
	}

	out := make(map[models.PersonID]models.PersonAttributes, len(ids))

	for _, id := range validIDs(ids) {
		if p, ok := m.people[models.PersonID(id)]; ok {
			out[p.ID] = p
		}
	}

	return out, nil
}

// Ping always succeeds.
func (m *Memory) Ping(context.Context) error { return nil }
