package traversal

import (
	"cmp"
	"slices"

	"github.com/persistorai/kinnet/internal/models"
)

// Merged is the union of several single-seed traversals.
type Merged struct {
	Nodes     map[models.PersonID]models.TraversalNode
	Edges     []models.TraversedEdge
	Truncated bool
}

// Merge combines per-seed results. A person reached from several seeds keeps
// the node of its nearest seed; ties go to the earlier result. Edges are
// concatenated as-is so that duplicates can be collapsed by weight downstream.
//
// When maxNodes is positive the union is held to that ceiling as a single
// traversal would be: the nearest persons are kept, seeds always, and the
// result is marked truncated.
func Merge(results []*models.TraverseResult, maxNodes int) Merged {
	m := Merged{Nodes: make(map[models.PersonID]models.TraversalNode)}

	for _, r := range results {
		if r == nil {
			continue
		}

		m.Truncated = m.Truncated || r.Truncated

		for id, n := range r.Nodes {
			if existing, ok := m.Nodes[id]; ok && existing.Distance <= n.Distance {
				continue
			}

			m.Nodes[id] = n
		}

		m.Edges = append(m.Edges, r.Edges...)
	}

	if maxNodes > 0 && len(m.Nodes) > maxNodes {
		m.trim(maxNodes)
	}

	return m
}

// trim drops the farthest persons (ties by higher id) beyond maxNodes, and
// every edge touching one of them.
func (m *Merged) trim(maxNodes int) {
	ranked := make([]models.TraversalNode, 0, len(m.Nodes))
	seeds := 0

	for _, n := range m.Nodes {
		ranked = append(ranked, n)

		if n.Distance == 0 {
			seeds++
		}
	}

	keep := max(maxNodes, seeds)
	if keep >= len(ranked) {
		return
	}

	slices.SortFunc(ranked, func(a, b models.TraversalNode) int {
		return cmp.Or(cmp.Compare(a.Distance, b.Distance), cmp.Compare(a.PersonID, b.PersonID))
	})

	removed := make(map[models.PersonID]bool, len(ranked)-keep)
	for _, n := range ranked[keep:] {
		removed[n.PersonID] = true
		delete(m.Nodes, n.PersonID)
	}

	m.Edges = slices.DeleteFunc(m.Edges, func(e models.TraversedEdge) bool {
		return removed[e.From] || removed[e.To]
	})
	m.Truncated = true
}
