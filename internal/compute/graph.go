// Package compute runs graph statistics, centrality and layout either inline
// or on a bounded worker pool, falling back to inline computation whenever
// the pool cannot deliver a result.
package compute

import (
	"slices"

	"github.com/persistorai/kinnet/internal/models"
)

// GraphPayload is the wire form of a graph sent to pool workers. Edges are
// unordered pairs; direction and relation kind do not affect the statistics.
type GraphPayload struct {
	Nodes []models.PersonID    `json:"nodes"`
	Edges [][2]models.PersonID `json:"edges"`
}

// PayloadOf extracts the analysis payload from g.
func PayloadOf(g *models.GraphModel) GraphPayload {
	p := GraphPayload{
		Nodes: g.NodeIDs(),
		Edges: make([][2]models.PersonID, 0, len(g.Edges)),
	}

	for _, e := range g.Edges {
		p.Edges = append(p.Edges, [2]models.PersonID{e.Source, e.Target})
	}

	return p
}

// undirected is a simple undirected graph over dense indices: no self-loops,
// no parallel edges, edges to unknown nodes dropped.
type undirected struct {
	ids   []models.PersonID
	adj   [][]int
	edges int
}

func buildUndirected(p GraphPayload) *undirected {
	ids := slices.Clone(p.Nodes)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	index := make(map[models.PersonID]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	g := &undirected{ids: ids, adj: make([][]int, len(ids))}
	seen := make(map[[2]int]bool, len(p.Edges))

	for _, e := range p.Edges {
		a, okA := index[e[0]]
		b, okB := index[e[1]]

		if !okA || !okB || a == b {
			continue
		}

		if a > b {
			a, b = b, a
		}

		if seen[[2]int{a, b}] {
			continue
		}

		seen[[2]int{a, b}] = true
		g.adj[a] = append(g.adj[a], b)
		g.adj[b] = append(g.adj[b], a)
		g.edges++
	}

	for i := range g.adj {
		slices.Sort(g.adj[i])
	}

	return g
}

// partition splits p into chunks of size nodes in id order. Each chunk keeps
// only edges with both endpoints inside it.
func partition(p GraphPayload, size int) []GraphPayload {
	ids := slices.Clone(p.Nodes)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	if size <= 0 || len(ids) <= size {
		return []GraphPayload{{Nodes: ids, Edges: p.Edges}}
	}

	chunkOf := make(map[models.PersonID]int, len(ids))
	chunks := make([]GraphPayload, 0, (len(ids)+size-1)/size)

	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		for _, id := range ids[start:end] {
			chunkOf[id] = len(chunks)
		}

		chunks = append(chunks, GraphPayload{Nodes: ids[start:end]})
	}

	for _, e := range p.Edges {
		a, okA := chunkOf[e[0]]
		b, okB := chunkOf[e[1]]

		if okA && okB && a == b {
			chunks[a].Edges = append(chunks[a].Edges, e)
		}
	}

	return chunks
}
