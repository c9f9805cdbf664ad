// Package assembler turns filtered traversal results into a labeled GraphModel.
package assembler

import (
	"cmp"
	"slices"

	"github.com/persistorai/kinnet/internal/models"
)

// Options tunes assembly.
type Options struct {
	// Locale selects the label language ("zh" or "en").
	Locale string
	// IncludeReciprocal keeps both edges of an A→B / B→A pair of one kind.
	IncludeReciprocal bool
	// PathMetrics derives per-node path metrics. Nil leaves them zero.
	PathMetrics func([]models.RelationshipCode) models.PathMetrics
}

// Assemble builds the graph for nodes. Every node becomes a graph node; edges
// are kept when both endpoints are present and collapse to one per
// (source, target, kind), preferring the lowest path weight.
func Assemble(
	nodes map[models.PersonID]models.TraversalNode,
	edges []models.TraversedEdge,
	seeds []models.PersonID,
	people map[models.PersonID]models.PersonAttributes,
	opts Options,
) models.GraphModel {
	graphEdges := dedupeEdges(nodes, edges, opts.IncludeReciprocal)

	isSeed := make(map[models.PersonID]bool, len(seeds))
	for _, s := range seeds {
		if _, ok := nodes[s]; ok {
			isSeed[s] = true
		}
	}

	bridges := findBridges(nodes, graphEdges, isSeed)

	g := models.GraphModel{
		Nodes: make(map[models.PersonID]models.NodeAttributes, len(nodes)),
		Edges: graphEdges,
	}

	for id, n := range nodes {
		role := models.RoleOrdinary

		switch {
		case isSeed[id]:
			role = models.RoleCentral
		case bridges[id]:
			role = models.RoleBridge
		}

		tier := role.Tier()
		person := people[id]

		attrs := models.NodeAttributes{
			Label:       Label(id, person, opts.Locale),
			Name:        person.Name,
			NameChn:     person.NameChn,
			BirthYear:   person.BirthYear,
			DeathYear:   person.DeathYear,
			DynastyCode: person.DynastyCode,
			IsCentral:   role == models.RoleCentral,
			IsBridge:    role == models.RoleBridge,
			Role:        role,
			Size:        tier.Size,
			Color:       tier.Color,
			Depth:       n.Distance,
		}

		if opts.PathMetrics != nil {
			attrs.Path = opts.PathMetrics(n.PathCodes)
		}

		g.Nodes[id] = attrs
	}

	return g
}

// Label returns the display label of a person, falling back to "Person {id}".
func Label(id models.PersonID, p models.PersonAttributes, locale string) string {
	if name := p.DisplayName(locale); name != "" {
		return name
	}

	return "Person " + id.String()
}

func dedupeEdges(
	nodes map[models.PersonID]models.TraversalNode,
	edges []models.TraversedEdge,
	includeReciprocal bool,
) []models.GraphEdge {
	best := make(map[models.EdgeKey]models.TraversedEdge, len(edges))

	for _, e := range edges {
		if _, ok := nodes[e.From]; !ok {
			continue
		}

		if _, ok := nodes[e.To]; !ok {
			continue
		}

		cur, ok := best[e.Key()]
		if !ok || e.Weight < cur.Weight || (e.Weight == cur.Weight && e.Code < cur.Code) {
			best[e.Key()] = e
		}
	}

	kept := make([]models.TraversedEdge, 0, len(best))
	for _, e := range best {
		kept = append(kept, e)
	}

	slices.SortFunc(kept, func(a, b models.TraversedEdge) int {
		return cmp.Or(
			cmp.Compare(a.From, b.From),
			cmp.Compare(a.To, b.To),
			cmp.Compare(a.Kind, b.Kind),
		)
	})

	out := make([]models.GraphEdge, 0, len(kept))

	for _, e := range kept {
		if !includeReciprocal && e.From != e.To {
			if _, reverse := best[models.EdgeKey{Source: e.To, Target: e.From, Kind: e.Kind}]; reverse && e.From > e.To {
				continue
			}
		}

		out = append(out, models.GraphEdge{
			Source: e.From,
			Target: e.To,
			Attributes: models.EdgeAttributes{
				Kind:   e.Kind,
				Code:   e.Code,
				Weight: e.Weight,
			},
		})
	}

	return out
}
