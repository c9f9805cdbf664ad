package compute_test

import (
	"github.com/sirupsen/logrus"

	"github.com/persistorai/kinnet/internal/models"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)

	return l
}

// graphOf builds a GraphModel with the given nodes and undirected kinship edges.
func graphOf(nodes []models.PersonID, edges ...[2]models.PersonID) models.GraphModel {
	g := models.GraphModel{Nodes: make(map[models.PersonID]models.NodeAttributes, len(nodes))}

	for _, id := range nodes {
		g.Nodes[id] = models.NodeAttributes{Label: "Person " + id.String(), Role: models.RoleOrdinary}
	}

	for _, e := range edges {
		g.Edges = append(g.Edges, models.GraphEdge{
			Source:     e[0],
			Target:     e[1],
			Attributes: models.EdgeAttributes{Kind: models.KindKinship, Code: 75, Weight: 1},
		})
	}

	return g
}

func ids(from, to models.PersonID) []models.PersonID {
	out := make([]models.PersonID, 0, to-from+1)
	for id := from; id <= to; id++ {
		out = append(out, id)
	}

	return out
}

func clique(members []models.PersonID) [][2]models.PersonID {
	var edges [][2]models.PersonID

	for i, a := range members {
		for _, b := range members[i+1:] {
			edges = append(edges, [2]models.PersonID{a, b})
		}
	}

	return edges
}

// ladder returns a connected graph of n nodes: a path plus chords i→i+2.
func ladder(n models.PersonID) models.GraphModel {
	var edges [][2]models.PersonID

	for i := models.PersonID(1); i < n; i++ {
		edges = append(edges, [2]models.PersonID{i, i + 1})
		if i+2 <= n {
			edges = append(edges, [2]models.PersonID{i, i + 2})
		}
	}

	return graphOf(ids(1, n), edges...)
}
