package assembler_test

import (
	"testing"

	"github.com/persistorai/kinnet/internal/assembler"
	"github.com/persistorai/kinnet/internal/kinship"
	"github.com/persistorai/kinnet/internal/models"
)

func tnode(id models.PersonID, dist int, path ...models.RelationshipCode) models.TraversalNode {
	return models.TraversalNode{PersonID: id, Distance: dist, PathCodes: path}
}

func tedge(from, to models.PersonID, code models.RelationshipCode, kind models.RelationKind, weight int) models.TraversedEdge {
	return models.TraversedEdge{Edge: models.Edge{From: from, To: to, Code: code, Kind: kind}, Weight: weight}
}

func TestAssemble_ScenarioA(t *testing.T) {
	nodes := map[models.PersonID]models.TraversalNode{
		1762: tnode(1762, 0),
		7082: tnode(7082, 1, 75),
		2:    tnode(2, 1, 180),
		3:    tnode(3, 1, 180),
	}
	edges := []models.TraversedEdge{
		tedge(1762, 7082, 75, models.KindKinship, 1),
		tedge(1762, 2, 180, models.KindKinship, 1),
		tedge(1762, 3, 180, models.KindKinship, 1),
	}
	people := map[models.PersonID]models.PersonAttributes{
		1762: {ID: 1762, Name: "Wang Anshi", NameChn: "王安石"},
	}

	g := assembler.Assemble(nodes, edges, []models.PersonID{1762}, people, assembler.Options{
		Locale:            models.LocaleChinese,
		IncludeReciprocal: true,
		PathMetrics:       kinship.Default().Metrics,
	})

	if len(g.Nodes) != 4 || len(g.Edges) != 3 {
		t.Fatalf("nodes=%d edges=%d, want 4/3", len(g.Nodes), len(g.Edges))
	}

	seed := g.Nodes[1762]
	if !seed.IsCentral || seed.Role != models.RoleCentral || seed.Size != 24 || seed.Color != "#d62728" {
		t.Errorf("unexpected seed attributes: %+v", seed)
	}

	if seed.Label != "王安石" {
		t.Errorf("seed label = %q", seed.Label)
	}

	father := g.Nodes[7082]
	if father.IsCentral || father.IsBridge || father.Size != 10 || father.Depth != 1 {
		t.Errorf("unexpected father attributes: %+v", father)
	}

	if father.Label != "Person 7082" {
		t.Errorf("fallback label = %q", father.Label)
	}

	if father.Path.GenerationsUp != 1 {
		t.Errorf("father path metrics = %+v", father.Path)
	}

	if g.Nodes[2].Path.GenerationsDown != 1 {
		t.Errorf("son path metrics = %+v", g.Nodes[2].Path)
	}
}

func TestAssemble_Bridges(t *testing.T) {
	// Chain 1-2-3-4-5 with a spur 3-9; seeds 1 and 5.
	nodes := map[models.PersonID]models.TraversalNode{
		1: tnode(1, 0), 2: tnode(2, 1), 3: tnode(3, 2),
		4: tnode(4, 1), 5: tnode(5, 0), 9: tnode(9, 3),
	}
	edges := []models.TraversedEdge{
		tedge(1, 2, 180, models.KindKinship, 1),
		tedge(2, 3, 180, models.KindKinship, 3),
		tedge(3, 4, 75, models.KindKinship, 3),
		tedge(4, 5, 75, models.KindKinship, 1),
		tedge(3, 9, 429, models.KindAssociation, 5),
	}

	g := assembler.Assemble(nodes, edges, []models.PersonID{1, 5}, nil, assembler.Options{IncludeReciprocal: true})

	for _, id := range []models.PersonID{2, 3, 4} {
		n := g.Nodes[id]
		if !n.IsBridge || n.Role != models.RoleBridge || n.Size != 16 {
			t.Errorf("node %d should be a bridge: %+v", id, n)
		}
	}

	if g.Nodes[9].IsBridge {
		t.Error("spur node must not be a bridge")
	}

	for _, id := range []models.PersonID{1, 5} {
		if g.Nodes[id].IsBridge || !g.Nodes[id].IsCentral {
			t.Errorf("seed %d must be central and not a bridge", id)
		}
	}
}

func TestAssemble_NoBridgesWithSingleSeed(t *testing.T) {
	nodes := map[models.PersonID]models.TraversalNode{1: tnode(1, 0), 2: tnode(2, 1)}
	edges := []models.TraversedEdge{tedge(1, 2, 180, models.KindKinship, 1)}

	g := assembler.Assemble(nodes, edges, []models.PersonID{1}, nil, assembler.Options{})

	if g.Nodes[2].IsBridge {
		t.Error("no bridges without two seeds")
	}
}

func TestAssemble_DedupeKeepsLowestWeight(t *testing.T) {
	nodes := map[models.PersonID]models.TraversalNode{1: tnode(1, 0), 2: tnode(2, 1)}
	edges := []models.TraversedEdge{
		tedge(1, 2, 180, models.KindKinship, 5),
		tedge(1, 2, 182, models.KindKinship, 1),
		tedge(1, 2, 181, models.KindKinship, 1),
		tedge(1, 2, 429, models.KindAssociation, 3),
	}

	g := assembler.Assemble(nodes, edges, []models.PersonID{1}, nil, assembler.Options{IncludeReciprocal: true})

	if len(g.Edges) != 2 {
		t.Fatalf("edges = %d, want 2 (one per kind)", len(g.Edges))
	}

	var kin models.GraphEdge
	for _, e := range g.Edges {
		if e.Attributes.Kind == models.KindKinship {
			kin = e
		}
	}

	if kin.Attributes.Weight != 1 || kin.Attributes.Code != 181 {
		t.Errorf("kinship edge = %+v, want weight 1 code 181", kin)
	}
}

func TestAssemble_ReciprocalPairs(t *testing.T) {
	nodes := map[models.PersonID]models.TraversalNode{1: tnode(1, 0), 2: tnode(2, 1)}
	edges := []models.TraversedEdge{
		tedge(1, 2, 180, models.KindKinship, 1),
		tedge(2, 1, 75, models.KindKinship, 1),
	}

	tests := []struct {
		name    string
		include bool
		want    int
	}{
		{"kept", true, 2},
		{"collapsed", false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := assembler.Assemble(nodes, edges, []models.PersonID{1}, nil, assembler.Options{IncludeReciprocal: tt.include})
			if len(g.Edges) != tt.want {
				t.Fatalf("edges = %d, want %d", len(g.Edges), tt.want)
			}

			if !tt.include && g.Edges[0].Source != 1 {
				t.Errorf("collapsed pair kept %+v, want the 1→2 edge", g.Edges[0])
			}
		})
	}
}

func TestAssemble_DropsEdgesToFilteredNodes(t *testing.T) {
	nodes := map[models.PersonID]models.TraversalNode{1: tnode(1, 0)}
	edges := []models.TraversedEdge{tedge(1, 2, 180, models.KindKinship, 1)}

	g := assembler.Assemble(nodes, edges, []models.PersonID{1}, nil, assembler.Options{})

	if len(g.Edges) != 0 {
		t.Errorf("edges = %d, want 0", len(g.Edges))
	}
}

func TestLabel(t *testing.T) {
	p := models.PersonAttributes{Name: "Su Shi", NameChn: "蘇軾"}

	tests := []struct {
		locale string
		person models.PersonAttributes
		want   string
	}{
		{models.LocaleChinese, p, "蘇軾"},
		{models.LocaleEnglish, p, "Su Shi"},
		{"", models.PersonAttributes{NameChn: "蘇軾"}, "蘇軾"},
		{models.LocaleEnglish, models.PersonAttributes{}, "Person 42"},
	}

	for _, tt := range tests {
		if got := assembler.Label(42, tt.person, tt.locale); got != tt.want {
			t.Errorf("Label(%q, %+v) = %q, want %q", tt.locale, tt.person, got, tt.want)
		}
	}
}
