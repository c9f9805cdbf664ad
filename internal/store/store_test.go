package store_test

import (
	"context"
	"slices"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/kinnet/internal/models"
)

// edgeReader is the read surface shared by every adapter.
type edgeReader interface {
	GetEdges(ctx context.Context, ids []models.PersonID, kinds []models.RelationKind) ([]models.Edge, error)
	GetNodeAttributes(ctx context.Context, ids []models.PersonID) (map[models.PersonID]models.PersonAttributes, error)
}

// fixture is loaded into every adapter under test:
//
//	1's father is 2, 3's father is 1 (kinship)
//	1 and 4 are associates (association)
//	1 and 5 held office 9001 (office)
var fixturePeople = []models.PersonAttributes{
	{ID: 1, Name: "Wang Anshi", NameChn: "王安石", BirthYear: intPtr(1021), DeathYear: intPtr(1086), DynastyCode: intPtr(15)},
	{ID: 2, Name: "Wang Yi"},
	{ID: 3, Name: "Wang Pang"},
	{ID: 4, Name: "Zeng Gong"},
	{ID: 5, NameChn: "司馬光"},
}

var fixtureEdges = []models.Edge{
	{From: 1, To: 2, Code: 75, Kind: models.KindKinship},
	{From: 3, To: 1, Code: 75, Kind: models.KindKinship},
	{From: 1, To: 4, Code: 429, Kind: models.KindAssociation},
	{From: 5, To: 1, Code: 9001, Kind: models.KindOffice},
}

func intPtr(v int) *int { return &v }

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)

	return l
}

// exerciseAdapter runs the shared adapter contract against r.
func exerciseAdapter(t *testing.T, r edgeReader) {
	t.Helper()

	ctx := context.Background()

	t.Run("both directions", func(t *testing.T) {
		edges, err := r.GetEdges(ctx, []models.PersonID{1}, []models.RelationKind{models.KindKinship})
		if err != nil {
			t.Fatalf("GetEdges: %v", err)
		}

		want := []models.Edge{fixtureEdges[0], fixtureEdges[1]}
		if !sameEdges(edges, want) {
			t.Errorf("edges = %+v, want %+v", edges, want)
		}
	})

	t.Run("kind selection", func(t *testing.T) {
		edges, err := r.GetEdges(ctx, []models.PersonID{1}, []models.RelationKind{models.KindAssociation})
		if err != nil {
			t.Fatalf("GetEdges: %v", err)
		}

		if !sameEdges(edges, []models.Edge{fixtureEdges[2]}) {
			t.Errorf("edges = %+v", edges)
		}
	})

	t.Run("office pair normalized", func(t *testing.T) {
		for _, id := range []models.PersonID{1, 5} {
			edges, err := r.GetEdges(ctx, []models.PersonID{id}, []models.RelationKind{models.KindOffice})
			if err != nil {
				t.Fatalf("GetEdges: %v", err)
			}

			want := []models.Edge{{From: 1, To: 5, Code: 9001, Kind: models.KindOffice}}
			if !sameEdges(edges, want) {
				t.Errorf("from %d: edges = %+v, want %+v", id, edges, want)
			}
		}
	})

	t.Run("batched ids deduplicate", func(t *testing.T) {
		edges, err := r.GetEdges(ctx, []models.PersonID{1, 2, 3, 1}, models.AllRelationKinds())
		if err != nil {
			t.Fatalf("GetEdges: %v", err)
		}

		if len(edges) != len(fixtureEdges) {
			t.Errorf("edges = %d, want %d", len(edges), len(fixtureEdges))
		}
	})

	t.Run("isolated person", func(t *testing.T) {
		edges, err := r.GetEdges(ctx, []models.PersonID{999}, models.AllRelationKinds())
		if err != nil {
			t.Fatalf("GetEdges: %v", err)
		}

		if edges == nil || len(edges) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", edges)
		}
	})

	t.Run("attributes", func(t *testing.T) {
		people, err := r.GetNodeAttributes(ctx, []models.PersonID{1, 5, 999})
		if err != nil {
			t.Fatalf("GetNodeAttributes: %v", err)
		}

		if len(people) != 2 {
			t.Fatalf("people = %d, want 2", len(people))
		}

		p := people[1]
		if p.NameChn != "王安石" || p.BirthYear == nil || *p.BirthYear != 1021 || *p.DynastyCode != 15 {
			t.Errorf("unexpected person 1: %+v", p)
		}

		if q := people[5]; q.Name != "" || q.BirthYear != nil {
			t.Errorf("expected null columns for person 5: %+v", q)
		}
	})
}

func sameEdges(got, want []models.Edge) bool {
	if len(got) != len(want) {
		return false
	}

	for _, w := range want {
		if !slices.Contains(got, w) {
			return false
		}
	}

	return true
}
