package compute_test

import (
	"context"
	"testing"

	"github.com/persistorai/kinnet/internal/compute"
	"github.com/persistorai/kinnet/internal/models"
)

func inBounds(t *testing.T, g models.GraphModel) {
	t.Helper()

	for id, a := range g.Nodes {
		if !a.HasCoordinates() {
			t.Fatalf("node %d has no coordinates", id)
		}

		if *a.X < -compute.LayoutExtent || *a.X > compute.LayoutExtent ||
			*a.Y < -compute.LayoutExtent || *a.Y > compute.LayoutExtent {
			t.Errorf("node %d out of bounds: (%v, %v)", id, *a.X, *a.Y)
		}
	}
}

func TestLayout_SmallGraphInline(t *testing.T) {
	g := ladder(5)
	s := compute.NewLayoutScheduler(nil, testLogger())

	out, err := s.Layout(context.Background(), &g, compute.LayoutOptions{Seed: 3})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	inBounds(t, out)

	if g.Nodes[1].X != nil {
		t.Error("input graph must not be modified")
	}
}

func TestLayout_Idempotent(t *testing.T) {
	pool := compute.NewPool("layout", 1, compute.MaxLayoutWorkers, 4, nil, testLogger())
	pool.Start(context.Background())
	t.Cleanup(pool.Stop)

	for _, n := range []models.PersonID{4, 30} {
		g := ladder(n)
		s := compute.NewLayoutScheduler(pool, testLogger())

		first, err := s.Layout(context.Background(), &g, compute.LayoutOptions{Iterations: 20, Seed: 1})
		if err != nil {
			t.Fatalf("first Layout: %v", err)
		}

		inBounds(t, first)

		second, err := s.Layout(context.Background(), &first, compute.LayoutOptions{Iterations: 20, Seed: 99})
		if err != nil {
			t.Fatalf("second Layout: %v", err)
		}

		for id, a := range first.Nodes {
			b := second.Nodes[id]
			if *a.X != *b.X || *a.Y != *b.Y {
				t.Errorf("n=%d: node %d moved from (%v,%v) to (%v,%v)", n, id, *a.X, *a.Y, *b.X, *b.Y)
			}
		}
	}
}

func TestLayout_PlacedNodesPinned(t *testing.T) {
	pool := compute.NewPool("layout", 2, compute.MaxLayoutWorkers, 4, nil, testLogger())
	pool.Start(context.Background())
	t.Cleanup(pool.Stop)

	g := ladder(25)
	x, y := 12.5, -40.0
	a := g.Nodes[7]
	a.X, a.Y = &x, &y
	g.Nodes[7] = a

	out, err := compute.NewLayoutScheduler(pool, testLogger()).Layout(context.Background(), &g, compute.LayoutOptions{})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	inBounds(t, out)

	if *out.Nodes[7].X != x || *out.Nodes[7].Y != y {
		t.Errorf("placed node moved to (%v, %v)", *out.Nodes[7].X, *out.Nodes[7].Y)
	}
}

func TestLayout_FallbackOnPanic(t *testing.T) {
	g := ladder(40)
	s := compute.NewLayoutScheduler(startedPool(t, panicking()), testLogger())

	out, err := s.Layout(context.Background(), &g, compute.LayoutOptions{Seed: 5})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	inBounds(t, out)

	if len(out.Nodes) != 40 || len(out.Edges) != len(g.Edges) {
		t.Errorf("layout changed graph shape: %d nodes, %d edges", len(out.Nodes), len(out.Edges))
	}
}

func TestRandomLayout_OnlyUnplaced(t *testing.T) {
	x := 1.0
	p := compute.LayoutPayload{
		Nodes: []compute.LayoutNode{{ID: 1, X: &x, Y: &x}, {ID: 2}, {ID: 3, X: &x}},
		Seed:  42,
	}

	r := compute.RandomLayout(p)

	if len(r.Positions) != 2 || r.Positions[0].ID != 2 || r.Positions[1].ID != 3 {
		t.Errorf("positions = %+v, want nodes 2 and 3", r.Positions)
	}
}
