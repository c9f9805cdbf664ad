package compute

import (
	"math"
	"math/rand/v2"

	"github.com/persistorai/kinnet/internal/models"
)

// Layout bounds. Coordinates live in [-LayoutExtent, LayoutExtent]².
const (
	LayoutExtent            = 500.0
	DefaultLayoutIterations = 50
	// layoutWorkBudget caps iterations*n² so large graphs stay bounded.
	layoutWorkBudget = 50_000_000
)

// LayoutNode is a node position on the wire. Nil coordinates mean unplaced.
type LayoutNode struct {
	ID models.PersonID `json:"id"`
	X  *float64        `json:"x,omitempty"`
	Y  *float64        `json:"y,omitempty"`
}

// LayoutPayload asks for positions of the unplaced nodes of a graph.
type LayoutPayload struct {
	Nodes      []LayoutNode         `json:"nodes"`
	Edges      [][2]models.PersonID `json:"edges"`
	Iterations int                  `json:"iterations"`
	Seed       uint64               `json:"seed"`
}

// Position is a computed coordinate.
type Position struct {
	ID models.PersonID `json:"id"`
	X  float64         `json:"x"`
	Y  float64         `json:"y"`
}

// LayoutResult lists positions for exactly the nodes that were unplaced.
type LayoutResult struct {
	Positions []Position `json:"positions"`
}

// LayoutPayloadOf extracts the layout payload from g in node-id order.
func LayoutPayloadOf(g *models.GraphModel, iterations int, seed uint64) LayoutPayload {
	p := LayoutPayload{Iterations: iterations, Seed: seed}

	for _, id := range g.NodeIDs() {
		a := g.Nodes[id]
		n := LayoutNode{ID: id}

		if a.HasCoordinates() {
			x, y := *a.X, *a.Y
			n.X, n.Y = &x, &y
		}

		p.Nodes = append(p.Nodes, n)
	}

	p.Edges = PayloadOf(g).Edges

	return p
}

func placed(n LayoutNode) bool {
	return n.X != nil && n.Y != nil && !math.IsNaN(*n.X) && !math.IsNaN(*n.Y) &&
		!math.IsInf(*n.X, 0) && !math.IsInf(*n.Y, 0)
}

func newLayoutRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xda942042e4dd58b5)) //nolint:gosec // layout jitter, not security.
}

func uniformCoord(rng *rand.Rand) float64 {
	return (rng.Float64()*2 - 1) * LayoutExtent
}

// RandomLayout assigns uniform random coordinates to every unplaced node.
func RandomLayout(p LayoutPayload) LayoutResult {
	rng := newLayoutRand(p.Seed)
	out := LayoutResult{Positions: []Position{}}

	for _, n := range p.Nodes {
		if placed(n) {
			continue
		}

		out.Positions = append(out.Positions, Position{ID: n.ID, X: uniformCoord(rng), Y: uniformCoord(rng)})
	}

	return out
}

// ForceLayout places unplaced nodes with a Fruchterman–Reingold pass in which
// placed nodes stay pinned. Results are clamped to the layout square.
func ForceLayout(p LayoutPayload) LayoutResult { //nolint:gocognit,funlen // force simulation loop.
	n := len(p.Nodes)
	out := LayoutResult{Positions: []Position{}}

	if n == 0 {
		return out
	}

	rng := newLayoutRand(p.Seed)
	xs, ys := make([]float64, n), make([]float64, n)
	pinned := make([]bool, n)
	index := make(map[models.PersonID]int, n)
	free := 0

	for i, node := range p.Nodes {
		index[node.ID] = i

		if placed(node) {
			xs[i], ys[i], pinned[i] = *node.X, *node.Y, true

			continue
		}

		xs[i], ys[i] = uniformCoord(rng), uniformCoord(rng)
		free++
	}

	if free == 0 {
		return out
	}

	type pair struct{ a, b int }

	edges := make([]pair, 0, len(p.Edges))

	for _, e := range p.Edges {
		a, okA := index[e[0]]
		b, okB := index[e[1]]

		if okA && okB && a != b {
			edges = append(edges, pair{a, b})
		}
	}

	iterations := p.Iterations
	if iterations <= 0 {
		iterations = DefaultLayoutIterations
	}

	iterations = max(1, min(iterations, layoutWorkBudget/(n*n)))

	side := 2 * LayoutExtent
	k := math.Sqrt(side * side / float64(n))
	temp := side / 10
	cool := temp / float64(iterations+1)
	dx, dy := make([]float64, n), make([]float64, n)

	for range iterations {
		clear(dx)
		clear(dy)

		for i := range n {
			for j := i + 1; j < n; j++ {
				vx, vy := xs[i]-xs[j], ys[i]-ys[j]
				d := math.Max(math.Hypot(vx, vy), 0.01)
				f := k * k / d
				dx[i] += vx / d * f
				dy[i] += vy / d * f
				dx[j] -= vx / d * f
				dy[j] -= vy / d * f
			}
		}

		for _, e := range edges {
			vx, vy := xs[e.a]-xs[e.b], ys[e.a]-ys[e.b]
			d := math.Max(math.Hypot(vx, vy), 0.01)
			f := d * d / k
			dx[e.a] -= vx / d * f
			dy[e.a] -= vy / d * f
			dx[e.b] += vx / d * f
			dy[e.b] += vy / d * f
		}

		for i := range n {
			if pinned[i] {
				continue
			}

			d := math.Max(math.Hypot(dx[i], dy[i]), 0.01)
			step := math.Min(d, temp)
			xs[i] = clamp(xs[i] + dx[i]/d*step)
			ys[i] = clamp(ys[i] + dy[i]/d*step)
		}

		temp -= cool
	}

	for i, node := range p.Nodes {
		if !pinned[i] {
			out.Positions = append(out.Positions, Position{ID: node.ID, X: xs[i], Y: ys[i]})
		}
	}

	return out
}

func clamp(v float64) float64 {
	return math.Max(-LayoutExtent, math.Min(LayoutExtent, v))
}

// applyLayout returns a copy of g with positions written to their nodes.
// It reports false when r does not cover every unplaced node.
func applyLayout(g *models.GraphModel, r LayoutResult) (models.GraphModel, bool) {
	out := g.Clone()

	for _, pos := range r.Positions {
		a, ok := out.Nodes[pos.ID]
		if !ok || a.HasCoordinates() {
			continue
		}

		x, y := clamp(pos.X), clamp(pos.Y)
		a.X, a.Y = &x, &y
		out.Nodes[pos.ID] = a
	}

	for _, a := range out.Nodes {
		if !a.HasCoordinates() {
			return models.GraphModel{}, false
		}
	}

	return out, true
}
