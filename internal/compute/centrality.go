package compute

import (
	"math/rand/v2"

	"github.com/persistorai/kinnet/internal/models"
)

// DefaultCentralitySample bounds the number of BFS sources used for
// betweenness estimation.
const DefaultCentralitySample = 100

// CentralityPayload asks for betweenness over Graph from at most SampleSize
// sources drawn with Seed.
type CentralityPayload struct {
	Graph      GraphPayload `json:"graph"`
	SampleSize int          `json:"sample_size"`
	Seed       uint64       `json:"seed"`
}

// Betweenness computes Brandes betweenness centrality on the undirected graph.
//
// When the graph has more nodes than the sample size, dependencies are
// accumulated from a random subset of sources and scaled by n/k. This is an
// estimate, not exact betweenness; Exact reports which one was produced.
// Scores are unnormalized and count each unordered pair once.
func Betweenness(p CentralityPayload) models.Centrality {
	g := buildUndirected(p.Graph)
	n := len(g.ids)

	sample := p.SampleSize
	if sample <= 0 {
		sample = DefaultCentralitySample
	}

	sources := make([]int, n)
	for i := range sources {
		sources[i] = i
	}

	exact := n <= sample
	if !exact {
		rng := rand.New(rand.NewPCG(p.Seed, p.Seed^0x9e3779b97f4a7c15)) //nolint:gosec // sampling, not security.
		rng.Shuffle(n, func(i, j int) { sources[i], sources[j] = sources[j], sources[i] })
		sources = sources[:sample]
	}

	scores := make([]float64, n)
	sigma := make([]float64, n)
	dist := make([]int, n)
	delta := make([]float64, n)
	preds := make([][]int, n)
	order := make([]int, 0, n)

	for _, s := range sources {
		for i := range n {
			sigma[i], dist[i], delta[i] = 0, -1, 0
			preds[i] = preds[i][:0]
		}

		order = order[:0]
		sigma[s], dist[s] = 1, 0
		queue := []int{s}

		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			order = append(order, v)

			for _, w := range g.adj[v] {
				if dist[w] < 0 {
					dist[w] = dist[v] + 1
					queue = append(queue, w)
				}

				if dist[w] == dist[v]+1 {
					sigma[w] += sigma[v]
					preds[w] = append(preds[w], v)
				}
			}
		}

		for i := len(order) - 1; i >= 0; i-- {
			w := order[i]
			for _, v := range preds[w] {
				delta[v] += sigma[v] / sigma[w] * (1 + delta[w])
			}

			if w != s {
				scores[w] += delta[w]
			}
		}
	}

	scale := 0.5
	if !exact && len(sources) > 0 {
		scale *= float64(n) / float64(len(sources))
	}

	out := models.Centrality{
		Scores:     make(map[models.PersonID]float64, n),
		SampleSize: len(sources),
		Exact:      exact,
	}

	for i, id := range g.ids {
		out.Scores[id] = scores[i] * scale
	}

	return out
}
