package compute

import (
	"slices"

	"github.com/persistorai/kinnet/internal/models"
)

// Analyze computes whole-graph statistics over the undirected simple graph
// underlying p. EdgeCount counts distinct unordered pairs.
func Analyze(p GraphPayload) models.GraphMetrics {
	g := buildUndirected(p)
	n := len(g.ids)

	m := models.GraphMetrics{NodeCount: n, EdgeCount: g.edges}
	if n == 0 {
		return m
	}

	if n > 1 {
		m.Density = 2 * float64(g.edges) / (float64(n) * float64(n-1))
	}

	m.AvgDegree = 2 * float64(g.edges) / float64(n)
	m.DegreeDistribution = degreeDistribution(g)
	m.ClusteringCoefficient = averageClustering(g)
	m.ComponentCount, m.LargestComponentSize = components(g)
	m.IsConnected = m.ComponentCount == 1

	return m
}

// AnalyzePartitioned splits p into chunks of size nodes, analyzes each on its
// own and merges the partial results. Edges crossing chunks are ignored, so
// the result approximates Analyze for size < node count.
func AnalyzePartitioned(p GraphPayload, size int) models.GraphMetrics {
	chunks := partition(p, size)
	parts := make([]models.GraphMetrics, len(chunks))

	for i, c := range chunks {
		parts[i] = Analyze(c)
	}

	return MergeMetrics(parts)
}

// MergeMetrics combines per-partition results: counts are summed, extremes
// take min/max and ratios are averaged weighted by node count.
func MergeMetrics(parts []models.GraphMetrics) models.GraphMetrics {
	if len(parts) == 1 {
		return parts[0]
	}

	var out models.GraphMetrics

	first := true

	for _, p := range parts {
		if p.NodeCount == 0 {
			continue
		}

		w := float64(p.NodeCount)

		out.NodeCount += p.NodeCount
		out.EdgeCount += p.EdgeCount
		out.ComponentCount += p.ComponentCount
		out.LargestComponentSize = max(out.LargestComponentSize, p.LargestComponentSize)
		out.Density += p.Density * w
		out.ClusteringCoefficient += p.ClusteringCoefficient * w
		out.AvgDegree += p.AvgDegree * w
		out.DegreeDistribution.Mean += p.DegreeDistribution.Mean * w
		out.DegreeDistribution.Median += p.DegreeDistribution.Median * w

		if first {
			out.DegreeDistribution.Min = p.DegreeDistribution.Min
			out.DegreeDistribution.Max = p.DegreeDistribution.Max
			first = false
		} else {
			out.DegreeDistribution.Min = min(out.DegreeDistribution.Min, p.DegreeDistribution.Min)
			out.DegreeDistribution.Max = max(out.DegreeDistribution.Max, p.DegreeDistribution.Max)
		}
	}

	if out.NodeCount > 0 {
		total := float64(out.NodeCount)
		out.Density /= total
		out.ClusteringCoefficient /= total
		out.AvgDegree /= total
		out.DegreeDistribution.Mean /= total
		out.DegreeDistribution.Median /= total
	}

	out.IsConnected = out.ComponentCount == 1

	return out
}

func degreeDistribution(g *undirected) models.DegreeDistribution {
	degrees := make([]int, len(g.adj))
	sum := 0

	for i, nbrs := range g.adj {
		degrees[i] = len(nbrs)
		sum += len(nbrs)
	}

	slices.Sort(degrees)

	n := len(degrees)
	d := models.DegreeDistribution{
		Min:  degrees[0],
		Max:  degrees[n-1],
		Mean: float64(sum) / float64(n),
	}

	if n%2 == 1 {
		d.Median = float64(degrees[n/2])
	} else {
		d.Median = float64(degrees[n/2-1]+degrees[n/2]) / 2
	}

	return d
}

// averageClustering is the mean local clustering coefficient. Nodes with
// fewer than two neighbors count as zero.
func averageClustering(g *undirected) float64 {
	total := 0.0

	for _, nbrs := range g.adj {
		k := len(nbrs)
		if k < 2 {
			continue
		}

		links := 0

		for i, a := range nbrs {
			for _, b := range nbrs[i+1:] {
				if _, found := slices.BinarySearch(g.adj[a], b); found {
					links++
				}
			}
		}

		total += 2 * float64(links) / float64(k*(k-1))
	}

	return total / float64(len(g.adj))
}

func components(g *undirected) (count, largest int) {
	seen := make([]bool, len(g.adj))

	for start := range g.adj {
		if seen[start] {
			continue
		}

		count++
		size := 0
		stack := []int{start}
		seen[start] = true

		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			size++

			for _, next := range g.adj[cur] {
				if !seen[next] {
					seen[next] = true
					stack = append(stack, next)
				}
			}
		}

		largest = max(largest, size)
	}

	return count, largest
}
