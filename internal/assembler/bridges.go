package assembler

import (
	"slices"

	"github.com/persistorai/kinnet/internal/models"
)

// findBridges returns the non-seed nodes lying on some shortest path between
// two distinct seeds of the undirected graph.
func findBridges(
	nodes map[models.PersonID]models.TraversalNode,
	edges []models.GraphEdge,
	isSeed map[models.PersonID]bool,
) map[models.PersonID]bool {
	bridges := make(map[models.PersonID]bool)

	if len(isSeed) < 2 {
		return bridges
	}

	adj := make(map[models.PersonID][]models.PersonID, len(nodes))

	for _, e := range edges {
		if e.Source == e.Target {
			continue
		}

		adj[e.Source] = append(adj[e.Source], e.Target)
		adj[e.Target] = append(adj[e.Target], e.Source)
	}

	seeds := make([]models.PersonID, 0, len(isSeed))
	for s := range isSeed {
		seeds = append(seeds, s)
	}

	slices.Sort(seeds)

	dist := make(map[models.PersonID]map[models.PersonID]int, len(seeds))
	for _, s := range seeds {
		dist[s] = distancesFrom(s, adj)
	}

	for i, s := range seeds {
		for _, t := range seeds[i+1:] {
			span, ok := dist[s][t]
			if !ok {
				continue
			}

			for v, ds := range dist[s] {
				if isSeed[v] {
					continue
				}

				if dt, ok := dist[t][v]; ok && ds+dt == span {
					bridges[v] = true
				}
			}
		}
	}

	return bridges
}

// distancesFrom runs an unweighted BFS from src.
func distancesFrom(src models.PersonID, adj map[models.PersonID][]models.PersonID) map[models.PersonID]int {
	dist := map[models.PersonID]int{src: 0}
	queue := []models.PersonID{src}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, next := range adj[cur] {
			if _, seen := dist[next]; !seen {
				dist[next] = dist[cur] + 1
				queue = append(queue, next)
			}
		}
	}

	return dist
}
