package kinship

import "github.com/persistorai/kinnet/internal/models"

// Retain reports whether a traversal node at distance with path metrics m
// passes policy. Seeds (distance 0) always pass.
func Retain(distance int, m models.PathMetrics, policy models.FilterPolicy) bool {
	if distance == 0 {
		return true
	}

	if !policy.IncludeDerived && distance > 1 {
		return false
	}

	if m.GenerationsUp > policy.MaxAncestorGen ||
		m.GenerationsDown > policy.MaxDescendGen ||
		m.CollateralSteps > policy.MaxCollateralLinks ||
		m.MarriageLinks > policy.MaxMarriageLinks {
		return false
	}

	if policy.MourningCircle && m.GenerationsUp+m.GenerationsDown > models.MourningCircleSpan {
		return false
	}

	return true
}

// Filter returns the subset of nodes retained by policy. The input map is not modified.
func (t *Table) Filter(nodes map[models.PersonID]models.TraversalNode, policy models.FilterPolicy) map[models.PersonID]models.TraversalNode {
	kept := make(map[models.PersonID]models.TraversalNode, len(nodes))

	for id, n := range nodes {
		if Retain(n.Distance, t.Metrics(n.PathCodes), policy) {
			kept[id] = n
		}
	}

	return kept
}
