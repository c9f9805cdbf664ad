package models

// TraversalNode is one reached person in a single traversal run.
// Distance is the minimum hop count found; PathCodes is the code sequence from
// the seed along that shortest path.
type TraversalNode struct {
	PersonID      PersonID           `json:"person_id"`
	Distance      int                `json:"distance"`
	PathCodes     []RelationshipCode `json:"path_codes"`
	ImmediateEdge *Edge              `json:"immediate_edge,omitempty"`
}

// TraversedEdge is an edge whose endpoints were both reached, with the combined
// distance of its endpoints in the run that discovered it.
type TraversedEdge struct {
	Edge
	Weight int `json:"weight"`
}

// TraverseResult holds the reachability set discovered from one seed.
type TraverseResult struct {
	Seed      PersonID                   `json:"seed"`
	Nodes     map[PersonID]TraversalNode `json:"nodes"`
	Edges     []TraversedEdge            `json:"edges"`
	Truncated bool                       `json:"truncated"`
}

// PathMetrics summarises a relationship path by kinship dimension.
type PathMetrics struct {
	GenerationsUp   int `json:"generations_up"`
	GenerationsDown int `json:"generations_down"`
	CollateralSteps int `json:"collateral_steps"`
	MarriageLinks   int `json:"marriage_links"`
}
