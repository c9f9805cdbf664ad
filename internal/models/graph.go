package models

import (
	"math"
	"slices"
)

// NodeRole classifies a node for presentation: central, bridge or ordinary.
type NodeRole string

// Node roles.
const (
	RoleCentral  NodeRole = "central"
	RoleBridge   NodeRole = "bridge"
	RoleOrdinary NodeRole = "ordinary"
)

// VisualTier is the fixed size/color hint attached to a role.
type VisualTier struct {
	Size  int
	Color string
}

var visualTiers = map[NodeRole]VisualTier{
	RoleCentral:  {Size: 24, Color: "#d62728"},
	RoleBridge:   {Size: 16, Color: "#ff7f0e"},
	RoleOrdinary: {Size: 10, Color: "#1f77b4"},
}

// Tier returns the visual tier for r. Unknown roles get the ordinary tier.
func (r NodeRole) Tier() VisualTier {
	if t, ok := visualTiers[r]; ok {
		return t
	}

	return visualTiers[RoleOrdinary]
}

// NodeAttributes is everything attached to a node of a GraphModel.
type NodeAttributes struct {
	Label       string      `json:"label"`
	Name        string      `json:"name,omitempty"`
	NameChn     string      `json:"name_chn,omitempty"`
	BirthYear   *int        `json:"birth_year,omitempty"`
	DeathYear   *int        `json:"death_year,omitempty"`
	DynastyCode *int        `json:"dynasty_code,omitempty"`
	IsCentral   bool        `json:"is_central"`
	IsBridge    bool        `json:"is_bridge"`
	Role        NodeRole    `json:"role"`
	Size        int         `json:"size"`
	Color       string      `json:"color"`
	Depth       int         `json:"depth"`
	Path        PathMetrics `json:"path"`
	X           *float64    `json:"x,omitempty"`
	Y           *float64    `json:"y,omitempty"`
}

// HasCoordinates reports whether the node carries finite x/y values.
func (a NodeAttributes) HasCoordinates() bool {
	return validCoord(a.X) && validCoord(a.Y)
}

func validCoord(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

// EdgeAttributes is everything attached to an edge of a GraphModel.
type EdgeAttributes struct {
	Kind   RelationKind     `json:"kind"`
	Code   RelationshipCode `json:"code"`
	Weight int              `json:"weight"`
}

// GraphEdge is a deduplicated edge of a GraphModel.
type GraphEdge struct {
	Source     PersonID       `json:"source"`
	Target     PersonID       `json:"target"`
	Attributes EdgeAttributes `json:"attributes"`
}

// GraphModel is a labeled network ready for analysis or export.
type GraphModel struct {
	Nodes map[PersonID]NodeAttributes `json:"nodes"`
	Edges []GraphEdge                 `json:"edges"`
}

// NodeIDs returns the node ids in ascending order.
func (g *GraphModel) NodeIDs() []PersonID {
	ids := make([]PersonID, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	return ids
}

// Clone returns a deep copy of g.
func (g *GraphModel) Clone() GraphModel {
	out := GraphModel{
		Nodes: make(map[PersonID]NodeAttributes, len(g.Nodes)),
		Edges: make([]GraphEdge, len(g.Edges)),
	}

	for id, a := range g.Nodes {
		a.BirthYear = clonePtr(a.BirthYear)
		a.DeathYear = clonePtr(a.DeathYear)
		a.DynastyCode = clonePtr(a.DynastyCode)
		a.X = clonePtr(a.X)
		a.Y = clonePtr(a.Y)
		out.Nodes[id] = a
	}

	copy(out.Edges, g.Edges)

	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}

	v := *p

	return &v
}

// DegreeDistribution summarises node degrees.
type DegreeDistribution struct {
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	Median float64 `json:"median"`
	Mean   float64 `json:"mean"`
}

// GraphMetrics holds whole-graph statistics.
type GraphMetrics struct {
	NodeCount             int                `json:"node_count"`
	EdgeCount             int                `json:"edge_count"`
	Density               float64            `json:"density"`
	AvgDegree             float64            `json:"avg_degree"`
	ClusteringCoefficient float64            `json:"clustering_coefficient"`
	DegreeDistribution    DegreeDistribution `json:"degree_distribution"`
	ComponentCount        int                `json:"component_count"`
	LargestComponentSize  int                `json:"largest_component_size"`
	IsConnected           bool               `json:"is_connected"`
}

// Centrality holds betweenness scores. When Exact is false the scores were
// estimated from SampleSize source nodes and scaled to the full node count.
type Centrality struct {
	Scores     map[PersonID]float64 `json:"scores"`
	SampleSize int                  `json:"sample_size"`
	Exact      bool                 `json:"exact"`
}

// Network is the complete result of building a network from seeds.
type Network struct {
	Seeds     []PersonID   `json:"seeds"`
	Graph     GraphModel   `json:"graph"`
	Metrics   GraphMetrics `json:"metrics"`
	Truncated bool         `json:"truncated"`
}

// Clone returns a deep copy of n.
func (n *Network) Clone() *Network {
	return &Network{
		Seeds:     slices.Clone(n.Seeds),
		Graph:     n.Graph.Clone(),
		Metrics:   n.Metrics,
		Truncated: n.Truncated,
	}
}
