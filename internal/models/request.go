package models

// BuildRequest asks for a network around one or more seed persons.
type BuildRequest struct {
	Seeds []PersonID `json:"seeds"`
	Depth int        `json:"depth"`
	// Policy falls back to DefaultFilterPolicy when nil.
	Policy *FilterPolicy `json:"policy,omitempty"`
	// Kinds names the relation kinds to follow; empty follows all of them.
	Kinds []string `json:"kinds,omitempty"`
	// MaxNodes lowers the configured ceiling when positive. It bounds the whole
	// network, not each seed.
	MaxNodes int    `json:"max_nodes,omitempty"`
	Locale   string `json:"locale,omitempty"`
	Layout   bool   `json:"layout,omitempty"`
}
