package models

import "fmt"

// RelationshipCode enumerates a relationship subtype (father, son, spouse, ...).
// The code carries no behavior; classification lives in the kinship table.
type RelationshipCode int

// RelationKind groups relationship codes by the table they come from.
type RelationKind string

// Relation kinds stored by the biographical database.
const (
	KindKinship     RelationKind = "kinship"
	KindAssociation RelationKind = "association"
	KindOffice      RelationKind = "office"
)

// AllRelationKinds lists every relation kind in a stable order.
func AllRelationKinds() []RelationKind {
	return []RelationKind{KindKinship, KindAssociation, KindOffice}
}

// Valid reports whether k is a known relation kind.
func (k RelationKind) Valid() bool {
	switch k {
	case KindKinship, KindAssociation, KindOffice:
		return true
	}

	return false
}

// ParseRelationKinds validates a list of kind names. An empty list selects all kinds.
func ParseRelationKinds(names []string) ([]RelationKind, error) {
	if len(names) == 0 {
		return AllRelationKinds(), nil
	}

	seen := make(map[RelationKind]bool, len(names))
	kinds := make([]RelationKind, 0, len(names))

	for _, n := range names {
		k := RelationKind(n)
		if !k.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRelationKind, n)
		}

		if !seen[k] {
			seen[k] = true
			kinds = append(kinds, k)
		}
	}

	return kinds, nil
}

// Edge is a directed relationship row as stored: From claims Code towards To.
type Edge struct {
	From PersonID         `json:"from"`
	To   PersonID         `json:"to"`
	Code RelationshipCode `json:"code"`
	Kind RelationKind     `json:"kind"`
}

// Other returns the endpoint of e opposite to id.
func (e Edge) Other(id PersonID) PersonID {
	if e.From == id {
		return e.To
	}

	return e.From
}

// EdgeKey identifies an edge for deduplication: one edge per (source, target, kind).
type EdgeKey struct {
	Source PersonID
	Target PersonID
	Kind   RelationKind
}

// Key returns the deduplication key of e.
func (e Edge) Key() EdgeKey {
	return EdgeKey{Source: e.From, Target: e.To, Kind: e.Kind}
}
