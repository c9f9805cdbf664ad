package models

import "fmt"

// FilterPolicy bounds which traversal nodes are kept in a network.
type FilterPolicy struct {
	MaxAncestorGen     int  `json:"max_ancestor_gen" yaml:"max_ancestor_gen"`
	MaxDescendGen      int  `json:"max_descend_gen" yaml:"max_descend_gen"`
	MaxCollateralLinks int  `json:"max_collateral_links" yaml:"max_collateral_links"`
	MaxMarriageLinks   int  `json:"max_marriage_links" yaml:"max_marriage_links"`
	MourningCircle     bool `json:"mourning_circle" yaml:"mourning_circle"`
	IncludeReciprocal  bool `json:"include_reciprocal" yaml:"include_reciprocal"`
	IncludeDerived     bool `json:"include_derived" yaml:"include_derived"`
}

// MourningCircleSpan is the generational reach (up + down) of the mourning circle.
const MourningCircleSpan = 4

// DefaultFilterPolicy returns the policy used when a caller supplies none.
func DefaultFilterPolicy() FilterPolicy {
	return FilterPolicy{
		MaxAncestorGen:     3,
		MaxDescendGen:      3,
		MaxCollateralLinks: 1,
		MaxMarriageLinks:   1,
		MourningCircle:     false,
		IncludeReciprocal:  true,
		IncludeDerived:     true,
	}
}

// Validate rejects negative limits.
func (p FilterPolicy) Validate() error {
	limits := map[string]int{
		"max_ancestor_gen":     p.MaxAncestorGen,
		"max_descend_gen":      p.MaxDescendGen,
		"max_collateral_links": p.MaxCollateralLinks,
		"max_marriage_links":   p.MaxMarriageLinks,
	}

	for name, v := range limits {
		if v < 0 {
			return fmt.Errorf("%w: %s must be >= 0", ErrInvalidPolicy, name)
		}
	}

	return nil
}
