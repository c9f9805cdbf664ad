// Package kinship classifies relationship codes along kinship dimensions and
// prunes traversal results by generation and link-count policies.
//
// The code→category mapping is data: an embedded YAML table that deployments
// can replace with their own file.
package kinship

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/persistorai/kinnet/internal/models"
)

//go:embed relationships.yaml
var defaultTable []byte

// Category is the kinship dimension a relationship code moves along.
type Category string

// Known categories. Anything else is rejected when a table is loaded.
const (
	CategoryParent  Category = "parent"
	CategoryChild   Category = "child"
	CategorySibling Category = "sibling"
	CategorySpouse  Category = "spouse"
)

// Delta is the per-code contribution to each PathMetrics dimension.
type Delta struct {
	Up         int
	Down       int
	Collateral int
	Marriage   int
}

var categoryDeltas = map[Category]Delta{
	CategoryParent:  {Up: 1},
	CategoryChild:   {Down: 1},
	CategorySibling: {Collateral: 1},
	CategorySpouse:  {Marriage: 1},
}

// Entry is one row of the relationship table.
type Entry struct {
	Code       models.RelationshipCode  `yaml:"code"`
	Label      string                   `yaml:"label"`
	Name       string                   `yaml:"name"`
	Category   Category                 `yaml:"category"`
	Reciprocal *models.RelationshipCode `yaml:"reciprocal"`
}

type tableFile struct {
	Codes []Entry `yaml:"codes"`
}

// Table maps relationship codes to kinship deltas. A Table is read-only after
// loading and safe for concurrent use.
type Table struct {
	entries map[models.RelationshipCode]Entry
}

// Load parses a YAML relationship table.
func Load(r io.Reader) (*Table, error) {
	var f tableFile

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding relationship table: %w", err)
	}

	t := &Table{entries: make(map[models.RelationshipCode]Entry, len(f.Codes))}

	for _, e := range f.Codes {
		if _, ok := categoryDeltas[e.Category]; !ok {
			return nil, fmt.Errorf("relationship code %d: unknown category %q", e.Code, e.Category)
		}

		if _, dup := t.entries[e.Code]; dup {
			return nil, fmt.Errorf("relationship code %d listed twice", e.Code)
		}

		t.entries[e.Code] = e
	}

	return t, nil
}

// LoadFile parses the relationship table at path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening relationship table: %w", err)
	}
	defer f.Close()

	return Load(f)
}

var loadDefault = sync.OnceValues(func() (*Table, error) {
	return Load(bytes.NewReader(defaultTable))
})

// Default returns the embedded relationship table.
func Default() *Table {
	t, err := loadDefault()
	if err != nil {
		// The embedded table is compiled in; failing to parse it is a build defect.
		panic(fmt.Sprintf("kinship: embedded relationship table: %v", err))
	}

	return t
}

// Entry returns the table row for code.
func (t *Table) Entry(code models.RelationshipCode) (Entry, bool) {
	e, ok := t.entries[code]

	return e, ok
}

// Len returns the number of classified codes.
func (t *Table) Len() int { return len(t.entries) }

// Classify returns the deltas contributed by a single code. Unlisted codes
// contribute zero to every dimension.
func (t *Table) Classify(code models.RelationshipCode) Delta {
	e, ok := t.entries[code]
	if !ok {
		return Delta{}
	}

	return categoryDeltas[e.Category]
}

// Reciprocal returns the code that describes the relationship seen from the
// other endpoint. Codes without a recorded reciprocal are returned unchanged.
func (t *Table) Reciprocal(code models.RelationshipCode) models.RelationshipCode {
	if e, ok := t.entries[code]; ok && e.Reciprocal != nil {
		return *e.Reciprocal
	}

	return code
}

// Metrics sums the per-code deltas along path. The sum does not depend on order.
func (t *Table) Metrics(path []models.RelationshipCode) models.PathMetrics {
	var m models.PathMetrics

	for _, code := range path {
		d := t.Classify(code)
		m.GenerationsUp += d.Up
		m.GenerationsDown += d.Down
		m.CollateralSteps += d.Collateral
		m.MarriageLinks += d.Marriage
	}

	return m
}
