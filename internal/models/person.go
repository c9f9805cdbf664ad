// Package models defines data types for the biographical network graph.
package models

import "strconv"

// PersonID identifies a person in the biographical database. Valid ids are positive.
type PersonID int64

// String returns the decimal form of the id.
func (id PersonID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Valid reports whether the id is a usable person identifier.
func (id PersonID) Valid() bool { return id > 0 }

// PersonAttributes is the minimal per-person row returned by the edge store.
type PersonAttributes struct {
	ID          PersonID `json:"id"`
	Name        string   `json:"name"`
	NameChn     string   `json:"name_chn"`
	BirthYear   *int     `json:"birth_year,omitempty"`
	DeathYear   *int     `json:"death_year,omitempty"`
	DynastyCode *int     `json:"dynasty_code,omitempty"`
}

// DisplayName returns the name to show for the given locale ("zh" prefers the
// Chinese name). An empty string means no name is recorded.
func (p PersonAttributes) DisplayName(locale string) string {
	if locale == LocaleChinese {
		if p.NameChn != "" {
			return p.NameChn
		}

		return p.Name
	}

	if p.Name != "" {
		return p.Name
	}

	return p.NameChn
}

// Supported label locales.
const (
	LocaleChinese = "zh"
	LocaleEnglish = "en"
)
