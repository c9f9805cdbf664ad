package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type columnKind int

const (
	intColumn columnKind = iota
	textColumn
)

type column struct {
	Name string
	Kind columnKind
	// Key columns must be non-null; rows missing one are not read.
	Key bool
}

// tableSpec describes one CBDB table copied verbatim.
type tableSpec struct {
	Name    string
	Columns []column
}

// tables lists the CBDB tables kinnet reads, in load order. Column order
// matches the PostgreSQL schema so staging rows can be moved with SELECT *.
var tables = []tableSpec{
	{Name: "biog_main", Columns: []column{
		{Name: "c_personid", Kind: intColumn, Key: true},
		{Name: "c_name", Kind: textColumn},
		{Name: "c_name_chn", Kind: textColumn},
		{Name: "c_birthyear", Kind: intColumn},
		{Name: "c_deathyear", Kind: intColumn},
		{Name: "c_dy", Kind: intColumn},
	}},
	{Name: "kin_data", Columns: []column{
		{Name: "c_personid", Kind: intColumn, Key: true},
		{Name: "c_kin_id", Kind: intColumn, Key: true},
		{Name: "c_kin_code", Kind: intColumn, Key: true},
	}},
	{Name: "assoc_data", Columns: []column{
		{Name: "c_personid", Kind: intColumn, Key: true},
		{Name: "c_assoc_id", Kind: intColumn, Key: true},
		{Name: "c_assoc_code", Kind: intColumn, Key: true},
	}},
	{Name: "posted_to_office_data", Columns: []column{
		{Name: "c_posting_id", Kind: intColumn, Key: true},
		{Name: "c_personid", Kind: intColumn, Key: true},
		{Name: "c_office_id", Kind: intColumn, Key: true},
	}},
}

func (t tableSpec) columnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// whereClause filters out rows with a null key column.
func (t tableSpec) whereClause() string {
	var conds []string
	for _, c := range t.Columns {
		if c.Key {
			conds = append(conds, c.Name+" IS NOT NULL")
		}
	}
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

func (t tableSpec) selectSQL() string {
	return "SELECT " + strings.Join(t.columnNames(), ", ") + " FROM " + t.Name + t.whereClause()
}

func (t tableSpec) countSource(ctx context.Context, lite *sql.DB) (int, error) {
	var n int
	err := lite.QueryRowContext(ctx, "SELECT count(*) FROM "+t.Name+t.whereClause()).Scan(&n)
	return n, err
}

// rowSource adapts sql.Rows to pgx.CopyFromSource, normalising SQL NULLs
// to nil so COPY writes them as NULL.
type rowSource struct {
	rows   *sql.Rows
	cols   []column
	ints   []sql.NullInt64
	texts  []sql.NullString
	dest   []any
	values []any
	err    error
}

func newRowSource(rows *sql.Rows, cols []column) *rowSource {
	s := &rowSource{
		rows:   rows,
		cols:   cols,
		ints:   make([]sql.NullInt64, len(cols)),
		texts:  make([]sql.NullString, len(cols)),
		dest:   make([]any, len(cols)),
		values: make([]any, len(cols)),
	}
	for i, c := range cols {
		if c.Kind == textColumn {
			s.dest[i] = &s.texts[i]
		} else {
			s.dest[i] = &s.ints[i]
		}
	}
	return s
}

func (s *rowSource) Next() bool {
	if s.err != nil || !s.rows.Next() {
		return false
	}
	if err := s.rows.Scan(s.dest...); err != nil {
		s.err = fmt.Errorf("scan sqlite row: %w", err)
		return false
	}
	for i, c := range s.cols {
		s.values[i] = nil
		switch c.Kind {
		case textColumn:
			if s.texts[i].Valid {
				s.values[i] = s.texts[i].String
			}
		default:
			if s.ints[i].Valid {
				s.values[i] = s.ints[i].Int64
			}
		}
	}
	return true
}

func (s *rowSource) Values() ([]any, error) {
	return s.values, nil
}

func (s *rowSource) Err() error {
	if s.err != nil {
		return s.err
	}
	return s.rows.Err()
}
