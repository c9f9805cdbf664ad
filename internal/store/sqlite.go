package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite" // register the "sqlite" database/sql driver

	"github.com/persistorai/kinnet/internal/models"
)

// maxSQLiteVars stays under SQLite's bound-parameter limit.
const maxSQLiteVars = 900

// SQLite reads persons and relations from a CBDB SQLite file.
type SQLite struct {
	db  *sql.DB
	log *logrus.Logger
}

// OpenSQLite opens the database at path. The file is opened read-only unless
// writable is set.
func OpenSQLite(ctx context.Context, path string, writable bool, log *logrus.Logger) (*SQLite, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)"
	if !writable {
		dsn += "&mode=ro"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()

		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}

	return &SQLite{db: db, log: log}, nil
}

// DB exposes the underlying handle for migrations and loaders.
func (s *SQLite) DB() *sql.DB { return s.db }

// Close closes the database.
func (s *SQLite) Close() error { return s.db.Close() }

// Ping verifies the database is readable.
func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetEdges returns every edge of the requested kinds touching any of ids,
// in either stored direction.
func (s *SQLite) GetEdges(ctx context.Context, ids []models.PersonID, kinds []models.RelationKind) ([]models.Edge, error) {
	keys := validIDs(ids)
	if len(keys) == 0 {
		return []models.Edge{}, nil
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	set := newEdgeSet()

	for _, chunk := range chunkIDs(keys, maxSQLiteVars/2) {
		for _, kind := range kinds {
			query, binds, err := edgeQuery(kind, sqlitePlaceholders(len(chunk)))
			if err != nil {
				return nil, err
			}

			if err := s.collectEdges(ctx, query, kind, repeatArgs(chunk, binds), set); err != nil {
				return nil, err
			}
		}
	}

	edges := set.sorted()

	s.log.WithFields(logrus.Fields{
		"ids":   len(keys),
		"kinds": kinds,
		"edges": len(edges),
	}).Debug("store.get_edges")

	return edges, nil
}

func (s *SQLite) collectEdges(ctx context.Context, query string, kind models.RelationKind, args []any, set *edgeSet) error {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query %s edges: %w", kind, err)
	}
	defer rows.Close()

	for rows.Next() {
		e, err := scanEdge(rows.Scan, kind)
		if err != nil {
			return fmt.Errorf("scan %s edge: %w", kind, err)
		}

		set.add(e)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate %s edges: %w", kind, err)
	}

	return nil
}

// GetNodeAttributes returns the biog_main rows for ids.
func (s *SQLite) GetNodeAttributes(ctx context.Context, ids []models.PersonID) (map[models.PersonID]models.PersonAttributes, error) {
	keys := validIDs(ids)
	out := make(map[models.PersonID]models.PersonAttributes, len(keys))

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	for _, chunk := range chunkIDs(keys, maxSQLiteVars) {
		query := `SELECT ` + personColumns + ` FROM biog_main WHERE c_personid ` + sqlitePlaceholders(len(chunk))

		if err := s.collectPeople(ctx, query, repeatArgs(chunk, 1), out); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func (s *SQLite) collectPeople(ctx context.Context, query string, args []any, out map[models.PersonID]models.PersonAttributes) error {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query node attributes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanPerson(rows.Scan)
		if err != nil {
			return fmt.Errorf("scan node attributes: %w", err)
		}

		out[p.ID] = p
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate node attributes: %w", err)
	}

	return nil
}

func chunkIDs(ids []int64, size int) [][]int64 {
	var chunks [][]int64

	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		chunks = append(chunks, ids[start:end])
	}

	return chunks
}

func repeatArgs(ids []int64, times int) []any {
	args := make([]any, 0, len(ids)*times)

	for range times {
		for _, id := range ids {
			args = append(args, id)
		}
	}

	return args
}
