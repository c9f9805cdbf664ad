package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/jackc/pgx/v5"
)

// sanitizeURL removes credentials from a database URL for display.
func sanitizeURL(raw string) string {
	if raw == "" {
		return "(none)"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "[unparseable URL]"
	}
	u.User = nil
	return u.String()
}

// envOr returns the environment variable value or a default.
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string) bool {
	v := os.Getenv(key)
	return v == "true" || v == "1"
}

// allowedTables is the set of table names that countRows may query.
var allowedTables = map[string]bool{
	"biog_main":             true,
	"kin_data":              true,
	"assoc_data":            true,
	"posted_to_office_data": true,
}

// countRows counts rows in a target table.
func countRows(ctx context.Context, tx pgx.Tx, table string) (int, error) {
	if !allowedTables[table] {
		return 0, fmt.Errorf("disallowed table name: %s", table)
	}

	var count int
	sanitized := pgx.Identifier{table}.Sanitize()
	err := tx.QueryRow(ctx, fmt.Sprintf("SELECT count(*) FROM %s", sanitized)).Scan(&count)
	return count, err
}

type personRow struct {
	ID      int64
	Name    sql.NullString
	NameChn sql.NullString
}

// spotCheck compares 5 random persons between SQLite and PostgreSQL.
func spotCheck(ctx context.Context, tx pgx.Tx, lite *sql.DB) ([]string, error) {
	rows, err := lite.QueryContext(ctx,
		`SELECT c_personid, c_name, c_name_chn FROM biog_main
		 WHERE c_personid IS NOT NULL ORDER BY random() LIMIT 5`)
	if err != nil {
		return nil, fmt.Errorf("sample sqlite: %w", err)
	}
	defer rows.Close()

	var sample []personRow
	for rows.Next() {
		var p personRow
		if err := rows.Scan(&p.ID, &p.Name, &p.NameChn); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		sample = append(sample, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	checks := make([]string, 0, len(sample))
	for _, p := range sample {
		var pg personRow
		err := tx.QueryRow(ctx,
			`SELECT c_personid, c_name, c_name_chn FROM biog_main WHERE c_personid = $1`, p.ID,
		).Scan(&pg.ID, &pg.Name, &pg.NameChn)
		if err != nil {
			checks = append(checks, fmt.Sprintf("❌ %d: not found in postgres: %v", p.ID, err))
			continue
		}
		checks = append(checks, comparePerson(p, pg))
	}
	return checks, nil
}

func comparePerson(lite, pg personRow) string {
	if lite.Name == pg.Name && lite.NameChn == pg.NameChn {
		return fmt.Sprintf("✅ %d: %s %s", lite.ID, lite.Name.String, lite.NameChn.String)
	}
	return fmt.Sprintf("❌ %d: mismatch: pg(%s/%s) vs sqlite(%s/%s)",
		lite.ID, pg.Name.String, pg.NameChn.String, lite.Name.String, lite.NameChn.String)
}

// printReport writes the final migration summary.
func printReport(w io.Writer, r *report) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== CBDB Migration Report ===")
	if r.DryRun {
		fmt.Fprintln(w, "MODE: DRY RUN (no changes made)")
	}
	fmt.Fprintf(w, "Source: %s\n", r.Source)
	fmt.Fprintf(w, "Target: %s\n", r.Target)
	fmt.Fprintln(w)

	for _, t := range r.Tables {
		status := statusIcon(t.Inserted, t.Verified, r.DryRun)
		if t.Skipped > 0 {
			fmt.Fprintf(w, "%-22s %d read → %d inserted (%d skipped) → %d in table %s\n",
				t.Name+":", t.Read, t.Inserted, t.Skipped, t.Verified, status)
		} else {
			fmt.Fprintf(w, "%-22s %d read → %d inserted → %d in table %s\n",
				t.Name+":", t.Read, t.Inserted, t.Verified, status)
		}
	}

	if len(r.SpotChecks) > 0 {
		fmt.Fprintln(w, "\nSpot checks:")
		for _, c := range r.SpotChecks {
			fmt.Fprintf(w, "  %s\n", c)
		}
	}

	fmt.Fprintf(w, "\nDuration: %.1fs\n", r.Duration.Seconds())
	if r.Err != nil {
		fmt.Fprintf(w, "Status: FAILED: %v\n", r.Err)
	} else {
		fmt.Fprintln(w, "Status: SUCCESS")
	}
}

// statusIcon reports whether the target table holds at least the rows just
// inserted. Pre-existing rows only raise the verified count.
func statusIcon(inserted, verified int, dryRun bool) string {
	if dryRun {
		return "⏳"
	}
	if verified >= inserted {
		return "✅"
	}
	return "❌"
}
