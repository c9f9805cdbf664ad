package store_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/persistorai/kinnet/internal/db"
	"github.com/persistorai/kinnet/internal/dbpool"
	"github.com/persistorai/kinnet/internal/models"
	"github.com/persistorai/kinnet/internal/store"
)

// setupPostgres migrates the test database and loads the fixture over a
// separate writable connection, since the store's pool is read-only. Rows are
// removed after the test.
func setupPostgres(t *testing.T) *store.Postgres {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()

	pool, err := dbpool.NewPool(ctx, dbURL, 2)
	if err != nil {
		t.Fatalf("connecting to test DB: %v", err)
	}

	t.Cleanup(pool.Close)

	if err := db.RunMigrations(ctx, pool, testLogger(), db.Migrations()); err != nil {
		t.Fatalf("migrating: %v", err)
	}

	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		t.Fatalf("connecting fixture writer: %v", err)
	}

	t.Cleanup(func() { conn.Close(context.Background()) })

	cleanup := func() {
		for _, q := range []string{
			`DELETE FROM kin_data WHERE c_personid BETWEEN 1 AND 5`,
			`DELETE FROM assoc_data WHERE c_personid BETWEEN 1 AND 5`,
			`DELETE FROM posted_to_office_data WHERE c_personid BETWEEN 1 AND 5`,
			`DELETE FROM biog_main WHERE c_personid BETWEEN 1 AND 5`,
		} {
			conn.Exec(context.Background(), q) //nolint:errcheck // best-effort cleanup.
		}
	}
	cleanup()
	t.Cleanup(cleanup)

	for _, p := range fixturePeople {
		_, err := conn.Exec(ctx,
			`INSERT INTO biog_main (c_personid, c_name, c_name_chn, c_birthyear, c_deathyear, c_dy) VALUES ($1, $2, $3, $4, $5, $6)`,
			int64(p.ID), nullable(p.Name), nullable(p.NameChn), p.BirthYear, p.DeathYear, p.DynastyCode)
		if err != nil {
			t.Fatalf("insert person: %v", err)
		}
	}

	for i, e := range fixtureEdges {
		var err error

		switch e.Kind {
		case models.KindKinship:
			_, err = conn.Exec(ctx, `INSERT INTO kin_data VALUES ($1, $2, $3)`, int64(e.From), int64(e.To), int(e.Code))
		case models.KindAssociation:
			_, err = conn.Exec(ctx, `INSERT INTO assoc_data VALUES ($1, $2, $3)`, int64(e.From), int64(e.To), int(e.Code))
		case models.KindOffice:
			for j, person := range []models.PersonID{e.From, e.To} {
				if _, err = conn.Exec(ctx,
					`INSERT INTO posted_to_office_data (c_posting_id, c_personid, c_office_id) VALUES ($1, $2, $3)`,
					int64(i*10+j), int64(person), int(e.Code)); err != nil {
					break
				}
			}
		}

		if err != nil {
			t.Fatalf("insert edge %+v: %v", e, err)
		}
	}

	return store.NewPostgres(store.Base{Pool: pool, Log: testLogger()})
}

func TestPostgres_Adapter(t *testing.T) {
	exerciseAdapter(t, setupPostgres(t))
}
