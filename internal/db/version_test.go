package db_test

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/persistorai/kinnet/internal/db"
)

func TestSchemaVersion(t *testing.T) {
	if got := db.SchemaVersion(); got != 2 {
		t.Errorf("SchemaVersion() = %d, want 2", got)
	}
}

func TestMigrations_AreGooseAnnotated(t *testing.T) {
	err := fs.WalkDir(db.Migrations(), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".sql") {
			return err
		}

		data, err := fs.ReadFile(db.Migrations(), path)
		if err != nil {
			return err
		}

		body := string(data)
		if !strings.Contains(body, "-- +goose Up") || !strings.Contains(body, "-- +goose Down") {
			t.Errorf("%s: missing goose annotations", path)
		}

		return nil
	})
	if err != nil {
		t.Fatalf("walking migrations: %v", err)
	}
}
