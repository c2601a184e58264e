package database

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(); err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}
	return db
}

func TestNew_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "test.db")
	db, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	db.Close()
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db := newTestDB(t)
	if err := db.RunMigrations(); err != nil {
		t.Errorf("second RunMigrations() error = %v", err)
	}
}

func TestBlobs_SetGetDelete(t *testing.T) {
	db := newTestDB(t)

	if err := db.SetBlob("k", "v1"); err != nil {
		t.Fatalf("SetBlob() error = %v", err)
	}
	got, err := db.GetBlob("k")
	if err != nil {
		t.Fatalf("GetBlob() error = %v", err)
	}
	if got != "v1" {
		t.Errorf("GetBlob() = %q, want v1", got)
	}

	// Upsert replaces.
	if err := db.SetBlob("k", "v2"); err != nil {
		t.Fatalf("SetBlob() upsert error = %v", err)
	}
	got, _ = db.GetBlob("k")
	if got != "v2" {
		t.Errorf("GetBlob() after upsert = %q, want v2", got)
	}

	if err := db.DeleteBlob("k"); err != nil {
		t.Fatalf("DeleteBlob() error = %v", err)
	}
	if _, err := db.GetBlob("k"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetBlob() after delete error = %v, want sql.ErrNoRows", err)
	}
}

func TestDeleteBlob_Missing(t *testing.T) {
	db := newTestDB(t)
	if err := db.DeleteBlob("never-existed"); err != nil {
		t.Errorf("DeleteBlob() on missing blob error = %v, want nil", err)
	}
}
