package catalog

import (
	"os"
	"testing"
	"time"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "munin-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func row(path, dir, name, cs string) DocRow {
	return DocRow{Path: path, Directory: dir, Name: name, Checksum: cs, Size: 2, UpdatedAt: time.Now()}
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM documents`).Scan(&count); err != nil {
		t.Fatalf("documents table missing: %v", err)
	}
}

func TestUpsertAndGet(t *testing.T) {
	db := testDB(t)
	if err := db.Upsert(row("docs/User.json", "docs", "User", "abc123")); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, err := db.Get("docs/User.json")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.Checksum != "abc123" || got.Name != "User" {
		t.Errorf("row = %+v, want checksum abc123 name User", got)
	}
}

func TestGetNotCataloged(t *testing.T) {
	db := testDB(t)
	got, err := db.Get("docs/nope.json")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("row = %+v, want nil", got)
	}
}

func TestUpsertUpdatesExisting(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert(row("docs/up.json", "docs", "up", "1"))
	_ = db.Upsert(row("docs/up.json", "docs", "up", "2"))

	got, _ := db.Get("docs/up.json")
	if got == nil || got.Checksum != "2" {
		t.Errorf("checksum = %+v, want 2", got)
	}
}

func TestDelete(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert(row("docs/del.json", "docs", "del", "x"))
	if err := db.Delete("docs/del.json"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, _ := db.Get("docs/del.json")
	if got != nil {
		t.Errorf("row survived delete: %+v", got)
	}
	// Deleting again is not an error.
	if err := db.Delete("docs/del.json"); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestListFiltersByDirectory(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert(row("docs/a.json", "docs", "a", "1"))
	_ = db.Upsert(row("docs/b.json", "docs", "b", "2"))
	_ = db.Upsert(row("other/c.json", "other", "c", "3"))

	rows, total, err := db.List("docs", 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Errorf("total = %d, len = %d, want 2/2", total, len(rows))
	}

	rows, total, err = db.List("", 10, 0)
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if total != 3 || len(rows) != 3 {
		t.Errorf("total = %d, len = %d, want 3/3", total, len(rows))
	}
}

func TestListPagination(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert(row("docs/a.json", "docs", "a", "1"))
	_ = db.Upsert(row("docs/b.json", "docs", "b", "2"))
	_ = db.Upsert(row("docs/c.json", "docs", "c", "3"))

	rows, total, err := db.List("docs", 2, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 || len(rows) != 2 {
		t.Errorf("total = %d, len = %d, want 3/2", total, len(rows))
	}
	rows, _, _ = db.List("docs", 2, 2)
	if len(rows) != 1 {
		t.Errorf("offset page len = %d, want 1", len(rows))
	}
}

func TestAllChecksums(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert(row("docs/a.json", "docs", "a", "1"))
	_ = db.Upsert(row("docs/b.json", "docs", "b", "2"))

	cs, err := db.AllChecksums()
	if err != nil {
		t.Fatalf("AllChecksums: %v", err)
	}
	if len(cs) != 2 || cs["docs/a.json"] != "1" || cs["docs/b.json"] != "2" {
		t.Errorf("checksums = %v", cs)
	}
}
