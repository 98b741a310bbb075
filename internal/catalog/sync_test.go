package catalog

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/starford/munin/internal/docstore"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestSyncCatalogsDisk(t *testing.T) {
	db := testDB(t)
	store := docstore.New(docstore.WithRoot(t.TempDir()))
	_, _ = store.Save(docstore.Default, "User", map[string]string{"a": "b"}, nil)
	_, _ = store.Save(docstore.Named("other"), "Thing", map[string]string{"c": "d"}, nil)

	if err := Sync(db, store, quietLogger()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	_, total, err := db.List("", 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
}

func TestSyncRemovesStale(t *testing.T) {
	db := testDB(t)
	store := docstore.New(docstore.WithRoot(t.TempDir()))

	_ = db.Upsert(DocRow{Path: "docs/gone.json", Directory: "docs", Name: "gone", Checksum: "x", UpdatedAt: time.Now()})

	if err := Sync(db, store, quietLogger()); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	got, _ := db.Get("docs/gone.json")
	if got != nil {
		t.Errorf("stale row survived sync: %+v", got)
	}
}

func TestSyncSkipsUnchanged(t *testing.T) {
	db := testDB(t)
	store := docstore.New(docstore.WithRoot(t.TempDir()))
	_, _ = store.Save(docstore.Default, "User", map[string]string{"a": "b"}, nil)

	if err := Sync(db, store, quietLogger()); err != nil {
		t.Fatalf("first Sync: %v", err)
	}
	before, _ := db.Get("documents/User.json")
	if before == nil {
		t.Fatal("row missing after first sync")
	}

	if err := Sync(db, store, quietLogger()); err != nil {
		t.Fatalf("second Sync: %v", err)
	}
	after, _ := db.Get("documents/User.json")
	if after == nil || after.Checksum != before.Checksum {
		t.Errorf("row changed across no-op sync: %+v vs %+v", before, after)
	}
}
