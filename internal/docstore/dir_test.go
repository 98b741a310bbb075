package docstore

import (
	"path/filepath"
	"testing"
)

func TestDirResolve(t *testing.T) {
	if got := Default.Resolve("docs"); got != "docs" {
		t.Errorf("Default.Resolve = %q, want docs", got)
	}
	if got := Named("vault").Resolve("docs"); got != "vault" {
		t.Errorf("Named.Resolve = %q, want vault", got)
	}
	if !Default.IsDefault() || Named("vault").IsDefault() {
		t.Error("IsDefault misreports")
	}
}

func TestFilePathAppendsExtension(t *testing.T) {
	got := FilePath("/data", "User", Default, "docs")
	want := filepath.Join("/data", "docs", "User.json")
	if got != want {
		t.Errorf("FilePath = %q, want %q", got, want)
	}
}

func TestDirPathNamed(t *testing.T) {
	got := DirPath("/data", Named("vault"), "docs")
	want := filepath.Join("/data", "vault")
	if got != want {
		t.Errorf("DirPath = %q, want %q", got, want)
	}
}
