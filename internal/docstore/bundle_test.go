package docstore

import (
	"errors"
	"io"
	"testing"
	"testing/fstest"
)

func TestFSBundleOpen(t *testing.T) {
	b := NewFSBundle(fstest.MapFS{
		"Settings.json": {Data: []byte(`{"theme":"dark"}`)},
	})
	rc, err := b.Open("Settings")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(data) != `{"theme":"dark"}` {
		t.Errorf("data = %q", data)
	}
}

func TestFSBundleMissing(t *testing.T) {
	b := NewFSBundle(fstest.MapFS{})
	_, err := b.Open("Missing")
	if !errors.Is(err, ErrBundleFileNotFound) {
		t.Errorf("err = %v, want ErrBundleFileNotFound", err)
	}
}
