package docstore

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
)

// Bundle is a read-only store of pre-packaged documents, looked up by the
// same logical name used for saved files (the .json extension is implied).
type Bundle interface {
	// Open returns the named resource, or an error wrapping
	// ErrBundleFileNotFound when the bundle does not contain it.
	Open(name string) (io.ReadCloser, error)
}

// FSBundle serves bundle lookups from an fs.FS, typically os.DirFS over a
// shipped resource directory or an embed.FS.
type FSBundle struct {
	fsys fs.FS
}

// NewFSBundle wraps fsys as a Bundle.
func NewFSBundle(fsys fs.FS) *FSBundle { return &FSBundle{fsys: fsys} }

// Open opens <name>.json inside the wrapped filesystem.
func (b *FSBundle) Open(name string) (io.ReadCloser, error) {
	f, err := b.fsys.Open(name + Ext)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrBundleFileNotFound, name)
		}
		return nil, fmt.Errorf("docstore: open bundle resource %s: %w", name, err)
	}
	return f, nil
}
