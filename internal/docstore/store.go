// Package docstore persists structured objects as JSON documents under an
// application documents root, with optional bootstrap copies from a read-only
// bundle of shipped resources.
//
// Layout on disk is <root>/<directory>/<name>.json, one file per document.
// The filesystem is the source of truth; there is no index or metadata file.
package docstore

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// DefaultDirectoryName is used for Default references when no
// WithDefaultDirectory option is given.
const DefaultDirectoryName = "documents"

// RootFunc resolves the documents root. It runs on every operation, so a
// root that moves or becomes unavailable is observed immediately.
type RootFunc func() (string, error)

// Store is the persistence facade over the documents root.
//
// Operations are synchronous and unguarded: concurrent writes to the same
// document race at the filesystem level (last rename wins), and configuration
// mutators must be serialized by the caller.
type Store struct {
	rootFn     RootFunc
	defaultDir string
	bundle     Bundle
	appName    string
}

// Option configures a Store.
type Option func(*Store)

// WithRoot pins the documents root to a fixed directory.
func WithRoot(root string) Option {
	return func(s *Store) {
		s.rootFn = func() (string, error) { return root, nil }
	}
}

// WithRootFunc supplies a custom documents-root resolver.
func WithRootFunc(fn RootFunc) Option {
	return func(s *Store) { s.rootFn = fn }
}

// WithDefaultDirectory sets the directory used by Default references.
func WithDefaultDirectory(name string) Option {
	return func(s *Store) { s.defaultDir = name }
}

// WithBundle sets the read-only bundle used for fallback copies.
func WithBundle(b Bundle) Option {
	return func(s *Store) { s.bundle = b }
}

// WithAppName changes the application segment of the XDG default root. It has
// no effect when WithRoot or WithRootFunc is also given.
func WithAppName(name string) Option {
	return func(s *Store) { s.appName = name }
}

// New creates a Store. Without options, documents live under the XDG data
// home for the application and Default resolves to DefaultDirectoryName.
func New(opts ...Option) *Store {
	s := &Store{
		defaultDir: DefaultDirectoryName,
		appName:    "munin",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rootFn == nil {
		app := s.appName
		s.rootFn = func() (string, error) {
			return filepath.Join(xdg.DataHome, app), nil
		}
	}
	return s
}

// Root resolves the current documents root. The root is re-resolved on
// every call, so a changed environment is picked up immediately.
func (s *Store) Root() (string, error) {
	return s.root()
}

// root resolves the documents root for this operation.
func (s *Store) root() (string, error) {
	root, err := s.rootFn()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRootUnavailable, err)
	}
	return root, nil
}

// SetDefaultDirectory changes the directory used by Default references for
// all subsequent operations. Paths already resolved are unaffected.
func (s *Store) SetDefaultDirectory(name string) { s.defaultDir = name }

// DefaultDirectory returns the currently configured default directory name.
func (s *Store) DefaultDirectory() string { return s.defaultDir }

// DirectoryName returns the concrete directory name dir resolves to.
func (s *Store) DirectoryName(dir Dir) string { return dir.Resolve(s.defaultDir) }

// SetBundle replaces the bundle used for fallback copies.
func (s *Store) SetBundle(b Bundle) { s.bundle = b }

// Save encodes v with c (JSON when nil) and atomically writes it as
// <name>.json under dir, creating the directory if needed. Returns the
// resolved file path.
func (s *Store) Save(dir Dir, name string, v any, c Codec) (string, error) {
	root, err := s.root()
	if err != nil {
		return "", err
	}
	if c == nil {
		c = JSONCodec{}
	}
	data, err := c.Encode(v)
	if err != nil {
		return "", fmt.Errorf("docstore: encode %s: %w", name, err)
	}
	path := FilePath(root, name, dir, s.defaultDir)
	if err := writeAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// Load reads <name>.json from dir and decodes it into v with c (JSON when
// nil). A file missing on disk is first materialized from the bundle; when
// the bundle cannot supply it either, the bundle lookup error is returned.
func (s *Store) Load(dir Dir, name string, v any, c Codec) error {
	root, err := s.root()
	if err != nil {
		return err
	}
	path := FilePath(root, name, dir, s.defaultDir)
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("docstore: stat %s: %w", name, err)
		}
		if _, err := s.CopyFromBundle(dir, name); err != nil {
			return err
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("docstore: read %s: %w", name, err)
	}
	if c == nil {
		c = JSONCodec{}
	}
	if err := c.Decode(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDecode, name, err)
	}
	return nil
}

// DeleteFile removes the document name from dir. ErrFileNotFound when no
// such file exists.
func (s *Store) DeleteFile(dir Dir, name string) error {
	root, err := s.root()
	if err != nil {
		return err
	}
	path := FilePath(root, name, dir, s.defaultDir)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrFileNotFound, name)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("docstore: delete %s: %w", name, err)
	}
	return nil
}

// DeleteDirectory removes the resolved directory and everything in it.
// ErrDirectoryNotFound when the directory does not exist on disk.
func (s *Store) DeleteDirectory(dir Dir) error {
	root, err := s.root()
	if err != nil {
		return err
	}
	resolved := dir.Resolve(s.defaultDir)
	path := filepath.Join(root, resolved)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrDirectoryNotFound, resolved)
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("docstore: delete directory %s: %w", resolved, err)
	}
	return nil
}

// CopyFromBundle materializes <name>.json under dir from the configured
// bundle, replacing any existing file (last copy wins). Returns the resolved
// target path.
func (s *Store) CopyFromBundle(dir Dir, name string) (string, error) {
	if s.bundle == nil {
		return "", fmt.Errorf("%w: %s (no bundle configured)", ErrBundleFileNotFound, name)
	}
	src, err := s.bundle.Open(name)
	if err != nil {
		return "", err
	}
	defer src.Close()

	root, err := s.root()
	if err != nil {
		return "", err
	}
	path := FilePath(root, name, dir, s.defaultDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("docstore: mkdir: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			return "", fmt.Errorf("docstore: replace %s: %w", name, err)
		}
	}
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("docstore: create %s: %w", name, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return "", fmt.Errorf("docstore: copy %s: %w", name, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("docstore: close %s: %w", name, err)
	}
	return path, nil
}

// FilePath returns the concrete path for name under dir and whether a file
// currently exists there. Absence is not an error.
func (s *Store) FilePath(dir Dir, name string) (string, bool, error) {
	root, err := s.root()
	if err != nil {
		return "", false, err
	}
	path := FilePath(root, name, dir, s.defaultDir)
	if _, err := os.Stat(path); err != nil {
		return path, false, nil
	}
	return path, true, nil
}

// Contains reports whether the document name exists in dir. No read happens.
func (s *Store) Contains(dir Dir, name string) (bool, error) {
	_, ok, err := s.FilePath(dir, name)
	return ok, err
}

// writeAtomic writes data via temp file, fsync and rename, so readers
// observe either the previous or the new complete content.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("docstore: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".munin-tmp-*")
	if err != nil {
		return fmt.Errorf("docstore: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("docstore: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("docstore: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("docstore: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("docstore: rename: %w", err)
	}
	success = true
	return nil
}
