package docstore

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Entry describes one stored document as seen on disk.
type Entry struct {
	Directory string    `json:"directory"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

// List returns entries for every document in dir. A directory that does not
// exist yet yields an empty list, not an error.
func (s *Store) List(dir Dir) ([]Entry, error) {
	root, err := s.root()
	if err != nil {
		return nil, err
	}
	return listDir(root, dir.Resolve(s.defaultDir))
}

// ListAll returns entries for every document in every directory under the
// root. Used by the catalog to reconcile against disk.
func (s *Store) ListAll() ([]Entry, error) {
	root, err := s.root()
	if err != nil {
		return nil, err
	}
	dirs, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("docstore: list root: %w", err)
	}
	var out []Entry
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		entries, err := listDir(root, d.Name())
		if err != nil {
			return nil, err
		}
		out = append(out, entries...)
	}
	return out, nil
}

func listDir(root, dirName string) ([]Entry, error) {
	base := filepath.Join(root, dirName)
	files, err := os.ReadDir(base)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("docstore: list %s: %w", dirName, err)
	}
	var out []Entry
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), Ext) {
			continue
		}
		p := filepath.Join(base, f.Name())
		info, err := f.Info()
		if err != nil {
			return nil, fmt.Errorf("docstore: stat %s: %w", f.Name(), err)
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("docstore: read %s: %w", f.Name(), err)
		}
		out = append(out, Entry{
			Directory: dirName,
			Name:      strings.TrimSuffix(f.Name(), Ext),
			Path:      p,
			Checksum:  Checksum(data),
			Size:      info.Size(),
			UpdatedAt: info.ModTime(),
		})
	}
	return out, nil
}

// Checksum returns the hex-encoded SHA-256 digest of a document's bytes.
func Checksum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
