// Package docservice coordinates vault and catalog operations for the outer
// surfaces (REST API, MCP tools).
package docservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/starford/munin/internal/catalog"
	"github.com/starford/munin/internal/docstore"
)

// DocumentDetail is the full representation of a stored document.
type DocumentDetail struct {
	Directory string          `json:"directory"`
	Name      string          `json:"name"`
	Content   json.RawMessage `json:"content"`
	Checksum  string          `json:"checksum"`
	Path      string          `json:"path"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// DocumentListItem is a lightweight item in a list response.
type DocumentListItem struct {
	Directory string    `json:"directory"`
	Name      string    `json:"name"`
	Checksum  string    `json:"checksum"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Service coordinates vault and catalog operations.
type Service struct {
	store *docstore.Store
	db    catalog.Index
}

// New creates a document service.
func New(store *docstore.Store, db catalog.Index) *Service {
	return &Service{store: store, db: db}
}

// dirRef maps an API directory name to a store reference. An empty name
// means the store's default directory.
func dirRef(directory string) docstore.Dir {
	if directory == "" {
		return docstore.Default
	}
	return docstore.Named(directory)
}

// Get loads a document, falling back to the bundle when it is absent on
// disk. Sentinel errors from the store pass through for the caller to map.
func (s *Service) Get(_ context.Context, directory, name string) (*DocumentDetail, error) {
	var content json.RawMessage
	if err := s.store.Load(dirRef(directory), name, &content, nil); err != nil {
		return nil, err
	}
	return s.detail(directory, name, content)
}

// Put validates and saves a document, then updates the catalog. The body is
// compacted so stored bytes and checksums are stable across clients.
func (s *Service) Put(_ context.Context, directory, name string, content json.RawMessage) (*DocumentDetail, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, content); err != nil {
		return nil, fmt.Errorf("%w: %s: body is not valid JSON", docstore.ErrDecode, name)
	}
	content = buf.Bytes()
	if _, err := s.store.Save(dirRef(directory), name, content, nil); err != nil {
		return nil, err
	}
	detail, err := s.detail(directory, name, content)
	if err != nil {
		return nil, err
	}
	s.catalogPut(detail, int64(len(content)))
	return detail, nil
}

// Delete removes a document from the vault and the catalog.
func (s *Service) Delete(_ context.Context, directory, name string) error {
	dir := dirRef(directory)
	if err := s.store.DeleteFile(dir, name); err != nil {
		return err
	}
	return s.db.Delete(s.relPath(dir, name))
}

// DeleteDirectory removes a whole directory and its catalog rows.
func (s *Service) DeleteDirectory(_ context.Context, directory string) error {
	dir := dirRef(directory)
	resolved := s.store.DirectoryName(dir)
	if err := s.store.DeleteDirectory(dir); err != nil {
		return err
	}
	rows, _, err := s.db.List(resolved, 500, 0)
	if err != nil {
		return err
	}
	for _, r := range rows {
		if err := s.db.Delete(r.Path); err != nil {
			return err
		}
	}
	return nil
}

// List returns cataloged documents, optionally scoped to one directory.
func (s *Service) List(_ context.Context, directory string, limit, offset int) ([]DocumentListItem, int, error) {
	rows, total, err := s.db.List(directory, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items := make([]DocumentListItem, len(rows))
	for i, r := range rows {
		items[i] = DocumentListItem{
			Directory: r.Directory,
			Name:      r.Name,
			Checksum:  r.Checksum,
			Size:      r.Size,
			UpdatedAt: r.UpdatedAt,
		}
	}
	return items, total, nil
}

// Restore copies a document from the bundle into the vault, replacing any
// local version, and returns the restored document.
func (s *Service) Restore(ctx context.Context, directory, name string) (*DocumentDetail, error) {
	if _, err := s.store.CopyFromBundle(dirRef(directory), name); err != nil {
		return nil, err
	}
	detail, err := s.Get(ctx, directory, name)
	if err != nil {
		return nil, err
	}
	s.catalogPut(detail, int64(len(detail.Content)))
	return detail, nil
}

// DirectoryName resolves an API directory name the way the store would.
func (s *Service) DirectoryName(directory string) string {
	return s.store.DirectoryName(dirRef(directory))
}

func (s *Service) relPath(dir docstore.Dir, name string) string {
	return path.Join(s.store.DirectoryName(dir), name+docstore.Ext)
}

func (s *Service) detail(directory, name string, content json.RawMessage) (*DocumentDetail, error) {
	dir := dirRef(directory)
	p, _, err := s.store.FilePath(dir, name)
	if err != nil {
		return nil, err
	}
	return &DocumentDetail{
		Directory: s.store.DirectoryName(dir),
		Name:      name,
		Content:   content,
		Checksum:  docstore.Checksum(content),
		Path:      p,
		UpdatedAt: time.Now(),
	}, nil
}

// catalogPut records a saved document; catalog failures are not fatal, the
// watcher or next sync repairs the cache.
func (s *Service) catalogPut(d *DocumentDetail, size int64) {
	_ = s.db.Upsert(catalog.DocRow{
		Path:      path.Join(d.Directory, d.Name+docstore.Ext),
		Directory: d.Directory,
		Name:      d.Name,
		Checksum:  d.Checksum,
		Size:      size,
		UpdatedAt: d.UpdatedAt,
	})
}
