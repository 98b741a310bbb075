package catalog

import (
	"log/slog"
	"path"

	"github.com/starford/munin/internal/docstore"
)

// relPath returns the catalog key for a stored document.
func relPath(e docstore.Entry) string {
	return path.Join(e.Directory, e.Name+docstore.Ext)
}

func rowFor(e docstore.Entry) DocRow {
	return DocRow{
		Path:      relPath(e),
		Directory: e.Directory,
		Name:      e.Name,
		Checksum:  e.Checksum,
		Size:      e.Size,
		UpdatedAt: e.UpdatedAt,
	}
}

// Sync walks the vault and brings the catalog up to date:
//   - new/changed documents are upserted
//   - rows whose files vanished from disk are deleted
func Sync(db *DB, store *docstore.Store, logger *slog.Logger) error {
	entries, err := store.ListAll()
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		p := relPath(e)
		disk[p] = struct{}{}

		if checksums[p] == e.Checksum {
			continue
		}
		if err := db.Upsert(rowFor(e)); err != nil {
			logger.Warn("sync: upsert failed", slog.String("path", p), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: cataloged", slog.String("path", p))
		}
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.Delete(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}
