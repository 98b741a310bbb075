package docstore

import "path/filepath"

// Ext is the extension every stored document carries on disk. Logical names
// never include it; path resolution always appends it.
const Ext = ".json"

// Dir is a logical directory reference inside the documents root. The zero
// value (Default) resolves through the store's configured default directory
// name at call time; Named pins an explicit directory.
type Dir struct {
	name string
}

// Default refers to the store's currently configured default directory.
var Default = Dir{}

// Named returns a reference to an explicitly named directory. The name is
// expected to be a single path segment; nothing beyond what filepath.Join
// does is enforced.
func Named(name string) Dir { return Dir{name: name} }

// IsDefault reports whether d resolves through the default directory name.
func (d Dir) IsDefault() bool { return d.name == "" }

// Resolve returns the concrete directory name: defaultName for the default
// reference, the embedded name otherwise. Total, never fails.
func (d Dir) Resolve(defaultName string) string {
	if d.name == "" {
		return defaultName
	}
	return d.name
}

// DirPath returns the directory path for d under root.
func DirPath(root string, d Dir, defaultName string) string {
	return filepath.Join(root, d.Resolve(defaultName))
}

// FilePath returns the file path for the document name under d. Names
// containing separators or traversal segments are passed through untouched;
// callers own that risk.
func FilePath(root, name string, d Dir, defaultName string) string {
	return filepath.Join(DirPath(root, d, defaultName), name+Ext)
}
