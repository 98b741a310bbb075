package docstore

import "errors"

// Sentinel errors surfaced by Store operations. Host filesystem failures are
// wrapped with context so errors.Is works against these from any layer.
var (
	ErrRootUnavailable    = errors.New("documents root unavailable")
	ErrFileNotFound       = errors.New("file not found")
	ErrDirectoryNotFound  = errors.New("directory not found")
	ErrBundleFileNotFound = errors.New("bundle file not found")
	ErrDecode             = errors.New("decode failed")
)
