package fs

import (
	"path"
	"strings"

	"metafs/internal/logging"
)

var (
	pathLogger = logging.GetLogger().WithPrefix("path")
)

// Path represents an absolute path inside the in-memory filesystem.
// Paths are always cleaned and always start with "/"; the engine never
// sees a relative path or a trailing slash (other than the root itself).
type Path struct {
	p string
}

// NewPath creates a new Path, cleaning the input and forcing it
// absolute.
func NewPath(raw string) Path {
	cleaned := path.Clean(raw)
	if !strings.HasPrefix(cleaned, "/") {
		cleaned = "/" + cleaned
	}
	pathLogger.Trace("Creating path: %q -> %q", raw, cleaned)
	return Path{p: cleaned}
}

// String returns the string form of the path.
func (pp Path) String() string {
	return pp.p
}

// IsRoot returns true for the filesystem root "/".
func (pp Path) IsRoot() bool {
	return pp.p == "/"
}

// Parent returns the path of the containing directory. The root is its
// own parent.
func (pp Path) Parent() Path {
	return NewPath(path.Dir(pp.p))
}

// Base returns the final path component. For the root it returns "/".
func (pp Path) Base() string {
	return path.Base(pp.p)
}

// Child returns the path of a directory entry under this path. The name
// must be a single component; callers get that guarantee from the
// kernel, which never passes separators in entry names.
func (pp Path) Child(name string) Path {
	if pp.IsRoot() {
		return NewPath("/" + name)
	}
	return NewPath(pp.p + "/" + name)
}

// Split returns the parent path and the final component.
func (pp Path) Split() (Path, string) {
	return pp.Parent(), pp.Base()
}
