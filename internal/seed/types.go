// Package seed describes the tree a fresh mount starts with. A seed is
// read once at startup and applied through the engine's own operations;
// nothing is ever written back, so all filesystem state stays volatile.
package seed

// File describes one seeded file: its path, permission bits, initial
// content, and extended attributes.
type File struct {
	Path    string            `json:"path"`
	Mode    uint32            `json:"mode,omitempty"`
	Content string            `json:"content,omitempty"`
	Xattrs  map[string]string `json:"xattrs,omitempty"`
}

// Directory describes one seeded directory.
type Directory struct {
	Path   string            `json:"path"`
	Mode   uint32            `json:"mode,omitempty"`
	Xattrs map[string]string `json:"xattrs,omitempty"`
}

// Seed is the bootstrap description. Directories are created before
// files, in the order listed, so parents must precede children.
type Seed struct {
	Directories []Directory `json:"directories,omitempty"`
	Files       []File      `json:"files,omitempty"`
}
