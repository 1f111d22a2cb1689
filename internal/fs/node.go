package fs

import (
	"os"
	"time"
)

// NodeKind distinguishes files from directories. It is fixed at node
// creation and never changes.
type NodeKind int

const (
	// KindFile is a regular file backed by an in-memory byte buffer
	KindFile NodeKind = iota
	// KindDirectory is a directory holding named child nodes
	KindDirectory
)

// dirSize is the nominal size reported for directory nodes; nothing is
// allocated behind it.
const dirSize = 4096

// Node is the in-memory record for a single file or directory: its
// metadata, its extended attributes, and (for files) its content
// buffer. Nodes are owned by the Registry and only mutated while the
// engine lock is held.
type Node struct {
	kind   NodeKind
	mode   os.FileMode // permission bits; the type bit lives in kind
	uid    uint32
	gid    uint32
	nlink  uint32
	atime  time.Time
	mtime  time.Time
	ctime  time.Time
	xattrs xattrSet

	// children is populated only for directories.
	children map[string]*Node

	// content is populated only for files and grows without bound.
	content []byte
}

func newFileNode(mode os.FileMode, uid, gid uint32, now time.Time) *Node {
	return &Node{
		kind:   KindFile,
		mode:   mode.Perm(),
		uid:    uid,
		gid:    gid,
		nlink:  1,
		atime:  now,
		mtime:  now,
		ctime:  now,
		xattrs: newXattrSet(),
	}
}

func newDirNode(mode os.FileMode, uid, gid uint32, now time.Time) *Node {
	return &Node{
		kind:     KindDirectory,
		mode:     mode.Perm(),
		uid:      uid,
		gid:      gid,
		nlink:    2, // "." plus the parent's entry
		atime:    now,
		mtime:    now,
		ctime:    now,
		xattrs:   newXattrSet(),
		children: make(map[string]*Node),
	}
}

// IsDir returns true for directory nodes.
func (n *Node) IsDir() bool {
	return n.kind == KindDirectory
}

// size returns the observable byte size: the content length for files,
// a nominal constant for directories. File size is never tracked
// separately from the buffer.
func (n *Node) size() int64 {
	if n.IsDir() {
		return dirSize
	}
	return int64(len(n.content))
}

// readContent returns up to size bytes starting at off. Out-of-range
// reads clamp to the buffer and never fail. The returned slice is a
// copy; callers may hold it without the engine lock.
func (n *Node) readContent(off int64, size int) []byte {
	if off >= int64(len(n.content)) || size <= 0 {
		return nil
	}
	end := off + int64(size)
	if end > int64(len(n.content)) {
		end = int64(len(n.content))
	}
	out := make([]byte, end-off)
	copy(out, n.content[off:end])
	return out
}

// writeContent overwrites data at off, zero-filling any gap between the
// current end of the buffer and off. It returns the number of bytes
// written, which is always len(data).
func (n *Node) writeContent(off int64, data []byte) int {
	end := off + int64(len(data))
	if end > int64(len(n.content)) {
		grown := make([]byte, end)
		copy(grown, n.content)
		n.content = grown
	}
	copy(n.content[off:end], data)
	return len(data)
}

// truncateContent shrinks or zero-extends the buffer to exactly length
// bytes.
func (n *Node) truncateContent(length int64) {
	switch {
	case length < int64(len(n.content)):
		n.content = n.content[:length]
	case length > int64(len(n.content)):
		grown := make([]byte, length)
		copy(grown, n.content)
		n.content = grown
	}
}

// xattrSet is the per-node attribute store: opaque byte values keyed by
// name, with insertion order preserved so listings are reproducible.
type xattrSet struct {
	names  []string
	values map[string][]byte
}

func newXattrSet() xattrSet {
	return xattrSet{values: make(map[string][]byte)}
}

// list returns the attribute names in insertion order.
func (x *xattrSet) list() []string {
	out := make([]string, len(x.names))
	copy(out, x.names)
	return out
}

func (x *xattrSet) get(name string) ([]byte, bool) {
	v, ok := x.values[name]
	return v, ok
}

// set stores value under name, appending to the order list only when
// the name is new. The value is copied so callers can reuse buffers.
func (x *xattrSet) set(name string, value []byte) {
	if _, ok := x.values[name]; !ok {
		x.names = append(x.names, name)
	}
	v := make([]byte, len(value))
	copy(v, value)
	x.values[name] = v
}

func (x *xattrSet) remove(name string) bool {
	if _, ok := x.values[name]; !ok {
		return false
	}
	delete(x.values, name)
	for i, n := range x.names {
		if n == name {
			x.names = append(x.names[:i], x.names[i+1:]...)
			break
		}
	}
	return true
}
