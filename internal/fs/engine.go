package fs

import (
	"os"
	"sort"
	"sync"
	"time"

	"metafs/internal/logging"
)

var (
	engLogger = logging.GetLogger().WithPrefix("engine")
)

// XattrFlags controls how Setxattr treats an existing attribute. The
// numeric values match the XATTR_CREATE/XATTR_REPLACE flags the kernel
// passes through the bridge.
type XattrFlags uint32

const (
	// XattrCreateOrReplace inserts or overwrites unconditionally
	XattrCreateOrReplace XattrFlags = 0
	// XattrCreate fails with ErrExists if the name is present
	XattrCreate XattrFlags = 1
	// XattrReplace fails with ErrNoData if the name is absent
	XattrReplace XattrFlags = 2
)

// NodeAttr is a metadata snapshot returned by Getattr. It is a value
// copy; holding one does not pin the node.
type NodeAttr struct {
	Kind  NodeKind
	Mode  os.FileMode
	Uid   uint32
	Gid   uint32
	Size  int64
	Nlink uint32
	Atime time.Time
	Mtime time.Time
	Ctime time.Time
}

// DirEntry is a single readdir result.
type DirEntry struct {
	Name string
	Kind NodeKind
}

// Engine is the in-memory filesystem: the node tree plus the operation
// handlers the mount adapter calls. One engine exists per mount; it is
// constructed at mount time and discarded at unmount, and all of its
// state is volatile.
//
// A single coarse lock guards the whole tree. Operations are
// synchronous and touch no external I/O, so hold times stay short and
// every handler is one atomic step against the current tree.
type Engine struct {
	mu  sync.RWMutex
	reg *Registry
	uid uint32
	gid uint32
}

// NewEngine creates an engine holding an empty tree: a root directory
// with mode 0755 owned by the given identity.
func NewEngine(uid, gid uint32) *Engine {
	engLogger.Info("Creating in-memory filesystem (uid=%d gid=%d)", uid, gid)
	root := newDirNode(0o755, uid, gid, time.Now())
	return &Engine{
		reg: newRegistry(root),
		uid: uid,
		gid: gid,
	}
}

// snapshot copies a node's metadata. Caller holds at least a read lock.
func snapshot(n *Node) *NodeAttr {
	return &NodeAttr{
		Kind:  n.kind,
		Mode:  n.mode,
		Uid:   n.uid,
		Gid:   n.gid,
		Size:  n.size(),
		Nlink: n.nlink,
		Atime: n.atime,
		Mtime: n.mtime,
		Ctime: n.ctime,
	}
}

// Getattr returns the metadata snapshot for the node at path.
func (e *Engine) Getattr(path Path) (*NodeAttr, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	engLogger.Trace("getattr %q", path)
	n, err := e.reg.resolve(path)
	if err != nil {
		return nil, newError(OpGetattr, path, err)
	}
	return snapshot(n), nil
}

// Readdir lists the directory at path: ".", "..", then the children
// sorted by name.
func (e *Engine) Readdir(path Path) ([]DirEntry, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	engLogger.Debug("readdir %q", path)
	n, err := e.reg.resolve(path)
	if err != nil {
		return nil, newError(OpReaddir, path, err)
	}
	if !n.IsDir() {
		return nil, newError(OpReaddir, path, ErrNotDirectory)
	}

	entries := []DirEntry{
		{Name: ".", Kind: KindDirectory},
		{Name: "..", Kind: KindDirectory},
	}
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		entries = append(entries, DirEntry{Name: name, Kind: n.children[name].kind})
	}
	return entries, nil
}

// Create inserts a new empty file at path with the given permission
// bits.
func (e *Engine) Create(path Path, mode os.FileMode) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	engLogger.Info("create %q (mode=%o)", path, mode.Perm())
	if path.IsRoot() {
		return newError(OpCreate, path, ErrExists)
	}
	now := time.Now()
	node := newFileNode(mode, e.uid, e.gid, now)
	if err := e.insertLocked(OpCreate, path, node, now); err != nil {
		return err
	}
	return nil
}

// Mkdir inserts a new empty directory at path.
func (e *Engine) Mkdir(path Path, mode os.FileMode) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	engLogger.Info("mkdir %q (mode=%o)", path, mode.Perm())
	if path.IsRoot() {
		return newError(OpMkdir, path, ErrExists)
	}
	now := time.Now()
	node := newDirNode(mode, e.uid, e.gid, now)
	if err := e.insertLocked(OpMkdir, path, node, now); err != nil {
		return err
	}
	return nil
}

// insertLocked wires node into the tree at path and bumps the parent's
// times. Caller holds the write lock.
func (e *Engine) insertLocked(op string, path Path, node *Node, now time.Time) error {
	parentPath, name := path.Split()
	parent, err := e.reg.parentOf(path)
	if err != nil {
		return newError(op, path, err)
	}
	if err := e.reg.insert(parentPath, name, node); err != nil {
		return newError(op, path, err)
	}
	parent.mtime = now
	parent.ctime = now
	return nil
}

// Open validates that path resolves to a file. Reads and writes are
// path-addressed, so no handle state is created.
func (e *Engine) Open(path Path) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	engLogger.Debug("open %q", path)
	n, err := e.reg.resolve(path)
	if err != nil {
		return newError(OpOpen, path, err)
	}
	if n.IsDir() {
		return newError(OpOpen, path, ErrIsDirectory)
	}
	return nil
}

// Read returns up to size bytes of file content starting at offset,
// clamped to the buffer. Reading past the end yields a short (possibly
// empty) result, never an error.
func (e *Engine) Read(path Path, offset int64, size int) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	engLogger.Trace("read %q offset=%d size=%d", path, offset, size)
	if offset < 0 || size < 0 {
		return nil, newError(OpRead, path, ErrInvalidArgument)
	}
	n, err := e.reg.resolve(path)
	if err != nil {
		return nil, newError(OpRead, path, err)
	}
	if n.IsDir() {
		return nil, newError(OpRead, path, ErrIsDirectory)
	}
	data := n.readContent(offset, size)
	n.atime = time.Now()
	return data, nil
}

// Write overwrites file content at offset, zero-filling any gap beyond
// the current end. It returns the number of bytes written.
func (e *Engine) Write(path Path, offset int64, data []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	engLogger.Trace("write %q offset=%d bytes=%d", path, offset, len(data))
	if offset < 0 {
		return 0, newError(OpWrite, path, ErrInvalidArgument)
	}
	n, err := e.reg.resolve(path)
	if err != nil {
		return 0, newError(OpWrite, path, err)
	}
	if n.IsDir() {
		return 0, newError(OpWrite, path, ErrIsDirectory)
	}
	written := n.writeContent(offset, data)
	now := time.Now()
	n.mtime = now
	n.ctime = now
	return written, nil
}

// Truncate shrinks or zero-extends the file at path to exactly length
// bytes.
func (e *Engine) Truncate(path Path, length int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	engLogger.Debug("truncate %q length=%d", path, length)
	if length < 0 {
		return newError(OpTruncate, path, ErrInvalidArgument)
	}
	n, err := e.reg.resolve(path)
	if err != nil {
		return newError(OpTruncate, path, err)
	}
	if n.IsDir() {
		return newError(OpTruncate, path, ErrIsDirectory)
	}
	n.truncateContent(length)
	n.ctime = time.Now()
	return nil
}

// Unlink removes the file at path.
func (e *Engine) Unlink(path Path) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	engLogger.Info("unlink %q", path)
	n, err := e.reg.resolve(path)
	if err != nil {
		return newError(OpUnlink, path, err)
	}
	if n.IsDir() {
		return newError(OpUnlink, path, ErrIsDirectory)
	}
	return e.removeLocked(OpUnlink, path)
}

// Rmdir removes the directory at path, which must be empty.
func (e *Engine) Rmdir(path Path) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	engLogger.Info("rmdir %q", path)
	n, err := e.reg.resolve(path)
	if err != nil {
		return newError(OpRmdir, path, err)
	}
	if !n.IsDir() {
		return newError(OpRmdir, path, ErrNotDirectory)
	}
	return e.removeLocked(OpRmdir, path)
}

// removeLocked detaches path from the tree and bumps the parent's
// times. Caller holds the write lock and has already checked the kind.
func (e *Engine) removeLocked(op string, path Path) error {
	if err := e.reg.remove(path); err != nil {
		return newError(op, path, err)
	}
	if parent, err := e.reg.resolve(path.Parent()); err == nil {
		now := time.Now()
		parent.mtime = now
		parent.ctime = now
	}
	return nil
}

// Chmod replaces the permission bits of the node at path.
func (e *Engine) Chmod(path Path, mode os.FileMode) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	engLogger.Debug("chmod %q mode=%o", path, mode.Perm())
	n, err := e.reg.resolve(path)
	if err != nil {
		return newError(OpChmod, path, err)
	}
	n.mode = mode.Perm()
	n.ctime = time.Now()
	return nil
}

// Chown replaces the ownership of the node at path.
func (e *Engine) Chown(path Path, uid, gid uint32) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	engLogger.Debug("chown %q uid=%d gid=%d", path, uid, gid)
	n, err := e.reg.resolve(path)
	if err != nil {
		return newError(OpChown, path, err)
	}
	n.uid = uid
	n.gid = gid
	n.ctime = time.Now()
	return nil
}

// Utimens updates the access and/or modification time of the node at
// path. Nil pointers leave the corresponding field untouched.
func (e *Engine) Utimens(path Path, atime, mtime *time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	engLogger.Debug("utimens %q", path)
	n, err := e.reg.resolve(path)
	if err != nil {
		return newError(OpUtimens, path, err)
	}
	if atime != nil {
		n.atime = *atime
	}
	if mtime != nil {
		n.mtime = *mtime
	}
	n.ctime = time.Now()
	return nil
}

// Listxattr returns the attribute names of the node at path in
// insertion order.
func (e *Engine) Listxattr(path Path) ([]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	engLogger.Debug("listxattr %q", path)
	n, err := e.reg.resolve(path)
	if err != nil {
		return nil, newError(OpListxattr, path, err)
	}
	return n.xattrs.list(), nil
}

// Getxattr returns the value of the named attribute of the node at
// path. Names are opaque; no namespace convention is enforced here.
func (e *Engine) Getxattr(path Path, name string) ([]byte, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	engLogger.Debug("getxattr %q name=%q", path, name)
	n, err := e.reg.resolve(path)
	if err != nil {
		return nil, newError(OpGetxattr, path, err)
	}
	value, ok := n.xattrs.get(name)
	if !ok {
		return nil, newError(OpGetxattr, path, ErrNoData)
	}
	return value, nil
}

// Setxattr stores an attribute on the node at path, honoring the
// create/replace flags.
func (e *Engine) Setxattr(path Path, name string, value []byte, flags XattrFlags) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	engLogger.Debug("setxattr %q name=%q bytes=%d flags=%d", path, name, len(value), flags)
	n, err := e.reg.resolve(path)
	if err != nil {
		return newError(OpSetxattr, path, err)
	}
	_, present := n.xattrs.get(name)
	switch {
	case flags == XattrCreate && present:
		return newError(OpSetxattr, path, ErrExists)
	case flags == XattrReplace && !present:
		return newError(OpSetxattr, path, ErrNoData)
	}
	n.xattrs.set(name, value)
	n.ctime = time.Now()
	return nil
}

// Removexattr deletes the named attribute from the node at path.
func (e *Engine) Removexattr(path Path, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	engLogger.Debug("removexattr %q name=%q", path, name)
	n, err := e.reg.resolve(path)
	if err != nil {
		return newError(OpRemovexattr, path, err)
	}
	if !n.xattrs.remove(name) {
		return newError(OpRemovexattr, path, ErrNoData)
	}
	n.ctime = time.Now()
	return nil
}

// NodeCount reports the number of nodes in the tree, root included.
func (e *Engine) NodeCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.reg.count()
}
