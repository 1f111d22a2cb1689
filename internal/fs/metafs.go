package fs

import (
	"fmt"
	"os"
	"time"

	"metafs/internal/logging"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
)

var (
	mfsLogger = logging.GetLogger().WithPrefix("metafs")
)

// MetaFS bridges kernel filesystem requests to the engine. It holds no
// tree state of its own; every request is translated into Operations
// calls and every engine error into an errno via ToFuseError.
type MetaFS struct {
	ops        Operations
	allowOther bool
	conn       *fuse.Conn
}

// New creates the mount adapter for the given engine.
func New(ops Operations) *MetaFS {
	return &MetaFS{ops: ops}
}

// AllowOther makes the mount visible to other users (requires
// user_allow_other in fuse.conf).
func (m *MetaFS) AllowOther() {
	m.allowOther = true
}

// Root implements fusefs.FS, returning the root directory node.
func (m *MetaFS) Root() (fusefs.Node, error) {
	mfsLogger.Trace("Getting root directory node")
	return &Dir{fs: m, path: NewPath("/")}, nil
}

// Mount attaches the filesystem to mountPoint. Serve must be called
// afterwards to start handling requests.
func (m *MetaFS) Mount(mountPoint string) error {
	mfsLogger.Info("Mounting filesystem at %q", mountPoint)

	info, err := os.Stat(mountPoint)
	if err != nil {
		return fmt.Errorf("mount point not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("mount point %q is not a directory", mountPoint)
	}

	opts := []fuse.MountOption{
		fuse.FSName("metafs"),
		fuse.Subtype("metafs"),
	}
	if m.allowOther {
		opts = append(opts, fuse.AllowOther())
	}

	conn, err := fuse.Mount(mountPoint, opts...)
	if err != nil {
		return fmt.Errorf("mount failed: %w", err)
	}
	m.conn = conn
	mfsLogger.Info("Filesystem mounted")
	return nil
}

// Serve handles kernel requests until the filesystem is unmounted. The
// bridge dispatches requests from multiple goroutines; the engine's
// locking makes that safe.
func (m *MetaFS) Serve() error {
	if m.conn == nil {
		return fmt.Errorf("serve called before mount")
	}
	mfsLogger.Info("Serving filesystem requests")
	return fusefs.Serve(m.conn, m)
}

// Unmount detaches the filesystem. Pending requests finish first; Serve
// returns once the kernel connection closes.
func (m *MetaFS) Unmount(mountPoint string) error {
	mfsLogger.Info("Unmounting filesystem from %q", mountPoint)
	if err := fuse.Unmount(mountPoint); err != nil {
		mfsLogger.Error("Unmount failed: %v", err)
		return err
	}
	mfsLogger.Info("Unmount complete")
	return nil
}

// Close releases the kernel connection.
func (m *MetaFS) Close() error {
	if m.conn == nil {
		return nil
	}
	return m.conn.Close()
}

// fillAttr copies an engine metadata snapshot into a fuse attribute
// response.
func fillAttr(a *fuse.Attr, na *NodeAttr) {
	a.Mode = na.Mode
	if na.Kind == KindDirectory {
		a.Mode |= os.ModeDir
	}
	a.Size = safeInt64ToUint64(na.Size)
	a.Nlink = na.Nlink
	a.Uid = na.Uid
	a.Gid = na.Gid
	a.Atime = na.Atime
	a.Mtime = na.Mtime
	a.Ctime = na.Ctime
	a.BlockSize = 4096
	a.Blocks = safeInt64ToUint64((na.Size + 511) / 512)
}

// applySetattr translates a kernel setattr request into the discrete
// metadata operations the engine exposes: truncate, chmod, chown, and
// utimens.
func applySetattr(ops Operations, path Path, req *fuse.SetattrRequest) error {
	if req.Valid.Size() {
		if err := ops.Truncate(path, int64(req.Size)); err != nil {
			return err
		}
	}
	if req.Valid.Mode() {
		if err := ops.Chmod(path, req.Mode); err != nil {
			return err
		}
	}
	if req.Valid.Uid() || req.Valid.Gid() {
		attr, err := ops.Getattr(path)
		if err != nil {
			return err
		}
		uid, gid := attr.Uid, attr.Gid
		if req.Valid.Uid() {
			uid = req.Uid
		}
		if req.Valid.Gid() {
			gid = req.Gid
		}
		if err := ops.Chown(path, uid, gid); err != nil {
			return err
		}
	}
	if req.Valid.Atime() || req.Valid.Mtime() {
		var atime, mtime *time.Time
		if req.Valid.Atime() {
			t := req.Atime
			atime = &t
		}
		if req.Valid.Mtime() {
			t := req.Mtime
			mtime = &t
		}
		if err := ops.Utimens(path, atime, mtime); err != nil {
			return err
		}
	}
	return nil
}
