package fs

import (
	"os"
	"time"

	fusefs "bazil.org/fuse/fs"
)

// Operations is the kernel-facing contract of the engine. The mount
// adapter (MetaFS and its Dir/File/FileHandle nodes) depends only on
// this surface, never on engine internals.
type Operations interface {
	Getattr(path Path) (*NodeAttr, error)
	Readdir(path Path) ([]DirEntry, error)
	Create(path Path, mode os.FileMode) error
	Open(path Path) error
	Read(path Path, offset int64, size int) ([]byte, error)
	Write(path Path, offset int64, data []byte) (int, error)
	Truncate(path Path, length int64) error
	Unlink(path Path) error
	Mkdir(path Path, mode os.FileMode) error
	Rmdir(path Path) error
	Chmod(path Path, mode os.FileMode) error
	Chown(path Path, uid, gid uint32) error
	Utimens(path Path, atime, mtime *time.Time) error
	Listxattr(path Path) ([]string, error)
	Getxattr(path Path, name string) ([]byte, error)
	Setxattr(path Path, name string, value []byte, flags XattrFlags) error
	Removexattr(path Path, name string) error
}

var _ Operations = (*Engine)(nil)

// XattrNode groups the attribute capabilities shared by files and
// directories.
type XattrNode interface {
	fusefs.NodeGetxattrer
	fusefs.NodeSetxattrer
	fusefs.NodeListxattrer
	fusefs.NodeRemovexattrer
}

// Directory is the capability set a directory node exposes to the
// bridge.
type Directory interface {
	fusefs.Node
	fusefs.NodeSetattrer
	fusefs.NodeStringLookuper
	fusefs.HandleReadDirAller
	fusefs.NodeCreater
	fusefs.NodeMkdirer
	fusefs.NodeRemover
	XattrNode
}

// RegularFile is the capability set a file node exposes to the bridge.
type RegularFile interface {
	fusefs.Node
	fusefs.NodeSetattrer
	fusefs.NodeOpener
	fusefs.NodeFsyncer
	XattrNode
}

// Handle is the capability set an open file handle exposes.
type Handle interface {
	fusefs.Handle
	fusefs.HandleReader
	fusefs.HandleWriter
	fusefs.HandleFlusher
	fusefs.HandleReleaser
}

var (
	_ Directory   = (*Dir)(nil)
	_ RegularFile = (*File)(nil)
	_ Handle      = (*FileHandle)(nil)
)
