package fs

import (
	"context"

	"metafs/internal/logging"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
)

var (
	fileLogger = logging.GetLogger().WithPrefix("file")
)

// File is the bridge-side view of a file node. Like Dir it carries only
// the path; content lives in the engine.
type File struct {
	fs   *MetaFS
	path Path
}

// Attr implements the Node interface, returning the file's attributes.
func (f *File) Attr(_ context.Context, a *fuse.Attr) error {
	fileLogger.Trace("Getting attributes for file %q", f.path)
	attr, err := f.fs.ops.Getattr(f.path)
	if err != nil {
		return ToFuseError(err)
	}
	fillAttr(a, attr)
	return nil
}

// Open implements the NodeOpener interface. Handles carry no state of
// their own, so every open of the same path behaves identically.
func (f *File) Open(_ context.Context, req *fuse.OpenRequest, resp *fuse.OpenResponse) (fusefs.Handle, error) {
	fileLogger.Debug("Opening file %q (flags=%v)", f.path, req.Flags)
	if err := f.fs.ops.Open(f.path); err != nil {
		return nil, ToFuseError(err)
	}

	// Direct IO keeps the kernel page cache out of the way so writes
	// through one handle are immediately visible through another.
	resp.Flags |= fuse.OpenDirectIO

	return &FileHandle{fs: f.fs, path: f.path}, nil
}

// Setattr implements the NodeSetattrer interface, covering truncate,
// chmod, chown, and utimens as delivered by the kernel.
func (f *File) Setattr(_ context.Context, req *fuse.SetattrRequest, resp *fuse.SetattrResponse) error {
	fileLogger.Debug("Setting attributes on file %q (valid=%v)", f.path, req.Valid)
	if err := applySetattr(f.fs.ops, f.path, req); err != nil {
		return ToFuseError(err)
	}
	attr, err := f.fs.ops.Getattr(f.path)
	if err != nil {
		return ToFuseError(err)
	}
	fillAttr(&resp.Attr, attr)
	return nil
}

// Fsync implements the NodeFsyncer interface. Memory is always in sync.
func (f *File) Fsync(_ context.Context, _ *fuse.FsyncRequest) error {
	fileLogger.Trace("Fsync on %q (no-op)", f.path)
	return nil
}

// Getxattr implements the NodeGetxattrer interface.
func (f *File) Getxattr(_ context.Context, req *fuse.GetxattrRequest, resp *fuse.GetxattrResponse) error {
	return getxattr(f.fs.ops, f.path, req, resp)
}

// Setxattr implements the NodeSetxattrer interface.
func (f *File) Setxattr(_ context.Context, req *fuse.SetxattrRequest) error {
	return setxattr(f.fs.ops, f.path, req)
}

// Listxattr implements the NodeListxattrer interface.
func (f *File) Listxattr(_ context.Context, _ *fuse.ListxattrRequest, resp *fuse.ListxattrResponse) error {
	return listxattr(f.fs.ops, f.path, resp)
}

// Removexattr implements the NodeRemovexattrer interface.
func (f *File) Removexattr(_ context.Context, req *fuse.RemovexattrRequest) error {
	return removexattr(f.fs.ops, f.path, req)
}

// FileHandle represents an open file. Reads and writes are
// path-addressed against the engine, so the handle itself is stateless
// and two handles on the same path always observe the same bytes.
type FileHandle struct {
	fs   *MetaFS
	path Path
}

// Read implements the HandleReader interface.
func (fh *FileHandle) Read(_ context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	fileLogger.Trace("Reading %d bytes from %q at offset %d", req.Size, fh.path, req.Offset)
	data, err := fh.fs.ops.Read(fh.path, req.Offset, req.Size)
	if err != nil {
		return ToFuseError(err)
	}
	resp.Data = data
	return nil
}

// Write implements the HandleWriter interface.
func (fh *FileHandle) Write(_ context.Context, req *fuse.WriteRequest, resp *fuse.WriteResponse) error {
	fileLogger.Trace("Writing %d bytes to %q at offset %d", len(req.Data), fh.path, req.Offset)
	n, err := fh.fs.ops.Write(fh.path, req.Offset, req.Data)
	if err != nil {
		return ToFuseError(err)
	}
	resp.Size = n
	return nil
}

// Flush implements the HandleFlusher interface. Nothing is buffered
// outside the engine, so there is nothing to flush.
func (fh *FileHandle) Flush(_ context.Context, _ *fuse.FlushRequest) error {
	fileLogger.Trace("Flush on %q (no-op)", fh.path)
	return nil
}

// Release implements the HandleReleaser interface.
func (fh *FileHandle) Release(_ context.Context, _ *fuse.ReleaseRequest) error {
	fileLogger.Trace("Releasing handle on %q", fh.path)
	return nil
}
