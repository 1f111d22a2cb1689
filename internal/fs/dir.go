package fs

import (
	"context"

	"metafs/internal/logging"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
)

var (
	dirLogger = logging.GetLogger().WithPrefix("dir")
)

// Dir is the bridge-side view of a directory node. It carries only the
// path; all state lives in the engine.
type Dir struct {
	fs   *MetaFS
	path Path
}

// Attr implements the Node interface, returning directory attributes.
func (d *Dir) Attr(_ context.Context, a *fuse.Attr) error {
	dirLogger.Trace("Getting attributes for directory %q", d.path)
	attr, err := d.fs.ops.Getattr(d.path)
	if err != nil {
		return ToFuseError(err)
	}
	fillAttr(a, attr)
	return nil
}

// Lookup implements the NodeStringLookuper interface, finding a child
// node by name.
func (d *Dir) Lookup(_ context.Context, name string) (fusefs.Node, error) {
	childPath := d.path.Child(name)
	dirLogger.Debug("Looking up %q in %q", name, d.path)

	attr, err := d.fs.ops.Getattr(childPath)
	if err != nil {
		dirLogger.Trace("Lookup miss: %q", childPath)
		return nil, ToFuseError(err)
	}
	if attr.Kind == KindDirectory {
		return &Dir{fs: d.fs, path: childPath}, nil
	}
	return &File{fs: d.fs, path: childPath}, nil
}

// ReadDirAll implements the HandleReadDirAller interface, listing
// directory contents including the synthetic "." and ".." entries.
func (d *Dir) ReadDirAll(_ context.Context) ([]fuse.Dirent, error) {
	dirLogger.Debug("Reading directory %q", d.path)
	entries, err := d.fs.ops.Readdir(d.path)
	if err != nil {
		return nil, ToFuseError(err)
	}

	dirents := make([]fuse.Dirent, 0, len(entries))
	for _, entry := range entries {
		dt := fuse.DT_File
		if entry.Kind == KindDirectory {
			dt = fuse.DT_Dir
		}
		dirents = append(dirents, fuse.Dirent{Name: entry.Name, Type: dt})
	}
	dirLogger.Debug("Directory %q contains %d entries", d.path, len(dirents))
	return dirents, nil
}

// Create implements the NodeCreater interface, inserting a new empty
// file.
func (d *Dir) Create(_ context.Context, req *fuse.CreateRequest, _ *fuse.CreateResponse) (fusefs.Node, fusefs.Handle, error) {
	newPath := d.path.Child(req.Name)
	dirLogger.Info("Creating file %q (mode=%o)", newPath, req.Mode.Perm())

	if err := d.fs.ops.Create(newPath, req.Mode); err != nil {
		return nil, nil, ToFuseError(err)
	}
	file := &File{fs: d.fs, path: newPath}
	return file, &FileHandle{fs: d.fs, path: newPath}, nil
}

// Mkdir implements the NodeMkdirer interface, inserting a new empty
// directory.
func (d *Dir) Mkdir(_ context.Context, req *fuse.MkdirRequest) (fusefs.Node, error) {
	newPath := d.path.Child(req.Name)
	dirLogger.Info("Creating directory %q (mode=%o)", newPath, req.Mode.Perm())

	if err := d.fs.ops.Mkdir(newPath, req.Mode); err != nil {
		return nil, ToFuseError(err)
	}
	return &Dir{fs: d.fs, path: newPath}, nil
}

// Remove implements the NodeRemover interface, unlinking a file or
// removing an empty directory.
func (d *Dir) Remove(_ context.Context, req *fuse.RemoveRequest) error {
	childPath := d.path.Child(req.Name)
	dirLogger.Info("Removing %q (dir=%v)", childPath, req.Dir)

	var err error
	if req.Dir {
		err = d.fs.ops.Rmdir(childPath)
	} else {
		err = d.fs.ops.Unlink(childPath)
	}
	return ToFuseError(err)
}

// Setattr implements the NodeSetattrer interface for directory metadata
// updates (chmod, chown, utimens).
func (d *Dir) Setattr(_ context.Context, req *fuse.SetattrRequest, resp *fuse.SetattrResponse) error {
	dirLogger.Debug("Setting attributes on directory %q (valid=%v)", d.path, req.Valid)
	if err := applySetattr(d.fs.ops, d.path, req); err != nil {
		return ToFuseError(err)
	}
	attr, err := d.fs.ops.Getattr(d.path)
	if err != nil {
		return ToFuseError(err)
	}
	fillAttr(&resp.Attr, attr)
	return nil
}

// Getxattr implements the NodeGetxattrer interface.
func (d *Dir) Getxattr(_ context.Context, req *fuse.GetxattrRequest, resp *fuse.GetxattrResponse) error {
	return getxattr(d.fs.ops, d.path, req, resp)
}

// Setxattr implements the NodeSetxattrer interface.
func (d *Dir) Setxattr(_ context.Context, req *fuse.SetxattrRequest) error {
	return setxattr(d.fs.ops, d.path, req)
}

// Listxattr implements the NodeListxattrer interface.
func (d *Dir) Listxattr(_ context.Context, _ *fuse.ListxattrRequest, resp *fuse.ListxattrResponse) error {
	return listxattr(d.fs.ops, d.path, resp)
}

// Removexattr implements the NodeRemovexattrer interface.
func (d *Dir) Removexattr(_ context.Context, req *fuse.RemovexattrRequest) error {
	return removexattr(d.fs.ops, d.path, req)
}
