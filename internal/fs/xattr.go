package fs

import (
	"bazil.org/fuse"

	"metafs/internal/logging"
)

var (
	xattrLogger = logging.GetLogger().WithPrefix("xattr")
)

// Files and directories both carry extended attributes, so Dir and File
// delegate their four xattr methods to these helpers. Names pass
// through untouched; the user.* namespace convention is the attribute
// tool-chain's business, not ours.

func getxattr(ops Operations, path Path, req *fuse.GetxattrRequest, resp *fuse.GetxattrResponse) error {
	xattrLogger.Debug("Getting xattr %q on %q", req.Name, path)
	value, err := ops.Getxattr(path, req.Name)
	if err != nil {
		return ToFuseError(err)
	}
	resp.Xattr = value
	return nil
}

func setxattr(ops Operations, path Path, req *fuse.SetxattrRequest) error {
	xattrLogger.Debug("Setting xattr %q on %q (%d bytes, flags=%d)",
		req.Name, path, len(req.Xattr), req.Flags)
	if err := ops.Setxattr(path, req.Name, req.Xattr, XattrFlags(req.Flags)); err != nil {
		return ToFuseError(err)
	}
	return nil
}

func listxattr(ops Operations, path Path, resp *fuse.ListxattrResponse) error {
	xattrLogger.Debug("Listing xattrs on %q", path)
	names, err := ops.Listxattr(path)
	if err != nil {
		return ToFuseError(err)
	}
	for _, name := range names {
		resp.Append(name)
	}
	xattrLogger.Trace("Listed %d xattrs on %q", len(names), path)
	return nil
}

func removexattr(ops Operations, path Path, req *fuse.RemovexattrRequest) error {
	xattrLogger.Debug("Removing xattr %q on %q", req.Name, path)
	if err := ops.Removexattr(path, req.Name); err != nil {
		return ToFuseError(err)
	}
	return nil
}
