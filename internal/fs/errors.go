// Package fs implements the in-memory filesystem engine and its FUSE
// adapter.
//
// This file contains the error taxonomy and the errno translation used
// at the kernel boundary.
package fs

import (
	"errors"
	"fmt"
	"syscall"

	"metafs/internal/logging"

	"bazil.org/fuse"
)

var (
	errLogger = logging.GetLogger().WithPrefix("error")

	// ErrNotFound indicates a path that does not resolve to any node
	ErrNotFound = errors.New("no such file or directory")

	// ErrExists indicates a creation attempt on an occupied name
	ErrExists = errors.New("file already exists")

	// ErrNotEmpty indicates removal of a directory with children
	ErrNotEmpty = errors.New("directory not empty")

	// ErrNotDirectory indicates a directory operation on a file
	ErrNotDirectory = errors.New("not a directory")

	// ErrIsDirectory indicates a file operation on a directory
	ErrIsDirectory = errors.New("is a directory")

	// ErrNoData indicates a lookup or removal of an absent attribute
	ErrNoData = errors.New("no such attribute")

	// ErrInvalidArgument indicates malformed request parameters
	ErrInvalidArgument = errors.New("invalid argument")
)

// Error wraps an engine error with the operation and path it occurred
// on, so kernel-driven failures are attributable in logs.
type Error struct {
	Op   string // Operation that failed (e.g., "create", "setxattr")
	Path string // Affected path
	Err  error  // Underlying sentinel error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("operation %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("operation %s on %s failed: %v", e.Op, e.Path, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// newError creates an Error with the given operation, path, and
// underlying sentinel.
func newError(op string, path Path, err error) *Error {
	return &Error{Op: op, Path: path.String(), Err: err}
}

// ToFuseError translates an engine error into the errno the kernel
// bridge expects. Attribute misses map to fuse.ErrNoXattr so that
// bazil reports ENODATA/ENOATTR the way attribute tools expect.
func ToFuseError(err error) error {
	if err == nil {
		return nil
	}

	errLogger.Trace("Translating engine error: %v", err)
	switch {
	case errors.Is(err, ErrNotFound):
		return syscall.ENOENT
	case errors.Is(err, ErrExists):
		return syscall.EEXIST
	case errors.Is(err, ErrNotEmpty):
		return syscall.ENOTEMPTY
	case errors.Is(err, ErrNotDirectory):
		return syscall.ENOTDIR
	case errors.Is(err, ErrIsDirectory):
		return syscall.EISDIR
	case errors.Is(err, ErrNoData):
		return fuse.ErrNoXattr
	case errors.Is(err, ErrInvalidArgument):
		return syscall.EINVAL
	default:
		errLogger.Debug("Unknown error type, returning EIO: %v", err)
		return syscall.EIO
	}
}

// Common operation names for consistent logging and error reporting
const (
	OpGetattr     = "getattr"
	OpReaddir     = "readdir"
	OpCreate      = "create"
	OpOpen        = "open"
	OpRead        = "read"
	OpWrite       = "write"
	OpTruncate    = "truncate"
	OpUnlink      = "unlink"
	OpMkdir       = "mkdir"
	OpRmdir       = "rmdir"
	OpChmod       = "chmod"
	OpChown       = "chown"
	OpUtimens     = "utimens"
	OpListxattr   = "listxattr"
	OpGetxattr    = "getxattr"
	OpSetxattr    = "setxattr"
	OpRemovexattr = "removexattr"
)
