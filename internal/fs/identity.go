package fs

import (
	"os"
	"strconv"
)

// CurrentIdentity returns the uid/gid new nodes are owned by: the
// process identity, overridable through PUID/PGID for containerized
// deployments.
func CurrentIdentity() (uint32, uint32) {
	uid := safeIntToUint32(os.Getuid())
	gid := safeIntToUint32(os.Getgid())

	if puid := os.Getenv("PUID"); puid != "" {
		if v, err := strconv.ParseUint(puid, 10, 32); err == nil {
			uid = uint32(v)
		}
	}
	if pgid := os.Getenv("PGID"); pgid != "" {
		if v, err := strconv.ParseUint(pgid, 10, 32); err == nil {
			gid = uint32(v)
		}
	}
	return uid, gid
}
