//go:build linux || darwin

package filesystem

import (
	"os"
	"os/user"
	"strconv"

	"golang.org/x/sys/unix"
)

// ownerGroup recovers the numeric owner/group of path via unix.Stat and
// resolves them to names, falling back to the numeric id when the
// lookup fails (deleted user, no nsswitch, etc).
func ownerGroup(path string, _ os.FileInfo) (owner, group string) {
	var stat unix.Stat_t
	if err := unix.Stat(path, &stat); err != nil {
		return "?", "?"
	}

	uid := strconv.FormatUint(uint64(stat.Uid), 10)
	gid := strconv.FormatUint(uint64(stat.Gid), 10)

	if u, err := user.LookupId(uid); err == nil {
		owner = u.Username
	} else {
		owner = uid
	}
	if g, err := user.LookupGroupId(gid); err == nil {
		group = g.Name
	} else {
		group = gid
	}
	return owner, group
}
