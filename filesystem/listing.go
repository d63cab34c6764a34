package filesystem

import (
	"fmt"
	"os"
	"time"
)

// FormatLine renders one directory entry as an `ls -l`-style long
// listing line: mode, link count, owner, group, size, month-day-time
// (or month-day-year for entries older than six months), name. The
// link count is always 1 for files and 2 for directories; the real
// count is not read. path is the entry's full local path, used on Unix
// to recover owner/group.
func FormatLine(path string, info os.FileInfo) string {
	mode := info.Mode().String()
	links := 1
	if info.IsDir() {
		links = 2
	}
	owner, group := ownerGroup(path, info)

	modTime := info.ModTime()
	var stamp string
	if time.Since(modTime) > 180*24*time.Hour {
		stamp = modTime.Format("Jan _2  2006")
	} else {
		stamp = modTime.Format("Jan _2 15:04")
	}

	return fmt.Sprintf("%s %3d %-8s %-8s %8d %s %s",
		mode, links, owner, group, info.Size(), stamp, info.Name())
}
