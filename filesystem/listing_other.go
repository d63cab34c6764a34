//go:build !linux && !darwin

package filesystem

import "os"

// ownerGroup has no portable owner/group concept outside Unix; LIST
// falls back to a fixed placeholder rather than guessing.
func ownerGroup(_ string, _ os.FileInfo) (owner, group string) {
	return "owner", "group"
}
