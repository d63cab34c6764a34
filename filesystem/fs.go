// Package filesystem is the local-disk collaborator the FTP server
// reads and writes files through. There is no per-user chroot (an
// explicit non-goal): a session's cwd is a real absolute path on the
// host filesystem, exactly as the reference server's session state
// tracks it, and Realpath resolves relative paths against it the same
// way.
package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
)

// FS is the filesystem surface the FTP command handlers depend on.
// LocalFS is the only implementation; the interface exists so tests can
// substitute an in-memory fake.
type FS interface {
	// Root returns the absolute local directory a freshly connected
	// session's cwd is initialised to (the server process's startup
	// directory).
	Root() string
	// Realpath resolves a client-supplied path (absolute or relative to
	// cwd) to a clean absolute path, without requiring the target to
	// exist.
	Realpath(cwd, name string) (string, error)
	// Exists reports whether name exists on disk.
	Exists(name string) bool
	// ReadDir lists directory entries, each carrying the fs.FileInfo
	// needed to format a long listing line.
	ReadDir(name string) ([]os.FileInfo, error)
	// Open opens name for reading.
	Open(name string) (*os.File, error)
	// Create opens name for writing, truncating or appending as the
	// caller asks.
	Create(name string, appendOnly bool) (*os.File, error)
	// Mkdir creates a single directory (not MkdirAll: FTP's MKD creates
	// exactly one level).
	Mkdir(name string) error
	// Remove removes a file.
	Remove(name string) error
	// RemoveDir removes an empty directory.
	RemoveDir(name string) error
	// Stat returns file info for name.
	Stat(name string) (os.FileInfo, error)
}

// LocalFS resolves client paths against the local disk, anchored at
// the directory a session's cwd starts from.
type LocalFS struct {
	root string
}

var _ FS = (*LocalFS)(nil)

// NewLocalFS returns a LocalFS rooted at dir. dir must already exist.
func NewLocalFS(dir string) (*LocalFS, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving root directory: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path %q is not a directory", abs)
	}
	return &LocalFS{root: abs}, nil
}

func (l *LocalFS) Root() string { return l.root }

// Realpath resolves name against cwd if it is relative, or takes it as
// given if absolute, and cleans the result. It does not
// require the path to exist, and does not confine it to any directory:
// callers like MKD/STOR need the resolved, not-yet-existing path, and
// per-user chroot is explicitly out of scope.
func (l *LocalFS) Realpath(cwd, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty path")
	}

	var joined string
	if filepath.IsAbs(name) {
		joined = name
	} else {
		joined = filepath.Join(cwd, name)
	}
	return filepath.Clean(joined), nil
}

func (l *LocalFS) Exists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}

func (l *LocalFS) ReadDir(name string) ([]os.FileInfo, error) {
	entries, err := os.ReadDir(name)
	if err != nil {
		return nil, err
	}
	infos := make([]os.FileInfo, 0, len(entries))
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (l *LocalFS) Open(name string) (*os.File, error) {
	return os.Open(name)
}

func (l *LocalFS) Create(name string, appendOnly bool) (*os.File, error) {
	flags := os.O_WRONLY | os.O_CREATE
	if appendOnly {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	return os.OpenFile(name, flags, 0644)
}

func (l *LocalFS) Mkdir(name string) error {
	return os.Mkdir(name, 0755)
}

func (l *LocalFS) Remove(name string) error {
	return os.Remove(name)
}

func (l *LocalFS) RemoveDir(name string) error {
	return os.Remove(name)
}

func (l *LocalFS) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}
