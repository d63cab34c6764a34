package ftp

import (
	"path/filepath"
)

// handlePwd implements PWD, reporting the session's real absolute
// working directory (there is no per-user chroot to hide it behind).
func handlePwd(s *Session, arg string) bool {
	if !s.requireLogin() {
		return false
	}
	if arg != "" {
		s.reply(StatusSyntaxError, "Unknown command: \"PWD "+arg+"\".")
		return false
	}
	s.reply(StatusPathnameCreated, "\""+s.cwd+"\" is the current directory.")
	return false
}

// handleCwd implements CWD. It resolves the target against the
// session's own cwd and never touches the process's working directory
// (the reference calls chdir(2); doing that here would leak one
// session's directory change into every other session sharing the
// process).
func handleCwd(s *Session, arg string) bool {
	if !s.requireLogin() {
		return false
	}
	if arg == "" {
		s.reply(StatusFileUnavailable, "Failed to change directory. Path not specified.")
		return false
	}

	target := arg
	if target == ".." {
		target = filepath.Join(s.cwd, "..")
	}

	joined, err := s.fs().Realpath(s.cwd, target)
	if err != nil {
		s.reply(StatusFileUnavailable, "Failed to resolve path: \""+target+"\".")
		return false
	}

	resolved, err := filepath.EvalSymlinks(joined)
	if err != nil {
		s.reply(StatusFileUnavailable, "Failed to resolve path: \""+target+"\".")
		return false
	}

	info, err := s.fs().Stat(resolved)
	if err != nil || !info.IsDir() {
		s.reply(StatusFileUnavailable, "Directory does not exist or is not a directory: \""+resolved+"\".")
		return false
	}

	s.cwd = resolved
	s.reply(StatusFileActionOK, "Directory successfully changed to \""+resolved+"\".")
	return false
}
