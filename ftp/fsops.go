package ftp

import "strconv"

func formatSize(n int64) string {
	return strconv.FormatInt(n, 10)
}

// handleMkd implements MKD, resolving the new directory against the
// session's current directory.
func handleMkd(s *Session, arg string) bool {
	if !s.requireLogin() {
		return false
	}
	if arg == "" {
		s.reply(StatusFileUnavailable, "Directory name not specified.")
		return false
	}

	path, err := s.fs().Realpath(s.cwd, arg)
	if err != nil {
		s.reply(StatusFileUnavailable, "Failed to create directory: "+err.Error())
		return false
	}
	if s.fs().Exists(path) {
		s.reply(StatusFileUnavailable, "Directory already exists.")
		return false
	}
	if err := s.fs().Mkdir(path); err != nil {
		s.reply(StatusFileUnavailable, "Failed to create directory: "+err.Error())
		return false
	}
	s.reply(StatusPathnameCreated, "Directory created.")
	return false
}

// handleRmd implements RMD. The reference removes the argument
// directly via rmdir(2) without resolving it against the working
// directory; that quirk is preserved here rather than fixed.
func handleRmd(s *Session, arg string) bool {
	if !s.requireLogin() {
		return false
	}
	if err := s.fs().RemoveDir(arg); err != nil {
		s.reply(StatusFileUnavailable, "Failed to remove directory.")
		return false
	}
	s.reply(StatusFileActionOK, "Directory deleted.")
	return false
}

// handleDele implements DELE, preserving the same unresolved-path
// quirk as RMD.
func handleDele(s *Session, arg string) bool {
	if !s.requireLogin() {
		return false
	}
	if err := s.fs().Remove(arg); err != nil {
		s.reply(StatusFileUnavailable, "Failed to delete file.")
		return false
	}
	s.reply(StatusFileActionOK, "File deleted.")
	return false
}

// handleSize implements SIZE, also taking its argument unresolved.
func handleSize(s *Session, arg string) bool {
	if !s.requireLogin() {
		return false
	}
	info, err := s.fs().Stat(arg)
	if err != nil {
		s.reply(StatusFileUnavailable, "File not found.")
		return false
	}
	s.reply(StatusFileStatus, formatSize(info.Size()))
	return false
}
