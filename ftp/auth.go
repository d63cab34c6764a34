package ftp

import "runtime"

// handleUser implements USER. The login flag is unconditionally reset
// and the username stored even if it does not exist, so a PASS failure
// later does not leak which usernames are valid.
func handleUser(s *Session, arg string) bool {
	s.loggedIn = false
	s.username = arg
	s.reply(StatusCommandNotImplementedSuperfluous, "Username okay, need password.")
	return false
}

// handlePass implements PASS.
func handlePass(s *Session, arg string) bool {
	if s.credentials().Verify(s.username, arg) {
		s.loggedIn = true
		s.reply(StatusUserLoggedIn, "User logged in, proceed.")
	} else {
		s.reply(StatusNotLoggedIn, "Login incorrect.")
	}
	return false
}

// handleSyst implements SYST.
func handleSyst(s *Session, _ string) bool {
	if !s.requireLogin() {
		return false
	}
	switch runtime.GOOS {
	case "linux":
		s.reply(StatusNameSystemType, "UNIX Type: L8 (Linux)")
	case "windows":
		s.reply(StatusNameSystemType, "Windows Type: L8")
	case "darwin":
		s.reply(StatusNameSystemType, "UNIX Type: L8 (Mac OS)")
	default:
		s.reply(StatusNameSystemType, "UNKNOWN Type: L8")
	}
	return false
}

// handleQuit implements QUIT.
func handleQuit(s *Session, _ string) bool {
	s.reply(StatusServiceClosingControlConnection, "Goodbye.")
	return true
}
