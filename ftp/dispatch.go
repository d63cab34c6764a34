package ftp

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// handlerFunc is a command handler. It returns true when the session
// should terminate after the reply has been sent (QUIT).
type handlerFunc func(s *Session, arg string) (terminate bool)

var commandTable = map[Command]handlerFunc{
	USER: handleUser,
	PASS: handlePass,
	SYST: handleSyst,
	PWD:  handlePwd,
	XPWD: handlePwd,
	CWD:  handleCwd,
	TYPE: handleType,
	PASV: handlePasv,
	EPSV: handleEpsv,
	STOR: handleStor,
	RETR: handleRetr,
	LIST: handleList,
	MKD:  handleMkd,
	XMKD: handleMkd,
	RMD:  handleRmd,
	XRMD: handleRmd,
	DELE: handleDele,
	SIZE: handleSize,
	QUIT: handleQuit,
}

// serve runs the command loop for one accepted connection until the
// client disconnects, QUITs, or the control socket errors out.
func (s *Session) serve() {
	defer s.closeData()
	defer s.conn.Close()

	s.reply(StatusServiceReadyForNewUser, "Service ready for new user.")

	reader := bufio.NewReader(s.conn)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			if s.dispatch(line) {
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.logger.Debug("control read error", "error", err)
			}
			return
		}
	}
}

// dispatch parses one line and routes it to its handler. It returns
// true when the session should close.
func (s *Session) dispatch(line string) (terminate bool) {
	verb, arg := parseCommand(line)
	if verb == "" {
		return false
	}

	handler, ok := commandTable[verb]
	if !ok {
		s.reply(StatusSyntaxError, "Unknown command: \""+verb+"\".")
		return false
	}
	return handler(s, arg)
}

// parseCommand trims surrounding whitespace, splits on the first
// space, and uppercases the verb only, matching RFC 959 command
// framing.
func parseCommand(line string) (verb, arg string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return "", ""
	}
	if idx := strings.IndexByte(trimmed, ' '); idx >= 0 {
		return strings.ToUpper(trimmed[:idx]), trimmed[idx+1:]
	}
	return strings.ToUpper(trimmed), ""
}
