package ftp

import (
	"log/slog"
	"net"
	"strconv"

	"github.com/telebroad/ftpd/credentials"
	"github.com/telebroad/ftpd/filesystem"
)

// TransferType is the data representation latch set by TYPE.
type TransferType int

const (
	TransferTypeASCII TransferType = iota
	TransferTypeBinary
)

// Session holds everything specific to one control connection. Every
// field below is touched only by the goroutine running serve() for
// this session, or, while a transfer is in flight, by the task-pool
// goroutine running it while serve() blocks waiting for it — no
// locking is needed.
type Session struct {
	id     string
	conn   net.Conn
	server *Server
	logger *slog.Logger

	loggedIn     bool
	username     string
	transferType TransferType
	passive      bool
	cwd          string

	dataListener net.Listener
	dataConn     net.Conn
}

func newSession(id string, conn net.Conn, server *Server) *Session {
	logger := server.logger.With("session", id, "remote", conn.RemoteAddr().String())
	return &Session{
		id:           id,
		conn:         newLogConn(conn, logger),
		server:       server,
		logger:       logger,
		transferType: TransferTypeASCII,
		cwd:          server.fs.Root(),
	}
}

func (s *Session) requireLogin() bool {
	if s.loggedIn {
		return true
	}
	s.reply(StatusNotLoggedIn, "Please login first.")
	return false
}

func (s *Session) requirePassive() bool {
	if s.passive {
		return true
	}
	s.reply(StatusCantOpenDataConnection, "Use PASV first.")
	return false
}

// reply writes a single-line FTP reply terminated by CRLF.
func (s *Session) reply(code StatusCode, msg string) {
	line := strconv.Itoa(code) + " " + msg + "\r\n"
	if _, err := s.conn.Write([]byte(line)); err != nil {
		s.logger.Debug("failed writing reply", "error", err)
	}
}

// closeData closes the data connection and listener, if any, and
// clears the passive-mode latch. Every data-command handler
// (STOR/RETR/LIST) defers this so success, error, and early-return
// paths all converge on the same cleanup.
func (s *Session) closeData() {
	if s.dataConn != nil {
		_ = s.dataConn.Close()
		s.dataConn = nil
	}
	if s.dataListener != nil {
		_ = s.dataListener.Close()
		s.dataListener = nil
	}
	s.passive = false
}

// acceptData blocks for an incoming data connection on the already
// bound passive listener.
func (s *Session) acceptData() (net.Conn, error) {
	conn, err := s.dataListener.Accept()
	if err != nil {
		return nil, err
	}
	s.dataConn = conn
	return conn, nil
}

func (s *Session) credentials() *credentials.Table {
	return s.server.credentials
}

func (s *Session) fs() filesystem.FS {
	return s.server.fs
}
