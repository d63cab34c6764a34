package ftp

import (
	"log/slog"
	"net"
)

// logConn wraps a net.Conn so every line written to or read from the
// control socket is also emitted at debug level, the same tap the
// teacher's BufLogReadWriter provided for its session transcripts.
type logConn struct {
	net.Conn
	logger *slog.Logger
}

func newLogConn(conn net.Conn, logger *slog.Logger) *logConn {
	return &logConn{Conn: conn, logger: logger}
}

func (c *logConn) Read(p []byte) (int, error) {
	n, err := c.Conn.Read(p)
	if n > 0 {
		c.logger.Debug("control <-", "data", string(p[:n]))
	}
	return n, err
}

func (c *logConn) Write(p []byte) (int, error) {
	n, err := c.Conn.Write(p)
	if n > 0 {
		c.logger.Debug("control ->", "data", string(p[:n]))
	}
	return n, err
}
