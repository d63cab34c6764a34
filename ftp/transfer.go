package ftp

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/telebroad/ftpd/filesystem"
)

// transferBufferSize is the chunk size used streaming binary data,
// matching the reference's CHUNK_SIZE.
const transferBufferSize = 64 * 1024

const dataTransferTimeout = 30 * time.Second

// submitTransfer hands task to the transfer task pool and blocks until
// it runs. If the pool's queue is full, Submit rejects the task outright
// rather than running it, so the caller must not wait on a done channel
// that would then never close; it replies 425 and bails instead.
func submitTransfer(s *Session, task func()) {
	done := make(chan struct{})
	ok := s.server.taskPool.Submit(func() {
		defer close(done)
		task()
	})
	if !ok {
		s.reply(StatusCantOpenDataConnection, "Could not open data connection.")
		return
	}
	<-done
}

// handleStor implements STOR. The transfer body runs on the task pool;
// the calling goroutine blocks until it finishes so a session can never
// have two transfers running concurrently.
func handleStor(s *Session, arg string) bool {
	if !s.requireLogin() {
		return false
	}
	if !s.requirePassive() {
		return false
	}
	defer s.closeData()

	path, err := s.fs().Realpath(s.cwd, arg)
	if err != nil {
		s.reply(StatusFileUnavailable, "Failed to open file for writing.")
		return false
	}

	submitTransfer(s, func() { storBody(s, path) })
	return false
}

func storBody(s *Session, path string) {
	conn, err := s.acceptData()
	if err != nil {
		s.reply(StatusCantOpenDataConnection, "Could not open data connection.")
		return
	}

	s.reply(StatusFileStatusOK, "Opening data connection.")

	f, err := s.fs().Create(path, false)
	if err != nil {
		s.reply(StatusFileUnavailable, "Failed to open file for writing.")
		return
	}
	defer f.Close()

	reader := &deadlineReader{conn}
	buf := make([]byte, transferBufferSize)
	for {
		n, rerr := reader.Read(buf)
		if n > 0 {
			if _, werr := f.Write(buf[:n]); werr != nil {
				s.reply(StatusFileUnavailable, "Failed to write to file.")
				return
			}
		}
		if rerr != nil {
			if rerr == io.EOF {
				break
			}
			s.reply(StatusConnectionClosedTransferAborted, "Transfer aborted due to connection error or timeout.")
			return
		}
	}

	s.reply(StatusClosingDataConnection, "Transfer complete.")
}

// handleRetr implements RETR.
func handleRetr(s *Session, arg string) bool {
	if !s.requireLogin() {
		return false
	}
	if !s.requirePassive() {
		return false
	}
	defer s.closeData()

	path, err := s.fs().Realpath(s.cwd, arg)
	if err != nil {
		s.reply(StatusFileUnavailable, "File not found.")
		return false
	}

	submitTransfer(s, func() { retrBody(s, path) })
	return false
}

func retrBody(s *Session, path string) {
	if !s.fs().Exists(path) {
		s.reply(StatusFileUnavailable, "File not found.")
		return
	}

	f, err := s.fs().Open(path)
	if err != nil {
		s.reply(StatusFileUnavailable, "Failed to open file.")
		return
	}
	defer f.Close()

	conn, err := s.acceptData()
	if err != nil {
		s.reply(StatusCantOpenDataConnection, "Could not open data connection.")
		return
	}

	s.reply(StatusFileStatusOK, "Opening data connection.")

	var sendErr error
	if s.transferType == TransferTypeASCII {
		sendErr = sendASCII(conn, f)
	} else {
		buf := make([]byte, transferBufferSize)
		_, sendErr = io.CopyBuffer(conn, f, buf)
	}
	if sendErr != nil {
		s.reply(StatusConnectionClosedTransferAborted, "Transfer aborted: Connection closed.")
		return
	}

	s.reply(StatusClosingDataConnection, "Transfer complete.")
}

// sendASCII streams src to dst one line at a time, appending "\r\n" to
// each line regardless of how the source terminated it, per ASCII-mode
// transfer semantics.
func sendASCII(dst io.Writer, src io.Reader) error {
	r := bufio.NewReader(src)
	for {
		line, err := r.ReadString('\n')
		if len(line) > 0 {
			line = strings.TrimRight(line, "\n")
			line = strings.TrimRight(line, "\r")
			if _, werr := dst.Write([]byte(line + "\r\n")); werr != nil {
				return werr
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

// handleList implements LIST. Unlike the reference (which runs LIST
// synchronously on the calling thread, see FileCommand::handle_list),
// this offloads it to the task pool just like RETR, per the explicit
// recommendation to treat LIST identically to other transfers.
func handleList(s *Session, arg string) bool {
	if !s.requireLogin() {
		return false
	}
	if !s.requirePassive() {
		return false
	}
	defer s.closeData()

	dir := s.cwd
	if arg != "" {
		resolved, err := s.fs().Realpath(s.cwd, arg)
		if err == nil {
			dir = resolved
		}
	}

	submitTransfer(s, func() { listBody(s, dir) })
	return false
}

func listBody(s *Session, dir string) {
	entries, err := s.fs().ReadDir(dir)
	if err != nil {
		s.reply(StatusFileUnavailable, "Could not open directory.")
		return
	}

	conn, err := s.acceptData()
	if err != nil {
		s.reply(StatusCantOpenDataConnection, "Could not open data connection.")
		return
	}

	s.reply(StatusFileStatusOK, "Here comes the directory listing.")

	for _, info := range entries {
		line := listLine(dir, info)
		if _, err := conn.Write([]byte(line + "\r\n")); err != nil {
			s.reply(StatusConnectionClosedTransferAborted, "Transfer aborted: Connection closed.")
			return
		}
	}

	s.reply(StatusClosingDataConnection, "Directory send OK.")
}

func listLine(dir string, info os.FileInfo) string {
	full := filepath.Join(dir, info.Name())
	return filesystem.FormatLine(full, info)
}

// deadlineReader re-arms a read deadline before each Read, so a slow or
// stalled uploader is dropped after dataTransferTimeout of inactivity
// rather than hanging the worker forever.
type deadlineReader struct {
	conn interface {
		io.Reader
		SetReadDeadline(time.Time) error
	}
}

func (d *deadlineReader) Read(p []byte) (int, error) {
	_ = d.conn.SetReadDeadline(time.Now().Add(dataTransferTimeout))
	return d.conn.Read(p)
}
