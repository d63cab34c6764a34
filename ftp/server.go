package ftp

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync/atomic"

	"github.com/telebroad/ftpd/credentials"
	"github.com/telebroad/ftpd/filesystem"
)

// Server accepts control connections and dispatches each one,
// round-robin, to one of a fixed set of workers — the Go realization
// of the reference's MasterAcceptor handing connections to a rotating
// set of WorkerReactorTasks.
type Server struct {
	addr        string
	fs          filesystem.FS
	credentials *credentials.Table
	logger      *slog.Logger

	// BindAddr is advertised in PASV/EPSV replies. When empty, each
	// session falls back to its own control connection's local
	// address (REDESIGN FLAG: configurable bind address instead of a
	// hardcoded loopback).
	BindAddr string
	// PasvMinPort/PasvMaxPort bound the random port PASV/EPSV picks.
	// Zero values mean the full ephemeral range, 1024-65535.
	PasvMinPort int
	PasvMaxPort int

	workers  []*worker
	next     uint64
	taskPool *taskPool

	listener net.Listener

	nextSessionID uint64
}

// NewServer constructs a Server that serves files from fsys and
// authenticates against creds. numReactorWorkers and numTaskWorkers
// default to 4 when zero, matching the reference's CLI defaults.
func NewServer(addr string, fsys filesystem.FS, creds *credentials.Table, numReactorWorkers, numTaskWorkers int) *Server {
	if numReactorWorkers <= 0 {
		numReactorWorkers = 4
	}
	if numTaskWorkers <= 0 {
		numTaskWorkers = 4
	}

	s := &Server{
		addr:        addr,
		fs:          fsys,
		credentials: creds,
		logger:      slog.Default(),
		taskPool:    newTaskPool(numTaskWorkers, defaultTaskQueueSize),
	}
	s.workers = make([]*worker, numReactorWorkers)
	for i := range s.workers {
		s.workers[i] = newWorker(i)
	}
	return s
}

// SetLogger overrides the server's logger.
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// ListenAndServe binds the listener and serves until Close is called
// or accept fails permanently.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("binding ftp listener: %w", err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln, dispatching each one round-robin to
// a worker, until ln is closed.
func (s *Server) Serve(ln net.Listener) error {
	s.listener = ln
	s.logger.Info("ftp server listening", "addr", ln.Addr().String())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accepting connection: %w", err)
		}

		idx := atomic.AddUint64(&s.next, 1) - 1
		w := s.workers[idx%uint64(len(s.workers))]

		id := strconv.FormatUint(atomic.AddUint64(&s.nextSessionID, 1), 10)
		w.handle(conn, s, id)
	}
}

// Close stops accepting new connections, waits for every in-flight
// session to finish, then drains and joins the transfer task pool.
func (s *Server) Close() error {
	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}
	for _, w := range s.workers {
		w.wait()
	}
	s.taskPool.Close()
	return err
}
