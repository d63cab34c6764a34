package ftp

import (
	"fmt"
	"math/rand"
	"net"
	"strconv"
	"strings"
)

const pasvMaxRetries = 5

// bindHost picks the address PASV/EPSV binds its listener to. An
// explicit Server.BindAddr wins; otherwise the session prefers the
// local address of its own control connection, so a server reachable
// on multiple interfaces advertises the one the client actually
// connected through (REDESIGN FLAG: no hardcoded loopback).
func (s *Session) bindHost() string {
	if s.server.BindAddr != "" {
		return s.server.BindAddr
	}
	if addr, ok := s.conn.LocalAddr().(*net.TCPAddr); ok {
		return addr.IP.String()
	}
	return "127.0.0.1"
}

func (s *Session) portRange() (min, max int) {
	min, max = s.server.PasvMinPort, s.server.PasvMaxPort
	if min <= 0 || max <= 0 || min > max {
		min, max = 1024, 65535
	}
	return
}

// listenPassive tries up to pasvMaxRetries random ports in range,
// matching the reference's handle_pasv retry loop.
func (s *Session) listenPassive(host string) (net.Listener, error) {
	min, max := s.portRange()
	span := max - min + 1

	var lastErr error
	for i := 0; i < pasvMaxRetries; i++ {
		port := min + rand.Intn(span)
		ln, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
		if err == nil {
			return ln, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// handlePasv implements PASV.
func handlePasv(s *Session, _ string) bool {
	if !s.requireLogin() {
		return false
	}

	host := s.bindHost()
	ln, err := s.listenPassive(host)
	if err != nil {
		s.reply(StatusSyntaxError, "Failed to enter passive mode.")
		return false
	}
	s.dataListener = ln
	s.passive = true

	port := ln.Addr().(*net.TCPAddr).Port
	ipParts := strings.ReplaceAll(host, ".", ",")
	p1, p2 := port/256, port%256
	s.reply(StatusEnteringPassiveMode, fmt.Sprintf("Entering Passive Mode (%s,%d,%d).", ipParts, p1, p2))
	return false
}

// handleEpsv implements EPSV (RFC 2428), binding the same way as PASV
// but replying with the extended-passive format.
func handleEpsv(s *Session, _ string) bool {
	if !s.requireLogin() {
		return false
	}

	host := s.bindHost()
	ln, err := s.listenPassive(host)
	if err != nil {
		s.reply(StatusSyntaxError, "Failed to enter extended passive mode.")
		return false
	}
	s.dataListener = ln
	s.passive = true

	port := ln.Addr().(*net.TCPAddr).Port
	s.reply(StatusEnteringExtendedPassiveMode, fmt.Sprintf("Entering Extended Passive Mode (|||%d|).", port))
	return false
}

// handleType implements TYPE.
func handleType(s *Session, arg string) bool {
	if !s.requireLogin() {
		return false
	}
	switch arg {
	case "I":
		s.transferType = TransferTypeBinary
		s.reply(StatusCommandOK, "Type set to I.")
	case "A":
		s.transferType = TransferTypeASCII
		s.reply(StatusCommandOK, "Type set to A.")
	default:
		s.reply(StatusSyntaxError, "Unrecognized TYPE command. Supported types are I (binary) and A (ASCII).")
	}
	return false
}
