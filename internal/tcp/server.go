// Package tcp serves the text command protocol: one goroutine per accepted
// connection, each running its own read/execute/respond loop against a
// private protocol.Session.
package tcp

import (
	"bufio"
	"fmt"
	"net"
	"sync"

	"domotica/internal/logger"
	"domotica/internal/protocol"
)

// Server accepts command connections and drives one session per client.
type Server struct {
	interp *protocol.Interpreter
	log    *logger.Logger

	mu       sync.Mutex
	listener net.Listener
	conns    map[string]net.Conn
	closed   bool

	wg sync.WaitGroup
}

// New builds a server; Start binds it.
func New(interp *protocol.Interpreter, log *logger.Logger) *Server {
	return &Server{
		interp: interp,
		log:    log,
		conns:  make(map[string]net.Conn),
	}
}

// Start binds the listener and begins accepting in the background.
func (s *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.log.Infow("tcp server listening", "addr", listener.Addr().String())
	s.wg.Add(1)
	go s.acceptLoop(listener)
	return nil
}

// Addr returns the bound address (useful when started with port 0).
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop closes the listener and every open connection, then waits for the
// session goroutines to drain. Sessions that are mid-command finish writing
// their current response at most.
func (s *Server) Stop() {
	s.mu.Lock()
	s.closed = true
	if s.listener != nil {
		_ = s.listener.Close()
	}
	for _, c := range s.conns {
		_ = c.Close()
	}
	s.mu.Unlock()
	s.wg.Wait()
	s.log.Infow("tcp server stopped")
}

func (s *Server) acceptLoop(listener net.Listener) {
	defer s.wg.Done()
	for {
		conn, err := listener.Accept()
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if closed {
				return
			}
			s.log.Errorw("accept failed", "err", err)
			return
		}
		s.track(conn)
		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

// handleConn runs one client session: banner, then one response per line
// until EXIT, peer close or an I/O error. A protocol error never ends the
// session; only transport failures do.
func (s *Server) handleConn(conn net.Conn) {
	remote := conn.RemoteAddr().String()
	defer func() {
		s.untrack(conn)
		_ = conn.Close()
		s.wg.Done()
		s.log.Infow("client disconnected", "remote", remote)
	}()

	s.log.Infow("client connected", "remote", remote)
	if _, err := conn.Write([]byte(protocol.Banner)); err != nil {
		s.log.Debugw("banner write failed", "remote", remote, "err", err)
		return
	}

	sess := &protocol.Session{}
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := scanner.Text()
		response, quit := s.interp.Execute(line, sess)
		if _, err := conn.Write([]byte(response + "\n")); err != nil {
			s.log.Debugw("write failed", "remote", remote, "err", err)
			return
		}
		if quit {
			return
		}
	}
	if err := scanner.Err(); err != nil {
		s.log.Debugw("read failed", "remote", remote, "err", err)
	}
}

func (s *Server) track(conn net.Conn) {
	s.mu.Lock()
	s.conns[conn.RemoteAddr().String()] = conn
	s.mu.Unlock()
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn.RemoteAddr().String())
	s.mu.Unlock()
}
