// Package ipc is the local control channel. The hotkey binding on the desktop
// side runs jarvis-ctl, which delivers trigger and confirm commands over a
// unix socket; the daemon treats those as explicit hotkey activations.
package ipc

import (
	"encoding/json"
	"errors"
	"fmt"
	log "log/slog"
	"net"
	"os"
)

const (
	CmdTrigger  = "trigger"
	CmdConfirm  = "confirm"
	CmdShutdown = "shutdown"
)

type ControlMessage struct {
	Cmd string `json:"cmd"`
}

// Server owns the control socket. Close tears the listener down and waits for
// the accept loop to exit.
type Server struct {
	ln   net.Listener
	done chan struct{}
}

func StartServer(socketPath string, handler func(ControlMessage)) (*Server, error) {
	os.Remove(socketPath)

	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}

	s := &Server{ln: ln, done: make(chan struct{})}
	go s.serve(handler)
	return s, nil
}

func (s *Server) serve(handler func(ControlMessage)) {
	defer close(s.done)
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			log.Warn("Accept failed", "err", err)
			continue
		}
		go handleConn(conn, handler)
	}
}

func (s *Server) Close() error {
	err := s.ln.Close()
	<-s.done
	return err
}

func handleConn(conn net.Conn, handler func(ControlMessage)) {
	defer conn.Close()

	var msg ControlMessage
	dec := json.NewDecoder(conn)
	if err := dec.Decode(&msg); err != nil {
		return
	}
	handler(msg)
}

// CheckSocket verifies the socket path can be bound, for the startup self
// check. The probe socket is removed afterwards.
func CheckSocket(socketPath string) error {
	os.Remove(socketPath)
	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("control socket %s: %w", socketPath, err)
	}
	ln.Close()
	os.Remove(socketPath)
	return nil
}

func SendCommand(socketPath, cmd string) error {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	enc := json.NewEncoder(conn)
	return enc.Encode(ControlMessage{Cmd: cmd})
}
