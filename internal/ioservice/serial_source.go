package ioservice

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/tarm/serial"
)

// SerialSource is a source service backed by a serial tty, 8N1 at a
// configured baud rate.
type SerialSource struct {
	PortPath string
	BaudRate int
	OnData   DataCallback
	Logger   *slog.Logger

	mu    sync.Mutex
	state State
	port  *serial.Port
	done  chan struct{}
}

// Start opens the serial port and begins the read loop on its own goroutine.
// Idempotent: calling Start while already Running is a no-op.
func (s *SerialSource) Start() error {
	s.mu.Lock()
	if s.state == Running || s.state == Starting {
		s.mu.Unlock()
		return nil
	}
	s.state = Starting
	s.mu.Unlock()

	port, err := serial.OpenPort(&serial.Config{
		Name:        s.PortPath,
		Baud:        s.BaudRate,
		ReadTimeout: 200 * time.Millisecond,
	})
	if err != nil {
		s.logger().Error("serial source open failed", "port", s.PortPath, "error", err)
		s.mu.Lock()
		s.state = Stopped
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.port = port
	s.state = Running
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	go s.readLoop(port, done)
	return nil
}

func (s *SerialSource) readLoop(port *serial.Port, done chan struct{}) {
	defer close(done)
	buf := make([]byte, 4096)
	for {
		n, err := port.Read(buf)
		if s.isStopping() {
			return
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			s.logger().Error("serial source read error", "port", s.PortPath, "error", err)
			s.mu.Lock()
			if s.state == Running {
				s.state = Stopped
			}
			s.mu.Unlock()
			return
		}
		if n > 0 && s.OnData != nil {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			s.OnData(chunk, s.PortPath)
		}
	}
}

func (s *SerialSource) isStopping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == Stopping
}

// Stop cancels the pending read, closes the port, and joins the worker
// before returning. Idempotent.
func (s *SerialSource) Stop() {
	s.mu.Lock()
	if s.state != Running {
		s.mu.Unlock()
		return
	}
	s.state = Stopping
	port := s.port
	done := s.done
	s.mu.Unlock()

	if port != nil {
		port.Close()
	}
	if done != nil {
		<-done
	}

	s.mu.Lock()
	s.state = Stopped
	s.port = nil
	s.mu.Unlock()
}

func (s *SerialSource) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == Running
}

func (s *SerialSource) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *SerialSource) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
