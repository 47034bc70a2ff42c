package ioservice

import (
	"log/slog"
	"sync"
	"time"

	"github.com/tarm/serial"
)

// SerialOutput is an output service backed by a serial tty, sharing the
// same 8N1 open parameters as SerialSource. It owns an FIFO send queue
// drained by its own I/O worker goroutine.
type SerialOutput struct {
	PortPath string
	BaudRate int
	Logger   *slog.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	state   State
	port    *serial.Port
	queue   []string
	sending bool
	done    chan struct{}
}

func (s *SerialOutput) initCond() {
	if s.cond == nil {
		s.cond = sync.NewCond(&s.mu)
	}
}

// Start opens the port and begins the drain loop. Idempotent.
func (s *SerialOutput) Start() error {
	s.mu.Lock()
	s.initCond()
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
		s.logger().Error("serial output open failed", "port", s.PortPath, "error", err)
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

	go s.drainLoop(port, done)
	return nil
}

// Send appends frame to the FIFO queue. Non-blocking.
func (s *SerialOutput) Send(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initCond()
	if s.state != Running {
		return
	}
	s.queue = append(s.queue, frame)
	s.cond.Signal()
}

func (s *SerialOutput) drainLoop(port *serial.Port, done chan struct{}) {
	defer close(done)
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && s.state == Running {
			s.sending = false
			s.cond.Wait()
		}
		if s.state != Running {
			s.mu.Unlock()
			return
		}
		frame := s.queue[0]
		s.queue = s.queue[1:]
		s.sending = true
		s.mu.Unlock()

		if _, err := port.Write([]byte(frame)); err != nil {
			s.logger().Error("serial output write error", "port", s.PortPath, "error", err)
		}
	}
}

// Stop is idempotent and flushes in-flight completions (the current write
// returns) before the worker joins.
func (s *SerialOutput) Stop() {
	s.mu.Lock()
	if s.state != Running {
		s.mu.Unlock()
		return
	}
	s.state = Stopping
	port := s.port
	done := s.done
	s.initCond()
	s.cond.Broadcast()
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
	s.queue = nil
	s.sending = false
	s.mu.Unlock()
}

func (s *SerialOutput) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == Running
}

func (s *SerialOutput) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *SerialOutput) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
