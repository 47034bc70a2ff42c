package ioservice

import (
	"fmt"
	"log/slog"
	"net"
	"sync"
)

// UDPOutput is an output service backed by an unconnected UDP socket with a
// single resolved remote endpoint, sharing the FIFO send queue / drain loop
// pattern with SerialOutput.
type UDPOutput struct {
	TargetHost string
	TargetPort int
	Logger     *slog.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	state   State
	conn    *net.UDPConn
	remote  *net.UDPAddr
	queue   []string
	sending bool
	done    chan struct{}
}

func (u *UDPOutput) initCond() {
	if u.cond == nil {
		u.cond = sync.NewCond(&u.mu)
	}
}

// Start opens the socket, resolves the remote endpoint, and begins the
// drain loop. Idempotent.
func (u *UDPOutput) Start() error {
	u.mu.Lock()
	u.initCond()
	if u.state == Running || u.state == Starting {
		u.mu.Unlock()
		return nil
	}
	u.state = Starting
	u.mu.Unlock()

	remote, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", u.TargetHost, u.TargetPort))
	if err != nil {
		u.logger().Error("udp output resolve failed", "host", u.TargetHost, "port", u.TargetPort, "error", err)
		u.mu.Lock()
		u.state = Stopped
		u.mu.Unlock()
		return err
	}

	conn, err := net.ListenUDP("udp", nil)
	if err != nil {
		u.logger().Error("udp output open failed", "error", err)
		u.mu.Lock()
		u.state = Stopped
		u.mu.Unlock()
		return err
	}

	u.mu.Lock()
	u.conn = conn
	u.remote = remote
	u.state = Running
	u.done = make(chan struct{})
	done := u.done
	u.mu.Unlock()

	go u.drainLoop(conn, remote, done)
	return nil
}

// Send appends frame to the FIFO queue. Non-blocking.
func (u *UDPOutput) Send(frame string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.initCond()
	if u.state != Running {
		return
	}
	u.queue = append(u.queue, frame)
	u.cond.Signal()
}

func (u *UDPOutput) drainLoop(conn *net.UDPConn, remote *net.UDPAddr, done chan struct{}) {
	defer close(done)
	for {
		u.mu.Lock()
		for len(u.queue) == 0 && u.state == Running {
			u.sending = false
			u.cond.Wait()
		}
		if u.state != Running {
			u.mu.Unlock()
			return
		}
		frame := u.queue[0]
		u.queue = u.queue[1:]
		u.sending = true
		u.mu.Unlock()

		if _, err := conn.WriteToUDP([]byte(frame), remote); err != nil {
			u.logger().Error("udp output write error", "target", remote.String(), "error", err)
		}
	}
}

// Stop is idempotent and flushes in-flight completions before returning.
func (u *UDPOutput) Stop() {
	u.mu.Lock()
	if u.state != Running {
		u.mu.Unlock()
		return
	}
	u.state = Stopping
	conn := u.conn
	done := u.done
	u.initCond()
	u.cond.Broadcast()
	u.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	if done != nil {
		<-done
	}

	u.mu.Lock()
	u.state = Stopped
	u.conn = nil
	u.queue = nil
	u.sending = false
	u.mu.Unlock()
}

func (u *UDPOutput) IsRunning() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state == Running
}

func (u *UDPOutput) State() State {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

func (u *UDPOutput) logger() *slog.Logger {
	if u.Logger != nil {
		return u.Logger
	}
	return slog.Default()
}
