package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/tangaroa/navhub/internal/config"
	"github.com/tangaroa/navhub/internal/navrecord"
)

// fakeHub is the minimal Hub double: Subscribe captures the callback so the
// test can drive it directly, the way bus.Bus.Publish would.
type fakeHub struct {
	mu sync.Mutex
	cb func(navrecord.Record)
}

func (f *fakeHub) Sources() []config.SourceConfig    { return nil }
func (f *fakeHub) Outputs() []config.OutputConfig    { return nil }
func (f *fakeHub) Simulator() config.SimulatorConfig { return config.SimulatorConfig{} }

func (f *fakeHub) Subscribe(cb func(navrecord.Record)) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cb = cb
	return 1
}

func (f *fakeHub) Unsubscribe(uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cb = nil
}

func (f *fakeHub) subscribed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cb != nil
}

// publish stands in for bus.Bus.Publish calling a subscriber synchronously
// under its own lock.
func (f *fakeHub) publish(rec navrecord.Record) {
	f.mu.Lock()
	cb := f.cb
	f.mu.Unlock()
	if cb != nil {
		cb(rec)
	}
}

// blockingWriter is an http.ResponseWriter/http.Flusher whose Write blocks
// until unblock is closed, standing in for a stalled /nav client socket.
type blockingWriter struct {
	header  http.Header
	unblock chan struct{}
}

func newBlockingWriter() *blockingWriter {
	return &blockingWriter{header: make(http.Header), unblock: make(chan struct{})}
}

func (w *blockingWriter) Header() http.Header { return w.header }
func (w *blockingWriter) WriteHeader(int)     {}
func (w *blockingWriter) Flush()              {}

func (w *blockingWriter) Write(p []byte) (int, error) {
	<-w.unblock
	return len(p), nil
}

func TestNavStreamSubscriberNeverBlocksOnStalledClient(t *testing.T) {
	hub := &fakeHub{}
	s := New(hub, nil)

	w := newBlockingWriter()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/nav", nil).WithContext(ctx)

	done := make(chan struct{})
	go func() {
		s.handleNavStream(w, req)
		close(done)
	}()

	for i := 0; !hub.subscribed() && i < 1000; i++ {
		time.Sleep(time.Millisecond)
	}
	if !hub.subscribed() {
		t.Fatalf("handleNavStream never subscribed")
	}

	// The stream's own goroutine is now stuck writing the first record to w.
	// Publishing many more must still return immediately: the subscriber
	// callback only enqueues, it never writes.
	start := time.Now()
	for i := 0; i < navStreamQueueDepth+5; i++ {
		hub.publish(navrecord.Record{SourceID: "GPS1"})
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("publish to a stalled /nav subscriber blocked for %s, want effectively instant", elapsed)
	}

	close(w.unblock)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("handleNavStream did not return after context cancellation")
	}
}

func TestHandleStatusReportsSourcesOutputsAndSimulator(t *testing.T) {
	hub := &fakeHub{}
	s := New(hub, nil)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	s.handleStatus(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected application/json, got %q", ct)
	}
}
