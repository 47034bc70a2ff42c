// Package httpapi exposes a thin, optional JSON/SSE status surface for an
// out-of-process monitor — the rare external collaborator that cannot
// attach through the in-process log callback / nav subscription / config
// surface §6 otherwise describes. Built the same way engine/world.go wires
// its own HTTP surface: a ServeMux behind rs/cors and h2c so the handler
// also speaks HTTP/2 without TLS.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/tangaroa/navhub/internal/config"
	"github.com/tangaroa/navhub/internal/navrecord"
)

// Hub is the subset of internal/hub.Hub the HTTP surface reads from.
type Hub interface {
	Sources() []config.SourceConfig
	Outputs() []config.OutputConfig
	Simulator() config.SimulatorConfig
	Subscribe(func(navrecord.Record)) uint64
	Unsubscribe(uint64)
}

// Server wraps an http.Server exposing /healthz, /status, /nav (SSE), and
// /metrics (if a metrics handler is supplied).
type Server struct {
	hub     Hub
	metrics http.Handler
	logger  *slog.Logger

	srv *http.Server
}

// New returns a Server reading from hub. metricsHandler may be nil (no
// /metrics route is registered).
func New(hub Hub, metricsHandler http.Handler) *Server {
	s := &Server{hub: hub, metrics: metricsHandler, logger: slog.Default().With("component", "httpapi")}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/nav", s.handleNavStream)
	if metricsHandler != nil {
		mux.Handle("/metrics", metricsHandler)
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET"},
		AllowedHeaders: []string{"*"},
	})

	s.srv = &http.Server{
		Handler: h2c.NewHandler(corsHandler.Handler(mux), &http2.Server{}),
	}
	return s
}

// Serve blocks, accepting connections on listener until Shutdown is called.
func (s *Server) Serve(listener net.Listener) error {
	err := s.srv.Serve(listener)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops accepting new connections and waits for in-flight ones.
func (s *Server) Shutdown() error {
	return s.srv.Shutdown(context.Background())
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("OK"))
}

type statusResponse struct {
	Sources   []config.SourceConfig  `json:"sources"`
	Outputs   []config.OutputConfig  `json:"outputs"`
	Simulator config.SimulatorConfig `json:"simulator"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Sources:   s.hub.Sources(),
		Outputs:   s.hub.Outputs(),
		Simulator: s.hub.Simulator(),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("status encode failed", "err", err)
	}
}

// navStreamQueueDepth bounds how many published records a single /nav
// subscriber can lag behind; while its queue is full, newly published
// records are dropped.
const navStreamQueueDepth = 32

// navStreamWriteTimeout bounds a single SSE write to a stalled client's
// socket, so one deadline failure (rather than an indefinite block) ends
// the stream.
const navStreamWriteTimeout = 5 * time.Second

// handleNavStream streams every published Navigation record as a
// server-sent event, for a browser-based monitor that wants a live feed
// without polling /status.
//
// bus.Bus.Publish calls every subscriber synchronously while holding its
// own lock, so the subscriber callback here only ever enqueues — it never
// writes to the response itself. A dedicated goroutine per request drains
// the queue and does the actual Fprintf/Flush, with its own write
// deadline, so a slow or idle client on this unauthenticated endpoint can
// only stall its own stream, never a publisher on the shared bus.
func (s *Server) handleNavStream(w http.ResponseWriter, r *http.Request) {
	if _, ok := w.(http.Flusher); !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")

	queue := make(chan navrecord.Record, navStreamQueueDepth)
	id := s.hub.Subscribe(func(rec navrecord.Record) {
		select {
		case queue <- rec:
		default:
			s.logger.Warn("nav stream subscriber queue full, dropping record")
		}
	})
	defer s.hub.Unsubscribe(id)

	rc := http.NewResponseController(w)
	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case rec := <-queue:
			payload, err := json.Marshal(rec)
			if err != nil {
				continue
			}
			rc.SetWriteDeadline(time.Now().Add(navStreamWriteTimeout))
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}
