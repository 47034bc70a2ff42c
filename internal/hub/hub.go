// Package hub wires codec, config, bus, ioservice, simulator, scheduler,
// and manager into the three external-collaborator surfaces named in §1/§6:
// a log callback, a navigation-record subscription, and a configuration
// apply/query surface.
package hub

import (
	"sync"

	"github.com/tangaroa/navhub/internal/bus"
	"github.com/tangaroa/navhub/internal/config"
	"github.com/tangaroa/navhub/internal/manager"
	"github.com/tangaroa/navhub/internal/metrics"
	"github.com/tangaroa/navhub/internal/navrecord"
	"github.com/tangaroa/navhub/internal/scheduler"
	"github.com/tangaroa/navhub/internal/simulator"
)

// LogFunc is the external-collaborator log callback: every ingested or
// simulator-emitted sentence is reported as (origin-tag, sentence).
type LogFunc func(origin, sentence string)

// Hub is the process-lifetime assembly of the navigation core. It owns the
// config store, the message bus, the service manager, the simulator chain,
// and the scheduler tick, and is the attachment point for the three
// external-collaborator surfaces named in §6.
type Hub struct {
	store     *config.Store
	bus       *bus.Bus
	manager   *manager.Manager
	chain     *simulator.Chain
	scheduler *scheduler.Scheduler

	logMu sync.RWMutex
	log   LogFunc
}

// New assembles a Hub. The simulator chain starts from the store's current
// SimulatorConfig; the scheduler starts stopped (simulator-inactive) —
// callers opt in with SetSimulatorActive.
func New() *Hub {
	store := config.NewStore()
	b := bus.New()

	h := &Hub{store: store, bus: b}

	h.manager = manager.New(b, h.dispatchLog)
	h.chain = simulator.New(store.Simulator())
	h.scheduler = scheduler.New(h.chain, b, h.manager, h.dispatchLog)

	return h
}

func (h *Hub) dispatchLog(origin, sentence string) {
	h.logMu.RLock()
	cb := h.log
	h.logMu.RUnlock()
	if cb != nil {
		cb(origin, sentence)
	}
}

// SetLogFunc installs the external-collaborator log callback, replacing any
// previous one. Passing nil disables logging callbacks without stopping
// ingestion.
func (h *Hub) SetLogFunc(log LogFunc) {
	h.logMu.Lock()
	defer h.logMu.Unlock()
	h.log = log
}

// Start applies every currently-configured source and output (per §4.4's
// apply algorithm) and starts the scheduler tick. The simulator stays
// inactive until SetSimulatorActive(true).
func (h *Hub) Start() {
	for _, c := range h.store.Sources() {
		h.manager.ApplySource(c)
	}
	for _, c := range h.store.Outputs() {
		h.manager.ApplyOutput(c)
	}
	h.scheduler.Start()
}

// Stop halts the scheduler tick and every running source/output service.
func (h *Hub) Stop() {
	h.scheduler.Stop()
	for _, c := range h.store.Sources() {
		h.manager.RemoveSource(c.ID)
	}
	for _, c := range h.store.Outputs() {
		h.manager.RemoveOutput(c.ID)
	}
}

// SetSimulatorActive toggles the scheduler's simulator-active flag (§4.7).
func (h *Hub) SetSimulatorActive(active bool) {
	h.scheduler.SetActive(active)
}

// SimulatorActive reports the scheduler's current simulator-active flag.
func (h *Hub) SimulatorActive() bool {
	return h.scheduler.Active()
}

// Subscribe registers cb on the message bus and returns its subscription id.
func (h *Hub) Subscribe(cb func(navrecord.Record)) uint64 {
	id := h.bus.Subscribe(cb)
	metrics.SetBusSubscribers(1)
	return id
}

// Unsubscribe removes a subscriber previously registered with Subscribe.
func (h *Hub) Unsubscribe(id uint64) {
	h.bus.Unsubscribe(id)
	metrics.SetBusSubscribers(-1)
}

// Sources returns a snapshot of every configured source.
func (h *Hub) Sources() []config.SourceConfig {
	return h.store.Sources()
}

// Outputs returns a snapshot of every configured output.
func (h *Hub) Outputs() []config.OutputConfig {
	return h.store.Outputs()
}

// Simulator returns the current simulator configuration.
func (h *Hub) Simulator() config.SimulatorConfig {
	return h.store.Simulator()
}

// ApplySource stores c and applies it to the service manager per §4.4: any
// running service at c.ID is stopped and a fresh one started if c.Enabled.
func (h *Hub) ApplySource(c config.SourceConfig) {
	h.store.PutSource(c)
	stored, _ := h.store.Source(c.ID)
	h.manager.ApplySource(stored)
}

// ApplyOutput stores c and applies it to the service manager.
func (h *Hub) ApplyOutput(c config.OutputConfig) {
	h.store.PutOutput(c)
	h.manager.ApplyOutput(c)
}

// RemoveSource stops and forgets the source at id.
func (h *Hub) RemoveSource(id string) {
	h.store.RemoveSource(id)
	h.manager.RemoveSource(id)
}

// RemoveOutput stops and forgets the output at id.
func (h *Hub) RemoveOutput(id string) {
	h.store.RemoveOutput(id)
	h.manager.RemoveOutput(id)
}

// SetSimulator replaces the simulator configuration, live-applying it to the
// running chain so a changed start position or AIS fleet takes effect on
// the next tick without a restart.
func (h *Hub) SetSimulator(c config.SimulatorConfig) {
	h.store.SetSimulator(c)
	h.chain.SetConfig(c)
}
