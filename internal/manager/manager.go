// Package manager implements the §4.4 service manager: the sole mutator of
// the running source/output service maps, the apply algorithm that
// restarts a service on every configuration apply (never a diff), the
// best-effort broadcast fan-out to outputs, and the canonical ingress
// framing pass (CR/LF-strip, '$'-delimited resplit for serial, one-frame-
// per-datagram passthrough for UDP) that the raw ioservice callbacks feed
// into.
package manager

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/tangaroa/navhub/internal/bus"
	"github.com/tangaroa/navhub/internal/codec"
	"github.com/tangaroa/navhub/internal/config"
	"github.com/tangaroa/navhub/internal/ioservice"
	"github.com/tangaroa/navhub/internal/metrics"
)

// LogFunc receives (origin-tag, sentence) for every framed sentence ingested
// from a source, and every sentence the scheduler drains from the
// simulator. origin-tag is "SERIAL:"+id or "UDP:"+id for real sources.
type LogFunc func(origin, sentence string)

// simulatorPlaceholder is the running-service stand-in registered for a
// simulator-typed source: its only job is to report Running. Actual
// sentence production is driven by the scheduler tick against the shared
// simulator chain, never by this placeholder.
type simulatorPlaceholder struct{}

func (simulatorPlaceholder) Start() error          { return nil }
func (simulatorPlaceholder) Stop()                 {}
func (simulatorPlaceholder) IsRunning() bool        { return true }
func (simulatorPlaceholder) State() ioservice.State { return ioservice.Running }

// Manager owns the running source and output services and is the sole
// mutator of their maps. All operations serialize through mu, which is
// intentionally re-entered from an I/O worker's own goroutine during
// ingress/broadcast — those calls happen on the worker's own stack, never
// reenter mu while already holding it, so a plain (non-reentrant) mutex is
// sufficient here: Go has no reentrant mutex primitive, so "reentrant" in
// §4.4's sense is satisfied by never calling back into the manager from
// inside a locked section, not by a recursive lock.
type Manager struct {
	mu sync.Mutex

	sources map[string]ioservice.Source
	outputs map[string]ioservice.Output

	sourceCfg map[string]config.SourceConfig
	outputCfg map[string]config.OutputConfig

	bus     *bus.Bus
	decoder *codec.Decoder
	log     LogFunc
	logger  *slog.Logger
}

// New returns an empty Manager publishing parsed records to b and invoking
// log for every ingested sentence. log may be nil.
func New(b *bus.Bus, log LogFunc) *Manager {
	if log == nil {
		log = func(string, string) {}
	}
	return &Manager{
		sources:   make(map[string]ioservice.Source),
		outputs:   make(map[string]ioservice.Output),
		sourceCfg: make(map[string]config.SourceConfig),
		outputCfg: make(map[string]config.OutputConfig),
		bus:       b,
		decoder:   codec.NewDecoder(),
		log:       log,
		logger:    slog.Default().With("component", "manager"),
	}
}

// SourceEnabled reports whether the source configuration at id is both
// present and enabled — the scheduler's gate on publishing/broadcasting a
// simulator tick.
func (m *Manager) SourceEnabled(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.sourceCfg[id]
	return ok && c.Enabled
}

// ApplySource implements §4.4's apply algorithm for a source configuration:
// any existing service at c.ID is always stopped and removed first (apply
// is a restart, never a diff against the prior configuration), then, if
// c.Enabled, the appropriate variant is constructed and started.
func (m *Manager) ApplySource(c config.SourceConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopAndRemoveSourceLocked(c.ID)
	m.sourceCfg[c.ID] = c

	if !c.Enabled {
		return
	}

	svc := m.buildSource(c)
	if svc == nil {
		return
	}
	if err := svc.Start(); err != nil {
		m.logger.Error("source start failed", "id", c.ID, "err", err)
		return
	}
	m.sources[c.ID] = svc
}

func (m *Manager) buildSource(c config.SourceConfig) ioservice.Source {
	switch c.Variant {
	case config.SourceSimulator:
		return simulatorPlaceholder{}
	case config.SourceSerial:
		return &ioservice.SerialSource{
			PortPath: c.PortPath,
			BaudRate: c.BaudRate,
			OnData:   m.ingressCallback(c.ID, true),
			Logger:   m.logger.With("source", c.ID),
		}
	case config.SourceUDP:
		return &ioservice.UDPSource{
			Port:   c.ListenPort,
			OnData: m.ingressCallback(c.ID, false),
			Logger: m.logger.With("source", c.ID),
		}
	default:
		m.logger.Error("unknown source variant", "id", c.ID, "variant", c.Variant)
		return nil
	}
}

func (m *Manager) stopAndRemoveSourceLocked(id string) {
	if svc, ok := m.sources[id]; ok {
		svc.Stop()
		delete(m.sources, id)
	}
}

// RemoveSource stops and forgets the source at id entirely, including its
// configuration (unlike ApplySource with Enabled=false, which keeps the
// disabled configuration around for SourceEnabled to observe).
func (m *Manager) RemoveSource(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopAndRemoveSourceLocked(id)
	delete(m.sourceCfg, id)
}

// ApplyOutput implements the identical restart-on-apply algorithm for an
// output configuration.
func (m *Manager) ApplyOutput(c config.OutputConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopAndRemoveOutputLocked(c.ID)
	m.outputCfg[c.ID] = c

	if !c.Enabled {
		return
	}

	svc := m.buildOutput(c)
	if svc == nil {
		return
	}
	if err := svc.Start(); err != nil {
		m.logger.Error("output start failed", "id", c.ID, "err", err)
		return
	}
	m.outputs[c.ID] = svc
}

func (m *Manager) buildOutput(c config.OutputConfig) ioservice.Output {
	switch c.Variant {
	case config.OutputSerial:
		return &ioservice.SerialOutput{
			PortPath: c.PortPath,
			BaudRate: c.BaudRate,
			Logger:   m.logger.With("output", c.ID),
		}
	case config.OutputUDP:
		return &ioservice.UDPOutput{
			TargetHost: c.TargetHost,
			TargetPort: c.TargetPort,
			Logger:     m.logger.With("output", c.ID),
		}
	default:
		m.logger.Error("unknown output variant", "id", c.ID, "variant", c.Variant)
		return nil
	}
}

func (m *Manager) stopAndRemoveOutputLocked(id string) {
	if svc, ok := m.outputs[id]; ok {
		svc.Stop()
		delete(m.outputs, id)
	}
}

// RemoveOutput stops and forgets the output at id entirely.
func (m *Manager) RemoveOutput(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopAndRemoveOutputLocked(id)
	delete(m.outputCfg, id)
}

// Broadcast fans frame out to every enabled, eligible, running output.
// Delivery to one output never blocks another: Output.Send only enqueues
// onto that output's own FIFO queue and returns.
func (m *Manager) Broadcast(frame, sourceID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, cfg := range m.outputCfg {
		if !cfg.Enabled || !cfg.Allows(sourceID) {
			continue
		}
		svc, ok := m.outputs[id]
		if !ok || !svc.IsRunning() {
			continue
		}
		svc.Send(frame)
		metrics.IncFramesOut(id)
	}
}

// ingressCallback returns the ioservice.DataCallback a real (non-simulator)
// source's Start wires up. serialFraming selects between the serial
// re-delimiting rule ('$'-split, each fragment re-prefixed with '$') and
// UDP's one-frame-per-datagram passthrough, per §4.2's framing rule —
// reproduced once here rather than inside each ioservice implementation.
func (m *Manager) ingressCallback(sourceID string, serialFraming bool) ioservice.DataCallback {
	transportTag := "UDP:" + sourceID
	if serialFraming {
		transportTag = "SERIAL:" + sourceID
	}
	return func(data []byte, origin string) {
		for _, sentence := range frameSentences(data, serialFraming) {
			m.ingestSentence(sourceID, transportTag, sentence)
		}
	}
}

// frameSentences implements §4.4's ingress framing: decode as UTF-8 (lossy
// if necessary — Go strings already tolerate invalid UTF-8 byte-for-byte,
// so no explicit replacement pass is needed), strip CR/LF, then either
// re-split on '$' (serial, which may deliver several sentences or partial
// boundaries in one read) or pass the stripped buffer through whole (UDP,
// already one frame per datagram).
func frameSentences(data []byte, serialFraming bool) []string {
	stripped := strings.NewReplacer("\r", "", "\n", "").Replace(string(data))
	if stripped == "" {
		return nil
	}

	if !serialFraming {
		return []string{stripped}
	}

	parts := strings.Split(stripped, "$")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, "$"+p)
	}
	return out
}

// ingestSentence implements §4.4 steps (i)-(iii) for one framed sentence:
// broadcast it with CRLF re-appended, invoke the log callback tagged with
// the transport ("SERIAL:"+id or "UDP:"+id), then parse it and — on a
// successful parse — stamp the parser's update with this ingest's
// timestamp and the transport-tagged source id and publish it to the bus.
//
// Record.Merge is a subscriber-side tool for accumulating a rolling
// composite across many published records (§3); each record this manager
// publishes is already a complete, freshly-tagged single-sentence update, so
// there is nothing here for it to merge onto.
func (m *Manager) ingestSentence(sourceID, tag, sentence string) {
	metrics.IncFramesIn(sourceID)
	m.Broadcast(sentence+"\r\n", sourceID)
	m.log(tag, sentence)

	update, ok := m.decoder.Parse(sentence)
	if !ok {
		return
	}
	update.Timestamp = time.Now().UTC()
	update.SourceID = tag
	m.bus.Publish(update)
}
