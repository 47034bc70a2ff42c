// Package config defines the in-memory configuration value types described
// in §3 of the hub's data model, plus a Store an external collaborator calls
// to read/write them. Persisting these to disk is explicitly someone else's
// job; Store only ever holds state in memory.
package config

import "sync"

// SourceVariant is the variant tag of a source configuration.
type SourceVariant string

const (
	SourceSerial    SourceVariant = "serial"
	SourceUDP       SourceVariant = "udp"
	SourceSimulator SourceVariant = "simulator"
)

// OutputVariant is the variant tag of an output configuration.
type OutputVariant string

const (
	OutputSerial OutputVariant = "serial"
	OutputUDP    OutputVariant = "udp"
)

// SimulatorSourceID is the reserved source identifier for the internal
// synthetic generator; exactly one source configuration carries it.
const SimulatorSourceID = "SIMULATOR"

// DefaultUDPSourceID is seeded, disabled, when no sources are configured yet —
// the conventional NMEA-0183 UDP broadcast port.
const DefaultUDPSourceID = "UDP_DEFAULT"

// DefaultUDPPort is the conventional NMEA-0183-over-UDP listen port used by
// the seeded default UDP source.
const DefaultUDPPort = 10110

// SourceConfig describes one input: a serial tty, a UDP listener, or the
// internal simulator.
type SourceConfig struct {
	ID      string
	Name    string
	Enabled bool
	Variant SourceVariant

	// serial fields
	PortPath string
	BaudRate int

	// udp fields
	ListenPort int
}

// OutputConfig describes one output sink with its multiplex filter.
type OutputConfig struct {
	ID      string
	Name    string
	Enabled bool
	Variant OutputVariant

	// serial fields
	PortPath string
	BaudRate int

	// udp fields
	TargetHost string
	TargetPort int

	MultiplexAll    bool
	AllowedSourceID map[string]struct{}
}

// Allows reports whether a frame tagged with sourceID should reach this
// output, per §4.4's eligibility rule.
func (o OutputConfig) Allows(sourceID string) bool {
	if o.MultiplexAll {
		return true
	}
	_, ok := o.AllowedSourceID[sourceID]
	return ok
}

// MotionBase seeds the base simulator stage's starting position and target
// speed/course.
type MotionBase struct {
	StartLatDeg  float64
	StartLonDeg  float64
	BaseSpeedKn  float64
	BaseCourseDeg float64
}

// WaterEnvelope bounds the water stage's sinusoidal depth/temperature swing.
type WaterEnvelope struct {
	MinDepthM    float64
	MaxDepthM    float64
	MinTempC     float64
	MaxTempC     float64
}

// AISTarget describes one synthetic AIS contact the simulator's AIS stage
// dead-reckons and periodically reports.
type AISTarget struct {
	Name       string
	Callsign   string
	MMSI       uint32
	ShipType   uint8
	LengthM    float64
	WidthM     float64
	LatDeg     float64
	LonDeg     float64
	SpeedKn    float64
	CourseDeg  float64
	Enabled    bool
	PeriodMS   int
}

// SimulatorConfig configures every stage of the simulator chain.
type SimulatorConfig struct {
	GPSEnabled   bool
	WindEnabled  bool
	WaterEnabled bool
	AISEnabled   bool

	GPSPeriodMS   int
	WindPeriodMS  int
	WaterPeriodMS int

	Motion  MotionBase
	Water   WaterEnvelope
	AISTargets []AISTarget
}

// DefaultAISFleet is the demo fleet seeded when a SimulatorConfig's AIS
// target list is left empty, so a fresh simulator run immediately produces
// AIS traffic instead of an empty scene. Positions are fixed absolute
// coordinates near DefaultSimulatorConfig's own-ship start position; they do
// not move with a different MotionBase.
func DefaultAISFleet() []AISTarget {
	return []AISTarget{
		{
			Name: "ZIGOMAR", Callsign: "ZIG123", MMSI: 244123456,
			ShipType: 36, LengthM: 15, WidthM: 4,
			LatDeg: 48.12, LonDeg: 11.52, SpeedKn: 6, CourseDeg: 45,
			Enabled: true, PeriodMS: 10000,
		},
		{
			Name: "YAMATO", Callsign: "YAM777", MMSI: 431987654,
			ShipType: 70, LengthM: 220, WidthM: 32,
			LatDeg: 48.09, LonDeg: 11.48, SpeedKn: 18, CourseDeg: 190,
			Enabled: true, PeriodMS: 10000,
		},
		{
			Name: "TITANIC", Callsign: "TTN001", MMSI: 235001122,
			ShipType: 60, LengthM: 269, WidthM: 28,
			LatDeg: 48.15, LonDeg: 11.60, SpeedKn: 22, CourseDeg: 280,
			Enabled: true, PeriodMS: 10000,
		},
	}
}

// DefaultSimulatorConfig returns a SimulatorConfig with all stages enabled at
// reasonable periods and the demo fleet seeded.
func DefaultSimulatorConfig() SimulatorConfig {
	return SimulatorConfig{
		GPSEnabled:   true,
		WindEnabled:  true,
		WaterEnabled: true,
		AISEnabled:   true,

		GPSPeriodMS:   1000,
		WindPeriodMS:  2000,
		WaterPeriodMS: 2000,

		Motion: MotionBase{
			StartLatDeg:  48.1173,
			StartLonDeg:  11.51667,
			BaseSpeedKn:  10,
			BaseCourseDeg: 90,
		},
		Water: WaterEnvelope{
			MinDepthM: 5, MaxDepthM: 60,
			MinTempC: 8, MaxTempC: 18,
		},
		AISTargets: DefaultAISFleet(),
	}
}

// Store holds the current set of source, output, and simulator
// configurations. It performs no persistence: an external collaborator reads
// and writes through it, and the service manager's apply reacts to changes.
type Store struct {
	mu sync.Mutex

	sources   map[string]SourceConfig
	outputs   map[string]OutputConfig
	simulator SimulatorConfig
}

// NewStore returns a Store seeded with the mandatory disabled SIMULATOR
// source and a disabled default UDP source, per §3 and the original
// implementation's ServiceManager::loadConfig.
func NewStore() *Store {
	s := &Store{
		sources:   make(map[string]SourceConfig),
		outputs:   make(map[string]OutputConfig),
		simulator: DefaultSimulatorConfig(),
	}
	s.sources[SimulatorSourceID] = SourceConfig{
		ID: SimulatorSourceID, Name: "Simulator", Enabled: false, Variant: SourceSimulator,
	}
	s.sources[DefaultUDPSourceID] = SourceConfig{
		ID: DefaultUDPSourceID, Name: "Default UDP", Enabled: false, Variant: SourceUDP,
		ListenPort: DefaultUDPPort,
	}
	return s
}

// PutSource inserts or replaces a source configuration. The SIMULATOR
// identifier may be replaced (e.g. toggled enabled) but its variant is
// pinned to SourceSimulator.
func (s *Store) PutSource(c SourceConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == SimulatorSourceID {
		c.Variant = SourceSimulator
	}
	s.sources[c.ID] = c
}

// RemoveSource deletes a source configuration by id.
func (s *Store) RemoveSource(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sources, id)
}

// Source returns the source configuration at id.
func (s *Store) Source(id string) (SourceConfig, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.sources[id]
	return c, ok
}

// Sources returns a snapshot copy of every source configuration.
func (s *Store) Sources() []SourceConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SourceConfig, 0, len(s.sources))
	for _, c := range s.sources {
		out = append(out, c)
	}
	return out
}

// PutOutput inserts or replaces an output configuration.
func (s *Store) PutOutput(c OutputConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outputs[c.ID] = c
}

// RemoveOutput deletes an output configuration by id.
func (s *Store) RemoveOutput(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.outputs, id)
}

// Output returns the output configuration at id.
func (s *Store) Output(id string) (OutputConfig, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.outputs[id]
	return c, ok
}

// Outputs returns a snapshot copy of every output configuration.
func (s *Store) Outputs() []OutputConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]OutputConfig, 0, len(s.outputs))
	for _, c := range s.outputs {
		out = append(out, c)
	}
	return out
}

// Simulator returns the current simulator configuration.
func (s *Store) Simulator() SimulatorConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.simulator
}

// SetSimulator replaces the simulator configuration.
func (s *Store) SetSimulator(c SimulatorConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.simulator = c
}
