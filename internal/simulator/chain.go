// Package simulator implements the layered synthetic generator described in
// §4.6: an ordered chain of stages (base motion, GPS, wind, water, AIS),
// each wrapping the output of the one before it. Per §9 this is
// reimplemented as an explicit ordered list of stage values rather than
// virtual dispatch over a decorator hierarchy — a single interpreter
// advances every stage, folds their snapshots outward (inner first, so
// later stages may override flags set by earlier ones), and collects their
// sentences in the same inner-first order.
package simulator

import (
	"sync"
	"time"

	"github.com/tangaroa/navhub/internal/config"
	"github.com/tangaroa/navhub/internal/navrecord"
)

// Chain is the simulator's process-lifetime instance, driven by the
// scheduler tick: Advance on the write path, and Snapshot/DrainSentences on
// the read path whose sentences the scheduler hands to the service
// manager's Broadcast.
type Chain struct {
	mu sync.Mutex

	cfg       config.SimulatorConfig
	configured bool

	base  baseStage
	wind  windStage
	water waterStage
	ais   aisStage

	gpsTimerMS float64

	pending []string

	// aivdmSeq is the shared AIVDM sequence-id counter (cycles 1..9). §9
	// accepts this being shared across concurrently-emitting AIS targets;
	// receivers must not assume per-target monotonicity.
	aivdmSeq int
}

// New returns a Chain configured from cfg, with its physics state seeded
// from cfg.Motion and cfg.AISTargets (or the default demo fleet if empty).
func New(cfg config.SimulatorConfig) *Chain {
	c := &Chain{}
	c.SetConfig(cfg)
	return c
}

// SetConfig replaces the simulator configuration. A changed start position
// resets the base stage's current position (mirroring the original's
// setConfig/posChanged behavior); the AIS stage re-seeds its ship list from
// cfg.AISTargets (or the default fleet, if empty).
func (c *Chain) SetConfig(cfg config.SimulatorConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()

	posChanged := cfg.Motion.StartLatDeg != c.cfg.Motion.StartLatDeg ||
		cfg.Motion.StartLonDeg != c.cfg.Motion.StartLonDeg
	firstLoad := !c.configured
	c.configured = true

	c.cfg = cfg
	c.base.configure(cfg.Motion, posChanged || firstLoad)

	targets := cfg.AISTargets
	if len(targets) == 0 {
		targets = config.DefaultAISFleet()
	}
	c.ais.initShips(targets)
}

// Config returns the current simulator configuration.
func (c *Chain) Config() config.SimulatorConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// SetPosition overrides the base stage's current position directly (and
// updates the stored start position so a later SetConfig with the same
// start doesn't snap it back).
func (c *Chain) SetPosition(latDeg, lonDeg float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.base.lat = latDeg
	c.base.lon = lonDeg
	c.cfg.Motion.StartLatDeg = latDeg
	c.cfg.Motion.StartLonDeg = lonDeg
}

// Advance steps every stage by dt seconds and accumulates any sentences the
// stages emit this tick into the pending queue drained by DrainSentences.
func (c *Chain) Advance(dt float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.base.advance(dt)

	c.gpsTimerMS += dt * 1000.0
	if c.cfg.GPSEnabled && c.gpsTimerMS >= float64(c.cfg.GPSPeriodMS) {
		c.gpsTimerMS = 0
		c.pending = append(c.pending, generateRMC(c.base.lat, c.base.lon, c.base.sog, c.base.cog, time.Now().UTC()))
	}

	c.wind.advance(dt, c.cfg.WindEnabled)
	if c.cfg.WindEnabled && c.wind.dueToEmit(dt, c.cfg.WindPeriodMS) {
		c.pending = append(c.pending, c.wind.generateMWV())
	}

	c.water.advance(dt, c.cfg.WaterEnabled, c.cfg.Water)
	if c.cfg.WaterEnabled && c.water.dueToEmit(dt, c.cfg.WaterPeriodMS) {
		c.pending = append(c.pending, c.water.generateSentences(c.base.sog, c.base.cog)...)
	}

	if c.cfg.AISEnabled {
		c.ais.advance(dt)
		c.pending = append(c.pending, c.ais.drainSentences(dt, &c.aivdmSeq)...)
	}
}

// Snapshot composes a Navigation record outward: the base stage's raw
// physics truth first, then GPS, wind, and water stages layering their own
// flags/fields on top in order. AIS never touches the own-vessel snapshot.
func (c *Chain) Snapshot() navrecord.Record {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec := navrecord.New(config.SimulatorSourceID, time.Now().UTC())
	rec.LatitudeDeg = c.base.lat
	rec.LongitudeDeg = c.base.lon
	rec.SpeedOverGroundKn = c.base.sog
	rec.CourseOverGroundDeg = c.base.cog

	if c.cfg.GPSEnabled {
		rec.HasPosition = true
		rec.HasSpeed = true
		rec.GPSValid = true
	}
	if c.cfg.WindEnabled {
		rec.HasWind = true
		rec.WindAngleDeg = c.wind.angle
		rec.WindSpeedKn = c.wind.speed
	}
	if c.cfg.WaterEnabled {
		rec.HasDepth = true
		rec.DepthM = c.water.depth
		rec.HasWaterTemp = true
		rec.WaterTemperatureC = c.water.temp
		rec.HasWaterSpeed = true
		rec.SpeedThroughWaterKn = c.base.sog
		rec.HasHeading = true
		rec.HeadingDeg = c.base.cog
		rec.CourseOverGroundDeg = c.base.cog
	}

	return rec
}

// DrainSentences returns and clears every sentence accumulated since the
// last call, inner-stage-first within each tick.
func (c *Chain) DrainSentences() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.pending
	c.pending = nil
	return out
}
