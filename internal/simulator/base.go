package simulator

import (
	"math"
	"math/rand"

	"github.com/tangaroa/navhub/internal/config"
)

// baseStage maintains own-ship (lat, lon, SOG, COG) dead-reckoning. It emits
// no sentences of its own; GPS/wind/water read and layer on top of it.
type baseStage struct {
	lat, lon float64
	sog, cog float64

	baseSpeedKn, baseCourseDeg float64
	targetSOG, targetCOG       float64
	variationTimerS            float64
}

// configure applies a (possibly new) motion base. When resetPosition is
// true (first load, or the configured start position changed) the physics
// state snaps to the new start values; otherwise only the reference
// base speed/course used for future variation retargeting changes.
func (b *baseStage) configure(m config.MotionBase, resetPosition bool) {
	b.baseSpeedKn = m.BaseSpeedKn
	b.baseCourseDeg = m.BaseCourseDeg

	if resetPosition {
		b.lat = m.StartLatDeg
		b.lon = m.StartLonDeg
		b.sog = m.BaseSpeedKn
		b.cog = m.BaseCourseDeg
		b.targetSOG = m.BaseSpeedKn
		b.targetCOG = m.BaseCourseDeg
		b.variationTimerS = 0
	}
}

// advance steps the dead-reckoning model by dt seconds, per §4.6: a
// variation target refreshed every 60s to base·(1+U(-0.10,+0.10)), current
// values exponentially approaching that target, and position integrated
// from the resulting speed/course.
func (b *baseStage) advance(dt float64) {
	b.variationTimerS += dt
	if b.variationTimerS >= 60.0 {
		b.variationTimerS = 0
		b.retarget()
	}
	b.integrate(dt)
}

func (b *baseStage) retarget() {
	variation := func() float64 { return -0.10 + rand.Float64()*0.20 }
	b.targetSOG = b.baseSpeedKn * (1.0 + variation())
	b.targetCOG = b.baseCourseDeg * (1.0 + variation())
	if b.targetCOG < 0 {
		b.targetCOG += 360
	}
	if b.targetCOG >= 360 {
		b.targetCOG -= 360
	}
}

func (b *baseStage) integrate(dt float64) {
	sogDiff := b.targetSOG - b.sog
	b.sog += sogDiff * dt * 0.1

	cogDiff := b.targetCOG - b.cog
	if cogDiff > 180 {
		cogDiff -= 360
	}
	if cogDiff < -180 {
		cogDiff += 360
	}
	b.cog += cogDiff * dt * 0.1
	if b.cog < 0 {
		b.cog += 360
	}
	if b.cog >= 360 {
		b.cog -= 360
	}

	distNM := b.sog * (dt / 3600.0)
	cogRad := b.cog * math.Pi / 180.0
	latRad := b.lat * math.Pi / 180.0

	b.lat += distNM * math.Cos(cogRad) / 60.0
	b.lon += distNM * math.Sin(cogRad) / (60.0 * math.Cos(latRad))
}
