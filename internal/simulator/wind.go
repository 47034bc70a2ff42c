package simulator

import (
	"fmt"

	"github.com/tangaroa/navhub/internal/codec"
)

// windStage holds the oscillating synthetic wind state described in §4.6.
type windStage struct {
	angle, speed     float64
	clockwise        bool
	increasing       bool
	timerS           float64
	sinceEmitMS      float64
}

func (w *windStage) advance(dt float64, enabled bool) {
	w.sinceEmitMS += dt * 1000.0
	if !enabled {
		return
	}

	w.timerS += dt
	if w.timerS >= 60.0 {
		w.timerS = 0
		w.clockwise = !w.clockwise
		w.increasing = !w.increasing
	}

	delta := 2.0 * dt
	if !w.clockwise {
		delta = -delta
	}
	w.angle += delta
	if w.angle < 0 {
		w.angle += 360
	}
	if w.angle >= 360 {
		w.angle -= 360
	}

	speedDelta := 0.1 * dt
	if !w.increasing {
		speedDelta = -speedDelta
	}
	w.speed += speedDelta
	if w.speed < 0 {
		w.speed = 0
		w.increasing = true
	}
	if w.speed > 30 {
		w.speed = 30
		w.increasing = false
	}
}

func (w *windStage) dueToEmit(dt float64, periodMS int) bool {
	if w.sinceEmitMS < float64(periodMS) {
		return false
	}
	w.sinceEmitMS = 0
	return true
}

// generateMWV emits IIMWV(angle, 'R', speed, 'N', 'A') per §4.6.
func (w *windStage) generateMWV() string {
	content := fmt.Sprintf("IIMWV,%.1f,R,%.1f,N,A", w.angle, w.speed)
	return codec.Emit(content)
}
