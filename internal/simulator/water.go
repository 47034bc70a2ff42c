package simulator

import (
	"fmt"
	"math"

	"github.com/tangaroa/navhub/internal/codec"
	"github.com/tangaroa/navhub/internal/config"
)

// waterStage drives depth and water temperature through a 60-second
// sinusoid bounded by the configured envelope, per §4.6.
type waterStage struct {
	timerS      float64
	sinceEmitMS float64

	depth float64
	temp  float64
}

func (w *waterStage) advance(dt float64, enabled bool, env config.WaterEnvelope) {
	w.sinceEmitMS += dt * 1000.0
	if !enabled {
		return
	}

	w.timerS += dt
	if w.timerS >= 60.0 {
		w.timerS = 0
	}

	factor := 0.5 * (1.0 + math.Sin(2.0*math.Pi*w.timerS/60.0))
	w.depth = env.MinDepthM + (env.MaxDepthM-env.MinDepthM)*factor
	w.temp = env.MinTempC + (env.MaxTempC-env.MinTempC)*factor
}

func (w *waterStage) dueToEmit(dt float64, periodMS int) bool {
	if w.sinceEmitMS < float64(periodMS) {
		return false
	}
	w.sinceEmitMS = 0
	return true
}

// generateSentences emits DBS, DPT, MTW, HDT, VHW in that order, per §4.6
// and the original's unit conversions for DBS (feet, meters, fathoms) and
// VHW (knots and km/h), which §C of the design expansion keeps even though
// spec.md names only the sentence types.
func (w *waterStage) generateSentences(speedThroughWaterKn, headingDeg float64) []string {
	feet := w.depth * 3.28084
	fathoms := w.depth * 0.546807

	dbs := codec.Emit(fmt.Sprintf("IIDBS,%.1f,f,%.1f,M,%.1f,F", feet, w.depth, fathoms))
	dpt := codec.Emit(fmt.Sprintf("IIDPT,%.1f,0.0,100.0", w.depth))
	mtw := codec.Emit(fmt.Sprintf("IIMTW,%.1f,C", w.temp))
	hdt := codec.Emit(fmt.Sprintf("IIHDT,%.1f,T", headingDeg))
	kph := speedThroughWaterKn * 1.852
	vhw := codec.Emit(fmt.Sprintf("IIVHW,%.1f,T,%.1f,M,%.1f,N,%.1f,K", headingDeg, headingDeg, speedThroughWaterKn, kph))

	return []string{dbs, dpt, mtw, hdt, vhw}
}
