package simulator

import (
	"math"

	"github.com/tangaroa/navhub/internal/codec"
	"github.com/tangaroa/navhub/internal/config"
)

// aisShip tracks one synthetic AIS contact's dead-reckoned position and its
// independent position-report / static-data emission timers.
type aisShip struct {
	cfg config.AISTarget

	lat, lon float64

	sinceReportMS float64
	sinceStaticMS float64
}

// aisStage advances and reports every enabled AIS target, per §4.6. It never
// alters the own-vessel snapshot.
type aisStage struct {
	ships []aisShip
}

// initShips re-seeds the ship list from targets, discarding prior physics
// state (mirroring the original's AisSimulator::initShips on setConfig).
func (a *aisStage) initShips(targets []config.AISTarget) {
	ships := make([]aisShip, 0, len(targets))
	for _, t := range targets {
		ships = append(ships, aisShip{cfg: t, lat: t.LatDeg, lon: t.LonDeg})
	}
	a.ships = ships
}

func (a *aisStage) advance(dt float64) {
	for i := range a.ships {
		s := &a.ships[i]
		if !s.cfg.Enabled {
			continue
		}
		s.integrate(dt)
		s.sinceReportMS += dt * 1000.0
		s.sinceStaticMS += dt * 1000.0
	}
}

func (s *aisShip) integrate(dt float64) {
	distNM := s.cfg.SpeedKn * (dt / 3600.0)
	cogRad := s.cfg.CourseDeg * math.Pi / 180.0
	latRad := s.lat * math.Pi / 180.0

	s.lat += distNM * math.Cos(cogRad) / 60.0
	s.lon += distNM * math.Sin(cogRad) / (60.0 * math.Cos(latRad))
}

// staticReportPeriodMS is the fixed interval for Message 5 emissions,
// independent of each target's configured position-report period.
const staticReportPeriodMS = 60000.0

// drainSentences emits a Message 1 for any ship whose position-report timer
// elapsed, and a Message 5 for any ship whose (fixed, 60s) static-data
// timer elapsed, resetting each timer it fires. seq is the chain's shared
// AIVDM sequence counter, cycling 1..9 per §4.1/§9.
func (a *aisStage) drainSentences(dt float64, seq *int) []string {
	var out []string
	for i := range a.ships {
		s := &a.ships[i]
		if !s.cfg.Enabled {
			continue
		}

		if s.sinceReportMS >= float64(s.cfg.PeriodMS) {
			*seq = (*seq % 9) + 1
			out = append(out, codec.EncodeMessage1Lines(codec.AISPositionReport{
				MMSI:       s.cfg.MMSI,
				SpeedKn:    s.cfg.SpeedKn,
				LatDeg:     s.lat,
				LonDeg:     s.lon,
				CourseDeg:  s.cfg.CourseDeg,
				HeadingDeg: s.cfg.CourseDeg,
			}, *seq))
			s.sinceReportMS = 0
		}

		if s.sinceStaticMS >= staticReportPeriodMS {
			*seq = (*seq % 9) + 1
			out = append(out, codec.EncodeMessage5Lines(codec.AISStaticData{
				MMSI:        s.cfg.MMSI,
				Callsign:    s.cfg.Callsign,
				Name:        s.cfg.Name,
				ShipType:    s.cfg.ShipType,
				LengthM:     uint16(s.cfg.LengthM),
				WidthM:      uint16(s.cfg.WidthM),
				Destination: "",
			}, *seq))
			s.sinceStaticMS = 0
		}
	}
	return out
}
