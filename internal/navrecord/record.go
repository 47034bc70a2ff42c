// Package navrecord holds the merged, flag-tagged snapshot of current vessel
// state that flows between the codec, the simulator chain, and the message bus.
package navrecord

import "time"

// Record is a mutable navigation snapshot. A scalar field may only be relied
// upon when its paired Has* flag is set; GPSValid is independent of HasPosition
// since a receiver may report fields without a fix.
type Record struct {
	Timestamp time.Time
	// SourceID tags the origin of this record, e.g. "SERIAL:S1", "UDP:U1", "SIMULATOR".
	SourceID string

	HeadingDeg          float64
	CourseOverGroundDeg float64
	SpeedOverGroundKn   float64
	SpeedThroughWaterKn float64
	LatitudeDeg         float64
	LongitudeDeg        float64
	AltitudeM           float64
	DepthM              float64
	WaterTemperatureC   float64
	WindAngleDeg        float64
	WindSpeedKn         float64

	GPSValid bool

	HasPosition    bool
	HasSpeed       bool
	HasHeading     bool
	HasWind        bool
	HasDepth       bool
	HasWaterTemp   bool
	HasWaterSpeed  bool
}

// New returns a zero-value record stamped with the given source and time.
func New(sourceID string, at time.Time) Record {
	return Record{Timestamp: at, SourceID: sourceID}
}

// Merge applies incoming onto the receiver following the accumulation rule in
// §3: timestamp and source are copied unconditionally; each flag-guarded
// group only overwrites when its incoming Has* flag is set, and a Has* flag
// already set on the receiver is never cleared by an incoming record that
// lacks it.
func (r *Record) Merge(incoming Record) {
	r.Timestamp = incoming.Timestamp
	r.SourceID = incoming.SourceID

	// GPSValid is independent of HasPosition; it tracks the most recent
	// record's fix report regardless of which flags that record carried.
	r.GPSValid = incoming.GPSValid

	if incoming.HasPosition {
		r.LatitudeDeg = incoming.LatitudeDeg
		r.LongitudeDeg = incoming.LongitudeDeg
		r.AltitudeM = incoming.AltitudeM
		r.HasPosition = true
	}
	if incoming.HasSpeed {
		r.SpeedOverGroundKn = incoming.SpeedOverGroundKn
		r.HasSpeed = true
	}
	if incoming.HasHeading {
		r.HeadingDeg = incoming.HeadingDeg
		r.CourseOverGroundDeg = incoming.CourseOverGroundDeg
		r.HasHeading = true
	}
	if incoming.HasWind {
		r.WindAngleDeg = incoming.WindAngleDeg
		r.WindSpeedKn = incoming.WindSpeedKn
		r.HasWind = true
	}
	if incoming.HasDepth {
		r.DepthM = incoming.DepthM
		r.HasDepth = true
	}
	if incoming.HasWaterTemp {
		r.WaterTemperatureC = incoming.WaterTemperatureC
		r.HasWaterTemp = true
	}
	if incoming.HasWaterSpeed {
		r.SpeedThroughWaterKn = incoming.SpeedThroughWaterKn
		r.HasWaterSpeed = true
	}
}
