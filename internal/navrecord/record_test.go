package navrecord

import (
	"testing"
	"time"
)

func TestMergeOverwritesOnlyFlaggedGroups(t *testing.T) {
	var r Record
	r.Merge(Record{
		Timestamp:    time.Unix(100, 0),
		SourceID:     "SERIAL:S1",
		HasPosition:  true,
		LatitudeDeg:  48.1,
		LongitudeDeg: 11.5,
		GPSValid:     true,
	})

	if !r.HasPosition || r.LatitudeDeg != 48.1 {
		t.Fatalf("expected position to be set, got %+v", r)
	}
	if r.HasWind {
		t.Fatalf("wind flag should not be set yet")
	}

	// A later record with no position info must not clear the position flag.
	r.Merge(Record{
		Timestamp: time.Unix(200, 0),
		SourceID:  "SERIAL:S1",
		HasWind:   true,
		WindAngleDeg: 45,
		WindSpeedKn:  10,
	})

	if !r.HasPosition || r.LatitudeDeg != 48.1 {
		t.Fatalf("position flag/data should survive a merge that doesn't touch it, got %+v", r)
	}
	if !r.HasWind || r.WindAngleDeg != 45 {
		t.Fatalf("expected wind to merge in, got %+v", r)
	}
	if r.Timestamp != time.Unix(200, 0) {
		t.Fatalf("timestamp should always update unconditionally")
	}
}

func TestMergeGPSValidIsIndependentOfPosition(t *testing.T) {
	var r Record
	r.Merge(Record{SourceID: "SERIAL:S1", GPSValid: true})

	if !r.GPSValid {
		t.Fatalf("expected gps-valid true")
	}
	if r.HasPosition {
		t.Fatalf("a gps-valid record with no position fields must not imply HasPosition")
	}
}
