package codec

import (
	"testing"
	"time"

	goNmea "github.com/adrianmo/go-nmea"
)

func TestDecoderHappyPathRMC(t *testing.T) {
	d := NewDecoder()
	sentence := "$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6A"

	update, ok := d.Parse(sentence)
	if !ok {
		t.Fatalf("expected RMC to parse")
	}
	if !update.GPSValid {
		t.Fatalf("expected GPSValid true")
	}
	if !update.HasPosition {
		t.Fatalf("expected position to be set")
	}

	wantLat := 48 + 7.038/60
	wantLon := 11 + 31.0/60
	if diff := update.LatitudeDeg - wantLat; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("lat = %v, want %v", update.LatitudeDeg, wantLat)
	}
	if diff := update.LongitudeDeg - wantLon; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("lon = %v, want %v", update.LongitudeDeg, wantLon)
	}
	if update.SpeedOverGroundKn != 22.4 {
		t.Fatalf("sog = %v, want 22.4", update.SpeedOverGroundKn)
	}
	if update.CourseOverGroundDeg != 84.4 {
		t.Fatalf("cog = %v, want 84.4", update.CourseOverGroundDeg)
	}
	if !update.HasHeading || update.HeadingDeg != 84.4 {
		t.Fatalf("heading should default from COG, got %+v", update)
	}

	want := time.Date(1994, time.March, 23, 12, 35, 19, 0, time.UTC)
	if !update.Timestamp.Equal(want) {
		t.Fatalf("timestamp = %v, want %v", update.Timestamp, want)
	}
}

func TestDecoderRejectsBadChecksum(t *testing.T) {
	d := NewDecoder()
	_, ok := d.Parse("$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*00")
	if ok {
		t.Fatalf("expected checksum mismatch to yield ok=false")
	}
}

func TestDecoderRejectsUnsupportedSentenceType(t *testing.T) {
	d := NewDecoder()
	content := "GPZZZ,1,2,3"
	sentence := Emit(content)
	if _, ok := d.Parse(sentence); ok {
		t.Fatalf("expected unsupported sentence type to yield ok=false")
	}
}

func TestDecoderHeadingFromRMCDisabled(t *testing.T) {
	d := &Decoder{HeadingFromRMC: false}
	sentence := "$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6A"
	update, ok := d.Parse(sentence)
	if !ok {
		t.Fatalf("expected parse to succeed")
	}
	if update.HasHeading {
		t.Fatalf("heading should not be set when HeadingFromRMC is false")
	}
	if update.CourseOverGroundDeg != 84.4 {
		t.Fatalf("course over ground should still be recorded")
	}
}

func TestDecoderGGASetsGPSValidFromFixQuality(t *testing.T) {
	d := NewDecoder()
	sentence := Emit("GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,")
	update, ok := d.Parse(sentence)
	if !ok {
		t.Fatalf("expected GGA to parse")
	}
	if !update.GPSValid {
		t.Fatalf("fix quality 1 should report GPSValid true")
	}
	if !update.HasPosition {
		t.Fatalf("expected position to be set")
	}
	if update.AltitudeM != 545.4 {
		t.Fatalf("altitude = %v, want 545.4", update.AltitudeM)
	}
}

func TestDecoderGGANoFix(t *testing.T) {
	d := NewDecoder()
	sentence := Emit("GPGGA,123519,4807.038,N,01131.000,E,0,00,,,,,,")
	update, ok := d.Parse(sentence)
	if !ok {
		t.Fatalf("GGA with no fix should still parse (ok=true) but report GPSValid=false")
	}
	if update.GPSValid {
		t.Fatalf("fix quality 0 should report GPSValid false")
	}
}

func TestDecoderMWV(t *testing.T) {
	d := NewDecoder()
	sentence := Emit("WIMWV,045.1,R,12.3,N,A")
	update, ok := d.Parse(sentence)
	if !ok {
		t.Fatalf("expected MWV to parse")
	}
	if !update.HasWind {
		t.Fatalf("expected wind flag to be set")
	}
	if update.WindAngleDeg != 45.1 || update.WindSpeedKn != 12.3 {
		t.Fatalf("unexpected wind fields: %+v", update)
	}
}

func TestDecoderMWVInvalidStatusRejected(t *testing.T) {
	d := NewDecoder()
	sentence := Emit("WIMWV,045.1,R,12.3,N,V")
	if _, ok := d.Parse(sentence); ok {
		t.Fatalf("status V (invalid) should not yield an update")
	}
}

func TestEmitRoundTripsThroughGoNmeaLibrary(t *testing.T) {
	sentence := Emit("GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W")

	parsed, err := goNmea.Parse(sentence)
	if err != nil {
		t.Fatalf("reference library rejected our emitted sentence: %v", err)
	}
	rmc, ok := parsed.(goNmea.RMC)
	if !ok {
		t.Fatalf("expected RMC, got %T", parsed)
	}
	if rmc.Speed != 22.4 {
		t.Fatalf("reference library decoded speed = %v, want 22.4", rmc.Speed)
	}

	ours, ok := NewDecoder().Parse(sentence)
	if !ok {
		t.Fatalf("our decoder rejected its own emitted sentence")
	}
	if ours.SpeedOverGroundKn != rmc.Speed {
		t.Fatalf("our decoder and the reference library disagree: %v vs %v", ours.SpeedOverGroundKn, rmc.Speed)
	}
}

func TestVerifyChecksum(t *testing.T) {
	good := "$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6A"
	if err := VerifyChecksum(good); err != nil {
		t.Fatalf("expected good checksum to verify, got %v", err)
	}

	bad := "$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*00"
	if err := VerifyChecksum(bad); err == nil {
		t.Fatalf("expected bad checksum to fail verification")
	}
}
