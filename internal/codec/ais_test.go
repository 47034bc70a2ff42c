package codec

import (
	"strings"
	"testing"

	goAis "github.com/BertoldVdb/go-ais"
	goNmea "github.com/adrianmo/go-nmea"
)

func TestEncodeMessage1BitLength(t *testing.T) {
	bits := EncodeMessage1(AISPositionReport{MMSI: 123456789})
	if len(bits) != 168 {
		t.Fatalf("Message 1 must be 168 bits, got %d", len(bits))
	}
}

func TestEncodeMessage5BitLength(t *testing.T) {
	bits := EncodeMessage5(AISStaticData{MMSI: 123456789, Name: "ZIGOMAR"})
	if len(bits) != 424 {
		t.Fatalf("Message 5 must be 424 bits, got %d", len(bits))
	}
}

func TestMessage5AlwaysTwoFragments(t *testing.T) {
	lines := EncodeMessage5Lines(AISStaticData{MMSI: 123456789, Name: "ZIGOMAR", Callsign: "ZIG1"}, 1)
	parts := strings.Split(lines, "\r\n")
	if len(parts) != 2 {
		t.Fatalf("expected exactly 2 fragments for a 424-bit message, got %d: %v", len(parts), parts)
	}
	if !strings.Contains(parts[0], ",2,1,") {
		t.Fatalf("first fragment header malformed: %s", parts[0])
	}
	if !strings.Contains(parts[1], ",2,2,") {
		t.Fatalf("second fragment header malformed: %s", parts[1])
	}
}

func TestMessage1IsSingleFragment(t *testing.T) {
	lines := EncodeMessage1Lines(AISPositionReport{MMSI: 123456789}, 1)
	if strings.Contains(lines, "\r\n") {
		t.Fatalf("168-bit message should fit in a single fragment: %s", lines)
	}
	if !strings.Contains(lines, ",1,1,") {
		t.Fatalf("expected a 1-of-1 fragment header: %s", lines)
	}
}

// armorDecode reverses the 6-bit ASCII armor mapping, for self-consistency
// checks that don't depend on an external AIS bit-level decoder.
func armorDecode(payload string) []bool {
	var bits []bool
	for i := 0; i < len(payload); i++ {
		v := payload[i] - 48
		if v > 39 {
			v -= 8
		}
		for b := 5; b >= 0; b-- {
			bits = append(bits, (v>>uint(b))&1 == 1)
		}
	}
	return bits
}

func TestPayloadArmorRoundTrip(t *testing.T) {
	original := EncodeMessage1(AISPositionReport{
		MMSI:       123456789,
		SpeedKn:    12.3,
		LatDeg:     48.1234,
		LonDeg:     11.5678,
		CourseDeg:  84.4,
		HeadingDeg: 90,
	})
	payload, fillBits := bitsToPayload(original)

	decoded := armorDecode(payload)
	padded := append(append([]bool{}, original...), make([]bool, fillBits)...)
	if len(decoded) != len(padded) {
		t.Fatalf("decoded bit length %d != padded original length %d", len(decoded), len(padded))
	}
	for i := range padded {
		if decoded[i] != padded[i] {
			t.Fatalf("bit %d mismatch: got %v want %v", i, decoded[i], padded[i])
		}
	}
}

func TestEncodeMessage1DecodesWithReferenceLibrary(t *testing.T) {
	report := AISPositionReport{
		MMSI:       123456789,
		SpeedKn:    12.3,
		LatDeg:     48.1234,
		LonDeg:     11.5678,
		CourseDeg:  84.4,
		HeadingDeg: 90,
	}
	line := EncodeMessage1Lines(report, 1)

	parsed, err := goNmea.Parse(line)
	if err != nil {
		t.Fatalf("reference library rejected our AIVDM line: %v", err)
	}
	vdm, ok := parsed.(goNmea.VDMVDO)
	if !ok {
		t.Fatalf("expected VDMVDO, got %T", parsed)
	}

	decoder := goAis.CodecNew(false, false)
	decoder.DropSpace = true
	packet := decoder.DecodePacket(vdm.Payload)
	if packet == nil {
		t.Fatalf("reference AIS decoder rejected our payload")
	}

	pos, ok := packet.(goAis.PositionReport)
	if !ok {
		t.Fatalf("expected PositionReport, got %T", packet)
	}
	if pos.UserID != report.MMSI {
		t.Fatalf("mmsi = %d, want %d", pos.UserID, report.MMSI)
	}
	if diff := float64(pos.Sog) - report.SpeedKn; diff > 0.15 || diff < -0.15 {
		t.Fatalf("sog = %v, want ~%v", pos.Sog, report.SpeedKn)
	}
	if diff := float64(pos.Latitude) - report.LatDeg; diff > 0.001 || diff < -0.001 {
		t.Fatalf("lat = %v, want ~%v", pos.Latitude, report.LatDeg)
	}
	if diff := float64(pos.Longitude) - report.LonDeg; diff > 0.001 || diff < -0.001 {
		t.Fatalf("lon = %v, want ~%v", pos.Longitude, report.LonDeg)
	}
}

func TestSixBitAISCodeMapping(t *testing.T) {
	cases := map[byte]byte{
		'@': 0,
		'A': 1,
		'_': 31,
		' ': 32,
		'0': 16 + 32,
		'?': 63,
	}
	for in, want := range cases {
		if got := sixBitAISCode(in); got != want {
			t.Fatalf("sixBitAISCode(%q) = %d, want %d", in, got, want)
		}
	}
}
