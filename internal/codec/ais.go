package codec

import (
	"fmt"
	"strings"
)

// bitWriter accumulates a big-endian, MSB-first bitstream used to pack AIVDM
// message fields before 6-bit ASCII armoring.
type bitWriter struct {
	bits []bool
}

func (w *bitWriter) writeUint(value uint64, numBits int) {
	for i := numBits - 1; i >= 0; i-- {
		w.bits = append(w.bits, (value>>uint(i))&1 == 1)
	}
}

// writeInt packs a two's-complement signed value into numBits.
func (w *bitWriter) writeInt(value int64, numBits int) {
	mask := uint64(1)<<uint(numBits) - 1
	w.writeUint(uint64(value)&mask, numBits)
}

// writeString packs a fixed-width 6-bit-AIS-encoded string, truncating or
// padding with '@' (code 0) to exactly maxChars characters.
func (w *bitWriter) writeString(s string, maxChars int) {
	if len(s) > maxChars {
		s = s[:maxChars]
	}
	for len(s) < maxChars {
		s += "@"
	}
	for i := 0; i < maxChars; i++ {
		w.writeUint(uint64(sixBitAISCode(s[i])), 6)
	}
}

// sixBitAISCode maps an ASCII byte to its 6-bit AIS string-field code:
// '@'-'_' -> 0-31, ' '-'?' -> 32-63, anything else -> 0 ('@').
func sixBitAISCode(c byte) byte {
	switch {
	case c >= '@' && c <= '_':
		return c - '@'
	case c >= ' ' && c <= '?':
		return c
	default:
		return 0
	}
}

// payload packs the accumulated bitstream into 6-bit groups (MSB first,
// zero-padded trailing bits) and maps each group to an ASCII armor
// character: v' = v+48, and v' += 8 when that exceeds 87. It returns the
// payload string and the number of zero fill bits appended to complete the
// final 6-bit group.
func (w *bitWriter) payload() (string, int) {
	var sb strings.Builder
	n := len(w.bits)
	fillBits := 0
	for i := 0; i < n; i += 6 {
		var v byte
		for j := 0; j < 6; j++ {
			v <<= 1
			if i+j < n {
				if w.bits[i+j] {
					v |= 1
				}
			} else {
				fillBits++
			}
		}
		v += 48
		if v > 87 {
			v += 8
		}
		sb.WriteByte(v)
	}
	return sb.String(), fillBits
}

// EncodeAIVDM splits payload into fragments of at most 60 ASCII characters
// and renders one AIVDM line per fragment, joined by "\r\n". sequenceID
// cycles 1..9 per caller per §4.1 and is supplied by the caller so that
// concurrent multi-fragment emissions from different stages can share (or
// keep separate) sequence spaces as the caller sees fit.
func EncodeAIVDM(payload string, fillBits int, sequenceID int) string {
	const maxFragment = 60

	var fragments []string
	for i := 0; i < len(payload); i += maxFragment {
		end := i + maxFragment
		if end > len(payload) {
			end = len(payload)
		}
		fragments = append(fragments, payload[i:end])
	}
	if len(fragments) == 0 {
		fragments = []string{""}
	}

	lines := make([]string, len(fragments))
	for i, frag := range fragments {
		fb := 0
		if i == len(fragments)-1 {
			fb = fillBits
		}
		content := fmt.Sprintf("AIVDM,%d,%d,%d,A,%s,%d", len(fragments), i+1, sequenceID, frag, fb)
		lines[i] = EmitAIVDM(content)
	}
	return strings.Join(lines, "\r\n")
}

// AISPositionReport holds the fields needed to encode an ITU-R M.1371
// Message 1 (position report, 168 bits).
type AISPositionReport struct {
	MMSI       uint32
	SpeedKn    float64 // speed over ground, knots
	LatDeg     float64
	LonDeg     float64
	CourseDeg  float64 // course over ground
	HeadingDeg float64 // true heading
}

// EncodeMessage1 packs the fixed 168-bit Message 1 layout described in §4.1.
func EncodeMessage1(r AISPositionReport) []bool {
	w := &bitWriter{}
	w.writeUint(1, 6)                        // message type
	w.writeUint(0, 2)                        // repeat indicator
	w.writeUint(uint64(r.MMSI), 30)           // MMSI
	w.writeUint(0, 4)                        // nav status
	w.writeInt(0, 8)                         // rate of turn
	w.writeUint(uint64(r.SpeedKn*10), 10)     // SOG * 10
	w.writeUint(1, 1)                        // position accuracy
	w.writeInt(int64(r.LonDeg*600000), 28)    // longitude, two's complement
	w.writeInt(int64(r.LatDeg*600000), 27)    // latitude, two's complement
	w.writeUint(uint64(r.CourseDeg*10), 12)   // COG * 10
	w.writeUint(uint64(r.HeadingDeg), 9)      // true heading
	w.writeUint(60, 6)                       // timestamp (60 = not available)
	w.writeUint(0, 2)                        // maneuver indicator
	w.writeUint(0, 3)                        // spare
	w.writeUint(0, 1)                        // RAIM flag
	w.writeUint(0, 19)                       // radio status
	return w.bits
}

// AISStaticData holds the fields needed to encode an ITU-R M.1371 Message 5
// (static and voyage data, 424 bits).
type AISStaticData struct {
	MMSI        uint32
	Callsign    string
	Name        string
	ShipType    uint8
	LengthM     uint16
	WidthM      uint16
	Destination string
}

// EncodeMessage5 packs the fixed 424-bit Message 5 layout described in §4.1.
func EncodeMessage5(s AISStaticData) []bool {
	w := &bitWriter{}
	w.writeUint(5, 6)               // message type
	w.writeUint(0, 2)                // repeat indicator
	w.writeUint(uint64(s.MMSI), 30)  // MMSI
	w.writeUint(0, 2)                // AIS version
	w.writeUint(0, 30)               // IMO number
	w.writeString(s.Callsign, 7)     // call sign, 6 bits * 7 chars
	w.writeString(s.Name, 20)        // name, 6 bits * 20 chars
	w.writeUint(uint64(s.ShipType), 8)
	w.writeUint(uint64(s.LengthM), 9) // dimension to bow (simplified: overall length)
	w.writeUint(uint64(s.WidthM), 9)  // dimension to stern (simplified: overall width)
	w.writeUint(0, 6)                 // dimension to port
	w.writeUint(0, 6)                 // dimension to starboard
	w.writeUint(1, 4)                 // EPFD: 1 = GPS
	w.writeUint(0, 4)                 // ETA month
	w.writeUint(0, 5)                 // ETA day
	w.writeUint(0, 5)                 // ETA hour
	w.writeUint(0, 6)                 // ETA minute
	w.writeUint(0, 8)                 // draught
	w.writeString(s.Destination, 20)
	w.writeUint(0, 1) // DTE
	w.writeUint(0, 1) // spare
	return w.bits
}

// bitsToPayload is the shared bits -> (payload, fillBits) -> AIVDM lines path
// used by the simulator's AIS stage.
func bitsToPayload(bits []bool) (string, int) {
	w := &bitWriter{bits: bits}
	return w.payload()
}

// EncodeMessage1Lines renders a complete (always single-fragment) AIVDM
// transmission for a Message 1 position report.
func EncodeMessage1Lines(r AISPositionReport, sequenceID int) string {
	payload, fill := bitsToPayload(EncodeMessage1(r))
	return EncodeAIVDM(payload, fill, sequenceID)
}

// EncodeMessage5Lines renders the (always two-fragment, per §4.1) AIVDM
// transmission for a Message 5 static data report.
func EncodeMessage5Lines(s AISStaticData, sequenceID int) string {
	payload, fill := bitsToPayload(EncodeMessage5(s))
	return EncodeAIVDM(payload, fill, sequenceID)
}
