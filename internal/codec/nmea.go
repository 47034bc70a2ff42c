// Package codec implements the NMEA-0183 sentence codec and the AIVDM/AIS
// bit-level encoder described in the navigation hub's sentence codec component.
// Parsing and emission are hand-written here rather than delegated to a
// library: the codec is the core deliverable this spec describes field by
// field, and its checksum/parsing/bit-packing rules are exercised directly by
// this package's tests.
package codec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tangaroa/navhub/internal/navrecord"
)

// ErrChecksumMismatch is returned internally by verify helpers and tests; it
// never crosses a service boundary (per §7, checksum failures are silent
// parse failures to callers of Decoder.Parse).
var ErrChecksumMismatch = errors.New("codec: checksum mismatch")

// Decoder turns raw NMEA-0183 lines into partial Navigation records.
//
// HeadingFromRMC resolves the open question in §9: when true (the default,
// matching the original implementation) an RMC sentence also sets heading
// from its course-over-ground field. Some downstream consumers prefer
// heading to come only from dedicated heading sentences (HDT, VHW); setting
// this false preserves that behavior instead.
type Decoder struct {
	HeadingFromRMC bool
}

// NewDecoder returns a Decoder configured with the original, default behavior.
func NewDecoder() *Decoder {
	return &Decoder{HeadingFromRMC: true}
}

// Parse decodes a single NMEA-0183 line. ok is false when the sentence is
// malformed, fails its checksum, or is of an unsupported type — in all three
// cases the caller should treat this as "no update" rather than an error: per
// §7 a parse failure is bounded to the offending sentence and never aborts
// ingest. The returned Update carries only the fields the sentence actually
// set, with the matching Has* flags, ready to be merged onto an accumulating
// Record via Record.Merge.
func (d *Decoder) Parse(sentence string) (update navrecord.Record, ok bool) {
	if len(sentence) == 0 || sentence[0] != '$' {
		return navrecord.Record{}, false
	}

	star := strings.IndexByte(sentence, '*')
	if star < 0 || len(sentence)-star-1 < 2 {
		return navrecord.Record{}, false
	}

	content := sentence[1:star]
	provided := sentence[star+1 : star+3]
	if !strings.EqualFold(checksumHex(checksum(content)), provided) {
		return navrecord.Record{}, false
	}

	fields := strings.Split(content, ",")
	if len(fields) < 1 {
		return navrecord.Record{}, false
	}

	header := fields[0]
	if len(header) < 3 {
		return navrecord.Record{}, false
	}
	sentenceType := header[len(header)-3:]

	switch sentenceType {
	case "RMC":
		return d.parseRMC(fields)
	case "GGA":
		return parseGGA(fields)
	case "MWV":
		return parseMWV(fields)
	default:
		return navrecord.Record{}, false
	}
}

func (d *Decoder) parseRMC(fields []string) (navrecord.Record, bool) {
	if len(fields) < 10 {
		return navrecord.Record{}, false
	}

	var u navrecord.Record
	anyUpdate := false

	if fields[2] == "A" {
		u.GPSValid = true
		anyUpdate = true

		if lat, lon, ok := parsePosition(fields[3], fields[4], fields[5], fields[6]); ok {
			u.LatitudeDeg = lat
			u.LongitudeDeg = lon
			u.HasPosition = true
		}

		if fields[7] != "" {
			if sog, err := strconv.ParseFloat(fields[7], 64); err == nil {
				u.SpeedOverGroundKn = sog
				u.HasSpeed = true
			}
		}

		if fields[8] != "" {
			if cog, err := strconv.ParseFloat(fields[8], 64); err == nil {
				u.CourseOverGroundDeg = cog
				if d.HeadingFromRMC {
					u.HeadingDeg = cog
					u.HasHeading = true
				}
			}
		}

		if t, ok := parseRMCTime(fields[1], fields[9]); ok {
			u.Timestamp = t
		}
	}

	return u, anyUpdate
}

func parseGGA(fields []string) (navrecord.Record, bool) {
	if len(fields) < 10 {
		return navrecord.Record{}, false
	}

	var u navrecord.Record

	quality, err := strconv.Atoi(fields[6])
	u.GPSValid = err == nil && quality > 0

	if lat, lon, ok := parsePosition(fields[2], fields[3], fields[4], fields[5]); ok {
		u.LatitudeDeg = lat
		u.LongitudeDeg = lon
		u.HasPosition = true
	}

	if fields[9] != "" {
		if alt, err := strconv.ParseFloat(fields[9], 64); err == nil {
			u.AltitudeM = alt
		}
	}

	return u, true
}

func parseMWV(fields []string) (navrecord.Record, bool) {
	if len(fields) < 6 || fields[5] != "A" {
		return navrecord.Record{}, false
	}

	var u navrecord.Record
	if fields[1] != "" {
		if angle, err := strconv.ParseFloat(fields[1], 64); err == nil {
			u.WindAngleDeg = angle
		}
	}
	if fields[3] != "" {
		if speed, err := strconv.ParseFloat(fields[3], 64); err == nil {
			u.WindSpeedKn = speed
		}
	}
	u.HasWind = true

	return u, true
}

// parsePosition converts DDMM.mmmm/DDDMM.mmmm + hemisphere fields into signed
// decimal degrees. Returns ok=false when either raw field is empty or
// unparseable, per "never infer values from absent fields".
func parsePosition(latRaw, latHemi, lonRaw, lonHemi string) (lat, lon float64, ok bool) {
	if latRaw == "" || lonRaw == "" {
		return 0, 0, false
	}
	la, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return 0, 0, false
	}
	lo, err := strconv.ParseFloat(lonRaw, 64)
	if err != nil {
		return 0, 0, false
	}

	lat = ddmmToDecimal(la)
	if latHemi == "S" {
		lat = -lat
	}
	lon = ddmmToDecimal(lo)
	if lonHemi == "W" {
		lon = -lon
	}
	return lat, lon, true
}

func ddmmToDecimal(raw float64) float64 {
	deg := float64(int(raw / 100))
	min := raw - deg*100
	return deg + min/60
}

// parseRMCTime assembles a UTC time.Time from RMC's HHMMSS[.ss] and DDMMYY
// fields. year<80 maps to 2000+year, else 1900+year.
func parseRMCTime(hhmmss, ddmmyy string) (time.Time, bool) {
	if len(hhmmss) < 6 || len(ddmmyy) != 6 {
		return time.Time{}, false
	}

	hh, err1 := strconv.Atoi(hhmmss[0:2])
	mm, err2 := strconv.Atoi(hhmmss[2:4])
	secPart := hhmmss[4:]
	secFloat, err3 := strconv.ParseFloat(secPart, 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	sec := int(secFloat)
	nsec := int((secFloat - float64(sec)) * 1e9)

	dd, err4 := strconv.Atoi(ddmmyy[0:2])
	mon, err5 := strconv.Atoi(ddmmyy[2:4])
	yy, err6 := strconv.Atoi(ddmmyy[4:6])
	if err4 != nil || err5 != nil || err6 != nil {
		return time.Time{}, false
	}

	year := 1900 + yy
	if yy < 80 {
		year = 2000 + yy
	}

	return time.Date(year, time.Month(mon), dd, hh, mm, sec, nsec, time.UTC), true
}

// Emit wraps content (without '$' and '*XX') in a checksummed NMEA-0183 line.
func Emit(content string) string {
	return "$" + content + "*" + checksumHex(checksum(content))
}

// EmitAIVDM wraps AIS payload content in a checksummed AIVDM line, using '!'
// in place of '$' per §4.1.
func EmitAIVDM(content string) string {
	return "!" + content + "*" + checksumHex(checksum(content))
}

// VerifyChecksum reports whether sentence's trailing "*XX" matches the XOR of
// the bytes between its leading delimiter ('$' or '!') and the '*'. It is
// used by tests, not by Decoder.Parse itself (which
// inlines the same check to report a clean ok=false).
func VerifyChecksum(sentence string) error {
	if len(sentence) == 0 || (sentence[0] != '$' && sentence[0] != '!') {
		return fmt.Errorf("codec: sentence must start with '$' or '!'")
	}
	star := strings.IndexByte(sentence, '*')
	if star < 0 || len(sentence)-star-1 < 2 {
		return fmt.Errorf("codec: missing or truncated checksum delimiter")
	}
	content := sentence[1:star]
	provided := sentence[star+1 : star+3]
	if !strings.EqualFold(checksumHex(checksum(content)), provided) {
		return ErrChecksumMismatch
	}
	return nil
}
