package simulator

import (
	"math"
	"strings"
	"testing"

	"github.com/tangaroa/navhub/internal/codec"
	"github.com/tangaroa/navhub/internal/config"
)

func baseTestConfig() config.SimulatorConfig {
	return config.SimulatorConfig{
		GPSEnabled:    true,
		WindEnabled:   false,
		WaterEnabled:  false,
		AISEnabled:    false,
		GPSPeriodMS:   1000,
		WindPeriodMS:  2000,
		WaterPeriodMS: 2000,
		Motion: config.MotionBase{
			StartLatDeg:   48.1173,
			StartLonDeg:   11.51667,
			BaseSpeedKn:   10,
			BaseCourseDeg: 90,
		},
	}
}

func TestGPSEmissionCadence(t *testing.T) {
	c := New(baseTestConfig())

	var rmcCount int
	for i := 0; i < 100; i++ { // 100 * 0.1s = 10s
		c.Advance(0.1)
		for _, s := range c.DrainSentences() {
			if strings.Contains(s, "RMC") {
				rmcCount++
			}
			if err := codec.VerifyChecksum(s); err != nil {
				t.Fatalf("emitted sentence failed checksum: %s: %v", s, err)
			}
		}
	}

	if rmcCount != 10 {
		t.Fatalf("expected exactly 10 RMC sentences over 10s at 1000ms period, got %d", rmcCount)
	}
}

func TestGPSSentencesParseToValidRecords(t *testing.T) {
	c := New(baseTestConfig())
	d := codec.NewDecoder()

	var lastLat float64
	sawAny := false
	for i := 0; i < 15; i++ {
		c.Advance(0.1)
		for _, s := range c.DrainSentences() {
			update, ok := d.Parse(s)
			if !ok {
				t.Fatalf("failed to parse emitted sentence: %s", s)
			}
			if !update.HasPosition || math.Abs(update.LatitudeDeg) > 90 {
				t.Fatalf("invalid position in emitted record: %+v", update)
			}
			lastLat = update.LatitudeDeg
			sawAny = true
		}
	}
	if !sawAny {
		t.Fatalf("expected at least one RMC emission")
	}
	_ = lastLat
}

func TestAISStaticAndPositionSplit(t *testing.T) {
	cfg := baseTestConfig()
	cfg.GPSEnabled = false
	cfg.AISEnabled = true
	cfg.AISTargets = []config.AISTarget{
		{
			Name: "ZIGOMAR", Callsign: "ZIG123", MMSI: 227000001,
			ShipType: 36, LengthM: 6, WidthM: 2,
			LatDeg: 48.13, LonDeg: 11.53, SpeedKn: 3.5, CourseDeg: 45,
			Enabled: true, PeriodMS: 10000,
		},
	}
	c := New(cfg)

	var msg1Count, msg5Groups int
	for i := 0; i < 650; i++ { // 650 * 0.1s = 65s
		c.Advance(0.1)
		sentences := c.DrainSentences()
		j := 0
		for j < len(sentences) {
			s := sentences[j]
			if err := codec.VerifyChecksum(s); err != nil {
				t.Fatalf("AIS sentence failed checksum: %s: %v", s, err)
			}
			if strings.Contains(s, ",1,1,") {
				msg1Count++
				j++
				continue
			}
			if strings.Contains(s, ",2,1,") {
				// both fragments of the pair arrive in this one element:
				// EncodeMessage5Lines returns a single string with the two
				// AIVDM lines joined by \r\n, so this counts one group.
				msg5Groups++
				j++
				continue
			}
			j++
		}
	}

	if msg1Count < 6 {
		t.Fatalf("expected >=6 Message-1 emissions over 65s at 10s period, got %d", msg1Count)
	}
	if msg5Groups < 1 {
		t.Fatalf("expected >=1 Message-5 group over 65s at 60s static period, got %d", msg5Groups)
	}
}
