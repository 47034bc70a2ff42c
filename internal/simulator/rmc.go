package simulator

import (
	"fmt"
	"math"
	"time"

	"github.com/tangaroa/navhub/internal/codec"
)

// generateRMC builds a synthetic $GPRMC sentence from the base stage's
// current dead-reckoned position/speed/course, timestamped from the system
// clock in UTC per §4.6.
func generateRMC(latDeg, lonDeg, sogKn, cogDeg float64, now time.Time) string {
	latHemi := "N"
	lat := latDeg
	if lat < 0 {
		lat = -lat
		latHemi = "S"
	}
	latDegWhole := int(lat)
	latMin := (lat - float64(latDegWhole)) * 60.0

	lonHemi := "E"
	lon := lonDeg
	if lon < 0 {
		lon = -lon
		lonHemi = "W"
	}
	lonDegWhole := int(lon)
	lonMin := (lon - float64(lonDegWhole)) * 60.0

	content := fmt.Sprintf(
		"GPRMC,%s,A,%02d%07.4f,%s,%03d%07.4f,%s,%.1f,%.1f,%s,,,A",
		now.Format("150405"),
		latDegWhole, roundMin(latMin), latHemi,
		lonDegWhole, roundMin(lonMin), lonHemi,
		sogKn, cogDeg,
		now.Format("020106"),
	)
	return codec.Emit(content)
}

// roundMin guards against floating rounding nudging minutes to 60.0000,
// which would desynchronize the printed degrees from the actual value.
func roundMin(m float64) float64 {
	if m >= 60.0 {
		return 59.9999
	}
	return math.Max(m, 0)
}
