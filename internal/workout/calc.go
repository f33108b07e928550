package workout

import (
	"fmt"
	"strings"
	"time"
)

// ComputePace returns minutes per kilometer.
func ComputePace(durationMin, distanceKm float64) float64 {
	return durationMin / distanceKm
}

// ComputeSpeed returns kilometers per hour.
func ComputeSpeed(distanceKm, durationMin float64) float64 {
	return distanceKm / (durationMin / 60)
}

// ComputeDescription builds the display label, e.g. "Running on April 14".
func ComputeDescription(t Type, date time.Time) string {
	name := t.String()
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return fmt.Sprintf("%s on %s %d", name, date.Month(), date.Day())
}
