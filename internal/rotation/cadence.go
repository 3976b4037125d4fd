// Package rotation implements the scheduled snapshot rotation engine.
//
// The engine is stateless between invocations: every run rebuilds its view of
// the world from the snapshot names stored on the cluster, decides which
// cadences are due at the current instant, creates the corresponding
// snapshots, and prunes automated snapshots that have aged past their
// cadence's retention window. It is designed to be triggered every minute by
// an external scheduler and to tolerate partial failures across independently
// managed guests.
package rotation

import "time"

// Cadence is one of the four fixed rotation frequencies. Each cadence has its
// own snapshot naming format and retention window.
type Cadence string

const (
	Hourly  Cadence = "hourly"
	Daily   Cadence = "daily"
	Weekly  Cadence = "weekly"
	Monthly Cadence = "monthly"
)

// Cadences lists every cadence in a fixed iteration order.
var Cadences = []Cadence{Hourly, Daily, Weekly, Monthly}

// Windows maps each cadence to its retention window.
type Windows map[Cadence]time.Duration

// DefaultWindows is the reference retention policy.
func DefaultWindows() Windows {
	return Windows{
		Hourly:  3 * 24 * time.Hour,
		Daily:   14 * 24 * time.Hour,
		Weekly:  8 * 7 * 24 * time.Hour,
		Monthly: 730 * 24 * time.Hour,
	}
}

// Window returns the retention window for a cadence, falling back to the
// default when the map has no positive entry.
func (w Windows) Window(c Cadence) time.Duration {
	if d, ok := w[c]; ok && d > 0 {
		return d
	}
	return DefaultWindows()[c]
}
