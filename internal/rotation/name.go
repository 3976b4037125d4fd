package rotation

import (
	"fmt"
	"strings"
	"time"
)

// Automated snapshots are named auto-<cadence>-<stamp>. Hourly snapshots are
// keyed to the minute; all other cadences are keyed to the calendar day, so
// repeated creation attempts within the same day collide on name instead of
// multiplying.
const (
	autoMarker  = "auto"
	hourlyStamp = "20060102-1504"
	dailyStamp  = "20060102"
)

// SnapshotName encodes a cadence and instant into the canonical automated
// snapshot name.
func SnapshotName(c Cadence, t time.Time) string {
	if c == Hourly {
		return fmt.Sprintf("%s-%s-%s", autoMarker, c, t.Format(hourlyStamp))
	}
	return fmt.Sprintf("%s-%s-%s", autoMarker, c, t.Format(dailyStamp))
}

// ParsedName is the decoded form of an automated snapshot name.
type ParsedName struct {
	Cadence Cadence
	Stamp   time.Time
}

// ParseSnapshotName decodes an automated snapshot name. The second return is
// false for any name that does not conform: missing marker, unknown cadence
// tag, or malformed timestamp. Foreign and manually created snapshots fall
// through here and are never touched by rotation.
func ParseSnapshotName(name string) (ParsedName, bool) {
	parts := strings.SplitN(name, "-", 3)
	if len(parts) != 3 || parts[0] != autoMarker {
		return ParsedName{}, false
	}

	cadence := Cadence(parts[1])
	layout := dailyStamp
	switch cadence {
	case Hourly:
		layout = hourlyStamp
	case Daily, Weekly, Monthly:
	default:
		return ParsedName{}, false
	}

	stamp, err := time.Parse(layout, parts[2])
	if err != nil {
		return ParsedName{}, false
	}
	return ParsedName{Cadence: cadence, Stamp: stamp}, true
}
