package timer

import (
	"fmt"
	"time"
)

// Elapsed returns the whole seconds between start and now, floored.
// It is always derived from the start time rather than accumulated, so a
// suspended or restarted process shows the correct value on the next poll.
func Elapsed(start time.Time, now time.Time) int {
	if now.Before(start) {
		return 0
	}

	return int(now.Sub(start) / time.Second)
}

// FormatClock renders elapsed seconds as HH:MM:SS. The hour field is
// zero-padded to two digits but not capped, so long sessions keep counting
// past 99 hours instead of wrapping.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}

	h := seconds / 3600
	m := seconds % 3600 / 60
	s := seconds % 60

	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// CeilMinutes converts a session duration to billable minutes, rounding any
// fraction of a minute up so worked time is never under-credited.
func CeilMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}

	return int((d + time.Minute - time.Nanosecond) / time.Minute)
}
