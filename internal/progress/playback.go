package progress

import (
	"math"
	"time"
)

// PercentFromPlayback converts a playback position into the rounded
// percentage a player reports. Unknown or zero durations report 0.
func PercentFromPlayback(elapsed, total time.Duration) int {
	if total <= 0 || elapsed <= 0 {
		return 0
	}
	return clamp(int(math.Round(float64(elapsed) / float64(total) * 100)))
}

// ResumePosition is where playback should pick up for a module at percent.
// Completed modules start over.
func ResumePosition(percent int, total time.Duration) time.Duration {
	if percent <= 0 || percent >= 100 || total <= 0 {
		return 0
	}
	return time.Duration(float64(total) * float64(percent) / 100)
}
