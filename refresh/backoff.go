package refresh

import "time"

const (
	// DefaultBaseInterval is the poll interval for a healthy feed
	DefaultBaseInterval = 15 * time.Minute

	// maxBackoffShift caps the exponential backoff at a 256x multiplier
	maxBackoffShift = 8

	// failureThreshold is the consecutive-failure count at which a feed is
	// marked unavailable and excluded from poll selection
	failureThreshold = 15
)

// NextCheckTime computes the time of the next poll attempt for a feed with
// the given consecutive-failure count: now + base * 2^min(failureCount, 8)
func NextCheckTime(failureCount int, base time.Duration, now time.Time) time.Time {
	shift := failureCount
	if shift > maxBackoffShift {
		shift = maxBackoffShift
	}

	return now.Add(base * time.Duration(int64(1)<<uint(shift)))
}

// Unavailable reports whether a feed with the given consecutive-failure count
// has crossed the availability threshold. There is no automatic recovery; an
// unavailable feed stays excluded until reactivated manually
func Unavailable(failureCount int) bool {
	return failureCount >= failureThreshold
}
