package fetch

import "time"

// IsFresh reports whether a record last updated at lastUpdated is still
// usable under a freshness window of hours. A zero timestamp is never fresh.
// A record whose age equals the window exactly is already stale.
func IsFresh(lastUpdated time.Time, hours int) bool {
	return isFreshAt(time.Now(), lastUpdated, hours)
}

func isFreshAt(now, lastUpdated time.Time, hours int) bool {
	if lastUpdated.IsZero() {
		return false
	}
	return now.Sub(lastUpdated) < time.Duration(hours)*time.Hour
}
