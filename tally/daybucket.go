// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import "time"

const (
	nanosPerDay  int64 = 86_400 * 1_000_000_000
	millisPerDay int64 = 86_400 * 1000
)

// DayStartMillis truncates t to midnight UTC of its calendar day and returns
// it in Unix milliseconds:
//
//	floor(unix_nanos / (86400 * 1e9)) * 86400 * 1000
//
// Instants before the epoch round down to the earlier midnight.
func DayStartMillis(t time.Time) int64 {
	nanos := t.UnixNano()
	days := nanos / nanosPerDay
	if nanos < 0 && nanos%nanosPerDay != 0 {
		days--
	}
	return days * millisPerDay
}
