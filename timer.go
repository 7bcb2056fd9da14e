// SPDX-License-Identifier: GPL-3.0-or-later

package unisock

import "time"

// transferTimer is a monotonic stopwatch measuring the time since the
// last successful transfer in one direction.
//
// The zero value reads as "never transferred": [transferTimer.ElapsedSince]
// returns a negative duration until the first [transferTimer.ResetAt].
type transferTimer struct {
	last time.Time
}

// ResetAt records a successful transfer at the given instant.
func (t *transferTimer) ResetAt(now time.Time) {
	t.last = now
}

// ElapsedSince returns the time elapsed between the last successful
// transfer and the given instant, or a negative duration when no
// transfer has happened yet.
func (t *transferTimer) ElapsedSince(now time.Time) time.Duration {
	if t.last.IsZero() {
		return -1
	}
	return now.Sub(t.last)
}
