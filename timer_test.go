// SPDX-License-Identifier: GPL-3.0-or-later

package unisock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// The zero timer reads as "never transferred".
func TestTransferTimerZeroValue(t *testing.T) {
	var timer transferTimer

	assert.Negative(t, timer.ElapsedSince(time.Now()))
}

// ResetAt anchors the stopwatch at the given instant.
func TestTransferTimerResetAt(t *testing.T) {
	t0 := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	var timer transferTimer

	timer.ResetAt(t0)

	assert.Equal(t, time.Duration(0), timer.ElapsedSince(t0))
	assert.Equal(t, 250*time.Millisecond, timer.ElapsedSince(t0.Add(250*time.Millisecond)))

	timer.ResetAt(t0.Add(time.Second))
	assert.Equal(t, time.Duration(0), timer.ElapsedSince(t0.Add(time.Second)))
}
