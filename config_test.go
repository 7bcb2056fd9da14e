// SPDX-License-Identifier: GPL-3.0-or-later

package unisock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewConfig wires all the default dependencies.
func TestNewConfig(t *testing.T) {
	cfg := NewConfig()

	require.NotNil(t, cfg)
	assert.NotNil(t, cfg.Dialer)
	assert.NotNil(t, cfg.ErrClassifier)
	assert.NotNil(t, cfg.ListenConfig)
	assert.NotNil(t, cfg.Resolver)
	assert.NotNil(t, cfg.TimeNow)
}
