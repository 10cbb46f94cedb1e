package seismicity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hamlet/domain/core"
)

func TestNewMagBinning_Validation(t *testing.T) {
	tests := []struct {
		name            string
		min, max, width float64
		expectError     bool
	}{
		{"valid", 6.0, 8.0, 0.2, false},
		{"single bin", 6.5, 6.5, 0.1, false},
		{"zero width", 6.0, 8.0, 0, true},
		{"negative width", 6.0, 8.0, -0.1, true},
		{"width not a tenth multiple", 6.0, 8.0, 0.25, true},
		{"max below min", 8.0, 6.0, 0.2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMagBinning(tt.min, tt.max, tt.width)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMagBinning_Keys(t *testing.T) {
	b, err := NewMagBinning(6.0, 7.0, 0.2)
	require.NoError(t, err)

	keys := b.Keys()
	assert.Equal(t, []core.MagKey{60, 62, 64, 66, 68, 70}, keys)
	assert.Equal(t, 6, b.NumBins())
}

func TestMagBinning_KeyFor(t *testing.T) {
	b, err := NewMagBinning(6.0, 8.0, 0.2)
	require.NoError(t, err)

	key, ok := b.KeyFor(6.0)
	require.True(t, ok)
	assert.Equal(t, core.MagKey(60), key)

	// Nearest center wins.
	key, ok = b.KeyFor(6.29)
	require.True(t, ok)
	assert.Equal(t, core.MagKey(62), key)

	key, ok = b.KeyFor(7.95)
	require.True(t, ok)
	assert.Equal(t, core.MagKey(80), key)

	// Just inside the lower half-width.
	key, ok = b.KeyFor(5.91)
	require.True(t, ok)
	assert.Equal(t, core.MagKey(60), key)

	// Outside the covered range.
	_, ok = b.KeyFor(5.5)
	assert.False(t, ok)
	_, ok = b.KeyFor(8.3)
	assert.False(t, ok)
}

func TestMagKey_Mag(t *testing.T) {
	assert.Equal(t, core.MagKey(65), core.KeyForMag(6.5))
	assert.InDelta(t, 6.5, core.MagKey(65).Mag(), 1e-12)
	assert.Equal(t, "6.5", core.MagKey(65).String())
}
