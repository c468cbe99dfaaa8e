package valueobjects

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPosition(t *testing.T) {
	tests := []struct {
		name    string
		x, y    float64
		wantErr bool
	}{
		{name: "valid coordinates", x: 100, y: -230.5, wantErr: false},
		{name: "origin", x: 0, y: 0, wantErr: false},
		{name: "NaN x", x: math.NaN(), y: 0, wantErr: true},
		{name: "NaN y", x: 0, y: math.NaN(), wantErr: true},
		{name: "positive infinity", x: math.Inf(1), y: 0, wantErr: true},
		{name: "negative infinity", x: 0, y: math.Inf(-1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := NewPosition(tt.x, tt.y)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.x, pos.X())
			assert.Equal(t, tt.y, pos.Y())
		})
	}
}

func TestPosition_DistanceTo(t *testing.T) {
	a, err := NewPosition(0, 0)
	require.NoError(t, err)
	b, err := NewPosition(3, 4)
	require.NoError(t, err)

	assert.Equal(t, 5.0, a.DistanceTo(b))
	assert.Equal(t, 5.0, b.DistanceTo(a))
	assert.Equal(t, 0.0, a.DistanceTo(a))
}

func TestPosition_Midpoint(t *testing.T) {
	a, err := NewPosition(0, 100)
	require.NoError(t, err)
	b, err := NewPosition(200, -100)
	require.NoError(t, err)

	mid := a.Midpoint(b)
	assert.Equal(t, 100.0, mid.X())
	assert.Equal(t, 0.0, mid.Y())
}

func TestPosition_Rounded(t *testing.T) {
	pos, err := NewPosition(100.6, -0.4)
	require.NoError(t, err)

	rounded := pos.Rounded()
	assert.Equal(t, 101.0, rounded.X())
	assert.Equal(t, -0.0, rounded.Y())
}

func TestPosition_Equals(t *testing.T) {
	a, err := NewPosition(1, 1)
	require.NoError(t, err)
	b, err := NewPosition(1+1e-12, 1)
	require.NoError(t, err)
	c, err := NewPosition(2, 1)
	require.NoError(t, err)

	assert.True(t, a.Equals(b), "positions within epsilon should be equal")
	assert.False(t, a.Equals(c))
}

func TestPosition_IsOrigin(t *testing.T) {
	origin, err := NewPosition(0, 0)
	require.NoError(t, err)
	offset, err := NewPosition(0, 1)
	require.NoError(t, err)

	assert.True(t, origin.IsOrigin())
	assert.False(t, offset.IsOrigin())
}
