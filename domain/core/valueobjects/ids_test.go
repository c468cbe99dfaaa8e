package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNodeIDFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid UUID", input: "550e8400-e29b-41d4-a716-446655440000", wantErr: false},
		{name: "empty string", input: "", wantErr: true},
		{name: "not a UUID", input: "node-1", wantErr: true},
		{name: "truncated UUID", input: "550e8400-e29b-41d4", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := NewNodeIDFromString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, id.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, id.String())
			assert.False(t, id.IsZero())
		})
	}
}

func TestNewNodeID_Unique(t *testing.T) {
	a := NewNodeID()
	b := NewNodeID()

	assert.False(t, a.IsZero())
	assert.False(t, a.Equals(b))
}

func TestNodeID_Equals(t *testing.T) {
	raw := "550e8400-e29b-41d4-a716-446655440000"
	a, err := NewNodeIDFromString(raw)
	require.NoError(t, err)
	b, err := NewNodeIDFromString(raw)
	require.NoError(t, err)

	assert.True(t, a.Equals(b))
}

func TestCanvasAndSnapshotIDs(t *testing.T) {
	canvasID := NewCanvasID()
	assert.False(t, canvasID.IsZero())

	snapshotID := NewSnapshotID()
	assert.False(t, snapshotID.IsZero())

	_, err := NewCanvasIDFromString("")
	assert.Error(t, err)
	_, err = NewSnapshotIDFromString("nope")
	assert.Error(t, err)
}
