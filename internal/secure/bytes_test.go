package secure

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWipeZeroesBuffer(t *testing.T) {
	raw := []byte("hunter2")
	b := New(raw)

	b.Wipe()

	assert.True(t, b.Empty())
	for i, c := range raw {
		assert.Zerof(t, c, "byte %d not zeroed", i)
	}
}

func TestMoveTransfersOwnership(t *testing.T) {
	b := FromString("correct horse")
	moved := b.Move()

	assert.True(t, b.Empty())
	assert.Equal(t, "correct horse", string(moved.Data()))

	// Wiping the drained source must not disturb the new owner.
	b.Wipe()
	assert.Equal(t, "correct horse", string(moved.Data()))

	moved.Wipe()
	assert.True(t, moved.Empty())
}

func TestNilReceiverIsSafe(t *testing.T) {
	var b *Bytes
	assert.Nil(t, b.Data())
	assert.Zero(t, b.Len())
	assert.True(t, b.Empty())
	b.Wipe()
	assert.Nil(t, b.Move())
}
