package history

import (
	"testing"

	"floorplan/internal/editor/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(x float64) models.Document {
	return models.Document{Walls: []models.Wall{{ID: "w", X1: 0, Y1: 0, X2: x, Y2: 0, Thickness: 0.2}}}
}

func TestUndoRedo(t *testing.T) {
	h := New(0)
	h.Commit(doc(1))
	h.Commit(doc(2))

	assert.True(t, h.CanUndo())
	assert.False(t, h.CanRedo())

	got, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, doc(1), got)

	_, ok = h.Undo()
	assert.False(t, ok, "first state cannot be undone")

	got, ok = h.Redo()
	require.True(t, ok)
	assert.Equal(t, doc(2), got)

	_, ok = h.Redo()
	assert.False(t, ok)
}

func TestCommitAfterUndoDropsRedoTail(t *testing.T) {
	h := New(10)
	h.Commit(doc(1))
	h.Commit(doc(2))
	h.Commit(doc(3))

	_, _ = h.Undo()
	_, _ = h.Undo()
	h.Commit(doc(9))

	assert.False(t, h.CanRedo())
	cur, total := h.Stats()
	assert.Equal(t, 2, cur)
	assert.Equal(t, 2, total)

	got, ok := h.Current()
	require.True(t, ok)
	assert.Equal(t, doc(9), got)
}

func TestLimit(t *testing.T) {
	h := New(3)
	for i := 1; i <= 5; i++ {
		h.Commit(doc(float64(i)))
	}
	states := h.States()
	require.Len(t, states, 3)
	assert.Equal(t, doc(3), states[0])

	cur, total := h.Stats()
	assert.Equal(t, 3, cur)
	assert.Equal(t, 3, total)
}

func TestSnapshotsAreIsolated(t *testing.T) {
	h := New(0)
	d := doc(1)
	h.Commit(d)
	d.Walls[0].X2 = 42

	got, _ := h.Current()
	assert.Equal(t, 1.0, got.Walls[0].X2)

	got.Walls[0].X2 = 7
	again, _ := h.Current()
	assert.Equal(t, 1.0, again.Walls[0].X2)
}

func TestJumpAndRestore(t *testing.T) {
	h := New(0)
	for i := 1; i <= 4; i++ {
		h.Commit(doc(float64(i)))
	}

	got, ok := h.Jump(1)
	require.True(t, ok)
	assert.Equal(t, doc(2), got)

	_, ok = h.Jump(4)
	assert.False(t, ok)

	other := New(2)
	other.Restore(h.States(), 3)
	cur, total := other.Stats()
	assert.Equal(t, 2, total)
	assert.Equal(t, 2, cur)

	other.Restore(nil, 0)
	_, ok = other.Current()
	assert.False(t, ok)
}

func TestEmpty(t *testing.T) {
	h := New(0)
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
	_, ok := h.Current()
	assert.False(t, ok)
}
