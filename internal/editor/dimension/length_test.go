package dimension

import (
	"testing"

	"floorplan/internal/editor/graph"
	"floorplan/internal/editor/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyHorizontal(t *testing.T) {
	base := []models.Wall{{ID: "w", X1: 0, Y1: 0, X2: 4, Y2: 0, Thickness: 0.2}}

	tests := []struct {
		name  string
		dir   Direction
		wantA models.Point
		wantB models.Point
	}{
		{"extend right", Positive, models.Point{X: 0, Y: 0}, models.Point{X: 5, Y: 0}},
		{"extend left", Negative, models.Point{X: -1, Y: 0}, models.Point{X: 4, Y: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Apply(base, "w", 5.0, tt.dir, graph.DefaultTolerance)
			require.NoError(t, err)
			assert.Equal(t, tt.wantA, out[0].A())
			assert.Equal(t, tt.wantB, out[0].B())
			assert.InDelta(t, 5, out[0].Length(), 1e-12)
		})
	}
}

func TestApplyFollowsCoordinateOrder(t *testing.T) {
	// B has the smaller X, so "right" grows A.
	walls := []models.Wall{{ID: "w", X1: 4, Y1: 0, X2: 0, Y2: 0, Thickness: 0.2}}
	out, err := Apply(walls, "w", 6, Positive, graph.DefaultTolerance)
	require.NoError(t, err)
	assert.Equal(t, models.Point{X: 6, Y: 0}, out[0].A())
	assert.Equal(t, models.Point{X: 0, Y: 0}, out[0].B())
}

func TestApplyVerticalShrinkPropagates(t *testing.T) {
	walls := []models.Wall{
		{ID: "wall-right", X1: 3, Y1: 2, X2: 3, Y2: -2, Thickness: 0.24},
		{ID: "wall-bottom", X1: 3, Y1: -2, X2: -3, Y2: -2, Thickness: 0.24},
	}
	// Negative on a vertical wall grows the lower end, here B.
	out, err := Apply(walls, "wall-right", 3, Negative, graph.DefaultTolerance)
	require.NoError(t, err)

	assert.Equal(t, models.Point{X: 3, Y: 2}, out[0].A())
	assert.Equal(t, models.Point{X: 3, Y: -1}, out[0].B())
	assert.Equal(t, models.Point{X: 3, Y: -1}, out[1].A())
}

func TestApplyRejectsInvalidInput(t *testing.T) {
	walls := []models.Wall{{ID: "w", X1: 0, Y1: 0, X2: 4, Y2: 0, Thickness: 0.2}}

	for _, v := range []float64{0, -2} {
		out, err := Apply(walls, "w", v, Positive, graph.DefaultTolerance)
		assert.ErrorIs(t, err, ErrInvalidLength)
		assert.Equal(t, walls, out)
	}

	_, err := Apply(walls, "missing", 3, Positive, graph.DefaultTolerance)
	assert.ErrorIs(t, err, ErrUnknownWall)

	dot := []models.Wall{{ID: "dot", X1: 1, Y1: 1, X2: 1, Y2: 1, Thickness: 0.2}}
	_, err = Apply(dot, "dot", 3, Positive, graph.DefaultTolerance)
	assert.ErrorIs(t, err, ErrDegenerateWall)
}

func TestParseLength(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"5", 5, false},
		{" 3.25 ", 3.25, false},
		{"2,5", 2.5, false},
		{"abc", 0, true},
		{"", 0, true},
		{"0", 0, true},
		{"-1", -1, true},
		{"NaN", 0, true},
		{"Inf", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLength(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidLength)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDirection(t *testing.T) {
	for _, s := range []string{"positive", "Right", "up", ""} {
		d, ok := ParseDirection(s)
		assert.True(t, ok, s)
		assert.Equal(t, Positive, d, s)
	}
	for _, s := range []string{"negative", "LEFT", "down"} {
		d, ok := ParseDirection(s)
		assert.True(t, ok, s)
		assert.Equal(t, Negative, d, s)
	}
	_, ok := ParseDirection("sideways")
	assert.False(t, ok)
}

func TestOpen(t *testing.T) {
	walls := []models.Wall{{ID: "w", X1: 0, Y1: 0, X2: 3, Y2: 4, Thickness: 0.2}}
	s, ok := Open(walls, "w")
	require.True(t, ok)
	assert.Equal(t, 5.0, s.Current)
	assert.False(t, s.Horizontal)

	_, ok = Open(walls, "x")
	assert.False(t, ok)
}
