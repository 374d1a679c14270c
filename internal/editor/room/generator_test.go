package room

import (
	"testing"

	"floorplan/internal/editor/graph"
	"floorplan/internal/editor/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func perimeter(walls []models.Wall) float64 {
	var total float64
	for _, w := range walls {
		total += w.Length()
	}
	return total
}

func TestRectangle(t *testing.T) {
	walls, err := Generate(Params{Shape: ShapeRect, Width: 6, Depth: 4, Thickness: 0.24})
	require.NoError(t, err)
	require.Len(t, walls, 4)

	assert.Equal(t, models.Wall{ID: "wall-top", X1: -3, Y1: 2, X2: 3, Y2: 2, Thickness: 0.24}, walls[0])
	assert.Equal(t, "wall-right", walls[1].ID)
	assert.Equal(t, "wall-bottom", walls[2].ID)
	assert.Equal(t, "wall-left", walls[3].ID)
	assert.InDelta(t, 20, perimeter(walls), 1e-9)

	chain := graph.Chain(walls, graph.DefaultTolerance)
	require.Len(t, chain, 5)
	assert.Less(t, chain[0].Distance(chain[4]), graph.DefaultTolerance)
	assert.True(t, graph.DeriveFloor(walls, graph.DefaultTolerance).Closed)
}

func TestLShape(t *testing.T) {
	walls, err := Generate(Params{Shape: ShapeL, Width: 6, Depth: 4, CutWidth: 2, CutDepth: 1})
	require.NoError(t, err)
	require.Len(t, walls, 6)

	for _, w := range walls {
		assert.Equal(t, DefaultThickness, w.Thickness)
	}

	floor := graph.DeriveFloor(walls, graph.DefaultTolerance)
	require.True(t, floor.Closed)
	assert.InDelta(t, 6*4-2*1, floor.Area(), 1e-9)
	assert.InDelta(t, 20, perimeter(walls), 1e-9)
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name string
		p    Params
	}{
		{"zero width", Params{Shape: ShapeRect, Width: 0, Depth: 4}},
		{"negative depth", Params{Width: 3, Depth: -1}},
		{"cut too wide", Params{Shape: ShapeL, Width: 4, Depth: 4, CutWidth: 4, CutDepth: 1}},
		{"unknown shape", Params{Shape: "u", Width: 4, Depth: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(tt.p)
			assert.Error(t, err)
		})
	}
}

func TestGenerateNone(t *testing.T) {
	walls, err := Generate(Params{Shape: ShapeNone})
	require.NoError(t, err)
	assert.Empty(t, walls)
}

func TestDimensions(t *testing.T) {
	p := Params{Shape: ShapeRect, Width: 5, Depth: 3, Thickness: 0.3, Height: 2.5}
	d := p.Dimensions()
	assert.Equal(t, 5.0, d.Width)
	assert.Equal(t, 3.0, d.Depth)
	assert.Equal(t, 0.3, d.WallThickness)
	assert.Equal(t, 2.5, d.WallHeight)
}
