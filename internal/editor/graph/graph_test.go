package graph

import (
	"testing"

	"floorplan/internal/editor/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rect mirrors the initial 6x4 room.
func rect() []models.Wall {
	return []models.Wall{
		{ID: "wall-top", X1: -3, Y1: 2, X2: 3, Y2: 2, Thickness: 0.24},
		{ID: "wall-right", X1: 3, Y1: 2, X2: 3, Y2: -2, Thickness: 0.24},
		{ID: "wall-bottom", X1: 3, Y1: -2, X2: -3, Y2: -2, Thickness: 0.24},
		{ID: "wall-left", X1: -3, Y1: -2, X2: -3, Y2: 2, Thickness: 0.24},
	}
}

func wallByID(t *testing.T, walls []models.Wall, id string) models.Wall {
	t.Helper()
	for _, w := range walls {
		if w.ID == id {
			return w
		}
	}
	require.Failf(t, "wall not found", "id %s", id)
	return models.Wall{}
}

// ============================================================
// Propagation
// ============================================================

func TestPropagateResizeMovesNeighbour(t *testing.T) {
	walls := rect()
	out, ok := Propagate(walls, Edit{WallID: "wall-top", DX: 1, Mode: EditResize, Endpoint: models.EndpointB}, DefaultTolerance)
	require.True(t, ok)

	top := wallByID(t, out, "wall-top")
	right := wallByID(t, out, "wall-right")

	assert.Equal(t, models.Point{X: -3, Y: 2}, top.A())
	assert.Equal(t, models.Point{X: 4, Y: 2}, top.B())
	assert.Equal(t, models.Point{X: 4, Y: 2}, right.A())
	assert.Equal(t, models.Point{X: 3, Y: -2}, right.B())
	assert.Equal(t, rect(), walls, "input must not be modified")
}

func TestPropagateMoveIsAxisConstrained(t *testing.T) {
	out, ok := Propagate(rect(), Edit{WallID: "wall-top", DX: 5, DY: 0.5, Mode: EditMove}, DefaultTolerance)
	require.True(t, ok)

	top := wallByID(t, out, "wall-top")
	assert.Equal(t, models.Point{X: -3, Y: 2.5}, top.A())
	assert.Equal(t, models.Point{X: 3, Y: 2.5}, top.B())

	assert.Equal(t, models.Point{X: 3, Y: 2.5}, wallByID(t, out, "wall-right").A())
	assert.Equal(t, models.Point{X: -3, Y: 2.5}, wallByID(t, out, "wall-left").B())
	assert.Equal(t, rect()[2], wallByID(t, out, "wall-bottom"))

	out, ok = Propagate(rect(), Edit{WallID: "wall-right", DX: 0.5, DY: 9, Mode: EditMove}, DefaultTolerance)
	require.True(t, ok)
	right := wallByID(t, out, "wall-right")
	assert.Equal(t, models.Point{X: 3.5, Y: 2}, right.A())
	assert.Equal(t, models.Point{X: 3.5, Y: -2}, right.B())
}

func TestPropagateDiagonalMovesBothAxes(t *testing.T) {
	walls := []models.Wall{
		{ID: "d", X1: 0, Y1: 0, X2: 2, Y2: 2, Thickness: 0.2},
		{ID: "n", X1: 2, Y1: 2, X2: 4, Y2: 2, Thickness: 0.2},
	}
	out, ok := Propagate(walls, Edit{WallID: "d", DX: 1, DY: -1, Mode: EditMove}, DefaultTolerance)
	require.True(t, ok)
	assert.Equal(t, models.Point{X: 3, Y: 1}, out[0].B())
	assert.Equal(t, models.Point{X: 3, Y: 1}, out[1].A())
}

func TestPropagateCopiesExactValue(t *testing.T) {
	walls := []models.Wall{
		{ID: "a", X1: 0, Y1: 0, X2: 1, Y2: 0, Thickness: 0.2},
		{ID: "b", X1: 1.05, Y1: 0.02, X2: 1.05, Y2: 3, Thickness: 0.2},
	}
	out, ok := Propagate(walls, Edit{WallID: "a", DX: 0.3, Mode: EditResize, Endpoint: models.EndpointB}, DefaultTolerance)
	require.True(t, ok)
	assert.Equal(t, out[0].B(), out[1].A())
}

func TestPropagateFanAndCollapse(t *testing.T) {
	walls := []models.Wall{
		{ID: "hub", X1: 0, Y1: 0, X2: 1, Y2: 0, Thickness: 0.2},
		{ID: "n1", X1: 1, Y1: 0, X2: 1, Y2: 1, Thickness: 0.2},
		{ID: "n2", X1: 1, Y1: 0, X2: 2, Y2: 0, Thickness: 0.2},
		{ID: "both", X1: 0, Y1: 0, X2: 1, Y2: 0, Thickness: 0.2},
	}
	out, ok := Propagate(walls, Edit{WallID: "hub", DY: 1, Mode: EditMove}, DefaultTolerance)
	require.True(t, ok)

	assert.Equal(t, models.Point{X: 1, Y: 1}, out[1].A())
	assert.Equal(t, models.Point{X: 1, Y: 1}, out[2].A())
	assert.Equal(t, models.Point{X: 0, Y: 1}, out[3].A())
	assert.Equal(t, models.Point{X: 1, Y: 1}, out[3].B())
}

func TestPropagateToleranceIsStrict(t *testing.T) {
	walls := []models.Wall{
		{ID: "a", X1: 0, Y1: 0, X2: 1, Y2: 0, Thickness: 0.2},
		{ID: "at", X1: 1.5, Y1: 0, X2: 1.5, Y2: 2, Thickness: 0.2},
		{ID: "inside", X1: 1.25, Y1: 0, X2: 1.25, Y2: -2, Thickness: 0.2},
	}
	out, ok := Propagate(walls, Edit{WallID: "a", DX: 1, Mode: EditResize, Endpoint: models.EndpointB}, 0.5)
	require.True(t, ok)
	assert.Equal(t, walls[1], out[1])
	assert.Equal(t, models.Point{X: 2, Y: 0}, out[2].A())
}

func TestPropagateUnknownWall(t *testing.T) {
	walls := rect()
	out, ok := Propagate(walls, Edit{WallID: "nope", DX: 1}, DefaultTolerance)
	assert.False(t, ok)
	assert.Equal(t, walls, out)
}

func TestTranslateAll(t *testing.T) {
	out := TranslateAll(rect(), 1, -1)
	assert.Equal(t, models.Point{X: -2, Y: 1}, out[0].A())
	assert.Equal(t, models.Point{X: -2, Y: -3}, out[3].A())
}

func TestConnectedWalls(t *testing.T) {
	got := ConnectedWalls(rect(), "wall-top", DefaultTolerance)
	ids := make([]string, 0, len(got))
	for _, w := range got {
		ids = append(ids, w.ID)
	}
	assert.ElementsMatch(t, []string{"wall-right", "wall-left"}, ids)
	assert.Nil(t, ConnectedWalls(rect(), "missing", DefaultTolerance))
}

// ============================================================
// Floor
// ============================================================

func TestDeriveFloorRectangle(t *testing.T) {
	walls := rect()
	f := DeriveFloor(walls, DefaultTolerance)

	require.True(t, f.Closed)
	assert.Equal(t, []models.Point{{X: -3, Y: 2}, {X: 3, Y: 2}, {X: 3, Y: -2}, {X: -3, Y: -2}}, f.Points)
	assert.InDelta(t, 24, f.Area(), 1e-9)

	c, ok := Centroid(f.Points)
	require.True(t, ok)
	assert.InDelta(t, 0, c.X, 1e-12)
	assert.InDelta(t, 0, c.Y, 1e-12)

	var perimeter float64
	for _, w := range walls {
		perimeter += w.Length()
	}
	assert.InDelta(t, 20, perimeter, 1e-9)
}

func TestDeriveFloorIsIdempotent(t *testing.T) {
	walls := rect()
	assert.Equal(t, DeriveFloor(walls, DefaultTolerance), DeriveFloor(walls, DefaultTolerance))
}

func TestDeriveFloorReversedWalls(t *testing.T) {
	walls := rect()
	walls[1].X1, walls[1].Y1, walls[1].X2, walls[1].Y2 = walls[1].X2, walls[1].Y2, walls[1].X1, walls[1].Y1
	walls[2].X1, walls[2].Y1, walls[2].X2, walls[2].Y2 = walls[2].X2, walls[2].Y2, walls[2].X1, walls[2].Y1

	f := DeriveFloor(walls, DefaultTolerance)
	assert.True(t, f.Closed)
	assert.Len(t, f.Points, 4)
}

func TestDeriveFloorOpen(t *testing.T) {
	tests := []struct {
		name  string
		walls []models.Wall
	}{
		{"empty", nil},
		{"two walls", rect()[:2]},
		{"missing side", rect()[:3]},
		{"gap", append(rect()[:3], models.Wall{ID: "x", X1: -3, Y1: -2, X2: -3, Y2: 1, Thickness: 0.2})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := DeriveFloor(tt.walls, DefaultTolerance)
			assert.False(t, f.Closed)
			assert.Zero(t, f.Area())
		})
	}
}

func TestCentroidEmpty(t *testing.T) {
	_, ok := Centroid(nil)
	assert.False(t, ok)
}

// ============================================================
// Weld
// ============================================================

func TestWeldJoinsNearbyEndpoints(t *testing.T) {
	walls := []models.Wall{
		{ID: "a", X1: 0, Y1: 0, X2: 2, Y2: 0, Thickness: 0.2},
		{ID: "b", X1: 2.04, Y1: 0.03, X2: 2, Y2: 2, Thickness: 0.2},
		{ID: "c", X1: 5, Y1: 5, X2: 6, Y2: 5, Thickness: 0.2},
	}
	out := Weld(walls, DefaultTolerance)

	assert.Equal(t, out[0].B(), out[1].A())
	assert.Equal(t, models.Point{X: 2, Y: 0}, out[1].A())
	assert.Equal(t, walls[2], out[2])
	assert.Equal(t, 2.04, walls[1].X1, "input must not be modified")
}

func TestVertices(t *testing.T) {
	vs := Vertices(rect(), DefaultTolerance)
	require.Len(t, vs, 4)
	for _, v := range vs {
		assert.Len(t, v.Walls, 2)
	}
	assert.Equal(t, "v1", vs[0].ID)
	assert.Equal(t, models.Point{X: -3, Y: 2}, vs[0].Point())
}

func TestDropDegenerate(t *testing.T) {
	walls := append(rect(), models.Wall{ID: "dot", X1: 1, Y1: 1, X2: 1, Y2: 1, Thickness: 0.2})
	assert.Len(t, DropDegenerate(walls, 0.01), 4)
}

func TestParseEditMode(t *testing.T) {
	m, ok := ParseEditMode("resize")
	assert.True(t, ok)
	assert.Equal(t, EditResize, m)

	_, ok = ParseEditMode("rotate")
	assert.False(t, ok)
}

func TestBounds(t *testing.T) {
	b, ok := Bounds(rect())
	require.True(t, ok)
	assert.Equal(t, -3.0, b.Min[0])
	assert.Equal(t, -2.0, b.Min[1])
	assert.Equal(t, 3.0, b.Max[0])
	assert.Equal(t, 2.0, b.Max[1])

	_, ok = Bounds(nil)
	assert.False(t, ok)
}
