package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWallGeometry(t *testing.T) {
	w := Wall{ID: "w", X1: 0, Y1: 0, X2: 3, Y2: 4, Thickness: 0.2}

	assert.Equal(t, 5.0, w.Length())
	assert.InDelta(t, math.Atan2(4, 3), w.Angle(), 1e-12)
	assert.Equal(t, Point{X: 1.5, Y: 2}, w.Midpoint())
	assert.False(t, w.IsHorizontal())
	assert.False(t, w.IsVertical())

	assert.True(t, Wall{X1: 0, Y1: 1, X2: 5, Y2: 1.005}.IsHorizontal())
	assert.True(t, Wall{X1: 2, Y1: 0, X2: 2, Y2: 5}.IsVertical())
}

func TestWallEndpoints(t *testing.T) {
	w := Wall{X1: 1, Y1: 2, X2: 3, Y2: 4}

	assert.Equal(t, Point{X: 1, Y: 2}, w.Point(EndpointA))
	assert.Equal(t, Point{X: 3, Y: 4}, w.Point(EndpointB))

	moved := w.WithPoint(EndpointB, Point{X: 9, Y: 9})
	assert.Equal(t, Point{X: 9, Y: 9}, moved.B())
	assert.Equal(t, Point{X: 3, Y: 4}, w.B())

	assert.Equal(t, Wall{X1: 2, Y1: 1, X2: 4, Y2: 3}, w.Translate(1, -1))
	assert.Equal(t, "A", EndpointA.String())
	assert.Equal(t, "B", EndpointB.String())
}

func sample() Document {
	return Document{
		Walls:        []Wall{{ID: "w1", X1: 0, Y1: 0, X2: 4, Y2: 0, Thickness: 0.24}},
		Doors:        []Element{{ID: "d1", Type: KindDoor, X: 2, WallID: "w1", Offset: 0.5}},
		Windows:      []Element{{ID: "n1", Type: KindWindow, X: 1}},
		Texts:        []map[string]any{{"text": "kitchen", "style": map[string]any{"size": 12.0}}},
		Measurements: []Measurement{{ID: "m1", X1: 0, Y1: 0, X2: 0, Y2: 3}},
	}
}

func TestCloneIsDeep(t *testing.T) {
	d := sample()
	c := d.Clone()
	require.Equal(t, d, c)

	c.Walls[0].X1 = 99
	c.Doors[0].WallID = "other"
	c.Texts[0]["text"] = "bath"
	c.Texts[0]["style"].(map[string]any)["size"] = 20.0

	assert.Equal(t, 0.0, d.Walls[0].X1)
	assert.Equal(t, "w1", d.Doors[0].WallID)
	assert.Equal(t, "kitchen", d.Texts[0]["text"])
	assert.Equal(t, 12.0, d.Texts[0]["style"].(map[string]any)["size"])
}

func TestNormalize(t *testing.T) {
	d := Document{}.Normalize()
	assert.NotNil(t, d.Walls)
	assert.NotNil(t, d.Doors)
	assert.NotNil(t, d.Windows)
	assert.NotNil(t, d.Radiators)
	assert.NotNil(t, d.Texts)
	assert.NotNil(t, d.Shapes)
	assert.NotNil(t, d.Measurements)
}

func TestFindAndElements(t *testing.T) {
	d := sample()

	w, i, ok := d.FindWall("w1")
	require.True(t, ok)
	assert.Equal(t, 0, i)
	assert.Equal(t, "w1", w.ID)

	_, i, ok = d.FindWall("nope")
	assert.False(t, ok)
	assert.Equal(t, -1, i)

	el, ok := d.FindElement("n1")
	require.True(t, ok)
	assert.Equal(t, KindWindow, el.Type)

	assert.Len(t, d.AllElements(), 2)
	assert.Len(t, d.Elements(KindDoor), 1)
	assert.Nil(t, d.Elements("sofa"))

	d2 := d.WithElements(KindRadiator, []Element{{ID: "r1", Type: KindRadiator}})
	assert.Len(t, d2.Radiators, 1)
	assert.Empty(t, d.Radiators)
}

func TestSameGeometry(t *testing.T) {
	d := sample()
	c := d.Clone()
	assert.True(t, d.SameGeometry(c))

	c.Walls[0].Y2 = 0.5
	assert.False(t, d.SameGeometry(c))

	c = d.Clone()
	c.Texts = nil
	assert.True(t, d.SameGeometry(c), "texts are not geometry")
}

func TestElementKindValid(t *testing.T) {
	assert.True(t, KindDoor.Valid())
	assert.True(t, KindWindow.Valid())
	assert.True(t, KindRadiator.Valid())
	assert.False(t, ElementKind("sofa").Valid())
}
