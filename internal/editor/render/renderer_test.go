package render

import (
	"strings"
	"testing"

	"floorplan/internal/editor/interaction"
	"floorplan/internal/editor/models"
	"floorplan/internal/editor/room"
	"floorplan/internal/editor/viewport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() (models.Document, interaction.Context) {
	walls := room.Rectangle(6, 4, 0.24)
	doc := models.Document{
		Walls:        walls,
		Doors:        []models.Element{{ID: "door-1", Type: models.KindDoor, X: 0, Y: 2, Width: 0.9, WallID: "wall-top", Offset: 0.5}},
		Measurements: []models.Measurement{{ID: "m-1", X1: -3, Y1: 0, X2: 3, Y2: 0}},
	}.Normalize()
	return doc, interaction.NewContext(viewport.New(800, 600))
}

func TestRender(t *testing.T) {
	doc, ctx := fixture()
	before := doc.Clone()

	svg, err := NewRenderer(interaction.DefaultOptions()).Render(doc, ctx)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(svg, `<?xml`))
	assert.Contains(t, svg, `width="800" height="600"`)
	assert.Contains(t, svg, `id="floor"`)
	for _, id := range []string{"wall-top", "wall-right", "wall-bottom", "wall-left", "door-1", "m-1"} {
		assert.Contains(t, svg, `id="`+id+`"`)
	}
	assert.Contains(t, svg, "6.00 m")
	assert.Contains(t, svg, "4.00 m")
	assert.Equal(t, before, doc, "render must not modify the document")
}

func TestRenderSelection(t *testing.T) {
	doc, ctx := fixture()
	ctx.SelectedWallID = "wall-top"

	svg, err := NewRenderer(interaction.DefaultOptions()).Render(doc, ctx)
	require.NoError(t, err)

	assert.Contains(t, svg, "6.00 m (6.48 m)")
	assert.Contains(t, svg, `>+</text>`)
	assert.Equal(t, 2, strings.Count(svg, `fill="#6baed6" font-size="12" text-anchor="middle">4.00 m</text>`),
		"side walls joined to the selection are highlighted")
	assert.NotContains(t, svg, `fill="#6baed6" font-size="12" text-anchor="middle">6.00 m</text>`)
}

func TestRenderPreview(t *testing.T) {
	doc, ctx := fixture()
	start, end := models.Point{X: 0, Y: 0}, models.Point{X: 1, Y: 0}
	ctx.DrawStart, ctx.DrawEnd = &start, &end

	svg, err := NewRenderer(interaction.DefaultOptions()).Render(doc, ctx)
	require.NoError(t, err)
	assert.Contains(t, svg, `id="draw-preview" x1="400" y1="300" x2="450" y2="300"`)
}

func TestRenderOpenRoomHasNoFloor(t *testing.T) {
	doc, ctx := fixture()
	doc.Walls = doc.Walls[:2]

	svg, err := NewRenderer(interaction.DefaultOptions()).Render(doc, ctx)
	require.NoError(t, err)
	assert.NotContains(t, svg, `id="floor"`)
}

func TestRenderInvalidViewport(t *testing.T) {
	doc, _ := fixture()
	_, err := NewRenderer(interaction.DefaultOptions()).Render(doc, interaction.Context{})
	assert.Error(t, err)
}

func TestOuterLength(t *testing.T) {
	w := models.Wall{X1: 0, Y1: 0, X2: 4, Y2: 0, Thickness: 0.25}
	assert.Equal(t, 4.5, OuterLength(w))
}

func TestQuad(t *testing.T) {
	pts := quad(models.Point{X: 0, Y: 0}, 0, 4, 0.2)
	require.Len(t, pts, 4)
	assert.InDelta(t, 0.1, pts[0].Y, 1e-12)
	assert.InDelta(t, 4, pts[1].X, 1e-12)
	assert.InDelta(t, -0.1, pts[2].Y, 1e-12)
}
