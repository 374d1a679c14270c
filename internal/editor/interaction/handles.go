package interaction

import (
	"math"

	"floorplan/internal/editor/graph"
	"floorplan/internal/editor/models"
	"floorplan/internal/editor/snap"
	"floorplan/internal/editor/viewport"
)

// ============================================================
// Hit-test geometry
// ============================================================

// WallHandles это позиции контролов выбранной стены в пикселях.
type WallHandles struct {
	A      models.Point `json:"a"`
	B      models.Point `json:"b"`
	Mid    models.Point `json:"mid"`
	Label  models.Point `json:"label"`
	Extend models.Point `json:"extend"`
}

// HandlesFor раскладывает контролы стены w. Подпись длины стоит снаружи
// стены на половину толщины плюс отступ.
func HandlesFor(vp viewport.Viewport, w models.Wall, r HandleRadii) WallHandles {
	a := vp.SurfacePoint(w.A())
	b := vp.SurfacePoint(w.B())
	mid := models.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}

	angle := math.Atan2(b.Y-a.Y, b.X-a.X)
	off := w.Thickness*vp.Scale/2 + r.LabelMargin

	return WallHandles{
		A:      a,
		B:      b,
		Mid:    mid,
		Label:  models.Point{X: mid.X + math.Sin(angle)*off, Y: mid.Y - math.Cos(angle)*off},
		Extend: models.Point{X: b.X + r.ExtendOffset, Y: b.Y},
	}
}

// hitWall возвращает первую стену под курсором.
func hitWall(vp viewport.Viewport, walls []models.Wall, p models.Point, margin float64) (models.Wall, bool) {
	for _, w := range walls {
		d := snap.DistanceToSegment(p, vp.SurfacePoint(w.A()), vp.SurfacePoint(w.B()))
		if d < w.Thickness*vp.Scale/2+margin {
			return w, true
		}
	}
	return models.Wall{}, false
}

// hitElement возвращает первый элемент под курсором.
func hitElement(vp viewport.Viewport, d models.Document, p models.Point, radius float64) (models.Element, bool) {
	for _, el := range d.AllElements() {
		if vp.SurfacePoint(el.Position()).Distance(p) < radius {
			return el, true
		}
	}
	return models.Element{}, false
}

// FloorHandle возвращает ручку перетаскивания всей комнаты (только для замкнутой).
func FloorHandle(walls []models.Wall, tolerance float64) (models.Point, bool) {
	floor := graph.DeriveFloor(walls, tolerance)
	if !floor.Closed {
		return models.Point{}, false
	}
	return graph.Centroid(floor.Points)
}
