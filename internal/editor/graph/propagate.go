package graph

import (
	"floorplan/internal/editor/models"
)

// ============================================================
// Adjacency Propagator
// ============================================================

// DefaultTolerance: ближе этого расстояния два конца считаются одним углом.
const DefaultTolerance = 0.1

type EditMode int

const (
	EditMove EditMode = iota
	EditResize
)

func (m EditMode) String() string {
	if m == EditResize {
		return "resize"
	}
	return "move"
}

// ParseEditMode принимает "move" и "resize".
func ParseEditMode(s string) (EditMode, bool) {
	switch s {
	case "move":
		return EditMove, true
	case "resize":
		return EditResize, true
	}
	return EditMove, false
}

// Edit описывает смещение одной стены.
// Endpoint используется только для EditResize.
type Edit struct {
	WallID   string
	DX       float64
	DY       float64
	Mode     EditMode
	Endpoint models.Endpoint
}

// Propagate применяет e к стене и переносит концы остальных стен, которые
// совпадали со старыми концами редактируемой. Входной срез не меняется.
// Возвращает false, если стены нет.
func Propagate(walls []models.Wall, e Edit, tolerance float64) ([]models.Wall, bool) {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	idx := -1
	for i, w := range walls {
		if w.ID == e.WallID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return walls, false
	}

	updated := make([]models.Wall, len(walls))
	copy(updated, walls)

	moved := applyDelta(walls[idx], e)
	updated[idx] = moved

	oldA, oldB := walls[idx].A(), walls[idx].B()
	newA, newB := moved.A(), moved.B()

	for i, w := range updated {
		if i == idx {
			continue
		}
		for _, end := range []models.Endpoint{models.EndpointA, models.EndpointB} {
			p := w.Point(end)
			switch {
			case p.Distance(oldA) < tolerance:
				w = w.WithPoint(end, newA)
			case p.Distance(oldB) < tolerance:
				w = w.WithPoint(end, newB)
			}
		}
		updated[i] = w
	}

	return updated, true
}

// applyDelta двигает стену согласно режиму. В EditMove стены вдоль осей
// двигаются только перпендикулярно себе.
func applyDelta(w models.Wall, e Edit) models.Wall {
	if e.Mode == EditResize {
		return w.WithPoint(e.Endpoint, w.Point(e.Endpoint).Add(e.DX, e.DY))
	}

	switch {
	case w.IsHorizontal():
		return w.Translate(0, e.DY)
	case w.IsVertical():
		return w.Translate(e.DX, 0)
	default:
		return w.Translate(e.DX, e.DY)
	}
}

// TranslateAll сдвигает все стены на одну дельту.
func TranslateAll(walls []models.Wall, dx, dy float64) []models.Wall {
	out := make([]models.Wall, len(walls))
	for i, w := range walls {
		out[i] = w.Translate(dx, dy)
	}
	return out
}

// ConnectedWalls возвращает стены, у которых есть общий конец со стеной id.
func ConnectedWalls(walls []models.Wall, id string, tolerance float64) []models.Wall {
	var target *models.Wall
	for i := range walls {
		if walls[i].ID == id {
			target = &walls[i]
			break
		}
	}
	if target == nil {
		return nil
	}

	var out []models.Wall
	for _, w := range walls {
		if w.ID == id {
			continue
		}
		if touches(w, *target, tolerance) {
			out = append(out, w)
		}
	}
	return out
}

func touches(a, b models.Wall, tolerance float64) bool {
	for _, pa := range []models.Point{a.A(), a.B()} {
		for _, pb := range []models.Point{b.A(), b.B()} {
			if pa.Distance(pb) < tolerance {
				return true
			}
		}
	}
	return false
}
