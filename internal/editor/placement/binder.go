package placement

import (
	"floorplan/internal/editor/models"
	"floorplan/internal/editor/snap"
)

// ============================================================
// Element Placement Binder
// ============================================================

// Ширины по умолчанию в метрах.
const (
	DoorWidth     = 0.9
	WindowWidth   = 1.2
	RadiatorWidth = 0.6
)

func DefaultWidth(kind models.ElementKind) float64 {
	switch kind {
	case models.KindDoor:
		return DoorWidth
	case models.KindWindow:
		return WindowWidth
	case models.KindRadiator:
		return RadiatorWidth
	}
	return 0
}

// Binder привязывает элементы к ближайшей стене.
type Binder struct {
	Snap snap.Options
	// FreePlacement позволяет элементу отрываться от стены, если рядом
	// нет стен. Иначе он остается в последней привязанной позиции.
	FreePlacement bool
}

func NewBinder(opts snap.Options) Binder {
	return Binder{Snap: opts}
}

// Preview возвращает цель привязки для p, если рядом есть стена.
func (b Binder) Preview(p models.Point, walls []models.Wall) (snap.Projection, bool) {
	return snap.FindNearestWall(p, walls, b.Snap)
}

// Place создает новый элемент на ближайшей стене.
func (b Binder) Place(id string, kind models.ElementKind, p models.Point, walls []models.Wall) (models.Element, bool) {
	proj, ok := b.Preview(p, walls)
	if !ok {
		return models.Element{}, false
	}
	return FromProjection(id, kind, proj), true
}

// FromProjection создает элемент в точке привязки.
func FromProjection(id string, kind models.ElementKind, proj snap.Projection) models.Element {
	return models.Element{
		ID:       id,
		Type:     kind,
		X:        proj.Point.X,
		Y:        proj.Point.Y,
		Rotation: proj.Angle,
		Width:    DefaultWidth(kind),
		WallID:   proj.WallID,
		Offset:   proj.T,
	}
}

// Rebind переносит элемент в p, заново выбирая стену и поворот.
func (b Binder) Rebind(el models.Element, p models.Point, walls []models.Wall) models.Element {
	proj, ok := b.Preview(p, walls)
	if !ok {
		if b.FreePlacement {
			el.X, el.Y = p.X, p.Y
			el.WallID = ""
			el.Offset = 0
		}
		return el
	}
	el.X, el.Y = proj.Point.X, proj.Point.Y
	el.Rotation = proj.Angle
	el.WallID = proj.WallID
	el.Offset = proj.T
	return el
}

// ============================================================
// Re-anchoring
// ============================================================

// Reanchor держит элементы на сохраненном offset вдоль их стены.
// Элементы без стены не трогаются. Входной срез не меняется.
func Reanchor(elements []models.Element, walls []models.Wall) []models.Element {
	if len(elements) == 0 {
		return elements
	}
	byID := make(map[string]models.Wall, len(walls))
	for _, w := range walls {
		byID[w.ID] = w
	}

	out := make([]models.Element, len(elements))
	for i, el := range elements {
		w, ok := byID[el.WallID]
		if el.WallID == "" || !ok {
			out[i] = el
			continue
		}
		p := snap.PointAt(w, el.Offset)
		el.X, el.Y = p.X, p.Y
		el.Rotation = w.Angle()
		out[i] = el
	}
	return out
}

// ReanchorDocument перепривязывает все коллекции элементов d.
func ReanchorDocument(d models.Document) models.Document {
	d.Doors = Reanchor(d.Doors, d.Walls)
	d.Windows = Reanchor(d.Windows, d.Walls)
	d.Radiators = Reanchor(d.Radiators, d.Walls)
	return d
}

// RecomputeOffsets вычисляет offset элементов по их текущей позиции
// (для данных, сохраненных без offset).
func RecomputeOffsets(elements []models.Element, walls []models.Wall, opts snap.Options) []models.Element {
	byID := make(map[string]models.Wall, len(walls))
	for _, w := range walls {
		byID[w.ID] = w
	}

	out := make([]models.Element, len(elements))
	for i, el := range elements {
		if w, ok := byID[el.WallID]; ok && el.WallID != "" {
			el.Offset = snap.ProjectOntoWall(el.Position(), w, opts.TMin, opts.TMax).T
		}
		out[i] = el
	}
	return out
}
