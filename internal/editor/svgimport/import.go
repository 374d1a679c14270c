package svgimport

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"time"

	"floorplan/internal/editor/graph"
	"floorplan/internal/editor/models"
	"floorplan/internal/editor/placement"
	"floorplan/internal/editor/room"
	"floorplan/internal/editor/snap"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// ============================================================
// Importer
// ============================================================

const (
	// DefaultScale переводит единицы SVG (сантиметры) в метры.
	DefaultScale         = 0.01
	DefaultAxisTolerance = 0.02
)

var ErrNoWalls = errors.New("svg contains no walls")

type Options struct {
	Scale         float64
	Tolerance     float64
	AxisTolerance float64
	// ConnectTolerance: максимальный зазор между концом стены и
	// перпендикулярной стеной, который еще соединяется. 0 = толщина стены.
	ConnectTolerance float64
	DefaultThickness float64
	Snap             snap.Options
}

func DefaultOptions() Options {
	return Options{
		Scale:            DefaultScale,
		Tolerance:        graph.DefaultTolerance,
		AxisTolerance:    DefaultAxisTolerance,
		DefaultThickness: room.DefaultThickness,
		Snap:             snap.DefaultOptions(),
	}
}

// Import превращает SVG план в снимок. Стены становятся осевыми линиями
// своих фигур, двери и окна привязываются к ближайшей стене.
// Ось Y в SVG направлена вниз, поэтому она отражается.
func Import(r io.Reader, name string, opts Options) (models.Snapshot, error) {
	if opts.Scale <= 0 {
		opts.Scale = DefaultScale
	}
	if opts.DefaultThickness <= 0 {
		opts.DefaultThickness = room.DefaultThickness
	}

	shapes, err := Parse(r)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("parse svg: %w", err)
	}

	ids := make(idSet)
	var walls []models.Wall
	var openings []Shape
	for _, s := range shapes {
		switch s.Class {
		case ClassWall:
			w, ok := opts.wall(s)
			if !ok {
				log.Printf("[IMPORT] skipping wall %s: no geometry", s.ID)
				continue
			}
			w.ID = ids.unique(s.ID, "wall")
			walls = append(walls, w)
		case ClassDoor, ClassWindow:
			openings = append(openings, s)
		}
	}

	walls = graph.DropDegenerate(walls, 1e-9)
	if len(walls) == 0 {
		return models.Snapshot{}, ErrNoWalls
	}
	walls = connectCorners(walls, opts.ConnectTolerance)
	walls = snapAxisAligned(graph.Weld(walls, opts.Tolerance), opts.AxisTolerance)

	doc := models.Document{Walls: walls}
	binder := placement.NewBinder(opts.Snap)
	for _, s := range openings {
		kind := models.KindDoor
		if s.Class == ClassWindow {
			kind = models.KindWindow
		}
		b, ok := opts.bound(s)
		if !ok {
			continue
		}
		el, ok := binder.Place(ids.unique(s.ID, string(kind)), kind, opts.world(b.Center()), walls)
		if !ok {
			log.Printf("[IMPORT] %s %s is not on a wall", kind, s.ID)
			continue
		}
		if width := longSide(b) * opts.Scale; width > 0 {
			el.Width = width
		}
		doc = doc.WithElements(kind, append(doc.Elements(kind), el))
	}

	if name == "" {
		name = "Imported Plan"
	}
	log.Printf("[IMPORT] %d walls, %d doors, %d windows", len(doc.Walls), len(doc.Doors), len(doc.Windows))

	return models.Snapshot{
		Document:    doc.Normalize(),
		ProjectName: name,
		Timestamp:   time.Now().UTC(),
	}, nil
}

// ============================================================
// Geometry
// ============================================================

// wall берет длинную ось bounding box фигуры как осевую линию,
// а короткую сторону как толщину.
func (o Options) wall(s Shape) (models.Wall, bool) {
	b, ok := o.bound(s)
	if !ok {
		return models.Wall{}, false
	}

	width := b.Max[0] - b.Min[0]
	height := b.Max[1] - b.Min[1]
	var p1, p2 orb.Point
	if width >= height {
		midY := b.Min[1] + height/2
		p1, p2 = orb.Point{b.Min[0], midY}, orb.Point{b.Max[0], midY}
	} else {
		midX := b.Min[0] + width/2
		p1, p2 = orb.Point{midX, b.Min[1]}, orb.Point{midX, b.Max[1]}
	}

	a, z := o.world(p1), o.world(p2)
	thickness := math.Min(width, height) * o.Scale
	if thickness <= 0 {
		thickness = o.DefaultThickness
	}
	return models.Wall{X1: a.X, Y1: a.Y, X2: z.X, Y2: z.Y, Thickness: thickness}, true
}

func (o Options) bound(s Shape) (orb.Bound, bool) {
	switch {
	case s.Rect != nil:
		r := s.Rect
		return orb.MultiPoint{{r.X, r.Y}, {r.X + r.Width, r.Y + r.Height}}.Bound(), true
	case s.Path != nil:
		points, err := ParsePath(s.Path.D)
		if err != nil {
			return orb.Bound{}, false
		}
		mp := make(orb.MultiPoint, len(points))
		for i, p := range points {
			mp[i] = orb.Point{p.X, p.Y}
		}
		return mp.Bound(), true
	}
	return orb.Bound{}, false
}

func (o Options) world(p orb.Point) models.Point {
	return models.Point{X: p[0] * o.Scale, Y: -p[1] * o.Scale}
}

func longSide(b orb.Bound) float64 {
	return math.Max(b.Max[0]-b.Min[0], b.Max[1]-b.Min[1])
}

// connectCorners соединяет почти сходящиеся горизонтальные и вертикальные
// стены. Если стены нарисованы внутри контура, их осевые линии не доходят
// друг до друга на половину толщины. Ближний конец каждой стены переносится
// в точку пересечения осей. Дальние концы (сквозная стена в T-стыке)
// остаются на месте.
func connectCorners(walls []models.Wall, tolerance float64) []models.Wall {
	out := make([]models.Wall, len(walls))
	copy(out, walls)

	for i := range out {
		if !axisOnly(out[i], true) {
			continue
		}
		for j := range out {
			if i == j || !axisOnly(out[j], false) {
				continue
			}
			h, v := out[i], out[j]
			gap := tolerance
			if gap <= 0 {
				gap = math.Max(h.Thickness, v.Thickness)
			}

			cross := models.Point{X: (v.X1 + v.X2) / 2, Y: (h.Y1 + h.Y2) / 2}
			if !within(cross.X, h.X1, h.X2, gap) || !within(cross.Y, v.Y1, v.Y2, gap) {
				continue
			}
			out[i] = snapEnd(h, cross, gap)
			out[j] = snapEnd(v, cross, gap)
		}
	}
	return out
}

// axisOnly: стена идет строго вдоль одной оси.
func axisOnly(w models.Wall, horizontal bool) bool {
	if w.IsHorizontal() == w.IsVertical() {
		return false
	}
	return w.IsHorizontal() == horizontal
}

func within(x, a, b, gap float64) bool {
	return x >= math.Min(a, b)-gap && x <= math.Max(a, b)+gap
}

// snapEnd переносит ближайший к p конец стены в p, если он не дальше gap.
func snapEnd(w models.Wall, p models.Point, gap float64) models.Wall {
	end := models.EndpointA
	if w.B().Distance(p) < w.A().Distance(p) {
		end = models.EndpointB
	}
	if w.Point(end).Distance(p) > gap {
		return w
	}
	return w.WithPoint(end, p)
}

// snapAxisAligned фиксирует координаты вершин по осям для почти
// горизонтальных/вертикальных стен. Общая вершина берет среднее по всем
// своим стенам, поэтому соединенные углы не расходятся.
func snapAxisAligned(walls []models.Wall, tolerance float64) []models.Wall {
	if tolerance <= 0 {
		return walls
	}

	type agg struct {
		sumX, sumY float64
		cntX, cntY int
	}
	// после сварки углы совпадают побитово, поэтому ключ это сама точка
	aggs := make(map[models.Point]*agg)
	get := func(p models.Point) *agg {
		a := aggs[p]
		if a == nil {
			a = &agg{}
			aggs[p] = a
		}
		return a
	}

	for _, w := range walls {
		dx, dy := w.X2-w.X1, w.Y2-w.Y1
		switch {
		case dy != 0 && math.Abs(dy) <= tolerance:
			y := (w.Y1 + w.Y2) / 2
			for _, p := range []models.Point{w.A(), w.B()} {
				a := get(p)
				a.sumY += y
				a.cntY++
			}
		case dx != 0 && math.Abs(dx) <= tolerance:
			x := (w.X1 + w.X2) / 2
			for _, p := range []models.Point{w.A(), w.B()} {
				a := get(p)
				a.sumX += x
				a.cntX++
			}
		}
	}
	if len(aggs) == 0 {
		return walls
	}

	move := func(p models.Point) models.Point {
		a, ok := aggs[p]
		if !ok {
			return p
		}
		if a.cntX > 0 {
			p.X = a.sumX / float64(a.cntX)
		}
		if a.cntY > 0 {
			p.Y = a.sumY / float64(a.cntY)
		}
		return p
	}

	out := make([]models.Wall, len(walls))
	for i, w := range walls {
		out[i] = w.WithPoint(models.EndpointA, move(w.A())).WithPoint(models.EndpointB, move(w.B()))
	}
	return out
}

// idSet следит за уникальностью id в рамках импорта.
type idSet map[string]bool

func (s idSet) unique(id, prefix string) string {
	if id == "" || s[id] {
		id = prefix + "-" + uuid.NewString()
	}
	s[id] = true
	return id
}
