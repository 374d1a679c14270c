package snap

import (
	"math"

	"floorplan/internal/editor/models"

	"gonum.org/v1/gonum/spatial/r2"
)

// ============================================================
// Snapping Service
// ============================================================

const (
	DefaultPointTolerance = 0.3
	DefaultMaxDistance    = 1.2
	DefaultTMin           = 0.08
	DefaultTMax           = 0.92
)

// Strategy задает выбор среди нескольких концов в радиусе привязки.
type Strategy int

const (
	// FirstMatch берет первый конец в порядке списка стен.
	FirstMatch Strategy = iota
	// Nearest берет ближайший конец.
	Nearest
)

// ParseStrategy принимает "first" и "nearest".
func ParseStrategy(s string) Strategy {
	if s == "nearest" {
		return Nearest
	}
	return FirstMatch
}

type Options struct {
	PointTolerance float64
	MaxDistance    float64
	TMin           float64
	TMax           float64
	Strategy       Strategy
}

func DefaultOptions() Options {
	return Options{
		PointTolerance: DefaultPointTolerance,
		MaxDistance:    DefaultMaxDistance,
		TMin:           DefaultTMin,
		TMax:           DefaultTMax,
		Strategy:       FirstMatch,
	}
}

// ============================================================
// Point snap
// ============================================================

// ToPoint возвращает конец стены строго ближе tolerance к p.
func ToPoint(walls []models.Wall, p models.Point, tolerance float64, strategy Strategy) (models.Point, bool) {
	best := models.Point{}
	bestDist := math.Inf(1)
	found := false

	for _, w := range walls {
		for _, end := range []models.Point{w.A(), w.B()} {
			d := end.Distance(p)
			if d >= tolerance {
				continue
			}
			if strategy == FirstMatch {
				return end, true
			}
			if d < bestDist {
				best, bestDist, found = end, d, true
			}
		}
	}
	return best, found
}

// ============================================================
// Projection snap
// ============================================================

// Projection это результат привязки точки к оси стены.
// Distance считается до ближайшей точки отрезка. Point и T ограничены
// [tMin, tMax], чтобы элементы не заезжали в углы.
type Projection struct {
	WallID   string       `json:"wallId"`
	Point    models.Point `json:"point"`
	T        float64      `json:"t"`
	Distance float64      `json:"distance"`
	Angle    float64      `json:"angle"`
}

// ProjectOntoWall проецирует p на отрезок стены w.
func ProjectOntoWall(p models.Point, w models.Wall, tMin, tMax float64) Projection {
	a := vec(w.A())
	ab := r2.Sub(vec(w.B()), a)
	q := vec(p)

	t := 0.0
	if lenSq := r2.Norm2(ab); lenSq > 0 {
		t = r2.Dot(r2.Sub(q, a), ab) / lenSq
	}

	closest := r2.Add(a, r2.Scale(clamp(t, 0, 1), ab))
	t = clamp(t, tMin, tMax)

	return Projection{
		WallID:   w.ID,
		Point:    point(r2.Add(a, r2.Scale(t, ab))),
		T:        t,
		Distance: r2.Norm(r2.Sub(q, closest)),
		Angle:    w.Angle(),
	}
}

// FindNearestWall возвращает проекцию на ближайшую стену в пределах maxDist.
func FindNearestWall(p models.Point, walls []models.Wall, opts Options) (Projection, bool) {
	var best Projection
	found := false

	for _, w := range walls {
		proj := ProjectOntoWall(p, w, opts.TMin, opts.TMax)
		if proj.Distance > opts.MaxDistance {
			continue
		}
		if !found || proj.Distance < best.Distance {
			best, found = proj, true
		}
	}
	return best, found
}

// PointAt возвращает точку с параметром t вдоль w.
func PointAt(w models.Wall, t float64) models.Point {
	a := vec(w.A())
	return point(r2.Add(a, r2.Scale(t, r2.Sub(vec(w.B()), a))))
}

// ============================================================
// Geometry helpers
// ============================================================

// DistanceToSegment это расстояние от p до отрезка ab.
func DistanceToSegment(p, a, b models.Point) float64 {
	va, vb, q := vec(a), vec(b), vec(p)
	ab := r2.Sub(vb, va)
	lenSq := r2.Norm2(ab)
	if lenSq == 0 {
		return r2.Norm(r2.Sub(q, va))
	}
	t := clamp(r2.Dot(r2.Sub(q, va), ab)/lenSq, 0, 1)
	return r2.Norm(r2.Sub(q, r2.Add(va, r2.Scale(t, ab))))
}

// Orthogonal прижимает p к горизонтали или вертикали через start,
// смотря где дельта больше по модулю.
func Orthogonal(start, p models.Point) models.Point {
	if math.Abs(p.X-start.X) >= math.Abs(p.Y-start.Y) {
		return models.Point{X: p.X, Y: start.Y}
	}
	return models.Point{X: start.X, Y: p.Y}
}

// Grid округляет p до ближайшего кратного step. step <= 0 ничего не делает.
func Grid(p models.Point, step float64) models.Point {
	if step <= 0 {
		return p
	}
	return models.Point{
		X: math.Round(p.X/step) * step,
		Y: math.Round(p.Y/step) * step,
	}
}

func vec(p models.Point) r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

func point(v r2.Vec) models.Point { return models.Point{X: v.X, Y: v.Y} }

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
