package graph

import (
	"math"

	"floorplan/internal/editor/models"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// ============================================================
// Floor Polygon Derivation
// ============================================================

// Chain обходит стены от первой через общие концы.
// Начинает с A первой стены, продолжает ее B, затем добавляет дальний конец
// любой неиспользованной стены, касающейся текущей точки.
// Контур замкнут, если последняя точка вернулась в первую.
func Chain(walls []models.Wall, tolerance float64) []models.Point {
	if len(walls) == 0 {
		return nil
	}
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	used := make([]bool, len(walls))
	used[0] = true
	points := []models.Point{walls[0].A(), walls[0].B()}
	current := walls[0].B()

	for remaining := len(walls) - 1; remaining > 0; remaining-- {
		next := -1
		var far models.Point
		for i, w := range walls {
			if used[i] {
				continue
			}
			if w.A().Distance(current) < tolerance {
				next, far = i, w.B()
				break
			}
			if w.B().Distance(current) < tolerance {
				next, far = i, w.A()
				break
			}
		}
		if next < 0 {
			break
		}
		used[next] = true
		points = append(points, far)
		current = far
	}

	return points
}

// Floor это вычисленный контур комнаты.
type Floor struct {
	Points []models.Point `json:"points"`
	Closed bool           `json:"closed"`
}

// DeriveFloor запускает Chain и определяет, замкнута ли комната.
// Замыкающий дубль первой точки убирается из Points.
func DeriveFloor(walls []models.Wall, tolerance float64) Floor {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	chain := Chain(walls, tolerance)
	if len(walls) < 3 || len(chain) < 4 {
		return Floor{Points: chain}
	}

	first, last := chain[0], chain[len(chain)-1]
	if first.Distance(last) >= tolerance {
		return Floor{Points: chain}
	}

	ring := chain[:len(chain)-1]
	if uniqueCount(ring, tolerance) < 3 {
		return Floor{Points: ring}
	}
	return Floor{Points: ring, Closed: true}
}

// Centroid это среднее арифметическое точек.
func Centroid(points []models.Point) (models.Point, bool) {
	if len(points) == 0 {
		return models.Point{}, false
	}
	var sx, sy float64
	for _, p := range points {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(points))
	return models.Point{X: sx / n, Y: sy / n}, true
}

// Area возвращает площадь пола в м², 0 для незамкнутого контура.
func (f Floor) Area() float64 {
	if !f.Closed {
		return 0
	}
	return math.Abs(planar.Area(f.ring()))
}

func (f Floor) ring() orb.Ring {
	ring := make(orb.Ring, 0, len(f.Points)+1)
	for _, p := range f.Points {
		ring = append(ring, orb.Point{p.X, p.Y})
	}
	if len(ring) > 0 {
		ring = append(ring, ring[0])
	}
	return ring
}

func uniqueCount(points []models.Point, tolerance float64) int {
	var seen []models.Point
	for _, p := range points {
		dup := false
		for _, s := range seen {
			if s.Distance(p) < tolerance {
				dup = true
				break
			}
		}
		if !dup {
			seen = append(seen, p)
		}
	}
	return len(seen)
}

// Bounds возвращает bounding box всех концов стен.
func Bounds(walls []models.Wall) (orb.Bound, bool) {
	if len(walls) == 0 {
		return orb.Bound{}, false
	}
	b := orb.Bound{Min: orb.Point{walls[0].X1, walls[0].Y1}, Max: orb.Point{walls[0].X1, walls[0].Y1}}
	for _, w := range walls {
		b = b.Extend(orb.Point{w.X1, w.Y1}).Extend(orb.Point{w.X2, w.Y2})
	}
	return b, true
}
