package graph

import (
	"fmt"

	"floorplan/internal/editor/models"
)

// ============================================================
// Shared vertices
// ============================================================

// WallRef указывает на конец конкретной стены.
type WallRef struct {
	WallID   string          `json:"wallId"`
	Endpoint models.Endpoint `json:"endpoint"`
}

// Vertex это угол, общий для одного или нескольких концов стен.
type Vertex struct {
	ID    string    `json:"id"`
	X     float64   `json:"x"`
	Y     float64   `json:"y"`
	Walls []WallRef `json:"walls"`
}

func (v Vertex) Point() models.Point { return models.Point{X: v.X, Y: v.Y} }

type vertexBuilder struct {
	vertices  []Vertex
	tolerance float64
}

func (b *vertexBuilder) findOrCreate(p models.Point) int {
	for i, v := range b.vertices {
		if v.Point().Distance(p) < b.tolerance {
			return i
		}
	}
	b.vertices = append(b.vertices, Vertex{
		ID:    fmt.Sprintf("v%d", len(b.vertices)+1),
		X:     p.X,
		Y:     p.Y,
		Walls: []WallRef{},
	})
	return len(b.vertices) - 1
}

// Vertices группирует концы стен в общие углы. Позиция вершины берется
// от первого конца в порядке списка.
func Vertices(walls []models.Wall, tolerance float64) []Vertex {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	b := &vertexBuilder{tolerance: tolerance}
	for _, w := range walls {
		for _, end := range []models.Endpoint{models.EndpointA, models.EndpointB} {
			i := b.findOrCreate(w.Point(end))
			b.vertices[i].Walls = append(b.vertices[i].Walls, WallRef{WallID: w.ID, Endpoint: end})
		}
	}
	return b.vertices
}

// Weld переносит каждый конец в его общую вершину, чтобы соединенные углы
// совпадали побитово. Используется при загрузке внешних данных,
// возвращает новый срез.
func Weld(walls []models.Wall, tolerance float64) []models.Wall {
	out := make([]models.Wall, len(walls))
	copy(out, walls)

	index := make(map[string]int, len(walls))
	for i, w := range out {
		index[w.ID] = i
	}

	for _, v := range Vertices(walls, tolerance) {
		for _, ref := range v.Walls {
			i, ok := index[ref.WallID]
			if !ok {
				continue
			}
			out[i] = out[i].WithPoint(ref.Endpoint, v.Point())
		}
	}
	return out
}

// DropDegenerate убирает стены короче minLength.
func DropDegenerate(walls []models.Wall, minLength float64) []models.Wall {
	out := make([]models.Wall, 0, len(walls))
	for _, w := range walls {
		if w.Length() < minLength {
			continue
		}
		out = append(out, w)
	}
	return out
}
