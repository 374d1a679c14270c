package dimension

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"floorplan/internal/editor/graph"
	"floorplan/internal/editor/models"

	"gonum.org/v1/gonum/spatial/r2"
)

// ============================================================
// Exact-Length Editor
// ============================================================

var (
	ErrInvalidLength  = errors.New("length must be a positive number")
	ErrUnknownWall    = errors.New("wall not found")
	ErrDegenerateWall = errors.New("wall has zero length")
)

// Direction задает, какой конец стены растет. Positive это в сторону
// большего X для горизонтальных стен и большего Y для вертикальных.
type Direction int

const (
	Positive Direction = iota
	Negative
)

func (d Direction) String() string {
	if d == Negative {
		return "negative"
	}
	return "positive"
}

// ParseDirection принимает positive/negative и экранные синонимы.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive", "right", "up", "":
		return Positive, true
	case "negative", "left", "down":
		return Negative, true
	}
	return Positive, false
}

// ParseLength парсит ввод в метрах. Допускается запятая как разделитель.
func ParseLength(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidLength
	}
	return v, ValidateLength(v)
}

func ValidateLength(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return ErrInvalidLength
	}
	return nil
}

// Session это открытый редактор длины одной стены.
type Session struct {
	WallID     string  `json:"wallId"`
	Current    float64 `json:"current"`
	Horizontal bool    `json:"horizontal"`
}

// Open читает текущую длину стены.
func Open(walls []models.Wall, wallID string) (Session, bool) {
	for _, w := range walls {
		if w.ID == wallID {
			return Session{WallID: w.ID, Current: w.Length(), Horizontal: w.IsHorizontal()}, true
		}
	}
	return Session{}, false
}

// Resolve превращает целевую длину в resize растущего конца.
func Resolve(w models.Wall, target float64, dir Direction) (graph.Edit, error) {
	if err := ValidateLength(target); err != nil {
		return graph.Edit{}, err
	}
	length := w.Length()
	if length == 0 {
		return graph.Edit{}, ErrDegenerateWall
	}

	grow := growingEndpoint(w, dir)
	fixed := models.EndpointA
	if grow == models.EndpointA {
		fixed = models.EndpointB
	}

	from, to := vec(w.Point(fixed)), vec(w.Point(grow))
	unit := r2.Scale(1/length, r2.Sub(to, from))
	delta := r2.Scale(target-length, unit)

	return graph.Edit{
		WallID:   w.ID,
		DX:       delta.X,
		DY:       delta.Y,
		Mode:     graph.EditResize,
		Endpoint: grow,
	}, nil
}

// Apply задает стене целевую длину и передает изменение соседям.
// При ошибке вход возвращается без изменений.
func Apply(walls []models.Wall, wallID string, target float64, dir Direction, tolerance float64) ([]models.Wall, error) {
	var wall *models.Wall
	for i := range walls {
		if walls[i].ID == wallID {
			wall = &walls[i]
			break
		}
	}
	if wall == nil {
		return walls, ErrUnknownWall
	}

	edit, err := Resolve(*wall, target, dir)
	if err != nil {
		return walls, err
	}
	updated, _ := graph.Propagate(walls, edit, tolerance)
	return updated, nil
}

// growingEndpoint следует порядку координат самой стены, а не экрану.
func growingEndpoint(w models.Wall, dir Direction) models.Endpoint {
	a, b := w.A(), w.B()
	bIsLarger := b.X > a.X
	if math.Abs(w.X2-w.X1) < math.Abs(w.Y2-w.Y1) {
		bIsLarger = b.Y > a.Y
	}
	if (dir == Positive) == bIsLarger {
		return models.EndpointB
	}
	return models.EndpointA
}

func vec(p models.Point) r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }
