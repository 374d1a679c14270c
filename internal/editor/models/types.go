package models

import (
	"math"
	"time"
)

// ============================================================
// Geometry primitives
// ============================================================

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance возвращает евклидово расстояние между точками.
func (p Point) Distance(o Point) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// Add сдвигает точку.
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// ============================================================
// Walls
// ============================================================

// AxisTolerance порог для определения горизонтали/вертикали.
const AxisTolerance = 0.01

// Endpoint указывает на один из концов стены.
type Endpoint int

const (
	EndpointA Endpoint = iota
	EndpointB
)

func (e Endpoint) String() string {
	if e == EndpointB {
		return "B"
	}
	return "A"
}

// Wall это отрезок от A (X1,Y1) до B (X2,Y2) в метрах.
type Wall struct {
	ID        string  `json:"id"`
	X1        float64 `json:"x1"`
	Y1        float64 `json:"y1"`
	X2        float64 `json:"x2"`
	Y2        float64 `json:"y2"`
	Thickness float64 `json:"thickness"`
}

func (w Wall) A() Point { return Point{X: w.X1, Y: w.Y1} }
func (w Wall) B() Point { return Point{X: w.X2, Y: w.Y2} }

// Point возвращает нужный конец стены.
func (w Wall) Point(e Endpoint) Point {
	if e == EndpointB {
		return w.B()
	}
	return w.A()
}

// WithPoint возвращает копию с замененным концом.
func (w Wall) WithPoint(e Endpoint, p Point) Wall {
	if e == EndpointB {
		w.X2, w.Y2 = p.X, p.Y
	} else {
		w.X1, w.Y1 = p.X, p.Y
	}
	return w
}

func (w Wall) Length() float64 {
	return math.Hypot(w.X2-w.X1, w.Y2-w.Y1)
}

// Angle это направление atan2(y2-y1, x2-x1) в радианах.
func (w Wall) Angle() float64 {
	return math.Atan2(w.Y2-w.Y1, w.X2-w.X1)
}

func (w Wall) Midpoint() Point {
	return Point{X: (w.X1 + w.X2) / 2, Y: (w.Y1 + w.Y2) / 2}
}

func (w Wall) IsHorizontal() bool {
	return math.Abs(w.Y1-w.Y2) < AxisTolerance
}

func (w Wall) IsVertical() bool {
	return math.Abs(w.X1-w.X2) < AxisTolerance
}

// Translate сдвигает оба конца.
func (w Wall) Translate(dx, dy float64) Wall {
	w.X1 += dx
	w.Y1 += dy
	w.X2 += dx
	w.Y2 += dy
	return w
}

// ============================================================
// Architectural elements
// ============================================================

type ElementKind string

const (
	KindDoor     ElementKind = "door"
	KindWindow   ElementKind = "window"
	KindRadiator ElementKind = "radiator"
)

// Valid: является ли kind одним из типов элементов на стене.
func (k ElementKind) Valid() bool {
	switch k {
	case KindDoor, KindWindow, KindRadiator:
		return true
	}
	return false
}

// Element это дверь, окно или радиатор в точке (X,Y).
// Offset это параметрическая позиция вдоль стены-хоста.
type Element struct {
	ID       string      `json:"id"`
	Type     ElementKind `json:"type"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Rotation float64     `json:"rotation"`
	Width    float64     `json:"width"`
	WallID   string      `json:"wallId,omitempty"`
	Offset   float64     `json:"offset,omitempty"`
}

func (e Element) Position() Point { return Point{X: e.X, Y: e.Y} }

// ============================================================
// Annotations
// ============================================================

type Measurement struct {
	ID string  `json:"id"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

func (m Measurement) Length() float64 {
	return math.Hypot(m.X2-m.X1, m.Y2-m.Y1)
}

// ============================================================
// Document & snapshots
// ============================================================

// Document это полный набор редактируемых коллекций.
// Тексты и фигуры передаются без изменений.
type Document struct {
	Walls        []Wall           `json:"walls"`
	Doors        []Element        `json:"doors"`
	Windows      []Element        `json:"windows"`
	Radiators    []Element        `json:"radiators"`
	Texts        []map[string]any `json:"texts"`
	Shapes       []map[string]any `json:"shapes"`
	Measurements []Measurement    `json:"measurements"`
}

type RoomDimensions struct {
	Shape         string  `json:"shape,omitempty"`
	Width         float64 `json:"width"`
	Depth         float64 `json:"depth"`
	WallHeight    float64 `json:"wallHeight,omitempty"`
	WallThickness float64 `json:"wallThickness"`
}

// Snapshot это данные для сохранения.
type Snapshot struct {
	Document
	ProjectName    string         `json:"projectName"`
	RoomDimensions RoomDimensions `json:"initialData"`
	Timestamp      time.Time      `json:"timestamp"`
}
