package room

import (
	"errors"
	"fmt"

	"floorplan/internal/editor/models"
)

// ============================================================
// Initial room generator
// ============================================================

const (
	DefaultThickness = 0.24
	DefaultHeight    = 2.75

	ShapeNone = "none"
	ShapeRect = "rect"
	ShapeL    = "l"
)

var ErrInvalidDimensions = errors.New("room dimensions must be positive")

// Params описывают начальную комнату. CutWidth/CutDepth задают вырез
// в правом верхнем углу Г-образной комнаты.
type Params struct {
	Shape     string  `json:"shape"`
	Width     float64 `json:"width"`
	Depth     float64 `json:"depth"`
	Thickness float64 `json:"wallThickness"`
	Height    float64 `json:"wallHeight"`
	CutWidth  float64 `json:"cutWidth"`
	CutDepth  float64 `json:"cutDepth"`
}

// Dimensions переводит параметры в сохраняемые размеры комнаты.
func (p Params) Dimensions() models.RoomDimensions {
	return models.RoomDimensions{
		Shape:         p.Shape,
		Width:         p.Width,
		Depth:         p.Depth,
		WallHeight:    p.Height,
		WallThickness: p.Thickness,
	}
}

// Generate строит начальную цепочку стен для формы комнаты.
func Generate(p Params) ([]models.Wall, error) {
	if p.Thickness <= 0 {
		p.Thickness = DefaultThickness
	}
	switch p.Shape {
	case ShapeNone:
		return []models.Wall{}, nil
	case "", ShapeRect:
		if p.Width <= 0 || p.Depth <= 0 {
			return nil, ErrInvalidDimensions
		}
		return Rectangle(p.Width, p.Depth, p.Thickness), nil
	case ShapeL:
		if p.Width <= 0 || p.Depth <= 0 || p.CutWidth <= 0 || p.CutDepth <= 0 ||
			p.CutWidth >= p.Width || p.CutDepth >= p.Depth {
			return nil, ErrInvalidDimensions
		}
		return LShape(p.Width, p.Depth, p.CutWidth, p.CutDepth, p.Thickness), nil
	}
	return nil, fmt.Errorf("unknown room shape %q", p.Shape)
}

// Rectangle возвращает стены top, right, bottom, left по часовой стрелке,
// чтобы обход пола замыкался с первого прохода.
func Rectangle(width, depth, thickness float64) []models.Wall {
	w, d := width/2, depth/2
	return []models.Wall{
		{ID: "wall-top", X1: -w, Y1: d, X2: w, Y2: d, Thickness: thickness},
		{ID: "wall-right", X1: w, Y1: d, X2: w, Y2: -d, Thickness: thickness},
		{ID: "wall-bottom", X1: w, Y1: -d, X2: -w, Y2: -d, Thickness: thickness},
		{ID: "wall-left", X1: -w, Y1: -d, X2: -w, Y2: d, Thickness: thickness},
	}
}

// LShape возвращает шесть стен по часовой с вырезом справа сверху.
func LShape(width, depth, cutWidth, cutDepth, thickness float64) []models.Wall {
	w, d := width/2, depth/2
	notchX := w - cutWidth
	notchY := d - cutDepth
	return []models.Wall{
		{ID: "wall-top", X1: -w, Y1: d, X2: notchX, Y2: d, Thickness: thickness},
		{ID: "wall-notch-vertical", X1: notchX, Y1: d, X2: notchX, Y2: notchY, Thickness: thickness},
		{ID: "wall-notch-horizontal", X1: notchX, Y1: notchY, X2: w, Y2: notchY, Thickness: thickness},
		{ID: "wall-right", X1: w, Y1: notchY, X2: w, Y2: -d, Thickness: thickness},
		{ID: "wall-bottom", X1: w, Y1: -d, X2: -w, Y2: -d, Thickness: thickness},
		{ID: "wall-left", X1: -w, Y1: -d, X2: -w, Y2: d, Thickness: thickness},
	}
}
