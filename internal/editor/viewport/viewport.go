package viewport

import (
	"math"

	"floorplan/internal/editor/models"
)

// ============================================================
// Coordinate Mapper
// ============================================================

const (
	DefaultScale    = 50.0
	DefaultMinScale = 5.0
	DefaultMaxScale = 300.0
	DefaultFitCap   = 70.0
	DefaultPadding  = 150.0

	zoomInFactor   = 1.2
	zoomOutFactor  = 0.8
	wheelInFactor  = 1.1
	wheelOutFactor = 0.9
)

// Viewport переводит метры мира (Y вверх) в пиксели поверхности (Y вниз).
// Начало координат мира в центре вьюпорта Width x Height.
type Viewport struct {
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Scale    float64 `json:"scale"`
	OffsetX  float64 `json:"offsetX"`
	OffsetY  float64 `json:"offsetY"`
	MinScale float64 `json:"minScale"`
	MaxScale float64 `json:"maxScale"`
}

func New(width, height float64) Viewport {
	return Viewport{
		Width:    width,
		Height:   height,
		Scale:    DefaultScale,
		MinScale: DefaultMinScale,
		MaxScale: DefaultMaxScale,
	}
}

// ToSurface переводит мировые координаты в пиксели.
func (v Viewport) ToSurface(x, y float64) (float64, float64) {
	px := v.Width/2 + x*v.Scale + v.OffsetX
	py := v.Height/2 - y*v.Scale + v.OffsetY
	return px, py
}

// ToWorld переводит пиксели в мировые координаты.
func (v Viewport) ToWorld(px, py float64) (float64, float64) {
	x := (px - v.Width/2 - v.OffsetX) / v.Scale
	y := (v.Height/2 - py + v.OffsetY) / v.Scale
	return x, y
}

func (v Viewport) SurfacePoint(p models.Point) models.Point {
	x, y := v.ToSurface(p.X, p.Y)
	return models.Point{X: x, Y: y}
}

func (v Viewport) WorldPoint(p models.Point) models.Point {
	x, y := v.ToWorld(p.X, p.Y)
	return models.Point{X: x, Y: y}
}

// SetScale ограничивает s диапазоном [MinScale, MaxScale].
func (v *Viewport) SetScale(s float64) {
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return
	}
	lo, hi := v.bounds()
	v.Scale = math.Max(lo, math.Min(s, hi))
}

func (v *Viewport) ZoomIn()  { v.SetScale(v.Scale * zoomInFactor) }
func (v *Viewport) ZoomOut() { v.SetScale(v.Scale * zoomOutFactor) }

// Wheel отдаляет при положительном deltaY и приближает при отрицательном.
func (v *Viewport) Wheel(deltaY float64) {
	switch {
	case deltaY > 0:
		v.SetScale(v.Scale * wheelOutFactor)
	case deltaY < 0:
		v.SetScale(v.Scale * wheelInFactor)
	}
}

// Pan сдвигает offset на дельту в пикселях.
func (v *Viewport) Pan(dx, dy float64) {
	v.OffsetX += dx
	v.OffsetY += dy
}

// FitToScreen подбирает наибольший масштаб, при котором комната с отступом
// помещается (не больше maxScale), и центрирует вид.
func (v *Viewport) FitToScreen(roomWidth, roomDepth, padding, maxScale float64) {
	if roomWidth <= 0 || roomDepth <= 0 {
		return
	}
	if maxScale <= 0 {
		maxScale = DefaultFitCap
	}
	sx := (v.Width - padding) / roomWidth
	sy := (v.Height - padding) / roomDepth
	v.SetScale(math.Min(math.Min(sx, sy), maxScale))
	v.OffsetX, v.OffsetY = 0, 0
}

// FitBounds вписывает bounding box мира и центрирует его.
func (v *Viewport) FitBounds(minX, minY, maxX, maxY, padding, maxScale float64) {
	v.FitToScreen(maxX-minX, maxY-minY, padding, maxScale)
	if maxX <= minX || maxY <= minY {
		return
	}
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	v.OffsetX = -cx * v.Scale
	v.OffsetY = cy * v.Scale
}

// Resize меняет размер поверхности, например при ресайзе canvas.
func (v *Viewport) Resize(width, height float64) {
	if width > 0 {
		v.Width = width
	}
	if height > 0 {
		v.Height = height
	}
}

func (v Viewport) bounds() (float64, float64) {
	lo, hi := v.MinScale, v.MaxScale
	if lo <= 0 {
		lo = DefaultMinScale
	}
	if hi <= 0 || hi < lo {
		hi = DefaultMaxScale
	}
	return lo, hi
}
