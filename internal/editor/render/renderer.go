package render

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"floorplan/internal/editor/graph"
	"floorplan/internal/editor/interaction"
	"floorplan/internal/editor/models"
	"floorplan/internal/editor/viewport"
)

// ============================================================
// Renderer
// ============================================================

const (
	colorWall     = "#333"
	colorSelected = "#1f77b4"
	colorAdjacent = "#6baed6"
	colorFloor    = "#f3efe6"
	colorDoor     = "#d62728"
	colorWindow   = "#17becf"
	colorRadiator = "#ff7f0e"
	colorMeasure  = "#2ca02c"
	colorPreview  = "#9467bd"

	elementDepth = 0.2
)

// Renderer рисует документ в SVG размером с вьюпорт.
// Входные данные не изменяются.
type Renderer struct {
	Tolerance float64
	Handles   interaction.HandleRadii
}

func NewRenderer(opts interaction.Options) *Renderer {
	return &Renderer{Tolerance: opts.AdjacencyTolerance, Handles: opts.Handles}
}

// Render собирает один кадр.
func (r *Renderer) Render(doc models.Document, ctx interaction.Context) (string, error) {
	vp := ctx.Viewport
	if vp.Width <= 0 || vp.Height <= 0 || vp.Scale <= 0 {
		return "", fmt.Errorf("invalid viewport %gx%g at scale %g", vp.Width, vp.Height, vp.Scale)
	}

	var elements []string
	elements = append(elements, r.renderFloor(doc, vp)...)
	elements = append(elements, r.renderWalls(doc, ctx)...)
	elements = append(elements, r.renderElements(doc, ctx)...)
	elements = append(elements, r.renderMeasurements(doc, vp)...)
	elements = append(elements, r.renderLabels(doc, ctx)...)
	elements = append(elements, r.renderHandles(doc, ctx)...)
	elements = append(elements, r.renderPreview(ctx)...)

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		formatFloat(vp.Width), formatFloat(vp.Height), formatFloat(vp.Width), formatFloat(vp.Height)))
	builder.WriteString("\n")

	for _, elem := range elements {
		builder.WriteString("  ")
		builder.WriteString(elem)
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String(), nil
}

// OuterLength это длина стены по внешней грани.
func OuterLength(w models.Wall) float64 {
	return w.Length() + 2*w.Thickness
}

// ============================================================
// Layers
// ============================================================

func (r *Renderer) renderFloor(doc models.Document, vp viewport.Viewport) []string {
	floor := graph.DeriveFloor(doc.Walls, r.Tolerance)
	if !floor.Closed {
		return nil
	}
	return []string{polygon("floor", surfacePoints(vp, floor.Points), colorFloor, "none")}
}

func (r *Renderer) renderWalls(doc models.Document, ctx interaction.Context) []string {
	var out []string
	for _, w := range doc.Walls {
		stroke := colorWall
		if w.ID == ctx.SelectedWallID {
			stroke = colorSelected
		}
		corners := quad(w.A(), w.Angle(), w.Length(), w.Thickness)
		out = append(out, polygon(w.ID, surfacePoints(ctx.Viewport, corners), "#bbb", stroke))
	}
	return out
}

func (r *Renderer) renderElements(doc models.Document, ctx interaction.Context) []string {
	var out []string
	for _, el := range doc.AllElements() {
		depth := elementDepth
		if w, _, ok := doc.FindWall(el.WallID); ok {
			depth = w.Thickness
		}

		// quad строится от конца, поэтому отступаем на половину ширины
		start := models.Point{
			X: el.X - math.Cos(el.Rotation)*el.Width/2,
			Y: el.Y - math.Sin(el.Rotation)*el.Width/2,
		}
		corners := quad(start, el.Rotation, el.Width, depth)

		stroke := elementColor(el.Type)
		if el.ID == ctx.SelectedElementID {
			stroke = colorSelected
		}
		out = append(out, polygon(el.ID, surfacePoints(ctx.Viewport, corners), "#fff", stroke))
	}
	return out
}

func (r *Renderer) renderMeasurements(doc models.Document, vp viewport.Viewport) []string {
	var out []string
	for _, m := range doc.Measurements {
		a := vp.SurfacePoint(models.Point{X: m.X1, Y: m.Y1})
		b := vp.SurfacePoint(models.Point{X: m.X2, Y: m.Y2})
		out = append(out, line(m.ID, a, b, colorMeasure, true))
		mid := models.Point{X: (a.X + b.X) / 2, Y: (a.Y+b.Y)/2 - 6}
		out = append(out, text(mid, FormatLength(m.Length()), colorMeasure))
	}
	return out
}

// renderLabels подписывает длину каждой стены. У выбранной стены еще и
// внешняя длина. Смежные с ней стены меняются при перетаскивании,
// поэтому их подписи подсвечиваются.
func (r *Renderer) renderLabels(doc models.Document, ctx interaction.Context) []string {
	adjacent := make(map[string]bool)
	for _, w := range graph.ConnectedWalls(doc.Walls, ctx.SelectedWallID, r.Tolerance) {
		adjacent[w.ID] = true
	}

	var out []string
	for _, w := range doc.Walls {
		h := interaction.HandlesFor(ctx.Viewport, w, r.Handles)
		switch {
		case w.ID == ctx.SelectedWallID:
			label := FormatLength(w.Length()) + " (" + FormatLength(OuterLength(w)) + ")"
			out = append(out, text(h.Label, label, colorSelected))
		case adjacent[w.ID]:
			out = append(out, text(h.Label, FormatLength(w.Length()), colorAdjacent))
		default:
			out = append(out, text(h.Label, FormatLength(w.Length()), colorWall))
		}
	}
	return out
}

func (r *Renderer) renderHandles(doc models.Document, ctx interaction.Context) []string {
	var out []string

	if c, ok := interaction.FloorHandle(doc.Walls, r.Tolerance); ok {
		out = append(out, circle(ctx.Viewport.SurfacePoint(c), r.Handles.Floor, colorPreview))
	}

	w, _, ok := doc.FindWall(ctx.SelectedWallID)
	if !ok {
		return out
	}
	h := interaction.HandlesFor(ctx.Viewport, w, r.Handles)
	out = append(out,
		circle(h.A, r.Handles.Endpoint/2, colorSelected),
		circle(h.B, r.Handles.Endpoint/2, colorSelected),
		circle(h.Mid, r.Handles.Midpoint/2, colorSelected),
		circle(h.Extend, r.Handles.Extend/2, colorMeasure),
		text(models.Point{X: h.Extend.X, Y: h.Extend.Y + 4}, "+", "#fff"),
	)
	return out
}

func (r *Renderer) renderPreview(ctx interaction.Context) []string {
	vp := ctx.Viewport
	var out []string

	if ctx.DrawStart != nil && ctx.DrawEnd != nil {
		stroke := colorPreview
		if ctx.Ortho {
			stroke = colorMeasure
		}
		out = append(out, line("draw-preview", vp.SurfacePoint(*ctx.DrawStart), vp.SurfacePoint(*ctx.DrawEnd), stroke, true))
	}
	if ctx.MeasureStart != nil {
		out = append(out, line("measure-preview", vp.SurfacePoint(*ctx.MeasureStart), vp.SurfacePoint(ctx.Cursor), colorMeasure, true))
	}
	if ctx.Preview != nil {
		out = append(out, circle(vp.SurfacePoint(ctx.Preview.Point), 6, elementColor(ctx.PlaceKind)))
	}
	return out
}

// ============================================================
// Geometry helpers
// ============================================================

// quad возвращает углы прямоугольника длины length от start под углом
// angle. Ширина центрирована относительно оси.
func quad(start models.Point, angle, length, width float64) []models.Point {
	ux, uy := math.Cos(angle), math.Sin(angle)
	nx, ny := -uy*width/2, ux*width/2
	sx, sy := start.X, start.Y
	ex, ey := start.X+ux*length, start.Y+uy*length

	return []models.Point{
		{X: sx + nx, Y: sy + ny},
		{X: ex + nx, Y: ey + ny},
		{X: ex - nx, Y: ey - ny},
		{X: sx - nx, Y: sy - ny},
	}
}

func surfacePoints(vp viewport.Viewport, points []models.Point) []models.Point {
	out := make([]models.Point, len(points))
	for i, p := range points {
		out[i] = vp.SurfacePoint(p)
	}
	return out
}

func elementColor(kind models.ElementKind) string {
	switch kind {
	case models.KindDoor:
		return colorDoor
	case models.KindWindow:
		return colorWindow
	case models.KindRadiator:
		return colorRadiator
	}
	return colorPreview
}

// ============================================================
// Formatting helpers
// ============================================================

// FormatLength печатает метры с двумя знаками.
func FormatLength(m float64) string {
	return strconv.FormatFloat(m, 'f', 2, 64) + " m"
}

func polygon(id string, points []models.Point, fill, stroke string) string {
	var path strings.Builder
	path.WriteString(`<path id="`)
	path.WriteString(html.EscapeString(id))
	path.WriteString(`" d="M `)
	path.WriteString(formatPoint(points[0]))
	for _, p := range points[1:] {
		path.WriteString(" L ")
		path.WriteString(formatPoint(p))
	}
	path.WriteString(fmt.Sprintf(` Z" fill="%s" stroke="%s" />`, fill, stroke))
	return path.String()
}

func line(id string, a, b models.Point, stroke string, dashed bool) string {
	dash := ""
	if dashed {
		dash = ` stroke-dasharray="6 4"`
	}
	return fmt.Sprintf(`<line id="%s" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s"%s />`,
		html.EscapeString(id), formatFloat(a.X), formatFloat(a.Y), formatFloat(b.X), formatFloat(b.Y), stroke, dash)
}

func circle(c models.Point, radius float64, fill string) string {
	return fmt.Sprintf(`<circle cx="%s" cy="%s" r="%s" fill="%s" />`,
		formatFloat(c.X), formatFloat(c.Y), formatFloat(radius), fill)
}

func text(at models.Point, s, fill string) string {
	return fmt.Sprintf(`<text x="%s" y="%s" fill="%s" font-size="12" text-anchor="middle">%s</text>`,
		formatFloat(at.X), formatFloat(at.Y), fill, html.EscapeString(s))
}

func formatFloat(val float64) string {
	return strconv.FormatFloat(math.Round(val*100)/100, 'f', -1, 64)
}

func formatPoint(p models.Point) string {
	return formatFloat(p.X) + " " + formatFloat(p.Y)
}
