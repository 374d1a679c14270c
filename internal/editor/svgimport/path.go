package svgimport

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"floorplan/internal/editor/models"
)

// ============================================================
// Path Parser
// ============================================================

var commandRe = regexp.MustCompile(`([MmLlHhVvZz])([^MmLlHhVvZz]*)`)

// ParsePath парсит SVG path в список точек.
// Поддерживаются команды M, L, H, V, Z (абсолютные и относительные).
// Повторные пары координат после M или L считаются неявным L.
func ParsePath(d string) ([]models.Point, error) {
	d = strings.TrimSpace(d)
	if d == "" {
		return nil, fmt.Errorf("empty path")
	}

	var points []models.Point
	var x, y float64

	for _, match := range commandRe.FindAllStringSubmatch(d, -1) {
		cmd := match[1]
		coords := parseCoords(match[2])

		switch cmd {
		case "M", "L":
			for i := 0; i+1 < len(coords); i += 2 {
				x, y = coords[i], coords[i+1]
				points = append(points, models.Point{X: x, Y: y})
			}
		case "m", "l":
			for i := 0; i+1 < len(coords); i += 2 {
				x += coords[i]
				y += coords[i+1]
				points = append(points, models.Point{X: x, Y: y})
			}
		case "H":
			for _, c := range coords {
				x = c
				points = append(points, models.Point{X: x, Y: y})
			}
		case "h":
			for _, c := range coords {
				x += c
				points = append(points, models.Point{X: x, Y: y})
			}
		case "V":
			for _, c := range coords {
				y = c
				points = append(points, models.Point{X: x, Y: y})
			}
		case "v":
			for _, c := range coords {
				y += c
				points = append(points, models.Point{X: x, Y: y})
			}
		case "Z", "z":
			if len(points) > 0 {
				points = append(points, points[0])
				x, y = points[0].X, points[0].Y
			}
		}
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("path %q has no coordinates", d)
	}
	return points, nil
}

func parseCoords(s string) []float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	// Разделитель: запятая или пробел
	parts := strings.Fields(strings.ReplaceAll(s, ",", " "))

	coords := make([]float64, 0, len(parts))
	for _, part := range parts {
		val, err := strconv.ParseFloat(part, 64)
		if err == nil {
			coords = append(coords, val)
		}
	}
	return coords
}
