package svgimport

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ============================================================
// XML Structures
// ============================================================

type Rect struct {
	ID     string  `xml:"id,attr"`
	X      float64 `xml:"x,attr"`
	Y      float64 `xml:"y,attr"`
	Width  float64 `xml:"width,attr"`
	Height float64 `xml:"height,attr"`
}

type Path struct {
	ID string `xml:"id,attr"`
	D  string `xml:"d,attr"`
}

// Class определяет, чем является SVG элемент (по его id).
type Class string

const (
	ClassWall   Class = "wall"
	ClassDoor   Class = "door"
	ClassWindow Class = "window"
	ClassRoom   Class = "room"
)

// Shape это классифицированный rect или path. Задан ровно один из Rect и Path.
type Shape struct {
	ID    string
	Class Class
	Rect  *Rect
	Path  *Path
}

var ErrNotSVG = errors.New("document root is not <svg>")

// ============================================================
// Parser
// ============================================================

// Parse обходит весь документ вместе с группами и возвращает rect и path
// с известным классом в id. Остальные фигуры пропускаются.
func Parse(r io.Reader) ([]Shape, error) {
	decoder := xml.NewDecoder(r)
	var shapes []Shape
	root := true

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read svg: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if root {
			if start.Name.Local != "svg" {
				return nil, ErrNotSVG
			}
			root = false
			continue
		}

		switch start.Name.Local {
		case "rect":
			var rect Rect
			if err := decoder.DecodeElement(&rect, &start); err != nil {
				return nil, fmt.Errorf("decode rect: %w", err)
			}
			if class := classifyByID(rect.ID); class != "" {
				shapes = append(shapes, Shape{ID: rect.ID, Class: class, Rect: &rect})
			}
		case "path":
			var path Path
			if err := decoder.DecodeElement(&path, &start); err != nil {
				return nil, fmt.Errorf("decode path: %w", err)
			}
			if class := classifyByID(path.ID); class != "" {
				shapes = append(shapes, Shape{ID: path.ID, Class: class, Path: &path})
			}
		}
	}

	if root {
		return nil, ErrNotSVG
	}
	return shapes, nil
}

func classifyByID(id string) Class {
	switch {
	case strings.HasPrefix(id, "Wall_"), strings.HasPrefix(id, "Hui_Wall_"):
		return ClassWall
	case strings.HasPrefix(id, "Door_"):
		return ClassDoor
	case strings.HasPrefix(id, "Window_"):
		return ClassWindow
	case strings.HasPrefix(id, "Room_"), strings.HasSuffix(id, "_room"), strings.HasSuffix(id, "_Room"):
		return ClassRoom
	}
	return ""
}
