package models

import (
	"slices"
)

// ============================================================
// Document helpers
// ============================================================

// Clone возвращает глубокую копию, без общих срезов и map с d.
func (d Document) Clone() Document {
	return Document{
		Walls:        cloneSlice(d.Walls),
		Doors:        cloneSlice(d.Doors),
		Windows:      cloneSlice(d.Windows),
		Radiators:    cloneSlice(d.Radiators),
		Texts:        cloneMaps(d.Texts),
		Shapes:       cloneMaps(d.Shapes),
		Measurements: cloneSlice(d.Measurements),
	}
}

// Normalize заменяет nil коллекции пустыми.
func (d Document) Normalize() Document {
	if d.Walls == nil {
		d.Walls = []Wall{}
	}
	if d.Doors == nil {
		d.Doors = []Element{}
	}
	if d.Windows == nil {
		d.Windows = []Element{}
	}
	if d.Radiators == nil {
		d.Radiators = []Element{}
	}
	if d.Texts == nil {
		d.Texts = []map[string]any{}
	}
	if d.Shapes == nil {
		d.Shapes = []map[string]any{}
	}
	if d.Measurements == nil {
		d.Measurements = []Measurement{}
	}
	return d
}

// Elements возвращает коллекцию для типа kind.
func (d Document) Elements(kind ElementKind) []Element {
	switch kind {
	case KindDoor:
		return d.Doors
	case KindWindow:
		return d.Windows
	case KindRadiator:
		return d.Radiators
	}
	return nil
}

// WithElements возвращает копию d с замененной коллекцией kind.
func (d Document) WithElements(kind ElementKind, list []Element) Document {
	switch kind {
	case KindDoor:
		d.Doors = list
	case KindWindow:
		d.Windows = list
	case KindRadiator:
		d.Radiators = list
	}
	return d
}

// AllElements перечисляет двери, окна и радиаторы (в этом порядке).
func (d Document) AllElements() []Element {
	out := make([]Element, 0, len(d.Doors)+len(d.Windows)+len(d.Radiators))
	out = append(out, d.Doors...)
	out = append(out, d.Windows...)
	return append(out, d.Radiators...)
}

func (d Document) FindWall(id string) (Wall, int, bool) {
	for i, w := range d.Walls {
		if w.ID == id {
			return w, i, true
		}
	}
	return Wall{}, -1, false
}

func (d Document) FindElement(id string) (Element, bool) {
	for _, e := range d.AllElements() {
		if e.ID == id {
			return e, true
		}
	}
	return Element{}, false
}

// SameGeometry сравнивает стены, элементы и замеры по значению.
func (d Document) SameGeometry(o Document) bool {
	return slices.Equal(d.Walls, o.Walls) &&
		slices.Equal(d.Doors, o.Doors) &&
		slices.Equal(d.Windows, o.Windows) &&
		slices.Equal(d.Radiators, o.Radiators) &&
		slices.Equal(d.Measurements, o.Measurements)
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func cloneMaps(in []map[string]any) []map[string]any {
	if in == nil {
		return nil
	}
	out := make([]map[string]any, len(in))
	for i, m := range in {
		out[i], _ = cloneValue(m).(map[string]any)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		if val == nil {
			return val
		}
		cp := make(map[string]any, len(val))
		for k, item := range val {
			cp[k] = cloneValue(item)
		}
		return cp
	case []any:
		cp := make([]any, len(val))
		for i, item := range val {
			cp[i] = cloneValue(item)
		}
		return cp
	default:
		return val
	}
}
