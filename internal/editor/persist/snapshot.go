package persist

import (
	"encoding/json"
	"fmt"
	"time"

	"floorplan/internal/editor/graph"
	"floorplan/internal/editor/models"
	"floorplan/internal/editor/placement"
	"floorplan/internal/editor/room"
	"floorplan/internal/editor/snap"
)

// ============================================================
// Snapshot codec
// ============================================================

const PlaceholderName = "Untitled Project"

// Options управляют починкой загруженных данных.
type Options struct {
	Tolerance float64
	Snap      snap.Options
}

func DefaultOptions() Options {
	return Options{Tolerance: graph.DefaultTolerance, Snap: snap.DefaultOptions()}
}

// Encode пишет снимок в JSON с отступами.
func Encode(s models.Snapshot) ([]byte, error) {
	s.Document = s.Document.Normalize()
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Decode читает снимок. Ошибка только если payload не JSON объект.
// Отсутствующие или битые поля получают значения по умолчанию,
// неизвестные поля отбрасываются.
func Decode(data []byte, opts Options) (models.Snapshot, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}

	var s models.Snapshot
	field(raw, "walls", &s.Walls)
	field(raw, "doors", &s.Doors)
	field(raw, "windows", &s.Windows)
	field(raw, "radiators", &s.Radiators)
	field(raw, "texts", &s.Texts)
	field(raw, "shapes", &s.Shapes)
	field(raw, "measurements", &s.Measurements)
	field(raw, "projectName", &s.ProjectName)
	field(raw, "initialData", &s.RoomDimensions)
	field(raw, "timestamp", &s.Timestamp)

	return Repair(s, opts), nil
}

// Repair применяет умолчания загрузки: пустые коллекции, имя-заглушку,
// толщину стен, сварку углов и offset элементов.
func Repair(s models.Snapshot, opts Options) models.Snapshot {
	s.Document = s.Document.Normalize().Clone()
	if s.ProjectName == "" {
		s.ProjectName = PlaceholderName
	}
	if s.Timestamp.IsZero() {
		s.Timestamp = time.Now().UTC()
	}

	for i := range s.Walls {
		if s.Walls[i].Thickness <= 0 {
			s.Walls[i].Thickness = room.DefaultThickness
		}
	}
	s.Walls = graph.Weld(s.Walls, opts.Tolerance)

	s.Doors = withOffsets(s.Doors, models.KindDoor, s.Walls, opts.Snap)
	s.Windows = withOffsets(s.Windows, models.KindWindow, s.Walls, opts.Snap)
	s.Radiators = withOffsets(s.Radiators, models.KindRadiator, s.Walls, opts.Snap)
	return s
}

// field декодирует raw[key] в dst. При неверной форме dst не меняется.
func field[T any](raw map[string]json.RawMessage, key string, dst *T) {
	data, ok := raw[key]
	if !ok {
		return
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return
	}
	*dst = v
}

// withOffsets заполняет тип и ширину элемента и вычисляет offset
// для привязанных элементов, сохраненных без него.
func withOffsets(list []models.Element, kind models.ElementKind, walls []models.Wall, opts snap.Options) []models.Element {
	var missing []int
	for i := range list {
		if list[i].Type == "" {
			list[i].Type = kind
		}
		if list[i].Width <= 0 {
			list[i].Width = placement.DefaultWidth(kind)
		}
		if list[i].WallID != "" && list[i].Offset == 0 {
			missing = append(missing, i)
		}
	}
	if len(missing) == 0 {
		return list
	}

	fixed := placement.RecomputeOffsets(list, walls, opts)
	for _, i := range missing {
		list[i] = fixed[i]
	}
	return list
}
