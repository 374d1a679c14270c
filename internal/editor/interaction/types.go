package interaction

import (
	"floorplan/internal/editor/dimension"
	"floorplan/internal/editor/graph"
	"floorplan/internal/editor/models"
	"floorplan/internal/editor/room"
	"floorplan/internal/editor/snap"
	"floorplan/internal/editor/viewport"

	"github.com/google/uuid"
)

// ============================================================
// Tools & drag sub-states
// ============================================================

// Tool определяет, как трактуется ввод указателя.
type Tool string

const (
	ToolSelect   Tool = "select"
	ToolPan      Tool = "pan"
	ToolDrawWall Tool = "draw-wall"
	ToolMeasure  Tool = "measure"
	ToolPlace    Tool = "place-element"
)

func ParseTool(s string) (Tool, bool) {
	switch t := Tool(s); t {
	case ToolSelect, ToolPan, ToolDrawWall, ToolMeasure, ToolPlace:
		return t, true
	}
	return ToolSelect, false
}

// DragMode это текущий жест перетаскивания.
type DragMode int

const (
	DragNone DragMode = iota
	DragPan
	DragMoveWall
	DragResizeWall
	DragMoveElement
	DragMoveFloor
)

func (d DragMode) String() string {
	switch d {
	case DragPan:
		return "pan"
	case DragMoveWall:
		return "move-wall"
	case DragResizeWall:
		return "resize-wall"
	case DragMoveElement:
		return "move-element"
	case DragMoveFloor:
		return "move-floor"
	default:
		return "none"
	}
}

func (d DragMode) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// ============================================================
// Events & effects
// ============================================================

type EventKind string

const (
	PointerDown EventKind = "pointerdown"
	PointerMove EventKind = "pointermove"
	PointerUp   EventKind = "pointerup"
	KeyDown     EventKind = "keydown"
	Wheel       EventKind = "wheel"
)

func (k EventKind) Valid() bool {
	switch k {
	case PointerDown, PointerMove, PointerUp, KeyDown, Wheel:
		return true
	}
	return false
}

type Button int

const (
	ButtonPrimary Button = iota
	ButtonAuxiliary
	ButtonSecondary
)

const (
	KeyEscape    = "Escape"
	KeyDelete    = "Delete"
	KeyBackspace = "Backspace"
)

// Event это одно событие указателя, клавиатуры или колеса. X/Y в пикселях.
type Event struct {
	Kind   EventKind `json:"kind"`
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Button Button    `json:"button"`
	Shift  bool      `json:"shift"`
	Key    string    `json:"key,omitempty"`
	DeltaY float64   `json:"deltaY,omitempty"`
}

// EffectKind сообщает владельцу, что изменилось. EffectCommit просит
// записать снимок в историю.
type EffectKind string

const (
	EffectWallsChanged        EffectKind = "walls-changed"
	EffectElementsChanged     EffectKind = "elements-changed"
	EffectMeasurementsChanged EffectKind = "measurements-changed"
	EffectSelectionChanged    EffectKind = "selection-changed"
	EffectViewportChanged     EffectKind = "viewport-changed"
	EffectPreviewChanged      EffectKind = "preview-changed"
	EffectOpenLengthEditor    EffectKind = "open-length-editor"
	EffectCommit              EffectKind = "commit"
)

type Effect struct {
	Kind EffectKind `json:"kind"`
	ID   string     `json:"id,omitempty"`
}

// Commits: просят ли эффекты записать снимок в историю.
func Commits(effects []Effect) bool {
	for _, e := range effects {
		if e.Kind == EffectCommit {
			return true
		}
	}
	return false
}

// ============================================================
// Context
// ============================================================

// Context это все состояние взаимодействия. Обработчики получают его
// по значению и возвращают следующее.
type Context struct {
	Tool      Tool               `json:"tool"`
	PlaceKind models.ElementKind `json:"placeKind,omitempty"`
	Viewport  viewport.Viewport  `json:"viewport"`

	SelectedWallID    string `json:"selectedWallId,omitempty"`
	SelectedElementID string `json:"selectedElementId,omitempty"`

	Drag         DragMode        `json:"drag"`
	DragWallID   string          `json:"dragWallId,omitempty"`
	DragEndpoint models.Endpoint `json:"dragEndpoint"`
	Anchor       models.Point    `json:"anchor"`
	AnchorPx     models.Point    `json:"anchorPx"`

	Cursor       models.Point       `json:"cursor"`
	DrawStart    *models.Point      `json:"drawStart,omitempty"`
	DrawEnd      *models.Point      `json:"drawEnd,omitempty"`
	Ortho        bool               `json:"ortho"`
	MeasureStart *models.Point      `json:"measureStart,omitempty"`
	Preview      *snap.Projection   `json:"preview,omitempty"`
	LengthEdit   *dimension.Session `json:"lengthEdit,omitempty"`

	before *models.Document
}

func NewContext(vp viewport.Viewport) Context {
	return Context{Tool: ToolSelect, Viewport: vp}
}

// ============================================================
// Options
// ============================================================

// HandleRadii это размеры зон попадания в пикселях.
type HandleRadii struct {
	Element      float64
	Floor        float64
	Endpoint     float64
	Midpoint     float64
	Label        float64
	LabelMargin  float64
	Extend       float64
	ExtendOffset float64
	WallMargin   float64
}

func DefaultHandleRadii() HandleRadii {
	return HandleRadii{
		Element:      28,
		Floor:        14,
		Endpoint:     15,
		Midpoint:     20,
		Label:        25,
		LabelMargin:  20,
		Extend:       15,
		ExtendOffset: 25,
		WallMargin:   5,
	}
}

// Options настраивают машину состояний. MinWallLength = 0 принимает стены
// любой длины, GridStep = 0 отключает привязку к сетке.
type Options struct {
	AdjacencyTolerance float64
	Snap               snap.Options
	FreePlacement      bool
	MinWallLength      float64
	GridStep           float64
	Reanchor           bool
	DefaultThickness   float64
	Handles            HandleRadii
	NewID              func(prefix string) string
}

func DefaultOptions() Options {
	return Options{
		AdjacencyTolerance: graph.DefaultTolerance,
		Snap:               snap.DefaultOptions(),
		MinWallLength:      0.01,
		Reanchor:           true,
		DefaultThickness:   room.DefaultThickness,
		Handles:            DefaultHandleRadii(),
		NewID:              NewID,
	}
}

// NewID возвращает "<prefix>-<uuid>".
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

func (o Options) newID(prefix string) string {
	if o.NewID == nil {
		return NewID(prefix)
	}
	return o.NewID(prefix)
}
