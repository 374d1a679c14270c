package session

import (
	"errors"
	"sync"
	"time"

	"floorplan/internal/editor/dimension"
	"floorplan/internal/editor/graph"
	"floorplan/internal/editor/history"
	"floorplan/internal/editor/interaction"
	"floorplan/internal/editor/models"
	"floorplan/internal/editor/placement"
	"floorplan/internal/editor/viewport"
)

// ============================================================
// Editor
// ============================================================

var (
	ErrUnknownTool = errors.New("unknown tool")
	ErrUnknownKind = errors.New("unknown element kind")
	ErrUnknownWall = errors.New("wall not found")
)

// Editor владеет одним открытым документом: контекстом взаимодействия,
// текущими коллекциями и историей. Безопасен для конкурентного доступа.
type Editor struct {
	mu sync.Mutex

	id          string
	projectID   string
	projectName string
	room        models.RoomDimensions
	createdAt   time.Time

	ctx     interaction.Context
	doc     models.Document
	history *history.History
	opts    interaction.Options
	fit     FitSettings
}

// FitSettings настраивают fit-to-screen.
type FitSettings struct {
	Padding float64
	Cap     float64
}

// State это сериализуемое представление редактора.
type State struct {
	ID           string                `json:"id"`
	ProjectID    string                `json:"projectId,omitempty"`
	ProjectName  string                `json:"projectName"`
	Room         models.RoomDimensions `json:"initialData"`
	Document     models.Document       `json:"document"`
	Context      interaction.Context   `json:"context"`
	CanUndo      bool                  `json:"canUndo"`
	CanRedo      bool                  `json:"canRedo"`
	HistoryIndex int                   `json:"historyIndex"`
	HistorySize  int                   `json:"historySize"`
	Floor        FloorInfo             `json:"floor"`
}

type FloorInfo struct {
	Closed bool           `json:"closed"`
	Area   float64        `json:"area"`
	Points []models.Point `json:"points"`
}

func newEditor(id string, snap models.Snapshot, vp viewport.Viewport, s Settings) *Editor {
	e := &Editor{
		id:          id,
		projectName: snap.ProjectName,
		room:        snap.RoomDimensions,
		createdAt:   time.Now(),
		ctx:         interaction.NewContext(vp),
		doc:         snap.Document.Normalize().Clone(),
		history:     history.New(s.HistoryLimit),
		opts:        s.Options,
		fit:         s.Fit,
	}
	if t := snap.RoomDimensions.WallThickness; t > 0 {
		e.opts.DefaultThickness = t
	}
	e.history.Commit(e.doc)
	e.fitLocked()
	return e
}

func (e *Editor) ID() string { return e.id }

// Dispatch прогоняет событие через машину состояний и пишет снимок
// в историю, если эффекты этого требуют.
func (e *Editor) Dispatch(ev interaction.Event) []interaction.Effect {
	e.mu.Lock()
	defer e.mu.Unlock()

	var effects []interaction.Effect
	e.ctx, e.doc, effects = interaction.Handle(e.ctx, e.doc, ev, e.opts)
	e.commitIf(effects)
	return effects
}

// SetTool переключает инструмент. Для place-element нужен kind.
// Незавершенное перетаскивание сначала фиксируется в истории.
func (e *Editor) SetTool(name string, kind models.ElementKind) error {
	tool, ok := interaction.ParseTool(name)
	if !ok {
		return ErrUnknownTool
	}

	if tool == interaction.ToolPlace && !kind.Valid() {
		return ErrUnknownKind
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var effects []interaction.Effect
	e.ctx, effects = interaction.EndDrag(e.ctx, e.doc)
	e.commitIf(effects)

	if tool == interaction.ToolPlace {
		e.ctx, _ = interaction.BeginPlacement(e.ctx, kind)
		return nil
	}
	e.ctx = interaction.SetTool(e.ctx, tool)
	return nil
}

// SetLength задает точную длину стены. При невалидном вводе документ
// не меняется.
func (e *Editor) SetLength(wallID, input string, dir dimension.Direction) ([]interaction.Effect, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, ok := interaction.OpenLengthEditor(e.ctx, e.doc, wallID)
	if !ok {
		return nil, ErrUnknownWall
	}
	ctx, doc, effects, err := interaction.CommitLength(ctx, e.doc, input, dir, e.opts)
	if err != nil {
		return nil, err
	}
	e.ctx, e.doc = ctx, doc
	e.commitIf(effects)
	return effects, nil
}

// ApplyWallEdit применяет правку стены из 3D вида и коммитит ее.
// Возвращает false, если стены нет.
func (e *Editor) ApplyWallEdit(edit graph.Edit) ([]interaction.Effect, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	walls, ok := graph.Propagate(e.doc.Walls, edit, e.opts.AdjacencyTolerance)
	if !ok {
		return nil, false
	}
	before := e.doc
	e.doc.Walls = walls

	effects := []interaction.Effect{{Kind: interaction.EffectWallsChanged, ID: edit.WallID}}
	if e.opts.Reanchor {
		e.doc = placement.ReanchorDocument(e.doc)
		effects = append(effects, interaction.Effect{Kind: interaction.EffectElementsChanged})
	}
	if !e.doc.SameGeometry(before) {
		effects = append(effects, interaction.Effect{Kind: interaction.EffectCommit})
	}
	e.commitIf(effects)
	return effects, true
}

// Undo заменяет все коллекции предыдущим снимком.
func (e *Editor) Undo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	doc, ok := e.history.Undo()
	if !ok {
		return false
	}
	e.replace(doc)
	return true
}

func (e *Editor) Redo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	doc, ok := e.history.Redo()
	if !ok {
		return false
	}
	e.replace(doc)
	return true
}

// JumpTo делает текущим снимок истории с индексом index.
// Возвращает false для индекса вне истории.
func (e *Editor) JumpTo(index int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	doc, ok := e.history.Jump(index)
	if !ok {
		return false
	}
	e.replace(doc)
	return true
}

// Zoom меняет масштаб на один шаг и возвращает новый масштаб.
func (e *Editor) Zoom(in bool) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	if in {
		e.ctx.Viewport.ZoomIn()
	} else {
		e.ctx.Viewport.ZoomOut()
	}
	return e.ctx.Viewport.Scale
}

// Fit вписывает стены во вьюпорт.
func (e *Editor) Fit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fitLocked()
}

// Resize меняет размер поверхности вьюпорта.
func (e *Editor) Resize(width, height float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ctx.Viewport.Resize(width, height)
}

func (e *Editor) fitLocked() {
	b, ok := graph.Bounds(e.doc.Walls)
	if !ok {
		return
	}
	e.ctx.Viewport.FitBounds(b.Min[0], b.Min[1], b.Max[0], b.Max[1], e.fit.Padding, e.fit.Cap)
}

// replace сбрасывает временное состояние, которое может ссылаться на то,
// чего нет в снимке.
func (e *Editor) replace(doc models.Document) {
	e.doc = doc
	e.ctx = interaction.SetTool(e.ctx, interaction.ToolSelect)
	e.ctx.SelectedWallID = ""
	e.ctx.SelectedElementID = ""
	e.ctx.LengthEdit = nil
}

func (e *Editor) commitIf(effects []interaction.Effect) {
	if interaction.Commits(effects) {
		e.history.Commit(e.doc)
	}
}

// ============================================================
// Views
// ============================================================

func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	cur, total := e.history.Stats()
	floor := graph.DeriveFloor(e.doc.Walls, e.opts.AdjacencyTolerance)
	points := floor.Points
	if points == nil {
		points = []models.Point{}
	}

	return State{
		ID:           e.id,
		ProjectID:    e.projectID,
		ProjectName:  e.projectName,
		Room:         e.room,
		Document:     e.doc.Clone(),
		Context:      e.ctx,
		CanUndo:      e.history.CanUndo(),
		CanRedo:      e.history.CanRedo(),
		HistoryIndex: cur,
		HistorySize:  total,
		Floor: FloorInfo{
			Closed: floor.Closed,
			Area:   floor.Area(),
			Points: points,
		},
	}
}

// Document возвращает копию текущих коллекций.
func (e *Editor) Document() models.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.Clone()
}

// Frame возвращает все, что нужно для отрисовки: документ и контекст
// (вместе с вьюпортом).
func (e *Editor) Frame() (models.Document, interaction.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.Clone(), e.ctx
}

// Snapshot собирает снимок текущего состояния для сохранения.
func (e *Editor) Snapshot(now time.Time) models.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return models.Snapshot{
		Document:       e.doc.Clone(),
		ProjectName:    e.projectName,
		RoomDimensions: e.room,
		Timestamp:      now,
	}
}

// History возвращает все снимки истории и индекс активного.
func (e *Editor) History() ([]models.Document, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	cur, _ := e.history.Stats()
	return e.history.States(), cur - 1
}

// RestoreHistory заменяет историю (например, загруженной из базы)
// и делает текущим ее активный снимок.
func (e *Editor) RestoreHistory(states []models.Document, current int) {
	if len(states) == 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.history.Restore(states, current)
	if doc, ok := e.history.Current(); ok {
		e.replace(doc.Normalize())
	}
}

func (e *Editor) ProjectID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.projectID
}

func (e *Editor) SetProjectID(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.projectID = id
}

func (e *Editor) Rename(name string) {
	if name == "" {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.projectName = name
}
