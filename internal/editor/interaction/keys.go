package interaction

import (
	"floorplan/internal/editor/dimension"
	"floorplan/internal/editor/models"
)

// ============================================================
// Keyboard
// ============================================================

func keyDown(ctx Context, doc models.Document, ev Event) (Context, models.Document, []Effect) {
	switch ev.Key {
	case KeyEscape:
		return Cancel(ctx, doc)
	case KeyDelete, KeyBackspace:
		return DeleteSelected(ctx, doc)
	}
	return ctx, doc, nil
}

// Cancel сбрасывает незавершенное рисование, замер и размещение без
// коммита. Текущее перетаскивание откатывается к началу.
func Cancel(ctx Context, doc models.Document) (Context, models.Document, []Effect) {
	effects := []Effect{{Kind: EffectPreviewChanged}}

	if ctx.Drag != DragNone && ctx.before != nil {
		doc = ctx.before.Clone()
		effects = append(effects, Effect{Kind: EffectWallsChanged}, Effect{Kind: EffectElementsChanged})
	}
	ctx.Drag = DragNone
	ctx.DragWallID = ""
	ctx.before = nil

	ctx.DrawStart = nil
	ctx.DrawEnd = nil
	ctx.Ortho = false
	ctx.MeasureStart = nil
	ctx.Preview = nil
	ctx.LengthEdit = nil
	if ctx.Tool == ToolPlace {
		ctx.Tool = ToolSelect
		ctx.PlaceKind = ""
	}
	return ctx, doc, effects
}

// DeleteSelected удаляет выбранный элемент. Стены не удаляются.
func DeleteSelected(ctx Context, doc models.Document) (Context, models.Document, []Effect) {
	id := ctx.SelectedElementID
	if id == "" {
		return ctx, doc, nil
	}
	el, ok := doc.FindElement(id)
	if !ok {
		ctx.SelectedElementID = ""
		return ctx, doc, []Effect{{Kind: EffectSelectionChanged}}
	}

	list := doc.Elements(el.Type)
	out := make([]models.Element, 0, len(list))
	for _, e := range list {
		if e.ID != id {
			out = append(out, e)
		}
	}
	doc = doc.WithElements(el.Type, out)
	ctx.SelectedElementID = ""

	return ctx, doc, []Effect{
		{Kind: EffectElementsChanged, ID: id},
		{Kind: EffectSelectionChanged},
		{Kind: EffectCommit},
	}
}

// ============================================================
// Tool changes
// ============================================================

// EndDrag завершает перетаскивание как pointer-up и просит коммит,
// если геометрия изменилась. Вызывается перед SetTool, чтобы жест
// не бросался на полпути.
func EndDrag(ctx Context, doc models.Document) (Context, []Effect) {
	ctx, _, effects := pointerUp(ctx, doc)
	return ctx, effects
}

// SetTool переключает инструмент и сбрасывает незавершенный жест.
func SetTool(ctx Context, tool Tool) Context {
	ctx.Tool = tool
	ctx.PlaceKind = ""
	ctx.DrawStart = nil
	ctx.DrawEnd = nil
	ctx.Ortho = false
	ctx.MeasureStart = nil
	ctx.Preview = nil
	ctx.Drag = DragNone
	ctx.before = nil
	return ctx
}

// BeginPlacement включает режим размещения элемента kind.
func BeginPlacement(ctx Context, kind models.ElementKind) (Context, bool) {
	if !kind.Valid() {
		return ctx, false
	}
	ctx = SetTool(ctx, ToolPlace)
	ctx.PlaceKind = kind
	ctx.SelectedWallID = ""
	ctx.SelectedElementID = ""
	return ctx, true
}

// ============================================================
// Length editor
// ============================================================

func openLength(doc models.Document, wallID string) (dimension.Session, bool) {
	return dimension.Open(doc.Walls, wallID)
}

// OpenLengthEditor открывает редактор точной длины для стены.
func OpenLengthEditor(ctx Context, doc models.Document, wallID string) (Context, bool) {
	s, ok := openLength(doc, wallID)
	if !ok {
		return ctx, false
	}
	ctx.LengthEdit = &s
	ctx.SelectedWallID = wallID
	ctx.SelectedElementID = ""
	return ctx, true
}

// CommitLength применяет введенную длину к стене в открытом редакторе.
// При ошибке контекст и документ не меняются, редактор остается открытым.
func CommitLength(ctx Context, doc models.Document, input string, dir dimension.Direction, opts Options) (Context, models.Document, []Effect, error) {
	if ctx.LengthEdit == nil {
		return ctx, doc, nil, dimension.ErrUnknownWall
	}
	target, err := dimension.ParseLength(input)
	if err != nil {
		return ctx, doc, nil, err
	}
	walls, err := dimension.Apply(doc.Walls, ctx.LengthEdit.WallID, target, dir, opts.AdjacencyTolerance)
	if err != nil {
		return ctx, doc, nil, err
	}

	doc.Walls = walls
	effects := wallsMoved(&doc, opts)
	ctx.LengthEdit = nil
	return ctx, doc, append(effects, Effect{Kind: EffectCommit}), nil
}

func CancelLength(ctx Context) Context {
	ctx.LengthEdit = nil
	return ctx
}
