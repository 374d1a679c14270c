package interaction

import (
	"floorplan/internal/editor/graph"
	"floorplan/internal/editor/models"
	"floorplan/internal/editor/placement"
	"floorplan/internal/editor/room"
	"floorplan/internal/editor/snap"
)

// ============================================================
// Dispatch
// ============================================================

// Handle прогоняет одно событие через машину состояний. ctx и doc не
// меняются: возвращаются новое состояние, документ и эффекты для владельца.
func Handle(ctx Context, doc models.Document, ev Event, opts Options) (Context, models.Document, []Effect) {
	switch ev.Kind {
	case PointerDown:
		return pointerDown(ctx, doc, ev, opts)
	case PointerMove:
		return pointerMove(ctx, doc, ev, opts)
	case PointerUp:
		return pointerUp(ctx, doc)
	case KeyDown:
		return keyDown(ctx, doc, ev)
	case Wheel:
		ctx.Viewport.Wheel(ev.DeltaY)
		return ctx, doc, []Effect{{Kind: EffectViewportChanged}}
	}
	return ctx, doc, nil
}

func (o Options) binder() placement.Binder {
	return placement.Binder{Snap: o.Snap, FreePlacement: o.FreePlacement}
}

// ============================================================
// Pointer down
// ============================================================

func pointerDown(ctx Context, doc models.Document, ev Event, opts Options) (Context, models.Document, []Effect) {
	px := models.Point{X: ev.X, Y: ev.Y}
	world := ctx.Viewport.WorldPoint(px)
	ctx.Cursor = world

	// (a) pan
	if ctx.Tool == ToolPan || ev.Button == ButtonAuxiliary {
		ctx.Drag = DragPan
		ctx.AnchorPx = px
		return ctx, doc, nil
	}

	// (b) measure
	if ctx.Tool == ToolMeasure {
		return measureClick(ctx, doc, world, opts)
	}

	// (c) place element
	if ctx.Tool == ToolPlace {
		ctx.Preview = nil
		if proj, ok := opts.binder().Preview(world, doc.Walls); ok {
			ctx.Preview = &proj
		}
		if ctx.Preview != nil && ctx.PlaceKind.Valid() {
			return placeElement(ctx, doc, opts)
		}
	}

	if ctx.Tool == ToolSelect {
		// (d) element
		if el, ok := hitElement(ctx.Viewport, doc, px, opts.Handles.Element); ok {
			ctx = beginDrag(ctx, doc, DragMoveElement, world)
			ctx.SelectedElementID = el.ID
			ctx.SelectedWallID = ""
			return ctx, doc, []Effect{{Kind: EffectSelectionChanged, ID: el.ID}}
		}

		// (e) floor handle
		if c, ok := FloorHandle(doc.Walls, opts.AdjacencyTolerance); ok &&
			ctx.Viewport.SurfacePoint(c).Distance(px) < opts.Handles.Floor {
			ctx = beginDrag(ctx, doc, DragMoveFloor, world)
			return ctx, doc, nil
		}
	}

	// (f) pending draw
	if ctx.DrawStart != nil {
		return finishWall(ctx, doc, world, ev.Shift, opts)
	}

	if ctx.Tool == ToolDrawWall {
		start := drawTarget(nil, doc, world, false, opts)
		ctx.DrawStart = &start
		ctx.DrawEnd = &start
		return ctx, doc, []Effect{{Kind: EffectPreviewChanged}}
	}

	if ctx.Tool != ToolSelect {
		return ctx, doc, nil
	}

	// (g) handles of the selected wall
	if w, _, ok := doc.FindWall(ctx.SelectedWallID); ok {
		if next, effects, hit := selectedWallDown(ctx, doc, w, px, world, opts); hit {
			return next, doc, effects
		}
	}

	// (h) wall body
	if w, ok := hitWall(ctx.Viewport, doc.Walls, px, opts.Handles.WallMargin); ok {
		ctx.SelectedWallID = w.ID
		ctx.SelectedElementID = ""
		return ctx, doc, []Effect{{Kind: EffectSelectionChanged, ID: w.ID}}
	}

	// (i) empty space
	if ctx.SelectedWallID == "" && ctx.SelectedElementID == "" {
		return ctx, doc, nil
	}
	ctx.SelectedWallID = ""
	ctx.SelectedElementID = ""
	return ctx, doc, []Effect{{Kind: EffectSelectionChanged}}
}

func selectedWallDown(ctx Context, doc models.Document, w models.Wall, px, world models.Point, opts Options) (Context, []Effect, bool) {
	h := HandlesFor(ctx.Viewport, w, opts.Handles)
	r := opts.Handles

	switch {
	case h.Label.Distance(px) < r.Label:
		s, _ := openLength(doc, w.ID)
		ctx.LengthEdit = &s
		return ctx, []Effect{{Kind: EffectOpenLengthEditor, ID: w.ID}}, true

	case h.Extend.Distance(px) < r.Extend:
		start := w.B()
		ctx.DrawStart = &start
		ctx.DrawEnd = &start
		return ctx, []Effect{{Kind: EffectPreviewChanged}}, true

	case h.A.Distance(px) < r.Endpoint:
		ctx = beginDrag(ctx, doc, DragResizeWall, world)
		ctx.DragWallID = w.ID
		ctx.DragEndpoint = models.EndpointA
		return ctx, nil, true

	case h.B.Distance(px) < r.Endpoint:
		ctx = beginDrag(ctx, doc, DragResizeWall, world)
		ctx.DragWallID = w.ID
		ctx.DragEndpoint = models.EndpointB
		return ctx, nil, true

	case h.Mid.Distance(px) < r.Midpoint:
		ctx = beginDrag(ctx, doc, DragMoveWall, world)
		ctx.DragWallID = w.ID
		return ctx, nil, true
	}
	return ctx, nil, false
}

func beginDrag(ctx Context, doc models.Document, mode DragMode, world models.Point) Context {
	before := doc.Clone()
	ctx.Drag = mode
	ctx.Anchor = world
	ctx.before = &before
	return ctx
}

func measureClick(ctx Context, doc models.Document, world models.Point, opts Options) (Context, models.Document, []Effect) {
	if p, ok := snap.ToPoint(doc.Walls, world, opts.Snap.PointTolerance, opts.Snap.Strategy); ok {
		world = p
	}
	if ctx.MeasureStart == nil {
		ctx.MeasureStart = &world
		return ctx, doc, []Effect{{Kind: EffectPreviewChanged}}
	}

	start := *ctx.MeasureStart
	ctx.MeasureStart = nil

	m := models.Measurement{ID: opts.newID("measure"), X1: start.X, Y1: start.Y, X2: world.X, Y2: world.Y}
	measurements := make([]models.Measurement, 0, len(doc.Measurements)+1)
	measurements = append(measurements, doc.Measurements...)
	doc.Measurements = append(measurements, m)

	return ctx, doc, []Effect{
		{Kind: EffectMeasurementsChanged, ID: m.ID},
		{Kind: EffectCommit},
	}
}

func placeElement(ctx Context, doc models.Document, opts Options) (Context, models.Document, []Effect) {
	kind := ctx.PlaceKind
	el := placement.FromProjection(opts.newID(string(kind)), kind, *ctx.Preview)
	doc = doc.WithElements(kind, appendElement(doc.Elements(kind), el))

	ctx.Tool = ToolSelect
	ctx.PlaceKind = ""
	ctx.Preview = nil
	ctx.SelectedElementID = el.ID
	ctx.SelectedWallID = ""

	return ctx, doc, []Effect{
		{Kind: EffectElementsChanged, ID: el.ID},
		{Kind: EffectSelectionChanged, ID: el.ID},
		{Kind: EffectCommit},
	}
}

// finishWall завершает рисование. Стены короче MinWallLength
// отбрасываются, сбрасывается только незавершенное состояние.
func finishWall(ctx Context, doc models.Document, world models.Point, ortho bool, opts Options) (Context, models.Document, []Effect) {
	start := *ctx.DrawStart
	end := drawTarget(&start, doc, world, ortho, opts)

	ctx.DrawStart = nil
	ctx.DrawEnd = nil
	ctx.Ortho = false

	if start.Distance(end) < opts.MinWallLength {
		return ctx, doc, []Effect{{Kind: EffectPreviewChanged}}
	}

	thickness := opts.DefaultThickness
	if thickness <= 0 {
		thickness = room.DefaultThickness
	}
	w := models.Wall{
		ID:        opts.newID("wall"),
		X1:        start.X,
		Y1:        start.Y,
		X2:        end.X,
		Y2:        end.Y,
		Thickness: thickness,
	}
	walls := make([]models.Wall, 0, len(doc.Walls)+1)
	walls = append(walls, doc.Walls...)
	doc.Walls = append(walls, w)

	ctx.SelectedWallID = w.ID
	ctx.SelectedElementID = ""

	return ctx, doc, []Effect{
		{Kind: EffectWallsChanged, ID: w.ID},
		{Kind: EffectSelectionChanged, ID: w.ID},
		{Kind: EffectCommit},
	}
}

// drawTarget привязывает точку рисования: сначала к сетке, потом к концу
// существующей стены, потом к ортогонали от start (если зажат ortho).
func drawTarget(start *models.Point, doc models.Document, world models.Point, ortho bool, opts Options) models.Point {
	p := world
	if opts.GridStep > 0 {
		p = snap.Grid(p, opts.GridStep)
	}
	if end, ok := snap.ToPoint(doc.Walls, world, opts.Snap.PointTolerance, opts.Snap.Strategy); ok {
		p = end
	}
	if ortho && start != nil {
		p = snap.Orthogonal(*start, p)
	}
	return p
}

func appendElement(list []models.Element, el models.Element) []models.Element {
	out := make([]models.Element, 0, len(list)+1)
	out = append(out, list...)
	return append(out, el)
}

// ============================================================
// Pointer move
// ============================================================

func pointerMove(ctx Context, doc models.Document, ev Event, opts Options) (Context, models.Document, []Effect) {
	px := models.Point{X: ev.X, Y: ev.Y}
	world := ctx.Viewport.WorldPoint(px)
	ctx.Cursor = world

	switch ctx.Drag {
	case DragPan:
		ctx.Viewport.Pan(px.X-ctx.AnchorPx.X, px.Y-ctx.AnchorPx.Y)
		ctx.AnchorPx = px
		return ctx, doc, []Effect{{Kind: EffectViewportChanged}}

	case DragMoveWall, DragResizeWall:
		edit := graph.Edit{
			WallID:   ctx.DragWallID,
			DX:       world.X - ctx.Anchor.X,
			DY:       world.Y - ctx.Anchor.Y,
			Mode:     graph.EditMove,
			Endpoint: ctx.DragEndpoint,
		}
		if ctx.Drag == DragResizeWall {
			edit.Mode = graph.EditResize
		}
		ctx.Anchor = world

		walls, ok := graph.Propagate(doc.Walls, edit, opts.AdjacencyTolerance)
		if !ok {
			return ctx, doc, nil
		}
		doc.Walls = walls
		return ctx, doc, wallsMoved(&doc, opts)

	case DragMoveElement:
		return ctx, moveElement(doc, ctx.SelectedElementID, world, opts), []Effect{
			{Kind: EffectElementsChanged, ID: ctx.SelectedElementID},
		}

	case DragMoveFloor:
		dx, dy := world.X-ctx.Anchor.X, world.Y-ctx.Anchor.Y
		ctx.Anchor = world
		doc.Walls = graph.TranslateAll(doc.Walls, dx, dy)
		return ctx, doc, wallsMoved(&doc, opts)
	}

	if ctx.DrawStart != nil {
		end := drawTarget(ctx.DrawStart, doc, world, ev.Shift, opts)
		ctx.DrawEnd = &end
		ctx.Ortho = ev.Shift
		return ctx, doc, []Effect{{Kind: EffectPreviewChanged}}
	}

	switch ctx.Tool {
	case ToolPlace:
		ctx.Preview = nil
		if proj, ok := opts.binder().Preview(world, doc.Walls); ok {
			ctx.Preview = &proj
		}
		return ctx, doc, []Effect{{Kind: EffectPreviewChanged}}
	case ToolMeasure:
		if ctx.MeasureStart != nil {
			return ctx, doc, []Effect{{Kind: EffectPreviewChanged}}
		}
	}
	return ctx, doc, nil
}

// wallsMoved перепривязывает элементы после правки стен (если включено).
func wallsMoved(doc *models.Document, opts Options) []Effect {
	effects := []Effect{{Kind: EffectWallsChanged}}
	if opts.Reanchor {
		*doc = placement.ReanchorDocument(*doc)
		effects = append(effects, Effect{Kind: EffectElementsChanged})
	}
	return effects
}

func moveElement(doc models.Document, id string, world models.Point, opts Options) models.Document {
	b := opts.binder()
	for _, kind := range []models.ElementKind{models.KindDoor, models.KindWindow, models.KindRadiator} {
		list := doc.Elements(kind)
		for i, el := range list {
			if el.ID != id {
				continue
			}
			out := make([]models.Element, len(list))
			copy(out, list)
			out[i] = b.Rebind(el, world, doc.Walls)
			return doc.WithElements(kind, out)
		}
	}
	return doc
}

// ============================================================
// Pointer up
// ============================================================

// pointerUp завершает перетаскивание. Коммит только если документ
// действительно изменился.
func pointerUp(ctx Context, doc models.Document) (Context, models.Document, []Effect) {
	mode := ctx.Drag
	before := ctx.before

	ctx.Drag = DragNone
	ctx.DragWallID = ""
	ctx.DragEndpoint = models.EndpointA
	ctx.before = nil

	if mode == DragNone || mode == DragPan || before == nil {
		return ctx, doc, nil
	}
	if doc.SameGeometry(*before) {
		return ctx, doc, nil
	}
	return ctx, doc, []Effect{{Kind: EffectCommit}}
}
