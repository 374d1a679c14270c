package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"floorplan/internal/editor/dimension"
	"floorplan/internal/editor/graph"
	"floorplan/internal/editor/interaction"
	"floorplan/internal/editor/models"
	"floorplan/internal/editor/persist"
	"floorplan/internal/editor/render"
	"floorplan/internal/editor/room"
	"floorplan/internal/editor/session"
	"floorplan/internal/editor/svgimport"
	"floorplan/internal/store/repository"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// ============================================================
// Editor Handler
// ============================================================

// ProjectStore хранит проекты. Реализуется *repository.Repository.
type ProjectStore interface {
	SaveProject(ctx context.Context, p *repository.Project) error
	GetProject(ctx context.Context, id string) (*repository.Project, error)
	ListProjects(ctx context.Context) ([]repository.Summary, error)
	DeleteProject(ctx context.Context, id string) error
}

type EditorHandler struct {
	sessions *session.Manager
	projects ProjectStore
	renderer *render.Renderer
	persist  persist.Options
	imports  svgimport.Options
}

func NewEditorHandler(sessions *session.Manager, projects ProjectStore, renderer *render.Renderer, persistOpts persist.Options, importOpts svgimport.Options) *EditorHandler {
	return &EditorHandler{
		sessions: sessions,
		projects: projects,
		renderer: renderer,
		persist:  persistOpts,
		imports:  importOpts,
	}
}

// Register регистрирует API редактора на r.
func (h *EditorHandler) Register(r fiber.Router) {
	r.Get("/sessions", h.ListSessions)
	r.Post("/sessions", h.CreateSession)
	r.Post("/sessions/import", h.ImportSVG)
	r.Get("/sessions/:id", h.GetSession)
	r.Delete("/sessions/:id", h.CloseSession)
	r.Post("/sessions/:id/events", h.Dispatch)
	r.Post("/sessions/:id/tool", h.SetTool)
	r.Post("/sessions/:id/length", h.SetLength)
	r.Post("/sessions/:id/walls/:wallId/edit", h.EditWall)
	r.Post("/sessions/:id/undo", h.Undo)
	r.Post("/sessions/:id/redo", h.Redo)
	r.Post("/sessions/:id/history/:index", h.JumpHistory)
	r.Post("/sessions/:id/fit", h.Fit)
	r.Post("/sessions/:id/resize", h.Resize)
	r.Post("/sessions/:id/zoom", h.Zoom)
	r.Get("/sessions/:id/svg", h.RenderSVG)
	r.Get("/sessions/:id/snapshot", h.ExportSnapshot)
	r.Post("/sessions/:id/save", h.Save)

	r.Post("/load", h.Load)
	r.Get("/projects", h.ListProjects)
	r.Get("/projects/:id", h.GetProject)
	r.Delete("/projects/:id", h.DeleteProject)
	r.Post("/projects/:id/open", h.OpenProject)
}

type createSessionRequest struct {
	ProjectName string `json:"projectName"`
	room.Params
}

type toolRequest struct {
	Tool string             `json:"tool"`
	Kind models.ElementKind `json:"kind"`
}

type lengthRequest struct {
	WallID    string `json:"wallId"`
	Value     string `json:"value"`
	Direction string `json:"direction"`
}

type wallEditRequest struct {
	DX       float64 `json:"dx"`
	DY       float64 `json:"dy"`
	Mode     string  `json:"mode"`
	Endpoint string  `json:"endpoint"`
}

type resizeRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type zoomRequest struct {
	Dir string `json:"dir"`
}

type saveRequest struct {
	ProjectName string `json:"projectName"`
}

type effectsResponse struct {
	Effects []interaction.Effect `json:"effects"`
	State   session.State        `json:"state"`
}

// ============================================================
// Sessions
// ============================================================

func (h *EditorHandler) ListSessions(c fiber.Ctx) error {
	return c.JSON(h.sessions.List())
}

// CreateSession открывает сессию на сгенерированной комнате.
func (h *EditorHandler) CreateSession(c fiber.Ctx) error {
	var req createSessionRequest
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return badRequest(c, "invalid json")
		}
	}
	if req.ProjectName == "" {
		req.ProjectName = persist.PlaceholderName
	}

	e, err := h.sessions.Create(req.ProjectName, req.Params)
	if err != nil {
		return badRequest(c, err.Error())
	}
	log.Printf("[EDITOR] created session %s (%s)", e.ID(), req.Shape)
	return c.Status(http.StatusCreated).JSON(e.State())
}

// ImportSVG открывает сессию на плане, загруженном как multipart "file".
func (h *EditorHandler) ImportSVG(c fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file required in multipart/form-data")
	}

	f, err := file.Open()
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to open file"})
	}
	defer f.Close()

	name := c.FormValue("projectName")
	if name == "" {
		name = strings.TrimSuffix(file.Filename, filepath.Ext(file.Filename))
	}

	snap, err := svgimport.Import(f, name, h.imports)
	if err != nil {
		log.Printf("[EDITOR] import %s failed: %v", file.Filename, err)
		return badRequest(c, err.Error())
	}
	e := h.sessions.Open(snap)
	return c.Status(http.StatusCreated).JSON(e.State())
}

func (h *EditorHandler) GetSession(c fiber.Ctx) error {
	e, ok := h.sessions.Get(c.Params("id"))
	if !ok {
		return sessionNotFound(c)
	}
	return c.JSON(e.State())
}

func (h *EditorHandler) CloseSession(c fiber.Ctx) error {
	if !h.sessions.Close(c.Params("id")) {
		return sessionNotFound(c)
	}
	return c.SendStatus(http.StatusNoContent)
}

// Dispatch передает одно событие ввода в сессию.
func (h *EditorHandler) Dispatch(c fiber.Ctx) error {
	e, ok := h.sessions.Get(c.Params("id"))
	if !ok {
		return sessionNotFound(c)
	}

	var ev interaction.Event
	if err := json.Unmarshal(c.Body(), &ev); err != nil {
		return badRequest(c, "invalid json")
	}
	if !ev.Kind.Valid() {
		return badRequest(c, "unknown event kind")
	}

	effects := e.Dispatch(ev)
	return c.JSON(effectsResponse{Effects: nonNil(effects), State: e.State()})
}

func (h *EditorHandler) SetTool(c fiber.Ctx) error {
	e, ok := h.sessions.Get(c.Params("id"))
	if !ok {
		return sessionNotFound(c)
	}

	var req toolRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return badRequest(c, "invalid json")
	}
	if err := e.SetTool(req.Tool, req.Kind); err != nil {
		return badRequest(c, err.Error())
	}
	return c.JSON(e.State())
}

// SetLength задает точную длину стены. При невалидном вводе документ
// не меняется.
func (h *EditorHandler) SetLength(c fiber.Ctx) error {
	e, ok := h.sessions.Get(c.Params("id"))
	if !ok {
		return sessionNotFound(c)
	}

	var req lengthRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return badRequest(c, "invalid json")
	}
	dir, ok := dimension.ParseDirection(req.Direction)
	if !ok {
		return badRequest(c, "direction must be positive or negative")
	}

	effects, err := e.SetLength(req.WallID, req.Value, dir)
	switch {
	case errors.Is(err, session.ErrUnknownWall):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		return badRequest(c, err.Error())
	}
	return c.JSON(effectsResponse{Effects: nonNil(effects), State: e.State()})
}

// EditWall применяет смещение стены (move/resize) из 3D вида.
func (h *EditorHandler) EditWall(c fiber.Ctx) error {
	e, ok := h.sessions.Get(c.Params("id"))
	if !ok {
		return sessionNotFound(c)
	}

	var req wallEditRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return badRequest(c, "invalid json")
	}
	mode, ok := graph.ParseEditMode(req.Mode)
	if !ok {
		return badRequest(c, "mode must be move or resize")
	}
	endpoint := models.EndpointA
	switch strings.ToUpper(req.Endpoint) {
	case "", "A":
	case "B":
		endpoint = models.EndpointB
	default:
		return badRequest(c, "endpoint must be A or B")
	}

	effects, ok := e.ApplyWallEdit(graph.Edit{
		WallID:   c.Params("wallId"),
		DX:       req.DX,
		DY:       req.DY,
		Mode:     mode,
		Endpoint: endpoint,
	})
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "wall not found"})
	}
	return c.JSON(effectsResponse{Effects: nonNil(effects), State: e.State()})
}

func (h *EditorHandler) Undo(c fiber.Ctx) error {
	e, ok := h.sessions.Get(c.Params("id"))
	if !ok {
		return sessionNotFound(c)
	}
	changed := e.Undo()
	return c.JSON(fiber.Map{"changed": changed, "state": e.State()})
}

func (h *EditorHandler) Redo(c fiber.Ctx) error {
	e, ok := h.sessions.Get(c.Params("id"))
	if !ok {
		return sessionNotFound(c)
	}
	changed := e.Redo()
	return c.JSON(fiber.Map{"changed": changed, "state": e.State()})
}

// JumpHistory делает текущим снимок истории с индексом :index (с нуля).
func (h *EditorHandler) JumpHistory(c fiber.Ctx) error {
	e, ok := h.sessions.Get(c.Params("id"))
	if !ok {
		return sessionNotFound(c)
	}

	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return badRequest(c, "index must be an integer")
	}
	if !e.JumpTo(index) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "history index out of range"})
	}
	return c.JSON(e.State())
}

func (h *EditorHandler) Fit(c fiber.Ctx) error {
	e, ok := h.sessions.Get(c.Params("id"))
	if !ok {
		return sessionNotFound(c)
	}
	e.Fit()
	return c.JSON(e.State())
}

func (h *EditorHandler) Resize(c fiber.Ctx) error {
	e, ok := h.sessions.Get(c.Params("id"))
	if !ok {
		return sessionNotFound(c)
	}

	var req resizeRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return badRequest(c, "invalid json")
	}
	if req.Width <= 0 || req.Height <= 0 {
		return badRequest(c, "width and height must be positive")
	}
	e.Resize(req.Width, req.Height)
	return c.JSON(e.State())
}

// Zoom меняет масштаб на один шаг: dir = "in" или "out".
func (h *EditorHandler) Zoom(c fiber.Ctx) error {
	e, ok := h.sessions.Get(c.Params("id"))
	if !ok {
		return sessionNotFound(c)
	}

	var req zoomRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return badRequest(c, "invalid json")
	}
	switch req.Dir {
	case "in", "out":
	default:
		return badRequest(c, "dir must be in or out")
	}
	e.Zoom(req.Dir == "in")
	return c.JSON(e.State())
}

// RenderSVG рисует текущий кадр в SVG.
func (h *EditorHandler) RenderSVG(c fiber.Ctx) error {
	e, ok := h.sessions.Get(c.Params("id"))
	if !ok {
		return sessionNotFound(c)
	}

	doc, ctx := e.Frame()
	svg, err := h.renderer.Render(doc, ctx)
	if err != nil {
		log.Printf("[EDITOR] render %s: %v", e.ID(), err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(svg)
}

// ExportSnapshot возвращает снимок сессии для сохранения.
func (h *EditorHandler) ExportSnapshot(c fiber.Ctx) error {
	e, ok := h.sessions.Get(c.Params("id"))
	if !ok {
		return sessionNotFound(c)
	}

	data, err := persist.Encode(e.Snapshot(time.Now().UTC()))
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	c.Set("Content-Type", "application/json")
	return c.Send(data)
}

// ============================================================
// Projects
// ============================================================

// Save сохраняет сессию как проект вместе с историей.
// Id проекта назначается при первом сохранении.
func (h *EditorHandler) Save(c fiber.Ctx) error {
	e, ok := h.sessions.Get(c.Params("id"))
	if !ok {
		return sessionNotFound(c)
	}

	var req saveRequest
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return badRequest(c, "invalid json")
		}
	}
	e.Rename(req.ProjectName)

	id := e.ProjectID()
	if id == "" {
		id = uuid.NewString()
	}
	snap := e.Snapshot(time.Now().UTC())
	states, current := e.History()

	p := &repository.Project{
		ID:           id,
		Name:         snap.ProjectName,
		Snapshot:     snap,
		History:      states,
		HistoryIndex: current,
	}
	if err := h.projects.SaveProject(context.Background(), p); err != nil {
		log.Printf("[EDITOR] save %s: %v", e.ID(), err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save project"})
	}
	e.SetProjectID(id)

	return c.JSON(fiber.Map{"projectId": id, "updatedAt": p.UpdatedAt})
}

// Load открывает сессию на снимке из JSON. Отсутствующие или битые поля
// получают значения по умолчанию.
func (h *EditorHandler) Load(c fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return badRequest(c, "body required")
	}
	snap, err := persist.Decode(c.Body(), h.persist)
	if err != nil {
		return badRequest(c, "invalid snapshot")
	}
	e := h.sessions.Open(snap)
	return c.Status(http.StatusCreated).JSON(e.State())
}

func (h *EditorHandler) ListProjects(c fiber.Ctx) error {
	list, err := h.projects.ListProjects(context.Background())
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(list)
}

func (h *EditorHandler) GetProject(c fiber.Ctx) error {
	p, err := h.projects.GetProject(context.Background(), c.Params("id"))
	if err != nil {
		return projectError(c, err)
	}
	return c.JSON(fiber.Map{
		"id":           p.ID,
		"name":         p.Name,
		"createdAt":    p.CreatedAt,
		"updatedAt":    p.UpdatedAt,
		"snapshot":     p.Snapshot,
		"historySize":  len(p.History),
		"historyIndex": p.HistoryIndex,
	})
}

func (h *EditorHandler) DeleteProject(c fiber.Ctx) error {
	if err := h.projects.DeleteProject(context.Background(), c.Params("id")); err != nil {
		return projectError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// OpenProject открывает сессию на сохраненном проекте вместе с историей.
func (h *EditorHandler) OpenProject(c fiber.Ctx) error {
	p, err := h.projects.GetProject(context.Background(), c.Params("id"))
	if err != nil {
		return projectError(c, err)
	}

	e := h.sessions.Open(p.Snapshot)
	e.SetProjectID(p.ID)
	e.RestoreHistory(p.History, p.HistoryIndex)
	return c.Status(http.StatusCreated).JSON(e.State())
}

// ============================================================
// Helpers
// ============================================================

func badRequest(c fiber.Ctx, msg string) error {
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func sessionNotFound(c fiber.Ctx) error {
	return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
}

func projectError(c fiber.Ctx, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	log.Printf("[EDITOR] project store: %v", err)
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "project store failure"})
}

func nonNil(effects []interaction.Effect) []interaction.Effect {
	if effects == nil {
		return []interaction.Effect{}
	}
	return effects
}
