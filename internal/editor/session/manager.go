package session

import (
	"log"
	"sort"
	"sync"
	"time"

	"floorplan/internal/editor/interaction"
	"floorplan/internal/editor/models"
	"floorplan/internal/editor/room"
	"floorplan/internal/editor/viewport"

	"github.com/google/uuid"
)

// ============================================================
// Session Manager
// ============================================================

// Settings общие для всех редакторов менеджера.
type Settings struct {
	Options        interaction.Options
	HistoryLimit   int
	ViewportWidth  float64
	ViewportHeight float64
	MinScale       float64
	MaxScale       float64
	Fit            FitSettings
}

func DefaultSettings() Settings {
	return Settings{
		Options:        interaction.DefaultOptions(),
		ViewportWidth:  1200,
		ViewportHeight: 800,
		MinScale:       viewport.DefaultMinScale,
		MaxScale:       viewport.DefaultMaxScale,
		Fit:            FitSettings{Padding: viewport.DefaultPadding, Cap: viewport.DefaultFitCap},
	}
}

type Manager struct {
	mu       sync.Mutex
	editors  map[string]*Editor
	settings Settings
}

func NewManager(s Settings) *Manager {
	return &Manager{
		editors:  make(map[string]*Editor),
		settings: s,
	}
}

// Summary описывает открытую сессию.
type Summary struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"projectId,omitempty"`
	ProjectName string    `json:"projectName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Create открывает сессию на сгенерированной комнате.
func (m *Manager) Create(name string, p room.Params) (*Editor, error) {
	walls, err := room.Generate(p)
	if err != nil {
		return nil, err
	}
	if p.Thickness <= 0 {
		p.Thickness = room.DefaultThickness
	}
	if p.Height <= 0 {
		p.Height = room.DefaultHeight
	}
	snap := models.Snapshot{
		Document:       models.Document{Walls: walls},
		ProjectName:    name,
		RoomDimensions: p.Dimensions(),
	}
	return m.Open(snap), nil
}

// Open открывает сессию на готовом снимке.
func (m *Manager) Open(snap models.Snapshot) *Editor {
	vp := viewport.New(m.settings.ViewportWidth, m.settings.ViewportHeight)
	if m.settings.MinScale > 0 {
		vp.MinScale = m.settings.MinScale
	}
	if m.settings.MaxScale > 0 {
		vp.MaxScale = m.settings.MaxScale
	}

	e := newEditor(uuid.NewString(), snap, vp, m.settings)

	m.mu.Lock()
	m.editors[e.id] = e
	m.mu.Unlock()

	log.Printf("[SESSION] opened %s (%q, %d walls)", e.id, snap.ProjectName, len(snap.Walls))
	return e
}

func (m *Manager) Get(id string) (*Editor, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.editors[id]
	return e, ok
}

func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.editors[id]; !ok {
		return false
	}
	delete(m.editors, id)
	log.Printf("[SESSION] closed %s", id)
	return true
}

// List возвращает открытые сессии, сначала старые.
func (m *Manager) List() []Summary {
	m.mu.Lock()
	editors := make([]*Editor, 0, len(m.editors))
	for _, e := range m.editors {
		editors = append(editors, e)
	}
	m.mu.Unlock()

	out := make([]Summary, 0, len(editors))
	for _, e := range editors {
		e.mu.Lock()
		out = append(out, Summary{
			ID:          e.id,
			ProjectID:   e.projectID,
			ProjectName: e.projectName,
			CreatedAt:   e.createdAt,
		})
		e.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}
