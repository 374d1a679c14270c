package history

import (
	"floorplan/internal/editor/models"
)

// ============================================================
// Linear undo/redo
// ============================================================

const DefaultLimit = 100

// History хранит снимки документа в порядке коммитов.
// Коммит после undo отбрасывает хвост redo.
type History struct {
	states  []models.Document
	current int
	limit   int
}

func New(limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{
		states:  make([]models.Document, 0, 16),
		current: -1,
		limit:   limit,
	}
}

// Commit сохраняет глубокую копию d как последнее состояние.
func (h *History) Commit(d models.Document) {
	if h.current < len(h.states)-1 {
		h.states = h.states[:h.current+1]
	}

	h.states = append(h.states, d.Clone())

	if len(h.states) > h.limit {
		h.states = h.states[1:]
	} else {
		h.current++
	}
}

func (h *History) CanUndo() bool { return h.current > 0 }

func (h *History) CanRedo() bool { return h.current < len(h.states)-1 }

// Undo делает шаг назад. false, если отменять нечего.
func (h *History) Undo() (models.Document, bool) {
	if !h.CanUndo() {
		return models.Document{}, false
	}
	h.current--
	return h.states[h.current].Clone(), true
}

// Redo делает шаг вперед.
func (h *History) Redo() (models.Document, bool) {
	if !h.CanRedo() {
		return models.Document{}, false
	}
	h.current++
	return h.states[h.current].Clone(), true
}

// Jump переходит к снимку с индексом index.
func (h *History) Jump(index int) (models.Document, bool) {
	if index < 0 || index >= len(h.states) {
		return models.Document{}, false
	}
	h.current = index
	return h.states[index].Clone(), true
}

// Current возвращает активный снимок.
func (h *History) Current() (models.Document, bool) {
	if h.current < 0 {
		return models.Document{}, false
	}
	return h.states[h.current].Clone(), true
}

// States возвращает копии всех снимков, сначала старые.
func (h *History) States() []models.Document {
	out := make([]models.Document, len(h.states))
	for i, s := range h.states {
		out[i] = s.Clone()
	}
	return out
}

// Restore заменяет всю историю, например после загрузки из базы.
func (h *History) Restore(states []models.Document, current int) {
	h.states = h.states[:0]
	for _, s := range states {
		h.states = append(h.states, s.Clone())
	}
	if len(h.states) > h.limit {
		drop := len(h.states) - h.limit
		h.states = h.states[drop:]
		current -= drop
	}
	if current < 0 || current >= len(h.states) {
		current = len(h.states) - 1
	}
	h.current = current
}

// Stats возвращает позицию (с единицы) и число состояний.
func (h *History) Stats() (current, total int) {
	return h.current + 1, len(h.states)
}
