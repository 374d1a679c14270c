package repository

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"floorplan/internal/editor/models"
	"floorplan/internal/editor/persist"

	"github.com/vmihailenco/msgpack/v5"
)

// ============================================================
// SQLite Repository
// ============================================================

var ErrNotFound = errors.New("project not found")

// timeLayout фиксированной ширины, чтобы время сортировалось как текст.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Project это сохраненный план вместе с историей.
type Project struct {
	ID           string
	Name         string
	Snapshot     models.Snapshot
	History      []models.Document
	HistoryIndex int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Summary это проект без снимка и истории.
type Summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Repository struct {
	db   *sql.DB
	opts persist.Options
	now  func() time.Time
}

// New создает репозиторий. opts применяются к снимкам при загрузке.
func New(db *sql.DB, opts persist.Options) *Repository {
	return &Repository{db: db, opts: opts, now: time.Now}
}

// Init применяет миграции.
func (r *Repository) Init(ctx context.Context, migrationsPath string) error {
	if err := r.runMigrations(ctx, migrationsPath); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

// SaveProject вставляет p или заменяет проект с тем же id.
// Проставляет UpdatedAt, а при первом сохранении и CreatedAt.
func (r *Repository) SaveProject(ctx context.Context, p *Project) error {
	if p.ID == "" {
		return fmt.Errorf("save project: empty id")
	}

	now := r.now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if p.Name == "" {
		p.Name = p.Snapshot.ProjectName
	}

	snapshot, err := persist.Encode(p.Snapshot)
	if err != nil {
		return err
	}
	history, err := encodeHistory(p.History)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
        INSERT INTO projects (id, name, snapshot, history, history_index, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            name = excluded.name,
            snapshot = excluded.snapshot,
            history = excluded.history,
            history_index = excluded.history_index,
            updated_at = excluded.updated_at
    `,
		p.ID,
		p.Name,
		string(snapshot),
		history,
		p.HistoryIndex,
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("save project %s: %w", p.ID, err)
	}

	log.Printf("[STORE] saved project %s (%d history states)", p.ID, len(p.History))
	return nil
}

func (r *Repository) GetProject(ctx context.Context, id string) (*Project, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, name, snapshot, history, history_index, created_at, updated_at
        FROM projects
        WHERE id = ?
    `, id)

	var (
		p                Project
		snapshot         string
		history          []byte
		created, updated string
	)
	if err := row.Scan(&p.ID, &p.Name, &snapshot, &history, &p.HistoryIndex, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var err error
	if p.Snapshot, err = persist.Decode([]byte(snapshot), r.opts); err != nil {
		return nil, fmt.Errorf("project %s: %w", id, err)
	}
	if p.History, err = decodeHistory(history); err != nil {
		// снимок остается рабочим даже с битой историей
		log.Printf("[STORE] project %s: dropping history: %v", id, err)
		p.History, p.HistoryIndex = nil, 0
	}
	p.CreatedAt = parseTime(created)
	p.UpdatedAt = parseTime(updated)
	return &p, nil
}

// ListProjects возвращает проекты, сначала последние измененные.
func (r *Repository) ListProjects(ctx context.Context) ([]Summary, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, name, created_at, updated_at
        FROM projects
        ORDER BY updated_at DESC, id
    `)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var s Summary
		var created, updated string
		if err := rows.Scan(&s.ID, &s.Name, &created, &updated); err != nil {
			return nil, err
		}
		s.CreatedAt = parseTime(created)
		s.UpdatedAt = parseTime(updated)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repository) DeleteProject(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	log.Printf("[STORE] deleted project %s", id)
	return nil
}

// ============================================================
// Encoding
// ============================================================

// История хранится в msgpack с именами полей из json тегов.
func encodeHistory(states []models.Document) ([]byte, error) {
	if len(states) == 0 {
		return nil, nil
	}
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(states); err != nil {
		return nil, fmt.Errorf("encode history: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeHistory(data []byte) ([]models.Document, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")

	var states []models.Document
	if err := dec.Decode(&states); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	for i := range states {
		states[i] = states[i].Normalize()
	}
	return states, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ============================================================
// Migrations
// ============================================================

func (r *Repository) runMigrations(ctx context.Context, migrationsPath string) error {
	data, err := os.ReadFile(migrationsPath)
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, string(data)); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

// OpenSQLite открывает (при необходимости создает) базу по пути dbPath.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
