package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"deskhub/pkg/access"
	"deskhub/pkg/model"
)

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens or creates the database at the given path.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS dashboards (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		sections TEXT NOT NULL DEFAULT '[]',
		schedule_title TEXT NOT NULL DEFAULT '',
		mission_title TEXT NOT NULL DEFAULT '',
		schedule_url TEXT NOT NULL DEFAULT '',
		mission_url TEXT NOT NULL DEFAULT '',
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS cards (
		id TEXT PRIMARY KEY,
		dashboard_id TEXT NOT NULL,
		title TEXT NOT NULL,
		color TEXT NOT NULL DEFAULT '',
		sheet_url TEXT NOT NULL DEFAULT '',
		settings TEXT NOT NULL DEFAULT '{}',
		resources TEXT NOT NULL DEFAULT '[]',
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_cards_dashboard ON cards(dashboard_id);

	CREATE TABLE IF NOT EXISTS widgets (
		id TEXT PRIMARY KEY,
		dashboard_id TEXT NOT NULL,
		title TEXT NOT NULL,
		sheet_url TEXT NOT NULL,
		settings TEXT NOT NULL DEFAULT '{}',
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_widgets_dashboard ON widgets(dashboard_id);

	CREATE TABLE IF NOT EXISTS dashboard_access (
		dashboard_id TEXT NOT NULL,
		user_id TEXT NOT NULL DEFAULT '',
		user_email TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_access_dashboard ON dashboard_access(dashboard_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// GetDashboard loads a dashboard record by id
func (s *SQLiteStore) GetDashboard(ctx context.Context, id string) (*Dashboard, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, sections, schedule_title, mission_title, schedule_url, mission_url, updated_at
		FROM dashboards WHERE id = ?
	`, id)

	var d Dashboard
	var sectionsJSON string
	err := row.Scan(&d.ID, &d.Name, &sectionsJSON, &d.ScheduleTitle, &d.MissionTitle,
		&d.ScheduleURL, &d.MissionURL, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get dashboard: %w", err)
	}

	if err := json.Unmarshal([]byte(sectionsJSON), &d.Sections); err != nil {
		return nil, fmt.Errorf("decode sections: %w", err)
	}
	return &d, nil
}

// SaveDashboard upserts the full dashboard record
func (s *SQLiteStore) SaveDashboard(ctx context.Context, d *Dashboard) error {
	sections := d.Sections
	if sections == nil {
		sections = []string{}
	}
	sectionsJSON, err := json.Marshal(sections)
	if err != nil {
		return fmt.Errorf("encode sections: %w", err)
	}

	d.UpdatedAt = time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO dashboards (id, name, sections, schedule_title, mission_title, schedule_url, mission_url, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			sections = excluded.sections,
			schedule_title = excluded.schedule_title,
			mission_title = excluded.mission_title,
			schedule_url = excluded.schedule_url,
			mission_url = excluded.mission_url,
			updated_at = excluded.updated_at
	`, d.ID, d.Name, string(sectionsJSON), d.ScheduleTitle, d.MissionTitle,
		d.ScheduleURL, d.MissionURL, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save dashboard: %w", err)
	}
	return nil
}

// ListCards returns the dashboard's manual cards ordered by sort key
func (s *SQLiteStore) ListCards(ctx context.Context, dashboardID string) ([]model.Card, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, color, sheet_url, settings, resources, sort_order, created_at, updated_at
		FROM cards WHERE dashboard_id = ? ORDER BY sort_order ASC, created_at ASC
	`, dashboardID)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	var cards []model.Card
	for rows.Next() {
		var c model.Card
		var settingsJSON, resourcesJSON string
		if err := rows.Scan(&c.ID, &c.Title, &c.Color, &c.SheetURL, &settingsJSON,
			&resourcesJSON, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		c.Source = model.SourceManual
		c.Settings = decodeSettingsJSON(settingsJSON)
		if err := json.Unmarshal([]byte(resourcesJSON), &c.Resources); err != nil {
			// A malformed resources blob loses its blocks, not the card.
			c.Resources = nil
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// SaveCard upserts a manual card
func (s *SQLiteStore) SaveCard(ctx context.Context, dashboardID string, c *model.Card) error {
	settingsJSON, err := encodeSettingsJSON(c.Settings)
	if err != nil {
		return err
	}
	resources := c.Resources
	if resources == nil {
		resources = []model.Block{}
	}
	resourcesJSON, err := json.Marshal(resources)
	if err != nil {
		return fmt.Errorf("encode resources: %w", err)
	}

	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cards (id, dashboard_id, title, color, sheet_url, settings, resources, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			color = excluded.color,
			sheet_url = excluded.sheet_url,
			settings = excluded.settings,
			resources = excluded.resources,
			sort_order = excluded.sort_order,
			updated_at = excluded.updated_at
	`, c.ID, dashboardID, c.Title, c.Color, c.SheetURL, settingsJSON,
		string(resourcesJSON), c.SortOrder, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save card: %w", err)
	}
	return nil
}

// UpdateCardSettings updates only the settings blob of a manual card
func (s *SQLiteStore) UpdateCardSettings(ctx context.Context, id string, settings model.Settings) error {
	return s.updateSettings(ctx, "cards", id, settings)
}

// UpdateCardOrder updates only the sort key of a manual card
func (s *SQLiteStore) UpdateCardOrder(ctx context.Context, id string, order int) error {
	return s.updateOrder(ctx, "cards", id, order)
}

// DeleteCard removes a manual card
func (s *SQLiteStore) DeleteCard(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "cards", id)
}

// ListWidgets returns the dashboard's sheet widgets ordered by sort key
func (s *SQLiteStore) ListWidgets(ctx context.Context, dashboardID string) ([]model.Card, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, sheet_url, settings, sort_order, created_at, updated_at
		FROM widgets WHERE dashboard_id = ? ORDER BY sort_order ASC, created_at ASC
	`, dashboardID)
	if err != nil {
		return nil, fmt.Errorf("list widgets: %w", err)
	}
	defer rows.Close()

	var widgets []model.Card
	for rows.Next() {
		var c model.Card
		var settingsJSON string
		if err := rows.Scan(&c.ID, &c.Title, &c.SheetURL, &settingsJSON,
			&c.SortOrder, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan widget: %w", err)
		}
		c.Source = model.SourceSheet
		c.Settings = decodeSettingsJSON(settingsJSON)
		widgets = append(widgets, c)
	}
	return widgets, rows.Err()
}

// SaveWidget upserts a sheet widget
func (s *SQLiteStore) SaveWidget(ctx context.Context, dashboardID string, c *model.Card) error {
	settingsJSON, err := encodeSettingsJSON(c.Settings)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO widgets (id, dashboard_id, title, sheet_url, settings, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			sheet_url = excluded.sheet_url,
			settings = excluded.settings,
			sort_order = excluded.sort_order,
			updated_at = excluded.updated_at
	`, c.ID, dashboardID, c.Title, c.SheetURL, settingsJSON, c.SortOrder,
		c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save widget: %w", err)
	}
	return nil
}

// UpdateWidgetSettings updates only the settings blob of a widget
func (s *SQLiteStore) UpdateWidgetSettings(ctx context.Context, id string, settings model.Settings) error {
	return s.updateSettings(ctx, "widgets", id, settings)
}

// UpdateWidgetOrder updates only the sort key of a widget
func (s *SQLiteStore) UpdateWidgetOrder(ctx context.Context, id string, order int) error {
	return s.updateOrder(ctx, "widgets", id, order)
}

// DeleteWidget removes a sheet widget
func (s *SQLiteStore) DeleteWidget(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "widgets", id)
}

// ListAccess returns the dashboard's access list
func (s *SQLiteStore) ListAccess(ctx context.Context, dashboardID string) ([]access.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, user_email, role FROM dashboard_access WHERE dashboard_id = ?
	`, dashboardID)
	if err != nil {
		return nil, fmt.Errorf("list access: %w", err)
	}
	defer rows.Close()

	var entries []access.Entry
	for rows.Next() {
		var e access.Entry
		if err := rows.Scan(&e.UserID, &e.UserEmail, &e.Role); err != nil {
			return nil, fmt.Errorf("scan access entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GrantAccess appends an access list entry. Used by setup tooling and tests.
func (s *SQLiteStore) GrantAccess(ctx context.Context, dashboardID string, e access.Entry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO dashboard_access (dashboard_id, user_id, user_email, role) VALUES (?, ?, ?, ?)
	`, dashboardID, e.UserID, e.UserEmail, e.Role)
	if err != nil {
		return fmt.Errorf("grant access: %w", err)
	}
	return nil
}

func (s *SQLiteStore) updateSettings(ctx context.Context, table, id string, settings model.Settings) error {
	settingsJSON, err := encodeSettingsJSON(settings)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE `+table+` SET settings = ?, updated_at = ? WHERE id = ?`,
		settingsJSON, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) updateOrder(ctx context.Context, table, id string, order int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE `+table+` SET sort_order = ?, updated_at = ? WHERE id = ?`,
		order, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update sort order: %w", err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) deleteByID(ctx context.Context, table, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func decodeSettingsJSON(raw string) model.Settings {
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return model.Settings{}
	}
	return model.DecodeSettings(m)
}

func encodeSettingsJSON(s model.Settings) (string, error) {
	b, err := json.Marshal(s.Encode())
	if err != nil {
		return "", fmt.Errorf("encode settings: %w", err)
	}
	return string(b), nil
}
