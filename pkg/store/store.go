// Package store persists dashboard configuration, manual cards, and sheet
// widgets, each scoped by dashboard identifier.
package store

import (
	"context"
	"errors"
	"time"

	"deskhub/pkg/access"
	"deskhub/pkg/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Dashboard is the per-dashboard configuration record: the ordered section
// list plus the fixed pseudo-section titles and sheet locations.
type Dashboard struct {
	ID            string
	Name          string
	Sections      []string
	ScheduleTitle string
	MissionTitle  string
	ScheduleURL   string
	MissionURL    string
	UpdatedAt     time.Time
}

// Clone creates a deep copy of the dashboard record
func (d Dashboard) Clone() Dashboard {
	clone := d
	if d.Sections != nil {
		clone.Sections = make([]string, len(d.Sections))
		copy(clone.Sections, d.Sections)
	}
	return clone
}

// Store is the record-store capability the engine consumes. Implementations
// must support partial-field updates: settings and sort order are updated
// without rewriting the whole card.
type Store interface {
	GetDashboard(ctx context.Context, id string) (*Dashboard, error)
	SaveDashboard(ctx context.Context, d *Dashboard) error

	// Manual cards, ordered by sort key.
	ListCards(ctx context.Context, dashboardID string) ([]model.Card, error)
	SaveCard(ctx context.Context, dashboardID string, c *model.Card) error
	UpdateCardSettings(ctx context.Context, id string, s model.Settings) error
	UpdateCardOrder(ctx context.Context, id string, order int) error
	DeleteCard(ctx context.Context, id string) error

	// Generic sheet widgets, ordered by sort key.
	ListWidgets(ctx context.Context, dashboardID string) ([]model.Card, error)
	SaveWidget(ctx context.Context, dashboardID string, c *model.Card) error
	UpdateWidgetSettings(ctx context.Context, id string, s model.Settings) error
	UpdateWidgetOrder(ctx context.Context, id string, order int) error
	DeleteWidget(ctx context.Context, id string) error

	// Access list for permission resolution.
	ListAccess(ctx context.Context, dashboardID string) ([]access.Entry, error)

	Close() error
}
