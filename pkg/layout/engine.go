// Package layout owns the dashboard's sections and card placement: section
// lifecycle, card-to-section assignment, and within/cross-section reordering.
package layout

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"deskhub/pkg/model"
	"deskhub/pkg/store"
)

// Fixed pseudo-section keys. These never appear in the user section list;
// their display titles live on the dashboard record instead.
const (
	ScheduleGroup = "_schedule"
	MissionGroup  = "_mission"
)

var (
	ErrDuplicateSection = errors.New("section name already exists")
	ErrEmptyName        = errors.New("name cannot be empty")
	ErrUnknownSection   = errors.New("unknown section")
	ErrCardNotFound     = errors.New("card not found")
)

// Engine arranges cards into sections and applies reorder/recategorize
// events. Local state is mutated only after the corresponding store write
// succeeds, so a rejected persistence never leaves the view out of sync.
//
// All mutating entry points are inert no-ops when the session is not
// edit-capable; they do not error.
type Engine struct {
	dash  *store.Dashboard
	store store.Store
	edit  bool
	log   *zap.Logger

	schedule []model.Card
	mission  *model.Card
	manual   []model.Card
	widgets  []model.Card
}

// NewEngine creates a layout engine over the given dashboard record.
func NewEngine(dash *store.Dashboard, st store.Store, canEdit bool, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		dash:  dash,
		store: st,
		edit:  canEdit,
		log:   log,
	}
}

// CanEdit reports whether this session may mutate the dashboard.
func (e *Engine) CanEdit() bool { return e.edit }

// Dashboard returns a copy of the current dashboard record.
func (e *Engine) Dashboard() store.Dashboard { return e.dash.Clone() }

// SetSchedule replaces the schedule card list
func (e *Engine) SetSchedule(cards []model.Card) { e.schedule = cards }

// SetMission replaces the singleton mission card
func (e *Engine) SetMission(card *model.Card) { e.mission = card }

// SetManual replaces the manual card list
func (e *Engine) SetManual(cards []model.Card) { e.manual = cards }

// SetWidgets replaces the sheet widget list
func (e *Engine) SetWidgets(cards []model.Card) { e.widgets = cards }

// Sections returns the ordered user section list.
func (e *Engine) Sections() []string {
	return append([]string(nil), e.dash.Sections...)
}

// Groups returns every group shown on the dashboard in render order: the
// schedule and mission pseudo-sections (when populated) followed by the
// user section list.
func (e *Engine) Groups() []string {
	var groups []string
	if len(e.schedule) > 0 {
		groups = append(groups, ScheduleGroup)
	}
	if e.mission != nil {
		groups = append(groups, MissionGroup)
	}
	return append(groups, e.dash.Sections...)
}

// GroupTitle resolves a group's display title. Pseudo-sections are titled
// from the dashboard record; user sections are their own title.
func (e *Engine) GroupTitle(name string) string {
	switch name {
	case ScheduleGroup:
		if e.dash.ScheduleTitle != "" {
			return e.dash.ScheduleTitle
		}
		return "Schedule"
	case MissionGroup:
		if e.dash.MissionTitle != "" {
			return e.dash.MissionTitle
		}
		return "Mission"
	default:
		return name
	}
}

// SectionCards returns the authoritative per-section member list: the
// concatenation of every source's cards assigned to that section.
func (e *Engine) SectionCards(name string) []model.Card {
	var out []model.Card
	if name == ScheduleGroup {
		out = append(out, e.schedule...)
	}
	if name == MissionGroup && e.mission != nil {
		out = append(out, *e.mission)
	}
	fallback := e.fallbackSection()
	for _, c := range e.manual {
		if c.Category(fallback) == name {
			out = append(out, c)
		}
	}
	for _, c := range e.widgets {
		if c.Category(fallback) == name {
			out = append(out, c)
		}
	}
	return out
}

// FindCard resolves a card id across every source list.
func (e *Engine) FindCard(id string) *model.Card {
	for i := range e.schedule {
		if e.schedule[i].ID == id {
			return &e.schedule[i]
		}
	}
	if e.mission != nil && e.mission.ID == id {
		return e.mission
	}
	for i := range e.manual {
		if e.manual[i].ID == id {
			return &e.manual[i]
		}
	}
	for i := range e.widgets {
		if e.widgets[i].ID == id {
			return &e.widgets[i]
		}
	}
	return nil
}

// fallbackSection is where cards without a category land: the first user
// section, or the hardcoded default when the list is empty.
func (e *Engine) fallbackSection() string {
	if len(e.dash.Sections) > 0 {
		return e.dash.Sections[0]
	}
	return model.DefaultSectionName
}

// CreateSection appends a new named section. Exact-match duplicates are
// rejected before any state changes.
func (e *Engine) CreateSection(ctx context.Context, name string) error {
	if !e.edit {
		return nil
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if slices.Contains(e.dash.Sections, name) {
		return ErrDuplicateSection
	}

	next := e.dash.Clone()
	next.Sections = append(next.Sections, name)
	if err := e.store.SaveDashboard(ctx, &next); err != nil {
		return fmt.Errorf("persist section list: %w", err)
	}
	e.dash = &next
	return nil
}

// RenameSection renames a user section in place and cascades the new name
// onto every manual card and widget currently tagged with the old one.
// The pseudo-sections are renamed via SetGroupTitle instead.
func (e *Engine) RenameSection(ctx context.Context, oldName, newName string) error {
	if !e.edit {
		return nil
	}
	newName = strings.TrimSpace(newName)
	if newName == "" || newName == oldName {
		return nil
	}
	idx := slices.Index(e.dash.Sections, oldName)
	if idx < 0 {
		return ErrUnknownSection
	}
	if slices.Contains(e.dash.Sections, newName) {
		return ErrDuplicateSection
	}

	// Cascade the cards first so a failure leaves the section list alone.
	if err := e.recategorize(ctx, oldName, newName); err != nil {
		return err
	}

	next := e.dash.Clone()
	next.Sections[idx] = newName
	if err := e.store.SaveDashboard(ctx, &next); err != nil {
		return fmt.Errorf("persist section list: %w", err)
	}
	e.dash = &next
	return nil
}

// SetGroupTitle renames one of the fixed pseudo-sections via its title
// field on the dashboard record.
func (e *Engine) SetGroupTitle(ctx context.Context, group, title string) error {
	if !e.edit {
		return nil
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyName
	}

	next := e.dash.Clone()
	switch group {
	case ScheduleGroup:
		next.ScheduleTitle = title
	case MissionGroup:
		next.MissionTitle = title
	default:
		return ErrUnknownSection
	}
	if err := e.store.SaveDashboard(ctx, &next); err != nil {
		return fmt.Errorf("persist group title: %w", err)
	}
	e.dash = &next
	return nil
}

// DeleteSection removes a section and reassigns its member cards to the
// fallback section so no card is orphaned. Destructive and not undoable;
// callers confirm before invoking.
func (e *Engine) DeleteSection(ctx context.Context, name string) error {
	if !e.edit {
		return nil
	}
	idx := slices.Index(e.dash.Sections, name)
	if idx < 0 {
		return ErrUnknownSection
	}

	remaining := slices.Delete(append([]string(nil), e.dash.Sections...), idx, idx+1)
	fallback := model.DefaultSectionName
	if len(remaining) > 0 {
		fallback = remaining[0]
	}

	if err := e.recategorize(ctx, name, fallback); err != nil {
		return err
	}

	next := e.dash.Clone()
	next.Sections = remaining
	if err := e.store.SaveDashboard(ctx, &next); err != nil {
		return fmt.Errorf("persist section list: %w", err)
	}
	e.dash = &next
	return nil
}

// recategorize rewrites the category of every manual card and widget tagged
// from to to, persisting each via a settings-only update and committing the
// local copy only after its write succeeds.
func (e *Engine) recategorize(ctx context.Context, from, to string) error {
	for i := range e.manual {
		if e.manual[i].Settings.Category != from {
			continue
		}
		s := e.manual[i].Settings.Clone()
		s.Category = to
		if err := e.store.UpdateCardSettings(ctx, e.manual[i].ID, s); err != nil {
			return fmt.Errorf("recategorize card %s: %w", e.manual[i].ID, err)
		}
		e.manual[i].Settings = s
		e.manual[i].Revision++
	}
	for i := range e.widgets {
		if e.widgets[i].Settings.Category != from {
			continue
		}
		s := e.widgets[i].Settings.Clone()
		s.Category = to
		if err := e.store.UpdateWidgetSettings(ctx, e.widgets[i].ID, s); err != nil {
			return fmt.Errorf("recategorize widget %s: %w", e.widgets[i].ID, err)
		}
		e.widgets[i].Settings = s
		e.widgets[i].Revision++
	}
	return nil
}

// MoveCard assigns the card to targetSection. Schedule and mission cards
// have no persisted placement and are left alone.
func (e *Engine) MoveCard(ctx context.Context, cardID, targetSection string) error {
	if !e.edit {
		return nil
	}

	if i := slices.IndexFunc(e.manual, func(c model.Card) bool { return c.ID == cardID }); i >= 0 {
		return e.moveIn(ctx, &e.manual[i], targetSection, e.store.UpdateCardSettings)
	}
	if i := slices.IndexFunc(e.widgets, func(c model.Card) bool { return c.ID == cardID }); i >= 0 {
		return e.moveIn(ctx, &e.widgets[i], targetSection, e.store.UpdateWidgetSettings)
	}
	if e.FindCard(cardID) != nil {
		return nil // schedule/mission cards are pinned to their groups
	}
	return ErrCardNotFound
}

func (e *Engine) moveIn(ctx context.Context, card *model.Card, target string,
	persist func(context.Context, string, model.Settings) error) error {
	s := card.Settings.Clone()
	s.Category = target
	if err := persist(ctx, card.ID, s); err != nil {
		return fmt.Errorf("persist card move: %w", err)
	}
	card.Settings = s
	card.Revision++
	return nil
}

// Reorder handles a drag of cardID dropped onto overCardID. When both
// resolve to the same source list the moving card is spliced out and
// reinserted at the target's prior position; otherwise the gesture is
// reinterpreted as recategorization into the target's inferred section.
// Cross-source interleaving never happens because sort order is tracked
// independently per source.
func (e *Engine) Reorder(ctx context.Context, cardID, overCardID string) error {
	if !e.edit {
		return nil
	}
	if cardID == overCardID {
		return nil
	}

	from := slices.IndexFunc(e.manual, func(c model.Card) bool { return c.ID == cardID })
	to := slices.IndexFunc(e.manual, func(c model.Card) bool { return c.ID == overCardID })
	if from >= 0 && to >= 0 {
		return e.splice(ctx, e.manual, from, to, e.store.UpdateCardOrder, func(cards []model.Card) {
			e.manual = cards
		})
	}

	from = slices.IndexFunc(e.widgets, func(c model.Card) bool { return c.ID == cardID })
	to = slices.IndexFunc(e.widgets, func(c model.Card) bool { return c.ID == overCardID })
	if from >= 0 && to >= 0 {
		return e.splice(ctx, e.widgets, from, to, e.store.UpdateWidgetOrder, func(cards []model.Card) {
			e.widgets = cards
		})
	}

	target := e.FindCard(overCardID)
	if target == nil {
		return ErrCardNotFound
	}
	return e.MoveCard(ctx, cardID, e.inferCategory(target))
}

// splice performs the standard array move: remove the card at from and
// reinsert it at to, leaving every other card in its original relative
// order. New sort keys are persisted before the list is committed.
func (e *Engine) splice(ctx context.Context, cards []model.Card, from, to int,
	persist func(context.Context, string, int) error, commit func([]model.Card)) error {

	next := make([]model.Card, 0, len(cards))
	next = append(next, cards...)
	moving := next[from]
	next = slices.Delete(next, from, from+1)
	next = slices.Insert(next, to, moving)

	for i := range next {
		if next[i].SortOrder == i {
			continue
		}
		if err := persist(ctx, next[i].ID, i); err != nil {
			return fmt.Errorf("persist card order: %w", err)
		}
		next[i].SortOrder = i
	}
	commit(next)
	return nil
}

// SaveMapping persists a card's full settings object — the only point at
// which a view configuration becomes durable. The card's revision advances
// so in-flight data loads for the old configuration detect staleness.
func (e *Engine) SaveMapping(ctx context.Context, cardID string, s model.Settings) error {
	if !e.edit {
		return nil
	}

	if i := slices.IndexFunc(e.manual, func(c model.Card) bool { return c.ID == cardID }); i >= 0 {
		return e.saveSettings(ctx, &e.manual[i], s, e.store.UpdateCardSettings)
	}
	if i := slices.IndexFunc(e.widgets, func(c model.Card) bool { return c.ID == cardID }); i >= 0 {
		return e.saveSettings(ctx, &e.widgets[i], s, e.store.UpdateWidgetSettings)
	}
	return ErrCardNotFound
}

func (e *Engine) saveSettings(ctx context.Context, card *model.Card, s model.Settings,
	persist func(context.Context, string, model.Settings) error) error {
	if err := persist(ctx, card.ID, s); err != nil {
		return fmt.Errorf("persist mapping: %w", err)
	}
	card.Settings = s.Clone()
	card.Revision++
	return nil
}

// ApplyData installs a freshly-ingested table on a card, unless the card
// has moved on since the load started. startRevision is the card revision
// recorded when the fetch was issued; a mismatch means the response is
// stale and is dropped.
func (e *Engine) ApplyData(cardID string, table *model.Table, startRevision int) bool {
	card := e.FindCard(cardID)
	if card == nil {
		return false
	}
	if card.Revision != startRevision {
		e.log.Debug("dropping stale table load",
			zap.String("card", cardID),
			zap.Int("started_at", startRevision),
			zap.Int("current", card.Revision))
		return false
	}
	card.Data = table
	return true
}

// DeleteCard removes a manual card or widget from the dashboard.
func (e *Engine) DeleteCard(ctx context.Context, cardID string) error {
	if !e.edit {
		return nil
	}

	if i := slices.IndexFunc(e.manual, func(c model.Card) bool { return c.ID == cardID }); i >= 0 {
		if err := e.store.DeleteCard(ctx, cardID); err != nil {
			return fmt.Errorf("delete card: %w", err)
		}
		e.manual = slices.Delete(e.manual, i, i+1)
		return nil
	}
	if i := slices.IndexFunc(e.widgets, func(c model.Card) bool { return c.ID == cardID }); i >= 0 {
		if err := e.store.DeleteWidget(ctx, cardID); err != nil {
			return fmt.Errorf("delete widget: %w", err)
		}
		e.widgets = slices.Delete(e.widgets, i, i+1)
		return nil
	}
	return ErrCardNotFound
}

// AddManualCard creates and persists a new user-authored card in the given
// section, appended to the end of the manual list.
func (e *Engine) AddManualCard(ctx context.Context, card model.Card) error {
	if !e.edit {
		return nil
	}
	if err := card.Validate(); err != nil {
		return err
	}
	card.SortOrder = len(e.manual)
	if err := e.store.SaveCard(ctx, e.dash.ID, &card); err != nil {
		return fmt.Errorf("persist new card: %w", err)
	}
	e.manual = append(e.manual, card)
	return nil
}

// AddWidget creates and persists a new sheet widget.
func (e *Engine) AddWidget(ctx context.Context, card model.Card) error {
	if !e.edit {
		return nil
	}
	if err := card.Validate(); err != nil {
		return err
	}
	if card.Settings.Category == "" {
		card.Settings.Category = e.fallbackSection()
	}
	card.SortOrder = len(e.widgets)
	if err := e.store.SaveWidget(ctx, e.dash.ID, &card); err != nil {
		return fmt.Errorf("persist new widget: %w", err)
	}
	e.widgets = append(e.widgets, card)
	return nil
}
