package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"deskhub/pkg/cards"
	"deskhub/pkg/ingest"
	"deskhub/pkg/layout"
	"deskhub/pkg/model"
)

// uiMode is the dashboard's input mode
type uiMode int

const (
	modeNormal uiMode = iota
	modeMove
	modeInput
	modeConfirm
	modeMapping
	modeSearch
	modeHelp
)

// inputKind says what the text input mutates when submitted
type inputKind int

const (
	inputCreateSection inputKind = iota
	inputRenameSection
	inputGroupTitle
	inputNewCard
	inputNewWidgetURL
	inputNewWidgetTitle
)

// confirmKind says what destructive action is awaiting confirmation
type confirmKind int

const (
	confirmDeleteCard confirmKind = iota
	confirmDeleteSection
)

// entry is one selectable line of the flattened dashboard: either a group
// header or a card inside that group.
type entry struct {
	group  string
	header bool
	card   model.Card
}

// Options configures the dashboard model beyond its collaborators.
type Options struct {
	Token               string
	ScheduleLabelColumn string
}

// DashboardModel is the root bubbletea model: one vertically scrolled list
// of section headers and cards, with modal overlays for editing.
type DashboardModel struct {
	engine *layout.Engine
	loader *cards.Loader
	ingest *ingest.Client
	opts   Options
	log    *zap.Logger

	entries []entry
	cursor  int

	mode        uiMode
	input       textinput.Model
	inputKind   inputKind
	inputTarget string // section/group being renamed
	confirmKind confirmKind
	confirmID   string // card id or section name awaiting deletion
	movingID    string // card being repositioned in move mode
	pendingURL  string // sheet URL captured by the first widget input step

	mapping MappingFormModel
	search  SearchOverlayModel
	help    HelpOverlayModel

	status    string
	loading   int // outstanding initial loads
	width     int
	height    int
	theme     Theme
}

// NewDashboardModel creates the root model.
func NewDashboardModel(engine *layout.Engine, loader *cards.Loader, in *ingest.Client, opts Options, theme Theme, log *zap.Logger) DashboardModel {
	if log == nil {
		log = zap.NewNop()
	}
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 32

	dash := engine.Dashboard()
	loading := 2 // manual cards and widgets always load
	if dash.ScheduleURL != "" {
		loading++
	}
	if dash.MissionURL != "" {
		loading++
	}

	return DashboardModel{
		engine:  engine,
		loader:  loader,
		ingest:  in,
		opts:    opts,
		log:     log,
		input:   ti,
		help:    NewHelpOverlayModel(theme),
		loading: loading,
		width:   80,
		height:  24,
		theme:   theme,
	}
}

// Init kicks off the four source loads concurrently.
func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.loadAllCmds()...)
}

func (m *DashboardModel) loadAllCmds() []tea.Cmd {
	dash := m.engine.Dashboard()
	var cmds []tea.Cmd
	m.loading = 0

	cmds = append(cmds, m.loadManualCmd(dash.ID), m.loadWidgetsCmd(dash.ID))
	m.loading += 2
	if dash.ScheduleURL != "" {
		cmds = append(cmds, m.loadScheduleCmd(dash.ScheduleURL))
		m.loading++
	}
	if dash.MissionURL != "" {
		cmds = append(cmds, m.loadMissionCmd(dash.MissionURL))
		m.loading++
	}
	return cmds
}

func (m DashboardModel) loadScheduleCmd(url string) tea.Cmd {
	return func() tea.Msg {
		table, err := m.ingest.FetchTable(context.Background(), url, m.opts.Token)
		if err != nil {
			return scheduleLoadedMsg{err: err}
		}
		built := cards.BuildScheduleCards(table, m.opts.ScheduleLabelColumn)
		ptrs := make([]*model.Card, len(built))
		for i := range built {
			ptrs[i] = &built[i]
		}
		return scheduleLoadedMsg{cards: ptrs}
	}
}

func (m DashboardModel) loadMissionCmd(url string) tea.Cmd {
	return func() tea.Msg {
		table, err := m.ingest.FetchTable(context.Background(), url, m.opts.Token)
		if err != nil {
			return missionLoadedMsg{err: err}
		}
		return missionLoadedMsg{card: cards.BuildMissionCard(table)}
	}
}

func (m DashboardModel) loadManualCmd(dashboardID string) tea.Cmd {
	return func() tea.Msg {
		list, err := m.loader.LoadManualCards(context.Background(), dashboardID)
		if err != nil {
			return manualLoadedMsg{err: err}
		}
		ptrs := make([]*model.Card, len(list))
		for i := range list {
			ptrs[i] = &list[i]
		}
		return manualLoadedMsg{cards: ptrs}
	}
}

func (m DashboardModel) loadWidgetsCmd(dashboardID string) tea.Cmd {
	return func() tea.Msg {
		list, err := m.loader.LoadWidgets(context.Background(), dashboardID, m.opts.Token)
		if err != nil {
			return widgetsLoadedMsg{err: err}
		}
		ptrs := make([]*model.Card, len(list))
		for i := range list {
			ptrs[i] = &list[i]
		}
		return widgetsLoadedMsg{cards: ptrs}
	}
}

// refreshCardCmd re-fetches one card's table, tagging the result with the
// revision at fetch start so stale payloads are dropped on receipt.
func (m DashboardModel) refreshCardCmd(card model.Card) tea.Cmd {
	rev := card.Revision
	return func() tea.Msg {
		table, err := m.loader.RefreshCard(context.Background(), &card, m.opts.Token)
		return cardDataMsg{cardID: card.ID, table: table, revision: rev, err: err}
	}
}

func clearStatusCmd() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// Update routes messages by mode.
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.SetSize(msg.Width, msg.Height)
		m.search.SetSize(msg.Width, msg.Height)
		return m, nil

	case scheduleLoadedMsg:
		m.loading--
		if msg.err != nil {
			return m.withStatus(fmt.Sprintf("schedule load failed: %v", msg.err))
		}
		list := make([]model.Card, len(msg.cards))
		for i, c := range msg.cards {
			list[i] = *c
		}
		m.engine.SetSchedule(list)
		m.rebuildEntries()
		return m, nil

	case missionLoadedMsg:
		m.loading--
		if msg.err != nil {
			return m.withStatus(fmt.Sprintf("mission load failed: %v", msg.err))
		}
		m.engine.SetMission(msg.card)
		m.rebuildEntries()
		return m, nil

	case manualLoadedMsg:
		m.loading--
		if msg.err != nil {
			return m.withStatus(fmt.Sprintf("card load failed: %v", msg.err))
		}
		list := make([]model.Card, len(msg.cards))
		for i, c := range msg.cards {
			list[i] = *c
		}
		m.engine.SetManual(list)
		m.rebuildEntries()
		return m, nil

	case widgetsLoadedMsg:
		m.loading--
		if msg.err != nil {
			return m.withStatus(fmt.Sprintf("widget load failed: %v", msg.err))
		}
		list := make([]model.Card, len(msg.cards))
		for i, c := range msg.cards {
			list[i] = *c
		}
		m.engine.SetWidgets(list)
		m.rebuildEntries()
		return m, nil

	case cardDataMsg:
		if msg.err != nil {
			return m.withStatus(fmt.Sprintf("refresh failed: %v", msg.err))
		}
		if msg.table == nil {
			return m, nil
		}
		if m.engine.ApplyData(msg.cardID, msg.table, msg.revision) {
			m.rebuildEntries()
			return m.withStatus("refreshed")
		}
		return m, nil

	case statusMsg:
		return m.withStatus(string(msg))

	case ReloadMsg:
		return m, tea.Batch(m.loadAllCmds()...)

	case clearStatusMsg:
		m.status = ""
		return m, nil
	}

	switch m.mode {
	case modeHelp:
		if _, ok := msg.(tea.KeyMsg); ok {
			m.mode = modeNormal
		}
		return m, nil
	case modeSearch:
		return m.updateSearch(msg)
	case modeMapping:
		return m.updateMapping(msg)
	case modeInput:
		return m.updateInput(msg)
	case modeConfirm:
		return m.updateConfirm(msg)
	case modeMove:
		return m.updateMove(msg)
	default:
		return m.updateNormal(msg)
	}
}

func (m DashboardModel) updateNormal(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "g":
		m.cursor = 0
	case "G":
		if len(m.entries) > 0 {
			m.cursor = len(m.entries) - 1
		}
	case "tab":
		m.jumpToNextHeader()

	case "n":
		if !m.requireEdit() {
			return m.withStatus("view-only session")
		}
		m.openInput(inputCreateSection, "", "New section name")
	case "c":
		if !m.requireEdit() {
			return m.withStatus("view-only session")
		}
		m.openInput(inputNewCard, m.selectedSection(), "New card title")
	case "w":
		if !m.requireEdit() {
			return m.withStatus("view-only session")
		}
		m.openInput(inputNewWidgetURL, m.selectedSection(), "Sheet URL or id")
	case "r":
		if !m.requireEdit() {
			return m.withStatus("view-only session")
		}
		if e := m.selected(); e != nil && e.header {
			if e.group == layout.ScheduleGroup || e.group == layout.MissionGroup {
				m.openInput(inputGroupTitle, e.group, "Group title")
			} else {
				m.openInput(inputRenameSection, e.group, "Rename section")
			}
		}
	case "x":
		if !m.requireEdit() {
			return m.withStatus("view-only session")
		}
		if e := m.selected(); e != nil && e.header &&
			e.group != layout.ScheduleGroup && e.group != layout.MissionGroup {
			m.mode = modeConfirm
			m.confirmKind = confirmDeleteSection
			m.confirmID = e.group
		}
	case "d":
		if !m.requireEdit() {
			return m.withStatus("view-only session")
		}
		if e := m.selected(); e != nil && !e.header &&
			(e.card.Source == model.SourceManual || e.card.Source == model.SourceSheet) {
			m.mode = modeConfirm
			m.confirmKind = confirmDeleteCard
			m.confirmID = e.card.ID
		}
	case "m":
		if !m.requireEdit() {
			return m.withStatus("view-only session")
		}
		if e := m.selected(); e != nil && !e.header &&
			(e.card.Source == model.SourceManual || e.card.Source == model.SourceSheet) {
			m.mode = modeMove
			m.movingID = e.card.ID
		}
	case "v":
		if !m.requireEdit() {
			return m.withStatus("view-only session")
		}
		if e := m.selected(); e != nil && !e.header && e.card.DataBearing() {
			if card := m.engine.FindCard(e.card.ID); card != nil {
				m.mapping = NewMappingForm(*card, m.engine.Sections(), m.theme)
				m.mode = modeMapping
				return m, m.mapping.Init()
			}
		}

	case "R":
		if e := m.selected(); e != nil && !e.header && e.card.DataBearing() {
			if card := m.engine.FindCard(e.card.ID); card != nil {
				return m, m.refreshCardCmd(*card)
			}
		}
	case "a":
		return m, tea.Batch(m.loadAllCmds()...)

	case "y":
		if e := m.selected(); e != nil && !e.header && e.card.SheetURL != "" {
			if err := clipboard.WriteAll(e.card.SheetURL); err != nil {
				return m.withStatus("clipboard unavailable")
			}
			return m.withStatus("sheet URL copied")
		}

	case "/":
		m.search = NewSearchOverlay(m.allCards(), m.theme)
		m.search.SetSize(m.width, m.height)
		m.mode = modeSearch
	case "?":
		m.mode = modeHelp
	}
	return m, nil
}

// updateMove handles reposition mode: J/K drop the moving card onto its
// neighbor in the same section, h/l send it to the adjacent section.
func (m DashboardModel) updateMove(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	ctx := context.Background()
	switch key.String() {
	case "esc", "enter", "m":
		m.mode = modeNormal
		m.movingID = ""
	case "J", "j", "down":
		if over := m.neighborCardID(1); over != "" {
			if err := m.engine.Reorder(ctx, m.movingID, over); err != nil {
				return m.withStatus(err.Error())
			}
			m.rebuildEntries()
			m.followCard(m.movingID)
		}
	case "K", "k", "up":
		if over := m.neighborCardID(-1); over != "" {
			if err := m.engine.Reorder(ctx, m.movingID, over); err != nil {
				return m.withStatus(err.Error())
			}
			m.rebuildEntries()
			m.followCard(m.movingID)
		}
	case "h", "left":
		return m.moveAcross(-1)
	case "l", "right":
		return m.moveAcross(1)
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m DashboardModel) moveAcross(dir int) (tea.Model, tea.Cmd) {
	sections := m.engine.Sections()
	if len(sections) == 0 {
		return m, nil
	}
	card := m.engine.FindCard(m.movingID)
	if card == nil {
		m.mode = modeNormal
		return m, nil
	}
	cur := card.Category(sections[0])
	idx := 0
	for i, s := range sections {
		if s == cur {
			idx = i
			break
		}
	}
	idx += dir
	if idx < 0 || idx >= len(sections) {
		return m, nil
	}
	if err := m.engine.MoveCard(context.Background(), m.movingID, sections[idx]); err != nil {
		return m.withStatus(err.Error())
	}
	m.rebuildEntries()
	m.followCard(m.movingID)
	return m, nil
}

func (m DashboardModel) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if ok {
		switch key.String() {
		case "esc":
			m.mode = modeNormal
			return m, nil
		case "enter":
			value := strings.TrimSpace(m.input.Value())
			m.mode = modeNormal
			if value == "" {
				return m, nil
			}
			ctx := context.Background()
			var err error
			switch m.inputKind {
			case inputCreateSection:
				err = m.engine.CreateSection(ctx, value)
			case inputRenameSection:
				err = m.engine.RenameSection(ctx, m.inputTarget, value)
			case inputGroupTitle:
				err = m.engine.SetGroupTitle(ctx, m.inputTarget, value)
			case inputNewCard:
				err = m.engine.AddManualCard(ctx, model.Card{
					ID:       uuid.NewString(),
					Title:    value,
					Source:   model.SourceManual,
					Settings: model.Settings{Category: m.inputTarget},
				})
			case inputNewWidgetURL:
				// Two-step: remember the URL, ask for the title next.
				m.pendingURL = value
				m.openInput(inputNewWidgetTitle, m.inputTarget, "Widget title")
				return m, nil
			case inputNewWidgetTitle:
				widget := model.Card{
					ID:       uuid.NewString(),
					Title:    value,
					Source:   model.SourceSheet,
					SheetURL: m.pendingURL,
					Settings: model.Settings{Category: m.inputTarget},
				}
				if err = m.engine.AddWidget(ctx, widget); err == nil {
					m.rebuildEntries()
					m.followCard(widget.ID)
					return m, m.refreshCardCmd(widget)
				}
			}
			if err != nil {
				return m.withStatus(err.Error())
			}
			m.rebuildEntries()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m DashboardModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "enter":
		m.mode = modeNormal
		ctx := context.Background()
		var err error
		switch m.confirmKind {
		case confirmDeleteCard:
			err = m.engine.DeleteCard(ctx, m.confirmID)
		case confirmDeleteSection:
			err = m.engine.DeleteSection(ctx, m.confirmID)
		}
		if err != nil {
			return m.withStatus(err.Error())
		}
		m.rebuildEntries()
		m.clampCursor()
		return m, nil
	default:
		m.mode = modeNormal
		return m, nil
	}
}

func (m DashboardModel) updateMapping(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		m.mode = modeNormal
		return m, nil
	}

	var cmd tea.Cmd
	m.mapping, cmd = m.mapping.Update(msg)

	if m.mapping.Aborted() {
		m.mode = modeNormal
		return m, nil
	}
	if m.mapping.Completed() {
		m.mode = modeNormal
		settings := m.mapping.Settings()
		if err := m.engine.SaveMapping(context.Background(), m.mapping.CardID(), settings); err != nil {
			return m.withStatus(err.Error())
		}
		m.rebuildEntries()
		// Re-fetch with the new configuration.
		if card := m.engine.FindCard(m.mapping.CardID()); card != nil && card.DataBearing() {
			return m, m.refreshCardCmd(*card)
		}
		return m, nil
	}
	return m, cmd
}

func (m DashboardModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	done := m.search.Update(key.String())
	if !done {
		return m, nil
	}
	m.mode = modeNormal
	if id := m.search.SelectedID(); id != "" {
		m.followCard(id)
	}
	return m, nil
}

// withStatus sets the footer text and schedules its clear.
func (m DashboardModel) withStatus(s string) (tea.Model, tea.Cmd) {
	m.status = s
	return m, clearStatusCmd()
}

func (m *DashboardModel) requireEdit() bool { return m.engine.CanEdit() }

func (m *DashboardModel) openInput(kind inputKind, target, placeholder string) {
	m.mode = modeInput
	m.inputKind = kind
	m.inputTarget = target
	m.input.SetValue("")
	m.input.Placeholder = placeholder
	m.input.Focus()
}

// rebuildEntries flattens the engine's current arrangement into the
// navigable line list.
func (m *DashboardModel) rebuildEntries() {
	var entries []entry
	for _, g := range m.engine.Groups() {
		entries = append(entries, entry{group: g, header: true})
		for _, c := range m.engine.SectionCards(g) {
			entries = append(entries, entry{group: g, card: c})
		}
	}
	m.entries = entries
	m.clampCursor()
}

func (m *DashboardModel) clampCursor() {
	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *DashboardModel) moveCursor(dir int) {
	next := m.cursor + dir
	if next >= 0 && next < len(m.entries) {
		m.cursor = next
	}
}

func (m *DashboardModel) jumpToNextHeader() {
	for i := 1; i <= len(m.entries); i++ {
		idx := (m.cursor + i) % len(m.entries)
		if m.entries[idx].header {
			m.cursor = idx
			return
		}
	}
}

func (m *DashboardModel) selected() *entry {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return nil
	}
	return &m.entries[m.cursor]
}

// selectedSection resolves the user section the cursor currently sits in,
// skipping the pseudo-sections that cannot hold user cards.
func (m *DashboardModel) selectedSection() string {
	if e := m.selected(); e != nil &&
		e.group != layout.ScheduleGroup && e.group != layout.MissionGroup {
		return e.group
	}
	if sections := m.engine.Sections(); len(sections) > 0 {
		return sections[0]
	}
	return model.DefaultSectionName
}

// followCard points the cursor at the card's new position after a move.
func (m *DashboardModel) followCard(id string) {
	for i, e := range m.entries {
		if !e.header && e.card.ID == id {
			m.cursor = i
			return
		}
	}
}

// neighborCardID finds the next card in cursor direction within the moving
// card's own section, to use as the drop target.
func (m *DashboardModel) neighborCardID(dir int) string {
	cur := -1
	for i, e := range m.entries {
		if !e.header && e.card.ID == m.movingID {
			cur = i
			break
		}
	}
	if cur < 0 {
		return ""
	}
	for i := cur + dir; i >= 0 && i < len(m.entries); i += dir {
		e := m.entries[i]
		if e.header {
			continue
		}
		return e.card.ID
	}
	return ""
}

func (m *DashboardModel) allCards() []model.Card {
	var out []model.Card
	for _, e := range m.entries {
		if !e.header {
			out = append(out, e.card)
		}
	}
	return out
}

// View renders the flattened dashboard with the active overlay on top.
func (m DashboardModel) View() string {
	switch m.mode {
	case modeHelp:
		return m.help.View()
	case modeSearch:
		return m.search.View()
	case modeMapping:
		return m.mapping.View()
	}

	var b strings.Builder
	t := m.theme
	contentWidth := m.width - 2
	if contentWidth < 30 {
		contentWidth = 30
	}

	dash := m.engine.Dashboard()
	titleStyle := t.Renderer.NewStyle().Bold(true).Foreground(t.Primary)
	b.WriteString(titleStyle.Render(dash.Name))
	if !m.engine.CanEdit() {
		b.WriteString("  " + t.Renderer.NewStyle().Foreground(t.Caution).Render("[view only]"))
	}
	if m.loading > 0 {
		b.WriteString("  " + t.Renderer.NewStyle().Foreground(t.Subtext).Render("loading..."))
	}
	b.WriteString("\n")
	b.WriteString(RenderDivider(contentWidth, t))
	b.WriteString("\n")

	bodyHeight := m.height - 5
	if bodyHeight < 5 {
		bodyHeight = 5
	}

	lines := m.renderEntries(contentWidth)
	start, end := m.visibleWindow(lines, bodyHeight)
	b.WriteString(strings.Join(lines[start:end], "\n"))
	b.WriteString("\n")
	b.WriteString(RenderDivider(contentWidth, t))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	base := b.String()
	if m.mode == modeInput || m.mode == modeConfirm {
		return m.renderModal(base)
	}
	return base
}

// renderEntries renders one line per entry, plus the selected card's detail
// pane inline underneath it.
func (m DashboardModel) renderEntries(width int) []string {
	t := m.theme
	var lines []string
	for i, e := range m.entries {
		selected := i == m.cursor
		if e.header {
			style := t.Renderer.NewStyle().Bold(true).Foreground(t.Secondary)
			prefix := "  "
			if selected {
				prefix = "▸ "
				style = style.Foreground(t.Primary)
			}
			count := len(m.engine.SectionCards(e.group))
			lines = append(lines, style.Render(fmt.Sprintf("%s%s (%d)", prefix, m.engine.GroupTitle(e.group), count)))
			continue
		}

		prefix := "    "
		style := t.Renderer.NewStyle().Foreground(t.Text)
		if selected {
			prefix = "  ▸ "
			style = style.Bold(true)
		}
		if m.mode == modeMove && e.card.ID == m.movingID {
			prefix = "  ⇅ "
			style = style.Foreground(t.Caution)
		}
		line := prefix + RenderSourceBadge(e.card.Source, t) + " " + style.Render(e.card.Title)
		if pv := renderPreviewLine(e.card, t); pv != "" {
			line += "  " + pv
		}
		lines = append(lines, line)

		if selected {
			detail := RenderCardPane(e.card, width-6, t)
			for _, dl := range strings.Split(detail, "\n") {
				lines = append(lines, "      "+dl)
			}
		}
	}
	if len(lines) == 0 {
		lines = append(lines, t.Renderer.NewStyle().Foreground(t.Subtext).Render("  no cards yet"))
	}
	return lines
}

// visibleWindow scrolls the rendered lines so the cursor's line is on screen.
func (m DashboardModel) visibleWindow(lines []string, height int) (int, int) {
	if len(lines) <= height {
		return 0, len(lines)
	}
	// Approximate: keep the cursor's entry index centered.
	start := m.cursor - height/2
	if start < 0 {
		start = 0
	}
	end := start + height
	if end > len(lines) {
		end = len(lines)
		start = end - height
	}
	return start, end
}

func (m DashboardModel) renderFooter() string {
	t := m.theme
	if m.status != "" {
		return t.Renderer.NewStyle().Foreground(t.Caution).Render(m.status)
	}
	keys := "j/k nav · m move · v mapping · R refresh · c/w new card · n/r/x sections · d delete · / search · ? help · q quit"
	if m.mode == modeMove {
		keys = "j/k reorder · h/l change section · enter done · esc cancel"
	}
	return t.Renderer.NewStyle().Foreground(t.Subtext).Render(keys)
}

func (m DashboardModel) renderModal(base string) string {
	t := m.theme
	var content string
	switch m.mode {
	case modeInput:
		title := t.Renderer.NewStyle().Bold(true).Foreground(t.Primary).Render(m.input.Placeholder)
		content = title + "\n\n" + m.input.View() + "\n\n" +
			t.Renderer.NewStyle().Foreground(t.Subtext).Render("enter: confirm · esc: cancel")
	case modeConfirm:
		what := "card"
		if m.confirmKind == confirmDeleteSection {
			what = "section"
		}
		content = t.Renderer.NewStyle().Bold(true).Foreground(t.Negative).
			Render(fmt.Sprintf("Delete %s %q?", what, m.confirmID)) + "\n\n" +
			t.Renderer.NewStyle().Foreground(t.Subtext).Render("y: delete · any other key: cancel")
	}

	box := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2).
		Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
