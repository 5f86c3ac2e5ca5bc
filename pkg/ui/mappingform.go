package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"deskhub/pkg/model"
)

// mappingValues holds the form's bound answers. It lives behind a pointer
// so the huh field bindings survive the model being copied between updates.
type mappingValues struct {
	category  string
	viewMode  string
	chartType string
	xCol      string
	yCol      string
	titleCol  string
	subCol    string
	tagCol    string
	extras    []string
	preview   bool
}

// MappingFormModel wraps a huh form that edits one card's view mapping:
// which section it lives in, how its table renders, and which columns feed
// the configured presentation.
type MappingFormModel struct {
	form   *huh.Form
	cardID string
	vals   *mappingValues
}

// NewMappingForm builds the mapping form for a data-bearing card. Column
// selects are populated from the card's currently ingested table; a card
// with no data yet still gets the section and view mode fields.
func NewMappingForm(card model.Card, sections []string, theme Theme) MappingFormModel {
	vals := &mappingValues{
		category:  card.Settings.Category,
		viewMode:  string(card.Settings.ViewMode),
		chartType: string(card.Settings.ChartType),
		xCol:      card.Settings.XAxisCol,
		yCol:      card.Settings.YAxisCol,
		titleCol:  card.Settings.TitleCol,
		subCol:    card.Settings.SubtitleCol,
		tagCol:    card.Settings.TagCol,
		extras:    append([]string(nil), card.Settings.ExtraFields...),
		preview:   card.Settings.ShowOnDashboard,
	}

	sectionOpts := make([]huh.Option[string], 0, len(sections)+1)
	sectionOpts = append(sectionOpts, huh.NewOption("(default)", ""))
	for _, s := range sections {
		sectionOpts = append(sectionOpts, huh.NewOption(s, s))
	}

	var columns []string
	if !card.Data.Empty() {
		columns = card.Data.Columns
	}
	colOpts := make([]huh.Option[string], 0, len(columns)+1)
	colOpts = append(colOpts, huh.NewOption("(none)", ""))
	for _, c := range columns {
		colOpts = append(colOpts, huh.NewOption(c, c))
	}
	extraOpts := make([]huh.Option[string], 0, len(columns))
	for _, c := range columns {
		extraOpts = append(extraOpts, huh.NewOption(c, c))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Section").
				Options(sectionOpts...).
				Value(&vals.category),
			huh.NewSelect[string]().
				Title("View").
				Options(
					huh.NewOption("none", ""),
					huh.NewOption("table", string(model.ViewTable)),
					huh.NewOption("card grid", string(model.ViewCard)),
					huh.NewOption("chart", string(model.ViewChart)),
				).
				Value(&vals.viewMode),
			huh.NewSelect[string]().
				Title("Chart type").
				Options(
					huh.NewOption("bar", string(model.ChartBar)),
					huh.NewOption("line", string(model.ChartLine)),
					huh.NewOption("area", string(model.ChartArea)),
					huh.NewOption("pie", string(model.ChartPie)),
					huh.NewOption("donut", string(model.ChartDonut)),
					huh.NewOption("metric", string(model.ChartMetric)),
					huh.NewOption("progress", string(model.ChartProgress)),
				).
				Value(&vals.chartType),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("X axis / label column").
				Options(colOpts...).
				Value(&vals.xCol),
			huh.NewSelect[string]().
				Title("Y axis / value column").
				Options(colOpts...).
				Value(&vals.yCol),
			huh.NewSelect[string]().
				Title("Title column").
				Options(colOpts...).
				Value(&vals.titleCol),
			huh.NewSelect[string]().
				Title("Subtitle column").
				Options(colOpts...).
				Value(&vals.subCol),
			huh.NewSelect[string]().
				Title("Tag column").
				Options(colOpts...).
				Value(&vals.tagCol),
			huh.NewMultiSelect[string]().
				Title("Extra fields").
				Options(extraOpts...).
				Value(&vals.extras),
			huh.NewConfirm().
				Title("Show preview on dashboard").
				Value(&vals.preview),
		),
	).WithTheme(huh.ThemeDracula())

	return MappingFormModel{
		form:   form,
		cardID: card.ID,
		vals:   vals,
	}
}

// CardID returns the card this form edits.
func (m MappingFormModel) CardID() string { return m.cardID }

// Init starts the wrapped form.
func (m MappingFormModel) Init() tea.Cmd {
	if m.form == nil {
		return nil
	}
	return m.form.Init()
}

// Update forwards messages to the wrapped form.
func (m MappingFormModel) Update(msg tea.Msg) (MappingFormModel, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	next, cmd := m.form.Update(msg)
	if f, ok := next.(*huh.Form); ok {
		m.form = f
	}
	return m, cmd
}

// Completed reports whether the user submitted the form.
func (m MappingFormModel) Completed() bool {
	return m.form != nil && m.form.State == huh.StateCompleted
}

// Aborted reports whether the user cancelled the form.
func (m MappingFormModel) Aborted() bool {
	return m.form != nil && m.form.State == huh.StateAborted
}

// Settings assembles the settings object the form's answers describe.
// Invalid enum combinations fall back the same way stored settings do.
func (m MappingFormModel) Settings() model.Settings {
	if m.vals == nil {
		return model.Settings{}
	}
	v := m.vals
	s := model.Settings{
		Category:        v.category,
		ViewMode:        model.ViewMode(v.viewMode),
		ChartType:       model.ChartType(v.chartType),
		XAxisCol:        v.xCol,
		YAxisCol:        v.yCol,
		TitleCol:        v.titleCol,
		SubtitleCol:     v.subCol,
		TagCol:          v.tagCol,
		ShowOnDashboard: v.preview,
	}
	if len(v.extras) > 0 {
		s.ExtraFields = append([]string(nil), v.extras...)
	}
	if !s.ViewMode.IsValid() {
		s.ViewMode = model.ViewNone
	}
	if s.ViewMode != model.ViewChart {
		s.ChartType = ""
	}
	return s
}

// View renders the wrapped form.
func (m MappingFormModel) View() string {
	if m.form == nil {
		return ""
	}
	return m.form.View()
}
