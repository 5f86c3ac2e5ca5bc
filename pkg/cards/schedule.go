// Package cards normalizes the dashboard's heterogeneous card sources —
// schedule rows, the mission status aggregate, manual cards, and sheet
// widgets — into one list the layout engine can arrange.
package cards

import (
	"fmt"
	"strings"

	"deskhub/pkg/model"
	"deskhub/pkg/view"
)

// DefaultScheduleLabelColumn is the column a schedule row must carry to
// become a card.
const DefaultScheduleLabelColumn = "Name"

// Mission table column conventions.
const (
	missionNameColumn   = "Trip"
	missionSlotsColumn  = "Slots"
	missionFilledColumn = "Filled"
)

// BuildScheduleCards turns each labeled row of the schedule table into a
// card. Rows missing the label column are discarded silently.
func BuildScheduleCards(t *model.Table, labelCol string) []model.Card {
	if t.Empty() {
		return nil
	}
	if labelCol == "" {
		labelCol = DefaultScheduleLabelColumn
	}

	var out []model.Card
	for i, row := range t.Rows {
		label := strings.TrimSpace(row[labelCol])
		if label == "" {
			continue
		}
		fields := make(model.Row, len(row))
		for k, v := range row {
			fields[k] = v
		}
		out = append(out, model.Card{
			ID:     fmt.Sprintf("schedule-%d", i),
			Title:  label,
			Source: model.SourceSchedule,
			Fields: fields,
		})
	}
	return out
}

// BuildMissionCard reduces the mission table to the singleton status card.
// Trips are filtered to rows carrying both a name and a slot count; the
// summary percentages and open-slot counts are computed over those trips.
// Returns nil when the table has no usable rows.
func BuildMissionCard(t *model.Table) *model.Card {
	if t.Empty() {
		return nil
	}

	summary := &model.MissionSummary{}
	for _, row := range t.Rows {
		name := strings.TrimSpace(row[missionNameColumn])
		slotsRaw := strings.TrimSpace(row[missionSlotsColumn])
		if name == "" || slotsRaw == "" {
			continue
		}
		slots := int(view.CleanNumber(slotsRaw))
		filled := int(view.CleanNumber(row[missionFilledColumn]))
		if filled > slots {
			filled = slots
		}
		summary.Trips = append(summary.Trips, model.Trip{
			Name:   name,
			Slots:  slots,
			Filled: filled,
			Open:   slots - filled,
		})
		summary.TotalSlots += slots
		summary.FilledSlots += filled
	}

	if len(summary.Trips) == 0 {
		return nil
	}

	summary.OpenSlots = summary.TotalSlots - summary.FilledSlots
	if summary.TotalSlots > 0 {
		summary.PercentFilled = float64(summary.FilledSlots) / float64(summary.TotalSlots) * 100
	}

	return &model.Card{
		ID:      model.MissionCardID,
		Title:   "Mission Status",
		Source:  model.SourceMission,
		Mission: summary,
	}
}
