package layout

import "deskhub/pkg/model"

// inference is one strategy for determining which section a drop target
// belongs to. Returning false falls through to the next strategy.
type inference func(e *Engine, target *model.Card) (string, bool)

// categoryInference is the ordered fallback chain used when a drag lands on
// a card rather than a section drop zone. It terminates in the hardcoded
// default section, so inferCategory always produces an answer.
var categoryInference = []inference{
	categoryFromSettings,
	categoryFromProvenance,
	categoryFromSectionList,
}

func (e *Engine) inferCategory(target *model.Card) string {
	for _, infer := range categoryInference {
		if name, ok := infer(e, target); ok {
			return name
		}
	}
	return model.DefaultSectionName
}

// categoryFromSettings uses the target's own category when it carries one.
func categoryFromSettings(_ *Engine, target *model.Card) (string, bool) {
	if target.Settings.Category != "" {
		return target.Settings.Category, true
	}
	return "", false
}

// categoryFromProvenance infers the fixed pseudo-section implied by the
// target's source tag.
func categoryFromProvenance(_ *Engine, target *model.Card) (string, bool) {
	switch target.Source {
	case model.SourceSchedule:
		return ScheduleGroup, true
	case model.SourceMission:
		return MissionGroup, true
	}
	return "", false
}

// categoryFromSectionList falls back to the first entry of the current
// section list.
func categoryFromSectionList(e *Engine, _ *model.Card) (string, bool) {
	if len(e.dash.Sections) > 0 {
		return e.dash.Sections[0], true
	}
	return "", false
}
