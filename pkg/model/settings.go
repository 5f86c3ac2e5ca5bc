package model

import "strings"

// ViewMode is the presentation a card's attached tabular data renders as
type ViewMode string

const (
	ViewNone  ViewMode = ""
	ViewTable ViewMode = "table"
	ViewCard  ViewMode = "card"
	ViewChart ViewMode = "chart"
)

// IsValid returns true if the view mode is a recognized value
func (v ViewMode) IsValid() bool {
	switch v {
	case ViewNone, ViewTable, ViewCard, ViewChart:
		return true
	}
	return false
}

// ChartType selects the chart variant when ViewMode is ViewChart
type ChartType string

const (
	ChartBar      ChartType = "bar"
	ChartLine     ChartType = "line"
	ChartArea     ChartType = "area"
	ChartPie      ChartType = "pie"
	ChartDonut    ChartType = "donut"
	ChartMetric   ChartType = "metric"
	ChartProgress ChartType = "progress"
)

// IsValid returns true if the chart type is a recognized value
func (c ChartType) IsValid() bool {
	switch c {
	case ChartBar, ChartLine, ChartArea, ChartPie, ChartDonut, ChartMetric, ChartProgress:
		return true
	}
	return false
}

// Settings is a card's display configuration. At the storage boundary it is
// an open string-keyed map (forward compatible); internally it is decoded
// into this struct and unknown keys are dropped on the floor.
type Settings struct {
	Category        string    `json:"category,omitempty"`
	ViewMode        ViewMode  `json:"viewMode,omitempty"`
	ChartType       ChartType `json:"chartType,omitempty"`
	XAxisCol        string    `json:"xAxisCol,omitempty"`
	YAxisCol        string    `json:"yAxisCol,omitempty"`
	TitleCol        string    `json:"titleCol,omitempty"`
	SubtitleCol     string    `json:"subtitleCol,omitempty"`
	TagCol          string    `json:"tagCol,omitempty"`
	ExtraFields     []string  `json:"extraFields,omitempty"`
	Icon            string    `json:"icon,omitempty"`
	ShowOnDashboard bool      `json:"showOnDashboard,omitempty"`
}

// Clone creates a deep copy of the settings
func (s Settings) Clone() Settings {
	clone := s
	if s.ExtraFields != nil {
		clone.ExtraFields = make([]string, len(s.ExtraFields))
		copy(clone.ExtraFields, s.ExtraFields)
	}
	return clone
}

// DecodeSettings builds a Settings struct from the raw stored map. Only
// known keys are honored; anything else is ignored rather than carried along.
func DecodeSettings(raw map[string]any) Settings {
	var s Settings
	if raw == nil {
		return s
	}

	s.Category = stringKey(raw, "category")
	s.ViewMode = ViewMode(stringKey(raw, "viewMode"))
	s.ChartType = ChartType(stringKey(raw, "chartType"))
	s.XAxisCol = stringKey(raw, "xAxisCol")
	s.YAxisCol = stringKey(raw, "yAxisCol")
	s.TitleCol = stringKey(raw, "titleCol")
	s.SubtitleCol = stringKey(raw, "subtitleCol")
	s.TagCol = stringKey(raw, "tagCol")
	s.Icon = stringKey(raw, "icon")
	s.ShowOnDashboard = boolKey(raw, "showOnDashboard")

	if !s.ViewMode.IsValid() {
		s.ViewMode = ViewNone
	}
	if s.ChartType != "" && !s.ChartType.IsValid() {
		s.ChartType = ""
	}

	if v, ok := raw["extraFields"]; ok {
		switch fields := v.(type) {
		case []string:
			s.ExtraFields = append([]string(nil), fields...)
		case []any:
			for _, f := range fields {
				if fs, ok := f.(string); ok && strings.TrimSpace(fs) != "" {
					s.ExtraFields = append(s.ExtraFields, fs)
				}
			}
		}
	}

	return s
}

// Encode flattens the settings back into the open map shape used by the
// record store. Zero-valued fields are omitted to keep stored records small.
func (s Settings) Encode() map[string]any {
	raw := make(map[string]any)
	if s.Category != "" {
		raw["category"] = s.Category
	}
	if s.ViewMode != ViewNone {
		raw["viewMode"] = string(s.ViewMode)
	}
	if s.ChartType != "" {
		raw["chartType"] = string(s.ChartType)
	}
	if s.XAxisCol != "" {
		raw["xAxisCol"] = s.XAxisCol
	}
	if s.YAxisCol != "" {
		raw["yAxisCol"] = s.YAxisCol
	}
	if s.TitleCol != "" {
		raw["titleCol"] = s.TitleCol
	}
	if s.SubtitleCol != "" {
		raw["subtitleCol"] = s.SubtitleCol
	}
	if s.TagCol != "" {
		raw["tagCol"] = s.TagCol
	}
	if len(s.ExtraFields) > 0 {
		raw["extraFields"] = append([]string(nil), s.ExtraFields...)
	}
	if s.Icon != "" {
		raw["icon"] = s.Icon
	}
	if s.ShowOnDashboard {
		raw["showOnDashboard"] = true
	}
	return raw
}

func stringKey(raw map[string]any, key string) string {
	if v, ok := raw[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func boolKey(raw map[string]any, key string) bool {
	if v, ok := raw[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}
