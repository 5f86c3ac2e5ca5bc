package model

import (
	"fmt"
	"strings"
	"time"
)

// DefaultSectionName is the section cards fall back to when no other
// placement can be determined.
const DefaultSectionName = "General"

// MissionCardID is the fixed identity of the singleton mission status card.
const MissionCardID = "mission-status"

// CardSource identifies where a card's contents come from
type CardSource string

const (
	SourceSchedule CardSource = "schedule"
	SourceMission  CardSource = "mission"
	SourceManual   CardSource = "manual"
	SourceSheet    CardSource = "sheet"
)

// IsValid returns true if the source is a recognized value
func (s CardSource) IsValid() bool {
	switch s {
	case SourceSchedule, SourceMission, SourceManual, SourceSheet:
		return true
	}
	return false
}

// CardColor is the accent color of a manual card
type CardColor string

const (
	ColorNone   CardColor = ""
	ColorBlue   CardColor = "blue"
	ColorGreen  CardColor = "green"
	ColorPurple CardColor = "purple"
	ColorOrange CardColor = "orange"
	ColorRed    CardColor = "red"
	ColorGray   CardColor = "gray"
)

// IsValid returns true if the color is a recognized value
func (c CardColor) IsValid() bool {
	switch c {
	case ColorNone, ColorBlue, ColorGreen, ColorPurple, ColorOrange, ColorRed, ColorGray:
		return true
	}
	return false
}

// Card is one visual unit on the dashboard. The Source tag determines which
// fields are meaningful: schedule cards carry Fields, the mission card
// carries Mission, manual cards carry Resources (and optionally a SheetURL
// that promotes them to data-bearing), and sheet widgets always carry a
// SheetURL with ingested Data.
type Card struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Color     CardColor       `json:"color,omitempty"`
	Source    CardSource      `json:"source"`
	Settings  Settings        `json:"settings"`
	Resources []Block         `json:"resources,omitempty"`
	SheetURL  string          `json:"sheet_url,omitempty"`
	Data      *Table          `json:"-"`
	Fields    Row             `json:"-"`
	Mission   *MissionSummary `json:"-"`
	SortOrder int             `json:"sort_order"`
	CreatedAt time.Time       `json:"created_at,omitempty"`
	UpdatedAt time.Time       `json:"updated_at,omitempty"`

	// Revision increments on every accepted local mutation. Async loads
	// record the revision they started from so a late response can detect
	// it is stale and drop itself instead of clobbering newer edits.
	Revision int `json:"-"`
}

// Clone creates a deep copy of the card
func (c Card) Clone() Card {
	clone := c

	if c.Settings.ExtraFields != nil {
		clone.Settings.ExtraFields = make([]string, len(c.Settings.ExtraFields))
		copy(clone.Settings.ExtraFields, c.Settings.ExtraFields)
	}
	if c.Resources != nil {
		clone.Resources = make([]Block, len(c.Resources))
		for i, b := range c.Resources {
			nb := b
			if b.Items != nil {
				nb.Items = make([]Item, len(b.Items))
				copy(nb.Items, b.Items)
			}
			clone.Resources[i] = nb
		}
	}
	if c.Data != nil {
		d := c.Data.Clone()
		clone.Data = &d
	}
	if c.Fields != nil {
		clone.Fields = make(Row, len(c.Fields))
		for k, v := range c.Fields {
			clone.Fields[k] = v
		}
	}
	if c.Mission != nil {
		m := *c.Mission
		if c.Mission.Trips != nil {
			m.Trips = make([]Trip, len(c.Mission.Trips))
			copy(m.Trips, c.Mission.Trips)
		}
		clone.Mission = &m
	}

	return clone
}

// Validate checks if the card data is logically valid
func (c *Card) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("card ID cannot be empty")
	}
	if c.Title == "" {
		return fmt.Errorf("card title cannot be empty")
	}
	if !c.Source.IsValid() {
		return fmt.Errorf("invalid card source: %s", c.Source)
	}
	if !c.Color.IsValid() {
		return fmt.Errorf("invalid card color: %s", c.Color)
	}
	if c.Source == SourceSheet && c.SheetURL == "" {
		return fmt.Errorf("sheet widget %s has no sheet URL", c.ID)
	}
	return nil
}

// DataBearing returns true when the card has (or can acquire) tabular data.
func (c *Card) DataBearing() bool {
	return c.Source == SourceSheet || (c.Source == SourceManual && c.SheetURL != "")
}

// Category returns the section this card belongs to, defaulting to fallback
// when the settings carry none. A card belongs to exactly one section.
func (c *Card) Category(fallback string) string {
	if strings.TrimSpace(c.Settings.Category) != "" {
		return c.Settings.Category
	}
	return fallback
}

// Block is a named sub-group of file/link items inside a manual card
type Block struct {
	Name  string `json:"name"`
	Items []Item `json:"items,omitempty"`
}

// Item is a single file or link inside a block
type Item struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Type     string `json:"type,omitempty"`
	IconURL  string `json:"icon_url,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
	FileID   string `json:"file_id,omitempty"`
}

// MissionSummary holds the computed aggregate carried by the mission card
type MissionSummary struct {
	TotalSlots    int     `json:"total_slots"`
	FilledSlots   int     `json:"filled_slots"`
	OpenSlots     int     `json:"open_slots"`
	PercentFilled float64 `json:"percent_filled"`
	Trips         []Trip  `json:"trips,omitempty"`
}

// Trip is one named row of the mission table that carries a slot count
type Trip struct {
	Name   string `json:"name"`
	Slots  int    `json:"slots"`
	Filled int    `json:"filled"`
	Open   int    `json:"open"`
}
