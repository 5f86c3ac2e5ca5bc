package ui

import (
	"deskhub/pkg/model"
)

// scheduleLoadedMsg carries the cards built from the schedule sheet.
type scheduleLoadedMsg struct {
	cards []*model.Card
	err   error
}

// missionLoadedMsg carries the mission summary card, or nil when
// the sheet produced no usable trips.
type missionLoadedMsg struct {
	card *model.Card
	err  error
}

// manualLoadedMsg carries the persisted manual cards.
type manualLoadedMsg struct {
	cards []*model.Card
	err   error
}

// widgetsLoadedMsg carries the data-bearing widgets after ingestion settles.
type widgetsLoadedMsg struct {
	cards []*model.Card
	err   error
}

// cardDataMsg carries a single card's refreshed table. revision is the
// card's revision at fetch start so stale payloads can be dropped.
type cardDataMsg struct {
	cardID   string
	table    *model.Table
	revision int
	err      error
}

// statusMsg shows transient text in the footer.
type statusMsg string

// ReloadMsg asks the dashboard to reload every source. The config watcher
// sends it from outside the program loop.
type ReloadMsg struct{}

// clearStatusMsg blanks the footer after a delay.
type clearStatusMsg struct{}
