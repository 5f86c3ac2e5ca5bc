package view

import (
	"net/url"
	"strings"
)

// CellTone is the visual emphasis attached to a status-like cell value. The
// underlying value is never altered, only tagged.
type CellTone int

const (
	ToneNeutral CellTone = iota
	TonePositive
	ToneCaution
	ToneNegative
)

// Known status vocabularies, matched case-insensitively.
var (
	positiveWords = map[string]bool{
		"done": true, "complete": true, "completed": true,
		"active": true, "paid": true, "open": true,
	}
	cautionWords = map[string]bool{
		"pending": true, "waiting": true, "in progress": true,
	}
	negativeWords = map[string]bool{
		"cancelled": true, "canceled": true, "failed": true,
		"overdue": true, "closed": true,
	}
)

// ClassifyStatus tags a cell value against the known status vocabularies.
func ClassifyStatus(value string) CellTone {
	v := strings.ToLower(strings.TrimSpace(value))
	switch {
	case positiveWords[v]:
		return TonePositive
	case cautionWords[v]:
		return ToneCaution
	case negativeWords[v]:
		return ToneNegative
	default:
		return ToneNeutral
	}
}

// IsURL reports whether a cell value should render as an external link.
func IsURL(value string) bool {
	v := strings.TrimSpace(value)
	if !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "https://") {
		return false
	}
	u, err := url.Parse(v)
	return err == nil && u.Host != ""
}
