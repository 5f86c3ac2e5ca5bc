package view

import (
	"math"
	"strconv"
	"strings"
)

// currencyStripper removes currency symbols, separators, and whitespace
// before numeric parsing.
var currencyStripper = strings.NewReplacer(
	"$", "",
	"€", "",
	"£", "",
	"¥", "",
	",", "",
	" ", "",
	" ", "",
)

// CleanNumber coerces an arbitrary cell value to a finite float64. It is the
// single point of numeric truth: every chart, aggregate, and progress
// computation goes through here, and raw cell values are never assumed
// numeric anywhere else.
//
// Numbers pass through unchanged, nil and empty strings yield 0, and strings
// are stripped of currency symbols, commas, and whitespace before parsing.
// Anything unparseable yields 0.
func CleanNumber(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		s := currencyStripper.Replace(strings.TrimSpace(n))
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return finite(f)
	default:
		return 0
	}
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
