package locate

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Metadata keys consulted for a grid entry's section number, highest
// precedence first. Index keys are 0-based.
var (
	sectionKeys      = []string{"sectionNumber", "section"}
	sectionIndexKeys = []string{"sectionIndex"}
	slideKeys        = []string{"slideNumber", "slide", "number"}
	slideIndexKeys   = []string{"slideIndex"}
)

// Normalize resolves the 1-based section and slide numbers of the grid
// entry at (row, col). Precedence for the section is sectionNumber,
// section, sectionIndex+1, then row+1; for the slide it is slideNumber,
// slide, number, slideIndex+1, then col+1. Values that are not whole
// numbers are ignored.
func Normalize(meta map[string]any, row, col int) (section, slide int) {
	section = resolve(meta, sectionKeys, sectionIndexKeys, row+1)
	slide = resolve(meta, slideKeys, slideIndexKeys, col+1)
	return section, slide
}

func resolve(meta map[string]any, numberKeys, indexKeys []string, fallback int) int {
	for _, k := range numberKeys {
		if n, ok := wholeNumber(meta[k]); ok && n >= 1 {
			return n
		}
	}
	for _, k := range indexKeys {
		if n, ok := wholeNumber(meta[k]); ok && n >= 0 {
			return n + 1
		}
	}
	return fallback
}

// wholeNumber interprets v as an integer. Strings are parsed after
// trimming; floats must be integral.
func wholeNumber(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case float32:
		return wholeFloat(float64(n))
	case float64:
		return wholeFloat(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		if f, err := n.Float64(); err == nil {
			return wholeFloat(f)
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func wholeFloat(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
