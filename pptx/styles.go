package pptx

import (
	"fmt"
	"strings"
)

// emuPerPoint converts English Metric Units to points
const emuPerPoint = 12700.0

func emuToPt(v int64) float64 {
	return float64(v) / emuPerPoint
}

// textStyles holds the inherited default font sizes of a deck, in points,
// indexed by paragraph level. Zero means unknown.
type textStyles struct {
	title [9]float64
	body  [9]float64
	other [9]float64
}

func newTextStyles(master *masterXML, defaults *levelStylesXML) textStyles {
	var s textStyles
	if master != nil {
		s.title = levelSizes(master.TxStyles.Title)
		s.body = levelSizes(master.TxStyles.Body)
		s.other = levelSizes(master.TxStyles.Other)
	}
	if defaults != nil && s.other == ([9]float64{}) {
		s.other = levelSizes(*defaults)
	}
	return s
}

// levelSizes reads defRPr sz from lvl1pPr..lvl9pPr
func levelSizes(styles levelStylesXML) [9]float64 {
	var out [9]float64
	for _, l := range styles.Levels {
		var n int
		if _, err := fmt.Sscanf(l.XMLName.Local, "lvl%dpPr", &n); err != nil || n < 1 || n > 9 {
			continue
		}
		if l.DefRPr != nil && l.DefRPr.Sz > 0 {
			out[n-1] = float64(l.DefRPr.Sz) / 100
		}
	}
	return out
}

// size returns the inherited size for text at lvl in a shape with the
// given placeholder (nil for ordinary shapes).
func (s textStyles) size(ph *phXML, lvl int) float64 {
	table := &s.other
	if ph != nil {
		switch ph.Type {
		case "title", "ctrTitle":
			table = &s.title
		default:
			table = &s.body
		}
	}

	lvl = max(0, min(lvl, 8))
	if table[lvl] > 0 {
		return table[lvl]
	}
	return table[0]
}

// isFooterPlaceholder reports whether a placeholder is a footer element:
// footer text, date/time or slide number.
func isFooterPlaceholder(ph *phXML) bool {
	if ph == nil {
		return false
	}
	switch strings.TrimSpace(ph.Type) {
	case "ftr", "dt", "sldNum":
		return true
	}
	return false
}
