package locate

import (
	"encoding/json"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name        string
		meta        map[string]any
		row, col    int
		wantSection int
		wantSlide   int
	}{
		{"grid position", nil, 0, 0, 1, 1},
		{"grid position later cell", map[string]any{}, 2, 4, 3, 5},
		{"explicit numbers", map[string]any{"sectionNumber": 7, "slideNumber": 9}, 0, 0, 7, 9},
		{"sectionNumber beats section", map[string]any{"sectionNumber": 2, "section": 5}, 0, 0, 2, 1},
		{"section beats sectionIndex", map[string]any{"section": 5, "sectionIndex": 0}, 3, 0, 5, 1},
		{"sectionIndex is zero based", map[string]any{"sectionIndex": 0}, 3, 0, 1, 1},
		{"slide beats number", map[string]any{"slide": 3, "number": 8}, 0, 0, 1, 3},
		{"number beats slideIndex", map[string]any{"number": 8, "slideIndex": 1}, 0, 0, 1, 8},
		{"slideIndex is zero based", map[string]any{"slideIndex": 4}, 0, 0, 1, 5},
		{"float values", map[string]any{"sectionNumber": 2.0, "slideNumber": float64(6)}, 0, 0, 2, 6},
		{"numeric strings", map[string]any{"section": " 4 ", "slide": "2"}, 0, 0, 4, 2},
		{"json numbers", map[string]any{"section": json.Number("3"), "slide": json.Number("11")}, 0, 0, 3, 11},
		{"non-numeric ignored", map[string]any{"sectionNumber": "intro", "section": 2, "slideNumber": true}, 0, 1, 2, 2},
		{"fractional ignored", map[string]any{"slideNumber": 2.5}, 0, 1, 1, 2},
		{"zero number ignored", map[string]any{"slideNumber": 0}, 0, 3, 1, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			section, slide := Normalize(tt.meta, tt.row, tt.col)
			if section != tt.wantSection || slide != tt.wantSlide {
				t.Errorf("Normalize() = (%d, %d), want (%d, %d)", section, slide, tt.wantSection, tt.wantSlide)
			}
		})
	}
}

func TestParseFrameName(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantOK      bool
		wantSection int
		wantSlide   int
	}{
		{"section and slide", "Section 2 - Slide 4", true, 2, 4},
		{"section and slide compact", "section3slide12", true, 3, 12},
		{"S prefix both", "S2 S4", true, 2, 4},
		{"S prefix dash", "S1-S7 Agenda", true, 1, 7},
		{"S prefix second bare", "S5 / 2", true, 5, 2},
		{"dotted", "2.4 Revenue", true, 2, 4},
		{"slide only", "Slide 9", true, 1, 9},
		{"slide only lowercase", "slide 3", true, 1, 3},
		{"section pattern wins over dotted", "Section 1.5 Slide 2", true, 1, 2},
		{"full-width characters", "Ｓｌｉｄｅ ３", true, 1, 3},
		{"full-width dotted", "１.２", true, 1, 2},
		{"no match", "Cover", false, 0, 0},
		{"bare number", "12", false, 0, 0},
		{"S adjacent", "S2S3", true, 2, 3},
		{"S underscore", "S2_S3", true, 2, 3},
		{"S zero padded", "S02_03", true, 2, 3},
		{"S then slide word", "S2_Slide3", true, 2, 3},
		{"S digits only", "S12", true, 1, 2},
		{"empty", "", false, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			section, slide, ok := ParseFrameName(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseFrameName(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if section != tt.wantSection || slide != tt.wantSlide {
				t.Errorf("ParseFrameName(%q) = (%d, %d), want (%d, %d)", tt.input, section, slide, tt.wantSection, tt.wantSlide)
			}
		})
	}
}
