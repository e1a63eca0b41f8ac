package model

import "strings"

// Level is the semantic markup level of a text element, derived from its
// font size relative to the other text on the same slide.
type Level int

const (
	LevelBody       Level = iota // plain body text
	LevelSubheading              // ###
	LevelHeading                 // ##
	LevelTitle                   // #
)

// String returns a string representation of the level
func (l Level) String() string {
	switch l {
	case LevelTitle:
		return "title"
	case LevelHeading:
		return "heading"
	case LevelSubheading:
		return "subheading"
	default:
		return "body"
	}
}

// Marker returns the outline markup prefix for the level
func (l Level) Marker() string {
	switch l {
	case LevelTitle:
		return "#"
	case LevelHeading:
		return "##"
	case LevelSubheading:
		return "###"
	default:
		return ""
	}
}

// MarshalText encodes the level by name
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText decodes a level name; unknown names decode as body
func (l *Level) UnmarshalText(b []byte) error {
	switch string(b) {
	case "title":
		*l = LevelTitle
	case "heading":
		*l = LevelHeading
	case "subheading":
		*l = LevelSubheading
	default:
		*l = LevelBody
	}
	return nil
}

// FontThresholds are the four size cut-points of one slide.
// Title >= Heading >= Subheading >= Body always holds.
type FontThresholds struct {
	Title      float64 `json:"title"`
	Heading    float64 `json:"heading"`
	Subheading float64 `json:"subheading"`
	Body       float64 `json:"body"`
}

// TextItem is one element's text together with its rendered markup
type TextItem struct {
	Text   string `json:"text"`
	Markup string `json:"markup"`
	Level  Level  `json:"level"`
}

// SlideRecord is the extracted content of one slide in reading order
type SlideRecord struct {
	SlideID string `json:"slideId"`
	Name    string `json:"name,omitempty"`

	SectionNumber int `json:"sectionNumber"`
	SlideNumber   int `json:"slideNumber"`

	// OverallSlideNumber is the 1-based rank of the slide across the whole
	// deck, assigned only after every slide has been collected and sorted.
	OverallSlideNumber int `json:"overallSlideNumber"`

	PlainText     []string   `json:"plainText"`
	FormattedText []TextItem `json:"formattedText"`

	// Analyzed is set when visual analysis informed the layout
	Analyzed bool `json:"analyzed"`
}

// Text returns the plain text lines joined by newlines
func (r *SlideRecord) Text() string {
	return strings.Join(r.PlainText, "\n")
}
