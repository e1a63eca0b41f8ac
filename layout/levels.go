package layout

import (
	"sort"

	"github.com/tsawler/deckreader/model"
	"github.com/tsawler/deckreader/tree"
)

// LevelConfig holds configuration for font-level classification
type LevelConfig struct {
	// FallbackSize is used for elements whose font size cannot be read
	// Default: 16
	FallbackSize float64

	// MinSpread is the smallest max-min size difference that is treated as
	// a real type scale. Below it, thresholds are fixed fractions of the
	// largest size. Zero disables the rule.
	// Default: 2
	MinSpread float64
}

// DefaultLevelConfig returns sensible default configuration
func DefaultLevelConfig() LevelConfig {
	return LevelConfig{
		FallbackSize: 16,
		MinSpread:    2,
	}
}

// Fractions of the largest size used when a slide has too little spread
const (
	narrowHeadingRatio    = 0.75
	narrowSubheadingRatio = 0.6
	narrowBodyRatio       = 0.5
)

// Classifier clusters the font sizes of one slide into four semantic levels.
// Thresholds are always relative to the sizes observed on that slide.
type Classifier struct {
	config LevelConfig
}

// NewClassifier creates a new classifier with default configuration
func NewClassifier() *Classifier {
	return &Classifier{
		config: DefaultLevelConfig(),
	}
}

// NewClassifierWithConfig creates a classifier with custom configuration
func NewClassifierWithConfig(config LevelConfig) *Classifier {
	if config.FallbackSize <= 0 {
		config.FallbackSize = DefaultLevelConfig().FallbackSize
	}
	return &Classifier{
		config: config,
	}
}

// FontSize returns the representative size of a text node, falling back to
// the configured size when the host cannot report one.
func (c *Classifier) FontSize(n tree.TextNode) float64 {
	// Any host failure is treated the same as a missing size
	size, err := n.FontSize()
	if err != nil || size <= 0 {
		return c.config.FallbackSize
	}
	return size
}

// Thresholds computes the four level cut-points for the given sizes.
// The result is non-increasing: Title >= Heading >= Subheading >= Body.
func (c *Classifier) Thresholds(sizes []float64) model.FontThresholds {
	if len(sizes) == 0 {
		sizes = []float64{c.config.FallbackSize}
	}

	asc := append([]float64(nil), sizes...)
	sort.Float64s(asc)
	minSize, maxSize := asc[0], asc[len(asc)-1]

	if c.config.MinSpread > 0 && maxSize-minSize < c.config.MinSpread {
		return model.FontThresholds{
			Title:      maxSize,
			Heading:    maxSize * narrowHeadingRatio,
			Subheading: maxSize * narrowSubheadingRatio,
			Body:       maxSize * narrowBodyRatio,
		}
	}

	distinct := distinctDescending(asc)

	switch {
	case len(distinct) >= 4:
		return model.FontThresholds{
			Title:      distinct[0],
			Heading:    distinct[1],
			Subheading: distinct[2],
			Body:       distinct[3],
		}
	case len(distinct) == 3:
		return model.FontThresholds{
			Title:      distinct[0],
			Heading:    distinct[1],
			Subheading: distinct[2],
			Body:       distinct[2] * 0.8,
		}
	case len(distinct) == 2:
		return model.FontThresholds{
			Title:      distinct[0],
			Heading:    distinct[1],
			Subheading: distinct[1] * 0.85,
			Body:       distinct[1] * 0.7,
		}
	default:
		// Rank-based percentiles of the full sorted list
		return model.FontThresholds{
			Title:      percentile(asc, 0.75),
			Heading:    percentile(asc, 0.50),
			Subheading: percentile(asc, 0.25),
			Body:       minSize,
		}
	}
}

// Classify maps a size onto a level. Cut lines are the midpoints between
// adjacent thresholds, so small variance around a nominal size is absorbed.
func (c *Classifier) Classify(t model.FontThresholds, size float64) model.Level {
	switch {
	case size >= (t.Title+t.Heading)/2:
		return model.LevelTitle
	case size >= (t.Heading+t.Subheading)/2:
		return model.LevelHeading
	case size >= (t.Subheading+t.Body)/2:
		return model.LevelSubheading
	default:
		return model.LevelBody
	}
}

// Render returns the text item for text at the given level. Levels above
// body are prefixed with their outline marker.
func Render(text string, level model.Level) model.TextItem {
	markup := text
	if marker := level.Marker(); marker != "" {
		markup = marker + " " + text
	}
	return model.TextItem{
		Text:   text,
		Markup: markup,
		Level:  level,
	}
}

// distinctDescending returns the unique values of an ascending slice,
// largest first
func distinctDescending(asc []float64) []float64 {
	var out []float64
	for i := len(asc) - 1; i >= 0; i-- {
		if len(out) == 0 || asc[i] != out[len(out)-1] {
			out = append(out, asc[i])
		}
	}
	return out
}

// percentile returns the rank-based percentile of an ascending slice
func percentile(asc []float64, p float64) float64 {
	idx := int(float64(len(asc)-1) * p)
	return asc[idx]
}
