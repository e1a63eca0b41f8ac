package layout

import (
	"sort"

	"github.com/tsawler/deckreader/model"
)

// Column is one vertical band of a slide and the elements assigned to it
type Column struct {
	// Index of the column (0-based, left to right)
	Index int

	// Low and High bound the column's half-open x interval [Low, High)
	Low, High float64

	// Elements in the column, sorted top to bottom
	Elements []Element
}

// ColumnConfig holds configuration for column segmentation
type ColumnConfig struct {
	// SplitRatio positions the boundary of the default two-column layout as
	// a fraction of slide width. Used when no analysis layout is available.
	// Default: 0.4
	SplitRatio float64
}

// DefaultColumnConfig returns sensible default configuration
func DefaultColumnConfig() ColumnConfig {
	return ColumnConfig{
		SplitRatio: 0.4,
	}
}

// Segmenter assigns elements to columns and orders them for reading
type Segmenter struct {
	config ColumnConfig
}

// NewSegmenter creates a new segmenter with default configuration
func NewSegmenter() *Segmenter {
	return &Segmenter{
		config: DefaultColumnConfig(),
	}
}

// NewSegmenterWithConfig creates a segmenter with custom configuration
func NewSegmenterWithConfig(config ColumnConfig) *Segmenter {
	if config.SplitRatio <= 0 || config.SplitRatio >= 1 {
		config.SplitRatio = DefaultColumnConfig().SplitRatio
	}
	return &Segmenter{
		config: config,
	}
}

// Segment partitions elements into columns. When columns carries an
// analysis layout its boundaries are scaled from analysis space into slide
// space; otherwise the default two-band split is used. Every input element
// appears in exactly one column, and each column is sorted by ascending y
// with ties kept in input order.
func (s *Segmenter) Segment(elements []Element, slideWidth float64, columns *model.ColumnLayout, space model.AnalysisSpace) []Column {
	var cols []Column
	if columns != nil && len(columns.Columns) > 0 {
		cols = s.segmentByLayout(elements, slideWidth, columns, space)
	} else {
		cols = s.segmentDefault(elements, slideWidth)
	}

	for i := range cols {
		sortTopToBottom(cols[i].Elements)
	}
	return cols
}

// segmentDefault splits at SplitRatio of the slide width. Elements strictly
// left of the boundary form column 0, all others column 1.
func (s *Segmenter) segmentDefault(elements []Element, slideWidth float64) []Column {
	boundary := slideWidth * s.config.SplitRatio

	cols := []Column{
		{Index: 0, Low: 0, High: boundary},
		{Index: 1, Low: boundary, High: slideWidth},
	}

	for _, e := range elements {
		if e.X < boundary {
			cols[0].Elements = append(cols[0].Elements, e)
		} else {
			cols[1].Elements = append(cols[1].Elements, e)
		}
	}

	return cols
}

// segmentByLayout assigns each element to the interval containing its x.
// Elements matching no interval (floating-point edges, content outside the
// slide) fall into the last column.
func (s *Segmenter) segmentByLayout(elements []Element, slideWidth float64, layout *model.ColumnLayout, space model.AnalysisSpace) []Column {
	cuts := Boundaries(slideWidth, layout, space)

	cols := make([]Column, len(cuts)-1)
	for i := range cols {
		cols[i] = Column{Index: i, Low: cuts[i], High: cuts[i+1]}
	}

	for _, e := range elements {
		idx := len(cols) - 1
		for i := range cols {
			if e.X >= cols[i].Low && e.X < cols[i].High {
				idx = i
				break
			}
		}
		cols[idx].Elements = append(cols[idx].Elements, e)
	}

	return cols
}

// Boundaries returns the sorted slide-space column cut points for an
// analysis layout, including the implicit cuts at 0 and slideWidth.
// Duplicate cuts are collapsed.
func Boundaries(slideWidth float64, layout *model.ColumnLayout, space model.AnalysisSpace) []float64 {
	cuts := []float64{0, slideWidth}
	if layout != nil {
		for _, c := range layout.Columns {
			cuts = append(cuts, space.ToSlideX(c.X))
		}
	}

	sort.Float64s(cuts)

	unique := cuts[:1]
	for _, c := range cuts[1:] {
		if c != unique[len(unique)-1] {
			unique = append(unique, c)
		}
	}
	if len(unique) == 1 {
		// Zero-width slide: keep a single degenerate interval
		unique = append(unique, unique[0])
	}

	return unique
}

// sortTopToBottom orders elements by ascending y, stable on ties
func sortTopToBottom(elements []Element) {
	sort.SliceStable(elements, func(i, j int) bool {
		return elements[i].Y < elements[j].Y
	})
}

// ReadingOrder returns all elements column by column: every element of a
// lower-indexed column precedes every element of a higher-indexed one.
func ReadingOrder(cols []Column) []Element {
	var n int
	for _, c := range cols {
		n += len(c.Elements)
	}

	result := make([]Element, 0, n)
	for _, c := range cols {
		result = append(result, c.Elements...)
	}

	return result
}

// ColumnCount returns the number of columns that received elements
func ColumnCount(cols []Column) int {
	var n int
	for _, c := range cols {
		if len(c.Elements) > 0 {
			n++
		}
	}
	return n
}
