package model

// RegionKind classifies a visually detected region
type RegionKind int

const (
	RegionText RegionKind = iota
	RegionImage
)

// String returns a string representation of the region kind
func (k RegionKind) String() string {
	switch k {
	case RegionImage:
		return "image"
	default:
		return "text"
	}
}

// ContentRegion is a rectangle found by visual analysis, in analysis-space
// pixels.
type ContentRegion struct {
	BBox       BBox
	Kind       RegionKind
	Confidence float64
}

// LayoutColumn is one column found by visual analysis
type LayoutColumn struct {
	X              float64
	Width          float64
	ContentDensity float64
}

// WhitespaceRegion is a vertical band without content
type WhitespaceRegion struct {
	X     float64
	Width float64
}

// ColumnLayout is the column structure found by visual analysis, in
// analysis-space pixels. Columns are ordered left to right.
type ColumnLayout struct {
	ColumnCount       int
	Columns           []LayoutColumn
	WhitespaceRegions []WhitespaceRegion
}

// Raster is an exported slide image
type Raster struct {
	// PNG holds the encoded image bytes
	PNG []byte

	Width  int
	Height int
}
