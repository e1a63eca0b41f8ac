package model

import "math"

// Point represents a 2D point
type Point struct {
	X, Y float64
}

// Distance calculates the Euclidean distance to another point
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// BBox represents a bounding box (rectangle) in top-left origin coordinates
type BBox struct {
	X      float64 // Left
	Y      float64 // Top
	Width  float64
	Height float64
}

// NewBBox creates a bounding box from coordinates
func NewBBox(x, y, width, height float64) BBox {
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// Right returns the right edge X coordinate
func (b BBox) Right() float64 {
	return b.X + b.Width
}

// Bottom returns the bottom edge Y coordinate
func (b BBox) Bottom() float64 {
	return b.Y + b.Height
}

// Center returns the center point
func (b BBox) Center() Point {
	return Point{
		X: b.X + b.Width/2,
		Y: b.Y + b.Height/2,
	}
}

// Contains checks if a point is inside the bounding box (edges inclusive)
func (b BBox) Contains(p Point) bool {
	return p.X >= b.X && p.X <= b.Right() &&
		p.Y >= b.Y && p.Y <= b.Bottom()
}

// Area returns the area of the bounding box
func (b BBox) Area() float64 {
	return b.Width * b.Height
}

// IsEmpty returns true if the bounding box has zero area
func (b BBox) IsEmpty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// DefaultAnalysisWidth is the nominal pixel width of the downsampled render
// that visual analysis runs on.
const DefaultAnalysisWidth = 400.0

// AnalysisSpace relates slide coordinates to the pixel space of the
// downsampled render used for visual analysis.
type AnalysisSpace struct {
	SlideWidth  float64
	SlideHeight float64

	// Scale maps slide units to analysis pixels (never above 1)
	Scale float64
}

// NewAnalysisSpace returns the space for a slide rendered at targetWidth
// pixels wide. The render is never upscaled: slides narrower than
// targetWidth are analysed at their actual size.
func NewAnalysisSpace(slideWidth, slideHeight, targetWidth float64) AnalysisSpace {
	scale := 1.0
	if slideWidth > 0 && targetWidth > 0 {
		scale = math.Min(1, targetWidth/slideWidth)
	}
	return AnalysisSpace{
		SlideWidth:  slideWidth,
		SlideHeight: slideHeight,
		Scale:       scale,
	}
}

// Width returns the analysis-space width in pixels
func (s AnalysisSpace) Width() float64 {
	return s.SlideWidth * s.Scale
}

// Height returns the analysis-space height in pixels
func (s AnalysisSpace) Height() float64 {
	return s.SlideHeight * s.Scale
}

// ToAnalysis converts a slide-space point into analysis space
func (s AnalysisSpace) ToAnalysis(p Point) Point {
	sx, sy := s.factors()
	return Point{X: p.X * sx, Y: p.Y * sy}
}

// ToSlideX converts an analysis-space x coordinate into slide space
func (s AnalysisSpace) ToSlideX(x float64) float64 {
	w := s.Width()
	if w <= 0 {
		return x
	}
	return x * (s.SlideWidth / w)
}

// factors returns analysisWidth/slideWidth and analysisHeight/slideHeight
func (s AnalysisSpace) factors() (float64, float64) {
	sx, sy := 1.0, 1.0
	if s.SlideWidth > 0 {
		sx = s.Width() / s.SlideWidth
	}
	if s.SlideHeight > 0 {
		sy = s.Height() / s.SlideHeight
	}
	return sx, sy
}
