// Package vision analyses rendered slide images in process. It finds
// picture areas, text blocks and the column structure of a slide render and
// reports them in the render's pixel space.
//
// Picture areas are detected as connected runs of densely inked cells. Text
// blocks come from OCR when the binary is built with the "ocr" tag; without
// it the analysis still reports pictures and columns. Columns are derived
// from vertical whitespace in the ink projection.
package vision

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"sync"

	"github.com/tsawler/deckreader/analysis"
	"github.com/tsawler/deckreader/model"
	"github.com/tsawler/deckreader/ocr"
)

// TextFinder locates text blocks in an encoded image
type TextFinder interface {
	TextRegions(imageData []byte) ([]model.ContentRegion, error)
}

// Config holds configuration for image analysis
type Config struct {
	// InkThreshold is the gray level below which a pixel counts as content
	// Default: 0xC0
	InkThreshold uint8

	// CellSize is the edge of the square cells used for picture detection
	// Default: 8
	CellSize int

	// DenseFill is the inked fraction of a cell that marks it as picture
	// Default: 0.6
	DenseFill float64

	// MinImageCells is the smallest connected cell count reported as a picture
	// Default: 4
	MinImageCells int

	// MinGapRatio is the smallest column gutter as a fraction of image width
	// Default: 0.025
	MinGapRatio float64

	// MaxColumns limits the number of columns reported
	// Default: 4
	MaxColumns int
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		InkThreshold:  0xC0,
		CellSize:      8,
		DenseFill:     0.6,
		MinImageCells: 4,
		MinGapRatio:   0.025,
		MaxColumns:    4,
	}
}

// Analyzer implements analysis.Analyzer on rendered PNG images
type Analyzer struct {
	config Config

	// text finders such as Tesseract are not safe for concurrent use
	textMu sync.Mutex
	text   TextFinder
}

// NewAnalyzer creates an analyzer with default configuration. text may be
// nil, in which case no text regions are reported.
func NewAnalyzer(text TextFinder) *Analyzer {
	return NewAnalyzerWithConfig(text, DefaultConfig())
}

// NewAnalyzerWithConfig creates an analyzer with custom configuration
func NewAnalyzerWithConfig(text TextFinder, config Config) *Analyzer {
	def := DefaultConfig()
	if config.InkThreshold == 0 {
		config.InkThreshold = def.InkThreshold
	}
	if config.CellSize <= 0 {
		config.CellSize = def.CellSize
	}
	if config.DenseFill <= 0 || config.DenseFill > 1 {
		config.DenseFill = def.DenseFill
	}
	if config.MinImageCells <= 0 {
		config.MinImageCells = def.MinImageCells
	}
	if config.MinGapRatio <= 0 {
		config.MinGapRatio = def.MinGapRatio
	}
	if config.MaxColumns <= 0 {
		config.MaxColumns = def.MaxColumns
	}
	return &Analyzer{config: config, text: text}
}

// NewOCRAnalyzer creates an analyzer that finds text blocks with Tesseract.
// When OCR support is not compiled in, the analyzer works without text
// regions. The returned close function releases the OCR engine.
func NewOCRAnalyzer(config Config) (*Analyzer, func() error, error) {
	client, err := ocr.New()
	switch {
	case errors.Is(err, ocr.ErrOCRNotEnabled):
		return NewAnalyzerWithConfig(nil, config), func() error { return nil }, nil
	case err != nil:
		return nil, nil, fmt.Errorf("starting OCR: %w", err)
	}
	a := NewAnalyzerWithConfig(client, config)

	// The engine is not closed while a recognition call holds it
	closeEngine := func() error {
		a.textMu.Lock()
		defer a.textMu.Unlock()
		return client.Close()
	}
	return a, closeEngine, nil
}

// Analyze decodes img and returns the regions and column layout found on
// it. Text finder failures are not fatal: the result then carries no text
// regions.
func (a *Analyzer) Analyze(ctx context.Context, img model.Raster) (analysis.Result, error) {
	decoded, err := png.Decode(bytes.NewReader(img.PNG))
	if err != nil {
		return analysis.Result{}, fmt.Errorf("decoding slide image: %w", err)
	}

	gray := toGray(decoded)
	ink := newInkMap(gray, a.config.InkThreshold)

	if err := ctx.Err(); err != nil {
		return analysis.Result{}, err
	}

	result := analysis.Result{
		Width:  ink.width,
		Height: ink.height,
	}

	result.Regions = append(result.Regions, a.imageRegions(ink)...)

	if a.text != nil {
		a.textMu.Lock()
		regions, err := a.text.TextRegions(img.PNG)
		a.textMu.Unlock()
		if err == nil {
			result.Regions = append(result.Regions, regions...)
		}
	}

	if err := ctx.Err(); err != nil {
		return analysis.Result{}, err
	}

	result.Layout = a.columnLayout(ink)

	return result, nil
}

func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Bounds().Min == (image.Point{}) {
		return g
	}
	b := img.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(g, g.Bounds(), img, b.Min, draw.Src)
	return g
}

// inkMap marks content pixels of a grayscale image
type inkMap struct {
	width, height int
	ink           []bool
}

func newInkMap(g *image.Gray, threshold uint8) *inkMap {
	b := g.Bounds()
	m := &inkMap{width: b.Dx(), height: b.Dy(), ink: make([]bool, b.Dx()*b.Dy())}
	for y := 0; y < m.height; y++ {
		row := g.Pix[y*g.Stride : y*g.Stride+m.width]
		for x, v := range row {
			m.ink[y*m.width+x] = v < threshold
		}
	}
	return m
}

func (m *inkMap) at(x, y int) bool {
	return m.ink[y*m.width+x]
}
