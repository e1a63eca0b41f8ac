// Package locate finds the slides of a deck and numbers them.
//
// The primary source is the host's slide grid: rows are sections, columns
// are slides within a section. Grid entries may carry explicit numbering in
// their metadata; see [Normalize]. When the grid is unavailable, fails, or
// holds no visible slide, the locator falls back to scanning the page's
// frames and parsing their names with [ParseFrameName].
package locate

import (
	"context"
	"fmt"

	"github.com/tsawler/deckreader/internal/batch"
	"github.com/tsawler/deckreader/tree"
)

// GridEntry is one cell of the slide grid
type GridEntry struct {
	Slide tree.Node

	// Meta holds host-supplied annotations such as "sectionNumber"
	Meta map[string]any
}

// GridProvider supplies the deck's slide grid. A nil grid with a nil error
// means the host has no grid for this document.
type GridProvider interface {
	SlideGrid() ([][]GridEntry, error)
}

// FrameSource enumerates the frame-like elements on the active page
type FrameSource interface {
	Frames() ([]tree.Node, error)
}

// SlideRef is a located slide with its numbering
type SlideRef struct {
	Slide         tree.Node
	SectionNumber int
	SlideNumber   int
}

// Strategy identifies how slides were located
type Strategy int

const (
	StrategyNone Strategy = iota
	StrategyGrid
	StrategyFrameNames
)

// String returns a string representation of the strategy
func (s Strategy) String() string {
	switch s {
	case StrategyGrid:
		return "grid"
	case StrategyFrameNames:
		return "frame-names"
	default:
		return "none"
	}
}

// Located is the outcome of slide location
type Located struct {
	Slides   []SlideRef
	Strategy Strategy

	// GridErr records why the grid could not be used, if it failed
	GridErr error

	// FramesErr records a failure to enumerate frames
	FramesErr error

	// FramesScanned counts the visible frames examined by the fallback
	FramesScanned int

	// GridEntries counts the entries of a readable grid, hidden ones
	// included. Zero when the grid was absent, failed or empty.
	GridEntries int
}

// Config holds configuration for slide location
type Config struct {
	// CollectSize is the number of grid entries or frames examined per
	// increment
	// Default: 50
	CollectSize int
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{CollectSize: 50}
}

// Locator finds slides using a grid provider with frame-name fallback.
// Either source may be nil.
type Locator struct {
	grid   GridProvider
	frames FrameSource
	config Config
}

// New creates a locator with default configuration
func New(grid GridProvider, frames FrameSource) *Locator {
	return NewWithConfig(grid, frames, DefaultConfig())
}

// NewWithConfig creates a locator with custom configuration
func NewWithConfig(grid GridProvider, frames FrameSource, config Config) *Locator {
	if config.CollectSize < 1 {
		config.CollectSize = DefaultConfig().CollectSize
	}
	return &Locator{grid: grid, frames: frames, config: config}
}

// Locate returns the deck's visible slides in discovery order. Progress is
// reported after each increment of collection. Only context cancellation
// is returned as an error; an empty Located means no slides were found.
func (l *Locator) Locate(ctx context.Context, progress batch.ProgressFunc) (Located, error) {
	grid, gridErr := l.readGrid()

	if gridErr == nil && countEntries(grid) > 0 {
		slides, err := l.fromGrid(ctx, grid, progress)
		if err != nil {
			return Located{}, err
		}
		if len(slides) > 0 {
			return Located{Slides: slides, Strategy: StrategyGrid}, nil
		}
	}

	located, err := l.fromFrames(ctx, progress)
	if err != nil {
		return Located{}, err
	}
	located.GridErr = gridErr
	if gridErr == nil {
		located.GridEntries = countEntries(grid)
	}
	return located, nil
}

// readGrid calls the grid provider, converting panics into errors
func (l *Locator) readGrid() (grid [][]GridEntry, err error) {
	if l.grid == nil {
		return nil, nil
	}

	defer func() {
		if r := recover(); r != nil {
			grid, err = nil, fmt.Errorf("slide grid provider panicked: %v", r)
		}
	}()

	grid, err = l.grid.SlideGrid()
	if err != nil {
		return nil, fmt.Errorf("reading slide grid: %w", err)
	}
	return grid, nil
}

type cell struct {
	entry    GridEntry
	row, col int
}

func countEntries(grid [][]GridEntry) int {
	var n int
	for _, row := range grid {
		n += len(row)
	}
	return n
}

func (l *Locator) fromGrid(ctx context.Context, grid [][]GridEntry, progress batch.ProgressFunc) ([]SlideRef, error) {
	cells := make([]cell, 0, countEntries(grid))
	for r, row := range grid {
		for c, e := range row {
			cells = append(cells, cell{entry: e, row: r, col: c})
		}
	}

	var slides []SlideRef
	err := batch.Each(ctx, len(cells), l.config.CollectSize, func(_ context.Context, start, end int) error {
		for _, c := range cells[start:end] {
			if c.entry.Slide == nil || !c.entry.Slide.Visible() {
				continue
			}
			section, slide := Normalize(c.entry.Meta, c.row, c.col)
			slides = append(slides, SlideRef{
				Slide:         c.entry.Slide,
				SectionNumber: section,
				SlideNumber:   slide,
			})
		}
		return nil
	}, progress)

	return slides, err
}

func (l *Locator) fromFrames(ctx context.Context, progress batch.ProgressFunc) (Located, error) {
	located := Located{Strategy: StrategyFrameNames}
	if l.frames == nil {
		return located, nil
	}

	frames, err := l.frames.Frames()
	if err != nil {
		// An unreadable page holds no slides
		located.FramesErr = fmt.Errorf("enumerating frames: %w", err)
		return located, nil
	}

	err = batch.Each(ctx, len(frames), l.config.CollectSize, func(_ context.Context, start, end int) error {
		for _, f := range frames[start:end] {
			if f == nil || !f.Visible() {
				continue
			}
			located.FramesScanned++

			section, slide, ok := ParseFrameName(f.Name())
			if !ok {
				continue
			}
			located.Slides = append(located.Slides, SlideRef{
				Slide:         f,
				SectionNumber: section,
				SlideNumber:   slide,
			})
		}
		return nil
	}, progress)
	if err != nil {
		return Located{}, err
	}

	return located, nil
}
