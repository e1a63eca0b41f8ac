package extract

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoSlides is matched by every NoSlidesError
var ErrNoSlides = errors.New("no slides found")

// NoSlidesReason distinguishes why a run found no slides
type NoSlidesReason int

const (
	// NotSlidesDocument means there was no usable slide grid and no frame
	// named like a slide
	NotSlidesDocument NoSlidesReason = iota

	// NoMatchingFrames means the slide grid held only hidden slides and no
	// frame was named like a slide
	NoMatchingFrames
)

// NoSlidesError is returned when both location strategies found nothing
type NoSlidesError struct {
	Reason NoSlidesReason

	// FramesScanned is the number of visible frames the fallback examined
	FramesScanned int
}

func (e *NoSlidesError) Error() string {
	var msg string
	switch e.Reason {
	case NoMatchingFrames:
		msg = "no slides found: the slide grid holds no visible slides"
	default:
		msg = "no slides found: not a slides-structured document"
	}
	if e.FramesScanned > 0 {
		msg += fmt.Sprintf(" (none of %d frames is named like a slide, e.g. %s)", e.FramesScanned, frameNameExamples)
	}
	return msg
}

const frameNameExamples = `"Section 1 Slide 2", "S1 S2", "1.2", "Slide 2"`

// Is reports whether target is ErrNoSlides
func (e *NoSlidesError) Is(target error) bool {
	return target == ErrNoSlides
}

// Warning is a non-fatal problem met during a run
type Warning struct {
	// SlideID is empty for run-level warnings
	SlideID string

	SectionNumber int
	SlideNumber   int
	Message       string
}

// String formats the warning for display
func (w Warning) String() string {
	if w.SlideID == "" {
		return w.Message
	}
	return fmt.Sprintf("slide %d.%d (%s): %s", w.SectionNumber, w.SlideNumber, w.SlideID, w.Message)
}

// FormatWarnings joins warnings into a single line
func FormatWarnings(warnings []Warning) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}
