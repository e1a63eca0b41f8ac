// Package deckreader provides a fluent API for extracting slide text in
// reading order, with semantic levels, from PowerPoint decks.
//
// Basic usage:
//
//	result, err := deckreader.Open("deck.pptx").Run(ctx)
//	if err != nil {
//	    // handle error
//	}
//	for _, rec := range result.Records {
//	    fmt.Println(rec.OverallSlideNumber, rec.Text())
//	}
//	if len(result.Warnings) > 0 {
//	    log.Println("Warnings:", extract.FormatWarnings(result.Warnings))
//	}
//
// With options:
//
//	md, _, err := deckreader.Open("deck.pptx").
//	    Analyze().
//	    SkipFooters().
//	    Markdown(ctx)
//
// For advanced use cases the extract, pptx and layout packages are also
// available.
package deckreader

import (
	"github.com/tsawler/deckreader/extract"
	"github.com/tsawler/deckreader/pptx"
)

// Open returns an Extractor for the .pptx file at filename. The file is
// read when a terminal operation runs.
//
// Example:
//
//	result, err := deckreader.Open("deck.pptx").Run(ctx)
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromDeck creates an Extractor for an already-opened deck. Footer
// skipping has no effect since the deck has been read.
//
// Example:
//
//	deck, err := pptx.Open("deck.pptx")
//	if err != nil {
//	    // handle error
//	}
//	result, err := deckreader.FromDeck(deck).Run(ctx)
func FromDeck(d *pptx.Deck) *Extractor {
	return &Extractor{
		deck:    d,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	result := deckreader.Must(deckreader.Open("deck.pptx").Run(ctx))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustText is a helper that wraps a call to Text(), Markdown() or Records()
// and panics if the error is non-nil. It discards warnings.
//
// Example:
//
//	text := deckreader.MustText(deckreader.Open("deck.pptx").Text(ctx))
func MustText[T any](val T, _ []extract.Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
