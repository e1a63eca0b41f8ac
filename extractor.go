package deckreader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/tsawler/deckreader/config"
	"github.com/tsawler/deckreader/export"
	"github.com/tsawler/deckreader/extract"
	"github.com/tsawler/deckreader/format"
	"github.com/tsawler/deckreader/model"
	"github.com/tsawler/deckreader/pptx"
	"github.com/tsawler/deckreader/raster"
	"github.com/tsawler/deckreader/vision"
)

// Extractor provides a fluent interface for extracting slides from a deck.
// Each configuration method returns a new Extractor instance, making it
// safe for concurrent use and allowing method chaining.
type Extractor struct {
	// Source
	filename string
	deck     *pptx.Deck

	// Configuration
	options ExtractOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Extractor with a copy of options.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename: e.filename,
		deck:     e.deck,
		options:  e.options.clone(),
		err:      e.err,
	}
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Analyze enables visual analysis: each slide is rendered, inspected for
// pictures and columns, and the result refines the reading order.
//
// Example:
//
//	result, err := deckreader.Open("deck.pptx").Analyze().Run(ctx)
func (e *Extractor) Analyze() *Extractor {
	newExt := e.clone()
	newExt.options.settings.Analysis.Enabled = true
	return newExt
}

// ByName locates slides by their frame names instead of the deck's
// section structure.
//
// Example:
//
//	result, err := deckreader.Open("deck.pptx").ByName().Run(ctx)
func (e *Extractor) ByName() *Extractor {
	newExt := e.clone()
	newExt.options.byName = true
	return newExt
}

// SkipFooters leaves out footer, date and slide-number placeholders.
//
// Example:
//
//	text, _, err := deckreader.Open("deck.pptx").SkipFooters().Text(ctx)
func (e *Extractor) SkipFooters() *Extractor {
	newExt := e.clone()
	newExt.options.settings.PPTX.SkipFooters = true
	return newExt
}

// WithConfig replaces all settings. Settings are validated when the
// extraction runs.
func (e *Extractor) WithConfig(cfg config.Config) *Extractor {
	newExt := e.clone()
	newExt.options.settings = cfg
	return newExt
}

// WithConfigFile loads settings from a YAML or TOML file. A load failure
// is reported by the terminal operation.
//
// Example:
//
//	result, err := deckreader.Open("deck.pptx").WithConfigFile("deckreader.yaml").Run(ctx)
func (e *Extractor) WithConfigFile(path string) *Extractor {
	newExt := e.clone()
	if newExt.err != nil {
		return newExt
	}
	cfg, err := config.Load(path)
	if err != nil {
		newExt.err = err
		return newExt
	}
	newExt.options.settings = cfg
	return newExt
}

// WithLogger sets the logger for run diagnostics.
func (e *Extractor) WithLogger(logger *slog.Logger) *Extractor {
	newExt := e.clone()
	newExt.options.logger = logger
	return newExt
}

// WithSink sets the receiver of progress events.
func (e *Extractor) WithSink(sink extract.Sink) *Extractor {
	newExt := e.clone()
	newExt.options.sink = sink
	return newExt
}

// WithPrompts sets the source of the saved prompt returned with results.
func (e *Extractor) WithPrompts(prompts extract.PromptLoader) *Extractor {
	newExt := e.clone()
	newExt.options.prompts = prompts
	return newExt
}

// Settings returns the settings a run would use
func (e *Extractor) Settings() config.Config {
	return e.options.settings
}

// ============================================================================
// Terminal Operations (execute extraction and return results)
// ============================================================================

// Run extracts every slide of the deck.
//
// Returns the records in reading order, warnings for slides that were left
// out or processed without analysis, and an error if the deck could not be
// read or holds no slides (see extract.ErrNoSlides).
func (e *Extractor) Run(ctx context.Context) (*extract.Result, error) {
	if e.err != nil {
		return nil, e.err
	}
	if err := e.options.settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	deck, err := e.ensureDeck()
	if err != nil {
		return nil, err
	}

	host := extract.Host{Frames: deck}
	if !e.options.byName {
		host.Grid = deck
	}

	cfg := e.options.extractConfig()
	if cfg.Analyze {
		analyzer, closeOCR, err := vision.NewOCRAnalyzer(vision.DefaultConfig())
		if err != nil {
			return nil, err
		}
		defer closeOCR()

		host.Exporter = raster.NewRenderer()
		host.Analyzer = analyzer
	}

	return extract.New(host, cfg).Run(ctx)
}

// Records extracts every slide and returns its records and warnings.
func (e *Extractor) Records(ctx context.Context) ([]model.SlideRecord, []extract.Warning, error) {
	result, err := e.Run(ctx)
	if err != nil {
		return nil, nil, err
	}
	return result.Records, result.Warnings, nil
}

// Text returns the plain text of every slide, slides separated by a blank
// line.
//
// Example:
//
//	text, warnings, err := deckreader.Open("deck.pptx").Text(ctx)
func (e *Extractor) Text(ctx context.Context) (string, []extract.Warning, error) {
	records, warnings, err := e.Records(ctx)
	if err != nil {
		return "", nil, err
	}

	parts := make([]string, 0, len(records))
	for _, r := range records {
		parts = append(parts, r.Text())
	}
	return strings.Join(parts, "\n\n"), warnings, nil
}

// Markdown returns every slide as outline markup.
//
// Example:
//
//	md, _, err := deckreader.Open("deck.pptx").Analyze().Markdown(ctx)
func (e *Extractor) Markdown(ctx context.Context) (string, []extract.Warning, error) {
	records, warnings, err := e.Records(ctx)
	if err != nil {
		return "", nil, err
	}

	md, err := export.NewExporterWithConfig(export.ConfigFor(export.FormatMarkdown)).ExportToString(records)
	if err != nil {
		return "", nil, err
	}
	return md, warnings, nil
}

// Export writes every slide to w in the given format.
//
// Example:
//
//	_, err := deckreader.Open("deck.pptx").Export(ctx, os.Stdout, export.FormatHTML)
func (e *Extractor) Export(ctx context.Context, w io.Writer, f export.Format) ([]extract.Warning, error) {
	records, warnings, err := e.Records(ctx)
	if err != nil {
		return nil, err
	}

	if err := export.NewExporterWithConfig(export.ConfigFor(f)).Export(records, w); err != nil {
		return nil, err
	}
	return warnings, nil
}

// SlideCount returns the number of slides in the deck, hidden ones included.
func (e *Extractor) SlideCount() (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	deck, err := e.ensureDeck()
	if err != nil {
		return 0, err
	}
	return len(deck.Slides()), nil
}

// ensureDeck returns the configured deck, reading the file if needed
func (e *Extractor) ensureDeck() (*pptx.Deck, error) {
	if e.deck != nil {
		return e.deck, nil
	}
	if e.filename == "" {
		return nil, fmt.Errorf("no filename specified")
	}

	if err := checkFormat(e.filename); err != nil {
		return nil, err
	}

	deck, err := pptx.OpenWithOptions(e.filename, pptx.Options{
		SkipFooters: e.options.settings.PPTX.SkipFooters,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open deck: %w", err)
	}
	return deck, nil
}

// checkFormat rejects files that are not decks before they are parsed
func checkFormat(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open deck: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to open deck: %w", err)
	}

	kind, err := format.Detect(f, info.Size())
	if err != nil {
		return fmt.Errorf("failed to open deck: %w", err)
	}
	if err := format.RequirePresentation(kind); err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	return nil
}
