// Package extract runs reading-order extraction over a whole deck.
//
// A run locates the deck's slides, processes them in small batches, and
// returns one SlideRecord per slide sorted by section and slide number:
//
//	ex := extract.New(extract.Host{Grid: deck, Frames: deck}, extract.DefaultConfig())
//	result, err := ex.Run(ctx)
//	if err != nil {
//	    return err
//	}
//	for _, rec := range result.Records {
//	    fmt.Println(rec.OverallSlideNumber, rec.Text())
//	}
//
// Failures on individual slides are logged, reported as warnings and the
// slide is left out. Only a deck without any slide fails the run.
//
// When analysis is enabled each slide is exported and analysed; the run
// waits a bounded time for the result and otherwise proceeds with the
// default two-column layout.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/tsawler/deckreader/analysis"
	"github.com/tsawler/deckreader/internal/batch"
	"github.com/tsawler/deckreader/layout"
	"github.com/tsawler/deckreader/locate"
	"github.com/tsawler/deckreader/model"
	"github.com/tsawler/deckreader/tree"
)

// Host bundles the document collaborators a run reads from. Grid and
// Frames may be nil. Exporter and Analyzer are only used when analysis is
// enabled.
type Host struct {
	Grid     locate.GridProvider
	Frames   locate.FrameSource
	Exporter analysis.Exporter
	Analyzer analysis.Analyzer
}

// PromptLoader reads the saved prompt
type PromptLoader interface {
	Load(ctx context.Context) (string, error)
}

// Config holds configuration for extraction runs
type Config struct {
	// Logger receives run and per-slide diagnostics
	// Default: slog.Default()
	Logger *slog.Logger

	// Sink receives progress and outcome events; may be nil
	Sink Sink

	Columns layout.ColumnConfig
	Levels  layout.LevelConfig

	// Analyze enables export and visual analysis of each slide
	Analyze bool

	// TargetWidth is the pixel width slides are downsampled to for analysis
	// Default: 400
	TargetWidth float64

	// AnalysisTimeout bounds the wait for one slide's analysis
	// Default: 200ms
	AnalysisTimeout time.Duration

	// Client limits the rate of analysis requests
	Client analysis.ClientConfig

	// CollectSize is the number of slides located per increment
	// Default: 50
	CollectSize int

	// ProcessSize is the number of slides processed per increment
	// Default: 5
	ProcessSize int

	// Prompts is read after extraction; may be nil
	Prompts PromptLoader
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		Columns:         layout.DefaultColumnConfig(),
		Levels:          layout.DefaultLevelConfig(),
		TargetWidth:     model.DefaultAnalysisWidth,
		AnalysisTimeout: 200 * time.Millisecond,
		Client:          analysis.DefaultClientConfig(),
		CollectSize:     50,
		ProcessSize:     5,
	}
}

// Result is the outcome of a run
type Result struct {
	// RunID identifies the run in logs
	RunID string

	// Records are ordered by section then slide number
	Records []model.SlideRecord

	Warnings []Warning

	// Strategy is how the slides were located
	Strategy locate.Strategy

	// Prompt is the saved prompt, empty when none is stored
	Prompt string
}

// Extractor runs extractions against one host. Only one run is active at a
// time: starting a run cancels the one in flight and waits for it to stop.
type Extractor struct {
	host      Host
	config    Config
	assembler *layout.Assembler
	stage     atomic.Int32

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates an extractor
func New(host Host, config Config) *Extractor {
	def := DefaultConfig()
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.TargetWidth <= 0 {
		config.TargetWidth = def.TargetWidth
	}
	if config.AnalysisTimeout <= 0 {
		config.AnalysisTimeout = def.AnalysisTimeout
	}
	if config.CollectSize < 1 {
		config.CollectSize = def.CollectSize
	}
	if config.ProcessSize < 1 {
		config.ProcessSize = def.ProcessSize
	}

	return &Extractor{
		host:      host,
		config:    config,
		assembler: layout.NewAssemblerWithConfig(config.Columns, config.Levels),
	}
}

// Stage returns the stage of the current or last run
func (e *Extractor) Stage() Stage {
	return Stage(e.stage.Load())
}

// Run extracts every slide of the deck. When no slide is found it returns
// an empty result together with a *NoSlidesError. A run superseded by a
// newer one returns context.Canceled.
func (e *Extractor) Run(ctx context.Context) (*Result, error) {
	ctx, finish := e.begin(ctx)
	defer finish()

	r := &run{
		Extractor: e,
		id:        uuid.NewString(),
	}
	r.log = e.config.Logger.With(slog.String("run", r.id))

	start := time.Now()
	r.log.Info("extraction started", slog.Bool("analyze", e.analysisEnabled()))

	ctx, stop := context.WithCancel(ctx)
	result, err := r.execute(ctx)

	// Background analyses may outlive their bounded waits
	stop()
	if r.client != nil {
		r.client.Wait()
	}

	if err != nil {
		r.log.Info("extraction ended", slog.String("err", err.Error()), slog.Duration("elapsed", time.Since(start)))
		r.fail(err)
		return result, err
	}

	r.log.Info("extraction finished",
		slog.Int("slides", len(result.Records)),
		slog.Int("warnings", len(result.Warnings)),
		slog.Duration("elapsed", time.Since(start)))
	if e.config.Sink != nil {
		e.config.Sink.Complete(result)
	}
	return result, nil
}

// begin cancels the run in flight, waits for it, and registers a new one
func (e *Extractor) begin(parent context.Context) (context.Context, func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cancel != nil {
		e.cancel()
		<-e.done
	}

	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	e.cancel, e.done = cancel, done

	return ctx, func() {
		cancel()
		close(done)

		e.mu.Lock()
		if e.done == done {
			e.cancel, e.done = nil, nil
		}
		e.mu.Unlock()
	}
}

func (e *Extractor) analysisEnabled() bool {
	return e.config.Analyze && e.host.Exporter != nil && e.host.Analyzer != nil
}

func (e *Extractor) setStage(s Stage) {
	e.stage.Store(int32(s))
}

// run is the state of a single extraction
type run struct {
	*Extractor
	id  string
	log *slog.Logger

	client *analysis.Client
	cache  *analysis.Cache
}

func (r *run) progress(stage Stage, current, total int, msg string) {
	r.setStage(stage)
	if r.config.Sink != nil {
		r.config.Sink.Progress(Progress{Stage: stage, Current: current, Total: total, Message: msg})
	}
}

func (r *run) fail(err error) {
	if r.config.Sink != nil {
		r.config.Sink.Fail(err)
	}
}

func (r *run) execute(ctx context.Context) (*Result, error) {
	result := &Result{RunID: r.id, Records: []model.SlideRecord{}}

	// Locate
	r.progress(StageLocatingSlides, 0, 0, "Locating slides")
	locator := locate.NewWithConfig(r.host.Grid, r.host.Frames, locate.Config{CollectSize: r.config.CollectSize})
	located, err := locator.Locate(ctx, func(done, total int) {
		r.progress(StageCollectingItems, done, total, fmt.Sprintf("Collected %d of %d items", done, total))
	})
	if err != nil {
		return nil, err
	}
	result.Strategy = located.Strategy

	if located.GridErr != nil {
		r.log.Debug("slide grid unavailable, using frame names", slog.String("err", located.GridErr.Error()))
	}
	if located.FramesErr != nil {
		r.log.Warn("could not enumerate frames", slog.String("err", located.FramesErr.Error()))
	}

	if len(located.Slides) == 0 {
		// Without a usable grid the page is not structured as slides
		reason := NotSlidesDocument
		if located.GridEntries > 0 {
			reason = NoMatchingFrames
		}
		return result, &NoSlidesError{Reason: reason, FramesScanned: located.FramesScanned}
	}

	// Process
	if r.analysisEnabled() {
		r.cache = analysis.NewCache()
		r.client = analysis.NewClientWithConfig(r.host.Exporter, r.host.Analyzer, r.config.Client)
	}

	refs := located.Slides
	records := make([]*model.SlideRecord, len(refs))
	warnings := make([][]Warning, len(refs))

	total := len(refs)
	r.progress(StageProcessingSlides, 0, total, fmt.Sprintf("Processing %d slides", total))
	err = batch.Each(ctx, total, r.config.ProcessSize, func(ctx context.Context, start, end int) error {
		return batch.Parallel(ctx, start, end, r.config.ProcessSize, func(ctx context.Context, i int) error {
			rec, warns, err := r.processSlide(ctx, refs[i])
			warnings[i] = warns
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				r.log.Warn("slide extraction failed",
					slog.String("slide", refs[i].Slide.ID()),
					slog.Int("section", refs[i].SectionNumber),
					slog.String("err", err.Error()))
				warnings[i] = append(warnings[i], slideWarning(refs[i], err.Error()))
				return nil
			}
			records[i] = rec
			return nil
		})
	}, func(done, total int) {
		r.progress(StageProcessingSlides, done, total, fmt.Sprintf("Processed %d of %d slides", done, total))
	})
	if err != nil {
		return nil, err
	}

	// Sort
	r.progress(StageSorting, total, total, "Sorting slides")
	for i, rec := range records {
		result.Warnings = append(result.Warnings, warnings[i]...)
		if rec != nil {
			result.Records = append(result.Records, *rec)
		}
	}
	SortRecords(result.Records)

	if r.config.Prompts != nil {
		prompt, err := r.config.Prompts.Load(ctx)
		if err != nil {
			r.log.Warn("could not load saved prompt", slog.String("err", err.Error()))
			result.Warnings = append(result.Warnings, Warning{Message: fmt.Sprintf("loading saved prompt: %v", err)})
		}
		result.Prompt = prompt
	}

	r.progress(StageDone, total, total, fmt.Sprintf("Extracted %d slides", len(result.Records)))
	return result, nil
}

// processSlide turns one slide into a record. Panics raised by the host
// while reading the slide are returned as errors.
func (r *run) processSlide(ctx context.Context, ref locate.SlideRef) (rec *model.SlideRecord, warnings []Warning, err error) {
	defer func() {
		if p := recover(); p != nil {
			rec, err = nil, fmt.Errorf("panic while reading slide: %v", p)
		}
	}()

	slide := ref.Slide
	w, h := tree.SizeOf(slide)
	space := model.NewAnalysisSpace(w, h, r.config.TargetWidth)

	elements := layout.Collect(slide)

	var (
		columns  *model.ColumnLayout
		analyzed bool
	)
	if r.client != nil && w > 0 && h > 0 {
		res, warn, err := r.analyze(ctx, ref, space)
		if err != nil {
			return nil, warnings, err
		}
		if warn != "" {
			warnings = append(warnings, slideWarning(ref, warn))
		}
		if res != nil {
			elements = analysis.FilterImageRegions(elements, res.Regions, space)
			columns = res.Layout
			analyzed = true
		}
	}

	content := r.assembler.Assemble(elements, w, columns, space)

	return &model.SlideRecord{
		SlideID:       slide.ID(),
		Name:          slide.Name(),
		SectionNumber: ref.SectionNumber,
		SlideNumber:   ref.SlideNumber,
		PlainText:     content.PlainText,
		FormattedText: content.FormattedText,
		Analyzed:      analyzed,
	}, warnings, nil
}

// analyze requests analysis of a slide and waits a bounded time for it.
// A nil result means the slide proceeds without analysis; warn describes
// why. Only context errors are returned.
func (r *run) analyze(ctx context.Context, ref locate.SlideRef, space model.AnalysisSpace) (*analysis.Result, string, error) {
	id := ref.Slide.ID()

	if err := r.client.Request(ctx, ref.Slide, space, r.cache); err != nil {
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		r.log.Debug("analysis request failed", slog.String("slide", id), slog.String("err", err.Error()))
		return nil, fmt.Sprintf("analysis unavailable: %v", err), nil
	}

	res, err := r.cache.Await(ctx, id, r.config.AnalysisTimeout)
	switch {
	case err == nil:
		return &res, "", nil
	case ctx.Err() != nil:
		return nil, "", ctx.Err()
	case errors.Is(err, analysis.ErrTimeout):
		r.log.Debug("analysis timed out", slog.String("slide", id), slog.Duration("timeout", r.config.AnalysisTimeout))
		return nil, fmt.Sprintf("analysis not ready after %s", r.config.AnalysisTimeout), nil
	default:
		r.log.Debug("analysis failed", slog.String("slide", id), slog.String("err", err.Error()))
		return nil, fmt.Sprintf("analysis failed: %v", err), nil
	}
}

func slideWarning(ref locate.SlideRef, msg string) Warning {
	return Warning{
		SlideID:       ref.Slide.ID(),
		SectionNumber: ref.SectionNumber,
		SlideNumber:   ref.SlideNumber,
		Message:       msg,
	}
}

// SortRecords orders records by section then slide number and assigns
// overall slide numbers 1..n in that order. Ties keep their input order.
func SortRecords(records []model.SlideRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].SectionNumber != records[j].SectionNumber {
			return records[i].SectionNumber < records[j].SectionNumber
		}
		return records[i].SlideNumber < records[j].SlideNumber
	})
	for i := range records {
		records[i].OverallSlideNumber = i + 1
	}
}
