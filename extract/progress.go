package extract

// Stage is a step of an extraction run
type Stage int

const (
	StageIdle Stage = iota
	StageLocatingSlides
	StageCollectingItems
	StageProcessingSlides
	StageSorting
	StageDone
)

// String returns a string representation of the stage
func (s Stage) String() string {
	switch s {
	case StageLocatingSlides:
		return "locating-slides"
	case StageCollectingItems:
		return "collecting-items"
	case StageProcessingSlides:
		return "processing-slides"
	case StageSorting:
		return "sorting"
	case StageDone:
		return "done"
	default:
		return "idle"
	}
}

// Progress is a progress event
type Progress struct {
	Stage   Stage
	Current int
	Total   int
	Message string
}

// Sink receives the progress and outcome of a run. Calls are made from the
// goroutine executing Run, one at a time.
type Sink interface {
	Progress(p Progress)

	// Complete receives the final ordered result
	Complete(r *Result)

	// Fail receives the error that ended a run, including ErrNoSlides
	Fail(err error)
}

// SinkFuncs adapts plain functions to Sink. Nil fields are skipped.
type SinkFuncs struct {
	OnProgress func(Progress)
	OnComplete func(*Result)
	OnFail     func(error)
}

func (s SinkFuncs) Progress(p Progress) {
	if s.OnProgress != nil {
		s.OnProgress(p)
	}
}

func (s SinkFuncs) Complete(r *Result) {
	if s.OnComplete != nil {
		s.OnComplete(r)
	}
}

func (s SinkFuncs) Fail(err error) {
	if s.OnFail != nil {
		s.OnFail(err)
	}
}
