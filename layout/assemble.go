package layout

import (
	"github.com/tsawler/deckreader/model"
)

// Content is one slide's text in reading order
type Content struct {
	PlainText     []string
	FormattedText []model.TextItem
	Thresholds    model.FontThresholds

	// Columns is the segmentation the reading order was derived from
	Columns []Column
}

// Assembler turns a slide's elements into ordered, classified text
type Assembler struct {
	segmenter  *Segmenter
	classifier *Classifier
}

// NewAssembler creates an assembler with default configuration
func NewAssembler() *Assembler {
	return &Assembler{
		segmenter:  NewSegmenter(),
		classifier: NewClassifier(),
	}
}

// NewAssemblerWithConfig creates an assembler with custom configuration
func NewAssemblerWithConfig(columns ColumnConfig, levels LevelConfig) *Assembler {
	return &Assembler{
		segmenter:  NewSegmenterWithConfig(columns),
		classifier: NewClassifierWithConfig(levels),
	}
}

// Assemble orders elements by column and classifies each by font size.
// Elements whose text is empty after trimming are segmented but not emitted,
// and do not contribute to the slide's thresholds.
func (a *Assembler) Assemble(elements []Element, slideWidth float64, columns *model.ColumnLayout, space model.AnalysisSpace) Content {
	cols := a.segmenter.Segment(elements, slideWidth, columns, space)
	ordered := ReadingOrder(cols)

	var (
		texts []string
		sizes []float64
	)
	for _, e := range ordered {
		text := e.Text()
		if text == "" {
			continue
		}
		texts = append(texts, text)
		sizes = append(sizes, a.classifier.FontSize(e.Node))
	}

	thresholds := a.classifier.Thresholds(sizes)

	content := Content{
		PlainText:     make([]string, 0, len(texts)),
		FormattedText: make([]model.TextItem, 0, len(texts)),
		Thresholds:    thresholds,
		Columns:       cols,
	}
	for i, text := range texts {
		level := a.classifier.Classify(thresholds, sizes[i])
		content.PlainText = append(content.PlainText, text)
		content.FormattedText = append(content.FormattedText, Render(text, level))
	}

	return content
}
