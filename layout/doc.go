// Package layout recovers reading order and semantic structure from the
// positioned text elements of a single slide.
//
// # Pipeline
//
// [Collect] resolves a slide's visible, unlocked text leaves into
// slide-absolute [Element] values. The [Assembler] then:
//
//  1. segments elements into columns with the [Segmenter]
//  2. orders each column top to bottom and concatenates columns left to right
//  3. classifies each element's font size with the [Classifier]
//  4. renders each element as a [model.TextItem] with outline markup
//
// Usage:
//
//	elements := layout.Collect(slide)
//	content := layout.NewAssembler().Assemble(elements, slideWidth, nil, space)
//	for _, item := range content.FormattedText {
//	    fmt.Println(item.Markup)
//	}
//
// # Columns
//
// Without visual analysis the slide is split into two bands at 40% of its
// width. With an analysis [model.ColumnLayout] the column positions found on
// the downsampled render are scaled back into slide space and used as
// boundaries instead. Columns are never interleaved: everything in column 1
// reads before anything in column 2.
//
// # Levels
//
// Font sizes are clustered per slide into title, heading, subheading and
// body thresholds. Classification uses the midpoints between adjacent
// thresholds as cut lines. There is no global notion of a large or small
// size; each slide is judged against its own type scale.
package layout
