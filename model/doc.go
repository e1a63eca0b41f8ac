// Package model defines the data produced by slide text extraction.
//
// # Records
//
// A [SlideRecord] holds one slide's text in reading order, both as plain
// strings and as [TextItem] values carrying a semantic [Level] and the
// outline markup rendered for it:
//
//	for _, item := range record.FormattedText {
//	    fmt.Println(item.Markup) // "# Quarterly results"
//	}
//
// [FontThresholds] are the per-slide font-size cut-points the levels were
// derived from.
//
// # Visual analysis
//
// [ContentRegion] and [ColumnLayout] describe what an image-based analysis
// of a slide found. They are expressed in the pixel space of a downsampled
// render; [AnalysisSpace] converts between that space and slide coordinates.
//
// # Geometry
//
//   - [BBox] - bounding box with a top-left origin
//   - [Point] - 2D point with distance calculation
package model
