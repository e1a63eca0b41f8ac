// Package analysis connects slide extraction to an optional image-based
// analysis of each slide.
//
// A [Client] exports a downsampled render of a slide and hands it to an
// [Analyzer] in the background. The analyzer's [Result] is delivered out of
// band into a [Cache] keyed by slide id. Extraction waits for it with a
// bound:
//
//	cache := analysis.NewCache()
//	_ = client.Request(ctx, slide, space, cache)
//	result, err := cache.Await(ctx, slide.ID(), 200*time.Millisecond)
//	if err != nil {
//	    // no analysis for this slide: default layout applies
//	}
//
// Delivered results feed two stages: [FilterImageRegions] drops text that
// sits inside detected pictures, and the result's column layout replaces the
// default two-band split when segmenting columns.
package analysis
