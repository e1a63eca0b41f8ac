package analysis

import (
	"github.com/tsawler/deckreader/layout"
	"github.com/tsawler/deckreader/model"
)

// FilterImageRegions removes elements whose center lies inside an image
// region. Centers are converted from slide space into the analysis space the
// regions were measured in. Text regions never remove anything, and with no
// regions every element passes through.
func FilterImageRegions(elements []layout.Element, regions []model.ContentRegion, space model.AnalysisSpace) []layout.Element {
	var images []model.BBox
	for _, r := range regions {
		if r.Kind == model.RegionImage {
			images = append(images, r.BBox)
		}
	}
	if len(images) == 0 {
		return elements
	}

	kept := make([]layout.Element, 0, len(elements))
	for _, e := range elements {
		center := space.ToAnalysis(e.Center())
		if insideAny(images, center) {
			continue
		}
		kept = append(kept, e)
	}

	return kept
}

func insideAny(boxes []model.BBox, p model.Point) bool {
	for _, b := range boxes {
		if b.Contains(p) {
			return true
		}
	}
	return false
}
