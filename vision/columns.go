package vision

import "github.com/tsawler/deckreader/model"

// slab is a horizontal range of pixel columns that contain ink
type slab struct {
	left, right int // [left, right)
}

// columnLayout derives columns from vertical whitespace. Pixel columns with
// ink are grouped into slabs; gaps between slabs at least MinGapRatio of the
// width wide are gutters. The first column starts at 0 and every later one
// at the center of the gutter before it. Returns nil for blank images.
func (a *Analyzer) columnLayout(m *inkMap) *model.ColumnLayout {
	counts := make([]int, m.width)
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if m.at(x, y) {
				counts[x]++
			}
		}
	}

	slabs := inkSlabs(counts)
	if len(slabs) == 0 {
		return nil
	}

	minGap := a.config.MinGapRatio * float64(m.width)
	merged := mergeSlabs(slabs, minGap)

	// Limit to MaxColumns by dropping the narrowest gutters
	for len(merged) > a.config.MaxColumns {
		narrowest := 0
		for i := 1; i < len(merged)-1; i++ {
			if merged[i+1].left-merged[i].right < merged[narrowest+1].left-merged[narrowest].right {
				narrowest = i
			}
		}
		merged[narrowest].right = merged[narrowest+1].right
		merged = append(merged[:narrowest+1], merged[narrowest+2:]...)
	}

	layout := &model.ColumnLayout{ColumnCount: len(merged)}

	starts := make([]float64, len(merged))
	for i := 1; i < len(merged); i++ {
		gapLeft, gapRight := merged[i-1].right, merged[i].left
		starts[i] = float64(gapLeft+gapRight) / 2
		layout.WhitespaceRegions = append(layout.WhitespaceRegions, model.WhitespaceRegion{
			X:     float64(gapLeft),
			Width: float64(gapRight - gapLeft),
		})
	}

	for i, s := range merged {
		end := float64(m.width)
		if i+1 < len(merged) {
			end = starts[i+1]
		}

		var inked int
		for x := s.left; x < s.right; x++ {
			inked += counts[x]
		}
		area := float64(s.right-s.left) * float64(m.height)

		layout.Columns = append(layout.Columns, model.LayoutColumn{
			X:              starts[i],
			Width:          end - starts[i],
			ContentDensity: float64(inked) / area,
		})
	}

	return layout
}

// inkSlabs returns the runs of pixel columns with a non-zero ink count
func inkSlabs(counts []int) []slab {
	var slabs []slab
	start := -1
	for x, c := range counts {
		switch {
		case c > 0 && start < 0:
			start = x
		case c == 0 && start >= 0:
			slabs = append(slabs, slab{left: start, right: x})
			start = -1
		}
	}
	if start >= 0 {
		slabs = append(slabs, slab{left: start, right: len(counts)})
	}
	return slabs
}

// mergeSlabs joins slabs separated by less than minGap. Input is ordered
// left to right.
func mergeSlabs(slabs []slab, minGap float64) []slab {
	if len(slabs) == 0 {
		return nil
	}

	merged := []slab{slabs[0]}
	for _, current := range slabs[1:] {
		last := &merged[len(merged)-1]
		if float64(current.left-last.right) < minGap {
			last.right = current.right
			continue
		}
		merged = append(merged, current)
	}

	return merged
}
