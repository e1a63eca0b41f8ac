package vision

import "github.com/tsawler/deckreader/model"

// cellGrid holds the inked fraction of each square cell of an ink map
type cellGrid struct {
	cols, rows int
	size       int
	fill       []float64
}

func newCellGrid(m *inkMap, size int) *cellGrid {
	g := &cellGrid{
		cols: (m.width + size - 1) / size,
		rows: (m.height + size - 1) / size,
		size: size,
	}
	g.fill = make([]float64, g.cols*g.rows)

	for cy := 0; cy < g.rows; cy++ {
		for cx := 0; cx < g.cols; cx++ {
			x0, y0 := cx*size, cy*size
			x1, y1 := min(x0+size, m.width), min(y0+size, m.height)

			var inked int
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					if m.at(x, y) {
						inked++
					}
				}
			}
			g.fill[cy*g.cols+cx] = float64(inked) / float64((x1-x0)*(y1-y0))
		}
	}

	return g
}

// imageRegions groups densely inked cells into 4-connected components and
// reports each large enough component as a picture. Confidence is the mean
// fill of the component's cells.
func (a *Analyzer) imageRegions(m *inkMap) []model.ContentRegion {
	if m.width == 0 || m.height == 0 {
		return nil
	}

	grid := newCellGrid(m, a.config.CellSize)
	dense := func(i int) bool { return grid.fill[i] >= a.config.DenseFill }

	seen := make([]bool, len(grid.fill))
	var regions []model.ContentRegion

	for start := range grid.fill {
		if seen[start] || !dense(start) {
			continue
		}

		minX, minY := grid.cols, grid.rows
		maxX, maxY := -1, -1
		var cells int
		var fill float64

		stack := []int{start}
		seen[start] = true
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			cx, cy := i%grid.cols, i/grid.cols
			minX, maxX = min(minX, cx), max(maxX, cx)
			minY, maxY = min(minY, cy), max(maxY, cy)
			cells++
			fill += grid.fill[i]

			for _, n := range neighbours(grid, cx, cy) {
				if !seen[n] && dense(n) {
					seen[n] = true
					stack = append(stack, n)
				}
			}
		}

		if cells < a.config.MinImageCells {
			continue
		}

		x0, y0 := minX*grid.size, minY*grid.size
		x1, y1 := min((maxX+1)*grid.size, m.width), min((maxY+1)*grid.size, m.height)
		regions = append(regions, model.ContentRegion{
			BBox:       model.NewBBox(float64(x0), float64(y0), float64(x1-x0), float64(y1-y0)),
			Kind:       model.RegionImage,
			Confidence: fill / float64(cells),
		})
	}

	return regions
}

func neighbours(g *cellGrid, cx, cy int) []int {
	out := make([]int, 0, 4)
	if cx > 0 {
		out = append(out, cy*g.cols+cx-1)
	}
	if cx < g.cols-1 {
		out = append(out, cy*g.cols+cx+1)
	}
	if cy > 0 {
		out = append(out, (cy-1)*g.cols+cx)
	}
	if cy < g.rows-1 {
		out = append(out, (cy+1)*g.cols+cx)
	}
	return out
}
