package recognizer

import (
	"container/list"
	"sort"
)

// Detection postprocessing: the detection model produces a per-pixel text
// probability map. Thresholding it and labeling 4-connected components yields
// one axis-aligned region per text fragment.

// region is an axis-aligned text region in original-image coordinates.
type region struct {
	minX, minY, maxX, maxY int
	confidence             float64
}

func (r region) width() int  { return r.maxX - r.minX + 1 }
func (r region) height() int { return r.maxY - r.minY + 1 }

func binarize(prob []float32, threshold float32) []bool {
	mask := make([]bool, len(prob))
	for i, p := range prob {
		if p >= threshold {
			mask[i] = true
		}
	}
	return mask
}

type componentStats struct {
	count                  int
	sum                    float64
	minX, minY, maxX, maxY int
}

// connectedComponents labels 4-connected foreground components with BFS and
// returns per-component pixel counts, probability sums, and bounding boxes.
func connectedComponents(mask []bool, prob []float32, w, h int) []componentStats {
	visited := make([]bool, w*h)
	var comps []componentStats

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if !mask[idx] || visited[idx] {
				continue
			}
			comps = append(comps, componentBFS(mask, prob, visited, w, h, x, y))
		}
	}
	return comps
}

func componentBFS(mask []bool, prob []float32, visited []bool, w, h, startX, startY int) componentStats {
	st := componentStats{minX: startX, minY: startY, maxX: startX, maxY: startY}
	start := startY*w + startX
	visited[start] = true

	q := list.New()
	q.PushBack(start)
	dirs := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

	for q.Len() > 0 {
		e := q.Front()
		q.Remove(e)
		ci, ok := e.Value.(int)
		if !ok {
			continue
		}
		cx, cy := ci%w, ci/w

		st.count++
		st.sum += float64(prob[ci])
		if cx < st.minX {
			st.minX = cx
		}
		if cy < st.minY {
			st.minY = cy
		}
		if cx > st.maxX {
			st.maxX = cx
		}
		if cy > st.maxY {
			st.maxY = cy
		}

		for _, d := range dirs {
			nx, ny := cx+d[0], cy+d[1]
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			ni := ny*w + nx
			if mask[ni] && !visited[ni] {
				visited[ni] = true
				q.PushBack(ni)
			}
		}
	}
	return st
}

// regionsFromProbMap thresholds the probability map, labels components, and
// returns their bounding boxes scaled back to original-image coordinates.
// Components below minArea pixels are discarded as noise.
func regionsFromProbMap(prob []float32, w, h int, threshold float32, minArea int, scaleX, scaleY float64) []region {
	mask := binarize(prob, threshold)
	comps := connectedComponents(mask, prob, w, h)

	regions := make([]region, 0, len(comps))
	for _, c := range comps {
		if c.count < minArea {
			continue
		}
		regions = append(regions, region{
			minX:       int(float64(c.minX) * scaleX),
			minY:       int(float64(c.minY) * scaleY),
			maxX:       int(float64(c.maxX+1)*scaleX) - 1,
			maxY:       int(float64(c.maxY+1)*scaleY) - 1,
			confidence: c.sum / float64(c.count),
		})
	}
	return regions
}

// groupIntoRows orders regions into reading order: regions whose vertical
// centers fall within half a region height of each other form one row, rows
// run top to bottom, and regions within a row run left to right.
func groupIntoRows(regions []region) [][]region {
	if len(regions) == 0 {
		return nil
	}
	sorted := make([]region, len(regions))
	copy(sorted, regions)
	sort.Slice(sorted, func(i, j int) bool {
		yi := sorted[i].minY + sorted[i].height()/2
		yj := sorted[j].minY + sorted[j].height()/2
		if yi != yj {
			return yi < yj
		}
		return sorted[i].minX < sorted[j].minX
	})

	var rows [][]region
	for _, r := range sorted {
		placed := false
		if len(rows) > 0 {
			last := rows[len(rows)-1]
			anchor := last[0]
			tol := anchor.height()
			if tol < r.height() {
				tol = r.height()
			}
			dy := (r.minY + r.height()/2) - (anchor.minY + anchor.height()/2)
			if dy < 0 {
				dy = -dy
			}
			if dy <= tol/2 {
				rows[len(rows)-1] = append(last, r)
				placed = true
			}
		}
		if !placed {
			rows = append(rows, []region{r})
		}
	}

	for _, row := range rows {
		sort.Slice(row, func(i, j int) bool { return row[i].minX < row[j].minX })
	}
	return rows
}
