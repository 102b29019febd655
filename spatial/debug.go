package spatial

import (
	"cmp"
	"slices"

	"github.com/lixenwraith/gridhash/vmath"
)

// CellInfo describes one live cell for visualization tools
type CellInfo struct {
	Coord  CellCoord
	Bounds vmath.Rect
	Count  int
}

// RangeCells calls fn for every non-empty cell in unspecified order until fn returns false
func (idx *Index) RangeCells(fn func(CellInfo) bool) {
	idx.cells.Range(func(coord CellCoord, cell *Cell) bool {
		n := cell.Len()
		if n == 0 {
			return true
		}
		return fn(CellInfo{Coord: coord, Bounds: cell.Bounds(), Count: n})
	})
}

// Cells returns every non-empty cell ordered by row, then column
func (idx *Index) Cells() []CellInfo {
	infos := make([]CellInfo, 0, idx.cells.Size())
	idx.RangeCells(func(info CellInfo) bool {
		infos = append(infos, info)
		return true
	})
	slices.SortFunc(infos, func(a, b CellInfo) int {
		if c := cmp.Compare(a.Coord.Y, b.Coord.Y); c != 0 {
			return c
		}
		return cmp.Compare(a.Coord.X, b.Coord.X)
	})
	return infos
}

// ProbeResult holds the three lookups debug views draw around a probe point
type ProbeResult struct {
	At     vmath.Vec2
	Radius float64
	Cell   CellCoord

	Bucket []Object // Members of the probe's cell
	Square []Object // Rectangle query over the square enclosing the probe circle
	Circle []Object // Sorted radius query
}

// Probe runs a bucket, rectangle and radius lookup around at
func (idx *Index) Probe(at vmath.Vec2, radius float64) ProbeResult {
	return ProbeResult{
		At:     at,
		Radius: radius,
		Cell:   idx.Hash(at),
		Bucket: idx.QueryBucket(at, nil),
		Square: idx.QueryRectangle(vmath.RectFromCenter(at, radius, radius), nil),
		Circle: idx.QueryRadius(at, radius, true, nil),
	}
}
