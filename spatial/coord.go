package spatial

import (
	"fmt"
	"math"

	"github.com/lixenwraith/gridhash/vmath"
)

// CellCoord identifies one grid cell: floor(world / cellSize) on each axis
type CellCoord struct {
	X, Y int
}

func (c CellCoord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Bounds returns the world rectangle covered by the cell
func (c CellCoord) Bounds(cellSize int) vmath.Rect {
	s := float64(cellSize)
	return vmath.Rect{X: float64(c.X) * s, Y: float64(c.Y) * s, W: s, H: s}
}

// CellRange is the half-open block of cells Min <= c < Max
type CellRange struct {
	Min, Max CellCoord
}

// Empty reports a range with no cells
func (r CellRange) Empty() bool {
	return r.Max.X <= r.Min.X || r.Max.Y <= r.Min.Y
}

// Len returns the number of cells, saturating at math.MaxInt
func (r CellRange) Len() int {
	if r.Empty() {
		return 0
	}
	w, h := uint64(r.Max.X-r.Min.X), uint64(r.Max.Y-r.Min.Y)
	if h != 0 && w > math.MaxInt/h {
		return math.MaxInt
	}
	return int(w * h)
}

// Contains reports whether c lies in the range
func (r CellRange) Contains(c CellCoord) bool {
	return c.X >= r.Min.X && c.X < r.Max.X && c.Y >= r.Min.Y && c.Y < r.Max.Y
}

// Intersect returns the overlap of two ranges, possibly empty
func (r CellRange) Intersect(o CellRange) CellRange {
	return CellRange{
		Min: CellCoord{max(r.Min.X, o.Min.X), max(r.Min.Y, o.Min.Y)},
		Max: CellCoord{min(r.Max.X, o.Max.X), min(r.Max.Y, o.Max.Y)},
	}
}

// Each visits every cell row by row
func (r CellRange) Each(fn func(CellCoord)) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			fn(CellCoord{x, y})
		}
	}
}

// Coords lists every cell row by row
func (r CellRange) Coords() []CellCoord {
	coords := make([]CellCoord, 0, r.Len())
	r.Each(func(c CellCoord) {
		coords = append(coords, c)
	})
	return coords
}

// HashPoint maps a world position to its cell
func HashPoint(p vmath.Vec2, cellSize int) CellCoord {
	return CellCoord{vmath.FloorDiv(p.X, cellSize), vmath.FloorDiv(p.Y, cellSize)}
}

// FootprintRange returns the cells overlapped by a bounding rectangle:
// floor(topLeft / size) to ceil(bottomRight / size), exclusive
// A degenerate rectangle still occupies its top-left cell
func FootprintRange(b vmath.Rect, cellSize int) CellRange {
	r := CellRange{
		Min: CellCoord{vmath.FloorDiv(b.Left(), cellSize), vmath.FloorDiv(b.Top(), cellSize)},
		Max: CellCoord{vmath.CeilDiv(b.Right(), cellSize), vmath.CeilDiv(b.Bottom(), cellSize)},
	}
	if r.Max.X <= r.Min.X {
		r.Max.X = r.Min.X + 1
	}
	if r.Max.Y <= r.Min.Y {
		r.Max.Y = r.Min.Y + 1
	}
	return r
}

// Footprint lists the cells overlapped by a bounding rectangle
func Footprint(b vmath.Rect, cellSize int) []CellCoord {
	return FootprintRange(b, cellSize).Coords()
}

// queryRange returns every cell whose closed square touches the closed rectangle b
// Footprints cover their closed bounding rectangle, so an object touching b is always
// registered in at least one cell of this range
func queryRange(b vmath.Rect, cellSize int) CellRange {
	return CellRange{
		Min: CellCoord{vmath.CeilDiv(b.Left(), cellSize) - 1, vmath.CeilDiv(b.Top(), cellSize) - 1},
		Max: CellCoord{vmath.FloorDiv(b.Right(), cellSize) + 1, vmath.FloorDiv(b.Bottom(), cellSize) + 1},
	}
}

func finiteRect(b vmath.Rect) bool {
	for _, v := range [...]float64{b.X, b.Y, b.W, b.H} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return b.W >= 0 && b.H >= 0
}
