package spatial

import (
	"cmp"
	"slices"

	"github.com/colega/zeropool"

	"github.com/lixenwraith/gridhash/vmath"
)

// resultPool backs the typed query helpers
var resultPool = zeropool.New(func() []Object {
	return make([]Object, 0, 64)
})

// QueryRadius appends to out every object whose bounding rectangle intersects the circle
// (boundary inclusive) and returns the extended slice; each object appears once
// If sorted, the appended results are ordered by distance to center minus the object's largest
// half extent, a cheap surface-distance estimate; ties are in no particular order
func (idx *Index) QueryRadius(center vmath.Vec2, radius float64, sorted bool, out []Object) []Object {
	circle := vmath.Circle{Center: center, Radius: radius}
	bounds := circle.Bounds()
	if radius < 0 || !finiteRect(bounds) {
		return out
	}

	q := queryRange(bounds, idx.cellSize)
	start := len(out)
	out = idx.visit(q, out, func(coord CellCoord, m *member) bool {
		return owns(coord, m, q) && circle.IntersectsRect(m.obj.Bounding())
	})

	if sorted {
		SortByDistance(center, out[start:])
	}
	return out
}

// QueryRectangle appends to out every object whose bounding rectangle intersects rect
// (edges inclusive) and returns the extended slice; each object appears once
func (idx *Index) QueryRectangle(rect vmath.Rect, out []Object) []Object {
	if !finiteRect(rect) {
		return out
	}

	q := queryRange(rect, idx.cellSize)
	return idx.visit(q, out, func(coord CellCoord, m *member) bool {
		return owns(coord, m, q) && rect.Intersects(m.obj.Bounding())
	})
}

// QueryBucket appends every object registered in the cell containing p, without geometric
// filtering
func (idx *Index) QueryBucket(p vmath.Vec2, out []Object) []Object {
	cell, ok := idx.cells.Load(idx.Hash(p))
	if !ok {
		return out
	}
	return cell.collectMatching(nil, out)
}

// SortByDistance orders objs by distance(center, position) minus the largest half extent
func SortByDistance(center vmath.Vec2, objs []Object) {
	slices.SortFunc(objs, func(a, b Object) int {
		return cmp.Compare(SurfaceDistance(center, a), SurfaceDistance(center, b))
	})
}

// SurfaceDistance estimates the distance from p to obj's surface
func SurfaceDistance(p vmath.Vec2, obj Object) float64 {
	return p.Distance(obj.Position()) - obj.Bounding().MaxHalfExtent()
}

// RadiusOf is QueryRadius keeping only objects of type T
func RadiusOf[T Object](idx *Index, center vmath.Vec2, radius float64, sorted bool, out []T) []T {
	buf := resultPool.Get()
	buf = idx.QueryRadius(center, radius, sorted, buf[:0])
	out = appendOf(out, buf)
	release(buf)
	return out
}

// RectangleOf is QueryRectangle keeping only objects of type T
func RectangleOf[T Object](idx *Index, rect vmath.Rect, out []T) []T {
	buf := resultPool.Get()
	buf = idx.QueryRectangle(rect, buf[:0])
	out = appendOf(out, buf)
	release(buf)
	return out
}

// BucketOf is QueryBucket keeping only objects of type T
func BucketOf[T Object](idx *Index, p vmath.Vec2, out []T) []T {
	buf := resultPool.Get()
	buf = idx.QueryBucket(p, buf[:0])
	out = appendOf(out, buf)
	release(buf)
	return out
}

func appendOf[T Object](out []T, objs []Object) []T {
	for _, o := range objs {
		if t, ok := o.(T); ok {
			out = append(out, t)
		}
	}
	return out
}

func release(buf []Object) {
	clear(buf)
	resultPool.Put(buf[:0])
}

// owns reports whether coord is the first cell, row-major, shared by the member's footprint
// and the query range; a multi-cell object is reported only from that cell
func owns(coord CellCoord, m *member, q CellRange) bool {
	return m.footprint.Intersect(q).Min == coord
}

// visit collects matching members from every live cell in q
// Sparse worlds with a large query range iterate the live cells instead of the range
func (idx *Index) visit(q CellRange, out []Object, keep func(CellCoord, *member) bool) []Object {
	if q.Empty() {
		return out
	}

	// Sparse path: fewer live cells than cells in range
	if q.Len() > idx.cells.Size() {
		idx.cells.Range(func(coord CellCoord, cell *Cell) bool {
			if q.Contains(coord) {
				out = cell.collectMatching(keep, out)
			}
			return true
		})
		return out
	}

	// Dense path: probe each coordinate in range
	q.Each(func(coord CellCoord) {
		if cell, ok := idx.cells.Load(coord); ok {
			out = cell.collectMatching(keep, out)
		}
	})
	return out
}
