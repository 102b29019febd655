package spatial

import (
	"sort"
	"testing"

	"github.com/lixenwraith/gridhash/vmath"
)

// testObject is a minimal Object whose position is the center of its bounding rectangle
type testObject struct {
	name    string
	rect    vmath.Rect
	moved   bool
	resized bool
}

func newTestObject(name string, x, y, w, h float64) *testObject {
	return &testObject{name: name, rect: vmath.R(x, y, w, h)}
}

func (o *testObject) Position() vmath.Vec2 { return o.rect.Center() }
func (o *testObject) Bounding() vmath.Rect { return o.rect }
func (o *testObject) HasMoved() bool       { return o.moved }

// moveTo relocates the object and flags it as moved
func (o *testObject) moveTo(x, y float64) {
	o.rect.X, o.rect.Y = x, y
	o.moved = true
}

// resizableObject reports size changes separately from movement
type resizableObject struct {
	testObject
}

func (o *resizableObject) HasResized() bool { return o.resized }

// taggedObject is a second concrete type for typed query tests
type taggedObject struct {
	testObject
	tag string
}

// cellsContaining scans the live cells for obj
func cellsContaining(idx *Index, obj Object) []CellCoord {
	var coords []CellCoord
	idx.cells.Range(func(coord CellCoord, cell *Cell) bool {
		cell.mu.Lock()
		for _, m := range cell.members {
			if m.obj == obj {
				coords = append(coords, coord)
				break
			}
		}
		cell.mu.Unlock()
		return true
	})
	sortCoords(coords)
	return coords
}

func sortCoords(coords []CellCoord) {
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Y != coords[j].Y {
			return coords[i].Y < coords[j].Y
		}
		return coords[i].X < coords[j].X
	})
}

func equalCoords(a, b []CellCoord) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// assertFootprintCoverage checks that obj is registered exactly in the cells of its footprint
func assertFootprintCoverage(t *testing.T, idx *Index, obj *testObject) {
	t.Helper()
	want := Footprint(obj.Bounding(), idx.CellSize())
	sortCoords(want)
	got := cellsContaining(idx, obj)
	if !equalCoords(got, want) {
		t.Errorf("Object %s registered in %v, expected %v", obj.name, got, want)
	}
}

// objectSet converts a result list into a set, failing on duplicates
func objectSet(t *testing.T, objs []Object) map[Object]bool {
	t.Helper()
	set := make(map[Object]bool, len(objs))
	for _, o := range objs {
		if set[o] {
			t.Errorf("Object %s reported more than once", nameOf(o))
		}
		set[o] = true
	}
	return set
}

func mustIndex(t testing.TB, cellSize int) *Index {
	t.Helper()
	idx, err := New(cellSize)
	if err != nil {
		t.Fatalf("New(%d) failed: %v", cellSize, err)
	}
	return idx
}

func nameOf(o Object) string {
	switch v := o.(type) {
	case *testObject:
		return v.name
	case *taggedObject:
		return v.name
	case *resizableObject:
		return v.name
	}
	return "?"
}
