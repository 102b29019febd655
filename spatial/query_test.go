package spatial

import (
	"math/rand"
	"testing"

	"github.com/lixenwraith/gridhash/vmath"
)

// populate fills idx with n objects on an integer lattice so that edges often touch cell
// boundaries exactly
func populate(idx *Index, rng *rand.Rand, n int) []*testObject {
	objs := make([]*testObject, n)
	for i := range objs {
		objs[i] = newTestObject("r",
			float64(rng.Intn(1000)-500), float64(rng.Intn(1000)-500),
			float64(rng.Intn(90)), float64(rng.Intn(90)))
		idx.Add(objs[i])
	}
	return objs
}

func TestQueryRectangleMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	idx := mustIndex(t, 50)
	objs := populate(idx, rng, 400)

	for round := 0; round < 4; round++ {
		for q := 0; q < 100; q++ {
			rect := vmath.R(
				float64(rng.Intn(1200)-600), float64(rng.Intn(1200)-600),
				float64(rng.Intn(300)), float64(rng.Intn(300)))

			got := objectSet(t, idx.QueryRectangle(rect, nil))
			for _, o := range objs {
				want := rect.Intersects(o.Bounding())
				if got[o] != want {
					t.Fatalf("Round %d: rect %v vs %v: got %v, want %v", round, rect, o.rect, got[o], want)
				}
			}
		}

		// Move a third of the objects and re-index before the next round
		for i, o := range objs {
			o.moved = false
			if i%3 == round%3 {
				o.moveTo(o.rect.X+float64(rng.Intn(200)-100), o.rect.Y+float64(rng.Intn(200)-100))
			}
		}
		idx.Rearrange()
	}
}

func TestQueryRadiusMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	idx := mustIndex(t, 64)
	objs := populate(idx, rng, 300)

	for q := 0; q < 200; q++ {
		circle := vmath.Circle{
			Center: vmath.V2(float64(rng.Intn(1200)-600), float64(rng.Intn(1200)-600)),
			Radius: float64(rng.Intn(200)),
		}
		got := objectSet(t, idx.QueryRadius(circle.Center, circle.Radius, false, nil))
		for _, o := range objs {
			if want := circle.IntersectsRect(o.Bounding()); got[o] != want {
				t.Fatalf("Circle %+v vs %v: got %v, want %v", circle, o.rect, got[o], want)
			}
		}
	}
}

func TestQueryRadiusBoundaryInclusive(t *testing.T) {
	idx := mustIndex(t, 100)
	edge := newTestObject("edge", 50, 0, 0, 0)
	outside := newTestObject("outside", 50.5, 0, 0, 0)
	idx.Add(edge)
	idx.Add(outside)

	got := idx.QueryRadius(vmath.V2(0, 0), 50, false, nil)
	if len(got) != 1 || got[0] != edge {
		t.Errorf("Expected only the object at distance 50, got %d results", len(got))
	}

	if got := idx.QueryRadius(vmath.V2(0, 0), -1, false, nil); len(got) != 0 {
		t.Errorf("Expected negative radius to return nothing, got %d", len(got))
	}
}

func TestQueryRadiusSortedByDistance(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	idx := mustIndex(t, 40)
	populate(idx, rng, 300)

	center := vmath.V2(25, -30)
	got := idx.QueryRadius(center, 250, true, nil)
	if len(got) < 10 {
		t.Fatalf("Expected a meaningful result set, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		prev, cur := SurfaceDistance(center, got[i-1]), SurfaceDistance(center, got[i])
		if cur < prev {
			t.Fatalf("Result %d out of order: %v after %v", i, cur, prev)
		}
	}
}

func TestQueriesAppendToCallerSlice(t *testing.T) {
	idx := mustIndex(t, 100)
	sentinel := newTestObject("sentinel", 9000, 9000, 1, 1)
	near := newTestObject("near", 5, 5, 1, 1)
	idx.Add(near)

	out := make([]Object, 0, 4)
	out = append(out, sentinel)

	out = idx.QueryRadius(vmath.V2(0, 0), 100, true, out)
	out = idx.QueryRectangle(vmath.R(0, 0, 10, 10), out)
	out = idx.QueryBucket(vmath.V2(1, 1), out)

	if len(out) != 4 || out[0] != sentinel {
		t.Fatalf("Expected sentinel kept and 3 appended results, got %d", len(out))
	}
	for _, o := range out[1:] {
		if o != near {
			t.Errorf("Unexpected result %s", nameOf(o))
		}
	}
}

func TestQueryBucketIsUnfiltered(t *testing.T) {
	idx := mustIndex(t, 100)
	a := newTestObject("A", 10, 10, 5, 5)
	b := newTestObject("B", 80, 80, 5, 5)
	c := newTestObject("C", 150, 10, 5, 5)
	idx.Add(a)
	idx.Add(b)
	idx.Add(c)

	got := objectSet(t, idx.QueryBucket(vmath.V2(99, 0), nil))
	if len(got) != 2 || !got[a] || !got[b] {
		t.Errorf("Expected A and B in bucket (0,0), got %d objects", len(got))
	}
	if got := idx.QueryBucket(vmath.V2(-1, -1), nil); len(got) != 0 {
		t.Errorf("Expected missing cell to yield nothing, got %d", len(got))
	}
}

func TestTypedQueries(t *testing.T) {
	idx := mustIndex(t, 100)
	plain := newTestObject("plain", 10, 10, 5, 5)
	tagged := &taggedObject{testObject: *newTestObject("tagged", 20, 20, 5, 5), tag: "enemy"}
	idx.Add(plain)
	idx.Add(tagged)

	var found []*taggedObject
	found = RadiusOf(idx, vmath.V2(0, 0), 100, true, found)
	found = RectangleOf(idx, vmath.R(0, 0, 50, 50), found)
	found = BucketOf(idx, vmath.V2(1, 1), found)

	if len(found) != 3 {
		t.Fatalf("Expected tagged object from each query, got %d", len(found))
	}
	for _, f := range found {
		if f != tagged || f.tag != "enemy" {
			t.Errorf("Unexpected typed result %+v", f)
		}
	}

	all := RectangleOf[*testObject](idx, vmath.R(0, 0, 50, 50), nil)
	if len(all) != 1 || all[0] != plain {
		t.Errorf("Expected only the plain object for *testObject, got %d", len(all))
	}
}

func TestSparseQueryIteratesLiveCells(t *testing.T) {
	idx := mustIndex(t, 10)
	a := newTestObject("A", 1e6, -1e6, 1, 1)
	idx.Add(a)

	got := idx.QueryRectangle(vmath.R(-2e6, -2e6, 4e6, 4e6), nil)
	if len(got) != 1 || got[0] != a {
		t.Errorf("Expected the single far object, got %d", len(got))
	}
}

func TestQueriesSurviveHugeCoordinates(t *testing.T) {
	idx := mustIndex(t, 100)
	near := newTestObject("near", 10, 10, 5, 5)
	farPos := newTestObject("farPos", 1e25, 1e25, 5, 5)
	farNeg := newTestObject("farNeg", -1e25, -1e25, 5, 5)
	for _, o := range []*testObject{near, farPos, farNeg} {
		idx.Add(o)
	}

	// Far objects saturate to distinct cells instead of wrapping into one
	posFp, _ := idx.Footprint(farPos)
	negFp, _ := idx.Footprint(farNeg)
	if posFp == negFp {
		t.Fatalf("Opposite far objects share footprint %v", posFp)
	}
	if posFp.Min.X <= 0 || negFp.Min.X >= 0 {
		t.Errorf("Expected saturated footprints to keep their sign, got %v and %v", posFp, negFp)
	}

	for _, r := range []float64{1e10, 1e18, 1e21, 1e30} {
		got := objectSet(t, idx.QueryRadius(vmath.V2(0, 0), r, false, nil))
		if !got[near] {
			t.Errorf("Radius %g: expected near object", r)
		}

		rect := vmath.R(-r, -r, 2*r, 2*r)
		got = objectSet(t, idx.QueryRectangle(rect, nil))
		if !got[near] {
			t.Errorf("Rect ±%g: expected near object", r)
		}
		for _, far := range []*testObject{farPos, farNeg} {
			if want := rect.Intersects(far.Bounding()); got[far] != want {
				t.Errorf("Rect ±%g vs %s: got %v, want %v", r, far.name, got[far], want)
			}
		}
	}

	got := objectSet(t, idx.QueryRadius(vmath.V2(0, 0), 1e30, true, nil))
	if len(got) != 3 {
		t.Errorf("Expected every object within radius 1e30, got %d", len(got))
	}

	around := objectSet(t, idx.QueryRectangle(vmath.R(1e25-10, 1e25-10, 20, 20), nil))
	if len(around) != 1 || !around[farPos] {
		t.Errorf("Expected only farPos near (1e25,1e25), got %d objects", len(around))
	}
}

func TestCellsAndProbe(t *testing.T) {
	idx := mustIndex(t, 100)
	a := newTestObject("A", 10, 10, 5, 5)
	b := newTestObject("B", 120, 10, 5, 5)
	c := newTestObject("C", 10, 150, 5, 5)
	for _, o := range []*testObject{c, b, a} {
		idx.Add(o)
	}

	cells := idx.Cells()
	want := []CellCoord{{0, 0}, {1, 0}, {0, 1}}
	if len(cells) != len(want) {
		t.Fatalf("Expected %d cells, got %d", len(want), len(cells))
	}
	for i, info := range cells {
		if info.Coord != want[i] || info.Count != 1 {
			t.Errorf("Cell %d: got %+v, want coord %v", i, info, want[i])
		}
		if info.Bounds != info.Coord.Bounds(100) {
			t.Errorf("Cell %d: unexpected bounds %v", i, info.Bounds)
		}
	}

	p := idx.Probe(vmath.V2(20, 20), 140)
	if p.Cell != (CellCoord{0, 0}) {
		t.Errorf("Expected probe cell (0,0), got %v", p.Cell)
	}
	if len(p.Bucket) != 1 || p.Bucket[0] != a {
		t.Errorf("Expected bucket [A], got %d objects", len(p.Bucket))
	}
	if len(p.Square) != 3 {
		t.Errorf("Expected all 3 objects in the probe square, got %d", len(p.Square))
	}
	if len(p.Circle) == 0 || p.Circle[0] != a {
		t.Errorf("Expected A first in the radius lookup, got %d results", len(p.Circle))
	}
}

func BenchmarkQueryRadius(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	idx := mustIndex(b, 64)
	populate(idx, rng, 5000)
	out := make([]Object, 0, 256)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out = idx.QueryRadius(vmath.V2(float64(i%800-400), 0), 120, true, out[:0])
	}
}

func BenchmarkQueryRectangle(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	idx := mustIndex(b, 64)
	populate(idx, rng, 5000)
	out := make([]Object, 0, 256)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out = idx.QueryRectangle(vmath.R(float64(i%800-400), -100, 200, 200), out[:0])
	}
}

func BenchmarkRearrange(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	idx := mustIndex(b, 64)
	objs := populate(idx, rng, 5000)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d := float64(i%2*2 - 1)
		for _, o := range objs {
			o.moveTo(o.rect.X+d*3, o.rect.Y)
		}
		idx.Rearrange()
	}
}
