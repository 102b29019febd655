package spatial

import (
	"fmt"
	"sync"
	"testing"

	"github.com/lixenwraith/gridhash/vmath"
)

func TestConcurrentAddRemoveSharedCells(t *testing.T) {
	idx := mustIndex(t, 50)
	const goroutines = 8
	const perWorker = 200

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			objs := make([]*testObject, perWorker)
			for i := range objs {
				// Overlapping positions across goroutines force shared cells
				objs[i] = newTestObject(fmt.Sprintf("g%d-%d", g, i), float64(i%10)*20, float64(i%7)*20, 30, 30)
				idx.Add(objs[i])
			}
			for _, o := range objs {
				idx.Remove(o)
			}
		}(g)
	}
	wg.Wait()

	if n := idx.Count(); n != 0 {
		t.Errorf("Expected no tracked objects, got %d", n)
	}
	if n := idx.CellCount(); n != 0 {
		t.Errorf("Expected all cells reclaimed, got %d", n)
	}
}

func TestConcurrentChurnWithQueries(t *testing.T) {
	idx := mustIndex(t, 40)

	// Stable objects must be visible to every query regardless of churn
	stable := make([]*testObject, 20)
	for i := range stable {
		stable[i] = newTestObject("stable", float64(i)*15, 0, 10, 10)
		idx.Add(stable[i])
	}
	probe := vmath.R(0, 0, 300, 10)

	stop := make(chan struct{})
	var churners sync.WaitGroup
	for g := 0; g < 4; g++ {
		churners.Add(1)
		go func(g int) {
			defer churners.Done()
			for i := 0; ; i++ {
				select {
				case <-stop:
					return
				default:
				}
				o := newTestObject("churn", float64((i*13+g*7)%300), float64((i*3)%20), 12, 12)
				idx.Add(o)
				idx.Remove(o)
			}
		}(g)
	}

	errs := make(chan error, 4)
	var queriers sync.WaitGroup
	for q := 0; q < 4; q++ {
		queriers.Add(1)
		go func() {
			defer queriers.Done()
			out := make([]Object, 0, 64)
			for i := 0; i < 500; i++ {
				out = idx.QueryRectangle(probe, out[:0])
				seen := make(map[Object]bool, len(out))
				for _, o := range out {
					if seen[o] {
						errs <- fmt.Errorf("duplicate result %s", nameOf(o))
						return
					}
					seen[o] = true
				}
				for _, s := range stable {
					if !seen[s] {
						errs <- fmt.Errorf("stable object at %v missing", s.rect)
						return
					}
				}
			}
		}()
	}

	queriers.Wait()
	close(stop)
	churners.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	if n := idx.Count(); n != len(stable) {
		t.Errorf("Expected %d objects after churn, got %d", len(stable), n)
	}
}

func TestConcurrentRearrangeAndQuery(t *testing.T) {
	idx := mustIndex(t, 32)
	objs := make([]*testObject, 300)
	for i := range objs {
		objs[i] = newTestObject("mover", float64(i%30)*20, float64(i/30)*20, 8, 8)
		idx.Add(objs[i])
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		// Bucket and cell listings read no object state
		for i := 0; i < 200; i++ {
			idx.QueryBucket(vmath.V2(300, 100), nil)
			idx.Cells()
		}
	}()

	// Movement is single-writer; only the index is shared with the reader
	for round := 1; round <= 20; round++ {
		for i, o := range objs {
			o.rect.X = float64(i%30)*20 + float64(round)
			o.moved = true
		}
		idx.Rearrange()
	}
	wg.Wait()

	for _, o := range objs {
		o.moved = false
		assertFootprintCoverage(t, idx, o)
	}
}
