package spatial

import (
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

type dirtyObject struct {
	obj   Object
	entry entry
}

// Rearrange refreshes the footprint of every dirty object and re-registers those whose
// footprint changed; returns how many were re-registered
// An object is dirty when HasMoved (or HasResized) reports true, or always under RecheckAll
// Call once per tick after positions are updated and before queries
func (idx *Index) Rearrange() int {
	start := time.Now()

	dirty := make([]dirtyObject, 0, 64)
	idx.objects.Range(func(obj Object, e entry) bool {
		if isDirty(obj, idx.recheckAll) {
			dirty = append(dirty, dirtyObject{obj: obj, entry: e})
		}
		return true
	})

	var moved int
	if idx.workers > 1 && len(dirty) >= idx.parallelThreshold && len(dirty) > rearrangeChunk {
		moved = idx.rearrangeParallel(dirty)
	} else {
		for _, d := range dirty {
			if idx.rehash(d) {
				moved++
			}
		}
	}

	idx.metrics.passes.Add(1)
	idx.metrics.rearrangeMs.Set(float64(time.Since(start).Microseconds()) / 1000)
	return moved
}

// rearrangeChunk is the number of dirty objects one worker task rehashes
const rearrangeChunk = 64

// rearrangeParallel rehashes dirty objects in fixed-size chunks, at most idx.workers at a time
// Each object's rehash touches only its own member entries, so chunks need no coordination
func (idx *Index) rearrangeParallel(dirty []dirtyObject) int {
	var moved atomic.Int64

	// SetLimit makes Go block once every worker is busy, so a large pass queues chunks
	// instead of spawning a goroutine per chunk
	var g errgroup.Group
	g.SetLimit(idx.workers)
	for lo := 0; lo < len(dirty); lo += rearrangeChunk {
		part := dirty[lo:min(lo+rearrangeChunk, len(dirty))]
		g.Go(func() error {
			var n int64
			for _, d := range part {
				if idx.rehash(d) {
					n++
				}
			}
			moved.Add(n)
			return nil
		})
	}

	_ = g.Wait() // Tasks always return nil; Wait only joins them
	return int(moved.Load())
}

func (idx *Index) rehash(d dirtyObject) bool {
	fp := FootprintRange(d.obj.Bounding(), idx.cellSize)
	return idx.move(d.obj, d.entry, fp)
}
