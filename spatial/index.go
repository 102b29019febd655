package spatial

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/lixenwraith/gridhash/status"
	"github.com/lixenwraith/gridhash/vmath"
)

// ErrInvalidCellSize is returned when an index is built with a non-positive cell size
var ErrInvalidCellSize = errors.New("spatial: cell size must be positive")

// entry is the recorded footprint of a tracked object
// Entries are immutable; a rehash stores a new one
type entry struct {
	handle    Handle
	footprint CellRange
}

// Index is a uniform-grid spatial hash
type Index struct {
	cellSize          int
	workers           int
	parallelThreshold int
	recheckAll        bool

	cells   *xsync.Map[CellCoord, *Cell]
	objects *xsync.Map[Object, entry]

	nextHandle atomic.Uint64

	status  *status.Registry
	metrics indexMetrics
}

// New creates an index with default configuration
func New(cellSize int) (*Index, error) {
	return NewWithConfig(DefaultConfig(cellSize))
}

// MustNew is New that panics on an invalid cell size
func MustNew(cellSize int) *Index {
	idx, err := New(cellSize)
	if err != nil {
		panic(err)
	}
	return idx
}

// NewWithConfig creates an index from cfg
func NewWithConfig(cfg *Config) (*Index, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", ErrInvalidCellSize)
	}
	if cfg.CellSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCellSize, cfg.CellSize)
	}

	reg := cfg.Status
	if reg == nil {
		reg = status.NewRegistry()
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	return &Index{
		cellSize:          cfg.CellSize,
		workers:           workers,
		parallelThreshold: cfg.ParallelThreshold,
		recheckAll:        cfg.RecheckAll,
		cells:             xsync.NewMap[CellCoord, *Cell](xsync.WithPresize(cfg.InitialCells)),
		objects:           xsync.NewMap[Object, entry](),
		status:            reg,
		metrics:           newIndexMetrics(reg),
	}, nil
}

// CellSize returns the fixed cell side length
func (idx *Index) CellSize() int {
	return idx.cellSize
}

// Status returns the registry holding the index metrics
func (idx *Index) Status() *status.Registry {
	return idx.status
}

// Count returns the number of tracked objects
func (idx *Index) Count() int {
	return idx.objects.Size()
}

// CellCount returns the number of live cells
func (idx *Index) CellCount() int {
	return idx.cells.Size()
}

// Contains reports whether obj is tracked
func (idx *Index) Contains(obj Object) bool {
	_, ok := idx.objects.Load(obj)
	return ok
}

// Footprint returns the cell range obj was last registered with
func (idx *Index) Footprint(obj Object) (CellRange, bool) {
	e, ok := idx.objects.Load(obj)
	return e.footprint, ok
}

// Hash maps a world position to its cell coordinate
func (idx *Index) Hash(p vmath.Vec2) CellCoord {
	return HashPoint(p, idx.cellSize)
}

// Add registers obj in every cell its bounding rectangle overlaps
// Adding an already tracked object re-syncs its footprint instead of duplicating it
func (idx *Index) Add(obj Object) {
	fp := FootprintRange(obj.Bounding(), idx.cellSize)

	// Already tracked: treat as a move to the current footprint
	if prev, ok := idx.objects.Load(obj); ok {
		idx.move(obj, prev, fp)
		return
	}

	e := entry{
		handle:    Handle(idx.nextHandle.Add(1)),
		footprint: fp,
	}
	// Join every footprint cell before publishing the entry
	m := member{handle: e.handle, obj: obj, footprint: fp}
	fp.Each(func(c CellCoord) {
		idx.join(c, m)
	})
	idx.objects.Store(obj, e)
	idx.metrics.added.Add(1)
}

// Remove deregisters obj from all its cells and reclaims cells it leaves empty
// Removing an untracked object is a no-op
func (idx *Index) Remove(obj Object) {
	// Claim the entry first so a concurrent Remove of the same object leaves once
	e, ok := idx.objects.LoadAndDelete(obj)
	if !ok {
		return
	}
	e.footprint.Each(func(c CellCoord) {
		idx.leave(c, e.handle)
	})
	idx.metrics.removed.Add(1)
}

// Clear drops every cell and forgets every tracked object
// Objects added before Clear must be added again; removing them is a no-op
func (idx *Index) Clear() {
	idx.cells.Clear()
	idx.objects.Clear()
}

// move re-registers obj from its recorded footprint to fp
// Cells in both ranges keep the member with its footprint refreshed
func (idx *Index) move(obj Object, prev entry, fp CellRange) bool {
	if prev.footprint == fp {
		return false
	}

	// Leave cells that are no longer covered
	prev.footprint.Each(func(c CellCoord) {
		if !fp.Contains(c) {
			idx.leave(c, prev.handle)
		}
	})
	// Join new cells; shared cells upsert so the stored footprint is current
	m := member{handle: prev.handle, obj: obj, footprint: fp}
	fp.Each(func(c CellCoord) {
		idx.join(c, m)
	})

	idx.objects.Store(obj, entry{handle: prev.handle, footprint: fp})
	idx.metrics.rehashed.Add(1)
	return true
}

// join adds m to the cell at coord, creating the cell if needed
// A cell reclaimed between lookup and insert is dropped and replaced
func (idx *Index) join(coord CellCoord, m member) {
	for {
		cell, _ := idx.cells.LoadOrCompute(coord, func() (*Cell, bool) {
			idx.metrics.cellsCreated.Add(1)
			return newCell(coord, idx.cellSize), false
		})
		if cell.add(m) {
			return
		}
		// Lost the race with the last leaver: unlink the dead cell and retry on a fresh one
		idx.dropCell(coord, cell)
	}
}

// leave removes handle h from the cell at coord and reclaims the cell once empty
func (idx *Index) leave(coord CellCoord, h Handle) {
	cell, ok := idx.cells.Load(coord)
	if !ok {
		return
	}
	if cell.remove(h) {
		idx.dropCell(coord, cell)
		idx.metrics.cellsReclaimed.Add(1)
	}
}

// dropCell deletes coord from the cell map only if it still maps to cell
func (idx *Index) dropCell(coord CellCoord, cell *Cell) {
	idx.cells.Compute(coord, func(old *Cell, loaded bool) (*Cell, xsync.ComputeOp) {
		if loaded && old == cell {
			return nil, xsync.DeleteOp
		}
		return old, xsync.CancelOp
	})
}
