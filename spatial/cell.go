package spatial

import (
	"sync"

	"github.com/colega/zeropool"

	"github.com/lixenwraith/gridhash/vmath"
)

// member is one object's registration in a cell
// footprint is the full range the object was registered with, used to report each object once
// per multi-cell query
type member struct {
	handle    Handle
	obj       Object
	footprint CellRange
}

// snapshotPool recycles the member copies taken by collectMatching
var snapshotPool = zeropool.New(func() []member {
	return make([]member, 0, 16)
})

// Cell holds the objects currently registered in one grid cell
type Cell struct {
	coord CellCoord
	size  int

	mu        sync.Mutex
	members   []member
	reclaimed bool // Set once the cell emptied; a reclaimed cell accepts no members
}

func newCell(coord CellCoord, size int) *Cell {
	return &Cell{
		coord:   coord,
		size:    size,
		members: make([]member, 0, 4),
	}
}

// Coord returns the cell coordinate
func (c *Cell) Coord() CellCoord {
	return c.coord
}

// Bounds returns the world rectangle covered by the cell
func (c *Cell) Bounds() vmath.Rect {
	return c.coord.Bounds(c.size)
}

// Len returns the current member count
func (c *Cell) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.members)
}

// IsEmpty reports whether no object is registered
func (c *Cell) IsEmpty() bool {
	return c.Len() == 0
}

// add inserts m, refreshing the stored footprint if the handle is already present
// Returns false if the cell was reclaimed and must be replaced by the caller
func (c *Cell) add(m member) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.reclaimed {
		return false
	}
	// Upsert: refresh the footprint of an existing member
	for i := range c.members {
		if c.members[i].handle == m.handle {
			c.members[i] = m
			return true
		}
	}
	c.members = append(c.members, m)
	return true
}

// remove deletes the member with handle h using swap-remove
// Returns true if this call emptied the cell, which is then marked reclaimed
func (c *Cell) remove(h Handle) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.members)
	for i := 0; i < n; i++ {
		if c.members[i].handle != h {
			continue
		}
		last := n - 1
		if i < last {
			c.members[i] = c.members[last]
		}
		// Drop the object reference held by the vacated slot
		c.members[last] = member{}
		c.members = c.members[:last]

		if last == 0 && !c.reclaimed {
			c.reclaimed = true
			return true
		}
		return false
	}
	return false
}

// collectMatching copies the members under the lock, then appends every member accepted by
// keep to out; keep runs without the lock held
func (c *Cell) collectMatching(keep func(coord CellCoord, m *member) bool, out []Object) []Object {
	buf := snapshotPool.Get()

	// Copy under the lock; predicates call into objects and must not run while holding it
	c.mu.Lock()
	buf = append(buf[:0], c.members...)
	c.mu.Unlock()

	for i := range buf {
		if keep == nil || keep(c.coord, &buf[i]) {
			out = append(out, buf[i].obj)
		}
	}

	// Drop object references before returning the buffer to the pool
	clear(buf)
	snapshotPool.Put(buf[:0])
	return out
}
