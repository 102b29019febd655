// Package world drives a set of moving bodies through a spatial index once per tick
package world

import (
	"math/rand"

	"github.com/lixenwraith/gridhash/spatial"
	"github.com/lixenwraith/gridhash/vmath"
)

// TickStats summarizes one Update
type TickStats struct {
	Tick     uint64
	Moved    int // Bodies whose position changed
	Rehashed int // Bodies re-registered under a new footprint
	Removed  int // Disposed bodies dropped from the world
}

// Manager owns the live bodies and keeps the index in step with them
// Not safe for concurrent use; the index itself may be queried from other goroutines
type Manager struct {
	index  *spatial.Index
	bounds vmath.Rect

	bodies []*Body
	nextID uint64
	tick   uint64

	scratch []*Body
}

// NewManager creates a manager over idx; bodies bounce inside bounds unless it is empty
func NewManager(idx *spatial.Index, bounds vmath.Rect) *Manager {
	return &Manager{
		index:  idx,
		bounds: bounds,
		bodies: make([]*Body, 0, 64),
	}
}

func (m *Manager) Index() *spatial.Index { return m.index }
func (m *Manager) Bounds() vmath.Rect    { return m.bounds }
func (m *Manager) Tick() uint64          { return m.tick }
func (m *Manager) Len() int              { return len(m.bodies) }

// Spawn assigns b an id and registers it with the index
func (m *Manager) Spawn(b *Body) *Body {
	m.nextID++
	b.ID = m.nextID
	b.disposed = false
	m.bodies = append(m.bodies, b)
	m.index.Add(b)
	return b
}

// SpawnAll spawns every body in order
func (m *Manager) SpawnAll(bodies []*Body) {
	for _, b := range bodies {
		m.Spawn(b)
	}
}

// Despawn removes b immediately; Dispose defers removal to the next Update
func (m *Manager) Despawn(b *Body) {
	for i, live := range m.bodies {
		if live == b {
			m.index.Remove(b)
			m.bodies = append(m.bodies[:i], m.bodies[i+1:]...)
			b.disposed = true
			return
		}
	}
}

// Bodies returns a copy of the live body list in spawn order
func (m *Manager) Bodies() []*Body {
	out := make([]*Body, len(m.bodies))
	copy(out, m.bodies)
	return out
}

// Update advances every body by dt, drops disposed bodies, then rearranges the index
func (m *Manager) Update(dt float64) TickStats {
	m.tick++
	stats := TickStats{Tick: m.tick}

	// Integrate and compact in one pass; disposed bodies leave the index here
	live := m.bodies[:0]
	for _, b := range m.bodies {
		if b.disposed {
			m.index.Remove(b)
			stats.Removed++
			continue
		}
		b.integrate(dt, m.bounds)
		if b.moved {
			stats.Moved++
		}
		live = append(live, b)
	}
	// Release references held by the tail
	clear(m.bodies[len(live):])
	m.bodies = live

	stats.Rehashed = m.index.Rearrange()

	// Flags are consumed; clear them for the next tick
	for _, b := range m.bodies {
		b.settle()
	}
	return stats
}

// Cull appends the bodies overlapping view
func (m *Manager) Cull(view vmath.Rect, out []*Body) []*Body {
	return spatial.RectangleOf(m.index, view, out)
}

// Neighbors appends the bodies within radius of b's center, nearest first, excluding b
func (m *Manager) Neighbors(b *Body, radius float64, out []*Body) []*Body {
	start := len(out)
	out = spatial.RadiusOf(m.index, b.Position(), radius, true, out)

	n := start
	for _, o := range out[start:] {
		if o != b {
			out[n] = o
			n++
		}
	}
	clear(out[n:])
	return out[:n]
}

// Pairs calls fn once for every unordered pair of bodies whose boxes overlap, lower id first
// Iteration stops when fn returns false
func (m *Manager) Pairs(fn func(a, b *Body) bool) {
	for _, a := range m.bodies {
		m.scratch = spatial.RectangleOf(m.index, a.Bounding(), m.scratch[:0])
		for _, b := range m.scratch {
			if b.ID <= a.ID {
				continue
			}
			if !fn(a, b) {
				clear(m.scratch)
				return
			}
		}
	}
	clear(m.scratch)
}

// Reset drops every body and clears the index
func (m *Manager) Reset() {
	m.index.Clear()
	for _, b := range m.bodies {
		b.disposed = true
	}
	clear(m.bodies)
	m.bodies = m.bodies[:0]
	m.tick = 0
}

// Scatter builds n bodies with random size and velocity inside bounds
func Scatter(rng *rand.Rand, bounds vmath.Rect, n int, minSize, maxSize, maxSpeed float64) []*Body {
	bodies := make([]*Body, n)
	for i := range bodies {
		size := minSize + rng.Float64()*(maxSize-minSize)
		pos := vmath.V2(
			bounds.X+size/2+rng.Float64()*max(bounds.W-size, 0),
			bounds.Y+size/2+rng.Float64()*max(bounds.H-size, 0),
		)
		vel := vmath.V2((rng.Float64()*2-1)*maxSpeed, (rng.Float64()*2-1)*maxSpeed)
		bodies[i] = NewBody(pos, vmath.V2(size, size), vel)
	}
	return bodies
}
