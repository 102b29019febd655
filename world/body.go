package world

import (
	"github.com/lixenwraith/gridhash/spatial"
	"github.com/lixenwraith/gridhash/vmath"
)

// Body is a moving axis-aligned box tracked by the spatial index
// Position is the box center
type Body struct {
	ID       uint64
	Velocity vmath.Vec2

	pos  vmath.Vec2
	size vmath.Vec2

	moved    bool
	resized  bool
	disposed bool
}

var (
	_ spatial.Object    = (*Body)(nil)
	_ spatial.Resizable = (*Body)(nil)
)

// NewBody creates a body centered at pos
func NewBody(pos, size, velocity vmath.Vec2) *Body {
	return &Body{pos: pos, size: size, Velocity: velocity}
}

func (b *Body) Position() vmath.Vec2 { return b.pos }
func (b *Body) Size() vmath.Vec2     { return b.size }
func (b *Body) HasMoved() bool       { return b.moved }
func (b *Body) HasResized() bool     { return b.resized }
func (b *Body) Disposed() bool       { return b.disposed }

// Bounding returns the box around the body center
func (b *Body) Bounding() vmath.Rect {
	return vmath.RectFromCenter(b.pos, b.size.X/2, b.size.Y/2)
}

// SetPosition teleports the body; picked up by the next Update
func (b *Body) SetPosition(p vmath.Vec2) {
	if p != b.pos {
		b.pos = p
		b.moved = true
	}
}

// SetSize changes the box extents without moving the center
func (b *Body) SetSize(size vmath.Vec2) {
	if size != b.size {
		b.size = size
		b.resized = true
	}
}

// Dispose flags the body for removal on the next Update
func (b *Body) Dispose() {
	b.disposed = true
}

// integrate advances the body by dt and reflects it off the bounds edges
func (b *Body) integrate(dt float64, bounds vmath.Rect) {
	if b.Velocity.IsZero() {
		return
	}
	b.pos = b.pos.Add(b.Velocity.Scale(dt))
	b.moved = true

	if bounds.IsEmpty() {
		return
	}

	half := b.size.Scale(0.5)
	minX, maxX := bounds.Left()+half.X, bounds.Right()-half.X
	minY, maxY := bounds.Top()+half.Y, bounds.Bottom()-half.Y

	if b.pos.X < minX && b.Velocity.X < 0 || b.pos.X > maxX && b.Velocity.X > 0 {
		b.Velocity.X = -b.Velocity.X
	}
	if b.pos.Y < minY && b.Velocity.Y < 0 || b.pos.Y > maxY && b.Velocity.Y > 0 {
		b.Velocity.Y = -b.Velocity.Y
	}
	b.pos.X = vmath.Clamp(b.pos.X, minX, max(minX, maxX))
	b.pos.Y = vmath.Clamp(b.pos.Y, minY, max(minY, maxY))
}

// settle clears the per-tick change flags once the index has seen them
func (b *Body) settle() {
	b.moved = false
	b.resized = false
}
