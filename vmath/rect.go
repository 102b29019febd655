package vmath

import "math"

// Rect is an axis-aligned rectangle anchored at its top-left corner
// Width and height are expected to be non-negative; zero-area rectangles are valid
type Rect struct {
	X, Y float64 // Top-left corner
	W, H float64 // Dimensions
}

// R is shorthand for Rect{X: x, Y: y, W: w, H: h}
func R(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// RectFromCenter builds a rectangle of the given half extents around c
func RectFromCenter(c Vec2, halfW, halfH float64) Rect {
	return Rect{X: c.X - halfW, Y: c.Y - halfH, W: halfW * 2, H: halfH * 2}
}

func (r Rect) Left() float64   { return r.X }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }

func (r Rect) TopLeft() Vec2     { return Vec2{r.X, r.Y} }
func (r Rect) BottomRight() Vec2 { return Vec2{r.X + r.W, r.Y + r.H} }
func (r Rect) Center() Vec2      { return Vec2{r.X + r.W/2, r.Y + r.H/2} }

// HalfExtent returns half the width and height
func (r Rect) HalfExtent() Vec2 {
	return Vec2{r.W / 2, r.H / 2}
}

// MaxHalfExtent returns the larger of the two half extents
func (r Rect) MaxHalfExtent() float64 {
	return math.Max(r.W, r.H) / 2
}

// IsEmpty reports a zero-area rectangle
func (r Rect) IsEmpty() bool {
	return r.W <= 0 || r.H <= 0
}

// Intersects treats both rectangles as closed; touching edges intersect
func (r Rect) Intersects(o Rect) bool {
	return r.X <= o.X+o.W && o.X <= r.X+r.W && r.Y <= o.Y+o.H && o.Y <= r.Y+r.H
}

// Contains reports whether o lies entirely inside r
func (r Rect) Contains(o Rect) bool {
	return r.X <= o.X && r.Y <= o.Y && o.X+o.W <= r.X+r.W && o.Y+o.H <= r.Y+r.H
}

// ContainsPoint is inclusive on all edges
func (r Rect) ContainsPoint(p Vec2) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Offset returns r moved by d
func (r Rect) Offset(d Vec2) Rect {
	return Rect{X: r.X + d.X, Y: r.Y + d.Y, W: r.W, H: r.H}
}

// Inflate grows r by dx, dy on every side
func (r Rect) Inflate(dx, dy float64) Rect {
	return Rect{X: r.X - dx, Y: r.Y - dy, W: r.W + dx*2, H: r.H + dy*2}
}
