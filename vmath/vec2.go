// Package vmath provides the float64 2D geometry shared by the index and its callers
package vmath

import "math"

// Vec2 is a world-space point or offset
type Vec2 struct {
	X, Y float64
}

// V2 is shorthand for Vec2{X: x, Y: y}
func V2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(o Vec2) Vec2         { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2         { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(f float64) Vec2    { return Vec2{v.X * f, v.Y * f} }
func (v Vec2) Dot(o Vec2) float64      { return v.X*o.X + v.Y*o.Y }
func (v Vec2) LengthSq() float64       { return v.X*v.X + v.Y*v.Y }
func (v Vec2) Length() float64         { return math.Hypot(v.X, v.Y) }
func (v Vec2) IsZero() bool            { return v.X == 0 && v.Y == 0 }
func (v Vec2) Distance(o Vec2) float64 { return v.Sub(o).Length() }

// DistanceSq avoids the sqrt when only comparisons are needed
func (v Vec2) DistanceSq(o Vec2) float64 {
	return v.Sub(o).LengthSq()
}

// Clamp constrains each axis to the closed rectangle r
func (v Vec2) Clamp(r Rect) Vec2 {
	return Vec2{
		X: Clamp(v.X, r.X, r.X+r.W),
		Y: Clamp(v.Y, r.Y, r.Y+r.H),
	}
}

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
