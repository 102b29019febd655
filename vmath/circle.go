package vmath

// Circle is a closed disc
type Circle struct {
	Center Vec2
	Radius float64
}

// Bounds returns the square enclosing the circle
func (c Circle) Bounds() Rect {
	return RectFromCenter(c.Center, c.Radius, c.Radius)
}

// IntersectsRect is boundary inclusive: a rectangle exactly Radius away intersects
func (c Circle) IntersectsRect(r Rect) bool {
	if c.Radius < 0 {
		return false
	}
	closest := c.Center.Clamp(r)
	return closest.DistanceSq(c.Center) <= c.Radius*c.Radius
}

// ContainsPoint is boundary inclusive
func (c Circle) ContainsPoint(p Vec2) bool {
	return c.Radius >= 0 && p.DistanceSq(c.Center) <= c.Radius*c.Radius
}
