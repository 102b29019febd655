package spatial

import "github.com/lixenwraith/gridhash/vmath"

// Object is the capability the index tracks
// Implementations must be comparable (typically pointers); the index keeps non-owning references
// and the caller must Remove an object before discarding it
type Object interface {
	Position() vmath.Vec2
	Bounding() vmath.Rect
	// HasMoved reports that the footprint may have changed since the last Rearrange
	HasMoved() bool
}

// Resizable is implemented by objects whose bounding size can change without moving
// Rearrange treats HasResized the same as HasMoved
type Resizable interface {
	HasResized() bool
}

// Handle is the stable id an object holds while tracked
type Handle uint64

// isDirty reports whether Rearrange needs to recompute obj's footprint
func isDirty(obj Object, recheckAll bool) bool {
	if recheckAll || obj.HasMoved() {
		return true
	}
	if r, ok := obj.(Resizable); ok {
		return r.HasResized()
	}
	return false
}
