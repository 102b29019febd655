package vmath

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Number covers every scalar a world coordinate may be stored as
type Number interface {
	constraints.Integer | constraints.Float
}

// Grid indices saturate at half the int range so callers can step ±1 without wrapping
const (
	MinGridIndex = math.MinInt / 2
	MaxGridIndex = math.MaxInt / 2
)

// FloorDiv returns floor(v / size) as a grid index
// size must be positive; negative v rounds toward negative infinity
func FloorDiv[T Number](v T, size int) int {
	return gridIndex(math.Floor(float64(v) / float64(size)))
}

// CeilDiv returns ceil(v / size) as a grid index
func CeilDiv[T Number](v T, size int) int {
	return gridIndex(math.Ceil(float64(v) / float64(size)))
}

// gridIndex converts a whole quotient to int, clamping out-of-range values
// float64 -> int is implementation defined beyond the int range
func gridIndex(q float64) int {
	switch {
	case q <= MinGridIndex:
		return MinGridIndex
	case q >= MaxGridIndex:
		return MaxGridIndex
	case math.IsNaN(q):
		return 0
	}
	return int(q)
}
