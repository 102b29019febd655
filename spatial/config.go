package spatial

import (
	"runtime"

	"github.com/lixenwraith/gridhash/status"
)

// Config holds index construction parameters
type Config struct {
	// CellSize is the side length of a cell in world units; must be positive and never changes
	CellSize int

	// Rearrange parallelism: dirty objects are split across Workers goroutines once there are
	// at least ParallelThreshold of them
	Workers           int
	ParallelThreshold int

	// RecheckAll recomputes every footprint on Rearrange, ignoring HasMoved
	// For worlds whose objects change bounds without reporting it
	RecheckAll bool

	// InitialCells presizes the cell map
	InitialCells int

	// Status receives index metrics; nil allocates a private registry
	Status *status.Registry
}

// DefaultConfig returns defaults for the given cell size
func DefaultConfig(cellSize int) *Config {
	return &Config{
		CellSize:          cellSize,
		Workers:           runtime.GOMAXPROCS(0),
		ParallelThreshold: 256,
		InitialCells:      64,
	}
}
