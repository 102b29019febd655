package spatial

import (
	"sync/atomic"

	"github.com/lixenwraith/gridhash/status"
)

// Metric names published to the status registry
const (
	MetricCellsCreated   = "spatial.cells.created"
	MetricCellsReclaimed = "spatial.cells.reclaimed"
	MetricObjectsAdded   = "spatial.objects.added"
	MetricObjectsRemoved = "spatial.objects.removed"
	MetricObjectsRehash  = "spatial.objects.rehashed"
	MetricRearrangePass  = "spatial.rearrange.passes"
	MetricRearrangeMs    = "spatial.rearrange.ms"
)

// indexMetrics caches registry pointers so hot paths skip the map lookup
type indexMetrics struct {
	cellsCreated   *atomic.Int64
	cellsReclaimed *atomic.Int64
	added          *atomic.Int64
	removed        *atomic.Int64
	rehashed       *atomic.Int64
	passes         *atomic.Int64
	rearrangeMs    *status.Float
}

func newIndexMetrics(reg *status.Registry) indexMetrics {
	return indexMetrics{
		cellsCreated:   reg.Ints.Get(MetricCellsCreated),
		cellsReclaimed: reg.Ints.Get(MetricCellsReclaimed),
		added:          reg.Ints.Get(MetricObjectsAdded),
		removed:        reg.Ints.Get(MetricObjectsRemoved),
		rehashed:       reg.Ints.Get(MetricObjectsRehash),
		passes:         reg.Ints.Get(MetricRearrangePass),
		rearrangeMs:    reg.Floats.Get(MetricRearrangeMs),
	}
}
