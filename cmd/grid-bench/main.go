// grid-bench runs a headless world for a fixed duration and reports index throughput
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"runtime"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/lixenwraith/gridhash/spatial"
	"github.com/lixenwraith/gridhash/status"
	"github.com/lixenwraith/gridhash/vmath"
	"github.com/lixenwraith/gridhash/world"
)

var (
	duration = flag.Duration("duration", 10*time.Second, "Benchmark duration")
	cellSize = flag.Int("cell", 32, "Cell size in world units")
	count    = flag.Int("count", 10000, "Number of bodies")
	extent   = flag.Float64("extent", 4000, "World side length")
	workers  = flag.Int("workers", runtime.GOMAXPROCS(0), "Rearrange workers")
	recheck  = flag.Bool("recheck", false, "Recompute every footprint on each rearrange")
	radius   = flag.Float64("radius", 64, "Neighbor query radius")
	seed     = flag.Int64("seed", 1, "Random seed")
)

func main() {
	flag.Parse()

	cfg := spatial.DefaultConfig(*cellSize)
	cfg.Workers = *workers
	cfg.RecheckAll = *recheck
	cfg.InitialCells = *count
	cfg.Status = status.NewRegistry()

	idx, err := spatial.NewWithConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create index: %v\n", err)
		os.Exit(1)
	}

	bounds := vmath.R(0, 0, *extent, *extent)
	m := world.NewManager(idx, bounds)
	rng := rand.New(rand.NewSource(*seed))
	m.SpawnAll(world.Scatter(rng, bounds, *count, 2, 24, 80))

	// Signal handling
	var stop atomic.Bool
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		stop.Store(true)
	}()

	var (
		ticks       int64
		updateTotal time.Duration
		queryTotal  time.Duration
		hits        int64
		pairs       int64
	)
	bodies := m.Bodies()
	neighbors := make([]*world.Body, 0, 256)
	start := time.Now()

	for time.Since(start) < *duration && !stop.Load() {
		t0 := time.Now()
		m.Update(1.0 / 60)
		updateTotal += time.Since(t0)

		// One neighbor lookup per 64 bodies, rotating through the population
		t1 := time.Now()
		for i := int(ticks % 64); i < len(bodies); i += 64 {
			neighbors = m.Neighbors(bodies[i], *radius, neighbors[:0])
			hits += int64(len(neighbors))
		}
		if ticks%60 == 0 {
			m.Pairs(func(a, b *world.Body) bool {
				pairs++
				return true
			})
		}
		queryTotal += time.Since(t1)

		ticks++
	}

	elapsed := time.Since(start)
	if ticks == 0 {
		fmt.Println("No ticks completed")
		return
	}

	fmt.Printf("Benchmark Results:\n")
	fmt.Printf("  Bodies:        %d (cell %d, extent %.0f, workers %d)\n", *count, *cellSize, *extent, *workers)
	fmt.Printf("  Live Cells:    %d\n", idx.CellCount())
	fmt.Printf("  Total Ticks:   %d\n", ticks)
	fmt.Printf("  Total Time:    %v\n", elapsed)
	fmt.Printf("  Ticks/s:       %.2f\n", float64(ticks)/elapsed.Seconds())
	fmt.Printf("  Avg Update:    %v\n", updateTotal/time.Duration(ticks))
	fmt.Printf("  Avg Queries:   %v\n", queryTotal/time.Duration(ticks))
	fmt.Printf("  Neighbor Hits: %d\n", hits)
	fmt.Printf("  Pairs Seen:    %d\n", pairs)

	fmt.Printf("Index Metrics:\n")
	cfg.Status.Ints.Range(func(key string, ptr *atomic.Int64) {
		fmt.Printf("  %-26s %d\n", key, ptr.Load())
	})
	cfg.Status.Floats.Range(func(key string, ptr *status.Float) {
		fmt.Printf("  %-26s %.3f\n", key, ptr.Get())
	})

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	fmt.Printf("  Total Alloc:   %d bytes\n", ms.TotalAlloc)
	fmt.Printf("  Mallocs:       %d\n", ms.Mallocs)
}
