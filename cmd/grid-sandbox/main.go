// grid-sandbox animates bodies over a spatial index in the terminal
// Arrows move the probe, +/- change its radius, g toggles the grid, p pauses, r respawns,
// Esc quits
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/lixenwraith/gridhash/debugfeed"
)

var (
	cellSize = flag.Int("cell", 8, "Cell size in world units")
	count    = flag.Int("count", 150, "Number of bodies")
	seed     = flag.Int64("seed", 0, "Random seed (0 = time based)")
	feedAddr = flag.String("feed", "", "Serve the debug feed on this address, e.g. 127.0.0.1:7778")
	debug    = flag.Bool("debug", false, "Write logs to logs/grid-sandbox.log")
	mute     = flag.Bool("mute", false, "Disable audio cues")
)

func main() {
	flag.Parse()

	logFile := setupLogging(*debug)
	if logFile != nil {
		defer logFile.Close()
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	sb, err := NewSandbox(*cellSize, *count, *seed, *mute)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	if *feedAddr != "" {
		cfg := debugfeed.DefaultConfig()
		cfg.Address = *feedAddr
		feed := debugfeed.NewServer(cfg, sb.frame)
		if err := feed.Start(); err != nil {
			sb.cleanup()
			fmt.Fprintf(os.Stderr, "Failed to start debug feed: %v\n", err)
			os.Exit(1)
		}
		defer feed.Stop()
	}
	defer sb.cleanup()

	sb.run()
}
