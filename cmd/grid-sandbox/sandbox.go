package main

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/gridhash/debugfeed"
	"github.com/lixenwraith/gridhash/spatial"
	"github.com/lixenwraith/gridhash/vmath"
	"github.com/lixenwraith/gridhash/world"
)

const (
	frameInterval = 16 * time.Millisecond
	rowScale      = 2.0 // World units per terminal row; columns are one unit
	minRadius     = 2.0
	maxRadius     = 80.0
	minBodySize   = 1.0
	maxBodySize   = 6.0
	maxBodySpeed  = 12.0
)

var (
	gridEven = tcell.NewRGBColor(18, 18, 24)
	gridOdd  = tcell.NewRGBColor(26, 26, 34)

	styleCount  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleBody   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleBucket = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleSquare = tcell.StyleDefault.Foreground(tcell.ColorDarkCyan)
	styleCircle = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleProbe  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
	styleRing   = tcell.StyleDefault.Foreground(tcell.ColorPurple)
	styleStatus = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
)

// Sandbox owns the terminal, the world and the probe
type Sandbox struct {
	screen        tcell.Screen
	width, height int

	index *spatial.Index
	world *world.Manager
	rng   *rand.Rand
	count int

	probe    vmath.Vec2
	radius   float64
	lastHits int
	showGrid bool
	paused   bool

	tick  atomic.Uint64
	stats world.TickStats
	cue   *cuePlayer
}

func NewSandbox(cellSize, count int, seed int64, mute bool) (*Sandbox, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	sb, err := newSandbox(screen, cellSize, count, seed, mute)
	if err != nil {
		screen.Fini()
		return nil, err
	}
	return sb, nil
}

// newSandbox builds the sandbox on an initialized screen
func newSandbox(screen tcell.Screen, cellSize, count int, seed int64, mute bool) (*Sandbox, error) {
	idx, err := spatial.New(cellSize)
	if err != nil {
		return nil, err
	}

	sb := &Sandbox{
		screen:   screen,
		index:    idx,
		rng:      rand.New(rand.NewSource(seed)),
		count:    count,
		radius:   float64(cellSize) * 2,
		showGrid: true,
		cue:      newCuePlayer(mute),
	}
	sb.width, sb.height = screen.Size()
	sb.world = world.NewManager(idx, sb.worldBounds())
	sb.probe = sb.worldBounds().Center()
	sb.respawn()

	log.Printf("[SANDBOX] Started: cell=%d count=%d seed=%d screen=%dx%d", cellSize, count, seed, sb.width, sb.height)
	return sb, nil
}

// worldBounds maps the screen minus the status line into world units
func (sb *Sandbox) worldBounds() vmath.Rect {
	return vmath.R(0, 0, float64(sb.width), float64(max(sb.height-1, 1))*rowScale)
}

func (sb *Sandbox) toScreen(p vmath.Vec2) (int, int) {
	return int(p.X), int(p.Y / rowScale)
}

func (sb *Sandbox) respawn() {
	sb.world.Reset()
	sb.world.SpawnAll(world.Scatter(sb.rng, sb.worldBounds(), sb.count, minBodySize, maxBodySize, maxBodySpeed))
	sb.lastHits = 0
	log.Printf("[SANDBOX] Spawned %d bodies", sb.count)
}

// frame snapshots the index for the debug feed; runs on the feed goroutine
func (sb *Sandbox) frame() *debugfeed.Frame {
	return debugfeed.FrameFromIndex(sb.index, sb.tick.Load())
}

func (sb *Sandbox) handleResize() {
	w, h := sb.screen.Size()
	if w == sb.width && h == sb.height {
		return
	}
	sb.width, sb.height = w, h

	// Bounds are fixed per manager; rebuild the world at the new size
	sb.world = world.NewManager(sb.index, sb.worldBounds())
	sb.probe = sb.probe.Clamp(sb.worldBounds())
	sb.respawn()
}

func (sb *Sandbox) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		step := vmath.Vec2{}
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			step = vmath.V2(-1, 0)
		case tcell.KeyRight:
			step = vmath.V2(1, 0)
		case tcell.KeyUp:
			step = vmath.V2(0, -rowScale)
		case tcell.KeyDown:
			step = vmath.V2(0, rowScale)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case '+', '=':
				sb.radius = min(sb.radius*1.25, maxRadius)
			case '-':
				sb.radius = max(sb.radius/1.25, minRadius)
			case 'g':
				sb.showGrid = !sb.showGrid
			case 'p':
				sb.paused = !sb.paused
			case 'r':
				sb.respawn()
			}
		}
		if !step.IsZero() {
			sb.probe = sb.probe.Add(step).Clamp(sb.worldBounds())
		}

	case *tcell.EventResize:
		sb.handleResize()
		sb.screen.Sync()
	}
	return true
}

func (sb *Sandbox) update(dt float64) {
	if sb.paused {
		return
	}
	sb.stats = sb.world.Update(dt)
	sb.tick.Store(sb.stats.Tick)
}

func (sb *Sandbox) draw() {
	sb.screen.Clear()

	if sb.showGrid {
		sb.drawCells()
	}

	// Hit styles layer square < bucket < circle
	probe := sb.index.Probe(sb.probe, sb.radius)
	hits := make(map[spatial.Object]tcell.Style, len(probe.Square))
	for _, o := range probe.Square {
		hits[o] = styleSquare
	}
	for _, o := range probe.Bucket {
		hits[o] = styleBucket
	}
	for _, o := range probe.Circle {
		hits[o] = styleCircle
	}

	sb.drawRing()
	for _, b := range sb.world.Bodies() {
		style, ok := hits[b]
		if !ok {
			style = styleBody
		}
		x, y := sb.toScreen(b.Position())
		sb.screen.SetContent(x, y, bodyRune(b), nil, style)
	}

	// Draw probe
	px, py := sb.toScreen(sb.probe)
	sb.screen.SetContent(px, py, '+', nil, styleProbe)

	// Audio cue only when the radius picks up new hits
	if n := len(probe.Circle); n > sb.lastHits {
		sb.cue.hit(n)
	}
	sb.lastHits = len(probe.Circle)

	sb.drawStatus(probe)
	sb.screen.Show()
}

// drawCells shades live cells in a checkerboard and prints their member count
func (sb *Sandbox) drawCells() {
	sb.index.RangeCells(func(info spatial.CellInfo) bool {
		bg := gridEven
		if (info.Coord.X+info.Coord.Y)&1 != 0 {
			bg = gridOdd
		}
		style := tcell.StyleDefault.Background(bg)
		x0, y0 := sb.toScreen(info.Bounds.TopLeft())
		x1, y1 := sb.toScreen(info.Bounds.BottomRight())
		for y := max(y0, 0); y < min(y1, sb.height-1); y++ {
			for x := max(x0, 0); x < min(x1, sb.width); x++ {
				sb.screen.SetContent(x, y, ' ', nil, style)
			}
		}
		if x0 >= 0 && y0 >= 0 && y0 < sb.height-1 {
			label := '+'
			if info.Count < 10 {
				label = rune('0' + info.Count)
			}
			sb.screen.SetContent(x0, y0, label, nil, styleCount.Background(bg))
		}
		return true
	})
}

// drawRing outlines the probe radius
func (sb *Sandbox) drawRing() {
	const segments = 64
	for i := 0; i < segments; i++ {
		a := float64(i) / segments * 2 * math.Pi
		p := sb.probe.Add(vmath.V2(math.Cos(a), math.Sin(a)).Scale(sb.radius))
		x, y := sb.toScreen(p)
		if x >= 0 && x < sb.width && y >= 0 && y < sb.height-1 {
			sb.screen.SetContent(x, y, '·', nil, styleRing)
		}
	}
}

func (sb *Sandbox) drawStatus(probe spatial.ProbeResult) {
	state := ""
	if sb.paused {
		state = " [paused]"
	}
	line := fmt.Sprintf(" tick %d  bodies %d  cells %d  probe %v r=%.1f  bucket %d square %d circle %d  rehash %d%s ",
		sb.stats.Tick, sb.index.Count(), sb.index.CellCount(), probe.Cell, sb.radius,
		len(probe.Bucket), len(probe.Square), len(probe.Circle), sb.stats.Rehashed, state)

	y := sb.height - 1
	for x := 0; x < sb.width; x++ {
		r := ' '
		if x < len(line) {
			r = rune(line[x])
		}
		sb.screen.SetContent(x, y, r, nil, styleStatus)
	}
}

func (sb *Sandbox) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := sb.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	last := time.Now()
	for {
		select {
		case ev := <-eventChan:
			if !sb.handleInput(ev) {
				return
			}

		case now := <-ticker.C:
			sb.update(now.Sub(last).Seconds())
			last = now
			sb.draw()
		}
	}
}

func (sb *Sandbox) cleanup() {
	sb.cue.close()
	sb.screen.Fini()
	log.Printf("[SANDBOX] Stopped after %d ticks", sb.tick.Load())
}

// bodyRune picks a glyph by body size
func bodyRune(b *world.Body) rune {
	switch s := b.Size(); {
	case s.X >= 4:
		return 'O'
	case s.X >= 2:
		return 'o'
	default:
		return '.'
	}
}
