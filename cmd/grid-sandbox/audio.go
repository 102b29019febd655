package main

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate  = beep.SampleRate(44100)
	cueBaseHz   = 440
	cueStepHz   = 40
	cueMaxHz    = 1760
	cueDuration = 40 * time.Millisecond
	cueCooldown = 120 * time.Millisecond
)

// cuePlayer beeps when the probe picks up more neighbors
type cuePlayer struct {
	enabled  bool
	lastPlay time.Time
}

func newCuePlayer(mute bool) *cuePlayer {
	p := &cuePlayer{}
	if mute {
		return p
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err == nil {
		p.enabled = true
	}
	return p
}

// hit plays a tone whose pitch rises with the hit count
func (p *cuePlayer) hit(count int) {
	if !p.enabled || time.Since(p.lastPlay) < cueCooldown {
		return
	}
	freq := min(cueBaseHz+count*cueStepHz, cueMaxHz)
	sine, err := generators.SineTone(sampleRate, float64(freq))
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(cueDuration), sine))
	p.lastPlay = time.Now()
}

func (p *cuePlayer) close() {
	if p.enabled {
		speaker.Close()
	}
}
