package core

import (
	"github.com/franzer/glitchnav/internal/scramble"
)

// Re-export selected internal types as a stable public API surface.
type (
	Config    = scramble.Config
	Engine    = scramble.Engine
	Event     = scramble.Event
	Scheduler = scramble.Scheduler
	Timer     = scramble.Timer
	Renderer  = scramble.Renderer
)

// DefaultConfig returns the stock alphabet, tick interval and step.
func DefaultConfig() Config { return scramble.DefaultConfig() }

// NewEngine creates an engine driven by sched.
func NewEngine(sched Scheduler, cfg Config) *Engine { return scramble.New(sched, cfg) }

// Frames plays one complete reveal of text on a virtual clock and returns
// every rendered frame, ending with text itself. Any renderer in cfg is
// replaced.
func Frames(text string, cfg Config) ([]string, error) {
	var frames []string
	cfg.Renderer = scramble.RenderFunc(func(_, display string) {
		frames = append(frames, display)
	})
	sched := scramble.NewManualScheduler()
	e := scramble.New(sched, cfg)
	if !e.Attach("frames", text) {
		return nil, nil
	}
	if err := e.Activate("frames"); err != nil {
		return nil, err
	}
	for sched.Step() {
	}
	return frames, nil
}
