package scramble

import (
	"errors"
	"math"
	"math/rand/v2"
	"time"

	xxhash "github.com/cespare/xxhash/v2"
)

const (
	// DefaultInterval is the tick cadence of a scramble session.
	DefaultInterval = 30 * time.Millisecond
	// DefaultStep is how far the reveal cursor advances per tick. At 0.5 a
	// character locks in every second tick.
	DefaultStep = 0.5
	// MaxStep bounds the step so the reveal cursor always fits an int.
	MaxStep = 1 << 20
)

// ValidStep reports whether step is a finite value in (0, MaxStep].
func ValidStep(step float64) bool {
	return !math.IsNaN(step) && step > 0 && step <= MaxStep
}

// ErrEmptyAlphabet is returned by Activate when no filler rune can be drawn.
var ErrEmptyAlphabet = errors.New("scramble: alphabet is empty")

// Renderer receives the visible text of a target every time it changes.
type Renderer interface {
	Render(target, text string)
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(target, text string)

func (f RenderFunc) Render(target, text string) { f(target, text) }

// Scheduler creates recurring timers. Every callback must run on the same
// goroutine that calls into the Engine.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Timer
}

// Timer is a handle to a recurring timer. After Stop returns the callback
// must not run again, even if a firing was already pending.
type Timer interface {
	Stop()
}

// EventKind classifies session lifecycle events.
type EventKind string

const (
	EventStarted   EventKind = "started"
	EventCompleted EventKind = "completed"
	EventCancelled EventKind = "cancelled"
)

// Event is delivered to Config.Observer on session transitions.
type Event struct {
	Target string
	Kind   EventKind
	Ticks  int
}

// Config controls an Engine. Use DefaultConfig and override fields.
type Config struct {
	Alphabet Alphabet
	// Interval between ticks; <= 0 means DefaultInterval.
	Interval time.Duration
	// Step added to the reveal cursor per tick. Values rejected by ValidStep
	// mean DefaultStep.
	Step float64
	// Seed for the per-target random streams; 0 picks a random seed.
	Seed     uint64
	Renderer Renderer
	Observer func(Event)
}

// DefaultConfig returns the stock alphabet, a 30ms cadence and half-step
// reveal.
func DefaultConfig() Config {
	return Config{
		Alphabet: NewAlphabet(DefaultAlphabet),
		Interval: DefaultInterval,
		Step:     DefaultStep,
	}
}

// TicksToResolve returns how many ticks an uninterrupted session needs to
// resolve n characters at the given step.
func TicksToResolve(n int, step float64) int {
	if !ValidStep(step) {
		step = DefaultStep
	}
	if n <= 0 {
		return 0
	}
	return int(math.Ceil(float64(n) / step))
}

type target struct {
	id       string
	original []rune
	display  []rune
	rng      *rand.Rand
	session  *session
}

type session struct {
	target *target
	ticks  int
	timer  Timer
}

// Engine owns the registry of scramble targets and their sessions.
//
// An Engine is not safe for concurrent use. All calls, and all timer
// callbacks, must happen on one goroutine (an event loop).
type Engine struct {
	cfg     Config
	sched   Scheduler
	seed    uint64
	targets map[string]*target
	order   []string
}

// New creates an Engine driven by sched, which must not be nil.
func New(sched Scheduler, cfg Config) *Engine {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if !ValidStep(cfg.Step) {
		cfg.Step = DefaultStep
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Engine{
		cfg:     cfg,
		sched:   sched,
		seed:    seed,
		targets: make(map[string]*target),
	}
}

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// Attach installs the effect on id with the given original text. An empty
// text leaves the target uninstalled and returns false. Attaching an already
// attached target cancels its session and replaces the text.
func (e *Engine) Attach(id, text string) bool {
	if text == "" {
		return false
	}
	t, ok := e.targets[id]
	if ok {
		e.cancel(t)
	} else {
		t = &target{
			id:  id,
			rng: rand.New(rand.NewPCG(e.seed, xxhash.Sum64String(id))),
		}
		e.targets[id] = t
		e.order = append(e.order, id)
	}
	t.original = []rune(text)
	t.display = []rune(text)
	return true
}

// Detach cancels any session on id and removes it from the registry.
func (e *Engine) Detach(id string) {
	t, ok := e.targets[id]
	if !ok {
		return
	}
	e.cancel(t)
	delete(e.targets, id)
	for i, v := range e.order {
		if v == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
}

// Close detaches every target.
func (e *Engine) Close() {
	for _, id := range append([]string(nil), e.order...) {
		e.Detach(id)
	}
}

// Activate starts a new scramble session on id, cancelling any session
// already running there. Targets that were never attached are ignored.
func (e *Engine) Activate(id string) error {
	t, ok := e.targets[id]
	if !ok {
		return nil
	}
	if e.cfg.Alphabet.Len() == 0 {
		return ErrEmptyAlphabet
	}
	e.cancel(t)

	s := &session{target: t}
	t.session = s
	e.notify(Event{Target: id, Kind: EventStarted})
	s.timer = e.sched.Every(e.cfg.Interval, func() { e.tick(s) })
	return nil
}

// Deactivate cancels the session on id and restores the original text.
// Without a running session it does nothing.
func (e *Engine) Deactivate(id string) {
	t, ok := e.targets[id]
	if !ok || t.session == nil {
		return
	}
	e.cancel(t)
	copy(t.display, t.original)
	e.render(t)
}

// Active reports whether id has a running session.
func (e *Engine) Active(id string) bool {
	t, ok := e.targets[id]
	return ok && t.session != nil
}

// Display returns the currently visible text of id.
func (e *Engine) Display(id string) (string, bool) {
	t, ok := e.targets[id]
	if !ok {
		return "", false
	}
	return string(t.display), true
}

// Original returns the text captured at Attach.
func (e *Engine) Original(id string) (string, bool) {
	t, ok := e.targets[id]
	if !ok {
		return "", false
	}
	return string(t.original), true
}

// Progress returns the reveal cursor of the running session on id, or false
// when no session runs.
func (e *Engine) Progress(id string) (float64, bool) {
	t, ok := e.targets[id]
	if !ok || t.session == nil {
		return 0, false
	}
	return float64(t.session.ticks) * e.cfg.Step, true
}

// Targets lists attached targets in attach order.
func (e *Engine) Targets() []string {
	return append([]string(nil), e.order...)
}

func (e *Engine) tick(s *session) {
	t := s.target
	if t.session != s {
		return
	}
	s.ticks++
	// Derived from the tick count so fractional steps do not drift.
	revealed := float64(s.ticks) * e.cfg.Step
	done := revealed >= float64(len(t.original))
	locked := len(t.original)
	if !done {
		locked = int(math.Floor(revealed))
	}
	n := e.cfg.Alphabet.Len()
	for i := range t.display {
		if i < locked {
			t.display[i] = t.original[i]
			continue
		}
		t.display[i] = e.cfg.Alphabet.at(t.rng.IntN(n))
	}
	e.render(t)
	if t.session != s {
		// The renderer deactivated or re-activated the target.
		return
	}

	if done {
		s.timer.Stop()
		t.session = nil
		e.notify(Event{Target: t.id, Kind: EventCompleted, Ticks: s.ticks})
	}
}

func (e *Engine) cancel(t *target) {
	s := t.session
	if s == nil {
		return
	}
	s.timer.Stop()
	t.session = nil
	e.notify(Event{Target: t.id, Kind: EventCancelled, Ticks: s.ticks})
}

func (e *Engine) render(t *target) {
	if e.cfg.Renderer != nil {
		e.cfg.Renderer.Render(t.id, string(t.display))
	}
}

func (e *Engine) notify(ev Event) {
	if e.cfg.Observer != nil {
		e.cfg.Observer(ev)
	}
}
