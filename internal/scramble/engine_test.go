package scramble

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frameRecorder struct {
	frames map[string][]string
}

func newRecorder() *frameRecorder {
	return &frameRecorder{frames: map[string][]string{}}
}

func (r *frameRecorder) Render(target, text string) {
	r.frames[target] = append(r.frames[target], text)
}

func newTestEngine(t *testing.T, rec *frameRecorder) (*Engine, *ManualScheduler) {
	t.Helper()
	sched := NewManualScheduler()
	cfg := DefaultConfig()
	cfg.Seed = 42
	if rec != nil {
		cfg.Renderer = rec
	}
	return New(sched, cfg), sched
}

func TestActivate_HomeResolvesAfterEightTicks(t *testing.T) {
	rec := newRecorder()
	e, sched := newTestEngine(t, rec)
	require.True(t, e.Attach("home", "HOME"))
	require.NoError(t, e.Activate("home"))

	for i := 0; i < 7; i++ {
		require.True(t, sched.Step())
		assert.True(t, e.Active("home"), "session should still run after tick %d", i+1)
	}
	require.True(t, sched.Step())

	assert.False(t, e.Active("home"))
	assert.Equal(t, 0, sched.Live(), "timer should be stopped")
	got, ok := e.Display("home")
	require.True(t, ok)
	assert.Equal(t, "HOME", got)

	frames := rec.frames["home"]
	require.Len(t, frames, 8)
	assert.Equal(t, 'H', []rune(frames[1])[0], "position 0 locks on tick 2")
	assert.Equal(t, "HOME", frames[7])

	// No further tick mutates the text.
	sched.Advance(DefaultInterval * 10)
	assert.Len(t, rec.frames["home"], 8)
}

func TestActivate_MonotonicLockIn(t *testing.T) {
	rec := newRecorder()
	e, sched := newTestEngine(t, rec)
	text := "SERVICES & WORK"
	original := []rune(text)
	require.True(t, e.Attach("nav", text))
	require.NoError(t, e.Activate("nav"))

	for sched.Step() {
	}

	frames := rec.frames["nav"]
	require.Len(t, frames, TicksToResolve(len(original), DefaultStep))
	alphabet := DefaultAlphabet
	for k, frame := range frames {
		runes := []rune(frame)
		require.Len(t, runes, len(original), "frame %d", k+1)
		locked := int(math.Floor(float64(k+1) * DefaultStep))
		for i, r := range runes {
			if i < locked {
				assert.Equal(t, original[i], r, "tick %d position %d should be resolved", k+1, i)
				continue
			}
			assert.True(t, strings.ContainsRune(alphabet, r), "tick %d position %d: %q not in alphabet", k+1, i, r)
		}
	}
	assert.Equal(t, text, frames[len(frames)-1])
}

func TestActivate_RestartsSession(t *testing.T) {
	rec := newRecorder()
	e, sched := newTestEngine(t, rec)
	require.True(t, e.Attach("home", "HOME"))
	require.NoError(t, e.Activate("home"))

	sched.Step()
	sched.Step()
	sched.Step()
	p, ok := e.Progress("home")
	require.True(t, ok)
	assert.Equal(t, 1.5, p)

	require.NoError(t, e.Activate("home"))
	require.NoError(t, e.Activate("home"))
	assert.Equal(t, 1, sched.Live(), "exactly one live timer after re-activation")
	p, ok = e.Progress("home")
	require.True(t, ok)
	assert.Equal(t, 0.0, p)

	sched.Step()
	p, _ = e.Progress("home")
	assert.Equal(t, 0.5, p)

	// The restarted session needs its full eight ticks.
	for i := 0; i < 6; i++ {
		sched.Step()
	}
	assert.True(t, e.Active("home"))
	sched.Step()
	assert.False(t, e.Active("home"))
}

func TestDeactivate_RestoresImmediately(t *testing.T) {
	rec := newRecorder()
	e, sched := newTestEngine(t, rec)
	require.True(t, e.Attach("home", "HOME"))
	require.NoError(t, e.Activate("home"))
	sched.Step()
	sched.Step()
	sched.Step()

	e.Deactivate("home")
	got, _ := e.Display("home")
	assert.Equal(t, "HOME", got)
	assert.False(t, e.Active("home"))
	assert.Equal(t, 0, sched.Live())

	n := len(rec.frames["home"])
	assert.Equal(t, "HOME", rec.frames["home"][n-1], "restore renders synchronously")

	sched.Advance(DefaultInterval * 20)
	assert.Len(t, rec.frames["home"], n, "no tick after cancellation")
	got, _ = e.Display("home")
	assert.Equal(t, "HOME", got)
}

func TestDeactivate_Idempotent(t *testing.T) {
	rec := newRecorder()
	e, sched := newTestEngine(t, rec)
	require.True(t, e.Attach("home", "HOME"))
	require.NoError(t, e.Activate("home"))
	sched.Step()

	e.Deactivate("home")
	once := append([]string(nil), rec.frames["home"]...)
	e.Deactivate("home")
	assert.Equal(t, once, rec.frames["home"])

	// Never activated, never attached.
	e.Deactivate("home")
	e.Deactivate("missing")
	assert.Equal(t, once, rec.frames["home"])
}

func TestAttach_EmptyTextNotInstalled(t *testing.T) {
	e, sched := newTestEngine(t, nil)
	assert.False(t, e.Attach("blank", ""))
	_, ok := e.Display("blank")
	assert.False(t, ok)

	require.NoError(t, e.Activate("blank"))
	assert.False(t, e.Active("blank"))
	assert.Equal(t, 0, sched.Live())
	assert.Empty(t, e.Targets())
}

func TestAttach_ReplacesTextAndCancels(t *testing.T) {
	var events []Event
	sched := NewManualScheduler()
	cfg := DefaultConfig()
	cfg.Observer = func(ev Event) { events = append(events, ev) }
	e := New(sched, cfg)

	require.True(t, e.Attach("cta", "GO"))
	require.NoError(t, e.Activate("cta"))
	sched.Step()
	require.True(t, e.Attach("cta", "CONTACT"))

	assert.False(t, e.Active("cta"))
	assert.Equal(t, 0, sched.Live())
	got, _ := e.Display("cta")
	assert.Equal(t, "CONTACT", got)
	assert.Equal(t, []string{"cta"}, e.Targets())
	require.Len(t, events, 2)
	assert.Equal(t, EventCancelled, events[1].Kind)
	assert.Equal(t, 1, events[1].Ticks)
}

func TestActivate_EmptyAlphabet(t *testing.T) {
	sched := NewManualScheduler()
	cfg := DefaultConfig()
	cfg.Alphabet = NewAlphabet("")
	e := New(sched, cfg)
	require.True(t, e.Attach("home", "HOME"))

	err := e.Activate("home")
	assert.ErrorIs(t, err, ErrEmptyAlphabet)
	assert.False(t, e.Active("home"))
	assert.Equal(t, 0, sched.Live())
}

func TestDetachAndClose(t *testing.T) {
	e, sched := newTestEngine(t, nil)
	require.True(t, e.Attach("a", "ABOUT"))
	require.True(t, e.Attach("b", "BLOG"))
	require.True(t, e.Attach("c", "CAREERS"))
	require.NoError(t, e.Activate("a"))
	require.NoError(t, e.Activate("b"))
	assert.Equal(t, 2, sched.Live())

	e.Detach("a")
	assert.Equal(t, 1, sched.Live())
	assert.Equal(t, []string{"b", "c"}, e.Targets())
	_, ok := e.Display("a")
	assert.False(t, ok)

	e.Close()
	assert.Equal(t, 0, sched.Live())
	assert.Empty(t, e.Targets())
	assert.Equal(t, 0, sched.Advance(DefaultInterval*10))
}

func TestObserver_Lifecycle(t *testing.T) {
	var events []Event
	sched := NewManualScheduler()
	cfg := DefaultConfig()
	cfg.Observer = func(ev Event) { events = append(events, ev) }
	e := New(sched, cfg)
	require.True(t, e.Attach("home", "HOME"))

	require.NoError(t, e.Activate("home"))
	sched.Step()
	e.Deactivate("home")
	require.NoError(t, e.Activate("home"))
	for sched.Step() {
	}

	want := []Event{
		{Target: "home", Kind: EventStarted},
		{Target: "home", Kind: EventCancelled, Ticks: 1},
		{Target: "home", Kind: EventStarted},
		{Target: "home", Kind: EventCompleted, Ticks: 8},
	}
	assert.Equal(t, want, events)
}

func TestRenderer_DeactivateDuringRender(t *testing.T) {
	var completed int
	sched := NewManualScheduler()
	cfg := DefaultConfig()
	var e *Engine
	cfg.Renderer = RenderFunc(func(target, _ string) { e.Deactivate(target) })
	cfg.Observer = func(ev Event) {
		if ev.Kind == EventCompleted {
			completed++
		}
	}
	e = New(sched, cfg)
	require.True(t, e.Attach("x", "X"))
	require.NoError(t, e.Activate("x"))
	sched.Step()
	sched.Step()

	assert.False(t, e.Active("x"))
	assert.Equal(t, 0, completed)
	got, _ := e.Display("x")
	assert.Equal(t, "X", got)
}

func TestSeed_ReproducibleFrames(t *testing.T) {
	run := func() []string {
		rec := newRecorder()
		e, sched := newTestEngine(t, rec)
		require.True(t, e.Attach("other", "UNRELATED"))
		require.True(t, e.Attach("work", "WORK"))
		require.NoError(t, e.Activate("work"))
		for sched.Step() {
		}
		return rec.frames["work"]
	}
	first := run()
	second := run()
	assert.Equal(t, first, second)
}

func TestActivate_UnicodeText(t *testing.T) {
	rec := newRecorder()
	e, sched := newTestEngine(t, rec)
	require.True(t, e.Attach("de", "ÜBER"))
	require.NoError(t, e.Activate("de"))
	for sched.Step() {
	}
	frames := rec.frames["de"]
	require.Len(t, frames, 8)
	for _, f := range frames {
		assert.Len(t, []rune(f), 4)
	}
	assert.Equal(t, "ÜBER", frames[7])
}

func TestActivate_FractionalStepDoesNotDrift(t *testing.T) {
	sched := NewManualScheduler()
	cfg := DefaultConfig()
	cfg.Step = 0.1
	e := New(sched, cfg)
	require.True(t, e.Attach("ab", "AB"))
	require.NoError(t, e.Activate("ab"))

	ticks := 0
	for sched.Step() {
		ticks++
	}
	assert.Equal(t, 20, ticks)
	got, _ := e.Display("ab")
	assert.Equal(t, "AB", got)
}

func TestActivate_IndependentTargets(t *testing.T) {
	rec := newRecorder()
	e, sched := newTestEngine(t, rec)
	require.True(t, e.Attach("a", "AB"))
	require.True(t, e.Attach("b", "ABCDEF"))
	require.NoError(t, e.Activate("a"))
	require.NoError(t, e.Activate("b"))

	sched.Advance(4 * DefaultInterval)
	assert.False(t, e.Active("a"))
	assert.True(t, e.Active("b"))
	assert.Equal(t, 1, sched.Live())

	sched.Advance(8 * DefaultInterval)
	assert.False(t, e.Active("b"))
	assert.Len(t, rec.frames["a"], 4)
	assert.Len(t, rec.frames["b"], 12)
}

func TestTicksToResolve(t *testing.T) {
	tests := []struct {
		name string
		n    int
		step float64
		want int
	}{
		{name: "home", n: 4, step: 0.5, want: 8},
		{name: "whole step", n: 4, step: 1, want: 4},
		{name: "uneven", n: 5, step: 2, want: 3},
		{name: "default step", n: 3, step: 0, want: 6},
		{name: "empty", n: 0, step: 0.5, want: 0},
		{name: "nan step", n: 4, step: math.NaN(), want: 8},
		{name: "infinite step", n: 4, step: math.Inf(1), want: 8},
		{name: "max step", n: 4, step: MaxStep, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TicksToResolve(tt.n, tt.step))
		})
	}
}

func TestActivate_OutOfRangeStep(t *testing.T) {
	tests := []struct {
		name  string
		step  float64
		ticks int
	}{
		{name: "nan falls back to default", step: math.NaN(), ticks: 8},
		{name: "infinity falls back to default", step: math.Inf(1), ticks: 8},
		{name: "huge falls back to default", step: 1e20, ticks: 8},
		{name: "max step resolves in one tick", step: MaxStep, ticks: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sched := NewManualScheduler()
			cfg := DefaultConfig()
			cfg.Seed = 42
			cfg.Step = tt.step
			e := New(sched, cfg)
			require.True(t, e.Attach("home", "HOME"))
			require.NoError(t, e.Activate("home"))

			ticks := 0
			for sched.Step() && ticks < 1000 {
				ticks++
			}
			assert.Equal(t, tt.ticks, ticks)
			assert.False(t, e.Active("home"))
			got, _ := e.Display("home")
			assert.Equal(t, "HOME", got)
		})
	}
}
