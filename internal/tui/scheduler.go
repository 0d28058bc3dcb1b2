package tui

import (
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/franzer/glitchnav/internal/scramble"
)

// timerFiredMsg is delivered by a tea.Tick armed for a scheduler timer.
type timerFiredMsg struct {
	id uint64
}

// teaScheduler implements scramble.Scheduler on top of bubbletea's message
// loop. Timers are tea.Tick commands; their callbacks run inside Update, so
// the engine only ever sees bubbletea's goroutine.
type teaScheduler struct {
	next    uint64
	timers  map[uint64]*teaTimer
	pending []tea.Cmd
}

type teaTimer struct {
	s        *teaScheduler
	id       uint64
	interval time.Duration
	fn       func()
}

func (t *teaTimer) Stop() { delete(t.s.timers, t.id) }

func newTeaScheduler() *teaScheduler {
	return &teaScheduler{timers: make(map[uint64]*teaTimer)}
}

func (s *teaScheduler) Every(interval time.Duration, fn func()) scramble.Timer {
	s.next++
	t := &teaTimer{s: s, id: s.next, interval: interval, fn: fn}
	s.timers[t.id] = t
	s.arm(t)
	return t
}

func (s *teaScheduler) arm(t *teaTimer) {
	id := t.id
	s.pending = append(s.pending, tea.Tick(t.interval, func(time.Time) tea.Msg {
		return timerFiredMsg{id: id}
	}))
}

// fire runs the callback of a live timer and re-arms it. Messages for
// stopped timers are dropped.
func (s *teaScheduler) fire(id uint64) {
	t, ok := s.timers[id]
	if !ok {
		return
	}
	t.fn()
	if _, live := s.timers[id]; live {
		s.arm(t)
	}
}

// flush hands the armed ticks to bubbletea.
func (s *teaScheduler) flush() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}

func (s *teaScheduler) live() []uint64 {
	ids := make([]uint64, 0, len(s.timers))
	for id := range s.timers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
