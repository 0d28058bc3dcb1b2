package scramble

import "time"

// ManualScheduler is a Scheduler on a virtual clock. Nothing fires until the
// clock is advanced, which makes it suitable for tests and for producing
// frames without sleeping.
type ManualScheduler struct {
	now    time.Duration
	seq    uint64
	timers []*manualTimer
}

type manualTimer struct {
	interval time.Duration
	next     time.Duration
	seq      uint64
	fn       func()
	stopped  bool
}

func (t *manualTimer) Stop() { t.stopped = true }

// NewManualScheduler returns a scheduler whose clock starts at zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Every registers fn to fire every interval of virtual time.
func (m *ManualScheduler) Every(interval time.Duration, fn func()) Timer {
	if interval <= 0 {
		interval = time.Nanosecond
	}
	m.seq++
	t := &manualTimer{interval: interval, next: m.now + interval, seq: m.seq, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// Now returns the virtual time elapsed since creation.
func (m *ManualScheduler) Now() time.Duration { return m.now }

// Live returns the number of timers that have not been stopped.
func (m *ManualScheduler) Live() int {
	n := 0
	for _, t := range m.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d, firing due timers in due order.
// Timers registered by a callback may fire within the same call. It returns
// the number of callbacks run.
func (m *ManualScheduler) Advance(d time.Duration) int {
	deadline := m.now + d
	fired := 0
	for {
		t := m.nextDue(deadline)
		if t == nil {
			break
		}
		m.now = t.next
		t.next += t.interval
		t.fn()
		fired++
	}
	m.now = deadline
	m.compact()
	return fired
}

// Step advances the clock to the earliest pending firing and runs every timer
// due at that instant. It returns false when no timer is live.
func (m *ManualScheduler) Step() bool {
	var earliest *manualTimer
	for _, t := range m.timers {
		if t.stopped {
			continue
		}
		if earliest == nil || t.next < earliest.next {
			earliest = t
		}
	}
	if earliest == nil {
		return false
	}
	m.Advance(earliest.next - m.now)
	return true
}

func (m *ManualScheduler) nextDue(deadline time.Duration) *manualTimer {
	var best *manualTimer
	for _, t := range m.timers {
		if t.stopped || t.next > deadline {
			continue
		}
		if best == nil || t.next < best.next || (t.next == best.next && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (m *ManualScheduler) compact() {
	live := m.timers[:0]
	for _, t := range m.timers {
		if !t.stopped {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(m.timers); i++ {
		m.timers[i] = nil
	}
	m.timers = live
}
