// Package quiztest provides deterministic timing and ordering for code that
// drives quiz sessions in tests.
package quiztest

import (
	"sort"
	"sync"
	"time"

	"vocabquiz/internal/quiz"
)

// ManualScheduler only runs scheduled callbacks when Advance moves its clock
// past their deadline
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	at    time.Duration
	delay time.Duration
	fn    func()
	done  bool
	sched *ManualScheduler
}

// AfterFunc implements quiz.Scheduler
func (m *ManualScheduler) AfterFunc(d time.Duration, fn func()) quiz.Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTimer{at: m.now + d, delay: d, fn: fn, sched: m}
	m.timers = append(m.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}

// Advance moves the clock forward and runs due callbacks in deadline order
func (m *ManualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	m.now += d
	var due []*manualTimer
	for _, t := range m.timers {
		if !t.done && t.at <= m.now {
			t.done = true
			due = append(due, t)
		}
	}
	m.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		t.fn()
	}
}

// FireAll runs every callback ever scheduled, stopped and already run ones
// included, the way a timer that fires late would
func (m *ManualScheduler) FireAll() {
	m.mu.Lock()
	all := make([]*manualTimer, len(m.timers))
	copy(all, m.timers)
	for _, t := range all {
		t.done = true
	}
	m.mu.Unlock()

	for _, t := range all {
		t.fn()
	}
}

// LastDelay returns the delay of the most recently scheduled callback
func (m *ManualScheduler) LastDelay() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.timers) == 0 {
		return 0
	}
	return m.timers[len(m.timers)-1].delay
}

// Pending counts callbacks that are neither stopped nor run
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.timers {
		if !t.done {
			n++
		}
	}
	return n
}

// KeepOrder is a shuffle source that leaves questions in catalog order
type KeepOrder struct{}

// Intn always picks the current element, so every swap is a no-op
func (KeepOrder) Intn(n int) int { return n - 1 }
