package quiz

import "time"

// Timer is a pending scheduled call that can be stopped before it fires
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d has elapsed
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type clockScheduler struct{}

// NewScheduler returns a Scheduler backed by the runtime timer heap
func NewScheduler() Scheduler {
	return clockScheduler{}
}

func (clockScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Delays are the pauses between grading an answer and moving on
type Delays struct {
	Correct   time.Duration
	Incorrect time.Duration
}

// DefaultDelays gives the learner time to read the expected answer after a miss
func DefaultDelays() Delays {
	return Delays{
		Correct:   800 * time.Millisecond,
		Incorrect: 3000 * time.Millisecond,
	}
}

func (d Delays) forResult(correct bool) time.Duration {
	if correct {
		return d.Correct
	}
	return d.Incorrect
}
