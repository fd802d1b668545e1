package iteration

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Scheduler runs delayed tasks for time-limited iterations. A process is
// expected to create one at start-up, share it, and Stop it at shutdown.
type Scheduler struct {
	clock clock.Clock

	mu      sync.Mutex
	timers  map[uint64]*clock.Timer
	nextID  uint64
	stopped bool
}

func NewScheduler(clk clock.Clock) *Scheduler {
	if clk == nil {
		clk = clock.New()
	}
	return &Scheduler{
		clock:  clk,
		timers: make(map[uint64]*clock.Timer),
	}
}

// Schedule runs task after delay, unless the returned cancel function or
// Stop is called first. Scheduling on a stopped scheduler is a no-op.
func (s *Scheduler) Schedule(delay time.Duration, task func()) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return func() {}
	}

	id := s.nextID
	s.nextID++
	s.timers[id] = s.clock.AfterFunc(delay, func() {
		s.mu.Lock()
		_, pending := s.timers[id]
		delete(s.timers, id)
		s.mu.Unlock()

		if pending {
			task()
		}
	})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if timer, ok := s.timers[id]; ok {
			timer.Stop()
			delete(s.timers, id)
		}
	}
}

// Pending returns the number of tasks which haven't run nor been cancelled.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}
