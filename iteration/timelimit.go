package iteration

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/atomic"
)

type timeLimitedIteration[T any] struct {
	Closer
	source      Iteration[T]
	timeout     time.Duration
	interrupted atomic.Bool
	cancel      func()
}

// TimeLimit interrupts source once timeout elapses. Interruption is
// cooperative: it is noticed on the next HasNext or Next call, which closes
// the iteration and fails with ErrTimedOut. A non-positive timeout disables
// the limit.
func TimeLimit[T any](source Iteration[T], timeout time.Duration, scheduler *Scheduler) Iteration[T] {
	if timeout <= 0 {
		return source
	}
	it := &timeLimitedIteration[T]{
		source:  source,
		timeout: timeout,
	}
	it.cancel = scheduler.Schedule(timeout, func() {
		it.interrupted.Store(true)
	})
	return it
}

func (it *timeLimitedIteration[T]) checkInterrupted() error {
	if !it.interrupted.Load() {
		return nil
	}
	return CloseOnError(errors.Wrapf(ErrTimedOut, "iteration exceeded its time limit of %s", it.timeout), it)
}

func (it *timeLimitedIteration[T]) HasNext() (bool, error) {
	if it.IsClosed() {
		return false, nil
	}
	if err := it.checkInterrupted(); err != nil {
		return false, err
	}
	ok, err := it.source.HasNext()
	if err != nil {
		return false, CloseOnError(err, it)
	}
	if !ok {
		return false, it.Close()
	}
	return true, nil
}

func (it *timeLimitedIteration[T]) Next() (T, error) {
	var zero T
	if it.IsClosed() {
		return zero, ErrExhausted
	}
	if err := it.checkInterrupted(); err != nil {
		return zero, err
	}
	item, err := it.source.Next()
	if err != nil && !errors.Is(err, ErrExhausted) {
		return zero, CloseOnError(err, it)
	}
	return item, err
}

func (it *timeLimitedIteration[T]) Close() error {
	return it.CloseOnce(func() error {
		it.cancel()
		return it.source.Close()
	})
}
