package iteration

import (
	"sync"

	"github.com/pkg/errors"
)

type delayedIteration[T any] struct {
	Closer
	create func() (Iteration[T], error)
	inner  Iteration[T]
}

// Delayed postpones calling create until the iteration is first used. It
// must only be used from a single goroutine, see ConcurrentDelayed otherwise.
func Delayed[T any](create func() (Iteration[T], error)) Iteration[T] {
	return &delayedIteration[T]{create: create}
}

func (it *delayedIteration[T]) get() (Iteration[T], error) {
	if it.inner == nil {
		inner, err := it.create()
		if err != nil {
			return nil, CloseOnError(errors.Wrap(err, "couldn't create delayed iteration"), it)
		}
		it.inner = inner
	}
	return it.inner, nil
}

func (it *delayedIteration[T]) HasNext() (bool, error) {
	if it.IsClosed() {
		return false, nil
	}
	inner, err := it.get()
	if err != nil {
		return false, err
	}
	ok, err := inner.HasNext()
	if err != nil {
		return false, CloseOnError(err, it)
	}
	if !ok {
		return false, it.Close()
	}
	return true, nil
}

func (it *delayedIteration[T]) Next() (T, error) {
	var zero T
	if it.IsClosed() {
		return zero, ErrExhausted
	}
	inner, err := it.get()
	if err != nil {
		return zero, err
	}
	return inner.Next()
}

func (it *delayedIteration[T]) Close() error {
	return it.CloseOnce(func() error {
		if it.inner == nil {
			return nil
		}
		return it.inner.Close()
	})
}

type concurrentDelayedIteration[T any] struct {
	Closer
	create func() (Iteration[T], error)

	once  sync.Once
	mu    sync.Mutex
	inner Iteration[T]
	err   error
}

// ConcurrentDelayed is Delayed for iterations whose creation may race with
// Close or with other callers.
func ConcurrentDelayed[T any](create func() (Iteration[T], error)) Iteration[T] {
	return &concurrentDelayedIteration[T]{create: create}
}

func (it *concurrentDelayedIteration[T]) get() (Iteration[T], error) {
	it.once.Do(func() {
		it.mu.Lock()
		defer it.mu.Unlock()
		if it.IsClosed() {
			it.err = ErrClosed
			return
		}
		it.inner, it.err = it.create()
		if it.err != nil {
			it.err = errors.Wrap(it.err, "couldn't create delayed iteration")
		}
	})
	return it.inner, it.err
}

func (it *concurrentDelayedIteration[T]) HasNext() (bool, error) {
	if it.IsClosed() {
		return false, nil
	}
	inner, err := it.get()
	if err != nil {
		return false, CloseOnError(err, it)
	}
	ok, err := inner.HasNext()
	if err != nil {
		return false, CloseOnError(err, it)
	}
	if !ok {
		return false, it.Close()
	}
	return true, nil
}

func (it *concurrentDelayedIteration[T]) Next() (T, error) {
	var zero T
	if it.IsClosed() {
		return zero, ErrExhausted
	}
	inner, err := it.get()
	if err != nil {
		return zero, CloseOnError(err, it)
	}
	return inner.Next()
}

func (it *concurrentDelayedIteration[T]) Close() error {
	return it.CloseOnce(func() error {
		it.mu.Lock()
		defer it.mu.Unlock()
		if it.inner == nil {
			return nil
		}
		return it.inner.Close()
	})
}
