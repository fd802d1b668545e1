package iteration

import (
	"github.com/pkg/errors"
)

// Producer supplies elements to a LookAhead. ProduceNext returns false when
// there is nothing left. HandleClose releases whatever the producer owns and
// is called exactly once.
type Producer[T any] interface {
	ProduceNext() (T, bool, error)
	HandleClose() error
}

// LookAhead turns a Producer into an Iteration. It caches one element
// between HasNext and Next and closes itself on exhaustion or failure.
type LookAhead[T any] struct {
	Closer
	producer Producer[T]

	next     T
	buffered bool
}

func NewLookAhead[T any](producer Producer[T]) *LookAhead[T] {
	return &LookAhead[T]{producer: producer}
}

func (it *LookAhead[T]) HasNext() (bool, error) {
	if it.buffered {
		return true, nil
	}
	if it.IsClosed() {
		return false, nil
	}

	value, ok, err := it.producer.ProduceNext()
	if err != nil {
		return false, CloseOnError(err, it)
	}
	if !ok {
		if err := it.Close(); err != nil {
			return false, errors.Wrap(err, "couldn't close exhausted iteration")
		}
		return false, nil
	}

	it.next = value
	it.buffered = true
	return true, nil
}

func (it *LookAhead[T]) Next() (T, error) {
	var zero T
	ok, err := it.HasNext()
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, ErrExhausted
	}

	out := it.next
	it.next = zero
	it.buffered = false
	return out, nil
}

func (it *LookAhead[T]) Close() error {
	return it.CloseOnce(func() error {
		var zero T
		it.next = zero
		it.buffered = false
		return it.producer.HandleClose()
	})
}

type producerFuncs[T any] struct {
	next        func() (T, bool, error)
	handleClose func() error
}

func (p *producerFuncs[T]) ProduceNext() (T, bool, error) {
	return p.next()
}

func (p *producerFuncs[T]) HandleClose() error {
	if p.handleClose == nil {
		return nil
	}
	return p.handleClose()
}

// NewLookAheadFunc is NewLookAhead for producers given as plain functions.
// handleClose may be nil.
func NewLookAheadFunc[T any](next func() (T, bool, error), handleClose func() error) *LookAhead[T] {
	return NewLookAhead[T](&producerFuncs[T]{next: next, handleClose: handleClose})
}
