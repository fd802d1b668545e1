// Package iteration contains closeable, single-pass sequences and the
// combinators built on top of them.
package iteration

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
)

var (
	ErrExhausted   = errors.New("iteration exhausted")
	ErrClosed      = errors.New("iteration closed")
	ErrTimedOut    = errors.New("iteration timed out")
	ErrInterrupted = errors.New("iteration interrupted")
)

// Iteration is a pull-based sequence which may fail.
//
// Once HasNext reports false the iteration has already closed itself.
// Close is idempotent. After Close, HasNext returns false and Next
// returns ErrExhausted.
type Iteration[T any] interface {
	HasNext() (bool, error)
	Next() (T, error)
	Close() error
}

// Closer runs a close hook at most once, no matter how many times and from
// which goroutines it is asked to.
type Closer struct {
	closed atomic.Bool
}

func (c *Closer) CloseOnce(hook func() error) error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	if hook == nil {
		return nil
	}
	return hook()
}

func (c *Closer) IsClosed() bool {
	return c.closed.Load()
}

// Pull fetches the next element of source, reporting false on exhaustion.
func Pull[T any](source Iteration[T]) (T, bool, error) {
	var zero T
	ok, err := source.HasNext()
	if err != nil || !ok {
		return zero, false, err
	}
	value, err := source.Next()
	if err != nil {
		return zero, false, err
	}
	return value, true, nil
}

// CloseAll closes every closer, even if some of them fail.
func CloseAll[C interface{ Close() error }](closers ...C) error {
	var result *multierror.Error
	for i := range closers {
		if err := closers[i].Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// CloseOnError closes the given closers after err happened. A failing close
// is attached to err, never replacing it.
func CloseOnError[C interface{ Close() error }](err error, closers ...C) error {
	if closeErr := CloseAll(closers...); closeErr != nil {
		return multierror.Append(err, errors.Wrap(closeErr, "couldn't close after failure"))
	}
	return err
}
