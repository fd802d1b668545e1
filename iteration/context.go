package iteration

import (
	"context"

	"github.com/pkg/errors"
)

type contextIteration[T any] struct {
	Closer
	ctx    context.Context
	source Iteration[T]
}

// WithContext checks ctx before every call into source. A cancelled context
// closes the iteration and surfaces ErrInterrupted.
func WithContext[T any](ctx context.Context, source Iteration[T]) Iteration[T] {
	return &contextIteration[T]{ctx: ctx, source: source}
}

func (it *contextIteration[T]) checkInterrupted() error {
	if err := it.ctx.Err(); err != nil {
		return CloseOnError(errors.Wrapf(ErrInterrupted, "%s", err), it)
	}
	return nil
}

func (it *contextIteration[T]) HasNext() (bool, error) {
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

func (it *contextIteration[T]) Next() (T, error) {
	var zero T
	if it.IsClosed() {
		return zero, ErrExhausted
	}
	if err := it.checkInterrupted(); err != nil {
		return zero, err
	}
	return it.source.Next()
}

func (it *contextIteration[T]) Close() error {
	return it.CloseOnce(it.source.Close)
}
