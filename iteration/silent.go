package iteration

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type silentIteration[T any] struct {
	Closer
	source Iteration[T]
	logger zerolog.Logger
}

// Silent swallows every error of source. A failing HasNext reports false and
// a failing Next reports ErrExhausted, after logging the failure and closing
// the source.
func Silent[T any](source Iteration[T], logger zerolog.Logger) Iteration[T] {
	return &silentIteration[T]{source: source, logger: logger}
}

func (it *silentIteration[T]) suppress(err error) {
	it.logger.Warn().Err(err).Msg("suppressed iteration error")
	_ = it.Close()
}

func (it *silentIteration[T]) HasNext() (bool, error) {
	if it.IsClosed() {
		return false, nil
	}
	ok, err := it.source.HasNext()
	if err != nil {
		it.suppress(err)
		return false, nil
	}
	if !ok {
		_ = it.Close()
	}
	return ok, nil
}

func (it *silentIteration[T]) Next() (T, error) {
	var zero T
	if it.IsClosed() {
		return zero, ErrExhausted
	}
	item, err := it.source.Next()
	if err != nil {
		if !errors.Is(err, ErrExhausted) {
			it.suppress(err)
		}
		return zero, ErrExhausted
	}
	return item, nil
}

func (it *silentIteration[T]) Close() error {
	return it.CloseOnce(func() error {
		if err := it.source.Close(); err != nil {
			it.logger.Warn().Err(err).Msg("suppressed error while closing iteration")
		}
		return nil
	})
}
