package iteration

import (
	"iter"

	"github.com/pkg/errors"
)

// Collect drains the iteration into a slice and closes it.
func Collect[T any](it Iteration[T]) (out []T, err error) {
	err = ForEach(it, func(item T) error {
		out = append(out, item)
		return nil
	})
	return out, err
}

// ForEach calls fn for every element, closing the iteration afterwards
// regardless of how the loop ended.
func ForEach[T any](it Iteration[T], fn func(T) error) error {
	for {
		item, ok, err := Pull(it)
		if err != nil {
			return CloseOnError(errors.Wrap(err, "couldn't get next element"), it)
		}
		if !ok {
			break
		}
		if err := fn(item); err != nil {
			return CloseOnError(err, it)
		}
	}
	if err := it.Close(); err != nil {
		return errors.Wrap(err, "couldn't close iteration")
	}
	return nil
}

func Count[T any](it Iteration[T]) (int, error) {
	count := 0
	err := ForEach(it, func(T) error {
		count++
		return nil
	})
	return count, err
}

// All adapts the iteration to a range-over-func sequence. Breaking out of
// the loop early closes the iteration. Errors, including close errors, are
// yielded as the second value.
func All[T any](it Iteration[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		for {
			item, ok, err := Pull(it)
			if err != nil {
				yield(zero, CloseOnError(err, it))
				return
			}
			if !ok {
				break
			}
			if !yield(item, nil) {
				_ = it.Close()
				return
			}
		}
		if err := it.Close(); err != nil {
			yield(zero, err)
		}
	}
}

type mapProducer[T, U any] struct {
	source Iteration[T]
	fn     func(T) (U, error)
}

func (p *mapProducer[T, U]) ProduceNext() (U, bool, error) {
	var zero U
	item, ok, err := Pull(p.source)
	if err != nil {
		return zero, false, errors.Wrap(err, "couldn't get source element")
	}
	if !ok {
		return zero, false, nil
	}
	out, err := p.fn(item)
	if err != nil {
		return zero, false, errors.Wrap(err, "couldn't convert element")
	}
	return out, true, nil
}

func (p *mapProducer[T, U]) HandleClose() error {
	return p.source.Close()
}

// Map converts every element of source with fn.
func Map[T, U any](source Iteration[T], fn func(T) (U, error)) *LookAhead[U] {
	return NewLookAhead[U](&mapProducer[T, U]{source: source, fn: fn})
}
