package iteration

import (
	"github.com/pkg/errors"
)

type limitProducer[T any] struct {
	source   Iteration[T]
	limit    int64
	produced int64
}

func (p *limitProducer[T]) ProduceNext() (T, bool, error) {
	var zero T
	if p.produced >= p.limit {
		return zero, false, nil
	}
	item, ok, err := Pull(p.source)
	if err != nil {
		return zero, false, errors.Wrap(err, "couldn't get source element")
	}
	if !ok {
		return zero, false, nil
	}
	p.produced++
	return item, true, nil
}

func (p *limitProducer[T]) HandleClose() error {
	return p.source.Close()
}

type limitIteration[T any] struct {
	*LookAhead[T]
	limit     int64
	delivered int64
}

// Next closes the iteration, and with it the source, as soon as the last
// allowed element is handed out.
func (it *limitIteration[T]) Next() (T, error) {
	item, err := it.LookAhead.Next()
	if err != nil {
		return item, err
	}
	it.delivered++
	if it.delivered >= it.limit {
		if err := it.Close(); err != nil {
			return item, errors.Wrap(err, "couldn't close limited iteration")
		}
	}
	return item, nil
}

// Limit yields at most limit elements of source.
func Limit[T any](source Iteration[T], limit int64) Iteration[T] {
	return &limitIteration[T]{
		LookAhead: NewLookAhead[T](&limitProducer[T]{source: source, limit: limit}),
		limit:     limit,
	}
}

type offsetProducer[T any] struct {
	source  Iteration[T]
	offset  int64
	skipped bool
}

func (p *offsetProducer[T]) ProduceNext() (T, bool, error) {
	var zero T
	if !p.skipped {
		p.skipped = true
		for i := int64(0); i < p.offset; i++ {
			_, ok, err := Pull(p.source)
			if err != nil {
				return zero, false, errors.Wrapf(err, "couldn't skip element %d", i)
			}
			if !ok {
				return zero, false, nil
			}
		}
	}
	item, ok, err := Pull(p.source)
	if err != nil {
		return zero, false, errors.Wrap(err, "couldn't get source element")
	}
	return item, ok, nil
}

func (p *offsetProducer[T]) HandleClose() error {
	return p.source.Close()
}

// Offset drops the first offset elements of source.
func Offset[T any](source Iteration[T], offset int64) *LookAhead[T] {
	return NewLookAhead[T](&offsetProducer[T]{source: source, offset: offset})
}
