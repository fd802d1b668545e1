package iteration

import (
	"github.com/pkg/errors"
)

type filterProducer[T any] struct {
	source    Iteration[T]
	predicate func(T) (bool, error)
}

func (p *filterProducer[T]) ProduceNext() (T, bool, error) {
	var zero T
	for {
		item, ok, err := Pull(p.source)
		if err != nil {
			return zero, false, errors.Wrap(err, "couldn't get source element")
		}
		if !ok {
			return zero, false, nil
		}

		keep, err := p.predicate(item)
		if err != nil {
			return zero, false, errors.Wrap(err, "couldn't evaluate filter predicate")
		}
		if keep {
			return item, true, nil
		}
	}
}

func (p *filterProducer[T]) HandleClose() error {
	return p.source.Close()
}

// Filter keeps the elements for which predicate holds.
func Filter[T any](source Iteration[T], predicate func(T) (bool, error)) *LookAhead[T] {
	return NewLookAhead[T](&filterProducer[T]{source: source, predicate: predicate})
}
