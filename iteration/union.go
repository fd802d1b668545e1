package iteration

import (
	"github.com/pkg/errors"
)

// Union concatenates two iterations. If either side is known to be empty the
// other one is returned as is.
func Union[T any](left, right Iteration[T]) Iteration[T] {
	if _, ok := left.(*EmptyIteration[T]); ok {
		_ = left.Close()
		return right
	}
	if _, ok := right.(*EmptyIteration[T]); ok {
		_ = right.Close()
		return left
	}
	return UnionAll(left, right)
}

type unionProducer[T any] struct {
	sources []Iteration[T]
	current int
}

func (p *unionProducer[T]) ProduceNext() (T, bool, error) {
	var zero T
	for p.current < len(p.sources) {
		item, ok, err := Pull(p.sources[p.current])
		if err != nil {
			return zero, false, errors.Wrapf(err, "couldn't get element from source with index %d", p.current)
		}
		if ok {
			return item, true, nil
		}
		p.current++
	}
	return zero, false, nil
}

func (p *unionProducer[T]) HandleClose() error {
	if err := CloseAll(p.sources...); err != nil {
		return errors.Wrap(err, "couldn't close union sources")
	}
	return nil
}

// UnionAll yields all elements of all sources, one source after another.
// Duplicates are kept.
func UnionAll[T any](sources ...Iteration[T]) *LookAhead[T] {
	return NewLookAhead[T](&unionProducer[T]{sources: sources})
}
