package iteration

import (
	"github.com/pkg/errors"
)

type distinctProducer[T Hashable[T]] struct {
	source Iteration[T]
	seen   *HashSet[T]
}

func (p *distinctProducer[T]) ProduceNext() (T, bool, error) {
	var zero T
	for {
		item, ok, err := Pull(p.source)
		if err != nil {
			return zero, false, errors.Wrap(err, "couldn't get source element")
		}
		if !ok {
			return zero, false, nil
		}
		if p.seen.Add(item) {
			return item, true, nil
		}
	}
}

func (p *distinctProducer[T]) HandleClose() error {
	p.seen = NewHashSet[T]()
	return p.source.Close()
}

// Distinct removes every element already seen before. Memory grows with the
// number of distinct elements.
func Distinct[T Hashable[T]](source Iteration[T]) *LookAhead[T] {
	return NewLookAhead[T](&distinctProducer[T]{source: source, seen: NewHashSet[T]()})
}

type reducedProducer[T Equaler[T]] struct {
	source   Iteration[T]
	previous T
	started  bool
}

func (p *reducedProducer[T]) ProduceNext() (T, bool, error) {
	var zero T
	for {
		item, ok, err := Pull(p.source)
		if err != nil {
			return zero, false, errors.Wrap(err, "couldn't get source element")
		}
		if !ok {
			return zero, false, nil
		}
		if p.started && p.previous.Equal(item) {
			continue
		}
		p.previous = item
		p.started = true
		return item, true, nil
	}
}

func (p *reducedProducer[T]) HandleClose() error {
	var zero T
	p.previous = zero
	return p.source.Close()
}

// Reduced only drops duplicates directly following each other.
func Reduced[T Equaler[T]](source Iteration[T]) *LookAhead[T] {
	return NewLookAhead[T](&reducedProducer[T]{source: source})
}
