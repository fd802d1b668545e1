package iteration

import (
	"github.com/pkg/errors"
)

type setFilterProducer[T Hashable[T]] struct {
	source, other Iteration[T]
	// keepMembers selects intersection (true) or difference (false).
	keepMembers bool
	distinct    bool

	set         *HashSet[T]
	initialized bool
}

func (p *setFilterProducer[T]) initialize() error {
	p.set = NewHashSet[T]()
	err := ForEach(p.other, func(item T) error {
		p.set.Add(item)
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "couldn't materialize second argument")
	}
	p.initialized = true
	return nil
}

func (p *setFilterProducer[T]) ProduceNext() (T, bool, error) {
	var zero T
	if !p.initialized {
		if err := p.initialize(); err != nil {
			return zero, false, err
		}
	}

	for {
		item, ok, err := Pull(p.source)
		if err != nil {
			return zero, false, errors.Wrap(err, "couldn't get source element")
		}
		if !ok {
			return zero, false, nil
		}

		if p.keepMembers {
			if !p.set.Contains(item) {
				continue
			}
			if p.distinct {
				p.set.Remove(item)
			}
			return item, true, nil
		}

		if p.set.Contains(item) {
			continue
		}
		if p.distinct {
			p.set.Add(item)
		}
		return item, true, nil
	}
}

func (p *setFilterProducer[T]) HandleClose() error {
	p.set = nil
	return CloseAll(p.source, p.other)
}

// Intersect yields elements of source that are present in other. The other
// argument is materialized on the first pull. With distinct set, every
// element is yielded at most once.
func Intersect[T Hashable[T]](source, other Iteration[T], distinct bool) *LookAhead[T] {
	return NewLookAhead[T](&setFilterProducer[T]{
		source:      source,
		other:       other,
		keepMembers: true,
		distinct:    distinct,
	})
}

// Minus yields elements of source absent from other. The other argument is
// materialized on the first pull. With distinct set, every element is
// yielded at most once.
func Minus[T Hashable[T]](source, other Iteration[T], distinct bool) *LookAhead[T] {
	return NewLookAhead[T](&setFilterProducer[T]{
		source:      source,
		other:       other,
		keepMembers: false,
		distinct:    distinct,
	})
}
