package iteration

// EmptyIteration never has elements.
type EmptyIteration[T any] struct {
	Closer
}

func Empty[T any]() *EmptyIteration[T] {
	return &EmptyIteration[T]{}
}

func (it *EmptyIteration[T]) HasNext() (bool, error) {
	_ = it.Close()
	return false, nil
}

func (it *EmptyIteration[T]) Next() (T, error) {
	var zero T
	return zero, ErrExhausted
}

func (it *EmptyIteration[T]) Close() error {
	return it.CloseOnce(nil)
}

type sliceProducer[T any] struct {
	items []T
	index int
}

func (p *sliceProducer[T]) ProduceNext() (T, bool, error) {
	var zero T
	if p.index >= len(p.items) {
		return zero, false, nil
	}
	out := p.items[p.index]
	p.index++
	return out, true, nil
}

func (p *sliceProducer[T]) HandleClose() error {
	p.items = nil
	return nil
}

// NewSlice iterates over the given items. The slice is not copied.
func NewSlice[T any](items ...T) *LookAhead[T] {
	return NewLookAhead[T](&sliceProducer[T]{items: items})
}

func Single[T any](item T) *LookAhead[T] {
	return NewSlice(item)
}
