package iteration

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// Queue connects a producer goroutine to a consumer pulling through the
// Iteration interface. The producer calls Put for each element and Done when
// finished, or Fail to hand an error over to the consumer.
type Queue[T any] struct {
	*LookAhead[T]

	ctx          context.Context
	items        chan T
	failures     chan error
	producerDone chan struct{}
	consumerDone chan struct{}
	doneOnce     sync.Once
	closeOnce    sync.Once
}

func NewQueue[T any](ctx context.Context, capacity int) *Queue[T] {
	q := &Queue[T]{
		ctx:          ctx,
		items:        make(chan T, capacity),
		failures:     make(chan error, 1),
		producerDone: make(chan struct{}),
		consumerDone: make(chan struct{}),
	}
	q.LookAhead = NewLookAhead[T](&queueProducer[T]{queue: q})
	return q
}

// Put blocks until there is room for item. It fails with ErrClosed once the
// consumer has closed the queue or Done has been called. An item sent while
// the consumer was closing is dropped and reported as ErrClosed as well.
func (q *Queue[T]) Put(ctx context.Context, item T) error {
	select {
	case <-q.consumerDone:
		return ErrClosed
	case <-q.producerDone:
		return errors.Wrap(ErrClosed, "queue already marked as done")
	default:
	}

	select {
	case q.items <- item:
		select {
		case <-q.consumerDone:
			q.drain()
			return ErrClosed
		default:
			return nil
		}
	case <-q.consumerDone:
		return ErrClosed
	case <-ctx.Done():
		return errors.Wrap(ErrInterrupted, ctx.Err().Error())
	}
}

// Done marks the end of the produced elements. It may be called any number
// of times and never blocks, even when the queue is full.
func (q *Queue[T]) Done() {
	q.doneOnce.Do(func() {
		close(q.producerDone)
	})
}

// Fail reports a producer failure. The consumer gets it on its next call.
// Only the first failure is kept.
func (q *Queue[T]) Fail(err error) {
	select {
	case q.failures <- err:
	default:
	}
}

func (q *Queue[T]) takeFailure() error {
	select {
	case err := <-q.failures:
		return errors.Wrap(err, "queue producer failed")
	default:
		return nil
	}
}

func (q *Queue[T]) drain() {
	for {
		select {
		case <-q.items:
		default:
			return
		}
	}
}

type queueProducer[T any] struct {
	queue *Queue[T]
}

func (p *queueProducer[T]) ProduceNext() (T, bool, error) {
	var zero T
	q := p.queue
	if err := q.takeFailure(); err != nil {
		return zero, false, err
	}

	select {
	case item := <-q.items:
		return item, true, nil
	case err := <-q.failures:
		return zero, false, errors.Wrap(err, "queue producer failed")
	case <-q.producerDone:
		// Elements put before Done still have to be handed out.
		select {
		case item := <-q.items:
			return item, true, nil
		default:
		}
		if err := q.takeFailure(); err != nil {
			return zero, false, err
		}
		return zero, false, nil
	case <-q.ctx.Done():
		return zero, false, errors.Wrap(ErrInterrupted, q.ctx.Err().Error())
	}
}

func (p *queueProducer[T]) HandleClose() error {
	q := p.queue
	q.closeOnce.Do(func() {
		close(q.consumerDone)
	})
	q.drain()
	return nil
}
