package execution

import (
	"context"

	"github.com/pkg/errors"

	"github.com/cube2222/shaclplan/iteration"
)

// ErrUnsorted is returned by merge based nodes running with order
// assertions when an input breaks their ordering precondition.
var ErrUnsorted = errors.New("input violates ordering precondition")

type orderAssertionsKey struct{}

// WithOrderAssertions makes merge based nodes check that their inputs are
// sorted, and for the left side of joins, unique by leading column.
func WithOrderAssertions(ctx context.Context) context.Context {
	return context.WithValue(ctx, orderAssertionsKey{}, true)
}

func orderAssertionsEnabled(ctx context.Context) bool {
	enabled, _ := ctx.Value(orderAssertionsKey{}).(bool)
	return enabled
}

type orderCheck struct {
	// compare is the order the input must be non-decreasing in.
	compare func(a, b *Row) int
	// strict additionally rejects rows equal to their predecessor.
	strict bool
}

var (
	keyOrder       = orderCheck{compare: (*Row).CompareKey}
	uniqueKeyOrder = orderCheck{compare: (*Row).CompareKey, strict: true}
	rowOrder       = orderCheck{compare: (*Row).compareFull}
)

// assertOrder wraps stream with a check of the order, if assertions are
// enabled in ctx.
func assertOrder(ctx context.Context, stream RowStream, input string, check orderCheck) RowStream {
	if !orderAssertionsEnabled(ctx) {
		return stream
	}
	var previous *Row
	return iteration.Filter(stream, func(row *Row) (bool, error) {
		if previous != nil {
			c := check.compare(previous, row)
			if c > 0 {
				return false, errors.Wrapf(ErrUnsorted, "%s: %s follows %s", input, row, previous)
			}
			if c == 0 && check.strict {
				return false, errors.Wrapf(ErrUnsorted, "%s: duplicate key in %s after %s", input, row, previous)
			}
		}
		previous = row
		return true, nil
	})
}
