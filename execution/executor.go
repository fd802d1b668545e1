package execution

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/cube2222/shaclplan/iteration"
)

// Executor runs plans. Its scheduler is shared by the time limits of all
// runs and must outlive them.
type Executor struct {
	Scheduler *iteration.Scheduler
	Logger    zerolog.Logger

	// Timeout interrupts runs taking longer. Zero means no limit.
	Timeout time.Duration
	// Silent turns failures into an early end of the results.
	Silent bool
	// AssertOrdering checks the ordering preconditions of merge based nodes.
	AssertOrdering bool
}

// Run starts the plan and returns its rows. Each run gets an ID, attached to
// the logger available to the nodes through the context.
func (e *Executor) Run(ctx context.Context, root PlanNode) (RowStream, ulid.ULID, error) {
	id := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader)
	logger := e.Logger.With().Str("run", id.String()).Logger()
	ctx = logger.WithContext(ctx)
	if e.AssertOrdering {
		ctx = WithOrderAssertions(ctx)
	}

	logger.Debug().Int("depth", root.Depth()).Msg("starting plan")
	stream, err := root.Get(ctx)
	if err != nil {
		return nil, id, errors.Wrap(err, "couldn't get plan stream")
	}

	stream = iteration.WithContext(ctx, stream)
	if e.Timeout > 0 {
		if e.Scheduler == nil {
			return nil, id, iteration.CloseOnError(errors.New("timeout set without a scheduler"), stream)
		}
		stream = iteration.TimeLimit(stream, e.Timeout, e.Scheduler)
	}
	if e.Silent {
		stream = iteration.Silent(stream, logger)
	}
	return stream, id, nil
}

// Collect runs the plan and reads all of its rows.
func (e *Executor) Collect(ctx context.Context, root PlanNode) ([]*Row, error) {
	stream, id, err := e.Run(ctx, root)
	if err != nil {
		return nil, err
	}
	rows, err := iteration.Collect(stream)
	if err != nil {
		return nil, errors.Wrapf(err, "run %s failed", id)
	}
	e.Logger.Debug().Str("run", id.String()).Int("rows", len(rows)).Msg("plan finished")
	return rows, nil
}
