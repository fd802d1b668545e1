package execution

import (
	"context"

	"github.com/pkg/errors"

	"github.com/cube2222/shaclplan/iteration"
)

// getInputs starts both inputs of a binary node.
func getInputs(ctx context.Context, left, right PlanNode) (RowStream, RowStream, error) {
	leftStream, err := left.Get(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "couldn't get left stream")
	}
	rightStream, err := right.Get(ctx)
	if err != nil {
		return nil, nil, iteration.CloseOnError(errors.Wrap(err, "couldn't get right stream"), leftStream)
	}
	return leftStream, rightStream, nil
}

// merger holds the current row of both sides of a merge. A nil current row
// means that side is exhausted.
type merger struct {
	left, right       RowStream
	leftRow, rightRow *Row
	started           bool
}

func (m *merger) start() error {
	if m.started {
		return nil
	}
	m.started = true
	if err := m.advanceLeft(); err != nil {
		return err
	}
	return m.advanceRight()
}

func (m *merger) advanceLeft() error {
	row, _, err := iteration.Pull(m.left)
	if err != nil {
		return errors.Wrap(err, "couldn't get next left row")
	}
	m.leftRow = row
	return nil
}

func (m *merger) advanceRight() error {
	row, _, err := iteration.Pull(m.right)
	if err != nil {
		return errors.Wrap(err, "couldn't get next right row")
	}
	m.rightRow = row
	return nil
}

// advanceAfterMatch moves past a right row matching the current left row.
// The left side only moves when the next right row has a different key, so
// every right row sharing the key gets matched against it.
func (m *merger) advanceAfterMatch() error {
	if err := m.advanceRight(); err != nil {
		return err
	}
	if m.rightRow != nil && m.rightRow.CompareKey(m.leftRow) == 0 {
		return nil
	}
	return m.advanceLeft()
}

// drain pushes the current and all remaining rows of a side to sink.
func drain(current *Row, stream RowStream, sink Sink) error {
	if current == nil || sink == nil {
		return nil
	}
	sink.Push(current)
	for {
		row, ok, err := iteration.Pull(stream)
		if err != nil {
			return errors.Wrap(err, "couldn't drain stream into sink")
		}
		if !ok {
			return nil
		}
		sink.Push(row)
	}
}

func (m *merger) close() error {
	return iteration.CloseAll(m.left, m.right)
}
