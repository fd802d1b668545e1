package execution

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/cube2222/shaclplan/graph"
	"github.com/cube2222/shaclplan/iteration"
)

// Sink receives rows pushed by the node owning it.
type Sink interface {
	Push(row *Row)
}

var ErrAlreadyStarted = errors.New("push node output already started")

// driver runs the stream of a node with side outputs. Every output, the
// primary one included, is a PushNode buffering the rows it has been handed.
// Pulling an output with an empty buffer advances the owner's stream, which
// may push rows to any of the outputs.
//
// The owner's stream is closed as soon as no started output is open.
// Outputs started after that only get the rows already buffered for them,
// followed by ErrClosed if the owner didn't finish.
type driver struct {
	mu      sync.Mutex
	owner   PlanNode
	start   func(ctx context.Context) (RowStream, error)
	outputs []*PushNode

	stream  RowStream
	started bool
	done    bool
	err     error
	// open counts outputs started with Get and not closed yet.
	open int
}

func newDriver(owner PlanNode, start func(ctx context.Context) (RowStream, error)) *driver {
	d := &driver{owner: owner, start: start}
	d.attach("primary")
	return d
}

func (d *driver) primary() *PushNode {
	return d.outputs[0]
}

func (d *driver) attach(name string) *PushNode {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := &PushNode{name: name, owner: d}
	d.outputs = append(d.outputs, out)
	return out
}

// pump moves the owner's stream by one row. The caller holds d.mu.
func (d *driver) pump(ctx context.Context) error {
	if d.err != nil {
		return d.err
	}
	if !d.started {
		d.started = true
		stream, err := d.start(ctx)
		if err != nil {
			d.err = errors.Wrap(err, "couldn't get owner stream")
			d.done = true
			return d.err
		}
		d.stream = stream
	}

	row, ok, err := iteration.Pull(d.stream)
	if err != nil {
		d.err = err
		d.done = true
		return err
	}
	if !ok {
		d.done = true
		return nil
	}
	d.primary().Push(row)
	return nil
}

// release is called when an output stream closes. The caller holds d.mu.
func (d *driver) release() error {
	d.open--
	if d.open > 0 || d.stream == nil {
		return nil
	}
	if !d.done {
		d.done = true
		d.err = errors.Wrap(iteration.ErrClosed, "outputs closed before the owner finished")
	}
	return d.stream.Close()
}

// PushNode is a plan node fed by its owner instead of pulling from
// upstream. Rows are handed out in the order they were pushed. Once its
// stream is closed, further pushes are dropped.
type PushNode struct {
	name  string
	owner *driver

	buffer []*Row
	got    bool
	closed bool
}

func (node *PushNode) Push(row *Row) {
	if node.closed {
		return
	}
	node.buffer = append(node.buffer, row)
}

func (node *PushNode) Get(ctx context.Context) (RowStream, error) {
	d := node.owner
	d.mu.Lock()
	defer d.mu.Unlock()
	if node.got {
		return nil, errors.Wrapf(ErrAlreadyStarted, "output %s", node.name)
	}
	node.got = true
	d.open++

	return iteration.NewLookAheadFunc(
		func() (*Row, bool, error) {
			d.mu.Lock()
			defer d.mu.Unlock()
			for len(node.buffer) == 0 {
				if d.done {
					return nil, false, d.err
				}
				if err := d.pump(ctx); err != nil {
					return nil, false, err
				}
			}
			row := node.buffer[0]
			node.buffer[0] = nil
			node.buffer = node.buffer[1:]
			return row, true, nil
		},
		func() error {
			d.mu.Lock()
			defer d.mu.Unlock()
			node.closed = true
			node.buffer = nil
			return d.release()
		},
	), nil
}

func (node *PushNode) Depth() int {
	return node.owner.owner.Depth() + 1
}

func (node *PushNode) Visualize() *graph.Node {
	n := graph.NewNode("push")
	n.AddField("output", node.name)
	n.AddChild("owner", node.owner.owner.Visualize())
	return n
}

// sideOutputs is embedded by nodes which can feed rows to side channels.
// Until a side output is requested the node streams directly.
type sideOutputs struct {
	driver *driver
}

// primary switches the node to push mode without attaching a side output.
func (s *sideOutputs) primary(owner PlanNode, start func(ctx context.Context) (RowStream, error)) *PushNode {
	if s.driver == nil {
		s.driver = newDriver(owner, start)
	}
	return s.driver.primary()
}

func (s *sideOutputs) side(owner PlanNode, name string, start func(ctx context.Context) (RowStream, error)) *PushNode {
	s.primary(owner, start)
	return s.driver.attach(name)
}

func (s *sideOutputs) get(ctx context.Context, start func(ctx context.Context) (RowStream, error)) (RowStream, error) {
	if s.driver == nil {
		return start(ctx)
	}
	return s.driver.primary().Get(ctx)
}

func sink(node *PushNode) Sink {
	if node == nil {
		return nil
	}
	return node
}
