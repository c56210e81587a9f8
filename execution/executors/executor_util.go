package executors

import (
	"github.com/google/uuid"
	"github.com/pingcap/errors"
	"github.com/ryogrid/SamehadaQP/common"
	"github.com/ryogrid/SamehadaQP/storage/disk"
	"github.com/ryogrid/SamehadaQP/storage/table/schema"
	"github.com/ryogrid/SamehadaQP/storage/tuple"
)

// outputBuffer collects produced tuples and cuts them into full batches
type outputBuffer struct {
	capacity uint32
	tuples   []*tuple.Tuple
}

func newOutputBuffer(capacity uint32) *outputBuffer {
	return &outputBuffer{capacity, make([]*tuple.Tuple, 0, capacity)}
}

func (o *outputBuffer) add(tuple_ *tuple.Tuple) {
	o.tuples = append(o.tuples, tuple_)
}

func (o *outputBuffer) isFull() bool {
	return uint32(len(o.tuples)) >= o.capacity
}

func (o *outputBuffer) isEmpty() bool {
	return len(o.tuples) == 0
}

// popBatch returns at most capacity tuples as a batch
func (o *outputBuffer) popBatch() *tuple.Batch {
	ret := tuple.NewBatch(o.capacity)
	n := len(o.tuples)
	if uint32(n) > o.capacity {
		n = int(o.capacity)
	}
	for _, tuple_ := range o.tuples[:n] {
		ret.Append(tuple_)
	}
	o.tuples = o.tuples[n:]
	return ret
}

// tupleCursor reads an executor tuple at a time
type tupleCursor struct {
	child Executor
	batch *tuple.Batch
	pos   int
	done  bool
}

func newTupleCursor(child Executor) *tupleCursor {
	return &tupleCursor{child, nil, 0, false}
}

// next returns nil at the end
func (c *tupleCursor) next() (*tuple.Tuple, error) {
	for c.batch == nil || c.pos >= c.batch.Len() {
		if c.done {
			return nil, nil
		}
		batch, done, err := c.child.Next()
		if err != nil {
			return nil, err
		}
		if done {
			c.done = true
			c.batch = nil
			return nil, nil
		}
		if batch == nil {
			return nil, errors.New("child.Next returned nil unexpectedly.")
		}
		c.batch = batch
		c.pos = 0
	}
	ret := c.batch.GetTuple(c.pos)
	c.pos++
	return ret, nil
}

// newRunName returns unique name of a temporary file
func newRunName(kind string) string {
	return kind + "-" + uuid.NewString()
}

// spillExecutor writes every batch of child to a new run.
// returns the run and its tuple count
func spillExecutor(context *ExecutorContext, child Executor, name string) (disk.RunFile, uint64, error) {
	run, err := context.GetDiskManager().CreateRun(name)
	if err != nil {
		return nil, 0, err
	}
	count := uint64(0)
	for {
		batch, done, err := child.Next()
		if err != nil {
			return run, count, err
		}
		if done {
			return run, count, nil
		}
		if batch.IsEmpty() {
			continue
		}
		if _, err := run.WritePage(batch.Serialize()); err != nil {
			return run, count, errors.Annotatef(err, "spill to %s", name)
		}
		count += uint64(batch.Len())
	}
}

// readRunPage loads a page of run
func readRunPage(run disk.RunFile, pageNo uint32, capacity uint32, schema_ *schema.Schema) (*tuple.Batch, error) {
	data, err := run.ReadPage(pageNo)
	if err != nil {
		return nil, err
	}
	return tuple.DeserializeBatch(data, capacity, schema_)
}

// removeRun deletes run file if it exists
func removeRun(context *ExecutorContext, run disk.RunFile) error {
	if run == nil || !context.GetDiskManager().ExistsRun(run.GetName()) {
		return nil
	}
	run.Close()
	return context.GetDiskManager().RemoveRun(run.GetName())
}

func checkBuffers(context *ExecutorContext, need uint32, operator string) error {
	if context.GetNumBuffers() < need {
		return errors.Annotatef(common.ErrResource, "%s needs %d buffers but only %d", operator, need, context.GetNumBuffers())
	}
	return nil
}

// closeAll closes executors and returns the first error
func closeAll(executors ...Executor) error {
	var ret error
	for _, e := range executors {
		if e == nil {
			continue
		}
		if err := e.Close(); err != nil && ret == nil {
			ret = err
		}
	}
	return ret
}
