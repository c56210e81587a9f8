package executors

import (
	"github.com/ryogrid/SamehadaQP/execution/plans"
	"github.com/ryogrid/SamehadaQP/storage/table/schema"
	"github.com/ryogrid/SamehadaQP/storage/tuple"
)

// ProjectionExecutor keeps the projected columns of each child tuple.
// output tuples are smaller so batches are refilled up to the output capacity
type ProjectionExecutor struct {
	context  *ExecutorContext
	plan     *plans.ProjectionPlanNode
	child    Executor
	colIdxes []uint32
	cursor   *tupleCursor
	out      *outputBuffer
}

func NewProjectionExecutor(context *ExecutorContext, plan *plans.ProjectionPlanNode, child Executor) Executor {
	return &ProjectionExecutor{context, plan, child, nil, nil, nil}
}

func (e *ProjectionExecutor) Init() error {
	colIdxes, err := e.child.GetOutputSchema().GetKeyIndexes(e.plan.GetColumns())
	if err != nil {
		return err
	}
	if err := e.child.Init(); err != nil {
		return err
	}
	e.colIdxes = colIdxes
	e.cursor = newTupleCursor(e.child)
	e.out = newOutputBuffer(e.context.BatchCapacityOf(e.GetOutputSchema()))
	return nil
}

func (e *ProjectionExecutor) Next() (*tuple.Batch, Done, error) {
	for !e.out.isFull() {
		tuple_, err := e.cursor.next()
		if err != nil {
			return nil, true, err
		}
		if tuple_ == nil {
			break
		}
		e.out.add(tuple_.Project(e.colIdxes))
	}
	if e.out.isEmpty() {
		return nil, true, nil
	}
	return e.out.popBatch(), false, nil
}

func (e *ProjectionExecutor) Close() error {
	return e.child.Close()
}

func (e *ProjectionExecutor) GetOutputSchema() *schema.Schema {
	return e.plan.OutputSchema()
}
