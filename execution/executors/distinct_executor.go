package executors

import (
	"github.com/ryogrid/SamehadaQP/execution/plans"
	"github.com/ryogrid/SamehadaQP/storage/table/schema"
	"github.com/ryogrid/SamehadaQP/storage/tuple"
)

// DistinctExecutor sorts child on all columns and drops adjacent duplicates
type DistinctExecutor struct {
	context *ExecutorContext
	plan    *plans.DistinctPlanNode
	child   Executor
	sorter  *ExternalSort
	cursor  *RunCursor
	prev    *tuple.Tuple
	out     *outputBuffer
}

func NewDistinctExecutor(context *ExecutorContext, plan *plans.DistinctPlanNode, child Executor) Executor {
	return &DistinctExecutor{context, plan, child, nil, nil, nil, nil}
}

func (e *DistinctExecutor) Init() error {
	keys := make([]uint32, e.child.GetOutputSchema().GetColumnCount())
	for i := range keys {
		keys[i] = uint32(i)
	}
	e.sorter = NewExternalSort(e.context, e.child, keys)
	if err := e.sorter.Run(); err != nil {
		return err
	}
	e.cursor = e.sorter.NewCursor()
	e.prev = nil
	e.out = newOutputBuffer(e.context.BatchCapacityOf(e.GetOutputSchema()))
	return nil
}

func (e *DistinctExecutor) Next() (*tuple.Batch, Done, error) {
	for !e.out.isFull() {
		tuple_, err := e.cursor.Next()
		if err != nil {
			return nil, true, err
		}
		if tuple_ == nil {
			break
		}
		if e.prev != nil && tuple.CompareByKeys(e.prev, tuple_, e.sorter.keys, e.sorter.cmps) == 0 {
			continue
		}
		e.prev = tuple_
		e.out.add(tuple_)
	}
	if e.out.isEmpty() {
		return nil, true, nil
	}
	return e.out.popBatch(), false, nil
}

func (e *DistinctExecutor) Close() error {
	if e.sorter == nil {
		return e.child.Close()
	}
	e.cursor = newRunCursor(nil, 1, e.GetOutputSchema())
	return e.sorter.Close()
}

func (e *DistinctExecutor) GetOutputSchema() *schema.Schema {
	return e.plan.OutputSchema()
}
