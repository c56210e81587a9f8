package executors

import (
	"github.com/ryogrid/SamehadaQP/execution/plans"
	"github.com/ryogrid/SamehadaQP/storage/table/schema"
	"github.com/ryogrid/SamehadaQP/storage/tuple"
)

// GroupByExecutor sorts child on the grouping columns and emits
// one tuple of grouping columns per group
type GroupByExecutor struct {
	context *ExecutorContext
	plan    *plans.GroupByPlanNode
	child   Executor
	sorter  *ExternalSort
	cursor  *RunCursor
	prev    *tuple.Tuple
	out     *outputBuffer
}

func NewGroupByExecutor(context *ExecutorContext, plan *plans.GroupByPlanNode, child Executor) Executor {
	return &GroupByExecutor{context, plan, child, nil, nil, nil, nil}
}

func (e *GroupByExecutor) Init() error {
	keys, err := e.child.GetOutputSchema().GetKeyIndexes(e.plan.GetGroupBys())
	if err != nil {
		return err
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

func (e *GroupByExecutor) Next() (*tuple.Batch, Done, error) {
	keys := e.sorter.keys
	for !e.out.isFull() {
		tuple_, err := e.cursor.Next()
		if err != nil {
			return nil, true, err
		}
		if tuple_ == nil {
			break
		}
		if e.prev != nil && tuple.CompareByKeys(e.prev, tuple_, keys, e.sorter.cmps) == 0 {
			continue
		}
		e.prev = tuple_
		e.out.add(tuple_.Project(keys))
	}
	if e.out.isEmpty() {
		return nil, true, nil
	}
	return e.out.popBatch(), false, nil
}

func (e *GroupByExecutor) Close() error {
	if e.sorter == nil {
		return e.child.Close()
	}
	e.cursor = newRunCursor(nil, 1, e.GetOutputSchema())
	return e.sorter.Close()
}

func (e *GroupByExecutor) GetOutputSchema() *schema.Schema {
	return e.plan.OutputSchema()
}
