package executors

import (
	"github.com/ryogrid/SamehadaQP/execution/expression"
	"github.com/ryogrid/SamehadaQP/execution/plans"
	"github.com/ryogrid/SamehadaQP/storage/table/schema"
	"github.com/ryogrid/SamehadaQP/storage/tuple"
)

// do filtering according to WHERE clause for Plan(Executor) which has no filtering feature

type SelectionExecutor struct {
	context *ExecutorContext
	plan    *plans.SelectionPlanNode // contains information about where clause
	child   Executor                 // the child executor that will provide tuples to the this executor
	bounds  []*expression.BoundCondition
	cursor  *tupleCursor
	out     *outputBuffer
}

func NewSelectionExecutor(context *ExecutorContext, plan *plans.SelectionPlanNode, child Executor) Executor {
	return &SelectionExecutor{context, plan, child, nil, nil, nil}
}

func (e *SelectionExecutor) Init() error {
	bounds, err := expression.BindAll(e.plan.GetConditions(), e.child.GetOutputSchema())
	if err != nil {
		return err
	}
	if err := e.child.Init(); err != nil {
		return err
	}
	e.bounds = bounds
	e.cursor = newTupleCursor(e.child)
	e.out = newOutputBuffer(e.context.BatchCapacityOf(e.GetOutputSchema()))
	return nil
}

// Next fills a batch with tuples which satisfy every condition
func (e *SelectionExecutor) Next() (*tuple.Batch, Done, error) {
	for !e.out.isFull() {
		tuple_, err := e.cursor.next()
		if err != nil {
			return nil, true, err
		}
		if tuple_ == nil {
			break
		}
		if expression.EvaluateAll(e.bounds, tuple_) {
			e.out.add(tuple_)
		}
	}
	if e.out.isEmpty() {
		return nil, true, nil
	}
	return e.out.popBatch(), false, nil
}

func (e *SelectionExecutor) Close() error {
	return e.child.Close()
}

func (e *SelectionExecutor) GetOutputSchema() *schema.Schema {
	return e.plan.OutputSchema()
}
