package executors

import (
	"github.com/ryogrid/SamehadaQP/execution/plans"
	"github.com/ryogrid/SamehadaQP/storage/table/schema"
	"github.com/ryogrid/SamehadaQP/storage/tuple"
)

// SortExecutor sorts child output in ascending order of the keys.
// Init is eager: sorted output is fully materialized before it returns
type SortExecutor struct {
	context  *ExecutorContext
	plan     *plans.SortPlanNode
	child    Executor
	sorter   *ExternalSort
	nextPage uint32
}

func NewSortExecutor(context *ExecutorContext, plan *plans.SortPlanNode, child Executor) *SortExecutor {
	return &SortExecutor{context, plan, child, nil, 0}
}

func (e *SortExecutor) Init() error {
	keys, err := e.child.GetOutputSchema().GetKeyIndexes(e.plan.GetKeys())
	if err != nil {
		return err
	}
	e.sorter = NewExternalSort(e.context, e.child, keys)
	e.nextPage = 0
	return e.sorter.Run()
}

func (e *SortExecutor) Next() (*tuple.Batch, Done, error) {
	if e.nextPage >= e.sorter.NumPages() {
		return nil, true, nil
	}
	batch, err := e.sorter.ReadPage(e.nextPage)
	if err != nil {
		return nil, true, err
	}
	e.nextPage++
	return batch, false, nil
}

// Close removes run files of the sort and closes child
func (e *SortExecutor) Close() error {
	if e.sorter == nil {
		return e.child.Close()
	}
	e.nextPage = e.sorter.NumPages()
	return e.sorter.Close()
}

func (e *SortExecutor) GetOutputSchema() *schema.Schema {
	return e.plan.OutputSchema()
}

// GetSorter exposes run statistics of the sort
func (e *SortExecutor) GetSorter() *ExternalSort {
	return e.sorter
}
