// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package executors

import (
	"github.com/pingcap/errors"
	"github.com/ryogrid/SamehadaQP/common"
	"github.com/ryogrid/SamehadaQP/execution/plans"
	"github.com/ryogrid/SamehadaQP/storage/access"
	"github.com/ryogrid/SamehadaQP/storage/table/schema"
	"github.com/ryogrid/SamehadaQP/storage/tuple"
)

// SeqScanExecutor executes a sequential scan over a table.
// each Next returns one page of the table
type SeqScanExecutor struct {
	context  *ExecutorContext
	plan     *plans.SeqScanPlanNode
	heap     *access.TableHeap
	nextPage uint32
	done     bool
}

// NewSeqScanExecutor creates a new sequential executor
func NewSeqScanExecutor(context *ExecutorContext, plan *plans.SeqScanPlanNode) Executor {
	return &SeqScanExecutor{context, plan, nil, 0, false}
}

func (e *SeqScanExecutor) Init() error {
	tableMetadata := e.context.GetCatalog().GetTableByOID(e.plan.GetTableOID())
	if tableMetadata == nil {
		return errors.Annotatef(common.ErrConfiguration, "table %s is not in catalog", e.plan.GetTableName())
	}
	e.heap = tableMetadata.Table()
	e.nextPage = 0
	e.done = false
	return nil
}

// Next reads the next page of the table.
// empty pages are skipped
func (e *SeqScanExecutor) Next() (*tuple.Batch, Done, error) {
	for !e.done {
		if e.nextPage >= e.heap.NumPages() {
			e.done = true
			break
		}
		batch, err := e.heap.ReadPage(e.nextPage)
		if err != nil {
			e.done = true
			return nil, true, errors.Annotatef(err, "scan of %s", e.plan.GetTableName())
		}
		e.nextPage++
		if !batch.IsEmpty() {
			common.ShPrintf(common.EXECUTOR_TRACE, "SeqScan %s: page %d with %d tuples\n", e.plan.GetTableName(), e.nextPage-1, batch.Len())
			return batch, false, nil
		}
	}
	return nil, true, nil
}

func (e *SeqScanExecutor) Close() error {
	e.done = true
	return nil
}

func (e *SeqScanExecutor) GetOutputSchema() *schema.Schema {
	return e.plan.OutputSchema()
}
