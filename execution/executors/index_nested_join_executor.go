package executors

import (
	"github.com/pingcap/errors"
	"github.com/ryogrid/SamehadaQP/common"
	"github.com/ryogrid/SamehadaQP/execution/expression"
	"github.com/ryogrid/SamehadaQP/execution/plans"
	"github.com/ryogrid/SamehadaQP/storage/access"
	"github.com/ryogrid/SamehadaQP/storage/index"
	"github.com/ryogrid/SamehadaQP/storage/table/schema"
	"github.com/ryogrid/SamehadaQP/storage/tuple"
)

/**
 * IndexNestedJoinExecutor probes the index of the inner base table for each outer tuple.
 * inner plan must be a SeqScan optionally under Selections. selections of the inner
 * plan are applied to the fetched tuples and are not executed as operators.
 */
type IndexNestedJoinExecutor struct {
	context    *ExecutorContext
	plan       *plans.JoinPlanNode
	left       Executor
	pred       *joinPredicate
	index_     index.Index
	heap       *access.TableHeap
	innerConds []*expression.BoundCondition
	cursor     *tupleCursor
	out        *outputBuffer
}

func NewIndexNestedJoinExecutor(context *ExecutorContext, plan *plans.JoinPlanNode, left Executor) *IndexNestedJoinExecutor {
	return &IndexNestedJoinExecutor{context: context, plan: plan, left: left}
}

// innerExecutor offers the schema of inner plan to newJoinPredicate
type innerExecutor struct {
	Executor
	schema_ *schema.Schema
}

func (e *innerExecutor) GetOutputSchema() *schema.Schema {
	return e.schema_
}

func (e *IndexNestedJoinExecutor) Init() error {
	if err := checkBuffers(e.context, 2, "IndexNestedJoin"); err != nil {
		return err
	}
	innerPlan := e.plan.GetRightPlan()
	pred, err := newJoinPredicate(e.plan, e.left, &innerExecutor{nil, innerPlan.OutputSchema()})
	if err != nil {
		return err
	}
	if pred.primary == nil {
		return errors.Annotate(common.ErrConfiguration, "IndexNestedJoin needs a condition between its children")
	}
	e.pred = pred

	scan, selections := plans.GetBaseScan(innerPlan)
	if scan == nil {
		return errors.Annotatef(common.ErrConfiguration, "inner of IndexNestedJoin must be a base table but %s", innerPlan.GetDebugStr())
	}
	tableMetadata := e.context.GetCatalog().GetTableByOID(scan.GetTableOID())
	if tableMetadata == nil {
		return errors.Annotatef(common.ErrConfiguration, "table %s is not in catalog", scan.GetTableName())
	}
	op := pred.primary.GetComparisonType()
	e.index_ = tableMetadata.GetIndexOf(pred.primary.GetRightColumn())
	if e.index_ == nil || !e.index_.SupportsComparison(op.Flip()) {
		return errors.Annotatef(common.ErrConfiguration, "no index of %s supports %s", pred.primary.GetRightColumn().GetQualifiedName(), op)
	}
	e.heap = tableMetadata.Table()

	e.innerConds = make([]*expression.BoundCondition, 0)
	for _, selection := range selections {
		bounds, err := expression.BindAll(selection.GetConditions(), innerPlan.OutputSchema())
		if err != nil {
			return err
		}
		e.innerConds = append(e.innerConds, bounds...)
	}

	if err := e.left.Init(); err != nil {
		return err
	}
	e.cursor = newTupleCursor(e.left)
	e.out = newOutputBuffer(e.context.BatchCapacityOf(e.GetOutputSchema()))
	return nil
}

func (e *IndexNestedJoinExecutor) Next() (*tuple.Batch, Done, error) {
	op := e.pred.primary.GetComparisonType()
	for !e.out.isFull() {
		outer, err := e.cursor.next()
		if err != nil {
			return nil, true, err
		}
		if outer == nil {
			break
		}
		// outer.a op inner.b <=> inner.b flip(op) outer.a
		key := outer.GetValue(e.pred.leftIdx())
		rids, err := e.index_.ScanKey(op.Flip(), &key)
		if err != nil {
			return nil, true, err
		}
		for i := range rids {
			inner, err := e.heap.GetTuple(&rids[i])
			if err != nil {
				return nil, true, errors.Annotatef(err, "fetch of %v by index %s", rids[i], e.index_.GetMetadata().GetName())
			}
			if !expression.EvaluateAll(e.innerConds, inner) {
				continue
			}
			if joined, ok := e.pred.join(outer, inner); ok {
				e.out.add(joined)
			}
		}
	}
	if e.out.isEmpty() {
		return nil, true, nil
	}
	return e.out.popBatch(), false, nil
}

func (e *IndexNestedJoinExecutor) Close() error {
	return e.left.Close()
}

func (e *IndexNestedJoinExecutor) GetOutputSchema() *schema.Schema {
	return e.plan.OutputSchema()
}
