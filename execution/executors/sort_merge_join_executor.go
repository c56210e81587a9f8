package executors

import (
	"github.com/ryogrid/SamehadaQP/execution/plans"
	"github.com/ryogrid/SamehadaQP/storage/table/schema"
	"github.com/ryogrid/SamehadaQP/storage/tuple"
)

/**
 * SortMergeJoinExecutor sorts both children on the join key and merges them.
 * inner cursor is rewound to the start of a duplicate key group for every
 * outer tuple which has the same key.
 */
type SortMergeJoinExecutor struct {
	context     *ExecutorContext
	plan        *plans.JoinPlanNode
	left        Executor
	right       Executor
	pred        *joinPredicate
	leftSorter  *ExternalSort
	rightSorter *ExternalSort
	leftCursor  *RunCursor
	rightCursor *RunCursor
	leftTuple   *tuple.Tuple
	rightTuple  *tuple.Tuple
	out         *outputBuffer
}

func NewSortMergeJoinExecutor(context *ExecutorContext, plan *plans.JoinPlanNode, left Executor, right Executor) *SortMergeJoinExecutor {
	return &SortMergeJoinExecutor{context: context, plan: plan, left: left, right: right}
}

func (e *SortMergeJoinExecutor) Init() error {
	if err := checkBuffers(e.context, 3, "SortMergeJoin"); err != nil {
		return err
	}
	pred, err := newJoinPredicate(e.plan, e.left, e.right)
	if err != nil {
		return err
	}
	if err := pred.requireEquality("SortMergeJoin"); err != nil {
		return err
	}
	e.pred = pred
	e.leftSorter = NewExternalSort(e.context, e.left, []uint32{pred.leftIdx()})
	if err := e.leftSorter.Run(); err != nil {
		return err
	}
	e.rightSorter = NewExternalSort(e.context, e.right, []uint32{pred.rightIdx()})
	if err := e.rightSorter.Run(); err != nil {
		return err
	}
	e.leftCursor = e.leftSorter.NewCursor()
	e.rightCursor = e.rightSorter.NewCursor()
	if e.leftTuple, err = e.leftCursor.Next(); err != nil {
		return err
	}
	if e.rightTuple, err = e.rightCursor.Next(); err != nil {
		return err
	}
	e.out = newOutputBuffer(e.context.BatchCapacityOf(e.GetOutputSchema()))
	return nil
}

func (e *SortMergeJoinExecutor) Next() (*tuple.Batch, Done, error) {
	var err error
	for !e.out.isFull() && e.leftTuple != nil && e.rightTuple != nil {
		c := e.pred.compareKeys(e.leftTuple, e.rightTuple)
		if c < 0 {
			if e.leftTuple, err = e.leftCursor.Next(); err != nil {
				return nil, true, err
			}
			continue
		}
		if c > 0 {
			if e.rightTuple, err = e.rightCursor.Next(); err != nil {
				return nil, true, err
			}
			continue
		}

		// rightTuple is the first of its key group
		e.rightCursor.Mark()
		for e.rightTuple != nil && e.pred.compareKeys(e.leftTuple, e.rightTuple) == 0 {
			if joined, ok := e.pred.joinResiduals(e.leftTuple, e.rightTuple); ok {
				e.out.add(joined)
			}
			if e.rightTuple, err = e.rightCursor.Next(); err != nil {
				return nil, true, err
			}
		}
		prevLeft := e.leftTuple
		if e.leftTuple, err = e.leftCursor.Next(); err != nil {
			return nil, true, err
		}
		if e.leftTuple != nil && tuple.CompareColumns(e.leftTuple, e.pred.leftIdx(), prevLeft, e.pred.leftIdx(), e.pred.cmp) == 0 {
			e.rightCursor.Reset()
			if e.rightTuple, err = e.rightCursor.Next(); err != nil {
				return nil, true, err
			}
		}
	}
	if e.out.isEmpty() {
		return nil, true, nil
	}
	return e.out.popBatch(), false, nil
}

func (e *SortMergeJoinExecutor) Close() error {
	e.leftTuple = nil
	e.rightTuple = nil
	var ret error
	for _, sorter := range []*ExternalSort{e.leftSorter, e.rightSorter} {
		if sorter == nil {
			continue
		}
		if err := sorter.Close(); err != nil && ret == nil {
			ret = err
		}
	}
	if err := closeAll(e.left, e.right); err != nil && ret == nil {
		ret = err
	}
	return ret
}

func (e *SortMergeJoinExecutor) GetOutputSchema() *schema.Schema {
	return e.plan.OutputSchema()
}
