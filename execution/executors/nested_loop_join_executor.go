package executors

import (
	"github.com/ryogrid/SamehadaQP/common"
	"github.com/ryogrid/SamehadaQP/execution/plans"
	"github.com/ryogrid/SamehadaQP/storage/disk"
	"github.com/ryogrid/SamehadaQP/storage/table/schema"
	"github.com/ryogrid/SamehadaQP/storage/tuple"
)

/**
 * nestedLoopJoinExecutor is shared by page nested loop join and block nested loop join.
 * inner (right) child is materialized to a run once. outer (left) child is read
 * blockPages pages at a time and the whole inner run is scanned for each block.
 */
type nestedLoopJoinExecutor struct {
	context    *ExecutorContext
	plan       *plans.JoinPlanNode
	left       Executor
	right      Executor
	name       string
	minBuffers uint32
	blockPages uint32
	pred       *joinPredicate
	inner      disk.RunFile
	block      []*tuple.Tuple
	innerPage  uint32
	outerDone  bool
	out        *outputBuffer
}

func (e *nestedLoopJoinExecutor) Init() error {
	if err := checkBuffers(e.context, e.minBuffers, e.name); err != nil {
		return err
	}
	pred, err := newJoinPredicate(e.plan, e.left, e.right)
	if err != nil {
		return err
	}
	e.pred = pred
	if err := e.left.Init(); err != nil {
		return err
	}
	if err := e.right.Init(); err != nil {
		return err
	}
	inner, _, err := spillExecutor(e.context, e.right, newRunName(e.name+"-inner"))
	e.inner = inner
	if err != nil {
		return err
	}
	e.block = nil
	e.innerPage = 0
	e.outerDone = false
	e.out = newOutputBuffer(e.context.BatchCapacityOf(e.GetOutputSchema()))
	common.ShPrintf(common.EXECUTOR_TRACE, "%s: inner has %d pages, block is %d pages\n", e.name, e.inner.NumPages(), e.blockPages)
	return nil
}

// loadBlock reads next block of outer pages. returns false at the end of outer
func (e *nestedLoopJoinExecutor) loadBlock() (bool, error) {
	e.block = e.block[:0]
	for pages := uint32(0); pages < e.blockPages && !e.outerDone; {
		batch, done, err := e.left.Next()
		if err != nil {
			return false, err
		}
		if done {
			e.outerDone = true
			break
		}
		if batch.IsEmpty() {
			continue
		}
		e.block = append(e.block, batch.GetTuples()...)
		pages++
	}
	e.innerPage = 0
	return len(e.block) > 0, nil
}

func (e *nestedLoopJoinExecutor) Next() (*tuple.Batch, Done, error) {
	for !e.out.isFull() {
		if e.block == nil || len(e.block) == 0 || e.innerPage >= e.inner.NumPages() {
			if e.outerDone {
				break
			}
			ok, err := e.loadBlock()
			if err != nil {
				return nil, true, err
			}
			if !ok {
				break
			}
			if e.inner.NumPages() == 0 {
				continue
			}
		}
		innerBatch, err := readRunPage(e.inner, e.innerPage, e.context.BatchCapacityOf(e.right.GetOutputSchema()), e.right.GetOutputSchema())
		if err != nil {
			return nil, true, err
		}
		e.innerPage++
		for _, outer := range e.block {
			for _, inner := range innerBatch.GetTuples() {
				if joined, ok := e.pred.join(outer, inner); ok {
					e.out.add(joined)
				}
			}
		}
	}
	if e.out.isEmpty() {
		return nil, true, nil
	}
	return e.out.popBatch(), false, nil
}

func (e *nestedLoopJoinExecutor) Close() error {
	e.outerDone = true
	e.block = nil
	err := removeRun(e.context, e.inner)
	if err2 := closeAll(e.left, e.right); err == nil {
		err = err2
	}
	return err
}

func (e *nestedLoopJoinExecutor) GetOutputSchema() *schema.Schema {
	return e.plan.OutputSchema()
}
