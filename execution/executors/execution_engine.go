// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package executors

import (
	"github.com/pingcap/errors"
	"github.com/ryogrid/SamehadaQP/common"
	"github.com/ryogrid/SamehadaQP/execution/plans"
	"github.com/ryogrid/SamehadaQP/storage/tuple"
)

type ExecutionEngine struct {
}

// Execute runs plan and returns all output tuples.
// on error no partial result is returned
func (e *ExecutionEngine) Execute(plan plans.Plan, context *ExecutorContext) ([]*tuple.Tuple, error) {
	tuples := make([]*tuple.Tuple, 0)
	err := e.ExecuteWithConsumer(plan, context, func(batch *tuple.Batch) error {
		tuples = append(tuples, batch.GetTuples()...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tuples, nil
}

// ExecuteWithConsumer streams output batches of plan to consumer.
// executors are closed before return also on error
func (e *ExecutionEngine) ExecuteWithConsumer(plan plans.Plan, context *ExecutorContext, consumer func(*tuple.Batch) error) (err error) {
	executor, err := e.CreateExecutor(plan, context)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := executor.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err = executor.Init(); err != nil {
		common.ShPrintf(common.DEBUG_INFO, "Init of executor failed: %v\n", err)
		return err
	}
	for {
		batch, done, err := executor.Next()
		if err != nil {
			common.ShPrintf(common.DEBUG_INFO, "Next of executor failed: %v\n", err)
			return err
		}
		if done {
			return nil
		}
		if err := consumer(batch); err != nil {
			return err
		}
	}
}

// CreateExecutor makes executor tree for plan
func (e *ExecutionEngine) CreateExecutor(plan plans.Plan, context *ExecutorContext) (Executor, error) {
	switch p := plan.(type) {
	case *plans.SeqScanPlanNode:
		return NewSeqScanExecutor(context, p), nil
	case *plans.SelectionPlanNode:
		child, err := e.CreateExecutor(p.GetChildAt(0), context)
		if err != nil {
			return nil, err
		}
		return NewSelectionExecutor(context, p, child), nil
	case *plans.ProjectionPlanNode:
		child, err := e.CreateExecutor(p.GetChildAt(0), context)
		if err != nil {
			return nil, err
		}
		return NewProjectionExecutor(context, p, child), nil
	case *plans.SortPlanNode:
		child, err := e.CreateExecutor(p.GetChildAt(0), context)
		if err != nil {
			return nil, err
		}
		return NewSortExecutor(context, p, child), nil
	case *plans.DistinctPlanNode:
		child, err := e.CreateExecutor(p.GetChildAt(0), context)
		if err != nil {
			return nil, err
		}
		return NewDistinctExecutor(context, p, child), nil
	case *plans.GroupByPlanNode:
		child, err := e.CreateExecutor(p.GetChildAt(0), context)
		if err != nil {
			return nil, err
		}
		return NewGroupByExecutor(context, p, child), nil
	case *plans.JoinPlanNode:
		return e.createJoinExecutor(p, context)
	}
	return nil, errors.Annotatef(common.ErrConfiguration, "unknown plan node %s", plan.GetDebugStr())
}

func (e *ExecutionEngine) createJoinExecutor(plan *plans.JoinPlanNode, context *ExecutorContext) (Executor, error) {
	left, err := e.CreateExecutor(plan.GetLeftPlan(), context)
	if err != nil {
		return nil, err
	}
	if plan.GetJoinType() == plans.IndexNestedJoin {
		return NewIndexNestedJoinExecutor(context, plan, left), nil
	}
	right, err := e.CreateExecutor(plan.GetRightPlan(), context)
	if err != nil {
		return nil, err
	}
	switch plan.GetJoinType() {
	case plans.PageNestedJoin:
		return NewPageNestedJoinExecutor(context, plan, left, right), nil
	case plans.BlockNestedJoin:
		return NewBlockNestedJoinExecutor(context, plan, left, right), nil
	case plans.SortMergeJoin:
		return NewSortMergeJoinExecutor(context, plan, left, right), nil
	case plans.HashJoin:
		return NewHashJoinExecutor(context, plan, left, right), nil
	}
	return nil, errors.Annotatef(common.ErrConfiguration, "unknown join type %d", plan.GetJoinType())
}
