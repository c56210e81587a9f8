package executors

import (
	"github.com/ryogrid/SamehadaQP/execution/plans"
)

// BlockNestedJoinExecutor reads B-2 outer pages as one block before scanning the inner relation.
// one buffer is for the inner page and one is for output
type BlockNestedJoinExecutor struct {
	*nestedLoopJoinExecutor
}

func NewBlockNestedJoinExecutor(context *ExecutorContext, plan *plans.JoinPlanNode, left Executor, right Executor) *BlockNestedJoinExecutor {
	blockPages := uint32(1)
	if context.GetNumBuffers() > 2 {
		blockPages = context.GetNumBuffers() - 2
	}
	return &BlockNestedJoinExecutor{&nestedLoopJoinExecutor{
		context:    context,
		plan:       plan,
		left:       left,
		right:      right,
		name:       "BlockNestedJoin",
		minBuffers: 3,
		blockPages: blockPages,
	}}
}
