package executors

import (
	"github.com/ryogrid/SamehadaQP/execution/plans"
)

// PageNestedJoinExecutor scans the whole inner relation for each outer page.
// it needs two buffers
type PageNestedJoinExecutor struct {
	*nestedLoopJoinExecutor
}

func NewPageNestedJoinExecutor(context *ExecutorContext, plan *plans.JoinPlanNode, left Executor, right Executor) *PageNestedJoinExecutor {
	return &PageNestedJoinExecutor{&nestedLoopJoinExecutor{
		context:    context,
		plan:       plan,
		left:       left,
		right:      right,
		name:       "PageNestedJoin",
		minBuffers: 2,
		blockPages: 1,
	}}
}
