package plans

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/devlights/gomy/output"
	"github.com/golang-collections/collections/stack"
)

type visitFrame struct {
	plan     Plan
	expanded bool
}

// RecomputeSchema rebuilds output schemas bottom-up (children before parents)
func RecomputeSchema(plan Plan) error {
	frames := stack.New()
	frames.Push(&visitFrame{plan, false})
	for frames.Len() > 0 {
		frame := frames.Pop().(*visitFrame)
		if frame.expanded {
			if err := frame.plan.recomputeSchema(); err != nil {
				return err
			}
			continue
		}
		frame.expanded = true
		frames.Push(frame)
		for _, child := range frame.plan.GetChildren() {
			frames.Push(&visitFrame{child, false})
		}
	}
	return nil
}

// GetJoinNodes returns join nodes in pre-order
func GetJoinNodes(plan Plan) []*JoinPlanNode {
	ret := make([]*JoinPlanNode, 0)
	nodes := stack.New()
	nodes.Push(plan)
	for nodes.Len() > 0 {
		node := nodes.Pop().(Plan)
		if join, ok := node.(*JoinPlanNode); ok {
			ret = append(ret, join)
		}
		children := node.GetChildren()
		for i := len(children) - 1; i >= 0; i-- {
			nodes.Push(children[i])
		}
	}
	return ret
}

// GetBaseTableNames returns tables scanned under plan
func GetBaseTableNames(plan Plan) mapset.Set[string] {
	ret := mapset.NewThreadUnsafeSet[string]()
	nodes := stack.New()
	nodes.Push(plan)
	for nodes.Len() > 0 {
		node := nodes.Pop().(Plan)
		if scan, ok := node.(*SeqScanPlanNode); ok {
			ret.Add(scan.GetTableName())
		}
		for _, child := range node.GetChildren() {
			nodes.Push(child)
		}
	}
	return ret
}

// GetBaseScan returns the scan when plan is a base table scan optionally under selections
func GetBaseScan(plan Plan) (*SeqScanPlanNode, []*SelectionPlanNode) {
	selections := make([]*SelectionPlanNode, 0)
	for {
		switch node := plan.(type) {
		case *SeqScanPlanNode:
			return node, selections
		case *SelectionPlanNode:
			selections = append(selections, node)
			plan = node.GetChildAt(0)
		default:
			return nil, nil
		}
	}
}

func PrintPlanTree(plan Plan, indent int) {
	for _, line := range strings.Split(strings.TrimRight(GetPlanTreeStr(plan, indent), "\n"), "\n") {
		output.Stdoutl("", line)
	}
}

// GetPlanTreeStr returns one node per line, children are indented
func GetPlanTreeStr(plan Plan, indent int) string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", indent))
	sb.WriteString(plan.GetDebugStr())
	sb.WriteString("\n")
	for _, child := range plan.GetChildren() {
		sb.WriteString(GetPlanTreeStr(child, indent+2))
	}
	return sb.String()
}

// GetPlanStr returns one line form such as
// "HashJoin(r  [r.b == s.b]  Select(s  'c > 1'))"
func GetPlanStr(plan Plan) string {
	switch node := plan.(type) {
	case *SeqScanPlanNode:
		return node.GetTableName()
	case *SelectionPlanNode:
		return "Select(" + GetPlanStr(node.GetChildAt(0)) + "  '" + conditionsStr(node.GetConditions()) + "')"
	case *ProjectionPlanNode:
		return "Project(" + GetPlanStr(node.GetChildAt(0)) + ")"
	case *JoinPlanNode:
		return node.GetJoinType().String() + "(" + GetPlanStr(node.GetLeftPlan()) + "  [" + conditionsStr(node.GetConditions()) + "]  " + GetPlanStr(node.GetRightPlan()) + ")"
	case *DistinctPlanNode:
		return "Distinct(" + GetPlanStr(node.GetChildAt(0)) + ")"
	case *GroupByPlanNode:
		return "GroupBy(" + GetPlanStr(node.GetChildAt(0)) + "  [" + columnsStr(node.GetGroupBys()) + "])"
	case *SortPlanNode:
		return "Sort(" + GetPlanStr(node.GetChildAt(0)) + "  [" + columnsStr(node.GetKeys()) + "])"
	}
	return plan.GetDebugStr()
}
