package plans

import (
	"strings"

	"github.com/ryogrid/SamehadaQP/execution/expression"
)

// do selection according to WHERE clause conjunction of select conditions

type SelectionPlanNode struct {
	*AbstractPlanNode
	conds []*expression.Condition
}

func NewSelectionPlanNode(child Plan, conds []*expression.Condition) Plan {
	return &SelectionPlanNode{&AbstractPlanNode{child.OutputSchema(), []Plan{child}}, conds}
}

func (p *SelectionPlanNode) GetType() PlanType {
	return Selection
}

func (p *SelectionPlanNode) GetConditions() []*expression.Condition {
	return p.conds
}

func (p *SelectionPlanNode) GetDebugStr() string {
	return "SelectionPlanNode [" + conditionsStr(p.conds) + "]"
}

func (p *SelectionPlanNode) Clone() Plan {
	return &SelectionPlanNode{p.cloneAbstract(), cloneConditions(p.conds)}
}

func (p *SelectionPlanNode) recomputeSchema() error {
	p.outputSchema = p.children[0].OutputSchema()
	return nil
}

func cloneConditions(conds []*expression.Condition) []*expression.Condition {
	ret := make([]*expression.Condition, len(conds))
	for i, cond := range conds {
		ret[i] = cond.Clone()
	}
	return ret
}

func conditionsStr(conds []*expression.Condition) string {
	strs := make([]string, len(conds))
	for i, cond := range conds {
		strs[i] = cond.String()
	}
	return strings.Join(strs, " AND ")
}
