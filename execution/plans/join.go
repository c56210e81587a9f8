package plans

import (
	"github.com/ryogrid/SamehadaQP/common"
	"github.com/ryogrid/SamehadaQP/execution/expression"
	"github.com/ryogrid/SamehadaQP/storage/table/schema"
)

// JoinType is algorithm of a join node. it is orthogonal to join conditions
type JoinType int

const (
	PageNestedJoin JoinType = iota
	BlockNestedJoin
	SortMergeJoin
	HashJoin
	IndexNestedJoin
)

// NumJoinTypes is count of join algorithms
const NumJoinTypes = 5

func (t JoinType) String() string {
	switch t {
	case PageNestedJoin:
		return "PageNestedJoin"
	case BlockNestedJoin:
		return "BlockNestedJoin"
	case SortMergeJoin:
		return "SortMergeJoin"
	case HashJoin:
		return "HashJoin"
	case IndexNestedJoin:
		return "IndexNestedJoin"
	}
	return "UnknownJoin"
}

/**
 * JoinPlanNode represents a join between left (outer) and right (inner) children.
 * output schema is left columns followed by right columns.
 */
type JoinPlanNode struct {
	*AbstractPlanNode
	joinType JoinType
	conds    []*expression.Condition
}

func NewJoinPlanNode(left Plan, right Plan, conds []*expression.Condition, joinType JoinType) *JoinPlanNode {
	return &JoinPlanNode{&AbstractPlanNode{schema.JoinSchema(left.OutputSchema(), right.OutputSchema()), []Plan{left, right}}, joinType, conds}
}

func (p *JoinPlanNode) GetType() PlanType {
	return Join
}

func (p *JoinPlanNode) GetJoinType() JoinType {
	return p.joinType
}

func (p *JoinPlanNode) SetJoinType(joinType JoinType) {
	p.joinType = joinType
}

func (p *JoinPlanNode) GetLeftPlan() Plan {
	common.SH_Assert(len(p.GetChildren()) == 2, "joins should have exactly two children plans.")
	return p.GetChildAt(0)
}

func (p *JoinPlanNode) GetRightPlan() Plan {
	common.SH_Assert(len(p.GetChildren()) == 2, "joins should have exactly two children plans.")
	return p.GetChildAt(1)
}

func (p *JoinPlanNode) GetConditions() []*expression.Condition {
	return p.conds
}

func (p *JoinPlanNode) SetConditions(conds []*expression.Condition) {
	p.conds = conds
}

// GetPrimaryCondition returns first condition which spans both sides.
// returned condition is oriented so that its left column is on left child.
// nil is returned when no condition spans the sides
func (p *JoinPlanNode) GetPrimaryCondition() *expression.Condition {
	left := p.GetLeftPlan().OutputSchema()
	right := p.GetRightPlan().OutputSchema()
	for _, cond := range p.conds {
		if cond.SpansSides(left, right) {
			return cond.OrientTo(left)
		}
	}
	return nil
}

// GetResidualConditions returns conditions other than the primary one
func (p *JoinPlanNode) GetResidualConditions() []*expression.Condition {
	left := p.GetLeftPlan().OutputSchema()
	right := p.GetRightPlan().OutputSchema()
	ret := make([]*expression.Condition, 0)
	primaryFound := false
	for _, cond := range p.conds {
		if !primaryFound && cond.SpansSides(left, right) {
			primaryFound = true
			continue
		}
		ret = append(ret, cond)
	}
	return ret
}

func (p *JoinPlanNode) GetDebugStr() string {
	return "JoinPlanNode [" + p.joinType.String() + ": " + conditionsStr(p.conds) + "]"
}

func (p *JoinPlanNode) Clone() Plan {
	return &JoinPlanNode{p.cloneAbstract(), p.joinType, cloneConditions(p.conds)}
}

func (p *JoinPlanNode) recomputeSchema() error {
	p.outputSchema = schema.JoinSchema(p.children[0].OutputSchema(), p.children[1].OutputSchema())
	return nil
}
