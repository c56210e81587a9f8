package optimizer

import (
	"math/rand"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ryogrid/SamehadaQP/catalog"
	"github.com/ryogrid/SamehadaQP/common"
	"github.com/ryogrid/SamehadaQP/execution/expression"
	"github.com/ryogrid/SamehadaQP/execution/plans"
)

type rewrite func(node *plans.JoinPlanNode)

// Transformations generates a random neighbor of a plan with
// commutativity, associativity and join algorithm substitution
type Transformations struct {
	rnd       *rand.Rand
	catalog   *catalog.Catalog
	costModel *CostModel
}

func NewTransformations(rnd *rand.Rand, c *catalog.Catalog, numBuffers uint32) *Transformations {
	return &Transformations{rnd, c, NewCostModel(c, c.GetPageSize(), numBuffers)}
}

// GetNeighbor returns a rewritten clone of plan. plan itself is not modified
func (tr *Transformations) GetNeighbor(plan plans.Plan) plans.Plan {
	ret := plan.Clone()
	joins := plans.GetJoinNodes(ret)
	if len(joins) == 0 {
		return ret
	}
	node := joins[tr.rnd.Intn(len(joins))]

	rewrites := tr.applicableRewrites(node)
	if len(rewrites) == 0 {
		common.ShPrintf(common.OPTIMIZER_TRACE, "GetNeighbor: no rewrite for %s\n", node.GetDebugStr())
		return ret
	}
	rewrites[tr.rnd.Intn(len(rewrites))](node)

	err := plans.RecomputeSchema(ret)
	common.SH_Assert(err == nil, "schema is broken by a transformation")
	return ret
}

func (tr *Transformations) applicableRewrites(node *plans.JoinPlanNode) []rewrite {
	ret := []rewrite{tr.commute}
	if left, ok := node.GetLeftPlan().(*plans.JoinPlanNode); ok {
		// (A x B) x C -> A x (B x C)
		if tr.hasConditionTo(node, left, plans.GetBaseTableNames(left.GetRightPlan()), plans.GetBaseTableNames(node.GetRightPlan())) {
			ret = append(ret, tr.associateLeftToRight)
		}
	}
	if right, ok := node.GetRightPlan().(*plans.JoinPlanNode); ok {
		// A x (B x C) -> (A x B) x C
		if tr.hasConditionTo(node, right, plans.GetBaseTableNames(node.GetLeftPlan()), plans.GetBaseTableNames(right.GetLeftPlan())) {
			ret = append(ret, tr.associateRightToLeft)
		}
	}
	for _, jt := range tr.costModel.FeasibleJoinTypes(node) {
		if jt != node.GetJoinType() {
			ret = append(ret, tr.substituteAlgorithm)
			break
		}
	}
	return ret
}

// hasConditionTo reports whether a condition of outer or inner joins only tables of x and y
func (tr *Transformations) hasConditionTo(outer *plans.JoinPlanNode, inner *plans.JoinPlanNode, x mapset.Set[string], y mapset.Set[string]) bool {
	tables := x.Union(y)
	for _, cond := range append(append(make([]*expression.Condition, 0), outer.GetConditions()...), inner.GetConditions()...) {
		if tables.Contains(cond.GetTableNames()...) {
			return true
		}
	}
	return false
}

func (tr *Transformations) commute(node *plans.JoinPlanNode) {
	common.ShPrintf(common.OPTIMIZER_TRACE, "commute: %s\n", node.GetDebugStr())
	left := node.GetLeftPlan()
	node.SetChildAt(0, node.GetRightPlan())
	node.SetChildAt(1, left)
	tr.ensureFeasible(node)
}

func (tr *Transformations) associateLeftToRight(node *plans.JoinPlanNode) {
	common.ShPrintf(common.OPTIMIZER_TRACE, "associate (AB)C -> A(BC): %s\n", node.GetDebugStr())
	left := node.GetLeftPlan().(*plans.JoinPlanNode)
	a, b, c := left.GetLeftPlan(), left.GetRightPlan(), node.GetRightPlan()

	innerTables := plans.GetBaseTableNames(b).Union(plans.GetBaseTableNames(c))
	all := append(append(make([]*expression.Condition, 0), node.GetConditions()...), left.GetConditions()...)
	innerConds, outerConds := takeCoveredConditions(all, innerTables)

	inner := plans.NewJoinPlanNode(b, c, innerConds, left.GetJoinType())
	tr.ensureFeasible(inner)
	node.SetChildAt(0, a)
	node.SetChildAt(1, inner)
	node.SetConditions(outerConds)
	tr.ensureFeasible(node)
}

func (tr *Transformations) associateRightToLeft(node *plans.JoinPlanNode) {
	common.ShPrintf(common.OPTIMIZER_TRACE, "associate A(BC) -> (AB)C: %s\n", node.GetDebugStr())
	right := node.GetRightPlan().(*plans.JoinPlanNode)
	a, b, c := node.GetLeftPlan(), right.GetLeftPlan(), right.GetRightPlan()

	innerTables := plans.GetBaseTableNames(a).Union(plans.GetBaseTableNames(b))
	all := append(append(make([]*expression.Condition, 0), node.GetConditions()...), right.GetConditions()...)
	innerConds, outerConds := takeCoveredConditions(all, innerTables)

	inner := plans.NewJoinPlanNode(a, b, innerConds, right.GetJoinType())
	tr.ensureFeasible(inner)
	node.SetChildAt(0, inner)
	node.SetChildAt(1, c)
	node.SetConditions(outerConds)
	tr.ensureFeasible(node)
}

func (tr *Transformations) substituteAlgorithm(node *plans.JoinPlanNode) {
	others := make([]plans.JoinType, 0)
	for _, jt := range tr.costModel.FeasibleJoinTypes(node) {
		if jt != node.GetJoinType() {
			others = append(others, jt)
		}
	}
	common.SH_Assert(len(others) > 0, "no other feasible join type")
	jt := others[tr.rnd.Intn(len(others))]
	common.ShPrintf(common.OPTIMIZER_TRACE, "substitute %s -> %s\n", node.GetJoinType(), jt)
	node.SetJoinType(jt)
}

// ensureFeasible replaces join type of node with a random feasible one if the current is not
func (tr *Transformations) ensureFeasible(node *plans.JoinPlanNode) {
	if tr.costModel.IsJoinFeasible(node, node.GetJoinType()) {
		return
	}
	feasible := tr.costModel.FeasibleJoinTypes(node)
	if len(feasible) > 0 {
		node.SetJoinType(feasible[tr.rnd.Intn(len(feasible))])
	}
}
