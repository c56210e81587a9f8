package optimizer

import (
	"testing"

	"github.com/ryogrid/SamehadaQP/execution/expression"
	"github.com/ryogrid/SamehadaQP/execution/plans"
	"github.com/ryogrid/SamehadaQP/storage/index/index_constants"
	testingpkg "github.com/ryogrid/SamehadaQP/testing/testing_assert"
	"github.com/ryogrid/SamehadaQP/types"
)

func TestMergePasses(t *testing.T) {
	c := setupRST(t)
	// 10,000 tuples at 10 per page sorted with 3 buffers: 334 runs merged 2 at a time
	testingpkg.Equals(t, int64(9), NewCostModel(c, testPageSize, 3).MergePasses(1000))
	// 20 runs merged 4 at a time: 5, 2, 1
	testingpkg.Equals(t, int64(3), NewCostModel(c, testPageSize, 5).MergePasses(100))
	testingpkg.Equals(t, int64(0), NewCostModel(c, testPageSize, 5).MergePasses(5))
	testingpkg.Equals(t, int64(0), NewCostModel(c, testPageSize, 5).MergePasses(0))
	// fan-in is raised to 2 when B is 2
	testingpkg.Equals(t, int64(3), NewCostModel(c, testPageSize, 2).MergePasses(16))
}

func TestScanAndSelectionCost(t *testing.T) {
	c := setupRST(t)
	cm := NewCostModel(c, testPageSize, 5)
	r := c.GetTableByName("r")
	b := r.Schema().GetColumn(1)

	scan := plans.NewSeqScanPlanNode(r)
	scanStats := cm.Estimate(scan)
	testingpkg.Equals(t, int64(r.Table().NumPages()), cm.PlanCost(scan))
	testingpkg.Equals(t, uint64(100), scanStats.Rows())

	eq := plans.NewSelectionPlanNode(scan, []*expression.Condition{expression.NewSelectCondition(b, expression.Equal, types.NewInteger(3))})
	eqStats := cm.Estimate(eq)
	testingpkg.Equals(t, cm.PlanCost(scan), cm.PlanCost(eq))
	testingpkg.Equals(t, (scanStats.Rows()+scanStats.Distinct(b)-1)/scanStats.Distinct(b), eqStats.Rows())
	testingpkg.Equals(t, uint64(1), eqStats.Distinct(b))

	rng := plans.NewSelectionPlanNode(scan, []*expression.Condition{expression.NewSelectCondition(b, expression.LessThan, types.NewInteger(3))})
	testingpkg.Equals(t, uint64(34), cm.Estimate(rng).Rows())

	ne := plans.NewSelectionPlanNode(scan, []*expression.Condition{expression.NewSelectCondition(b, expression.NotEqual, types.NewInteger(3))})
	testingpkg.SimpleAssert(t, cm.Estimate(ne).Rows() < scanStats.Rows())
	testingpkg.SimpleAssert(t, cm.Estimate(ne).Rows() > cm.Estimate(rng).Rows())

	// a more selective conjunction never costs more than the scan
	both := plans.NewSelectionPlanNode(scan, []*expression.Condition{
		expression.NewSelectCondition(b, expression.LessThan, types.NewInteger(3)),
		expression.NewSelectCondition(b, expression.NotEqual, types.NewInteger(1)),
	})
	testingpkg.SimpleAssert(t, cm.PlanCost(both) <= cm.PlanCost(scan))
	testingpkg.SimpleAssert(t, cm.Estimate(both).Rows() <= cm.Estimate(rng).Rows())
}

func TestJoinCosts(t *testing.T) {
	c := setupRST(t)
	r, s := c.GetTableByName("r"), c.GetTableByName("s")
	rb, sb := r.Schema().GetColumn(1), s.Schema().GetColumn(0)
	eq := []*expression.Condition{expression.NewJoinCondition(rb, expression.Equal, sb)}

	const B = 5
	cm := NewCostModel(c, testPageSize, B)
	join := plans.NewJoinPlanNode(plans.NewSeqScanPlanNode(r), plans.NewSeqScanPlanNode(s), eq, plans.PageNestedJoin)
	L := int64(cm.Estimate(join.GetLeftPlan()).Pages())
	R := int64(cm.Estimate(join.GetRightPlan()).Pages())
	testingpkg.SimpleAssert(t, L > B && R > B)
	children := L + R

	cost := func(jt plans.JoinType) int64 {
		join.SetJoinType(jt)
		return cm.PlanCost(join)
	}
	testingpkg.Equals(t, children+L+L*R, cost(plans.PageNestedJoin))
	testingpkg.Equals(t, children+L+((L+B-3)/(B-2))*R, cost(plans.BlockNestedJoin))
	testingpkg.Equals(t, children+cm.sortCost(L)+cm.sortCost(R)+L+R, cost(plans.SortMergeJoin))
	testingpkg.Equals(t, children+3*(L+R), cost(plans.HashJoin))
	testingpkg.Equals(t, InfeasibleCost, cost(plans.IndexNestedJoin))

	_, err := c.CreateIndex("s", "b", index_constants.INDEX_KIND_HASH)
	testingpkg.Ok(t, err)
	rows := int64(cm.Estimate(join.GetLeftPlan()).Rows())
	testingpkg.Equals(t, children+L+rows, cost(plans.IndexNestedJoin))
	testingpkg.Equals(t, plans.NumJoinTypes, len(cm.FeasibleJoinTypes(join)))

	// estimated cardinality is |R| x |S| / max(V(R.b), V(S.b))
	est := cm.Estimate(join)
	maxV := cm.Estimate(join.GetLeftPlan()).Distinct(rb)
	if v := cm.Estimate(join.GetRightPlan()).Distinct(sb); v > maxV {
		maxV = v
	}
	testingpkg.Equals(t, (100*50+maxV-1)/maxV, est.Rows())
}

func TestJoinFeasibility(t *testing.T) {
	c := setupRST(t)
	r, s := c.GetTableByName("r"), c.GetTableByName("s")
	rb, sb := r.Schema().GetColumn(1), s.Schema().GetColumn(0)

	lt := []*expression.Condition{expression.NewJoinCondition(rb, expression.LessThan, sb)}
	join := plans.NewJoinPlanNode(plans.NewSeqScanPlanNode(r), plans.NewSeqScanPlanNode(s), lt, plans.PageNestedJoin)

	cm := NewCostModel(c, testPageSize, 5)
	testingpkg.Equals(t, []plans.JoinType{plans.PageNestedJoin, plans.BlockNestedJoin}, cm.FeasibleJoinTypes(join))

	// hash index can't serve a range probe but b-tree index can
	_, err := c.CreateIndex("s", "b", index_constants.INDEX_KIND_HASH)
	testingpkg.Ok(t, err)
	testingpkg.SimpleAssert(t, !cm.IsJoinFeasible(join, plans.IndexNestedJoin))

	cm2 := NewCostModel(c, testPageSize, 2)
	testingpkg.Equals(t, []plans.JoinType{plans.PageNestedJoin}, cm2.FeasibleJoinTypes(join))
	join.SetJoinType(plans.BlockNestedJoin)
	testingpkg.Equals(t, InfeasibleCost, cm2.PlanCost(join))

	// build side must fit in (B-1)(B-2) pages
	eq := []*expression.Condition{expression.NewJoinCondition(rb, expression.Equal, sb)}
	join.SetConditions(eq)
	testingpkg.SimpleAssert(t, !NewCostModel(c, testPageSize, 3).IsJoinFeasible(join, plans.HashJoin))
	testingpkg.SimpleAssert(t, NewCostModel(c, testPageSize, 10).IsJoinFeasible(join, plans.HashJoin))
}

func TestBTreeIndexMakesRangeIndexJoinFeasible(t *testing.T) {
	c := setupRST(t)
	r, s := c.GetTableByName("r"), c.GetTableByName("s")
	rb, sb := r.Schema().GetColumn(1), s.Schema().GetColumn(0)
	lt := []*expression.Condition{expression.NewJoinCondition(rb, expression.LessThan, sb)}
	join := plans.NewJoinPlanNode(plans.NewSeqScanPlanNode(r), plans.NewSeqScanPlanNode(s), lt, plans.IndexNestedJoin)

	_, err := c.CreateIndex("s", "b", index_constants.INDEX_KIND_BTREE)
	testingpkg.Ok(t, err)
	cm := NewCostModel(c, testPageSize, 5)
	testingpkg.SimpleAssert(t, cm.IsJoinFeasible(join, plans.IndexNestedJoin))

	// inner side must be a base table
	inner := plans.NewJoinPlanNode(plans.NewSeqScanPlanNode(s), plans.NewSeqScanPlanNode(c.GetTableByName("t")),
		[]*expression.Condition{expression.NewJoinCondition(s.Schema().GetColumn(1), expression.Equal, c.GetTableByName("t").Schema().GetColumn(0))}, plans.HashJoin)
	nested := plans.NewJoinPlanNode(plans.NewSeqScanPlanNode(r), inner, lt, plans.IndexNestedJoin)
	testingpkg.SimpleAssert(t, !cm.IsJoinFeasible(nested, plans.IndexNestedJoin))
}
