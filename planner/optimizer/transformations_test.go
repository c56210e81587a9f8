package optimizer

import (
	"math/rand"
	"testing"

	"github.com/ryogrid/SamehadaQP/execution/expression"
	"github.com/ryogrid/SamehadaQP/execution/plans"
	"github.com/ryogrid/SamehadaQP/storage/index/index_constants"
	testingpkg "github.com/ryogrid/SamehadaQP/testing/testing_assert"
	"github.com/ryogrid/SamehadaQP/testing/testing_util"
)

func TestGetNeighborDoesNotModifyInput(t *testing.T) {
	c := setupRST(t)
	req := requestOf(t, c, "SELECT r.a, t.d FROM r, s, t WHERE r.b = s.b AND s.c = t.c;")
	rnd := rand.New(rand.NewSource(4))
	plan, err := NewRandomInitialPlan(req, c, rnd, 5).PrepareInitialPlan()
	testingpkg.Ok(t, err)
	before := plans.GetPlanStr(plan)

	tr := NewTransformations(rnd, c, 5)
	changed := false
	for i := 0; i < 50; i++ {
		neighbor := tr.GetNeighbor(plan)
		testingpkg.Equals(t, before, plans.GetPlanStr(plan))
		if plans.GetPlanStr(neighbor) != before {
			changed = true
		}
	}
	testingpkg.SimpleAssert(t, changed)
}

func TestNeighborsProduceSameResult(t *testing.T) {
	c := setupRST(t)
	_, err := c.CreateIndex("t", "c", index_constants.INDEX_KIND_BTREE)
	testingpkg.Ok(t, err)
	_, err = c.CreateIndex("s", "b", index_constants.INDEX_KIND_HASH)
	testingpkg.Ok(t, err)

	req := requestOf(t, c, "SELECT * FROM r, s, t WHERE r.b = s.b AND s.c = t.c AND r.a < 60;")
	const numBuffers = 4
	rnd := rand.New(rand.NewSource(8))
	plan, err := NewRandomInitialPlan(req, c, rnd, numBuffers).PrepareInitialPlan()
	testingpkg.Ok(t, err)
	expected := testing_util.SortedTupleStrs(execute(t, c, plan, numBuffers))

	tr := NewTransformations(rnd, c, numBuffers)
	cm := NewCostModel(c, testPageSize, numBuffers)
	for i := 0; i < 40; i++ {
		plan = tr.GetNeighbor(plan)
		testingpkg.Equals(t, 2, len(plans.GetJoinNodes(plan)))
		for _, join := range plans.GetJoinNodes(plan) {
			testingpkg.SimpleAssert(t, join.GetPrimaryCondition() != nil)
			testingpkg.SimpleAssert(t, cm.IsJoinFeasible(join, join.GetJoinType()))
		}
		testingpkg.Equals(t, expected, testing_util.SortedTupleStrs(execute(t, c, plan, numBuffers)))
	}
}

func TestAssociativityRehomesConditions(t *testing.T) {
	c := setupRST(t)
	r, s, tt := c.GetTableByName("r"), c.GetTableByName("s"), c.GetTableByName("t")
	rs := expression.NewJoinCondition(r.Schema().GetColumn(1), expression.Equal, s.Schema().GetColumn(0))
	st := expression.NewJoinCondition(s.Schema().GetColumn(1), expression.Equal, tt.Schema().GetColumn(0))

	// (r x s) x t -> r x (s x t)
	inner := plans.NewJoinPlanNode(plans.NewSeqScanPlanNode(r), plans.NewSeqScanPlanNode(s), []*expression.Condition{rs}, plans.PageNestedJoin)
	outer := plans.NewJoinPlanNode(inner, plans.NewSeqScanPlanNode(tt), []*expression.Condition{st}, plans.PageNestedJoin)

	tr := NewTransformations(rand.New(rand.NewSource(1)), c, 5)
	testingpkg.Equals(t, 3, len(tr.applicableRewrites(outer)))
	tr.associateLeftToRight(outer)
	testingpkg.Ok(t, plans.RecomputeSchema(outer))

	testingpkg.Equals(t, plans.SeqScan, outer.GetLeftPlan().GetType())
	newInner := outer.GetRightPlan().(*plans.JoinPlanNode)
	testingpkg.Equals(t, "s.c == t.c", newInner.GetConditions()[0].String())
	testingpkg.Equals(t, "r.b == s.b", outer.GetConditions()[0].String())
	testingpkg.Equals(t, uint32(6), outer.OutputSchema().GetColumnCount())

	// and back: r x (s x t) -> (r x s) x t
	tr.associateRightToLeft(outer)
	testingpkg.Ok(t, plans.RecomputeSchema(outer))
	testingpkg.Equals(t, "r.b == s.b", outer.GetLeftPlan().(*plans.JoinPlanNode).GetConditions()[0].String())
	testingpkg.Equals(t, "s.c == t.c", outer.GetConditions()[0].String())
}

func TestAssociativityRejectsCrossProduct(t *testing.T) {
	c := setupRST(t)
	r, s, tt := c.GetTableByName("r"), c.GetTableByName("s"), c.GetTableByName("t")
	rs := expression.NewJoinCondition(r.Schema().GetColumn(1), expression.Equal, s.Schema().GetColumn(0))
	st := expression.NewJoinCondition(s.Schema().GetColumn(1), expression.Equal, tt.Schema().GetColumn(0))

	// (s x r) x t: r and t share nothing so s x (r x t) is not generated
	inner := plans.NewJoinPlanNode(plans.NewSeqScanPlanNode(s), plans.NewSeqScanPlanNode(r), []*expression.Condition{rs}, plans.PageNestedJoin)
	outer := plans.NewJoinPlanNode(inner, plans.NewSeqScanPlanNode(tt), []*expression.Condition{st}, plans.PageNestedJoin)

	// B = 2 leaves only page nested loop join, so commutativity is the only rewrite
	tr := NewTransformations(rand.New(rand.NewSource(1)), c, 2)
	testingpkg.Equals(t, 1, len(tr.applicableRewrites(outer)))
}
