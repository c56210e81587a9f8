package optimizer

import (
	"math/rand"
	"testing"

	"github.com/ryogrid/SamehadaQP/common"
	"github.com/ryogrid/SamehadaQP/execution/plans"
	"github.com/ryogrid/SamehadaQP/planner/query"
	testingpkg "github.com/ryogrid/SamehadaQP/testing/testing_assert"
)

func TestPrepareInitialPlanIsValid(t *testing.T) {
	c := setupRST(t)
	req := requestOf(t, c, "SELECT DISTINCT r.a, t.d FROM r, s, t WHERE r.b = s.b AND s.c = t.c AND r.a > 10;")
	rip := NewRandomInitialPlan(req, c, rand.New(rand.NewSource(9)), 4)
	testingpkg.Equals(t, 2, rip.GetNumJoins())

	seen := make(map[string]bool)
	for i := 0; i < 30; i++ {
		plan, err := rip.PrepareInitialPlan()
		testingpkg.Ok(t, err)
		seen[plans.GetPlanStr(plan)] = true

		_, ok := plan.(*plans.DistinctPlanNode)
		testingpkg.SimpleAssert(t, ok)
		testingpkg.Equals(t, plans.Projection, plan.GetChildAt(0).GetType())
		testingpkg.Equals(t, uint32(2), plan.OutputSchema().GetColumnCount())
		testingpkg.Equals(t, 3, plans.GetBaseTableNames(plan).Cardinality())

		cm := NewCostModel(c, testPageSize, 4)
		for _, join := range plans.GetJoinNodes(plan) {
			// every join has a condition between its sides
			testingpkg.SimpleAssert(t, join.GetPrimaryCondition() != nil)
			testingpkg.SimpleAssert(t, cm.IsJoinFeasible(join, join.GetJoinType()))
		}
		testingpkg.SimpleAssert(t, cm.PlanCost(plan) < InfeasibleCost)

		// the select condition sits right above the scan of r
		for _, join := range plans.GetJoinNodes(plan) {
			for _, child := range join.GetChildren() {
				if sel, ok := child.(*plans.SelectionPlanNode); ok {
					scan, _ := plans.GetBaseScan(sel)
					testingpkg.Equals(t, "r", scan.GetTableName())
				}
			}
		}
	}
	// plans differ between calls without reseeding
	testingpkg.SimpleAssert(t, len(seen) > 1)
}

func TestPrepareInitialPlanWithoutSharedAttribute(t *testing.T) {
	c := setupRST(t)
	req := requestOf(t, c, "SELECT * FROM r, t WHERE r.a = 1;")
	_, err := NewRandomInitialPlan(req, c, rand.New(rand.NewSource(1)), 4).PrepareInitialPlan()
	testingpkg.Nok(t, err, common.ErrConfiguration)

	_, err = NewRandomInitialPlan(query.NewRequest([]string{}), c, rand.New(rand.NewSource(1)), 4).PrepareInitialPlan()
	testingpkg.Nok(t, err, common.ErrConfiguration)
}

func TestPrepareInitialPlanOutputNodes(t *testing.T) {
	c := setupRST(t)
	rnd := rand.New(rand.NewSource(2))

	// wildcard over two tables is projected in FROM order
	req := requestOf(t, c, "SELECT * FROM s, r WHERE r.b = s.b;")
	for i := 0; i < 10; i++ {
		plan, err := NewRandomInitialPlan(req, c, rnd, 4).PrepareInitialPlan()
		testingpkg.Ok(t, err)
		cols := plan.OutputSchema().GetColumns()
		testingpkg.Equals(t, 4, len(cols))
		testingpkg.Equals(t, "s.b", cols[0].GetQualifiedName())
		testingpkg.Equals(t, "r.b", cols[3].GetQualifiedName())
	}

	req = requestOf(t, c, "SELECT b FROM r GROUP BY b;")
	plan, err := NewRandomInitialPlan(req, c, rnd, 4).PrepareInitialPlan()
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, "Project(GroupBy(r  [r.b]))", plans.GetPlanStr(plan))

	req = requestOf(t, c, "SELECT * FROM r;")
	plan, err = NewRandomInitialPlan(req, c, rnd, 4).PrepareInitialPlan()
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, "r", plans.GetPlanStr(plan))
}
