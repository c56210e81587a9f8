package optimizer

import (
	"context"
	"math/rand"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ryogrid/SamehadaQP/catalog"
	"github.com/ryogrid/SamehadaQP/common"
	"github.com/ryogrid/SamehadaQP/execution/executors"
	"github.com/ryogrid/SamehadaQP/execution/expression"
	"github.com/ryogrid/SamehadaQP/execution/plans"
	"github.com/ryogrid/SamehadaQP/parser"
	"github.com/ryogrid/SamehadaQP/planner/query"
	"github.com/ryogrid/SamehadaQP/storage/disk"
	"github.com/ryogrid/SamehadaQP/storage/tuple"
	testingpkg "github.com/ryogrid/SamehadaQP/testing/testing_assert"
	"github.com/ryogrid/SamehadaQP/testing/testing_tbl_gen"
	"github.com/ryogrid/SamehadaQP/testing/testing_util"
)

const testPageSize uint32 = 64

func setupRST(t *testing.T) *catalog.Catalog {
	c := testing_tbl_gen.NewTestCatalog(testPageSize)
	rnd := rand.New(rand.NewSource(3))
	_, _, err := testing_tbl_gen.GenerateTestTables(c, rnd)
	testingpkg.Ok(t, err)
	_, err = testing_tbl_gen.GenerateTestTableT(c, rnd)
	testingpkg.Ok(t, err)
	return c
}

func requestOf(t *testing.T, c *catalog.Catalog, sqlStr string) *query.Request {
	qi, err := parser.ProcessSQLStr(&sqlStr)
	testingpkg.Ok(t, err)
	req, err := query.Resolve(qi, c)
	testingpkg.Ok(t, err)
	return req
}

func execute(t *testing.T, c *catalog.Catalog, plan plans.Plan, numBuffers uint32) []*tuple.Tuple {
	ctx := executors.NewExecutorContext(c, disk.NewVirtualDiskManagerImpl(), c.GetPageSize(), numBuffers)
	engine := &executors.ExecutionEngine{}
	tuples, err := engine.Execute(plan, ctx)
	testingpkg.Ok(t, err)
	return tuples
}

// hashJoinOracle is result of select r.a, s.c from r, s where r.b = s.b
func hashJoinOracle(t *testing.T, c *catalog.Catalog) []string {
	cs := make(map[int32][]int32)
	for it := c.GetTableByName("s").Table().Iterator(); !it.End(); it.Next() {
		b := it.Current().GetValue(0).ToInteger()
		cs[b] = append(cs[b], it.Current().GetValue(1).ToInteger())
	}
	ret := make([]*tuple.Tuple, 0)
	it := c.GetTableByName("r").Table().Iterator()
	for ; !it.End(); it.Next() {
		a, b := it.Current().GetValue(0).ToInteger(), it.Current().GetValue(1).ToInteger()
		for _, cval := range cs[b] {
			ret = append(ret, testing_util.MakeTuple(a, cval))
		}
	}
	testingpkg.Ok(t, it.Err())
	return testing_util.SortedTupleStrs(ret)
}

// naivePlan joins tables in FROM order with page nested loop joins
func naivePlan(t *testing.T, c *catalog.Catalog, req *query.Request) plans.Plan {
	bases, err := BuildBasePlans(req, c)
	testingpkg.Ok(t, err)
	plan := bases[req.Tables_[0]]
	tables := mapset.NewThreadUnsafeSet[string](req.Tables_[0])
	pending := req.JoinConds_
	for _, name := range req.Tables_[1:] {
		tables.Add(name)
		var conds []*expression.Condition
		conds, pending = takeCoveredConditions(pending, tables)
		plan = plans.NewJoinPlanNode(plan, bases[name], conds, plans.PageNestedJoin)
	}
	ret, err := AddOutputNodes(req, plan)
	testingpkg.Ok(t, err)
	return ret
}

func TestRandomIIOnRS(t *testing.T) {
	c := setupRST(t)
	req := requestOf(t, c, "SELECT a, c FROM r, s WHERE r.b = s.b;")
	const numBuffers = 5

	ii := NewRandomII(req, c, numBuffers, rand.New(rand.NewSource(11)))
	plan, cost, err := ii.Optimize(context.Background())
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, cost, ii.PlanCost(plan))

	// two restarts for one join condition
	testingpkg.Equals(t, 2, len(ii.LocalMinima()))
	for _, localMin := range ii.LocalMinima() {
		testingpkg.SimpleAssert(t, cost <= localMin)
	}

	naive := naivePlan(t, c, req)
	testingpkg.SimpleAssert(t, cost <= ii.PlanCost(naive))

	testingpkg.Equals(t, hashJoinOracle(t, c), testing_util.SortedTupleStrs(execute(t, c, plan, numBuffers)))
	testingpkg.Equals(t, hashJoinOracle(t, c), testing_util.SortedTupleStrs(execute(t, c, naive, numBuffers)))
}

func TestRandomSAOnRS(t *testing.T) {
	c := setupRST(t)
	req := requestOf(t, c, "SELECT a, c FROM r, s WHERE r.b = s.b;")
	const numBuffers = 5
	const seed = 23

	// the first plan SA draws is the one a fresh generator with the same seed draws
	first, err := NewRandomInitialPlan(req, c, rand.New(rand.NewSource(seed)), numBuffers).PrepareInitialPlan()
	testingpkg.Ok(t, err)
	firstCost := NewCostModel(c, c.GetPageSize(), numBuffers).PlanCost(first)

	sa := NewRandomSA(req, c, numBuffers, common.SAAlpha, rand.New(rand.NewSource(seed)))
	plan, cost, err := sa.Optimize(context.Background())
	testingpkg.Ok(t, err)
	testingpkg.SimpleAssert(t, cost <= firstCost)
	testingpkg.Equals(t, cost, sa.PlanCost(plan))

	rounds := sa.RoundBestCosts()
	testingpkg.SimpleAssert(t, len(rounds) > 0)
	for i := 1; i < len(rounds); i++ {
		testingpkg.SimpleAssert(t, rounds[i] <= rounds[i-1])
	}
	testingpkg.Equals(t, rounds[len(rounds)-1], cost)

	testingpkg.Equals(t, hashJoinOracle(t, c), testing_util.SortedTupleStrs(execute(t, c, plan, numBuffers)))
}

func TestOptimizersOnThreeTables(t *testing.T) {
	c := setupRST(t)
	req := requestOf(t, c, "SELECT * FROM r, s, t WHERE r.b = s.b AND s.c = t.c AND t.d < 5;")
	const numBuffers = 4
	expected := testing_util.SortedTupleStrs(execute(t, c, naivePlan(t, c, req), numBuffers))
	testingpkg.SimpleAssert(t, len(expected) > 0)

	for _, kind := range []common.OptimizerKind{common.OPTIMIZER_II, common.OPTIMIZER_SA} {
		opt, err := NewOptimizer(kind, req, c, numBuffers, common.SAAlphaMax, rand.New(rand.NewSource(5)))
		testingpkg.Ok(t, err)
		plan, cost, err := opt.Optimize(context.Background())
		testingpkg.Ok(t, err)
		testingpkg.SimpleAssert(t, cost < InfeasibleCost)
		testingpkg.Equals(t, 2, len(plans.GetJoinNodes(plan)))
		testingpkg.Equals(t, expected, testing_util.SortedTupleStrs(execute(t, c, plan, numBuffers)))
	}

	_, err := NewOptimizer("greedy", req, c, numBuffers, common.SAAlpha, rand.New(rand.NewSource(5)))
	testingpkg.Nok(t, err, common.ErrConfiguration)
}

func TestOptimizeWithoutJoin(t *testing.T) {
	c := setupRST(t)
	req := requestOf(t, c, "SELECT a FROM r WHERE b = 3;")

	ii := NewRandomII(req, c, 3, rand.New(rand.NewSource(1)))
	plan, cost, err := ii.Optimize(context.Background())
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, "Project(Select(r  'r.b == 3'))", plans.GetPlanStr(plan))
	testingpkg.Equals(t, int64(c.GetTableByName("r").GetStatistics().Pages()), cost)
	testingpkg.Equals(t, 0, len(ii.LocalMinima()))

	sa := NewRandomSA(req, c, 3, common.SAAlpha, rand.New(rand.NewSource(1)))
	_, saCost, err := sa.Optimize(context.Background())
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, cost, saCost)
	testingpkg.Equals(t, 0, len(sa.RoundBestCosts()))
}

func TestOptimizeWithCanceledContext(t *testing.T) {
	c := setupRST(t)
	req := requestOf(t, c, "SELECT a, c FROM r, s WHERE r.b = s.b;")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ii := NewRandomII(req, c, 5, rand.New(rand.NewSource(1)))
	plan, cost, err := ii.Optimize(ctx)
	testingpkg.Ok(t, err)
	testingpkg.SimpleAssert(t, plan != nil)
	testingpkg.Equals(t, 1, len(ii.LocalMinima()))
	testingpkg.Equals(t, ii.PlanCost(plan), cost)

	sa := NewRandomSA(req, c, 5, common.SAAlpha, rand.New(rand.NewSource(1)))
	plan, _, err = sa.Optimize(ctx)
	testingpkg.Ok(t, err)
	testingpkg.SimpleAssert(t, plan != nil)
	testingpkg.Equals(t, 0, len(sa.RoundBestCosts()))
}
