package optimizer

import (
	"math/rand"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pingcap/errors"
	"github.com/ryogrid/SamehadaQP/catalog"
	"github.com/ryogrid/SamehadaQP/common"
	"github.com/ryogrid/SamehadaQP/execution/expression"
	"github.com/ryogrid/SamehadaQP/execution/plans"
	"github.com/ryogrid/SamehadaQP/planner/query"
	"github.com/ryogrid/SamehadaQP/storage/table/column"
)

// RandomInitialPlan builds a random but valid plan of a request
type RandomInitialPlan struct {
	request   *query.Request
	catalog   *catalog.Catalog
	rnd       *rand.Rand
	costModel *CostModel
}

func NewRandomInitialPlan(request *query.Request, c *catalog.Catalog, rnd *rand.Rand, numBuffers uint32) *RandomInitialPlan {
	return &RandomInitialPlan{request, c, rnd, NewCostModel(c, c.GetPageSize(), numBuffers)}
}

// GetNumJoins is number of join conditions of the request
func (rip *RandomInitialPlan) GetNumJoins() int {
	return len(rip.request.JoinConds_)
}

// subtree is a partial join tree and the tables under it
type subtree struct {
	plan   plans.Plan
	tables mapset.Set[string]
}

func (rip *RandomInitialPlan) PrepareInitialPlan() (plans.Plan, error) {
	bases, err := BuildBasePlans(rip.request, rip.catalog)
	if err != nil {
		return nil, err
	}

	perm := rip.rnd.Perm(len(rip.request.Tables_))
	trees := make([]*subtree, 0, len(perm))
	for _, i := range perm {
		name := rip.request.Tables_[i]
		trees = append(trees, &subtree{bases[name], mapset.NewThreadUnsafeSet[string](name)})
	}

	pending := make([]*expression.Condition, 0, len(rip.request.JoinConds_))
	for _, i := range rip.rnd.Perm(len(rip.request.JoinConds_)) {
		pending = append(pending, rip.request.JoinConds_[i])
	}

	for len(trees) > 1 {
		// conditions which connect two different subtrees
		candidates := make([]int, 0)
		for i, cond := range pending {
			if l, r := findSubtrees(trees, cond); l >= 0 && r >= 0 && l != r {
				candidates = append(candidates, i)
			}
		}
		if len(candidates) == 0 {
			return nil, errors.Annotatef(common.ErrConfiguration, "join with no shared attribute: %s", rip.request.String())
		}

		cond := pending[candidates[rip.rnd.Intn(len(candidates))]]
		li, ri := findSubtrees(trees, cond)
		if rip.rnd.Intn(2) == 1 {
			li, ri = ri, li
		}
		left, right := trees[li], trees[ri]
		tables := left.tables.Union(right.tables)

		var conds []*expression.Condition
		conds, pending = takeCoveredConditions(pending, tables)
		join := plans.NewJoinPlanNode(left.plan, right.plan, conds, plans.PageNestedJoin)
		feasible := rip.costModel.FeasibleJoinTypes(join)
		if len(feasible) > 0 {
			join.SetJoinType(feasible[rip.rnd.Intn(len(feasible))])
		}

		merged := &subtree{join, tables}
		next := make([]*subtree, 0, len(trees)-1)
		for i, t := range trees {
			if i != li && i != ri {
				next = append(next, t)
			}
		}
		trees = append(next, merged)
	}
	common.SH_Assert(len(pending) == 0, "join conditions are left after every table is joined")

	return AddOutputNodes(rip.request, trees[0].plan)
}

// findSubtrees returns indexes of the subtrees holding the two attributes of cond
func findSubtrees(trees []*subtree, cond *expression.Condition) (int, int) {
	l, r := -1, -1
	for i, t := range trees {
		if t.tables.Contains(cond.GetLeftColumn().GetTableName()) {
			l = i
		}
		if t.tables.Contains(cond.GetRightColumn().GetTableName()) {
			r = i
		}
	}
	return l, r
}

// takeCoveredConditions splits conds into those whose tables are all in tables and the rest
func takeCoveredConditions(conds []*expression.Condition, tables mapset.Set[string]) ([]*expression.Condition, []*expression.Condition) {
	covered := make([]*expression.Condition, 0)
	rest := make([]*expression.Condition, 0)
	for _, cond := range conds {
		if tables.Contains(cond.GetTableNames()...) {
			covered = append(covered, cond)
		} else {
			rest = append(rest, cond)
		}
	}
	return covered, rest
}

// BuildBasePlans returns a scan per table, under a Selection when the table has select conditions
func BuildBasePlans(request *query.Request, c *catalog.Catalog) (map[string]plans.Plan, error) {
	if len(request.Tables_) == 0 {
		return nil, errors.Annotate(common.ErrConfiguration, "request has no table")
	}
	ret := make(map[string]plans.Plan, len(request.Tables_))
	for _, name := range request.Tables_ {
		tm := c.GetTableByName(name)
		if tm == nil {
			return nil, errors.Annotatef(common.ErrConfiguration, "unknown table %s", name)
		}
		var plan plans.Plan = plans.NewSeqScanPlanNode(tm)
		conds := make([]*expression.Condition, 0)
		for _, cond := range request.SelectConds_ {
			if cond.GetLeftColumn().GetTableName() == name {
				conds = append(conds, cond.Clone())
			}
		}
		if len(conds) > 0 {
			plan = plans.NewSelectionPlanNode(plan, conds)
		}
		ret[name] = plan
	}
	return ret, nil
}

// AddOutputNodes layers GroupBy, Projection and Distinct over a join tree.
// a wildcard over several tables is projected in FROM order so that the
// output schema does not depend on the join order
func AddOutputNodes(request *query.Request, plan plans.Plan) (plans.Plan, error) {
	var err error
	if len(request.GroupBys_) > 0 {
		if plan, err = plans.NewGroupByPlanNode(plan, request.GroupBys_); err != nil {
			return nil, err
		}
	}

	projections := request.Projections_
	if request.IsWildcard_ && len(request.GroupBys_) == 0 && len(request.Tables_) > 1 {
		projections = make([]*column.Column, 0)
		for _, name := range request.Tables_ {
			for _, col := range plan.OutputSchema().GetColumns() {
				if col.GetTableName() == name {
					projections = append(projections, col)
				}
			}
		}
	}
	if !request.IsWildcard_ || len(projections) > 0 {
		if plan, err = plans.NewProjectionPlanNode(plan, projections); err != nil {
			return nil, err
		}
	}

	if request.IsDistinct_ {
		plan = plans.NewDistinctPlanNode(plan)
	}
	return plan, nil
}
