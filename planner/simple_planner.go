package planner

import (
	"context"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pingcap/errors"
	"github.com/ryogrid/SamehadaQP/catalog"
	"github.com/ryogrid/SamehadaQP/common"
	"github.com/ryogrid/SamehadaQP/execution/expression"
	"github.com/ryogrid/SamehadaQP/execution/plans"
	"github.com/ryogrid/SamehadaQP/parser"
	"github.com/ryogrid/SamehadaQP/planner/optimizer"
	"github.com/ryogrid/SamehadaQP/planner/query"
)

// SimplePlanner joins tables left-deep in FROM order with one join algorithm.
// it does no search and is the baseline of the randomized planner
type SimplePlanner struct {
	catalog_   *catalog.Catalog
	numBuffers uint32
	joinType   plans.JoinType
}

func NewSimplePlanner(c *catalog.Catalog, numBuffers uint32, joinType plans.JoinType) *SimplePlanner {
	return &SimplePlanner{c, numBuffers, joinType}
}

func (pner *SimplePlanner) MakePlan(ctx context.Context, qi *parser.QueryInfo) (plans.Plan, int64, error) {
	request, err := query.Resolve(qi, pner.catalog_)
	if err != nil {
		return nil, 0, err
	}
	plan, err := pner.MakeRequestPlan(request)
	if err != nil {
		return nil, 0, err
	}
	cost := optimizer.NewCostModel(pner.catalog_, pner.catalog_.GetPageSize(), pner.numBuffers).PlanCost(plan)
	return plan, cost, nil
}

func (pner *SimplePlanner) MakeRequestPlan(request *query.Request) (plans.Plan, error) {
	bases, err := optimizer.BuildBasePlans(request, pner.catalog_)
	if err != nil {
		return nil, err
	}

	plan := bases[request.Tables_[0]]
	tables := mapset.NewThreadUnsafeSet[string](request.Tables_[0])
	pending := request.JoinConds_
	for _, name := range request.Tables_[1:] {
		tables.Add(name)
		conds := make([]*expression.Condition, 0)
		rest := make([]*expression.Condition, 0)
		for _, cond := range pending {
			if tables.Contains(cond.GetTableNames()...) {
				conds = append(conds, cond)
			} else {
				rest = append(rest, cond)
			}
		}
		pending = rest
		join := plans.NewJoinPlanNode(plan, bases[name], conds, pner.joinType)
		if join.GetPrimaryCondition() == nil {
			return nil, errors.Annotatef(common.ErrConfiguration, "no join condition between %s and the preceding tables", name)
		}
		plan = join
	}
	return optimizer.AddOutputNodes(request, plan)
}
