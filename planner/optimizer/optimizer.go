package optimizer

import (
	"context"
	"math/rand"

	"github.com/pingcap/errors"
	"github.com/ryogrid/SamehadaQP/catalog"
	"github.com/ryogrid/SamehadaQP/common"
	"github.com/ryogrid/SamehadaQP/execution/plans"
	"github.com/ryogrid/SamehadaQP/planner/query"
)

type Optimizer interface {
	// Optimize returns the cheapest plan found and its cost.
	// when ctx is done the best plan found so far is returned
	Optimize(ctx context.Context) (plans.Plan, int64, error)
}

func NewOptimizer(kind common.OptimizerKind, request *query.Request, c *catalog.Catalog, numBuffers uint32, saAlpha float64, rnd *rand.Rand) (Optimizer, error) {
	switch kind {
	case common.OPTIMIZER_II:
		return NewRandomII(request, c, numBuffers, rnd), nil
	case common.OPTIMIZER_SA:
		return NewRandomSA(request, c, numBuffers, saAlpha, rnd), nil
	}
	return nil, errors.Annotatef(common.ErrConfiguration, "unknown optimizer %q", kind)
}

// RandomOptimizer is shared part of the randomized optimizers
type RandomOptimizer struct {
	request         *query.Request
	catalog         *catalog.Catalog
	costModel       *CostModel
	rnd             *rand.Rand
	initialPlan     *RandomInitialPlan
	transformations *Transformations
}

func newRandomOptimizer(request *query.Request, c *catalog.Catalog, numBuffers uint32, rnd *rand.Rand) *RandomOptimizer {
	return &RandomOptimizer{
		request:         request,
		catalog:         c,
		costModel:       NewCostModel(c, c.GetPageSize(), numBuffers),
		rnd:             rnd,
		initialPlan:     NewRandomInitialPlan(request, c, rnd, numBuffers),
		transformations: NewTransformations(rnd, c, numBuffers),
	}
}

func (ro *RandomOptimizer) GetNeighbor(plan plans.Plan) plans.Plan {
	return ro.transformations.GetNeighbor(plan)
}

func (ro *RandomOptimizer) PlanCost(plan plans.Plan) int64 {
	return ro.costModel.PlanCost(plan)
}

func (ro *RandomOptimizer) GetCostModel() *CostModel {
	return ro.costModel
}

// prepareInitialPlan draws a fresh random plan and its cost
func (ro *RandomOptimizer) prepareInitialPlan() (plans.Plan, int64, error) {
	plan, err := ro.initialPlan.PrepareInitialPlan()
	if err != nil {
		return nil, 0, err
	}
	return plan, ro.printPlanCostInfo("Initial Plan", plan), nil
}

func (ro *RandomOptimizer) printPlanCostInfo(label string, plan plans.Plan) int64 {
	cost := ro.PlanCost(plan)
	common.ShPrintf(common.OPTIMIZER_TRACE, "---------------%s---------------\n%s\ncost: %d\n", label, plans.GetPlanStr(plan), cost)
	return cost
}
