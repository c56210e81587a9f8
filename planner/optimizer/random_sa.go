package optimizer

import (
	"context"
	"math"
	"math/rand"

	"github.com/ryogrid/SamehadaQP/catalog"
	"github.com/ryogrid/SamehadaQP/common"
	"github.com/ryogrid/SamehadaQP/execution/plans"
	"github.com/ryogrid/SamehadaQP/planner/query"
)

// RandomSA is simulated annealing. temperature starts at twice the cost
// of the first initial plan and decays by alpha each round until frozen
type RandomSA struct {
	*RandomOptimizer
	alpha          float64
	roundBestCosts []int64
}

func NewRandomSA(request *query.Request, c *catalog.Catalog, numBuffers uint32, alpha float64, rnd *rand.Rand) *RandomSA {
	return &RandomSA{newRandomOptimizer(request, c, numBuffers, rnd), alpha, make([]int64, 0)}
}

// RoundBestCosts returns best cost found so far at the end of each round
func (sa *RandomSA) RoundBestCosts() []int64 {
	return sa.roundBestCosts
}

func (sa *RandomSA) Optimize(ctx context.Context) (plans.Plan, int64, error) {
	numJoins := sa.initialPlan.GetNumJoins()
	sa.roundBestCosts = make([]int64, 0)

	bestPlan, bestCost, err := sa.prepareInitialPlan()
	if err != nil {
		return nil, 0, err
	}
	if numJoins == 0 {
		common.ShPrintf(common.OPTIMIZER_TRACE, "Final Plan: %s cost: %d\n", plans.GetPlanStr(bestPlan), bestCost)
		return bestPlan, bestCost, nil
	}

	temperature := 2 * float64(bestCost)
	current, currentCost := bestPlan, bestCost
	for round := 0; temperature >= common.SAEndTemperature && ctx.Err() == nil; round++ {
		if round > 0 {
			if current, currentCost, err = sa.prepareInitialPlan(); err != nil {
				return nil, 0, err
			}
			if currentCost < bestCost {
				bestPlan, bestCost = current, currentCost
			}
		}

		for i := 0; i < 8*numJoins; i++ {
			neighbor := sa.GetNeighbor(current)
			neighborCost := sa.printPlanCostInfo("Neighbor", neighbor)
			if neighborCost <= currentCost || sa.judge(temperature, neighborCost, currentCost) {
				current, currentCost = neighbor, neighborCost
				if currentCost < bestCost {
					bestPlan, bestCost = current, currentCost
				}
			}
		}

		common.ShPrintf(common.OPTIMIZER_TRACE, "round %d temperature %v best cost %d\n", round, temperature, bestCost)
		sa.roundBestCosts = append(sa.roundBestCosts, bestCost)
		temperature *= sa.alpha
	}

	common.ShPrintf(common.OPTIMIZER_TRACE, "Final Plan: %s cost: %d\n", plans.GetPlanStr(bestPlan), bestCost)
	return bestPlan, bestCost, nil
}

// judge accepts an uphill move with probability exp(-|delta| / temperature)
func (sa *RandomSA) judge(temperature float64, cost1 int64, cost2 int64) bool {
	delta := math.Abs(float64(cost1 - cost2))
	prob := math.Exp(-delta / temperature)
	return sa.rnd.Float64() < prob
}
