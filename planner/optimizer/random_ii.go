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

// RandomII is iterative improvement. it restarts 2 x joins times
// and walks downhill from each random initial plan to a local minimum
type RandomII struct {
	*RandomOptimizer
	localMinima []int64
}

func NewRandomII(request *query.Request, c *catalog.Catalog, numBuffers uint32, rnd *rand.Rand) *RandomII {
	return &RandomII{newRandomOptimizer(request, c, numBuffers, rnd), make([]int64, 0)}
}

// LocalMinima returns costs of the local minimum of each restart
func (ii *RandomII) LocalMinima() []int64 {
	return ii.localMinima
}

func (ii *RandomII) Optimize(ctx context.Context) (plans.Plan, int64, error) {
	numJoins := ii.initialPlan.GetNumJoins()
	ii.localMinima = make([]int64, 0, 2*numJoins)

	if numJoins == 0 {
		plan, cost, err := ii.prepareInitialPlan()
		if err != nil {
			return nil, 0, err
		}
		common.ShPrintf(common.OPTIMIZER_TRACE, "Final Plan: %s cost: %d\n", plans.GetPlanStr(plan), cost)
		return plan, cost, nil
	}

	var finalPlan plans.Plan
	finalCost := int64(math.MaxInt64)
	for j := 0; j < 2*numJoins; j++ {
		if finalPlan != nil && ctx.Err() != nil {
			break
		}
		plan, cost, err := ii.prepareInitialPlan()
		if err != nil {
			return nil, 0, err
		}

		for ctx.Err() == nil {
			minNeighborPlan, minNeighborCost := plan, cost
			for i := 0; i < 2*numJoins; i++ {
				neighbor := ii.GetNeighbor(plan)
				neighborCost := ii.printPlanCostInfo("Neighbor", neighbor)
				if neighborCost < minNeighborCost {
					minNeighborPlan, minNeighborCost = neighbor, neighborCost
				}
			}
			if minNeighborCost >= cost {
				break
			}
			plan, cost = minNeighborPlan, minNeighborCost
		}

		common.ShPrintf(common.OPTIMIZER_TRACE, "Local Minimum: %s cost: %d\n", plans.GetPlanStr(plan), cost)
		ii.localMinima = append(ii.localMinima, cost)
		if cost < finalCost {
			finalPlan, finalCost = plan, cost
		}
	}

	common.ShPrintf(common.OPTIMIZER_TRACE, "Final Plan: %s cost: %d\n", plans.GetPlanStr(finalPlan), finalCost)
	return finalPlan, finalCost, nil
}
