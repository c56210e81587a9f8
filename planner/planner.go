package planner

import (
	"context"
	"math/rand"

	"github.com/ryogrid/SamehadaQP/catalog"
	"github.com/ryogrid/SamehadaQP/common"
	"github.com/ryogrid/SamehadaQP/execution/plans"
	"github.com/ryogrid/SamehadaQP/parser"
	"github.com/ryogrid/SamehadaQP/planner/optimizer"
	"github.com/ryogrid/SamehadaQP/planner/query"
)

type Planner interface {
	// MakePlan returns a plan of qi and its estimated cost
	MakePlan(ctx context.Context, qi *parser.QueryInfo) (plans.Plan, int64, error)
}

// RandomizedPlanner optimizes with the randomized optimizer named by the config.
// one generator seeded from the config is shared by every query
type RandomizedPlanner struct {
	catalog_ *catalog.Catalog
	config   *common.Config
	rnd      *rand.Rand
}

func NewRandomizedPlanner(c *catalog.Catalog, config *common.Config) *RandomizedPlanner {
	return &RandomizedPlanner{c, config, rand.New(rand.NewSource(config.Seed))}
}

func (pner *RandomizedPlanner) MakePlan(ctx context.Context, qi *parser.QueryInfo) (plans.Plan, int64, error) {
	request, err := query.Resolve(qi, pner.catalog_)
	if err != nil {
		return nil, 0, err
	}
	common.ShPrintf(common.DEBUG_INFO, "MakePlan: %s\n", request.String())

	opt, err := optimizer.NewOptimizer(pner.config.Optimizer, request, pner.catalog_, pner.config.NumBuffers, pner.config.SAAlpha, pner.rnd)
	if err != nil {
		return nil, 0, err
	}
	return opt.Optimize(ctx)
}
