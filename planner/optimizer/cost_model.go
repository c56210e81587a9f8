package optimizer

import (
	"math"

	"github.com/ryogrid/SamehadaQP/catalog"
	"github.com/ryogrid/SamehadaQP/common"
	"github.com/ryogrid/SamehadaQP/execution/expression"
	"github.com/ryogrid/SamehadaQP/execution/plans"
	"github.com/ryogrid/SamehadaQP/storage/index"
	"github.com/ryogrid/SamehadaQP/storage/table/column"
)

// InfeasibleCost is the cost of a join which can't run in the buffer budget
const InfeasibleCost int64 = math.MaxInt64 / 16

// reduction factor of a range comparison
const rangeReductionFactor = 1.0 / 3.0

// CostModel estimates I/O of a plan in pages. it is used only to rank plans
type CostModel struct {
	catalog    *catalog.Catalog
	pageSize   uint32
	numBuffers uint32
}

func NewCostModel(c *catalog.Catalog, pageSize uint32, numBuffers uint32) *CostModel {
	return &CostModel{c, pageSize, numBuffers}
}

func (cm *CostModel) GetNumBuffers() uint32 {
	return cm.numBuffers
}

func addCost(a int64, b int64) int64 {
	if a >= InfeasibleCost-b {
		return InfeasibleCost
	}
	return a + b
}

func mulCost(a int64, b int64) int64 {
	if a != 0 && b > InfeasibleCost/a {
		return InfeasibleCost
	}
	return a * b
}

// PlanCost is sum of I/O of every node of plan
func (cm *CostModel) PlanCost(plan plans.Plan) int64 {
	cost, _ := cm.costOf(plan)
	return cost
}

// Estimate returns estimated size of the output of plan
func (cm *CostModel) Estimate(plan plans.Plan) *catalog.TableStatistics {
	_, stats := cm.costOf(plan)
	return stats
}

func (cm *CostModel) costOf(plan plans.Plan) (int64, *catalog.TableStatistics) {
	switch node := plan.(type) {
	case *plans.SeqScanPlanNode:
		tm := cm.catalog.GetTableByOID(node.GetTableOID())
		common.SH_Assert(tm != nil, "table of a scan is not in catalog")
		stats := tm.GetStatistics().GetDeepCopy()
		return int64(stats.Pages()), stats
	case *plans.SelectionPlanNode:
		cost, stats := cm.costOf(node.GetChildAt(0))
		return cost, cm.estimateSelection(node, stats)
	case *plans.ProjectionPlanNode:
		cost, stats := cm.costOf(node.GetChildAt(0))
		return cost, cm.estimateProjection(node.GetColumns(), stats, node.OutputSchema().Length())
	case *plans.JoinPlanNode:
		lcost, lstats := cm.costOf(node.GetLeftPlan())
		rcost, rstats := cm.costOf(node.GetRightPlan())
		own := cm.joinCost(node, node.GetJoinType(), lstats, rstats)
		return addCost(addCost(lcost, rcost), own), cm.estimateJoin(node, lstats, rstats)
	case *plans.SortPlanNode:
		cost, stats := cm.costOf(node.GetChildAt(0))
		return addCost(cost, cm.sortCost(int64(stats.Pages()))), stats
	case *plans.DistinctPlanNode:
		cost, stats := cm.costOf(node.GetChildAt(0))
		return addCost(cost, cm.sortCost(int64(stats.Pages()))), cm.estimateGrouping(node.OutputSchema().GetColumns(), stats, node.OutputSchema().Length())
	case *plans.GroupByPlanNode:
		cost, stats := cm.costOf(node.GetChildAt(0))
		return addCost(cost, cm.sortCost(int64(stats.Pages()))), cm.estimateGrouping(node.GetGroupBys(), stats, node.OutputSchema().Length())
	}
	panic("unknown plan node for cost model")
}

// MergePasses is number of merge passes of an external sort of pages
func (cm *CostModel) MergePasses(pages int64) int64 {
	B := int64(cm.numBuffers)
	fanIn := B - 1
	if fanIn < 2 {
		fanIn = 2
	}
	runs := (pages + B - 1) / B
	passes := int64(0)
	for runs > 1 {
		runs = (runs + fanIn - 1) / fanIn
		passes++
	}
	return passes
}

func (cm *CostModel) sortCost(pages int64) int64 {
	return mulCost(2*pages, 1+cm.MergePasses(pages))
}

// IsJoinFeasible reports whether joinType can run node in the buffer budget
func (cm *CostModel) IsJoinFeasible(node *plans.JoinPlanNode, joinType plans.JoinType) bool {
	if cm.numBuffers < 2 {
		return false
	}
	switch joinType {
	case plans.PageNestedJoin:
		return true
	case plans.BlockNestedJoin:
		return cm.numBuffers >= 3
	case plans.SortMergeJoin:
		primary := node.GetPrimaryCondition()
		return cm.numBuffers >= 3 && primary != nil && primary.IsEquality()
	case plans.HashJoin:
		primary := node.GetPrimaryCondition()
		if cm.numBuffers < 3 || primary == nil || !primary.IsEquality() {
			return false
		}
		l := cm.Estimate(node.GetLeftPlan()).Pages()
		r := cm.Estimate(node.GetRightPlan()).Pages()
		build := uint64(math.Min(float64(l), float64(r)))
		return build <= uint64(cm.numBuffers-1)*uint64(cm.numBuffers-2)
	case plans.IndexNestedJoin:
		return cm.innerIndexOf(node) != nil
	}
	return false
}

// FeasibleJoinTypes returns every join type IsJoinFeasible accepts for node
func (cm *CostModel) FeasibleJoinTypes(node *plans.JoinPlanNode) []plans.JoinType {
	ret := make([]plans.JoinType, 0, plans.NumJoinTypes)
	for jt := plans.JoinType(0); jt < plans.NumJoinTypes; jt++ {
		if cm.IsJoinFeasible(node, jt) {
			ret = append(ret, jt)
		}
	}
	return ret
}

// innerIndexOf returns the index probed by an index nested loop join of node, or nil
func (cm *CostModel) innerIndexOf(node *plans.JoinPlanNode) index.Index {
	primary := node.GetPrimaryCondition()
	if primary == nil {
		return nil
	}
	if scan, _ := plans.GetBaseScan(node.GetRightPlan()); scan == nil {
		return nil
	}
	idx := cm.catalog.GetIndex(primary.GetRightColumn())
	if idx == nil || !idx.SupportsComparison(primary.GetComparisonType().Flip()) {
		return nil
	}
	return idx
}

func (cm *CostModel) joinCost(node *plans.JoinPlanNode, joinType plans.JoinType, lstats *catalog.TableStatistics, rstats *catalog.TableStatistics) int64 {
	if !cm.IsJoinFeasible(node, joinType) {
		return InfeasibleCost
	}
	L := int64(lstats.Pages())
	R := int64(rstats.Pages())
	switch joinType {
	case plans.PageNestedJoin:
		return addCost(L, mulCost(L, R))
	case plans.BlockNestedJoin:
		block := int64(cm.numBuffers) - 2
		return addCost(L, mulCost((L+block-1)/block, R))
	case plans.SortMergeJoin:
		return addCost(addCost(cm.sortCost(L), cm.sortCost(R)), L+R)
	case plans.HashJoin:
		if L <= int64(cm.numBuffers)-2 || R <= int64(cm.numBuffers)-2 {
			return L + R
		}
		return mulCost(3, L+R)
	case plans.IndexNestedJoin:
		probe := cm.innerIndexOf(node).GetProbeCost()
		return addCost(L, mulCost(int64(lstats.Rows()), probe))
	}
	return InfeasibleCost
}

func capDistinct(distinct map[string]uint64, rows uint64) {
	for k, v := range distinct {
		if v > rows {
			distinct[k] = rows
		}
	}
}

func toRows(f float64) uint64 {
	if f <= 0 {
		return 0
	}
	return uint64(math.Ceil(f))
}

func (cm *CostModel) estimateSelection(node *plans.SelectionPlanNode, stats *catalog.TableStatistics) *catalog.TableStatistics {
	distinct := stats.GetDistinctMap()
	rows := float64(stats.Rows())
	for _, cond := range node.GetConditions() {
		col := cond.GetLeftColumn()
		v := float64(stats.Distinct(col))
		switch cond.GetComparisonType() {
		case expression.Equal:
			rows = rows / v
			distinct[col.GetQualifiedName()] = 1
		case expression.NotEqual:
			rows = rows * (1 - 1/v)
		default:
			rows = rows * rangeReductionFactor
		}
	}
	ret := catalog.NewEstimatedStatistics(toRows(rows), stats.TupleSize(), cm.pageSize, distinct)
	capDistinct(ret.GetDistinctMap(), ret.Rows())
	return ret
}

func (cm *CostModel) estimateProjection(cols []*column.Column, stats *catalog.TableStatistics, tupleSize uint32) *catalog.TableStatistics {
	distinct := make(map[string]uint64, len(cols))
	for _, col := range cols {
		distinct[col.GetQualifiedName()] = stats.Distinct(col)
	}
	return catalog.NewEstimatedStatistics(stats.Rows(), tupleSize, cm.pageSize, distinct)
}

func (cm *CostModel) estimateJoin(node *plans.JoinPlanNode, lstats *catalog.TableStatistics, rstats *catalog.TableStatistics) *catalog.TableStatistics {
	distinct := make(map[string]uint64)
	for k, v := range lstats.GetDistinctMap() {
		distinct[k] = v
	}
	for k, v := range rstats.GetDistinctMap() {
		distinct[k] = v
	}

	rows := float64(lstats.Rows()) * float64(rstats.Rows())
	for _, cond := range node.GetConditions() {
		if cond.GetKind() != expression.JoinCondition {
			continue
		}
		lcol, rcol := cond.GetLeftColumn(), cond.GetRightColumn()
		if !cond.IsEquality() {
			rows = rows * rangeReductionFactor
			continue
		}
		lv, rv := distinctIn(lcol, lstats, rstats), distinctIn(rcol, lstats, rstats)
		rows = rows / math.Max(float64(lv), float64(rv))
		minV := uint64(math.Min(float64(lv), float64(rv)))
		distinct[lcol.GetQualifiedName()] = minV
		distinct[rcol.GetQualifiedName()] = minV
	}
	ret := catalog.NewEstimatedStatistics(toRows(rows), node.OutputSchema().Length(), cm.pageSize, distinct)
	capDistinct(ret.GetDistinctMap(), ret.Rows())
	return ret
}

func distinctIn(col *column.Column, lstats *catalog.TableStatistics, rstats *catalog.TableStatistics) uint64 {
	if _, ok := lstats.GetDistinctMap()[col.GetQualifiedName()]; ok {
		return lstats.Distinct(col)
	}
	return rstats.Distinct(col)
}

// estimateGrouping is for Distinct and GroupBy: one row per distinct combination of cols
func (cm *CostModel) estimateGrouping(cols []*column.Column, stats *catalog.TableStatistics, tupleSize uint32) *catalog.TableStatistics {
	groups := 1.0
	distinct := make(map[string]uint64, len(cols))
	for _, col := range cols {
		v := stats.Distinct(col)
		groups *= float64(v)
		distinct[col.GetQualifiedName()] = v
	}
	rows := stats.Rows()
	if groups < float64(rows) {
		rows = toRows(groups)
	}
	return catalog.NewEstimatedStatistics(rows, tupleSize, cm.pageSize, distinct)
}
