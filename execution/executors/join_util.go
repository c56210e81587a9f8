package executors

import (
	"math"

	pair "github.com/notEpsilon/go-pair"
	"github.com/pingcap/errors"
	"github.com/ryogrid/SamehadaQP/common"
	"github.com/ryogrid/SamehadaQP/execution/expression"
	"github.com/ryogrid/SamehadaQP/execution/plans"
	"github.com/ryogrid/SamehadaQP/storage/tuple"
	"github.com/ryogrid/SamehadaQP/types"
)

// joinPredicate is the conditions of a join node resolved for execution.
// primary condition is evaluated on the (left, right) pair, residuals on the joined tuple
type joinPredicate struct {
	primary   *expression.Condition
	keyIdxes  pair.Pair[uint32, uint32] // indexes of primary attributes in left and right schema
	cmp       types.Comparator
	residuals []*expression.BoundCondition
}

func newJoinPredicate(plan *plans.JoinPlanNode, left Executor, right Executor) (*joinPredicate, error) {
	ret := &joinPredicate{}
	ret.primary = plan.GetPrimaryCondition()
	if ret.primary != nil {
		leftIdx := left.GetOutputSchema().GetColIndexOf(ret.primary.GetLeftColumn())
		rightIdx := right.GetOutputSchema().GetColIndexOf(ret.primary.GetRightColumn())
		if leftIdx == math.MaxUint32 || rightIdx == math.MaxUint32 {
			return nil, errors.Annotatef(common.ErrConfiguration, "join condition %s does not match children", ret.primary)
		}
		if ret.primary.GetLeftColumn().GetType() != ret.primary.GetRightColumn().GetType() {
			return nil, errors.Annotatef(common.ErrConfiguration, "join condition %s compares different types", ret.primary)
		}
		ret.keyIdxes = pair.Pair[uint32, uint32]{First: leftIdx, Second: rightIdx}
		ret.cmp = types.ComparatorFor(ret.primary.GetLeftColumn().GetType())
	}
	residuals, err := expression.BindAll(plan.GetResidualConditions(), plan.OutputSchema())
	if err != nil {
		return nil, err
	}
	ret.residuals = residuals
	return ret, nil
}

// requireEquality is for algorithms which need an equality primary condition
func (p *joinPredicate) requireEquality(algorithm string) error {
	if p.primary == nil || !p.primary.IsEquality() {
		return errors.Annotatef(common.ErrConfiguration, "%s needs an equality condition between its children", algorithm)
	}
	return nil
}

func (p *joinPredicate) leftIdx() uint32 {
	return p.keyIdxes.First
}

func (p *joinPredicate) rightIdx() uint32 {
	return p.keyIdxes.Second
}

// compareKeys compares primary attributes of left and right
func (p *joinPredicate) compareKeys(left *tuple.Tuple, right *tuple.Tuple) int {
	return tuple.CompareColumns(left, p.leftIdx(), right, p.rightIdx(), p.cmp)
}

// join returns joined tuple when left and right satisfy every condition
func (p *joinPredicate) join(left *tuple.Tuple, right *tuple.Tuple) (*tuple.Tuple, bool) {
	if p.primary != nil && !p.primary.GetComparisonType().Holds(p.compareKeys(left, right)) {
		return nil, false
	}
	return p.joinResiduals(left, right)
}

// joinResiduals is join for callers which have checked the primary condition already
func (p *joinPredicate) joinResiduals(left *tuple.Tuple, right *tuple.Tuple) (*tuple.Tuple, bool) {
	joined := tuple.JoinTuples(left, right)
	if !expression.EvaluateAll(p.residuals, joined) {
		return nil, false
	}
	return joined, true
}
