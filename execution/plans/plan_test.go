package plans

import (
	"testing"

	"github.com/ryogrid/SamehadaQP/execution/expression"
	"github.com/ryogrid/SamehadaQP/storage/table/column"
	"github.com/ryogrid/SamehadaQP/storage/table/schema"
	testingpkg "github.com/ryogrid/SamehadaQP/testing/testing_assert"
	"github.com/ryogrid/SamehadaQP/types"
)

func makeScans() (Plan, Plan, *column.Column, *column.Column, *column.Column) {
	ra := column.NewColumn("r", "a", types.Integer)
	rb := column.NewColumn("r", "b", types.Integer)
	sb := column.NewColumn("s", "b", types.Integer)
	sc := column.NewColumn("s", "c", types.Varchar)
	r := NewSeqScanPlanNodeWithSchema(schema.NewSchema([]*column.Column{ra, rb}), "r", 1)
	s := NewSeqScanPlanNodeWithSchema(schema.NewSchema([]*column.Column{sb, sc}), "s", 2)
	return r, s, ra, rb, sb
}

func TestCloneIsIndependent(t *testing.T) {
	r, s, _, rb, sb := makeScans()
	sel := NewSelectionPlanNode(s, []*expression.Condition{expression.NewSelectCondition(sb, expression.GreaterThan, types.NewInteger(3))})
	join := NewJoinPlanNode(r, sel, []*expression.Condition{expression.NewJoinCondition(rb, expression.Equal, sb)}, PageNestedJoin)

	cloned := join.Clone().(*JoinPlanNode)
	cloned.SetJoinType(HashJoin)
	left := cloned.GetLeftPlan()
	cloned.SetChildAt(0, cloned.GetRightPlan())
	cloned.SetChildAt(1, left)
	testingpkg.Ok(t, RecomputeSchema(cloned))

	testingpkg.Equals(t, PageNestedJoin, join.GetJoinType())
	testingpkg.Equals(t, "r", join.OutputSchema().GetColumn(0).GetTableName())
	testingpkg.Equals(t, "s", cloned.OutputSchema().GetColumn(0).GetTableName())
	testingpkg.SimpleAssert(t, cloned.GetConditions()[0] != join.GetConditions()[0])
	testingpkg.SimpleAssert(t, cloned.GetRightPlan() != join.GetLeftPlan())

	testingpkg.Equals(t, "PageNestedJoin(r  [r.b == s.b]  Select(s  's.b > 3'))", GetPlanStr(join))
	testingpkg.Equals(t, "HashJoin(Select(s  's.b > 3')  [r.b == s.b]  r)", GetPlanStr(cloned))
}

func TestPrimaryCondition(t *testing.T) {
	r, s, ra, rb, sb := makeScans()
	conds := []*expression.Condition{
		expression.NewJoinCondition(sb, expression.LessThan, rb),
		expression.NewJoinCondition(ra, expression.NotEqual, sb),
	}
	join := NewJoinPlanNode(r, s, conds, SortMergeJoin)

	primary := join.GetPrimaryCondition()
	testingpkg.SimpleAssert(t, primary.GetLeftColumn().Equals(rb))
	testingpkg.Equals(t, expression.GreaterThan, primary.GetComparisonType())
	residual := join.GetResidualConditions()
	testingpkg.Equals(t, 1, len(residual))
	testingpkg.SimpleAssert(t, residual[0] == conds[1])
}

func TestRecomputeSchemaFailsOnMissingColumn(t *testing.T) {
	r, s, ra, rb, sb := makeScans()
	join := NewJoinPlanNode(r, s, []*expression.Condition{expression.NewJoinCondition(rb, expression.Equal, sb)}, HashJoin)
	proj, err := NewProjectionPlanNode(join, []*column.Column{ra, sb})
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, uint32(2), proj.OutputSchema().GetColumnCount())

	join.SetChildAt(1, r.Clone())
	err = RecomputeSchema(proj)
	testingpkg.SimpleAssert(t, err != nil)

	_, err = NewSortPlanNode(r, []*column.Column{sb})
	testingpkg.SimpleAssert(t, err != nil)
}

func TestTreeHelpers(t *testing.T) {
	r, s, _, rb, sb := makeScans()
	join := NewJoinPlanNode(r, s, []*expression.Condition{expression.NewJoinCondition(rb, expression.Equal, sb)}, HashJoin)
	distinct := NewDistinctPlanNode(join)

	testingpkg.Equals(t, 1, len(GetJoinNodes(distinct)))
	testingpkg.SimpleAssert(t, GetBaseTableNames(distinct).Equal(GetBaseTableNames(join)))
	testingpkg.Equals(t, 2, GetBaseTableNames(distinct).Cardinality())
	testingpkg.Equals(t, "DistinctPlanNode\n  JoinPlanNode [HashJoin: r.b == s.b]\n    SeqScanPlanNode [r]\n    SeqScanPlanNode [s]\n", GetPlanTreeStr(distinct, 0))

	scan, sels := GetBaseScan(NewSelectionPlanNode(s, nil))
	testingpkg.SimpleAssert(t, scan == s)
	testingpkg.Equals(t, 1, len(sels))
	scan, _ = GetBaseScan(join)
	testingpkg.SimpleAssert(t, scan == nil)
}
