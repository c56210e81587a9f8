package expression

import (
	"testing"

	"github.com/ryogrid/SamehadaQP/common"
	"github.com/ryogrid/SamehadaQP/storage/table/column"
	"github.com/ryogrid/SamehadaQP/storage/table/schema"
	"github.com/ryogrid/SamehadaQP/storage/tuple"
	testingpkg "github.com/ryogrid/SamehadaQP/testing/testing_assert"
	"github.com/ryogrid/SamehadaQP/types"
)

func TestComparisonTypeFlip(t *testing.T) {
	for _, op := range []ComparisonType{Equal, NotEqual, GreaterThan, GreaterThanOrEqual, LessThan, LessThanOrEqual} {
		for _, cmpResult := range []int{-1, 0, 1} {
			testingpkg.Equals(t, op.Holds(cmpResult), op.Flip().Holds(-cmpResult))
		}
	}
}

func TestConditionEvaluate(t *testing.T) {
	ra := column.NewColumn("r", "a", types.Integer)
	rb := column.NewColumn("r", "b", types.Integer)
	sb := column.NewColumn("s", "b", types.Integer)
	joined := schema.NewSchema([]*column.Column{ra, rb, sb})

	sel := NewSelectCondition(ra, GreaterThan, types.NewInteger(10))
	join := NewJoinCondition(rb, LessThan, sb)
	testingpkg.Equals(t, "r.a > 10", sel.String())
	testingpkg.Equals(t, "r.b < s.b", join.String())
	testingpkg.Equals(t, "s.b > r.b", join.Flip().String())

	bounds, err := BindAll([]*Condition{sel, join, join.Flip()}, joined)
	testingpkg.Ok(t, err)
	testingpkg.SimpleAssert(t, EvaluateAll(bounds, tuple.NewTuple([]types.Value{types.NewInteger(11), types.NewInteger(1), types.NewInteger(2)})))
	testingpkg.SimpleAssert(t, !EvaluateAll(bounds, tuple.NewTuple([]types.Value{types.NewInteger(10), types.NewInteger(1), types.NewInteger(2)})))
	testingpkg.SimpleAssert(t, !EvaluateAll(bounds, tuple.NewTuple([]types.Value{types.NewInteger(11), types.NewInteger(2), types.NewInteger(2)})))
}

func TestConditionBindErrors(t *testing.T) {
	ra := column.NewColumn("r", "a", types.Integer)
	sc := column.NewColumn("s", "c", types.Varchar)
	rOnly := schema.NewSchema([]*column.Column{ra})

	_, err := NewJoinCondition(ra, Equal, sc).Bind(rOnly)
	testingpkg.Nok(t, err, common.ErrConfiguration)
	_, err = NewSelectCondition(ra, Equal, types.NewVarchar("x")).Bind(rOnly)
	testingpkg.Nok(t, err, common.ErrConfiguration)
	_, err = NewJoinCondition(ra, Equal, sc).Bind(schema.NewSchema([]*column.Column{ra, sc}))
	testingpkg.Nok(t, err, common.ErrConfiguration)
}

func TestConditionOrient(t *testing.T) {
	ra := column.NewColumn("r", "a", types.Integer)
	sa := column.NewColumn("s", "a", types.Integer)
	left := schema.NewSchema([]*column.Column{sa})
	right := schema.NewSchema([]*column.Column{ra})

	cond := NewJoinCondition(ra, GreaterThanOrEqual, sa)
	testingpkg.SimpleAssert(t, cond.SpansSides(left, right))
	oriented := cond.OrientTo(left)
	testingpkg.SimpleAssert(t, oriented.GetLeftColumn().Equals(sa))
	testingpkg.Equals(t, LessThanOrEqual, oriented.GetComparisonType())
	testingpkg.Equals(t, []string{"r", "s"}, cond.GetTableNames())
}
