package expression

import (
	"math"

	"github.com/pingcap/errors"
	"github.com/ryogrid/SamehadaQP/common"
	"github.com/ryogrid/SamehadaQP/storage/table/column"
	"github.com/ryogrid/SamehadaQP/storage/table/schema"
	"github.com/ryogrid/SamehadaQP/storage/tuple"
	"github.com/ryogrid/SamehadaQP/types"
)

type ConditionKind int

const (
	SelectCondition ConditionKind = iota // attribute vs literal
	JoinCondition                        // attribute vs attribute
)

// Condition is a binary predicate of a query
type Condition struct {
	kind           ConditionKind
	left           *column.Column
	right          *column.Column
	literal        types.Value
	comparisonType ComparisonType
}

func NewSelectCondition(left *column.Column, comparisonType ComparisonType, literal types.Value) *Condition {
	return &Condition{SelectCondition, left, nil, literal, comparisonType}
}

func NewJoinCondition(left *column.Column, comparisonType ComparisonType, right *column.Column) *Condition {
	return &Condition{JoinCondition, left, right, types.Value{}, comparisonType}
}

func (c *Condition) GetKind() ConditionKind {
	return c.kind
}

func (c *Condition) GetLeftColumn() *column.Column {
	return c.left
}

// GetRightColumn is nil for select condition
func (c *Condition) GetRightColumn() *column.Column {
	return c.right
}

func (c *Condition) GetLiteral() types.Value {
	return c.literal
}

func (c *Condition) GetComparisonType() ComparisonType {
	return c.comparisonType
}

func (c *Condition) IsEquality() bool {
	return c.comparisonType == Equal
}

// GetColumns returns referred attributes
func (c *Condition) GetColumns() []*column.Column {
	if c.kind == JoinCondition {
		return []*column.Column{c.left, c.right}
	}
	return []*column.Column{c.left}
}

// GetTableNames returns tables which the condition refers
func (c *Condition) GetTableNames() []string {
	if c.kind == JoinCondition && c.left.GetTableName() != c.right.GetTableName() {
		return []string{c.left.GetTableName(), c.right.GetTableName()}
	}
	return []string{c.left.GetTableName()}
}

// Flip swaps sides of a join condition keeping its meaning
func (c *Condition) Flip() *Condition {
	common.SH_Assert(c.kind == JoinCondition, "Flip is called on select condition")
	return &Condition{JoinCondition, c.right, c.left, types.Value{}, c.comparisonType.Flip()}
}

// Clone returns a copy. columns are immutable and shared
func (c *Condition) Clone() *Condition {
	ret := *c
	return &ret
}

// IsCoveredBy reports whether all referred attributes are in schema_
func (c *Condition) IsCoveredBy(schema_ *schema.Schema) bool {
	for _, col := range c.GetColumns() {
		if !schema_.IsHaveColumn(col) {
			return false
		}
	}
	return true
}

// SpansSides reports whether the join condition has one attribute on each side
func (c *Condition) SpansSides(left *schema.Schema, right *schema.Schema) bool {
	if c.kind != JoinCondition {
		return false
	}
	return (left.IsHaveColumn(c.left) && right.IsHaveColumn(c.right)) ||
		(left.IsHaveColumn(c.right) && right.IsHaveColumn(c.left))
}

// OrientTo returns the condition whose left column is in left schema
func (c *Condition) OrientTo(left *schema.Schema) *Condition {
	if c.kind == JoinCondition && !left.IsHaveColumn(c.left) && left.IsHaveColumn(c.right) {
		return c.Flip()
	}
	return c
}

func (c *Condition) String() string {
	if c.kind == JoinCondition {
		return c.left.GetQualifiedName() + " " + c.comparisonType.String() + " " + c.right.GetQualifiedName()
	}
	literal := c.literal.ToString()
	if c.literal.ValueType() == types.Varchar || c.literal.ValueType() == types.Date {
		literal = "'" + literal + "'"
	}
	return c.left.GetQualifiedName() + " " + c.comparisonType.String() + " " + literal
}

// BoundCondition is a condition whose attributes are resolved to tuple positions
type BoundCondition struct {
	cond     *Condition
	leftIdx  uint32
	rightIdx uint32
	cmp      types.Comparator
}

// Bind resolves attributes of c on schema_
func (c *Condition) Bind(schema_ *schema.Schema) (*BoundCondition, error) {
	leftIdx := schema_.GetColIndexOf(c.left)
	if leftIdx == math.MaxUint32 {
		return nil, errors.Annotatef(common.ErrConfiguration, "attribute %s of condition %s is not in schema", c.left.GetQualifiedName(), c.String())
	}
	rightIdx := uint32(math.MaxUint32)
	if c.kind == JoinCondition {
		rightIdx = schema_.GetColIndexOf(c.right)
		if rightIdx == math.MaxUint32 {
			return nil, errors.Annotatef(common.ErrConfiguration, "attribute %s of condition %s is not in schema", c.right.GetQualifiedName(), c.String())
		}
		if c.left.GetType() != c.right.GetType() {
			return nil, errors.Annotatef(common.ErrConfiguration, "condition %s compares different types", c.String())
		}
	} else if c.literal.ValueType() != c.left.GetType() {
		return nil, errors.Annotatef(common.ErrConfiguration, "literal type of condition %s does not match", c.String())
	}
	return &BoundCondition{c, leftIdx, rightIdx, types.ComparatorFor(c.left.GetType())}, nil
}

// BindAll binds conditions as a conjunction
func BindAll(conds []*Condition, schema_ *schema.Schema) ([]*BoundCondition, error) {
	ret := make([]*BoundCondition, 0, len(conds))
	for _, cond := range conds {
		bound, err := cond.Bind(schema_)
		if err != nil {
			return nil, err
		}
		ret = append(ret, bound)
	}
	return ret, nil
}

func (b *BoundCondition) Evaluate(tuple_ *tuple.Tuple) bool {
	lhs := tuple_.GetValue(b.leftIdx)
	if b.cond.kind == JoinCondition {
		rhs := tuple_.GetValue(b.rightIdx)
		return b.cond.comparisonType.Holds(b.cmp(&lhs, &rhs))
	}
	return b.cond.comparisonType.Holds(b.cmp(&lhs, &b.cond.literal))
}

// EvaluateAll is conjunction of bounds
func EvaluateAll(bounds []*BoundCondition, tuple_ *tuple.Tuple) bool {
	for _, bound := range bounds {
		if !bound.Evaluate(tuple_) {
			return false
		}
	}
	return true
}
