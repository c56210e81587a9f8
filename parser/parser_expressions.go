package parser

import (
	"fmt"

	"github.com/pingcap/errors"
	"github.com/ryogrid/SamehadaQP/common"
	"github.com/ryogrid/SamehadaQP/execution/expression"
	"github.com/ryogrid/SamehadaQP/types"
)

type LogicalOpType int

const (
	AND LogicalOpType = iota
	OR
)

type BinaryOpExpType int

const (
	Compare BinaryOpExpType = iota
	Logical
	ColumnName
	Constant
)

// BinaryOpExpression is a node of a WHERE tree. for a leaf, Left_ holds
// *ColumnRefExpression or *types.Value and both operation types are -1
type BinaryOpExpression struct {
	LogicalOperationType_    LogicalOpType
	ComparisonOperationType_ expression.ComparisonType
	Left_                    interface{}
	Right_                   interface{}
}

func newLeafExpression(data interface{}) *BinaryOpExpression {
	return &BinaryOpExpression{-1, -1, data, nil}
}

func (expr *BinaryOpExpression) GetType() BinaryOpExpType {
	if expr.ComparisonOperationType_ != -1 {
		return Compare
	} else if expr.LogicalOperationType_ != -1 {
		return Logical
	}
	switch expr.Left_.(type) {
	case *types.Value:
		return Constant
	default:
		return ColumnName
	}
}

// Conjuncts flattens a tree of AND into comparisons
func (expr *BinaryOpExpression) Conjuncts() ([]*BinaryOpExpression, error) {
	switch expr.GetType() {
	case Compare:
		l, lok := expr.Left_.(*BinaryOpExpression)
		r, rok := expr.Right_.(*BinaryOpExpression)
		if !lok || !rok || l.GetType() == Logical || l.GetType() == Compare || r.GetType() == Logical || r.GetType() == Compare {
			return nil, errors.Annotate(common.ErrConfiguration, "operands of a comparison must be a column or a literal")
		}
		return []*BinaryOpExpression{expr}, nil
	case Logical:
		if expr.LogicalOperationType_ != AND {
			return nil, errors.Annotate(common.ErrConfiguration, "only conjunction of comparisons is supported")
		}
		ret := make([]*BinaryOpExpression, 0)
		for _, child := range []interface{}{expr.Left_, expr.Right_} {
			childExpr, ok := child.(*BinaryOpExpression)
			if !ok {
				return nil, errors.Annotate(common.ErrConfiguration, "bad operand of AND")
			}
			conjuncts, err := childExpr.Conjuncts()
			if err != nil {
				return nil, err
			}
			ret = append(ret, conjuncts...)
		}
		return ret, nil
	default:
		return nil, errors.Annotatef(common.ErrConfiguration, "%s is not a predicate", expr.String())
	}
}

// GetOperands returns leaf data of both sides of a comparison
func (expr *BinaryOpExpression) GetOperands() (interface{}, interface{}) {
	return expr.Left_.(*BinaryOpExpression).Left_, expr.Right_.(*BinaryOpExpression).Left_
}

func (expr *BinaryOpExpression) String() string {
	switch expr.GetType() {
	case Compare:
		return fmt.Sprintf("%v %s %v", expr.Left_, expr.ComparisonOperationType_, expr.Right_)
	case Logical:
		op := "AND"
		if expr.LogicalOperationType_ == OR {
			op = "OR"
		}
		return fmt.Sprintf("(%v %s %v)", expr.Left_, op, expr.Right_)
	case Constant:
		return expr.Left_.(*types.Value).ToString()
	default:
		return expr.Left_.(*ColumnRefExpression).String()
	}
}

// ColumnRefExpression is a column name, optionally qualified by table
type ColumnRefExpression struct {
	TableName_ *string // if specified
	ColName_   *string
}

func NewColumnRefExpression(tableName string, colName string) *ColumnRefExpression {
	ret := &ColumnRefExpression{nil, &colName}
	if tableName != "" {
		ret.TableName_ = &tableName
	}
	return ret
}

func (c *ColumnRefExpression) String() string {
	if c.TableName_ != nil {
		return *c.TableName_ + "." + *c.ColName_
	}
	return *c.ColName_
}
