package parser

import (
	"github.com/pingcap/errors"
	"github.com/pingcap/parser/ast"
	"github.com/pingcap/parser/opcode"
	driver "github.com/pingcap/tidb/types/parser_driver"
	"github.com/ryogrid/SamehadaQP/common"
	"github.com/ryogrid/SamehadaQP/execution/expression"
)

type BinaryOpVisitor struct {
	QueryInfo_          *QueryInfo
	BinaryOpExpression_ *BinaryOpExpression
}

func NewBinaryOpVisitor(qi *QueryInfo) *BinaryOpVisitor {
	return &BinaryOpVisitor{qi, &BinaryOpExpression{-1, -1, nil, nil}}
}

func (v *BinaryOpVisitor) Enter(in ast.Node) (ast.Node, bool) {
	switch node := in.(type) {
	case *ast.BinaryOperationExpr:
		l_visitor := NewBinaryOpVisitor(v.QueryInfo_)
		node.L.Accept(l_visitor)
		r_visitor := NewBinaryOpVisitor(v.QueryInfo_)
		node.R.Accept(r_visitor)

		logicType, compType, err := GetTypesForBOperationExpr(node.Op)
		if err != nil {
			v.QueryInfo_.setErr(err)
			return in, true
		}
		v.BinaryOpExpression_.LogicalOperationType_ = logicType
		v.BinaryOpExpression_.ComparisonOperationType_ = compType

		v.BinaryOpExpression_.Left_ = l_visitor.BinaryOpExpression_
		v.BinaryOpExpression_.Right_ = r_visitor.BinaryOpExpression_
		return in, true
	case *ast.ParenthesesExpr:
		node.Expr.Accept(v)
		return in, true
	case *ast.UnaryOperationExpr:
		valExpr, ok := node.V.(*driver.ValueExpr)
		if node.Op != opcode.Minus || !ok {
			v.QueryInfo_.setErr(errors.Annotatef(common.ErrConfiguration, "unsupported unary operator %s", node.Op))
			return in, true
		}
		val, err := ValueExprToValue(valExpr)
		if err == nil {
			val, err = negateValue(val)
		}
		if err != nil {
			v.QueryInfo_.setErr(err)
			return in, true
		}
		*v.BinaryOpExpression_ = *newLeafExpression(val)
		return in, true
	case *ast.ColumnNameExpr:
		*v.BinaryOpExpression_ = *newLeafExpression(NewColumnRefExpression(node.Name.Table.L, node.Name.Name.L))
		return in, true
	case *driver.ValueExpr:
		val, err := ValueExprToValue(node)
		if err != nil {
			v.QueryInfo_.setErr(err)
			return in, true
		}
		*v.BinaryOpExpression_ = *newLeafExpression(val)
		return in, true
	default:
		v.QueryInfo_.setErr(errors.Annotatef(common.ErrConfiguration, "unsupported expression %T in predicate", in))
		return in, true
	}
}

func (v *BinaryOpVisitor) Leave(in ast.Node) (ast.Node, bool) {
	return in, true
}

func GetTypesForBOperationExpr(opcode_ opcode.Op) (LogicalOpType, expression.ComparisonType, error) {
	switch opcode_ {
	case opcode.EQ:
		return -1, expression.Equal, nil
	case opcode.GT:
		return -1, expression.GreaterThan, nil
	case opcode.GE:
		return -1, expression.GreaterThanOrEqual, nil
	case opcode.LT:
		return -1, expression.LessThan, nil
	case opcode.LE:
		return -1, expression.LessThanOrEqual, nil
	case opcode.NE:
		return -1, expression.NotEqual, nil
	case opcode.LogicAnd:
		return AND, -1, nil
	case opcode.LogicOr:
		return OR, -1, nil
	default:
		return -1, -1, errors.Annotatef(common.ErrConfiguration, "unsupported operator %s", opcode_)
	}
}
