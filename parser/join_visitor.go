package parser

import (
	"github.com/pingcap/errors"
	"github.com/pingcap/parser/ast"
	"github.com/ryogrid/SamehadaQP/common"
)

type JoinVisitor struct {
	QueryInfo_ *QueryInfo
}

func (v *JoinVisitor) Enter(in ast.Node) (ast.Node, bool) {
	switch node := in.(type) {
	case *ast.Join:
		if node.Tp != ast.CrossJoin && node.Right != nil {
			v.QueryInfo_.setErr(errors.Annotate(common.ErrConfiguration, "only inner join is supported"))
			return in, true
		}
		if node.Using != nil || node.NaturalJoin {
			v.QueryInfo_.setErr(errors.Annotate(common.ErrConfiguration, "USING and NATURAL JOIN are not supported"))
			return in, true
		}
	case *ast.TableSource:
		if node.AsName.L != "" {
			v.QueryInfo_.setErr(errors.Annotatef(common.ErrConfiguration, "table alias %s is not supported", node.AsName.O))
			return in, true
		}
		if _, ok := node.Source.(*ast.TableName); !ok {
			v.QueryInfo_.setErr(errors.Annotate(common.ErrConfiguration, "subquery is not supported"))
			return in, true
		}
	case *ast.TableName:
		tblname := node.Name.L
		v.QueryInfo_.JoinTables_ = append(v.QueryInfo_.JoinTables_, &tblname)
		return in, true
	case *ast.OnCondition:
		bv := NewBinaryOpVisitor(v.QueryInfo_)
		node.Expr.Accept(bv)
		v.QueryInfo_.OnExpressions_ = append(v.QueryInfo_.OnExpressions_, bv.BinaryOpExpression_)
		return in, true
	default:
	}
	return in, false
}

func (v *JoinVisitor) Leave(in ast.Node) (ast.Node, bool) {
	return in, true
}
