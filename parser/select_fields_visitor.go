package parser

import (
	"github.com/pingcap/errors"
	"github.com/pingcap/parser/ast"
	"github.com/ryogrid/SamehadaQP/common"
)

type SelectFieldsVisitor struct {
	QueryInfo_ *QueryInfo
}

func (v *SelectFieldsVisitor) Enter(in ast.Node) (ast.Node, bool) {
	switch node := in.(type) {
	case *ast.SelectField:
		// when specifed wildcard
		if node.WildCard != nil {
			if node.WildCard.Table.L != "" {
				v.QueryInfo_.setErr(errors.Annotate(common.ErrConfiguration, "qualified wildcard is not supported"))
				return in, true
			}
			v.QueryInfo_.SelectFields_ = append(v.QueryInfo_.SelectFields_, NewColumnRefExpression("", "*"))
			return in, true
		}
		if node.AsName.L != "" {
			v.QueryInfo_.setErr(errors.Annotatef(common.ErrConfiguration, "column alias %s is not supported", node.AsName.O))
			return in, true
		}
		if _, ok := node.Expr.(*ast.ColumnNameExpr); !ok {
			v.QueryInfo_.setErr(errors.Annotatef(common.ErrConfiguration, "only columns can be selected but %T", node.Expr))
			return in, true
		}
	case *ast.ColumnName:
		v.QueryInfo_.SelectFields_ = append(v.QueryInfo_.SelectFields_, NewColumnRefExpression(node.Table.L, node.Name.L))
		return in, true
	default:
	}
	return in, false
}

func (v *SelectFieldsVisitor) Leave(in ast.Node) (ast.Node, bool) {
	return in, true
}
