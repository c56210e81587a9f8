package parser

import (
	"github.com/pingcap/errors"
	"github.com/pingcap/parser/ast"
	"github.com/ryogrid/SamehadaQP/common"
)

type RootSQLVisitor struct {
	QueryInfo_ *QueryInfo
}

func NewRootSQLVisitor() *RootSQLVisitor {
	ret := new(RootSQLVisitor)
	qinfo := new(QueryInfo)
	qinfo.QueryType_ = new(QueryType)
	*qinfo.QueryType_ = UNSUPPORTED
	qinfo.SelectFields_ = make([]*ColumnRefExpression, 0)
	qinfo.JoinTables_ = make([]*string, 0)
	qinfo.OnExpressions_ = make([]*BinaryOpExpression, 0)
	qinfo.WhereExpression_ = nil
	qinfo.GroupByFields_ = make([]*ColumnRefExpression, 0)
	ret.QueryInfo_ = qinfo

	return ret
}

func (v *RootSQLVisitor) Enter(in ast.Node) (ast.Node, bool) {
	switch node := in.(type) {
	case *ast.SelectStmt:
		*v.QueryInfo_.QueryType_ = SELECT
		v.visitSelect(node)
		return in, true
	default:
		v.QueryInfo_.setErr(errors.Annotatef(common.ErrConfiguration, "only SELECT is supported but %T", in))
		return in, true
	}
}

func (v *RootSQLVisitor) visitSelect(node *ast.SelectStmt) {
	qi := v.QueryInfo_
	if node.Having != nil || node.OrderBy != nil || node.Limit != nil {
		qi.setErr(errors.Annotate(common.ErrConfiguration, "HAVING, ORDER BY and LIMIT are not supported"))
		return
	}
	qi.IsDistinct_ = node.Distinct

	if node.Fields != nil {
		for _, field := range node.Fields.Fields {
			field.Accept(&SelectFieldsVisitor{qi})
		}
	}
	if node.From == nil {
		qi.setErr(errors.Annotate(common.ErrConfiguration, "FROM clause is required"))
		return
	}
	node.From.TableRefs.Accept(&JoinVisitor{qi})

	if node.Where != nil {
		bv := NewBinaryOpVisitor(qi)
		node.Where.Accept(bv)
		qi.WhereExpression_ = bv.BinaryOpExpression_
	}
	if node.GroupBy != nil {
		for _, item := range node.GroupBy.Items {
			cdv := &ChildDataVisitor{make([]*ColumnRefExpression, 0)}
			item.Expr.Accept(cdv)
			if _, ok := item.Expr.(*ast.ColumnNameExpr); !ok || len(cdv.ChildDatas_) != 1 {
				qi.setErr(errors.Annotate(common.ErrConfiguration, "only columns can be grouped"))
				return
			}
			qi.GroupByFields_ = append(qi.GroupByFields_, cdv.ChildDatas_[0])
		}
	}
}

func (v *RootSQLVisitor) Leave(in ast.Node) (ast.Node, bool) {
	return in, true
}
