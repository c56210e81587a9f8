package parser

import (
	"github.com/pingcap/parser/ast"
)

// ChildDataVisitor collects column references found under a node
type ChildDataVisitor struct {
	ChildDatas_ []*ColumnRefExpression
}

func (v *ChildDataVisitor) Enter(in ast.Node) (ast.Node, bool) {
	switch node := in.(type) {
	case *ast.ColumnName:
		v.ChildDatas_ = append(v.ChildDatas_, NewColumnRefExpression(node.Table.L, node.Name.L))
		return in, true
	default:
	}
	return in, false
}

func (v *ChildDataVisitor) Leave(in ast.Node) (ast.Node, bool) {
	return in, true
}
