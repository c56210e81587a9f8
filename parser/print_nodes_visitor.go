package parser

import (
	"reflect"

	"github.com/pingcap/parser/ast"
	"github.com/ryogrid/SamehadaQP/common"
)

type PrintNodesVisitor struct {
}

func NewPrintNodesVisitor() *PrintNodesVisitor {
	return new(PrintNodesVisitor)
}

func (v *PrintNodesVisitor) Enter(in ast.Node) (ast.Node, bool) {
	refVal := reflect.ValueOf(in)
	common.ShPrintf(common.DEBUG_INFO, "%v\n", refVal.Type())
	return in, false
}

func (v *PrintNodesVisitor) Leave(in ast.Node) (ast.Node, bool) {
	return in, true
}
