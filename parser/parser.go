package parser

import (
	"github.com/pingcap/errors"
	"github.com/pingcap/parser"
	"github.com/pingcap/parser/ast"
	_ "github.com/pingcap/tidb/types/parser_driver"
	"github.com/ryogrid/SamehadaQP/common"
)

type QueryInfo struct {
	QueryType_       *QueryType
	IsDistinct_      bool
	SelectFields_    []*ColumnRefExpression // "*" as ColName_ for wildcard
	JoinTables_      []*string
	OnExpressions_   []*BinaryOpExpression // JOIN ... ON
	WhereExpression_ *BinaryOpExpression   // nil when no WHERE clause
	GroupByFields_   []*ColumnRefExpression
	// first error found while visiting
	err error
}

func (qi *QueryInfo) setErr(err error) {
	if qi.err == nil {
		qi.err = err
	}
}

// IsWildcard is true for SELECT *
func (qi *QueryInfo) IsWildcard() bool {
	return len(qi.SelectFields_) == 1 && *qi.SelectFields_[0].ColName_ == "*"
}

// GetPredicates returns comparisons of ON and WHERE clauses as one conjunction
func (qi *QueryInfo) GetPredicates() ([]*BinaryOpExpression, error) {
	ret := make([]*BinaryOpExpression, 0)
	exprs := append(make([]*BinaryOpExpression, 0), qi.OnExpressions_...)
	if qi.WhereExpression_ != nil {
		exprs = append(exprs, qi.WhereExpression_)
	}
	for _, expr := range exprs {
		conjuncts, err := expr.Conjuncts()
		if err != nil {
			return nil, err
		}
		ret = append(ret, conjuncts...)
	}
	return ret, nil
}

func extractInfoFromAST(rootNode *ast.StmtNode) (*QueryInfo, error) {
	v := NewRootSQLVisitor()
	(*rootNode).Accept(v)
	if v.QueryInfo_.err != nil {
		return nil, v.QueryInfo_.err
	}
	return v.QueryInfo_, nil
}

func parse(sqlStr *string) (*ast.StmtNode, error) {
	p := parser.New()

	stmtNodes, _, err := p.Parse(*sqlStr, "", "")
	if err != nil {
		return nil, err
	}
	if len(stmtNodes) != 1 {
		return nil, errors.Errorf("one statement is expected but %d", len(stmtNodes))
	}

	return &stmtNodes[0], nil
}

// ProcessSQLStr parses one SELECT statement
func ProcessSQLStr(sqlStr *string) (*QueryInfo, error) {
	astNode, err := parse(sqlStr)
	if err != nil {
		return nil, errors.Annotatef(common.ErrConfiguration, "parse error: %v", err)
	}
	if common.IsLogKindActive(common.DEBUG_INFO) {
		printTraversedNodes(astNode)
	}

	return extractInfoFromAST(astNode)
}

// for utity func on develop phase
func printTraversedNodes(rootNode *ast.StmtNode) {
	v := NewPrintNodesVisitor()
	(*rootNode).Accept(v)
}
