package parser

import (
	"testing"

	"github.com/ryogrid/SamehadaQP/common"
	"github.com/ryogrid/SamehadaQP/execution/expression"
	testingpkg "github.com/ryogrid/SamehadaQP/testing/testing_assert"
	"github.com/ryogrid/SamehadaQP/types"
)

func TestSinglePredicateSelectQuery(t *testing.T) {
	sqlStr := "SELECT a FROM t WHERE a = 'daylight';"
	queryInfo, err := ProcessSQLStr(&sqlStr)
	testingpkg.Ok(t, err)
	testingpkg.SimpleAssert(t, *queryInfo.QueryType_ == SELECT)
	testingpkg.SimpleAssert(t, *queryInfo.SelectFields_[0].ColName_ == "a")
	testingpkg.SimpleAssert(t, queryInfo.SelectFields_[0].TableName_ == nil)
	testingpkg.SimpleAssert(t, *queryInfo.JoinTables_[0] == "t")
	testingpkg.SimpleAssert(t, queryInfo.WhereExpression_.ComparisonOperationType_ == expression.Equal)
	testingpkg.SimpleAssert(t, queryInfo.WhereExpression_.LogicalOperationType_ == -1)
	l, r := queryInfo.WhereExpression_.GetOperands()
	testingpkg.SimpleAssert(t, *l.(*ColumnRefExpression).ColName_ == "a")
	testingpkg.SimpleAssert(t, r.(*types.Value).ToVarchar() == "daylight")

	sqlStr = "SELECT a, b FROM t WHERE a = 10;"
	queryInfo, err = ProcessSQLStr(&sqlStr)
	testingpkg.Ok(t, err)
	testingpkg.SimpleAssert(t, *queryInfo.SelectFields_[0].ColName_ == "a")
	testingpkg.SimpleAssert(t, *queryInfo.SelectFields_[1].ColName_ == "b")
	testingpkg.SimpleAssert(t, !queryInfo.IsWildcard())
	_, r = queryInfo.WhereExpression_.GetOperands()
	testingpkg.SimpleAssert(t, r.(*types.Value).ToInteger() == 10)

	sqlStr = "SELECT * FROM t WHERE a > 10.5 AND b <= -3;"
	queryInfo, err = ProcessSQLStr(&sqlStr)
	testingpkg.Ok(t, err)
	testingpkg.SimpleAssert(t, queryInfo.IsWildcard())
	preds, err := queryInfo.GetPredicates()
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, 2, len(preds))
	testingpkg.SimpleAssert(t, preds[0].ComparisonOperationType_ == expression.GreaterThan)
	_, r = preds[0].GetOperands()
	testingpkg.Equals(t, types.Float, r.(*types.Value).ValueType())
	testingpkg.SimpleAssert(t, r.(*types.Value).ToFloat() == 10.5)
	testingpkg.SimpleAssert(t, preds[1].ComparisonOperationType_ == expression.LessThanOrEqual)
	_, r = preds[1].GetOperands()
	testingpkg.SimpleAssert(t, r.(*types.Value).ToInteger() == -3)
}

func TestJoinQuery(t *testing.T) {
	sqlStr := "SELECT DISTINCT r.a, s.c FROM r, s WHERE r.b = s.b AND (s.c <> 1000);"
	queryInfo, err := ProcessSQLStr(&sqlStr)
	testingpkg.Ok(t, err)
	testingpkg.SimpleAssert(t, queryInfo.IsDistinct_)
	testingpkg.Equals(t, 2, len(queryInfo.JoinTables_))
	testingpkg.SimpleAssert(t, *queryInfo.JoinTables_[0] == "r")
	testingpkg.SimpleAssert(t, *queryInfo.JoinTables_[1] == "s")
	testingpkg.SimpleAssert(t, *queryInfo.SelectFields_[0].TableName_ == "r")
	testingpkg.SimpleAssert(t, *queryInfo.SelectFields_[1].TableName_ == "s")

	preds, err := queryInfo.GetPredicates()
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, 2, len(preds))
	l, r := preds[0].GetOperands()
	testingpkg.Equals(t, "r.b", l.(*ColumnRefExpression).String())
	testingpkg.Equals(t, "s.b", r.(*ColumnRefExpression).String())
	testingpkg.SimpleAssert(t, preds[1].ComparisonOperationType_ == expression.NotEqual)

	sqlStr = "SELECT r.a, s.c FROM r INNER JOIN s ON r.b = s.b WHERE r.a < 5;"
	queryInfo, err = ProcessSQLStr(&sqlStr)
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, 1, len(queryInfo.OnExpressions_))
	preds, err = queryInfo.GetPredicates()
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, 2, len(preds))
	testingpkg.SimpleAssert(t, preds[0].ComparisonOperationType_ == expression.Equal)
	testingpkg.SimpleAssert(t, preds[1].ComparisonOperationType_ == expression.LessThan)
}

func TestGroupByQuery(t *testing.T) {
	sqlStr := "SELECT b FROM r GROUP BY b;"
	queryInfo, err := ProcessSQLStr(&sqlStr)
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, 1, len(queryInfo.GroupByFields_))
	testingpkg.Equals(t, "b", queryInfo.GroupByFields_[0].String())
	testingpkg.SimpleAssert(t, queryInfo.WhereExpression_ == nil)
	preds, err := queryInfo.GetPredicates()
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, 0, len(preds))
}

func TestUnsupportedQuery(t *testing.T) {
	for _, sqlStr := range []string{
		"SELECT a FROM",
		"INSERT INTO t(a) VALUES (1);",
		"SELECT count(a) FROM t;",
		"SELECT a FROM t ORDER BY a;",
		"SELECT a FROM t LEFT JOIN s ON t.a = s.a;",
		"SELECT a FROM t x;",
		"SELECT a FROM t WHERE a IN (1, 2);",
	} {
		_, err := ProcessSQLStr(&sqlStr)
		testingpkg.Nok(t, err, common.ErrConfiguration)
	}

	// OR is parsed but is not a conjunction
	sqlStr := "SELECT a FROM t WHERE a = 1 OR a = 2;"
	queryInfo, err := ProcessSQLStr(&sqlStr)
	testingpkg.Ok(t, err)
	_, err = queryInfo.GetPredicates()
	testingpkg.Nok(t, err, common.ErrConfiguration)
}
