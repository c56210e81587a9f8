package samehada_test

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/ryogrid/SamehadaQP/catalog"
	"github.com/ryogrid/SamehadaQP/common"
	"github.com/ryogrid/SamehadaQP/execution/plans"
	"github.com/ryogrid/SamehadaQP/planner"
	"github.com/ryogrid/SamehadaQP/samehada"
	"github.com/ryogrid/SamehadaQP/storage/tuple"
	testingpkg "github.com/ryogrid/SamehadaQP/testing/testing_assert"
	"github.com/ryogrid/SamehadaQP/testing/testing_tbl_gen"
	"github.com/ryogrid/SamehadaQP/testing/testing_util"
	_ "modernc.org/sqlite"
)

func newTestConfig(kind common.OptimizerKind) *common.Config {
	config := common.NewDefaultConfig()
	config.PageSize = 64
	config.NumBuffers = 5
	config.Optimizer = kind
	config.Seed = 7
	return config
}

func newQueryProcessorWithRS(t *testing.T, config *common.Config) *samehada.QueryProcessor {
	qp, err := samehada.NewQueryProcessor(config)
	testingpkg.Ok(t, err)
	_, _, err = testing_tbl_gen.GenerateTestTables(qp.GetCatalog(), rand.New(rand.NewSource(5)))
	testingpkg.Ok(t, err)
	return qp
}

func sortedRowStrs(rows [][]interface{}) []string {
	ret := make([]string, len(rows))
	for i, row := range rows {
		ret[i] = testing_util.RowStr(row)
	}
	sort.Strings(ret)
	return ret
}

// sqliteOracle copies tables of c to an on memory sqlite db and runs sqlStr on it
func sqliteOracle(t *testing.T, c *catalog.Catalog, sqlStr string) []string {
	db, err := sql.Open("sqlite", ":memory:")
	testingpkg.Ok(t, err)
	defer db.Close()
	// every connection of :memory: is a different db
	db.SetMaxOpenConns(1)

	for _, name := range c.GetTableNames() {
		tm := c.GetTableByName(name)
		cols := tm.Schema().GetColumns()
		colDefs := make([]string, len(cols))
		marks := make([]string, len(cols))
		for i, col := range cols {
			colDefs[i] = col.GetColumnName() + " INTEGER"
			marks[i] = "?"
		}
		_, err = db.Exec(fmt.Sprintf("CREATE TABLE %s (%s)", name, strings.Join(colDefs, ", ")))
		testingpkg.Ok(t, err)

		insert := fmt.Sprintf("INSERT INTO %s VALUES (%s)", name, strings.Join(marks, ", "))
		it := tm.Table().Iterator()
		for ; !it.End(); it.Next() {
			_, err = db.Exec(insert, testing_util.RowsOf([]*tuple.Tuple{it.Current()})[0]...)
			testingpkg.Ok(t, err)
		}
		testingpkg.Ok(t, it.Err())
	}

	rows, err := db.Query(sqlStr)
	testingpkg.Ok(t, err)
	defer rows.Close()
	colNames, err := rows.Columns()
	testingpkg.Ok(t, err)
	ret := make([][]interface{}, 0)
	for rows.Next() {
		vals := make([]int64, len(colNames))
		ptrs := make([]interface{}, len(colNames))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		testingpkg.Ok(t, rows.Scan(ptrs...))
		row := make([]interface{}, len(vals))
		for i, v := range vals {
			row[i] = v
		}
		ret = append(ret, row)
	}
	testingpkg.Ok(t, rows.Err())
	return sortedRowStrs(ret)
}

func TestJoinQueryMatchesSqlite(t *testing.T) {
	queries := []string{
		"SELECT r.a, s.c FROM r, s WHERE r.b = s.b;",
		"SELECT a, c FROM r JOIN s ON r.b = s.b WHERE r.a < 30;",
		"SELECT DISTINCT s.b FROM r, s WHERE r.b = s.b AND s.c >= 1010;",
		"SELECT r.b FROM r, s WHERE r.b = s.b GROUP BY r.b;",
		"SELECT r.a, s.c FROM r, s WHERE r.b < s.b AND s.c < 1005;",
	}
	for _, kind := range []common.OptimizerKind{common.OPTIMIZER_II, common.OPTIMIZER_SA} {
		qp := newQueryProcessorWithRS(t, newTestConfig(kind))
		for _, sqlStr := range queries {
			rows, err := qp.ExecuteSQL(sqlStr)
			testingpkg.Ok(t, err)
			testingpkg.Equals(t, sqliteOracle(t, qp.GetCatalog(), sqlStr), sortedRowStrs(rows))
		}
		qp.Shutdown()
	}
}

func TestOptimizedPlanIsNotWorseThanNestedLoops(t *testing.T) {
	config := newTestConfig(common.OPTIMIZER_II)
	qp := newQueryProcessorWithRS(t, config)
	defer qp.Shutdown()

	sqlStr := "SELECT r.a, s.c FROM r, s WHERE r.b = s.b;"
	_, cost, err := qp.Explain(sqlStr)
	testingpkg.Ok(t, err)

	naive := planner.NewSimplePlanner(qp.GetCatalog(), config.NumBuffers, plans.PageNestedJoin)
	qp.SetPlanner(naive)
	naiveTree, naiveCost, err := qp.Explain(sqlStr)
	testingpkg.Ok(t, err)
	testingpkg.SimpleAssert(t, strings.Contains(naiveTree, "PageNested"))
	testingpkg.Assert(t, cost <= naiveCost, "optimized cost %d is larger than %d", cost, naiveCost)

	// results must not depend on the plan
	naiveRows, err := qp.ExecuteSQL(sqlStr)
	testingpkg.Ok(t, err)
	qp.SetPlanner(planner.NewRandomizedPlanner(qp.GetCatalog(), config))
	rows, err := qp.ExecuteSQLContext(context.Background(), sqlStr)
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, sortedRowStrs(naiveRows), sortedRowStrs(rows))
	samehada.PrintExecuteResults(rows[:3])
}

func TestOnDiskStorage(t *testing.T) {
	config := newTestConfig(common.OPTIMIZER_SA)
	config.OnMemStorage = false
	config.RunDir = t.TempDir()
	qp := newQueryProcessorWithRS(t, config)
	defer qp.Shutdown()

	// sort merge and hash joins spill runs to RunDir
	sqlStr := "SELECT r.a, s.c FROM r, s WHERE r.b = s.b;"
	rows, err := qp.ExecuteSQL(sqlStr)
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, sqliteOracle(t, qp.GetCatalog(), sqlStr), sortedRowStrs(rows))
}

func TestInvalidQueryAndConfig(t *testing.T) {
	qp := newQueryProcessorWithRS(t, newTestConfig(common.OPTIMIZER_II))
	defer qp.Shutdown()

	_, err := qp.ExecuteSQL("SELECT a FROM unknown_table;")
	testingpkg.Nok(t, err, common.ErrConfiguration)
	_, err = qp.ExecuteSQL("SELECT a FROM r WHERE a = 1 OR a = 2;")
	testingpkg.Nok(t, err, common.ErrConfiguration)
	_, _, err = qp.Explain("UPDATE r SET a = 1;")
	testingpkg.Nok(t, err, common.ErrConfiguration)

	config := newTestConfig(common.OPTIMIZER_II)
	config.NumBuffers = 1
	_, err = samehada.NewQueryProcessor(config)
	testingpkg.Nok(t, err, common.ErrResource)
	config = newTestConfig("greedy")
	_, err = samehada.NewQueryProcessor(config)
	testingpkg.Nok(t, err, common.ErrConfiguration)
}
