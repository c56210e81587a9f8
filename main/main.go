package main

import (
	"math/rand"
	"os"
	"strings"

	"github.com/devlights/gomy/output"
	"github.com/ryogrid/SamehadaQP/common"
	"github.com/ryogrid/SamehadaQP/samehada"
	"github.com/ryogrid/SamehadaQP/testing/testing_tbl_gen"
)

// SamehadaQP is used as a library. this entry point optimizes and runs
// a query over generated R and S tables for debugging.
// usage: main [config file] [query]
func main() {
	configPath := ""
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	sqlStr := "SELECT r.a, s.c FROM r, s WHERE r.b = s.b AND r.a < 10;"
	if len(os.Args) > 2 {
		sqlStr = os.Args[2]
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		common.ShPrintf(common.ERROR, "%+v\n", err)
		os.Exit(1)
	}
	qp, err := samehada.NewQueryProcessor(config)
	if err != nil {
		common.ShPrintf(common.ERROR, "%+v\n", err)
		os.Exit(1)
	}
	defer qp.Shutdown()

	if _, _, err = testing_tbl_gen.GenerateTestTables(qp.GetCatalog(), rand.New(rand.NewSource(config.Seed))); err != nil {
		common.ShPrintf(common.ERROR, "%+v\n", err)
		return
	}

	tree, cost, err := qp.Explain(sqlStr)
	if err != nil {
		common.ShPrintf(common.ERROR, "%+v\n", err)
		return
	}
	output.Stdoutl("cost:", cost)
	output.Stdoutl("", strings.TrimRight(tree, "\n"))

	results, err := qp.ExecuteSQL(sqlStr)
	if err != nil {
		common.ShPrintf(common.ERROR, "%+v\n", err)
		return
	}
	samehada.PrintExecuteResults(results)
}
