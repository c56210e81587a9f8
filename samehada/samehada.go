package samehada

import (
	"context"
	"fmt"
	"strings"

	"github.com/devlights/gomy/output"
	"github.com/pingcap/errors"
	"github.com/ryogrid/SamehadaQP/catalog"
	"github.com/ryogrid/SamehadaQP/common"
	"github.com/ryogrid/SamehadaQP/execution/executors"
	"github.com/ryogrid/SamehadaQP/execution/plans"
	"github.com/ryogrid/SamehadaQP/parser"
	"github.com/ryogrid/SamehadaQP/planner"
	"github.com/ryogrid/SamehadaQP/storage/table/schema"
	"github.com/ryogrid/SamehadaQP/storage/tuple"
)

// QueryProcessor parses, optimizes and executes SELECT queries over its catalog
type QueryProcessor struct {
	shi_         *SamehadaInstance
	catalog_     *catalog.Catalog
	exec_engine_ *executors.ExecutionEngine
	planner_     planner.Planner
	config_      *common.Config
}

func NewQueryProcessor(config *common.Config) (*QueryProcessor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	shi, err := NewSamehadaInstance(config)
	if err != nil {
		return nil, err
	}
	c := catalog.NewCatalog(shi.GetTableDiskManager(), config.PageSize)
	pnner := planner.NewRandomizedPlanner(c, config)
	return &QueryProcessor{shi, c, &executors.ExecutionEngine{}, pnner, config}, nil
}

func (qp *QueryProcessor) GetCatalog() *catalog.Catalog {
	return qp.catalog_
}

func (qp *QueryProcessor) GetConfig() *common.Config {
	return qp.config_
}

// SetPlanner replaces the planner used by later queries
func (qp *QueryProcessor) SetPlanner(pnner planner.Planner) {
	qp.planner_ = pnner
}

func (qp *QueryProcessor) newExecutorContext() *executors.ExecutorContext {
	return executors.NewExecutorContext(qp.catalog_, qp.shi_.GetRunDiskManager(), qp.config_.PageSize, qp.config_.NumBuffers)
}

func (qp *QueryProcessor) makePlan(ctx context.Context, sqlStr string) (plans.Plan, int64, error) {
	qi, err := parser.ProcessSQLStr(&sqlStr)
	if err != nil {
		return nil, 0, err
	}
	return qp.planner_.MakePlan(ctx, qi)
}

// ExecuteSQL runs a query and returns rows of go values
func (qp *QueryProcessor) ExecuteSQL(sqlStr string) ([][]interface{}, error) {
	return qp.ExecuteSQLContext(context.Background(), sqlStr)
}

// ExecuteSQLContext is ExecuteSQL whose plan search is bounded by ctx
func (qp *QueryProcessor) ExecuteSQLContext(ctx context.Context, sqlStr string) ([][]interface{}, error) {
	plan, cost, err := qp.makePlan(ctx, sqlStr)
	if err != nil {
		return nil, err
	}
	common.ShPrintf(common.INFO, "ExecuteSQL: %s cost=%d\n", plans.GetPlanStr(plan), cost)

	result, err := qp.exec_engine_.Execute(plan, qp.newExecutorContext())
	if err != nil {
		return nil, errors.Annotatef(err, "execution of %q failed", sqlStr)
	}
	return ConvTupleListToValues(plan.OutputSchema(), result), nil
}

// Explain returns the plan tree which ExecuteSQL would run and its estimated cost
func (qp *QueryProcessor) Explain(sqlStr string) (string, int64, error) {
	plan, cost, err := qp.makePlan(context.Background(), sqlStr)
	if err != nil {
		return "", 0, err
	}
	return plans.GetPlanTreeStr(plan, 0), cost, nil
}

func (qp *QueryProcessor) Shutdown() {
	qp.shi_.Shutdown()
}

func ConvTupleListToValues(schema_ *schema.Schema, result []*tuple.Tuple) [][]interface{} {
	retVals := make([][]interface{}, 0, len(result))
	for _, tuple_ := range result {
		colNum := schema_.GetColumnCount()
		rowVals := make([]interface{}, 0, colNum)
		for idx := uint32(0); idx < colNum; idx++ {
			rowVals = append(rowVals, tuple_.GetValue(idx).ToIFValue())
		}
		retVals = append(retVals, rowVals)
	}
	return retVals
}

func PrintExecuteResults(results [][]interface{}) {
	output.Stdoutl("", "----")
	for _, row := range results {
		strs := make([]string, 0, len(row))
		for _, val := range row {
			strs = append(strs, fmt.Sprint(val))
		}
		output.Stdoutl("", strings.Join(strs, " "))
	}
}
