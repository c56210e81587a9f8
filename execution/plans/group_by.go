package plans

import (
	"github.com/pingcap/errors"
	"github.com/ryogrid/SamehadaQP/storage/table/column"
)

/**
 * GroupByPlanNode represents GROUP BY clause without aggregate functions.
 * one tuple of grouping columns is emitted per group
 */
type GroupByPlanNode struct {
	*AbstractPlanNode
	groupBys []*column.Column
}

func NewGroupByPlanNode(child Plan, groupBys []*column.Column) (Plan, error) {
	schema_, err := child.OutputSchema().Subset(groupBys)
	if err != nil {
		return nil, errors.Annotate(err, "group by")
	}
	return &GroupByPlanNode{&AbstractPlanNode{schema_, []Plan{child}}, groupBys}, nil
}

func (p *GroupByPlanNode) GetType() PlanType {
	return GroupBy
}

func (p *GroupByPlanNode) GetGroupBys() []*column.Column {
	return p.groupBys
}

func (p *GroupByPlanNode) GetDebugStr() string {
	return "GroupByPlanNode [" + columnsStr(p.groupBys) + "]"
}

func (p *GroupByPlanNode) Clone() Plan {
	return &GroupByPlanNode{p.cloneAbstract(), p.groupBys}
}

func (p *GroupByPlanNode) recomputeSchema() error {
	schema_, err := p.children[0].OutputSchema().Subset(p.groupBys)
	if err != nil {
		return err
	}
	p.outputSchema = schema_
	return nil
}
