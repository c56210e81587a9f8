package plans

import (
	"github.com/pingcap/errors"
	"github.com/ryogrid/SamehadaQP/storage/table/column"
)

type ProjectionPlanNode struct {
	*AbstractPlanNode
	columns []*column.Column
}

func NewProjectionPlanNode(child Plan, columns []*column.Column) (Plan, error) {
	schema_, err := child.OutputSchema().Subset(columns)
	if err != nil {
		return nil, errors.Annotate(err, "projection")
	}
	return &ProjectionPlanNode{&AbstractPlanNode{schema_, []Plan{child}}, columns}, nil
}

func (p *ProjectionPlanNode) GetType() PlanType {
	return Projection
}

func (p *ProjectionPlanNode) GetColumns() []*column.Column {
	return p.columns
}

func (p *ProjectionPlanNode) GetDebugStr() string {
	return "ProjectionPlanNode [" + columnsStr(p.columns) + "]"
}

func (p *ProjectionPlanNode) Clone() Plan {
	return &ProjectionPlanNode{p.cloneAbstract(), p.columns}
}

func (p *ProjectionPlanNode) recomputeSchema() error {
	schema_, err := p.children[0].OutputSchema().Subset(p.columns)
	if err != nil {
		return err
	}
	p.outputSchema = schema_
	return nil
}

func columnsStr(cols []*column.Column) string {
	ret := ""
	for i, col := range cols {
		if i > 0 {
			ret += ", "
		}
		ret += col.GetQualifiedName()
	}
	return ret
}
