package plans

import (
	"github.com/pingcap/errors"
	"github.com/ryogrid/SamehadaQP/storage/table/column"
)

/**
 * SortPlanNode sorts output of child on keys in ascending order.
 * output schema is same with child's
 */
type SortPlanNode struct {
	*AbstractPlanNode
	keys []*column.Column
}

func NewSortPlanNode(child Plan, keys []*column.Column) (Plan, error) {
	if _, err := child.OutputSchema().GetKeyIndexes(keys); err != nil {
		return nil, errors.Annotate(err, "sort")
	}
	return &SortPlanNode{&AbstractPlanNode{child.OutputSchema(), []Plan{child}}, keys}, nil
}

func (p *SortPlanNode) GetType() PlanType {
	return Sort
}

func (p *SortPlanNode) GetKeys() []*column.Column {
	return p.keys
}

func (p *SortPlanNode) GetDebugStr() string {
	return "SortPlanNode [" + columnsStr(p.keys) + "]"
}

func (p *SortPlanNode) Clone() Plan {
	return &SortPlanNode{p.cloneAbstract(), p.keys}
}

func (p *SortPlanNode) recomputeSchema() error {
	if _, err := p.children[0].OutputSchema().GetKeyIndexes(p.keys); err != nil {
		return err
	}
	p.outputSchema = p.children[0].OutputSchema()
	return nil
}
