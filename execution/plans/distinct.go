package plans

// DistinctPlanNode eliminates duplicate tuples
type DistinctPlanNode struct {
	*AbstractPlanNode
}

func NewDistinctPlanNode(child Plan) Plan {
	return &DistinctPlanNode{&AbstractPlanNode{child.OutputSchema(), []Plan{child}}}
}

func (p *DistinctPlanNode) GetType() PlanType {
	return Distinct
}

func (p *DistinctPlanNode) GetDebugStr() string {
	return "DistinctPlanNode"
}

func (p *DistinctPlanNode) Clone() Plan {
	return &DistinctPlanNode{p.cloneAbstract()}
}

func (p *DistinctPlanNode) recomputeSchema() error {
	p.outputSchema = p.children[0].OutputSchema()
	return nil
}
