package plans

import (
	"github.com/ryogrid/SamehadaQP/storage/table/schema"
)

type PlanType int

const (
	SeqScan PlanType = iota
	Selection
	Projection
	Join
	Distinct
	GroupBy
	Sort
)

func (t PlanType) String() string {
	switch t {
	case SeqScan:
		return "SeqScan"
	case Selection:
		return "Selection"
	case Projection:
		return "Projection"
	case Join:
		return "Join"
	case Distinct:
		return "Distinct"
	case GroupBy:
		return "GroupBy"
	case Sort:
		return "Sort"
	}
	return "Unknown"
}

// Plan is a node of physical plan tree.
// plan nodes are not executed directly. executors are created from them per execution
type Plan interface {
	OutputSchema() *schema.Schema
	GetChildAt(childIndex uint32) Plan
	GetChildren() []Plan
	SetChildAt(childIndex uint32, child Plan)
	GetType() PlanType
	GetDebugStr() string
	// Clone returns structurally independent deep copy
	Clone() Plan
	// recomputeSchema rebuilds output schema from schemas of children
	recomputeSchema() error
}

type AbstractPlanNode struct {
	outputSchema *schema.Schema
	children     []Plan
}

func (p *AbstractPlanNode) OutputSchema() *schema.Schema {
	return p.outputSchema
}

func (p *AbstractPlanNode) GetChildAt(childIndex uint32) Plan {
	return p.children[childIndex]
}

func (p *AbstractPlanNode) GetChildren() []Plan {
	return p.children
}

func (p *AbstractPlanNode) SetChildAt(childIndex uint32, child Plan) {
	p.children[childIndex] = child
}

// cloneAbstract copies children recursively. schema is immutable and shared
func (p *AbstractPlanNode) cloneAbstract() *AbstractPlanNode {
	children := make([]Plan, len(p.children))
	for i, child := range p.children {
		children[i] = child.Clone()
	}
	return &AbstractPlanNode{p.outputSchema, children}
}
