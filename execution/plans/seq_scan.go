package plans

import (
	"github.com/ryogrid/SamehadaQP/catalog"
	"github.com/ryogrid/SamehadaQP/storage/table/schema"
)

type SeqScanPlanNode struct {
	*AbstractPlanNode
	tableName string
	tableOID  uint32
}

func NewSeqScanPlanNode(tm *catalog.TableMetadata) Plan {
	return &SeqScanPlanNode{&AbstractPlanNode{tm.Schema(), nil}, tm.GetTableName(), tm.OID()}
}

func NewSeqScanPlanNodeWithSchema(schema_ *schema.Schema, tableName string, tableOID uint32) Plan {
	return &SeqScanPlanNode{&AbstractPlanNode{schema_, nil}, tableName, tableOID}
}

func (p *SeqScanPlanNode) GetTableOID() uint32 {
	return p.tableOID
}

func (p *SeqScanPlanNode) GetTableName() string {
	return p.tableName
}

func (p *SeqScanPlanNode) GetType() PlanType {
	return SeqScan
}

func (p *SeqScanPlanNode) GetDebugStr() string {
	return "SeqScanPlanNode [" + p.tableName + "]"
}

func (p *SeqScanPlanNode) Clone() Plan {
	return &SeqScanPlanNode{&AbstractPlanNode{p.outputSchema, nil}, p.tableName, p.tableOID}
}

func (p *SeqScanPlanNode) recomputeSchema() error {
	return nil
}
