// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package catalog

import (
	"math"

	"github.com/ryogrid/SamehadaQP/common"
	"github.com/ryogrid/SamehadaQP/storage/access"
	"github.com/ryogrid/SamehadaQP/storage/index"
	"github.com/ryogrid/SamehadaQP/storage/table/column"
	"github.com/ryogrid/SamehadaQP/storage/table/schema"
	"github.com/ryogrid/SamehadaQP/storage/tuple"
)

type TableMetadata struct {
	schema *schema.Schema
	name   string
	table  *access.TableHeap
	// index data class obj of each column
	// if column has no index, respond element is nil
	indexes    []index.Index
	statistics *TableStatistics
	statsDirty bool
	oid        uint32
}

func NewTableMetadata(schema_ *schema.Schema, name string, table *access.TableHeap, oid uint32) *TableMetadata {
	ret := new(TableMetadata)
	ret.schema = schema_
	ret.name = name
	ret.table = table
	ret.indexes = make([]index.Index, schema_.GetColumnCount())
	ret.statistics = NewTableStatistics(schema_)
	ret.oid = oid
	return ret
}

func (t *TableMetadata) Schema() *schema.Schema {
	return t.schema
}

func (t *TableMetadata) OID() uint32 {
	return t.oid
}

func (t *TableMetadata) Table() *access.TableHeap {
	return t.table
}

func (t *TableMetadata) GetTableName() string {
	return t.name
}

func (t *TableMetadata) GetIndex(colIndex int) index.Index {
	return t.indexes[colIndex]
}

func (t *TableMetadata) GetIndexOf(col *column.Column) index.Index {
	colIdx := t.schema.GetColIndexOf(col)
	if colIdx == math.MaxUint32 {
		return nil
	}
	return t.indexes[colIdx]
}

func (t *TableMetadata) GetColumnNum() uint32 {
	return t.schema.GetColumnCount()
}

// InsertTuple inserts to table heap and indexes
func (t *TableMetadata) InsertTuple(tuple_ *tuple.Tuple) (*access.RID, error) {
	rid, err := t.table.InsertTuple(tuple_)
	if err != nil {
		return nil, err
	}
	for colIdx, idx := range t.indexes {
		if idx != nil {
			key := tuple_.GetValue(uint32(colIdx))
			idx.InsertEntry(&key, *rid)
		}
	}
	t.statsDirty = true
	return rid, nil
}

// GetStatistics returns statistics. stale statistics are updated before returning
func (t *TableMetadata) GetStatistics() *TableStatistics {
	if t.statsDirty {
		if err := t.UpdateStatistics(); err != nil {
			common.ShPrintf(common.WARN, "statistics update of %s failed: %v\n", t.name, err)
		}
	}
	return t.statistics
}

func (t *TableMetadata) UpdateStatistics() error {
	if err := t.statistics.Update(t.table); err != nil {
		return err
	}
	t.statsDirty = false
	return nil
}
