package catalog

import (
	"math"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ryogrid/SamehadaQP/storage/access"
	"github.com/ryogrid/SamehadaQP/storage/table/column"
	"github.com/ryogrid/SamehadaQP/storage/table/schema"
)

// TableStatistics holds size information of a relation.
// it is used for base tables and for estimated intermediate results
type TableStatistics struct {
	rows      uint64
	tupleSize uint32
	pages     uint64
	// distinct values of each attribute keyed by qualified name
	distinct map[string]uint64
}

func NewTableStatistics(schema_ *schema.Schema) *TableStatistics {
	ret := &TableStatistics{0, schema_.Length(), 0, make(map[string]uint64)}
	for _, col := range schema_.GetColumns() {
		ret.distinct[col.GetQualifiedName()] = 0
	}
	return ret
}

// NewEstimatedStatistics is for intermediate results. pages are derived from rows
func NewEstimatedStatistics(rows uint64, tupleSize uint32, pageSize uint32, distinct map[string]uint64) *TableStatistics {
	ret := &TableStatistics{rows, tupleSize, PagesOf(rows, tupleSize, pageSize), distinct}
	if ret.distinct == nil {
		ret.distinct = make(map[string]uint64)
	}
	return ret
}

// PagesOf is number of pages needed to hold rows tuples of tupleSize
func PagesOf(rows uint64, tupleSize uint32, pageSize uint32) uint64 {
	if rows == 0 {
		return 0
	}
	perPage := uint64(1)
	if tupleSize > 0 && pageSize >= tupleSize {
		perPage = uint64(pageSize / tupleSize)
	}
	return (rows + perPage - 1) / perPage
}

// Update scans the table heap and recomputes every value
func (ts *TableStatistics) Update(table *access.TableHeap) error {
	schema_ := table.GetSchema()
	sets := make([]mapset.Set[string], schema_.GetColumnCount())
	for i := range sets {
		sets[i] = mapset.NewThreadUnsafeSet[string]()
	}

	rows := uint64(0)
	it := table.Iterator()
	for ; !it.End(); it.Next() {
		rows++
		for i, set := range sets {
			val := it.Current().GetValue(uint32(i))
			set.Add(string(val.Serialize()))
		}
	}
	if it.Err() != nil {
		return it.Err()
	}

	ts.rows = rows
	ts.tupleSize = schema_.Length()
	ts.pages = uint64(table.NumPages())
	for i, set := range sets {
		ts.distinct[schema_.GetColumn(uint32(i)).GetQualifiedName()] = uint64(set.Cardinality())
	}
	return nil
}

func (ts *TableStatistics) Rows() uint64 {
	return ts.rows
}

func (ts *TableStatistics) Pages() uint64 {
	return ts.pages
}

func (ts *TableStatistics) TupleSize() uint32 {
	return ts.tupleSize
}

// Distinct returns distinct value count of col. unknown attribute is treated as all distinct
func (ts *TableStatistics) Distinct(col *column.Column) uint64 {
	if d, ok := ts.distinct[col.GetQualifiedName()]; ok && d > 0 {
		return d
	}
	return uint64(math.Max(1, float64(ts.rows)))
}

func (ts *TableStatistics) GetDistinctMap() map[string]uint64 {
	return ts.distinct
}

func (ts *TableStatistics) GetDeepCopy() *TableStatistics {
	distinct := make(map[string]uint64, len(ts.distinct))
	for k, v := range ts.distinct {
		distinct[k] = v
	}
	return &TableStatistics{ts.rows, ts.tupleSize, ts.pages, distinct}
}
