// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package catalog

import (
	"github.com/pingcap/errors"
	"github.com/ryogrid/SamehadaQP/common"
	"github.com/ryogrid/SamehadaQP/storage/access"
	"github.com/ryogrid/SamehadaQP/storage/disk"
	"github.com/ryogrid/SamehadaQP/storage/index"
	"github.com/ryogrid/SamehadaQP/storage/index/index_constants"
	"github.com/ryogrid/SamehadaQP/storage/table/column"
	"github.com/ryogrid/SamehadaQP/storage/table/schema"
	"math"
	"strings"
)

const tableFilePrefix = "table-"

// Catalog is a non-persistent catalog that is designed for the executor to use.
// It handles table creation, index creation and table lookup
type Catalog struct {
	diskManager disk.DiskManager
	pageSize    uint32
	tableIds    map[uint32]*TableMetadata
	tableNames  map[string]*TableMetadata
	nextTableId uint32
}

// NewCatalog creates empty catalog whose table pages are stored through diskManager
func NewCatalog(diskManager disk.DiskManager, pageSize uint32) *Catalog {
	return &Catalog{diskManager, pageSize, make(map[uint32]*TableMetadata), make(map[string]*TableMetadata), 1}
}

func (c *Catalog) GetTableByName(table string) *TableMetadata {
	if table, ok := c.tableNames[strings.ToLower(table)]; ok {
		return table
	}
	return nil
}

func (c *Catalog) GetTableByOID(oid uint32) *TableMetadata {
	if table, ok := c.tableIds[oid]; ok {
		return table
	}
	return nil
}

func (c *Catalog) GetPageSize() uint32 {
	return c.pageSize
}

// GetTableNames returns names in creation order
func (c *Catalog) GetTableNames() []string {
	ret := make([]string, 0, len(c.tableIds))
	for oid := uint32(1); oid < c.nextTableId; oid++ {
		if tm, ok := c.tableIds[oid]; ok {
			ret = append(ret, tm.name)
		}
	}
	return ret
}

// CreateTable creates a new table and return its metadata.
// every column of schema_ must belong to the table
func (c *Catalog) CreateTable(name string, schema_ *schema.Schema) (*TableMetadata, error) {
	name = strings.ToLower(name)
	if _, exist := c.tableNames[name]; exist {
		return nil, errors.Annotatef(common.ErrConfiguration, "table %s already exists", name)
	}
	for _, col := range schema_.GetColumns() {
		if col.GetTableName() != name {
			return nil, errors.Annotatef(common.ErrConfiguration, "column %s does not belong to table %s", col.GetQualifiedName(), name)
		}
	}

	file, err := c.diskManager.CreateRun(tableFilePrefix + name)
	if err != nil {
		return nil, err
	}

	oid := c.nextTableId
	c.nextTableId++

	tableHeap := access.NewTableHeap(file, schema_, c.pageSize)
	tableMetadata := NewTableMetadata(schema_, name, tableHeap, oid)

	c.tableIds[oid] = tableMetadata
	c.tableNames[name] = tableMetadata

	common.ShPrintf(common.DEBUG_INFO, "CreateTable: %s oid=%d\n", name, oid)
	return tableMetadata, nil
}

// CreateIndex builds index on a column from existing tuples.
// later inserts through TableMetadata.InsertTuple maintain it
func (c *Catalog) CreateIndex(tableName string, columnName string, kind index_constants.IndexKind) (index.Index, error) {
	tm := c.GetTableByName(tableName)
	if tm == nil {
		return nil, errors.Annotatef(common.ErrConfiguration, "table %s does not exist", tableName)
	}
	colIdx := tm.schema.GetColIndex(tm.name, columnName)
	if colIdx == math.MaxUint32 {
		return nil, errors.Annotatef(common.ErrConfiguration, "column %s does not exist in %s", columnName, tableName)
	}
	col := tm.schema.GetColumn(colIdx)

	im := index.NewIndexMetadata(col.GetColumnName()+"_index", tm.name, col, kind)
	var idx index.Index
	switch kind {
	case index_constants.INDEX_KIND_HASH:
		idx = index.NewHashIndex(im, common.BucketSizeOfHashIndex)
	case index_constants.INDEX_KIND_BTREE:
		idx = index.NewBTreeIndex(im, c.pageSize)
	default:
		return nil, errors.Annotatef(common.ErrConfiguration, "illegal index kind %v", kind)
	}

	it := tm.table.Iterator()
	for ; !it.End(); it.Next() {
		key := it.Current().GetValue(colIdx)
		idx.InsertEntry(&key, it.CurrentRID())
	}
	if it.Err() != nil {
		return nil, errors.Annotatef(it.Err(), "building index %s", im.GetName())
	}

	tm.indexes[colIdx] = idx
	common.ShPrintf(common.DEBUG_INFO, "CreateIndex: %s kind=%s entries=%d\n", im.GetName(), kind, idx.GetNumEntries())
	return idx, nil
}

// GetIndex returns index on col or nil
func (c *Catalog) GetIndex(col *column.Column) index.Index {
	tm := c.GetTableByName(col.GetTableName())
	if tm == nil {
		return nil
	}
	return tm.GetIndexOf(col)
}
