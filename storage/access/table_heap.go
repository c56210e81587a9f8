// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package access

import (
	"github.com/pingcap/errors"
	"github.com/ryogrid/SamehadaQP/common"
	"github.com/ryogrid/SamehadaQP/storage/disk"
	"github.com/ryogrid/SamehadaQP/storage/table/schema"
	"github.com/ryogrid/SamehadaQP/storage/tuple"
)

// TableHeap represents a physical table.
// full pages are written to a page file, the last page stays on memory until filled.
type TableHeap struct {
	schema_      *schema.Schema
	file         disk.RunFile
	pageCapacity uint32
	lastPage     *tuple.Batch
	numTuples    uint64
	cachedPageNo uint32
	cachedPage   *tuple.Batch
}

// NewTableHeap creates a table heap which stores pages to file
func NewTableHeap(file disk.RunFile, schema_ *schema.Schema, pageSize uint32) *TableHeap {
	capacity := tuple.BatchCapacity(pageSize, schema_.Length())
	return &TableHeap{schema_, file, capacity, tuple.NewBatch(capacity), 0, 0, nil}
}

// InsertTuple appends a tuple to the table
// PAY ATTENTION: index entry is not inserted
func (t *TableHeap) InsertTuple(tuple_ *tuple.Tuple) (*RID, error) {
	if tuple_.ColumnCount() != t.schema_.GetColumnCount() {
		return nil, errors.Annotatef(common.ErrConfiguration, "tuple has %d values but table has %d columns", tuple_.ColumnCount(), t.schema_.GetColumnCount())
	}
	for i := uint32(0); i < tuple_.ColumnCount(); i++ {
		if tuple_.GetValue(i).ValueType() != t.schema_.GetColumn(i).GetType() {
			return nil, errors.Annotatef(common.ErrConfiguration, "type mismatch on column %s", t.schema_.GetColumn(i).GetQualifiedName())
		}
	}

	rid := &RID{t.file.NumPages(), uint32(t.lastPage.Len())}
	t.lastPage.Append(tuple_)
	t.numTuples++
	if t.lastPage.IsFull() {
		if _, err := t.file.WritePage(t.lastPage.Serialize()); err != nil {
			return nil, errors.Annotate(err, "flush of table page failed")
		}
		t.lastPage = tuple.NewBatch(t.pageCapacity)
	}
	return rid, nil
}

// NumPages returns count of pages including the page on memory
func (t *TableHeap) NumPages() uint32 {
	ret := t.file.NumPages()
	if !t.lastPage.IsEmpty() {
		ret++
	}
	return ret
}

func (t *TableHeap) NumTuples() uint64 {
	return t.numTuples
}

func (t *TableHeap) GetSchema() *schema.Schema {
	return t.schema_
}

func (t *TableHeap) GetPageCapacity() uint32 {
	return t.pageCapacity
}

// ReadPage returns new batch which holds tuples of the page.
// returned batch is owned by caller
func (t *TableHeap) ReadPage(pageNo uint32) (*tuple.Batch, error) {
	if pageNo < t.file.NumPages() {
		data, err := t.file.ReadPage(pageNo)
		if err != nil {
			return nil, err
		}
		return tuple.DeserializeBatch(data, t.pageCapacity, t.schema_)
	}
	if pageNo == t.file.NumPages() && !t.lastPage.IsEmpty() {
		ret := tuple.NewBatch(t.pageCapacity)
		for _, tuple_ := range t.lastPage.GetTuples() {
			ret.Append(tuple_)
		}
		return ret, nil
	}
	return nil, errors.Annotatef(common.ErrStorage, "page %d is out of table (%d pages)", pageNo, t.NumPages())
}

// GetTuple fetches the tuple at rid. the last read page is cached
func (t *TableHeap) GetTuple(rid *RID) (*tuple.Tuple, error) {
	if t.cachedPage == nil || t.cachedPageNo != rid.PageNo || rid.PageNo >= t.file.NumPages() {
		page, err := t.ReadPage(rid.PageNo)
		if err != nil {
			return nil, err
		}
		t.cachedPage = page
		t.cachedPageNo = rid.PageNo
	}
	if int(rid.SlotNum) >= t.cachedPage.Len() {
		return nil, errors.Annotatef(common.ErrStorage, "rid %v is out of page", *rid)
	}
	return t.cachedPage.GetTuple(int(rid.SlotNum)), nil
}

// Iterator returns a iterator over all tuples
func (t *TableHeap) Iterator() *TableHeapIterator {
	return NewTableHeapIterator(t)
}
