// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package access

import (
	"github.com/ryogrid/SamehadaQP/storage/tuple"
)

// TableHeapIterator is the access method for table heaps
//
// It iterates through a table heap when Next is called
// The tuple that it is being pointed to can be accessed with the method Current
type TableHeapIterator struct {
	tableHeap *TableHeap
	pageNo    uint32
	page      *tuple.Batch
	slot      int
	tuple     *tuple.Tuple
	rid       RID
	err       error
}

// NewTableHeapIterator creates a new table heap operator for the given table heap
// It points to the first tuple of the table
func NewTableHeapIterator(tableHeap *TableHeap) *TableHeapIterator {
	it := &TableHeapIterator{tableHeap: tableHeap, slot: -1}
	it.Next()
	return it
}

// Current points to the current tuple
func (it *TableHeapIterator) Current() *tuple.Tuple {
	return it.tuple
}

// CurrentRID is position of Current
func (it *TableHeapIterator) CurrentRID() RID {
	return it.rid
}

// End checks if the iterator is at the end
func (it *TableHeapIterator) End() bool {
	return it.Current() == nil
}

// Err returns error which stopped iteration
func (it *TableHeapIterator) Err() error {
	return it.err
}

// Next advances the iterator trying to find the next tuple
func (it *TableHeapIterator) Next() *tuple.Tuple {
	it.slot++
	for it.page == nil || it.slot >= it.page.Len() {
		if it.page != nil {
			it.pageNo++
		}
		if it.pageNo >= it.tableHeap.NumPages() {
			it.tuple = nil
			return nil
		}
		page, err := it.tableHeap.ReadPage(it.pageNo)
		if err != nil {
			it.err = err
			it.tuple = nil
			return nil
		}
		it.page = page
		it.slot = 0
	}
	it.tuple = it.page.GetTuple(it.slot)
	it.rid = RID{it.pageNo, uint32(it.slot)}
	return it.tuple
}
