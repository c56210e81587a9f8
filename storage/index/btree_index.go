package index

import (
	"math"

	"github.com/google/btree"
	"github.com/ryogrid/SamehadaQP/execution/expression"
	"github.com/ryogrid/SamehadaQP/storage/access"
	"github.com/ryogrid/SamehadaQP/types"
)

const btreeDegree = 32

type btreeEntry struct {
	key types.Value
	rid access.RID
}

// BTreeIndex is ordered index. duplicate keys are ordered by rid
type BTreeIndex struct {
	metadata *IndexMetadata
	tree     *btree.BTreeG[btreeEntry]
	cmp      types.Comparator
	pageSize uint32
}

func NewBTreeIndex(metadata *IndexMetadata, pageSize uint32) *BTreeIndex {
	cmp := types.ComparatorFor(metadata.GetKeyColumn().GetType())
	less := func(a, b btreeEntry) bool {
		if c := cmp(&a.key, &b.key); c != 0 {
			return c < 0
		}
		if a.rid.PageNo != b.rid.PageNo {
			return a.rid.PageNo < b.rid.PageNo
		}
		return a.rid.SlotNum < b.rid.SlotNum
	}
	return &BTreeIndex{metadata, btree.NewG[btreeEntry](btreeDegree, less), cmp, pageSize}
}

func (bi *BTreeIndex) GetMetadata() *IndexMetadata {
	return bi.metadata
}

func (bi *BTreeIndex) InsertEntry(key *types.Value, rid access.RID) {
	bi.tree.ReplaceOrInsert(btreeEntry{*key, rid})
}

func (bi *BTreeIndex) ScanKey(op expression.ComparisonType, key *types.Value) ([]access.RID, error) {
	ret := make([]access.RID, 0)
	collect := func(entry btreeEntry) bool {
		if op.Holds(bi.cmp(&entry.key, key)) {
			ret = append(ret, entry.rid)
		}
		return true
	}
	pivot := btreeEntry{*key, access.RID{}}
	switch op {
	case expression.Equal:
		bi.tree.AscendGreaterOrEqual(pivot, func(entry btreeEntry) bool {
			if bi.cmp(&entry.key, key) != 0 {
				return false
			}
			ret = append(ret, entry.rid)
			return true
		})
	case expression.GreaterThan, expression.GreaterThanOrEqual:
		bi.tree.AscendGreaterOrEqual(pivot, collect)
	case expression.LessThan, expression.LessThanOrEqual:
		bi.tree.Ascend(func(entry btreeEntry) bool {
			if !op.Holds(bi.cmp(&entry.key, key)) {
				return false
			}
			ret = append(ret, entry.rid)
			return true
		})
	default:
		bi.tree.Ascend(collect)
	}
	return ret, nil
}

func (bi *BTreeIndex) SupportsComparison(op expression.ComparisonType) bool {
	return true
}

// GetProbeCost is height of a tree whose node is a page
func (bi *BTreeIndex) GetProbeCost() int64 {
	entrySize := bi.metadata.GetKeyColumn().FixedLength() + 8
	fanout := float64(bi.pageSize / entrySize)
	if fanout < 2 {
		fanout = 2
	}
	entries := float64(bi.tree.Len())
	if entries <= fanout {
		return 1
	}
	return int64(math.Ceil(math.Log(entries) / math.Log(fanout)))
}

func (bi *BTreeIndex) GetNumEntries() uint64 {
	return uint64(bi.tree.Len())
}
