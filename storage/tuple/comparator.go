package tuple

import (
	"github.com/ryogrid/SamehadaQP/storage/table/schema"
	"github.com/ryogrid/SamehadaQP/types"
)

// KeyComparator orders tuples by key columns.
// comparators are resolved once from the schema
type KeyComparator struct {
	keys []uint32
	cmps []types.Comparator
}

func NewKeyComparator(schema_ *schema.Schema, keys []uint32) *KeyComparator {
	cmps := make([]types.Comparator, len(keys))
	for i, key := range keys {
		cmps[i] = types.ComparatorFor(schema_.GetColumn(key).GetType())
	}
	return &KeyComparator{keys, cmps}
}

func (c *KeyComparator) Compare(left *Tuple, right *Tuple) int {
	return CompareByKeys(left, right, c.keys, c.cmps)
}

func (c *KeyComparator) GetKeys() []uint32 {
	return c.keys
}

// CompareByKeys compares left and right lexicographically on keys
func CompareByKeys(left *Tuple, right *Tuple, keys []uint32, cmps []types.Comparator) int {
	for i, key := range keys {
		if ret := cmps[i](&left.values[key], &right.values[key]); ret != 0 {
			return ret
		}
	}
	return 0
}

// CompareColumns compares a column of left with another column of right
func CompareColumns(left *Tuple, leftIdx uint32, right *Tuple, rightIdx uint32, cmp types.Comparator) int {
	return cmp(&left.values[leftIdx], &right.values[rightIdx])
}
