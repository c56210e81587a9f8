package hash

import (
	"github.com/ryogrid/SamehadaQP/storage/tuple"
	"github.com/ryogrid/SamehadaQP/types"
)

// SimpleHashJoinHashTable is in memory hash table for hash join build side.
// tuples of colliding keys share a bucket, so callers must recheck key equality
type SimpleHashJoinHashTable struct {
	buckets   map[uint32][]*tuple.Tuple
	numTuples int
}

func NewSimpleHashJoinHashTable() *SimpleHashJoinHashTable {
	return &SimpleHashJoinHashTable{make(map[uint32][]*tuple.Tuple), 0}
}

func (ht *SimpleHashJoinHashTable) Insert(key *types.Value, tuple_ *tuple.Tuple) {
	h := HashValue(key)
	ht.buckets[h] = append(ht.buckets[h], tuple_)
	ht.numTuples++
}

// GetValue returns candidate tuples for key
func (ht *SimpleHashJoinHashTable) GetValue(key *types.Value) []*tuple.Tuple {
	return ht.buckets[HashValue(key)]
}

func (ht *SimpleHashJoinHashTable) Len() int {
	return ht.numTuples
}

func (ht *SimpleHashJoinHashTable) Clear() {
	ht.buckets = make(map[uint32][]*tuple.Tuple)
	ht.numTuples = 0
}
