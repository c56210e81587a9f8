package index

import (
	"github.com/pingcap/errors"
	"github.com/ryogrid/SamehadaQP/common"
	"github.com/ryogrid/SamehadaQP/container/hash"
	"github.com/ryogrid/SamehadaQP/execution/expression"
	"github.com/ryogrid/SamehadaQP/storage/access"
	"github.com/ryogrid/SamehadaQP/types"
)

type hashEntry struct {
	key types.Value
	rid access.RID
}

// HashIndex is a static hash table of numBuckets buckets.
// only equality search is supported
type HashIndex struct {
	metadata   *IndexMetadata
	buckets    [][]hashEntry
	cmp        types.Comparator
	numEntries uint64
}

func NewHashIndex(metadata *IndexMetadata, numBuckets uint32) *HashIndex {
	if numBuckets == 0 {
		numBuckets = 1
	}
	return &HashIndex{metadata, make([][]hashEntry, numBuckets), types.ComparatorFor(metadata.GetKeyColumn().GetType()), 0}
}

func (hi *HashIndex) GetMetadata() *IndexMetadata {
	return hi.metadata
}

func (hi *HashIndex) bucketOf(key *types.Value) uint32 {
	return hash.HashValue(key) % uint32(len(hi.buckets))
}

func (hi *HashIndex) InsertEntry(key *types.Value, rid access.RID) {
	bucket := hi.bucketOf(key)
	hi.buckets[bucket] = append(hi.buckets[bucket], hashEntry{*key, rid})
	hi.numEntries++
}

func (hi *HashIndex) ScanKey(op expression.ComparisonType, key *types.Value) ([]access.RID, error) {
	if !hi.SupportsComparison(op) {
		return nil, errors.Annotatef(common.ErrConfiguration, "hash index %s does not support %s", hi.metadata.GetName(), op)
	}
	ret := make([]access.RID, 0)
	for _, entry := range hi.buckets[hi.bucketOf(key)] {
		if hi.cmp(&entry.key, key) == 0 {
			ret = append(ret, entry.rid)
		}
	}
	return ret, nil
}

func (hi *HashIndex) SupportsComparison(op expression.ComparisonType) bool {
	return op == expression.Equal
}

// GetProbeCost is one bucket page
func (hi *HashIndex) GetProbeCost() int64 {
	return 1
}

func (hi *HashIndex) GetNumEntries() uint64 {
	return hi.numEntries
}
