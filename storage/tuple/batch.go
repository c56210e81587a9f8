package tuple

import (
	"github.com/pingcap/errors"
	"github.com/ryogrid/SamehadaQP/common"
	"github.com/ryogrid/SamehadaQP/storage/table/schema"
	"github.com/ryogrid/SamehadaQP/types"
)

// Batch is a page of tuples which is unit of data exchange between executors
type Batch struct {
	capacity uint32
	tuples   []*Tuple
}

// BatchCapacity is number of tuples of tupleSize which fit in one page
func BatchCapacity(pageSize uint32, tupleSize uint32) uint32 {
	if tupleSize == 0 || pageSize < tupleSize {
		return 1
	}
	return pageSize / tupleSize
}

func NewBatch(capacity uint32) *Batch {
	common.SH_Assert(capacity > 0, "batch capacity must be positive")
	return &Batch{capacity, make([]*Tuple, 0, capacity)}
}

// NewBatchForSchema makes empty batch sized for tuples of schema_
func NewBatchForSchema(pageSize uint32, schema_ *schema.Schema) *Batch {
	return NewBatch(BatchCapacity(pageSize, schema_.Length()))
}

// Append returns false when the batch is already full
func (b *Batch) Append(tuple_ *Tuple) bool {
	if b.IsFull() {
		return false
	}
	b.tuples = append(b.tuples, tuple_)
	return true
}

func (b *Batch) IsFull() bool {
	return uint32(len(b.tuples)) >= b.capacity
}

func (b *Batch) IsEmpty() bool {
	return len(b.tuples) == 0
}

func (b *Batch) Len() int {
	return len(b.tuples)
}

func (b *Batch) Capacity() uint32 {
	return b.capacity
}

func (b *Batch) GetTuple(idx int) *Tuple {
	return b.tuples[idx]
}

func (b *Batch) GetTuples() []*Tuple {
	return b.tuples
}

/**
 * Serialized page format:
 * -------------------------------------------------
 * | TUPLE COUNT (uint32) | TUPLE 0 | TUPLE 1 | ...
 * -------------------------------------------------
 */
func (b *Batch) Serialize() []byte {
	buf := make([]byte, 0, 4+len(b.tuples)*16)
	buf = append(buf, types.UInt32(len(b.tuples)).Serialize()...)
	for _, tuple_ := range b.tuples {
		buf = tuple_.SerializeTo(buf)
	}
	return buf
}

// DeserializeBatch restores a page written by Serialize
func DeserializeBatch(data []byte, capacity uint32, schema_ *schema.Schema) (*Batch, error) {
	if len(data) < 4 {
		return nil, errors.Annotate(common.ErrStorage, "short buffer for page header")
	}
	count := uint32(types.NewUInt32FromBytes(data))
	if count > capacity {
		capacity = count
	}
	if capacity == 0 {
		capacity = 1
	}
	ret := NewBatch(capacity)
	offset := uint32(4)
	for i := uint32(0); i < count; i++ {
		tuple_, consumed, err := DeserializeFrom(data[offset:], schema_)
		if err != nil {
			return nil, errors.Annotatef(err, "tuple %d of page", i)
		}
		ret.tuples = append(ret.tuples, tuple_)
		offset += consumed
	}
	return ret, nil
}
