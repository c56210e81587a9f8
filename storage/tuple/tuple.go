// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package tuple

import (
	"encoding/binary"
	"strings"

	"github.com/pingcap/errors"
	"github.com/ryogrid/SamehadaQP/common"
	"github.com/ryogrid/SamehadaQP/storage/table/schema"
	"github.com/ryogrid/SamehadaQP/types"
)

// payload size prefix in bytes
const TupleSizeOffset = 4

/**
 * Serialized tuple format:
 * ------------------------------------------------
 * | PAYLOAD SIZE (uint32) | VALUE 0 | VALUE 1 | ..
 * ------------------------------------------------
 */
type Tuple struct {
	values []types.Value
}

func NewTuple(values []types.Value) *Tuple {
	return &Tuple{values}
}

func (t *Tuple) GetValue(colIndex uint32) types.Value {
	return t.values[colIndex]
}

func (t *Tuple) GetValues() []types.Value {
	return t.values
}

func (t *Tuple) ColumnCount() uint32 {
	return uint32(len(t.values))
}

// JoinTuples concatenates values of left and right
func JoinTuples(left *Tuple, right *Tuple) *Tuple {
	values := make([]types.Value, 0, len(left.values)+len(right.values))
	values = append(values, left.values...)
	values = append(values, right.values...)
	return &Tuple{values}
}

// Project makes new tuple with values at colIndexes
func (t *Tuple) Project(colIndexes []uint32) *Tuple {
	values := make([]types.Value, len(colIndexes))
	for i, idx := range colIndexes {
		values[i] = t.values[idx]
	}
	return &Tuple{values}
}

func (t *Tuple) GetDeepCopy() *Tuple {
	values := make([]types.Value, len(t.values))
	copy(values, t.values)
	return &Tuple{values}
}

// Size returns length of serialized form including size prefix
func (t *Tuple) Size() uint32 {
	ret := uint32(TupleSizeOffset)
	for _, val := range t.values {
		ret += val.Size()
	}
	return ret
}

// SerializeTo appends serialized tuple to buf
func (t *Tuple) SerializeTo(buf []byte) []byte {
	sizeBuf := make([]byte, TupleSizeOffset)
	binary.LittleEndian.PutUint32(sizeBuf, t.Size()-TupleSizeOffset)
	buf = append(buf, sizeBuf...)
	for _, val := range t.values {
		buf = append(buf, val.Serialize()...)
	}
	return buf
}

// DeserializeFrom reads one tuple of schema_ from head of storage.
// returns the tuple and the number of bytes consumed
func DeserializeFrom(storage []byte, schema_ *schema.Schema) (*Tuple, uint32, error) {
	if len(storage) < TupleSizeOffset {
		return nil, 0, errors.Annotate(common.ErrStorage, "short buffer for tuple size")
	}
	payloadSize := binary.LittleEndian.Uint32(storage)
	if uint32(len(storage)) < TupleSizeOffset+payloadSize {
		return nil, 0, errors.Annotatef(common.ErrStorage, "tuple payload is truncated (%d bytes needed)", payloadSize)
	}
	payload := storage[TupleSizeOffset : TupleSizeOffset+payloadSize]
	values := make([]types.Value, 0, schema_.GetColumnCount())
	offset := uint32(0)
	for i := uint32(0); i < schema_.GetColumnCount(); i++ {
		val, consumed, err := types.NewValueFromBytes(payload[offset:], schema_.GetColumn(i).GetType())
		if err != nil {
			return nil, 0, err
		}
		values = append(values, *val)
		offset += consumed
	}
	if offset != payloadSize {
		return nil, 0, errors.Annotatef(common.ErrStorage, "tuple payload size mismatch (%d != %d)", offset, payloadSize)
	}
	return &Tuple{values}, TupleSizeOffset + payloadSize, nil
}

func (t *Tuple) String() string {
	strs := make([]string, len(t.values))
	for i, val := range t.values {
		strs[i] = val.ToString()
	}
	return "(" + strings.Join(strs, ", ") + ")"
}
