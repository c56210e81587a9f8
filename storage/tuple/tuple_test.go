// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package tuple

import (
	"testing"
	"time"

	"github.com/pingcap/errors"
	"github.com/ryogrid/SamehadaQP/common"
	"github.com/ryogrid/SamehadaQP/storage/table/column"
	"github.com/ryogrid/SamehadaQP/storage/table/schema"
	testingpkg "github.com/ryogrid/SamehadaQP/testing/testing_assert"
	"github.com/ryogrid/SamehadaQP/types"
)

func makeTestSchema() *schema.Schema {
	columnA := column.NewColumn("t", "a", types.Integer)
	columnB := column.NewColumn("t", "b", types.Varchar)
	columnC := column.NewColumn("t", "c", types.Float)
	columnD := column.NewColumn("t", "d", types.Date)
	return schema.NewSchema([]*column.Column{columnA, columnB, columnC, columnD})
}

func TestTupleSerialization(t *testing.T) {
	schema_ := makeTestSchema()

	expA, expB, expC := int32(99), "áé&@#+\\çç", float32(0.5)
	expD := time.Date(2021, 4, 1, 0, 0, 0, 0, time.UTC)
	row := []types.Value{types.NewInteger(expA), types.NewVarchar(expB), types.NewFloat(expC), types.NewDate(expD)}
	tuple_ := NewTuple(row)

	buf := tuple_.SerializeTo(make([]byte, 0))
	testingpkg.Equals(t, tuple_.Size(), uint32(len(buf)))

	restored, consumed, err := DeserializeFrom(buf, schema_)
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, uint32(len(buf)), consumed)
	testingpkg.Equals(t, expA, restored.GetValue(0).ToInteger())
	testingpkg.Equals(t, expB, restored.GetValue(1).ToVarchar())
	testingpkg.Equals(t, expC, restored.GetValue(2).ToFloat())
	testingpkg.SimpleAssert(t, expD.Equal(restored.GetValue(3).ToDate()))
	testingpkg.Equals(t, tuple_.String(), restored.String())
}

func TestDeserializeTruncated(t *testing.T) {
	schema_ := makeTestSchema()
	row := []types.Value{types.NewInteger(1), types.NewVarchar("abc"), types.NewFloat(1.0), types.NewDate(time.Now())}
	buf := NewTuple(row).SerializeTo(make([]byte, 0))

	_, _, err := DeserializeFrom(buf[:len(buf)-3], schema_)
	testingpkg.Nok(t, err, common.ErrStorage)
	testingpkg.SimpleAssert(t, common.IsStorageError(errors.Annotate(err, "outer")))
}

func TestBatchCapacity(t *testing.T) {
	testingpkg.Equals(t, uint32(10), BatchCapacity(40, 4))
	testingpkg.Equals(t, uint32(1024), BatchCapacity(4096, 4))
	testingpkg.Equals(t, uint32(1), BatchCapacity(4, 48))
	testingpkg.Equals(t, uint32(1), BatchCapacity(4096, 0))

	batch := NewBatch(2)
	testingpkg.SimpleAssert(t, batch.Append(NewTuple([]types.Value{types.NewInteger(1)})))
	testingpkg.SimpleAssert(t, batch.Append(NewTuple([]types.Value{types.NewInteger(2)})))
	testingpkg.SimpleAssert(t, batch.IsFull())
	testingpkg.SimpleAssert(t, !batch.Append(NewTuple([]types.Value{types.NewInteger(3)})))
	testingpkg.Equals(t, 2, batch.Len())
}

func TestBatchSerialization(t *testing.T) {
	schema_ := makeTestSchema()
	batch := NewBatchForSchema(common.PageSize, schema_)
	for i := 0; i < 20; i++ {
		batch.Append(NewTuple([]types.Value{types.NewInteger(int32(i)), types.NewVarchar("row"), types.NewFloat(float32(i) / 2), types.NewDate(time.Unix(int64(i)*86400, 0))}))
	}

	restored, err := DeserializeBatch(batch.Serialize(), batch.Capacity(), schema_)
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, batch.Len(), restored.Len())
	for i := 0; i < batch.Len(); i++ {
		testingpkg.Equals(t, batch.GetTuple(i).String(), restored.GetTuple(i).String())
	}

	empty, err := DeserializeBatch(NewBatch(1).Serialize(), 0, schema_)
	testingpkg.Ok(t, err)
	testingpkg.SimpleAssert(t, empty.IsEmpty())
}

func TestCompareByKeys(t *testing.T) {
	schema_ := makeTestSchema()
	day := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := NewTuple([]types.Value{types.NewInteger(1), types.NewVarchar("b"), types.NewFloat(1.5), types.NewDate(day)})
	t2 := NewTuple([]types.Value{types.NewInteger(1), types.NewVarchar("a"), types.NewFloat(-1.5), types.NewDate(day.AddDate(0, 0, 1))})

	testingpkg.Equals(t, 0, NewKeyComparator(schema_, []uint32{0}).Compare(t1, t2))
	testingpkg.Equals(t, 1, NewKeyComparator(schema_, []uint32{0, 1}).Compare(t1, t2))
	testingpkg.Equals(t, 1, NewKeyComparator(schema_, []uint32{2}).Compare(t1, t2))
	testingpkg.Equals(t, -1, NewKeyComparator(schema_, []uint32{3, 1}).Compare(t1, t2))

	joined := JoinTuples(t1, t2)
	testingpkg.Equals(t, uint32(8), joined.ColumnCount())
	testingpkg.Equals(t, "a", joined.Project([]uint32{5}).GetValue(0).ToVarchar())
}
