package hash

import (
	"testing"

	"github.com/ryogrid/SamehadaQP/storage/tuple"
	testingpkg "github.com/ryogrid/SamehadaQP/testing/testing_assert"
	"github.com/ryogrid/SamehadaQP/types"
)

func TestHashValue(t *testing.T) {
	a1 := types.NewVarchar("abc")
	a2 := types.NewVarchar("abc")
	b := types.NewVarchar("abd")
	testingpkg.Equals(t, HashValue(&a1), HashValue(&a2))
	testingpkg.SimpleAssert(t, HashValue(&a1) != HashValue(&b))
	testingpkg.Equals(t, HashWithSeed(&a1, 7), HashWithSeed(&a2, 7))
}

func TestSimpleHashJoinHashTable(t *testing.T) {
	ht := NewSimpleHashJoinHashTable()
	for i := 0; i < 100; i++ {
		key := types.NewInteger(int32(i % 10))
		ht.Insert(&key, tuple.NewTuple([]types.Value{key, types.NewInteger(int32(i))}))
	}
	testingpkg.Equals(t, 100, ht.Len())

	key := types.NewInteger(3)
	found := 0
	for _, tuple_ := range ht.GetValue(&key) {
		if tuple_.GetValue(0).CompareEquals(key) {
			found++
		}
	}
	testingpkg.Equals(t, 10, found)

	ht.Clear()
	testingpkg.Equals(t, 0, len(ht.GetValue(&key)))
}
