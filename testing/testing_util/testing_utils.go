// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package testing_util

import (
	"sort"
	"strings"
	"time"

	"github.com/ryogrid/SamehadaQP/storage/tuple"
	"github.com/ryogrid/SamehadaQP/types"
)

func GetValue(data interface{}) (value types.Value) {
	switch v := data.(type) {
	case int:
		value = types.NewInteger(int32(v))
	case int64:
		value = types.NewInteger(int32(v))
	case int32:
		value = types.NewInteger(v)
	case float32:
		value = types.NewFloat(v)
	case float64:
		value = types.NewFloat(float32(v))
	case string:
		value = types.NewVarchar(v)
	case time.Time:
		value = types.NewDate(v)
	case *types.Value:
		return *v
	}
	return
}

func GetValueType(data interface{}) (value types.TypeID) {
	switch v := data.(type) {
	case int, int32, int64:
		return types.Integer
	case float32, float64:
		return types.Float
	case string:
		return types.Varchar
	case time.Time:
		return types.Date
	case *types.Value:
		return v.ValueType()
	}
	panic("not implemented")
}

// MakeTuple builds a tuple from go values
func MakeTuple(data ...interface{}) *tuple.Tuple {
	values := make([]types.Value, len(data))
	for i, d := range data {
		values[i] = GetValue(d)
	}
	return tuple.NewTuple(values)
}

// RowsOf converts tuples to rows of go values
func RowsOf(tuples []*tuple.Tuple) [][]interface{} {
	ret := make([][]interface{}, len(tuples))
	for i, tuple_ := range tuples {
		row := make([]interface{}, tuple_.ColumnCount())
		for j := uint32(0); j < tuple_.ColumnCount(); j++ {
			row[j] = tuple_.GetValue(j).ToIFValue()
		}
		ret[i] = row
	}
	return ret
}

// SortedTupleStrs returns sorted string forms of tuples. equal results mean equal multisets
func SortedTupleStrs(tuples []*tuple.Tuple) []string {
	ret := make([]string, len(tuples))
	for i, tuple_ := range tuples {
		ret[i] = tuple_.String()
	}
	sort.Strings(ret)
	return ret
}

// IsSortedBy reports whether tuples are non-decreasing on column colIdx
func IsSortedBy(tuples []*tuple.Tuple, colIdx uint32) bool {
	for i := 1; i < len(tuples); i++ {
		if tuples[i-1].GetValue(colIdx).CompareGreaterThan(tuples[i].GetValue(colIdx)) {
			return false
		}
	}
	return true
}

// RowStr is string form of a row of go values
func RowStr(row []interface{}) string {
	strs := make([]string, len(row))
	for i, v := range row {
		strs[i] = GetValue(v).ToString()
	}
	return "(" + strings.Join(strs, ", ") + ")"
}
