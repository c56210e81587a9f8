// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package types

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pingcap/errors"
	"github.com/ryogrid/SamehadaQP/common"
	"golang.org/x/exp/constraints"
)

const DateLayout = "2006-01-02"

// A value is an class that represents a view over SQL data stored in
// some materialized state. All values have a type and comparison functions.
// Only the field which corresponds to valueType is meaningful.
type Value struct {
	valueType TypeID
	integer   int32
	float     float32
	varchar   string
	date      time.Time
}

func NewInteger(value int32) Value {
	return Value{valueType: Integer, integer: value}
}

func NewFloat(value float32) Value {
	return Value{valueType: Float, float: value}
}

func NewVarchar(value string) Value {
	return Value{valueType: Varchar, varchar: value}
}

func NewDate(value time.Time) Value {
	return Value{valueType: Date, date: value.UTC()}
}

// NewValueFromString converts literal of a predicate to a value of valueType
func NewValueFromString(literal string, valueType TypeID) (Value, error) {
	literal = strings.Trim(literal, "'\"")
	switch valueType {
	case Integer:
		ival, err := strconv.ParseInt(literal, 10, 32)
		if err != nil {
			return Value{}, errors.Annotatef(common.ErrConfiguration, "%q is not an int literal", literal)
		}
		return NewInteger(int32(ival)), nil
	case Float:
		fval, err := strconv.ParseFloat(literal, 32)
		if err != nil {
			return Value{}, errors.Annotatef(common.ErrConfiguration, "%q is not a real literal", literal)
		}
		return NewFloat(float32(fval)), nil
	case Varchar:
		return NewVarchar(literal), nil
	case Date:
		dval, err := time.Parse(DateLayout, literal)
		if err != nil {
			return Value{}, errors.Annotatef(common.ErrConfiguration, "%q is not a date literal", literal)
		}
		return NewDate(dval), nil
	}
	return Value{}, errors.Annotatef(common.ErrConfiguration, "illegal type %v", valueType)
}

// NewValueFromBytes is used for deserialization.
// returns the value and the number of bytes consumed
func NewValueFromBytes(data []byte, valueType TypeID) (*Value, uint32, error) {
	switch valueType {
	case Integer:
		if len(data) < 4 {
			return nil, 0, errors.Annotate(common.ErrStorage, "short buffer for int value")
		}
		ret := NewInteger(int32(binary.LittleEndian.Uint32(data)))
		return &ret, 4, nil
	case Float:
		if len(data) < 4 {
			return nil, 0, errors.Annotate(common.ErrStorage, "short buffer for real value")
		}
		ret := NewFloat(math.Float32frombits(binary.LittleEndian.Uint32(data)))
		return &ret, 4, nil
	case Date:
		if len(data) < 8 {
			return nil, 0, errors.Annotate(common.ErrStorage, "short buffer for date value")
		}
		ret := NewDate(time.Unix(0, int64(binary.LittleEndian.Uint64(data))))
		return &ret, 8, nil
	case Varchar:
		if len(data) < 2 {
			return nil, 0, errors.Annotate(common.ErrStorage, "short buffer for string length")
		}
		length := uint32(binary.LittleEndian.Uint16(data))
		if uint32(len(data)) < 2+length {
			return nil, 0, errors.Annotate(common.ErrStorage, "short buffer for string value")
		}
		ret := NewVarchar(string(data[2 : 2+length]))
		return &ret, 2 + length, nil
	}
	return nil, 0, errors.Annotatef(common.ErrStorage, "%v is illegal", valueType)
}

func (v Value) Serialize() []byte {
	switch v.valueType {
	case Integer:
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, uint32(v.integer))
		return buf
	case Float:
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, math.Float32bits(v.float))
		return buf
	case Date:
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, uint64(v.date.UnixNano()))
		return buf
	case Varchar:
		buf := make([]byte, 2+len(v.varchar))
		binary.LittleEndian.PutUint16(buf, uint16(len(v.varchar)))
		copy(buf[2:], v.varchar)
		return buf
	}
	panic("illegal valueType is passed!")
}

// Size returns length of serialized form
func (v Value) Size() uint32 {
	switch v.valueType {
	case Varchar:
		return 2 + uint32(len(v.varchar))
	default:
		return v.valueType.Size()
	}
}

func compareOrdered[T constraints.Ordered](l T, r T) int {
	if l < r {
		return -1
	} else if l > r {
		return 1
	}
	return 0
}

// Comparator returns negative, zero or positive like strings.Compare
type Comparator func(l *Value, r *Value) int

func compareInteger(l *Value, r *Value) int { return compareOrdered(l.integer, r.integer) }
func compareFloat(l *Value, r *Value) int   { return compareOrdered(l.float, r.float) }
func compareVarchar(l *Value, r *Value) int { return compareOrdered(l.varchar, r.varchar) }
func compareDate(l *Value, r *Value) int    { return l.date.Compare(r.date) }

// ComparatorFor resolves comparator of the type once. Values compared
// with it must have the valueType.
func ComparatorFor(valueType TypeID) Comparator {
	switch valueType {
	case Integer:
		return compareInteger
	case Float:
		return compareFloat
	case Varchar:
		return compareVarchar
	case Date:
		return compareDate
	}
	panic("illegal valueType is passed!")
}

func (v Value) CompareTo(right Value) int {
	common.SH_Assert(v.valueType == right.valueType, "comparison of different types")
	return ComparatorFor(v.valueType)(&v, &right)
}

func (v Value) CompareEquals(right Value) bool {
	return v.CompareTo(right) == 0
}

func (v Value) CompareNotEquals(right Value) bool {
	return v.CompareTo(right) != 0
}

func (v Value) CompareGreaterThan(right Value) bool {
	return v.CompareTo(right) > 0
}

func (v Value) CompareGreaterThanOrEqual(right Value) bool {
	return v.CompareTo(right) >= 0
}

func (v Value) CompareLessThan(right Value) bool {
	return v.CompareTo(right) < 0
}

func (v Value) CompareLessThanOrEqual(right Value) bool {
	return v.CompareTo(right) <= 0
}

func (v Value) ValueType() TypeID {
	return v.valueType
}

func (v Value) ToInteger() int32 {
	return v.integer
}

func (v Value) ToFloat() float32 {
	return v.float
}

func (v Value) ToVarchar() string {
	return v.varchar
}

func (v Value) ToDate() time.Time {
	return v.date
}

// ToIFValue returns go native value for consumers of results
func (v Value) ToIFValue() interface{} {
	switch v.valueType {
	case Integer:
		return v.integer
	case Float:
		return v.float
	case Varchar:
		return v.varchar
	case Date:
		return v.date
	}
	return nil
}

func (v Value) ToString() string {
	switch v.valueType {
	case Integer:
		return strconv.Itoa(int(v.integer))
	case Float:
		return strconv.FormatFloat(float64(v.float), 'f', -1, 32)
	case Varchar:
		return v.varchar
	case Date:
		return v.date.Format(DateLayout)
	}
	return "invalid"
}
