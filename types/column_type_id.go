// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package types

import "github.com/ryogrid/SamehadaQP/common"

type TypeID int

// Every possible attribute type
const (
	Invalid TypeID = iota
	Integer
	Float
	Varchar
	Date
)

// Size returns fixed width in a tuple
func (t TypeID) Size() uint32 {
	switch t {
	case Integer:
		return 4
	case Float:
		return 4
	case Date:
		return 8
	case Varchar:
		return common.DefaultVarcharSize
	}
	return 0
}

func (t TypeID) String() string {
	switch t {
	case Integer:
		return "int"
	case Float:
		return "real"
	case Varchar:
		return "string"
	case Date:
		return "date"
	}
	return "invalid"
}
