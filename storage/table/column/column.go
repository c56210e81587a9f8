// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package column

import (
	"strings"

	"github.com/ryogrid/SamehadaQP/types"
)

// Column is an attribute of a relation. identity is (table name, column name).
// Column objects are immutable and shared by every schema which contains them.
type Column struct {
	tableName   string
	columnName  string
	columnType  types.TypeID
	fixedLength uint32 // bytes a value of this column occupies in a tuple
}

func NewColumn(tableName string, name string, columnType types.TypeID) *Column {
	return &Column{strings.ToLower(tableName), strings.ToLower(name), columnType, columnType.Size()}
}

// NewVarcharColumn is for string column which has declared width
func NewVarcharColumn(tableName string, name string, width uint32) *Column {
	if width == 0 {
		width = types.Varchar.Size()
	}
	return &Column{strings.ToLower(tableName), strings.ToLower(name), types.Varchar, width}
}

func (c *Column) GetType() types.TypeID {
	return c.columnType
}

func (c *Column) FixedLength() uint32 {
	return c.fixedLength
}

func (c *Column) GetColumnName() string {
	return c.columnName
}

func (c *Column) GetTableName() string {
	return c.tableName
}

// GetQualifiedName returns "table.column"
func (c *Column) GetQualifiedName() string {
	return c.tableName + "." + c.columnName
}

func (c *Column) Equals(other *Column) bool {
	return c.tableName == other.tableName && c.columnName == other.columnName
}

// IsNamed matches name of column. empty tableName matches any table.
func (c *Column) IsNamed(tableName string, columnName string) bool {
	if tableName != "" && strings.ToLower(tableName) != c.tableName {
		return false
	}
	return strings.ToLower(columnName) == c.columnName
}
