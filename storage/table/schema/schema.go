// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package schema

import (
	"math"

	"github.com/pingcap/errors"
	"github.com/ryogrid/SamehadaQP/common"
	"github.com/ryogrid/SamehadaQP/storage/table/column"
)

type Schema struct {
	length  uint32           // Fixed-length column size, i.e. the number of bytes used by one tuple
	columns []*column.Column // All the columns in the schema
	offsets []uint32         // offset of each column in the tuple
}

func NewSchema(columns []*column.Column) *Schema {
	schema := &Schema{}

	var currentOffset uint32
	currentOffset = 0
	for i := 0; i < len(columns); i++ {
		schema.offsets = append(schema.offsets, currentOffset)
		currentOffset += columns[i].FixedLength()
		schema.columns = append(schema.columns, columns[i])
	}
	schema.length = currentOffset
	return schema
}

// JoinSchema concatenates columns. left side comes first.
func JoinSchema(left *Schema, right *Schema) *Schema {
	cols := make([]*column.Column, 0, len(left.columns)+len(right.columns))
	cols = append(cols, left.columns...)
	cols = append(cols, right.columns...)
	return NewSchema(cols)
}

func (s *Schema) GetColumn(colIndex uint32) *column.Column {
	return s.columns[colIndex]
}

func (s *Schema) GetColumnCount() uint32 {
	return uint32(len(s.columns))
}

func (s *Schema) GetOffset(colIndex uint32) uint32 {
	return s.offsets[colIndex]
}

// Length is byte size of one tuple
func (s *Schema) Length() uint32 {
	return s.length
}

// GetColIndex returns math.MaxUint32 when the column is not found.
// empty tableName matches a column of any table.
func (s *Schema) GetColIndex(tableName string, columnName string) uint32 {
	for i := uint32(0); i < s.GetColumnCount(); i++ {
		if s.columns[i].IsNamed(tableName, columnName) {
			return i
		}
	}

	return math.MaxUint32
}

func (s *Schema) GetColIndexOf(col *column.Column) uint32 {
	for i := uint32(0); i < s.GetColumnCount(); i++ {
		if s.columns[i].Equals(col) {
			return i
		}
	}
	return math.MaxUint32
}

// GetKeyIndexes resolves key columns to indexes of this schema
func (s *Schema) GetKeyIndexes(keys []*column.Column) ([]uint32, error) {
	ret := make([]uint32, 0, len(keys))
	for _, key := range keys {
		idx := s.GetColIndexOf(key)
		if idx == math.MaxUint32 {
			return nil, errors.Annotatef(common.ErrConfiguration, "key %s is not in schema", key.GetQualifiedName())
		}
		ret = append(ret, idx)
	}
	return ret, nil
}

func (s *Schema) GetColumns() []*column.Column {
	return s.columns
}

func (s *Schema) IsHaveColumn(col *column.Column) bool {
	return s.GetColIndexOf(col) != math.MaxUint32
}

// Subset builds schema which has only passed columns in passed order
func (s *Schema) Subset(cols []*column.Column) (*Schema, error) {
	if _, err := s.GetKeyIndexes(cols); err != nil {
		return nil, err
	}
	return NewSchema(cols), nil
}

// GetTableNames returns distinct table names in column order
func (s *Schema) GetTableNames() []string {
	ret := make([]string, 0)
	seen := make(map[string]bool)
	for _, col := range s.columns {
		if !seen[col.GetTableName()] {
			seen[col.GetTableName()] = true
			ret = append(ret, col.GetTableName())
		}
	}
	return ret
}
