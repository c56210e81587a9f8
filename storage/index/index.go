package index

import (
	"github.com/ryogrid/SamehadaQP/execution/expression"
	"github.com/ryogrid/SamehadaQP/storage/access"
	"github.com/ryogrid/SamehadaQP/storage/index/index_constants"
	"github.com/ryogrid/SamehadaQP/storage/table/column"
	"github.com/ryogrid/SamehadaQP/types"
)

/**
 * IndexMetadata - Holds metadata of an index object
 *
 * The metadata object maintains the indexed attribute of an index.
 * indexes of this package are single column secondary indexes.
 */
type IndexMetadata struct {
	name      string
	tableName string
	keyColumn *column.Column
	kind      index_constants.IndexKind
}

func NewIndexMetadata(indexName string, tableName string, keyColumn *column.Column, kind index_constants.IndexKind) *IndexMetadata {
	return &IndexMetadata{indexName, tableName, keyColumn, kind}
}

func (im *IndexMetadata) GetName() string                     { return im.name }
func (im *IndexMetadata) GetTableName() string                { return im.tableName }
func (im *IndexMetadata) GetKeyColumn() *column.Column        { return im.keyColumn }
func (im *IndexMetadata) GetIndexKind() index_constants.IndexKind { return im.kind }

type Index interface {
	GetMetadata() *IndexMetadata
	// InsertEntry is designed for secondary indexes.
	InsertEntry(key *types.Value, rid access.RID)
	// ScanKey returns RIDs of entries whose key k satisfies "k op key"
	ScanKey(op expression.ComparisonType, key *types.Value) ([]access.RID, error)
	SupportsComparison(op expression.ComparisonType) bool
	// GetProbeCost is page reads needed by one ScanKey call
	GetProbeCost() int64
	GetNumEntries() uint64
}
