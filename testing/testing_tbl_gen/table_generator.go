package testing_tbl_gen

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/pingcap/errors"
	"github.com/ryogrid/SamehadaQP/catalog"
	"github.com/ryogrid/SamehadaQP/common"
	"github.com/ryogrid/SamehadaQP/storage/disk"
	"github.com/ryogrid/SamehadaQP/storage/table/column"
	"github.com/ryogrid/SamehadaQP/storage/table/schema"
	"github.com/ryogrid/SamehadaQP/storage/tuple"
	"github.com/ryogrid/SamehadaQP/types"
)

type ColumnInsertMeta struct {
	/**
	 * Name of the column
	 */
	Name_ string
	/**
	 * Type of the column
	 */
	Type_ types.TypeID
	/**
	 * Distribution of values
	 */
	Dist_ int32
	/**
	 * min value of the column
	 */
	Min_ int32
	/**
	 * max value of the column (inclusive)
	 */
	Max_ int32
	/**
	 * Counter to generate serial data
	 */
	Serial_counter_ int32
}

type TableInsertMeta struct {
	/**
	 * Name of the table
	 */
	Name_ string
	/**
	 * Number of rows
	 */
	Num_rows_ uint32
	/**
	 * Columns
	 */
	Col_meta_ []*ColumnInsertMeta
}

const DistSerial int32 = 0
const DistUniform int32 = 1

const TEST_R_SIZE uint32 = 100
const TEST_S_SIZE uint32 = 50
const TEST_T_SIZE uint32 = 40

var baseDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

func genInt(col_meta *ColumnInsertMeta, rnd *rand.Rand) int32 {
	if col_meta.Dist_ == DistSerial {
		ret := col_meta.Min_ + col_meta.Serial_counter_
		col_meta.Serial_counter_++
		return ret
	}
	return col_meta.Min_ + rnd.Int31n(col_meta.Max_-col_meta.Min_+1)
}

func MakeValues(col_meta *ColumnInsertMeta, count uint32, rnd *rand.Rand) []types.Value {
	values := make([]types.Value, 0, count)
	for i := uint32(0); i < count; i++ {
		n := genInt(col_meta, rnd)
		switch col_meta.Type_ {
		case types.Integer:
			values = append(values, types.NewInteger(n))
		case types.Float:
			values = append(values, types.NewFloat(float32(n)/4))
		case types.Varchar:
			values = append(values, types.NewVarchar(fmt.Sprintf("v%05d", n)))
		case types.Date:
			values = append(values, types.NewDate(baseDate.AddDate(0, 0, int(n))))
		default:
			panic("Not yet implemented")
		}
	}
	return values
}

func SchemaOf(table_meta *TableInsertMeta) *schema.Schema {
	cols := make([]*column.Column, 0, len(table_meta.Col_meta_))
	for _, col_meta := range table_meta.Col_meta_ {
		cols = append(cols, column.NewColumn(table_meta.Name_, col_meta.Name_, col_meta.Type_))
	}
	return schema.NewSchema(cols)
}

// FillTable inserts generated rows. indexes of the table are updated by catalog
func FillTable(info *catalog.TableMetadata, table_meta *TableInsertMeta, rnd *rand.Rand) error {
	columnValues := make([][]types.Value, 0, len(table_meta.Col_meta_))
	for _, col_meta := range table_meta.Col_meta_ {
		columnValues = append(columnValues, MakeValues(col_meta, table_meta.Num_rows_, rnd))
	}
	for i := uint32(0); i < table_meta.Num_rows_; i++ {
		entry := make([]types.Value, 0, len(columnValues))
		for idx := range columnValues {
			entry = append(entry, columnValues[idx][i])
		}
		if _, err := info.InsertTuple(tuple.NewTuple(entry)); err != nil {
			return errors.Annotatef(err, "InsertTuple failed on FillTable of %s", table_meta.Name_)
		}
	}
	return info.UpdateStatistics()
}

// CreateAndFillTable creates table of table_meta on c and fills it
func CreateAndFillTable(c *catalog.Catalog, table_meta *TableInsertMeta, rnd *rand.Rand) (*catalog.TableMetadata, error) {
	info, err := c.CreateTable(table_meta.Name_, SchemaOf(table_meta))
	if err != nil {
		return nil, err
	}
	if err := FillTable(info, table_meta, rnd); err != nil {
		return nil, err
	}
	return info, nil
}

// NewTestCatalog returns catalog whose tables are on memory
func NewTestCatalog(pageSize uint32) *catalog.Catalog {
	return catalog.NewCatalog(disk.NewVirtualDiskManagerImpl(), pageSize)
}

// GenerateTestTables creates R(a, b) with 100 rows and S(b, c) with 50 rows.
// R.b and S.b share the domain [0, 19]
func GenerateTestTables(c *catalog.Catalog, rnd *rand.Rand) (*catalog.TableMetadata, *catalog.TableMetadata, error) {
	tableMetaR := &TableInsertMeta{"r",
		TEST_R_SIZE,
		[]*ColumnInsertMeta{
			{"a", types.Integer, DistSerial, 0, 0, 0},
			{"b", types.Integer, DistUniform, 0, 19, 0},
		}}
	tableMetaS := &TableInsertMeta{"s",
		TEST_S_SIZE,
		[]*ColumnInsertMeta{
			{"b", types.Integer, DistUniform, 0, 19, 0},
			{"c", types.Integer, DistSerial, 1000, 0, 0},
		}}
	r, err := CreateAndFillTable(c, tableMetaR, rnd)
	if err != nil {
		return nil, nil, err
	}
	s, err := CreateAndFillTable(c, tableMetaS, rnd)
	if err != nil {
		return nil, nil, err
	}
	common.ShPrintf(common.DEBUG_INFO, "test tables: r %d pages, s %d pages\n", r.Table().NumPages(), s.Table().NumPages())
	return r, s, nil
}

// GenerateTestTableT creates T(c, d) with 40 rows. T.c shares the domain of S.c
func GenerateTestTableT(c *catalog.Catalog, rnd *rand.Rand) (*catalog.TableMetadata, error) {
	tableMetaT := &TableInsertMeta{"t",
		TEST_T_SIZE,
		[]*ColumnInsertMeta{
			{"c", types.Integer, DistUniform, 1000, 1000 + int32(TEST_S_SIZE) - 1, 0},
			{"d", types.Integer, DistUniform, 0, 9, 0},
		}}
	return CreateAndFillTable(c, tableMetaT, rnd)
}
