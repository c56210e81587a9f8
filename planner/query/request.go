package query

import (
	"strings"

	"github.com/pingcap/errors"
	"github.com/ryogrid/SamehadaQP/catalog"
	"github.com/ryogrid/SamehadaQP/common"
	"github.com/ryogrid/SamehadaQP/execution/expression"
	"github.com/ryogrid/SamehadaQP/parser"
	"github.com/ryogrid/SamehadaQP/storage/table/column"
	"github.com/ryogrid/SamehadaQP/types"
)

// Request is a resolved select-project-join query
type Request struct {
	Projections_ []*column.Column
	IsWildcard_  bool
	IsDistinct_  bool
	Tables_      []string
	SelectConds_ []*expression.Condition
	JoinConds_   []*expression.Condition
	GroupBys_    []*column.Column
}

func NewRequest(tables []string) *Request {
	return &Request{
		Projections_: make([]*column.Column, 0),
		IsWildcard_:  true,
		Tables_:      tables,
		SelectConds_: make([]*expression.Condition, 0),
		JoinConds_:   make([]*expression.Condition, 0),
		GroupBys_:    make([]*column.Column, 0),
	}
}

func (r *Request) GetNumTables() int {
	return len(r.Tables_)
}

func (r *Request) String() string {
	b := new(strings.Builder)
	b.WriteString("SELECT ")
	if r.IsDistinct_ {
		b.WriteString("DISTINCT ")
	}
	if r.IsWildcard_ {
		b.WriteString("*")
	} else {
		names := make([]string, 0, len(r.Projections_))
		for _, col := range r.Projections_ {
			names = append(names, col.GetQualifiedName())
		}
		b.WriteString(strings.Join(names, ", "))
	}
	b.WriteString(" FROM " + strings.Join(r.Tables_, ", "))
	conds := make([]string, 0)
	for _, cond := range append(append(make([]*expression.Condition, 0), r.JoinConds_...), r.SelectConds_...) {
		conds = append(conds, cond.String())
	}
	if len(conds) > 0 {
		b.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	if len(r.GroupBys_) > 0 {
		names := make([]string, 0, len(r.GroupBys_))
		for _, col := range r.GroupBys_ {
			names = append(names, col.GetQualifiedName())
		}
		b.WriteString(" GROUP BY " + strings.Join(names, ", "))
	}
	return b.String()
}

type resolver struct {
	catalog *catalog.Catalog
	tables  []*catalog.TableMetadata
}

// Resolve binds names of qi to catalog columns. literals are converted
// to the type of the compared column
func Resolve(qi *parser.QueryInfo, c *catalog.Catalog) (*Request, error) {
	if qi == nil || *qi.QueryType_ != parser.SELECT {
		return nil, errors.Annotate(common.ErrConfiguration, "only SELECT query can be resolved")
	}
	rs := &resolver{c, make([]*catalog.TableMetadata, 0)}

	tables := make([]string, 0, len(qi.JoinTables_))
	for _, name := range qi.JoinTables_ {
		tm := c.GetTableByName(*name)
		if tm == nil {
			return nil, errors.Annotatef(common.ErrConfiguration, "unknown table %s", *name)
		}
		for _, seen := range tables {
			if seen == tm.GetTableName() {
				return nil, errors.Annotatef(common.ErrConfiguration, "table %s appears twice", seen)
			}
		}
		tables = append(tables, tm.GetTableName())
		rs.tables = append(rs.tables, tm)
	}
	if len(tables) == 0 {
		return nil, errors.Annotate(common.ErrConfiguration, "no table is specified")
	}

	ret := NewRequest(tables)
	ret.IsDistinct_ = qi.IsDistinct_
	ret.IsWildcard_ = qi.IsWildcard()
	if !ret.IsWildcard_ {
		for _, field := range qi.SelectFields_ {
			col, err := rs.resolveColumn(field)
			if err != nil {
				return nil, err
			}
			ret.Projections_ = append(ret.Projections_, col)
		}
	}

	preds, err := qi.GetPredicates()
	if err != nil {
		return nil, err
	}
	for _, pred := range preds {
		cond, err := rs.resolvePredicate(pred)
		if err != nil {
			return nil, err
		}
		if cond.GetKind() == expression.SelectCondition {
			ret.SelectConds_ = append(ret.SelectConds_, cond)
		} else {
			ret.JoinConds_ = append(ret.JoinConds_, cond)
		}
	}

	for _, field := range qi.GroupByFields_ {
		col, err := rs.resolveColumn(field)
		if err != nil {
			return nil, err
		}
		ret.GroupBys_ = append(ret.GroupBys_, col)
	}
	if len(ret.GroupBys_) > 0 && !ret.IsWildcard_ {
		for _, col := range ret.Projections_ {
			if !containsColumn(ret.GroupBys_, col) {
				return nil, errors.Annotatef(common.ErrConfiguration, "%s is not a grouping column", col.GetQualifiedName())
			}
		}
	}
	return ret, nil
}

func containsColumn(cols []*column.Column, col *column.Column) bool {
	for _, c := range cols {
		if c.Equals(col) {
			return true
		}
	}
	return false
}

func (rs *resolver) resolveColumn(ref *parser.ColumnRefExpression) (*column.Column, error) {
	var found *column.Column
	for _, tm := range rs.tables {
		if ref.TableName_ != nil && *ref.TableName_ != tm.GetTableName() {
			continue
		}
		schema_ := tm.Schema()
		for _, col := range schema_.GetColumns() {
			if strings.EqualFold(col.GetColumnName(), *ref.ColName_) {
				if found != nil {
					return nil, errors.Annotatef(common.ErrConfiguration, "column %s is ambiguous", ref.String())
				}
				found = col
			}
		}
	}
	if found == nil {
		return nil, errors.Annotatef(common.ErrConfiguration, "unknown column %s", ref.String())
	}
	return found, nil
}

func (rs *resolver) resolvePredicate(pred *parser.BinaryOpExpression) (*expression.Condition, error) {
	op := pred.ComparisonOperationType_
	l, r := pred.GetOperands()
	lref, lIsCol := l.(*parser.ColumnRefExpression)
	rref, rIsCol := r.(*parser.ColumnRefExpression)

	switch {
	case lIsCol && rIsCol:
		lcol, err := rs.resolveColumn(lref)
		if err != nil {
			return nil, err
		}
		rcol, err := rs.resolveColumn(rref)
		if err != nil {
			return nil, err
		}
		if lcol.GetTableName() == rcol.GetTableName() {
			return nil, errors.Annotatef(common.ErrConfiguration, "comparison of two columns of %s is not supported", lcol.GetTableName())
		}
		if lcol.GetType() != rcol.GetType() {
			return nil, errors.Annotatef(common.ErrConfiguration, "type mismatch: %s is %v but %s is %v",
				lcol.GetQualifiedName(), lcol.GetType(), rcol.GetQualifiedName(), rcol.GetType())
		}
		return expression.NewJoinCondition(lcol, op, rcol), nil
	case lIsCol || rIsCol:
		ref := lref
		lit := r
		if !lIsCol {
			// literal op column is column flip(op) literal
			ref, lit, op = rref, l, op.Flip()
		}
		col, err := rs.resolveColumn(ref)
		if err != nil {
			return nil, err
		}
		val, err := convertLiteral(lit.(*types.Value), col)
		if err != nil {
			return nil, err
		}
		return expression.NewSelectCondition(col, op, val), nil
	default:
		return nil, errors.Annotatef(common.ErrConfiguration, "comparison of two literals: %s", pred.String())
	}
}

func convertLiteral(lit *types.Value, col *column.Column) (types.Value, error) {
	if lit.ValueType() == col.GetType() {
		return *lit, nil
	}
	if lit.ValueType() == types.Varchar && col.GetType() != types.Date {
		return types.Value{}, errors.Annotatef(common.ErrConfiguration, "type mismatch: %s is %v but '%s'",
			col.GetQualifiedName(), col.GetType(), lit.ToString())
	}
	ret, err := types.NewValueFromString(lit.ToString(), col.GetType())
	if err != nil {
		return types.Value{}, errors.Annotatef(err, "type mismatch at %s", col.GetQualifiedName())
	}
	return ret, nil
}
