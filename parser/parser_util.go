package parser

import (
	"github.com/pingcap/errors"
	ptypes "github.com/pingcap/tidb/types"
	driver "github.com/pingcap/tidb/types/parser_driver"
	"github.com/ryogrid/SamehadaQP/common"
	"github.com/ryogrid/SamehadaQP/types"
)

type QueryType int32

const (
	SELECT QueryType = iota
	UNSUPPORTED
)

// ValueExprToValue converts a literal. Strings stay Varchar and are
// converted to the column type when the query is resolved
func ValueExprToValue(expr *driver.ValueExpr) (*types.Value, error) {
	var ret types.Value
	switch expr.Datum.Kind() {
	case ptypes.KindInt64:
		ret = types.NewInteger(int32(expr.Datum.GetInt64()))
	case ptypes.KindUint64:
		ret = types.NewInteger(int32(expr.Datum.GetUint64()))
	case ptypes.KindFloat32, ptypes.KindFloat64:
		ret = types.NewFloat(float32(expr.Datum.GetFloat64()))
	case ptypes.KindMysqlDecimal:
		fval, err := expr.Datum.GetMysqlDecimal().ToFloat64()
		if err != nil {
			return nil, errors.Annotatef(common.ErrConfiguration, "bad decimal literal: %v", err)
		}
		ret = types.NewFloat(float32(fval))
	case ptypes.KindString, ptypes.KindBytes:
		ret = types.NewVarchar(expr.Datum.GetString())
	default:
		return nil, errors.Annotatef(common.ErrConfiguration, "unsupported literal %s", expr.Datum.String())
	}
	return &ret, nil
}

func negateValue(val *types.Value) (*types.Value, error) {
	var ret types.Value
	switch val.ValueType() {
	case types.Integer:
		ret = types.NewInteger(-val.ToInteger())
	case types.Float:
		ret = types.NewFloat(-val.ToFloat())
	default:
		return nil, errors.Annotatef(common.ErrConfiguration, "can't negate %s", val.ToString())
	}
	return &ret, nil
}
