// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strconv"

	"github.com/apache/arrow/go/v17/arrow"
)

// columnKind tracks which types every non-null value of a column still fits.
type columnKind struct {
	seen    bool
	isInt   bool
	isFloat bool
	isBool  bool
}

func newColumnKind() columnKind {
	return columnKind{isInt: true, isFloat: true, isBool: true}
}

// observe narrows k by one cell. Null tokens leave it unchanged.
func (k *columnKind) observe(v string) {
	if isNull(v) {
		return
	}
	k.seen = true
	if k.isInt {
		if _, err := strconv.ParseInt(v, 10, 64); err != nil {
			k.isInt = false
		}
	}
	if k.isFloat {
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			k.isFloat = false
		}
	}
	if k.isBool && !isBoolLiteral(v) {
		k.isBool = false
	}
}

// dataType picks the narrowest type holding every observed value:
// int64, then float64, then bool, else string. A column with no values
// is string.
func (k columnKind) dataType() arrow.DataType {
	switch {
	case !k.seen:
		return arrow.BinaryTypes.String
	case k.isInt:
		return arrow.PrimitiveTypes.Int64
	case k.isFloat:
		return arrow.PrimitiveTypes.Float64
	case k.isBool:
		return arrow.FixedWidthTypes.Boolean
	}
	return arrow.BinaryTypes.String
}

func isNull(v string) bool {
	for _, n := range nullValues {
		if v == n {
			return true
		}
	}
	return false
}

// isBoolLiteral accepts the spellings of true and false, not 0/1 or t/f.
func isBoolLiteral(v string) bool {
	switch v {
	case "true", "True", "TRUE", "false", "False", "FALSE":
		return true
	}
	return false
}
