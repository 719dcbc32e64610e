package vxfile

import (
	"github.com/colvex/colvex/colvexerr"
	"github.com/colvex/colvex/expr"
	"github.com/colvex/colvex/scalar"
)

// exprTag discriminates an expression node's wire form (spec §6.4:
// "a recursive kind-tagged message for Identity/Literal/GetItem/Select/
// BinaryExpr/BinaryNumeric/IsNull").
type exprTag byte

const (
	exprIdentity exprTag = iota
	exprLiteral
	exprGetItem
	exprSelect
	exprBinary
	exprBinaryNumeric
	exprIsNull
)

// EncodeExpr serializes e into its wire form.
func EncodeExpr(e expr.Expr) ([]byte, error) {
	return appendExpr(nil, e)
}

func appendExpr(buf []byte, e expr.Expr) ([]byte, error) {
	if expr.Equal(e, expr.Ident) {
		return append(buf, byte(exprIdentity)), nil
	}
	if lit, ok := expr.AsLiteral(e); ok {
		buf = append(buf, byte(exprLiteral))
		buf = append(buf, appendDType(nil, lit.DType())...)
		return appendLenPrefixedBytes(buf, scalar.Encode(lit)), nil
	}
	if field, child, ok := expr.AsGetItem(e); ok {
		buf = append(buf, byte(exprGetItem))
		buf = appendLenPrefixedString(buf, field)
		return appendExpr(buf, child)
	}
	if fields, exclude, child, ok := expr.AsSelect(e); ok {
		buf = append(buf, byte(exprSelect))
		excludeByte := byte(0)
		if exclude {
			excludeByte = 1
		}
		buf = append(buf, excludeByte)
		buf = appendUvarint(buf, uint64(len(fields)))
		for _, f := range fields {
			buf = appendLenPrefixedString(buf, f)
		}
		return appendExpr(buf, child)
	}
	if lhs, op, rhs, ok := expr.AsBinary(e); ok {
		buf = append(buf, byte(exprBinary))
		buf = append(buf, byte(op))
		var err error
		buf, err = appendExpr(buf, lhs)
		if err != nil {
			return nil, err
		}
		return appendExpr(buf, rhs)
	}
	if lhs, op, rhs, ok := expr.AsBinaryNumeric(e); ok {
		buf = append(buf, byte(exprBinaryNumeric))
		buf = append(buf, byte(op))
		var err error
		buf, err = appendExpr(buf, lhs)
		if err != nil {
			return nil, err
		}
		return appendExpr(buf, rhs)
	}
	if child, ok := expr.AsIsNull(e); ok {
		buf = append(buf, byte(exprIsNull))
		return appendExpr(buf, child)
	}
	return nil, colvexerr.New(colvexerr.NotSupported, "expr wire: unrecognized expression node %q", e.String())
}

// DecodeExpr parses an expression from the front of data, returning the
// remaining bytes.
func DecodeExpr(data []byte) (expr.Expr, []byte, error) {
	if len(data) < 1 {
		return nil, nil, colvexerr.New(colvexerr.InvalidSerde, "expr wire: truncated tag")
	}
	tag := exprTag(data[0])
	rest := data[1:]

	switch tag {
	case exprIdentity:
		return expr.Ident, rest, nil
	case exprLiteral:
		dt, rest, err := DecodeDType(rest)
		if err != nil {
			return nil, nil, err
		}
		raw, rest, err := readLenPrefixedBytes(rest)
		if err != nil {
			return nil, nil, err
		}
		value, _, err := scalar.Decode(dt, raw)
		if err != nil {
			return nil, nil, err
		}
		return expr.Literal(value), rest, nil
	case exprGetItem:
		field, rest, err := readLenPrefixedString(rest)
		if err != nil {
			return nil, nil, err
		}
		child, rest, err := DecodeExpr(rest)
		if err != nil {
			return nil, nil, err
		}
		return expr.GetItem(field, child), rest, nil
	case exprSelect:
		if len(rest) < 1 {
			return nil, nil, colvexerr.New(colvexerr.InvalidSerde, "expr wire: truncated select")
		}
		exclude := rest[0] != 0
		rest = rest[1:]
		count, rest, err := readUvarint(rest)
		if err != nil {
			return nil, nil, err
		}
		fields := make([]string, count)
		for i := range fields {
			fields[i], rest, err = readLenPrefixedString(rest)
			if err != nil {
				return nil, nil, err
			}
		}
		child, rest, err := DecodeExpr(rest)
		if err != nil {
			return nil, nil, err
		}
		if exclude {
			return expr.SelectExclude(fields, child), rest, nil
		}
		return expr.Select(fields, child), rest, nil
	case exprBinary:
		if len(rest) < 1 {
			return nil, nil, colvexerr.New(colvexerr.InvalidSerde, "expr wire: truncated binary")
		}
		op := expr.BinaryOp(rest[0])
		rest = rest[1:]
		lhs, rest, err := DecodeExpr(rest)
		if err != nil {
			return nil, nil, err
		}
		rhs, rest, err := DecodeExpr(rest)
		if err != nil {
			return nil, nil, err
		}
		return expr.BinaryExpr(lhs, op, rhs), rest, nil
	case exprBinaryNumeric:
		if len(rest) < 1 {
			return nil, nil, colvexerr.New(colvexerr.InvalidSerde, "expr wire: truncated binary numeric")
		}
		op := expr.NumericOp(rest[0])
		rest = rest[1:]
		lhs, rest, err := DecodeExpr(rest)
		if err != nil {
			return nil, nil, err
		}
		rhs, rest, err := DecodeExpr(rest)
		if err != nil {
			return nil, nil, err
		}
		return expr.BinaryNumeric(lhs, op, rhs), rest, nil
	case exprIsNull:
		child, rest, err := DecodeExpr(rest)
		if err != nil {
			return nil, nil, err
		}
		return expr.IsNull(child), rest, nil
	default:
		return nil, nil, colvexerr.New(colvexerr.InvalidSerde, "expr wire: unknown tag %d", tag)
	}
}
