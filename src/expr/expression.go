// Package expr evaluates hidl constant expressions. A node's kind and value
// are computed the instant it is constructed from its operands and never
// change afterwards; trees are built bottom-up by the parser and are
// immutable. Values are stored as a raw 64 bit pattern that is reinterpreted
// at the node's kind when read.
package expr

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/OpenKirin-Treble/platform-system-tools-hidl/src/herrors"
	"github.com/OpenKirin-Treble/platform-system-tools-hidl/src/scalar"
)

type (
	shape int

	// Expression is a single node of a constant expression tree.
	Expression struct {
		formatted string
		op        string
		children  []*Expression
		shape     shape
		kind      scalar.Kind
		value     uint64
		err       *herrors.Error
	}
)

const (
	shapeLiteral shape = iota
	shapeUnary
	shapeBinary
	shapeTernary
	shapeUnknown
)

// integral covers the eight integer kinds a stored value can be
// reinterpreted as. Bool is dispatched separately since its operators work
// on the normalized 0/1 value.
type integral interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64
}

// NewLiteral parses literal source text, decimal or 0x/0X hex, with any
// order and case of u/l suffixes. Text that does not parse as a non-negative
// 64 bit integer yields an Unknown node that keeps the text for diagnostics.
func NewLiteral(text string) *Expression {
	ex := &Expression{formatted: text, shape: shapeLiteral}
	isHex := strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X")
	digits := text
	var isUnsigned, isLong bool
	for len(digits) > 0 {
		c := digits[len(digits)-1]
		if c == 'u' || c == 'U' {
			isUnsigned = true
		} else if c == 'l' || c == 'L' {
			isLong = true
		} else {
			break
		}
		digits = digits[:len(digits)-1]
	}

	var err error
	if isHex {
		ex.value, err = strconv.ParseUint(digits[2:], 16, 64)
	} else {
		ex.value, err = strconv.ParseUint(digits, 10, 64)
	}
	if err != nil {
		ex.shape = shapeUnknown
		ex.err = &herrors.Error{Kind: herrors.LexErr, Err: fmt.Errorf("could not parse as integer: %q", text)}
		return ex
	}

	switch {
	case isLong && isUnsigned:
		ex.kind = scalar.Uint64
	case isLong:
		ex.kind = scalar.Int64
	case isUnsigned:
		if ex.value <= math.MaxUint32 {
			ex.kind = scalar.Uint32
		} else {
			ex.kind = scalar.Uint64
		}
	case isHex:
		// hex literals take the first of int32, uint32, int64, uint64
		// that holds the value.
		switch {
		case ex.value <= math.MaxInt32:
			ex.kind = scalar.Int32
		case ex.value <= math.MaxUint32:
			ex.kind = scalar.Uint32
		case ex.value <= math.MaxInt64:
			ex.kind = scalar.Int64
		default:
			ex.kind = scalar.Uint64
		}
	default:
		// decimal literals never widen to unsigned implicitly.
		if ex.value <= math.MaxInt32 {
			ex.kind = scalar.Int32
		} else {
			ex.kind = scalar.Int64
		}
	}
	return ex
}

// NewBool returns a boolean literal node.
func NewBool(val bool) *Expression {
	ex := &Expression{shape: shapeLiteral, kind: scalar.Bool}
	if val {
		ex.formatted = "true"
		ex.value = 1
	} else {
		ex.formatted = "false"
	}
	return ex
}

// NewUnknown returns an absorbing failure node. All of its renderings fall
// back to the given source text.
func NewUnknown(text string) *Expression {
	return &Expression{formatted: text, shape: shapeUnknown}
}

// NewUnary applies + - ! ~ to a value. The result keeps the operand's kind
// unchanged; unary operators do not integral-promote.
func NewUnary(op string, val *Expression) *Expression {
	ex := &Expression{
		formatted: "(" + op + val.formatted + ")",
		op:        op,
		children:  []*Expression{val},
		shape:     shapeUnary,
		kind:      val.kind,
	}
	if val.shape == shapeUnknown {
		ex.shape = shapeUnknown
		return ex
	}
	ex.value = evalUnary(ex.kind, op, val.value)
	return ex
}

// NewBinary combines two values with an arithmetic, bitwise, comparison,
// shift, or logical operator.
func NewBinary(lval *Expression, op string, rval *Expression) *Expression {
	ex := &Expression{
		formatted: "(" + lval.formatted + " " + op + " " + rval.formatted + ")",
		op:        op,
		children:  []*Expression{lval, rval},
		shape:     shapeBinary,
	}
	if lval.shape == shapeUnknown || rval.shape == shapeUnknown {
		ex.shape = shapeUnknown
		return ex
	}

	switch {
	case isArithmeticOp(op) || isComparisonOp(op):
		promoted := scalar.UsualArithmeticConversion(
			scalar.IntegralPromotion(lval.kind),
			scalar.IntegralPromotion(rval.kind))
		if isComparisonOp(op) {
			ex.kind = scalar.Bool
		} else {
			ex.kind = promoted
		}
		ex.value = evalBinaryCommon(promoted, lval.value, op, rval.value)
	case op == "<<" || op == ">>":
		// only the left operand is promoted; the count is taken as a
		// plain 64 bit signed value.
		ex.kind = scalar.IntegralPromotion(lval.kind)
		numBits := rval.castInt64()
		if numBits < 0 {
			// shifting by a negative count shifts into the other
			// direction. A count of exactly the minimum int64 stays
			// negative through negation; converted to unsigned below
			// it becomes a count past any width, so every bit shifts
			// out, same as any other oversized count.
			if op == "<<" {
				op = ">>"
			} else {
				op = "<<"
			}
			numBits = -numBits
		}
		ex.value = evalShift(ex.kind, lval.value, op, numBits)
	case op == "&&" || op == "||":
		ex.kind = scalar.Bool
		ex.value = boolToRaw(evalLogical(lval.value != 0, op, rval.value != 0))
	default:
		panic(herrors.Internalf("could not handle binary operator %q", op))
	}
	return ex
}

// NewTernary selects between two values on a condition. The result kind is
// the usual arithmetic conversion of the two branch kinds; unlike binary
// arithmetic the branches are not integral-promoted first.
func NewTernary(cond, trueVal, falseVal *Expression) *Expression {
	ex := &Expression{
		formatted: "(" + cond.formatted + "?" + trueVal.formatted + ":" + falseVal.formatted + ")",
		children:  []*Expression{cond, trueVal, falseVal},
		shape:     shapeTernary,
	}
	if cond.shape == shapeUnknown || trueVal.shape == shapeUnknown || falseVal.shape == shapeUnknown {
		ex.shape = shapeUnknown
		return ex
	}
	ex.kind = scalar.UsualArithmeticConversion(trueVal.kind, falseVal.kind)
	chosen := falseVal
	if cond.value != 0 {
		chosen = trueVal
	}
	ex.value = reinterpret(ex.kind, chosen.value)
	return ex
}

// Expr returns the reconstructed source text of the expression. It is
// available on every node, including Unknown ones.
func (ex *Expression) Expr() string { return ex.formatted }

// Kind returns the result kind computed at construction.
func (ex *Expression) Kind() scalar.Kind { return ex.kind }

// IsUnknown reports whether the node is an absorbing failure marker.
func (ex *Expression) IsUnknown() bool { return ex.shape == shapeUnknown }

// Err returns the diagnostic recorded when a literal failed to parse, if
// any. Unknown nodes inherited from children carry no error of their own.
func (ex *Expression) Err() error {
	if ex.err == nil {
		return nil
	}
	return ex.err
}

// Value renders the value at the node's own kind.
func (ex *Expression) Value() string { return ex.render(ex.kind) }

// CppValue renders the value as a C++ literal of the requested kind,
// appending unsigned and long suffixes where the kind needs them.
func (ex *Expression) CppValue(castKind scalar.Kind) string {
	if ex.shape == shapeUnknown {
		return ex.formatted
	}
	literal := ex.render(castKind)
	// int64 minimum cannot be written as a bare decimal: 9223372036854775808
	// exceeds the positive range of int64_t. Emit a cast of the unsigned
	// literal instead, so enum x : int64_t { y = 1l << 63 } renders as
	// (int64_t)(-9223372036854775808ull).
	if castKind == scalar.Int64 && int64(ex.value) == math.MinInt64 {
		return "(" + scalar.Int64.CppType() + ")(" + literal + "ull)"
	}
	if castKind == scalar.Uint32 || castKind == scalar.Uint64 {
		literal += "u"
	}
	if castKind == scalar.Uint64 || castKind == scalar.Int64 {
		literal += "ll"
	}
	return literal
}

// JavaValue renders the value as a Java literal of the requested kind. Java
// has no unsigned types, so unsigned kinds render their bit pattern as the
// signed counterpart, and booleans render as the words true/false.
func (ex *Expression) JavaValue(castKind scalar.Kind) string {
	switch castKind {
	case scalar.Uint64:
		return ex.render(scalar.Int64)
	case scalar.Uint32:
		return ex.render(scalar.Int32)
	case scalar.Uint16:
		return ex.render(scalar.Int16)
	case scalar.Uint8:
		return ex.render(scalar.Int8)
	case scalar.Bool:
		if ex.shape == shapeUnknown {
			return ex.formatted
		}
		if ex.value != 0 {
			return "true"
		}
		return "false"
	default:
		return ex.render(castKind)
	}
}

// Description returns the value at the node's own kind prefixed with its
// C++ type spelling, for debug output.
func (ex *Expression) Description() string {
	if ex.shape == shapeUnknown {
		return ex.formatted
	}
	return "(" + ex.kind.CppType() + ")" + ex.Value()
}

// render projects the stored value onto castKind and formats it as decimal.
// Unknown nodes fall back to their source text regardless of castKind.
func (ex *Expression) render(castKind scalar.Kind) string {
	if ex.shape == shapeUnknown {
		return ex.formatted
	}
	raw := reinterpret(castKind, ex.value)
	if castKind == scalar.Bool || castKind.IsSigned() {
		return strconv.FormatInt(int64(raw), 10)
	}
	return strconv.FormatUint(raw, 10)
}

// castInt64 reads the stored value at the node's own kind as an int64.
func (ex *Expression) castInt64() int64 {
	return int64(reinterpret(ex.kind, ex.value))
}

func isArithmeticOp(op string) bool {
	switch op {
	case "+", "-", "*", "/", "%", "|", "^", "&":
		return true
	}
	return false
}

func isComparisonOp(op string) bool {
	switch op {
	case "==", "!=", "<", ">", "<=", ">=":
		return true
	}
	return false
}

// reinterpret truncates a raw stored value to kind k and re-extends it to
// 64 bits, normalizing bool to 0 or 1. Storage always holds the result of
// this normalization, so signed values are sign-extended bit patterns.
func reinterpret(k scalar.Kind, raw uint64) uint64 {
	switch k {
	case scalar.Bool:
		return boolToRaw(raw != 0)
	case scalar.Int8:
		return uint64(int8(raw))
	case scalar.Uint8:
		return uint64(uint8(raw))
	case scalar.Int16:
		return uint64(int16(raw))
	case scalar.Uint16:
		return uint64(uint16(raw))
	case scalar.Int32:
		return uint64(int32(raw))
	case scalar.Uint32:
		return uint64(uint32(raw))
	case scalar.Int64:
		return uint64(int64(raw))
	case scalar.Uint64:
		return raw
	default:
		panic(herrors.Internalf("cannot reinterpret value at non-numeric kind %v", k))
	}
}

func evalUnary(k scalar.Kind, op string, raw uint64) uint64 {
	switch k {
	case scalar.Bool:
		// operators on bool work on the normalized 0/1 value and the
		// result converts back by truthiness.
		return boolToRaw(unaryArith(op, boolToInt(raw)) != 0)
	case scalar.Int8:
		return uint64(unaryArith(op, int8(raw)))
	case scalar.Uint8:
		return uint64(unaryArith(op, uint8(raw)))
	case scalar.Int16:
		return uint64(unaryArith(op, int16(raw)))
	case scalar.Uint16:
		return uint64(unaryArith(op, uint16(raw)))
	case scalar.Int32:
		return uint64(unaryArith(op, int32(raw)))
	case scalar.Uint32:
		return uint64(unaryArith(op, uint32(raw)))
	case scalar.Int64:
		return uint64(unaryArith(op, int64(raw)))
	case scalar.Uint64:
		return unaryArith(op, raw)
	default:
		panic(herrors.Internalf("unary %q on non-numeric kind %v", op, k))
	}
}

func evalBinaryCommon(k scalar.Kind, lraw uint64, op string, rraw uint64) uint64 {
	switch k {
	case scalar.Bool:
		return boolToRaw(binaryArith(boolToInt(lraw), op, boolToInt(rraw)) != 0)
	case scalar.Int8:
		return uint64(binaryArith(int8(lraw), op, int8(rraw)))
	case scalar.Uint8:
		return uint64(binaryArith(uint8(lraw), op, uint8(rraw)))
	case scalar.Int16:
		return uint64(binaryArith(int16(lraw), op, int16(rraw)))
	case scalar.Uint16:
		return uint64(binaryArith(uint16(lraw), op, uint16(rraw)))
	case scalar.Int32:
		return uint64(binaryArith(int32(lraw), op, int32(rraw)))
	case scalar.Uint32:
		return uint64(binaryArith(uint32(lraw), op, uint32(rraw)))
	case scalar.Int64:
		return uint64(binaryArith(int64(lraw), op, int64(rraw)))
	case scalar.Uint64:
		return binaryArith(lraw, op, rraw)
	default:
		panic(herrors.Internalf("binary %q on non-numeric kind %v", op, k))
	}
}

func evalShift(k scalar.Kind, lraw uint64, op string, numBits int64) uint64 {
	switch k {
	case scalar.Bool:
		return boolToRaw(shiftArith(boolToInt(lraw), op, numBits) != 0)
	case scalar.Int8:
		return uint64(shiftArith(int8(lraw), op, numBits))
	case scalar.Uint8:
		return uint64(shiftArith(uint8(lraw), op, numBits))
	case scalar.Int16:
		return uint64(shiftArith(int16(lraw), op, numBits))
	case scalar.Uint16:
		return uint64(shiftArith(uint16(lraw), op, numBits))
	case scalar.Int32:
		return uint64(shiftArith(int32(lraw), op, numBits))
	case scalar.Uint32:
		return uint64(shiftArith(uint32(lraw), op, numBits))
	case scalar.Int64:
		return uint64(shiftArith(int64(lraw), op, numBits))
	case scalar.Uint64:
		return shiftArith(lraw, op, numBits)
	default:
		panic(herrors.Internalf("shift %q on non-numeric kind %v", op, k))
	}
}

func unaryArith[T integral](op string, val T) T {
	switch op {
	case "+":
		return val
	case "-":
		return -val
	case "!":
		return boolTo[T](val == 0)
	case "~":
		return ^val
	default:
		panic(herrors.Internalf("could not handle unary %q", op))
	}
}

func binaryArith[T integral](lval T, op string, rval T) T {
	switch op {
	case "+":
		return lval + rval
	case "-":
		return lval - rval
	case "*":
		return lval * rval
	case "/":
		return lval / rval
	case "%":
		return lval % rval
	case "|":
		return lval | rval
	case "^":
		return lval ^ rval
	case "&":
		return lval & rval
	case "==":
		return boolTo[T](lval == rval)
	case "!=":
		return boolTo[T](lval != rval)
	case "<":
		return boolTo[T](lval < rval)
	case ">":
		return boolTo[T](lval > rval)
	case "<=":
		return boolTo[T](lval <= rval)
	case ">=":
		return boolTo[T](lval >= rval)
	default:
		panic(herrors.Internalf("could not handle binary %q", op))
	}
}

// shiftArith shifts by a non-negative count. Counts at or beyond the width
// of T shift every bit out: the result is 0, or all sign bits for a signed
// right shift, as Go defines.
func shiftArith[T integral](lval T, op string, numBits int64) T {
	switch op {
	case "<<":
		return lval << uint64(numBits)
	case ">>":
		return lval >> uint64(numBits)
	default:
		panic(herrors.Internalf("could not handle shift %q", op))
	}
}

func evalLogical(lval bool, op string, rval bool) bool {
	switch op {
	case "&&":
		return lval && rval
	case "||":
		return lval || rval
	default:
		panic(herrors.Internalf("could not handle logical %q", op))
	}
}

func boolTo[T integral](b bool) T {
	if b {
		return 1
	}
	return 0
}

func boolToRaw(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func boolToInt(raw uint64) int64 {
	if raw != 0 {
		return 1
	}
	return 0
}
