package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenKirin-Treble/platform-system-tools-hidl/src/scalar"
)

type literalTest struct {
	text  string
	kind  scalar.Kind
	value string
}

func TestLiteralKinds(t *testing.T) {
	t.Parallel()
	tests := []literalTest{
		{"0", scalar.Int32, "0"},
		{"10", scalar.Int32, "10"},
		{"10u", scalar.Uint32, "10"},
		{"10U", scalar.Uint32, "10"},
		{"10l", scalar.Int64, "10"},
		{"10L", scalar.Int64, "10"},
		{"10ul", scalar.Uint64, "10"},
		{"10UL", scalar.Uint64, "10"},
		{"10uL", scalar.Uint64, "10"},
		{"10Ul", scalar.Uint64, "10"},
		{"10lu", scalar.Uint64, "10"},
		{"10LU", scalar.Uint64, "10"},
		{"2147483647", scalar.Int32, "2147483647"},
		{"2147483648", scalar.Int64, "2147483648"},
		{"4294967295u", scalar.Uint32, "4294967295"},
		{"4294967296u", scalar.Uint64, "4294967296"},
		{"0x7FFFFFFF", scalar.Int32, "2147483647"},
		{"0x80000000", scalar.Uint32, "2147483648"},
		{"0xFFFFFFFF", scalar.Uint32, "4294967295"},
		{"0x100000000", scalar.Int64, "4294967296"},
		{"0x7FFFFFFFFFFFFFFF", scalar.Int64, "9223372036854775807"},
		{"0x8000000000000000", scalar.Uint64, "9223372036854775808"},
		{"0xFFFFFFFFFFFFFFFF", scalar.Uint64, "18446744073709551615"},
		{"0Xff", scalar.Int32, "255"},
		{"0xFFull", scalar.Uint64, "255"},
	}
	for _, test := range tests {
		ex := NewLiteral(test.text)
		require.False(t, ex.IsUnknown(), "literal %q", test.text)
		assert.Equal(t, test.kind, ex.Kind(), "kind of %q", test.text)
		assert.Equal(t, test.value, ex.Value(), "value of %q", test.text)
		assert.Equal(t, test.text, ex.Expr())
	}
}

func TestLiteralMalformed(t *testing.T) {
	t.Parallel()
	for _, text := range []string{"", "abc", "123abc", "0x", "ul", "1.5", "-1", "0xG1", "18446744073709551616"} {
		ex := NewLiteral(text)
		assert.True(t, ex.IsUnknown(), "literal %q", text)
		assert.Error(t, ex.Err(), "literal %q", text)
		// every rendering falls back to the source text.
		assert.Equal(t, text, ex.Expr())
		assert.Equal(t, text, ex.Value())
		assert.Equal(t, text, ex.CppValue(scalar.Int64))
		assert.Equal(t, text, ex.JavaValue(scalar.Bool))
		assert.Equal(t, text, ex.Description())
	}
}

func TestUnknownPropagation(t *testing.T) {
	t.Parallel()
	bad := NewLiteral("wat")
	require.True(t, bad.IsUnknown())

	// unknown is absorbing through arbitrarily deep trees.
	ex := NewBinary(bad, "+", NewLiteral("1"))
	for i := 0; i < 10; i++ {
		ex = NewBinary(NewLiteral("2"), "*", ex)
		ex = NewUnary("-", ex)
		ex = NewTernary(NewBool(true), ex, NewLiteral("0"))
	}
	assert.True(t, ex.IsUnknown())
	assert.NoError(t, ex.Err(), "inherited unknowns carry no diagnostic of their own")
	assert.Equal(t, ex.Expr(), ex.Value())

	unknown := NewUnknown("SOME_CONST")
	assert.True(t, unknown.IsUnknown())
	assert.Equal(t, "SOME_CONST", unknown.CppValue(scalar.Int32))
}

func TestUnaryKeepsKind(t *testing.T) {
	t.Parallel()
	tests := []struct {
		op    string
		text  string
		kind  scalar.Kind
		value string
	}{
		{"-", "1", scalar.Int32, "-1"},
		{"+", "1", scalar.Int32, "1"},
		{"-", "1u", scalar.Uint32, "4294967295"},
		{"-", "1ul", scalar.Uint64, "18446744073709551615"},
		{"~", "0u", scalar.Uint32, "4294967295"},
		{"~", "0", scalar.Int32, "-1"},
		{"!", "0", scalar.Int32, "1"},
		{"!", "7", scalar.Int32, "0"},
	}
	for _, test := range tests {
		ex := NewUnary(test.op, NewLiteral(test.text))
		assert.Equal(t, test.kind, ex.Kind(), "%s%s", test.op, test.text)
		assert.Equal(t, test.value, ex.Value(), "%s%s", test.op, test.text)
	}

	// unary operators on bool stay bool.
	assert.Equal(t, scalar.Bool, NewUnary("!", NewBool(true)).Kind())
	assert.Equal(t, "0", NewUnary("!", NewBool(true)).Value())
	assert.Equal(t, "1", NewUnary("~", NewBool(true)).Value())
	assert.Equal(t, "1", NewUnary("-", NewBool(true)).Value())
}

func TestBinaryArithmetic(t *testing.T) {
	t.Parallel()
	tests := []struct {
		lft, op, rgt string
		kind         scalar.Kind
		value        string
	}{
		{"1", "+", "2", scalar.Int32, "3"},
		{"1u", "+", "2", scalar.Uint32, "3"},
		{"7", "/", "2", scalar.Int32, "3"},
		{"7", "%", "3", scalar.Int32, "1"},
		{"6", "*", "7", scalar.Int32, "42"},
		{"0xF0", "|", "0x0F", scalar.Int32, "255"},
		{"0xFF", "&", "0x0F", scalar.Int32, "15"},
		{"0xFF", "^", "0x0F", scalar.Int32, "240"},
		// unsigned overflow wraps.
		{"4294967295u", "+", "1", scalar.Uint32, "0"},
		{"0u", "-", "1", scalar.Uint32, "4294967295"},
		// a 64 bit operand widens the working kind.
		{"1l", "+", "2", scalar.Int64, "3"},
		{"1ul", "+", "2", scalar.Uint64, "3"},
	}
	for _, test := range tests {
		ex := NewBinary(NewLiteral(test.lft), test.op, NewLiteral(test.rgt))
		assert.Equal(t, test.kind, ex.Kind(), "%s %s %s", test.lft, test.op, test.rgt)
		assert.Equal(t, test.value, ex.Value(), "%s %s %s", test.lft, test.op, test.rgt)
	}
}

func TestBinaryComparison(t *testing.T) {
	t.Parallel()
	tests := []struct {
		lft, op, rgt string
		value        string
	}{
		{"1", "<", "2", "1"},
		{"3", "<", "2", "0"},
		{"2", "==", "2", "1"},
		{"2", "!=", "2", "0"},
		{"2", ">=", "2", "1"},
		{"2", "<=", "1", "0"},
	}
	for _, test := range tests {
		ex := NewBinary(NewLiteral(test.lft), test.op, NewLiteral(test.rgt))
		assert.Equal(t, scalar.Bool, ex.Kind(), "%s %s %s", test.lft, test.op, test.rgt)
		assert.Equal(t, test.value, ex.Value(), "%s %s %s", test.lft, test.op, test.rgt)
	}

	// the comparison runs at the converted working kind: -1 converts to
	// uint32 when compared against a uint32 operand.
	ex := NewBinary(NewLiteral("0xFFFFFFFF"), ">", NewUnary("-", NewLiteral("1")))
	assert.Equal(t, scalar.Bool, ex.Kind())
	assert.Equal(t, "0", ex.Value())
}

func TestBinaryShift(t *testing.T) {
	t.Parallel()
	ex := NewBinary(NewLiteral("1"), "<<", NewLiteral("3"))
	assert.Equal(t, scalar.Int32, ex.Kind())
	assert.Equal(t, "8", ex.Value())

	// the result kind comes from the promoted left operand only; an
	// unsigned right operand does not widen it.
	ex = NewBinary(NewLiteral("1"), "<<", NewLiteral("3u"))
	assert.Equal(t, scalar.Int32, ex.Kind())

	// a negative count shifts into the other direction.
	neg := NewBinary(NewLiteral("16"), "<<", NewUnary("-", NewLiteral("3")))
	pos := NewBinary(NewLiteral("16"), ">>", NewLiteral("3"))
	assert.Equal(t, pos.Value(), neg.Value())
	assert.Equal(t, "2", neg.Value())

	neg = NewBinary(NewLiteral("2"), ">>", NewUnary("-", NewLiteral("4")))
	assert.Equal(t, "32", neg.Value())

	// counts at or past the operand width shift every bit out.
	ex = NewBinary(NewLiteral("1"), "<<", NewLiteral("32"))
	assert.Equal(t, scalar.Int32, ex.Kind())
	assert.Equal(t, "0", ex.Value())

	// the minimum int64 count survives negation still negative and acts
	// as an oversized count in the flipped direction.
	minCount := NewUnary("-", NewLiteral("9223372036854775808"))
	require.Equal(t, scalar.Int64, minCount.Kind())
	ex = NewBinary(NewLiteral("1"), "<<", minCount)
	assert.Equal(t, scalar.Int32, ex.Kind())
	assert.Equal(t, "0", ex.Value())
	ex = NewBinary(NewUnary("-", NewLiteral("8")), ">>", minCount)
	assert.Equal(t, "0", ex.Value())

	// sign extension on arithmetic right shift.
	ex = NewBinary(NewUnary("-", NewLiteral("8")), ">>", NewLiteral("1"))
	assert.Equal(t, "-4", ex.Value())

	ex = NewBinary(NewLiteral("1l"), "<<", NewLiteral("63"))
	assert.Equal(t, scalar.Int64, ex.Kind())
	assert.Equal(t, "-9223372036854775808", ex.Value())
}

func TestBinaryLogical(t *testing.T) {
	t.Parallel()
	tests := []struct {
		lft, op, rgt string
		value        string
	}{
		{"1", "&&", "0", "0"},
		{"7", "&&", "2", "1"},
		{"0", "||", "0", "0"},
		{"0", "||", "9u", "1"},
	}
	for _, test := range tests {
		ex := NewBinary(NewLiteral(test.lft), test.op, NewLiteral(test.rgt))
		assert.Equal(t, scalar.Bool, ex.Kind(), "%s %s %s", test.lft, test.op, test.rgt)
		assert.Equal(t, test.value, ex.Value(), "%s %s %s", test.lft, test.op, test.rgt)
	}
}

func TestBinaryUnknownOperator(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { NewBinary(NewLiteral("1"), "**", NewLiteral("2")) })
	assert.Panics(t, func() { NewUnary("#", NewLiteral("1")) })
}

func TestTernary(t *testing.T) {
	t.Parallel()
	// result kind is the usual arithmetic conversion of the branches,
	// without integral promotion.
	ex := NewTernary(NewBool(true), NewLiteral("1"), NewLiteral("2u"))
	assert.Equal(t, scalar.Uint32, ex.Kind())
	assert.Equal(t, "1", ex.Value())

	ex = NewTernary(NewBool(false), NewLiteral("1"), NewLiteral("2u"))
	assert.Equal(t, "2", ex.Value())

	ex = NewTernary(NewBool(true), NewBool(true), NewBool(false))
	assert.Equal(t, scalar.Bool, ex.Kind())

	// condition truthiness is a raw nonzero check, whatever its kind.
	ex = NewTernary(NewLiteral("42"), NewLiteral("1"), NewLiteral("2"))
	assert.Equal(t, "1", ex.Value())

	// the chosen branch is reinterpreted at the result kind.
	ex = NewTernary(NewBool(true), NewUnary("-", NewLiteral("1")), NewLiteral("2ul"))
	assert.Equal(t, scalar.Uint64, ex.Kind())
	assert.Equal(t, "18446744073709551615", ex.Value())
}

func TestCppValue(t *testing.T) {
	t.Parallel()
	tests := []struct {
		ex   *Expression
		cast scalar.Kind
		want string
	}{
		{NewLiteral("10"), scalar.Int32, "10"},
		{NewLiteral("10u"), scalar.Uint32, "10u"},
		{NewLiteral("10l"), scalar.Int64, "10ll"},
		{NewLiteral("10ul"), scalar.Uint64, "10ull"},
		{NewUnary("-", NewLiteral("1")), scalar.Int32, "-1"},
		{NewUnary("-", NewLiteral("1")), scalar.Uint32, "4294967295u"},
		{NewBool(true), scalar.Bool, "1"},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, test.ex.CppValue(test.cast), "%s as %v", test.ex.Expr(), test.cast)
	}

	// int64 minimum renders as a cast of the unsigned literal: the bare
	// decimal would exceed the positive range of int64_t.
	min := NewBinary(NewLiteral("1l"), "<<", NewLiteral("63"))
	assert.Equal(t, "(int64_t)(-9223372036854775808ull)", min.CppValue(scalar.Int64))
	assert.NotContains(t, min.CppValue(scalar.Int64), "9223372036854775808ll")
}

func TestJavaValue(t *testing.T) {
	t.Parallel()
	// unsigned kinds render their bit pattern as the signed counterpart.
	assert.Equal(t, "-1", NewLiteral("0xFFFFFFFF").JavaValue(scalar.Uint32))
	assert.Equal(t, "-1", NewLiteral("255").JavaValue(scalar.Uint8))
	assert.Equal(t, "-1", NewLiteral("65535").JavaValue(scalar.Uint16))
	assert.Equal(t, "-1", NewLiteral("0xFFFFFFFFFFFFFFFF").JavaValue(scalar.Uint64))
	assert.Equal(t, "10", NewLiteral("10u").JavaValue(scalar.Uint32))
	assert.Equal(t, "10", NewLiteral("10").JavaValue(scalar.Int32))

	// booleans render as words.
	cmp := NewBinary(NewLiteral("1"), "<", NewLiteral("2"))
	assert.Equal(t, "true", cmp.JavaValue(scalar.Bool))
	cmp = NewBinary(NewLiteral("3"), "<", NewLiteral("2"))
	assert.Equal(t, "false", cmp.JavaValue(scalar.Bool))
}

func TestDescription(t *testing.T) {
	t.Parallel()
	ex := NewBinary(NewLiteral("1"), "+", NewLiteral("2"))
	assert.Equal(t, "(1 + 2)", ex.Expr())
	assert.Equal(t, "(int32_t)3", ex.Description())

	ex = NewTernary(NewBool(true), NewLiteral("1"), NewLiteral("2u"))
	assert.Equal(t, "(true?1:2u)", ex.Expr())
	assert.Equal(t, "(uint32_t)1", ex.Description())

	ex = NewUnary("-", NewLiteral("1"))
	assert.Equal(t, "(-1)", ex.Expr())
}

func TestValueRoundTrip(t *testing.T) {
	t.Parallel()
	exprs := []*Expression{
		NewLiteral("0"),
		NewLiteral("10u"),
		NewLiteral("0xFFFFFFFF"),
		NewLiteral("0xFFFFFFFFFFFFFFFF"),
		NewBinary(NewLiteral("1"), "+", NewLiteral("2")),
		NewBinary(NewLiteral("1u"), "<<", NewLiteral("31")),
		NewTernary(NewBool(false), NewLiteral("1"), NewLiteral("2ul")),
	}
	for _, ex := range exprs {
		reparsed := NewLiteral(ex.Value())
		require.False(t, reparsed.IsUnknown(), "round trip of %s", ex.Expr())
		assert.Equal(t, ex.Value(), reparsed.render(ex.Kind()), "round trip of %s", ex.Expr())
		assert.Equal(t, ex.CppValue(ex.Kind()), reparsed.CppValue(ex.Kind()), "round trip of %s", ex.Expr())
	}
}
