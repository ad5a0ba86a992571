// Package scalar defines the scalar kinds of the hidl type system and the
// promotion and conversion rules that decide the result kind of constant
// arithmetic.
package scalar

import "github.com/OpenKirin-Treble/platform-system-tools-hidl/src/herrors"

// Kind is the tag of a scalar type. The declaration order doubles as the
// conversion rank consulted by promotion and conversion: within the
// bool..uint64 range, a later kind has a greater rank, and at equal bit
// width the unsigned kind outranks the signed one.
type Kind int

const (
	// Bool is a boolean.
	Bool Kind = iota
	// Opaque is a non-numeric pointer-sized handle. It never participates
	// in constant arithmetic.
	Opaque
	// Int8 is a signed 8 bit integer.
	Int8
	// Uint8 is an unsigned 8 bit integer.
	Uint8
	// Int16 is a signed 16 bit integer.
	Int16
	// Uint16 is an unsigned 16 bit integer.
	Uint16
	// Int32 is a signed 32 bit integer.
	Int32
	// Uint32 is an unsigned 32 bit integer.
	Uint32
	// Int64 is a signed 64 bit integer.
	Int64
	// Uint64 is an unsigned 64 bit integer.
	Uint64
	// Float32 is a 32 bit floating point number. Constant arithmetic does
	// not evaluate floating point expressions.
	Float32
	// Float64 is a 64 bit floating point number. Constant arithmetic does
	// not evaluate floating point expressions.
	Float64
)

var kindNames = map[Kind]string{
	Bool:    "bool",
	Opaque:  "opaque",
	Int8:    "int8",
	Uint8:   "uint8",
	Int16:   "int16",
	Uint16:  "uint16",
	Int32:   "int32",
	Uint32:  "uint32",
	Int64:   "int64",
	Uint64:  "uint64",
	Float32: "float",
	Float64: "double",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "invalid"
}

// FromName resolves a hidl scalar type name back to its kind.
func FromName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return Bool, false
}

// CppType returns the spelling of the kind in generated C++ code.
func (k Kind) CppType() string {
	switch k {
	case Bool:
		return "bool"
	case Opaque:
		return "void *"
	case Int8:
		return "int8_t"
	case Uint8:
		return "uint8_t"
	case Int16:
		return "int16_t"
	case Uint16:
		return "uint16_t"
	case Int32:
		return "int32_t"
	case Uint32:
		return "uint32_t"
	case Int64:
		return "int64_t"
	case Uint64:
		return "uint64_t"
	case Float32:
		return "float"
	case Float64:
		return "double"
	default:
		panic(herrors.Internalf("no C++ type for kind %v", k))
	}
}

// JavaType returns the spelling of the kind in generated Java code. Java has
// no unsigned integer types so unsigned kinds share the spelling of their
// signed counterpart.
func (k Kind) JavaType() string {
	switch k {
	case Bool:
		return "boolean"
	case Int8, Uint8:
		return "byte"
	case Int16, Uint16:
		return "short"
	case Int32, Uint32:
		return "int"
	case Int64, Uint64:
		return "long"
	case Float32:
		return "float"
	case Float64:
		return "double"
	default:
		panic(herrors.Internalf("no Java type for kind %v", k))
	}
}

// Bits returns the storage width of the kind in bits.
func (k Kind) Bits() int {
	switch k {
	case Bool, Int8, Uint8:
		return 8
	case Int16, Uint16:
		return 16
	case Int32, Uint32, Float32:
		return 32
	case Int64, Uint64, Opaque, Float64:
		return 64
	default:
		panic(herrors.Internalf("no bit width for kind %v", k))
	}
}

// IsSigned reports whether the kind is a signed integer.
func (k Kind) IsSigned() bool {
	return k == Int8 || k == Int16 || k == Int32 || k == Int64
}

// IsArithmetic reports whether the kind is bool or one of the eight integer
// kinds, the only kinds constant arithmetic accepts.
func (k Kind) IsArithmetic() bool {
	return k >= Bool && k <= Uint64 && k != Opaque
}

// checkArithmetic panics when a kind that cannot appear in constant
// arithmetic reaches the conversion rules. The grammar guarantees only
// bool and the eight integer kinds get here, so a violation is a defect in
// an earlier compiler stage, never bad user input.
func checkArithmetic(k Kind) {
	if !k.IsArithmetic() {
		panic(herrors.Internalf("kind %v cannot be used in constant arithmetic", k))
	}
}

// IntegralPromotion widens any kind narrower than 32 bits, including bool,
// to int32 before arithmetic. Kinds at or above 32 bits are untouched; note
// that uint32 ranks above int32 and is therefore not promoted further.
func IntegralPromotion(in Kind) Kind {
	if Int32 < in {
		return in
	}
	return Int32
}

// UsualArithmeticConversion picks the common kind for two already-promoted
// operands:
//  1. equal kinds need no conversion,
//  2. bool converts to the other operand's kind,
//  3. same signedness converts the lesser rank to the greater,
//  4. mixed signedness converts to the unsigned kind when it ranks at or
//     above the signed kind, otherwise to the signed kind, which can
//     represent every value of the narrower unsigned kind.
func UsualArithmeticConversion(lft, rgt Kind) Kind {
	checkArithmetic(lft)
	checkArithmetic(rgt)
	if lft == rgt {
		return lft
	}
	if lft == Bool {
		return rgt
	}
	if rgt == Bool {
		return lft
	}
	if lft.IsSigned() == rgt.IsSigned() {
		if lft < rgt {
			return rgt
		}
		return lft
	}
	unsignedKind, signedKind := lft, rgt
	if lft.IsSigned() {
		unsignedKind, signedKind = rgt, lft
	}
	if unsignedKind >= signedKind {
		return unsignedKind
	}
	return signedKind
}
