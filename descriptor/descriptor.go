/*
 * classgraph - a classpath relation indexer
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package descriptor decodes JVM field descriptors and coerces a raw
// constant-pool literal into the value kind the descriptor names (spec §4.2
// step 6). It is the lone survivor of the teacher's types/javaTypes.go,
// narrowed to the descriptor letters this system actually needs to decode
// static-final constants rather than run an interpreter's operand stack.
package descriptor

import "fmt"

// Field descriptor letters, restricted to the ones ConstantValue can carry.
const (
	Byte    = "B"
	Char    = "C"
	Double  = "D"
	Float   = "F"
	Int     = "I"
	Long    = "J"
	Short   = "S"
	Boolean = "Z"
)

// StringDescriptor is the one reference descriptor ConstantValue may target.
const StringDescriptor = "Ljava/lang/String;"

// IsConstantValueDescriptor reports whether d is one of the descriptors a
// ConstantValue attribute is legal on (spec §4.2 step 6).
func IsConstantValueDescriptor(d string) bool {
	switch d {
	case Byte, Char, Double, Float, Int, Long, Short, Boolean, StringDescriptor:
		return true
	default:
		return false
	}
}

// Kind identifies the decoded dynamic type of a constant-field literal
// (spec §3, Constant-field match).
type Kind int

const (
	KindInt Kind = iota
	KindLong
	KindFloat
	KindDouble
	KindBoolean
	KindChar
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindBoolean:
		return "boolean"
	case KindChar:
		return "char"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is the decoded literal of a static-final field match.
// Byte and short are represented as narrowed Int values per spec §4.2 step
// 6 ("narrow the 32-bit int"); there is no separate KindByte/KindShort.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

func (v Value) Kind() Kind { return v.kind }

// Int returns the decoded value as a 32-bit int. Valid for KindInt.
func (v Value) Int() int32 { return int32(v.i) }

// Long returns the decoded value as a 64-bit int. Valid for KindLong.
func (v Value) Long() int64 { return v.i }

// Float returns the decoded value. Valid for KindFloat.
func (v Value) Float() float32 { return float32(v.f) }

// Double returns the decoded value. Valid for KindDouble.
func (v Value) Double() float64 { return v.f }

// Bool returns the decoded value. Valid for KindBoolean.
func (v Value) Bool() bool { return v.i != 0 }

// Char returns the decoded value as a UTF-16 code unit. Valid for KindChar.
func (v Value) Char() uint16 { return uint16(v.i) }

// String returns the decoded value. Valid for KindString.
func (v Value) String() string {
	if v.kind == KindString {
		return v.s
	}
	return fmt.Sprintf("%v", v.GoValue())
}

// GoValue returns the decoded literal boxed as the nearest Go type.
func (v Value) GoValue() interface{} {
	switch v.kind {
	case KindInt:
		return v.Int()
	case KindLong:
		return v.Long()
	case KindFloat:
		return v.Float()
	case KindDouble:
		return v.Double()
	case KindBoolean:
		return v.Bool()
	case KindChar:
		return v.Char()
	case KindString:
		return v.s
	default:
		return nil
	}
}

func IntValue(i int32) Value     { return Value{kind: KindInt, i: int64(i)} }
func LongValue(l int64) Value    { return Value{kind: KindLong, i: l} }
func FloatValue(f float32) Value { return Value{kind: KindFloat, f: float64(f)} }
func DoubleValue(d float64) Value { return Value{kind: KindDouble, f: d} }
func BoolValue(b bool) Value {
	if b {
		return Value{kind: KindBoolean, i: 1}
	}
	return Value{kind: KindBoolean, i: 0}
}
func CharValue(c uint16) Value   { return Value{kind: KindChar, i: int64(c)} }
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// Coerce narrows/retypes a constant-pool literal according to descriptor d,
// per spec §4.2 step 6:
//
//	B -> byte (narrow the 32-bit int)
//	C -> character
//	S -> short
//	Z -> boolean (nonzero -> true)
//	I, J, F, D -> as stored
//	Ljava/lang/String; -> string
//
// raw must be the type the constant pool produced for the matching tag:
// int32 for IntConst entries, int64 for LongConst, float32 for FloatConst,
// float64 for DoubleConst, string for a resolved Utf8/String entry.
func Coerce(d string, raw interface{}) (Value, error) {
	switch d {
	case Byte, Short, Int, Boolean:
		i, ok := raw.(int32)
		if !ok {
			return Value{}, fmt.Errorf("descriptor %q expects a 32-bit int literal, got %T", d, raw)
		}
		switch d {
		case Byte:
			return IntValue(int32(int8(i))), nil
		case Short:
			return IntValue(int32(int16(i))), nil
		case Boolean:
			return BoolValue(i != 0), nil
		default:
			return IntValue(i), nil
		}
	case Char:
		i, ok := raw.(int32)
		if !ok {
			return Value{}, fmt.Errorf("descriptor %q expects a 32-bit int literal, got %T", d, raw)
		}
		return CharValue(uint16(i)), nil
	case Long:
		l, ok := raw.(int64)
		if !ok {
			return Value{}, fmt.Errorf("descriptor %q expects a 64-bit int literal, got %T", d, raw)
		}
		return LongValue(l), nil
	case Float:
		f, ok := raw.(float32)
		if !ok {
			return Value{}, fmt.Errorf("descriptor %q expects a float32 literal, got %T", d, raw)
		}
		return FloatValue(f), nil
	case Double:
		f, ok := raw.(float64)
		if !ok {
			return Value{}, fmt.Errorf("descriptor %q expects a float64 literal, got %T", d, raw)
		}
		return DoubleValue(f), nil
	case StringDescriptor:
		s, ok := raw.(string)
		if !ok {
			return Value{}, fmt.Errorf("descriptor %q expects a string literal, got %T", d, raw)
		}
		return StringValue(s), nil
	default:
		return Value{}, fmt.Errorf("descriptor %q is not a legal ConstantValue target", d)
	}
}
