package types

import "fmt"

// TypeID uniquely identifies a type inside the registry. It is the only way
// any component outside the registry refers to a type.
type TypeID uint32

// NoTypeID marks the absence of a type. Slot 0 of the registry holds the
// unresolved descriptor, so NoTypeID doubles as the unresolved sentinel.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindUnresolved Kind = iota
	KindUnit
	KindBool
	KindString
	KindInt
	KindUint
	KindFloat
	KindStruct
	KindEnum
	KindPointer
	KindReference
	KindFn
	KindGenericParam
)

func (k Kind) String() string {
	switch k {
	case KindUnresolved:
		return "unresolved"
	case KindUnit:
		return "unit"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindPointer:
		return "pointer"
	case KindReference:
		return "reference"
	case KindFn:
		return "fn"
	case KindGenericParam:
		return "generic param"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Width captures the precision of integers/floats. WidthAny means the
// target's natural width.
type Width uint8

const (
	WidthAny Width = 0
	Width8   Width = 8
	Width16  Width = 16
	Width32  Width = 32
	Width64  Width = 64
)

// Type is a compact descriptor for any supported type. Nominal kinds
// (struct, enum, fn, generic param) keep their metadata in side tables keyed
// by Payload.
type Type struct {
	Kind    Kind
	Elem    TypeID // pointee for pointer/reference
	Width   Width  // numeric primitives
	Mutable bool   // references
	Payload uint32 // side-table slot for nominal kinds
}

// Descriptor helpers ---------------------------------------------------------

// MakeInt describes a signed integer of the given width (WidthAny for "int").
func MakeInt(width Width) Type {
	return Type{Kind: KindInt, Width: width}
}

// MakeUint describes an unsigned integer type.
func MakeUint(width Width) Type {
	return Type{Kind: KindUint, Width: width}
}

// MakeFloat describes a floating-point type.
func MakeFloat(width Width) Type {
	return Type{Kind: KindFloat, Width: width}
}

// MakePointer describes a raw pointer.
func MakePointer(elem TypeID) Type {
	return Type{Kind: KindPointer, Elem: elem}
}

// MakeReference describes &T or &mut T depending on the mutable flag.
func MakeReference(elem TypeID, mutable bool) Type {
	return Type{Kind: KindReference, Elem: elem, Mutable: mutable}
}
