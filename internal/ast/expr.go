package ast

import (
	"zenc/internal/source"
)

// ExprKind enumerates expressions.
type ExprKind uint8

const (
	ExprInvalid ExprKind = iota
	ExprIntLit
	ExprFloatLit
	ExprBoolLit
	ExprStringLit
	ExprIdent
	ExprUnary
	ExprBinary
	ExprCall
	ExprMethodCall
	ExprField
	ExprStructLit
	ExprVariantLit
	ExprMatch
)

// ExprUnaryOp enumerates unary operators.
type ExprUnaryOp uint8

const (
	UnaryInvalid ExprUnaryOp = iota
	UnaryNeg
	UnaryNot
	UnaryDeref
	UnaryAddrOf
	UnaryAddrOfMut
)

// ExprBinaryOp enumerates binary operators.
type ExprBinaryOp uint8

const (
	BinaryInvalid ExprBinaryOp = iota
	BinaryAdd
	BinarySub
	BinaryMul
	BinaryDiv
	BinaryRem
	BinaryEq
	BinaryNe
	BinaryLt
	BinaryLe
	BinaryGt
	BinaryGe
	BinaryAnd
	BinaryOr
)

// IsComparison reports whether the operator yields bool regardless of
// operand type.
func (op ExprBinaryOp) IsComparison() bool {
	switch op {
	case BinaryEq, BinaryNe, BinaryLt, BinaryLe, BinaryGt, BinaryGe:
		return true
	default:
		return false
	}
}

// Expr is an expression header; the payload holds the kind-specific body.
// The ExprID is the node identity the registry keys per-node types on.
type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

// LiteralData backs the four literal kinds; Text preserves the raw spelling
// for numeric literals.
type LiteralData struct {
	Text  string
	Int   int64
	Float float64
	Bool  bool
	Str   string
}

// IdentData references a named declaration or local.
type IdentData struct {
	Name source.StringID
}

// UnaryData applies Op to Operand.
type UnaryData struct {
	Op      ExprUnaryOp
	Operand ExprID
}

// BinaryData applies Op to Left and Right.
type BinaryData struct {
	Op    ExprBinaryOp
	Left  ExprID
	Right ExprID
}

// CallData is `callee(args)` with optional explicit type arguments.
type CallData struct {
	Callee   ExprID
	Args     []ExprID
	TypeArgs []TypeExprID
}

// MethodCallData is `recv.name(args)` resolved by uniform call syntax.
type MethodCallData struct {
	Recv     ExprID
	Name     source.StringID
	NameSpan source.Span
	Args     []ExprID
	TypeArgs []TypeExprID
}

// FieldData is `object.name`.
type FieldData struct {
	Object   ExprID
	Name     source.StringID
	NameSpan source.Span
}

// FieldInit is one `name: value` entry in a struct literal.
type FieldInit struct {
	Name  source.StringID
	Value ExprID
	Span  source.Span
}

// StructLitData is `Type { name: value, ... }`.
type StructLitData struct {
	Type   TypeExprID
	Fields []FieldInit
}

// VariantLitData constructs an enum value: `Type.Variant` or
// `Type.Variant(payload)`.
type VariantLitData struct {
	Type    TypeExprID
	Variant source.StringID
	Payload ExprID
}

// MatchArm pairs one pattern with its body expression.
type MatchArm struct {
	Pattern PatternID
	Body    ExprID
	Span    source.Span
}

// MatchData is `match subject { arms }`.
type MatchData struct {
	Subject ExprID
	Arms    []MatchArm
}

// PatternKind enumerates match patterns.
type PatternKind uint8

const (
	PatternInvalid PatternKind = iota
	// PatternVariant matches one enum variant, optionally binding its payload.
	PatternVariant
	// PatternBinding matches anything and binds it to a name.
	PatternBinding
	// PatternWildcard matches anything.
	PatternWildcard
)

// Pattern is small enough to live flat in one arena.
type Pattern struct {
	Kind    PatternKind
	Span    source.Span
	Name    source.StringID // variant name or binding name
	Binding source.StringID // payload binding for PatternVariant
}
