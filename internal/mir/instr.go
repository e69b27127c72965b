package mir

import (
	"zenc/internal/ast"
	"zenc/internal/symbols"
	"zenc/internal/types"
)

// InstrKind enumerates instruction kinds in MIR.
type InstrKind uint8

const (
	// InstrAssign represents an assignment instruction.
	InstrAssign InstrKind = iota
	// InstrCall represents a call instruction.
	InstrCall
	// InstrNop represents a no-op instruction.
	InstrNop
)

// Instr represents a MIR instruction.
type Instr struct {
	Kind InstrKind

	Assign AssignInstr
	Call   CallInstr
}

// AssignInstr stores Src into Dst.
type AssignInstr struct {
	Dst Place
	Src RValue
}

// Callee is a direct call target. Key distinguishes specialized bodies of
// one generic symbol; it is empty for plain functions.
type Callee struct {
	Sym  symbols.SymbolID
	Key  string
	Name string
}

// CallInstr represents a function call instruction.
type CallInstr struct {
	HasDst bool
	Dst    Place
	Callee Callee
	Args   []Operand
}

// OperandKind distinguishes operand types.
type OperandKind uint8

const (
	// OperandConst represents a constant operand.
	OperandConst OperandKind = iota
	// OperandCopy represents a copy of a place.
	OperandCopy
	// OperandMove represents a move out of a place.
	OperandMove
	// OperandAddrOf takes a shared reference to a place.
	OperandAddrOf
	// OperandAddrOfMut takes a mutable reference to a place.
	OperandAddrOfMut
)

// Operand represents a MIR operand.
type Operand struct {
	Kind OperandKind
	Type types.TypeID

	Const Const
	Place Place
}

// ConstKind distinguishes constant kinds.
type ConstKind uint8

const (
	ConstInt ConstKind = iota
	ConstUint
	ConstFloat
	ConstBool
	ConstString
	ConstUnit
)

// Const represents a MIR constant. Text preserves raw literal spelling for
// numeric constants when available.
type Const struct {
	Kind ConstKind
	Type types.TypeID

	Text string

	IntValue    int64
	UintValue   uint64
	FloatValue  float64
	BoolValue   bool
	StringValue string
}

// RValueKind distinguishes right-hand value kinds.
type RValueKind uint8

const (
	// RValueUse forwards an operand unchanged.
	RValueUse RValueKind = iota
	// RValueUnaryOp represents a unary operation.
	RValueUnaryOp
	// RValueBinaryOp represents a binary operation.
	RValueBinaryOp
	// RValueStructLit builds a struct value field by field.
	RValueStructLit
	// RValueVariantLit builds an enum value: tag plus optional payload.
	RValueVariantLit
	// RValueTagTest compares an enum value's tag against one variant.
	RValueTagTest
	// RValueTagPayload extracts the payload of one variant.
	RValueTagPayload
)

// RValue represents a right-hand value in MIR.
type RValue struct {
	Kind RValueKind

	Use        Operand
	Unary      UnaryOp
	Binary     BinaryOp
	StructLit  StructLit
	VariantLit VariantLit
	TagTest    TagTest
	TagPayload TagPayload
}

// UnaryOp represents a unary operation.
type UnaryOp struct {
	Op      ast.ExprUnaryOp
	Operand Operand
}

// BinaryOp represents a binary operation.
type BinaryOp struct {
	Op    ast.ExprBinaryOp
	Left  Operand
	Right Operand
}

// StructLitField represents a struct literal field.
type StructLitField struct {
	Name  string
	Idx   int
	Value Operand
}

// StructLit builds a struct of Type from its fields.
type StructLit struct {
	Type   types.TypeID
	Fields []StructLitField
}

// VariantLit builds an enum value of Type with the given variant tag.
type VariantLit struct {
	Type       types.TypeID
	Tag        int
	TagName    string
	HasPayload bool
	Payload    Operand
}

// TagTest yields bool: does Value carry the given tag.
type TagTest struct {
	Value   Operand
	Tag     int
	TagName string
}

// TagPayload extracts the payload of the given variant from Value. The
// matching TagTest must dominate it.
type TagPayload struct {
	Value   Operand
	Tag     int
	TagName string
	Type    types.TypeID
}
