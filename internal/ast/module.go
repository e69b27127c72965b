package ast

import (
	"zenc/internal/source"
)

// Module owns all AST nodes of one compilation unit. Nodes reference each
// other by arena ID only; the IDs are the stable node identities the rest of
// the pipeline keys on.
type Module struct {
	Name    string
	Strings *source.Interner

	Decls       *Arena[Decl]
	StructDecls *Arena[StructDeclData]
	EnumDecls   *Arena[EnumDeclData]
	FuncDecls   *Arena[FuncDeclData]

	Stmts     *Arena[Stmt]
	Blocks    *Arena[BlockData]
	Lets      *Arena[LetData]
	Assigns   *Arena[AssignData]
	ExprStmts *Arena[ExprStmtData]
	Returns   *Arena[ReturnData]
	Ifs       *Arena[IfData]
	Whiles    *Arena[WhileData]

	Exprs       *Arena[Expr]
	Literals    *Arena[LiteralData]
	Idents      *Arena[IdentData]
	Unaries     *Arena[UnaryData]
	Binaries    *Arena[BinaryData]
	Calls       *Arena[CallData]
	MethodCalls *Arena[MethodCallData]
	Fields      *Arena[FieldData]
	StructLits  *Arena[StructLitData]
	VariantLits *Arena[VariantLitData]
	Matches     *Arena[MatchData]

	Patterns  *Arena[Pattern]
	TypeExprs *Arena[TypeExpr]
}

// NewModule creates an empty module with its own string interner.
func NewModule(name string) *Module {
	const capHint = 1 << 6
	return &Module{
		Name:    name,
		Strings: source.NewInterner(),

		Decls:       NewArena[Decl](capHint),
		StructDecls: NewArena[StructDeclData](capHint),
		EnumDecls:   NewArena[EnumDeclData](capHint),
		FuncDecls:   NewArena[FuncDeclData](capHint),

		Stmts:     NewArena[Stmt](capHint),
		Blocks:    NewArena[BlockData](capHint),
		Lets:      NewArena[LetData](capHint),
		Assigns:   NewArena[AssignData](capHint),
		ExprStmts: NewArena[ExprStmtData](capHint),
		Returns:   NewArena[ReturnData](capHint),
		Ifs:       NewArena[IfData](capHint),
		Whiles:    NewArena[WhileData](capHint),

		Exprs:       NewArena[Expr](capHint),
		Literals:    NewArena[LiteralData](capHint),
		Idents:      NewArena[IdentData](capHint),
		Unaries:     NewArena[UnaryData](capHint),
		Binaries:    NewArena[BinaryData](capHint),
		Calls:       NewArena[CallData](capHint),
		MethodCalls: NewArena[MethodCallData](capHint),
		Fields:      NewArena[FieldData](capHint),
		StructLits:  NewArena[StructLitData](capHint),
		VariantLits: NewArena[VariantLitData](capHint),
		Matches:     NewArena[MatchData](capHint),

		Patterns:  NewArena[Pattern](capHint),
		TypeExprs: NewArena[TypeExpr](capHint),
	}
}

// Intern is shorthand for interning an identifier.
func (m *Module) Intern(s string) source.StringID {
	return m.Strings.Intern(s)
}

// Name lookups --------------------------------------------------------------

func (m *Module) StringOf(id source.StringID) string {
	s, _ := m.Strings.Lookup(id)
	return s
}

// Decl accessors ------------------------------------------------------------

func (m *Module) Decl(id DeclID) *Decl {
	return m.Decls.Get(uint32(id))
}

func (m *Module) StructDeclData(d *Decl) *StructDeclData {
	if d == nil || d.Kind != DeclStruct {
		return nil
	}
	return m.StructDecls.Get(uint32(d.Payload))
}

func (m *Module) EnumDeclData(d *Decl) *EnumDeclData {
	if d == nil || d.Kind != DeclEnum {
		return nil
	}
	return m.EnumDecls.Get(uint32(d.Payload))
}

func (m *Module) FuncDeclData(d *Decl) *FuncDeclData {
	if d == nil || d.Kind != DeclFunc {
		return nil
	}
	return m.FuncDecls.Get(uint32(d.Payload))
}

// Stmt accessors ------------------------------------------------------------

func (m *Module) Stmt(id StmtID) *Stmt {
	return m.Stmts.Get(uint32(id))
}

func (m *Module) BlockData(s *Stmt) *BlockData {
	if s == nil || s.Kind != StmtBlock {
		return nil
	}
	return m.Blocks.Get(uint32(s.Payload))
}

func (m *Module) LetData(s *Stmt) *LetData {
	if s == nil || s.Kind != StmtLet {
		return nil
	}
	return m.Lets.Get(uint32(s.Payload))
}

func (m *Module) AssignData(s *Stmt) *AssignData {
	if s == nil || s.Kind != StmtAssign {
		return nil
	}
	return m.Assigns.Get(uint32(s.Payload))
}

func (m *Module) ExprStmtData(s *Stmt) *ExprStmtData {
	if s == nil || s.Kind != StmtExpr {
		return nil
	}
	return m.ExprStmts.Get(uint32(s.Payload))
}

func (m *Module) ReturnData(s *Stmt) *ReturnData {
	if s == nil || s.Kind != StmtReturn {
		return nil
	}
	return m.Returns.Get(uint32(s.Payload))
}

func (m *Module) IfData(s *Stmt) *IfData {
	if s == nil || s.Kind != StmtIf {
		return nil
	}
	return m.Ifs.Get(uint32(s.Payload))
}

func (m *Module) WhileData(s *Stmt) *WhileData {
	if s == nil || s.Kind != StmtWhile {
		return nil
	}
	return m.Whiles.Get(uint32(s.Payload))
}

// Expr accessors ------------------------------------------------------------

func (m *Module) Expr(id ExprID) *Expr {
	return m.Exprs.Get(uint32(id))
}

func (m *Module) ExprSpan(id ExprID) source.Span {
	e := m.Expr(id)
	if e == nil {
		return source.Span{}
	}
	return e.Span
}

func (m *Module) LiteralData(e *Expr) *LiteralData {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case ExprIntLit, ExprFloatLit, ExprBoolLit, ExprStringLit:
		return m.Literals.Get(uint32(e.Payload))
	default:
		return nil
	}
}

func (m *Module) IdentData(e *Expr) *IdentData {
	if e == nil || e.Kind != ExprIdent {
		return nil
	}
	return m.Idents.Get(uint32(e.Payload))
}

func (m *Module) UnaryData(e *Expr) *UnaryData {
	if e == nil || e.Kind != ExprUnary {
		return nil
	}
	return m.Unaries.Get(uint32(e.Payload))
}

func (m *Module) BinaryData(e *Expr) *BinaryData {
	if e == nil || e.Kind != ExprBinary {
		return nil
	}
	return m.Binaries.Get(uint32(e.Payload))
}

func (m *Module) CallData(e *Expr) *CallData {
	if e == nil || e.Kind != ExprCall {
		return nil
	}
	return m.Calls.Get(uint32(e.Payload))
}

func (m *Module) MethodCallData(e *Expr) *MethodCallData {
	if e == nil || e.Kind != ExprMethodCall {
		return nil
	}
	return m.MethodCalls.Get(uint32(e.Payload))
}

func (m *Module) FieldData(e *Expr) *FieldData {
	if e == nil || e.Kind != ExprField {
		return nil
	}
	return m.Fields.Get(uint32(e.Payload))
}

func (m *Module) StructLitData(e *Expr) *StructLitData {
	if e == nil || e.Kind != ExprStructLit {
		return nil
	}
	return m.StructLits.Get(uint32(e.Payload))
}

func (m *Module) VariantLitData(e *Expr) *VariantLitData {
	if e == nil || e.Kind != ExprVariantLit {
		return nil
	}
	return m.VariantLits.Get(uint32(e.Payload))
}

func (m *Module) MatchData(e *Expr) *MatchData {
	if e == nil || e.Kind != ExprMatch {
		return nil
	}
	return m.Matches.Get(uint32(e.Payload))
}

func (m *Module) Pattern(id PatternID) *Pattern {
	return m.Patterns.Get(uint32(id))
}

func (m *Module) TypeExpr(id TypeExprID) *TypeExpr {
	return m.TypeExprs.Get(uint32(id))
}
