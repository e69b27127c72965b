package ast

import (
	"zenc/internal/source"
)

// Construction helpers. The real parser is an external collaborator; the
// driver and tests build modules through these.

func (m *Module) newDecl(kind DeclKind, span source.Span, name source.StringID, payload uint32) DeclID {
	return DeclID(m.Decls.Allocate(Decl{
		Kind:    kind,
		Span:    span,
		Name:    name,
		Payload: PayloadID(payload),
	}))
}

// AddStruct declares a struct type.
func (m *Module) AddStruct(span source.Span, name string, typeParams []TypeParam, fields []FieldDef) DeclID {
	payload := m.StructDecls.Allocate(StructDeclData{TypeParams: typeParams, Fields: fields})
	return m.newDecl(DeclStruct, span, m.Intern(name), payload)
}

// AddEnum declares a tagged sum type.
func (m *Module) AddEnum(span source.Span, name string, typeParams []TypeParam, variants []VariantDef) DeclID {
	payload := m.EnumDecls.Allocate(EnumDeclData{TypeParams: typeParams, Variants: variants})
	return m.newDecl(DeclEnum, span, m.Intern(name), payload)
}

// AddFunc declares a function. A valid owner makes it an inherent method;
// the self parameter must then be Params[0].
func (m *Module) AddFunc(span source.Span, name string, data FuncDeclData) DeclID {
	payload := m.FuncDecls.Allocate(data)
	return m.newDecl(DeclFunc, span, m.Intern(name), payload)
}

// Type expressions ----------------------------------------------------------

// NamedType references a type by name, with optional generic arguments.
func (m *Module) NamedType(span source.Span, name string, args ...TypeExprID) TypeExprID {
	return TypeExprID(m.TypeExprs.Allocate(TypeExpr{
		Kind: TypeExprNamed,
		Span: span,
		Name: m.Intern(name),
		Args: args,
	}))
}

// RefType is `&T` or `&mut T`.
func (m *Module) RefType(span source.Span, elem TypeExprID, mut bool) TypeExprID {
	return TypeExprID(m.TypeExprs.Allocate(TypeExpr{
		Kind: TypeExprRef,
		Span: span,
		Elem: elem,
		Mut:  mut,
	}))
}

// PtrType is `*T`.
func (m *Module) PtrType(span source.Span, elem TypeExprID) TypeExprID {
	return TypeExprID(m.TypeExprs.Allocate(TypeExpr{
		Kind: TypeExprPtr,
		Span: span,
		Elem: elem,
	}))
}

// Statements ----------------------------------------------------------------

func (m *Module) newStmt(kind StmtKind, span source.Span, payload uint32) StmtID {
	return StmtID(m.Stmts.Allocate(Stmt{Kind: kind, Span: span, Payload: PayloadID(payload)}))
}

func (m *Module) NewBlock(span source.Span, stmts ...StmtID) StmtID {
	return m.newStmt(StmtBlock, span, m.Blocks.Allocate(BlockData{Stmts: stmts}))
}

func (m *Module) NewLet(span source.Span, name string, mut bool, typ TypeExprID, value ExprID) StmtID {
	return m.newStmt(StmtLet, span, m.Lets.Allocate(LetData{
		Name:  m.Intern(name),
		Mut:   mut,
		Type:  typ,
		Value: value,
	}))
}

func (m *Module) NewAssign(span source.Span, target, value ExprID) StmtID {
	return m.newStmt(StmtAssign, span, m.Assigns.Allocate(AssignData{Target: target, Value: value}))
}

func (m *Module) NewExprStmt(span source.Span, expr ExprID) StmtID {
	return m.newStmt(StmtExpr, span, m.ExprStmts.Allocate(ExprStmtData{Expr: expr}))
}

func (m *Module) NewReturn(span source.Span, value ExprID) StmtID {
	return m.newStmt(StmtReturn, span, m.Returns.Allocate(ReturnData{Value: value}))
}

func (m *Module) NewIf(span source.Span, cond ExprID, then, els StmtID) StmtID {
	return m.newStmt(StmtIf, span, m.Ifs.Allocate(IfData{Cond: cond, Then: then, Else: els}))
}

func (m *Module) NewWhile(span source.Span, cond ExprID, body StmtID) StmtID {
	return m.newStmt(StmtWhile, span, m.Whiles.Allocate(WhileData{Cond: cond, Body: body}))
}

// Expressions ---------------------------------------------------------------

func (m *Module) newExpr(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(m.Exprs.Allocate(Expr{Kind: kind, Span: span, Payload: PayloadID(payload)}))
}

func (m *Module) NewIntLit(span source.Span, value int64, text string) ExprID {
	return m.newExpr(ExprIntLit, span, m.Literals.Allocate(LiteralData{Text: text, Int: value}))
}

func (m *Module) NewFloatLit(span source.Span, value float64, text string) ExprID {
	return m.newExpr(ExprFloatLit, span, m.Literals.Allocate(LiteralData{Text: text, Float: value}))
}

func (m *Module) NewBoolLit(span source.Span, value bool) ExprID {
	return m.newExpr(ExprBoolLit, span, m.Literals.Allocate(LiteralData{Bool: value}))
}

func (m *Module) NewStringLit(span source.Span, value string) ExprID {
	return m.newExpr(ExprStringLit, span, m.Literals.Allocate(LiteralData{Str: value}))
}

func (m *Module) NewIdent(span source.Span, name string) ExprID {
	return m.newExpr(ExprIdent, span, m.Idents.Allocate(IdentData{Name: m.Intern(name)}))
}

func (m *Module) NewUnary(span source.Span, op ExprUnaryOp, operand ExprID) ExprID {
	return m.newExpr(ExprUnary, span, m.Unaries.Allocate(UnaryData{Op: op, Operand: operand}))
}

func (m *Module) NewBinary(span source.Span, op ExprBinaryOp, left, right ExprID) ExprID {
	return m.newExpr(ExprBinary, span, m.Binaries.Allocate(BinaryData{Op: op, Left: left, Right: right}))
}

func (m *Module) NewCall(span source.Span, callee ExprID, args []ExprID, typeArgs ...TypeExprID) ExprID {
	return m.newExpr(ExprCall, span, m.Calls.Allocate(CallData{Callee: callee, Args: args, TypeArgs: typeArgs}))
}

func (m *Module) NewMethodCall(span source.Span, recv ExprID, name string, args []ExprID, typeArgs ...TypeExprID) ExprID {
	return m.newExpr(ExprMethodCall, span, m.MethodCalls.Allocate(MethodCallData{
		Recv:     recv,
		Name:     m.Intern(name),
		NameSpan: span,
		Args:     args,
		TypeArgs: typeArgs,
	}))
}

func (m *Module) NewField(span source.Span, object ExprID, name string) ExprID {
	return m.newExpr(ExprField, span, m.Fields.Allocate(FieldData{
		Object:   object,
		Name:     m.Intern(name),
		NameSpan: span,
	}))
}

func (m *Module) NewStructLit(span source.Span, typ TypeExprID, fields []FieldInit) ExprID {
	return m.newExpr(ExprStructLit, span, m.StructLits.Allocate(StructLitData{Type: typ, Fields: fields}))
}

// FieldValue builds one struct-literal entry.
func (m *Module) FieldValue(span source.Span, name string, value ExprID) FieldInit {
	return FieldInit{Name: m.Intern(name), Value: value, Span: span}
}

func (m *Module) NewVariantLit(span source.Span, typ TypeExprID, variant string, payload ExprID) ExprID {
	return m.newExpr(ExprVariantLit, span, m.VariantLits.Allocate(VariantLitData{
		Type:    typ,
		Variant: m.Intern(variant),
		Payload: payload,
	}))
}

func (m *Module) NewMatch(span source.Span, subject ExprID, arms []MatchArm) ExprID {
	return m.newExpr(ExprMatch, span, m.Matches.Allocate(MatchData{Subject: subject, Arms: arms}))
}

// Patterns ------------------------------------------------------------------

func (m *Module) VariantPattern(span source.Span, variant, binding string) PatternID {
	p := Pattern{Kind: PatternVariant, Span: span, Name: m.Intern(variant)}
	if binding != "" {
		p.Binding = m.Intern(binding)
	}
	return PatternID(m.Patterns.Allocate(p))
}

func (m *Module) BindingPattern(span source.Span, name string) PatternID {
	return PatternID(m.Patterns.Allocate(Pattern{Kind: PatternBinding, Span: span, Name: m.Intern(name)}))
}

func (m *Module) WildcardPattern(span source.Span) PatternID {
	return PatternID(m.Patterns.Allocate(Pattern{Kind: PatternWildcard, Span: span}))
}

// Param builds one function parameter.
func (m *Module) Param(span source.Span, name string, typ TypeExprID) ParamDef {
	return ParamDef{Name: m.Intern(name), Type: typ, Span: span}
}

// Field builds one struct field definition.
func (m *Module) Field(span source.Span, name string, typ TypeExprID) FieldDef {
	return FieldDef{Name: m.Intern(name), Type: typ, Span: span}
}

// Variant builds one enum variant definition.
func (m *Module) Variant(span source.Span, name string, payload TypeExprID) VariantDef {
	return VariantDef{Name: m.Intern(name), Payload: payload, Span: span}
}

// TParam builds one generic type parameter.
func (m *Module) TParam(span source.Span, name string) TypeParam {
	return TypeParam{Name: m.Intern(name), Span: span}
}
