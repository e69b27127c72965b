package ast

import (
	"zenc/internal/source"
)

// StmtKind enumerates statements.
type StmtKind uint8

const (
	StmtInvalid StmtKind = iota
	StmtBlock
	StmtLet
	StmtAssign
	StmtExpr
	StmtReturn
	StmtIf
	StmtWhile
)

// Stmt is a statement header; the payload holds the kind-specific body.
type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

// BlockData is a `{ ... }` statement list.
type BlockData struct {
	Stmts []StmtID
}

// LetData declares a local. Type is optional; when absent the type is
// inferred from Value.
type LetData struct {
	Name  source.StringID
	Mut   bool
	Type  TypeExprID
	Value ExprID
}

// AssignData writes Value into the place denoted by Target.
type AssignData struct {
	Target ExprID
	Value  ExprID
}

// ExprStmtData evaluates an expression for effect.
type ExprStmtData struct {
	Expr ExprID
}

// ReturnData returns Value, or unit when Value is NoExprID.
type ReturnData struct {
	Value ExprID
}

// IfData branches on Cond; Else is optional.
type IfData struct {
	Cond ExprID
	Then StmtID
	Else StmtID
}

// WhileData loops on Cond.
type WhileData struct {
	Cond ExprID
	Body StmtID
}
