package ast

import (
	"zenc/internal/source"
)

// TypeExprKind enumerates syntactic type forms.
type TypeExprKind uint8

const (
	TypeExprInvalid TypeExprKind = iota
	// TypeExprNamed is `Name` or `Name<Args...>`.
	TypeExprNamed
	// TypeExprRef is `&T` or `&mut T`.
	TypeExprRef
	// TypeExprPtr is `*T`.
	TypeExprPtr
)

// TypeExpr is a syntactic type annotation. Type expressions are small enough
// that they live flat in one arena, unlike decls/stmts/exprs.
type TypeExpr struct {
	Kind TypeExprKind
	Span source.Span

	Name source.StringID // TypeExprNamed
	Args []TypeExprID    // TypeExprNamed generic arguments
	Elem TypeExprID      // TypeExprRef, TypeExprPtr
	Mut  bool            // TypeExprRef
}
