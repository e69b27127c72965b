package sema

import (
	"zenc/internal/ast"
	"zenc/internal/diag"
	"zenc/internal/source"
	"zenc/internal/symbols"
	"zenc/internal/types"
)

// inferExpr resolves the type of one expression node, recording it in the
// current per-node map. Errors are reported and flow onward as the
// unresolved sentinel.
func (tc *typeChecker) inferExpr(id ast.ExprID) types.TypeID {
	if t, ok := tc.curTypes[id]; ok {
		return t
	}
	e := tc.mod.Expr(id)
	if e == nil {
		return types.NoTypeID
	}
	switch e.Kind {
	case ast.ExprIntLit:
		return tc.setType(id, tc.types.Builtins().Int)
	case ast.ExprFloatLit:
		return tc.setType(id, tc.types.Builtins().Float)
	case ast.ExprBoolLit:
		return tc.setType(id, tc.types.Builtins().Bool)
	case ast.ExprStringLit:
		return tc.setType(id, tc.types.Builtins().String)
	case ast.ExprIdent:
		return tc.setType(id, tc.inferIdent(id, e))
	case ast.ExprUnary:
		return tc.setType(id, tc.inferUnary(e))
	case ast.ExprBinary:
		return tc.setType(id, tc.inferBinary(e))
	case ast.ExprField:
		return tc.setType(id, tc.inferField(e))
	case ast.ExprStructLit:
		return tc.setType(id, tc.inferStructLit(e))
	case ast.ExprVariantLit:
		return tc.setType(id, tc.inferVariantLit(e))
	case ast.ExprCall:
		return tc.setType(id, tc.inferCall(id, e))
	case ast.ExprMethodCall:
		return tc.setType(id, tc.inferMethodCall(id, e))
	case ast.ExprMatch:
		return tc.setType(id, tc.inferMatch(e))
	default:
		return types.NoTypeID
	}
}

// typeOf returns the already-recorded type of a node, inferring on first
// touch.
func (tc *typeChecker) typeOf(id ast.ExprID) types.TypeID {
	if t, ok := tc.curTypes[id]; ok {
		return t
	}
	return tc.inferExpr(id)
}

func (tc *typeChecker) inferIdent(id ast.ExprID, e *ast.Expr) types.TypeID {
	data := tc.mod.IdentData(e)
	if data == nil {
		return types.NoTypeID
	}
	symID, ok := tc.scope.Lookup(data.Name)
	if !ok {
		tc.report(diag.SemaUnresolvedSymbol, e.Span, "unresolved name %s", tc.name(data.Name))
		return types.NoTypeID
	}
	sym := tc.table.Get(symID)
	if sym == nil {
		return types.NoTypeID
	}
	tc.table.RecordRef(id, symID, e.Span)
	return sym.Type
}

func (tc *typeChecker) inferUnary(e *ast.Expr) types.TypeID {
	data := tc.mod.UnaryData(e)
	if data == nil {
		return types.NoTypeID
	}
	operand := tc.inferExpr(data.Operand)
	switch data.Op {
	case ast.UnaryNeg:
		if operand != types.NoTypeID && !tc.isNumeric(operand) {
			tc.report(diag.SemaTypeMismatch, e.Span, "cannot negate %s", tc.label(operand))
			return types.NoTypeID
		}
		return operand
	case ast.UnaryNot:
		if operand != types.NoTypeID && operand != tc.types.Builtins().Bool {
			tc.report(diag.SemaTypeMismatch, e.Span, "operand of ! must be bool, got %s", tc.label(operand))
		}
		return tc.types.Builtins().Bool
	case ast.UnaryDeref:
		if operand == types.NoTypeID {
			return types.NoTypeID
		}
		tt, ok := tc.types.Lookup(operand)
		if !ok || (tt.Kind != types.KindPointer && tt.Kind != types.KindReference) {
			tc.report(diag.SemaTypeMismatch, e.Span, "cannot dereference %s", tc.label(operand))
			return types.NoTypeID
		}
		return tt.Elem
	case ast.UnaryAddrOf:
		if operand == types.NoTypeID {
			return types.NoTypeID
		}
		return tc.types.Intern(types.MakeReference(operand, false))
	case ast.UnaryAddrOfMut:
		if operand == types.NoTypeID {
			return types.NoTypeID
		}
		if !tc.isMutablePlace(data.Operand) {
			tc.report(diag.SemaImmutableWrite, e.Span, "cannot take &mut of an immutable place")
		}
		return tc.types.Intern(types.MakeReference(operand, true))
	default:
		return types.NoTypeID
	}
}

func (tc *typeChecker) inferBinary(e *ast.Expr) types.TypeID {
	data := tc.mod.BinaryData(e)
	if data == nil {
		return types.NoTypeID
	}
	left := tc.inferExpr(data.Left)
	right := tc.inferExpr(data.Right)

	switch data.Op {
	case ast.BinaryAnd, ast.BinaryOr:
		boolT := tc.types.Builtins().Bool
		if left != types.NoTypeID && left != boolT {
			tc.report(diag.SemaTypeMismatch, tc.mod.ExprSpan(data.Left),
				"logical operand must be bool, got %s", tc.label(left))
		}
		if right != types.NoTypeID && right != boolT {
			tc.report(diag.SemaTypeMismatch, tc.mod.ExprSpan(data.Right),
				"logical operand must be bool, got %s", tc.label(right))
		}
		return boolT
	}

	common := tc.unify(left, right)
	if common == types.NoTypeID && left != types.NoTypeID && right != types.NoTypeID {
		tc.report(diag.SemaTypeMismatch, e.Span,
			"operand types %s and %s do not match", tc.label(left), tc.label(right))
	}
	if data.Op.IsComparison() {
		return tc.types.Builtins().Bool
	}
	if common != types.NoTypeID && !tc.isNumeric(common) {
		tc.report(diag.SemaTypeMismatch, e.Span, "arithmetic on non-numeric %s", tc.label(common))
		return types.NoTypeID
	}
	return common
}

// inferField resolves exactly one field hop. Pointers and references are
// stripped first, so `p.x` works through `&Point` without explicit deref.
func (tc *typeChecker) inferField(e *ast.Expr) types.TypeID {
	data := tc.mod.FieldData(e)
	if data == nil {
		return types.NoTypeID
	}
	object := tc.inferExpr(data.Object)
	if object == types.NoTypeID {
		return types.NoTypeID
	}
	base := tc.types.Deref(object)
	field, _, ok := tc.types.StructFieldByName(base, data.Name)
	if !ok {
		tc.report(diag.SemaUnknownField, data.NameSpan,
			"%s has no field %s", tc.label(base), tc.name(data.Name))
		return types.NoTypeID
	}
	return field.Type
}

func (tc *typeChecker) inferStructLit(e *ast.Expr) types.TypeID {
	data := tc.mod.StructLitData(e)
	if data == nil {
		return types.NoTypeID
	}
	target := tc.structLitTarget(data, e)
	if target == types.NoTypeID {
		// Still type the field values so nested errors surface.
		for _, f := range data.Fields {
			tc.inferExpr(f.Value)
		}
		return types.NoTypeID
	}
	info, ok := tc.types.StructInfo(target)
	if !ok {
		tc.report(diag.SemaTypeMismatch, e.Span, "%s is not a struct", tc.label(target))
		return types.NoTypeID
	}

	covered := make(map[int]bool, len(info.Fields))
	for _, f := range data.Fields {
		got := tc.inferExpr(f.Value)
		decl, idx, found := tc.types.StructFieldByName(target, f.Name)
		if !found {
			tc.report(diag.SemaUnknownField, f.Span,
				"%s has no field %s", tc.label(target), tc.name(f.Name))
			continue
		}
		if covered[idx] {
			tc.report(diag.SemaDuplicateSymbol, f.Span,
				"field %s initialized twice", tc.name(f.Name))
			continue
		}
		covered[idx] = true
		if !tc.assignable(decl.Type, got) {
			tc.report(diag.SemaTypeMismatch, f.Span,
				"field %s expects %s, got %s", tc.name(f.Name), tc.label(decl.Type), tc.label(got))
		}
	}
	for idx, f := range info.Fields {
		if !covered[idx] {
			tc.report(diag.SemaMissingField, e.Span,
				"missing field %s in %s literal", tc.name(f.Name), tc.label(target))
		}
	}
	return target
}

// structLitTarget resolves the annotated type of a struct literal. A generic
// name without explicit arguments has them inferred from the field values.
func (tc *typeChecker) structLitTarget(data *ast.StructLitData, e *ast.Expr) types.TypeID {
	te := tc.mod.TypeExpr(data.Type)
	if te != nil && te.Kind == ast.TypeExprNamed && len(te.Args) == 0 {
		if def, declID, ok := tc.namedGenericDef(te.Name, types.KindStruct); ok {
			return tc.inferStructArgs(def, declID, data, e)
		}
	}
	return tc.resolveTypeExpr(data.Type)
}

// namedGenericDef reports whether name denotes a generic nominal definition
// of the given kind, returning the definition type and its declaration.
func (tc *typeChecker) namedGenericDef(name source.StringID, kind types.Kind) (types.TypeID, ast.DeclID, bool) {
	symID, ok := tc.moduleScope.Lookup(name)
	if !ok {
		return types.NoTypeID, 0, false
	}
	sym := tc.table.Get(symID)
	if sym == nil || sym.Kind != symbols.SymbolType {
		return types.NoTypeID, 0, false
	}
	if len(tc.declTypeParams[sym.Decl]) == 0 {
		return types.NoTypeID, 0, false
	}
	if tc.types.KindOf(sym.Type) != kind {
		return types.NoTypeID, 0, false
	}
	return sym.Type, sym.Decl, true
}

func (tc *typeChecker) inferStructArgs(def types.TypeID, declID ast.DeclID, data *ast.StructLitData, e *ast.Expr) types.TypeID {
	params := tc.declTypeParams[declID]
	subst := make(map[types.TypeID]types.TypeID, len(params))
	for _, f := range data.Fields {
		got := tc.inferExpr(f.Value)
		decl, _, found := tc.types.StructFieldByName(def, f.Name)
		if !found || got == types.NoTypeID {
			continue
		}
		tc.solveSubst(decl.Type, got, subst)
	}
	args := make([]types.TypeID, len(params))
	for i, p := range params {
		solved, ok := subst[p]
		if !ok {
			tc.report(diag.SemaUnknownType, e.Span,
				"cannot infer type arguments for %s", tc.label(def))
			return types.NoTypeID
		}
		args[i] = solved
	}
	return tc.instantiateNamed(def, args, e.Span)
}

func (tc *typeChecker) inferVariantLit(e *ast.Expr) types.TypeID {
	data := tc.mod.VariantLitData(e)
	if data == nil {
		return types.NoTypeID
	}
	var payload types.TypeID
	if data.Payload.IsValid() {
		payload = tc.inferExpr(data.Payload)
	}

	target := tc.variantLitTarget(data, e, payload)
	if target == types.NoTypeID {
		return types.NoTypeID
	}
	variant, _, ok := tc.types.EnumVariantByName(target, data.Variant)
	if !ok {
		tc.report(diag.SemaUnknownVariant, e.Span,
			"%s has no variant %s", tc.label(target), tc.name(data.Variant))
		return types.NoTypeID
	}
	switch {
	case variant.Payload == types.NoTypeID && data.Payload.IsValid():
		tc.report(diag.SemaArityMismatch, e.Span,
			"variant %s takes no payload", tc.name(data.Variant))
	case variant.Payload != types.NoTypeID && !data.Payload.IsValid():
		tc.report(diag.SemaArityMismatch, e.Span,
			"variant %s requires a payload of %s", tc.name(data.Variant), tc.label(variant.Payload))
	case variant.Payload != types.NoTypeID && !tc.assignable(variant.Payload, payload):
		tc.report(diag.SemaTypeMismatch, e.Span,
			"variant %s expects %s, got %s", tc.name(data.Variant), tc.label(variant.Payload), tc.label(payload))
	}
	return target
}

// variantLitTarget resolves the enum type of a variant literal, inferring
// generic arguments from the payload when the annotation omits them.
func (tc *typeChecker) variantLitTarget(data *ast.VariantLitData, e *ast.Expr, payload types.TypeID) types.TypeID {
	te := tc.mod.TypeExpr(data.Type)
	if te != nil && te.Kind == ast.TypeExprNamed && len(te.Args) == 0 {
		if def, declID, ok := tc.namedGenericDef(te.Name, types.KindEnum); ok {
			return tc.inferEnumArgs(def, declID, data, e, payload)
		}
	}
	return tc.resolveTypeExpr(data.Type)
}

func (tc *typeChecker) inferEnumArgs(def types.TypeID, declID ast.DeclID, data *ast.VariantLitData, e *ast.Expr, payload types.TypeID) types.TypeID {
	params := tc.declTypeParams[declID]
	subst := make(map[types.TypeID]types.TypeID, len(params))
	if variant, _, ok := tc.types.EnumVariantByName(def, data.Variant); ok {
		if variant.Payload != types.NoTypeID && payload != types.NoTypeID {
			tc.solveSubst(variant.Payload, payload, subst)
		}
	}
	args := make([]types.TypeID, len(params))
	for i, p := range params {
		solved, ok := subst[p]
		if !ok {
			tc.report(diag.SemaUnknownType, e.Span,
				"cannot infer type arguments for %s", tc.label(def))
			return types.NoTypeID
		}
		args[i] = solved
	}
	return tc.instantiateNamed(def, args, e.Span)
}

// isMutablePlace reports whether an expression denotes a writable location:
// a mut local, a field chain rooted in one, or a deref of a *T or &mut T.
func (tc *typeChecker) isMutablePlace(id ast.ExprID) bool {
	e := tc.mod.Expr(id)
	if e == nil {
		return false
	}
	switch e.Kind {
	case ast.ExprIdent:
		symID, ok := tc.table.ExprSymbols[id]
		if !ok {
			data := tc.mod.IdentData(e)
			if data == nil {
				return false
			}
			symID, ok = tc.scope.Lookup(data.Name)
			if !ok {
				return false
			}
		}
		sym := tc.table.Get(symID)
		return sym != nil && sym.Mutable
	case ast.ExprField:
		data := tc.mod.FieldData(e)
		if data == nil {
			return false
		}
		// A field through a reference is writable iff the reference is mut;
		// through a value it inherits the root's mutability.
		objType := tc.typeOf(data.Object)
		if tt, ok := tc.types.Lookup(objType); ok {
			switch tt.Kind {
			case types.KindPointer:
				return true
			case types.KindReference:
				return tt.Mutable
			}
		}
		return tc.isMutablePlace(data.Object)
	case ast.ExprUnary:
		data := tc.mod.UnaryData(e)
		if data == nil || data.Op != ast.UnaryDeref {
			return false
		}
		operand := tc.typeOf(data.Operand)
		if tt, ok := tc.types.Lookup(operand); ok {
			switch tt.Kind {
			case types.KindPointer:
				return true
			case types.KindReference:
				return tt.Mutable
			}
		}
		return false
	default:
		return false
	}
}

// symbolFor returns the symbol an ident expression resolved to, if any.
func (tc *typeChecker) symbolFor(id ast.ExprID) (*symbols.Symbol, symbols.SymbolID) {
	symID, ok := tc.table.ExprSymbols[id]
	if !ok {
		return nil, symbols.NoSymbolID
	}
	return tc.table.Get(symID), symID
}
