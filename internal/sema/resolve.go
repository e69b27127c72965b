package sema

import (
	"errors"

	"fortio.org/safecast"

	"zenc/internal/ast"
	"zenc/internal/diag"
	"zenc/internal/layout"
	"zenc/internal/types"
)

// resolvePass resolves every type expression left provisional by the
// declaration pass: struct fields, enum variants, and function signatures.
// It finishes by validating struct layouts so unmet indirection invariants
// surface at declaration time, not at first use.
func (tc *typeChecker) resolvePass() {
	// Type params must exist before any field can mention them.
	for i := uint32(1); i <= tc.mod.Decls.Len(); i++ {
		tc.bindDeclTypeParams(ast.DeclID(i))
	}
	for i := uint32(1); i <= tc.mod.Decls.Len(); i++ {
		declID := ast.DeclID(i)
		decl := tc.mod.Decl(declID)
		switch decl.Kind {
		case ast.DeclStruct:
			tc.resolveStructDecl(declID, decl)
		case ast.DeclEnum:
			tc.resolveEnumDecl(declID, decl)
		}
	}
	for i := uint32(1); i <= tc.mod.Decls.Len(); i++ {
		declID := ast.DeclID(i)
		decl := tc.mod.Decl(declID)
		if decl.Kind == ast.DeclFunc {
			tc.resolveFuncSig(declID, decl)
		}
	}
	tc.validateLayouts()
}

// bindDeclTypeParams registers the generic parameters of one declaration and
// remembers them per decl for substitution and body checking.
func (tc *typeChecker) bindDeclTypeParams(declID ast.DeclID) {
	decl := tc.mod.Decl(declID)
	var params []ast.TypeParam
	switch decl.Kind {
	case ast.DeclStruct:
		if data := tc.mod.StructDeclData(decl); data != nil {
			params = data.TypeParams
		}
	case ast.DeclEnum:
		if data := tc.mod.EnumDeclData(decl); data != nil {
			params = data.TypeParams
		}
	case ast.DeclFunc:
		if data := tc.mod.FuncDeclData(decl); data != nil {
			params = data.TypeParams
		}
	}
	if len(params) == 0 {
		return
	}
	ids := make([]types.TypeID, len(params))
	for i, p := range params {
		idx, ok := convIndex(i)
		if !ok {
			continue
		}
		ids[i] = tc.types.RegisterTypeParam(p.Name, uint32(declID), idx)
	}
	if tc.declTypeParams == nil {
		tc.declTypeParams = make(map[ast.DeclID][]types.TypeID)
	}
	tc.declTypeParams[declID] = ids
}

func (tc *typeChecker) resolveStructDecl(declID ast.DeclID, decl *ast.Decl) {
	data := tc.mod.StructDeclData(decl)
	typeID := tc.declType[declID]
	if data == nil || typeID == types.NoTypeID {
		return
	}
	restore := tc.enterTypeParamScope(declID, data.TypeParams)
	defer restore()

	fields := make([]types.StructField, len(data.Fields))
	for i, f := range data.Fields {
		fields[i] = types.StructField{
			Name: f.Name,
			Type: tc.resolveTypeExpr(f.Type),
		}
	}
	tc.types.SetStructFields(typeID, fields)
}

func (tc *typeChecker) resolveEnumDecl(declID ast.DeclID, decl *ast.Decl) {
	data := tc.mod.EnumDeclData(decl)
	typeID := tc.declType[declID]
	if data == nil || typeID == types.NoTypeID {
		return
	}
	restore := tc.enterTypeParamScope(declID, data.TypeParams)
	defer restore()

	variants := make([]types.EnumVariant, len(data.Variants))
	for i, v := range data.Variants {
		variants[i] = types.EnumVariant{
			Name: v.Name,
			Span: v.Span,
		}
		if v.Payload.IsValid() {
			variants[i].Payload = tc.resolveTypeExpr(v.Payload)
		}
	}
	tc.types.SetEnumVariants(typeID, variants)
}

func (tc *typeChecker) resolveFuncSig(declID ast.DeclID, decl *ast.Decl) {
	data := tc.mod.FuncDeclData(decl)
	sig := tc.result.Sigs[declID]
	if data == nil || sig == nil {
		return
	}
	restore := tc.enterTypeParamScope(declID, data.TypeParams)
	defer restore()

	sig.TypeParams = tc.declTypeParams[declID]

	if data.Owner.IsValid() {
		owner := tc.resolveTypeExpr(data.Owner)
		sig.Owner = tc.ownerDef(owner)
		sig.OwnerArgs = tc.ownerArgs(owner)
	}

	sig.Params = make([]types.TypeID, len(data.Params))
	for i, p := range data.Params {
		sig.Params[i] = tc.resolveTypeExpr(p.Type)
	}
	if data.Result.IsValid() {
		sig.Result = tc.resolveTypeExpr(data.Result)
	} else {
		sig.Result = tc.types.Builtins().Unit
	}

	if sym := tc.table.Get(sig.Sym); sym != nil {
		sym.Type = tc.types.RegisterFn(sig.Params, sig.Result)
	}

	if sig.IsMethod() {
		tc.methods.Register(sig.Owner, sig.Name, MethodEntry{Sig: sig})
	}
}

// ownerDef normalizes an owner type to its generic definition, so methods on
// Box<T> register against the Box shape.
func (tc *typeChecker) ownerDef(owner types.TypeID) types.TypeID {
	if info, ok := tc.types.StructInfo(owner); ok && info.Def != types.NoTypeID {
		return info.Def
	}
	if info, ok := tc.types.EnumInfo(owner); ok && info.Def != types.NoTypeID {
		return info.Def
	}
	return owner
}

func (tc *typeChecker) ownerArgs(owner types.TypeID) []types.TypeID {
	if info, ok := tc.types.StructInfo(owner); ok && len(info.TypeArgs) > 0 {
		return info.TypeArgs
	}
	if info, ok := tc.types.EnumInfo(owner); ok && len(info.TypeArgs) > 0 {
		return info.TypeArgs
	}
	return nil
}

// validateLayouts asks the layout engine for every declared type, surfacing
// by-value recursion as a declaration-time diagnostic.
func (tc *typeChecker) validateLayouts() {
	for i := uint32(1); i <= tc.mod.Decls.Len(); i++ {
		declID := ast.DeclID(i)
		decl := tc.mod.Decl(declID)
		if decl.Kind != ast.DeclStruct && decl.Kind != ast.DeclEnum {
			continue
		}
		// Generic definitions are validated per instance; their params have
		// no layout of their own.
		if len(tc.declTypeParams[declID]) > 0 {
			continue
		}
		typeID := tc.declType[declID]
		if typeID == types.NoTypeID {
			continue
		}
		if _, err := tc.layout.LayoutOf(typeID); err != nil {
			var lerr *layout.LayoutError
			if errors.As(err, &lerr) && lerr.Kind == layout.ErrRecursive {
				tc.report(diag.LayoutRecursive, decl.Span,
					"%s contains itself by value; break the cycle with a pointer or reference",
					tc.name(decl.Name))
				continue
			}
			tc.report(diag.LayoutOverflow, decl.Span, "%s: %v", tc.name(decl.Name), err)
		}
	}
}

func convIndex(i int) (uint32, bool) {
	idx, err := safecast.Conv[uint32](i)
	if err != nil {
		return 0, false
	}
	return idx, true
}
