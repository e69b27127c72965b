package sema

import (
	"zenc/internal/ast"
	"zenc/internal/diag"
	"zenc/internal/source"
	"zenc/internal/symbols"
	"zenc/internal/types"
)

// enterTypeParamScope makes a declaration's generic parameter names
// resolvable by name; the returned closer restores the previous scope.
func (tc *typeChecker) enterTypeParamScope(declID ast.DeclID, params []ast.TypeParam) func() {
	prev := tc.typeParamScope
	if len(params) == 0 {
		return func() { tc.typeParamScope = prev }
	}
	scope := make(map[source.StringID]types.TypeID, len(params))
	ids := tc.declTypeParams[declID]
	for i, p := range params {
		if i < len(ids) {
			scope[p.Name] = ids[i]
		}
	}
	tc.typeParamScope = scope
	return func() { tc.typeParamScope = prev }
}

// resolveTypeExpr turns a syntactic type into a TypeID. Unknown names emit
// UnknownType and resolve to the unresolved sentinel.
func (tc *typeChecker) resolveTypeExpr(id ast.TypeExprID) types.TypeID {
	te := tc.mod.TypeExpr(id)
	if te == nil {
		return types.NoTypeID
	}
	switch te.Kind {
	case ast.TypeExprRef:
		elem := tc.resolveTypeExpr(te.Elem)
		if elem == types.NoTypeID {
			return types.NoTypeID
		}
		return tc.types.Intern(types.MakeReference(elem, te.Mut))
	case ast.TypeExprPtr:
		elem := tc.resolveTypeExpr(te.Elem)
		if elem == types.NoTypeID {
			return types.NoTypeID
		}
		return tc.types.Intern(types.MakePointer(elem))
	case ast.TypeExprNamed:
		return tc.resolveNamedType(te)
	default:
		return types.NoTypeID
	}
}

func (tc *typeChecker) resolveNamedType(te *ast.TypeExpr) types.TypeID {
	// Generic parameters in scope shadow everything.
	if tc.typeParamScope != nil {
		if param, ok := tc.typeParamScope[te.Name]; ok {
			if mapped, sub := tc.activeSubst[param]; sub {
				return mapped
			}
			return param
		}
	}

	if builtin, ok := tc.builtinNamed(tc.name(te.Name)); ok {
		if len(te.Args) > 0 {
			tc.report(diag.SemaUnknownType, te.Span, "%s does not take type arguments", tc.name(te.Name))
		}
		return builtin
	}

	symID, ok := tc.moduleScope.Lookup(te.Name)
	if !ok {
		tc.report(diag.SemaUnknownType, te.Span, "unknown type %s", tc.name(te.Name))
		return types.NoTypeID
	}
	sym := tc.table.Get(symID)
	if sym == nil || sym.Kind != symbols.SymbolType {
		tc.report(diag.SemaUnknownType, te.Span, "%s is not a type", tc.name(te.Name))
		return types.NoTypeID
	}
	def := sym.Type

	wantParams := len(tc.declTypeParams[sym.Decl])
	if len(te.Args) == 0 {
		if wantParams > 0 {
			tc.report(diag.SemaArityMismatch, te.Span,
				"%s expects %d type argument(s)", tc.name(te.Name), wantParams)
			return types.NoTypeID
		}
		return def
	}
	if len(te.Args) != wantParams {
		tc.report(diag.SemaArityMismatch, te.Span,
			"%s expects %d type argument(s), got %d", tc.name(te.Name), wantParams, len(te.Args))
		return types.NoTypeID
	}

	args := make([]types.TypeID, len(te.Args))
	for i, a := range te.Args {
		args[i] = tc.resolveTypeExpr(a)
		if args[i] == types.NoTypeID {
			return types.NoTypeID
		}
	}
	return tc.instantiateNamed(def, args, te.Span)
}

func (tc *typeChecker) builtinNamed(name string) (types.TypeID, bool) {
	b := tc.types.Builtins()
	switch name {
	case "int":
		return b.Int, true
	case "uint":
		return b.Uint, true
	case "float":
		return b.Float, true
	case "bool":
		return b.Bool, true
	case "string":
		return b.String, true
	case "unit":
		return b.Unit, true
	case "i8":
		return tc.types.Intern(types.MakeInt(types.Width8)), true
	case "i16":
		return tc.types.Intern(types.MakeInt(types.Width16)), true
	case "i32":
		return tc.types.Intern(types.MakeInt(types.Width32)), true
	case "i64":
		return tc.types.Intern(types.MakeInt(types.Width64)), true
	case "u8":
		return tc.types.Intern(types.MakeUint(types.Width8)), true
	case "u16":
		return tc.types.Intern(types.MakeUint(types.Width16)), true
	case "u32":
		return tc.types.Intern(types.MakeUint(types.Width32)), true
	case "u64":
		return tc.types.Intern(types.MakeUint(types.Width64)), true
	case "f32":
		return tc.types.Intern(types.MakeFloat(types.Width32)), true
	case "f64":
		return tc.types.Intern(types.MakeFloat(types.Width64)), true
	default:
		return types.NoTypeID, false
	}
}

// instantiateNamed monomorphizes a generic struct or enum definition for the
// given concrete arguments. Identical keys are cache hits: the instance is
// memoized before its members are substituted, so recursive generic types
// terminate.
func (tc *typeChecker) instantiateNamed(def types.TypeID, args []types.TypeID, span source.Span) types.TypeID {
	if id, ok := tc.types.Instance(def, args); ok {
		return id
	}

	declID := tc.declOfType[def]
	params := tc.declTypeParams[declID]
	subst := make(map[types.TypeID]types.TypeID, len(params))
	for i, p := range params {
		if i < len(args) {
			subst[p] = args[i]
		}
	}

	var inst types.TypeID
	switch tc.types.KindOf(def) {
	case types.KindStruct:
		inst = tc.types.RegisterStructInstance(def, args)
		tc.types.RememberInstance(def, args, inst)
		defInfo, _ := tc.types.StructInfo(def)
		fields := make([]types.StructField, len(defInfo.Fields))
		for i, f := range defInfo.Fields {
			fields[i] = types.StructField{Name: f.Name, Type: tc.substituteType(f.Type, subst)}
		}
		tc.types.SetStructFields(inst, fields)
	case types.KindEnum:
		inst = tc.types.RegisterEnumInstance(def, args)
		tc.types.RememberInstance(def, args, inst)
		defInfo, _ := tc.types.EnumInfo(def)
		variants := make([]types.EnumVariant, len(defInfo.Variants))
		for i, v := range defInfo.Variants {
			variants[i] = types.EnumVariant{Name: v.Name, Span: v.Span}
			if v.Payload != types.NoTypeID {
				variants[i].Payload = tc.substituteType(v.Payload, subst)
			}
		}
		tc.types.SetEnumVariants(inst, variants)
	default:
		return types.NoTypeID
	}

	if tc.insts != nil && tc.concreteArgs(args) {
		tc.insts.RecordTypeInstantiation(tc.typeSyms[declID], args, span, tc.curCaller)
	}
	// An instance may violate the indirection invariant even when its
	// definition does not (e.g. Box<Box<...>> by value through a param).
	tc.validateInstanceLayout(inst, span, declID)
	return inst
}

func (tc *typeChecker) concreteArgs(args []types.TypeID) bool {
	for _, a := range args {
		if a == types.NoTypeID || tc.containsGenericParam(a) {
			return false
		}
	}
	return true
}

func (tc *typeChecker) validateInstanceLayout(inst types.TypeID, span source.Span, declID ast.DeclID) {
	if inst == types.NoTypeID {
		return
	}
	if _, err := tc.layout.LayoutOf(inst); err != nil {
		decl := tc.mod.Decl(declID)
		name := "?"
		if decl != nil {
			name = tc.name(decl.Name)
		}
		tc.report(diag.LayoutRecursive, span,
			"instantiation of %s contains itself by value", name)
	}
}

// substituteType rewrites generic parameters inside t according to subst.
func (tc *typeChecker) substituteType(t types.TypeID, subst map[types.TypeID]types.TypeID) types.TypeID {
	if t == types.NoTypeID || len(subst) == 0 {
		return t
	}
	if mapped, ok := subst[t]; ok {
		return mapped
	}
	tt, ok := tc.types.Lookup(t)
	if !ok {
		return t
	}
	switch tt.Kind {
	case types.KindPointer:
		elem := tc.substituteType(tt.Elem, subst)
		if elem == tt.Elem {
			return t
		}
		return tc.types.Intern(types.MakePointer(elem))
	case types.KindReference:
		elem := tc.substituteType(tt.Elem, subst)
		if elem == tt.Elem {
			return t
		}
		return tc.types.Intern(types.MakeReference(elem, tt.Mutable))
	case types.KindStruct:
		info, ok := tc.types.StructInfo(t)
		if !ok || len(info.TypeArgs) == 0 {
			return t
		}
		return tc.reinstantiate(info.Def, info.TypeArgs, subst)
	case types.KindEnum:
		info, ok := tc.types.EnumInfo(t)
		if !ok || len(info.TypeArgs) == 0 {
			return t
		}
		return tc.reinstantiate(info.Def, info.TypeArgs, subst)
	case types.KindFn:
		info, ok := tc.types.FnInfo(t)
		if !ok {
			return t
		}
		params := make([]types.TypeID, len(info.Params))
		changed := false
		for i, p := range info.Params {
			params[i] = tc.substituteType(p, subst)
			changed = changed || params[i] != p
		}
		result := tc.substituteType(info.Result, subst)
		if !changed && result == info.Result {
			return t
		}
		return tc.types.RegisterFn(params, result)
	default:
		return t
	}
}

func (tc *typeChecker) reinstantiate(def types.TypeID, args []types.TypeID, subst map[types.TypeID]types.TypeID) types.TypeID {
	newArgs := make([]types.TypeID, len(args))
	changed := false
	for i, a := range args {
		newArgs[i] = tc.substituteType(a, subst)
		changed = changed || newArgs[i] != a
	}
	if !changed {
		if id, ok := tc.types.Instance(def, args); ok {
			return id
		}
	}
	return tc.instantiateNamed(def, newArgs, source.Span{})
}

// solveSubst unifies a signature type containing generic parameters against
// a concrete argument type, recording solutions in subst. It reports whether
// the shapes are compatible.
func (tc *typeChecker) solveSubst(sigType, argType types.TypeID, subst map[types.TypeID]types.TypeID) bool {
	if sigType == types.NoTypeID || argType == types.NoTypeID {
		return true
	}
	if tc.types.KindOf(sigType) == types.KindGenericParam {
		if prev, ok := subst[sigType]; ok {
			return prev == argType
		}
		subst[sigType] = argType
		return true
	}
	st, ok1 := tc.types.Lookup(sigType)
	at, ok2 := tc.types.Lookup(argType)
	if !ok1 || !ok2 {
		return sigType == argType
	}
	switch st.Kind {
	case types.KindPointer, types.KindReference:
		if at.Kind != st.Kind {
			return false
		}
		return tc.solveSubst(st.Elem, at.Elem, subst)
	case types.KindStruct:
		si, ok := tc.types.StructInfo(sigType)
		ai, aok := tc.types.StructInfo(argType)
		if !ok || !aok || len(si.TypeArgs) == 0 || si.Def != ai.Def {
			return sigType == argType
		}
		if len(si.TypeArgs) != len(ai.TypeArgs) {
			return false
		}
		for i := range si.TypeArgs {
			if !tc.solveSubst(si.TypeArgs[i], ai.TypeArgs[i], subst) {
				return false
			}
		}
		return true
	case types.KindEnum:
		si, ok := tc.types.EnumInfo(sigType)
		ai, aok := tc.types.EnumInfo(argType)
		if !ok || !aok || len(si.TypeArgs) == 0 || si.Def != ai.Def {
			return sigType == argType
		}
		if len(si.TypeArgs) != len(ai.TypeArgs) {
			return false
		}
		for i := range si.TypeArgs {
			if !tc.solveSubst(si.TypeArgs[i], ai.TypeArgs[i], subst) {
				return false
			}
		}
		return true
	default:
		return tc.assignable(sigType, argType)
	}
}
