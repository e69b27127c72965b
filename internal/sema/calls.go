package sema

import (
	"strings"

	"zenc/internal/ast"
	"zenc/internal/diag"
	"zenc/internal/source"
	"zenc/internal/symbols"
	"zenc/internal/types"
)

func (tc *typeChecker) inferCall(id ast.ExprID, e *ast.Expr) types.TypeID {
	data := tc.mod.CallData(e)
	if data == nil {
		return types.NoTypeID
	}

	callee := tc.mod.Expr(data.Callee)
	if callee != nil && callee.Kind == ast.ExprIdent {
		ident := tc.mod.IdentData(callee)
		if ident != nil {
			if symID, ok := tc.scope.Lookup(ident.Name); ok {
				sym := tc.table.Get(symID)
				if sym != nil && sym.Kind == symbols.SymbolFunction {
					sig := tc.result.Sigs[sym.Decl]
					if sig == nil {
						return types.NoTypeID
					}
					tc.table.RecordRef(data.Callee, symID, callee.Span)
					tc.setType(data.Callee, sym.Type)
					return tc.callSig(id, sig, nil, data.TypeArgs, data.Args, e.Span)
				}
			} else {
				tc.report(diag.SemaUnresolvedSymbol, callee.Span,
					"unresolved name %s", tc.name(ident.Name))
				for _, a := range data.Args {
					tc.inferExpr(a)
				}
				return types.NoTypeID
			}
		}
	}

	// Indirect call through a function-typed value.
	calleeType := tc.inferExpr(data.Callee)
	if calleeType == types.NoTypeID {
		for _, a := range data.Args {
			tc.inferExpr(a)
		}
		return types.NoTypeID
	}
	info, ok := tc.types.FnInfo(calleeType)
	if !ok {
		tc.report(diag.SemaNotCallable, e.Span, "%s is not callable", tc.label(calleeType))
		for _, a := range data.Args {
			tc.inferExpr(a)
		}
		return types.NoTypeID
	}
	if len(data.Args) != len(info.Params) {
		tc.report(diag.SemaArityMismatch, e.Span,
			"call expects %d argument(s), got %d", len(info.Params), len(data.Args))
	}
	for i, a := range data.Args {
		got := tc.inferExpr(a)
		if i < len(info.Params) && !tc.assignable(info.Params[i], got) {
			tc.report(diag.SemaTypeMismatch, tc.mod.ExprSpan(a),
				"argument %d expects %s, got %s", i+1, tc.label(info.Params[i]), tc.label(got))
		}
	}
	return info.Result
}

// callSig checks a direct call against a resolved signature. boundSelf, when
// valid, supplies the receiver for Params[SelfPos]; ownerSubst carries the
// receiver instance's type arguments for methods on generic owners.
func (tc *typeChecker) callSig(callID ast.ExprID, sig *FuncSig, ownerSubst map[types.TypeID]types.TypeID, typeArgs []ast.TypeExprID, args []ast.ExprID, span source.Span) types.TypeID {
	return tc.callSigWithSelf(callID, sig, ownerSubst, typeArgs, args, types.NoTypeID, span)
}

func (tc *typeChecker) callSigWithSelf(callID ast.ExprID, sig *FuncSig, ownerSubst map[types.TypeID]types.TypeID, typeArgs []ast.TypeExprID, args []ast.ExprID, selfType types.TypeID, span source.Span) types.TypeID {
	argTypes := make([]types.TypeID, len(args))
	for i, a := range args {
		argTypes[i] = tc.inferExpr(a)
	}

	// The receiver occupies the first declared parameter, both for inherent
	// methods and for free functions reached by uniform call syntax.
	offset := 0
	if selfType != types.NoTypeID {
		offset = 1
	}
	if len(args)+offset != len(sig.Params) {
		tc.report(diag.SemaArityMismatch, span,
			"%s expects %d argument(s), got %d",
			tc.name(sig.Name), len(sig.Params)-offset, len(args))
	}

	subst := make(map[types.TypeID]types.TypeID)
	for k, v := range ownerSubst {
		subst[k] = v
	}

	if sig.IsGeneric() {
		switch {
		case len(typeArgs) > 0:
			if len(typeArgs) != len(sig.TypeParams) {
				tc.report(diag.SemaArityMismatch, span,
					"%s expects %d type argument(s), got %d",
					tc.name(sig.Name), len(sig.TypeParams), len(typeArgs))
			}
			for i, ta := range typeArgs {
				if i < len(sig.TypeParams) {
					subst[sig.TypeParams[i]] = tc.resolveTypeExpr(ta)
				}
			}
		default:
			if offset == 1 && len(sig.Params) > 0 {
				tc.solveSubst(sig.Params[0], tc.types.Deref(selfType), subst)
			}
			for i, at := range argTypes {
				pi := i + offset
				if pi < len(sig.Params) && at != types.NoTypeID {
					tc.solveSubst(sig.Params[pi], at, subst)
				}
			}
		}
		for _, p := range sig.TypeParams {
			if _, ok := subst[p]; !ok {
				tc.report(diag.SemaUnknownType, span,
					"cannot infer type arguments for %s", tc.name(sig.Name))
				return types.NoTypeID
			}
		}
	}

	if offset == 1 && len(sig.Params) > 0 {
		want := tc.substituteType(sig.Params[0], subst)
		if !tc.selfCompatible(want, selfType) {
			tc.report(diag.SemaTypeMismatch, span,
				"receiver expects %s, got %s", tc.label(want), tc.label(selfType))
		}
	}
	for i, at := range argTypes {
		pi := i + offset
		if pi >= len(sig.Params) {
			break
		}
		want := tc.substituteType(sig.Params[pi], subst)
		if !tc.assignable(want, at) {
			tc.report(diag.SemaTypeMismatch, tc.mod.ExprSpan(args[i]),
				"argument %d expects %s, got %s", i+1, tc.label(want), tc.label(at))
		}
	}

	if len(subst) > 0 {
		tc.recordCallInstantiation(callID, sig, subst, span)
	}
	return tc.substituteType(sig.Result, subst)
}

// selfCompatible accepts the receiver by value, by reference (auto-borrow),
// or through any number of dereferences.
func (tc *typeChecker) selfCompatible(want, got types.TypeID) bool {
	if tc.assignable(want, got) {
		return true
	}
	if tc.assignable(want, tc.types.Intern(types.MakeReference(got, false))) {
		return true
	}
	if tc.assignable(want, tc.types.Intern(types.MakeReference(got, true))) {
		return true
	}
	return tc.assignable(want, tc.types.Deref(got))
}

// recordCallInstantiation memoizes one concrete instantiation of a generic
// function and type-checks its body under the solved substitution. Abstract
// arguments, which appear when a generic body calls another generic, are
// left for the enclosing instantiation to resolve.
func (tc *typeChecker) recordCallInstantiation(callID ast.ExprID, sig *FuncSig, subst map[types.TypeID]types.TypeID, span source.Span) {
	ordered := make([]types.TypeID, 0, len(sig.OwnerArgs)+len(sig.TypeParams))
	for _, p := range sig.OwnerArgs {
		ordered = append(ordered, tc.substituteType(p, subst))
	}
	for _, p := range sig.TypeParams {
		ordered = append(ordered, subst[p])
	}
	if len(ordered) == 0 {
		return
	}
	for _, a := range ordered {
		if a == types.NoTypeID || tc.containsGenericParam(a) {
			return
		}
	}

	if callID.IsValid() {
		tc.curCallKeys[callID] = types.ArgsKey(ordered)
	}
	if tc.insts != nil {
		tc.insts.RecordFnInstantiation(sig.Sym, ordered, span, tc.curCaller)
	}
	tc.checkFnInstantiation(sig, ordered, subst)
}

// checkFnInstantiation type-checks a generic function body once per distinct
// argument key, producing the per-instance node-type map.
func (tc *typeChecker) checkFnInstantiation(sig *FuncSig, args []types.TypeID, subst map[types.TypeID]types.TypeID) {
	key := InstKey{Decl: sig.Decl, ArgsKey: types.ArgsKey(args)}
	if _, done := tc.checkedInsts[key]; done {
		return
	}
	tc.checkedInsts[key] = struct{}{}

	instTypes := make(map[ast.ExprID]types.TypeID)
	tc.result.FnInstTypes[key] = instTypes

	instSig := &FuncSig{
		Decl:    sig.Decl,
		Sym:     sig.Sym,
		Name:    sig.Name,
		Params:  make([]types.TypeID, len(sig.Params)),
		Result:  tc.substituteType(sig.Result, subst),
		Owner:   sig.Owner,
		SelfPos: sig.SelfPos,
	}
	for i, p := range sig.Params {
		instSig.Params[i] = tc.substituteType(p, subst)
	}
	tc.result.InstSigs[key] = instSig

	instKeys := make(map[ast.ExprID]string)
	tc.result.FnInstCallKeys[key] = instKeys

	bodySubst := make(map[types.TypeID]types.TypeID, len(subst))
	for k, v := range subst {
		bodySubst[k] = v
	}

	prevTypes := tc.curTypes
	prevKeys := tc.curCallKeys
	tc.curTypes = instTypes
	tc.curCallKeys = instKeys
	tc.checkFuncBody(sig.Decl, sig, bodySubst)
	tc.curCallKeys = prevKeys
	tc.curTypes = prevTypes
}

// containsGenericParam reports whether a type still mentions an unsolved
// generic parameter.
func (tc *typeChecker) containsGenericParam(t types.TypeID) bool {
	tt, ok := tc.types.Lookup(t)
	if !ok {
		return false
	}
	switch tt.Kind {
	case types.KindGenericParam:
		return true
	case types.KindPointer, types.KindReference:
		return tc.containsGenericParam(tt.Elem)
	case types.KindStruct:
		if info, ok := tc.types.StructInfo(t); ok {
			for _, a := range info.TypeArgs {
				if tc.containsGenericParam(a) {
					return true
				}
			}
		}
	case types.KindEnum:
		if info, ok := tc.types.EnumInfo(t); ok {
			for _, a := range info.TypeArgs {
				if tc.containsGenericParam(a) {
					return true
				}
			}
		}
	case types.KindFn:
		if info, ok := tc.types.FnInfo(t); ok {
			for _, p := range info.Params {
				if tc.containsGenericParam(p) {
					return true
				}
			}
			return tc.containsGenericParam(info.Result)
		}
	}
	return false
}

// inferMethodCall resolves `recv.name(args)` by uniform call syntax:
// inherent methods on the receiver first, then through successive
// dereferences, then free functions accepting the receiver as their first
// argument.
func (tc *typeChecker) inferMethodCall(id ast.ExprID, e *ast.Expr) types.TypeID {
	data := tc.mod.MethodCallData(e)
	if data == nil {
		return types.NoTypeID
	}
	recv := tc.inferExpr(data.Recv)
	if recv == types.NoTypeID {
		for _, a := range data.Args {
			tc.inferExpr(a)
		}
		return types.NoTypeID
	}

	// Inherent methods, peeling one indirection per step.
	cur := recv
	for {
		entries, instArgs := tc.methods.Lookup(tc.types, cur, data.Name)
		if len(entries) > 1 {
			tc.reportAmbiguous(data, entries)
			for _, a := range data.Args {
				tc.inferExpr(a)
			}
			return types.NoTypeID
		}
		if len(entries) == 1 {
			sig := entries[0].Sig
			tc.table.RecordRef(id, sig.Sym, data.NameSpan)
			ownerSubst := tc.ownerSubstFor(sig, instArgs)
			return tc.callSigWithSelf(id, sig, ownerSubst, data.TypeArgs, data.Args, recv, e.Span)
		}
		tt, ok := tc.types.Lookup(cur)
		if !ok || (tt.Kind != types.KindPointer && tt.Kind != types.KindReference) {
			break
		}
		cur = tt.Elem
	}

	// Free functions whose first parameter accepts the receiver.
	var matches []*FuncSig
	for _, declID := range tc.freeFuncs[data.Name] {
		sig := tc.result.Sigs[declID]
		if sig == nil || len(sig.Params) == 0 {
			continue
		}
		if tc.firstParamAccepts(sig, recv) {
			matches = append(matches, sig)
		}
	}
	switch len(matches) {
	case 0:
		tc.report(diag.SemaUnresolvedMethod, data.NameSpan,
			"%s has no method %s", tc.label(recv), tc.name(data.Name))
		for _, a := range data.Args {
			tc.inferExpr(a)
		}
		return types.NoTypeID
	case 1:
		sig := matches[0]
		tc.table.RecordRef(id, sig.Sym, data.NameSpan)
		return tc.callSigWithSelf(id, sig, nil, data.TypeArgs, data.Args, recv, e.Span)
	default:
		tc.report(diag.SemaAmbiguousMethod, data.NameSpan,
			"ambiguous call %s on %s: %d candidate functions",
			tc.name(data.Name), tc.label(recv), len(matches))
		for _, a := range data.Args {
			tc.inferExpr(a)
		}
		return types.NoTypeID
	}
}

func (tc *typeChecker) reportAmbiguous(data *ast.MethodCallData, entries []MethodEntry) {
	var spans []string
	for _, en := range entries {
		if sym := tc.table.Get(en.Sig.Sym); sym != nil {
			spans = append(spans, sym.Span.String())
		}
	}
	tc.report(diag.SemaAmbiguousMethod, data.NameSpan,
		"ambiguous method %s: declared at %s", tc.name(data.Name), strings.Join(spans, ", "))
}

// ownerSubstFor maps the owner's generic parameters to the receiver
// instance's arguments.
func (tc *typeChecker) ownerSubstFor(sig *FuncSig, instArgs []types.TypeID) map[types.TypeID]types.TypeID {
	if len(instArgs) == 0 || len(sig.OwnerArgs) == 0 {
		return nil
	}
	subst := make(map[types.TypeID]types.TypeID, len(sig.OwnerArgs))
	for i, p := range sig.OwnerArgs {
		if i < len(instArgs) {
			subst[p] = instArgs[i]
		}
	}
	return subst
}

// firstParamAccepts reports whether recv fits a free function's first
// parameter, with the same auto-borrow and deref allowances as an inherent
// receiver.
func (tc *typeChecker) firstParamAccepts(sig *FuncSig, recv types.TypeID) bool {
	want := sig.Params[0]
	if sig.IsGeneric() {
		subst := make(map[types.TypeID]types.TypeID)
		return tc.solveSubst(want, tc.types.Deref(recv), subst) ||
			tc.solveSubst(want, recv, subst)
	}
	return tc.selfCompatible(want, recv)
}
