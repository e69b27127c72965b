package sema

import (
	"zenc/internal/ast"
	"zenc/internal/diag"
	"zenc/internal/symbols"
	"zenc/internal/types"
)

// checkBodies type-checks every function body. Generic bodies are checked
// once abstractly, with their parameters left opaque; each concrete
// instantiation is re-checked on demand when a call site resolves it.
func (tc *typeChecker) checkBodies() {
	for i := uint32(1); i <= tc.mod.Decls.Len(); i++ {
		declID := ast.DeclID(i)
		decl := tc.mod.Decl(declID)
		if decl.Kind != ast.DeclFunc {
			continue
		}
		sig := tc.result.Sigs[declID]
		if sig == nil {
			continue
		}
		tc.checkFuncBody(declID, sig, nil)
	}
}

// checkFuncBody checks one function body, under subst when checking a
// concrete generic instantiation.
func (tc *typeChecker) checkFuncBody(declID ast.DeclID, sig *FuncSig, subst map[types.TypeID]types.TypeID) {
	decl := tc.mod.Decl(declID)
	data := tc.mod.FuncDeclData(decl)
	if data == nil || !data.Body.IsValid() {
		return
	}

	restoreTP := tc.enterTypeParamScope(declID, data.TypeParams)
	prevSubst := tc.activeSubst
	prevFunc := tc.curFunc
	prevCaller := tc.curCaller
	prevScope := tc.scope
	tc.activeSubst = subst
	tc.curFunc = sig
	tc.curCaller = sig.Sym
	tc.scope = symbols.NewScope(symbols.ScopeFunction, tc.moduleScope)

	paramSyms := make([]symbols.SymbolID, len(data.Params))
	for i, p := range data.Params {
		var t types.TypeID
		if i < len(sig.Params) {
			t = tc.applySubst(sig.Params[i])
		}
		sym := tc.table.Insert(symbols.Symbol{
			Kind: symbols.SymbolParam,
			Name: p.Name,
			Span: p.Span,
			Decl: declID,
			Type: t,
		})
		paramSyms[i] = sym
		if _, clash := tc.scope.Insert(p.Name, sym); clash {
			tc.report(diag.SemaDuplicateSymbol, p.Span,
				"duplicate parameter %s", tc.name(p.Name))
		}
	}
	tc.table.BindParams(declID, paramSyms)

	tc.checkStmt(data.Body)

	tc.scope = prevScope
	tc.curCaller = prevCaller
	tc.curFunc = prevFunc
	tc.activeSubst = prevSubst
	restoreTP()
}

func (tc *typeChecker) checkStmt(id ast.StmtID) {
	s := tc.mod.Stmt(id)
	if s == nil {
		return
	}
	switch s.Kind {
	case ast.StmtBlock:
		data := tc.mod.BlockData(s)
		if data == nil {
			return
		}
		restore := tc.pushScope(symbols.ScopeBlock)
		for _, child := range data.Stmts {
			tc.checkStmt(child)
		}
		restore()
	case ast.StmtLet:
		tc.checkLet(id, s)
	case ast.StmtAssign:
		tc.checkAssign(s)
	case ast.StmtExpr:
		if data := tc.mod.ExprStmtData(s); data != nil {
			tc.inferExpr(data.Expr)
		}
	case ast.StmtReturn:
		tc.checkReturn(s)
	case ast.StmtIf:
		tc.checkIf(s)
	case ast.StmtWhile:
		tc.checkWhile(s)
	}
}

func (tc *typeChecker) checkLet(id ast.StmtID, s *ast.Stmt) {
	data := tc.mod.LetData(s)
	if data == nil {
		return
	}
	valueType := types.NoTypeID
	if data.Value.IsValid() {
		valueType = tc.inferExpr(data.Value)
	}
	declared := types.NoTypeID
	if data.Type.IsValid() {
		declared = tc.applySubst(tc.resolveTypeExpr(data.Type))
		if !tc.assignable(declared, valueType) {
			tc.report(diag.SemaTypeMismatch, s.Span,
				"cannot initialize %s with %s", tc.label(declared), tc.label(valueType))
		}
	}
	bound := declared
	if bound == types.NoTypeID {
		bound = valueType
	}
	sym := tc.table.Insert(symbols.Symbol{
		Kind:    symbols.SymbolLet,
		Name:    data.Name,
		Span:    s.Span,
		Type:    bound,
		Mutable: data.Mut,
	})
	tc.table.BindLet(id, sym)
	// Shadowing an outer binding is fine; a duplicate in the same block is
	// not.
	if _, clash := tc.scope.Insert(data.Name, sym); clash {
		tc.report(diag.SemaDuplicateSymbol, s.Span,
			"duplicate binding %s in this block", tc.name(data.Name))
	}
}

func (tc *typeChecker) checkAssign(s *ast.Stmt) {
	data := tc.mod.AssignData(s)
	if data == nil {
		return
	}
	targetType := tc.inferExpr(data.Target)
	valueType := tc.inferExpr(data.Value)
	if !tc.isMutablePlace(data.Target) {
		tc.report(diag.SemaImmutableWrite, tc.mod.ExprSpan(data.Target),
			"cannot assign to an immutable place")
	}
	if !tc.assignable(targetType, valueType) {
		tc.report(diag.SemaTypeMismatch, s.Span,
			"cannot assign %s to %s", tc.label(valueType), tc.label(targetType))
	}
}

func (tc *typeChecker) checkReturn(s *ast.Stmt) {
	data := tc.mod.ReturnData(s)
	if data == nil || tc.curFunc == nil {
		return
	}
	want := tc.applySubst(tc.curFunc.Result)
	got := tc.types.Builtins().Unit
	if data.Value.IsValid() {
		got = tc.inferExpr(data.Value)
	}
	if !tc.assignable(want, got) {
		tc.report(diag.SemaTypeMismatch, s.Span,
			"return expects %s, got %s", tc.label(want), tc.label(got))
	}
}

func (tc *typeChecker) checkIf(s *ast.Stmt) {
	data := tc.mod.IfData(s)
	if data == nil {
		return
	}
	tc.checkCond(data.Cond)
	tc.checkStmt(data.Then)
	if data.Else.IsValid() {
		tc.checkStmt(data.Else)
	}
}

func (tc *typeChecker) checkWhile(s *ast.Stmt) {
	data := tc.mod.WhileData(s)
	if data == nil {
		return
	}
	tc.checkCond(data.Cond)
	tc.checkStmt(data.Body)
}

func (tc *typeChecker) checkCond(id ast.ExprID) {
	cond := tc.inferExpr(id)
	if cond != types.NoTypeID && cond != tc.types.Builtins().Bool {
		tc.report(diag.SemaTypeMismatch, tc.mod.ExprSpan(id),
			"condition must be bool, got %s", tc.label(cond))
	}
}
