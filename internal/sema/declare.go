package sema

import (
	"zenc/internal/ast"
	"zenc/internal/diag"
	"zenc/internal/symbols"
	"zenc/internal/types"
)

// declarePass registers every top-level declaration provisionally, so the
// resolution pass can see forward references and mutual recursion. Struct
// fields and enum variants stay unresolved until resolvePass.
func (tc *typeChecker) declarePass() {
	for i := uint32(1); i <= tc.mod.Decls.Len(); i++ {
		declID := ast.DeclID(i)
		decl := tc.mod.Decl(declID)
		switch decl.Kind {
		case ast.DeclStruct:
			tc.declareType(declID, decl, tc.types.RegisterStruct(decl.Name, decl.Span))
		case ast.DeclEnum:
			tc.declareType(declID, decl, tc.types.RegisterEnum(decl.Name, decl.Span))
		case ast.DeclFunc:
			tc.declareFunc(declID, decl)
		}
	}
}

func (tc *typeChecker) declareType(declID ast.DeclID, decl *ast.Decl, typeID types.TypeID) {
	tc.declType[declID] = typeID
	tc.declOfType[typeID] = declID

	sym := tc.table.Insert(symbols.Symbol{
		Kind: symbols.SymbolType,
		Name: decl.Name,
		Span: decl.Span,
		Decl: declID,
		Type: typeID,
	})
	tc.typeSyms[declID] = sym
	if prev, clash := tc.moduleScope.Insert(decl.Name, sym); clash {
		prevSym := tc.table.Get(prev)
		d := diag.NewError(diag.SemaDuplicateSymbol, decl.Span,
			"duplicate declaration of "+tc.name(decl.Name))
		if prevSym != nil {
			d = d.WithNote(prevSym.Span, "previously declared here")
		}
		if tc.reporter != nil {
			tc.reporter.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes)
		}
	}
}

func (tc *typeChecker) declareFunc(declID ast.DeclID, decl *ast.Decl) {
	data := tc.mod.FuncDeclData(decl)
	if data == nil {
		return
	}
	sym := tc.table.Insert(symbols.Symbol{
		Kind: symbols.SymbolFunction,
		Name: decl.Name,
		Span: decl.Span,
		Decl: declID,
	})
	sig := &FuncSig{
		Decl:    declID,
		Sym:     sym,
		Name:    decl.Name,
		SelfPos: -1,
	}
	tc.result.Sigs[declID] = sig

	if data.Owner.IsValid() {
		// Inherent methods are registered against their owner during the
		// resolution pass; they do not claim a module-scope name.
		sig.SelfPos = 0
		return
	}
	tc.freeFuncs[decl.Name] = append(tc.freeFuncs[decl.Name], declID)
	// Free functions may shadow nothing at module scope; a clash with a type
	// name or another function is a duplicate.
	if _, clash := tc.moduleScope.Insert(decl.Name, sym); clash {
		tc.report(diag.SemaDuplicateSymbol, decl.Span,
			"duplicate declaration of %s", tc.name(decl.Name))
	}
}
