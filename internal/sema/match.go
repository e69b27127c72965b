package sema

import (
	"strings"

	"zenc/internal/ast"
	"zenc/internal/diag"
	"zenc/internal/source"
	"zenc/internal/symbols"
	"zenc/internal/types"
)

// inferMatch types a match expression and enforces exhaustiveness: every
// variant of the subject enum must be covered by a variant arm or by a
// catch-all.
func (tc *typeChecker) inferMatch(e *ast.Expr) types.TypeID {
	data := tc.mod.MatchData(e)
	if data == nil {
		return types.NoTypeID
	}
	subject := tc.inferExpr(data.Subject)
	enumType := tc.types.Deref(subject)

	info, isEnum := tc.types.EnumInfo(enumType)
	if subject != types.NoTypeID && !isEnum {
		tc.report(diag.SemaTypeMismatch, tc.mod.ExprSpan(data.Subject),
			"match subject must be an enum, got %s", tc.label(subject))
	}

	covered := make(map[int]bool)
	catchAll := false
	result := types.NoTypeID
	first := true

	for _, arm := range data.Arms {
		restore := tc.pushScope(symbols.ScopeBlock)
		tc.bindPattern(arm.Pattern, enumType, info, covered, &catchAll)

		bodyType := tc.inferExpr(arm.Body)
		restore()

		if first {
			result = bodyType
			first = false
			continue
		}
		unified := tc.unify(result, bodyType)
		if unified == types.NoTypeID && result != types.NoTypeID && bodyType != types.NoTypeID {
			tc.report(diag.SemaTypeMismatch, tc.mod.ExprSpan(arm.Body),
				"match arms disagree: %s vs %s", tc.label(result), tc.label(bodyType))
		} else {
			result = unified
		}
	}

	if isEnum && !catchAll {
		var missing []string
		for i, v := range info.Variants {
			if !covered[i] {
				missing = append(missing, tc.name(v.Name))
			}
		}
		if len(missing) > 0 {
			tc.report(diag.SemaNonExhaustiveMatch, e.Span,
				"match is missing variants: %s", strings.Join(missing, ", "))
		}
	}
	return result
}

// bindPattern validates one pattern against the subject enum and introduces
// its bindings into the current arm scope.
func (tc *typeChecker) bindPattern(id ast.PatternID, enumType types.TypeID, info *types.EnumInfo, covered map[int]bool, catchAll *bool) {
	p := tc.mod.Pattern(id)
	if p == nil {
		return
	}
	switch p.Kind {
	case ast.PatternWildcard:
		*catchAll = true
	case ast.PatternBinding:
		*catchAll = true
		sym := tc.table.Insert(symbols.Symbol{
			Kind: symbols.SymbolLet,
			Name: p.Name,
			Span: p.Span,
			Type: enumType,
		})
		tc.scope.Insert(p.Name, sym)
		tc.table.BindPattern(id, sym)
	case ast.PatternVariant:
		if info == nil {
			return
		}
		variant, idx, ok := tc.types.EnumVariantByName(enumType, p.Name)
		if !ok {
			tc.report(diag.SemaUnknownVariant, p.Span,
				"%s has no variant %s", tc.label(enumType), tc.name(p.Name))
			return
		}
		if covered[idx] {
			tc.report(diag.SemaDuplicateSymbol, p.Span,
				"variant %s matched twice", tc.name(p.Name))
		}
		covered[idx] = true
		if p.Binding != source.NoStringID {
			if variant.Payload == types.NoTypeID {
				tc.report(diag.SemaArityMismatch, p.Span,
					"variant %s has no payload to bind", tc.name(p.Name))
				return
			}
			sym := tc.table.Insert(symbols.Symbol{
				Kind: symbols.SymbolLet,
				Name: p.Binding,
				Span: p.Span,
				Type: tc.applySubst(variant.Payload),
			})
			tc.scope.Insert(p.Binding, sym)
			tc.table.BindPattern(id, sym)
		}
	}
}
