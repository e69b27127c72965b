package sema_test

import (
	"strings"
	"testing"

	"zenc/internal/ast"
	"zenc/internal/diag"
	"zenc/internal/mono"
	"zenc/internal/sema"
	"zenc/internal/source"
	"zenc/internal/types"
)

func sp(start, end uint32) source.Span {
	return source.Span{File: 1, Start: start, End: end}
}

func check(t *testing.T, build func(m *ast.Module)) (sema.Result, *diag.Bag) {
	t.Helper()
	mod := ast.NewModule("test")
	build(mod)
	bag := diag.NewBag(64)
	res := sema.Check(mod, sema.Options{Reporter: diag.NewBagReporter(bag)})
	return res, bag
}

func checkWithInsts(t *testing.T, build func(m *ast.Module)) (sema.Result, *diag.Bag, *mono.InstantiationMap) {
	t.Helper()
	mod := ast.NewModule("test")
	build(mod)
	bag := diag.NewBag(64)
	insts := mono.NewInstantiationMap()
	res := sema.Check(mod, sema.Options{
		Reporter: diag.NewBagReporter(bag),
		Insts:    mono.NewInstantiationMapRecorder(insts),
	})
	return res, bag, insts
}

// addPoint declares `struct Point { x: i64, y: i64 }`.
func addPoint(m *ast.Module) {
	m.AddStruct(sp(1, 10), "Point", nil, []ast.FieldDef{
		m.Field(sp(2, 3), "x", m.NamedType(sp(2, 3), "i64")),
		m.Field(sp(4, 5), "y", m.NamedType(sp(4, 5), "i64")),
	})
}

func TestFieldAccessThroughReference(t *testing.T) {
	var field ast.ExprID
	res, bag := check(t, func(m *ast.Module) {
		addPoint(m)
		// fn get_x(p: &Point) -> i64 { return p.x }
		pParam := m.Param(sp(11, 12), "p", m.RefType(sp(11, 12), m.NamedType(sp(11, 12), "Point"), false))
		field = m.NewField(sp(13, 14), m.NewIdent(sp(13, 14), "p"), "x")
		body := m.NewBlock(sp(13, 15), m.NewReturn(sp(13, 15), field))
		m.AddFunc(sp(10, 20), "get_x", ast.FuncDeclData{
			Params: []ast.ParamDef{pParam},
			Result: m.NamedType(sp(16, 17), "i64"),
			Body:   body,
		})
	})
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	got := res.ExprTypes[field]
	tt, ok := res.Types.Lookup(got)
	if !ok || tt.Kind != types.KindInt || tt.Width != types.Width64 {
		t.Fatalf("p.x resolved to %v, want i64", tt)
	}
}

func TestMethodResolvesThroughDeref(t *testing.T) {
	res, bag := check(t, func(m *ast.Module) {
		// struct Counter { n: i64 }
		m.AddStruct(sp(1, 5), "Counter", nil, []ast.FieldDef{
			m.Field(sp(2, 3), "n", m.NamedType(sp(2, 3), "i64")),
		})
		// fn Counter.get(self: &Counter) -> i64 { return self.n }
		selfTy := m.RefType(sp(10, 11), m.NamedType(sp(10, 11), "Counter"), false)
		body := m.NewBlock(sp(12, 14),
			m.NewReturn(sp(12, 14), m.NewField(sp(12, 13), m.NewIdent(sp(12, 13), "self"), "n")))
		m.AddFunc(sp(10, 20), "get", ast.FuncDeclData{
			Owner:  m.NamedType(sp(10, 11), "Counter"),
			Params: []ast.ParamDef{m.Param(sp(10, 11), "self", selfTy)},
			Result: m.NamedType(sp(15, 16), "i64"),
			Body:   body,
		})
		// fn use_it(c: &Counter) -> i64 { return c.get() }
		call := m.NewMethodCall(sp(31, 35), m.NewIdent(sp(31, 32), "c"), "get", nil)
		m.AddFunc(sp(30, 40), "use_it", ast.FuncDeclData{
			Params: []ast.ParamDef{m.Param(sp(30, 31), "c",
				m.RefType(sp(30, 31), m.NamedType(sp(30, 31), "Counter"), false))},
			Result: m.NamedType(sp(36, 37), "i64"),
			Body:   m.NewBlock(sp(31, 36), m.NewReturn(sp(31, 36), call)),
		})
	})
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	if res.Methods.Len() != 1 {
		t.Fatalf("method table has %d buckets, want 1", res.Methods.Len())
	}
}

func TestGenericOwnerMethodThroughReference(t *testing.T) {
	var call ast.ExprID
	res, bag := check(t, func(m *ast.Module) {
		// struct Box<T> { value: T }
		m.AddStruct(sp(1, 5), "Box", []ast.TypeParam{m.TParam(sp(1, 2), "T")},
			[]ast.FieldDef{m.Field(sp(2, 3), "value", m.NamedType(sp(2, 3), "T"))})
		// fn Box<T>.get(self: &Box<T>) -> T { return self.value }
		m.AddFunc(sp(10, 20), "get", ast.FuncDeclData{
			TypeParams: []ast.TypeParam{m.TParam(sp(10, 11), "T")},
			Owner:      m.NamedType(sp(10, 11), "Box", m.NamedType(sp(10, 11), "T")),
			Params: []ast.ParamDef{m.Param(sp(11, 12), "self",
				m.RefType(sp(11, 12),
					m.NamedType(sp(11, 12), "Box", m.NamedType(sp(11, 12), "T")), false))},
			Result: m.NamedType(sp(13, 14), "T"),
			Body: m.NewBlock(sp(15, 16),
				m.NewReturn(sp(15, 16),
					m.NewField(sp(15, 16), m.NewIdent(sp(15, 16), "self"), "value"))),
		})
		// fn use_it(b: &Box<i64>) -> i64 { return b.get() }
		call = m.NewMethodCall(sp(31, 35), m.NewIdent(sp(31, 32), "b"), "get", nil)
		m.AddFunc(sp(30, 40), "use_it", ast.FuncDeclData{
			Params: []ast.ParamDef{m.Param(sp(30, 31), "b",
				m.RefType(sp(30, 31),
					m.NamedType(sp(30, 31), "Box", m.NamedType(sp(30, 31), "i64")), false))},
			Result: m.NamedType(sp(36, 37), "i64"),
			Body:   m.NewBlock(sp(31, 36), m.NewReturn(sp(31, 36), call)),
		})
	})
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	// The receiver is a reference to a generic instance; the call resolves
	// without an explicit deref and the owner's T maps to i64.
	got, ok := res.Types.Lookup(res.ExprTypes[call])
	if !ok || got.Kind != types.KindInt || got.Width != types.Width64 {
		t.Fatalf("b.get() resolved to %v, want i64", got)
	}
}

func TestMethodFallsBackToFreeFunction(t *testing.T) {
	_, bag := check(t, func(m *ast.Module) {
		addPoint(m)
		// fn norm(p: &Point) -> i64
		m.AddFunc(sp(10, 20), "norm", ast.FuncDeclData{
			Params: []ast.ParamDef{m.Param(sp(11, 12), "p",
				m.RefType(sp(11, 12), m.NamedType(sp(11, 12), "Point"), false))},
			Result: m.NamedType(sp(13, 14), "i64"),
			Body: m.NewBlock(sp(15, 16),
				m.NewReturn(sp(15, 16), m.NewIntLit(sp(15, 16), 0, "0"))),
		})
		// fn use_it(p: Point) -> i64 { return p.norm() }
		call := m.NewMethodCall(sp(31, 35), m.NewIdent(sp(31, 32), "p"), "norm", nil)
		m.AddFunc(sp(30, 40), "use_it", ast.FuncDeclData{
			Params: []ast.ParamDef{m.Param(sp(30, 31), "p", m.NamedType(sp(30, 31), "Point"))},
			Result: m.NamedType(sp(36, 37), "i64"),
			Body:   m.NewBlock(sp(31, 36), m.NewReturn(sp(31, 36), call)),
		})
	})
	if bag.HasErrors() {
		t.Fatalf("free-function fallback failed: %+v", bag.Items())
	}
}

func TestUnresolvedMethodKeepsChecking(t *testing.T) {
	_, bag := check(t, func(m *ast.Module) {
		addPoint(m)
		call := m.NewMethodCall(sp(31, 35), m.NewIdent(sp(31, 32), "p"), "missing", nil)
		// A second error after the bad call proves the checker kept going.
		badLet := m.NewLet(sp(40, 45), "b", false,
			m.NamedType(sp(40, 41), "bool"), m.NewIntLit(sp(42, 43), 1, "1"))
		m.AddFunc(sp(30, 50), "use_it", ast.FuncDeclData{
			Params: []ast.ParamDef{m.Param(sp(30, 31), "p", m.NamedType(sp(30, 31), "Point"))},
			Body:   m.NewBlock(sp(31, 46), m.NewExprStmt(sp(31, 36), call), badLet),
		})
	})
	if !bag.HasCode(diag.SemaUnresolvedMethod) {
		t.Fatalf("want UnresolvedMethod, got %+v", bag.Items())
	}
	if !bag.HasCode(diag.SemaTypeMismatch) {
		t.Fatalf("checker stopped after first error: %+v", bag.Items())
	}
}

func TestAmbiguousInherentMethods(t *testing.T) {
	_, bag := check(t, func(m *ast.Module) {
		addPoint(m)
		for i := 0; i < 2; i++ {
			base := uint32(10 + i*10)
			m.AddFunc(sp(base, base+5), "get", ast.FuncDeclData{
				Owner: m.NamedType(sp(base, base+1), "Point"),
				Params: []ast.ParamDef{m.Param(sp(base, base+1), "self",
					m.RefType(sp(base, base+1), m.NamedType(sp(base, base+1), "Point"), false))},
				Result: m.NamedType(sp(base+2, base+3), "i64"),
				Body: m.NewBlock(sp(base+4, base+5),
					m.NewReturn(sp(base+4, base+5), m.NewIntLit(sp(base+4, base+5), 0, "0"))),
			})
		}
		call := m.NewMethodCall(sp(31, 35), m.NewIdent(sp(31, 32), "p"), "get", nil)
		m.AddFunc(sp(30, 40), "use_it", ast.FuncDeclData{
			Params: []ast.ParamDef{m.Param(sp(30, 31), "p", m.NamedType(sp(30, 31), "Point"))},
			Body:   m.NewBlock(sp(31, 36), m.NewExprStmt(sp(31, 36), call)),
		})
	})
	if !bag.HasCode(diag.SemaAmbiguousMethod) {
		t.Fatalf("want AmbiguousMethod, got %+v", bag.Items())
	}
}

func addShape(m *ast.Module) {
	m.AddEnum(sp(1, 8), "Shape", nil, []ast.VariantDef{
		m.Variant(sp(2, 3), "Circle", m.NamedType(sp(2, 3), "f64")),
		m.Variant(sp(4, 5), "Square", m.NamedType(sp(4, 5), "f64")),
		m.Variant(sp(6, 7), "Dot", ast.NoTypeExprID),
	})
}

func TestNonExhaustiveMatchNamesMissing(t *testing.T) {
	_, bag := check(t, func(m *ast.Module) {
		addShape(m)
		match := m.NewMatch(sp(30, 40), m.NewIdent(sp(30, 31), "s"), []ast.MatchArm{
			{Pattern: m.VariantPattern(sp(31, 32), "Circle", "r"), Body: m.NewIntLit(sp(31, 32), 1, "1"), Span: sp(31, 32)},
			{Pattern: m.VariantPattern(sp(33, 34), "Square", ""), Body: m.NewIntLit(sp(33, 34), 2, "2"), Span: sp(33, 34)},
		})
		m.AddFunc(sp(20, 50), "classify", ast.FuncDeclData{
			Params: []ast.ParamDef{m.Param(sp(20, 21), "s", m.NamedType(sp(20, 21), "Shape"))},
			Body:   m.NewBlock(sp(30, 41), m.NewExprStmt(sp(30, 41), match)),
		})
	})
	if !bag.HasCode(diag.SemaNonExhaustiveMatch) {
		t.Fatalf("want NonExhaustiveMatch, got %+v", bag.Items())
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.SemaNonExhaustiveMatch && strings.Contains(d.Message, "Dot") {
			found = true
		}
	}
	if !found {
		t.Fatalf("diagnostic does not name the missing variant: %+v", bag.Items())
	}
}

func TestWildcardExhaustsMatch(t *testing.T) {
	_, bag := check(t, func(m *ast.Module) {
		addShape(m)
		match := m.NewMatch(sp(30, 40), m.NewIdent(sp(30, 31), "s"), []ast.MatchArm{
			{Pattern: m.VariantPattern(sp(31, 32), "Circle", "r"), Body: m.NewIntLit(sp(31, 32), 1, "1"), Span: sp(31, 32)},
			{Pattern: m.WildcardPattern(sp(33, 34)), Body: m.NewIntLit(sp(33, 34), 0, "0"), Span: sp(33, 34)},
		})
		m.AddFunc(sp(20, 50), "classify", ast.FuncDeclData{
			Params: []ast.ParamDef{m.Param(sp(20, 21), "s", m.NamedType(sp(20, 21), "Shape"))},
			Body:   m.NewBlock(sp(30, 41), m.NewExprStmt(sp(30, 41), match)),
		})
	})
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
}

func TestGenericInstantiationMemoized(t *testing.T) {
	var call1, call2, call3 ast.ExprID
	res, bag, insts := checkWithInsts(t, func(m *ast.Module) {
		// fn identity<T>(x: T) -> T { return x }
		m.AddFunc(sp(10, 20), "identity", ast.FuncDeclData{
			TypeParams: []ast.TypeParam{m.TParam(sp(10, 11), "T")},
			Params:     []ast.ParamDef{m.Param(sp(11, 12), "x", m.NamedType(sp(11, 12), "T"))},
			Result:     m.NamedType(sp(13, 14), "T"),
			Body: m.NewBlock(sp(15, 16),
				m.NewReturn(sp(15, 16), m.NewIdent(sp(15, 16), "x"))),
		})
		call1 = m.NewCall(sp(31, 32), m.NewIdent(sp(31, 32), "identity"),
			[]ast.ExprID{m.NewIntLit(sp(31, 32), 1, "1")})
		call2 = m.NewCall(sp(33, 34), m.NewIdent(sp(33, 34), "identity"),
			[]ast.ExprID{m.NewIntLit(sp(33, 34), 2, "2")})
		call3 = m.NewCall(sp(35, 36), m.NewIdent(sp(35, 36), "identity"),
			[]ast.ExprID{m.NewBoolLit(sp(35, 36), true)})
		m.AddFunc(sp(30, 40), "main", ast.FuncDeclData{
			Body: m.NewBlock(sp(31, 37),
				m.NewExprStmt(sp(31, 32), call1),
				m.NewExprStmt(sp(33, 34), call2),
				m.NewExprStmt(sp(35, 36), call3)),
		})
	})
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	// Two distinct keys (int, bool); the duplicate int call collapses.
	if got := len(insts.FnEntries()); got != 2 {
		t.Fatalf("FnEntries = %d, want 2", got)
	}
	if got := len(res.FnInstTypes); got != 2 {
		t.Fatalf("FnInstTypes has %d keys, want 2", got)
	}
	if res.ExprTypes[call1] != res.ExprTypes[call2] {
		t.Fatalf("identical instantiations disagree: %d vs %d",
			res.ExprTypes[call1], res.ExprTypes[call2])
	}
	if res.ExprTypes[call1] == res.ExprTypes[call3] {
		t.Fatalf("distinct instantiations collide on %d", res.ExprTypes[call1])
	}
}

func TestGenericStructInstanceShared(t *testing.T) {
	var lit1, lit2 ast.ExprID
	res, bag := check(t, func(m *ast.Module) {
		m.AddStruct(sp(1, 5), "Box", []ast.TypeParam{m.TParam(sp(1, 2), "T")},
			[]ast.FieldDef{m.Field(sp(2, 3), "value", m.NamedType(sp(2, 3), "T"))})
		boxI64 := func(s source.Span) ast.TypeExprID {
			return m.NamedType(s, "Box", m.NamedType(s, "i64"))
		}
		lit1 = m.NewStructLit(sp(31, 32), boxI64(sp(31, 32)),
			[]ast.FieldInit{m.FieldValue(sp(31, 32), "value", m.NewIntLit(sp(31, 32), 1, "1"))})
		lit2 = m.NewStructLit(sp(33, 34), boxI64(sp(33, 34)),
			[]ast.FieldInit{m.FieldValue(sp(33, 34), "value", m.NewIntLit(sp(33, 34), 2, "2"))})
		m.AddFunc(sp(30, 40), "main", ast.FuncDeclData{
			Body: m.NewBlock(sp(31, 35),
				m.NewLet(sp(31, 32), "a", false, ast.NoTypeExprID, lit1),
				m.NewLet(sp(33, 34), "b", false, ast.NoTypeExprID, lit2)),
		})
	})
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	if res.ExprTypes[lit1] == types.NoTypeID || res.ExprTypes[lit1] != res.ExprTypes[lit2] {
		t.Fatalf("Box<i64> literals got %d and %d, want one shared TypeID",
			res.ExprTypes[lit1], res.ExprTypes[lit2])
	}
}

func TestStructLiteralFieldErrors(t *testing.T) {
	_, bag := check(t, func(m *ast.Module) {
		addPoint(m)
		lit := m.NewStructLit(sp(31, 35), m.NamedType(sp(31, 32), "Point"), []ast.FieldInit{
			m.FieldValue(sp(31, 32), "x", m.NewIntLit(sp(31, 32), 1, "1")),
			m.FieldValue(sp(33, 34), "z", m.NewIntLit(sp(33, 34), 2, "2")),
		})
		m.AddFunc(sp(30, 40), "main", ast.FuncDeclData{
			Body: m.NewBlock(sp(31, 36), m.NewExprStmt(sp(31, 36), lit)),
		})
	})
	if !bag.HasCode(diag.SemaUnknownField) {
		t.Fatalf("want UnknownField for z: %+v", bag.Items())
	}
	if !bag.HasCode(diag.SemaMissingField) {
		t.Fatalf("want MissingField for y: %+v", bag.Items())
	}
}

func TestImmutableWrite(t *testing.T) {
	_, bag := check(t, func(m *ast.Module) {
		target := m.NewIdent(sp(33, 34), "x")
		m.AddFunc(sp(30, 40), "main", ast.FuncDeclData{
			Body: m.NewBlock(sp(31, 36),
				m.NewLet(sp(31, 32), "x", false, ast.NoTypeExprID, m.NewIntLit(sp(31, 32), 1, "1")),
				m.NewAssign(sp(33, 35), target, m.NewIntLit(sp(33, 35), 2, "2"))),
		})
	})
	if !bag.HasCode(diag.SemaImmutableWrite) {
		t.Fatalf("want ImmutableWrite, got %+v", bag.Items())
	}
}

func TestMutableWriteAllowed(t *testing.T) {
	_, bag := check(t, func(m *ast.Module) {
		target := m.NewIdent(sp(33, 34), "x")
		m.AddFunc(sp(30, 40), "main", ast.FuncDeclData{
			Body: m.NewBlock(sp(31, 36),
				m.NewLet(sp(31, 32), "x", true, ast.NoTypeExprID, m.NewIntLit(sp(31, 32), 1, "1")),
				m.NewAssign(sp(33, 35), target, m.NewIntLit(sp(33, 35), 2, "2"))),
		})
	})
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
}

func TestDuplicateDeclarations(t *testing.T) {
	_, bag := check(t, func(m *ast.Module) {
		addPoint(m)
		m.AddStruct(sp(20, 25), "Point", nil, nil)
	})
	if !bag.HasCode(diag.SemaDuplicateSymbol) {
		t.Fatalf("want DuplicateSymbol, got %+v", bag.Items())
	}
}

func TestRecursiveStructRejectedAtDecl(t *testing.T) {
	_, bag := check(t, func(m *ast.Module) {
		m.AddStruct(sp(1, 5), "Node", nil, []ast.FieldDef{
			m.Field(sp(2, 3), "next", m.NamedType(sp(2, 3), "Node")),
		})
		m.AddStruct(sp(10, 15), "List", nil, []ast.FieldDef{
			m.Field(sp(11, 12), "head", m.RefType(sp(11, 12), m.NamedType(sp(11, 12), "List"), false)),
		})
	})
	recursive := 0
	for _, d := range bag.Items() {
		if d.Code == diag.LayoutRecursive {
			recursive++
		}
	}
	// Node is a by-value cycle; List breaks it with a reference.
	if recursive != 1 {
		t.Fatalf("got %d RecursiveLayout diagnostics, want 1: %+v", recursive, bag.Items())
	}
}

func TestRegistryFrozenAfterCheck(t *testing.T) {
	res, _ := check(t, func(m *ast.Module) {
		addPoint(m)
	})
	if !res.Types.Frozen() {
		t.Fatal("registry must be frozen after Check")
	}
}
