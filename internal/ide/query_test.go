package ide_test

import (
	"strings"
	"testing"

	"golang.org/x/sync/errgroup"

	"zenc/internal/ast"
	"zenc/internal/diag"
	"zenc/internal/ide"
	"zenc/internal/sema"
	"zenc/internal/source"
	"zenc/internal/types"
)

func sp(start, end uint32) source.Span {
	return source.Span{File: 1, Start: start, End: end}
}

func checkedQuery(t *testing.T) (*ide.Query, ast.ExprID, ast.ExprID) {
	t.Helper()
	m := ast.NewModule("test")
	// struct Point { x: i64, y: i64 }
	m.AddStruct(sp(1, 5), "Point", nil, []ast.FieldDef{
		m.Field(sp(2, 3), "x", m.NamedType(sp(2, 3), "i64")),
		m.Field(sp(3, 4), "y", m.NamedType(sp(3, 4), "i64")),
	})
	// fn get_x(p: &Point) -> i64 { return p.x }
	ident := m.NewIdent(sp(12, 13), "p")
	field := m.NewField(sp(13, 14), ident, "x")
	m.AddFunc(sp(10, 20), "get_x", ast.FuncDeclData{
		Params: []ast.ParamDef{m.Param(sp(11, 12), "p",
			m.RefType(sp(11, 12), m.NamedType(sp(11, 12), "Point"), false))},
		Result: m.NamedType(sp(14, 15), "i64"),
		Body:   m.NewBlock(sp(12, 15), m.NewReturn(sp(12, 15), field)),
	})

	bag := diag.NewBag(64)
	res := sema.Check(m, sema.Options{Reporter: diag.NewBagReporter(bag)})
	if bag.HasErrors() {
		t.Fatalf("check failed: %+v", bag.Items())
	}
	return ide.NewQuery(&res, bag, nil), field, ident
}

func TestQueryAnswers(t *testing.T) {
	q, field, ident := checkedQuery(t)

	ft := q.TypeOf(field)
	if ft == types.NoTypeID {
		t.Fatal("p.x has no resolved type")
	}
	if hover := q.HoverText(field); !strings.Contains(hover, "i64") {
		t.Fatalf("hover %q does not mention i64", hover)
	}
	if l, err := q.LayoutOf(ft); err != nil || l.Size != 8 {
		t.Fatalf("layout of i64 = %+v, %v; want size 8", l, err)
	}
	if len(q.Diagnostics()) != 0 {
		t.Fatalf("clean unit carries diagnostics: %+v", q.Diagnostics())
	}
	sym, ok := q.SymbolAt(ident)
	if !ok {
		t.Fatal("p resolved to no symbol")
	}
	if refs := q.ReferencesTo(sym); len(refs) == 0 {
		t.Fatal("parameter symbol has no reference spans")
	}
	if def := q.DefinitionSite(ident); def.Empty() && def.File == 0 {
		t.Fatal("parameter has no definition site")
	}
}

func TestQueriesRunConcurrently(t *testing.T) {
	q, field, _ := checkedQuery(t)

	want := q.TypeOf(field)
	var g errgroup.Group
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			for j := 0; j < 100; j++ {
				if got := q.TypeOf(field); got != want {
					t.Errorf("TypeOf raced: got %d want %d", got, want)
				}
				if _, err := q.LayoutOf(want); err != nil {
					return err
				}
				q.HoverText(field)
				q.Diagnostics()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent queries: %v", err)
	}
}
