package diagfmt_test

import (
	"encoding/json"
	"strings"
	"testing"

	"zenc/internal/diag"
	"zenc/internal/diagfmt"
	"zenc/internal/source"
)

func fixture(t *testing.T) (*diag.Bag, *source.FileSet, source.FileID) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.zen", []byte("let x = nope\nlet y = 1\n"))

	bag := diag.NewBag(16)
	bag.Add(diag.NewError(diag.SemaUnresolvedSymbol,
		source.Span{File: id, Start: 8, End: 12},
		"unresolved symbol nope"))
	bag.Add(diag.NewWarning(diag.SemaInfo,
		source.Span{File: id, Start: 13, End: 16},
		"shadowed binding").WithNote(
		source.Span{File: id, Start: 0, End: 3}, "first bound here"))
	return bag, fs, id
}

func TestPrettyShowsLineAndCaret(t *testing.T) {
	bag, fs, _ := fixture(t)
	var b strings.Builder
	diagfmt.Pretty(&b, bag, fs, diagfmt.PrettyOpts{ShowNotes: true})
	out := b.String()

	for _, want := range []string{
		"main.zen:1:9",
		"SEM3007",
		"unresolved symbol nope",
		"let x = nope",
		"^~~~",
		"note: first bound here",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("pretty output missing %q:\n%s", want, out)
		}
	}
}

func TestPrettyCapsOutput(t *testing.T) {
	bag, fs, _ := fixture(t)
	var b strings.Builder
	diagfmt.Pretty(&b, bag, fs, diagfmt.PrettyOpts{Max: 1})
	out := b.String()
	if !strings.Contains(out, "and 1 more") {
		t.Fatalf("truncation not reported:\n%s", out)
	}
	if strings.Contains(out, "shadowed binding") {
		t.Fatalf("second diagnostic rendered despite cap:\n%s", out)
	}
}

func TestJSONRoundTrips(t *testing.T) {
	bag, fs, _ := fixture(t)
	var b strings.Builder
	err := diagfmt.JSON(&b, bag, fs, diagfmt.JSONOpts{
		IncludePositions: true,
		IncludeNotes:     true,
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var out diagfmt.Output
	if err := json.Unmarshal([]byte(b.String()), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Count != 2 || len(out.Diagnostics) != 2 {
		t.Fatalf("got %d/%d diagnostics, want 2/2", len(out.Diagnostics), out.Count)
	}
	first := out.Diagnostics[0]
	if first.Code != "SEM3007" || first.Name != "UnresolvedSymbol" {
		t.Fatalf("first diagnostic is %s/%s", first.Code, first.Name)
	}
	if first.Location.File != "main.zen" || first.Location.Line != 1 || first.Location.Col != 9 {
		t.Fatalf("location wrong: %+v", first.Location)
	}
	if len(out.Diagnostics[1].Notes) != 1 {
		t.Fatalf("note lost: %+v", out.Diagnostics[1])
	}
}
