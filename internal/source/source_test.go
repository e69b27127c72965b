package source

import (
	"testing"
)

func TestInternerDedup(t *testing.T) {
	in := NewInterner()
	a := in.Intern("point")
	b := in.Intern("point")
	if a != b {
		t.Fatalf("expected same ID for identical strings, got %d and %d", a, b)
	}
	c := in.Intern("Point")
	if c == a {
		t.Fatalf("case-distinct strings must get distinct IDs")
	}
	got, ok := in.Lookup(a)
	if !ok || got != "point" {
		t.Fatalf("Lookup(%d) = %q, %v", a, got, ok)
	}
	if id := in.Intern(""); id != NoStringID {
		t.Fatalf("empty string should map to NoStringID, got %d", id)
	}
}

func TestFileSetPositions(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("main.zen", []byte("fn main() {\n    return 0\n}\n"))

	tests := []struct {
		offset uint32
		line   uint32
		col    uint32
	}{
		{0, 1, 1},
		{3, 1, 4},
		{12, 2, 1},
		{16, 2, 5},
		{25, 3, 1},
		{26, 3, 2},
	}
	for _, tt := range tests {
		pos := fs.Position(id, tt.offset)
		if pos.Line != tt.line || pos.Col != tt.col {
			t.Errorf("Position(%d) = %d:%d, want %d:%d", tt.offset, pos.Line, pos.Col, tt.line, tt.col)
		}
	}

	if got := string(fs.Line(id, 2)); got != "    return 0" {
		t.Errorf("Line(2) = %q", got)
	}
}

func TestFileSetLatestWins(t *testing.T) {
	fs := NewFileSet()
	first := fs.AddVirtual("a.zen", []byte("old"))
	second := fs.AddVirtual("a.zen", []byte("new"))
	if first == second {
		t.Fatal("re-adding a path must allocate a fresh FileID")
	}
	latest, ok := fs.GetLatest("a.zen")
	if !ok || latest != second {
		t.Fatalf("GetLatest = %d, %v; want %d", latest, ok, second)
	}
	if string(fs.Get(first).Content) != "old" {
		t.Fatal("older snapshot must stay readable")
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 10}
	b := Span{File: 1, Start: 2, End: 6}
	got := a.Cover(b)
	if got.Start != 2 || got.End != 10 {
		t.Fatalf("Cover = %v", got)
	}
	other := Span{File: 2, Start: 0, End: 100}
	if a.Cover(other) != a {
		t.Fatal("Cover must ignore spans from other files")
	}
}
