package diag

import (
	"testing"

	"zenc/internal/source"
)

func span(file source.FileID, start, end uint32) source.Span {
	return source.Span{File: file, Start: start, End: end}
}

func TestBagCap(t *testing.T) {
	b := NewBag(2)
	if !b.Add(NewError(SemaTypeMismatch, span(1, 0, 1), "first")) {
		t.Fatal("first add must succeed")
	}
	if !b.Add(NewError(SemaTypeMismatch, span(1, 2, 3), "second")) {
		t.Fatal("second add must succeed")
	}
	if b.Add(NewError(SemaTypeMismatch, span(1, 4, 5), "third")) {
		t.Fatal("add past cap must be rejected")
	}
	if b.Len() != 2 {
		t.Fatalf("Len = %d, want 2", b.Len())
	}
}

func TestBagSortDeterministic(t *testing.T) {
	b := NewBag(10)
	b.Add(NewWarning(SemaInfo, span(1, 10, 12), "later"))
	b.Add(NewError(SemaUnknownType, span(1, 10, 12), "same span error"))
	b.Add(NewError(SemaTypeMismatch, span(1, 2, 4), "earlier"))
	b.Sort()

	items := b.Items()
	if items[0].Message != "earlier" {
		t.Fatalf("expected position order first, got %q", items[0].Message)
	}
	// Same span: error sorts before warning.
	if items[1].Severity != SevError || items[2].Severity != SevWarning {
		t.Fatalf("expected severity desc within same span, got %v then %v",
			items[1].Severity, items[2].Severity)
	}
}

func TestBagDedup(t *testing.T) {
	b := NewBag(10)
	d := NewError(SemaUnresolvedMethod, span(1, 5, 9), "no method foo")
	b.Add(d)
	b.Add(d)
	b.Add(NewError(SemaUnresolvedMethod, span(1, 20, 24), "no method bar"))
	b.Dedup()
	if b.Len() != 2 {
		t.Fatalf("Len after dedup = %d, want 2", b.Len())
	}
}

func TestCodeNamesStable(t *testing.T) {
	tests := []struct {
		code Code
		name string
		id   string
	}{
		{SemaTypeMismatch, "TypeMismatch", "SEM3002"},
		{SemaUnresolvedMethod, "UnresolvedMethod", "SEM3003"},
		{SemaAmbiguousMethod, "AmbiguousMethod", "SEM3004"},
		{SemaNonExhaustiveMatch, "NonExhaustiveMatch", "SEM3005"},
		{LayoutRecursive, "RecursiveLayout", "LAY4001"},
		{LayoutOverflow, "LayoutOverflow", "LAY4002"},
		{GenUnsupportedConstruct, "UnsupportedConstruct", "GEN5001"},
	}
	for _, tt := range tests {
		if got := tt.code.Name(); got != tt.name {
			t.Errorf("%d.Name() = %q, want %q", tt.code, got, tt.name)
		}
		if got := tt.code.ID(); got != tt.id {
			t.Errorf("%d.ID() = %q, want %q", tt.code, got, tt.id)
		}
	}
}
