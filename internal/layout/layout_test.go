package layout_test

import (
	"errors"
	"testing"

	"zenc/internal/layout"
	"zenc/internal/source"
	"zenc/internal/types"
)

func newEngine() (*layout.Engine, *types.Interner, *source.Interner) {
	in := types.NewInterner()
	strs := source.NewInterner()
	return layout.New(layout.X86_64LinuxGNU(), in), in, strs
}

func TestStructOffsetsRespectAlignment(t *testing.T) {
	e, in, strs := newEngine()

	// { flag: bool, value: i64, tail: i8 }
	s := in.RegisterStruct(strs.Intern("Mixed"), source.Span{})
	in.SetStructFields(s, []types.StructField{
		{Name: strs.Intern("flag"), Type: in.Builtins().Bool},
		{Name: strs.Intern("value"), Type: in.Intern(types.MakeInt(types.Width64))},
		{Name: strs.Intern("tail"), Type: in.Intern(types.MakeInt(types.Width8))},
	})

	l, err := e.LayoutOf(s)
	if err != nil {
		t.Fatal(err)
	}
	wantOffsets := []int{0, 8, 16}
	for i, slot := range l.Fields {
		if slot.Offset != wantOffsets[i] {
			t.Errorf("field %d offset = %d, want %d", i, slot.Offset, wantOffsets[i])
		}
	}
	if l.Align != 8 || l.Size != 24 {
		t.Errorf("size/align = %d/%d, want 24/8", l.Size, l.Align)
	}

	// Offsets monotonically non-decreasing, no overlap, last fits in size.
	prevEnd := 0
	for i, slot := range l.Fields {
		if slot.Offset < prevEnd {
			t.Errorf("field %d overlaps previous (offset %d < end %d)", i, slot.Offset, prevEnd)
		}
		fl, err := e.LayoutOf(slot.Type)
		if err != nil {
			t.Fatal(err)
		}
		prevEnd = slot.Offset + fl.Size
	}
	if prevEnd > l.Size {
		t.Errorf("last field end %d exceeds total size %d", prevEnd, l.Size)
	}
}

func TestFieldOffsetRejectsBadIndex(t *testing.T) {
	e, in, strs := newEngine()

	s := in.RegisterStruct(strs.Intern("Pair"), source.Span{})
	in.SetStructFields(s, []types.StructField{
		{Name: strs.Intern("a"), Type: in.Intern(types.MakeInt(types.Width32))},
		{Name: strs.Intern("b"), Type: in.Intern(types.MakeInt(types.Width64))},
	})

	off, err := e.FieldOffset(s, 1)
	if err != nil {
		t.Fatal(err)
	}
	if off != 8 {
		t.Fatalf("field 1 offset = %d, want 8", off)
	}

	// A projection index the registry does not know is a compiler defect and
	// must surface, never resolve to offset 0.
	if _, err := e.FieldOffset(s, 2); err == nil {
		t.Fatal("out-of-range field index returned no error")
	}
	if _, err := e.FieldOffset(s, -1); err == nil {
		t.Fatal("negative field index returned no error")
	}
}

func TestNestedStructUsesInnerLayout(t *testing.T) {
	e, in, strs := newEngine()
	f64 := in.Intern(types.MakeFloat(types.Width64))

	point := in.RegisterStruct(strs.Intern("Point"), source.Span{})
	in.SetStructFields(point, []types.StructField{
		{Name: strs.Intern("x"), Type: f64},
		{Name: strs.Intern("y"), Type: f64},
	})

	rect := in.RegisterStruct(strs.Intern("Rectangle"), source.Span{})
	in.SetStructFields(rect, []types.StructField{
		{Name: strs.Intern("top_left"), Type: point},
		{Name: strs.Intern("bottom_right"), Type: point},
	})

	rl, err := e.LayoutOf(rect)
	if err != nil {
		t.Fatal(err)
	}
	pl, err := e.LayoutOf(point)
	if err != nil {
		t.Fatal(err)
	}

	if rl.Fields[0].Offset != 0 || rl.Fields[1].Offset != pl.Size {
		t.Fatalf("rect offsets = %d/%d, want 0/%d", rl.Fields[0].Offset, rl.Fields[1].Offset, pl.Size)
	}

	// rect.bottom_right.y must land at outer offset + the INNER layout's own
	// offset for y, the regression target for swapped nested reads.
	yOff, err := e.FieldOffset(point, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := rl.Fields[1].Offset + yOff; got != 24 {
		t.Fatalf("bottom_right.y absolute offset = %d, want 24", got)
	}
	if got := rl.Fields[0].Offset + yOff; got != 8 {
		t.Fatalf("top_left.y absolute offset = %d, want 8", got)
	}
}

func TestRecursiveByValueRejected(t *testing.T) {
	e, in, strs := newEngine()

	node := in.RegisterStruct(strs.Intern("Node"), source.Span{})
	in.SetStructFields(node, []types.StructField{
		{Name: strs.Intern("next"), Type: node},
	})

	_, err := e.LayoutOf(node)
	if err == nil {
		t.Fatal("expected recursive layout error, got nil")
	}
	var lerr *layout.LayoutError
	if !errors.As(err, &lerr) {
		t.Fatalf("expected *layout.LayoutError, got %T (%v)", err, err)
	}
	if lerr.Kind != layout.ErrRecursive {
		t.Fatalf("expected ErrRecursive, got kind=%d", lerr.Kind)
	}
	if len(lerr.Cycle) == 0 {
		t.Fatal("expected non-empty cycle path")
	}
}

func TestRecursiveThroughIndirectionSized(t *testing.T) {
	e, in, strs := newEngine()

	node := in.RegisterStruct(strs.Intern("Node"), source.Span{})
	in.SetStructFields(node, []types.StructField{
		{Name: strs.Intern("value"), Type: in.Intern(types.MakeInt(types.Width32))},
		{Name: strs.Intern("next"), Type: in.Intern(types.MakeReference(node, false))},
	})

	l, err := e.LayoutOf(node)
	if err != nil {
		t.Fatalf("indirected recursion must be sized, got %v", err)
	}
	if l.Size != 16 || l.Align != 8 {
		t.Fatalf("size/align = %d/%d, want 16/8", l.Size, l.Align)
	}
}

func TestMutualRecursionByValueRejected(t *testing.T) {
	e, in, strs := newEngine()

	a := in.RegisterStruct(strs.Intern("A"), source.Span{})
	b := in.RegisterStruct(strs.Intern("B"), source.Span{})
	in.SetStructFields(a, []types.StructField{{Name: strs.Intern("b"), Type: b}})
	in.SetStructFields(b, []types.StructField{{Name: strs.Intern("a"), Type: a}})

	_, err := e.LayoutOf(a)
	var lerr *layout.LayoutError
	if !errors.As(err, &lerr) || lerr.Kind != layout.ErrRecursive {
		t.Fatalf("expected ErrRecursive for mutual by-value cycle, got %v", err)
	}
	// The cycle names both participants.
	if len(lerr.Cycle) < 3 {
		t.Fatalf("cycle = %v, want A -> B -> A", lerr.Cycle)
	}
}

func TestEnumLayout(t *testing.T) {
	e, in, strs := newEngine()
	f64 := in.Intern(types.MakeFloat(types.Width64))

	opt := in.RegisterEnum(strs.Intern("Option"), source.Span{})
	in.SetEnumVariants(opt, []types.EnumVariant{
		{Name: strs.Intern("Some"), Payload: f64},
		{Name: strs.Intern("None")},
	})

	l, err := e.LayoutOf(opt)
	if err != nil {
		t.Fatal(err)
	}
	if l.TagSize != 4 {
		t.Fatalf("tag size = %d, want 4", l.TagSize)
	}
	if l.PayloadOffset != 8 {
		t.Fatalf("payload offset = %d, want 8 (tag rounded to f64 alignment)", l.PayloadOffset)
	}
	if l.Size != 16 || l.Align != 8 {
		t.Fatalf("size/align = %d/%d, want 16/8", l.Size, l.Align)
	}
}

func TestLayoutCacheStable(t *testing.T) {
	e, in, strs := newEngine()
	s := in.RegisterStruct(strs.Intern("P"), source.Span{})
	in.SetStructFields(s, []types.StructField{
		{Name: strs.Intern("x"), Type: in.Intern(types.MakeInt(types.Width32))},
	})

	first, err := e.LayoutOf(s)
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.LayoutOf(s)
	if err != nil {
		t.Fatal(err)
	}
	if first.Size != second.Size || first.Align != second.Align {
		t.Fatal("cached layout must be identical")
	}
}
