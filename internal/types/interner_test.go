package types

import (
	"testing"

	"zenc/internal/source"
)

func TestInternStructuralDedup(t *testing.T) {
	in := NewInterner()
	a := in.Intern(MakeInt(Width32))
	b := in.Intern(MakeInt(Width32))
	if a != b {
		t.Fatalf("identical descriptors must intern to one TypeID, got %d and %d", a, b)
	}
	c := in.Intern(MakeInt(Width64))
	if c == a {
		t.Fatal("distinct widths must get distinct TypeIDs")
	}

	ref := in.Intern(MakeReference(a, false))
	refMut := in.Intern(MakeReference(a, true))
	if ref == refMut {
		t.Fatal("&T and &mut T must be distinct")
	}
	if again := in.Intern(MakeReference(a, false)); again != ref {
		t.Fatal("re-interning &T must hit the cache")
	}
}

func TestUnresolvedSentinel(t *testing.T) {
	in := NewInterner()
	if got := in.Intern(Type{Kind: KindUnresolved}); got != NoTypeID {
		t.Fatalf("interning unresolved must return NoTypeID, got %d", got)
	}
	if _, ok := in.Lookup(NoTypeID); ok {
		t.Fatal("NoTypeID must not resolve to a descriptor")
	}
	if in.KindOf(NoTypeID) != KindUnresolved {
		t.Fatal("KindOf(NoTypeID) must be KindUnresolved")
	}
}

func TestStructRegistration(t *testing.T) {
	in := NewInterner()
	strs := source.NewInterner()

	point := in.RegisterStruct(strs.Intern("Point"), source.Span{})
	x := strs.Intern("x")
	y := strs.Intern("y")
	f64 := in.Intern(MakeFloat(Width64))
	in.SetStructFields(point, []StructField{
		{Name: x, Type: f64},
		{Name: y, Type: f64},
	})

	field, idx, ok := in.StructFieldByName(point, y)
	if !ok || idx != 1 || field.Type != f64 {
		t.Fatalf("StructFieldByName(y) = %+v, %d, %v", field, idx, ok)
	}
	if _, _, ok := in.StructFieldByName(point, strs.Intern("z")); ok {
		t.Fatal("unknown field must not resolve")
	}
}

func TestInstanceMemoization(t *testing.T) {
	in := NewInterner()
	strs := source.NewInterner()

	box := in.RegisterStruct(strs.Intern("Box"), source.Span{})
	intID := in.Builtins().Int

	if _, ok := in.Instance(box, []TypeID{intID}); ok {
		t.Fatal("instance must miss before RememberInstance")
	}
	inst := in.RegisterStructInstance(box, []TypeID{intID})
	in.RememberInstance(box, []TypeID{intID}, inst)

	got, ok := in.Instance(box, []TypeID{intID})
	if !ok || got != inst {
		t.Fatalf("Instance = %d, %v; want %d", got, ok, inst)
	}
	// The memo owns identity: the same key must never mint a second TypeID.
	again, _ := in.Instance(box, []TypeID{intID})
	if again != inst {
		t.Fatal("identical keys must resolve to the same TypeID")
	}

	info, ok := in.StructInfo(inst)
	if !ok || info.Def != box || len(info.TypeArgs) != 1 || info.TypeArgs[0] != intID {
		t.Fatalf("instance StructInfo = %+v", info)
	}
}

func TestDerefChain(t *testing.T) {
	in := NewInterner()
	intID := in.Builtins().Int
	ref := in.Intern(MakeReference(intID, false))
	refref := in.Intern(MakeReference(ref, false))
	ptr := in.Intern(MakePointer(refref))
	if got := in.Deref(ptr); got != intID {
		t.Fatalf("Deref through *&&int = %d, want %d", got, intID)
	}
}

func TestFreezePanicsOnMutation(t *testing.T) {
	in := NewInterner()
	strs := source.NewInterner()
	in.Freeze()

	defer func() {
		if recover() == nil {
			t.Fatal("mutating a frozen registry must panic")
		}
	}()
	in.RegisterStruct(strs.Intern("Late"), source.Span{})
}

func TestFrozenReadsStillWork(t *testing.T) {
	in := NewInterner()
	intID := in.Intern(MakeInt(Width32))
	in.Freeze()

	if _, ok := in.Lookup(intID); !ok {
		t.Fatal("frozen registry must still serve reads")
	}
	// Cache hits do not mutate, so Intern of a known descriptor stays legal.
	if got := in.Intern(MakeInt(Width32)); got != intID {
		t.Fatal("cache-hit intern on frozen registry must return the same ID")
	}
}
