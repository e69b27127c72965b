package driver_test

import (
	"context"
	"fmt"
	"testing"

	"zenc/internal/ast"
	"zenc/internal/driver"
	"zenc/internal/source"
)

func sp(start, end uint32) source.Span {
	return source.Span{File: 1, Start: start, End: end}
}

// smallUnit builds `fn add(a: i64, b: i64) -> i64 { return a + b }`.
func smallUnit(name string) driver.Unit {
	m := ast.NewModule(name)
	sum := m.NewBinary(sp(5, 8), ast.BinaryAdd,
		m.NewIdent(sp(5, 6), "a"), m.NewIdent(sp(7, 8), "b"))
	m.AddFunc(sp(1, 10), "add", ast.FuncDeclData{
		Params: []ast.ParamDef{
			m.Param(sp(2, 3), "a", m.NamedType(sp(2, 3), "i64")),
			m.Param(sp(3, 4), "b", m.NamedType(sp(3, 4), "i64")),
		},
		Result: m.NamedType(sp(4, 5), "i64"),
		Body:   m.NewBlock(sp(5, 9), m.NewReturn(sp(5, 9), sum)),
	})
	return driver.Unit{Name: name, Module: m}
}

// brokenUnit builds a function returning an unknown type.
func brokenUnit(name string) driver.Unit {
	m := ast.NewModule(name)
	m.AddFunc(sp(1, 10), "bad", ast.FuncDeclData{
		Result: m.NamedType(sp(4, 5), "Missing"),
		Body:   m.NewBlock(sp(5, 9)),
	})
	return driver.Unit{Name: name, Module: m}
}

func TestCheckUnitFreezesRegistry(t *testing.T) {
	snap := driver.CheckUnit(smallUnit("u"))
	if snap.Bag.HasErrors() {
		t.Fatalf("clean unit reported errors: %+v", snap.Bag.Items())
	}
	if !snap.Res.Types.Frozen() {
		t.Fatal("registry is not frozen after checking")
	}
}

func TestLowerUnitProceedsOnDirtySnapshot(t *testing.T) {
	snap := driver.CheckUnit(brokenUnit("u"))
	if !snap.Bag.HasErrors() {
		t.Fatal("expected diagnostics for unknown result type")
	}
	out, bag := driver.LowerUnit(snap)
	if out == nil || bag == nil {
		t.Fatal("lowering refused a dirty snapshot")
	}
}

func TestCheckUnitsPreservesOrder(t *testing.T) {
	units := make([]driver.Unit, 8)
	for i := range units {
		units[i] = smallUnit(fmt.Sprintf("unit-%d", i))
	}
	snaps, err := driver.CheckUnits(context.Background(), units, 4)
	if err != nil {
		t.Fatalf("CheckUnits: %v", err)
	}
	for i, snap := range snaps {
		if snap == nil {
			t.Fatalf("missing snapshot at %d", i)
		}
		if want := fmt.Sprintf("unit-%d", i); snap.Unit != want {
			t.Fatalf("snapshot %d is %q, want %q", i, snap.Unit, want)
		}
	}
}

func TestCheckUnitsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := driver.CheckUnits(ctx, []driver.Unit{smallUnit("u")}, 1); err == nil {
		t.Fatal("cancelled context did not surface")
	}
}

func TestStoreReplace(t *testing.T) {
	var store driver.Store
	if store.Current() != nil {
		t.Fatal("empty store has a current snapshot")
	}
	first := driver.CheckUnit(smallUnit("a"))
	second := driver.CheckUnit(smallUnit("b"))
	if prev := store.Replace(first); prev != nil {
		t.Fatal("first replace displaced something")
	}
	if prev := store.Replace(second); prev != first {
		t.Fatal("replace did not hand back the displaced snapshot")
	}
	// The displaced snapshot stays usable for in-flight readers.
	if first.Res.Types == nil || !first.Res.Types.Frozen() {
		t.Fatal("displaced snapshot became unusable")
	}
	if store.Current() != second {
		t.Fatal("store does not serve the latest snapshot")
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := driver.OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	snap := driver.CheckUnit(brokenUnit("cached"))
	payload := driver.SnapshotPayload(snap)
	key := driver.HashBytes([]byte("cached"), []byte("v1"))

	if err := cache.Put(key, payload); err != nil {
		t.Fatalf("put: %v", err)
	}
	var got driver.DiskPayload
	hit, err := cache.Get(key, &got)
	if err != nil || !hit {
		t.Fatalf("get: hit=%v err=%v", hit, err)
	}
	if got.Unit != "cached" || !got.Broken {
		t.Fatalf("payload round-tripped wrong: %+v", got)
	}
	if len(got.Diagnostics) == 0 {
		t.Fatal("cached payload lost its diagnostics")
	}

	// A different content hash is a miss, not an error.
	other := driver.HashBytes([]byte("cached"), []byte("v2"))
	if hit, err := cache.Get(other, &got); err != nil || hit {
		t.Fatalf("stale key: hit=%v err=%v", hit, err)
	}
}
