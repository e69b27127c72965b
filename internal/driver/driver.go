// Package driver runs the front-end pipeline over compilation units and
// owns the snapshot lifecycle: check, freeze, publish, lower.
package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"zenc/internal/ast"
	"zenc/internal/diag"
	"zenc/internal/layout"
	"zenc/internal/mir"
	"zenc/internal/mono"
	"zenc/internal/sema"
	"zenc/internal/types"
)

// Unit is one compilation unit handed to the pipeline. The module arrives
// already built; producing it is the front-end's concern, not ours.
type Unit struct {
	Name   string
	Module *ast.Module
	Target layout.Target

	// MaxDiagnostics caps the bag; zero means the default.
	MaxDiagnostics int
}

const defaultMaxDiagnostics = 256

// Snapshot is the frozen result of checking one unit. All fields are
// read-only after CheckUnit returns; concurrent readers need no locking.
type Snapshot struct {
	Unit   string
	Module *ast.Module
	Res    sema.Result
	Bag    *diag.Bag
	Layout *layout.Engine
	Insts  *mono.InstantiationMap
}

// CheckUnit runs declaration, resolution and body checking over one unit
// and returns the frozen snapshot. It never fails: diagnostics, including
// internal limits, land in the snapshot's bag.
func CheckUnit(u Unit) *Snapshot {
	maxDiags := u.MaxDiagnostics
	if maxDiags <= 0 {
		maxDiags = defaultMaxDiagnostics
	}
	bag := diag.NewBag(maxDiags)

	target := u.Target
	if target.PtrSize == 0 {
		target = layout.X86_64LinuxGNU()
	}

	insts := mono.NewInstantiationMap()
	reg := types.NewInterner()
	eng := layout.New(target, reg)
	res := sema.Check(u.Module, sema.Options{
		Reporter: diag.NewBagReporter(bag),
		Types:    reg,
		Layout:   eng,
		Insts:    mono.NewInstantiationMapRecorder(insts),
	})

	return &Snapshot{
		Unit:   u.Name,
		Module: u.Module,
		Res:    res,
		Bag:    bag,
		Layout: eng,
		Insts:  insts,
	}
}

// LowerUnit lowers a checked snapshot to MIR. Lowering proceeds even over a
// dirty snapshot; callers gate backend handoff on Bag.HasErrors.
func LowerUnit(snap *Snapshot) (*mir.Module, *diag.Bag) {
	bag := diag.NewBag(defaultMaxDiagnostics)
	out := mir.Lower(&snap.Res, snap.Insts, diag.NewBagReporter(bag))
	return out, bag
}

// CheckUnits checks units concurrently, at most jobs at a time, and returns
// snapshots in input order. A cancelled context stops scheduling new units.
func CheckUnits(ctx context.Context, units []Unit, jobs int) ([]*Snapshot, error) {
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	snaps := make([]*Snapshot, len(units))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i := range units {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			snaps[i] = CheckUnit(units[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snaps, nil
}
