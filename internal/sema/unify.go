package sema

import (
	"zenc/internal/types"
)

// assignable reports whether a value of type got can be used where want is
// expected. Either side being unresolved is tolerated so one earlier error
// does not cascade.
func (tc *typeChecker) assignable(want, got types.TypeID) bool {
	if want == types.NoTypeID || got == types.NoTypeID {
		return true
	}
	if want == got {
		return true
	}
	wt, ok1 := tc.types.Lookup(want)
	gt, ok2 := tc.types.Lookup(got)
	if !ok1 || !ok2 {
		return false
	}
	// Width-free numeric literals widen to any sized numeric of the same
	// family.
	if wt.Kind == gt.Kind {
		switch wt.Kind {
		case types.KindInt, types.KindUint, types.KindFloat:
			if gt.Width == types.WidthAny || wt.Width == types.WidthAny {
				return true
			}
		case types.KindReference:
			// &mut T coerces to &T, never the other way.
			if gt.Mutable && !wt.Mutable {
				return tc.assignable(wt.Elem, gt.Elem)
			}
		}
	}
	return false
}

// unify picks the common type of two sides, or NoTypeID when they do not
// agree. Sized numerics win over width-free literals.
func (tc *typeChecker) unify(a, b types.TypeID) types.TypeID {
	if a == types.NoTypeID {
		return b
	}
	if b == types.NoTypeID {
		return a
	}
	if a == b {
		return a
	}
	at, ok1 := tc.types.Lookup(a)
	bt, ok2 := tc.types.Lookup(b)
	if !ok1 || !ok2 || at.Kind != bt.Kind {
		return types.NoTypeID
	}
	switch at.Kind {
	case types.KindInt, types.KindUint, types.KindFloat:
		if at.Width == types.WidthAny {
			return b
		}
		if bt.Width == types.WidthAny {
			return a
		}
	}
	return types.NoTypeID
}

// isNumeric reports whether t is an int, uint, or float of any width.
func (tc *typeChecker) isNumeric(t types.TypeID) bool {
	switch tc.types.KindOf(t) {
	case types.KindInt, types.KindUint, types.KindFloat:
		return true
	default:
		return false
	}
}

// applySubst rewrites an annotation through the active instantiation, if one
// is in effect.
func (tc *typeChecker) applySubst(t types.TypeID) types.TypeID {
	if len(tc.activeSubst) == 0 {
		return t
	}
	return tc.substituteType(t, tc.activeSubst)
}
