package mir

import "fmt"

// Validate performs structural checks on a lowered module: every block is
// terminated, every branch target and local reference is in range, and every
// direct callee resolves to a body in the module.
func Validate(m *Module) error {
	for _, f := range m.SortedFuncs() {
		if err := validateFunc(m, f); err != nil {
			return fmt.Errorf("fn %s: %w", f.Name, err)
		}
	}
	return nil
}

func validateFunc(m *Module, f *Func) error {
	if f.Block(f.Entry) == nil {
		return fmt.Errorf("entry bb%d out of range", f.Entry)
	}
	for i := range f.Blocks {
		b := &f.Blocks[i]
		if !b.Terminated() {
			return fmt.Errorf("bb%d is not terminated", b.ID)
		}
		for j := range b.Instrs {
			if err := validateInstr(m, f, &b.Instrs[j]); err != nil {
				return fmt.Errorf("bb%d: %w", b.ID, err)
			}
		}
		if err := validateTerm(f, &b.Term); err != nil {
			return fmt.Errorf("bb%d: %w", b.ID, err)
		}
	}
	return nil
}

func validateInstr(m *Module, f *Func, in *Instr) error {
	switch in.Kind {
	case InstrAssign:
		if err := validatePlace(f, in.Assign.Dst); err != nil {
			return err
		}
		return validateRValue(f, &in.Assign.Src)
	case InstrCall:
		if in.Call.HasDst {
			if err := validatePlace(f, in.Call.Dst); err != nil {
				return err
			}
		}
		if _, ok := m.Lookup(in.Call.Callee.Sym, in.Call.Callee.Key); !ok {
			return fmt.Errorf("call targets unknown body %s", in.Call.Callee.Name)
		}
		for _, a := range in.Call.Args {
			if err := validateOperand(f, a); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateRValue(f *Func, rv *RValue) error {
	switch rv.Kind {
	case RValueUse:
		return validateOperand(f, rv.Use)
	case RValueUnaryOp:
		return validateOperand(f, rv.Unary.Operand)
	case RValueBinaryOp:
		if err := validateOperand(f, rv.Binary.Left); err != nil {
			return err
		}
		return validateOperand(f, rv.Binary.Right)
	case RValueStructLit:
		for _, fld := range rv.StructLit.Fields {
			if err := validateOperand(f, fld.Value); err != nil {
				return err
			}
		}
	case RValueVariantLit:
		if rv.VariantLit.HasPayload {
			return validateOperand(f, rv.VariantLit.Payload)
		}
	case RValueTagTest:
		return validateOperand(f, rv.TagTest.Value)
	case RValueTagPayload:
		return validateOperand(f, rv.TagPayload.Value)
	}
	return nil
}

func validateOperand(f *Func, op Operand) error {
	if op.Kind == OperandConst {
		return nil
	}
	return validatePlace(f, op.Place)
}

func validatePlace(f *Func, p Place) error {
	if f.Local(p.Local) == nil {
		return fmt.Errorf("place references local %%%d out of range", p.Local)
	}
	return nil
}

func validateTerm(f *Func, t *Terminator) error {
	target := func(id BlockID) error {
		if f.Block(id) == nil {
			return fmt.Errorf("branch target bb%d out of range", id)
		}
		return nil
	}
	switch t.Kind {
	case TermReturn:
		if t.Return.HasValue {
			return validateOperand(f, t.Return.Value)
		}
	case TermGoto:
		return target(t.Goto.Target)
	case TermIf:
		if err := validateOperand(f, t.If.Cond); err != nil {
			return err
		}
		if err := target(t.If.Then); err != nil {
			return err
		}
		return target(t.If.Else)
	case TermSwitchTag:
		if err := validateOperand(f, t.SwitchTag.Value); err != nil {
			return err
		}
		for _, c := range t.SwitchTag.Cases {
			if err := target(c.Target); err != nil {
				return err
			}
		}
		if t.SwitchTag.Default != NoBlockID {
			return target(t.SwitchTag.Default)
		}
	}
	return nil
}
