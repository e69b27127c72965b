package mir

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes a readable dump of the module, functions in ID order so
// output is stable across runs.
func Fprint(w io.Writer, m *Module) {
	for i, f := range m.SortedFuncs() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		FprintFunc(w, f)
	}
}

// String renders the module via Fprint.
func (m *Module) String() string {
	var b strings.Builder
	Fprint(&b, m)
	return b.String()
}

// FprintFunc writes one function.
func FprintFunc(w io.Writer, f *Func) {
	fmt.Fprintf(w, "fn %s {\n", f.Name)
	for i, l := range f.Locals {
		role := "local"
		switch {
		case l.Flags&LocalFlagParam != 0:
			role = "param"
		case l.Flags&LocalFlagTemp != 0:
			role = "temp"
		}
		if l.Name != "" {
			fmt.Fprintf(w, "  %s %%%d (%s): t%d\n", role, i, l.Name, l.Type)
		} else {
			fmt.Fprintf(w, "  %s %%%d: t%d\n", role, i, l.Type)
		}
	}
	for i := range f.Blocks {
		b := &f.Blocks[i]
		fmt.Fprintf(w, "bb%d:\n", b.ID)
		for _, instr := range b.Instrs {
			fmt.Fprintf(w, "  %s\n", formatInstr(&instr))
		}
		fmt.Fprintf(w, "  %s\n", formatTerm(&b.Term))
	}
	fmt.Fprintln(w, "}")
}

func formatInstr(in *Instr) string {
	switch in.Kind {
	case InstrAssign:
		return fmt.Sprintf("%s = %s", formatPlace(in.Assign.Dst), formatRValue(&in.Assign.Src))
	case InstrCall:
		args := make([]string, len(in.Call.Args))
		for i := range in.Call.Args {
			args[i] = formatOperand(in.Call.Args[i])
		}
		callee := in.Call.Callee.Name
		if in.Call.Callee.Key != "" {
			callee += "<" + in.Call.Callee.Key + ">"
		}
		call := fmt.Sprintf("call %s(%s)", callee, strings.Join(args, ", "))
		if in.Call.HasDst {
			return formatPlace(in.Call.Dst) + " = " + call
		}
		return call
	case InstrNop:
		return "nop"
	}
	return "?"
}

func formatRValue(rv *RValue) string {
	switch rv.Kind {
	case RValueUse:
		return formatOperand(rv.Use)
	case RValueUnaryOp:
		return fmt.Sprintf("un(%d) %s", rv.Unary.Op, formatOperand(rv.Unary.Operand))
	case RValueBinaryOp:
		return fmt.Sprintf("bin(%d) %s, %s", rv.Binary.Op,
			formatOperand(rv.Binary.Left), formatOperand(rv.Binary.Right))
	case RValueStructLit:
		fields := make([]string, len(rv.StructLit.Fields))
		for i, f := range rv.StructLit.Fields {
			fields[i] = fmt.Sprintf("%s: %s", f.Name, formatOperand(f.Value))
		}
		return fmt.Sprintf("struct t%d {%s}", rv.StructLit.Type, strings.Join(fields, ", "))
	case RValueVariantLit:
		if rv.VariantLit.HasPayload {
			return fmt.Sprintf("variant t%d.%s(%s)", rv.VariantLit.Type,
				rv.VariantLit.TagName, formatOperand(rv.VariantLit.Payload))
		}
		return fmt.Sprintf("variant t%d.%s", rv.VariantLit.Type, rv.VariantLit.TagName)
	case RValueTagTest:
		return fmt.Sprintf("is %s(%s)", rv.TagTest.TagName, formatOperand(rv.TagTest.Value))
	case RValueTagPayload:
		return fmt.Sprintf("payload %s(%s)", rv.TagPayload.TagName, formatOperand(rv.TagPayload.Value))
	}
	return "?"
}

func formatOperand(op Operand) string {
	switch op.Kind {
	case OperandConst:
		return formatConst(op.Const)
	case OperandCopy:
		return "copy " + formatPlace(op.Place)
	case OperandMove:
		return "move " + formatPlace(op.Place)
	case OperandAddrOf:
		return "&" + formatPlace(op.Place)
	case OperandAddrOfMut:
		return "&mut " + formatPlace(op.Place)
	}
	return "?"
}

func formatConst(c Const) string {
	switch c.Kind {
	case ConstInt:
		if c.Text != "" {
			return c.Text
		}
		return fmt.Sprintf("%d", c.IntValue)
	case ConstUint:
		return fmt.Sprintf("%d", c.UintValue)
	case ConstFloat:
		if c.Text != "" {
			return c.Text
		}
		return fmt.Sprintf("%g", c.FloatValue)
	case ConstBool:
		return fmt.Sprintf("%t", c.BoolValue)
	case ConstString:
		return fmt.Sprintf("%q", c.StringValue)
	case ConstUnit:
		return "unit"
	}
	return "?"
}

func formatPlace(p Place) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%%%d", p.Local)
	for _, proj := range p.Proj {
		switch proj.Kind {
		case PlaceProjDeref:
			b.WriteString(".*")
		case PlaceProjField:
			fmt.Fprintf(&b, ".%s", proj.FieldName)
		}
	}
	return b.String()
}

func formatTerm(t *Terminator) string {
	switch t.Kind {
	case TermNone:
		return "<unterminated>"
	case TermReturn:
		if t.Return.HasValue {
			return "return " + formatOperand(t.Return.Value)
		}
		return "return"
	case TermGoto:
		return fmt.Sprintf("goto bb%d", t.Goto.Target)
	case TermIf:
		return fmt.Sprintf("if %s then bb%d else bb%d",
			formatOperand(t.If.Cond), t.If.Then, t.If.Else)
	case TermSwitchTag:
		parts := make([]string, len(t.SwitchTag.Cases))
		for i, c := range t.SwitchTag.Cases {
			parts[i] = fmt.Sprintf("%s -> bb%d", c.TagName, c.Target)
		}
		out := fmt.Sprintf("switchtag %s [%s]",
			formatOperand(t.SwitchTag.Value), strings.Join(parts, ", "))
		if t.SwitchTag.Default != NoBlockID {
			out += fmt.Sprintf(" default bb%d", t.SwitchTag.Default)
		}
		return out
	case TermUnreachable:
		return "unreachable"
	}
	return "?"
}
