package mir

import (
	"zenc/internal/ast"
	"zenc/internal/sema"
	"zenc/internal/symbols"
	"zenc/internal/types"
)

// lowerExpr lowers one expression to an operand, emitting instructions into
// the current block as needed.
func (fl *funcLowerer) lowerExpr(id ast.ExprID) Operand {
	e := fl.mod.Expr(id)
	if e == nil {
		return Operand{Kind: OperandConst, Const: Const{Kind: ConstUnit}}
	}
	t := fl.typeOf(id)
	switch e.Kind {
	case ast.ExprIntLit:
		lit := fl.mod.LiteralData(e)
		return Operand{Kind: OperandConst, Type: t, Const: Const{
			Kind: ConstInt, Type: t, Text: lit.Text, IntValue: lit.Int,
		}}
	case ast.ExprFloatLit:
		lit := fl.mod.LiteralData(e)
		return Operand{Kind: OperandConst, Type: t, Const: Const{
			Kind: ConstFloat, Type: t, Text: lit.Text, FloatValue: lit.Float,
		}}
	case ast.ExprBoolLit:
		lit := fl.mod.LiteralData(e)
		return Operand{Kind: OperandConst, Type: t, Const: Const{
			Kind: ConstBool, Type: t, BoolValue: lit.Bool,
		}}
	case ast.ExprStringLit:
		lit := fl.mod.LiteralData(e)
		return Operand{Kind: OperandConst, Type: t, Const: Const{
			Kind: ConstString, Type: t, StringValue: lit.Str,
		}}
	case ast.ExprIdent, ast.ExprField:
		place, ok := fl.lowerPlace(id)
		if !ok {
			return fl.unsupported(id, "expression is not lowerable")
		}
		return Operand{Kind: OperandCopy, Type: t, Place: place}
	case ast.ExprUnary:
		return fl.lowerUnary(id, e, t)
	case ast.ExprBinary:
		return fl.lowerBinary(e, t)
	case ast.ExprStructLit:
		return fl.lowerStructLit(id, e, t)
	case ast.ExprVariantLit:
		return fl.lowerVariantLit(id, e, t)
	case ast.ExprCall:
		return fl.lowerCall(id, e, t)
	case ast.ExprMethodCall:
		return fl.lowerMethodCall(id, e, t)
	case ast.ExprMatch:
		return fl.lowerMatch(id, e, t)
	default:
		return fl.unsupported(id, "unsupported expression kind")
	}
}

func (fl *funcLowerer) lowerUnary(id ast.ExprID, e *ast.Expr, t types.TypeID) Operand {
	data := fl.mod.UnaryData(e)
	if data == nil {
		return Operand{Kind: OperandConst, Const: Const{Kind: ConstUnit}}
	}
	switch data.Op {
	case ast.UnaryDeref:
		place, ok := fl.lowerPlace(id)
		if !ok {
			return fl.unsupported(id, "cannot dereference a non-place")
		}
		return Operand{Kind: OperandCopy, Type: t, Place: place}
	case ast.UnaryAddrOf, ast.UnaryAddrOfMut:
		place, ok := fl.lowerPlace(data.Operand)
		if !ok {
			place = fl.spill(data.Operand)
		}
		kind := OperandAddrOf
		if data.Op == ast.UnaryAddrOfMut {
			kind = OperandAddrOfMut
		}
		return Operand{Kind: kind, Type: t, Place: place}
	default:
		operand := fl.lowerExpr(data.Operand)
		tmp := fl.newTemp(t)
		fl.f.Append(fl.cur, Instr{Kind: InstrAssign, Assign: AssignInstr{
			Dst: Place{Local: tmp},
			Src: RValue{Kind: RValueUnaryOp, Unary: UnaryOp{Op: data.Op, Operand: operand}},
		}})
		return Operand{Kind: OperandCopy, Type: t, Place: Place{Local: tmp}}
	}
}

func (fl *funcLowerer) lowerBinary(e *ast.Expr, t types.TypeID) Operand {
	data := fl.mod.BinaryData(e)
	if data == nil {
		return Operand{Kind: OperandConst, Const: Const{Kind: ConstUnit}}
	}
	left := fl.lowerExpr(data.Left)
	right := fl.lowerExpr(data.Right)
	tmp := fl.newTemp(t)
	fl.f.Append(fl.cur, Instr{Kind: InstrAssign, Assign: AssignInstr{
		Dst: Place{Local: tmp},
		Src: RValue{Kind: RValueBinaryOp, Binary: BinaryOp{Op: data.Op, Left: left, Right: right}},
	}})
	return Operand{Kind: OperandCopy, Type: t, Place: Place{Local: tmp}}
}

func (fl *funcLowerer) lowerStructLit(id ast.ExprID, e *ast.Expr, t types.TypeID) Operand {
	data := fl.mod.StructLitData(e)
	if data == nil || t == types.NoTypeID {
		return fl.unsupported(id, "unresolved struct literal")
	}
	fields := make([]StructLitField, 0, len(data.Fields))
	for _, f := range data.Fields {
		value := fl.lowerExpr(f.Value)
		_, idx, ok := fl.lw.Res.Types.StructFieldByName(t, f.Name)
		if !ok {
			continue
		}
		fields = append(fields, StructLitField{
			Name:  fl.mod.StringOf(f.Name),
			Idx:   idx,
			Value: value,
		})
	}
	tmp := fl.newTemp(t)
	fl.f.Append(fl.cur, Instr{Kind: InstrAssign, Assign: AssignInstr{
		Dst: Place{Local: tmp},
		Src: RValue{Kind: RValueStructLit, StructLit: StructLit{Type: t, Fields: fields}},
	}})
	return Operand{Kind: OperandCopy, Type: t, Place: Place{Local: tmp}}
}

func (fl *funcLowerer) lowerVariantLit(id ast.ExprID, e *ast.Expr, t types.TypeID) Operand {
	data := fl.mod.VariantLitData(e)
	if data == nil || t == types.NoTypeID {
		return fl.unsupported(id, "unresolved variant literal")
	}
	variant, idx, ok := fl.lw.Res.Types.EnumVariantByName(t, data.Variant)
	if !ok {
		return fl.unsupported(id, "unresolved variant literal")
	}
	lit := VariantLit{
		Type:    t,
		Tag:     idx,
		TagName: fl.mod.StringOf(data.Variant),
	}
	if data.Payload.IsValid() && variant.Payload != types.NoTypeID {
		lit.HasPayload = true
		lit.Payload = fl.lowerExpr(data.Payload)
	}
	tmp := fl.newTemp(t)
	fl.f.Append(fl.cur, Instr{Kind: InstrAssign, Assign: AssignInstr{
		Dst: Place{Local: tmp},
		Src: RValue{Kind: RValueVariantLit, VariantLit: lit},
	}})
	return Operand{Kind: OperandCopy, Type: t, Place: Place{Local: tmp}}
}

func (fl *funcLowerer) lowerCall(id ast.ExprID, e *ast.Expr, t types.TypeID) Operand {
	data := fl.mod.CallData(e)
	if data == nil {
		return Operand{Kind: OperandConst, Const: Const{Kind: ConstUnit}}
	}
	sym, ok := fl.lw.Res.Symbols.ExprSymbols[data.Callee]
	if !ok {
		return fl.unsupported(id, "indirect calls are not supported")
	}
	args := make([]Operand, len(data.Args))
	for i, a := range data.Args {
		args[i] = fl.lowerExpr(a)
	}
	return fl.emitCall(id, sym, args, t)
}

func (fl *funcLowerer) lowerMethodCall(id ast.ExprID, e *ast.Expr, t types.TypeID) Operand {
	data := fl.mod.MethodCallData(e)
	if data == nil {
		return Operand{Kind: OperandConst, Const: Const{Kind: ConstUnit}}
	}
	sym, ok := fl.lw.Res.Symbols.ExprSymbols[id]
	if !ok {
		return fl.unsupported(id, "unresolved method call")
	}
	recv := fl.lowerReceiver(data.Recv, sym, fl.callKeys[id])
	args := make([]Operand, 0, len(data.Args)+1)
	args = append(args, recv)
	for _, a := range data.Args {
		args = append(args, fl.lowerExpr(a))
	}
	return fl.emitCall(id, sym, args, t)
}

// lowerReceiver adapts the receiver expression to the callee's first
// parameter: values are borrowed when the callee expects a reference.
func (fl *funcLowerer) lowerReceiver(recvExpr ast.ExprID, sym symbols.SymbolID, key string) Operand {
	recv := fl.lowerExpr(recvExpr)
	callee := fl.calleeSig(sym, key)
	if callee == nil || len(callee.Params) == 0 {
		return recv
	}
	wantKind := fl.lw.Res.Types.KindOf(callee.Params[0])
	haveKind := fl.lw.Res.Types.KindOf(recv.Type)
	if wantKind == types.KindReference && haveKind != types.KindReference && haveKind != types.KindPointer {
		place := recv.Place
		if recv.Kind == OperandConst {
			place = fl.spill(recvExpr)
		}
		want, _ := fl.lw.Res.Types.Lookup(callee.Params[0])
		kind := OperandAddrOf
		if want.Mutable {
			kind = OperandAddrOfMut
		}
		return Operand{Kind: kind, Type: callee.Params[0], Place: place}
	}
	return recv
}

func (fl *funcLowerer) calleeSig(sym symbols.SymbolID, key string) *sema.FuncSig {
	s := fl.lw.Res.Symbols.Get(sym)
	if s == nil {
		return nil
	}
	if key != "" {
		if inst, ok := fl.lw.Res.InstSigs[sema.InstKey{Decl: s.Decl, ArgsKey: key}]; ok {
			return inst
		}
	}
	return fl.lw.Res.Sigs[s.Decl]
}

func (fl *funcLowerer) emitCall(id ast.ExprID, sym symbols.SymbolID, args []Operand, t types.TypeID) Operand {
	s := fl.lw.Res.Symbols.Get(sym)
	name := ""
	if s != nil {
		name = fl.lw.Res.Symbols.Strings.MustLookup(s.Name)
	}
	call := CallInstr{
		Callee: Callee{Sym: sym, Key: fl.callKeys[id], Name: name},
		Args:   args,
	}
	var out Operand
	if t != types.NoTypeID && fl.lw.Res.Types.KindOf(t) != types.KindUnit {
		tmp := fl.newTemp(t)
		call.HasDst = true
		call.Dst = Place{Local: tmp}
		out = Operand{Kind: OperandCopy, Type: t, Place: Place{Local: tmp}}
	} else {
		out = Operand{Kind: OperandConst, Type: t, Const: Const{Kind: ConstUnit}}
	}
	fl.f.Append(fl.cur, Instr{Kind: InstrCall, Call: call})
	return out
}

// spill evaluates an expression into a fresh temporary and returns its place.
func (fl *funcLowerer) spill(id ast.ExprID) Place {
	value := fl.lowerExpr(id)
	tmp := fl.newTemp(value.Type)
	fl.f.Append(fl.cur, Instr{Kind: InstrAssign, Assign: AssignInstr{
		Dst: Place{Local: tmp},
		Src: RValue{Kind: RValueUse, Use: value},
	}})
	return Place{Local: tmp}
}
