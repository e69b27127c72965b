package mir

import (
	"zenc/internal/ast"
	"zenc/internal/types"
)

func (fl *funcLowerer) lowerStmt(id ast.StmtID) {
	s := fl.mod.Stmt(id)
	if s == nil {
		return
	}
	switch s.Kind {
	case ast.StmtBlock:
		if data := fl.mod.BlockData(s); data != nil {
			for _, child := range data.Stmts {
				fl.lowerStmt(child)
			}
		}
	case ast.StmtLet:
		fl.lowerLet(id, s)
	case ast.StmtAssign:
		fl.lowerAssign(s)
	case ast.StmtExpr:
		if data := fl.mod.ExprStmtData(s); data != nil {
			fl.lowerExpr(data.Expr)
		}
	case ast.StmtReturn:
		fl.lowerReturn(s)
	case ast.StmtIf:
		fl.lowerIf(s)
	case ast.StmtWhile:
		fl.lowerWhile(s)
	}
}

func (fl *funcLowerer) lowerLet(id ast.StmtID, s *ast.Stmt) {
	data := fl.mod.LetData(s)
	if data == nil {
		return
	}
	var value Operand
	if data.Value.IsValid() {
		value = fl.lowerExpr(data.Value)
	}
	t := value.Type
	if t == types.NoTypeID && data.Value.IsValid() {
		t = fl.typeOf(data.Value)
	}
	flags := LocalFlags(0)
	if data.Mut {
		flags |= LocalFlagMut
	}
	local := fl.f.NewLocal(Local{
		Type:  t,
		Flags: flags,
		Name:  fl.mod.StringOf(data.Name),
		Span:  s.Span,
	})
	if sym, ok := fl.lw.Res.Symbols.LetSymbols[id]; ok {
		fl.f.Locals[local].Sym = sym
		fl.locals[sym] = local
	}
	if data.Value.IsValid() {
		fl.f.Append(fl.cur, Instr{Kind: InstrAssign, Assign: AssignInstr{
			Dst: Place{Local: local},
			Src: RValue{Kind: RValueUse, Use: value},
		}})
	}
}

func (fl *funcLowerer) lowerAssign(s *ast.Stmt) {
	data := fl.mod.AssignData(s)
	if data == nil {
		return
	}
	value := fl.lowerExpr(data.Value)
	place, ok := fl.lowerPlace(data.Target)
	if !ok {
		fl.unsupported(data.Target, "assignment target is not a place")
		return
	}
	fl.f.Append(fl.cur, Instr{Kind: InstrAssign, Assign: AssignInstr{
		Dst: place,
		Src: RValue{Kind: RValueUse, Use: value},
	}})
}

func (fl *funcLowerer) lowerReturn(s *ast.Stmt) {
	data := fl.mod.ReturnData(s)
	if data == nil {
		return
	}
	term := Terminator{Kind: TermReturn}
	if data.Value.IsValid() {
		term.Return = ReturnTerm{HasValue: true, Value: fl.lowerExpr(data.Value)}
	}
	fl.f.SetTerm(fl.cur, term)
}

func (fl *funcLowerer) lowerIf(s *ast.Stmt) {
	data := fl.mod.IfData(s)
	if data == nil {
		return
	}
	cond := fl.lowerExpr(data.Cond)

	thenBB := fl.f.NewBlock()
	joinBB := fl.f.NewBlock()
	elseBB := joinBB
	if data.Else.IsValid() {
		elseBB = fl.f.NewBlock()
	}
	fl.f.SetTerm(fl.cur, Terminator{Kind: TermIf, If: IfTerm{Cond: cond, Then: thenBB, Else: elseBB}})

	fl.cur = thenBB
	fl.lowerStmt(data.Then)
	fl.f.SetTerm(fl.cur, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: joinBB}})

	if data.Else.IsValid() {
		fl.cur = elseBB
		fl.lowerStmt(data.Else)
		fl.f.SetTerm(fl.cur, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: joinBB}})
	}
	fl.cur = joinBB
}

func (fl *funcLowerer) lowerWhile(s *ast.Stmt) {
	data := fl.mod.WhileData(s)
	if data == nil {
		return
	}
	headBB := fl.f.NewBlock()
	bodyBB := fl.f.NewBlock()
	exitBB := fl.f.NewBlock()

	fl.f.SetTerm(fl.cur, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: headBB}})

	fl.cur = headBB
	cond := fl.lowerExpr(data.Cond)
	fl.f.SetTerm(fl.cur, Terminator{Kind: TermIf, If: IfTerm{Cond: cond, Then: bodyBB, Else: exitBB}})

	fl.cur = bodyBB
	fl.lowerStmt(data.Body)
	fl.f.SetTerm(fl.cur, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: headBB}})

	fl.cur = exitBB
}
