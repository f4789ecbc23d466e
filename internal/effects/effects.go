// Package effects implements the effect analyzer: a visitor
// computing an EffectSet for expressions and statements, unioning
// sub-effects and adding the constant effects certain node kinds
// always introduce (mutation, exception, async, or a builtin's fixed
// table entry).
package effects

import (
	"github.com/GriffinCanCode/gradualtype/internal/ast"
	"github.com/GriffinCanCode/gradualtype/internal/astvisit"
	"github.com/GriffinCanCode/gradualtype/internal/tenv"
	"github.com/GriffinCanCode/gradualtype/internal/types"
)

// Analyzer computes the effect set of expressions and statements,
// consulting env to resolve already-inferred effect sets for calls to
// user-declared functions.
type Analyzer struct {
	env *tenv.TypeEnv
}

// Analyze computes the union effect set of a statement block — a
// function body. Calls to a user function whose inferred
// type is not yet available (forward/mutually-recursive references)
// are conservatively treated as pure; internal/infer re-runs analysis
// in a fixpoint over mutually recursive groups to refine this.
func Analyze(body []ast.Stmt, env *tenv.TypeEnv) types.EffectSet {
	a := &Analyzer{env: env}
	set := types.EmptyEffectSet()
	for _, s := range body {
		set = set.Union(a.stmtEffects(s))
	}
	return set
}

// AnalyzeExpr computes the effect set of a single expression, exported
// for callers (e.g. a REPL) that evaluate expressions outside any
// function body.
func AnalyzeExpr(e ast.Expr, env *tenv.TypeEnv) types.EffectSet {
	a := &Analyzer{env: env}
	return a.exprEffects(e)
}

func (a *Analyzer) exprEffects(e ast.Expr) types.EffectSet {
	return astvisit.WalkExpr(a, e).(types.EffectSet)
}

func (a *Analyzer) stmtEffects(s ast.Stmt) types.EffectSet {
	return astvisit.WalkStmt(a, s).(types.EffectSet)
}

func (a *Analyzer) unionChildren(e ast.Expr) types.EffectSet {
	set := types.EmptyEffectSet()
	for _, c := range astvisit.ChildExprs(e) {
		set = set.Union(a.exprEffects(c))
	}
	return set
}

func (a *Analyzer) unionStmts(stmts []ast.Stmt) types.EffectSet {
	set := types.EmptyEffectSet()
	for _, s := range stmts {
		set = set.Union(a.stmtEffects(s))
	}
	return set
}

// ---- ExprVisitor ----

func (a *Analyzer) VisitLiteral(n *ast.Literal) any { return types.EmptyEffectSet() }
func (a *Analyzer) VisitName(n *ast.Name) any       { return types.EmptyEffectSet() }
func (a *Analyzer) VisitBinOp(n *ast.BinOp) any      { return a.unionChildren(n) }
func (a *Analyzer) VisitUnaryOp(n *ast.UnaryOp) any  { return a.unionChildren(n) }
func (a *Analyzer) VisitBoolOp(n *ast.BoolOp) any    { return a.unionChildren(n) }
func (a *Analyzer) VisitCompare(n *ast.Compare) any  { return a.unionChildren(n) }

func (a *Analyzer) VisitCall(n *ast.Call) any {
	set := a.unionChildren(n)
	if name, ok := n.Callee.(*ast.Name); ok {
		if tag, known := builtinEffectTable[name.Ident]; known {
			if tag != types.EffPure {
				set = set.Add(tag)
			}
			return set
		}
		if fnType, bound := a.env.Lookup(name.Ident); bound {
			if eff, ok := fnType.(*types.Effect); ok {
				set = set.Union(eff.Set)
			}
		}
	}
	return set
}

func (a *Analyzer) VisitListLit(n *ast.ListLit) any   { return a.unionChildren(n) }
func (a *Analyzer) VisitSetLit(n *ast.SetLit) any     { return a.unionChildren(n) }
func (a *Analyzer) VisitTupleLit(n *ast.TupleLit) any { return a.unionChildren(n) }
func (a *Analyzer) VisitDictLit(n *ast.DictLit) any   { return a.unionChildren(n) }

func (a *Analyzer) VisitComprehension(n *ast.Comprehension) any {
	set := types.EmptyEffectSet()
	if n.KeyElt != nil {
		set = set.Union(a.exprEffects(n.KeyElt))
	}
	set = set.Union(a.exprEffects(n.Elt))
	for _, c := range n.Clauses {
		set = set.Union(a.exprEffects(c.Iter))
		for _, cond := range c.Ifs {
			set = set.Union(a.exprEffects(cond))
		}
	}
	return set
}

func (a *Analyzer) VisitLambda(n *ast.Lambda) any {
	return a.exprEffects(n.Body)
}

func (a *Analyzer) VisitCondExpr(n *ast.CondExpr) any { return a.unionChildren(n) }
func (a *Analyzer) VisitSubscript(n *ast.Subscript) any { return a.unionChildren(n) }
func (a *Analyzer) VisitSliceExpr(n *ast.SliceExpr) any { return a.unionChildren(n) }
func (a *Analyzer) VisitAttribute(n *ast.Attribute) any { return a.unionChildren(n) }

func (a *Analyzer) VisitAwaitExpr(n *ast.AwaitExpr) any {
	return a.exprEffects(n.X).Add(types.EffAsync)
}

func (a *Analyzer) VisitYieldExpr(n *ast.YieldExpr) any {
	set := types.EmptyEffectSet().Add(types.EffAsync)
	if n.X != nil {
		set = set.Union(a.exprEffects(n.X))
	}
	return set
}

func (a *Analyzer) VisitFString(n *ast.FString) any {
	set := types.EmptyEffectSet()
	for _, p := range n.Parts {
		if p.Expr != nil {
			set = set.Union(a.exprEffects(p.Expr))
		}
	}
	return set
}

// ---- StmtVisitor ----

func (a *Analyzer) VisitImportStmt(n *ast.ImportStmt) any { return types.EmptyEffectSet() }

func (a *Analyzer) VisitFuncDecl(n *ast.FuncDecl) any {
	// A nested function declaration's own effects do not propagate to
	// its enclosing scope; only calling it would.
	return types.EmptyEffectSet()
}

func (a *Analyzer) VisitClassDecl(n *ast.ClassDecl) any { return types.EmptyEffectSet() }

func (a *Analyzer) VisitAssignStmt(n *ast.AssignStmt) any {
	return a.exprEffects(n.Value).Add(types.EffMutation)
}

func (a *Analyzer) VisitAugAssignStmt(n *ast.AugAssignStmt) any {
	return a.exprEffects(n.Value).Add(types.EffMutation)
}

func (a *Analyzer) VisitReturnStmt(n *ast.ReturnStmt) any {
	if n.Value == nil {
		return types.EmptyEffectSet()
	}
	return a.exprEffects(n.Value)
}

func (a *Analyzer) VisitExprStmt(n *ast.ExprStmt) any { return a.exprEffects(n.X) }

func (a *Analyzer) VisitIfStmt(n *ast.IfStmt) any {
	set := a.exprEffects(n.Cond)
	set = set.Union(a.unionStmts(n.Then))
	set = set.Union(a.unionStmts(n.Else))
	return set
}

func (a *Analyzer) VisitWhileStmt(n *ast.WhileStmt) any {
	return a.exprEffects(n.Cond).Union(a.unionStmts(n.Body))
}

func (a *Analyzer) VisitForStmt(n *ast.ForStmt) any {
	return a.exprEffects(n.Iter).Union(a.unionStmts(n.Body))
}

func (a *Analyzer) VisitWithStmt(n *ast.WithStmt) any {
	return a.exprEffects(n.Ctx).Union(a.unionStmts(n.Body))
}

func (a *Analyzer) VisitTryStmt(n *ast.TryStmt) any {
	set := a.unionStmts(n.Body).Add(types.EffException)
	for _, ex := range n.Excepts {
		set = set.Union(a.unionStmts(ex.Body))
	}
	set = set.Union(a.unionStmts(n.Finally))
	return set
}

func (a *Analyzer) VisitRaiseStmt(n *ast.RaiseStmt) any {
	set := types.EmptyEffectSet().Add(types.EffException)
	if n.X != nil {
		set = set.Union(a.exprEffects(n.X))
	}
	return set
}
