// Package infer implements the bidirectional type inferer: two
// mutually recursive operations, synthesize (bottom-up) and check
// (top-down), driving the type environment (internal/tenv), the
// constraint solver (internal/solver), and the effect analyzer
// (internal/effects) over the AST (internal/ast) via the visitor
// contract (internal/astvisit).
package infer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/GriffinCanCode/gradualtype/internal/ast"
	"github.com/GriffinCanCode/gradualtype/internal/astvisit"
	"github.com/GriffinCanCode/gradualtype/internal/diag"
	"github.com/GriffinCanCode/gradualtype/internal/effects"
	"github.com/GriffinCanCode/gradualtype/internal/solver"
	"github.com/GriffinCanCode/gradualtype/internal/tenv"
	"github.com/GriffinCanCode/gradualtype/internal/types"
)

// funcCtx tracks the in-progress function whose body is being checked,
// so bare ReturnStmt visits can either check against a declared return
// type or accumulate candidate types for a fresh one.
type funcCtx struct {
	declared bool
	declType types.Type
	returns  []types.Type
}

// declFn records a checked function declaration so effect analysis can
// be replayed once every function in the module has a binding.
type declFn struct {
	name  string
	body  []ast.Stmt
	fn    *types.Function
	scope *tenv.TypeEnv
}

// Inferer holds the per-module state threaded through a single
// synthesize/check pass: the current symbol scope, the shared
// constraint solver, and the diagnostic collector. One Inferer
// analyzes one module; the class registry it wraps may be shared
// across a whole project run.
type Inferer struct {
	env     *tenv.TypeEnv
	Solver  *solver.Solver
	Diags   *diag.Collector
	File    string
	lines   *ast.LineIndex
	funcs   []*funcCtx
	decls   []*declFn
}

// New creates an Inferer for a single module's analysis.
func New(file string, src []byte, classes *tenv.ClassRegistry, maxErrors int) *Inferer {
	return &Inferer{
		env:    tenv.NewTypeEnv(classes),
		Solver: solver.New(classes),
		Diags:  diag.NewCollector(maxErrors),
		File:   file,
		lines:  ast.NewLineIndex(src),
	}
}

// Env exposes the root type environment, so a caller can pre-bind
// module-level symbols before InferModule runs.
func (i *Inferer) Env() *tenv.TypeEnv { return i.env }

// InferModule walks every top-level statement in mod.Body, then replays
// effect analysis over the declared functions until their effect sets
// stop changing. The first walk sees a call to a function declared
// later (or to another member of a mutually recursive group) before
// that function's effects are known and treats it as pure; each replay
// can only add tags, so the loop reaches a fixpoint.
func (i *Inferer) InferModule(mod *ast.Module) {
	for _, s := range mod.Body {
		astvisit.WalkStmt(i, s)
	}
	for pass := 0; pass < effectFixpointCap; pass++ {
		if !i.refineEffects() {
			return
		}
	}
}

// effectFixpointCap bounds the replay loop; the monotone effect lattice
// converges long before this in practice.
const effectFixpointCap = 100

// refineEffects re-runs effect analysis for every recorded function
// declaration and rebinds those whose sets grew. Reports whether any
// binding changed.
func (i *Inferer) refineEffects() bool {
	changed := false
	for _, d := range i.decls {
		set := effects.Analyze(d.body, d.scope)
		cur := types.EmptyEffectSet()
		if t, ok := d.scope.Lookup(d.name); ok {
			if eff, isEff := t.(*types.Effect); isEff {
				cur = eff.Set
			}
		}
		if set.Equals(cur) {
			continue
		}
		changed = true
		if set.IsPure() {
			d.scope.Bind(d.name, d.fn)
		} else {
			d.scope.Bind(d.name, &types.Effect{Inner: d.fn, Set: set})
		}
	}
	return changed
}

func (i *Inferer) locOf(sp ast.Span) *ast.LineCol {
	lc := i.lines.Resolve(sp)
	return &lc
}

func (i *Inferer) errorAt(sp ast.Span, code diag.Code, msg string, suggestions ...string) {
	i.Diags.Add(diag.Diagnostic{
		Code: code, Phase: diag.PhaseInfer, Message: msg,
		File: i.File, Location: i.locOf(sp), Suggestions: suggestions,
	})
}

// synthesize is the bottom-up operation: infer expr's type.
func (i *Inferer) synthesize(e ast.Expr) types.Type {
	return astvisit.WalkExpr(i, e).(types.Type)
}

// check is the top-down operation: synthesize, then assert subtype
// against expected.
func (i *Inferer) check(e ast.Expr, expected types.Type) bool {
	actual := i.synthesize(e)
	if types.IsSubtype(actual, expected) {
		return true
	}
	i.errorAt(e.Span(), diag.TC001, fmt.Sprintf(
		"expected type %s, got %s", types.Display(expected), types.Display(actual)))
	return false
}

// ---- ExprVisitor ----

func (i *Inferer) VisitLiteral(n *ast.Literal) any {
	switch n.Kind {
	case ast.LitInt:
		return types.Type(types.Int)
	case ast.LitFloat:
		return types.Type(types.Float)
	case ast.LitStr:
		return types.Type(types.Str)
	case ast.LitBytes:
		return types.Type(types.Bytes)
	case ast.LitBool:
		return types.Type(types.Bool)
	case ast.LitNone:
		return types.Type(types.None)
	default:
		return types.Type(types.Any)
	}
}

func (i *Inferer) VisitName(n *ast.Name) any {
	if t, ok := i.env.Lookup(n.Ident); ok {
		return t
	}
	i.errorAt(n.Sp, diag.TC002, fmt.Sprintf("undefined name %q", n.Ident),
		diag.Suggest(n.Ident, i.env.Names())...)
	return types.Type(tenv.FreshVar())
}

var bitwiseOps = map[string]bool{"&": true, "|": true, "^": true, "<<": true, ">>": true}

func (i *Inferer) VisitBinOp(n *ast.BinOp) any {
	l := i.synthesize(n.Left)
	r := i.synthesize(n.Right)

	isInt := func(t types.Type) bool { return types.IsPrimitiveKind(t, types.KindInt) }
	isFloat := func(t types.Type) bool { return types.IsPrimitiveKind(t, types.KindFloat) }
	isStr := func(t types.Type) bool { return types.IsPrimitiveKind(t, types.KindStr) }

	if bitwiseOps[n.Op] {
		if isInt(l) && isInt(r) {
			return types.Type(types.Int)
		}
		return types.Type(types.Any)
	}

	if n.Op == "+" {
		if isStr(l) && isStr(r) {
			return types.Type(types.Str)
		}
		if ll, ok := l.(*types.List); ok {
			if rl, ok := r.(*types.List); ok {
				return types.Type(&types.List{Elem: types.Union([]types.Type{ll.Elem, rl.Elem})})
			}
		}
	}

	if isInt(l) && isInt(r) {
		return types.Type(types.Int)
	}
	if isFloat(l) || isFloat(r) {
		return types.Type(types.Float)
	}
	return types.Type(types.Any)
}

func (i *Inferer) VisitUnaryOp(n *ast.UnaryOp) any {
	x := i.synthesize(n.X)
	switch n.Op {
	case "not":
		return types.Type(types.Bool)
	case "~":
		if !types.IsPrimitiveKind(x, types.KindInt) {
			i.errorAt(n.Sp, diag.TC005, fmt.Sprintf("~ requires int, got %s", types.Display(x)))
		}
		return types.Type(types.Int)
	default: // + / -
		return x
	}
}

func (i *Inferer) VisitBoolOp(n *ast.BoolOp) any {
	members := make([]types.Type, len(n.Operands))
	for idx, op := range n.Operands {
		members[idx] = i.synthesize(op)
	}
	return types.Union(members)
}

func (i *Inferer) VisitCompare(n *ast.Compare) any {
	i.synthesize(n.Left)
	i.synthesize(n.Right)
	return types.Type(types.Bool)
}

func (i *Inferer) VisitCall(n *ast.Call) any {
	if name, ok := n.Callee.(*ast.Name); ok {
		if _, isBuiltin := builtinCallTable[name.Ident]; isBuiltin {
			if _, bound := i.env.Lookup(name.Ident); !bound {
				return i.visitBuiltinCall(name.Ident, n)
			}
		}
	}

	callee := i.synthesize(n.Callee)
	if eff, ok := callee.(*types.Effect); ok {
		callee = eff.Inner
	}
	args := make([]types.Type, len(n.Args))
	for idx, a := range n.Args {
		args[idx] = i.synthesize(a)
	}

	switch c := callee.(type) {
	case *types.Function:
		if len(c.Params) != len(args) {
			i.errorAt(n.Sp, diag.TC004, fmt.Sprintf(
				"expected %d argument(s), got %d", len(c.Params), len(args)))
			return c.Return
		}
		for idx, want := range c.Params {
			if !types.IsSubtype(args[idx], want) {
				i.errorAt(n.Args[idx].Span(), diag.TC005, fmt.Sprintf(
					"argument %d: expected %s, got %s", idx, types.Display(want), types.Display(args[idx])))
			}
		}
		return c.Return
	case *types.Class:
		return c
	case *types.Var:
		return types.Type(tenv.FreshVar())
	default:
		i.errorAt(n.Callee.Span(), diag.TC007, fmt.Sprintf("%s is not callable", types.Display(callee)))
		return types.Type(types.Any)
	}
}

func (i *Inferer) VisitListLit(n *ast.ListLit) any {
	if len(n.Elems) == 0 {
		return &types.List{Elem: tenv.FreshVar()}
	}
	members := make([]types.Type, len(n.Elems))
	for idx, e := range n.Elems {
		members[idx] = i.synthesize(e)
	}
	return &types.List{Elem: types.Union(members)}
}

func (i *Inferer) VisitSetLit(n *ast.SetLit) any {
	if len(n.Elems) == 0 {
		return &types.Set{Elem: tenv.FreshVar()}
	}
	members := make([]types.Type, len(n.Elems))
	for idx, e := range n.Elems {
		members[idx] = i.synthesize(e)
	}
	return &types.Set{Elem: types.Union(members)}
}

func (i *Inferer) VisitTupleLit(n *ast.TupleLit) any {
	elems := make([]types.Type, len(n.Elems))
	for idx, e := range n.Elems {
		elems[idx] = i.synthesize(e)
	}
	return &types.Tuple{Elems: elems}
}

func (i *Inferer) VisitDictLit(n *ast.DictLit) any {
	if len(n.Entries) == 0 {
		return &types.Dict{Key: tenv.FreshVar(), Value: tenv.FreshVar()}
	}
	keys := make([]types.Type, len(n.Entries))
	vals := make([]types.Type, len(n.Entries))
	for idx, e := range n.Entries {
		keys[idx] = i.synthesize(e.Key)
		vals[idx] = i.synthesize(e.Value)
	}
	return &types.Dict{Key: types.Union(keys), Value: types.Union(vals)}
}

func (i *Inferer) VisitComprehension(n *ast.Comprehension) any {
	scope := i.env
	i.env = i.env.Child()
	defer func() { i.env = scope }()

	for _, c := range n.Clauses {
		iterT := i.synthesize(c.Iter)
		i.env.Bind(c.TargetName, elemOf(iterT))
		for _, cond := range c.Ifs {
			i.check(cond, types.Bool)
		}
	}

	switch n.Kind {
	case ast.CompDict:
		k := i.synthesize(n.KeyElt)
		v := i.synthesize(n.Elt)
		return &types.Dict{Key: k, Value: v}
	case ast.CompSet:
		return &types.Set{Elem: i.synthesize(n.Elt)}
	default:
		return &types.List{Elem: i.synthesize(n.Elt)}
	}
}

func elemOf(t types.Type) types.Type {
	switch v := t.(type) {
	case *types.List:
		return v.Elem
	case *types.Set:
		return v.Elem
	case *types.Dict:
		return v.Key
	case *types.Primitive:
		if v.Kind == types.KindStr {
			return types.Str
		}
	}
	return types.Any
}

func (i *Inferer) VisitLambda(n *ast.Lambda) any {
	scope := i.env
	i.env = i.env.Child()
	defer func() { i.env = scope }()

	params := make([]types.Type, len(n.Params))
	for idx, p := range n.Params {
		v := tenv.FreshVar()
		params[idx] = v
		i.env.Bind(p, v)
	}
	ret := i.synthesize(n.Body)
	return &types.Function{Params: params, Return: ret}
}

func (i *Inferer) VisitCondExpr(n *ast.CondExpr) any {
	i.check(n.Test, types.Bool)
	then := i.synthesize(n.Then)
	els := i.synthesize(n.Else)
	return types.Union([]types.Type{then, els})
}

func (i *Inferer) VisitSubscript(n *ast.Subscript) any {
	x := i.synthesize(n.X)
	idx := i.synthesize(n.Index)
	_ = idx

	switch v := x.(type) {
	case *types.List:
		return v.Elem
	case *types.Tuple:
		if lit, ok := n.Index.(*ast.Literal); ok && lit.Kind == ast.LitInt {
			if k, err := strconv.Atoi(lit.Raw); err == nil {
				if k >= 0 && k < len(v.Elems) {
					return v.Elems[k]
				}
				return types.Type(types.Any)
			}
		}
		return types.Union(v.Elems)
	case *types.Dict:
		return v.Value
	case *types.Primitive:
		if v.Kind == types.KindStr {
			return types.Type(types.Str)
		}
	}
	i.errorAt(n.Sp, diag.TC008, fmt.Sprintf("%s is not subscriptable", types.Display(x)))
	return types.Type(types.Any)
}

func (i *Inferer) VisitSliceExpr(n *ast.SliceExpr) any {
	i.synthesize(n.X)
	for _, e := range []ast.Expr{n.Low, n.High, n.Step} {
		if e != nil {
			i.synthesize(e)
		}
	}
	return &types.Class{Name: "slice"}
}

func (i *Inferer) VisitAttribute(n *ast.Attribute) any {
	x := i.synthesize(n.X)
	found, ok := i.env.HasAttribute(x, n.Attr)
	if !ok {
		i.errorAt(n.Sp, diag.TC009, fmt.Sprintf("%s has no attribute %q", types.Display(x), n.Attr),
			diag.Suggest(n.Attr, i.env.AttributeCandidates(x))...)
		return types.Type(tenv.FreshVar())
	}
	return found
}

func (i *Inferer) VisitAwaitExpr(n *ast.AwaitExpr) any {
	return i.synthesize(n.X)
}

func (i *Inferer) VisitYieldExpr(n *ast.YieldExpr) any {
	if n.X == nil {
		return types.Type(types.None)
	}
	return i.synthesize(n.X)
}

func (i *Inferer) VisitFString(n *ast.FString) any {
	for _, p := range n.Parts {
		if p.Expr != nil {
			i.synthesize(p.Expr)
		}
	}
	return types.Type(types.Str)
}

// ---- StmtVisitor ----

func (i *Inferer) VisitImportStmt(n *ast.ImportStmt) any { return nil }

func (i *Inferer) VisitFuncDecl(n *ast.FuncDecl) any {
	params := make([]types.Type, len(n.Params))
	for idx, p := range n.Params {
		params[idx] = ResolveType(p.Annotation)
	}
	declaredReturn := n.ReturnAnn != nil
	ret := ResolveType(n.ReturnAnn)

	fnType := &types.Function{Params: params, Return: ret}
	i.env.Bind(n.Name, fnType) // bound before body check: supports recursion

	scope := i.env
	i.env = i.env.Child()
	for idx, p := range n.Params {
		i.env.Bind(p.Name, params[idx])
	}

	i.funcs = append(i.funcs, &funcCtx{declared: declaredReturn, declType: ret})
	for _, s := range n.Body {
		astvisit.WalkStmt(i, s)
	}
	fc := i.funcs[len(i.funcs)-1]
	i.funcs = i.funcs[:len(i.funcs)-1]

	if !declaredReturn {
		if len(fc.returns) == 0 {
			ret = types.None
		} else {
			ret = types.Union(fc.returns)
		}
		fnType.Return = ret
	}

	i.env = scope

	var bound types.Type = fnType
	if inferred := effects.Analyze(n.Body, i.env); !inferred.IsPure() {
		bound = &types.Effect{Inner: fnType, Set: inferred}
	}
	i.env.Bind(n.Name, bound)
	i.decls = append(i.decls, &declFn{name: n.Name, body: n.Body, fn: fnType, scope: i.env})
	return bound
}

func (i *Inferer) VisitClassDecl(n *ast.ClassDecl) any {
	schema := tenv.NewClassSchema(n.Name, n.Bases...)
	for fieldName, ann := range n.Fields {
		schema.WithClassVar(fieldName, ResolveType(ann))
	}
	for _, m := range n.Methods {
		params := m.Params
		if len(params) > 0 {
			params = params[1:] // drop implicit self
		}
		paramTypes := make([]types.Type, len(params))
		for idx, p := range params {
			paramTypes[idx] = ResolveType(p.Annotation)
		}
		retType := ResolveType(m.ReturnAnn)
		schema.WithMethod(m.Name, &types.Function{Params: paramTypes, Return: retType})
	}
	registered := i.env.Classes().RegisterIfAbsent(schema)

	for _, m := range n.Methods {
		scope := i.env
		i.env = i.env.Child()
		i.env.Bind("self", &types.Class{Name: n.Name})
		params := m.Params
		if len(params) > 0 {
			params = params[1:]
		}
		for _, p := range params {
			i.env.Bind(p.Name, ResolveType(p.Annotation))
		}
		i.funcs = append(i.funcs, &funcCtx{declared: m.ReturnAnn != nil, declType: ResolveType(m.ReturnAnn)})
		for _, s := range m.Body {
			astvisit.WalkStmt(i, s)
		}
		i.funcs = i.funcs[:len(i.funcs)-1]
		i.env = scope
	}

	i.env.Bind(n.Name, &types.Class{Name: n.Name})
	return registered
}

func (i *Inferer) VisitAssignStmt(n *ast.AssignStmt) any {
	v := i.synthesize(n.Value)
	i.env.Bind(n.Target, v)
	return nil
}

func (i *Inferer) VisitAugAssignStmt(n *ast.AugAssignStmt) any {
	cur, ok := i.env.Lookup(n.Target)
	if !ok {
		i.errorAt(n.Sp, diag.TC002, fmt.Sprintf("undefined name %q", n.Target),
			diag.Suggest(n.Target, i.env.Names())...)
		cur = types.Any
	}
	val := i.synthesize(n.Value)
	op := strings.TrimSuffix(n.Op, "=")

	isInt := func(t types.Type) bool { return types.IsPrimitiveKind(t, types.KindInt) }
	isFloat := func(t types.Type) bool { return types.IsPrimitiveKind(t, types.KindFloat) }

	var result types.Type
	switch {
	case isInt(cur) && isInt(val):
		result = types.Int
	case isFloat(cur) || isFloat(val):
		result = types.Float
	case op == "+" && types.IsPrimitiveKind(cur, types.KindStr) && types.IsPrimitiveKind(val, types.KindStr):
		result = types.Str
	default:
		result = types.Any
	}
	i.env.Bind(n.Target, result)
	return nil
}

func (i *Inferer) VisitReturnStmt(n *ast.ReturnStmt) any {
	var v types.Type = types.None
	if n.Value != nil {
		v = i.synthesize(n.Value)
	}
	if len(i.funcs) == 0 {
		return nil
	}
	fc := i.funcs[len(i.funcs)-1]
	if fc.declared {
		if !types.IsSubtype(v, fc.declType) {
			i.errorAt(n.Sp, diag.TC006, fmt.Sprintf(
				"return type %s is not assignable to declared %s", types.Display(v), types.Display(fc.declType)))
		}
	} else {
		fc.returns = append(fc.returns, v)
	}
	return nil
}

func (i *Inferer) VisitExprStmt(n *ast.ExprStmt) any {
	i.synthesize(n.X)
	return nil
}

func (i *Inferer) VisitIfStmt(n *ast.IfStmt) any {
	i.check(n.Cond, types.Bool)
	for _, s := range n.Then {
		astvisit.WalkStmt(i, s)
	}
	for _, s := range n.Else {
		astvisit.WalkStmt(i, s)
	}
	return nil
}

func (i *Inferer) VisitWhileStmt(n *ast.WhileStmt) any {
	i.check(n.Cond, types.Bool)
	for _, s := range n.Body {
		astvisit.WalkStmt(i, s)
	}
	return nil
}

func (i *Inferer) VisitForStmt(n *ast.ForStmt) any {
	iterT := i.synthesize(n.Iter)
	i.env.Bind(n.TargetName, elemOf(iterT))
	for _, s := range n.Body {
		astvisit.WalkStmt(i, s)
	}
	return nil
}

func (i *Inferer) VisitWithStmt(n *ast.WithStmt) any {
	i.synthesize(n.Ctx)
	if n.Name != "" {
		i.env.Bind(n.Name, types.Any)
	}
	for _, s := range n.Body {
		astvisit.WalkStmt(i, s)
	}
	return nil
}

func (i *Inferer) VisitTryStmt(n *ast.TryStmt) any {
	for _, s := range n.Body {
		astvisit.WalkStmt(i, s)
	}
	for _, ex := range n.Excepts {
		if ex.Name != "" {
			if ex.TypeName != "" {
				i.env.Bind(ex.Name, &types.Class{Name: ex.TypeName})
			} else {
				i.env.Bind(ex.Name, types.Any)
			}
		}
		for _, s := range ex.Body {
			astvisit.WalkStmt(i, s)
		}
	}
	for _, s := range n.Finally {
		astvisit.WalkStmt(i, s)
	}
	return nil
}

func (i *Inferer) VisitRaiseStmt(n *ast.RaiseStmt) any {
	if n.X != nil {
		i.synthesize(n.X)
	}
	return nil
}
