package effects

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/gradualtype/internal/ast"
	"github.com/GriffinCanCode/gradualtype/internal/tenv"
	"github.com/GriffinCanCode/gradualtype/internal/types"
)

func TestAssignAddsMutation(t *testing.T) {
	env := tenv.NewTypeEnv(tenv.NewBuiltinClassRegistry())
	body := []ast.Stmt{&ast.AssignStmt{Target: "x", Value: &ast.Literal{Kind: ast.LitInt, Raw: "1"}}}
	set := Analyze(body, env)
	require.True(t, set.Has(types.EffMutation))
}

func TestRaiseAddsException(t *testing.T) {
	env := tenv.NewTypeEnv(tenv.NewBuiltinClassRegistry())
	body := []ast.Stmt{&ast.RaiseStmt{}}
	set := Analyze(body, env)
	require.True(t, set.Has(types.EffException))
}

func TestAwaitAddsAsync(t *testing.T) {
	env := tenv.NewTypeEnv(tenv.NewBuiltinClassRegistry())
	body := []ast.Stmt{&ast.ExprStmt{X: &ast.AwaitExpr{X: &ast.Literal{Kind: ast.LitInt, Raw: "1"}}}}
	set := Analyze(body, env)
	require.True(t, set.Has(types.EffAsync))
}

func TestBuiltinCallMapsToIO(t *testing.T) {
	env := tenv.NewTypeEnv(tenv.NewBuiltinClassRegistry())
	body := []ast.Stmt{&ast.ExprStmt{X: &ast.Call{Callee: &ast.Name{Ident: "print"}, Args: []ast.Expr{&ast.Literal{Kind: ast.LitStr, Raw: "hi"}}}}}
	set := Analyze(body, env)
	require.True(t, set.Has(types.EffIO))
}

func TestPureBuiltinStaysPure(t *testing.T) {
	env := tenv.NewTypeEnv(tenv.NewBuiltinClassRegistry())
	body := []ast.Stmt{&ast.ExprStmt{X: &ast.Call{Callee: &ast.Name{Ident: "len"}, Args: []ast.Expr{&ast.Name{Ident: "x"}}}}}
	set := Analyze(body, env)
	require.True(t, set.IsPure())
}

func TestCallToKnownImpureUserFunction(t *testing.T) {
	env := tenv.NewTypeEnv(tenv.NewBuiltinClassRegistry())
	env.Bind("do_io", &types.Effect{Inner: &types.Function{Return: types.None}, Set: types.NewEffectSet(types.EffIO)})
	body := []ast.Stmt{&ast.ExprStmt{X: &ast.Call{Callee: &ast.Name{Ident: "do_io"}}}}
	set := Analyze(body, env)
	require.True(t, set.Has(types.EffIO))
}

func TestUnknownPureCallStaysPure(t *testing.T) {
	env := tenv.NewTypeEnv(tenv.NewBuiltinClassRegistry())
	env.Bind("add_one", &types.Function{Params: []types.Type{types.Int}, Return: types.Int})
	body := []ast.Stmt{&ast.ExprStmt{X: &ast.Call{Callee: &ast.Name{Ident: "add_one"}, Args: []ast.Expr{&ast.Literal{Kind: ast.LitInt, Raw: "1"}}}}}
	set := Analyze(body, env)
	require.True(t, set.IsPure())
}
