package frontend

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/gradualtype/internal/ast"
)

func TestParseAssign(t *testing.T) {
	mod, err := Parse("m.gt", []byte("x = 1\n"))
	require.NoError(t, err)
	require.Len(t, mod.Body, 1)
	assign, ok := mod.Body[0].(*ast.AssignStmt)
	require.True(t, ok)
	require.Equal(t, "x", assign.Target)
	lit, ok := assign.Value.(*ast.Literal)
	require.True(t, ok)
	require.Equal(t, ast.LitInt, lit.Kind)
	require.Equal(t, "1", lit.Raw)
}

func TestParseFuncDeclWithAnnotations(t *testing.T) {
	src := "def add(x: int, y: int) -> int:\n    return x + y\n"
	mod, err := Parse("m.gt", []byte(src))
	require.NoError(t, err)
	require.Len(t, mod.Body, 1)

	fn, ok := mod.Body[0].(*ast.FuncDecl)
	require.True(t, ok)
	require.Equal(t, "add", fn.Name)
	require.Len(t, fn.Params, 2)
	require.Equal(t, "x", fn.Params[0].Name)

	ann, ok := fn.Params[0].Annotation.(*ast.NamedTypeExpr)
	require.True(t, ok)
	require.Equal(t, "int", ann.Name)

	ret, ok := fn.ReturnAnn.(*ast.NamedTypeExpr)
	require.True(t, ok)
	require.Equal(t, "int", ret.Name)

	require.Len(t, fn.Body, 1)
	ret1, ok := fn.Body[0].(*ast.ReturnStmt)
	require.True(t, ok)
	binop, ok := ret1.Value.(*ast.BinOp)
	require.True(t, ok)
	require.Equal(t, "+", binop.Op)
}

func TestParseIfElifElse(t *testing.T) {
	src := "if x:\n    y = 1\nelif z:\n    y = 2\nelse:\n    y = 3\n"
	mod, err := Parse("m.gt", []byte(src))
	require.NoError(t, err)
	require.Len(t, mod.Body, 1)

	top, ok := mod.Body[0].(*ast.IfStmt)
	require.True(t, ok)
	require.Len(t, top.Else, 1)

	nested, ok := top.Else[0].(*ast.IfStmt)
	require.True(t, ok)
	require.Len(t, nested.Then, 1)
	require.Len(t, nested.Else, 1)
}

func TestParseWhileAndFor(t *testing.T) {
	src := "while x:\n    x = x - 1\nfor i in xs:\n    y = i\n"
	mod, err := Parse("m.gt", []byte(src))
	require.NoError(t, err)
	require.Len(t, mod.Body, 2)

	w, ok := mod.Body[0].(*ast.WhileStmt)
	require.True(t, ok)
	require.Len(t, w.Body, 1)

	f, ok := mod.Body[1].(*ast.ForStmt)
	require.True(t, ok)
	require.Equal(t, "i", f.TargetName)
}

func TestParseClassWithMethodsAndFields(t *testing.T) {
	src := "class Point(Base):\n    x: int\n    def sum(self) -> int:\n        return self.x\n"
	mod, err := Parse("m.gt", []byte(src))
	require.NoError(t, err)
	require.Len(t, mod.Body, 1)

	cls, ok := mod.Body[0].(*ast.ClassDecl)
	require.True(t, ok)
	require.Equal(t, "Point", cls.Name)
	require.Equal(t, []string{"Base"}, cls.Bases)
	require.Contains(t, cls.Fields, "x")
	require.Len(t, cls.Methods, 1)
	require.Equal(t, "sum", cls.Methods[0].Name)
}

func TestParseImportDottedPath(t *testing.T) {
	mod, err := Parse("m.gt", []byte("import pkg.sub\n"))
	require.NoError(t, err)
	imp, ok := mod.Body[0].(*ast.ImportStmt)
	require.True(t, ok)
	require.Equal(t, "pkg.sub", imp.Path)
}

func TestParseCallAttributeSubscriptChain(t *testing.T) {
	mod, err := Parse("m.gt", []byte("y = obj.method(1, 2)[0]\n"))
	require.NoError(t, err)
	assign := mod.Body[0].(*ast.AssignStmt)
	sub, ok := assign.Value.(*ast.Subscript)
	require.True(t, ok)
	call, ok := sub.X.(*ast.Call)
	require.True(t, ok)
	require.Len(t, call.Args, 2)
	attr, ok := call.Callee.(*ast.Attribute)
	require.True(t, ok)
	require.Equal(t, "method", attr.Attr)
}

func TestParseListDictSetLiterals(t *testing.T) {
	mod, err := Parse("m.gt", []byte("xs = [1, 2, 3]\nd = {1: 2}\ns = {1, 2}\n"))
	require.NoError(t, err)
	require.Len(t, mod.Body, 3)

	list := mod.Body[0].(*ast.AssignStmt).Value.(*ast.ListLit)
	require.Len(t, list.Elems, 3)

	dict := mod.Body[1].(*ast.AssignStmt).Value.(*ast.DictLit)
	require.Len(t, dict.Entries, 1)

	set := mod.Body[2].(*ast.AssignStmt).Value.(*ast.SetLit)
	require.Len(t, set.Elems, 2)
}

func TestParseLambdaAndConditionalExpr(t *testing.T) {
	mod, err := Parse("m.gt", []byte("f = lambda x: x\ny = 1 if x else 2\n"))
	require.NoError(t, err)
	lam := mod.Body[0].(*ast.AssignStmt).Value.(*ast.Lambda)
	require.Equal(t, []string{"x"}, lam.Params)

	cond := mod.Body[1].(*ast.AssignStmt).Value.(*ast.CondExpr)
	require.NotNil(t, cond.Test)
	require.NotNil(t, cond.Then)
	require.NotNil(t, cond.Else)
}

func TestParseAugAssign(t *testing.T) {
	mod, err := Parse("m.gt", []byte("x += 1\n"))
	require.NoError(t, err)
	aug, ok := mod.Body[0].(*ast.AugAssignStmt)
	require.True(t, ok)
	require.Equal(t, "x", aug.Target)
	require.Equal(t, "+", aug.Op)
}

func TestParseRefinementAndEffectAnnotations(t *testing.T) {
	src := "def f(x: int(0, 10)) -> int ! {IO}:\n    return x\n"
	mod, err := Parse("m.gt", []byte(src))
	require.NoError(t, err)
	fn := mod.Body[0].(*ast.FuncDecl)

	ref, ok := fn.Params[0].Annotation.(*ast.RefinementTypeExpr)
	require.True(t, ok)
	require.Equal(t, "int", ref.Base.Name)
	require.Equal(t, []string{"0", "10"}, ref.Args)

	eff, ok := fn.ReturnAnn.(*ast.EffectTypeExpr)
	require.True(t, ok)
	require.Equal(t, []string{"IO"}, eff.Effects)
}

func TestParseInvalidAssignmentTargetErrors(t *testing.T) {
	_, err := Parse("m.gt", []byte("1 + 2 = 3\n"))
	require.Error(t, err)
}

func TestParseUnterminatedBlockErrors(t *testing.T) {
	_, err := Parse("m.gt", []byte("def f():\n"))
	require.Error(t, err)
}
