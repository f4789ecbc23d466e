// Package astvisit implements the visitor-pattern contract over
// internal/ast: one method per node kind, plus a default walker that
// recurses into children. Both the bidirectional inferer (internal/infer)
// and the effect analyzer (internal/effects) implement ExprVisitor and
// StmtVisitor rather than switching on concrete node types themselves.
package astvisit

import "github.com/GriffinCanCode/gradualtype/internal/ast"

// ExprVisitor computes a result for every expression node kind. Each
// analysis (inference, effect propagation) implements this with its own
// result type boxed in `any`.
type ExprVisitor interface {
	VisitLiteral(*ast.Literal) any
	VisitName(*ast.Name) any
	VisitBinOp(*ast.BinOp) any
	VisitUnaryOp(*ast.UnaryOp) any
	VisitBoolOp(*ast.BoolOp) any
	VisitCompare(*ast.Compare) any
	VisitCall(*ast.Call) any
	VisitListLit(*ast.ListLit) any
	VisitSetLit(*ast.SetLit) any
	VisitTupleLit(*ast.TupleLit) any
	VisitDictLit(*ast.DictLit) any
	VisitComprehension(*ast.Comprehension) any
	VisitLambda(*ast.Lambda) any
	VisitCondExpr(*ast.CondExpr) any
	VisitSubscript(*ast.Subscript) any
	VisitSliceExpr(*ast.SliceExpr) any
	VisitAttribute(*ast.Attribute) any
	VisitAwaitExpr(*ast.AwaitExpr) any
	VisitYieldExpr(*ast.YieldExpr) any
	VisitFString(*ast.FString) any
}

// StmtVisitor computes a result for every statement node kind.
type StmtVisitor interface {
	VisitImportStmt(*ast.ImportStmt) any
	VisitFuncDecl(*ast.FuncDecl) any
	VisitClassDecl(*ast.ClassDecl) any
	VisitAssignStmt(*ast.AssignStmt) any
	VisitAugAssignStmt(*ast.AugAssignStmt) any
	VisitReturnStmt(*ast.ReturnStmt) any
	VisitExprStmt(*ast.ExprStmt) any
	VisitIfStmt(*ast.IfStmt) any
	VisitWhileStmt(*ast.WhileStmt) any
	VisitForStmt(*ast.ForStmt) any
	VisitWithStmt(*ast.WithStmt) any
	VisitTryStmt(*ast.TryStmt) any
	VisitRaiseStmt(*ast.RaiseStmt) any
}

// WalkExpr dispatches e to the matching ExprVisitor method. It panics on
// an unrecognized concrete type, which only happens if internal/ast grows
// a node kind without a matching visitor method — a programming error,
// not a user-facing one.
func WalkExpr(v ExprVisitor, e ast.Expr) any {
	switch n := e.(type) {
	case *ast.Literal:
		return v.VisitLiteral(n)
	case *ast.Name:
		return v.VisitName(n)
	case *ast.BinOp:
		return v.VisitBinOp(n)
	case *ast.UnaryOp:
		return v.VisitUnaryOp(n)
	case *ast.BoolOp:
		return v.VisitBoolOp(n)
	case *ast.Compare:
		return v.VisitCompare(n)
	case *ast.Call:
		return v.VisitCall(n)
	case *ast.ListLit:
		return v.VisitListLit(n)
	case *ast.SetLit:
		return v.VisitSetLit(n)
	case *ast.TupleLit:
		return v.VisitTupleLit(n)
	case *ast.DictLit:
		return v.VisitDictLit(n)
	case *ast.Comprehension:
		return v.VisitComprehension(n)
	case *ast.Lambda:
		return v.VisitLambda(n)
	case *ast.CondExpr:
		return v.VisitCondExpr(n)
	case *ast.Subscript:
		return v.VisitSubscript(n)
	case *ast.SliceExpr:
		return v.VisitSliceExpr(n)
	case *ast.Attribute:
		return v.VisitAttribute(n)
	case *ast.AwaitExpr:
		return v.VisitAwaitExpr(n)
	case *ast.YieldExpr:
		return v.VisitYieldExpr(n)
	case *ast.FString:
		return v.VisitFString(n)
	default:
		panic("astvisit: unhandled expression node")
	}
}

// WalkStmt dispatches s to the matching StmtVisitor method.
func WalkStmt(v StmtVisitor, s ast.Stmt) any {
	switch n := s.(type) {
	case *ast.ImportStmt:
		return v.VisitImportStmt(n)
	case *ast.FuncDecl:
		return v.VisitFuncDecl(n)
	case *ast.ClassDecl:
		return v.VisitClassDecl(n)
	case *ast.AssignStmt:
		return v.VisitAssignStmt(n)
	case *ast.AugAssignStmt:
		return v.VisitAugAssignStmt(n)
	case *ast.ReturnStmt:
		return v.VisitReturnStmt(n)
	case *ast.ExprStmt:
		return v.VisitExprStmt(n)
	case *ast.IfStmt:
		return v.VisitIfStmt(n)
	case *ast.WhileStmt:
		return v.VisitWhileStmt(n)
	case *ast.ForStmt:
		return v.VisitForStmt(n)
	case *ast.WithStmt:
		return v.VisitWithStmt(n)
	case *ast.TryStmt:
		return v.VisitTryStmt(n)
	case *ast.RaiseStmt:
		return v.VisitRaiseStmt(n)
	default:
		panic("astvisit: unhandled statement node")
	}
}

// ChildExprs returns the direct child expressions of e, in evaluation
// order. Used by analyses that only need default bottom-up recursion for
// most node kinds (e.g. the effect analyzer's sub-effect union).
func ChildExprs(e ast.Expr) []ast.Expr {
	switch n := e.(type) {
	case *ast.Literal, *ast.Name:
		return nil
	case *ast.BinOp:
		return []ast.Expr{n.Left, n.Right}
	case *ast.UnaryOp:
		return []ast.Expr{n.X}
	case *ast.BoolOp:
		return n.Operands
	case *ast.Compare:
		return []ast.Expr{n.Left, n.Right}
	case *ast.Call:
		children := append([]ast.Expr{n.Callee}, n.Args...)
		return children
	case *ast.ListLit:
		return n.Elems
	case *ast.SetLit:
		return n.Elems
	case *ast.TupleLit:
		return n.Elems
	case *ast.DictLit:
		children := make([]ast.Expr, 0, len(n.Entries)*2)
		for _, ent := range n.Entries {
			children = append(children, ent.Key, ent.Value)
		}
		return children
	case *ast.Comprehension:
		children := []ast.Expr{}
		if n.KeyElt != nil {
			children = append(children, n.KeyElt)
		}
		children = append(children, n.Elt)
		for _, c := range n.Clauses {
			children = append(children, c.Iter)
			children = append(children, c.Ifs...)
		}
		return children
	case *ast.Lambda:
		return []ast.Expr{n.Body}
	case *ast.CondExpr:
		return []ast.Expr{n.Test, n.Then, n.Else}
	case *ast.Subscript:
		return []ast.Expr{n.X, n.Index}
	case *ast.SliceExpr:
		children := []ast.Expr{n.X}
		for _, e := range []ast.Expr{n.Low, n.High, n.Step} {
			if e != nil {
				children = append(children, e)
			}
		}
		return children
	case *ast.Attribute:
		return []ast.Expr{n.X}
	case *ast.AwaitExpr:
		return []ast.Expr{n.X}
	case *ast.YieldExpr:
		if n.X == nil {
			return nil
		}
		return []ast.Expr{n.X}
	case *ast.FString:
		children := []ast.Expr{}
		for _, p := range n.Parts {
			if p.Expr != nil {
				children = append(children, p.Expr)
			}
		}
		return children
	default:
		return nil
	}
}
