package frontend

import (
	"fmt"
	"strings"

	"github.com/GriffinCanCode/gradualtype/internal/ast"
)

// Parse tokenizes and parses src into an *ast.Module rooted at path,
// the stand-in for the external parser contract. A nil Module
// with a non-nil error means the source failed to parse; callers
// (cmd/gtc, internal/analyzer) turn that into a synthetic diagnostic
// rather than treating it as a panic.
func Parse(path string, src []byte) (*ast.Module, error) {
	toks, err := lex(string(src))
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	body, err := p.parseBlockTopLevel()
	if err != nil {
		return nil, err
	}
	return &ast.Module{Path: path, File: path, Body: body, Sp: ast.Span{Start: 0, End: ast.Pos(len(src))}}, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) cur() token  { return p.toks[p.pos] }
func (p *parser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) is(kind tokenKind, text string) bool {
	t := p.cur()
	return t.kind == kind && (text == "" || t.text == text)
}

func (p *parser) accept(kind tokenKind, text string) (token, bool) {
	if p.is(kind, text) {
		return p.advance(), true
	}
	return token{}, false
}

func (p *parser) expect(kind tokenKind, text string) (token, error) {
	if t, ok := p.accept(kind, text); ok {
		return t, nil
	}
	return token{}, fmt.Errorf("frontend: expected %q at byte %d, got %q", text, p.cur().start, p.cur().text)
}

func (p *parser) skipNewlines() {
	for p.is(tokNewline, "") {
		p.advance()
	}
}

func spanOf(start, end token) ast.Span {
	return ast.Span{Start: ast.Pos(start.start), End: ast.Pos(end.end)}
}

// ---- Statements ----

func (p *parser) parseBlockTopLevel() ([]ast.Stmt, error) {
	var body []ast.Stmt
	p.skipNewlines()
	for !p.is(tokEOF, "") {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		body = append(body, s)
		p.skipNewlines()
	}
	return body, nil
}

// parseIndentedBlock consumes `:` NEWLINE INDENT stmt* DEDENT, or a
// single inline statement after `:` when no block follows.
func (p *parser) parseIndentedBlock() ([]ast.Stmt, error) {
	if _, err := p.expect(tokOp, ":"); err != nil {
		return nil, err
	}
	if !p.is(tokNewline, "") {
		s, err := p.parseSimpleStmt()
		if err != nil {
			return nil, err
		}
		return []ast.Stmt{s}, nil
	}
	p.skipNewlines()
	if _, err := p.expect(tokIndent, ""); err != nil {
		return nil, err
	}
	var body []ast.Stmt
	for !p.is(tokDedent, "") && !p.is(tokEOF, "") {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		body = append(body, s)
		p.skipNewlines()
	}
	p.accept(tokDedent, "")
	return body, nil
}

func (p *parser) parseStmt() (ast.Stmt, error) {
	switch {
	case p.is(tokKeyword, "def"):
		return p.parseFuncDecl(false)
	case p.is(tokKeyword, "class"):
		return p.parseClassDecl()
	case p.is(tokKeyword, "if"):
		return p.parseIf()
	case p.is(tokKeyword, "while"):
		return p.parseWhile()
	case p.is(tokKeyword, "for"):
		return p.parseFor()
	case p.is(tokKeyword, "import"):
		return p.parseImport()
	default:
		return p.parseSimpleStmt()
	}
}

func (p *parser) parseSimpleStmt() (ast.Stmt, error) {
	switch {
	case p.is(tokKeyword, "return"):
		return p.parseReturn()
	case p.is(tokKeyword, "raise"):
		return p.parseRaise()
	case p.is(tokKeyword, "pass"):
		t := p.advance()
		return &ast.ExprStmt{X: &ast.Literal{Kind: ast.LitNone, Raw: "None", Sp: spanOf(t, t)}, Sp: spanOf(t, t)}, nil
	default:
		return p.parseExprOrAssign()
	}
}

func (p *parser) parseFuncDecl(isAsync bool) (ast.Stmt, error) {
	start := p.advance() // 'def'
	name, err := p.expect(tokIdent, "")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokOp, "("); err != nil {
		return nil, err
	}
	var params []ast.Param
	for !p.is(tokOp, ")") {
		pname, err := p.expect(tokIdent, "")
		if err != nil {
			return nil, err
		}
		var ann ast.TypeExpr
		if _, ok := p.accept(tokOp, ":"); ok {
			ann, err = p.parseTypeExpr()
			if err != nil {
				return nil, err
			}
		}
		params = append(params, ast.Param{Name: pname.text, Annotation: ann})
		if _, ok := p.accept(tokOp, ","); !ok {
			break
		}
	}
	if _, err := p.expect(tokOp, ")"); err != nil {
		return nil, err
	}
	var ret ast.TypeExpr
	if _, ok := p.accept(tokOp, "->"); ok {
		var err error
		ret, err = p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
	}
	body, err := p.parseIndentedBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FuncDecl{Name: name.text, Params: params, ReturnAnn: ret, Body: body, IsAsync: isAsync, Sp: spanOf(start, name)}, nil
}

func (p *parser) parseClassDecl() (ast.Stmt, error) {
	start := p.advance() // 'class'
	name, err := p.expect(tokIdent, "")
	if err != nil {
		return nil, err
	}
	var bases []string
	if _, ok := p.accept(tokOp, "("); ok {
		for !p.is(tokOp, ")") {
			b, err := p.expect(tokIdent, "")
			if err != nil {
				return nil, err
			}
			bases = append(bases, b.text)
			if _, ok := p.accept(tokOp, ","); !ok {
				break
			}
		}
		if _, err := p.expect(tokOp, ")"); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(tokOp, ":"); err != nil {
		return nil, err
	}
	p.skipNewlines()
	if _, err := p.expect(tokIndent, ""); err != nil {
		return nil, err
	}
	var methods []*ast.FuncDecl
	fields := map[string]ast.TypeExpr{}
	for !p.is(tokDedent, "") && !p.is(tokEOF, "") {
		if p.is(tokKeyword, "def") {
			m, err := p.parseFuncDecl(false)
			if err != nil {
				return nil, err
			}
			methods = append(methods, m.(*ast.FuncDecl))
		} else if p.is(tokIdent, "") {
			fname := p.advance()
			if _, err := p.expect(tokOp, ":"); err != nil {
				return nil, err
			}
			ann, err := p.parseTypeExpr()
			if err != nil {
				return nil, err
			}
			fields[fname.text] = ann
			p.skipNewlines()
		} else {
			p.advance()
		}
		p.skipNewlines()
	}
	p.accept(tokDedent, "")
	return &ast.ClassDecl{Name: name.text, Bases: bases, Methods: methods, Fields: fields, Sp: spanOf(start, name)}, nil
}

func (p *parser) parseIf() (ast.Stmt, error) {
	start := p.advance() // 'if'
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	then, err := p.parseIndentedBlock()
	if err != nil {
		return nil, err
	}
	var els []ast.Stmt
	if p.is(tokKeyword, "elif") {
		p.toks[p.pos].text = "if" // reinterpret elif as nested if
		s, err := p.parseIf()
		if err != nil {
			return nil, err
		}
		els = []ast.Stmt{s}
	} else if _, ok := p.accept(tokKeyword, "else"); ok {
		els, err = p.parseIndentedBlock()
		if err != nil {
			return nil, err
		}
	}
	return &ast.IfStmt{Cond: cond, Then: then, Else: els, Sp: spanOf(start, start)}, nil
}

func (p *parser) parseWhile() (ast.Stmt, error) {
	start := p.advance()
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseIndentedBlock()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Cond: cond, Body: body, Sp: spanOf(start, start)}, nil
}

func (p *parser) parseFor() (ast.Stmt, error) {
	start := p.advance()
	target, err := p.expect(tokIdent, "")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokKeyword, "in"); err != nil {
		return nil, err
	}
	iter, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseIndentedBlock()
	if err != nil {
		return nil, err
	}
	return &ast.ForStmt{TargetName: target.text, Iter: iter, Body: body, Sp: spanOf(start, start)}, nil
}

func (p *parser) parseImport() (ast.Stmt, error) {
	start := p.advance()
	path, err := p.expect(tokIdent, "")
	if err != nil {
		return nil, err
	}
	sb := strings.Builder{}
	sb.WriteString(path.text)
	for {
		if _, ok := p.accept(tokOp, "."); !ok {
			break
		}
		part, err := p.expect(tokIdent, "")
		if err != nil {
			return nil, err
		}
		sb.WriteByte('.')
		sb.WriteString(part.text)
	}
	return &ast.ImportStmt{Path: sb.String(), Sp: spanOf(start, start)}, nil
}

func (p *parser) parseReturn() (ast.Stmt, error) {
	start := p.advance()
	if p.is(tokNewline, "") || p.is(tokDedent, "") {
		return &ast.ReturnStmt{Sp: spanOf(start, start)}, nil
	}
	v, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{Value: v, Sp: spanOf(start, start)}, nil
}

func (p *parser) parseRaise() (ast.Stmt, error) {
	start := p.advance()
	if p.is(tokNewline, "") || p.is(tokDedent, "") {
		return &ast.RaiseStmt{Sp: spanOf(start, start)}, nil
	}
	v, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.RaiseStmt{X: v, Sp: spanOf(start, start)}, nil
}

var augOps = map[string]string{"+=": "+", "-=": "-", "*=": "*", "/=": "/"}

func (p *parser) parseExprOrAssign() (ast.Stmt, error) {
	startTok := p.cur()
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, ok := p.accept(tokOp, "="); ok {
		name, ok := e.(*ast.Name)
		if !ok {
			return nil, fmt.Errorf("frontend: invalid assignment target at byte %d", startTok.start)
		}
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.AssignStmt{Target: name.Ident, Value: v, Sp: spanOf(startTok, startTok)}, nil
	}
	for op := range augOps {
		if t, ok := p.accept(tokOp, op); ok {
			name, ok := e.(*ast.Name)
			if !ok {
				return nil, fmt.Errorf("frontend: invalid assignment target at byte %d", t.start)
			}
			v, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			return &ast.AugAssignStmt{Target: name.Ident, Op: augOps[op], Value: v, Sp: spanOf(startTok, startTok)}, nil
		}
	}
	return &ast.ExprStmt{X: e, Sp: spanOf(startTok, startTok)}, nil
}

// ---- Type expressions ----

func (p *parser) parseTypeExpr() (ast.TypeExpr, error) {
	name, err := p.expect(tokIdent, "")
	if err != nil {
		if kw, ok := p.accept(tokKeyword, "None"); ok {
			return &ast.NamedTypeExpr{Name: "None", Sp: spanOf(kw, kw)}, nil
		}
		return nil, err
	}
	var args []ast.TypeExpr
	if _, ok := p.accept(tokOp, "["); ok {
		for !p.is(tokOp, "]") {
			a, err := p.parseTypeExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if _, ok := p.accept(tokOp, ","); !ok {
				break
			}
		}
		if _, err := p.expect(tokOp, "]"); err != nil {
			return nil, err
		}
	}
	base := ast.NamedTypeExpr{Name: name.text, Args: args, Sp: spanOf(name, name)}
	if _, ok := p.accept(tokOp, "("); ok {
		var rargs []string
		for !p.is(tokOp, ")") {
			lit, err := p.expect(tokInt, "")
			if err != nil {
				return nil, err
			}
			rargs = append(rargs, lit.text)
			if _, ok := p.accept(tokOp, ","); !ok {
				break
			}
		}
		if _, err := p.expect(tokOp, ")"); err != nil {
			return nil, err
		}
		return &ast.RefinementTypeExpr{Base: base, Args: rargs, Sp: base.Sp}, nil
	}
	if _, ok := p.accept(tokOp, "!"); ok {
		if _, err := p.expect(tokOp, "{"); err != nil {
			return nil, err
		}
		var effs []string
		for !p.is(tokOp, "}") {
			e, err := p.expect(tokIdent, "")
			if err != nil {
				return nil, err
			}
			effs = append(effs, e.text)
			if _, ok := p.accept(tokOp, ","); !ok {
				break
			}
		}
		if _, err := p.expect(tokOp, "}"); err != nil {
			return nil, err
		}
		return &ast.EffectTypeExpr{Base: &base, Effects: effs, Sp: base.Sp}, nil
	}
	return &base, nil
}

// ---- Expressions (precedence climbing) ----

func (p *parser) parseExpr() (ast.Expr, error) {
	if p.is(tokKeyword, "lambda") {
		return p.parseLambda()
	}
	return p.parseTernary()
}

func (p *parser) parseLambda() (ast.Expr, error) {
	start := p.advance()
	var params []string
	for p.is(tokIdent, "") {
		params = append(params, p.advance().text)
		if _, ok := p.accept(tokOp, ","); !ok {
			break
		}
	}
	if _, err := p.expect(tokOp, ":"); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Lambda{Params: params, Body: body, Sp: spanOf(start, start)}, nil
}

func (p *parser) parseTernary() (ast.Expr, error) {
	thenExpr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if _, ok := p.accept(tokKeyword, "if"); ok {
		cond, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokKeyword, "else"); err != nil {
			return nil, err
		}
		elseExpr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.CondExpr{Test: cond, Then: thenExpr, Else: elseExpr, Sp: thenExpr.Span()}, nil
	}
	return thenExpr, nil
}

func (p *parser) parseOr() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	operands := []ast.Expr{left}
	for {
		if _, ok := p.accept(tokKeyword, "or"); !ok {
			break
		}
		r, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		operands = append(operands, r)
	}
	if len(operands) == 1 {
		return left, nil
	}
	return &ast.BoolOp{Op: "or", Operands: operands, Sp: left.Span()}, nil
}

func (p *parser) parseAnd() (ast.Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	operands := []ast.Expr{left}
	for {
		if _, ok := p.accept(tokKeyword, "and"); !ok {
			break
		}
		r, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		operands = append(operands, r)
	}
	if len(operands) == 1 {
		return left, nil
	}
	return &ast.BoolOp{Op: "and", Operands: operands, Sp: left.Span()}, nil
}

func (p *parser) parseNot() (ast.Expr, error) {
	if t, ok := p.accept(tokKeyword, "not"); ok {
		x, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: "not", X: x, Sp: spanOf(t, t)}, nil
	}
	return p.parseComparison()
}

var compareOps = map[string]bool{"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true}

func (p *parser) parseComparison() (ast.Expr, error) {
	left, err := p.parseBitwise()
	if err != nil {
		return nil, err
	}
	for compareOps[p.cur().text] && p.cur().kind == tokOp {
		op := p.advance().text
		right, err := p.parseBitwise()
		if err != nil {
			return nil, err
		}
		left = &ast.Compare{Op: op, Left: left, Right: right, Sp: left.Span()}
	}
	return left, nil
}

var bitwiseOps = map[string]bool{"&": true, "|": true, "^": true, "<<": true, ">>": true}

func (p *parser) parseBitwise() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for bitwiseOps[p.cur().text] && p.cur().kind == tokOp {
		op := p.advance().text
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Op: op, Left: left, Right: right, Sp: left.Span()}
	}
	return left, nil
}

func (p *parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.is(tokOp, "+") || p.is(tokOp, "-") {
		op := p.advance().text
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Op: op, Left: left, Right: right, Sp: left.Span()}
	}
	return left, nil
}

func (p *parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.is(tokOp, "*") || p.is(tokOp, "/") || p.is(tokOp, "%") || p.is(tokOp, "//") {
		op := p.advance().text
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Op: op, Left: left, Right: right, Sp: left.Span()}
	}
	return left, nil
}

func (p *parser) parseUnary() (ast.Expr, error) {
	if p.is(tokOp, "+") || p.is(tokOp, "-") || p.is(tokOp, "~") {
		t := p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: t.text, X: x, Sp: spanOf(t, t)}, nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (ast.Expr, error) {
	e, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.is(tokOp, "."):
			p.advance()
			name, err := p.expect(tokIdent, "")
			if err != nil {
				return nil, err
			}
			e = &ast.Attribute{X: e, Attr: name.text, Sp: e.Span()}
		case p.is(tokOp, "("):
			p.advance()
			var args []ast.Expr
			for !p.is(tokOp, ")") {
				a, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, a)
				if _, ok := p.accept(tokOp, ","); !ok {
					break
				}
			}
			if _, err := p.expect(tokOp, ")"); err != nil {
				return nil, err
			}
			e = &ast.Call{Callee: e, Args: args, Sp: e.Span()}
		case p.is(tokOp, "["):
			p.advance()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tokOp, "]"); err != nil {
				return nil, err
			}
			e = &ast.Subscript{X: e, Index: idx, Sp: e.Span()}
		default:
			return e, nil
		}
	}
}

func (p *parser) parseAtom() (ast.Expr, error) {
	t := p.cur()
	switch {
	case t.kind == tokInt:
		p.advance()
		return &ast.Literal{Kind: ast.LitInt, Raw: t.text, Sp: spanOf(t, t)}, nil
	case t.kind == tokFloat:
		p.advance()
		return &ast.Literal{Kind: ast.LitFloat, Raw: t.text, Sp: spanOf(t, t)}, nil
	case t.kind == tokString:
		p.advance()
		return &ast.Literal{Kind: ast.LitStr, Raw: t.text, Sp: spanOf(t, t)}, nil
	case t.kind == tokKeyword && (t.text == "True" || t.text == "False"):
		p.advance()
		return &ast.Literal{Kind: ast.LitBool, Raw: t.text, Sp: spanOf(t, t)}, nil
	case t.kind == tokKeyword && t.text == "None":
		p.advance()
		return &ast.Literal{Kind: ast.LitNone, Raw: "None", Sp: spanOf(t, t)}, nil
	case t.kind == tokIdent:
		p.advance()
		return &ast.Name{Ident: t.text, Sp: spanOf(t, t)}, nil
	case p.is(tokOp, "("):
		p.advance()
		first, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, ok := p.accept(tokOp, ","); ok {
			elems := []ast.Expr{first}
			for !p.is(tokOp, ")") {
				e, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				elems = append(elems, e)
				if _, ok := p.accept(tokOp, ","); !ok {
					break
				}
			}
			if _, err := p.expect(tokOp, ")"); err != nil {
				return nil, err
			}
			return &ast.TupleLit{Elems: elems, Sp: spanOf(t, t)}, nil
		}
		if _, err := p.expect(tokOp, ")"); err != nil {
			return nil, err
		}
		return first, nil
	case p.is(tokOp, "["):
		p.advance()
		var elems []ast.Expr
		for !p.is(tokOp, "]") {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			if _, ok := p.accept(tokOp, ","); !ok {
				break
			}
		}
		if _, err := p.expect(tokOp, "]"); err != nil {
			return nil, err
		}
		return &ast.ListLit{Elems: elems, Sp: spanOf(t, t)}, nil
	case p.is(tokOp, "{"):
		p.advance()
		if p.is(tokOp, "}") {
			p.advance()
			return &ast.DictLit{Sp: spanOf(t, t)}, nil
		}
		first, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, ok := p.accept(tokOp, ":"); ok {
			val, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			entries := []ast.DictEntry{{Key: first, Value: val}}
			for {
				if _, ok := p.accept(tokOp, ","); !ok {
					break
				}
				if p.is(tokOp, "}") {
					break
				}
				k, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				if _, err := p.expect(tokOp, ":"); err != nil {
					return nil, err
				}
				v, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				entries = append(entries, ast.DictEntry{Key: k, Value: v})
			}
			if _, err := p.expect(tokOp, "}"); err != nil {
				return nil, err
			}
			return &ast.DictLit{Entries: entries, Sp: spanOf(t, t)}, nil
		}
		elems := []ast.Expr{first}
		for {
			if _, ok := p.accept(tokOp, ","); !ok {
				break
			}
			if p.is(tokOp, "}") {
				break
			}
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
		if _, err := p.expect(tokOp, "}"); err != nil {
			return nil, err
		}
		return &ast.SetLit{Elems: elems, Sp: spanOf(t, t)}, nil
	default:
		return nil, fmt.Errorf("frontend: unexpected token %q at byte %d", t.text, t.start)
	}
}
