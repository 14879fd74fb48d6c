package parser

import (
	"fmt"

	"github.com/ostnam/treelox/pkg/ast"
	. "github.com/ostnam/treelox/pkg/tokens"
	"github.com/ostnam/treelox/pkg/utils"
)

// A syntax error, located at the offending token.
type Error struct {
	Token Token
	Msg   string
}

// Location context of the error: ` at end` for EOF, ` at 'lexeme'` otherwise.
func (err *Error) Where() string {
	if err.Token.Type == EOF {
		return " at end"
	}
	return fmt.Sprintf(" at '%s'", err.Token.Lexeme)
}

func (err *Error) Error() string {
	return fmt.Sprintf("[line %d] Error%s: %s", err.Token.Line, err.Where(), err.Msg)
}

type parser struct {
	toks []Token
	pos  int
	errs []error
}

// Top-level parsing function. Declarations that fail to parse are left out
// of the result; callers must not execute the result when errors are
// returned.
func Parse(toks []Token) ([]ast.Stmt, []error) {
	p := &parser{toks: withEOF(toks)}
	res := []ast.Stmt{}
	for !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			res = append(res, stmt)
		}
	}
	return res, p.errs
}

func withEOF(toks []Token) []Token {
	if len(toks) > 0 && toks[len(toks)-1].Type == EOF {
		return toks
	}
	line := 1
	if len(toks) > 0 {
		line = toks[len(toks)-1].Line
	}
	return append(toks[:len(toks):len(toks)], Token{Type: EOF, Line: line})
}

// Parses one declaration. On a syntax error the error is recorded, the
// parser skips to the next statement boundary, and nil is returned.
func (p *parser) declaration() ast.Stmt {
	var stmt ast.Stmt
	var err error
	if p.match(Var) {
		stmt, err = p.varDeclaration()
	} else {
		stmt, err = p.statement()
	}
	if err != nil {
		p.errs = append(p.errs, err)
		p.synchronize()
		return nil
	}
	return stmt
}

func (p *parser) varDeclaration() (ast.Stmt, error) {
	name, err := p.consume(Identifier, "variable name")
	if err != nil {
		return nil, err
	}
	var initExpr ast.Expr
	if p.match(Eql) {
		initExpr, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(Semicolon, "';' after variable declaration"); err != nil {
		return nil, err
	}
	return ast.Var{Name: *name, Init: initExpr}, nil
}

func (p *parser) statement() (ast.Stmt, error) {
	switch {
	case p.match(For):
		return p.forStatement()
	case p.match(If):
		return p.ifStatement()
	case p.match(Print):
		return p.printStatement()
	case p.match(While):
		return p.whileStatement()
	case p.match(LeftBrace):
		stmts, err := p.block()
		if err != nil {
			return nil, err
		}
		return ast.Block{Stmts: stmts}, nil
	}
	return p.expressionStatement()
}

// Parses the declarations of a block whose '{' was already consumed.
func (p *parser) block() ([]ast.Stmt, error) {
	stmts := []ast.Stmt{}
	for !p.check(RightBrace) && !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	if _, err := p.consume(RightBrace, "'}' after block"); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *parser) printStatement() (ast.Stmt, error) {
	val, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(Semicolon, "';' after value"); err != nil {
		return nil, err
	}
	return ast.Print{Expr: val}, nil
}

func (p *parser) expressionStatement() (ast.Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(Semicolon, "';' after expression"); err != nil {
		return nil, err
	}
	return ast.ExprStmt{Expr: expr}, nil
}

func (p *parser) ifStatement() (ast.Stmt, error) {
	cond, err := p.parenthesized("'if'")
	if err != nil {
		return nil, err
	}
	then, err := p.statement()
	if err != nil {
		return nil, err
	}
	var els ast.Stmt
	if p.match(Else) {
		els, err = p.statement()
		if err != nil {
			return nil, err
		}
	}
	return ast.If{Cond: cond, Then: then, Else: els}, nil
}

func (p *parser) whileStatement() (ast.Stmt, error) {
	cond, err := p.parenthesized("'while'")
	if err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return ast.While{Cond: cond, Body: body}, nil
}

// Parses `( expression )` following the given keyword.
func (p *parser) parenthesized(keyword string) (ast.Expr, error) {
	if _, err := p.consume(LeftParen, "'(' after "+keyword); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(RightParen, "')' after condition"); err != nil {
		return nil, err
	}
	return cond, nil
}

// Parses a for loop and rewrites it in terms of Block and While:
//
//	for (init; cond; incr) body
//
// becomes
//
//	{ init; while (cond) { body; incr; } }
//
// where a missing cond is the literal true and missing init/incr are left out.
func (p *parser) forStatement() (ast.Stmt, error) {
	if _, err := p.consume(LeftParen, "'(' after 'for'"); err != nil {
		return nil, err
	}

	var initializer ast.Stmt
	var err error
	switch {
	case p.match(Semicolon):
	case p.match(Var):
		initializer, err = p.varDeclaration()
	default:
		initializer, err = p.expressionStatement()
	}
	if err != nil {
		return nil, err
	}

	var cond ast.Expr = ast.Literal{Value: true}
	if !p.check(Semicolon) {
		cond, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(Semicolon, "';' after loop condition"); err != nil {
		return nil, err
	}

	var incr ast.Expr
	if !p.check(RightParen) {
		incr, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(RightParen, "')' after for clauses"); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	if incr != nil {
		body = ast.Block{Stmts: []ast.Stmt{body, ast.ExprStmt{Expr: incr}}}
	}
	body = ast.While{Cond: cond, Body: body}
	if initializer != nil {
		body = ast.Block{Stmts: []ast.Stmt{initializer, body}}
	}
	return body, nil
}

func (p *parser) expression() (ast.Expr, error) {
	return p.assignment()
}

func (p *parser) assignment() (ast.Expr, error) {
	expr, err := p.or()
	if err != nil {
		return nil, err
	}
	if !p.match(Eql) {
		return expr, nil
	}
	equals := p.previous()
	val, err := p.assignment()
	if err != nil {
		return nil, err
	}
	if variable, ok := expr.(ast.Variable); ok {
		return ast.Assign{Name: variable.Name, Value: val}, nil
	}
	// Reported without unwinding: the parser is not confused.
	p.errs = append(p.errs, &Error{Token: equals, Msg: "Invalid assignment target."})
	return expr, nil
}

func (p *parser) or() (ast.Expr, error) {
	return p.logical(p.and, Or)
}

func (p *parser) and() (ast.Expr, error) {
	return p.logical(p.equality, And)
}

func (p *parser) logical(next func() (ast.Expr, error), op TokType) (ast.Expr, error) {
	expr, err := next()
	if err != nil {
		return nil, err
	}
	for p.match(op) {
		opTok := p.previous()
		right, err := next()
		if err != nil {
			return nil, err
		}
		expr = ast.Logical{Left: expr, Op: opTok, Right: right}
	}
	return expr, nil
}

func (p *parser) equality() (ast.Expr, error) {
	return p.binary(p.comparison, BangEql, EqlEql)
}

func (p *parser) comparison() (ast.Expr, error) {
	return p.binary(p.term, Greater, GreaterEql, Less, LessEql)
}

func (p *parser) term() (ast.Expr, error) {
	return p.binary(p.factor, Minus, Plus)
}

func (p *parser) factor() (ast.Expr, error) {
	return p.binary(p.unary, Slash, Star)
}

// Parses a left-associative chain of operands produced by next, joined by
// any of ops.
func (p *parser) binary(next func() (ast.Expr, error), ops ...TokType) (ast.Expr, error) {
	expr, err := next()
	if err != nil {
		return nil, err
	}
	for p.match(ops...) {
		op := p.previous()
		right, err := next()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

func (p *parser) unary() (ast.Expr, error) {
	if p.match(Bang, Minus) {
		op := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return ast.Unary{Op: op, Right: right}, nil
	}
	return p.primary()
}

func (p *parser) primary() (ast.Expr, error) {
	switch {
	case p.match(False):
		return ast.Literal{Value: false}, nil
	case p.match(True):
		return ast.Literal{Value: true}, nil
	case p.match(Nil):
		return ast.Literal{Value: nil}, nil
	case p.match(Num, Str):
		return ast.Literal{Value: p.previous().Literal}, nil
	case p.match(Identifier):
		return ast.Variable{Name: p.previous()}, nil
	case p.match(LeftParen):
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(RightParen, "')' after expression"); err != nil {
			return nil, err
		}
		return ast.Grouping{Expr: expr}, nil
	}
	return nil, p.errorAtPeek("expression")
}

// Advances the parsing state until the probable beginning of the next
// statement, or the end of the token stream.
func (p *parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Type == Semicolon {
			return
		}
		if utils.PeekMatchesTokType(p.toks, p.pos, Class, Fun, Var, For, If, While, Print, Return) {
			return
		}
		p.advance()
	}
}

func (p *parser) consume(type_ TokType, expected string) (*Token, error) {
	if p.check(type_) {
		return p.advance(), nil
	}
	return nil, p.errorAtPeek(expected)
}

func (p *parser) errorAtPeek(expected string) error {
	tok := p.peek()
	got := tok.Type.String()
	if tok.Type != EOF {
		got = fmt.Sprintf("'%s'", tok.Lexeme)
	}
	return &Error{Token: tok, Msg: fmt.Sprintf("expect %s, got %s", expected, got)}
}

func (p *parser) match(types ...TokType) bool {
	if p.isAtEnd() {
		return false
	}
	return utils.MatchTokenType(p.toks, &p.pos, types...)
}

func (p *parser) check(type_ TokType) bool {
	return !p.isAtEnd() && utils.PeekMatchesTokType(p.toks, p.pos, type_)
}

// Never moves past the EOF token.
func (p *parser) advance() *Token {
	if p.isAtEnd() {
		return utils.Peek(p.toks, p.pos)
	}
	return utils.Advance(p.toks, &p.pos)
}

func (p *parser) peek() Token {
	return *utils.Peek(p.toks, p.pos)
}

func (p *parser) previous() Token {
	return *utils.Previous(p.toks, p.pos)
}

func (p *parser) isAtEnd() bool {
	return utils.PeekMatchesTokType(p.toks, p.pos, EOF)
}
