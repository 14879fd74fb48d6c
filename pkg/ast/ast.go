package ast

import (
	"github.com/ostnam/treelox/pkg/tokens"
)

// Interface of every expression node. The set of implementations is closed:
// consumers type-switch over the variants below.
type Expr interface {
	exprNode()
}

// Interface of every statement node, closed like Expr.
type Stmt interface {
	stmtNode()
}

// AST node for literal values: nil, bool, float64 or string.
type Literal struct {
	Value any
}

// AST node for expressions between parens
type Grouping struct {
	Expr Expr
}

// AST node for prefix operations: ! and -
type Unary struct {
	Op    tokens.Token
	Right Expr
}

// AST node for arithmetic, comparison and equality operations
type Binary struct {
	Left  Expr
	Op    tokens.Token
	Right Expr
}

// AST node for `and` / `or`. Kept apart from Binary because the right
// operand is only evaluated on demand.
type Logical struct {
	Left  Expr
	Op    tokens.Token
	Right Expr
}

// A variable read, ie:
// x
type Variable struct {
	Name tokens.Token
}

// AST node for setting a new value to an existing variable, ie:
// x = 11
type Assign struct {
	Name  tokens.Token
	Value Expr
}

func (Literal) exprNode()  {}
func (Grouping) exprNode() {}
func (Unary) exprNode()    {}
func (Binary) exprNode()   {}
func (Logical) exprNode()  {}
func (Variable) exprNode() {}
func (Assign) exprNode()   {}

// An expression evaluated for its side effects.
type ExprStmt struct {
	Expr Expr
}

type Print struct {
	Expr Expr
}

// AST node for declaring a variable, ie:
// var x = 10;
// Init is nil for `var x;`.
type Var struct {
	Name tokens.Token
	Init Expr
}

type Block struct {
	Stmts []Stmt
}

// Else is nil when there is no else branch.
type If struct {
	Cond Expr
	Then Stmt
	Else Stmt
}

type While struct {
	Cond Expr
	Body Stmt
}

func (ExprStmt) stmtNode() {}
func (Print) stmtNode()    {}
func (Var) stmtNode()      {}
func (Block) stmtNode()    {}
func (If) stmtNode()       {}
func (While) stmtNode()    {}
