package eval

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ostnam/treelox/pkg/ast"
	"github.com/ostnam/treelox/pkg/tokens"
)

type RuntimeError struct {
	Kind  RuntimeErrorKind
	Token tokens.Token
	Msg   string
}

func (self *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]", self.Msg, self.Token.Line)
}

type RuntimeErrorKind uint8

const (
	TypeError RuntimeErrorKind = iota
	UndefinedVariable
)

func (self RuntimeErrorKind) String() string {
	return []string{"TypeError", "UndefinedVariable"}[self]
}

// Tree-walking interpreter. The environment persists across Execute calls,
// so successive calls share the global scope.
type Interpreter struct {
	env    *Env
	out    io.Writer
	logger *slog.Logger
}

// out receives one line per executed print statement. A nil logger
// discards records.
func NewInterpreter(out io.Writer, logger *slog.Logger) *Interpreter {
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = slog.New(discardHandler{})
	}
	return &Interpreter{
		env:    NewEnv(),
		out:    out,
		logger: logger,
	}
}

func (in *Interpreter) Globals() *Env {
	return in.env
}

// Executes the statements in order. The first runtime error stops
// execution and is returned; effects of the statements that already ran
// are kept.
func (in *Interpreter) Execute(stmts []ast.Stmt) error {
	for _, stmt := range stmts {
		if err := in.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) execute(node ast.Stmt) error {
	switch node := node.(type) {
	case ast.ExprStmt:
		_, err := in.Evaluate(node.Expr)
		return err

	case ast.Print:
		val, err := in.Evaluate(node.Expr)
		if err != nil {
			return err
		}
		fmt.Fprintln(in.out, val.String())
		return nil

	case ast.Var:
		var val Value = Nil{}
		if node.Init != nil {
			evald, err := in.Evaluate(node.Init)
			if err != nil {
				return err
			}
			val = evald
		}
		in.env.Define(node.Name.Lexeme, val)
		return nil

	case ast.Block:
		return in.executeBlock(node.Stmts)

	case ast.If:
		cond, err := in.Evaluate(node.Cond)
		if err != nil {
			return err
		}
		if isTruthy(cond) {
			return in.execute(node.Then)
		}
		if node.Else != nil {
			return in.execute(node.Else)
		}
		return nil

	case ast.While:
		for {
			cond, err := in.Evaluate(node.Cond)
			if err != nil {
				return err
			}
			if !isTruthy(cond) {
				return nil
			}
			if err := in.execute(node.Body); err != nil {
				return err
			}
		}

	case nil:
		return nil

	default:
		return fmt.Errorf("BUG: unmatched statement type during execution: %T", node)
	}
}

// Runs stmts in a fresh scope nested in the current one. The scope is
// dropped on every exit path.
func (in *Interpreter) executeBlock(stmts []ast.Stmt) error {
	in.env.push()
	defer in.env.pop()
	in.logger.Debug("enter block", slog.Int("depth", in.env.Depth()), slog.Int("stmts", len(stmts)))
	for _, stmt := range stmts {
		if err := in.execute(stmt); err != nil {
			in.logger.Debug("leave block on error", slog.Int("depth", in.env.Depth()))
			return err
		}
	}
	return nil
}

func (in *Interpreter) Evaluate(node ast.Expr) (Value, error) {
	switch node := node.(type) {
	case ast.Literal:
		return fromLiteral(node.Value)

	case ast.Grouping:
		return in.Evaluate(node.Expr)

	case ast.Unary:
		right, err := in.Evaluate(node.Right)
		if err != nil {
			return nil, err
		}
		switch node.Op.Type {
		case tokens.Bang:
			return Bool(!isTruthy(right)), nil
		case tokens.Minus:
			num, ok := right.(Num)
			if !ok {
				return nil, typeError(node.Op, "Operand must be a number.", right)
			}
			return -num, nil
		default:
			return nil, fmt.Errorf("BUG: Unhandled unary operator in eval: %s", node.Op.Type)
		}

	case ast.Binary:
		lhs, err := in.Evaluate(node.Left)
		if err != nil {
			return nil, err
		}
		rhs, err := in.Evaluate(node.Right)
		if err != nil {
			return nil, err
		}
		return binop(node.Op, lhs, rhs)

	case ast.Logical:
		lhs, err := in.Evaluate(node.Left)
		if err != nil {
			return nil, err
		}
		if node.Op.Type == tokens.Or {
			if isTruthy(lhs) {
				return lhs, nil
			}
		} else if !isTruthy(lhs) {
			return lhs, nil
		}
		return in.Evaluate(node.Right)

	case ast.Variable:
		return in.env.Get(node.Name)

	case ast.Assign:
		val, err := in.Evaluate(node.Value)
		if err != nil {
			return nil, err
		}
		if err := in.env.Assign(node.Name, val); err != nil {
			return nil, err
		}
		return val, nil

	default:
		return nil, fmt.Errorf("BUG: unmatched AST node type during evaluation: %T", node)
	}
}

func binop(op tokens.Token, lhs Value, rhs Value) (Value, error) {
	switch op.Type {
	case tokens.EqlEql:
		return Bool(isEql(lhs, rhs)), nil
	case tokens.BangEql:
		return Bool(!isEql(lhs, rhs)), nil
	case tokens.Plus:
		if l, ok := lhs.(Num); ok {
			if r, ok := rhs.(Num); ok {
				return l + r, nil
			}
		}
		if l, ok := lhs.(Str); ok {
			if r, ok := rhs.(Str); ok {
				return l + r, nil
			}
		}
		return nil, typeError(op, "Operands must be two numbers or two strings.", lhs, rhs)
	}

	l, lok := lhs.(Num)
	r, rok := rhs.(Num)
	if !lok || !rok {
		return nil, typeError(op, "Operands must be numbers.", lhs, rhs)
	}
	switch op.Type {
	case tokens.Minus:
		return l - r, nil
	case tokens.Star:
		return l * r, nil
	case tokens.Slash:
		return l / r, nil
	case tokens.Greater:
		return Bool(l > r), nil
	case tokens.GreaterEql:
		return Bool(l >= r), nil
	case tokens.Less:
		return Bool(l < r), nil
	case tokens.LessEql:
		return Bool(l <= r), nil
	default:
		return nil, fmt.Errorf("BUG: Unimplemented binary operator: %s", op.Type)
	}
}

func typeError(op tokens.Token, msg string, operands ...Value) error {
	kinds := make([]string, 0, len(operands))
	for _, operand := range operands {
		kinds = append(kinds, typeName(operand))
	}
	return &RuntimeError{
		Kind:  TypeError,
		Token: op,
		Msg:   fmt.Sprintf("%s Got %v for '%s'.", msg, kinds, op.Lexeme),
	}
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h discardHandler) WithGroup(string) slog.Handler           { return h }
