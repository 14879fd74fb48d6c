package eval

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/ostnam/treelox/pkg/ast"
	"github.com/ostnam/treelox/pkg/parser"
	"github.com/ostnam/treelox/pkg/scanner"
	"github.com/ostnam/treelox/pkg/tokens"
)

func parse(t *testing.T, src string) []ast.Stmt {
	t.Helper()
	toks, errs := scanner.Scan([]rune(src))
	if len(errs) > 0 {
		t.Fatalf("Scan(%q) errors: %v", src, errs)
	}
	stmts, errs := parser.Parse(toks)
	if len(errs) > 0 {
		t.Fatalf("Parse(%q) errors: %v", src, errs)
	}
	return stmts
}

// Runs src in a fresh interpreter, returning the printed lines.
func run(t *testing.T, src string) ([]string, error) {
	t.Helper()
	var out bytes.Buffer
	err := NewInterpreter(&out, nil).Execute(parse(t, src))
	text := strings.TrimSuffix(out.String(), "\n")
	if text == "" {
		return nil, err
	}
	return strings.Split(text, "\n"), err
}

func eval(t *testing.T, src string) (Value, error) {
	t.Helper()
	stmts := parse(t, src+";")
	return NewInterpreter(nil, nil).Evaluate(stmts[0].(ast.ExprStmt).Expr)
}

func evalOK(t *testing.T, src string) Value {
	t.Helper()
	val, err := eval(t, src)
	if err != nil {
		t.Fatalf("%s: unexpected error %v", src, err)
	}
	return val
}

func TestExpressions(t *testing.T) {
	tests := []struct {
		src  string
		want Value
	}{
		{"1 + 2", Num(3)},
		{`"1" + "2"`, Str("12")},
		{"10 - 4 - 3", Num(3)},
		{"2 * 3 + 4", Num(10)},
		{"2 * (3 + 4)", Num(14)},
		{"7 / 2", Num(3.5)},
		{"-3", Num(-3)},
		{"--3", Num(3)},
		{"!nil", Bool(true)},
		{"!0", Bool(false)},
		{`!""`, Bool(false)},
		{"!!true", Bool(true)},
		{"1 < 2", Bool(true)},
		{"2 <= 2", Bool(true)},
		{"1 > 2", Bool(false)},
		{"3 >= 4", Bool(false)},
		{"1 == 1", Bool(true)},
		{`1 == "1"`, Bool(false)},
		{"nil == nil", Bool(true)},
		{"nil == false", Bool(false)},
		{`"a" != "b"`, Bool(true)},
		{"true == true", Bool(true)},
		{`false or "x"`, Str("x")},
		{"true and nil", Nil{}},
		{"nil or false", Bool(false)},
		{`1 and "y"`, Str("y")},
		{`"x" or undefinedName`, Str("x")},
		{"false and undefinedName", Bool(false)},
		{"nil", Nil{}},
		{"0/0 == 0/0", Bool(false)},
		{"0/0 != 0/0", Bool(true)},
		{"1/0 == 1/0", Bool(true)},
	}
	for _, tt := range tests {
		if got := evalOK(t, tt.src); got != tt.want {
			t.Errorf("%s: want %#v, got %#v", tt.src, tt.want, got)
		}
	}
}

func TestGroupingIsTransparent(t *testing.T) {
	for _, src := range []string{"1 + 2 * 3", `"a" + "b"`, "!nil", "1 < 2 == true", "nil or 4"} {
		plain := evalOK(t, src)
		for _, wrapped := range []string{"(" + src + ")", "((" + src + "))"} {
			if got := evalOK(t, wrapped); got != plain {
				t.Errorf("%s: want %#v, got %#v", wrapped, plain, got)
			}
		}
	}
}

func TestTypeErrors(t *testing.T) {
	tests := []struct {
		src string
		msg string
	}{
		{`1 + "2"`, "Operands must be two numbers or two strings."},
		{"nil + nil", "Operands must be two numbers or two strings."},
		{`"a" - "b"`, "Operands must be numbers."},
		{"true * 2", "Operands must be numbers."},
		{"1 / nil", "Operands must be numbers."},
		{`"a" < "b"`, "Operands must be numbers."},
		{`-"a"`, "Operand must be a number."},
	}
	for _, tt := range tests {
		_, err := eval(t, tt.src)
		var rtErr *RuntimeError
		if !errors.As(err, &rtErr) {
			t.Errorf("%s: expected a runtime error, got %v", tt.src, err)
			continue
		}
		if rtErr.Kind != TypeError || !strings.HasPrefix(rtErr.Msg, tt.msg) {
			t.Errorf("%s: unexpected error %s %q", tt.src, rtErr.Kind, rtErr.Msg)
		}
		if rtErr.Token.Line != 1 {
			t.Errorf("%s: error on line %d", tt.src, rtErr.Token.Line)
		}
	}
}

func TestDivisionByZero(t *testing.T) {
	val := evalOK(t, "1 / 0")
	if !math.IsInf(float64(val.(Num)), 1) {
		t.Fatalf("want +Inf, got %v", val)
	}
}

func TestPrintRendering(t *testing.T) {
	lines, err := run(t, `print 1; print 2.5; print 3.0; print -0.5; print nil; print true; print "hi"; print 10 / 4;`)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"1", "2.5", "3", "-0.5", "nil", "true", "hi", "2.5"}
	if strings.Join(lines, ",") != strings.Join(want, ",") {
		t.Fatalf("want %v, got %v", want, lines)
	}
}

func TestPrintNonFinite(t *testing.T) {
	lines, err := run(t, `print 1/0; print -1/0; print 0/0; print 1000000000000000000000;`)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Infinity", "-Infinity", "NaN", "1000000000000000000000"}
	if strings.Join(lines, ",") != strings.Join(want, ",") {
		t.Fatalf("want %v, got %v", want, lines)
	}
}

func TestScoping(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"shadowing", "var a = 1; { var a = 2; print a; } print a;", []string{"2", "1"}},
		{"assign outer", "var a = 1; { a = 2; } print a;", []string{"2"}},
		{"nested", "var a = 1; { var b = 2; { a = a + b; print a; } } print a;", []string{"3", "3"}},
		{"redeclare", "var a = 1; var a = 2; print a;", []string{"2"}},
		{"uninitialized", "var a; print a;", []string{"nil"}},
		{"initializer sees outer", "var a = 1; { var a = a + 1; print a; } print a;", []string{"2", "1"}},
		{"chained assign", "var a; var b; a = b = 3; print a; print b;", []string{"3", "3"}},
		{"assign value", "var a = 1; print a = 5;", []string{"5"}},
	}
	for _, tt := range tests {
		lines, err := run(t, tt.src)
		if err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if strings.Join(lines, ",") != strings.Join(tt.want, ",") {
			t.Errorf("%s: want %v, got %v", tt.name, tt.want, lines)
		}
	}
}

func TestControlFlow(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"for", "for (var i = 0; i < 3; i = i + 1) print i;", []string{"0", "1", "2"}},
		{"for scope", "var i = 10; for (var i = 0; i < 1; i = i + 1) print i; print i;", []string{"0", "10"}},
		{"for no init", "var i = 0; for (; i < 2; i = i + 1) print i;", []string{"0", "1"}},
		{"for no incr", "for (var i = 0; i < 2;) { print i; i = i + 1; }", []string{"0", "1"}},
		{"while", "var n = 3; while (n > 0) { print n; n = n - 1; }", []string{"3", "2", "1"}},
		{"while false", "while (false) print 1;", nil},
		{"if", "if (1) print \"then\"; else print \"else\";", []string{"then"}},
		{"else", "if (nil) print \"then\"; else print \"else\";", []string{"else"}},
		{"if no else", "if (false) print 1; print 2;", []string{"2"}},
		{"dangling else", "if (true) if (false) print 1; else print 2;", []string{"2"}},
		{"fib", `
var a = 0;
var b = 1;
for (var i = 0; i < 6; i = i + 1) {
  print a;
  var tmp = a;
  a = b;
  b = tmp + b;
}`, []string{"0", "1", "1", "2", "3", "5"}},
	}
	for _, tt := range tests {
		lines, err := run(t, tt.src)
		if err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if strings.Join(lines, ",") != strings.Join(tt.want, ",") {
			t.Errorf("%s: want %v, got %v", tt.name, tt.want, lines)
		}
	}
}

func TestUndefinedVariable(t *testing.T) {
	for _, src := range []string{"print undefinedName;", "undefinedName = 1;", "{ var x = 1; } print x;"} {
		_, err := run(t, src)
		var rtErr *RuntimeError
		if !errors.As(err, &rtErr) || rtErr.Kind != UndefinedVariable {
			t.Errorf("%s: expected an undefined variable error, got %v", src, err)
		}
	}
}

func TestAssignDoesNotDefine(t *testing.T) {
	in := NewInterpreter(nil, nil)
	if err := in.Execute(parse(t, "{ x = 1; }")); err == nil {
		t.Fatal("expected an error")
	}
	if _, err := in.Globals().Get(tokens.Token{Type: tokens.Identifier, Lexeme: "x"}); err == nil {
		t.Fatal("assignment created a binding")
	}
}

func TestRuntimeErrorStopsExecution(t *testing.T) {
	var out bytes.Buffer
	in := NewInterpreter(&out, nil)
	err := in.Execute(parse(t, `var a = 1; print a; a = 2; print -"x"; print 3;`))
	if err == nil {
		t.Fatal("expected an error")
	}
	if out.String() != "1\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
	// Effects before the failure are kept.
	val, _ := in.Globals().Get(tokens.Token{Lexeme: "a"})
	if val != Num(2) {
		t.Fatalf("want a = 2, got %v", val)
	}
	if got := err.Error(); got != "Operand must be a number. Got [string] for '-'.\n[line 1]" {
		t.Fatalf("unexpected rendering %q", got)
	}
}

func TestErrorInsideBlockReleasesScope(t *testing.T) {
	in := NewInterpreter(nil, nil)
	err := in.Execute(parse(t, "var a = 1; { var a = 2; { var b = nil + 1; } }"))
	if err == nil {
		t.Fatal("expected an error")
	}
	if in.Globals().Depth() != 0 {
		t.Fatalf("scope leaked: depth %d", in.Globals().Depth())
	}
	val, _ := in.Globals().Get(tokens.Token{Lexeme: "a"})
	if val != Num(1) {
		t.Fatalf("want a = 1 after the failed block, got %v", val)
	}
}

func TestErrorInsideLoopStopsIt(t *testing.T) {
	lines, err := run(t, "var i = 0; while (true) { print i; i = i + 1; if (i == 2) i = i + nil; }")
	if err == nil {
		t.Fatal("expected an error")
	}
	if strings.Join(lines, ",") != "0,1" {
		t.Fatalf("unexpected output %v", lines)
	}
}

func TestStatePersistsAcrossExecute(t *testing.T) {
	var out bytes.Buffer
	in := NewInterpreter(&out, nil)
	if err := in.Execute(parse(t, "var a = 1;")); err != nil {
		t.Fatal(err)
	}
	if err := in.Execute(parse(t, "print undefinedName;")); err == nil {
		t.Fatal("expected an error")
	}
	if err := in.Execute(parse(t, "a = a + 1; print a;")); err != nil {
		t.Fatal(err)
	}
	if out.String() != "2\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestNilStatementsAreSkipped(t *testing.T) {
	var out bytes.Buffer
	stmts := []ast.Stmt{nil, ast.Print{Expr: ast.Literal{Value: 1.0}}, nil}
	if err := NewInterpreter(&out, nil).Execute(stmts); err != nil {
		t.Fatal(err)
	}
	if out.String() != "1\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}
