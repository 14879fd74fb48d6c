package lox

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ostnam/treelox/pkg/ast"
	"github.com/ostnam/treelox/pkg/eval"
	"github.com/ostnam/treelox/pkg/parser"
	"github.com/ostnam/treelox/pkg/scanner"
)

// Outcome of a single Run.
type Outcome uint8

const (
	OutcomeOK Outcome = iota
	// Lexical or syntax errors; nothing was executed.
	OutcomeSyntaxError
	// Execution stopped on a runtime error.
	OutcomeRuntimeError
)

func (self Outcome) String() string {
	return []string{"ok", "syntax error", "runtime error"}[self]
}

// Options controls a Session.
type Options struct {
	// Out receives the output of print statements (default: discarded).
	Out io.Writer
	// Reporter receives errors (default: a WriterReporter on stderr).
	Reporter Reporter
	// Logger receives debug traces (default: discarded).
	Logger *slog.Logger
	// DumpTokens writes the scanned tokens to DebugOut before parsing.
	DumpTokens bool
	// DumpAST writes the parsed tree to DebugOut before execution.
	DumpAST bool
	// DebugOut receives the dumps (default: Out).
	DebugOut io.Writer
}

func (o *Options) normalize() Options {
	var out Options
	if o != nil {
		out = *o
	}
	if out.Out == nil {
		out.Out = io.Discard
	}
	if out.Reporter == nil {
		out.Reporter = &WriterReporter{W: os.Stderr}
	}
	if out.DebugOut == nil {
		out.DebugOut = out.Out
	}
	return out
}

// An interpreter session: one global scope plus the error flags of the
// last runs. Not safe for concurrent use; independent sessions share
// nothing.
type Session struct {
	opts        Options
	interpreter *eval.Interpreter

	HadError        bool
	HadRuntimeError bool
}

func NewSession(opts *Options) *Session {
	o := opts.normalize()
	return &Session{
		opts:        o,
		interpreter: eval.NewInterpreter(o.Out, o.Logger),
	}
}

// The global scope, shared by every Run of this session.
func (s *Session) Globals() *eval.Env {
	return s.interpreter.Globals()
}

// Clears the error flags. Bindings are kept.
func (s *Session) Reset() {
	s.HadError = false
	s.HadRuntimeError = false
}

// Scans, parses and executes src. Lexical and syntax errors are all
// reported and prevent execution; a runtime error is reported and stops
// the remaining statements.
func (s *Session) Run(src string) Outcome {
	toks, scanErrs := scanner.Scan([]rune(src))
	for _, err := range scanErrs {
		s.reportStatic(err)
	}
	if s.opts.DumpTokens {
		fmt.Fprintln(s.opts.DebugOut, "Tokens scanned:")
		for _, tok := range toks {
			fmt.Fprintf(s.opts.DebugOut, "  %#v\n", tok)
		}
	}

	stmts, parseErrs := parser.Parse(toks)
	for _, err := range parseErrs {
		s.reportStatic(err)
	}
	if s.HadError {
		return OutcomeSyntaxError
	}
	if s.opts.DumpAST {
		fmt.Fprintln(s.opts.DebugOut, "AST parsed:")
		ast.PrettyPrint(s.opts.DebugOut, stmts)
	}

	err := s.interpreter.Execute(stmts)
	if err == nil {
		return OutcomeOK
	}
	s.HadRuntimeError = true
	var rtErr *eval.RuntimeError
	if errors.As(err, &rtErr) {
		s.opts.Reporter.RuntimeError(rtErr)
	} else {
		s.opts.Reporter.Report(0, "", err.Error())
	}
	return OutcomeRuntimeError
}

func (s *Session) reportStatic(err error) {
	s.HadError = true
	var scanErr *scanner.Error
	var parseErr *parser.Error
	switch {
	case errors.As(err, &scanErr):
		s.opts.Reporter.Report(scanErr.Line, "", scanErr.Msg)
	case errors.As(err, &parseErr):
		s.opts.Reporter.Report(parseErr.Token.Line, parseErr.Where(), parseErr.Msg)
	default:
		s.opts.Reporter.Report(0, "", err.Error())
	}
}
