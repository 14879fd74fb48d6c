package lox

import (
	"fmt"
	"io"

	"github.com/ostnam/treelox/pkg/eval"
)

// Receives the errors of a session. Implementations decide how they are
// displayed.
type Reporter interface {
	// Lexical and syntax errors. where is empty or a location such as
	// " at 'x'" / " at end".
	Report(line int, where string, msg string)
	RuntimeError(err *eval.RuntimeError)
}

// Writes errors as text lines, e.g. `[line 3] Error at ';': msg`.
type WriterReporter struct {
	W io.Writer
}

func (r *WriterReporter) Report(line int, where string, msg string) {
	fmt.Fprintf(r.W, "[line %d] Error%s: %s\n", line, where, msg)
}

func (r *WriterReporter) RuntimeError(err *eval.RuntimeError) {
	fmt.Fprintln(r.W, err.Error())
}
