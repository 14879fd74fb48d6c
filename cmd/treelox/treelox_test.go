package main

import (
	"flag"
	"io"
	"testing"

	"github.com/ostnam/treelox/pkg/config"
)

func TestDebugDumps(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		debug      config.Debug
		wantTokens bool
		wantAST    bool
	}{
		{"config only", nil, config.Debug{Tokens: true, AST: true}, true, true},
		{"flag enables", []string{"-tokens"}, config.Debug{}, true, false},
		{"flag disables", []string{"-tokens=false"}, config.Debug{Tokens: true, AST: true}, false, true},
		{"both flags", []string{"-tokens=false", "-ast=false"}, config.Debug{Tokens: true, AST: true}, false, false},
	}
	for _, tt := range tests {
		fs := flag.NewFlagSet("treelox", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		fs.Bool("tokens", false, "")
		fs.Bool("ast", false, "")
		if err := fs.Parse(tt.args); err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		tokens, ast := debugDumps(fs, tt.debug)
		if tokens != tt.wantTokens || ast != tt.wantAST {
			t.Errorf("%s: want (%v, %v), got (%v, %v)", tt.name, tt.wantTokens, tt.wantAST, tokens, ast)
		}
	}
}
