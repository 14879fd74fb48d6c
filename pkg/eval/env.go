package eval

import (
	"fmt"

	"github.com/ostnam/treelox/pkg/tokens"
)

// The chain of lexical scopes, stored as a stack of frames indexed by scope
// depth. Frame 0 is the global scope and is never popped.
type Env struct {
	frames []map[string]Value
}

func NewEnv() *Env {
	return &Env{
		frames: []map[string]Value{{}},
	}
}

// Number of frames above the global one.
func (env *Env) Depth() int {
	return len(env.frames) - 1
}

// Binds name in the innermost scope, shadowing any outer binding.
func (env *Env) Define(name string, val Value) {
	env.frames[len(env.frames)-1][name] = val
}

// Reads the innermost binding of name.
func (env *Env) Get(name tokens.Token) (Value, error) {
	frame := env.lookup(name.Lexeme)
	if frame == nil {
		return nil, undefinedVariable(name)
	}
	return frame[name.Lexeme], nil
}

// Only updates a pre-existing variable, in the innermost scope defining it.
func (env *Env) Assign(name tokens.Token, val Value) error {
	frame := env.lookup(name.Lexeme)
	if frame == nil {
		return undefinedVariable(name)
	}
	frame[name.Lexeme] = val
	return nil
}

func (env *Env) lookup(name string) map[string]Value {
	for i := len(env.frames) - 1; i >= 0; i-- {
		if _, ok := env.frames[i][name]; ok {
			return env.frames[i]
		}
	}
	return nil
}

func (env *Env) push() {
	env.frames = append(env.frames, map[string]Value{})
}

func (env *Env) pop() {
	if len(env.frames) == 1 {
		panic("BUG: popping the global scope")
	}
	env.frames[len(env.frames)-1] = nil
	env.frames = env.frames[:len(env.frames)-1]
}

func undefinedVariable(name tokens.Token) error {
	return &RuntimeError{
		Kind:  UndefinedVariable,
		Token: name,
		Msg:   fmt.Sprintf("Undefined variable '%s'.", name.Lexeme),
	}
}
