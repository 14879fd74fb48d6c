package utils

import (
	"github.com/ostnam/treelox/pkg/tokens"
)

// Returns a pointer to the element at pos, or nil past the end.
func Peek[T any](str []T, pos int) *T {
	if pos >= 0 && pos < len(str) {
		return &str[pos]
	}
	return nil
}

// Returns the element just before pos, or nil if there is none.
func Previous[T any](str []T, pos int) *T {
	return Peek(str, pos-1)
}

// Returns the element at *pos and moves past it. Returns nil at the end
// without moving.
func Advance[T any](str []T, pos *int) *T {
	if *pos >= len(str) || *pos < 0 {
		return nil
	}
	res := &str[*pos]
	*pos++
	return res
}

func IsAtEnd[T any](str []T, pos int) bool {
	return pos >= len(str)
}

// Consumes the element at *pos if it equals one of vals.
func Match[T comparable](str []T, pos *int, vals ...T) bool {
	if *pos >= len(str) {
		return false
	}
	for _, val := range vals {
		if str[*pos] == val {
			*pos++
			return true
		}
	}
	return false
}

// Consumes the token at *pos if its type is one of vals.
func MatchTokenType(toks []tokens.Token, pos *int, vals ...tokens.TokType) bool {
	if PeekMatchesTokType(toks, *pos, vals...) {
		*pos++
		return true
	}
	return false
}

func PeekMatchesTokType(toks []tokens.Token, pos int, vals ...tokens.TokType) bool {
	peeked := Peek(toks, pos)
	if peeked == nil {
		return false
	}
	for _, val := range vals {
		if val == peeked.Type {
			return true
		}
	}
	return false
}
