package tokens

import "fmt"

type Token struct {
	Type   TokType
	Lexeme string
	// Decoded value of Num (float64) and Str (string) tokens, nil otherwise.
	Literal any
	Line    int
}

func (tok Token) String() string {
	return fmt.Sprintf("%s %q %v (line %d)", tok.Type, tok.Lexeme, tok.Literal, tok.Line)
}

type TokType int8

const (
	// single char tokens
	LeftParen TokType = iota
	RightParen
	LeftBrace
	RightBrace
	Comma
	Dot
	Minus
	Plus
	Semicolon
	Slash
	Star
	// 1 or 2 char tokens
	Bang
	BangEql
	Eql
	EqlEql
	Greater
	GreaterEql
	Less
	LessEql
	// literals
	Identifier
	Str
	Num
	// keywords
	And
	Class
	Else
	False
	Fun
	For
	If
	Nil
	Or
	Print
	Return
	Super
	This
	True
	Var
	While
	EOF
)

var tokTypeNames = [...]string{
	LeftParen:  "'('",
	RightParen: "')'",
	LeftBrace:  "'{'",
	RightBrace: "'}'",
	Comma:      "','",
	Dot:        "'.'",
	Minus:      "'-'",
	Plus:       "'+'",
	Semicolon:  "';'",
	Slash:      "'/'",
	Star:       "'*'",
	Bang:       "'!'",
	BangEql:    "'!='",
	Eql:        "'='",
	EqlEql:     "'=='",
	Greater:    "'>'",
	GreaterEql: "'>='",
	Less:       "'<'",
	LessEql:    "'<='",
	Identifier: "identifier",
	Str:        "string",
	Num:        "number",
	And:        "'and'",
	Class:      "'class'",
	Else:       "'else'",
	False:      "'false'",
	Fun:        "'fun'",
	For:        "'for'",
	If:         "'if'",
	Nil:        "'nil'",
	Or:         "'or'",
	Print:      "'print'",
	Return:     "'return'",
	Super:      "'super'",
	This:       "'this'",
	True:       "'true'",
	Var:        "'var'",
	While:      "'while'",
	EOF:        "end of file",
}

func (self TokType) String() string {
	if self < 0 || int(self) >= len(tokTypeNames) {
		return fmt.Sprintf("TokType(%d)", int8(self))
	}
	return tokTypeNames[self]
}

// Reserved words, keyed by their uppercased spelling. Lookups must uppercase
// the lexeme first.
var Keywords = map[string]TokType{
	"AND":    And,
	"CLASS":  Class,
	"ELSE":   Else,
	"FALSE":  False,
	"FOR":    For,
	"FUN":    Fun,
	"IF":     If,
	"NIL":    Nil,
	"OR":     Or,
	"PRINT":  Print,
	"RETURN": Return,
	"SUPER":  Super,
	"THIS":   This,
	"TRUE":   True,
	"VAR":    Var,
	"WHILE":  While,
}
