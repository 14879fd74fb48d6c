package scanner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	. "github.com/ostnam/treelox/pkg/tokens"
	"github.com/ostnam/treelox/pkg/utils"
)

// A lexical error. Scanning continues past it.
type Error struct {
	Line int
	Msg  string
}

func (err *Error) Error() string {
	return fmt.Sprintf("[line %d] Error: %s", err.Line, err.Msg)
}

// Scans the whole input. Every lexical error is returned, in source order,
// alongside the tokens that could be scanned; the token slice always ends
// with an EOF token.
func Scan(input []rune) ([]Token, []error) {
	pos := 0
	lineNumber := 1
	toks := make([]Token, 0)
	errs := []error{}
	for !utils.IsAtEnd(input, pos) {
		tok, err := scanToken(input, &pos, &lineNumber)
		if err != nil {
			errs = append(errs, err)
		}
		if tok != nil {
			toks = append(toks, *tok)
		}
	}
	toks = append(
		toks,
		Token{
			Type:   EOF,
			Lexeme: "",
			Line:   lineNumber,
		},
	)
	return toks, errs
}

func scanToken(str []rune, pos *int, lineNumber *int) (*Token, error) {
	start := *pos
	c := utils.Advance(str, pos)
	if c == nil {
		return nil, nil
	}
	switch *c {
	case '(':
		return mkToken(LeftParen, str, start, *pos, *lineNumber), nil
	case ')':
		return mkToken(RightParen, str, start, *pos, *lineNumber), nil
	case '{':
		return mkToken(LeftBrace, str, start, *pos, *lineNumber), nil
	case '}':
		return mkToken(RightBrace, str, start, *pos, *lineNumber), nil
	case ',':
		return mkToken(Comma, str, start, *pos, *lineNumber), nil
	case '.':
		return mkToken(Dot, str, start, *pos, *lineNumber), nil
	case '-':
		return mkToken(Minus, str, start, *pos, *lineNumber), nil
	case '+':
		return mkToken(Plus, str, start, *pos, *lineNumber), nil
	case ';':
		return mkToken(Semicolon, str, start, *pos, *lineNumber), nil
	case '*':
		return mkToken(Star, str, start, *pos, *lineNumber), nil
	case '!':
		return mkToken(pick(str, pos, BangEql, Bang), str, start, *pos, *lineNumber), nil
	case '=':
		return mkToken(pick(str, pos, EqlEql, Eql), str, start, *pos, *lineNumber), nil
	case '>':
		return mkToken(pick(str, pos, GreaterEql, Greater), str, start, *pos, *lineNumber), nil
	case '<':
		return mkToken(pick(str, pos, LessEql, Less), str, start, *pos, *lineNumber), nil
	case '/':
		if utils.Match(str, pos, '/') {
			consumeRestOfLine(str, pos)
			return nil, nil
		}
		return mkToken(Slash, str, start, *pos, *lineNumber), nil
	case '"':
		return scanStrLiteral(str, pos, start, lineNumber)
	case ' ', '\t', '\r':
		return nil, nil
	case '\n':
		*lineNumber++
		return nil, nil
	default:
		if isDigit(*c) {
			return scanNumLiteral(str, pos, start, *lineNumber)
		}
		if unicode.IsLetter(*c) {
			return scanIdentifier(str, pos, start, *lineNumber), nil
		}
		return nil, &Error{Line: *lineNumber, Msg: "invalid input"}
	}
}

// Returns the compound type if the next rune is '=' (consuming it), the
// single-char type otherwise.
func pick(str []rune, pos *int, compound TokType, single TokType) TokType {
	if utils.Match(str, pos, '=') {
		return compound
	}
	return single
}

func scanStrLiteral(str []rune, pos *int, start int, line *int) (*Token, error) {
	for {
		char := utils.Advance(str, pos)
		if char == nil {
			break
		}
		switch *char {
		case '"':
			tok := mkToken(Str, str, start, *pos, *line)
			tok.Literal = string(str[start+1 : *pos-1])
			return tok, nil
		case '\n':
			*line++
		}
	}
	return nil, &Error{Line: *line, Msg: "Unterminated string."}
}

func scanNumLiteral(str []rune, pos *int, start int, line int) (*Token, error) {
	consumeDigits(str, pos)
	// A fractional part needs at least one digit after the dot.
	dot := utils.Peek(str, *pos)
	next := utils.Peek(str, *pos+1)
	if dot != nil && *dot == '.' && next != nil && isDigit(*next) {
		*pos++
		consumeDigits(str, pos)
	}
	tok := mkToken(Num, str, start, *pos, line)
	// Out of range literals keep the ±Inf or 0 ParseFloat rounds them to.
	val, err := strconv.ParseFloat(tok.Lexeme, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil, &Error{Line: line, Msg: fmt.Sprintf("invalid number literal %s", tok.Lexeme)}
	}
	tok.Literal = val
	return tok, nil
}

func consumeDigits(str []rune, pos *int) {
	for c := utils.Peek(str, *pos); c != nil && isDigit(*c); c = utils.Peek(str, *pos) {
		*pos++
	}
}

func scanIdentifier(str []rune, pos *int, start int, line int) *Token {
	for c := utils.Peek(str, *pos); c != nil && (unicode.IsLetter(*c) || unicode.IsDigit(*c)); c = utils.Peek(str, *pos) {
		*pos++
	}
	tok := mkToken(Identifier, str, start, *pos, line)
	if kw, ok := Keywords[strings.ToUpper(tok.Lexeme)]; ok {
		tok.Type = kw
	}
	return tok
}

func mkToken(type_ TokType, str []rune, start int, pos int, line int) *Token {
	return &Token{
		Type:   type_,
		Lexeme: string(str[start:pos]),
		Line:   line,
	}
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

// Skips to the next newline, leaving it unconsumed so the line counter
// still sees it.
func consumeRestOfLine(str []rune, pos *int) {
	for ; *pos < len(str); *pos++ {
		if str[*pos] == '\n' {
			return
		}
	}
}
