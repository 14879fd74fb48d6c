package eval

import (
	"fmt"
	"math"
	"strconv"
)

// A runtime value: one of Nil, Bool, Num or Str.
type Value interface {
	// Rendering used by print.
	String() string
	value()
}

type Nil struct{}

type Bool bool

type Num float64

type Str string

func (Nil) value()  {}
func (Bool) value() {}
func (Num) value()  {}
func (Str) value()  {}

func (Nil) String() string { return "nil" }

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

// Integral numbers render without a fractional part.
func (n Num) String() string {
	switch {
	case math.IsInf(float64(n), 1):
		return "Infinity"
	case math.IsInf(float64(n), -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

func (s Str) String() string { return string(s) }

// Converts the value held by an ast.Literal.
func fromLiteral(lit any) (Value, error) {
	switch lit := lit.(type) {
	case nil:
		return Nil{}, nil
	case bool:
		return Bool(lit), nil
	case float64:
		return Num(lit), nil
	case string:
		return Str(lit), nil
	default:
		return nil, fmt.Errorf("BUG: unsupported literal type %T", lit)
	}
}

// Only nil and false are falsy.
func isTruthy(val Value) bool {
	switch val := val.(type) {
	case Nil:
		return false
	case Bool:
		return bool(val)
	default:
		return true
	}
}

// Values of different kinds are never equal. All kinds are comparable, so
// interface equality gives value equality.
func isEql(lhs Value, rhs Value) bool {
	return lhs == rhs
}

// Name of the value's kind, for error messages.
func typeName(val Value) string {
	switch val.(type) {
	case Nil:
		return "nil"
	case Bool:
		return "bool"
	case Num:
		return "number"
	case Str:
		return "string"
	default:
		return fmt.Sprintf("%T", val)
	}
}
