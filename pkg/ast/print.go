package ast

import (
	"fmt"
	"io"
	"strings"
)

// Pretty prints statements as an indented tree.
func PrettyPrint(w io.Writer, stmts []Stmt) {
	for _, stmt := range stmts {
		prettyPrintStmt(w, stmt, 0)
	}
}

const indentLvl = 3

func prefix(w io.Writer, indent int) {
	if indent == 0 {
		return
	}
	fmt.Fprint(w, strings.Repeat(" ", indent-1)+"| ")
}

func prettyPrintStmt(w io.Writer, node Stmt, indent int) {
	prefix(w, indent)
	switch node := node.(type) {
	case ExprStmt:
		fmt.Fprintf(w, "ExprStmt\n")
		prettyPrintExpr(w, node.Expr, indent+indentLvl)
	case Print:
		fmt.Fprintf(w, "Print\n")
		prettyPrintExpr(w, node.Expr, indent+indentLvl)
	case Var:
		if node.Init == nil {
			fmt.Fprintf(w, "Var %s\n", node.Name.Lexeme)
			return
		}
		fmt.Fprintf(w, "Var %s =\n", node.Name.Lexeme)
		prettyPrintExpr(w, node.Init, indent+indentLvl)
	case Block:
		fmt.Fprintf(w, "Block\n")
		for _, stmt := range node.Stmts {
			prettyPrintStmt(w, stmt, indent+indentLvl)
		}
	case If:
		fmt.Fprintf(w, "If\n")
		prettyPrintExpr(w, node.Cond, indent+indentLvl)
		prettyPrintStmt(w, node.Then, indent+indentLvl)
		if node.Else != nil {
			prefix(w, indent)
			fmt.Fprintf(w, "Else\n")
			prettyPrintStmt(w, node.Else, indent+indentLvl)
		}
	case While:
		fmt.Fprintf(w, "While\n")
		prettyPrintExpr(w, node.Cond, indent+indentLvl)
		prettyPrintStmt(w, node.Body, indent+indentLvl)
	default:
		fmt.Fprintf(w, "Error pretty-printing AST, unknown statement type: %T\n", node)
	}
}

func prettyPrintExpr(w io.Writer, node Expr, indent int) {
	prefix(w, indent)
	switch node := node.(type) {
	case Literal:
		switch val := node.Value.(type) {
		case nil:
			fmt.Fprintf(w, "Nil\n")
		case string:
			fmt.Fprintf(w, "Str: %q\n", val)
		case float64:
			fmt.Fprintf(w, "Num: %g\n", val)
		case bool:
			fmt.Fprintf(w, "Bool: %t\n", val)
		default:
			fmt.Fprintf(w, "Literal: %v\n", val)
		}
	case Grouping:
		fmt.Fprintf(w, "Grouping\n")
		prettyPrintExpr(w, node.Expr, indent+indentLvl)
	case Unary:
		fmt.Fprintf(w, "Unary: %s\n", node.Op.Lexeme)
		prettyPrintExpr(w, node.Right, indent+indentLvl)
	case Binary:
		fmt.Fprintf(w, "Binary: %s\n", node.Op.Lexeme)
		prettyPrintExpr(w, node.Left, indent+indentLvl)
		prettyPrintExpr(w, node.Right, indent+indentLvl)
	case Logical:
		fmt.Fprintf(w, "Logical: %s\n", node.Op.Lexeme)
		prettyPrintExpr(w, node.Left, indent+indentLvl)
		prettyPrintExpr(w, node.Right, indent+indentLvl)
	case Variable:
		fmt.Fprintf(w, "Variable: %s\n", node.Name.Lexeme)
	case Assign:
		fmt.Fprintf(w, "Assign: %s\n", node.Name.Lexeme)
		prettyPrintExpr(w, node.Value, indent+indentLvl)
	default:
		fmt.Fprintf(w, "Error pretty-printing AST, unknown expression type: %T\n", node)
	}
}
