package parser

import (
	"testing"

	"github.com/tw1x/tw1x/ast"
)

func TestParseExprPrecedence(t *testing.T) {
	expr, err := ParseExpr("1 + 2 * 3")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	bin, ok := expr.(ast.BinaryExpr)
	if !ok || bin.Op != "+" {
		t.Fatalf("expected top-level +, got %+v", expr)
	}
	right, ok := bin.Right.(ast.BinaryExpr)
	if !ok || right.Op != "*" {
		t.Fatalf("expected * nested on the right, got %+v", bin.Right)
	}
}

func TestParseExprWordAliases(t *testing.T) {
	expr, err := ParseExpr("$a is 1 and $b gt 2")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	bin, ok := expr.(ast.BinaryExpr)
	if !ok || bin.Op != "&&" {
		t.Fatalf("expected 'and' to normalize to &&, got %+v", expr)
	}
	left, ok := bin.Left.(ast.BinaryExpr)
	if !ok || left.Op != "==" {
		t.Fatalf("expected 'is' to normalize to ==, got %+v", bin.Left)
	}
	right, ok := bin.Right.(ast.BinaryExpr)
	if !ok || right.Op != ">" {
		t.Fatalf("expected 'gt' to normalize to >, got %+v", bin.Right)
	}
}

func TestParseExprNot(t *testing.T) {
	expr, err := ParseExpr("not $flag")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	un, ok := expr.(ast.UnaryExpr)
	if !ok || un.Op != "!" {
		t.Fatalf("expected 'not' to become unary !, got %+v", expr)
	}
}

func TestParseExprVarAndString(t *testing.T) {
	expr, err := ParseExpr(`$name == "Alice"`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	bin, ok := expr.(ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected binary expr, got %+v", expr)
	}
	vr, ok := bin.Left.(ast.VarRef)
	if !ok || vr.Name != "name" {
		t.Fatalf("expected VarRef(name), got %+v", bin.Left)
	}
	lit, ok := bin.Right.(ast.StringLit)
	if !ok || lit.Value != "Alice" {
		t.Fatalf("expected StringLit(Alice), got %+v", bin.Right)
	}
}

func TestParseExprCall(t *testing.T) {
	expr, err := ParseExpr("random(1, 6)")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	call, ok := expr.(ast.CallExpr)
	if !ok || call.Name != "random" || len(call.Args) != 2 {
		t.Fatalf("expected random(1,6) call, got %+v", expr)
	}
}

func TestParseExprUnterminatedString(t *testing.T) {
	if _, err := ParseExpr(`"unterminated`); err == nil {
		t.Fatalf("expected error for unterminated string literal")
	}
}

func TestParseExprListSplitsOnTopLevelCommas(t *testing.T) {
	exprs, err := ParseExprList(`1, "a, b", 3`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(exprs) != 3 {
		t.Fatalf("expected 3 expressions, got %d", len(exprs))
	}
	lit, ok := exprs[1].(ast.StringLit)
	if !ok || lit.Value != "a, b" {
		t.Fatalf("expected comma inside quoted string to be preserved, got %+v", exprs[1])
	}
}
