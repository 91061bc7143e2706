package runtime

import (
	"math"
	"math/rand"

	"github.com/tw1x/tw1x/ast"
	"github.com/tw1x/tw1x/parser"
	"github.com/tw1x/tw1x/value"
)

// Evaluator evaluates an expression AST against a Store.
// Grounded on the teacher's runtime/vm_expr.go evalExpr/evalBinary
// dispatch, generalized from ERA's int-only truthy-as-1/0 convention to
// real typed value.Value (bool/float included).
type Evaluator struct {
	Store *Store
	Rand  *rand.Rand
}

// NewEvaluator builds an Evaluator with an injected entropy source, so
// either/random are reproducible in tests.
func NewEvaluator(store *Store, rng *rand.Rand) *Evaluator {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Evaluator{Store: store, Rand: rng}
}

// Eval evaluates expr, recording any failure into issues rather than
// returning an error. A malformed or ill-typed sub-expression yields
// integer zero at that node and the evaluation continues.
func (e *Evaluator) Eval(expr ast.Expr, issues *[]Issue) value.Value {
	switch n := expr.(type) {
	case ast.IntLit:
		return value.Int(n.Value)
	case ast.FloatLit:
		return value.Float(n.Value)
	case ast.BoolLit:
		return value.Bool(n.Value)
	case ast.StringLit:
		return value.Str(n.Value)
	case ast.VarRef:
		return e.Store.Get(n.Name)
	case ast.UnaryExpr:
		return e.evalUnary(n, issues)
	case ast.BinaryExpr:
		return e.evalBinary(n, issues)
	case ast.CallExpr:
		return e.evalCall(n, issues)
	default:
		addIssue(issues, ExpressionError, 0, "unsupported expression node %T", n)
		return value.Zero()
	}
}

func (e *Evaluator) evalUnary(n ast.UnaryExpr, issues *[]Issue) value.Value {
	switch n.Op {
	case "-":
		v := e.Eval(n.Expr, issues)
		if v.IsFloat() {
			return value.Float(-v.Float64())
		}
		return value.Int(-v.Int64())
	case "!":
		v := e.Eval(n.Expr, issues)
		return value.Bool(!v.Truthy())
	default:
		addIssue(issues, ExpressionError, 0, "unknown unary operator %q", n.Op)
		return value.Zero()
	}
}

func (e *Evaluator) evalBinary(n ast.BinaryExpr, issues *[]Issue) value.Value {
	// Logical operators short-circuit on truthiness.
	switch n.Op {
	case "&&":
		left := e.Eval(n.Left, issues)
		if !left.Truthy() {
			return value.Bool(false)
		}
		return value.Bool(e.Eval(n.Right, issues).Truthy())
	case "||":
		left := e.Eval(n.Left, issues)
		if left.Truthy() {
			return value.Bool(true)
		}
		return value.Bool(e.Eval(n.Right, issues).Truthy())
	}

	left := e.Eval(n.Left, issues)
	right := e.Eval(n.Right, issues)

	switch n.Op {
	case "==":
		return value.Bool(value.Equal(left, right))
	case "!=":
		return value.Bool(!value.Equal(left, right))
	case ">", ">=", "<", "<=":
		if left.IsString() || right.IsString() {
			if left.IsString() && right.IsString() {
				return compareStrings(n.Op, left.String(), right.String())
			}
			addIssue(issues, TypeError, 0, "operator %q applied to incompatible types", n.Op)
			return value.Zero()
		}
		return compareNumbers(n.Op, left.Float64(), right.Float64())
	default:
		return e.ApplyArith(n.Op, left, right, issues)
	}
}

// ApplyArith applies one of +, -, *, %, / to already-evaluated operands.
// It implements the type semantics shared by the expression evaluator's
// BinaryExpr case and the macro interpreter's compound `<<set>>` operators
// (+=, -=, *=, /=).
func (e *Evaluator) ApplyArith(op string, left, right value.Value, issues *[]Issue) value.Value {
	switch op {
	case "+":
		if left.IsString() || right.IsString() {
			return value.Str(left.String() + right.String())
		}
		if left.IsInt() && right.IsInt() {
			return value.Int(left.Int64() + right.Int64())
		}
		return value.Float(left.Float64() + right.Float64())
	case "-":
		if left.IsString() || right.IsString() {
			addIssue(issues, TypeError, 0, "operator %q applied to incompatible types", op)
			return value.Zero()
		}
		if left.IsInt() && right.IsInt() {
			return value.Int(left.Int64() - right.Int64())
		}
		return value.Float(left.Float64() - right.Float64())
	case "*":
		if left.IsString() || right.IsString() {
			addIssue(issues, TypeError, 0, "operator %q applied to incompatible types", op)
			return value.Zero()
		}
		if left.IsInt() && right.IsInt() {
			return value.Int(left.Int64() * right.Int64())
		}
		return value.Float(left.Float64() * right.Float64())
	case "/":
		if left.IsString() || right.IsString() {
			addIssue(issues, TypeError, 0, "operator %q applied to incompatible types", op)
			return value.Zero()
		}
		rf := right.Float64()
		if rf == 0 {
			addIssue(issues, ExpressionError, 0, "division by zero")
			return value.Zero()
		}
		if left.IsInt() && right.IsInt() && right.Int64() != 0 && left.Int64()%right.Int64() == 0 {
			return value.Int(left.Int64() / right.Int64())
		}
		return value.Float(left.Float64() / rf)
	case "%":
		if left.IsString() || right.IsString() {
			addIssue(issues, TypeError, 0, "operator %q applied to incompatible types", op)
			return value.Zero()
		}
		ri := right.Int64()
		if ri == 0 {
			addIssue(issues, ExpressionError, 0, "division by zero")
			return value.Zero()
		}
		if left.IsInt() && right.IsInt() {
			return value.Int(left.Int64() % ri)
		}
		return value.Float(math.Mod(left.Float64(), right.Float64()))
	default:
		addIssue(issues, ExpressionError, 0, "unknown operator %q", op)
		return value.Zero()
	}
}

func compareNumbers(op string, l, r float64) value.Value {
	switch op {
	case ">":
		return value.Bool(l > r)
	case ">=":
		return value.Bool(l >= r)
	case "<":
		return value.Bool(l < r)
	case "<=":
		return value.Bool(l <= r)
	}
	return value.Bool(false)
}

func compareStrings(op string, l, r string) value.Value {
	switch op {
	case ">":
		return value.Bool(l > r)
	case ">=":
		return value.Bool(l >= r)
	case "<":
		return value.Bool(l < r)
	case "<=":
		return value.Bool(l <= r)
	}
	return value.Bool(false)
}

func (e *Evaluator) evalCall(n ast.CallExpr, issues *[]Issue) value.Value {
	switch n.Name {
	case "either":
		if len(n.Args) == 0 {
			addIssue(issues, ExpressionError, 0, "either requires at least one argument")
			return value.Zero()
		}
		results := make([]value.Value, len(n.Args))
		for i, arg := range n.Args {
			results[i] = e.Eval(arg, issues)
		}
		return results[e.Rand.Intn(len(results))]
	case "random":
		if len(n.Args) != 2 {
			addIssue(issues, ExpressionError, 0, "random requires exactly 2 arguments")
			return value.Zero()
		}
		min := e.Eval(n.Args[0], issues).Int64()
		max := e.Eval(n.Args[1], issues).Int64()
		if max < min {
			min, max = max, min
		}
		span := max - min + 1
		return value.Int(min + e.Rand.Int63n(span))
	default:
		addIssue(issues, ExpressionError, 0, "unknown function %q", n.Name)
		return value.Zero()
	}
}

// EvaluateExpression parses and evaluates expr.
// A malformed expression yields integer zero and records an ExpressionError
// rather than aborting.
func (e *Evaluator) EvaluateExpression(expr string, issues *[]Issue) value.Value {
	node, err := parser.ParseExpr(expr)
	if err != nil {
		addIssue(issues, ExpressionError, 0, "%v", err)
		return value.Zero()
	}
	return e.Eval(node, issues)
}

// EvaluateCondition is the truthiness wrapper around the expression
// evaluator.
func (e *Evaluator) EvaluateCondition(expr string, issues *[]Issue) bool {
	return e.EvaluateExpression(expr, issues).Truthy()
}
