// Package tw1x is the public façade over the parse + evaluate + render
// pipeline: Parse, Render, EvaluateExpression, and EvaluateCondition.
// Collaborators never need to import the runtime/parser/ast packages
// directly for ordinary use.
package tw1x

import (
	"math/rand"
	"time"

	"github.com/tw1x/tw1x/runtime"
	"github.com/tw1x/tw1x/value"
)

type (
	ParseResult   = runtime.ParseResult
	RenderResult  = runtime.RenderResult
	Scope         = runtime.Scope
	ScopeMode     = runtime.ScopeMode
	ExecutionMode = runtime.ExecutionMode
	Issue         = runtime.Issue
	IssueKind     = runtime.IssueKind
)

const (
	GlobalScope   = runtime.GlobalScope
	PrefixedScope = runtime.PrefixedScope
	ModeParseOnly = runtime.ModeParseOnly
	ModePreview   = runtime.ModePreview
	ModeRuntime   = runtime.ModeRuntime

	StructuralError     = runtime.StructuralError
	ExpressionError     = runtime.ExpressionError
	TypeError           = runtime.TypeError
	ReferenceError      = runtime.ReferenceError
	CycleError          = runtime.CycleError
	MissingPassageError = runtime.MissingPassageError
	UnmatchedMacroError = runtime.UnmatchedMacroError
)

func freshRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Parse splits source into passages and seeds StoryInit/TestSetup under
// GLOBAL scope. Use ParseSeeded to control the scope or inject a
// reproducible entropy source.
func Parse(source string) *ParseResult {
	return runtime.Parse(source, Scope{Mode: GlobalScope}, freshRand())
}

// ParseSeeded is Parse with an explicit scope and entropy source, for
// hosts that need PREFIXED scope or deterministic test runs.
func ParseSeeded(source string, scope Scope, rng *rand.Rand) *ParseResult {
	return runtime.Parse(source, scope, rng)
}

// Render renders the named passage under GLOBAL scope in RUNTIME mode,
// mutating vars in place.
func Render(result *ParseResult, name string, vars map[string]value.Value) *RenderResult {
	return runtime.Render(result, name, vars, Scope{Mode: GlobalScope}, freshRand(), ModeRuntime)
}

// RenderWith is Render with full control over scope, entropy, and mode.
func RenderWith(result *ParseResult, name string, vars map[string]value.Value, scope Scope, rng *rand.Rand, mode ExecutionMode) *RenderResult {
	return runtime.Render(result, name, vars, scope, rng, mode)
}

// EvaluateExpression evaluates expr against vars under GLOBAL scope, for
// host tooling. Errors accumulate in the returned issue list rather than
// being raised.
func EvaluateExpression(expr string, vars map[string]value.Value) (value.Value, []Issue) {
	store := runtime.NewStore(Scope{Mode: GlobalScope}, vars)
	eval := runtime.NewEvaluator(store, freshRand())
	var issues []Issue
	v := eval.EvaluateExpression(expr, &issues)
	return v, issues
}

// EvaluateCondition is the truthiness wrapper around EvaluateExpression.
func EvaluateCondition(expr string, vars map[string]value.Value) bool {
	v, _ := EvaluateExpression(expr, vars)
	return v.Truthy()
}
