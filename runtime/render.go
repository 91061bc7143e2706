package runtime

import (
	"math/rand"

	"github.com/tw1x/tw1x/value"
)

// Render renders the named passage against vars (mutated in place).
// PARSE_ONLY mode returns the passage's raw body untouched, with no macro
// execution and no variable mutation.
func Render(result *ParseResult, name string, vars map[string]value.Value, scope Scope, rng *rand.Rand, mode ExecutionMode) *RenderResult {
	passage, ok := result.Passages[name]
	if !ok {
		return &RenderResult{
			Errors: []Issue{{Kind: MissingPassageError, Message: "passage " + name + " not found"}},
		}
	}

	if mode == ModeParseOnly {
		return &RenderResult{Text: passage.RawBody, VariableChanges: map[string]value.Value{}}
	}

	store := NewStore(scope, vars)
	eval := NewEvaluator(store, rng)
	var issues []Issue
	r := newRenderer(result.Passages, store, eval, &issues)
	r.stack = append(r.stack, name)

	text := r.renderSpan(passage.RawBody)

	changes := make(map[string]value.Value, len(r.dirty))
	for key := range r.dirty {
		changes[key] = store.GetCanonical(key)
	}

	return &RenderResult{
		Text:            text,
		Links:           *r.links,
		VariableChanges: changes,
		Errors:          issues,
	}
}
