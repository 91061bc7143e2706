package runtime

import (
	"math/rand"
	"strings"

	"github.com/tw1x/tw1x/parser"
	"github.com/tw1x/tw1x/value"
)

// extractTopLevelSets executes every top-level (non-nested) <<set>> in
// body against store, skipping `<<if>>` blocks entirely without
// evaluating them. Used for StoryInit and for passes 1 and 3 of the
// TestSetup algorithm.
func extractTopLevelSets(body string, store *Store, eval *Evaluator, issues *[]Issue) {
	rs := []rune(body)
	i := 0
	for i < len(rs) {
		if !hasPrefixAt(rs, i, "<<") {
			i++
			continue
		}
		closeIdx := indexOfFrom(rs, i+2, ">>")
		if closeIdx < 0 {
			break
		}
		tag := strings.TrimSpace(string(rs[i+2 : closeIdx]))
		name, args := splitMacroName(tag)
		switch strings.ToLower(name) {
		case "if":
			i = skipIfStatement(rs, closeIdx+2)
		case "set":
			execAssignment(args, store, eval, issues)
			i = closeIdx + 2
		default:
			i = closeIdx + 2
		}
	}
}

// walkConditionalSets implements pass 2 of the TestSetup algorithm: it
// resolves `<<if>>`/`<<elseif>>`/`<<else>>` blocks against store,
// recursing into whichever branch is selected so that nested conditionals
// are resolved after their enclosing branch is. When executeSets is
// false (the top-level pass-2 call), top-level `<<set>>` macros are left
// untouched — they were already collected in pass 1 and will be
// re-resolved in pass 3. Recursive calls into a selected branch always
// pass executeSets=true.
func walkConditionalSets(body string, store *Store, eval *Evaluator, issues *[]Issue, executeSets bool) {
	rs := []rune(body)
	walkConditionalSetsRunes(rs, store, eval, issues, executeSets)
}

func walkConditionalSetsRunes(rs []rune, store *Store, eval *Evaluator, issues *[]Issue, executeSets bool) {
	i := 0
	for i < len(rs) {
		if !hasPrefixAt(rs, i, "<<") {
			i++
			continue
		}
		closeIdx := indexOfFrom(rs, i+2, ">>")
		if closeIdx < 0 {
			break
		}
		tag := strings.TrimSpace(string(rs[i+2 : closeIdx]))
		name, args := splitMacroName(tag)
		switch strings.ToLower(name) {
		case "if":
			i = resolveIfBlock(rs, closeIdx+2, args, store, eval, issues)
		case "set":
			if executeSets {
				execAssignment(args, store, eval, issues)
			}
			i = closeIdx + 2
		default:
			i = closeIdx + 2
		}
	}
}

// resolveIfBlock evaluates one if/elseif/else chain starting right after
// its `<<if EXPR>>` opening tag, merging the selected branch's
// assignments into store, and returns the index just past the matching
// `<<endif>>`.
func resolveIfBlock(rs []rune, pos int, condArgs string, store *Store, eval *Evaluator, issues *[]Issue) int {
	cond := eval.EvaluateCondition(condArgs, issues)
	matched := false

	branchEnd, termKind, termArgs, after, implicit := findBranchEnd(rs, pos)
	if implicit {
		addIssue(issues, UnmatchedMacroError, pos, "unterminated <<if>> in special passage")
	}
	if cond {
		walkConditionalSetsRunes(rs[pos:branchEnd], store, eval, issues, true)
		matched = true
	}
	pos = after

	for termKind != "endif" {
		switch termKind {
		case "elseif":
			branchEnd, nextKind, nextArgs, nextAfter, implicit := findBranchEnd(rs, pos)
			if implicit {
				addIssue(issues, UnmatchedMacroError, pos, "unterminated <<if>> in special passage")
			}
			if !matched && eval.EvaluateCondition(termArgs, issues) {
				walkConditionalSetsRunes(rs[pos:branchEnd], store, eval, issues, true)
				matched = true
			}
			pos, termKind, termArgs, after = nextAfter, nextKind, nextArgs, nextAfter
		case "else":
			branchEnd, nextKind, nextArgs, nextAfter, implicit := findBranchEnd(rs, pos)
			if implicit {
				addIssue(issues, UnmatchedMacroError, pos, "unterminated <<if>> in special passage")
			}
			if !matched {
				walkConditionalSetsRunes(rs[pos:branchEnd], store, eval, issues, true)
				matched = true
			}
			pos, termKind, termArgs, after = nextAfter, nextKind, nextArgs, nextAfter
		}
	}
	return after
}

func execAssignment(args string, store *Store, eval *Evaluator, issues *[]Issue) {
	varName, op, exprText, ok := splitAssignClause(args)
	if !ok {
		addIssue(issues, StructuralError, 0, "malformed <<set %s>>", args)
		return
	}
	node, err := parser.ParseExpr(exprText)
	if err != nil {
		addIssue(issues, ExpressionError, 0, "%v", err)
		return
	}
	v := eval.Eval(node, issues)
	if compoundOp, isCompound := compoundArith(op); isCompound {
		cur := store.Get(varName)
		v = eval.ApplyArith(compoundOp, cur, v, issues)
	}
	store.Set(varName, v)
}

// RunStoryInit scans the StoryInit passage body and returns the resulting
// variable bindings: every top-level `<<set>>` is executed against an
// empty store; nested-conditional assignments are not extracted.
func RunStoryInit(body string, scope Scope, rng *rand.Rand, issues *[]Issue) map[string]value.Value {
	store := NewStore(scope, map[string]value.Value{})
	eval := NewEvaluator(store, rng)
	extractTopLevelSets(body, store, eval, issues)
	return store.Snapshot()
}

// RunTestSetup runs the three-pass algorithm against the TestSetup
// passage body and returns the resulting draft store.
func RunTestSetup(body string, scope Scope, rng *rand.Rand, issues *[]Issue) map[string]value.Value {
	draft := NewStore(scope, map[string]value.Value{})
	eval := NewEvaluator(draft, rng)
	extractTopLevelSets(body, draft, eval, issues)         // pass 1
	walkConditionalSets(body, draft, eval, issues, false) // pass 2
	extractTopLevelSets(body, draft, eval, issues)         // pass 3
	return draft.Snapshot()
}
