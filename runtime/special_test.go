package runtime

import (
	"math/rand"
	"testing"
)

func TestRunStoryInitExtractsTopLevelSets(t *testing.T) {
	body := `<<set $gold = 10>><<set $name to "Alice">>`
	var issues []Issue
	vars := RunStoryInit(body, Scope{Mode: GlobalScope}, rand.New(rand.NewSource(1)), &issues)
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %+v", issues)
	}
	if vars["GOLD"].Int64() != 10 {
		t.Fatalf("expected GOLD=10, got %+v", vars)
	}
	if vars["NAME"].String() != "Alice" {
		t.Fatalf("expected NAME=Alice, got %+v", vars)
	}
}

func TestRunStoryInitIgnoresConditionalSets(t *testing.T) {
	body := `<<set $a = 1>><<if true>><<set $b = 2>><<endif>>`
	var issues []Issue
	vars := RunStoryInit(body, Scope{Mode: GlobalScope}, rand.New(rand.NewSource(1)), &issues)
	if _, ok := vars["A"]; !ok {
		t.Fatalf("expected top-level A to be set, got %+v", vars)
	}
	if _, ok := vars["B"]; ok {
		t.Fatalf("expected conditional B to be skipped entirely, got %+v", vars)
	}
}

func TestRunTestSetupResolvesConditionalBranch(t *testing.T) {
	body := `<<set $mode = "hard">><<if $mode is "hard">><<set $lives = 1>><<else>><<set $lives = 5>><<endif>>`
	var issues []Issue
	vars := RunTestSetup(body, Scope{Mode: GlobalScope}, rand.New(rand.NewSource(1)), &issues)
	if vars["MODE"].String() != "hard" {
		t.Fatalf("expected MODE=hard, got %+v", vars)
	}
	if vars["LIVES"].Int64() != 1 {
		t.Fatalf("expected the hard-mode branch to set LIVES=1, got %+v", vars)
	}
}

func TestRunTestSetupPassThreeRerunsTopLevelSets(t *testing.T) {
	// Pass 1 sets $a (and $d from a still-unset $c), pass 2 resolves the
	// if using that draft value, and pass 3 re-runs the unconditional
	// top-level sets once more so $d picks up the $c that pass 2 set.
	body := `<<set $a = 1>><<set $b = $a + 1>><<if $a is 1>><<set $c = 10>><<endif>><<set $d = $c + 1>>`
	var issues []Issue
	vars := RunTestSetup(body, Scope{Mode: GlobalScope}, rand.New(rand.NewSource(1)), &issues)
	if vars["B"].Int64() != 2 {
		t.Fatalf("expected B=2, got %+v", vars)
	}
	if vars["C"].Int64() != 10 {
		t.Fatalf("expected the conditional C to resolve via pass 2, got %+v", vars)
	}
	if vars["D"].Int64() != 11 {
		t.Fatalf("expected pass 3 to recompute D from C, got %+v", vars)
	}
}

func TestRunTestSetupElseBranch(t *testing.T) {
	body := `<<set $flag = false>><<if $flag>><<set $x = 1>><<else>><<set $x = 2>><<endif>>`
	var issues []Issue
	vars := RunTestSetup(body, Scope{Mode: GlobalScope}, rand.New(rand.NewSource(1)), &issues)
	if vars["X"].Int64() != 2 {
		t.Fatalf("expected the else branch to win, got %+v", vars)
	}
}

func TestRunStoryInitUnterminatedIfRecordsIssue(t *testing.T) {
	body := `<<set $a = 1>><<if true>><<set $b = 2>>`
	var issues []Issue
	RunStoryInit(body, Scope{Mode: GlobalScope}, rand.New(rand.NewSource(1)), &issues)
	if len(issues) != 0 {
		t.Fatalf("StoryInit skips the whole if statement without looking for endif, so no issue is expected here, got %+v", issues)
	}
}

func TestRunTestSetupUnterminatedIfRecordsIssue(t *testing.T) {
	body := `<<set $a = 1>><<if true>><<set $b = 2>>`
	var issues []Issue
	RunTestSetup(body, Scope{Mode: GlobalScope}, rand.New(rand.NewSource(1)), &issues)
	found := false
	for _, iss := range issues {
		if iss.Kind == UnmatchedMacroError {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an UnmatchedMacroError for the unterminated <<if>>, got %+v", issues)
	}
}
