package runtime

import (
	"math/rand"
	"testing"
)

func TestParseAssemblesPassagesByName(t *testing.T) {
	source := ":: Start\nHello\n\n:: Room\nDark room\n"
	result := Parse(source, Scope{Mode: GlobalScope}, rand.New(rand.NewSource(1)))
	if len(result.Passages) != 2 {
		t.Fatalf("expected 2 passages, got %d", len(result.Passages))
	}
	if _, ok := result.Passages["Start"]; !ok {
		t.Fatalf("expected a Start passage, got %+v", result.Passages)
	}
}

func TestParseRunsStoryInit(t *testing.T) {
	source := ":: StoryInit\n<<set $gold = 3>>\n\n:: Start\nHi\n"
	result := Parse(source, Scope{Mode: GlobalScope}, rand.New(rand.NewSource(1)))
	if result.StoryInitVars["GOLD"].Int64() != 3 {
		t.Fatalf("expected StoryInit to seed GOLD=3, got %+v", result.StoryInitVars)
	}
}

func TestParseRunsTestSetup(t *testing.T) {
	source := ":: TestSetup\n<<set $debug = true>>\n\n:: Start\nHi\n"
	result := Parse(source, Scope{Mode: GlobalScope}, rand.New(rand.NewSource(1)))
	if !result.TestSetupVars["DEBUG"].Truthy() {
		t.Fatalf("expected TestSetup to seed DEBUG=true, got %+v", result.TestSetupVars)
	}
}

func TestParseWithoutSpecialPassagesLeavesEmptyMaps(t *testing.T) {
	source := ":: Start\nHi\n"
	result := Parse(source, Scope{Mode: GlobalScope}, rand.New(rand.NewSource(1)))
	if len(result.StoryInitVars) != 0 || len(result.TestSetupVars) != 0 {
		t.Fatalf("expected empty special-passage variable maps, got init=%+v setup=%+v", result.StoryInitVars, result.TestSetupVars)
	}
}

func TestParseStructuralIssuesPropagate(t *testing.T) {
	source := ":: [tag]\nbody\n"
	result := Parse(source, Scope{Mode: GlobalScope}, rand.New(rand.NewSource(1)))
	if len(result.Errors) == 0 {
		t.Fatalf("expected a structural parse issue to propagate into Errors")
	}
	if result.Errors[0].Kind != StructuralError {
		t.Fatalf("expected StructuralError, got %v", result.Errors[0].Kind)
	}
}
