package tw1x

import (
	"math/rand"
	"testing"

	"github.com/tw1x/tw1x/value"
)

func TestParseAndRenderRoundTrip(t *testing.T) {
	source := `:: Start
<<set $gold = 5>>You have <<print $gold>> gold. [[Go north|North]]

:: North
You went north.
`
	result := Parse(source)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected parse errors: %+v", result.Errors)
	}

	vars := map[string]value.Value{}
	render := Render(result, "Start", vars)
	if len(render.Errors) != 0 {
		t.Fatalf("unexpected render errors: %+v", render.Errors)
	}
	if render.Text != "You have 5 gold. Go north" {
		t.Fatalf("unexpected rendered text: %q", render.Text)
	}
	if len(render.Links) != 1 || render.Links[0].Target != "North" {
		t.Fatalf("unexpected links: %+v", render.Links)
	}
}

func TestParseSeededIsDeterministic(t *testing.T) {
	source := `:: Start
<<print random(1, 100)>>
`
	result := ParseSeeded(source, Scope{Mode: GlobalScope}, rand.New(rand.NewSource(7)))
	a := RenderWith(result, "Start", map[string]value.Value{}, Scope{Mode: GlobalScope}, rand.New(rand.NewSource(7)), ModeRuntime)
	b := RenderWith(result, "Start", map[string]value.Value{}, Scope{Mode: GlobalScope}, rand.New(rand.NewSource(7)), ModeRuntime)
	if a.Text != b.Text {
		t.Fatalf("expected the same seed to produce the same roll, got %q and %q", a.Text, b.Text)
	}
}

func TestEvaluateExpressionAndCondition(t *testing.T) {
	vars := map[string]value.Value{"GOLD": value.Int(10)}
	v, issues := EvaluateExpression("$gold * 2", vars)
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %+v", issues)
	}
	if v.Int64() != 20 {
		t.Fatalf("expected 20, got %+v", v)
	}
	if !EvaluateCondition("$gold gt 5", vars) {
		t.Fatalf("expected $gold gt 5 to be true")
	}
}

func TestRenderMissingPassageReportsAnIssue(t *testing.T) {
	result := Parse(":: Start\nhi\n")
	render := Render(result, "Nowhere", map[string]value.Value{})
	if len(render.Errors) != 1 || render.Errors[0].Kind != MissingPassageError {
		t.Fatalf("expected a single MissingPassageError, got %+v", render.Errors)
	}
}
