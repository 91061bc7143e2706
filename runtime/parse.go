package runtime

import (
	"math/rand"

	"github.com/tw1x/tw1x/ast"
	"github.com/tw1x/tw1x/parser"
	"github.com/tw1x/tw1x/value"
)

// StoryInitName and TestSetupName are the reserved, case-sensitive
// special-passage names.
const (
	StoryInitName = "StoryInit"
	TestSetupName = "TestSetup"
)

// Parse splits source into passages and runs the special-passage driver.
// It always succeeds; structural and special-passage errors accumulate in
// the result's Errors field.
func Parse(source string, scope Scope, rng *rand.Rand) *ParseResult {
	passageList, order, parseIssues := parser.ParseStory(source)

	passages := make(map[string]*ast.Passage, len(passageList))
	for _, p := range passageList {
		passages[p.Name] = p
	}

	issues := make([]Issue, 0, len(parseIssues))
	for _, pi := range parseIssues {
		issues = append(issues, Issue{Kind: issueKindFromString(pi.Kind), Message: pi.Message, Position: pi.Position})
	}

	storyInitVars := map[string]value.Value{}
	if p, ok := passages[StoryInitName]; ok {
		storyInitVars = RunStoryInit(p.RawBody, scope, rng, &issues)
	}

	testSetupVars := map[string]value.Value{}
	if p, ok := passages[TestSetupName]; ok {
		testSetupVars = RunTestSetup(p.RawBody, scope, rng, &issues)
	}

	return &ParseResult{
		Passages:      passages,
		Order:         order,
		StoryInitVars: storyInitVars,
		TestSetupVars: testSetupVars,
		Errors:        issues,
	}
}

func issueKindFromString(kind string) IssueKind {
	switch kind {
	case parser.IssueStructural:
		return StructuralError
	default:
		return StructuralError
	}
}
