package runtime

import (
	"github.com/tw1x/tw1x/ast"
	"github.com/tw1x/tw1x/value"
)

// ExecutionMode selects how render behaves; PARSE_ONLY skips macro
// execution, PREVIEW and RUNTIME are identical in the core.
type ExecutionMode int

const (
	ModeParseOnly ExecutionMode = iota
	ModePreview
	ModeRuntime
)

// ParseResult is the structural output of a parse, read-only once built.
type ParseResult struct {
	Passages      map[string]*ast.Passage `json:"passages"`
	Order         []string                `json:"-"`
	StoryInitVars map[string]value.Value  `json:"story_init_vars"`
	TestSetupVars map[string]value.Value  `json:"test_setup_vars"`
	Errors        []Issue                 `json:"errors"`
}

// RenderResult is the output of rendering a single passage.
type RenderResult struct {
	Text            string                  `json:"text"`
	Links           []ast.Link              `json:"links"`
	VariableChanges map[string]value.Value  `json:"variable_changes"`
	Errors          []Issue                 `json:"errors"`
}
