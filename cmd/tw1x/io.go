package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/tw1x/tw1x/runtime"
	"github.com/tw1x/tw1x/value"
)

// readStdinVars reads a JSON object of variables from stdin. An empty or
// absent stdin yields an empty variable map rather than an error — most
// invocations render with no prior state.
func readStdinVars() (map[string]value.Value, error) {
	info, err := os.Stdin.Stat()
	if err == nil && (info.Mode()&os.ModeCharDevice) != 0 {
		return map[string]value.Value{}, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	if len(data) == 0 {
		return map[string]value.Value{}, nil
	}
	vars := map[string]value.Value{}
	if err := json.Unmarshal(data, &vars); err != nil {
		return nil, fmt.Errorf("invalid JSON on stdin: %w", err)
	}
	return vars, nil
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func readSourceFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func resolveScope() runtime.Scope {
	if scopeFlag == "prefixed" {
		return runtime.Scope{Mode: runtime.PrefixedScope, Username: usernameFlag}
	}
	return runtime.Scope{Mode: runtime.GlobalScope}
}

// printHeading writes a styled label line to stdout, used by --format=text
// output. Errors from writing to stdout are not actionable here and are
// intentionally ignored, matching the teacher's own best-effort terminal
// writes in cmd/erago/frontend.go.
func printHeading(label, value string) {
	fmt.Println(styles.Info.Render(label+":") + " " + value)
}

// printIssues writes a styled issue summary: green "no issues" when issues
// is empty, otherwise a red count line followed by one plain line per
// issue. Shared by the `parse` and `info` subcommands' --format=text path.
func printIssues(label string, issues []runtime.Issue) {
	if len(issues) == 0 {
		fmt.Println(styles.Success.Render(fmt.Sprintf("%s: none", label)))
		return
	}
	fmt.Println(styles.Error.Render(fmt.Sprintf("%s: %d", label, len(issues))))
	for _, iss := range issues {
		fmt.Printf("  - %s\n", iss.String())
	}
}
