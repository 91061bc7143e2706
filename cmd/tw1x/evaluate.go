package main

import (
	"github.com/spf13/cobra"
	"github.com/tw1x/tw1x/runtime"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate EXPR",
	Short: "Evaluate a single expression against variables supplied as JSON on stdin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vars, err := readStdinVars()
		if err != nil {
			return writeJSON(map[string]any{"error": err.Error()})
		}
		expr := args[0]
		store := runtime.NewStore(resolveScope(), vars)
		eval := runtime.NewEvaluator(store, nil)
		var issues []runtime.Issue
		result := eval.EvaluateExpression(expr, &issues)
		return writeJSON(map[string]any{
			"result":     result,
			"expression": expr,
			"errors":     issues,
		})
	},
}
