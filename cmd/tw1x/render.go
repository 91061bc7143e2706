package main

import (
	"math/rand"
	"time"

	"github.com/spf13/cobra"
	"github.com/tw1x/tw1x/runtime"
)

var renderCmd = &cobra.Command{
	Use:   "render FILE PASSAGE",
	Short: "Render a single passage against variables supplied as JSON on stdin",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := readSourceFile(args[0])
		if err != nil {
			return writeJSON(map[string]any{"error": err.Error()})
		}
		vars, err := readStdinVars()
		if err != nil {
			return writeJSON(map[string]any{"error": err.Error()})
		}

		scope := resolveScope()
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		result := runtime.Parse(source, scope, rng)

		passageName := args[1]
		if _, ok := result.Passages[passageName]; !ok {
			available := make([]string, 0, len(result.Passages))
			for name := range result.Passages {
				available = append(available, name)
			}
			return writeJSON(map[string]any{
				"error":               "passage not found: " + passageName,
				"available_passages": available,
			})
		}

		if verboseFlag {
			logger.Info("rendering", "file", args[0], "passage", passageName)
		}
		render := runtime.Render(result, passageName, vars, scope, rng, runtime.ModeRuntime)
		return writeJSON(map[string]any{
			"text":             render.Text,
			"links":            render.Links,
			"variable_changes": render.VariableChanges,
			"errors":           render.Errors,
		})
	},
}
