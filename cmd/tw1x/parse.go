package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"
	"github.com/tw1x/tw1x/runtime"
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Parse a source file and print its structural representation (--format=json|text)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := readSourceFile(args[0])
		if err != nil {
			return writeJSON(map[string]any{"error": err.Error()})
		}
		if verboseFlag {
			logger.Info("parsing", "file", args[0])
		}
		result := runtime.Parse(source, resolveScope(), rand.New(rand.NewSource(time.Now().UnixNano())))

		if formatFlag == "text" {
			printHeading("Passages", fmt.Sprintf("%d", len(result.Passages)))
			for _, name := range result.Order {
				fmt.Println("  - " + name)
			}
			printIssues("Errors", result.Errors)
			return nil
		}

		return writeJSON(map[string]any{
			"passages":        result.Passages,
			"story_init_vars": result.StoryInitVars,
			"test_setup_vars": result.TestSetupVars,
			"errors":          result.Errors,
			"passage_count":   len(result.Passages),
		})
	},
}
