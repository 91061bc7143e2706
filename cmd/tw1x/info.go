package main

import (
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/tw1x/tw1x/runtime"
)

var infoCmd = &cobra.Command{
	Use:   "info FILE",
	Short: "Print a summary of a source file: title, passage names, and special-passage variables",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := readSourceFile(args[0])
		if err != nil {
			return writeJSON(map[string]any{"error": err.Error()})
		}
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		result := runtime.Parse(source, resolveScope(), rng)

		title := ""
		if p, ok := result.Passages["StoryTitle"]; ok {
			title = p.RawBody
		}
		names := make([]string, 0, len(result.Passages))
		for name := range result.Passages {
			names = append(names, name)
		}

		if formatFlag == "text" {
			sort.Strings(names)
			if title == "" {
				title = "(untitled)"
			}
			printHeading("Title", title)
			printHeading("Passages", strconv.Itoa(len(result.Passages)))
			for _, name := range names {
				fmt.Println("  - " + name)
			}
			printIssues("Errors", result.Errors)
			return nil
		}

		return writeJSON(map[string]any{
			"title":           title,
			"passage_count":   len(result.Passages),
			"story_init_vars": result.StoryInitVars,
			"test_setup_vars": result.TestSetupVars,
			"passages":        names,
			"errors":          result.Errors,
		})
	},
}
