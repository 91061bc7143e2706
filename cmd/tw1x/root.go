package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	scopeFlag    string
	usernameFlag string
	verboseFlag  bool
	formatFlag   string

	styles = struct {
		Success lipgloss.Style
		Error   lipgloss.Style
		Info    lipgloss.Style
	}{
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
	}
)

var rootCmd = &cobra.Command{
	Use:   "tw1x",
	Short: "Parse, render, and evaluate tw1x interactive-fiction sources",
	Long: `tw1x is a parser, evaluator, and renderer for a Twee-style
interactive-fiction DSL: named passages, inline links, and an embedded
macro language for conditionals, assignment, and passage inclusion.

Output defaults to JSON for host tooling; pass --format=text on parse
or info for a styled human-readable summary instead.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&scopeFlag, "scope", "global", "variable scope: global or prefixed")
	rootCmd.PersistentFlags().StringVar(&usernameFlag, "username", "", "username for --scope=prefixed")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "log progress to stderr")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "json", "output format: json or text")

	rootCmd.AddCommand(parseCmd, renderCmd, evaluateCmd, infoCmd)
}
