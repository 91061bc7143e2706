// Command tw1x is the batch CLI front end for the tw1x core: parse,
// render, evaluate, and info subcommands over JSON. It has no
// contract with the core beyond passing a source string and a variable
// mapping and printing back whatever the core returns — all parse and
// render errors are reported in-band in the JSON, never as a nonzero
// exit status.
package main

import (
	"os"

	"github.com/charmbracelet/log"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: false,
})

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
