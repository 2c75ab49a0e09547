/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main.go
Description: Main command-line interface for the Akaylee Profiler. Discovers the format
templates of string data from files, URLs and web pages, and exports ranked patterns with
regular expressions as JSON, YAML or HTML reports.
*/

package main

import (
	"fmt"
	"os"

	"github.com/kleascm/akaylee-profiler/cmd/profiler/commands"
)

func main() {
	rootCmd := commands.NewRootCommand()

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
