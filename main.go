// Package main is the entry point for peanut-survey.
package main

import (
	"fmt"
	"os"

	"github.com/peanut-survey/peanut-survey/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
