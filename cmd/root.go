// Package cmd implements the peanut-survey Cobra command tree.
package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version, Commit, and Date are set at build time via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "peanut-survey <output.csv>",
	Short: "Interactive peanut tasting survey that appends answers to a CSV file",
	Long: `peanut-survey - Interactive peanut tasting survey

Asks a fixed sequence of questions about a tasted peanut, checks every
answer, and appends each completed entry as one row to a CSV file. The file
is created with a header row and must not exist beforehand (use --append to
continue a file written with the same survey).

Keys:
  enter    submit the answer
  esc      cancel the current peanut (asks for confirmation)
  ctrl+c   quit; the entry in progress is not saved

Examples:
  # Start a new data file with the built-in survey
  peanut-survey tasting.csv

  # Use a custom survey definition
  peanut-survey --survey survey.yaml tasting.csv

  # Check a survey definition
  peanut-survey validate survey.yaml

  # Generate a blind tasting code table
  peanut-survey codes --output num_to_letter.json`,
	Args:          cobra.ExactArgs(1),
	RunE:          runCollect,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. SIGTERM cancels the command context;
// ctrl+c is handled by the survey screen itself.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() { //nolint:gochecknoinits
	rootCmd.SetVersionTemplate(fmt.Sprintf("peanut-survey version {{.Version}} (commit: %s, built: %s)\n", Commit, Date))
}
