package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/peanut-survey/peanut-survey/internal/store"
)

var errInvalidRows = errors.New("invalid rows")

var checkCmd = &cobra.Command{
	Use:   "check <output.csv>",
	Short: "Check a data file against the survey definition",
	Long: `Check that a data file has the header of the survey definition and that
every row holds a valid timestamp and valid answers.

Exit code 0 if the file is clean, 1 otherwise.

Examples:
  peanut-survey check tasting.csv
  peanut-survey check --survey survey.yaml tasting.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() { //nolint:gochecknoinits // Standard cobra pattern
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadSurvey(surveyFlag)
	if err != nil {
		return err
	}
	def, err := cfg.Definition()
	if err != nil {
		return err
	}

	rows, problems, err := store.Check(args[0], def)
	if err != nil {
		return err
	}

	w := cmd.ErrOrStderr()
	if len(problems) == 0 {
		fmt.Fprintf(w, "✓ %s: %d rows valid\n", args[0], rows)
		return nil
	}
	fmt.Fprintf(w, "✗ %s:\n", args[0])
	for _, p := range problems {
		fmt.Fprintf(w, "  - %s\n", p)
	}
	return fmt.Errorf("%w: %d problems in %d rows", errInvalidRows, len(problems), rows)
}
