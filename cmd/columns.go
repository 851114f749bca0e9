package cmd

import (
	"encoding/csv"

	"github.com/spf13/cobra"
)

var columnsCmd = &cobra.Command{
	Use:   "columns",
	Short: "Print the CSV header row of the survey",
	Long: `Print the header row a new data file would get: Timestamp followed by
every survey field name in question order.

Examples:
  peanut-survey columns
  peanut-survey columns --survey survey.yaml`,
	Args: cobra.NoArgs,
	RunE: runColumns,
}

func init() { //nolint:gochecknoinits // Standard cobra pattern
	rootCmd.AddCommand(columnsCmd)
}

func runColumns(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSurvey(surveyFlag)
	if err != nil {
		return err
	}
	def, err := cfg.Definition()
	if err != nil {
		return err
	}

	w := csv.NewWriter(cmd.OutOrStdout())
	if err := w.Write(def.Columns()); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
