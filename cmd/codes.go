package cmd

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/peanut-survey/peanut-survey/internal/codes"
)

var (
	codesOutputFlag  string
	codesLettersFlag string
	codesSeedFlag    uint64
)

var codesCmd = &cobra.Command{
	Use:   "codes",
	Short: "Generate a blind tasting code table",
	Long: `Generate a random one-to-one mapping from two-digit codes to letters and
write it as JSON. The output file must not exist.

Examples:
  peanut-survey codes --output num_to_letter.json
  peanut-survey codes --output codes.json --letters ABCDEF --seed 42`,
	Args: cobra.NoArgs,
	RunE: runCodes,
}

func init() { //nolint:gochecknoinits // Standard cobra pattern
	codesCmd.Flags().StringVarP(&codesOutputFlag, "output", "o", "",
		"Output JSON file (required)")
	codesCmd.Flags().StringVar(&codesLettersFlag, "letters", codes.DefaultLetters,
		"Letters to assign codes to")
	codesCmd.Flags().Uint64Var(&codesSeedFlag, "seed", 0,
		"Random seed for a reproducible table (default: time based)")
	rootCmd.AddCommand(codesCmd)
}

func runCodes(cmd *cobra.Command, _ []string) error {
	if codesOutputFlag == "" {
		return errors.New("--output is required")
	}

	seed := codesSeedFlag
	if seed == 0 {
		seed = uint64(time.Now().UnixNano()) //nolint:gosec // non-negative clock value
	}
	table, err := codes.Generate(codesLettersFlag, rand.New(rand.NewPCG(seed, seed>>1|1)))
	if err != nil {
		return err
	}
	if err := codes.WriteFile(codesOutputFlag, table); err != nil {
		return err
	}

	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := cmd.OutOrStdout()
	for _, k := range keys {
		fmt.Fprintf(out, "%s %s\n", k, table[k])
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "peanut-survey: wrote %d codes to %s\n", len(table), codesOutputFlag)
	return nil
}
