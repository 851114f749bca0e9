package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/peanut-survey/peanut-survey/internal/survey"
)

// ValidationResult represents the validation outcome for a single survey file.
type ValidationResult struct {
	File   string   `json:"file"`
	Valid  bool     `json:"valid"`
	Fields int      `json:"fields"`
	Errors []string `json:"errors"`
}

var validateFormatFlag string

var errInvalidFiles = errors.New("invalid survey files")

var validateCmd = &cobra.Command{
	Use:   "validate <survey.yaml>...",
	Short: "Validate survey definition files",
	Long: `Validate one or more survey definition YAML files without running them.

Checks schema compliance (known keys, required fields, rule kinds and ranges)
and semantic rules (unique field names, no field named Timestamp, code list
references, codes that collide once upper-cased).

Formats:
  text   Human-readable output to stderr (default)
  json   Structured JSON to stdout

Examples:
  peanut-survey validate survey.yaml
  peanut-survey validate --format json a.yaml b.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() { //nolint:gochecknoinits // Standard cobra pattern
	validateCmd.Flags().StringVar(&validateFormatFlag, "format", "text",
		"Output format: text, json")
	rootCmd.AddCommand(validateCmd)
}

// runValidate validates each file independently and reports the results in
// the chosen format.
func runValidate(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(validateFormatFlag)
	switch format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid format %q: valid values are text, json", validateFormatFlag)
	}

	results := make([]ValidationResult, 0, len(args))
	invalid := 0
	for _, path := range args {
		result := validateFile(path)
		results = append(results, result)
		if !result.Valid {
			invalid++
		}
	}

	switch format {
	case "text":
		formatValidateText(cmd.ErrOrStderr(), results)
	case "json":
		if err := formatValidateJSON(cmd.OutOrStdout(), results); err != nil {
			return fmt.Errorf("failed to encode JSON output: %w", err)
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%w: %d of %d", errInvalidFiles, invalid, len(results))
	}
	return nil
}

// validateFile loads and builds one survey definition and runs the extra
// semantic checks.
func validateFile(path string) ValidationResult {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return ValidationResult{
			File:   path,
			Errors: []string{fmt.Sprintf("failed to resolve path: %v", err)},
		}
	}

	cfg, err := survey.LoadFile(absPath)
	if err != nil {
		return ValidationResult{File: path, Errors: []string{err.Error()}}
	}
	def, err := cfg.Definition()
	if err != nil {
		return ValidationResult{File: path, Errors: []string{err.Error()}}
	}

	errs := codeCollisions(cfg)
	if len(errs) > 0 {
		return ValidationResult{File: path, Fields: def.Len(), Errors: errs}
	}
	return ValidationResult{File: path, Valid: true, Fields: def.Len(), Errors: []string{}}
}

// codeCollisions reports member_of codes that become identical once
// upper-cased under the case-insensitive policy.
func codeCollisions(cfg *survey.Config) []string {
	var errs []string
	for i, f := range cfg.Fields {
		if f.Rule.Kind != survey.RuleMemberOf {
			continue
		}
		caseSensitive := cfg.CaseSensitive
		if f.Rule.CaseSensitive != nil {
			caseSensitive = *f.Rule.CaseSensitive
		}
		if caseSensitive {
			continue
		}
		codes := append([]string(nil), f.Rule.Values...)
		if f.Rule.CodeList != "" {
			codes = append(codes, cfg.CodeLists[f.Rule.CodeList].Codes()...)
		}
		seen := make(map[string]string, len(codes))
		for _, c := range codes {
			key := strings.ToUpper(c)
			if prev, ok := seen[key]; ok && prev != c {
				errs = append(errs, fmt.Sprintf("field %d (%s): codes %q and %q collide when upper-cased", i, f.Name, prev, c))
				continue
			}
			seen[key] = c
		}
	}
	return errs
}

// formatValidateText writes human-readable validation results.
func formatValidateText(w io.Writer, results []ValidationResult) {
	validCount := 0
	for _, r := range results {
		if r.Valid {
			validCount++
			fmt.Fprintf(w, "✓ %s: valid (%d fields)\n", r.File, r.Fields)
		} else {
			fmt.Fprintf(w, "✗ %s:\n", r.File)
			for _, e := range r.Errors {
				fmt.Fprintf(w, "  - %s\n", e)
			}
		}
	}

	if len(results) > 1 {
		fmt.Fprintf(w, "\nResult: %d/%d files valid\n", validCount, len(results))
	}
}

// formatValidateJSON writes JSON-encoded validation results.
func formatValidateJSON(w io.Writer, results []ValidationResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}
