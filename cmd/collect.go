package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/peanut-survey/peanut-survey/internal/logging"
	"github.com/peanut-survey/peanut-survey/internal/session"
	"github.com/peanut-survey/peanut-survey/internal/store"
	"github.com/peanut-survey/peanut-survey/internal/survey"
	"github.com/peanut-survey/peanut-survey/internal/tui"
)

// surveyEnv names the environment variable holding a default survey file.
const surveyEnv = "PEANUT_SURVEY_DEFINITION"

var (
	surveyFlag   string
	appendFlag   bool
	noReviewFlag bool
	logFileFlag  string
	logLevelFlag string
)

func init() { //nolint:gochecknoinits // Standard cobra pattern
	rootCmd.PersistentFlags().StringVar(&surveyFlag, "survey", "",
		"Survey definition file (default: $"+surveyEnv+" or the built-in peanut survey)")
	rootCmd.Flags().BoolVar(&appendFlag, "append", false,
		"Append to an existing data file whose header matches the survey")
	rootCmd.Flags().BoolVar(&noReviewFlag, "no-review", false,
		"Save each entry without the confirmation step")
	rootCmd.Flags().StringVar(&logFileFlag, "log-file", "",
		"Write JSON logs to this file (default: no logging)")
	rootCmd.Flags().StringVar(&logLevelFlag, "log-level", "info",
		"Log level: debug, info, warn, error")
}

// runCollect opens the data file and runs the survey screen until the user
// quits.
func runCollect(cmd *cobra.Command, args []string) error {
	logger, err := logging.New(logFileFlag, logLevelFlag)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctrl, err := newController(args[0], logger)
	if err != nil {
		return err
	}

	logger.Info("survey started", zap.String("path", args[0]))
	defer func() { logger.Info("survey stopped", zap.Int("saved", ctrl.Saved())) }()

	return tui.Run(cmd.Context(), ctrl, cmd.InOrStdin(), cmd.OutOrStdout(), tui.ColorEnabled())
}

// newController loads the survey, prepares the data file, and returns a
// session controller saving into it. Nothing is shown on screen before the
// data file is known to be usable.
func newController(path string, logger *zap.Logger) (*session.Controller, error) {
	cfg, err := loadSurvey(surveyFlag)
	if err != nil {
		return nil, err
	}
	def, err := cfg.Definition()
	if err != nil {
		return nil, fmt.Errorf("invalid survey: %w", err)
	}

	var s *store.Store
	if appendFlag {
		s, err = store.Open(path, def, store.WithLogger(logger))
	} else {
		s, err = store.Create(path, def, store.WithLogger(logger))
	}
	if errors.Is(err, store.ErrAlreadyExists) {
		return nil, fmt.Errorf("%w (use --append to continue it, or choose a new file)", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to prepare data file: %w", err)
	}

	review := cfg.ReviewEnabled() && !noReviewFlag
	return session.New(def, s,
		session.WithReview(review),
		session.WithLogger(logger),
	), nil
}

// loadSurvey returns the survey config from path, from $PEANUT_SURVEY_DEFINITION,
// or the built-in default, in that order.
func loadSurvey(path string) (*survey.Config, error) {
	if path == "" {
		path = os.Getenv(surveyEnv)
	}
	if path == "" {
		return survey.Default()
	}
	return survey.LoadFile(path)
}
