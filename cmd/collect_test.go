package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/peanut-survey/peanut-survey/internal/session"
	"github.com/peanut-survey/peanut-survey/internal/store"
)

func resetCollectFlags(t *testing.T) {
	t.Helper()
	surveyFlag = ""
	appendFlag = false
	noReviewFlag = false
	logFileFlag = ""
	logLevelFlag = "info"
	t.Setenv(surveyEnv, "")
}

func TestNewController_CreatesFileWithHeader(t *testing.T) {
	resetCollectFlags(t)
	path := filepath.Join(t.TempDir(), "tasting.csv")

	ctrl, err := newController(path, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "Din TBF", ctrl.Current().Name)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"Timestamp,Din TBF,Vilken jordnöt?,Salt,Knaprig,Rostad,Flottig,Betygsätt totalupplevelsen,Kommentar\n",
		string(data))
}

func TestNewController_ExistingFileRefused(t *testing.T) {
	resetCollectFlags(t)
	path := filepath.Join(t.TempDir(), "tasting.csv")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o600))

	_, err := newController(path, zap.NewNop())
	require.ErrorIs(t, err, store.ErrAlreadyExists)
	assert.Contains(t, err.Error(), "--append")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old\n", string(data))
}

func TestNewController_AppendMode(t *testing.T) {
	resetCollectFlags(t)
	path := filepath.Join(t.TempDir(), "tasting.csv")
	_, err := newController(path, zap.NewNop())
	require.NoError(t, err)

	appendFlag = true
	noReviewFlag = true
	ctrl, err := newController(path, zap.NewNop())
	require.NoError(t, err)

	for _, a := range []string{"apk", "3", "1", "2", "3", "4", "5", "mums"} {
		_, err := ctrl.Submit(context.Background(), a)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, ctrl.Saved())
	assert.Equal(t, session.ModeAsking, ctrl.State().Mode)

	table, err := store.ReadAll(path)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"APK", "3", "1", "2", "3", "4", "5", "mums"}, table.Rows[0][1:])
}

func TestNewController_AppendHeaderMismatch(t *testing.T) {
	resetCollectFlags(t)
	path := filepath.Join(t.TempDir(), "tasting.csv")
	require.NoError(t, store.CreateFile(path, []string{"Timestamp", "Other"}))

	appendFlag = true
	_, err := newController(path, zap.NewNop())
	assert.ErrorIs(t, err, store.ErrHeaderMismatch)
}

func TestNewController_SurveyFromEnv(t *testing.T) {
	resetCollectFlags(t)
	surveyPath := writeSurvey(t, "title: mini\nreview: false\nfields: [{name: Betyg, rule: {kind: range, min: 1, max: 3}}]")
	t.Setenv(surveyEnv, surveyPath)

	path := filepath.Join(t.TempDir(), "mini.csv")
	ctrl, err := newController(path, zap.NewNop())
	require.NoError(t, err)

	out, err := ctrl.Submit(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, session.Completed, out, "review: false saves directly")
}

func TestNewController_BadSurvey(t *testing.T) {
	resetCollectFlags(t)
	surveyFlag = filepath.Join(t.TempDir(), "missing.yaml")

	path := filepath.Join(t.TempDir(), "x.csv")
	_, err := newController(path, zap.NewNop())
	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "data file must not be created for a bad survey")
}

func TestRootCommand_RequiresOnePath(t *testing.T) {
	assert.Error(t, rootCmd.Args(rootCmd, nil))
	assert.Error(t, rootCmd.Args(rootCmd, []string{"a.csv", "b.csv"}))
	assert.NoError(t, rootCmd.Args(rootCmd, []string{"a.csv"}))
}
