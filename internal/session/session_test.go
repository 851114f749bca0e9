package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/peanut-survey/peanut-survey/internal/store"
	"github.com/peanut-survey/peanut-survey/internal/survey"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSaver struct {
	saved []*survey.Record
	err   error
}

func (f *fakeSaver) Append(_ context.Context, rec *survey.Record) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, rec)
	return nil
}

func testDefinition(t *testing.T) *survey.Definition {
	t.Helper()
	def, err := survey.NewDefinition("test", []survey.FieldSpec{
		{Name: "Din TBF", Rule: survey.NewMemberOf([]string{"ARN", "ATG"}, false)},
		{Name: "Vilken jordnöt?", Rule: survey.IntegerRange{Min: 1, Max: 20}, Kind: survey.KindInteger},
		{Name: "Kommentar", Rule: survey.FreeText{}},
	})
	require.NoError(t, err)
	return def
}

func submitAll(t *testing.T, c *Controller, answers ...string) Outcome {
	t.Helper()
	var out Outcome
	for _, a := range answers {
		var err error
		out, err = c.Submit(context.Background(), a)
		require.NoError(t, err, "answer %q", a)
	}
	return out
}

func TestController_InitialState(t *testing.T) {
	c := New(testDefinition(t), &fakeSaver{})

	st := c.State()
	assert.Equal(t, ModeAsking, st.Mode)
	assert.Equal(t, 0, st.Field)
	assert.Equal(t, 0, st.Record.Len())
	assert.Equal(t, "Din TBF", c.Current().Name)
}

func TestController_RejectedAnswerStaysOnField(t *testing.T) {
	c := New(testDefinition(t), &fakeSaver{})
	submitAll(t, c, "arn")

	out, err := c.Submit(context.Background(), "21")
	assert.Equal(t, Continue, out)
	var verr *survey.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, 2, verr.Caret)

	st := c.State()
	assert.Equal(t, 1, st.Field)
	assert.Equal(t, ModeAsking, st.Mode)
	assert.Equal(t, 1, st.Record.Len())

	submitAll(t, c, "5")
	assert.Equal(t, survey.IntValue(5), c.State().Record.Values["Vilken jordnöt?"])
	assert.Equal(t, survey.StringValue("ARN"), c.State().Record.Values["Din TBF"])
}

func TestController_CompleteWithReview(t *testing.T) {
	saver := &fakeSaver{}
	c := New(testDefinition(t), saver)

	out := submitAll(t, c, "atg", "7", "gott")
	assert.Equal(t, Continue, out)
	assert.Equal(t, ModeReviewing, c.State().Mode)
	assert.Empty(t, saver.saved)

	answers := c.Answers()
	require.Len(t, answers, 3)
	assert.Equal(t, "Vilken jordnöt?", answers[1].Field.Name)
	assert.Equal(t, survey.IntValue(7), answers[1].Value)

	out, err := c.Review(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, Completed, out)
	require.Len(t, saver.saved, 1)
	assert.Equal(t, 1, c.Saved())

	st := c.State()
	assert.Equal(t, ModeAsking, st.Mode)
	assert.Equal(t, 0, st.Field)
	assert.Equal(t, 0, st.Record.Len())
	assert.NotEqual(t, saver.saved[0].ID, st.Record.ID)
}

func TestController_ReviewReject(t *testing.T) {
	saver := &fakeSaver{}
	c := New(testDefinition(t), saver)
	submitAll(t, c, "atg", "7", "")

	out, err := c.Review(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, Restart, out)
	assert.Empty(t, saver.saved)
	assert.Equal(t, 0, c.State().Field)
}

func TestController_CompleteWithoutReview(t *testing.T) {
	saver := &fakeSaver{}
	c := New(testDefinition(t), saver, WithReview(false))

	out := submitAll(t, c, "arn", "1", "")
	assert.Equal(t, Completed, out)
	require.Len(t, saver.saved, 1)
	assert.Equal(t, ModeAsking, c.State().Mode)
}

func TestController_CancelThenDeny(t *testing.T) {
	c := New(testDefinition(t), &fakeSaver{})
	submitAll(t, c, "arn", "3")

	assert.Equal(t, Continue, c.Cancel())
	st := c.State()
	assert.Equal(t, ModeConfirmingCancel, st.Mode)
	assert.Equal(t, ModeAsking, st.Prev)

	out, err := c.ConfirmCancel(false)
	require.NoError(t, err)
	assert.Equal(t, Continue, out)

	st = c.State()
	assert.Equal(t, ModeAsking, st.Mode)
	assert.Equal(t, 2, st.Field)
	assert.Equal(t, "Kommentar", c.Current().Name)
	assert.Equal(t, survey.StringValue("ARN"), st.Record.Values["Din TBF"])
	assert.Equal(t, survey.IntValue(3), st.Record.Values["Vilken jordnöt?"])
}

func TestController_CancelThenConfirm(t *testing.T) {
	saver := &fakeSaver{}
	c := New(testDefinition(t), saver)
	submitAll(t, c, "arn", "3")
	before := c.State().Record.ID

	c.Cancel()
	out, err := c.ConfirmCancel(true)
	require.NoError(t, err)
	assert.Equal(t, Restart, out)

	st := c.State()
	assert.Equal(t, ModeAsking, st.Mode)
	assert.Equal(t, 0, st.Field)
	assert.Equal(t, 0, st.Record.Len())
	assert.NotEqual(t, before, st.Record.ID)
	assert.Equal(t, "Din TBF", c.Current().Name)
	assert.Empty(t, saver.saved)
}

func TestController_CancelFromReview(t *testing.T) {
	c := New(testDefinition(t), &fakeSaver{})
	submitAll(t, c, "arn", "3", "x")

	c.Cancel()
	assert.Equal(t, ModeReviewing, c.State().Prev)

	_, err := c.ConfirmCancel(false)
	require.NoError(t, err)
	assert.Equal(t, ModeReviewing, c.State().Mode)
}

func TestController_CancelWhileConfirmingIsNoop(t *testing.T) {
	c := New(testDefinition(t), &fakeSaver{})
	c.Cancel()
	c.Cancel()

	st := c.State()
	assert.Equal(t, ModeConfirmingCancel, st.Mode)
	assert.Equal(t, ModeAsking, st.Prev)
}

func TestController_SaveFailureKeepsRecord(t *testing.T) {
	saver := &fakeSaver{err: errors.New("disk full")}
	c := New(testDefinition(t), saver, WithReview(false))

	_, err := c.Submit(context.Background(), "arn")
	require.NoError(t, err)
	_, err = c.Submit(context.Background(), "4")
	require.NoError(t, err)
	out, err := c.Submit(context.Background(), "x")
	require.Error(t, err)
	assert.Equal(t, Continue, out)

	st := c.State()
	assert.Equal(t, ModeSaveFailed, st.Mode)
	assert.EqualError(t, st.Err, "disk full")
	assert.Equal(t, 3, st.Record.Len())

	saver.err = nil
	out, err = c.RetrySave(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Completed, out)
	require.Len(t, saver.saved, 1)
	assert.Equal(t, survey.StringValue("x"), saver.saved[0].Values["Kommentar"])
}

func TestController_SaveFailureDiscard(t *testing.T) {
	saver := &fakeSaver{err: errors.New("disk full")}
	c := New(testDefinition(t), saver)
	submitAll(t, c, "arn", "4", "x")

	_, err := c.Review(context.Background(), true)
	require.Error(t, err)
	assert.Equal(t, ModeSaveFailed, c.State().Mode)

	out, err := c.Discard()
	require.NoError(t, err)
	assert.Equal(t, Restart, out)
	assert.Equal(t, ModeAsking, c.State().Mode)
	assert.Equal(t, 0, c.Saved())
}

func TestController_InvalidTransitions(t *testing.T) {
	c := New(testDefinition(t), &fakeSaver{})

	_, err := c.ConfirmCancel(true)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = c.Review(context.Background(), true)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = c.RetrySave(context.Background())
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = c.Discard()
	assert.ErrorIs(t, err, ErrInvalidTransition)

	c.Cancel()
	_, err = c.Submit(context.Background(), "arn")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Contains(t, err.Error(), "confirming-cancel")
}

func TestController_WithStore(t *testing.T) {
	scale := survey.IntegerRange{Min: 1, Max: 7}
	def, err := survey.NewDefinition("peanut", []survey.FieldSpec{
		{Name: "Din TBF", Rule: survey.NewMemberOf([]string{"APK", "KFB"}, false)},
		{Name: "Vilken jordnöt?", Rule: survey.IntegerRange{Min: 1, Max: 20}, Kind: survey.KindInteger},
		{Name: "Salt", Rule: scale, Kind: survey.KindInteger},
		{Name: "Knaprig", Rule: scale, Kind: survey.KindInteger},
		{Name: "Rostad", Rule: scale, Kind: survey.KindInteger},
		{Name: "Flottig", Rule: scale, Kind: survey.KindInteger},
		{Name: "Kommentar", Rule: survey.FreeText{}},
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.csv")
	s, err := store.Create(path, def)
	require.NoError(t, err)

	c := New(def, s, WithReview(false))
	out := submitAll(t, c, "kfb", "20", "1", "2", "3", "4", "krispig")
	assert.Equal(t, Completed, out)

	table, err := store.ReadAll(path)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"KFB", "20", "1", "2", "3", "4", "krispig"}, table.Rows[0][1:])
}
