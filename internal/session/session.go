// Package session drives the collection of one survey record at a time:
// asking each field in order, handling cancel confirmation, review and
// saving, then starting over with a fresh record.
package session

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/peanut-survey/peanut-survey/internal/survey"
)

// Mode is the controller state.
type Mode int

const (
	// ModeAsking waits for an answer to the current field.
	ModeAsking Mode = iota
	// ModeConfirmingCancel waits for the user to confirm or deny a cancel.
	ModeConfirmingCancel
	// ModeReviewing shows all answers and waits for save/discard.
	ModeReviewing
	// ModeSaveFailed holds a completed record whose save failed.
	ModeSaveFailed
)

func (m Mode) String() string {
	switch m {
	case ModeAsking:
		return "asking"
	case ModeConfirmingCancel:
		return "confirming-cancel"
	case ModeReviewing:
		return "reviewing"
	case ModeSaveFailed:
		return "save-failed"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Outcome tells the caller what a transition did to the current record.
type Outcome int

const (
	// Continue means the same record is still being collected.
	Continue Outcome = iota
	// Restart means the record was discarded and a new one started.
	Restart
	// Completed means the record was saved and a new one started.
	Completed
)

func (o Outcome) String() string {
	switch o {
	case Restart:
		return "restart"
	case Completed:
		return "completed"
	default:
		return "continue"
	}
}

// ErrInvalidTransition is returned when an action does not apply to the
// current mode.
var ErrInvalidTransition = errors.New("invalid transition")

// Saver persists completed records.
type Saver interface {
	Append(ctx context.Context, rec *survey.Record) error
}

// State is a snapshot of the controller. Prev is the mode to return to when
// a cancel is denied. Err is the last save error while in ModeSaveFailed.
type State struct {
	Mode   Mode
	Field  int
	Prev   Mode
	Record *survey.Record
	Err    error
}

// Answer pairs a field with its captured value.
type Answer struct {
	Field survey.FieldSpec
	Value survey.Value
}

// Option configures a Controller.
type Option func(*Controller)

// WithReview enables or disables the review step before saving.
func WithReview(enabled bool) Option {
	return func(c *Controller) { c.review = enabled }
}

// WithLogger sets the logger for state transitions.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// Controller is the per-record state machine. It is driven by a single
// input loop and is not safe for concurrent use.
type Controller struct {
	def    *survey.Definition
	saver  Saver
	review bool
	logger *zap.Logger

	state State
	saved int
}

// New returns a controller positioned at the first field of a new record.
func New(def *survey.Definition, saver Saver, opts ...Option) *Controller {
	c := &Controller{
		def:    def,
		saver:  saver,
		review: true,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.reset()
	return c
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	return c.state
}

// Definition returns the survey definition being collected.
func (c *Controller) Definition() *survey.Definition {
	return c.def
}

// Saved returns how many records were saved by this controller.
func (c *Controller) Saved() int {
	return c.saved
}

// Current returns the field being asked. While confirming a cancel it is the
// field the user will return to.
func (c *Controller) Current() survey.FieldSpec {
	i := c.state.Field
	if i >= c.def.Len() {
		i = c.def.Len() - 1
	}
	return c.def.Field(i)
}

// Answers returns the values captured so far, in field order.
func (c *Controller) Answers() []Answer {
	answers := make([]Answer, 0, c.state.Record.Len())
	for _, f := range c.def.Fields() {
		if v, ok := c.state.Record.Values[f.Name]; ok {
			answers = append(answers, Answer{Field: f, Value: v})
		}
	}
	return answers
}

// Submit answers the current field. A rejected answer returns Continue with
// a *survey.ValidationError and leaves the state unchanged. Answering the
// last field moves to review, or saves directly when review is disabled.
func (c *Controller) Submit(ctx context.Context, text string) (Outcome, error) {
	if c.state.Mode != ModeAsking {
		return Continue, c.invalid("submit")
	}

	f := c.def.Field(c.state.Field)
	v, err := f.Convert(text)
	if err != nil {
		c.logger.Debug("answer rejected",
			zap.Stringer("record", c.state.Record.ID),
			zap.String("field", f.Name),
			zap.Error(err))
		return Continue, err
	}

	c.state.Record.Set(f.Name, v)
	c.state.Field++
	c.logger.Debug("answer accepted",
		zap.Stringer("record", c.state.Record.ID),
		zap.String("field", f.Name))

	if c.state.Field < c.def.Len() {
		return Continue, nil
	}
	if c.review {
		c.state.Mode = ModeReviewing
		return Continue, nil
	}
	return c.save(ctx)
}

// Cancel asks for confirmation before discarding the record. It applies
// while asking or reviewing and is ignored in other modes.
func (c *Controller) Cancel() Outcome {
	switch c.state.Mode {
	case ModeAsking, ModeReviewing:
		c.state.Prev = c.state.Mode
		c.state.Mode = ModeConfirmingCancel
		c.logger.Debug("cancel requested",
			zap.Stringer("record", c.state.Record.ID),
			zap.Stringer("from", c.state.Prev))
	}
	return Continue
}

// ConfirmCancel resolves a pending cancel. Confirming discards every answer
// and restarts at the first field; denying returns to the previous mode with
// earlier answers intact.
func (c *Controller) ConfirmCancel(confirm bool) (Outcome, error) {
	if c.state.Mode != ModeConfirmingCancel {
		return Continue, c.invalid("confirm cancel")
	}
	if confirm {
		c.logger.Info("record canceled", zap.Stringer("record", c.state.Record.ID))
		c.reset()
		return Restart, nil
	}
	c.state.Mode = c.state.Prev
	return Continue, nil
}

// Review resolves the review step: accept saves the record, reject discards
// it.
func (c *Controller) Review(ctx context.Context, accept bool) (Outcome, error) {
	if c.state.Mode != ModeReviewing {
		return Continue, c.invalid("review")
	}
	if !accept {
		c.logger.Info("record rejected at review", zap.Stringer("record", c.state.Record.ID))
		c.reset()
		return Restart, nil
	}
	return c.save(ctx)
}

// RetrySave tries to save a record whose previous save failed.
func (c *Controller) RetrySave(ctx context.Context) (Outcome, error) {
	if c.state.Mode != ModeSaveFailed {
		return Continue, c.invalid("retry save")
	}
	return c.save(ctx)
}

// Discard abandons a record whose save failed.
func (c *Controller) Discard() (Outcome, error) {
	if c.state.Mode != ModeSaveFailed {
		return Continue, c.invalid("discard")
	}
	c.logger.Warn("unsaved record discarded", zap.Stringer("record", c.state.Record.ID))
	c.reset()
	return Restart, nil
}

// save hands the record to the Saver. On failure the record is kept and the
// controller waits in ModeSaveFailed for a retry or discard.
func (c *Controller) save(ctx context.Context) (Outcome, error) {
	rec := c.state.Record
	if err := c.saver.Append(ctx, rec); err != nil {
		c.state.Mode = ModeSaveFailed
		c.state.Err = err
		c.logger.Error("save failed", zap.Stringer("record", rec.ID), zap.Error(err))
		return Continue, err
	}
	c.saved++
	c.logger.Info("record completed", zap.Stringer("record", rec.ID), zap.Int("saved", c.saved))
	c.reset()
	return Completed, nil
}

func (c *Controller) reset() {
	c.state = State{Mode: ModeAsking, Record: survey.NewRecord()}
}

func (c *Controller) invalid(action string) error {
	return fmt.Errorf("%w: %s while %s", ErrInvalidTransition, action, c.state.Mode)
}
