package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/peanut-survey/peanut-survey/internal/session"
)

// Run starts the survey screen and blocks until the user quits with ctrl+c
// or ctx is canceled. The loop has no other exit; each completed record is
// saved by ctrl before the next one starts.
func Run(ctx context.Context, ctrl *session.Controller, in io.Reader, out io.Writer, color bool) error {
	m := NewModel(ctx, ctrl, DefaultStyles(color))
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("survey screen: %w", err)
	}
	return nil
}
