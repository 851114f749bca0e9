package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/peanut-survey/peanut-survey/internal/session"
	"github.com/peanut-survey/peanut-survey/internal/survey"
)

// Screen texts.
const (
	msgSaved        = "Sparat!"
	msgCanceled     = "Avbruten!"
	msgConfirmAbort = "Avbryt denna jordnöt? Alla svar raderas. [j/n]"
	msgReviewTitle  = "Bekräfta uppgifter"
	msgReviewAsk    = "Spara detta svar? [j/n]"
	msgSaveFailed   = "Kunde inte spara svaret"

	helpAsking     = "enter: svara • esc: avbryt jordnöt • ctrl+c: avsluta"
	helpConfirm    = "j: ja, radera svaren • n: nej, fortsätt"
	helpReview     = "j: spara • n: kasta • esc: avbryt"
	helpSaveFailed = "enter: försök igen • esc: kasta svaret • ctrl+c: avsluta"
)

// Model is the bubbletea model for one survey session.
type Model struct {
	ctx    context.Context
	ctrl   *session.Controller
	input  textinput.Model
	styles Styles

	errMsg string
	status string
}

// NewModel returns a model driving ctrl. ctx is passed to every save.
func NewModel(ctx context.Context, ctrl *session.Controller, styles Styles) Model {
	ti := textinput.New()
	ti.CharLimit = 500
	ti.Width = 60
	ti.Focus()

	m := Model{
		ctx:    ctx,
		ctrl:   ctrl,
		input:  ti,
		styles: styles,
	}
	m.syncPrompt()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	if key.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.ctrl.State().Mode {
	case session.ModeAsking:
		return m.updateAsking(key)
	case session.ModeConfirmingCancel:
		switch strings.ToLower(key.String()) {
		case "j", "y":
			return m.apply(m.ctrl.ConfirmCancel(true))
		case "n", "esc":
			return m.apply(m.ctrl.ConfirmCancel(false))
		}
	case session.ModeReviewing:
		switch strings.ToLower(key.String()) {
		case "j", "y":
			return m.apply(m.ctrl.Review(m.ctx, true))
		case "n":
			return m.apply(m.ctrl.Review(m.ctx, false))
		case "esc":
			m.ctrl.Cancel()
		}
	case session.ModeSaveFailed:
		switch key.Type {
		case tea.KeyEnter:
			return m.apply(m.ctrl.RetrySave(m.ctx))
		case tea.KeyEsc:
			return m.apply(m.ctrl.Discard())
		}
	}
	return m, nil
}

func (m Model) updateAsking(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.ctrl.Cancel()
		m.input.Reset()
		m.errMsg = ""
		return m, nil
	case tea.KeyEnter:
		return m.apply(m.ctrl.Submit(m.ctx, m.input.Value()))
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return m, cmd
}

// apply updates the screen after a controller transition.
func (m Model) apply(out session.Outcome, err error) (tea.Model, tea.Cmd) {
	var verr *survey.ValidationError
	switch {
	case errors.As(err, &verr):
		m.errMsg = verr.Message
		m.input.SetCursor(verr.Caret)
		return m, nil
	case err != nil:
		// Save failures are rendered from the controller state.
		if m.ctrl.State().Mode != session.ModeSaveFailed {
			m.errMsg = err.Error()
		}
		return m, nil
	}

	m.errMsg = ""
	m.input.Reset()
	m.syncPrompt()
	switch out {
	case session.Completed:
		m.status = msgSaved
		return m, tea.ClearScreen
	case session.Restart:
		m.status = msgCanceled
		return m, tea.ClearScreen
	}
	return m, nil
}

func (m *Model) syncPrompt() {
	m.input.Prompt = m.styles.Prompt.Render(m.ctrl.Current().Prompt()+":") + " "
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	st := m.ctrl.State()

	b.WriteString(m.styles.Title.Render(strings.ToUpper(m.ctrl.Definition().Title)))
	fmt.Fprintf(&b, "  (%d sparade)\n", m.ctrl.Saved())
	if m.status != "" && st.Record.Len() == 0 && st.Mode == session.ModeAsking {
		style := m.styles.Saved
		if m.status == msgCanceled {
			style = m.styles.Canceled
		}
		b.WriteString(style.Render(m.status) + "\n")
	}
	b.WriteString("\n")

	switch st.Mode {
	case session.ModeAsking:
		m.viewAnswered(&b)
		if section := m.ctrl.Current().Section; section != "" && !m.sectionShown(section) {
			b.WriteString(m.styles.Section.Render(section) + "\n")
		}
		b.WriteString(m.input.View() + "\n")
		if m.errMsg != "" {
			b.WriteString(m.styles.Error.Render(m.errMsg) + "\n")
		}
		b.WriteString("\n" + m.styles.Help.Render(helpAsking))
	case session.ModeConfirmingCancel:
		b.WriteString(m.styles.Question.Render(msgConfirmAbort) + "\n")
		b.WriteString("\n" + m.styles.Help.Render(helpConfirm))
	case session.ModeReviewing:
		b.WriteString(m.styles.Section.Render(msgReviewTitle) + "\n")
		b.WriteString(m.summary() + "\n\n")
		b.WriteString(m.styles.Question.Render(msgReviewAsk) + "\n")
		b.WriteString("\n" + m.styles.Help.Render(helpReview))
	case session.ModeSaveFailed:
		b.WriteString(m.summary() + "\n\n")
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("%s: %v", msgSaveFailed, st.Err)) + "\n")
		b.WriteString("\n" + m.styles.Help.Render(helpSaveFailed))
	}
	return b.String() + "\n"
}

// viewAnswered lists the answers already given for the current record,
// with section headings where a section starts.
func (m Model) viewAnswered(b *strings.Builder) {
	section := ""
	for _, a := range m.ctrl.Answers() {
		if a.Field.Section != "" && a.Field.Section != section {
			b.WriteString(m.styles.Section.Render(a.Field.Section) + "\n")
		}
		section = a.Field.Section
		b.WriteString(m.styles.Answered.Render(fmt.Sprintf("%s: %s", label(a.Field), a.Value)) + "\n")
	}
}

// sectionShown reports whether the previous answered field already opened
// section.
func (m Model) sectionShown(section string) bool {
	answers := m.ctrl.Answers()
	return len(answers) > 0 && answers[len(answers)-1].Field.Section == section
}

// summary renders all answers with labels padded to a common width.
func (m Model) summary() string {
	answers := m.ctrl.Answers()
	width := 0
	for _, a := range answers {
		if w := lipgloss.Width(label(a.Field)); w > width {
			width = w
		}
	}
	lines := make([]string, 0, len(answers))
	for _, a := range answers {
		l := label(a.Field) + ":"
		pad := width + 1 - lipgloss.Width(l)
		lines = append(lines, fmt.Sprintf("%s%s %s", l, strings.Repeat(" ", pad), a.Value))
	}
	return strings.Join(lines, "\n")
}

func label(f survey.FieldSpec) string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}
