// Package tui is the terminal front end of peanut-survey: a bubbletea
// program that renders the current question and feeds keystrokes into the
// session controller.
package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// ColorEnabled decides whether styles use color.
// Priority: PEANUT_SURVEY_COLOR env > NO_COLOR env > auto-detect stdout TTY.
func ColorEnabled() bool {
	if v := os.Getenv("PEANUT_SURVEY_COLOR"); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

var (
	colorAccent  = lipgloss.Color("#8BC34A")
	colorMuted   = lipgloss.Color("#7a8699")
	colorError   = lipgloss.Color("#e53935")
	colorWarning = lipgloss.Color("#FFC107")
	colorInfo    = lipgloss.Color("#2196F3")
)

// Styles holds the lipgloss styles used by the survey screen.
type Styles struct {
	Title    lipgloss.Style
	Section  lipgloss.Style
	Answered lipgloss.Style
	Prompt   lipgloss.Style
	Error    lipgloss.Style
	Saved    lipgloss.Style
	Canceled lipgloss.Style
	Question lipgloss.Style
	Help     lipgloss.Style
}

// DefaultStyles returns the survey styles. With color off every style is
// plain text.
func DefaultStyles(color bool) Styles {
	if !color {
		plain := lipgloss.NewStyle()
		return Styles{
			Title: plain, Section: plain, Answered: plain, Prompt: plain,
			Error: plain, Saved: plain, Canceled: plain, Question: plain, Help: plain,
		}
	}
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		Section:  lipgloss.NewStyle().Bold(true).Underline(true),
		Answered: lipgloss.NewStyle().Foreground(colorMuted),
		Prompt:   lipgloss.NewStyle().Bold(true),
		Error:    lipgloss.NewStyle().Foreground(colorError),
		Saved:    lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		Canceled: lipgloss.NewStyle().Bold(true).Foreground(colorWarning),
		Question: lipgloss.NewStyle().Bold(true).Foreground(colorInfo),
		Help:     lipgloss.NewStyle().Foreground(colorMuted).Italic(true),
	}
}
