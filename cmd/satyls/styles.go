package main

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// styles renders command output.
type styles struct {
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Info     lipgloss.Style
	FilePath lipgloss.Style
	Location lipgloss.Style
	Code     lipgloss.Style
	Rule     lipgloss.Style
	Range    lipgloss.Style
	Text     lipgloss.Style
	Success  lipgloss.Style
	Failure  lipgloss.Style
}

// newStyles returns colored styles when w is a terminal and NO_COLOR is unset.
func newStyles(w io.Writer) *styles {
	if !colorEnabled(w) {
		plain := lipgloss.NewStyle()

		return &styles{
			Error:    plain,
			Warning:  plain,
			Info:     plain,
			FilePath: plain,
			Location: plain,
			Code:     plain,
			Rule:     plain,
			Range:    plain,
			Text:     plain,
			Success:  plain,
			Failure:  plain,
		}
	}

	return &styles{
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Info:     lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		FilePath: lipgloss.NewStyle().Bold(true),
		Location: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Code:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Rule:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Range:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Text:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Failure:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
}

func colorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	f, ok := w.(*os.File)

	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
