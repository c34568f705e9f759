package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Prompt       *lipgloss.Style
	Query        *lipgloss.Style
	Status       *lipgloss.Style
	Item         *lipgloss.Style
	Marker       *lipgloss.Style
	SelectedItem *lipgloss.Style
	Cursor       *lipgloss.Style
}

var defaultStyles = Styles{
	Prompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	Query: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
	),
	Status: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	),
	Item: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Marker: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
	),
	SelectedItem: ptr(
		lipgloss.NewStyle().Reverse(true).Bold(true),
	),
	Cursor: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("33")).Blink(true),
	),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

// DisableColor renders every style without colour sequences.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
