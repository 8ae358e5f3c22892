package views

import (
	"github.com/charmbracelet/lipgloss"

	"utsulog/internal/domain"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Dim           lipgloss.Style
	Prompt        lipgloss.Style
	Filter        lipgloss.Style
	FilterActive  lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Scroll        lipgloss.Style
	Highlight     lipgloss.Style
	Emoji         lipgloss.Style
	EmojiMatch    lipgloss.Style
	Author        lipgloss.Style
	Datetime      lipgloss.Style
	VideoTitle    lipgloss.Style
	StatusError   lipgloss.Style
	StatusLoading lipgloss.Style
	StatusSuccess lipgloss.Style
	SelectionBg   lipgloss.Style
	PickerBox     lipgloss.Style
	EndMarker     lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Dim:          lipgloss.NewStyle().Faint(true),
		Prompt:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Filter:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		FilterActive: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		Help:         lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().
			Padding(1, 2),
		Scroll:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Highlight:     lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		Emoji:         lipgloss.NewStyle().Foreground(lipgloss.Color("213")),
		EmojiMatch:    lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Underline(true),
		Author:        lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true),
		Datetime:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		VideoTitle:    lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		SelectionBg:   lipgloss.NewStyle().Background(lipgloss.Color("238")),
		PickerBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			BorderForeground(lipgloss.Color("39")),
		EndMarker: lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
	}
}

// TypeColor returns the badge color for a message type
func TypeColor(t domain.MessageType) string {
	if t == domain.MessageTranscript {
		return "51" // cyan
	}
	return "241"
}
