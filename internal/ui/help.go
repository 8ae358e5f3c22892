package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HelpRenderer handles help content rendering
type HelpRenderer struct{}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer() *HelpRenderer {
	return &HelpRenderer{}
}

type helpEntry struct {
	keys string
	desc string
}

type helpSection struct {
	title   string
	entries []helpEntry
}

var helpSections = []helpSection{
	{"Navigation", []helpEntry{
		{"↑/↓, j/k", "Move between results"},
		{"PgUp/PgDn", "Page up/down"},
		{"gg/G", "Go to top/bottom"},
		{"", "Scrolling near the end loads the next page"},
	}},
	{"Search", []helpEntry{
		{"/", "Edit the search text (results update as you type)"},
		{"Tab", "Pick a custom emoji while searching (inserts :name: at the cursor)"},
		{"x", "Toggle exact match"},
		{"Enter", "Finish editing"},
		{"Esc", "Cancel editing and restore the previous value"},
	}},
	{"Filters", []helpEntry{
		{"a", "Filter by author name"},
		{"f / t", "Date from / to (YYYY-MM-DD, empty clears)"},
		{"v", "Pick a video (picking the selected one clears it)"},
		{"o", "Toggle sort order (newest/oldest video first)"},
		{"T", "Cycle message type: all, chat, transcript"},
		{"c", "Clear filters, keep the search text"},
	}},
	{"Results", []helpEntry{
		{"Enter", "Show the message in the pager"},
		{"w", "Watch the video at the message's offset"},
		{"r", "Retry the search"},
	}},
	{"Please note", []helpEntry{
		{"", "Transcripts are machine generated and can be wrong. Check the video itself."},
		{"", "Song streams are not searchable because of lyric copyright."},
		{"", "Videos made private on the channel drop out of the results, sometimes with a delay."},
		{"", "Some fully voiced game audio has been transcribed by mistake."},
	}},
	{"Other", []helpEntry{
		{"?", "Show this help"},
		{"q", "Quit"},
	}},
}

// RenderHelpContent generates help content with colors for the pager
func (r *HelpRenderer) RenderHelpContent() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	noteStyle := lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241"))

	var help strings.Builder

	help.WriteString(titleStyle.Render("utsulog Help"))
	help.WriteString("\n")

	for _, section := range helpSections {
		help.WriteString(sectionStyle.Render(section.title))
		help.WriteString("\n")
		for _, e := range section.entries {
			if e.keys == "" {
				help.WriteString(noteStyle.Render("  " + e.desc))
				help.WriteString("\n")
				continue
			}
			help.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render(fmt.Sprintf("%-10s", e.keys)), descStyle.Render(e.desc)))
		}
		help.WriteString("\n")
	}

	help.WriteString(noteStyle.Render("  A search needs text, an author or a video. Dates, sort and type only narrow it."))

	return help.String()
}
