package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"utsulog/internal/domain"
)

// pickerRows is the number of catalog entries shown at once
const pickerRows = 10

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderVideoPicker renders the video catalog with the highlighted and filtered entries marked
func (pr *PopupRenderer) RenderVideoPicker(videos []domain.Video, index int, selectedID string, width int) string {
	var b strings.Builder
	b.WriteString(pr.styles.Title.Render("Filter by video"))
	b.WriteString("\n")

	if len(videos) == 0 {
		b.WriteString(pr.styles.Dim.Render("No videos loaded."))
		b.WriteString("\n")
		b.WriteString(pr.styles.Help.Render("esc close"))
		return b.String()
	}

	maxW := width - 12
	if maxW < 20 {
		maxW = 20
	}

	// Keep the highlighted row inside the window
	start := 0
	if index >= pickerRows {
		start = index - pickerRows + 1
	}
	end := start + pickerRows
	if end > len(videos) {
		end = len(videos)
	}

	if start > 0 {
		b.WriteString(pr.styles.Scroll.Render(fmt.Sprintf("↑ %d more above ↑", start)))
		b.WriteString("\n")
	}
	for i := start; i < end; i++ {
		v := videos[i]
		check := "[ ]"
		if v.VideoID == selectedID {
			check = "[x]"
		}
		date := v.ActualStartTime
		if len(date) >= len(domain.DateLayout) {
			date = date[:len(domain.DateLayout)]
		}
		line := ansi.Truncate(fmt.Sprintf("%s %s  %s", check, date, v.Title), maxW, "…")
		if i == index {
			line = pr.styles.SelectionBg.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if end < len(videos) {
		b.WriteString(pr.styles.Scroll.Render(fmt.Sprintf("↓ %d more below ↓", len(videos)-end)))
		b.WriteString("\n")
	}
	b.WriteString(pr.styles.Help.Render("enter toggle • esc close"))
	return b.String()
}

// RenderEmojiPicker renders the custom emoji shortcodes with the highlighted one marked
func (pr *PopupRenderer) RenderEmojiPicker(names []string, index int, width int) string {
	var b strings.Builder
	b.WriteString(pr.styles.Title.Render("Custom emoji"))
	b.WriteString("\n")

	if len(names) == 0 {
		b.WriteString(pr.styles.Dim.Render("No emoji loaded."))
		b.WriteString("\n")
		b.WriteString(pr.styles.Help.Render("esc back"))
		return b.String()
	}

	maxW := width - 12
	if maxW < 20 {
		maxW = 20
	}

	start := 0
	if index >= pickerRows {
		start = index - pickerRows + 1
	}
	end := min(start+pickerRows, len(names))

	if start > 0 {
		b.WriteString(pr.styles.Scroll.Render(fmt.Sprintf("↑ %d more above ↑", start)))
		b.WriteString("\n")
	}
	for i := start; i < end; i++ {
		line := ansi.Truncate(":"+names[i]+":", maxW, "…")
		if i == index {
			line = pr.styles.SelectionBg.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if end < len(names) {
		b.WriteString(pr.styles.Scroll.Render(fmt.Sprintf("↓ %d more below ↓", len(names)-end)))
		b.WriteString("\n")
	}
	b.WriteString(pr.styles.Help.Render("enter insert • esc back"))
	return b.String()
}

// RenderPopupOverlay renders a popup overlay on top of main content
func (pr *PopupRenderer) RenderPopupOverlay(mainContent, popupContent string, height, width int, popupStyle lipgloss.Style) string {
	styledPopup := popupStyle.Render(popupContent)

	modalW := lipgloss.Width(styledPopup)
	modalH := lipgloss.Height(styledPopup)
	x := (width - modalW) / 2
	y := (height - modalH) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	// Greyscale base, with the modal's rows replacing the base rows they cover
	base := strings.Split(desaturateANSI(mainContent), "\n")
	for len(base) < y+modalH {
		base = append(base, "")
	}
	for i, line := range strings.Split(styledPopup, "\n") {
		base[y+i] = strings.Repeat(" ", x) + line
	}
	return strings.Join(base, "\n")
}

// desaturateANSI strips ANSI color/style codes and recolors text dim gray
func desaturateANSI(s string) string {
	lines := strings.Split(ansi.Strip(s), "\n")
	gray := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	for i, line := range lines {
		lines[i] = gray.Render(line)
	}
	return strings.Join(lines, "\n")
}
