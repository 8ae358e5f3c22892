package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"utsulog/internal/domain"
	"utsulog/internal/format"
	"utsulog/internal/session"
	"utsulog/internal/ui/input/keys"
)

// chromeRows is every row that is not the result list: container padding,
// header, filter bar, input line, blank lines and the three footer lines.
const chromeRows = 10

// ListHeight returns the rows left for the result list on a terminal of the given height
func ListHeight(height int) int {
	if height <= 0 {
		height = 24
	}
	rows := height - chromeRows
	if rows < 3 {
		rows = 3
	}
	return rows
}

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width  int
	Height int

	Criteria     domain.SearchCriteria
	Pagination   session.PaginationState
	Pending      bool // debounce window open
	SearchFailed bool // the last request for the current criteria failed

	SelectedIndex  int
	ViewportOffset int
	ViewportHeight int
	VisibleCards   int

	VideoTitles map[string]string
	Emojis      domain.EmojiMap

	InputActive bool
	InputPrompt string
	TextInput   string // rendered text input
	InputError  string
	InputEmoji  bool // tab opens the emoji picker

	StatusMessage string
	StatusIsError bool
	Spinner       string

	ShowPicker  bool
	Videos      []domain.Video
	PickerIndex int // highlighted row of whichever picker is open

	ShowEmojis bool
	EmojiNames []string

	HelpModel help.Model
	Keys      keys.KeyMap
}

// Renderer handles all view rendering
type Renderer struct {
	styles       *Styles
	resultRender *ResultRenderer
	popupRender  *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer(dateLayout string) *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:       styles,
		resultRender: NewResultRenderer(styles, dateLayout),
		popupRender:  NewPopupRenderer(styles),
	}
}

// Results exposes the card renderer for the detail pager
func (r *Renderer) Results() *ResultRenderer {
	return r.resultRender
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80 // Default terminal width
	}
	innerWidth := termWidth - 4 // Account for main container padding

	content := &strings.Builder{}

	content.WriteString(r.renderTitleLine(state, innerWidth))
	content.WriteString("\n")
	content.WriteString(r.renderFilterBar(state.Criteria, state.VideoTitles))
	content.WriteString("\n")

	// Input line is always reserved so the list does not jump
	switch {
	case state.InputActive:
		content.WriteString(r.styles.Prompt.Render(state.InputPrompt) + state.TextInput)
		if state.InputError != "" {
			content.WriteString("  " + r.styles.StatusError.Render(state.InputError))
		}
	case state.InputError != "":
		content.WriteString(r.styles.StatusError.Render(state.InputError))
	}
	content.WriteString("\n\n")

	content.WriteString(r.renderList(state, innerWidth))

	// Pad so the footer sits at the bottom
	currentLines := strings.Count(content.String(), "\n") + 1
	availableLines := state.Height - 2
	if availableLines <= 0 {
		availableLines = 22 // Default terminal height minus padding
	}
	if paddingNeeded := availableLines - currentLines - 3; paddingNeeded > 0 {
		content.WriteString(strings.Repeat("\n", paddingNeeded))
	}

	content.WriteString("\n")
	content.WriteString(r.renderCountLine(state))
	content.WriteString("\n")
	content.WriteString(r.renderStatusLine(state))
	content.WriteString("\n")
	content.WriteString(r.renderHelpLine(state))

	mainStyle := r.styles.Main
	if state.Height > 0 {
		mainStyle = mainStyle.MaxHeight(state.Height)
	}
	finalContent := mainStyle.Render(content.String())

	if state.ShowPicker {
		picker := r.popupRender.RenderVideoPicker(state.Videos, state.PickerIndex, state.Criteria.VideoID, termWidth)
		return r.popupRender.RenderPopupOverlay(finalContent, picker, state.Height, termWidth, r.styles.PickerBox)
	}
	if state.ShowEmojis {
		picker := r.popupRender.RenderEmojiPicker(state.EmojiNames, state.PickerIndex, termWidth)
		return r.popupRender.RenderPopupOverlay(finalContent, picker, state.Height, termWidth, r.styles.PickerBox)
	}

	return finalContent
}

// renderTitleLine renders the title with right-aligned loading indicator
func (r *Renderer) renderTitleLine(state ViewState, width int) string {
	logo := r.styles.Title.Render("utsulog")

	rightContent := ""
	if state.Pagination.IsLoading {
		rightContent = r.styles.StatusLoading.Render(fmt.Sprintf("%s Searching", state.Spinner))
	} else if state.Pending {
		rightContent = r.styles.StatusLoading.Render("…")
	}
	if rightContent == "" {
		return logo
	}

	paddingWidth := width - lipgloss.Width(logo) - lipgloss.Width(rightContent)
	if paddingWidth > 0 {
		return logo + strings.Repeat(" ", paddingWidth) + rightContent
	}
	// If not enough space, just show with minimal spacing
	return fmt.Sprintf("%s  %s", logo, rightContent)
}

// renderFilterBar summarises the criteria, with non-default filters emphasised
func (r *Renderer) renderFilterBar(c domain.SearchCriteria, videoTitles map[string]string) string {
	item := func(active bool, text string) string {
		if active {
			return r.styles.FilterActive.Render(text)
		}
		return r.styles.Filter.Render(text)
	}

	exact := "off"
	if c.ExactMatch {
		exact = "on"
	}
	sortOrder := c.SortOrder
	if sortOrder == "" {
		sortOrder = domain.SortDescending
	}
	msgType := c.MessageType
	if msgType == "" {
		msgType = domain.MessageAll
	}

	parts := []string{
		item(c.ExactMatch, "exact:"+exact),
		item(sortOrder != domain.SortDescending, "sort:"+string(sortOrder)),
		item(msgType != domain.MessageAll, "type:"+string(msgType)),
	}
	if c.DateFrom != nil {
		parts = append(parts, item(true, "from:"+domain.FormatDate(c.DateFrom)))
	}
	if c.DateTo != nil {
		parts = append(parts, item(true, "to:"+domain.FormatDate(c.DateTo)))
	}
	if c.AuthorName != "" {
		parts = append(parts, item(true, "author:"+c.AuthorName))
	}
	if c.VideoID != "" {
		title := videoTitles[c.VideoID]
		if title == "" {
			title = c.VideoID
		}
		parts = append(parts, item(true, "video:"+title))
	}

	query := r.styles.Dim.Render("no query")
	if c.QueryText != "" {
		query = fmt.Sprintf("%q", c.QueryText)
	}
	return query + "  " + strings.Join(parts, " ")
}

// renderList renders the visible result cards or the matching empty state
func (r *Renderer) renderList(state ViewState, width int) string {
	results := state.Pagination.Results

	if len(results) == 0 {
		switch {
		case state.Criteria.IsEmpty():
			return r.styles.Dim.Render("Type / to search")
		case state.Pending || state.Pagination.IsLoading:
			return r.styles.Dim.Render(state.Spinner + " Searching…")
		case state.SearchFailed:
			return r.styles.Dim.Render("Search failed. Press r to retry.")
		default:
			return r.styles.Dim.Render("No results found.")
		}
	}

	terms := format.Terms(state.Criteria.QueryText, state.Criteria.ExactMatch)
	visible := state.VisibleCards
	if visible < 1 {
		visible = 1
	}

	var lines []string
	if state.ViewportOffset > 0 {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↑ %d more above ↑", state.ViewportOffset)))
	}

	end := state.ViewportOffset + visible
	if end > len(results) {
		end = len(results)
	}
	for i := state.ViewportOffset; i < end; i++ {
		item := results[i]
		card := r.resultRender.RenderCard(item, state.VideoTitles[item.VideoID], terms, state.Emojis,
			i == state.SelectedIndex, width)
		lines = append(lines, card...)
		lines = append(lines, "")
	}

	// Add bottom scroll indicator
	if itemsBelow := len(results) - end; itemsBelow > 0 {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↓ %d more below ↓", itemsBelow)))
	} else if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	return strings.Join(lines, "\n")
}

// renderCountLine shows "n of total results" and the end-of-results marker
func (r *Renderer) renderCountLine(state ViewState) string {
	p := state.Pagination
	if len(p.Results) == 0 {
		return ""
	}
	count := r.styles.Dim.Render(fmt.Sprintf("%d of %d results", len(p.Results), p.TotalCount))
	switch {
	case p.IsLoading:
		return count + "  " + r.styles.StatusLoading.Render("Loading more…")
	case !p.HasMore:
		return count + "  " + r.styles.EndMarker.Render("No more results.")
	}
	return count
}

// renderStatusLine shows the latest status or advisory
func (r *Renderer) renderStatusLine(state ViewState) string {
	if state.StatusMessage == "" {
		return ""
	}
	if state.StatusIsError {
		return r.styles.StatusError.Render(state.StatusMessage)
	}
	return r.styles.StatusSuccess.Render(state.StatusMessage)
}

// renderHelpLine renders the short key help for the active mode
func (r *Renderer) renderHelpLine(state ViewState) string {
	switch {
	case state.ShowPicker:
		return r.styles.Help.Render("j/k move • enter toggle • esc close")
	case state.ShowEmojis:
		return r.styles.Help.Render("j/k move • enter insert • esc back")
	case state.InputActive && state.InputEmoji:
		return r.styles.Help.Render("enter done • tab emoji • esc cancel")
	case state.InputActive:
		return r.styles.Help.Render("enter done • esc cancel")
	}
	return state.HelpModel.View(state.Keys)
}
