package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"utsulog/internal/domain"
	"utsulog/internal/format"
)

// ResultRenderer handles rendering of result cards
type ResultRenderer struct {
	styles     *Styles
	dateLayout string
}

// NewResultRenderer creates a new result renderer
func NewResultRenderer(styles *Styles, dateLayout string) *ResultRenderer {
	return &ResultRenderer{
		styles:     styles,
		dateLayout: dateLayout,
	}
}

// RenderCard renders one result as its meta line and message line
func (r *ResultRenderer) RenderCard(item domain.ResultItem, videoTitle string, terms []string,
	emojis domain.EmojiMap, isSelected bool, width int) []string {
	if width <= 0 {
		width = 76
	}

	bg := lipgloss.NewStyle()
	marker := "  "
	if isSelected {
		bg = r.styles.SelectionBg
		marker = "▌ "
	}

	// Meta line: datetime · elapsed · video title, then author and type badge
	datetime := format.Datetime(item.Datetime, r.dateLayout)
	if videoTitle == "" {
		videoTitle = item.VideoTitle
	}
	typeBadge := lipgloss.NewStyle().
		Foreground(lipgloss.Color(TypeColor(item.DisplayType()))).
		Render(fmt.Sprintf("[%s]", item.DisplayType()))

	meta := strings.Join([]string{
		r.styles.Datetime.Render(datetime),
		r.styles.Dim.Render(item.ElapsedTime),
		r.styles.VideoTitle.Render(videoTitle),
	}, " · ")
	author := r.styles.Author.Render(item.Author)
	metaLine := fmt.Sprintf("%s%s  %s %s", marker, author, typeBadge, meta)

	messageLine := "  " + r.renderMessage(item.Message, terms, emojis)

	return []string{
		bg.Render(ansi.Truncate(metaLine, width, "…")),
		bg.Render(ansi.Truncate(messageLine, width, "…")),
	}
}

// renderMessage styles highlight and emoji segments of a message
func (r *ResultRenderer) renderMessage(message string, terms []string, emojis domain.EmojiMap) string {
	// Messages render on a single line
	message = strings.Join(strings.Fields(message), " ")

	var b strings.Builder
	for _, seg := range format.Tokenize(message, terms, emojis) {
		switch seg.Kind {
		case format.SegmentHighlight:
			b.WriteString(r.styles.Highlight.Render(seg.Text))
		case format.SegmentEmoji:
			// Terminals cannot show the image; keep the shortcode, styled
			if seg.Highlighted {
				b.WriteString(r.styles.EmojiMatch.Render(seg.Text))
			} else {
				b.WriteString(r.styles.Emoji.Render(seg.Text))
			}
		default:
			b.WriteString(seg.Text)
		}
	}
	return b.String()
}

// RenderDetail renders a result for the pager, unwrapped and with its links
func (r *ResultRenderer) RenderDetail(item domain.ResultItem, videoTitle string, terms []string,
	emojis domain.EmojiMap, showThumbnail bool) string {
	if videoTitle == "" {
		videoTitle = item.VideoTitle
	}

	label := lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	var b strings.Builder
	b.WriteString(r.styles.Title.Render(videoTitle))
	b.WriteString("\n\n")

	field := func(name, value string) {
		if value == "" {
			return
		}
		b.WriteString(fmt.Sprintf("%s %s\n", label.Render(fmt.Sprintf("%-10s", name)), value))
	}
	field("Author", item.Author)
	field("Channel", item.AuthorChannelID)
	field("Posted", format.Datetime(item.Datetime, r.dateLayout))
	field("Offset", item.ElapsedTime)
	field("Type", string(item.DisplayType()))
	field("Watch", format.WatchURL(item.VideoID, item.ElapsedTime))
	if showThumbnail {
		field("Thumbnail", item.ThumbnailURL)
	}

	b.WriteString("\n")
	b.WriteString(r.renderMessage(item.Message, terms, emojis))
	b.WriteString("\n")

	// Emoji images cannot be shown inline, so list their URLs
	var emojiLines []string
	seen := make(map[string]bool)
	for _, seg := range format.Tokenize(item.Message, nil, emojis) {
		if seg.Kind == format.SegmentEmoji && !seen[seg.Text] {
			seen[seg.Text] = true
			emojiLines = append(emojiLines, fmt.Sprintf("  %s %s", r.styles.Emoji.Render(seg.Text), seg.URL))
		}
	}
	if len(emojiLines) > 0 {
		b.WriteString("\n")
		b.WriteString(label.Render("Emoji"))
		b.WriteString("\n")
		b.WriteString(strings.Join(emojiLines, "\n"))
		b.WriteString("\n")
	}

	return b.String()
}
