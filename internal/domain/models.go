package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and input format for date filters
const DateLayout = "2006-01-02"

// SortOrder orders results by the source video's publish date
type SortOrder string

const (
	SortDescending SortOrder = "desc"
	SortAscending  SortOrder = "asc"
)

// ParseSortOrder parses asc/desc (case-insensitive)
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "desc", "descending", "":
		return SortDescending, nil
	case "asc", "ascending":
		return SortAscending, nil
	default:
		return "", fmt.Errorf("unknown sort order %q", s)
	}
}

// Toggle returns the opposite order
func (o SortOrder) Toggle() SortOrder {
	if o == SortAscending {
		return SortDescending
	}
	return SortAscending
}

// MessageType restricts results to chat messages, transcript lines or both
type MessageType string

const (
	MessageAll        MessageType = "all"
	MessageChat       MessageType = "chat"
	MessageTranscript MessageType = "transcript"
)

// ParseMessageType parses all/chat/transcript
func ParseMessageType(s string) (MessageType, error) {
	switch MessageType(strings.ToLower(strings.TrimSpace(s))) {
	case MessageAll, "":
		return MessageAll, nil
	case MessageChat:
		return MessageChat, nil
	case MessageTranscript:
		return MessageTranscript, nil
	default:
		return "", fmt.Errorf("unknown message type %q", s)
	}
}

// Next cycles all -> chat -> transcript -> all
func (t MessageType) Next() MessageType {
	switch t {
	case MessageAll:
		return MessageChat
	case MessageChat:
		return MessageTranscript
	default:
		return MessageAll
	}
}

// SearchCriteria is an immutable snapshot of what to search for.
// Methods never modify the receiver; With* helpers return copies.
type SearchCriteria struct {
	QueryText   string
	ExactMatch  bool
	DateFrom    *time.Time
	DateTo      *time.Time
	AuthorName  string
	VideoID     string
	SortOrder   SortOrder
	MessageType MessageType
}

// DefaultCriteria returns criteria with default sort and type and nothing to search for
func DefaultCriteria() SearchCriteria {
	return SearchCriteria{
		SortOrder:   SortDescending,
		MessageType: MessageAll,
	}
}

// IsEmpty reports whether the criteria has nothing to search for.
// Date, sort, type and exact flags alone never make a search meaningful.
func (c SearchCriteria) IsEmpty() bool {
	return strings.TrimSpace(c.QueryText) == "" &&
		strings.TrimSpace(c.AuthorName) == "" &&
		strings.TrimSpace(c.VideoID) == ""
}

// Equal compares two criteria by value
func (c SearchCriteria) Equal(o SearchCriteria) bool {
	return c.QueryText == o.QueryText &&
		c.ExactMatch == o.ExactMatch &&
		sameDay(c.DateFrom, o.DateFrom) &&
		sameDay(c.DateTo, o.DateTo) &&
		c.AuthorName == o.AuthorName &&
		c.VideoID == o.VideoID &&
		c.SortOrder == o.SortOrder &&
		c.MessageType == o.MessageType
}

func sameDay(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Format(DateLayout) == b.Format(DateLayout)
}

// WithQueryText returns a copy with the query replaced
func (c SearchCriteria) WithQueryText(text string) SearchCriteria {
	c.QueryText = text
	return c
}

// WithDateFrom returns a copy with the lower date bound replaced (nil clears it)
func (c SearchCriteria) WithDateFrom(t *time.Time) SearchCriteria {
	c.DateFrom = copyTime(t)
	return c
}

// WithDateTo returns a copy with the upper date bound replaced (nil clears it)
func (c SearchCriteria) WithDateTo(t *time.Time) SearchCriteria {
	c.DateTo = copyTime(t)
	return c
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// HasFilters reports whether any filter beyond the query text differs from the defaults
func (c SearchCriteria) HasFilters() bool {
	return c.ExactMatch || c.DateFrom != nil || c.DateTo != nil ||
		c.AuthorName != "" || c.VideoID != "" ||
		(c.SortOrder != "" && c.SortOrder != SortDescending) ||
		(c.MessageType != "" && c.MessageType != MessageAll)
}

// ParseDate parses a YYYY-MM-DD date; empty input returns nil
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return &t, nil
}

// FormatDate renders a date bound, or "" when unset
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

// ResultItem is one matched message. Immutable once received.
type ResultItem struct {
	ID              string      `json:"id"`
	VideoID         string      `json:"videoId"`
	VideoTitle      string      `json:"videoTitle"`
	ThumbnailURL    string      `json:"thumbnailUrl"`
	Author          string      `json:"author"`
	AuthorChannelID string      `json:"authorChannelId,omitempty"`
	AuthorIconURL   string      `json:"authorIconUrl,omitempty"`
	Datetime        string      `json:"datetime"`
	ElapsedTime     string      `json:"elapsedTime"`
	Message         string      `json:"message"`
	Type            MessageType `json:"type,omitempty"`
}

// DisplayType returns the item's type, treating a missing one as transcript
func (r ResultItem) DisplayType() MessageType {
	if r.Type == MessageChat {
		return MessageChat
	}
	return MessageTranscript
}

// SearchPage is one page returned by the search endpoint
type SearchPage struct {
	Total   int
	Results []ResultItem
}

// Video is one entry of the video catalog
type Video struct {
	VideoID         string `json:"videoId"`
	Title           string `json:"title"`
	ThumbnailURL    string `json:"thumbnail_url"`
	ActualStartTime string `json:"actualStartTime"`
}

// EmojiMap maps a bare shortcode name (no colons) to its image URL
type EmojiMap map[string]string

// Lookup resolves a shortcode with or without surrounding colons
func (m EmojiMap) Lookup(shortcode string) (string, bool) {
	if m == nil {
		return "", false
	}
	url, ok := m[strings.Trim(shortcode, ":")]
	return url, ok
}
