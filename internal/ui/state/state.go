package state

import (
	"utsulog/internal/domain"
)

// AppState contains the UI-side state. Search results live in the session controller.
type AppState struct {
	// Catalogs loaded once at start-up
	Videos      []domain.Video
	VideoTitles map[string]string // videoId -> title
	Emojis      domain.EmojiMap

	// Selection state
	SelectedIndex int // currently selected result

	// UI state
	ViewportOffset int // first visible result
	ViewportHeight int // rows available for the result list
	PickerIndex    int // highlighted row in the video picker
	ShowHelp       bool
	StatusMessage  string // status bar message
	StatusIsError  bool
	StatusSeq      uint64 // bumps with every status so stale clear timers are ignored
	InputError     string // advisory for an unparseable text field
	InPagerMode    bool
}

// NewAppState creates a new application state
func NewAppState() *AppState {
	return &AppState{
		VideoTitles:    make(map[string]string),
		Emojis:         domain.EmojiMap{},
		ViewportHeight: 20, // Default
	}
}

// SetVideos replaces the video catalog
func (s *AppState) SetVideos(videos []domain.Video) {
	s.Videos = videos
	s.VideoTitles = make(map[string]string, len(videos))
	for _, v := range videos {
		s.VideoTitles[v.VideoID] = v.Title
	}
	if s.PickerIndex >= len(videos) {
		s.PickerIndex = 0
	}
}

// VideoTitle resolves a video id, falling back to the id itself
func (s *AppState) VideoTitle(videoID string) string {
	if title, ok := s.VideoTitles[videoID]; ok && title != "" {
		return title
	}
	return videoID
}

// SetStatus shows msg in the status bar and returns its sequence number
func (s *AppState) SetStatus(msg string, isError bool) uint64 {
	s.StatusSeq++
	s.StatusMessage = msg
	s.StatusIsError = isError
	return s.StatusSeq
}

// ClearStatus clears the status bar if seq is still the latest status
func (s *AppState) ClearStatus(seq uint64) {
	if seq == s.StatusSeq {
		s.StatusMessage = ""
		s.StatusIsError = false
	}
}

// ClampSelection keeps the selection inside a list of total items
func (s *AppState) ClampSelection(total int) {
	if total <= 0 {
		s.SelectedIndex = 0
		s.ViewportOffset = 0
		return
	}
	if s.SelectedIndex >= total {
		s.SelectedIndex = total - 1
	}
	if s.SelectedIndex < 0 {
		s.SelectedIndex = 0
	}
	if s.ViewportOffset > s.SelectedIndex {
		s.ViewportOffset = s.SelectedIndex
	}
}
