package types

import (
	tea "github.com/charmbracelet/bubbletea"

	"utsulog/internal/domain"
)

// Mode represents an input mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeQuery
	ModeAuthor
	ModeDateFrom
	ModeDateTo
	ModeVideoPicker
	ModeEmojiPicker
)

// IsText reports whether the mode edits a text field
func (m Mode) IsText() bool {
	switch m {
	case ModeQuery, ModeAuthor, ModeDateFrom, ModeDateTo:
		return true
	default:
		return false
	}
}

// Action represents a command the model should execute
type Action interface {
	Type() string
}

// Context provides read-only access to model state needed for input handling
type Context interface {
	CurrentIndex() int
	TotalItems() int
	CurrentResult() (domain.ResultItem, bool)
	Criteria() domain.SearchCriteria
	Videos() []domain.Video
	EmojiNames() []string
}

// ModeHandler handles input for a specific mode
type ModeHandler interface {
	// HandleKey processes a key message and returns actions and whether to consume the event
	HandleKey(msg tea.KeyMsg, ctx Context) ([]Action, bool)

	// Enter is called when entering this mode
	Enter(ctx Context) []Action

	// Exit is called when leaving this mode
	Exit(ctx Context) []Action

	// Name returns the mode name for display
	Name() string
}
