package modes

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"utsulog/internal/ui/input/types"
)

// TextInputMode is a base for modes that edit one criteria field.
// Every keystroke is applied live; esc restores the value held on entry.
type TextInputMode struct {
	mode        types.Mode
	name        string
	prompt      string
	placeholder string
	textInput   *textinput.Model
	original    string
}

func NewTextInputMode(mode types.Mode, name, prompt, placeholder string, ti *textinput.Model) *TextInputMode {
	return &TextInputMode{
		mode:        mode,
		name:        name,
		prompt:      prompt,
		placeholder: placeholder,
		textInput:   ti,
	}
}

func (m *TextInputMode) Name() string {
	return m.name
}

// Prompt is shown before the input field
func (m *TextInputMode) Prompt() string {
	return m.prompt
}

func (m *TextInputMode) Enter(ctx types.Context) []types.Action {
	if m.textInput != nil {
		// The handler has already loaded the field's current value
		m.original = m.textInput.Value()
		m.textInput.Placeholder = m.placeholder
		m.textInput.Prompt = "" // Prompt is handled in the UI layer
		m.textInput.Focus()
	}
	return nil
}

func (m *TextInputMode) Exit(ctx types.Context) []types.Action {
	if m.textInput != nil {
		m.textInput.Blur()
	}
	return nil
}

func (m *TextInputMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "esc":
		return []types.Action{
			types.CancelTextAction{Mode: m.mode, Original: m.original},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true
	case "enter":
		text := ""
		if m.textInput != nil {
			text = m.textInput.Value()
		}
		return []types.Action{
			types.SubmitTextAction{Text: text, Mode: m.mode},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true
	case "tab":
		if m.mode == types.ModeQuery {
			return []types.Action{types.ChangeModeAction{Mode: types.ModeEmojiPicker}}, true
		}
		return nil, true
	default:
		// Let the main handler update the text input
		return nil, false
	}
}

// NewQueryMode edits the search text
func NewQueryMode(ti *textinput.Model) *TextInputMode {
	return NewTextInputMode(types.ModeQuery, "search", "Search: ", "text or :emoji:", ti)
}

// NewAuthorMode edits the author filter
func NewAuthorMode(ti *textinput.Model) *TextInputMode {
	return NewTextInputMode(types.ModeAuthor, "author", "Author: ", "author name", ti)
}

// NewDateFromMode edits the lower date bound
func NewDateFromMode(ti *textinput.Model) *TextInputMode {
	return NewTextInputMode(types.ModeDateFrom, "from", "From: ", "YYYY-MM-DD", ti)
}

// NewDateToMode edits the upper date bound
func NewDateToMode(ti *textinput.Model) *TextInputMode {
	return NewTextInputMode(types.ModeDateTo, "to", "To: ", "YYYY-MM-DD", ti)
}
