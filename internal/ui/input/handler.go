package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"utsulog/internal/ui/input/modes"
	"utsulog/internal/ui/input/types"
)

type Handler struct {
	currentMode types.Mode
	modes       map[types.Mode]types.ModeHandler
	textInput   *textinput.Model // Shared text input for text modes
}

func New() *Handler {
	ti := textinput.New()
	ti.CharLimit = 200

	h := &Handler{
		currentMode: types.ModeNormal,
		textInput:   &ti,
		modes:       make(map[types.Mode]types.ModeHandler),
	}

	// Register all mode handlers
	h.modes[types.ModeNormal] = modes.NewNormalMode()
	h.modes[types.ModeQuery] = modes.NewQueryMode(h.textInput)
	h.modes[types.ModeAuthor] = modes.NewAuthorMode(h.textInput)
	h.modes[types.ModeDateFrom] = modes.NewDateFromMode(h.textInput)
	h.modes[types.ModeDateTo] = modes.NewDateToMode(h.textInput)
	h.modes[types.ModeVideoPicker] = modes.NewVideoPickerMode()
	h.modes[types.ModeEmojiPicker] = modes.NewEmojiPickerMode()

	return h
}

// HandleKey routes a key to the current mode and performs any mode changes it asks for.
// In text modes, keys the mode does not consume edit the field and yield an UpdateTextAction.
func (h *Handler) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, tea.Cmd) {
	if actions, cmd, ok := h.splitBurst(msg, ctx); ok {
		return actions, cmd
	}

	handler := h.modes[h.currentMode]
	if handler == nil {
		return nil, nil
	}

	actions, consumed := handler.HandleKey(msg, ctx)
	if !consumed && !h.currentMode.IsText() {
		return nil, nil
	}

	var cmd tea.Cmd
	var allActions []types.Action

	for _, action := range actions {
		switch a := action.(type) {
		case types.ChangeModeAction:
			allActions = append(allActions, h.changeMode(a, ctx, &cmd)...)
		case types.InsertTextAction:
			allActions = append(allActions, h.insertText(a))
		default:
			allActions = append(allActions, action)
		}
	}

	// Unconsumed keys in a text mode edit the field
	if h.currentMode.IsText() && !consumed {
		before := h.textInput.Value()
		var textCmd tea.Cmd
		*h.textInput, textCmd = h.textInput.Update(msg)
		cmd = textCmd
		if h.textInput.Value() != before {
			allActions = append(allActions, types.UpdateTextAction{Mode: h.currentMode, Text: h.textInput.Value()})
		}
	}

	return allActions, cmd
}

// splitBurst handles runes that arrive as one message in normal mode, as when
// typing fast: they run as single keys until one opens a text mode, and the
// rest goes into its field. Of a paste only the first rune can be a command.
func (h *Handler) splitBurst(msg tea.KeyMsg, ctx types.Context) ([]types.Action, tea.Cmd, bool) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) < 2 || h.currentMode != types.ModeNormal {
		return nil, nil, false
	}

	var actions []types.Action
	var cmds []tea.Cmd
	for i, r := range msg.Runes {
		a, cmd := h.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: msg.Alt}, ctx)
		actions = append(actions, a...)
		cmds = append(cmds, cmd)

		if h.currentMode.IsText() {
			if rest := msg.Runes[i+1:]; len(rest) > 0 {
				a, cmd = h.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: rest, Paste: msg.Paste}, ctx)
				actions = append(actions, a...)
				cmds = append(cmds, cmd)
			}
			break
		}
		if h.currentMode != types.ModeNormal || msg.Paste {
			break
		}
	}
	return actions, tea.Batch(cmds...), true
}

func (h *Handler) changeMode(a types.ChangeModeAction, ctx types.Context, cmd *tea.Cmd) []types.Action {
	var actions []types.Action
	if h.modes[h.currentMode] != nil {
		actions = append(actions, h.modes[h.currentMode].Exit(ctx)...)
	}

	h.currentMode = a.Mode
	if a.Resume && h.currentMode.IsText() {
		// Back from a picker: the field, its cursor and the mode's entry value stay
		h.textInput.Focus()
		*cmd = textinput.Blink
		return actions
	}

	if h.currentMode.IsText() {
		h.textInput.Reset()
		h.textInput.SetValue(a.Data)
		h.textInput.CursorEnd()
		*cmd = textinput.Blink
	} else {
		h.textInput.Blur()
	}

	if h.modes[h.currentMode] != nil {
		actions = append(actions, h.modes[h.currentMode].Enter(ctx)...)
	}
	return actions
}

// insertText puts a.Text at the cursor and reports the field's new value
func (h *Handler) insertText(a types.InsertTextAction) types.Action {
	value := []rune(h.textInput.Value())
	pos := h.textInput.Position()
	if pos > len(value) {
		pos = len(value)
	}
	inserted := []rune(a.Text)

	next := make([]rune, 0, len(value)+len(inserted))
	next = append(next, value[:pos]...)
	next = append(next, inserted...)
	next = append(next, value[pos:]...)

	h.textInput.SetValue(string(next))
	h.textInput.SetCursor(pos + len(inserted))
	return types.UpdateTextAction{Mode: a.Mode, Text: h.textInput.Value()}
}

// CurrentMode returns the active input mode
func (h *Handler) CurrentMode() types.Mode {
	if h == nil {
		return types.ModeNormal
	}
	return h.currentMode
}

// ModeHandler returns the handler for the active mode
func (h *Handler) ModeHandler() types.ModeHandler {
	return h.modes[h.currentMode]
}

// TextInput returns the shared text input while a text mode is active
func (h *Handler) TextInput() *textinput.Model {
	if h.currentMode.IsText() {
		return h.textInput
	}
	return nil
}

// Prompt returns the active text mode's prompt
func (h *Handler) Prompt() string {
	if p, ok := h.modes[h.currentMode].(interface{ Prompt() string }); ok {
		return p.Prompt()
	}
	return ""
}

// Reset returns to normal mode
func (h *Handler) Reset() {
	h.currentMode = types.ModeNormal
	h.textInput.Reset()
	h.textInput.Blur()
}

// Update handles non-keyboard messages for text input
func (h *Handler) Update(msg tea.Msg) tea.Cmd {
	if h.currentMode.IsText() {
		var cmd tea.Cmd
		*h.textInput, cmd = h.textInput.Update(msg)
		return cmd
	}
	return nil
}
