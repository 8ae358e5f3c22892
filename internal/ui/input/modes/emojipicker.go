package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"utsulog/internal/ui/input/types"
)

// EmojiPickerMode lists the custom emoji while the search text is being edited.
// Enter inserts the highlighted :name: at the cursor; esc goes back without inserting.
type EmojiPickerMode struct {
	index int
}

func NewEmojiPickerMode() *EmojiPickerMode {
	return &EmojiPickerMode{}
}

func (m *EmojiPickerMode) Name() string {
	return "emoji"
}

func (m *EmojiPickerMode) Enter(ctx types.Context) []types.Action {
	m.index = 0
	return []types.Action{types.PickerMoveAction{Index: m.index}}
}

func (m *EmojiPickerMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *EmojiPickerMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	names := ctx.EmojiNames()
	back := types.ChangeModeAction{Mode: types.ModeQuery, Resume: true}

	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true

	case "esc", "tab":
		return []types.Action{back}, true

	case "enter":
		if m.index >= len(names) {
			return []types.Action{back}, true
		}
		return []types.Action{
			types.InsertTextAction{Mode: types.ModeQuery, Text: ":" + names[m.index] + ":"},
			back,
		}, true

	case "up", "k":
		return m.move(-1, len(names)), true

	case "down", "j":
		return m.move(1, len(names)), true

	case "home", "g":
		m.index = 0
		return []types.Action{types.PickerMoveAction{Index: m.index}}, true

	case "end", "G":
		if len(names) > 0 {
			m.index = len(names) - 1
		}
		return []types.Action{types.PickerMoveAction{Index: m.index}}, true
	}

	return nil, true
}

func (m *EmojiPickerMode) move(delta, count int) []types.Action {
	if count == 0 {
		return nil
	}
	m.index = (m.index + delta + count) % count
	return []types.Action{types.PickerMoveAction{Index: m.index}}
}
