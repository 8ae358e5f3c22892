package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"utsulog/internal/ui/input/types"
)

// VideoPickerMode browses the video catalog. Enter toggles the highlighted
// video as the filter and closes the picker; esc closes it unchanged.
type VideoPickerMode struct {
	index int
}

func NewVideoPickerMode() *VideoPickerMode {
	return &VideoPickerMode{}
}

func (m *VideoPickerMode) Name() string {
	return "video"
}

func (m *VideoPickerMode) Enter(ctx types.Context) []types.Action {
	// Start on the currently selected video, if any
	m.index = 0
	selected := ctx.Criteria().VideoID
	for i, v := range ctx.Videos() {
		if v.VideoID == selected {
			m.index = i
			break
		}
	}
	return []types.Action{types.PickerMoveAction{Index: m.index}}
}

func (m *VideoPickerMode) Exit(ctx types.Context) []types.Action {
	return nil
}

// HandleKey processes key messages for the picker
func (m *VideoPickerMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	count := len(ctx.Videos())

	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true

	case "esc", "q", "v":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeNormal}}, true

	case "enter", " ":
		if count == 0 {
			return []types.Action{types.ChangeModeAction{Mode: types.ModeNormal}}, true
		}
		return []types.Action{
			types.SelectVideoAction{VideoID: ctx.Videos()[m.index].VideoID},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true

	case "up", "k":
		return m.move(-1, count), true

	case "down", "j":
		return m.move(1, count), true

	case "pgup":
		return m.move(-10, count), true

	case "pgdown":
		return m.move(10, count), true

	case "home", "g":
		m.index = 0
		return []types.Action{types.PickerMoveAction{Index: m.index}}, true

	case "end", "G":
		if count > 0 {
			m.index = count - 1
		}
		return []types.Action{types.PickerMoveAction{Index: m.index}}, true
	}

	return nil, true
}

func (m *VideoPickerMode) move(delta, count int) []types.Action {
	if count == 0 {
		return nil
	}
	m.index += delta
	// Single steps wrap; page jumps clamp
	switch {
	case m.index < 0 && delta == -1:
		m.index = count - 1
	case m.index >= count && delta == 1:
		m.index = 0
	case m.index < 0:
		m.index = 0
	case m.index >= count:
		m.index = count - 1
	}
	return []types.Action{types.PickerMoveAction{Index: m.index}}
}

// CurrentIndex returns the highlighted catalog index
func (m *VideoPickerMode) CurrentIndex() int {
	return m.index
}
