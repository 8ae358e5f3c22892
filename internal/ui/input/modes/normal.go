package modes

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"utsulog/internal/domain"
	"utsulog/internal/ui/input/keys"
	"utsulog/internal/ui/input/types"
)

type NormalMode struct {
	keys        keys.KeyMap
	lastKeyWasG bool
	lastGTime   time.Time
}

func NewNormalMode() *NormalMode {
	return &NormalMode{keys: keys.Default}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	// gg goes to the top; any other key cancels the prefix
	if msg.String() == "g" {
		if m.lastKeyWasG && time.Since(m.lastGTime) < 500*time.Millisecond {
			m.lastKeyWasG = false
			return []types.Action{types.NavigateAction{Direction: "home"}}, true
		}
		m.lastKeyWasG = true
		m.lastGTime = time.Now()
		return nil, true
	}
	m.lastKeyWasG = false

	if msg.Type == tea.KeyCtrlC {
		return []types.Action{types.QuitAction{Force: true}}, true
	}

	k := m.keys
	criteria := ctx.Criteria()

	switch {
	case key.Matches(msg, k.Up):
		return navigate("up")
	case key.Matches(msg, k.Down):
		return navigate("down")
	case key.Matches(msg, k.PageUp):
		return navigate("pageup")
	case key.Matches(msg, k.PageDown):
		return navigate("pagedown")
	case key.Matches(msg, k.Top):
		return navigate("home")
	case key.Matches(msg, k.Bottom):
		return navigate("end")

	case key.Matches(msg, k.Query):
		return changeMode(types.ModeQuery, criteria.QueryText)
	case key.Matches(msg, k.Author):
		return changeMode(types.ModeAuthor, criteria.AuthorName)
	case key.Matches(msg, k.DateFrom):
		return changeMode(types.ModeDateFrom, domain.FormatDate(criteria.DateFrom))
	case key.Matches(msg, k.DateTo):
		return changeMode(types.ModeDateTo, domain.FormatDate(criteria.DateTo))
	case key.Matches(msg, k.Video):
		return changeMode(types.ModeVideoPicker, "")

	case key.Matches(msg, k.Exact):
		return []types.Action{types.ToggleExactAction{}}, true
	case key.Matches(msg, k.Sort):
		return []types.Action{types.ToggleSortAction{}}, true
	case key.Matches(msg, k.Type):
		return []types.Action{types.CycleMessageTypeAction{}}, true
	case key.Matches(msg, k.Clear):
		return []types.Action{types.ClearFiltersAction{}}, true
	case key.Matches(msg, k.Refresh):
		return []types.Action{types.RefreshAction{}}, true

	case key.Matches(msg, k.OpenDetail):
		if _, ok := ctx.CurrentResult(); ok {
			return []types.Action{types.OpenDetailAction{}}, true
		}
		return nil, false
	case key.Matches(msg, k.Watch):
		if _, ok := ctx.CurrentResult(); ok {
			return []types.Action{types.OpenWatchAction{}}, true
		}
		return nil, false

	case key.Matches(msg, k.Help):
		return []types.Action{types.ToggleHelpAction{}}, true
	case key.Matches(msg, k.Quit):
		return []types.Action{types.QuitAction{Force: false}}, true
	}

	return nil, false
}

func navigate(direction string) ([]types.Action, bool) {
	return []types.Action{types.NavigateAction{Direction: direction}}, true
}

func changeMode(mode types.Mode, data string) ([]types.Action, bool) {
	return []types.Action{types.ChangeModeAction{Mode: mode, Data: data}}, true
}
