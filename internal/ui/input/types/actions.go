package types

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "pageup", "pagedown", "home", "end"
}

func (a NavigateAction) Type() string { return "navigate" }

// Mode transition actions
type ChangeModeAction struct {
	Mode   Mode
	Data   string // initial text for text modes
	Resume bool   // return to a text mode keeping its field and cursor
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions

// UpdateTextAction is emitted on every keystroke in a text mode
type UpdateTextAction struct {
	Mode Mode
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
	Mode Mode // Which mode submitted the text
}

func (a SubmitTextAction) Type() string { return "submit_text" }

// CancelTextAction restores the value the field had when the mode was entered
type CancelTextAction struct {
	Mode     Mode
	Original string
}

func (a CancelTextAction) Type() string { return "cancel_text" }

// InsertTextAction inserts Text at the cursor of the field edited by Mode
type InsertTextAction struct {
	Mode Mode
	Text string
}

func (a InsertTextAction) Type() string { return "insert_text" }

// Filter actions
type ToggleExactAction struct{}

func (a ToggleExactAction) Type() string { return "toggle_exact" }

type ToggleSortAction struct{}

func (a ToggleSortAction) Type() string { return "toggle_sort" }

type CycleMessageTypeAction struct{}

func (a CycleMessageTypeAction) Type() string { return "cycle_message_type" }

type ClearFiltersAction struct{}

func (a ClearFiltersAction) Type() string { return "clear_filters" }

// Video picker actions
type PickerMoveAction struct {
	Index int
}

func (a PickerMoveAction) Type() string { return "picker_move" }

// SelectVideoAction toggles the video filter; choosing the selected video clears it
type SelectVideoAction struct {
	VideoID string
}

func (a SelectVideoAction) Type() string { return "select_video" }

// Result actions
type OpenDetailAction struct{}

func (a OpenDetailAction) Type() string { return "open_detail" }

type OpenWatchAction struct{}

func (a OpenWatchAction) Type() string { return "open_watch" }

// Command actions
type RefreshAction struct{}

func (a RefreshAction) Type() string { return "refresh" }

type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }
