package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"utsulog/internal/config"
	"utsulog/internal/domain"
	"utsulog/internal/eventbus"
	"utsulog/internal/format"
	"utsulog/internal/observability"
	"utsulog/internal/session"
	"utsulog/internal/ui/input"
	"utsulog/internal/ui/input/keys"
	inputtypes "utsulog/internal/ui/input/types"
	"utsulog/internal/ui/logic"
	"utsulog/internal/ui/state"
	"utsulog/internal/ui/views"
)

// statusTTL is how long a status message stays before clearing itself
const statusTTL = 5 * time.Second

// Catalog loads the reference data shown next to results
type Catalog interface {
	Videos(ctx context.Context) ([]domain.Video, error)
	Emojis(ctx context.Context) (domain.EmojiMap, error)
}

// Option configures a Model
type Option func(*Model)

// WithLauncher replaces the pager and browser launcher
func WithLauncher(l Launcher) Option {
	return func(m *Model) { m.launcher = l }
}

// WithLogger sets the UI logger
func WithLogger(l *observability.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithInitialQuery starts the session with a query already typed
func WithInitialQuery(q string) Option {
	return func(m *Model) { m.initialQuery = q }
}

// WithContext sets the context catalog loads run under
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

// Model represents the UI state
type Model struct {
	ctx     context.Context
	bus     eventbus.EventBus
	config  *config.Config
	state   *state.AppState
	ctrl    *session.Controller
	catalog Catalog
	logger  *observability.Logger

	width   int
	height  int
	help    help.Model
	spinner spinner.Model

	initialQuery string
	baseCriteria domain.SearchCriteria // what "clear filters" returns to

	navigator    *logic.Navigator
	renderer     *views.Renderer
	helpRender   *HelpRenderer
	inputHandler *input.Handler
	launcher     Launcher
	externals    *ExternalOps

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model driving ctrl
func NewModel(ctrl *session.Controller, catalog Catalog, bus eventbus.EventBus, cfg *config.Config, opts ...Option) *Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		ctx:          context.Background(),
		bus:          bus,
		config:       cfg,
		state:        state.NewAppState(),
		ctrl:         ctrl,
		catalog:      catalog,
		logger:       observability.NewNopLogger(),
		help:         help.New(),
		spinner:      sp,
		baseCriteria: cfg.InitialCriteria(),
		navigator:    logic.NewNavigator(),
		renderer:     views.NewRenderer(cfg.UISettings.DateFormat),
		helpRender:   NewHelpRenderer(),
		inputHandler: input.New(),
		externals:    NewExternalOps(),
	}
	m.launcher = m.externals

	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	if m.externals != nil {
		m.externals.SetProgram(p)
	}
}

// State exposes the UI state for inspection
func (m *Model) State() *state.AppState {
	return m.state
}

// Init loads the catalogs and starts the spinner
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.catalog != nil {
		cmds = append(cmds, m.loadVideos(), m.loadEmojis())
	}
	if m.initialQuery != "" {
		cmds = append(cmds, m.ctrl.SetQueryText(m.initialQuery))
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.state.ViewportHeight = views.ListHeight(msg.Height)
		m.syncNavigatorState()
		m.state.SelectedIndex, m.state.ViewportOffset = m.navigator.SetSelectedIndex(m.state.SelectedIndex)
		return m, m.reportScroll()

	case tea.KeyMsg:
		if m.state.InPagerMode {
			return m, nil
		}

		ctx := m.inputContext()
		actions, cmd := m.inputHandler.HandleKey(msg, ctx)

		cmds := []tea.Cmd{}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		for _, action := range actions {
			if actionCmd := m.processAction(action); actionCmd != nil {
				cmds = append(cmds, actionCmd)
			}
		}
		return m, tea.Batch(cmds...)

	default:
		return m.handleNonKeyboardMsg(msg)
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.state.InPagerMode {
		return ""
	}

	snap := m.ctrl.Snapshot()
	m.syncNavigatorState()

	vs := views.ViewState{
		Width:          m.width,
		Height:         m.height,
		Criteria:       m.ctrl.Criteria(),
		Pagination:     snap,
		Pending:        m.ctrl.Pending(),
		SearchFailed:   m.ctrl.LastError() != nil,
		SelectedIndex:  m.state.SelectedIndex,
		ViewportOffset: m.state.ViewportOffset,
		ViewportHeight: m.state.ViewportHeight,
		VisibleCards:   m.navigator.VisibleCards(),
		VideoTitles:    m.state.VideoTitles,
		Emojis:         m.state.Emojis,
		InputError:     m.state.InputError,
		StatusMessage:  m.state.StatusMessage,
		StatusIsError:  m.state.StatusIsError,
		Spinner:        m.spinner.View(),
		ShowPicker:     m.inputHandler.CurrentMode() == inputtypes.ModeVideoPicker,
		ShowEmojis:     m.inputHandler.CurrentMode() == inputtypes.ModeEmojiPicker,
		Videos:         m.state.Videos,
		PickerIndex:    m.state.PickerIndex,
		HelpModel:      m.help,
		Keys:           keys.Default,
	}
	if vs.ShowEmojis {
		vs.EmojiNames = m.inputContext().EmojiNames()
	}
	if ti := m.inputHandler.TextInput(); ti != nil {
		vs.InputActive = true
		vs.InputPrompt = m.inputHandler.Prompt()
		vs.TextInput = ti.View()
		vs.InputEmoji = m.inputHandler.CurrentMode() == inputtypes.ModeQuery
	}

	return m.renderer.Render(vs)
}

func (m *Model) inputContext() *input.ModelContext {
	return &input.ModelContext{
		State:   m.state,
		Results: m.ctrl.Snapshot().Results,
		Current: m.ctrl.Criteria(),
	}
}

// syncNavigatorState updates the navigator with current model state
func (m *Model) syncNavigatorState() {
	m.navigator.UpdateState(
		m.state.SelectedIndex,
		m.state.ViewportOffset,
		m.state.ViewportHeight,
		len(m.ctrl.Snapshot().Results),
	)
}

// reportScroll tells the controller where the viewport is, which may start a continuation
func (m *Model) reportScroll() tea.Cmd {
	m.syncNavigatorState()
	return m.ctrl.HandleScroll(m.navigator.ScrollMetrics())
}

func (m *Model) loadVideos() tea.Cmd {
	ctx, timeout := m.ctx, m.config.RequestTimeout.Duration
	return func() tea.Msg {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		videos, err := m.catalog.Videos(ctx)
		return videosLoadedMsg{videos: videos, err: err}
	}
}

func (m *Model) loadEmojis() tea.Cmd {
	ctx, timeout := m.ctx, m.config.RequestTimeout.Duration
	return func() tea.Msg {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		emojis, err := m.catalog.Emojis(ctx)
		return emojisLoadedMsg{emojis: emojis, err: err}
	}
}

// setStatus shows a status message and schedules it to clear
func (m *Model) setStatus(msg string, isError bool) tea.Cmd {
	seq := m.state.SetStatus(msg, isError)
	return tea.Tick(statusTTL, func(time.Time) tea.Msg { return clearStatusMsg{seq: seq} })
}

func (m *Model) publish(event eventbus.DomainEvent) {
	if m.bus != nil {
		m.bus.Publish(event)
	}
}

// showPager returns a command that shows content using the pager
func (m *Model) showPager(what, content string) tea.Cmd {
	launcher, program := m.launcher, m.program
	return func() tea.Msg {
		// Pause rendering while the pager owns the terminal
		if program != nil {
			program.Send(pauseRenderingMsg{})
		}

		err := launcher.ShowInPager(content)

		if program != nil {
			program.Send(resumeRenderingMsg{})
		}
		return pagerMsg{what: what, err: err}
	}
}

// openBrowser returns a command that opens url in the browser
func (m *Model) openBrowser(url string) tea.Cmd {
	launcher := m.launcher
	return func() tea.Msg {
		return browserMsg{url: url, err: launcher.OpenBrowser(url)}
	}
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	switch a := action.(type) {
	case inputtypes.NavigateAction:
		m.syncNavigatorState()
		switch a.Direction {
		case "up":
			m.state.SelectedIndex, m.state.ViewportOffset = m.navigator.Move(-1)
		case "down":
			m.state.SelectedIndex, m.state.ViewportOffset = m.navigator.Move(1)
		case "pageup":
			m.state.SelectedIndex, m.state.ViewportOffset = m.navigator.Page(-1)
		case "pagedown":
			m.state.SelectedIndex, m.state.ViewportOffset = m.navigator.Page(1)
		case "home":
			m.state.SelectedIndex, m.state.ViewportOffset = m.navigator.SetSelectedIndex(0)
		case "end":
			m.state.SelectedIndex, m.state.ViewportOffset = m.navigator.SetSelectedIndex(m.navigator.GetMaxIndex())
		}
		return m.reportScroll()

	case inputtypes.UpdateTextAction:
		return m.applyText(a.Mode, a.Text, false)

	case inputtypes.SubmitTextAction:
		return m.applyText(a.Mode, a.Text, true)

	case inputtypes.CancelTextAction:
		m.state.InputError = ""
		return m.applyText(a.Mode, a.Original, false)

	case inputtypes.ToggleExactAction:
		return m.ctrl.SetFilter(session.ToggleExact())

	case inputtypes.ToggleSortAction:
		return m.ctrl.SetFilter(session.ToggleSortOrder())

	case inputtypes.CycleMessageTypeAction:
		return m.ctrl.SetFilter(session.CycleMessageType())

	case inputtypes.ClearFiltersAction:
		m.state.InputError = ""
		return m.ctrl.SetFilter(session.ClearFilters(m.baseCriteria))

	case inputtypes.PickerMoveAction:
		m.state.PickerIndex = a.Index

	case inputtypes.SelectVideoAction:
		return m.ctrl.SetFilter(session.ToggleVideo(a.VideoID))

	case inputtypes.OpenDetailAction:
		item, ok := m.inputContext().CurrentResult()
		if !ok {
			return nil
		}
		criteria := m.ctrl.Criteria()
		content := m.renderer.Results().RenderDetail(item, m.state.VideoTitle(item.VideoID),
			format.Terms(criteria.QueryText, criteria.ExactMatch), m.state.Emojis,
			m.config.UISettings.ShowThumbnailURL)
		return m.showPager("detail", content)

	case inputtypes.OpenWatchAction:
		item, ok := m.inputContext().CurrentResult()
		if !ok {
			return nil
		}
		return m.openBrowser(format.WatchURL(item.VideoID, item.ElapsedTime))

	case inputtypes.RefreshAction:
		return m.ctrl.Refresh()

	case inputtypes.ToggleHelpAction:
		return m.showPager("help", m.helpRender.RenderHelpContent())

	case inputtypes.QuitAction:
		m.logger.UI("quit", "force", a.Force)
		m.ctrl.Close()
		return tea.Quit
	}

	return nil
}

// applyText writes a text field into the criteria. Dates apply only once they parse.
func (m *Model) applyText(mode inputtypes.Mode, text string, submitted bool) tea.Cmd {
	switch mode {
	case inputtypes.ModeQuery:
		return m.ctrl.SetQueryText(text)

	case inputtypes.ModeAuthor:
		return m.ctrl.SetFilter(session.SetAuthor(text))

	case inputtypes.ModeDateFrom, inputtypes.ModeDateTo:
		date, err := domain.ParseDate(text)
		if err != nil {
			if submitted {
				// Leave the last valid date in place
				m.state.InputError = ""
				return m.setStatus(fmt.Sprintf("Ignored %q: dates are YYYY-MM-DD", text), true)
			}
			m.state.InputError = "YYYY-MM-DD"
			return nil
		}
		m.state.InputError = ""
		if mode == inputtypes.ModeDateFrom {
			return m.ctrl.SetFilter(session.SetDateFrom(date))
		}
		return m.ctrl.SetFilter(session.SetDateTo(date))
	}
	return nil
}

// handleNonKeyboardMsg handles non-keyboard messages
func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case session.DebounceMsg:
		return m, m.ctrl.HandleDebounce(msg)

	case session.PageMsg:
		current := msg.Epoch == m.ctrl.Epoch()
		m.ctrl.HandlePage(msg)
		if !current {
			return m, nil
		}

		if msg.Reset {
			m.state.SelectedIndex = 0
			m.state.ViewportOffset = 0
		}
		m.state.ClampSelection(len(m.ctrl.Snapshot().Results))

		if msg.Err != nil {
			m.logger.UI("search failed", "offset", msg.Offset, "error", msg.Err)
			return m, m.setStatus(describeError(msg.Err, msg.Reset), true)
		}
		if m.state.StatusIsError {
			m.state.ClearStatus(m.state.StatusSeq)
		}
		// Keep loading until the screen is full
		return m, m.reportScroll()

	case videosLoadedMsg:
		if msg.err != nil {
			m.publish(eventbus.CatalogFailedEvent{Catalog: domain.CatalogVideos, Err: msg.err})
			return m, m.setStatus("Video list unavailable; video filter disabled", true)
		}
		m.state.SetVideos(msg.videos)
		m.publish(eventbus.CatalogLoadedEvent{Catalog: domain.CatalogVideos, Count: len(msg.videos)})
		return m, nil

	case emojisLoadedMsg:
		if msg.err != nil {
			// Shortcodes stay as plain text
			m.publish(eventbus.CatalogFailedEvent{Catalog: domain.CatalogEmojis, Err: msg.err})
			return m, nil
		}
		m.state.Emojis = msg.emojis
		m.publish(eventbus.CatalogLoadedEvent{Catalog: domain.CatalogEmojis, Count: len(msg.emojis)})
		return m, nil

	case spinner.TickMsg:
		// Don't continue tick loop if we're in pager mode
		if m.state.InPagerMode {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case clearStatusMsg:
		m.state.ClearStatus(msg.seq)
		return m, nil

	case pagerMsg:
		if msg.err != nil {
			m.logger.UI("pager failed", "what", msg.what, "error", msg.err)
			return m, m.setStatus(fmt.Sprintf("Pager failed: %v", msg.err), true)
		}
		return m, nil

	case browserMsg:
		if msg.err != nil {
			m.logger.UI("browser failed", "url", msg.url, "error", msg.err)
			return m, m.setStatus(fmt.Sprintf("Could not open browser: %s", msg.url), true)
		}
		return m, m.setStatus("Opened "+msg.url, false)

	case pauseRenderingMsg:
		m.state.InPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.state.InPagerMode = false
		return m, m.spinner.Tick

	default:
		// Cursor blink and other text input messages
		return m, m.inputHandler.Update(msg)
	}
}

// describeError turns a fetch error into a one-line advisory.
// A failed first page can only be retried with r; later pages also retry on scroll.
func describeError(err error, reset bool) string {
	retry := "Scroll or press r to retry."
	if reset {
		retry = "Press r to retry."
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "Search timed out. " + retry
	case errors.Is(err, context.Canceled):
		return "Search cancelled."
	default:
		return fmt.Sprintf("Search failed: %v. %s", err, retry)
	}
}
