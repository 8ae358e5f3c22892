// Package session holds the search session controller: debounced criteria
// changes, offset pagination and stale-response rejection.
//
// A Controller is confined to one goroutine (the Bubble Tea update loop or
// the CLI loop). Blocking work is handed back as tea.Cmd values whose result
// messages must be fed to HandleDebounce and HandlePage on that same goroutine.
package session

import (
	"context"
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"utsulog/internal/domain"
	"utsulog/internal/eventbus"
)

const (
	DefaultQuiescence      = 300 * time.Millisecond
	DefaultScrollThreshold = 3
	DefaultRequestTimeout  = 10 * time.Second
)

// TickFunc schedules fn after d. tea.Tick by default.
type TickFunc func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

// Option configures a Controller
type Option func(*Controller)

// WithQuiescence sets the debounce window
func WithQuiescence(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.quiescence = d
		}
	}
}

// WithScrollThreshold sets how many rows from the bottom trigger a continuation
func WithScrollThreshold(rows int) Option {
	return func(c *Controller) {
		if rows >= 0 {
			c.threshold = rows
		}
	}
}

// WithRequestTimeout bounds each page request
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithInitialCriteria sets the criteria a session starts from
func WithInitialCriteria(criteria domain.SearchCriteria) Option {
	return func(c *Controller) {
		c.criteria = criteria
	}
}

// WithTicker replaces the debounce timer
func WithTicker(tick TickFunc) Option {
	return func(c *Controller) {
		c.tick = tick
	}
}

// WithClock replaces the clock used for latency measurement
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// Controller owns one search session's criteria and pagination state
type Controller struct {
	searcher Searcher
	bus      eventbus.EventBus

	ctx    context.Context
	cancel context.CancelFunc

	quiescence time.Duration
	threshold  int
	timeout    time.Duration
	tick       TickFunc
	now        func() time.Time

	criteria domain.SearchCriteria
	state    PaginationState

	// epoch identifies the current result list; every reset bumps it
	epoch uint64

	debounceSeq     uint64
	debouncePending bool

	// resetIssued is true once a reset fetch has gone out for the current criteria
	resetIssued bool

	lastErr error
	closed  bool
}

// New creates a controller. bus may be nil.
func New(ctx context.Context, searcher Searcher, bus eventbus.EventBus, opts ...Option) *Controller {
	sessionCtx, cancel := context.WithCancel(ctx)
	c := &Controller{
		searcher:   searcher,
		bus:        bus,
		ctx:        sessionCtx,
		cancel:     cancel,
		quiescence: DefaultQuiescence,
		threshold:  DefaultScrollThreshold,
		timeout:    DefaultRequestTimeout,
		tick:       tea.Tick,
		now:        time.Now,
		criteria:   domain.DefaultCriteria(),
		state:      PaginationState{HasMore: true},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetQueryText replaces the query text and restarts the debounce window.
// An unchanged value is a no-op.
func (c *Controller) SetQueryText(text string) tea.Cmd {
	if c.closed || text == c.criteria.QueryText {
		return nil
	}
	return c.changeCriteria(c.criteria.WithQueryText(text))
}

// SetFilter applies update to the criteria and restarts the debounce window.
// An update that leaves the criteria equal is a no-op.
func (c *Controller) SetFilter(update FilterUpdate) tea.Cmd {
	if c.closed || update == nil {
		return nil
	}
	next := update(c.criteria)
	if next.Equal(c.criteria) {
		return nil
	}
	return c.changeCriteria(next)
}

func (c *Controller) changeCriteria(next domain.SearchCriteria) tea.Cmd {
	c.criteria = next
	c.resetIssued = false

	// A new sequence number invalidates any timer still in flight
	c.debounceSeq++
	c.debouncePending = true
	seq := c.debounceSeq
	return c.tick(c.quiescence, func(time.Time) tea.Msg {
		return DebounceMsg{Seq: seq}
	})
}

// HandleDebounce starts a reset search when msg belongs to the latest window
func (c *Controller) HandleDebounce(msg DebounceMsg) tea.Cmd {
	if c.closed || !c.debouncePending || msg.Seq != c.debounceSeq {
		return nil
	}
	c.debouncePending = false
	return c.ExecuteSearch(c.criteria, true)
}

// HandleScroll triggers a continuation when the viewport is near the end of the content
func (c *Controller) HandleScroll(m ScrollMetrics) tea.Cmd {
	if !m.NearEnd(c.threshold) {
		return nil
	}
	return c.TriggerContinuation()
}

// TriggerContinuation fetches the next page if one may be requested now
func (c *Controller) TriggerContinuation() tea.Cmd {
	if !c.CanContinue() {
		return nil
	}
	return c.ExecuteSearch(c.criteria, false)
}

// CanContinue reports whether a continuation would be issued
func (c *Controller) CanContinue() bool {
	return !c.closed &&
		!c.state.IsLoading &&
		c.state.HasMore &&
		c.resetIssued &&
		!c.criteria.IsEmpty()
}

// Refresh re-runs the current criteria from the first page
func (c *Controller) Refresh() tea.Cmd {
	if c.closed {
		return nil
	}
	c.debounceSeq++
	c.debouncePending = false
	return c.ExecuteSearch(c.criteria, true)
}

// ExecuteSearch issues a page request for criteria. A reset discards the
// current list and everything still in flight; a continuation appends at Cursor.
func (c *Controller) ExecuteSearch(criteria domain.SearchCriteria, reset bool) tea.Cmd {
	if c.closed {
		return nil
	}

	if reset {
		c.criteria = criteria
		c.epoch++
		c.state = PaginationState{HasMore: true}

		if criteria.IsEmpty() {
			c.resetIssued = false
			c.lastErr = nil
			return nil
		}
		c.resetIssued = true
	}

	offset := 0
	if !reset {
		offset = c.state.Cursor
	}
	c.state.IsLoading = true

	epoch := c.epoch
	kind := domain.KindOf(reset)
	c.publish(eventbus.SearchRequestedEvent{
		Epoch:    epoch,
		Kind:     kind,
		Offset:   offset,
		Criteria: criteria,
	})

	ctx := c.ctx
	searcher := c.searcher
	timeout := c.timeout
	now := c.now

	return func() tea.Msg {
		reqCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		start := now()
		page, err := searcher.Search(reqCtx, criteria, offset)
		return PageMsg{
			Epoch:   epoch,
			Reset:   reset,
			Offset:  offset,
			Page:    page,
			Err:     err,
			Latency: now().Sub(start),
		}
	}
}

// HandlePage merges a settled page request. Responses from an earlier epoch
// are dropped without touching any state.
func (c *Controller) HandlePage(msg PageMsg) {
	kind := domain.KindOf(msg.Reset)

	if msg.Epoch != c.epoch {
		c.publish(eventbus.StaleResponseDiscardedEvent{
			Epoch:        msg.Epoch,
			CurrentEpoch: c.epoch,
			Kind:         kind,
		})
		return
	}

	c.state.IsLoading = false

	if msg.Err != nil {
		c.lastErr = msg.Err
		if msg.Reset {
			// Nothing to continue from; Refresh or a criteria change retries
			c.resetIssued = false
		}
		c.publish(eventbus.SearchFailedEvent{
			Epoch:   msg.Epoch,
			Kind:    kind,
			Offset:  msg.Offset,
			Err:     msg.Err,
			Latency: msg.Latency,
		})
		return
	}

	c.lastErr = nil
	n := len(msg.Page.Results)

	if msg.Reset {
		c.state.TotalCount = msg.Page.Total
		c.state.Results = slices.Clone(msg.Page.Results)
	} else if n > 0 {
		c.state.Results = append(c.state.Results, msg.Page.Results...)
	}

	if n == 0 {
		c.state.HasMore = false
	}
	c.state.Cursor += n

	c.publish(eventbus.SearchCompletedEvent{
		Epoch:    msg.Epoch,
		Kind:     kind,
		Offset:   msg.Offset,
		Received: n,
		Total:    msg.Page.Total,
		Latency:  msg.Latency,
	})
}

// Snapshot returns a copy of the pagination state
func (c *Controller) Snapshot() PaginationState {
	s := c.state
	s.Results = slices.Clone(c.state.Results)
	return s
}

// Criteria returns the current criteria
func (c *Controller) Criteria() domain.SearchCriteria {
	return c.criteria
}

// LastError returns the most recent failure of the current epoch, cleared by the next success
func (c *Controller) LastError() error {
	return c.lastErr
}

// Epoch returns the current result-list generation
func (c *Controller) Epoch() uint64 {
	return c.epoch
}

// Pending reports whether a criteria change is waiting out its debounce window
func (c *Controller) Pending() bool {
	return c.debouncePending
}

// Searched reports whether a reset has been issued for the current criteria
func (c *Controller) Searched() bool {
	return c.resetIssued
}

// Close cancels in-flight requests; their late results will be stale
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.debouncePending = false
	c.epoch++
	c.cancel()
}

func (c *Controller) publish(event eventbus.DomainEvent) {
	if c.bus != nil {
		c.bus.Publish(event)
	}
}
