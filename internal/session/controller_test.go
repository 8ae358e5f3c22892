package session

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"utsulog/internal/domain"
	"utsulog/internal/eventbus"
)

type harness struct {
	ctrl     *Controller
	searcher *MockSearcher
	bus      *recordingBus
	ticker   *fakeTicker
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		searcher: &MockSearcher{},
		bus:      &recordingBus{},
		ticker:   &fakeTicker{},
	}
	opts = append([]Option{WithTicker(h.ticker.Tick)}, opts...)
	h.ctrl = New(context.Background(), h.searcher, h.bus, opts...)
	t.Cleanup(func() {
		h.ctrl.Close()
		h.searcher.AssertExpectations(t)
	})
	return h
}

// fire runs a debounce timer command and hands its message to the controller
func (h *harness) fire(t *testing.T, timer tea.Cmd) tea.Cmd {
	t.Helper()
	require.NotNil(t, timer)
	msg, ok := timer().(DebounceMsg)
	require.True(t, ok)
	return h.ctrl.HandleDebounce(msg)
}

// settle runs a search command and merges its result
func (h *harness) settle(t *testing.T, search tea.Cmd) PageMsg {
	t.Helper()
	require.NotNil(t, search)
	msg, ok := search().(PageMsg)
	require.True(t, ok)
	h.ctrl.HandlePage(msg)
	return msg
}

func query(text string) interface{} {
	return mock.MatchedBy(func(c domain.SearchCriteria) bool {
		return c.QueryText == text
	})
}

func (h *harness) expect(text string, offset int, p domain.SearchPage, err error) {
	h.searcher.On("Search", mock.Anything, query(text), offset).Return(p, err).Once()
}

func TestInitialState(t *testing.T) {
	h := newHarness(t)

	s := h.ctrl.Snapshot()
	assert.Empty(t, s.Results)
	assert.Zero(t, s.Cursor)
	assert.True(t, s.HasMore)
	assert.False(t, s.IsLoading)
	assert.True(t, h.ctrl.Criteria().IsEmpty())
	assert.Nil(t, h.ctrl.TriggerContinuation(), "nothing to continue before any search")
}

func TestSetQueryTextUnchangedIsNoop(t *testing.T) {
	h := newHarness(t)

	assert.Nil(t, h.ctrl.SetQueryText(""))
	require.NotNil(t, h.ctrl.SetQueryText("おつ"))
	assert.Nil(t, h.ctrl.SetQueryText("おつ"))
	assert.Len(t, h.ticker.delays, 1)
}

func TestSetFilterUnchangedIsNoop(t *testing.T) {
	h := newHarness(t)

	assert.Nil(t, h.ctrl.SetFilter(SetAuthor("  ")))
	assert.Nil(t, h.ctrl.SetFilter(SetSortOrder(domain.SortDescending)))
	assert.Nil(t, h.ctrl.SetFilter(nil))
	assert.Empty(t, h.ticker.delays)
}

func TestDebounceUsesQuiescenceWindow(t *testing.T) {
	h := newHarness(t, WithQuiescence(450*time.Millisecond))

	h.ctrl.SetQueryText("a")
	require.Len(t, h.ticker.delays, 1)
	assert.Equal(t, 450*time.Millisecond, h.ticker.delays[0])
}

func TestDebounceCollapsesBurstIntoOneSearch(t *testing.T) {
	h := newHarness(t)
	h.expect("おつ", 0, page(1, items("a", 1)), nil)

	first := h.ctrl.SetQueryText("お")
	second := h.ctrl.SetQueryText("おつ")
	assert.True(t, h.ctrl.Pending())

	assert.Nil(t, h.fire(t, first), "superseded timer must not search")

	search := h.fire(t, second)
	require.NotNil(t, search)
	assert.False(t, h.ctrl.Pending())

	// A duplicate delivery of the winning tick does nothing
	assert.Nil(t, h.ctrl.HandleDebounce(DebounceMsg{Seq: 2}))

	h.settle(t, search)
	assert.Len(t, h.ctrl.Snapshot().Results, 1)
	h.searcher.AssertNumberOfCalls(t, "Search", 1)
}

func TestResetThenContinuationUntilExhausted(t *testing.T) {
	h := newHarness(t)
	h.expect("おつ", 0, page(57, items("p1", 20)), nil)
	h.expect("おつ", 20, page(57, items("p2", 20)), nil)
	h.expect("おつ", 40, page(57, nil), nil)

	search := h.fire(t, h.ctrl.SetQueryText("おつ"))
	assert.True(t, h.ctrl.Snapshot().IsLoading)
	h.settle(t, search)

	s := h.ctrl.Snapshot()
	assert.Len(t, s.Results, 20)
	assert.Equal(t, 20, s.Cursor)
	assert.Equal(t, 57, s.TotalCount)
	assert.True(t, s.HasMore)
	assert.False(t, s.IsLoading)

	msg := h.settle(t, h.ctrl.TriggerContinuation())
	assert.Equal(t, 20, msg.Offset)
	assert.False(t, msg.Reset)

	s = h.ctrl.Snapshot()
	assert.Len(t, s.Results, 40)
	assert.Equal(t, 40, s.Cursor)
	assert.Equal(t, "p1-0", s.Results[0].ID)
	assert.Equal(t, "p2-0", s.Results[20].ID)

	h.settle(t, h.ctrl.TriggerContinuation())

	s = h.ctrl.Snapshot()
	assert.False(t, s.HasMore)
	assert.Len(t, s.Results, 40)
	assert.Equal(t, 40, s.Cursor)
	assert.Equal(t, 57, s.TotalCount, "continuations never change the total")

	assert.Nil(t, h.ctrl.TriggerContinuation(), "exhausted sessions stop fetching")

	completed := h.bus.ofType(eventbus.EventSearchCompleted)
	require.Len(t, completed, 3)
	assert.True(t, completed[2].(eventbus.SearchCompletedEvent).Exhausted())
}

func TestNoOverlappingContinuations(t *testing.T) {
	h := newHarness(t)
	h.expect("x", 0, page(100, items("a", 20)), nil)
	h.expect("x", 20, page(100, items("b", 20)), nil)

	h.settle(t, h.fire(t, h.ctrl.SetQueryText("x")))

	cont := h.ctrl.TriggerContinuation()
	require.NotNil(t, cont)
	assert.Nil(t, h.ctrl.TriggerContinuation())
	assert.Nil(t, h.ctrl.HandleScroll(ScrollMetrics{ContentHeight: 10, ViewportHeight: 20}))

	h.settle(t, cont)
	assert.Len(t, h.ctrl.Snapshot().Results, 40)
}

func TestContinuationWaitsForResetOfNewCriteria(t *testing.T) {
	h := newHarness(t)
	h.expect("x", 0, page(100, items("a", 20)), nil)

	h.settle(t, h.fire(t, h.ctrl.SetQueryText("x")))
	require.True(t, h.ctrl.CanContinue())

	h.ctrl.SetQueryText("xy")
	assert.False(t, h.ctrl.CanContinue())
	assert.Nil(t, h.ctrl.TriggerContinuation(), "old cursor must not be used for new criteria")
}

func TestStaleResetResponseIsDiscarded(t *testing.T) {
	h := newHarness(t)
	h.expect("a", 0, page(5, items("a", 5)), nil)
	h.expect("ab", 0, page(2, items("ab", 2)), nil)

	slow := h.fire(t, h.ctrl.SetQueryText("a"))
	fast := h.fire(t, h.ctrl.SetQueryText("ab"))

	h.settle(t, fast)
	before := h.ctrl.Snapshot()
	require.Len(t, before.Results, 2)

	msg := h.settle(t, slow)
	assert.NotEqual(t, h.ctrl.Epoch(), msg.Epoch)
	assert.Equal(t, before, h.ctrl.Snapshot(), "stale response must not change state")

	stale := h.bus.ofType(eventbus.EventStaleResponseDiscarded)
	require.Len(t, stale, 1)
	assert.Equal(t, msg.Epoch, stale[0].(eventbus.StaleResponseDiscardedEvent).Epoch)
}

func TestStaleContinuationDoesNotClearLoading(t *testing.T) {
	h := newHarness(t)
	h.expect("a", 0, page(50, items("a", 20)), nil)
	h.expect("a", 20, page(50, items("late", 20)), nil)
	h.expect("b", 0, page(3, items("b", 3)), nil)

	h.settle(t, h.fire(t, h.ctrl.SetQueryText("a")))
	cont := h.ctrl.TriggerContinuation()
	reset := h.fire(t, h.ctrl.SetQueryText("b"))
	assert.True(t, h.ctrl.Snapshot().IsLoading)
	assert.Empty(t, h.ctrl.Snapshot().Results, "reset clears the list at once")

	h.settle(t, cont)
	s := h.ctrl.Snapshot()
	assert.True(t, s.IsLoading, "only the current epoch clears loading")
	assert.Empty(t, s.Results)

	h.settle(t, reset)
	s = h.ctrl.Snapshot()
	assert.False(t, s.IsLoading)
	require.Len(t, s.Results, 3)
	assert.Equal(t, "b-0", s.Results[0].ID)
}

func TestResetWithEmptyCriteriaClearsWithoutRequest(t *testing.T) {
	h := newHarness(t)
	h.expect("x", 0, page(30, items("a", 20)), nil)

	h.settle(t, h.fire(t, h.ctrl.SetQueryText("x")))
	epoch := h.ctrl.Epoch()

	assert.Nil(t, h.fire(t, h.ctrl.SetQueryText("   ")), "blank query must not hit the network")

	s := h.ctrl.Snapshot()
	assert.Empty(t, s.Results)
	assert.Zero(t, s.Cursor)
	assert.Zero(t, s.TotalCount)
	assert.True(t, s.HasMore)
	assert.False(t, s.IsLoading)
	assert.Greater(t, h.ctrl.Epoch(), epoch)
	assert.Nil(t, h.ctrl.TriggerContinuation())
}

func TestEmptyResetInvalidatesInFlightRequest(t *testing.T) {
	h := newHarness(t)
	h.expect("x", 0, page(30, items("a", 20)), nil)

	inflight := h.fire(t, h.ctrl.SetQueryText("x"))
	h.fire(t, h.ctrl.SetQueryText(""))

	h.settle(t, inflight)
	assert.Empty(t, h.ctrl.Snapshot().Results)
	assert.False(t, h.ctrl.Snapshot().IsLoading)
}

func TestFailureKeepsStateAndSurfacesError(t *testing.T) {
	h := newHarness(t)
	boom := errors.New("connection refused")
	h.expect("x", 0, page(40, items("a", 20)), nil)
	h.expect("x", 20, domain.SearchPage{}, boom)
	h.expect("x", 20, page(40, items("b", 20)), nil)

	h.settle(t, h.fire(t, h.ctrl.SetQueryText("x")))
	h.settle(t, h.ctrl.TriggerContinuation())

	s := h.ctrl.Snapshot()
	assert.Len(t, s.Results, 20)
	assert.Equal(t, 20, s.Cursor)
	assert.True(t, s.HasMore)
	assert.False(t, s.IsLoading)
	assert.ErrorIs(t, h.ctrl.LastError(), boom)

	failed := h.bus.ofType(eventbus.EventSearchFailed)
	require.Len(t, failed, 1)
	assert.Equal(t, 20, failed[0].(eventbus.SearchFailedEvent).Offset)

	// The same continuation can be retried
	h.settle(t, h.ctrl.TriggerContinuation())
	assert.Len(t, h.ctrl.Snapshot().Results, 40)
	assert.NoError(t, h.ctrl.LastError())
}

func TestFailedResetNeedsRefresh(t *testing.T) {
	h := newHarness(t)
	h.expect("x", 0, domain.SearchPage{}, errors.New("502"))
	h.expect("x", 0, page(1, items("a", 1)), nil)

	h.settle(t, h.fire(t, h.ctrl.SetQueryText("x")))
	assert.Error(t, h.ctrl.LastError())
	assert.Nil(t, h.ctrl.TriggerContinuation())

	h.settle(t, h.ctrl.Refresh())
	assert.Len(t, h.ctrl.Snapshot().Results, 1)
	assert.True(t, h.ctrl.CanContinue())
}

func TestResetFetchWithZeroResults(t *testing.T) {
	h := newHarness(t)
	h.expect("nothing", 0, page(0, nil), nil)

	h.settle(t, h.fire(t, h.ctrl.SetQueryText("nothing")))

	s := h.ctrl.Snapshot()
	assert.Empty(t, s.Results)
	assert.False(t, s.HasMore)
	assert.Zero(t, s.TotalCount)
	assert.True(t, h.ctrl.Searched())
}

func TestHandleScroll(t *testing.T) {
	h := newHarness(t, WithScrollThreshold(3))
	h.expect("x", 0, page(100, items("a", 20)), nil)
	h.expect("x", 20, page(100, items("b", 20)), nil)

	h.settle(t, h.fire(t, h.ctrl.SetQueryText("x")))

	assert.Nil(t, h.ctrl.HandleScroll(ScrollMetrics{ContentHeight: 100, Offset: 0, ViewportHeight: 20}))
	assert.Nil(t, h.ctrl.HandleScroll(ScrollMetrics{ContentHeight: 100, Offset: 76, ViewportHeight: 20}))

	cmd := h.ctrl.HandleScroll(ScrollMetrics{ContentHeight: 100, Offset: 77, ViewportHeight: 20})
	require.NotNil(t, cmd)
	h.settle(t, cmd)
	assert.Len(t, h.ctrl.Snapshot().Results, 40)
}

func TestScrollMetricsNearEnd(t *testing.T) {
	short := ScrollMetrics{ContentHeight: 5, Offset: 0, ViewportHeight: 30}
	assert.True(t, short.NearEnd(0), "content shorter than the viewport is always near the end")

	long := ScrollMetrics{ContentHeight: 200, Offset: 10, ViewportHeight: 30}
	assert.False(t, long.NearEnd(3))
}

func TestFilterChangeResets(t *testing.T) {
	h := newHarness(t)
	h.expect("x", 0, page(10, items("all", 10)), nil)
	h.searcher.On("Search", mock.Anything, mock.MatchedBy(func(c domain.SearchCriteria) bool {
		return c.QueryText == "x" && c.AuthorName == "alice" && c.ExactMatch
	}), 0).Return(page(2, items("alice", 2)), nil).Once()

	h.settle(t, h.fire(t, h.ctrl.SetQueryText("x")))

	timer := h.ctrl.SetFilter(Combine(SetAuthor("alice"), ToggleExact()))
	h.settle(t, h.fire(t, timer))

	s := h.ctrl.Snapshot()
	require.Len(t, s.Results, 2)
	assert.Equal(t, 2, s.TotalCount)
	assert.Equal(t, "alice-0", s.Results[0].ID)
}

func TestAuthorAloneIsSearchable(t *testing.T) {
	h := newHarness(t)
	h.searcher.On("Search", mock.Anything, mock.MatchedBy(func(c domain.SearchCriteria) bool {
		return c.QueryText == "" && c.AuthorName == "bob"
	}), 0).Return(page(1, items("bob", 1)), nil).Once()

	h.settle(t, h.fire(t, h.ctrl.SetFilter(SetAuthor("bob"))))
	assert.Len(t, h.ctrl.Snapshot().Results, 1)
}

func TestDateAndSortAloneAreNotSearchable(t *testing.T) {
	h := newHarness(t)
	from, err := domain.ParseDate("2024-01-01")
	require.NoError(t, err)

	assert.Nil(t, h.fire(t, h.ctrl.SetFilter(Combine(SetDateFrom(from), ToggleSortOrder()))))
	assert.Equal(t, domain.SortAscending, h.ctrl.Criteria().SortOrder)
}

func TestToggleVideo(t *testing.T) {
	c := domain.DefaultCriteria()

	c = ToggleVideo("v1")(c)
	assert.Equal(t, "v1", c.VideoID)
	c = ToggleVideo("v2")(c)
	assert.Equal(t, "v2", c.VideoID)
	c = ToggleVideo("v2")(c)
	assert.Empty(t, c.VideoID)
}

func TestClearFiltersKeepsQuery(t *testing.T) {
	c := domain.DefaultCriteria()
	c.QueryText = "おつ"
	c.AuthorName = "alice"
	c.MessageType = domain.MessageChat

	base := domain.DefaultCriteria()
	cleared := ClearFilters(base)(c)
	assert.Equal(t, "おつ", cleared.QueryText)
	assert.False(t, cleared.HasFilters())
}

func TestInitialCriteriaOption(t *testing.T) {
	initial := domain.DefaultCriteria()
	initial.ExactMatch = true
	h := newHarness(t, WithInitialCriteria(initial))

	assert.True(t, h.ctrl.Criteria().ExactMatch)
}

func TestRequestCarriesTimeout(t *testing.T) {
	h := newHarness(t, WithRequestTimeout(time.Second))
	h.searcher.On("Search", mock.MatchedBy(func(ctx context.Context) bool {
		deadline, ok := ctx.Deadline()
		return ok && time.Until(deadline) <= time.Second
	}), query("x"), 0).Return(page(0, nil), nil).Once()

	h.settle(t, h.fire(t, h.ctrl.SetQueryText("x")))
}

func TestCloseCancelsAndStalesInFlight(t *testing.T) {
	h := newHarness(t)
	h.searcher.On("Search", mock.Anything, query("x"), 0).
		Return(domain.SearchPage{}, context.Canceled).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			<-ctx.Done()
		}).Once()

	search := h.fire(t, h.ctrl.SetQueryText("x"))
	h.ctrl.Close()

	msg := h.settle(t, search)
	assert.ErrorIs(t, msg.Err, context.Canceled)
	assert.NoError(t, h.ctrl.LastError(), "late messages after close are stale")
	assert.Nil(t, h.ctrl.SetQueryText("y"))
	assert.Nil(t, h.ctrl.Refresh())
}

func TestRequestedEventsCarryOffsets(t *testing.T) {
	h := newHarness(t)
	h.expect("x", 0, page(40, items("a", 20)), nil)
	h.expect("x", 20, page(40, items("b", 20)), nil)

	h.settle(t, h.fire(t, h.ctrl.SetQueryText("x")))
	h.settle(t, h.ctrl.TriggerContinuation())

	requested := h.bus.ofType(eventbus.EventSearchRequested)
	require.Len(t, requested, 2)
	first := requested[0].(eventbus.SearchRequestedEvent)
	second := requested[1].(eventbus.SearchRequestedEvent)
	assert.Equal(t, domain.FetchReset, first.Kind)
	assert.Equal(t, 0, first.Offset)
	assert.Equal(t, domain.FetchContinuation, second.Kind)
	assert.Equal(t, 20, second.Offset)
	assert.Equal(t, first.Epoch, second.Epoch)
}

func TestSnapshotIsACopy(t *testing.T) {
	h := newHarness(t)
	h.expect("x", 0, page(1, items("a", 1)), nil)
	h.settle(t, h.fire(t, h.ctrl.SetQueryText("x")))

	s := h.ctrl.Snapshot()
	s.Results[0].ID = "changed"
	assert.Equal(t, "a-0", h.ctrl.Snapshot().Results[0].ID)
}
