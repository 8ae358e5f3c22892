package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/mock"

	"utsulog/internal/domain"
	"utsulog/internal/eventbus"
)

type MockSearcher struct {
	mock.Mock
}

func (m *MockSearcher) Search(ctx context.Context, criteria domain.SearchCriteria, offset int) (domain.SearchPage, error) {
	args := m.Called(ctx, criteria, offset)
	return args.Get(0).(domain.SearchPage), args.Error(1)
}

// recordingBus captures published events synchronously
type recordingBus struct {
	mu     sync.Mutex
	events []eventbus.DomainEvent
}

func (b *recordingBus) Publish(event eventbus.DomainEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) Subscribe(eventbus.EventType, eventbus.EventHandler) func() {
	return func() {}
}

func (b *recordingBus) ofType(t eventbus.EventType) []eventbus.DomainEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []eventbus.DomainEvent
	for _, e := range b.events {
		if e.Type() == t {
			out = append(out, e)
		}
	}
	return out
}

// fakeTicker fires immediately when the returned command runs and records requested delays
type fakeTicker struct {
	delays []time.Duration
}

func (f *fakeTicker) Tick(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	f.delays = append(f.delays, d)
	return func() tea.Msg {
		return fn(time.Now())
	}
}

func items(prefix string, n int) []domain.ResultItem {
	out := make([]domain.ResultItem, n)
	for i := range out {
		out[i] = domain.ResultItem{
			ID:      fmt.Sprintf("%s-%d", prefix, i),
			Message: prefix,
		}
	}
	return out
}

func page(total int, results []domain.ResultItem) domain.SearchPage {
	return domain.SearchPage{Total: total, Results: results}
}
