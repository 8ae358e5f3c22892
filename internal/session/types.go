package session

import (
	"context"
	"strings"
	"time"

	"utsulog/internal/domain"
)

// Searcher fetches one page of results. *api.Client implements it.
type Searcher interface {
	Search(ctx context.Context, criteria domain.SearchCriteria, offset int) (domain.SearchPage, error)
}

// PaginationState is the controller's view of the current result list
type PaginationState struct {
	Results    []domain.ResultItem
	Cursor     int // offset of the next continuation fetch
	HasMore    bool
	IsLoading  bool
	TotalCount int // as reported by the most recent reset page
}

// DebounceMsg is delivered when a quiescence window ends
type DebounceMsg struct {
	Seq uint64
}

// PageMsg carries the settlement of one page request back to the loop
type PageMsg struct {
	Epoch   uint64
	Reset   bool
	Offset  int
	Page    domain.SearchPage
	Err     error
	Latency time.Duration
}

// ScrollMetrics describes the result viewport in rows
type ScrollMetrics struct {
	ContentHeight  int // rows of rendered results
	Offset         int // first visible row
	ViewportHeight int
}

// NearEnd reports whether the bottom of the content is within threshold rows of view
func (m ScrollMetrics) NearEnd(threshold int) bool {
	return m.ContentHeight-m.Offset <= m.ViewportHeight+threshold
}

// FilterUpdate derives new criteria from the current ones
type FilterUpdate func(domain.SearchCriteria) domain.SearchCriteria

// SetExact sets the exact-match flag
func SetExact(exact bool) FilterUpdate {
	return func(c domain.SearchCriteria) domain.SearchCriteria {
		c.ExactMatch = exact
		return c
	}
}

// ToggleExact flips the exact-match flag
func ToggleExact() FilterUpdate {
	return func(c domain.SearchCriteria) domain.SearchCriteria {
		c.ExactMatch = !c.ExactMatch
		return c
	}
}

// SetAuthor filters by author name; blank clears the filter
func SetAuthor(name string) FilterUpdate {
	return func(c domain.SearchCriteria) domain.SearchCriteria {
		c.AuthorName = strings.TrimSpace(name)
		return c
	}
}

// SetVideo filters by video; blank clears the filter
func SetVideo(videoID string) FilterUpdate {
	return func(c domain.SearchCriteria) domain.SearchCriteria {
		c.VideoID = strings.TrimSpace(videoID)
		return c
	}
}

// ToggleVideo selects videoID, or clears the filter when it is already selected
func ToggleVideo(videoID string) FilterUpdate {
	return func(c domain.SearchCriteria) domain.SearchCriteria {
		if c.VideoID == videoID {
			c.VideoID = ""
		} else {
			c.VideoID = videoID
		}
		return c
	}
}

// SetDateFrom sets the inclusive lower date bound; nil clears it
func SetDateFrom(t *time.Time) FilterUpdate {
	return func(c domain.SearchCriteria) domain.SearchCriteria {
		return c.WithDateFrom(t)
	}
}

// SetDateTo sets the inclusive upper date bound; nil clears it
func SetDateTo(t *time.Time) FilterUpdate {
	return func(c domain.SearchCriteria) domain.SearchCriteria {
		return c.WithDateTo(t)
	}
}

// SetSortOrder sets the sort order
func SetSortOrder(order domain.SortOrder) FilterUpdate {
	return func(c domain.SearchCriteria) domain.SearchCriteria {
		c.SortOrder = order
		return c
	}
}

// ToggleSortOrder flips between newest and oldest first
func ToggleSortOrder() FilterUpdate {
	return func(c domain.SearchCriteria) domain.SearchCriteria {
		c.SortOrder = c.SortOrder.Toggle()
		return c
	}
}

// SetMessageType restricts results by message type
func SetMessageType(t domain.MessageType) FilterUpdate {
	return func(c domain.SearchCriteria) domain.SearchCriteria {
		c.MessageType = t
		return c
	}
}

// CycleMessageType advances all → chat → transcript → all
func CycleMessageType() FilterUpdate {
	return func(c domain.SearchCriteria) domain.SearchCriteria {
		c.MessageType = c.MessageType.Next()
		return c
	}
}

// ClearFilters resets every filter to base, keeping the query text
func ClearFilters(base domain.SearchCriteria) FilterUpdate {
	return func(c domain.SearchCriteria) domain.SearchCriteria {
		base.QueryText = c.QueryText
		return base
	}
}

// Combine applies updates in order
func Combine(updates ...FilterUpdate) FilterUpdate {
	return func(c domain.SearchCriteria) domain.SearchCriteria {
		for _, u := range updates {
			c = u(c)
		}
		return c
	}
}
