package input

import (
	"maps"
	"slices"

	"utsulog/internal/domain"
	"utsulog/internal/ui/state"
)

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	State   *state.AppState
	Results []domain.ResultItem
	Current domain.SearchCriteria
}

// CurrentIndex returns the current selected index
func (c *ModelContext) CurrentIndex() int {
	return c.State.SelectedIndex
}

// TotalItems returns the number of loaded results
func (c *ModelContext) TotalItems() int {
	return len(c.Results)
}

// CurrentResult returns the selected result, if any
func (c *ModelContext) CurrentResult() (domain.ResultItem, bool) {
	i := c.State.SelectedIndex
	if i < 0 || i >= len(c.Results) {
		return domain.ResultItem{}, false
	}
	return c.Results[i], true
}

// Criteria returns the session's current criteria
func (c *ModelContext) Criteria() domain.SearchCriteria {
	return c.Current
}

// Videos returns the video catalog
func (c *ModelContext) Videos() []domain.Video {
	return c.State.Videos
}

// EmojiNames returns the custom emoji shortcodes in name order
func (c *ModelContext) EmojiNames() []string {
	return slices.Sorted(maps.Keys(c.State.Emojis))
}
